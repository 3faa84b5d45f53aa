package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mercato/backend/internal/infrastructure/auth"
	"github.com/mercato/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "mercato",
		MaxRefreshCount:        10,
	})
}

func tokenFor(t *testing.T, jwtService *auth.JWTService, email, role string) (*auth.TokenPair, auth.GenerateTokenInput) {
	t.Helper()
	input := auth.GenerateTokenInput{UserID: uuid.New(), Email: email, Role: role}
	pair, err := jwtService.GenerateTokenPair(input)
	require.NoError(t, err)
	return pair, input
}

func authGet(router *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthMiddleware(t *testing.T) {
	jwtService := newTestJWTService()
	pair, input := tokenFor(t, jwtService, "buyer@mercato.example", "BUYER")

	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtService))
	router.GET("/api/v1/orders", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetJWTUserID(c),
			"email":   GetJWTEmail(c),
			"role":    GetJWTRole(c),
		})
	})

	t.Run("valid access token populates claims", func(t *testing.T) {
		rec := authGet(router, "/api/v1/orders", "Bearer "+pair.AccessToken)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), input.UserID.String())
		assert.Contains(t, rec.Body.String(), input.Email)
		assert.Contains(t, rec.Body.String(), "BUYER")
	})

	t.Run("rejected requests", func(t *testing.T) {
		for name, bearer := range map[string]string{
			"missing header":       "",
			"bad header format":    "Basic token123",
			"empty token":          "Bearer ",
			"garbage token":        "Bearer invalid-token",
			"refresh token abused": "Bearer " + pair.RefreshToken,
		} {
			t.Run(name, func(t *testing.T) {
				rec := authGet(router, "/api/v1/orders", bearer)
				assert.Equal(t, http.StatusUnauthorized, rec.Code)
			})
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expiredSvc := auth.NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-at-least-32-chars",
			AccessTokenExpiration:  -time.Hour,
			RefreshTokenExpiration: 7 * 24 * time.Hour,
			Issuer:                 "mercato",
		})
		expiredPair, _ := tokenFor(t, expiredSvc, "buyer@mercato.example", "BUYER")

		r := gin.New()
		r.Use(JWTAuthMiddleware(expiredSvc))
		r.GET("/api/v1/orders", func(c *gin.Context) { c.Status(http.StatusOK) })

		rec := authGet(r, "/api/v1/orders", "Bearer "+expiredPair.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	jwtService := newTestJWTService()

	t.Run("configured paths and prefixes", func(t *testing.T) {
		cfg := DefaultJWTConfig(jwtService)
		cfg.SkipPaths = append(cfg.SkipPaths, "/public")
		cfg.SkipPathPrefixes = append(cfg.SkipPathPrefixes, "/static")

		router := gin.New()
		router.Use(JWTAuthMiddlewareWithConfig(cfg))
		router.GET("/public", func(c *gin.Context) { c.Status(http.StatusOK) })
		router.GET("/static/assets/logo.png", func(c *gin.Context) { c.Status(http.StatusOK) })

		assert.Equal(t, http.StatusOK, authGet(router, "/public", "").Code)
		assert.Equal(t, http.StatusOK, authGet(router, "/static/assets/logo.png", "").Code)
	})

	t.Run("default open paths", func(t *testing.T) {
		router := gin.New()
		router.Use(JWTAuthMiddleware(jwtService))

		openPaths := []string{
			"/health", "/healthz", "/ready",
			"/api/v1/health",
			"/api/v1/auth/register", "/api/v1/auth/login", "/api/v1/auth/refresh",
			"/api/v1/catalog/products",
		}
		for _, path := range openPaths {
			router.GET(path, func(c *gin.Context) { c.Status(http.StatusOK) })
		}
		for _, path := range openPaths {
			assert.Equal(t, http.StatusOK, authGet(router, path, "").Code, "path %s", path)
		}
	})
}

func TestJWTAccessors_Unauthenticated(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUserID(c))
	assert.Empty(t, GetJWTEmail(c))
	assert.Empty(t, GetJWTRole(c))
	assert.Panics(t, func() { MustGetJWTClaims(c) })
}

func TestRequireRole(t *testing.T) {
	jwtService := newTestJWTService()

	newRouter := func(roles ...string) *gin.Engine {
		router := gin.New()
		router.Use(JWTAuthMiddleware(jwtService))
		router.GET("/api/v1/admin/sellers", RequireRole(roles...), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return router
	}

	adminPair, _ := tokenFor(t, jwtService, "admin@mercato.example", "ADMIN")
	sellerPair, _ := tokenFor(t, jwtService, "seller@mercato.example", "SELLER")
	buyerPair, _ := tokenFor(t, jwtService, "buyer@mercato.example", "BUYER")

	t.Run("matching role passes", func(t *testing.T) {
		rec := authGet(newRouter("ADMIN"), "/api/v1/admin/sellers", "Bearer "+adminPair.AccessToken)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong role is forbidden", func(t *testing.T) {
		rec := authGet(newRouter("ADMIN"), "/api/v1/admin/sellers", "Bearer "+buyerPair.AccessToken)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("any of several roles passes", func(t *testing.T) {
		rec := authGet(newRouter("SELLER", "ADMIN"), "/api/v1/admin/sellers", "Bearer "+sellerPair.AccessToken)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("no claims at all is unauthorized", func(t *testing.T) {
		router := gin.New()
		router.GET("/api/v1/admin/sellers", RequireRole("ADMIN"), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		assert.Equal(t, http.StatusUnauthorized, authGet(router, "/api/v1/admin/sellers", "").Code)
	})
}

func TestOptionalJWTAuthMiddleware(t *testing.T) {
	jwtService := newTestJWTService()
	pair, input := tokenFor(t, jwtService, "buyer@mercato.example", "BUYER")

	var captured *auth.Claims
	router := gin.New()
	router.Use(OptionalJWTAuthMiddleware(jwtService))
	router.GET("/api/v1/catalog/products", func(c *gin.Context) {
		captured = GetJWTClaims(c)
		c.Status(http.StatusOK)
	})

	t.Run("anonymous browsing", func(t *testing.T) {
		captured = nil
		assert.Equal(t, http.StatusOK, authGet(router, "/api/v1/catalog/products", "").Code)
		assert.Nil(t, captured)
	})

	t.Run("valid token attaches claims", func(t *testing.T) {
		captured = nil
		assert.Equal(t, http.StatusOK, authGet(router, "/api/v1/catalog/products", "Bearer "+pair.AccessToken).Code)
		require.NotNil(t, captured)
		assert.Equal(t, input.UserID.String(), captured.UserID)
	})

	t.Run("invalid token is ignored", func(t *testing.T) {
		captured = nil
		assert.Equal(t, http.StatusOK, authGet(router, "/api/v1/catalog/products", "Bearer invalid-token").Code)
		assert.Nil(t, captured)
	})
}

func TestJWTAuthMiddleware_CustomOnError(t *testing.T) {
	jwtService := newTestJWTService()

	called := false
	cfg := DefaultJWTConfig(jwtService)
	cfg.OnError = func(c *gin.Context, err error) {
		called = true
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"custom": "error"})
	}

	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/api/v1/orders", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := authGet(router, "/api/v1/orders", "")
	assert.True(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
