package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// serveLogged runs a single request through GinMiddleware and returns the
// recorded "HTTP Request" entry plus the response.
func serveLogged(t *testing.T, level zapcore.Level, method, path string, handler gin.HandlerFunc, pre ...gin.HandlerFunc) (*observer.LoggedEntry, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(level)
	router := gin.New()
	for _, mw := range pre {
		router.Use(mw)
	}
	router.Use(GinMiddleware(zap.New(core)))
	router.Handle(method, path, handler)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)

	logs := recorded.All()
	for i := range logs {
		if logs[i].Message == "HTTP Request" {
			return &logs[i], w
		}
	}
	return nil, w
}

func loggedFields(entry *observer.LoggedEntry) map[string]zapcore.Field {
	fields := make(map[string]zapcore.Field)
	for _, f := range entry.Context {
		fields[f.Key] = f
	}
	return fields
}

func TestGinMiddleware(t *testing.T) {
	t.Run("successful request logged at info", func(t *testing.T) {
		entry, w := serveLogged(t, zapcore.InfoLevel, "GET", "/api/v1/products", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "ok"})
		})

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, entry)
		assert.Equal(t, zapcore.InfoLevel, entry.Level)
	})

	t.Run("client error logged at warn", func(t *testing.T) {
		entry, w := serveLogged(t, zapcore.WarnLevel, "GET", "/api/v1/orders/bad", func(c *gin.Context) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, entry)
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
	})

	t.Run("server error logged at error", func(t *testing.T) {
		entry, w := serveLogged(t, zapcore.ErrorLevel, "GET", "/api/v1/checkout", func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "escrow unavailable"})
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		require.NotNil(t, entry)
		assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	})

	t.Run("carries the request id set upstream", func(t *testing.T) {
		entry, _ := serveLogged(t, zapcore.InfoLevel, "GET", "/api/v1/orders", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "ok"})
		}, func(c *gin.Context) {
			c.Set("request_id", "req-crt-123")
			c.Next()
		})

		require.NotNil(t, entry)
		field, ok := loggedFields(entry)["request_id"]
		require.True(t, ok, "request_id should be in log fields")
		assert.Equal(t, "req-crt-123", field.String)
	})

	t.Run("records the query string", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		core, recorded := observer.New(zapcore.InfoLevel)
		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/api/v1/products", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "ok"})
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/products?q=keyboard&page=1", nil)
		router.ServeHTTP(w, req)

		logs := recorded.All()
		require.NotEmpty(t, logs)
		field, ok := loggedFields(&logs[0])["query"]
		require.True(t, ok, "query should be in log fields")
		assert.Contains(t, field.String, "q=keyboard")
	})

	t.Run("emits the standard request fields", func(t *testing.T) {
		entry, _ := serveLogged(t, zapcore.InfoLevel, "POST", "/api/v1/orders", func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"id": "ord-1"})
		})

		require.NotNil(t, entry)
		fields := loggedFields(entry)
		for _, key := range []string{"status", "latency", "client_ip", "user_agent", "method", "path"} {
			assert.Contains(t, fields, key)
		}
	})
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/api/v1/checkout", func(c *gin.Context) {
		panic("escrow ledger corrupted")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/checkout", nil)

	assert.NotPanics(t, func() {
		router.ServeHTTP(w, req)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	logs := recorded.All()
	require.NotEmpty(t, logs)
	assert.Contains(t, logs[0].Message, "Panic recovered")
}

func TestGetGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns the logger installed by the middleware", func(t *testing.T) {
		core, _ := observer.New(zapcore.InfoLevel)
		var retrieved *zap.Logger

		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/api/v1/products", func(c *gin.Context) {
			retrieved = GetGinLogger(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/products", nil)
		router.ServeHTTP(w, req)

		assert.NotNil(t, retrieved)
	})

	t.Run("falls back to a usable no-op logger", func(t *testing.T) {
		var retrieved *zap.Logger

		router := gin.New()
		router.GET("/api/v1/products", func(c *gin.Context) {
			retrieved = GetGinLogger(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/products", nil)
		router.ServeHTTP(w, req)

		require.NotNil(t, retrieved)
		assert.NotPanics(t, func() {
			retrieved.Info("catalog refreshed")
		})
	})
}
