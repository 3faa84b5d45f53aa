package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/mercato/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newHandlerContext(t *testing.T) (*BaseHandler, *gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	return &BaseHandler{}, c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetUserID(t *testing.T) {
	t.Run("parses the jwt user id", func(t *testing.T) {
		_, c, _ := newHandlerContext(t)
		userID := uuid.New()
		c.Set("jwt_user_id", userID.String())
		c.Set("jwt_role", "BUYER")

		got, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("errors without claims", func(t *testing.T) {
		_, c, _ := newHandlerContext(t)
		_, err := getUserID(c)
		assert.Error(t, err)
	})

	t.Run("errors on malformed id", func(t *testing.T) {
		_, c, _ := newHandlerContext(t)
		c.Set("jwt_user_id", "not-a-uuid")
		_, err := getUserID(c)
		assert.Error(t, err)
	})
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*gin.Context)
		expected string
	}{
		{"from context", func(c *gin.Context) { c.Set(RequestIDKey, "ctx-request-id") }, "ctx-request-id"},
		{"from header", func(c *gin.Context) { c.Request.Header.Set(RequestIDKey, "header-request-id") }, "header-request-id"},
		{"empty when unset", func(c *gin.Context) {}, ""},
		{"context beats header", func(c *gin.Context) {
			c.Set(RequestIDKey, "ctx-id")
			c.Request.Header.Set(RequestIDKey, "header-id")
		}, "ctx-id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c, _ := newHandlerContext(t)
			tt.setup(c)
			assert.Equal(t, tt.expected, getRequestID(c))
		})
	}
}

func TestBaseHandlerSuccessResponses(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, c, w := newHandlerContext(t)
		h.Success(c, map[string]string{"product_id": "prd-1"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decodeResponse(t, w).Success)
	})

	t.Run("success with pagination meta", func(t *testing.T) {
		h, c, w := newHandlerContext(t)
		h.SuccessWithMeta(c, []string{"prd-1", "prd-2"}, 100, 1, 10)

		resp := decodeResponse(t, w)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(100), resp.Meta.Total)
	})

	t.Run("created", func(t *testing.T) {
		h, c, w := newHandlerContext(t)
		h.Created(c, map[string]string{"id": "ord-1"})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, decodeResponse(t, w).Success)
	})

	t.Run("no content", func(t *testing.T) {
		h := &BaseHandler{}
		router := gin.New()
		router.DELETE("/api/v1/products/:id", func(c *gin.Context) {
			h.NoContent(c)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/v1/products/prd-1", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.Bytes())
	})
}

func TestBaseHandlerErrorMethods(t *testing.T) {
	tests := []struct {
		name         string
		method       func(*BaseHandler, *gin.Context)
		expectedCode int
		expectedErr  string
	}{
		{"BadRequest", func(h *BaseHandler, c *gin.Context) { h.BadRequest(c, "Invalid request") }, http.StatusBadRequest, dto.ErrCodeBadRequest},
		{"NotFound", func(h *BaseHandler, c *gin.Context) { h.NotFound(c, "Product not found") }, http.StatusNotFound, dto.ErrCodeNotFound},
		{"Unauthorized", func(h *BaseHandler, c *gin.Context) { h.Unauthorized(c, "Not authenticated") }, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"Forbidden", func(h *BaseHandler, c *gin.Context) { h.Forbidden(c, "Access denied") }, http.StatusForbidden, dto.ErrCodeForbidden},
		{"Conflict", func(h *BaseHandler, c *gin.Context) { h.Conflict(c, "Listing already exists") }, http.StatusConflict, dto.ErrCodeConflict},
		{"InternalError", func(h *BaseHandler, c *gin.Context) { h.InternalError(c, "Server error") }, http.StatusInternalServerError, dto.ErrCodeInternal},
		{"TooManyRequests", func(h *BaseHandler, c *gin.Context) { h.TooManyRequests(c, "Rate limit exceeded") }, http.StatusTooManyRequests, dto.ErrCodeRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, c, w := newHandlerContext(t)
			tt.method(h, c)

			resp := decodeResponse(t, w)
			assert.Equal(t, tt.expectedCode, w.Code)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
		})
	}

	t.Run("propagates the request id", func(t *testing.T) {
		h, c, w := newHandlerContext(t)
		c.Set(RequestIDKey, "req-crt-123")
		h.BadRequest(c, "Invalid request")

		assert.Equal(t, "req-crt-123", decodeResponse(t, w).Error.RequestID)
	})

	t.Run("error with explicit code", func(t *testing.T) {
		h, c, w := newHandlerContext(t)
		h.ErrorWithCode(c, dto.ErrCodeInsufficientStock, "Not enough inventory")

		resp := decodeResponse(t, w)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInsufficientStock, resp.Error.Code)
	})

	t.Run("unprocessable entity", func(t *testing.T) {
		h, c, w := newHandlerContext(t)
		h.UnprocessableEntity(c, dto.ErrCodeBusinessRule, "Escrow not yet released")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeBusinessRule, decodeResponse(t, w).Error.Code)
	})
}

func TestBaseHandlerValidationError(t *testing.T) {
	h, c, w := newHandlerContext(t)
	c.Set(RequestIDKey, "req-val-456")

	h.ValidationError(c, []dto.ValidationDetail{
		{Field: "email", Message: "Invalid format"},
		{Field: "quantity", Message: "Required"},
	})

	resp := decodeResponse(t, w)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-val-456", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
}

func TestBaseHandlerHandleDomainError(t *testing.T) {
	tests := []struct {
		err          error
		expectedCode int
		expectedErr  string
	}{
		{shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{shared.ErrAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists},
		{shared.ErrInvalidInput, http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{shared.ErrUnauthorized, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{shared.ErrForbidden, http.StatusForbidden, dto.ErrCodeForbidden},
		{shared.ErrInvalidState, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{shared.ErrConcurrencyConflict, http.StatusConflict, dto.ErrCodeConcurrencyConflict},
		{shared.ErrInsufficientStock, http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock},
		{shared.ErrInsufficientBalance, http.StatusUnprocessableEntity, dto.ErrCodeInsufficientBalance},
	}

	for _, tt := range tests {
		t.Run(tt.expectedErr, func(t *testing.T) {
			h, c, w := newHandlerContext(t)
			h.HandleDomainError(c, tt.err)

			resp := decodeResponse(t, w)
			assert.Equal(t, tt.expectedCode, w.Code)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
		})
	}

	t.Run("carries the request id", func(t *testing.T) {
		h, c, w := newHandlerContext(t)
		c.Set(RequestIDKey, "req-domain-err")
		h.HandleDomainError(c, shared.ErrNotFound)

		assert.Equal(t, "req-domain-err", decodeResponse(t, w).Error.RequestID)
	})

	t.Run("unknown errors collapse to internal", func(t *testing.T) {
		h, c, w := newHandlerContext(t)
		h.HandleDomainError(c, assert.AnError)

		resp := decodeResponse(t, w)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
		assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
	})
}

func TestBaseHandlerHandleError(t *testing.T) {
	t.Run("nil error writes nothing", func(t *testing.T) {
		h, c, w := newHandlerContext(t)
		h.HandleError(c, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("domain error", func(t *testing.T) {
		h, c, w := newHandlerContext(t)
		h.HandleError(c, shared.ErrNotFound)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("standard error", func(t *testing.T) {
		h, c, w := newHandlerContext(t)
		h.HandleError(c, assert.AnError)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("wrapped domain error unwraps", func(t *testing.T) {
		h, c, w := newHandlerContext(t)
		h.HandleError(c, fmt.Errorf("loading order: %w", shared.ErrNotFound))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, decodeResponse(t, w).Error.Code)
	})
}
