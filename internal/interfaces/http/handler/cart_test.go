package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cartapp "github.com/mercato/backend/internal/application/cart"
	"github.com/mercato/backend/internal/domain/cart"
	"github.com/mercato/backend/internal/domain/catalog"
	"github.com/mercato/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCartRepo is a mock implementation of cart.CartRepository
type MockCartRepo struct {
	mock.Mock
}

func (m *MockCartRepo) FindByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepo) FindActiveByBuyer(ctx context.Context, buyerID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepo) Save(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepo) SaveWithLock(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type cartHandlerFixture struct {
	carts    *MockCartRepo
	products *MockProductRepo
	handler  *CartHandler
}

func newCartHandlerFixture() *cartHandlerFixture {
	carts := new(MockCartRepo)
	products := new(MockProductRepo)
	service := cartapp.NewCartService(carts, products, zap.NewNop())
	return &cartHandlerFixture{
		carts:    carts,
		products: products,
		handler:  NewCartHandler(service),
	}
}

func setupCartRouter(f *cartHandlerFixture, buyerID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	api := router.Group("/api/v1", withAuthContext(buyerID, "BUYER"))
	{
		api.GET("/cart", f.handler.Get)
		api.DELETE("/cart", f.handler.Clear)
		api.POST("/cart/items", f.handler.AddItem)
		api.PUT("/cart/items/:id", f.handler.UpdateItem)
		api.DELETE("/cart/items/:id", f.handler.RemoveItem)
	}

	return router
}

func newActiveProduct(t *testing.T, sellerID uuid.UUID) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(sellerID, uuid.New(), "SKU-CART", "Widget", "A widget",
		valueobject.NewMoneyUSDFromFloat(19.99), 10)
	require.NoError(t, err)
	require.NoError(t, product.SubmitForReview())
	require.NoError(t, product.Approve())
	product.ClearDomainEvents()
	return product
}

func cartWithItem(t *testing.T, buyerID uuid.UUID, product *catalog.Product, qty int) *cart.Cart {
	t.Helper()
	buyerCart, err := cart.NewCart(buyerID)
	require.NoError(t, err)
	require.NoError(t, buyerCart.AddItem(
		product.ID, product.SellerID, product.Name, product.GetPriceMoney(), qty, product.StockQty))
	return buyerCart
}

func TestCartHandler_AddItem_Success(t *testing.T) {
	buyerID := uuid.New()
	f := newCartHandlerFixture()
	router := setupCartRouter(f, buyerID)

	product := newActiveProduct(t, uuid.New())

	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.carts.On("FindActiveByBuyer", mock.Anything, buyerID).Return(nil, errors.New("not found"))
	f.carts.On("Save", mock.Anything, mock.AnythingOfType("*cart.Cart")).Return(nil)

	body, _ := json.Marshal(map[string]any{
		"product_id": product.ID,
		"quantity":   2,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]any)
	items := data["items"].([]any)
	require.Len(t, items, 1)
	line := items[0].(map[string]any)
	assert.Equal(t, product.ID.String(), line["product_id"])
	assert.Equal(t, float64(2), line["quantity"])
	assert.Equal(t, "39.98", data["grand_total"])
}

func TestCartHandler_AddItem_InactiveProduct(t *testing.T) {
	buyerID := uuid.New()
	f := newCartHandlerFixture()
	router := setupCartRouter(f, buyerID)

	draft, err := catalog.NewProduct(uuid.New(), uuid.New(), "SKU-D", "Draft", "",
		valueobject.NewMoneyUSDFromFloat(5.00), 3)
	require.NoError(t, err)

	f.products.On("FindByID", mock.Anything, draft.ID).Return(draft, nil)

	body, _ := json.Marshal(map[string]any{
		"product_id": draft.ID,
		"quantity":   1,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	f.carts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCartHandler_AddItem_InvalidBody(t *testing.T) {
	buyerID := uuid.New()
	f := newCartHandlerFixture()
	router := setupCartRouter(f, buyerID)

	body, _ := json.Marshal(map[string]any{"quantity": 0})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestCartHandler_Get_EmptyWhenNoActiveCart(t *testing.T) {
	buyerID := uuid.New()
	f := newCartHandlerFixture()
	router := setupCartRouter(f, buyerID)

	f.carts.On("FindActiveByBuyer", mock.Anything, buyerID).Return(nil, errors.New("not found"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]any)
	assert.Equal(t, buyerID.String(), data["buyer_id"])
	assert.Empty(t, data["items"])
	assert.Equal(t, "0", data["grand_total"])
}

func TestCartHandler_Get_RepricesStaleLines(t *testing.T) {
	buyerID := uuid.New()
	f := newCartHandlerFixture()
	router := setupCartRouter(f, buyerID)

	product := newActiveProduct(t, uuid.New())
	buyerCart := cartWithItem(t, buyerID, product, 1)

	require.NoError(t, product.ChangePrice(valueobject.NewMoneyUSDFromFloat(24.99)))
	product.ClearDomainEvents()

	f.carts.On("FindActiveByBuyer", mock.Anything, buyerID).Return(buyerCart, nil)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.carts.On("Save", mock.Anything, buyerCart).Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]any)
	repriced := data["repriced"].([]any)
	require.Len(t, repriced, 1)
	assert.Equal(t, product.ID.String(), repriced[0])
	assert.Equal(t, "24.99", data["grand_total"])
}

func TestCartHandler_UpdateItem_Success(t *testing.T) {
	buyerID := uuid.New()
	f := newCartHandlerFixture()
	router := setupCartRouter(f, buyerID)

	product := newActiveProduct(t, uuid.New())
	buyerCart := cartWithItem(t, buyerID, product, 1)
	itemID := buyerCart.Items[0].ID

	f.carts.On("FindActiveByBuyer", mock.Anything, buyerID).Return(buyerCart, nil)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.carts.On("Save", mock.Anything, buyerCart).Return(nil)

	body, _ := json.Marshal(map[string]any{"quantity": 5})
	req := httptest.NewRequest(http.MethodPut,
		fmt.Sprintf("/api/v1/cart/items/%s", itemID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, buyerCart.Items[0].Quantity)
}

func TestCartHandler_RemoveItem_Success(t *testing.T) {
	buyerID := uuid.New()
	f := newCartHandlerFixture()
	router := setupCartRouter(f, buyerID)

	product := newActiveProduct(t, uuid.New())
	buyerCart := cartWithItem(t, buyerID, product, 2)
	itemID := buyerCart.Items[0].ID

	f.carts.On("FindActiveByBuyer", mock.Anything, buyerID).Return(buyerCart, nil)
	f.carts.On("Save", mock.Anything, buyerCart).Return(nil)

	req := httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/api/v1/cart/items/%s", itemID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, buyerCart.Items)
}

func TestCartHandler_RemoveItem_NoActiveCart(t *testing.T) {
	buyerID := uuid.New()
	f := newCartHandlerFixture()
	router := setupCartRouter(f, buyerID)

	f.carts.On("FindActiveByBuyer", mock.Anything, buyerID).Return(nil, errors.New("not found"))

	req := httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/api/v1/cart/items/%s", uuid.New()), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartHandler_Clear_Success(t *testing.T) {
	buyerID := uuid.New()
	f := newCartHandlerFixture()
	router := setupCartRouter(f, buyerID)

	product := newActiveProduct(t, uuid.New())
	buyerCart := cartWithItem(t, buyerID, product, 2)

	f.carts.On("FindActiveByBuyer", mock.Anything, buyerID).Return(buyerCart, nil)
	f.carts.On("Save", mock.Anything, buyerCart).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, buyerCart.Items)
}
