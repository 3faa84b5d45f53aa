package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/mercato/backend/internal/application/catalog"
	"github.com/mercato/backend/internal/domain/catalog"
	"github.com/mercato/backend/internal/domain/seller"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/mercato/backend/internal/domain/shared/valueobject"
	"github.com/mercato/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProductRepo is a mock implementation of catalog.ProductRepository
type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepo) FindBySKU(ctx context.Context, sellerID uuid.UUID, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sellerID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepo) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepo) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, sellerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepo) FindByStatus(ctx context.Context, status catalog.ProductStatus, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepo) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepo) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepo) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepo) CountBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepo) ExistsBySKU(ctx context.Context, sellerID uuid.UUID, sku string) (bool, error) {
	args := m.Called(ctx, sellerID, sku)
	return args.Bool(0), args.Error(1)
}

// MockCategoryRepo is a mock implementation of catalog.CategoryRepository
type MockCategoryRepo struct {
	mock.Mock
}

func (m *MockCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepo) FindBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepo) FindAll(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepo) FindChildren(ctx context.Context, parentID uuid.UUID) ([]catalog.Category, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepo) FindRoots(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepo) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepo) HasProducts(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockProfileRepo is a mock implementation of seller.SellerProfileRepository
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*seller.SellerProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seller.SellerProfile), args.Error(1)
}

func (m *MockProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*seller.SellerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seller.SellerProfile), args.Error(1)
}

func (m *MockProfileRepo) FindBySlug(ctx context.Context, slug string) (*seller.SellerProfile, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seller.SellerProfile), args.Error(1)
}

func (m *MockProfileRepo) FindAll(ctx context.Context, filter shared.Filter) ([]seller.SellerProfile, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]seller.SellerProfile), args.Error(1)
}

func (m *MockProfileRepo) FindByStatus(ctx context.Context, status seller.ProfileStatus, filter shared.Filter) ([]seller.SellerProfile, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]seller.SellerProfile), args.Error(1)
}

func (m *MockProfileRepo) Save(ctx context.Context, p *seller.SellerProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProfileRepo) SaveWithLock(ctx context.Context, p *seller.SellerProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProfileRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProfileRepo) ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileRepo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

type productHandlerFixture struct {
	products   *MockProductRepo
	categories *MockCategoryRepo
	profiles   *MockProfileRepo
	handler    *ProductHandler
}

func newProductHandlerFixture() *productHandlerFixture {
	products := new(MockProductRepo)
	categories := new(MockCategoryRepo)
	profiles := new(MockProfileRepo)
	svc := catalogapp.NewProductService(products, categories, profiles, zap.NewNop())
	return &productHandlerFixture{
		products:   products,
		categories: categories,
		profiles:   profiles,
		handler:    NewProductHandler(svc),
	}
}

// withAuthContext simulates the JWT middleware having run
func withAuthContext(userID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTUserIDKey, userID.String())
		c.Set(middleware.JWTRoleKey, role)
		c.Next()
	}
}

func setupProductRouter(f *productHandlerFixture, userID uuid.UUID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	catalogGroup := r.Group("/api/v1/catalog")
	{
		catalogGroup.GET("/products", f.handler.ListActive)
		catalogGroup.GET("/products/:id", f.handler.GetByID)
	}

	sellerGroup := r.Group("/api/v1/seller", withAuthContext(userID, role))
	{
		sellerGroup.POST("/products", f.handler.Create)
		sellerGroup.PUT("/products/:id", f.handler.Update)
		sellerGroup.PUT("/products/:id/price", f.handler.ChangePrice)
		sellerGroup.POST("/products/:id/stock", f.handler.AdjustStock)
		sellerGroup.POST("/products/:id/submit", f.handler.SubmitForReview)
		sellerGroup.POST("/products/:id/archive", f.handler.Archive)
		sellerGroup.GET("/products", f.handler.ListMine)
	}

	adminGroup := r.Group("/api/v1/admin", withAuthContext(userID, role))
	{
		adminGroup.GET("/products/review", f.handler.ListReviewQueue)
		adminGroup.POST("/products/:id/approve", f.handler.Approve)
		adminGroup.POST("/products/:id/reject", f.handler.Reject)
		adminGroup.POST("/products/:id/archive", f.handler.Archive)
	}

	return r
}

func approvedSellerProfile(t *testing.T, userID uuid.UUID) *seller.SellerProfile {
	t.Helper()
	profile, err := seller.NewSellerProfile(userID, "Gadget Shop", "gadget-shop", "Gadgets", "DE89370400440532013000")
	require.NoError(t, err)
	require.NoError(t, profile.Approve())
	profile.ClearDomainEvents()
	return profile
}

func newDraftProduct(t *testing.T, sellerID, categoryID uuid.UUID) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(sellerID, categoryID, "SKU-1", "Widget", "A widget",
		valueobject.NewMoneyUSDFromFloat(19.99), 10)
	require.NoError(t, err)
	product.ClearDomainEvents()
	return product
}

func TestProductHandler_Create_Success(t *testing.T) {
	sellerID := uuid.New()
	f := newProductHandlerFixture()
	router := setupProductRouter(f, sellerID, "SELLER")

	category, err := catalog.NewCategory("Electronics", "electronics", nil)
	require.NoError(t, err)

	f.profiles.On("FindByUserID", mock.Anything, sellerID).Return(approvedSellerProfile(t, sellerID), nil)
	f.categories.On("FindByID", mock.Anything, category.ID).Return(category, nil)
	f.products.On("ExistsBySKU", mock.Anything, sellerID, "SKU-1").Return(false, nil)
	f.products.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	body, _ := json.Marshal(map[string]interface{}{
		"category_id": category.ID,
		"sku":         "SKU-1",
		"name":        "Widget",
		"description": "A widget",
		"price":       19.99,
		"stock_qty":   10,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/seller/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response["success"].(bool))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "SKU-1", data["sku"])
	assert.Equal(t, "DRAFT", data["status"])
	assert.Equal(t, sellerID.String(), data["seller_id"])
}

func TestProductHandler_Create_MissingRequiredFields(t *testing.T) {
	sellerID := uuid.New()
	f := newProductHandlerFixture()
	router := setupProductRouter(f, sellerID, "SELLER")

	body, _ := json.Marshal(map[string]interface{}{
		"name": "Widget",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/seller/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.products.AssertNotCalled(t, "Save")
}

func TestProductHandler_Create_UnapprovedSeller(t *testing.T) {
	sellerID := uuid.New()
	f := newProductHandlerFixture()
	router := setupProductRouter(f, sellerID, "SELLER")

	pending, err := seller.NewSellerProfile(sellerID, "New Shop", "new-shop", "", "DE89370400440532013000")
	require.NoError(t, err)
	f.profiles.On("FindByUserID", mock.Anything, sellerID).Return(pending, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"category_id": uuid.New(),
		"sku":         "SKU-1",
		"name":        "Widget",
		"price":       5.0,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/seller/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestProductHandler_GetByID(t *testing.T) {
	sellerID := uuid.New()
	categoryID := uuid.New()
	f := newProductHandlerFixture()
	router := setupProductRouter(f, sellerID, "SELLER")

	product := newDraftProduct(t, sellerID, categoryID)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/"+product.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, product.ID.String(), data["id"])
}

func TestProductHandler_GetByID_InvalidID(t *testing.T) {
	f := newProductHandlerFixture()
	router := setupProductRouter(f, uuid.New(), "SELLER")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_GetByID_NotFound(t *testing.T) {
	f := newProductHandlerFixture()
	router := setupProductRouter(f, uuid.New(), "SELLER")

	missingID := uuid.New()
	f.products.On("FindByID", mock.Anything, missingID).Return(nil, fmt.Errorf("record not found"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products/"+missingID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHandler_ListActive(t *testing.T) {
	sellerID := uuid.New()
	categoryID := uuid.New()
	f := newProductHandlerFixture()
	router := setupProductRouter(f, sellerID, "SELLER")

	product := newDraftProduct(t, sellerID, categoryID)
	f.products.On("FindActive", mock.Anything, mock.Anything).Return([]catalog.Product{*product}, nil)
	f.products.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?page=1&page_size=20", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response["success"].(bool))
	meta := response["meta"].(map[string]interface{})
	assert.Equal(t, float64(1), meta["total"])
}

func TestProductHandler_SubmitForReview(t *testing.T) {
	sellerID := uuid.New()
	categoryID := uuid.New()
	f := newProductHandlerFixture()
	router := setupProductRouter(f, sellerID, "SELLER")

	product := newDraftProduct(t, sellerID, categoryID)
	f.profiles.On("FindByUserID", mock.Anything, sellerID).Return(approvedSellerProfile(t, sellerID), nil)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.products.On("Save", mock.Anything, product).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/seller/products/"+product.ID.String()+"/submit", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, catalog.ProductStatusPendingReview, product.Status)
}

func TestProductHandler_Reject_RequiresReason(t *testing.T) {
	f := newProductHandlerFixture()
	router := setupProductRouter(f, uuid.New(), "ADMIN")

	body, _ := json.Marshal(map[string]interface{}{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/"+uuid.New().String()+"/reject", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_Archive_AdminBypassesOwnership(t *testing.T) {
	adminID := uuid.New()
	otherSeller := uuid.New()
	categoryID := uuid.New()
	f := newProductHandlerFixture()
	router := setupProductRouter(f, adminID, "ADMIN")

	product := newDraftProduct(t, otherSeller, categoryID)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.products.On("Save", mock.Anything, product).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/"+product.ID.String()+"/archive", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, catalog.ProductStatusArchived, product.Status)
}

func TestProductHandler_ChangePrice(t *testing.T) {
	sellerID := uuid.New()
	categoryID := uuid.New()
	f := newProductHandlerFixture()
	router := setupProductRouter(f, sellerID, "SELLER")

	product := newDraftProduct(t, sellerID, categoryID)
	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.products.On("SaveWithLock", mock.Anything, product).Return(nil)

	body, _ := json.Marshal(map[string]interface{}{"price": 24.99})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/seller/products/"+product.ID.String()+"/price", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "24.99", product.Price.StringFixed(2))
}

func TestProductHandler_ListMine(t *testing.T) {
	sellerID := uuid.New()
	categoryID := uuid.New()
	f := newProductHandlerFixture()
	router := setupProductRouter(f, sellerID, "SELLER")

	product := newDraftProduct(t, sellerID, categoryID)
	f.products.On("FindBySeller", mock.Anything, sellerID, mock.Anything).Return([]catalog.Product{*product}, nil)
	f.products.On("CountBySeller", mock.Anything, sellerID).Return(int64(1), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/seller/products", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
