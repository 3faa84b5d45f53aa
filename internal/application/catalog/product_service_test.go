package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/catalog"
	"github.com/mercato/backend/internal/domain/seller"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/mercato/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sellerID uuid.UUID, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sellerID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, sellerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByStatus(ctx context.Context, status catalog.ProductStatus, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) CountBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sellerID uuid.UUID, sku string) (bool, error) {
	args := m.Called(ctx, sellerID, sku)
	return args.Bool(0), args.Error(1)
}

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]catalog.Category, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindRoots(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) HasProducts(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockSellerProfileRepository is a mock implementation of seller.SellerProfileRepository
type MockSellerProfileRepository struct {
	mock.Mock
}

func (m *MockSellerProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*seller.SellerProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seller.SellerProfile), args.Error(1)
}

func (m *MockSellerProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*seller.SellerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seller.SellerProfile), args.Error(1)
}

func (m *MockSellerProfileRepository) FindBySlug(ctx context.Context, slug string) (*seller.SellerProfile, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seller.SellerProfile), args.Error(1)
}

func (m *MockSellerProfileRepository) FindAll(ctx context.Context, filter shared.Filter) ([]seller.SellerProfile, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]seller.SellerProfile), args.Error(1)
}

func (m *MockSellerProfileRepository) FindByStatus(ctx context.Context, status seller.ProfileStatus, filter shared.Filter) ([]seller.SellerProfile, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]seller.SellerProfile), args.Error(1)
}

func (m *MockSellerProfileRepository) Save(ctx context.Context, p *seller.SellerProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockSellerProfileRepository) SaveWithLock(ctx context.Context, p *seller.SellerProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockSellerProfileRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSellerProfileRepository) ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSellerProfileRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

type productServiceFixture struct {
	products  *MockProductRepository
	categories *MockCategoryRepository
	profiles  *MockSellerProfileRepository
	svc       *ProductService
}

func newProductServiceFixture() *productServiceFixture {
	products := new(MockProductRepository)
	categories := new(MockCategoryRepository)
	profiles := new(MockSellerProfileRepository)
	return &productServiceFixture{
		products:  products,
		categories: categories,
		profiles:  profiles,
		svc:       NewProductService(products, categories, profiles, zap.NewNop()),
	}
}

func approvedProfile(t *testing.T, userID uuid.UUID) *seller.SellerProfile {
	profile, err := seller.NewSellerProfile(userID, "Gadget Shop", "gadget-shop", "Gadgets", "DE89370400440532013000")
	require.NoError(t, err)
	require.NoError(t, profile.Approve())
	profile.ClearDomainEvents()
	return profile
}

func activeCategory(t *testing.T) *catalog.Category {
	category, err := catalog.NewCategory("Electronics", "electronics", nil)
	require.NoError(t, err)
	return category
}

func draftProduct(t *testing.T, sellerID, categoryID uuid.UUID) *catalog.Product {
	product, err := catalog.NewProduct(sellerID, categoryID, "SKU-1", "Widget", "A widget",
		valueobject.NewMoneyUSDFromFloat(19.99), 10)
	require.NoError(t, err)
	product.ClearDomainEvents()
	return product
}

func TestProductService_CreateProduct(t *testing.T) {
	sellerID := uuid.New()

	t.Run("creates draft for approved seller", func(t *testing.T) {
		f := newProductServiceFixture()
		category := activeCategory(t)

		f.profiles.On("FindByUserID", mock.Anything, sellerID).Return(approvedProfile(t, sellerID), nil)
		f.categories.On("FindByID", mock.Anything, category.ID).Return(category, nil)
		f.products.On("ExistsBySKU", mock.Anything, sellerID, "SKU-1").Return(false, nil)
		f.products.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

		info, err := f.svc.CreateProduct(context.Background(), CreateProductInput{
			SellerID:    sellerID,
			CategoryID:  category.ID,
			SKU:         "SKU-1",
			Name:        "Widget",
			Description: "A widget",
			Price:       19.99,
			StockQty:    10,
		})

		require.NoError(t, err)
		assert.Equal(t, "DRAFT", info.Status)
		assert.Equal(t, "SKU-1", info.SKU)
	})

	t.Run("rejects unapproved seller", func(t *testing.T) {
		f := newProductServiceFixture()
		pending, err := seller.NewSellerProfile(sellerID, "New Shop", "new-shop", "", "DE89370400440532013000")
		require.NoError(t, err)

		f.profiles.On("FindByUserID", mock.Anything, sellerID).Return(pending, nil)

		_, err = f.svc.CreateProduct(context.Background(), CreateProductInput{
			SellerID:   sellerID,
			CategoryID: uuid.New(),
			SKU:        "SKU-1",
			Name:       "Widget",
			Price:      5,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SELLER_NOT_APPROVED", domainErr.Code)
		f.products.AssertNotCalled(t, "Save")
	})

	t.Run("rejects duplicate SKU", func(t *testing.T) {
		f := newProductServiceFixture()
		category := activeCategory(t)

		f.profiles.On("FindByUserID", mock.Anything, sellerID).Return(approvedProfile(t, sellerID), nil)
		f.categories.On("FindByID", mock.Anything, category.ID).Return(category, nil)
		f.products.On("ExistsBySKU", mock.Anything, sellerID, "SKU-1").Return(true, nil)

		_, err := f.svc.CreateProduct(context.Background(), CreateProductInput{
			SellerID:   sellerID,
			CategoryID: category.ID,
			SKU:        "SKU-1",
			Name:       "Widget",
			Price:      5,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SKU_TAKEN", domainErr.Code)
	})
}

func TestProductService_Moderation(t *testing.T) {
	sellerID := uuid.New()
	category := activeCategory(t)

	t.Run("submit then approve activates listing", func(t *testing.T) {
		f := newProductServiceFixture()
		product := draftProduct(t, sellerID, category.ID)

		f.profiles.On("FindByUserID", mock.Anything, sellerID).Return(approvedProfile(t, sellerID), nil)
		f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		f.products.On("Save", mock.Anything, product).Return(nil)

		require.NoError(t, f.svc.SubmitForReview(context.Background(), product.ID, sellerID))
		assert.Equal(t, catalog.ProductStatusPendingReview, product.Status)

		require.NoError(t, f.svc.ApproveProduct(context.Background(), product.ID))
		assert.Equal(t, catalog.ProductStatusActive, product.Status)
	})

	t.Run("reject requires a reason", func(t *testing.T) {
		f := newProductServiceFixture()
		product := draftProduct(t, sellerID, category.ID)
		require.NoError(t, product.SubmitForReview())
		product.ClearDomainEvents()

		f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		err := f.svc.RejectProduct(context.Background(), RejectProductInput{
			ProductID: product.ID,
		})
		assert.Error(t, err)
		assert.Equal(t, catalog.ProductStatusPendingReview, product.Status)
	})

	t.Run("other seller cannot submit the listing", func(t *testing.T) {
		f := newProductServiceFixture()
		product := draftProduct(t, sellerID, category.ID)
		intruder := uuid.New()

		f.profiles.On("FindByUserID", mock.Anything, intruder).Return(approvedProfile(t, intruder), nil)
		f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		err := f.svc.SubmitForReview(context.Background(), product.ID, intruder)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "FORBIDDEN", domainErr.Code)
	})
}

func TestProductService_ChangePrice(t *testing.T) {
	sellerID := uuid.New()
	f := newProductServiceFixture()
	product := draftProduct(t, sellerID, uuid.New())

	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.products.On("SaveWithLock", mock.Anything, product).Return(nil)

	err := f.svc.ChangePrice(context.Background(), ChangePriceInput{
		ProductID: product.ID,
		SellerID:  sellerID,
		Price:     24.50,
	})

	require.NoError(t, err)
	assert.Equal(t, "24.5", product.Price.String())
}

func TestProductService_AdjustStock(t *testing.T) {
	sellerID := uuid.New()
	f := newProductServiceFixture()
	product := draftProduct(t, sellerID, uuid.New())

	f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	f.products.On("SaveWithLock", mock.Anything, product).Return(nil)

	require.NoError(t, f.svc.AdjustStock(context.Background(), AdjustStockInput{
		ProductID: product.ID,
		SellerID:  sellerID,
		Delta:     -4,
	}))
	assert.Equal(t, 6, product.StockQty)

	t.Run("cannot go negative", func(t *testing.T) {
		err := f.svc.AdjustStock(context.Background(), AdjustStockInput{
			ProductID: product.ID,
			SellerID:  sellerID,
			Delta:     -100,
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})
}

func TestProductService_ListSellerProducts(t *testing.T) {
	sellerID := uuid.New()
	f := newProductServiceFixture()
	product := draftProduct(t, sellerID, uuid.New())

	filter := shared.Filter{Page: 1, PageSize: 20}
	f.products.On("FindBySeller", mock.Anything, sellerID, filter).Return([]catalog.Product{*product}, nil)
	f.products.On("CountBySeller", mock.Anything, sellerID).Return(int64(1), nil)

	page, err := f.svc.ListSellerProducts(context.Background(), sellerID, filter)

	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "SKU-1", page.Items[0].SKU)
}
