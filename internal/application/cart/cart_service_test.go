package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/cart"
	"github.com/mercato/backend/internal/domain/catalog"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/mercato/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCartRepository is a mock implementation of cart.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) FindActiveByBuyer(ctx context.Context, buyerID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepository) SaveWithLock(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductReader is a mock implementation of catalog.ProductRepository
type MockProductReader struct {
	mock.Mock
}

func (m *MockProductReader) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductReader) FindBySKU(ctx context.Context, sellerID uuid.UUID, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sellerID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductReader) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductReader) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, sellerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductReader) FindByStatus(ctx context.Context, status catalog.ProductStatus, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductReader) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductReader) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductReader) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductReader) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductReader) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductReader) CountBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductReader) ExistsBySKU(ctx context.Context, sellerID uuid.UUID, sku string) (bool, error) {
	args := m.Called(ctx, sellerID, sku)
	return args.Bool(0), args.Error(1)
}

func activeProduct(t *testing.T, price float64, stock int) *catalog.Product {
	product, err := catalog.NewProduct(uuid.New(), uuid.New(), "SKU-1", "Widget", "A widget",
		valueobject.NewMoneyUSDFromFloat(price), stock)
	require.NoError(t, err)
	require.NoError(t, product.SubmitForReview())
	require.NoError(t, product.Approve())
	product.ClearDomainEvents()
	return product
}

func TestCartService_AddItem(t *testing.T) {
	buyerID := uuid.New()

	t.Run("creates cart on first add", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductReader)
		svc := NewCartService(carts, products, zap.NewNop())
		product := activeProduct(t, 19.99, 10)

		products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		carts.On("FindActiveByBuyer", mock.Anything, buyerID).Return(nil, shared.ErrNotFound)
		carts.On("Save", mock.Anything, mock.AnythingOfType("*cart.Cart")).Return(nil)

		info, err := svc.AddItem(context.Background(), AddItemInput{
			BuyerID:   buyerID,
			ProductID: product.ID,
			Quantity:  2,
		})

		require.NoError(t, err)
		require.Len(t, info.Items, 1)
		assert.Equal(t, 2, info.Items[0].Quantity)
		assert.Equal(t, "39.98", info.GrandTotal.String())
	})

	t.Run("rejects inactive product", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductReader)
		svc := NewCartService(carts, products, zap.NewNop())

		draft, err := catalog.NewProduct(uuid.New(), uuid.New(), "SKU-2", "Gizmo", "",
			valueobject.NewMoneyUSDFromFloat(5), 3)
		require.NoError(t, err)

		products.On("FindByID", mock.Anything, draft.ID).Return(draft, nil)

		_, err = svc.AddItem(context.Background(), AddItemInput{
			BuyerID:   buyerID,
			ProductID: draft.ID,
			Quantity:  1,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PRODUCT_UNAVAILABLE", domainErr.Code)
	})

	t.Run("rejects quantity above stock", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductReader)
		svc := NewCartService(carts, products, zap.NewNop())
		product := activeProduct(t, 10, 3)

		products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		carts.On("FindActiveByBuyer", mock.Anything, buyerID).Return(nil, shared.ErrNotFound)

		_, err := svc.AddItem(context.Background(), AddItemInput{
			BuyerID:   buyerID,
			ProductID: product.ID,
			Quantity:  4,
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})
}

func TestCartService_UpdateAndRemove(t *testing.T) {
	buyerID := uuid.New()
	product := activeProduct(t, 10, 8)

	newCartWithItem := func(t *testing.T) *cart.Cart {
		c, err := cart.NewCart(buyerID)
		require.NoError(t, err)
		require.NoError(t, c.AddItem(product.ID, product.SellerID, product.Name, product.GetPriceMoney(), 2, product.StockQty))
		return c
	}

	t.Run("updates quantity", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductReader)
		svc := NewCartService(carts, products, zap.NewNop())
		c := newCartWithItem(t)

		carts.On("FindActiveByBuyer", mock.Anything, buyerID).Return(c, nil)
		products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		carts.On("Save", mock.Anything, c).Return(nil)

		info, err := svc.UpdateItemQuantity(context.Background(), UpdateItemInput{
			BuyerID:  buyerID,
			ItemID:   c.Items[0].ID,
			Quantity: 5,
		})

		require.NoError(t, err)
		assert.Equal(t, 5, info.Items[0].Quantity)
	})

	t.Run("removes item", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductReader)
		svc := NewCartService(carts, products, zap.NewNop())
		c := newCartWithItem(t)

		carts.On("FindActiveByBuyer", mock.Anything, buyerID).Return(c, nil)
		carts.On("Save", mock.Anything, c).Return(nil)

		info, err := svc.RemoveItem(context.Background(), buyerID, c.Items[0].ID)

		require.NoError(t, err)
		assert.Empty(t, info.Items)
	})
}

func TestCartService_GetCart(t *testing.T) {
	buyerID := uuid.New()

	t.Run("returns empty cart when none exists", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductReader)
		svc := NewCartService(carts, products, zap.NewNop())

		carts.On("FindActiveByBuyer", mock.Anything, buyerID).Return(nil, shared.ErrNotFound)

		info, err := svc.GetCart(context.Background(), buyerID)

		require.NoError(t, err)
		assert.Empty(t, info.Items)
		assert.True(t, info.GrandTotal.IsZero())
	})

	t.Run("reprices stale lines", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductReader)
		svc := NewCartService(carts, products, zap.NewNop())
		product := activeProduct(t, 10, 8)

		c, err := cart.NewCart(buyerID)
		require.NoError(t, err)
		require.NoError(t, c.AddItem(product.ID, product.SellerID, product.Name, product.GetPriceMoney(), 1, product.StockQty))

		require.NoError(t, product.ChangePrice(valueobject.NewMoneyUSDFromFloat(12.50)))

		carts.On("FindActiveByBuyer", mock.Anything, buyerID).Return(c, nil)
		products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		carts.On("Save", mock.Anything, c).Return(nil)

		info, err := svc.GetCart(context.Background(), buyerID)

		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{product.ID}, info.Repriced)
		assert.Equal(t, "12.5", info.Items[0].UnitPrice.String())
	})

	t.Run("drops lines whose product went off sale", func(t *testing.T) {
		carts := new(MockCartRepository)
		products := new(MockProductReader)
		svc := NewCartService(carts, products, zap.NewNop())
		product := activeProduct(t, 10, 8)

		c, err := cart.NewCart(buyerID)
		require.NoError(t, err)
		require.NoError(t, c.AddItem(product.ID, product.SellerID, product.Name, product.GetPriceMoney(), 1, product.StockQty))

		require.NoError(t, product.Archive())

		carts.On("FindActiveByBuyer", mock.Anything, buyerID).Return(c, nil)
		products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		carts.On("Save", mock.Anything, c).Return(nil)

		info, err := svc.GetCart(context.Background(), buyerID)

		require.NoError(t, err)
		assert.Empty(t, info.Items)
	})
}
