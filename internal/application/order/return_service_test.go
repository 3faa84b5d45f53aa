package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/order"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/mercato/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockReturnRepo is a mock implementation of order.ReturnRequestRepository
type MockReturnRepo struct {
	mock.Mock
}

func (m *MockReturnRepo) FindByID(ctx context.Context, id uuid.UUID) (*order.ReturnRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.ReturnRequest), args.Error(1)
}

func (m *MockReturnRepo) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]order.ReturnRequest, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.ReturnRequest), args.Error(1)
}

func (m *MockReturnRepo) FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) ([]order.ReturnRequest, error) {
	args := m.Called(ctx, buyerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.ReturnRequest), args.Error(1)
}

func (m *MockReturnRepo) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]order.ReturnRequest, error) {
	args := m.Called(ctx, sellerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.ReturnRequest), args.Error(1)
}

func (m *MockReturnRepo) FindByStatus(ctx context.Context, status order.ReturnStatus, filter shared.Filter) ([]order.ReturnRequest, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.ReturnRequest), args.Error(1)
}

func (m *MockReturnRepo) SumReturnedQty(ctx context.Context, orderItemID uuid.UUID) (int, error) {
	args := m.Called(ctx, orderItemID)
	return args.Int(0), args.Error(1)
}

func (m *MockReturnRepo) Save(ctx context.Context, r *order.ReturnRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReturnRepo) SaveWithLock(ctx context.Context, r *order.ReturnRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReturnRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func deliveredOrder(t *testing.T, buyerID, sellerID uuid.UUID, qty int) *order.Order {
	o := paidOrder(t, buyerID, []order.NewOrderItemInput{{
		ProductID:   uuid.New(),
		SellerID:    sellerID,
		ProductName: "Widget",
		SKU:         "SKU-1",
		UnitPrice:   valueobject.NewMoneyUSDFromFloat(10),
		Quantity:    qty,
	}})
	require.NoError(t, o.ShipLine(o.Items[0].ID, sellerID, "UPS", "1Z999"))
	require.NoError(t, o.ConfirmDelivery())
	o.ClearDomainEvents()
	return o
}

func TestReturnService_RequestReturn(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()

	t.Run("opens a return for a delivered line", func(t *testing.T) {
		returns := new(MockReturnRepo)
		orders := new(MockOrderRepository)
		svc := NewReturnService(returns, orders, zap.NewNop())
		o := deliveredOrder(t, buyerID, sellerID, 3)

		orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		returns.On("SumReturnedQty", mock.Anything, o.Items[0].ID).Return(0, nil)
		returns.On("Save", mock.Anything, mock.AnythingOfType("*order.ReturnRequest")).Return(nil)

		info, err := svc.RequestReturn(context.Background(), RequestReturnInput{
			BuyerID:     buyerID,
			OrderID:     o.ID,
			OrderItemID: o.Items[0].ID,
			Quantity:    2,
			Reason:      "arrived damaged",
		})

		require.NoError(t, err)
		assert.Equal(t, "REQUESTED", info.Status)
		assert.Equal(t, "20", info.RefundAmount.String())
	})

	t.Run("caps cumulative quantity across returns", func(t *testing.T) {
		returns := new(MockReturnRepo)
		orders := new(MockOrderRepository)
		svc := NewReturnService(returns, orders, zap.NewNop())
		o := deliveredOrder(t, buyerID, sellerID, 3)

		orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		returns.On("SumReturnedQty", mock.Anything, o.Items[0].ID).Return(2, nil)

		_, err := svc.RequestReturn(context.Background(), RequestReturnInput{
			BuyerID:     buyerID,
			OrderID:     o.ID,
			OrderItemID: o.Items[0].ID,
			Quantity:    2,
			Reason:      "arrived damaged",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})

	t.Run("another buyer cannot open a return", func(t *testing.T) {
		returns := new(MockReturnRepo)
		orders := new(MockOrderRepository)
		svc := NewReturnService(returns, orders, zap.NewNop())
		o := deliveredOrder(t, buyerID, sellerID, 3)

		orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)

		_, err := svc.RequestReturn(context.Background(), RequestReturnInput{
			BuyerID:     uuid.New(),
			OrderID:     o.ID,
			OrderItemID: o.Items[0].ID,
			Quantity:    1,
			Reason:      "wrong size",
		})

		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestReturnService_Lifecycle(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()

	openReturn := func(t *testing.T, o *order.Order) *order.ReturnRequest {
		r, err := order.NewReturnRequest(o, o.Items[0].ID, 1, "arrived damaged", *o.DeliveredAt)
		require.NoError(t, err)
		r.ClearDomainEvents()
		return r
	}

	t.Run("approve, ship back, receive updates the order line", func(t *testing.T) {
		returns := new(MockReturnRepo)
		orders := new(MockOrderRepository)
		svc := NewReturnService(returns, orders, zap.NewNop())
		o := deliveredOrder(t, buyerID, sellerID, 2)
		r := openReturn(t, o)

		returns.On("FindByID", mock.Anything, r.ID).Return(r, nil)
		returns.On("SaveWithLock", mock.Anything, r).Return(nil)
		orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		orders.On("SaveWithLock", mock.Anything, o).Return(nil)

		require.NoError(t, svc.ApproveReturn(context.Background(), r.ID, sellerID))
		require.NoError(t, svc.MarkShippedBack(context.Background(), r.ID, buyerID))
		require.NoError(t, svc.ConfirmReceived(context.Background(), r.ID, sellerID))

		assert.Equal(t, order.ReturnStatusReceived, r.Status)
		assert.Equal(t, 1, o.Items[0].ReturnedQty)
	})

	t.Run("reject then close", func(t *testing.T) {
		returns := new(MockReturnRepo)
		orders := new(MockOrderRepository)
		svc := NewReturnService(returns, orders, zap.NewNop())
		o := deliveredOrder(t, buyerID, sellerID, 2)
		r := openReturn(t, o)

		returns.On("FindByID", mock.Anything, r.ID).Return(r, nil)
		returns.On("SaveWithLock", mock.Anything, r).Return(nil)

		require.NoError(t, svc.RejectReturn(context.Background(), RejectReturnInput{
			ReturnID: r.ID,
			SellerID: sellerID,
			Reason:   "item shows heavy use",
		}))
		require.NoError(t, svc.CloseReturn(context.Background(), r.ID))
		assert.Equal(t, order.ReturnStatusClosed, r.Status)
	})

	t.Run("only the line's seller may approve", func(t *testing.T) {
		returns := new(MockReturnRepo)
		orders := new(MockOrderRepository)
		svc := NewReturnService(returns, orders, zap.NewNop())
		o := deliveredOrder(t, buyerID, sellerID, 2)
		r := openReturn(t, o)

		returns.On("FindByID", mock.Anything, r.ID).Return(r, nil)

		err := svc.ApproveReturn(context.Background(), r.ID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestReturnService_PostMessage(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()
	returns := new(MockReturnRepo)
	orders := new(MockOrderRepository)
	svc := NewReturnService(returns, orders, zap.NewNop())
	o := deliveredOrder(t, buyerID, sellerID, 2)
	r, err := order.NewReturnRequest(o, o.Items[0].ID, 1, "arrived damaged", *o.DeliveredAt)
	require.NoError(t, err)
	r.ClearDomainEvents()

	returns.On("FindByID", mock.Anything, r.ID).Return(r, nil)
	returns.On("Save", mock.Anything, r).Return(nil)

	msg, err := svc.PostMessage(context.Background(), PostReturnMessageInput{
		ReturnID:   r.ID,
		AuthorID:   buyerID,
		AuthorRole: "BUYER",
		Body:       "Photos attached, the box was crushed.",
	})

	require.NoError(t, err)
	assert.Equal(t, "BUYER", msg.AuthorRole)

	t.Run("a stranger cannot post as the seller", func(t *testing.T) {
		_, err := svc.PostMessage(context.Background(), PostReturnMessageInput{
			ReturnID:   r.ID,
			AuthorID:   uuid.New(),
			AuthorRole: "SELLER",
			Body:       "Approved.",
		})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}
