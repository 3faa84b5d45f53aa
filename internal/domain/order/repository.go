package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindByBuyer finds a buyer's orders
	FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindBySeller finds orders containing lines for a seller
	FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindByStatus finds orders by status
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]Order, error)

	// FindDeliveredBefore finds DELIVERED orders whose delivery timestamp
	// is older than the cutoff (auto-completion candidates)
	FindDeliveredBefore(ctx context.Context, cutoff time.Time, limit int) ([]Order, error)

	// Save creates or updates an order and its items
	Save(ctx context.Context, o *Order) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, o *Order) error

	// CountByBuyer counts a buyer's orders
	CountByBuyer(ctx context.Context, buyerID uuid.UUID) (int64, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// GenerateOrderNumber generates a unique order number
	GenerateOrderNumber(ctx context.Context) (string, error)
}

// ReturnRequestRepository defines the interface for return persistence
type ReturnRequestRepository interface {
	// FindByID finds a return request by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ReturnRequest, error)

	// FindByOrder finds return requests for an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]ReturnRequest, error)

	// FindByBuyer finds a buyer's return requests
	FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) ([]ReturnRequest, error)

	// FindBySeller finds return requests against a seller
	FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]ReturnRequest, error)

	// FindByStatus finds return requests by status
	FindByStatus(ctx context.Context, status ReturnStatus, filter shared.Filter) ([]ReturnRequest, error)

	// SumReturnedQty sums quantities across non-terminal and refunded
	// returns for an order item, to cap cumulative return quantity
	SumReturnedQty(ctx context.Context, orderItemID uuid.UUID) (int, error)

	// Save creates or updates a return request and its messages
	Save(ctx context.Context, r *ReturnRequest) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, r *ReturnRequest) error

	// Count counts return requests matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
