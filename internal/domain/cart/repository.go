package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByID finds a cart by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)

	// FindActiveByBuyer finds the buyer's ACTIVE cart, if any
	FindActiveByBuyer(ctx context.Context, buyerID uuid.UUID) (*Cart, error)

	// Save creates or updates a cart and its items
	Save(ctx context.Context, cart *Cart) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, cart *Cart) error

	// Delete deletes a cart
	Delete(ctx context.Context, id uuid.UUID) error
}
