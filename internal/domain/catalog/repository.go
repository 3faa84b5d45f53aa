package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by SKU within a seller's catalog
	FindBySKU(ctx context.Context, sellerID uuid.UUID, sku string) (*Product, error)

	// FindAll finds products with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindBySeller finds a seller's products
	FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]Product, error)

	// FindByStatus finds products by status (admin review queue)
	FindByStatus(ctx context.Context, status ProductStatus, filter shared.Filter) ([]Product, error)

	// FindActive finds publicly visible products with filtering
	FindActive(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountBySeller counts a seller's products
	CountBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error)

	// ExistsBySKU checks if a SKU already exists in a seller's catalog
	ExistsBySKU(ctx context.Context, sellerID uuid.UUID, sku string) (bool, error)
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindBySlug finds a category by slug
	FindBySlug(ctx context.Context, slug string) (*Category, error)

	// FindAll returns all categories ordered by sort order
	FindAll(ctx context.Context) ([]Category, error)

	// FindChildren returns the direct children of a category
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]Category, error)

	// FindRoots returns root categories
	FindRoots(ctx context.Context) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Delete deletes a category
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsBySlug checks if a slug is taken
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// HasProducts checks whether any product references the category
	HasProducts(ctx context.Context, id uuid.UUID) (bool, error)
}
