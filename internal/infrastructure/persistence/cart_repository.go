package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercato/backend/internal/domain/cart"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/mercato/backend/internal/infrastructure/persistence/models"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByID finds a cart by ID
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	var model models.CartModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByBuyer finds the buyer's ACTIVE cart, if any
func (r *GormCartRepository) FindActiveByBuyer(ctx context.Context, buyerID uuid.UUID) (*cart.Cart, error) {
	var model models.CartModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("buyer_id = ? AND status = ?", buyerID, cart.CartStatusActive).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a cart and its items
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	var model models.CartModel
	model.FromDomain(c)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(&model).Error; err != nil {
			return err
		}
		return r.saveItems(tx, &model)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormCartRepository) SaveWithLock(ctx context.Context, c *cart.Cart) error {
	var model models.CartModel
	model.FromDomain(c)
	model.Version = c.Version + 1

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.CartModel{}).
			Where("id = ? AND version = ?", c.ID, c.Version).
			Select("*").Omit("id", "created_at", "Items").
			Updates(&model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The cart has been modified by another transaction")
		}
		return r.saveItems(tx, &model)
	})
	if err != nil {
		return err
	}
	c.IncrementVersion()
	return nil
}

// Delete deletes a cart
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", id).Delete(&models.CartItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.CartModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// saveItems replaces the stored line set with the aggregate's current
// lines: removed lines are deleted, the rest upserted.
func (r *GormCartRepository) saveItems(tx *gorm.DB, model *models.CartModel) error {
	keep := make([]uuid.UUID, 0, len(model.Items))
	for i := range model.Items {
		keep = append(keep, model.Items[i].ID)
	}

	query := tx.Where("cart_id = ?", model.ID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	if err := query.Delete(&models.CartItemModel{}).Error; err != nil {
		return err
	}

	for i := range model.Items {
		if err := tx.Save(&model.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
