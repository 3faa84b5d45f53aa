package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercato/backend/internal/domain/payment"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/mercato/backend/internal/infrastructure/persistence/models"
)

// GormEscrowRepository implements EscrowRepository using GORM
type GormEscrowRepository struct {
	db *gorm.DB
}

// NewGormEscrowRepository creates a new GormEscrowRepository
func NewGormEscrowRepository(db *gorm.DB) *GormEscrowRepository {
	return &GormEscrowRepository{db: db}
}

// FindByID finds an escrow entry by ID
func (r *GormEscrowRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.EscrowEntry, error) {
	var model models.EscrowEntryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPaymentID finds the entries carved out of a payment
func (r *GormEscrowRepository) FindByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]payment.EscrowEntry, error) {
	var entryModels []models.EscrowEntryModel
	if err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("created_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(entryModels), nil
}

// FindByOrderID finds the entries backing an order
func (r *GormEscrowRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]payment.EscrowEntry, error) {
	var entryModels []models.EscrowEntryModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(entryModels), nil
}

// FindByOrderAndSeller finds a seller's entry for an order
func (r *GormEscrowRepository) FindByOrderAndSeller(ctx context.Context, orderID, sellerID uuid.UUID) (*payment.EscrowEntry, error) {
	var model models.EscrowEntryModel
	if err := r.db.WithContext(ctx).
		First(&model, "order_id = ? AND seller_id = ?", orderID, sellerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindReleasedUnsettled returns entries released within [from, to) that no
// settlement has claimed yet
func (r *GormEscrowRepository) FindReleasedUnsettled(ctx context.Context, sellerID uuid.UUID, from, to time.Time) ([]payment.EscrowEntry, error) {
	var entryModels []models.EscrowEntryModel
	if err := r.db.WithContext(ctx).
		Where("seller_id = ? AND status = ? AND settled_in IS NULL", sellerID, payment.EscrowStatusReleased).
		Where("released_at >= ? AND released_at < ?", from, to).
		Order("released_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(entryModels), nil
}

// FindPayable returns released entries with a positive net amount that no
// payout line references yet
func (r *GormEscrowRepository) FindPayable(ctx context.Context, sellerID uuid.UUID) ([]payment.EscrowEntry, error) {
	var entryModels []models.EscrowEntryModel
	covered := r.db.Model(&models.PayoutLineModel{}).Select("escrow_entry_id")
	if err := r.db.WithContext(ctx).
		Where("seller_id = ? AND status = ?", sellerID, payment.EscrowStatusReleased).
		Where("net_amount > 0").
		Where("id NOT IN (?)", covered).
		Order("released_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(entryModels), nil
}

// FindBySeller finds a seller's entries with filtering
func (r *GormEscrowRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]payment.EscrowEntry, error) {
	var entryModels []models.EscrowEntryModel
	query := r.db.WithContext(ctx).Model(&models.EscrowEntryModel{}).
		Where("seller_id = ?", sellerID)

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	field := ValidateSortField(filter.OrderBy, EscrowSortFields, "created_at")
	if err := query.Order(field + " " + ValidateSortOrder(filter.OrderDir)).
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(entryModels), nil
}

// SellersWithReleasedUnsettled lists the distinct sellers with entries
// released in [from, to) that no settlement has claimed
func (r *GormEscrowRepository) SellersWithReleasedUnsettled(ctx context.Context, from, to time.Time) ([]uuid.UUID, error) {
	var sellerIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.EscrowEntryModel{}).
		Where("status = ? AND settled_in IS NULL", payment.EscrowStatusReleased).
		Where("released_at >= ? AND released_at < ?", from, to).
		Distinct("seller_id").
		Pluck("seller_id", &sellerIDs).Error; err != nil {
		return nil, err
	}
	return sellerIDs, nil
}

// Save creates or updates an escrow entry
func (r *GormEscrowRepository) Save(ctx context.Context, e *payment.EscrowEntry) error {
	var model models.EscrowEntryModel
	model.FromDomain(e)
	return r.db.WithContext(ctx).Save(&model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormEscrowRepository) SaveWithLock(ctx context.Context, e *payment.EscrowEntry) error {
	var model models.EscrowEntryModel
	model.FromDomain(e)
	model.Version = e.Version + 1

	result := r.db.WithContext(ctx).Model(&models.EscrowEntryModel{}).
		Where("id = ? AND version = ?", e.ID, e.Version).
		Select("*").Omit("id", "created_at").
		Updates(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The escrow entry has been modified by another transaction")
	}
	e.IncrementVersion()
	return nil
}

func (r *GormEscrowRepository) toDomainSlice(entryModels []models.EscrowEntryModel) []payment.EscrowEntry {
	entries := make([]payment.EscrowEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = *entryModels[i].ToDomain()
	}
	return entries
}
