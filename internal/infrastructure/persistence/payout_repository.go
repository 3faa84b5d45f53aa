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

// GormPayoutRepository implements PayoutRepository using GORM
type GormPayoutRepository struct {
	db *gorm.DB
}

// NewGormPayoutRepository creates a new GormPayoutRepository
func NewGormPayoutRepository(db *gorm.DB) *GormPayoutRepository {
	return &GormPayoutRepository{db: db}
}

// FindByID finds a payout by ID
func (r *GormPayoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payout, error) {
	var model models.PayoutModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySeller finds a seller's payouts with filtering
func (r *GormPayoutRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]payment.Payout, error) {
	var payoutModels []models.PayoutModel
	query := r.db.WithContext(ctx).Model(&models.PayoutModel{}).
		Preload("Lines").
		Where("seller_id = ?", sellerID)

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "batch_id":
			query = query.Where("batch_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	field := ValidateSortField(filter.OrderBy, PayoutSortFields, "scheduled_for")
	if err := query.Order(field + " " + ValidateSortOrder(filter.OrderDir)).
		Find(&payoutModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(payoutModels), nil
}

// FindDue returns scheduled payouts whose scheduled or retry time has
// passed, oldest first
func (r *GormPayoutRepository) FindDue(ctx context.Context, at time.Time, limit int) ([]payment.Payout, error) {
	var payoutModels []models.PayoutModel
	query := r.db.WithContext(ctx).
		Preload("Lines").
		Where("status = ?", payment.PayoutStatusScheduled).
		Where("(next_retry_at IS NOT NULL AND next_retry_at <= ?) OR (next_retry_at IS NULL AND scheduled_for <= ?)", at, at).
		Order("scheduled_for ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&payoutModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(payoutModels), nil
}

// FindByBatch finds the payouts in a batch
func (r *GormPayoutRepository) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]payment.Payout, error) {
	var payoutModels []models.PayoutModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("batch_id = ?", batchID).
		Order("created_at ASC").
		Find(&payoutModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(payoutModels), nil
}

// Save creates or updates a payout and its lines
func (r *GormPayoutRepository) Save(ctx context.Context, p *payment.Payout) error {
	var model models.PayoutModel
	model.FromDomain(p)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(&model).Error; err != nil {
			return err
		}
		return r.saveLines(tx, &model)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPayoutRepository) SaveWithLock(ctx context.Context, p *payment.Payout) error {
	var model models.PayoutModel
	model.FromDomain(p)
	model.Version = p.Version + 1

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PayoutModel{}).
			Where("id = ? AND version = ?", p.ID, p.Version).
			Select("*").Omit("id", "created_at", "Lines").
			Updates(&model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The payout has been modified by another transaction")
		}
		return r.saveLines(tx, &model)
	})
	if err != nil {
		return err
	}
	p.IncrementVersion()
	return nil
}

// saveLines upserts payout lines. Lines are fixed once the payout is built.
func (r *GormPayoutRepository) saveLines(tx *gorm.DB, model *models.PayoutModel) error {
	for i := range model.Lines {
		if err := tx.Save(&model.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormPayoutRepository) toDomainSlice(payoutModels []models.PayoutModel) []payment.Payout {
	payouts := make([]payment.Payout, len(payoutModels))
	for i := range payoutModels {
		payouts[i] = *payoutModels[i].ToDomain()
	}
	return payouts
}
