package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercato/backend/internal/domain/payment"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/mercato/backend/internal/infrastructure/persistence/models"
)

// GormRefundRepository implements RefundRepository using GORM
type GormRefundRepository struct {
	db *gorm.DB
}

// NewGormRefundRepository creates a new GormRefundRepository
func NewGormRefundRepository(db *gorm.DB) *GormRefundRepository {
	return &GormRefundRepository{db: db}
}

// FindByID finds a refund by ID
func (r *GormRefundRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Refund, error) {
	var model models.RefundModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPaymentID finds all refunds against a payment
func (r *GormRefundRepository) FindByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]payment.Refund, error) {
	var refundModels []models.RefundModel
	if err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("created_at ASC").
		Find(&refundModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(refundModels), nil
}

// FindByReturnRequestID finds the refund for a return, if created
func (r *GormRefundRepository) FindByReturnRequestID(ctx context.Context, returnRequestID uuid.UUID) (*payment.Refund, error) {
	var model models.RefundModel
	if err := r.db.WithContext(ctx).
		First(&model, "return_request_id = ?", returnRequestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPending returns refunds awaiting gateway confirmation, oldest first
func (r *GormRefundRepository) FindPending(ctx context.Context, limit int) ([]payment.Refund, error) {
	var refundModels []models.RefundModel
	query := r.db.WithContext(ctx).
		Where("status = ?", payment.RefundStatusPending).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&refundModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(refundModels), nil
}

// Save creates or updates a refund
func (r *GormRefundRepository) Save(ctx context.Context, refund *payment.Refund) error {
	var model models.RefundModel
	model.FromDomain(refund)
	return r.db.WithContext(ctx).Save(&model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormRefundRepository) SaveWithLock(ctx context.Context, refund *payment.Refund) error {
	var model models.RefundModel
	model.FromDomain(refund)
	model.Version = refund.Version + 1

	result := r.db.WithContext(ctx).Model(&models.RefundModel{}).
		Where("id = ? AND version = ?", refund.ID, refund.Version).
		Select("*").Omit("id", "created_at").
		Updates(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The refund has been modified by another transaction")
	}
	refund.IncrementVersion()
	return nil
}

func (r *GormRefundRepository) toDomainSlice(refundModels []models.RefundModel) []payment.Refund {
	refunds := make([]payment.Refund, len(refundModels))
	for i := range refundModels {
		refunds[i] = *refundModels[i].ToDomain()
	}
	return refunds
}
