package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercato/backend/internal/domain/seller"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/mercato/backend/internal/infrastructure/persistence/models"
)

// GormKYCSubmissionRepository implements KYCSubmissionRepository using GORM
type GormKYCSubmissionRepository struct {
	db *gorm.DB
}

// NewGormKYCSubmissionRepository creates a new GormKYCSubmissionRepository
func NewGormKYCSubmissionRepository(db *gorm.DB) *GormKYCSubmissionRepository {
	return &GormKYCSubmissionRepository{db: db}
}

// FindByID finds a submission by ID
func (r *GormKYCSubmissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*seller.KYCSubmission, error) {
	var model models.KYCSubmissionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProfile finds all submissions for a profile, newest round first
func (r *GormKYCSubmissionRepository) FindByProfile(ctx context.Context, sellerProfileID uuid.UUID) ([]seller.KYCSubmission, error) {
	var submissionModels []models.KYCSubmissionModel
	if err := r.db.WithContext(ctx).
		Where("seller_profile_id = ?", sellerProfileID).
		Order("round DESC, created_at DESC").
		Find(&submissionModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(submissionModels), nil
}

// FindReviewQueue returns undecided submissions oldest first
func (r *GormKYCSubmissionRepository) FindReviewQueue(ctx context.Context, filter shared.Filter) ([]seller.KYCSubmission, error) {
	var submissionModels []models.KYCSubmissionModel
	query := r.db.WithContext(ctx).
		Where("status IN ?", []seller.KYCStatus{seller.KYCStatusSubmitted, seller.KYCStatusInReview})

	for key, value := range filter.Filters {
		switch key {
		case "document_type":
			query = query.Where("document_type = ?", value)
		case "reviewer_id":
			query = query.Where("reviewer_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Order("created_at ASC").Find(&submissionModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(submissionModels), nil
}

// Save creates or updates a submission
func (r *GormKYCSubmissionRepository) Save(ctx context.Context, k *seller.KYCSubmission) error {
	var model models.KYCSubmissionModel
	model.FromDomain(k)
	return r.db.WithContext(ctx).Save(&model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormKYCSubmissionRepository) SaveWithLock(ctx context.Context, k *seller.KYCSubmission) error {
	var model models.KYCSubmissionModel
	model.FromDomain(k)
	model.Version = k.Version + 1

	result := r.db.WithContext(ctx).Model(&models.KYCSubmissionModel{}).
		Where("id = ? AND version = ?", k.ID, k.Version).
		Select("*").Omit("id", "created_at").
		Updates(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The KYC submission has been modified by another transaction")
	}
	k.IncrementVersion()
	return nil
}

// Count counts submissions matching the filter. When no status filter is
// given the count covers the review queue.
func (r *GormKYCSubmissionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.KYCSubmissionModel{})

	if _, ok := filter.Filters["status"]; !ok {
		query = query.Where("status IN ?", []seller.KYCStatus{seller.KYCStatusSubmitted, seller.KYCStatusInReview})
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "document_type":
			query = query.Where("document_type = ?", value)
		case "seller_profile_id":
			query = query.Where("seller_profile_id = ?", value)
		}
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormKYCSubmissionRepository) toDomainSlice(submissionModels []models.KYCSubmissionModel) []seller.KYCSubmission {
	submissions := make([]seller.KYCSubmission, len(submissionModels))
	for i := range submissionModels {
		submissions[i] = *submissionModels[i].ToDomain()
	}
	return submissions
}
