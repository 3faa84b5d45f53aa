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

// GormSellerProfileRepository implements SellerProfileRepository using GORM
type GormSellerProfileRepository struct {
	db *gorm.DB
}

// NewGormSellerProfileRepository creates a new GormSellerProfileRepository
func NewGormSellerProfileRepository(db *gorm.DB) *GormSellerProfileRepository {
	return &GormSellerProfileRepository{db: db}
}

// FindByID finds a profile by ID
func (r *GormSellerProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*seller.SellerProfile, error) {
	var model models.SellerProfileModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUserID finds the profile owned by a user
func (r *GormSellerProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*seller.SellerProfile, error) {
	var model models.SellerProfileModel
	if err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a profile by store slug
func (r *GormSellerProfileRepository) FindBySlug(ctx context.Context, slug string) (*seller.SellerProfile, error) {
	var model models.SellerProfileModel
	if err := r.db.WithContext(ctx).First(&model, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds profiles with filtering and pagination
func (r *GormSellerProfileRepository) FindAll(ctx context.Context, filter shared.Filter) ([]seller.SellerProfile, error) {
	var profileModels []models.SellerProfileModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SellerProfileModel{}), filter)

	if err := query.Find(&profileModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(profileModels), nil
}

// FindByStatus finds profiles by status
func (r *GormSellerProfileRepository) FindByStatus(ctx context.Context, status seller.ProfileStatus, filter shared.Filter) ([]seller.SellerProfile, error) {
	var profileModels []models.SellerProfileModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.SellerProfileModel{}).
			Where("status = ?", status),
		filter,
	)

	if err := query.Find(&profileModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(profileModels), nil
}

// Save creates or updates a profile
func (r *GormSellerProfileRepository) Save(ctx context.Context, p *seller.SellerProfile) error {
	var model models.SellerProfileModel
	model.FromDomain(p)
	return r.db.WithContext(ctx).Save(&model).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormSellerProfileRepository) SaveWithLock(ctx context.Context, p *seller.SellerProfile) error {
	var model models.SellerProfileModel
	model.FromDomain(p)
	model.Version = p.Version + 1

	result := r.db.WithContext(ctx).Model(&models.SellerProfileModel{}).
		Where("id = ? AND version = ?", p.ID, p.Version).
		Select("*").Omit("id", "created_at").
		Updates(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The seller profile has been modified by another transaction")
	}
	p.IncrementVersion()
	return nil
}

// Count counts profiles matching the filter
func (r *GormSellerProfileRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.SellerProfileModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByUserID checks whether the user already has a profile
func (r *GormSellerProfileRepository) ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SellerProfileModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsBySlug checks whether a store slug is taken
func (r *GormSellerProfileRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SellerProfileModel{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormSellerProfileRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	field := ValidateSortField(filter.OrderBy, SellerProfileSortFields, "created_at")
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormSellerProfileRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("store_name ILIKE ? OR slug ILIKE ?", searchPattern, searchPattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		}
	}
	return query
}

func (r *GormSellerProfileRepository) toDomainSlice(profileModels []models.SellerProfileModel) []seller.SellerProfile {
	profiles := make([]seller.SellerProfile, len(profileModels))
	for i := range profileModels {
		profiles[i] = *profileModels[i].ToDomain()
	}
	return profiles
}
