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

// GormSettlementRepository implements SettlementRepository using GORM
type GormSettlementRepository struct {
	db *gorm.DB
}

// NewGormSettlementRepository creates a new GormSettlementRepository
func NewGormSettlementRepository(db *gorm.DB) *GormSettlementRepository {
	return &GormSettlementRepository{db: db}
}

// FindByID finds a settlement by ID
func (r *GormSettlementRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Settlement, error) {
	var model models.SettlementModel
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

// FindCurrent returns the non-superseded settlement for the seller and
// period, or shared.ErrNotFound
func (r *GormSettlementRepository) FindCurrent(ctx context.Context, sellerID uuid.UUID, year int, month time.Month) (*payment.Settlement, error) {
	var model models.SettlementModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("seller_id = ? AND period_year = ? AND period_month = ? AND superseded = false",
			sellerID, year, int(month)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySeller finds a seller's settlements with filtering
func (r *GormSettlementRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]payment.Settlement, error) {
	var settlementModels []models.SettlementModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.SettlementModel{}).
			Preload("Lines").
			Where("seller_id = ?", sellerID),
		filter,
	)

	if err := query.Find(&settlementModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(settlementModels), nil
}

// FindAll finds settlements with filtering and pagination
func (r *GormSettlementRepository) FindAll(ctx context.Context, filter shared.Filter) ([]payment.Settlement, error) {
	var settlementModels []models.SettlementModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.SettlementModel{}).Preload("Lines"),
		filter,
	)

	if err := query.Find(&settlementModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(settlementModels), nil
}

// Save creates or updates a settlement and its lines
func (r *GormSettlementRepository) Save(ctx context.Context, s *payment.Settlement) error {
	var model models.SettlementModel
	model.FromDomain(s)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(&model).Error; err != nil {
			return err
		}
		return r.saveLines(tx, &model)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormSettlementRepository) SaveWithLock(ctx context.Context, s *payment.Settlement) error {
	var model models.SettlementModel
	model.FromDomain(s)
	model.Version = s.Version + 1

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.SettlementModel{}).
			Where("id = ? AND version = ?", s.ID, s.Version).
			Select("*").Omit("id", "created_at", "Lines").
			Updates(&model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The settlement has been modified by another transaction")
		}
		return r.saveLines(tx, &model)
	})
	if err != nil {
		return err
	}
	s.IncrementVersion()
	return nil
}

// Count counts settlements matching the filter
func (r *GormSettlementRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.SettlementModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// saveLines upserts settlement lines. Lines are fixed once the statement
// is generated.
func (r *GormSettlementRepository) saveLines(tx *gorm.DB, model *models.SettlementModel) error {
	for i := range model.Lines {
		if err := tx.Save(&model.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormSettlementRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	field := ValidateSortField(filter.OrderBy, SettlementSortFields, "created_at")
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormSettlementRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "seller_id":
			query = query.Where("seller_id = ?", value)
		case "period_year":
			query = query.Where("period_year = ?", value)
		case "period_month":
			query = query.Where("period_month = ?", value)
		case "superseded":
			query = query.Where("superseded = ?", value)
		}
	}
	return query
}

func (r *GormSettlementRepository) toDomainSlice(settlementModels []models.SettlementModel) []payment.Settlement {
	settlements := make([]payment.Settlement, len(settlementModels))
	for i := range settlementModels {
		settlements[i] = *settlementModels[i].ToDomain()
	}
	return settlements
}
