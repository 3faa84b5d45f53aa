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

// GormCommissionRuleRepository implements CommissionRuleRepository using GORM
type GormCommissionRuleRepository struct {
	db *gorm.DB
}

// NewGormCommissionRuleRepository creates a new GormCommissionRuleRepository
func NewGormCommissionRuleRepository(db *gorm.DB) *GormCommissionRuleRepository {
	return &GormCommissionRuleRepository{db: db}
}

// FindByID finds a rule by ID
func (r *GormCommissionRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.CommissionRule, error) {
	var model models.CommissionRuleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindCandidates returns enabled rules whose scope could cover the seller
// or category, including global rules. Time-window and priority matching
// happens in the domain layer.
func (r *GormCommissionRuleRepository) FindCandidates(ctx context.Context, sellerID, categoryID uuid.UUID) ([]*payment.CommissionRule, error) {
	var ruleModels []models.CommissionRuleModel
	if err := r.db.WithContext(ctx).
		Where("enabled = true").
		Where("seller_id IS NULL OR seller_id = ?", sellerID).
		Where("category_id IS NULL OR category_id = ?", categoryID).
		Order("priority DESC, created_at DESC").
		Find(&ruleModels).Error; err != nil {
		return nil, err
	}

	rules := make([]*payment.CommissionRule, len(ruleModels))
	for i := range ruleModels {
		rules[i] = ruleModels[i].ToDomain()
	}
	return rules, nil
}

// FindAll finds rules with filtering and pagination
func (r *GormCommissionRuleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]payment.CommissionRule, error) {
	var ruleModels []models.CommissionRuleModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CommissionRuleModel{}), filter)

	if err := query.Find(&ruleModels).Error; err != nil {
		return nil, err
	}

	rules := make([]payment.CommissionRule, len(ruleModels))
	for i := range ruleModels {
		rules[i] = *ruleModels[i].ToDomain()
	}
	return rules, nil
}

// Save creates or updates a rule
func (r *GormCommissionRuleRepository) Save(ctx context.Context, rule *payment.CommissionRule) error {
	var model models.CommissionRuleModel
	model.FromDomain(rule)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Count counts rules matching the filter
func (r *GormCommissionRuleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.CommissionRuleModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCommissionRuleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	field := ValidateSortField(filter.OrderBy, CommissionRuleSortFields, "priority")
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormCommissionRuleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "enabled":
			query = query.Where("enabled = ?", value)
		case "seller_id":
			query = query.Where("seller_id = ?", value)
		case "category_id":
			query = query.Where("category_id = ?", value)
		}
	}
	return query
}

// GormCommissionRecordRepository implements CommissionRecordRepository using
// GORM
type GormCommissionRecordRepository struct {
	db *gorm.DB
}

// NewGormCommissionRecordRepository creates a new GormCommissionRecordRepository
func NewGormCommissionRecordRepository(db *gorm.DB) *GormCommissionRecordRepository {
	return &GormCommissionRecordRepository{db: db}
}

// FindByID finds a record by ID
func (r *GormCommissionRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.CommissionRecord, error) {
	var model models.CommissionRecordModel
	if err := r.db.WithContext(ctx).
		Preload("Adjustments").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEscrowEntryID finds the record computed for an escrow entry
func (r *GormCommissionRecordRepository) FindByEscrowEntryID(ctx context.Context, escrowEntryID uuid.UUID) (*payment.CommissionRecord, error) {
	var model models.CommissionRecordModel
	if err := r.db.WithContext(ctx).
		Preload("Adjustments").
		First(&model, "escrow_entry_id = ?", escrowEntryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrderID finds the records for an order
func (r *GormCommissionRecordRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]payment.CommissionRecord, error) {
	var recordModels []models.CommissionRecordModel
	if err := r.db.WithContext(ctx).
		Preload("Adjustments").
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]payment.CommissionRecord, len(recordModels))
	for i := range recordModels {
		records[i] = *recordModels[i].ToDomain()
	}
	return records, nil
}

// Save creates or updates a record and its adjustments. Adjustments are
// append-only.
func (r *GormCommissionRecordRepository) Save(ctx context.Context, record *payment.CommissionRecord) error {
	var model models.CommissionRecordModel
	model.FromDomain(record)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Adjustments").Save(&model).Error; err != nil {
			return err
		}
		for i := range model.Adjustments {
			if err := tx.Save(&model.Adjustments[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
