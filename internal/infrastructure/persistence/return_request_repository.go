package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mercato/backend/internal/domain/order"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/mercato/backend/internal/infrastructure/persistence/models"
)

// GormReturnRequestRepository implements ReturnRequestRepository using GORM
type GormReturnRequestRepository struct {
	db *gorm.DB
}

// NewGormReturnRequestRepository creates a new GormReturnRequestRepository
func NewGormReturnRequestRepository(db *gorm.DB) *GormReturnRequestRepository {
	return &GormReturnRequestRepository{db: db}
}

// FindByID finds a return request by ID
func (r *GormReturnRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.ReturnRequest, error) {
	var model models.ReturnRequestModel
	if err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrder finds return requests for an order
func (r *GormReturnRequestRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]order.ReturnRequest, error) {
	var returnModels []models.ReturnRequestModel
	if err := r.db.WithContext(ctx).
		Preload("Messages").
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&returnModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(returnModels), nil
}

// FindByBuyer finds a buyer's return requests
func (r *GormReturnRequestRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) ([]order.ReturnRequest, error) {
	var returnModels []models.ReturnRequestModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ReturnRequestModel{}).
			Preload("Messages").
			Where("buyer_id = ?", buyerID),
		filter,
	)

	if err := query.Find(&returnModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(returnModels), nil
}

// FindBySeller finds return requests against a seller
func (r *GormReturnRequestRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]order.ReturnRequest, error) {
	var returnModels []models.ReturnRequestModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ReturnRequestModel{}).
			Preload("Messages").
			Where("seller_id = ?", sellerID),
		filter,
	)

	if err := query.Find(&returnModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(returnModels), nil
}

// FindByStatus finds return requests by status
func (r *GormReturnRequestRepository) FindByStatus(ctx context.Context, status order.ReturnStatus, filter shared.Filter) ([]order.ReturnRequest, error) {
	var returnModels []models.ReturnRequestModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.ReturnRequestModel{}).
			Preload("Messages").
			Where("status = ?", status),
		filter,
	)

	if err := query.Find(&returnModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(returnModels), nil
}

// SumReturnedQty sums quantities across open and refunded returns for an
// order item. Rejected and closed requests release their quantity back.
func (r *GormReturnRequestRepository) SumReturnedQty(ctx context.Context, orderItemID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.ReturnRequestModel{}).
		Where("order_item_id = ? AND status NOT IN ?", orderItemID,
			[]order.ReturnStatus{order.ReturnStatusRejected, order.ReturnStatusClosed}).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

// Save creates or updates a return request and its messages
func (r *GormReturnRequestRepository) Save(ctx context.Context, req *order.ReturnRequest) error {
	var model models.ReturnRequestModel
	model.FromDomain(req)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Messages").Save(&model).Error; err != nil {
			return err
		}
		return r.saveMessages(tx, &model)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormReturnRequestRepository) SaveWithLock(ctx context.Context, req *order.ReturnRequest) error {
	var model models.ReturnRequestModel
	model.FromDomain(req)
	model.Version = req.Version + 1

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ReturnRequestModel{}).
			Where("id = ? AND version = ?", req.ID, req.Version).
			Select("*").Omit("id", "created_at", "Messages").
			Updates(&model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The return request has been modified by another transaction")
		}
		return r.saveMessages(tx, &model)
	})
	if err != nil {
		return err
	}
	req.IncrementVersion()
	return nil
}

// Count counts return requests matching the filter
func (r *GormReturnRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ReturnRequestModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// saveMessages upserts the message thread. Messages are append-only.
func (r *GormReturnRequestRepository) saveMessages(tx *gorm.DB, model *models.ReturnRequestModel) error {
	for i := range model.Messages {
		if err := tx.Save(&model.Messages[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormReturnRequestRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	field := ValidateSortField(filter.OrderBy, ReturnSortFields, "created_at")
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

func (r *GormReturnRequestRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		case "seller_id":
			query = query.Where("seller_id = ?", value)
		}
	}
	return query
}

func (r *GormReturnRequestRepository) toDomainSlice(returnModels []models.ReturnRequestModel) []order.ReturnRequest {
	returns := make([]order.ReturnRequest, len(returnModels))
	for i := range returnModels {
		returns[i] = *returnModels[i].ToDomain()
	}
	return returns
}
