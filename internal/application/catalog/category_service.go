package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/catalog"
	"github.com/mercato/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CategoryService handles admin management of the category tree
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo catalog.CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// CreateCategory creates a category, optionally under a parent
func (s *CategoryService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryInfo, error) {
	if input.ParentID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *input.ParentID); err != nil {
			return nil, shared.NewDomainError("PARENT_NOT_FOUND", "Parent category not found")
		}
	}

	taken, err := s.categoryRepo.ExistsBySlug(ctx, input.Slug)
	if err != nil {
		s.logger.Error("Failed to check slug uniqueness", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create category")
	}
	if taken {
		return nil, shared.NewDomainError("SLUG_TAKEN", "A category with this slug already exists")
	}

	category, err := catalog.NewCategory(input.Name, input.Slug, input.ParentID)
	if err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		s.logger.Error("Failed to save category", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create category")
	}

	s.logger.Info("Category created",
		zap.String("category_id", category.ID.String()),
		zap.String("slug", category.Slug))

	info := ToCategoryInfo(category)
	return &info, nil
}

// UpdateCategory renames a category and updates its sort order.
// The slug is immutable once created.
func (s *CategoryService) UpdateCategory(ctx context.Context, input UpdateCategoryInput) (*CategoryInfo, error) {
	category, err := s.categoryRepo.FindByID(ctx, input.CategoryID)
	if err != nil {
		return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
	}

	if err := category.Rename(input.Name); err != nil {
		return nil, err
	}
	category.SortOrder = input.SortOrder
	category.UpdatedAt = time.Now()

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		s.logger.Error("Failed to save category", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update category")
	}

	info := ToCategoryInfo(category)
	return &info, nil
}

// SetCategoryActive toggles a category's public visibility
func (s *CategoryService) SetCategoryActive(ctx context.Context, categoryID uuid.UUID, active bool) error {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
	}

	if active {
		category.Activate()
	} else {
		category.Deactivate()
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		s.logger.Error("Failed to save category", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update category")
	}
	return nil
}

// DeleteCategory removes an empty category. Categories referenced by
// products or with children cannot be deleted.
func (s *CategoryService) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
	}

	hasProducts, err := s.categoryRepo.HasProducts(ctx, categoryID)
	if err != nil {
		s.logger.Error("Failed to check category products", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete category")
	}
	if hasProducts {
		return shared.NewDomainError("CATEGORY_IN_USE", "Category still has products")
	}

	children, err := s.categoryRepo.FindChildren(ctx, categoryID)
	if err != nil {
		s.logger.Error("Failed to check category children", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete category")
	}
	if len(children) > 0 {
		return shared.NewDomainError("CATEGORY_IN_USE", "Category still has subcategories")
	}

	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		s.logger.Error("Failed to delete category", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete category")
	}

	s.logger.Info("Category deleted", zap.String("category_id", categoryID.String()))
	return nil
}

// GetCategory returns a single category by ID
func (s *CategoryService) GetCategory(ctx context.Context, categoryID uuid.UUID) (*CategoryInfo, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
	}
	info := ToCategoryInfo(category)
	return &info, nil
}

// ListCategories returns the full category tree in sort order
func (s *CategoryService) ListCategories(ctx context.Context) ([]CategoryInfo, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list categories", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list categories")
	}

	infos := make([]CategoryInfo, 0, len(categories))
	for i := range categories {
		infos = append(infos, ToCategoryInfo(&categories[i]))
	}
	return infos, nil
}
