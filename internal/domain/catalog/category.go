package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared"
)

// Category represents a node in the product category tree.
// Categories are managed by admins; commission rules may target them.
type Category struct {
	shared.BaseEntity
	ParentID  *uuid.UUID
	Name      string
	Slug      string
	SortOrder int
	Active    bool
}

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// NewCategory creates a new category
func NewCategory(name, slug string, parentID *uuid.UUID) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}

	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		ParentID:   parentID,
		Name:       strings.TrimSpace(name),
		Slug:       slug,
		Active:     true,
	}, nil
}

// Rename changes the category name
func (c *Category) Rename(name string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.UpdatedAt = time.Now()
	return nil
}

// Deactivate hides the category from public browse
func (c *Category) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now()
}

// Activate makes the category visible again
func (c *Category) Activate() {
	c.Active = true
	c.UpdatedAt = time.Now()
}

// IsRoot returns true if the category has no parent
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// ValidateSlug checks a URL slug for validity
func ValidateSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot be empty")
	}
	if len(slug) > 100 {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot exceed 100 characters")
	}
	if !slugRegex.MatchString(slug) {
		return shared.NewDomainError("INVALID_SLUG", "Slug must be lowercase letters, digits, and hyphens")
	}
	return nil
}

func validateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return nil
}
