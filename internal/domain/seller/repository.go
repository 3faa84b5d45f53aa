package seller

import (
	"context"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared"
)

// SellerProfileRepository defines the interface for profile persistence
type SellerProfileRepository interface {
	// FindByID finds a profile by ID
	FindByID(ctx context.Context, id uuid.UUID) (*SellerProfile, error)

	// FindByUserID finds the profile owned by a user
	FindByUserID(ctx context.Context, userID uuid.UUID) (*SellerProfile, error)

	// FindBySlug finds a profile by store slug
	FindBySlug(ctx context.Context, slug string) (*SellerProfile, error)

	// FindAll finds profiles with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]SellerProfile, error)

	// FindByStatus finds profiles by status (admin review queue)
	FindByStatus(ctx context.Context, status ProfileStatus, filter shared.Filter) ([]SellerProfile, error)

	// Save creates or updates a profile
	Save(ctx context.Context, p *SellerProfile) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, p *SellerProfile) error

	// Count counts profiles matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByUserID checks whether the user already has a profile
	ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error)

	// ExistsBySlug checks whether a store slug is taken
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// KYCSubmissionRepository defines the interface for submission persistence
type KYCSubmissionRepository interface {
	// FindByID finds a submission by ID
	FindByID(ctx context.Context, id uuid.UUID) (*KYCSubmission, error)

	// FindByProfile finds all submissions for a profile, newest round first
	FindByProfile(ctx context.Context, sellerProfileID uuid.UUID) ([]KYCSubmission, error)

	// FindReviewQueue returns undecided submissions oldest first
	FindReviewQueue(ctx context.Context, filter shared.Filter) ([]KYCSubmission, error)

	// Save creates or updates a submission
	Save(ctx context.Context, k *KYCSubmission) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, k *KYCSubmission) error

	// Count counts submissions matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
