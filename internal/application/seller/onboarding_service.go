package seller

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mercato/backend/internal/domain/seller"
	"github.com/mercato/backend/internal/domain/shared"
)

// OnboardingService handles seller applications and the profile lifecycle
type OnboardingService struct {
	profileRepo    seller.SellerProfileRepository
	kycRepo        seller.KYCSubmissionRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOnboardingService creates a new onboarding service
func NewOnboardingService(
	profileRepo seller.SellerProfileRepository,
	kycRepo seller.KYCSubmissionRepository,
	logger *zap.Logger,
) *OnboardingService {
	return &OnboardingService{
		profileRepo: profileRepo,
		kycRepo:     kycRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *OnboardingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Apply opens a PENDING seller application for a user. One profile per
// user, one slug per store.
func (s *OnboardingService) Apply(ctx context.Context, input ApplyInput) (*ProfileInfo, error) {
	exists, err := s.profileRepo.ExistsByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("PROFILE_EXISTS", "User already has a seller profile")
	}
	taken, err := s.profileRepo.ExistsBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("SLUG_TAKEN", "Store slug is already in use")
	}

	profile, err := seller.NewSellerProfile(input.UserID, input.StoreName, input.Slug,
		input.Description, input.BankAccount)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("Seller application received",
		zap.String("profile_id", profile.ID.String()),
		zap.String("slug", profile.Slug))

	s.publishEvents(ctx, profile.GetDomainEvents())
	profile.ClearDomainEvents()
	return ToProfileInfo(profile), nil
}

// Approve admits a pending seller whose identity documents passed review.
// The identity context promotes the user's role off the published event.
func (s *OnboardingService) Approve(ctx context.Context, profileID uuid.UUID) (*ProfileInfo, error) {
	profile, err := s.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	if err := s.requireApprovedKYC(ctx, profileID); err != nil {
		return nil, err
	}
	if err := profile.Approve(); err != nil {
		return nil, err
	}
	if err := s.profileRepo.SaveWithLock(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("Seller approved",
		zap.String("profile_id", profile.ID.String()),
		zap.String("user_id", profile.UserID.String()))

	s.publishEvents(ctx, profile.GetDomainEvents())
	profile.ClearDomainEvents()
	return ToProfileInfo(profile), nil
}

// Suspend blocks an approved seller from selling and payouts. The catalog
// context takes the seller's listings down off the published event.
func (s *OnboardingService) Suspend(ctx context.Context, input SuspendProfileInput) error {
	profile, err := s.profileRepo.FindByID(ctx, input.ProfileID)
	if err != nil {
		return err
	}
	if err := profile.Suspend(input.Reason); err != nil {
		return err
	}
	if err := s.profileRepo.SaveWithLock(ctx, profile); err != nil {
		return err
	}

	s.logger.Info("Seller suspended",
		zap.String("profile_id", profile.ID.String()),
		zap.String("reason", input.Reason))

	s.publishEvents(ctx, profile.GetDomainEvents())
	profile.ClearDomainEvents()
	return nil
}

// Reinstate lifts a suspension. Archived listings stay archived; the
// seller lists again from their dashboard.
func (s *OnboardingService) Reinstate(ctx context.Context, profileID uuid.UUID) error {
	profile, err := s.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return err
	}
	if err := profile.Reinstate(); err != nil {
		return err
	}
	if err := s.profileRepo.SaveWithLock(ctx, profile); err != nil {
		return err
	}

	s.logger.Info("Seller reinstated", zap.String("profile_id", profileID.String()))
	return nil
}

// UpdateStore edits the caller's storefront name and description
func (s *OnboardingService) UpdateStore(ctx context.Context, input UpdateStoreInput) (*ProfileInfo, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := profile.UpdateStore(input.StoreName, input.Description); err != nil {
		return nil, err
	}
	if err := s.profileRepo.SaveWithLock(ctx, profile); err != nil {
		return nil, err
	}
	return ToProfileInfo(profile), nil
}

// UpdateBankAccount replaces the caller's payout destination. Payouts
// already scheduled keep the reference they snapshotted.
func (s *OnboardingService) UpdateBankAccount(ctx context.Context, input UpdateBankAccountInput) (*ProfileInfo, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := profile.UpdateBankAccount(input.BankAccount); err != nil {
		return nil, err
	}
	if err := s.profileRepo.SaveWithLock(ctx, profile); err != nil {
		return nil, err
	}
	return ToProfileInfo(profile), nil
}

// GetMyProfile returns the caller's own profile
func (s *OnboardingService) GetMyProfile(ctx context.Context, userID uuid.UUID) (*ProfileInfo, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToProfileInfo(profile), nil
}

// GetProfile finds a profile by ID
func (s *OnboardingService) GetProfile(ctx context.Context, profileID uuid.UUID) (*ProfileInfo, error) {
	profile, err := s.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return ToProfileInfo(profile), nil
}

// GetStore finds a storefront by slug
func (s *OnboardingService) GetStore(ctx context.Context, slug string) (*ProfileInfo, error) {
	profile, err := s.profileRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return ToProfileInfo(profile), nil
}

// ListProfiles lists profiles with pagination (admin)
func (s *OnboardingService) ListProfiles(ctx context.Context, filter shared.Filter) (*shared.Paginated[*ProfileInfo], error) {
	profiles, err := s.profileRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.paginateProfiles(ctx, profiles, filter)
}

// ListPending returns the application review queue (admin)
func (s *OnboardingService) ListPending(ctx context.Context, filter shared.Filter) (*shared.Paginated[*ProfileInfo], error) {
	profiles, err := s.profileRepo.FindByStatus(ctx, seller.ProfileStatusPending, filter)
	if err != nil {
		return nil, err
	}
	return s.paginateProfiles(ctx, profiles, filter)
}

// requireApprovedKYC checks the seller's latest submission round passed.
// Submissions come back newest round first.
func (s *OnboardingService) requireApprovedKYC(ctx context.Context, profileID uuid.UUID) error {
	submissions, err := s.kycRepo.FindByProfile(ctx, profileID)
	if err != nil {
		return err
	}
	if len(submissions) == 0 {
		return shared.NewDomainError("KYC_MISSING", "Seller has not submitted identity documents")
	}
	if submissions[0].Status != seller.KYCStatusApproved {
		return shared.NewDomainError("KYC_NOT_APPROVED", "Seller's identity documents have not passed review")
	}
	return nil
}

func (s *OnboardingService) paginateProfiles(ctx context.Context, profiles []seller.SellerProfile, filter shared.Filter) (*shared.Paginated[*ProfileInfo], error) {
	total, err := s.profileRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	infos := make([]*ProfileInfo, 0, len(profiles))
	for i := range profiles {
		infos = append(infos, ToProfileInfo(&profiles[i]))
	}
	return shared.NewPaginated(infos, total, filter.Page, filter.PageSize), nil
}

func (s *OnboardingService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range events {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("Failed to publish event",
				zap.String("event_type", event.EventType()), zap.Error(err))
		}
	}
}
