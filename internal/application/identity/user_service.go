package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/identity"
	"github.com/mercato/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService handles account administration and profile management
type UserService struct {
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *UserService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetUser returns a user's public info
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	info := toUserInfo(user)
	return &info, nil
}

// ListUsers returns a paginated user listing for admins
func (s *UserService) ListUsers(ctx context.Context, filter shared.Filter) (*shared.Paginated[UserInfo], error) {
	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}
	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	infos := make([]UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, toUserInfo(&users[i]))
	}
	return shared.NewPaginated(infos, total, filter.Page, filter.PageSize), nil
}

// UpdateProfile updates a user's own profile
func (s *UserService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.UpdateProfile(input.DisplayName); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save profile update", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update profile")
	}

	info := toUserInfo(user)
	return &info, nil
}

// PromoteToSeller grants the SELLER role after seller approval
func (s *UserService) PromoteToSeller(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.PromoteToSeller(); err != nil {
		return err
	}
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		s.logger.Error("Failed to save role promotion", zap.Error(err))
		return err
	}

	s.publishEvents(ctx, user)
	s.logger.Info("User promoted to seller", zap.String("user_id", userID.String()))
	return nil
}

// SuspendUser blocks an account
func (s *UserService) SuspendUser(ctx context.Context, input SuspendUserInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.Suspend(input.Reason); err != nil {
		return err
	}
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		s.logger.Error("Failed to save suspension", zap.Error(err))
		return err
	}

	s.publishEvents(ctx, user)
	s.logger.Info("User suspended",
		zap.String("user_id", input.UserID.String()),
		zap.String("reason", input.Reason))
	return nil
}

// ReactivateUser lifts a suspension
func (s *UserService) ReactivateUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.Reactivate(); err != nil {
		return err
	}
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		s.logger.Error("Failed to save reactivation", zap.Error(err))
		return err
	}

	s.logger.Info("User reactivated", zap.String("user_id", userID.String()))
	return nil
}

// DeleteUser soft deletes an account
func (s *UserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.MarkDeleted(); err != nil {
		return err
	}
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		s.logger.Error("Failed to save deletion", zap.Error(err))
		return err
	}

	s.logger.Info("User deleted", zap.String("user_id", userID.String()))
	return nil
}

func (s *UserService) publishEvents(ctx context.Context, user *identity.User) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range user.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("Failed to publish event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	user.ClearDomainEvents()
}
