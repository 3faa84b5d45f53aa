package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/identity"
	"github.com/mercato/backend/internal/domain/shared"
	"github.com/mercato/backend/internal/infrastructure/auth"
	"github.com/mercato/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByRole(ctx context.Context, role identity.Role, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, role, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SaveWithLock(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func newTestAuthService(repo *MockUserRepository) *AuthService {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "mercato-test",
		MaxRefreshCount:        10,
	})
	return NewAuthService(repo, jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop())
}

func newActiveUser(t *testing.T) *identity.User {
	user, err := identity.NewUser("buyer@example.com", "correct-horse-1", "Buyer")
	require.NoError(t, err)
	user.ClearDomainEvents()
	return user
}

func TestAuthService_Register(t *testing.T) {
	t.Run("creates buyer account", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)

		repo.On("ExistsByEmail", mock.Anything, "new@example.com").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

		info, err := svc.Register(context.Background(), RegisterInput{
			Email:       "new@example.com",
			Password:    "str0ng-password",
			DisplayName: "New Buyer",
		})

		require.NoError(t, err)
		assert.Equal(t, "new@example.com", info.Email)
		assert.Equal(t, "BUYER", info.Role)
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)

		repo.On("ExistsByEmail", mock.Anything, "taken@example.com").Return(true, nil)

		_, err := svc.Register(context.Background(), RegisterInput{
			Email:    "taken@example.com",
			Password: "str0ng-password",
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)
		repo.AssertNotCalled(t, "Save")
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Run("successful login returns tokens", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)
		user := newActiveUser(t)

		repo.On("FindByEmail", mock.Anything, "buyer@example.com").Return(user, nil)
		repo.On("Save", mock.Anything, user).Return(nil)

		result, err := svc.Login(context.Background(), LoginInput{
			Email:    "buyer@example.com",
			Password: "correct-horse-1",
			IP:       "203.0.113.9",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, user.ID, result.User.ID)
		require.NotNil(t, user.LastLoginAt)
	})

	t.Run("unknown email yields invalid credentials", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)

		repo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, shared.ErrNotFound)

		_, err := svc.Login(context.Background(), LoginInput{
			Email:    "nobody@example.com",
			Password: "whatever",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("wrong password records the failure", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)
		user := newActiveUser(t)

		repo.On("FindByEmail", mock.Anything, "buyer@example.com").Return(user, nil)
		repo.On("Save", mock.Anything, user).Return(nil)

		_, err := svc.Login(context.Background(), LoginInput{
			Email:    "buyer@example.com",
			Password: "wrong",
		})

		require.Error(t, err)
		assert.Equal(t, 1, user.FailedAttempts)
	})

	t.Run("suspended account cannot log in", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)
		user := newActiveUser(t)
		require.NoError(t, user.Suspend("fraud"))

		repo.On("FindByEmail", mock.Anything, "buyer@example.com").Return(user, nil)

		_, err := svc.Login(context.Background(), LoginInput{
			Email:    "buyer@example.com",
			Password: "correct-horse-1",
		})

		require.Error(t, err)
		repo.AssertNotCalled(t, "Save")
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("rotates the pair with fresh role", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)
		user := newActiveUser(t)

		repo.On("FindByEmail", mock.Anything, "buyer@example.com").Return(user, nil)
		repo.On("Save", mock.Anything, user).Return(nil)
		login, err := svc.Login(context.Background(), LoginInput{
			Email:    "buyer@example.com",
			Password: "correct-horse-1",
		})
		require.NoError(t, err)

		require.NoError(t, user.PromoteToSeller())
		repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		refreshed, err := svc.RefreshToken(context.Background(), RefreshTokenInput{
			RefreshToken: login.RefreshToken,
		})

		require.NoError(t, err)
		assert.NotEqual(t, login.AccessToken, refreshed.AccessToken)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)

		_, err := svc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "garbage"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_INVALID", domainErr.Code)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newTestAuthService(repo)
	user := newActiveUser(t)

	repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("Save", mock.Anything, user).Return(nil)

	err := svc.ChangePassword(context.Background(), ChangePasswordInput{
		UserID:      user.ID,
		OldPassword: "correct-horse-1",
		NewPassword: "new-secret-phrase-2",
	})

	require.NoError(t, err)
	assert.True(t, user.VerifyPassword("new-secret-phrase-2"))

	t.Run("wrong old password is rejected", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), ChangePasswordInput{
			UserID:      user.ID,
			OldPassword: "not-the-old-one",
			NewPassword: "another-secret-3",
		})
		assert.Error(t, err)
	})
}
