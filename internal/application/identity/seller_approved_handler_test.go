package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mercato/backend/internal/domain/identity"
	"github.com/mercato/backend/internal/domain/seller"
)

func TestSellerApprovedHandler(t *testing.T) {
	ctx := context.Background()

	newProfile := func(t *testing.T, userID uuid.UUID) *seller.SellerProfile {
		t.Helper()
		profile, err := seller.NewSellerProfile(userID, "Corner Books", "corner-books",
			"", "DE89370400440532013000")
		require.NoError(t, err)
		return profile
	}

	t.Run("promotes approved seller to seller role", func(t *testing.T) {
		repo := new(MockUserRepository)
		handler := NewSellerApprovedHandler(NewUserService(repo, zap.NewNop()), zap.NewNop())

		user, err := identity.NewUser("books@example.com", "password-one-1", "Books")
		require.NoError(t, err)
		user.ClearDomainEvents()

		repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		repo.On("SaveWithLock", mock.Anything, user).Return(nil)

		err = handler.Handle(ctx, seller.NewSellerApprovedEvent(newProfile(t, user.ID)))

		require.NoError(t, err)
		assert.Equal(t, identity.RoleSeller, user.Role)
		repo.AssertExpectations(t)
	})

	t.Run("rejects wrong event type", func(t *testing.T) {
		repo := new(MockUserRepository)
		handler := NewSellerApprovedHandler(NewUserService(repo, zap.NewNop()), zap.NewNop())

		err := handler.Handle(ctx, seller.NewSellerAppliedEvent(newProfile(t, uuid.New())))

		assert.Error(t, err)
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("subscribes to seller approval", func(t *testing.T) {
		handler := NewSellerApprovedHandler(NewUserService(new(MockUserRepository), zap.NewNop()), zap.NewNop())
		assert.Equal(t, []string{seller.EventTypeSellerApproved}, handler.EventTypes())
	})
}
