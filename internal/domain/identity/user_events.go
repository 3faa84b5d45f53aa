package identity

import (
	"time"

	"github.com/mercato/backend/internal/domain/shared"
)

// Aggregate type constant for User
const AggregateTypeUser = "User"

// User domain event types
const (
	EventTypeUserRegistered      = "UserRegistered"
	EventTypeUserPasswordChanged = "UserPasswordChanged"
	EventTypeUserRoleChanged     = "UserRoleChanged"
	EventTypeUserSuspended       = "UserSuspended"
	EventTypeUserLocked          = "UserLocked"
)

// UserRegisteredEvent is published when a new account is registered
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        Role   `json:"role"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, user.ID),
		Email:           user.Email,
		DisplayName:     user.DisplayName,
		Role:            user.Role,
	}
}

// UserPasswordChangedEvent is published when a user's password is changed
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
	Email     string    `json:"email"`
	ChangedAt time.Time `json:"changed_at"`
}

// NewUserPasswordChangedEvent creates a new UserPasswordChangedEvent
func NewUserPasswordChangedEvent(user *User) *UserPasswordChangedEvent {
	return &UserPasswordChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserPasswordChanged, AggregateTypeUser, user.ID),
		Email:           user.Email,
		ChangedAt:       time.Now(),
	}
}

// UserRoleChangedEvent is published when a user's role changes
type UserRoleChangedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// NewUserRoleChangedEvent creates a new UserRoleChangedEvent
func NewUserRoleChangedEvent(user *User) *UserRoleChangedEvent {
	return &UserRoleChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRoleChanged, AggregateTypeUser, user.ID),
		Email:           user.Email,
		Role:            user.Role,
	}
}

// UserSuspendedEvent is published when an account is suspended
type UserSuspendedEvent struct {
	shared.BaseDomainEvent
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// NewUserSuspendedEvent creates a new UserSuspendedEvent
func NewUserSuspendedEvent(user *User) *UserSuspendedEvent {
	return &UserSuspendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserSuspended, AggregateTypeUser, user.ID),
		Email:           user.Email,
		Reason:          user.SuspendReason,
	}
}

// UserLockedEvent is published when an account is locked after repeated
// failed login attempts
type UserLockedEvent struct {
	shared.BaseDomainEvent
	Email       string     `json:"email"`
	LockedUntil *time.Time `json:"locked_until"`
}

// NewUserLockedEvent creates a new UserLockedEvent
func NewUserLockedEvent(user *User) *UserLockedEvent {
	return &UserLockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserLocked, AggregateTypeUser, user.ID),
		Email:           user.Email,
		LockedUntil:     user.LockedUntil,
	}
}
