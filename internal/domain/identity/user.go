package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/mercato/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusLocked    UserStatus = "LOCKED"    // Locked due to repeated failed logins
	UserStatusSuspended UserStatus = "SUSPENDED" // Suspended by an admin
	UserStatusDeleted   UserStatus = "DELETED"   // Soft-deleted, cannot authenticate
)

// IsValid checks if the status is a valid UserStatus
func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusActive, UserStatusLocked, UserStatusSuspended, UserStatusDeleted:
		return true
	}
	return false
}

// Role represents a user's role on the platform
type Role string

const (
	RoleBuyer  Role = "BUYER"
	RoleSeller Role = "SELLER"
	RoleAdmin  Role = "ADMIN"
)

// IsValid checks if the role is a valid Role
func (r Role) IsValid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Password cost for bcrypt
const bcryptCost = 12

// Lockout policy for repeated failed logins
const (
	maxFailedAttempts = 5
	lockoutDuration   = 15 * time.Minute
)

// User is the aggregate root for platform accounts.
// A user starts as a buyer; the role is promoted to seller through
// onboarding approval, or to admin by another admin.
type User struct {
	shared.BaseAggregateRoot
	Email             string
	PasswordHash      string
	DisplayName       string
	Role              Role
	Status            UserStatus
	LastLoginAt       *time.Time
	LastLoginIP       string
	FailedAttempts    int
	LockedUntil       *time.Time
	PasswordChangedAt *time.Time
	SuspendedAt       *time.Time
	SuspendReason     string
}

// NewUser creates a new active buyer account
func NewUser(email, password, displayName string) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if err := validateDisplayName(displayName); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	now := time.Now()
	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:      passwordHash,
		DisplayName:       strings.TrimSpace(displayName),
		Role:              RoleBuyer,
		Status:            UserStatusActive,
		PasswordChangedAt: &now,
	}

	user.AddDomainEvent(NewUserRegisteredEvent(user))

	return user, nil
}

// NewAdminUser creates a new active admin account
func NewAdminUser(email, password, displayName string) (*User, error) {
	user, err := NewUser(email, password, displayName)
	if err != nil {
		return nil, err
	}
	user.Role = RoleAdmin
	return user, nil
}

// VerifyPassword checks whether the given password matches the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// CanAuthenticate returns nil if the user may attempt to log in
func (u *User) CanAuthenticate() error {
	switch u.Status {
	case UserStatusDeleted:
		return shared.NewDomainError("USER_DELETED", "Account no longer exists")
	case UserStatusSuspended:
		return shared.NewDomainError("USER_SUSPENDED", "Account has been suspended")
	case UserStatusLocked:
		if u.LockedUntil != nil && time.Now().Before(*u.LockedUntil) {
			return shared.NewDomainError("USER_LOCKED", "Account is temporarily locked")
		}
	}
	return nil
}

// RecordLoginSuccess records a successful login, clearing any lockout state
func (u *User) RecordLoginSuccess(ip string) {
	now := time.Now()
	u.LastLoginAt = &now
	u.LastLoginIP = ip
	u.FailedAttempts = 0
	u.LockedUntil = nil
	if u.Status == UserStatusLocked {
		u.Status = UserStatusActive
	}
	u.UpdatedAt = now
	u.IncrementVersion()
}

// RecordLoginFailure increments the failed attempt counter and locks the
// account once the threshold is reached
func (u *User) RecordLoginFailure() {
	u.FailedAttempts++
	now := time.Now()
	if u.FailedAttempts >= maxFailedAttempts {
		until := now.Add(lockoutDuration)
		u.LockedUntil = &until
		u.Status = UserStatusLocked
		u.AddDomainEvent(NewUserLockedEvent(u))
	}
	u.UpdatedAt = now
	u.IncrementVersion()
}

// ChangePassword changes the user's password after verifying the old one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password (admin reset, no old password check)
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	now := time.Now()
	u.PasswordHash = passwordHash
	u.PasswordChangedAt = &now
	u.UpdatedAt = now
	u.IncrementVersion()

	u.AddDomainEvent(NewUserPasswordChangedEvent(u))

	return nil
}

// UpdateProfile updates the user's display name
func (u *User) UpdateProfile(displayName string) error {
	if err := validateDisplayName(displayName); err != nil {
		return err
	}
	u.DisplayName = strings.TrimSpace(displayName)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// PromoteToSeller promotes a buyer to a seller.
// Called when a seller profile is approved.
func (u *User) PromoteToSeller() error {
	if u.Role == RoleAdmin {
		return shared.NewDomainError("INVALID_ROLE", "Admins cannot be promoted to sellers")
	}
	if u.Status != UserStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active users can become sellers")
	}
	if u.Role == RoleSeller {
		return nil
	}

	u.Role = RoleSeller
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	u.AddDomainEvent(NewUserRoleChangedEvent(u))

	return nil
}

// Suspend suspends the user account
func (u *User) Suspend(reason string) error {
	if u.Status == UserStatusDeleted {
		return shared.NewDomainError("INVALID_STATE", "Cannot suspend a deleted account")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Suspend reason is required")
	}

	now := time.Now()
	u.Status = UserStatusSuspended
	u.SuspendedAt = &now
	u.SuspendReason = reason
	u.UpdatedAt = now
	u.IncrementVersion()

	u.AddDomainEvent(NewUserSuspendedEvent(u))

	return nil
}

// Reactivate reactivates a suspended or locked account
func (u *User) Reactivate() error {
	if u.Status != UserStatusSuspended && u.Status != UserStatusLocked {
		return shared.NewDomainError("INVALID_STATE", "Only suspended or locked accounts can be reactivated")
	}

	u.Status = UserStatusActive
	u.SuspendedAt = nil
	u.SuspendReason = ""
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// MarkDeleted soft-deletes the account
func (u *User) MarkDeleted() error {
	if u.Status == UserStatusDeleted {
		return shared.NewDomainError("INVALID_STATE", "Account is already deleted")
	}

	u.Status = UserStatusDeleted
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// IsActive returns true if the user can use the platform
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// IsSeller returns true if the user has the seller role
func (u *User) IsSeller() bool {
	return u.Role == RoleSeller
}

// IsAdmin returns true if the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 254 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		// bcrypt truncates input beyond 72 bytes
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func validateDisplayName(displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot be empty")
	}
	if len(displayName) > 100 {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 100 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
