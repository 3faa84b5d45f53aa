package seller

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared"
)

// ProfileStatus represents the status of a seller profile
type ProfileStatus string

const (
	// ProfileStatusPending indicates the application awaits review
	ProfileStatusPending ProfileStatus = "PENDING"
	// ProfileStatusApproved indicates the seller can list products and receive payouts
	ProfileStatusApproved ProfileStatus = "APPROVED"
	// ProfileStatusSuspended indicates the seller is blocked from selling and payouts
	ProfileStatusSuspended ProfileStatus = "SUSPENDED"
)

// IsValid checks if the status is a valid ProfileStatus
func (s ProfileStatus) IsValid() bool {
	switch s {
	case ProfileStatusPending, ProfileStatusApproved, ProfileStatusSuspended:
		return true
	}
	return false
}

// String returns the string representation of ProfileStatus
func (s ProfileStatus) String() string {
	return string(s)
}

var storeSlugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

const (
	maxStoreNameLength   = 100
	maxDescriptionLength = 2000
)

// SellerProfile is the aggregate root for a user's storefront. One profile
// exists per user; the store slug is unique across the platform. The bank
// account is stored masked, only the last four digits survive intake.
type SellerProfile struct {
	shared.BaseAggregateRoot
	UserID      uuid.UUID
	StoreName   string
	Slug        string
	Description string
	BankRef     string
	Status      ProfileStatus
	ApprovedAt  *time.Time
	SuspendedAt *time.Time
}

// NewSellerProfile creates a PENDING profile for a seller application
func NewSellerProfile(userID uuid.UUID, storeName, slug, description, bankAccount string) (*SellerProfile, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	storeName = strings.TrimSpace(storeName)
	if storeName == "" {
		return nil, shared.NewDomainError("INVALID_STORE_NAME", "Store name cannot be empty")
	}
	if len(storeName) > maxStoreNameLength {
		return nil, shared.NewDomainError("INVALID_STORE_NAME", "Store name cannot exceed 100 characters")
	}
	if !storeSlugRegex.MatchString(slug) {
		return nil, shared.NewDomainError("INVALID_SLUG", "Store slug must be lowercase letters, digits and hyphens")
	}
	if len(description) > maxDescriptionLength {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 2000 characters")
	}
	bankRef, err := maskBankAccount(bankAccount)
	if err != nil {
		return nil, err
	}

	p := &SellerProfile{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		StoreName:         storeName,
		Slug:              slug,
		Description:       strings.TrimSpace(description),
		BankRef:           bankRef,
		Status:            ProfileStatusPending,
	}
	p.AddDomainEvent(NewSellerAppliedEvent(p))
	return p, nil
}

// Approve admits the seller to the marketplace. The caller promotes the
// user's role alongside.
func (p *SellerProfile) Approve() error {
	if p.Status != ProfileStatusPending {
		return shared.NewDomainError("INVALID_STATUS",
			"Only pending profiles can be approved, current status: "+p.Status.String())
	}

	now := time.Now()
	p.Status = ProfileStatusApproved
	p.ApprovedAt = &now
	p.UpdatedAt = now
	p.AddDomainEvent(NewSellerApprovedEvent(p))
	return nil
}

// Suspend blocks the seller from listing and payouts
func (p *SellerProfile) Suspend(reason string) error {
	if p.Status != ProfileStatusApproved {
		return shared.NewDomainError("INVALID_STATUS",
			"Only approved profiles can be suspended, current status: "+p.Status.String())
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Suspension reason cannot be empty")
	}

	now := time.Now()
	p.Status = ProfileStatusSuspended
	p.SuspendedAt = &now
	p.UpdatedAt = now
	p.AddDomainEvent(NewSellerSuspendedEvent(p, reason))
	return nil
}

// Reinstate lifts a suspension
func (p *SellerProfile) Reinstate() error {
	if p.Status != ProfileStatusSuspended {
		return shared.NewDomainError("INVALID_STATUS",
			"Only suspended profiles can be reinstated, current status: "+p.Status.String())
	}

	now := time.Now()
	p.Status = ProfileStatusApproved
	p.SuspendedAt = nil
	p.UpdatedAt = now
	return nil
}

// UpdateStore edits the storefront details. The slug is fixed after
// creation; storefront URLs stay stable.
func (p *SellerProfile) UpdateStore(storeName, description string) error {
	storeName = strings.TrimSpace(storeName)
	if storeName == "" {
		return shared.NewDomainError("INVALID_STORE_NAME", "Store name cannot be empty")
	}
	if len(storeName) > maxStoreNameLength {
		return shared.NewDomainError("INVALID_STORE_NAME", "Store name cannot exceed 100 characters")
	}
	if len(description) > maxDescriptionLength {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 2000 characters")
	}

	p.StoreName = storeName
	p.Description = strings.TrimSpace(description)
	p.UpdatedAt = time.Now()
	return nil
}

// UpdateBankAccount replaces the payout destination. Takes effect for
// payouts scheduled after the change; in-flight payouts keep their
// snapshot.
func (p *SellerProfile) UpdateBankAccount(bankAccount string) error {
	bankRef, err := maskBankAccount(bankAccount)
	if err != nil {
		return err
	}
	p.BankRef = bankRef
	p.UpdatedAt = time.Now()
	return nil
}

// CanSell reports whether the seller may list products and ship orders
func (p *SellerProfile) CanSell() bool {
	return p.Status == ProfileStatusApproved
}

// CanReceivePayouts reports whether payouts may be scheduled for the seller
func (p *SellerProfile) CanReceivePayouts() bool {
	return p.Status == ProfileStatusApproved
}

// maskBankAccount keeps only the last four digits of the account number
func maskBankAccount(account string) (string, error) {
	account = strings.TrimSpace(account)
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, account)
	if len(digits) < 8 || len(digits) > 34 {
		return "", shared.NewDomainError("INVALID_BANK_ACCOUNT", "Bank account number must be 8 to 34 digits")
	}
	return "****" + digits[len(digits)-4:], nil
}
