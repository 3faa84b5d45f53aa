package seller

import (
	"time"

	"github.com/google/uuid"

	"github.com/mercato/backend/internal/domain/seller"
)

// ApplyInput represents input for a seller application
type ApplyInput struct {
	UserID      uuid.UUID `json:"-"`
	StoreName   string    `json:"store_name" binding:"required,max=100"`
	Slug        string    `json:"slug" binding:"required,max=60"`
	Description string    `json:"description" binding:"max=2000"`
	BankAccount string    `json:"bank_account" binding:"required"`
}

// UpdateStoreInput represents input for editing storefront details
type UpdateStoreInput struct {
	UserID      uuid.UUID `json:"-"`
	StoreName   string    `json:"store_name" binding:"required,max=100"`
	Description string    `json:"description" binding:"max=2000"`
}

// UpdateBankAccountInput represents input for changing the payout account
type UpdateBankAccountInput struct {
	UserID      uuid.UUID `json:"-"`
	BankAccount string    `json:"bank_account" binding:"required"`
}

// SuspendProfileInput represents input for suspending a seller
type SuspendProfileInput struct {
	ProfileID uuid.UUID `json:"-"`
	Reason    string    `json:"reason" binding:"required"`
}

// ProfileInfo represents seller profile data for API responses
type ProfileInfo struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	StoreName   string     `json:"store_name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	BankRef     string     `json:"bank_ref"`
	Status      string     `json:"status"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	SuspendedAt *time.Time `json:"suspended_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToProfileInfo converts a SellerProfile aggregate to ProfileInfo
func ToProfileInfo(p *seller.SellerProfile) *ProfileInfo {
	return &ProfileInfo{
		ID:          p.ID,
		UserID:      p.UserID,
		StoreName:   p.StoreName,
		Slug:        p.Slug,
		Description: p.Description,
		BankRef:     p.BankRef,
		Status:      p.Status.String(),
		ApprovedAt:  p.ApprovedAt,
		SuspendedAt: p.SuspendedAt,
		CreatedAt:   p.CreatedAt,
	}
}

// SubmitDocumentInput represents input for a KYC document upload
type SubmitDocumentInput struct {
	UserID       uuid.UUID `json:"-"`
	DocumentType string    `json:"document_type" binding:"required,oneof=IDENTITY BUSINESS_REGISTRATION BANK_STATEMENT TAX_RECORD"`
	ContentType  string    `json:"content_type" binding:"required"`
}

// ResubmitDocumentInput represents input for a fresh round after rejection
type ResubmitDocumentInput struct {
	UserID       uuid.UUID `json:"-"`
	SubmissionID uuid.UUID `json:"-"`
	ContentType  string    `json:"content_type" binding:"required"`
}

// SubmitDocumentResult carries the presigned upload back to the seller
type SubmitDocumentResult struct {
	Submission *SubmissionInfo `json:"submission"`
	UploadURL  string          `json:"upload_url"`
}

// ReviewDecisionInput represents a reviewer's approve or reject call
type ReviewDecisionInput struct {
	SubmissionID uuid.UUID `json:"-"`
	ReviewerID   uuid.UUID `json:"-"`
	Notes        string    `json:"notes"`
}

// SubmissionInfo represents KYC submission data for API responses
type SubmissionInfo struct {
	ID              uuid.UUID  `json:"id"`
	SellerProfileID uuid.UUID  `json:"seller_profile_id"`
	DocumentType    string     `json:"document_type"`
	Round           int        `json:"round"`
	Status          string     `json:"status"`
	ReviewerNotes   string     `json:"reviewer_notes,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToSubmissionInfo converts a KYCSubmission aggregate to SubmissionInfo
func ToSubmissionInfo(k *seller.KYCSubmission) *SubmissionInfo {
	return &SubmissionInfo{
		ID:              k.ID,
		SellerProfileID: k.SellerProfileID,
		DocumentType:    k.DocumentType.String(),
		Round:           k.Round,
		Status:          k.Status.String(),
		ReviewerNotes:   k.ReviewerNotes,
		ReviewedAt:      k.ReviewedAt,
		CreatedAt:       k.CreatedAt,
	}
}
