package seller

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared"
)

// KYCStatus represents the status of a KYC submission
type KYCStatus string

const (
	// KYCStatusSubmitted indicates the documents await a reviewer
	KYCStatusSubmitted KYCStatus = "SUBMITTED"
	// KYCStatusInReview indicates a reviewer claimed the submission
	KYCStatusInReview KYCStatus = "IN_REVIEW"
	// KYCStatusApproved indicates the documents passed review
	KYCStatusApproved KYCStatus = "APPROVED"
	// KYCStatusRejected indicates the documents failed review; resubmission is allowed
	KYCStatusRejected KYCStatus = "REJECTED"
)

// IsValid checks if the status is a valid KYCStatus
func (s KYCStatus) IsValid() bool {
	switch s {
	case KYCStatusSubmitted, KYCStatusInReview, KYCStatusApproved, KYCStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of KYCStatus
func (s KYCStatus) String() string {
	return string(s)
}

// KYCDocumentType identifies what a submitted document proves
type KYCDocumentType string

const (
	KYCDocumentTypeIdentity      KYCDocumentType = "IDENTITY"
	KYCDocumentTypeBusinessReg   KYCDocumentType = "BUSINESS_REGISTRATION"
	KYCDocumentTypeBankStatement KYCDocumentType = "BANK_STATEMENT"
	KYCDocumentTypeTaxRecord     KYCDocumentType = "TAX_RECORD"
)

// IsValid checks if the document type is known
func (t KYCDocumentType) IsValid() bool {
	switch t {
	case KYCDocumentTypeIdentity, KYCDocumentTypeBusinessReg,
		KYCDocumentTypeBankStatement, KYCDocumentTypeTaxRecord:
		return true
	}
	return false
}

// String returns the string representation of KYCDocumentType
func (t KYCDocumentType) String() string {
	return string(t)
}

// KYCSubmission is the aggregate root for one round of a seller's identity
// documents. Documents live in object storage; the submission only holds
// their keys. Rejection allows a fresh submission with a bumped round
// number so the review history stays intact.
type KYCSubmission struct {
	shared.BaseAggregateRoot
	SellerProfileID uuid.UUID
	DocumentType    KYCDocumentType
	ObjectKey       string
	Round           int
	Status          KYCStatus
	ReviewerID      *uuid.UUID
	ReviewerNotes   string
	ReviewedAt      *time.Time
}

// NewKYCSubmission records an uploaded document for review
func NewKYCSubmission(sellerProfileID uuid.UUID, docType KYCDocumentType, objectKey string) (*KYCSubmission, error) {
	if sellerProfileID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROFILE", "Seller profile ID cannot be empty")
	}
	if !docType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_TYPE", "Unknown document type: "+docType.String())
	}
	objectKey = strings.TrimSpace(objectKey)
	if objectKey == "" {
		return nil, shared.NewDomainError("INVALID_OBJECT_KEY", "Document object key cannot be empty")
	}

	k := &KYCSubmission{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SellerProfileID:   sellerProfileID,
		DocumentType:      docType,
		ObjectKey:         objectKey,
		Round:             1,
		Status:            KYCStatusSubmitted,
	}
	k.AddDomainEvent(NewKYCSubmittedEvent(k))
	return k, nil
}

// Claim assigns the submission to a reviewer
func (k *KYCSubmission) Claim(reviewerID uuid.UUID) error {
	if k.Status != KYCStatusSubmitted {
		return shared.NewDomainError("INVALID_STATUS",
			"Only submitted documents can enter review, current status: "+k.Status.String())
	}
	if reviewerID == uuid.Nil {
		return shared.NewDomainError("INVALID_REVIEWER", "Reviewer ID cannot be empty")
	}

	k.Status = KYCStatusInReview
	k.ReviewerID = &reviewerID
	k.UpdatedAt = time.Now()
	return nil
}

// Approve passes the document
func (k *KYCSubmission) Approve(reviewerID uuid.UUID, notes string) error {
	if err := k.startReviewDecision(reviewerID); err != nil {
		return err
	}

	now := time.Now()
	k.Status = KYCStatusApproved
	k.ReviewerNotes = strings.TrimSpace(notes)
	k.ReviewedAt = &now
	k.UpdatedAt = now
	return nil
}

// Reject fails the document with reviewer notes explaining what to fix
func (k *KYCSubmission) Reject(reviewerID uuid.UUID, notes string) error {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return shared.NewDomainError("INVALID_NOTES", "Rejection requires reviewer notes")
	}
	if err := k.startReviewDecision(reviewerID); err != nil {
		return err
	}

	now := time.Now()
	k.Status = KYCStatusRejected
	k.ReviewerNotes = notes
	k.ReviewedAt = &now
	k.UpdatedAt = now
	k.AddDomainEvent(NewKYCRejectedEvent(k))
	return nil
}

// Resubmit creates the next round for a rejected submission with a fresh
// document upload.
func (k *KYCSubmission) Resubmit(objectKey string) (*KYCSubmission, error) {
	if k.Status != KYCStatusRejected {
		return nil, shared.NewDomainError("INVALID_STATUS",
			"Only rejected submissions can be resubmitted, current status: "+k.Status.String())
	}
	objectKey = strings.TrimSpace(objectKey)
	if objectKey == "" {
		return nil, shared.NewDomainError("INVALID_OBJECT_KEY", "Document object key cannot be empty")
	}

	next := &KYCSubmission{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SellerProfileID:   k.SellerProfileID,
		DocumentType:      k.DocumentType,
		ObjectKey:         objectKey,
		Round:             k.Round + 1,
		Status:            KYCStatusSubmitted,
	}
	next.AddDomainEvent(NewKYCSubmittedEvent(next))
	return next, nil
}

// IsDecided reports whether review reached a terminal outcome
func (k *KYCSubmission) IsDecided() bool {
	return k.Status == KYCStatusApproved || k.Status == KYCStatusRejected
}

// startReviewDecision validates the reviewer and allows deciding straight
// from SUBMITTED, claiming implicitly.
func (k *KYCSubmission) startReviewDecision(reviewerID uuid.UUID) error {
	if reviewerID == uuid.Nil {
		return shared.NewDomainError("INVALID_REVIEWER", "Reviewer ID cannot be empty")
	}
	switch k.Status {
	case KYCStatusSubmitted:
		k.ReviewerID = &reviewerID
	case KYCStatusInReview:
		if k.ReviewerID != nil && *k.ReviewerID != reviewerID {
			return shared.NewDomainError("REVIEWER_MISMATCH", "Submission is claimed by another reviewer")
		}
	default:
		return shared.NewDomainError("INVALID_STATUS",
			"Submission was already decided, current status: "+k.Status.String())
	}
	return nil
}
