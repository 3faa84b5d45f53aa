package seller

import (
	"github.com/google/uuid"
	"github.com/mercato/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeSellerProfile = "SellerProfile"
	AggregateTypeKYCSubmission = "KYCSubmission"
)

// Seller domain event types
const (
	EventTypeSellerApplied   = "SellerApplied"
	EventTypeSellerApproved  = "SellerApproved"
	EventTypeSellerSuspended = "SellerSuspended"

	EventTypeKYCSubmitted = "KYCSubmitted"
	EventTypeKYCRejected  = "KYCRejected"
)

// SellerAppliedEvent is published when a user applies to sell
type SellerAppliedEvent struct {
	shared.BaseDomainEvent
	UserID    uuid.UUID `json:"user_id"`
	StoreName string    `json:"store_name"`
	Slug      string    `json:"slug"`
}

// NewSellerAppliedEvent creates a new SellerAppliedEvent
func NewSellerAppliedEvent(p *SellerProfile) *SellerAppliedEvent {
	return &SellerAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSellerApplied, AggregateTypeSellerProfile, p.ID),
		UserID:          p.UserID,
		StoreName:       p.StoreName,
		Slug:            p.Slug,
	}
}

// SellerApprovedEvent is published when an application passes review.
// The identity context promotes the user's role off this event.
type SellerApprovedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
}

// NewSellerApprovedEvent creates a new SellerApprovedEvent
func NewSellerApprovedEvent(p *SellerProfile) *SellerApprovedEvent {
	return &SellerApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSellerApproved, AggregateTypeSellerProfile, p.ID),
		UserID:          p.UserID,
	}
}

// SellerSuspendedEvent is published when a seller is suspended. The
// catalog context hides the seller's products off this event.
type SellerSuspendedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	Reason string    `json:"reason"`
}

// NewSellerSuspendedEvent creates a new SellerSuspendedEvent
func NewSellerSuspendedEvent(p *SellerProfile, reason string) *SellerSuspendedEvent {
	return &SellerSuspendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSellerSuspended, AggregateTypeSellerProfile, p.ID),
		UserID:          p.UserID,
		Reason:          reason,
	}
}

// KYCSubmittedEvent is published when a document enters the review queue
type KYCSubmittedEvent struct {
	shared.BaseDomainEvent
	SellerProfileID uuid.UUID       `json:"seller_profile_id"`
	DocumentType    KYCDocumentType `json:"document_type"`
	Round           int             `json:"round"`
}

// NewKYCSubmittedEvent creates a new KYCSubmittedEvent
func NewKYCSubmittedEvent(k *KYCSubmission) *KYCSubmittedEvent {
	return &KYCSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeKYCSubmitted, AggregateTypeKYCSubmission, k.ID),
		SellerProfileID: k.SellerProfileID,
		DocumentType:    k.DocumentType,
		Round:           k.Round,
	}
}

// KYCRejectedEvent is published when a document fails review
type KYCRejectedEvent struct {
	shared.BaseDomainEvent
	SellerProfileID uuid.UUID       `json:"seller_profile_id"`
	DocumentType    KYCDocumentType `json:"document_type"`
	Notes           string          `json:"notes"`
}

// NewKYCRejectedEvent creates a new KYCRejectedEvent
func NewKYCRejectedEvent(k *KYCSubmission) *KYCRejectedEvent {
	return &KYCRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeKYCRejected, AggregateTypeKYCSubmission, k.ID),
		SellerProfileID: k.SellerProfileID,
		DocumentType:    k.DocumentType,
		Notes:           k.ReviewerNotes,
	}
}
