package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mercato/backend/internal/domain/seller"
)

// SellerProfileModel is the persistence model for the SellerProfile
// aggregate root. Only the masked bank reference is ever stored.
type SellerProfileModel struct {
	AggregateModel
	UserID      uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex"`
	StoreName   string               `gorm:"type:varchar(100);not null"`
	Slug        string               `gorm:"type:varchar(60);not null;uniqueIndex"`
	Description string               `gorm:"type:text"`
	BankRef     string               `gorm:"type:varchar(50);not null"`
	Status      seller.ProfileStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ApprovedAt  *time.Time
	SuspendedAt *time.Time
}

// TableName returns the table name for GORM
func (SellerProfileModel) TableName() string {
	return "seller_profiles"
}

// ToDomain converts the persistence model to a domain SellerProfile.
func (m *SellerProfileModel) ToDomain() *seller.SellerProfile {
	return &seller.SellerProfile{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		UserID:            m.UserID,
		StoreName:         m.StoreName,
		Slug:              m.Slug,
		Description:       m.Description,
		BankRef:           m.BankRef,
		Status:            m.Status,
		ApprovedAt:        m.ApprovedAt,
		SuspendedAt:       m.SuspendedAt,
	}
}

// FromDomain populates the persistence model from a domain SellerProfile.
func (m *SellerProfileModel) FromDomain(p *seller.SellerProfile) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.UserID = p.UserID
	m.StoreName = p.StoreName
	m.Slug = p.Slug
	m.Description = p.Description
	m.BankRef = p.BankRef
	m.Status = p.Status
	m.ApprovedAt = p.ApprovedAt
	m.SuspendedAt = p.SuspendedAt
}

// KYCSubmissionModel is the persistence model for the KYCSubmission
// aggregate root.
type KYCSubmissionModel struct {
	AggregateModel
	SellerProfileID uuid.UUID              `gorm:"type:uuid;not null;index"`
	DocumentType    seller.KYCDocumentType `gorm:"type:varchar(30);not null"`
	ObjectKey       string                 `gorm:"type:varchar(300);not null"`
	Round           int                    `gorm:"not null;default:1"`
	Status          seller.KYCStatus       `gorm:"type:varchar(20);not null;index"`
	ReviewerID      *uuid.UUID             `gorm:"type:uuid;index"`
	ReviewerNotes   string                 `gorm:"type:varchar(1000)"`
	ReviewedAt      *time.Time
}

// TableName returns the table name for GORM
func (KYCSubmissionModel) TableName() string {
	return "kyc_submissions"
}

// ToDomain converts the persistence model to a domain KYCSubmission.
func (m *KYCSubmissionModel) ToDomain() *seller.KYCSubmission {
	return &seller.KYCSubmission{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SellerProfileID:   m.SellerProfileID,
		DocumentType:      m.DocumentType,
		ObjectKey:         m.ObjectKey,
		Round:             m.Round,
		Status:            m.Status,
		ReviewerID:        m.ReviewerID,
		ReviewerNotes:     m.ReviewerNotes,
		ReviewedAt:        m.ReviewedAt,
	}
}

// FromDomain populates the persistence model from a domain KYCSubmission.
func (m *KYCSubmissionModel) FromDomain(k *seller.KYCSubmission) {
	m.FromDomainAggregateRoot(k.BaseAggregateRoot)
	m.SellerProfileID = k.SellerProfileID
	m.DocumentType = k.DocumentType
	m.ObjectKey = k.ObjectKey
	m.Round = k.Round
	m.Status = k.Status
	m.ReviewerID = k.ReviewerID
	m.ReviewerNotes = k.ReviewerNotes
	m.ReviewedAt = k.ReviewedAt
}
