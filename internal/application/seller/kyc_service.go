package seller

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mercato/backend/internal/domain/seller"
	"github.com/mercato/backend/internal/domain/shared"
)

// uploadURLExpiry bounds how long a presigned document upload stays valid
const uploadURLExpiry = 15 * time.Minute

// DocumentStore is the port to object storage for identity documents.
// Sellers upload straight to storage through presigned URLs; the platform
// never proxies document bytes.
type DocumentStore interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// KYCService handles identity document submission and review
type KYCService struct {
	kycRepo        seller.KYCSubmissionRepository
	profileRepo    seller.SellerProfileRepository
	documents      DocumentStore
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewKYCService creates a new KYC service
func NewKYCService(
	kycRepo seller.KYCSubmissionRepository,
	profileRepo seller.SellerProfileRepository,
	documents DocumentStore,
	logger *zap.Logger,
) *KYCService {
	return &KYCService{
		kycRepo:     kycRepo,
		profileRepo: profileRepo,
		documents:   documents,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *KYCService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SubmitDocument records a document round and hands back a presigned
// upload URL for the file itself.
func (s *KYCService) SubmitDocument(ctx context.Context, input SubmitDocumentInput) (*SubmitDocumentResult, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	docType := seller.KYCDocumentType(input.DocumentType)
	submission, err := seller.NewKYCSubmission(profile.ID, docType, documentKey(profile.ID, docType))
	if err != nil {
		return nil, err
	}
	return s.saveWithUploadURL(ctx, submission, input.ContentType)
}

// ResubmitDocument opens the next round after a rejection
func (s *KYCService) ResubmitDocument(ctx context.Context, input ResubmitDocumentInput) (*SubmitDocumentResult, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	prior, err := s.kycRepo.FindByID(ctx, input.SubmissionID)
	if err != nil {
		return nil, err
	}
	if prior.SellerProfileID != profile.ID {
		return nil, shared.ErrForbidden
	}

	next, err := prior.Resubmit(documentKey(profile.ID, prior.DocumentType))
	if err != nil {
		return nil, err
	}
	return s.saveWithUploadURL(ctx, next, input.ContentType)
}

// ApproveDocument passes a document round
func (s *KYCService) ApproveDocument(ctx context.Context, input ReviewDecisionInput) (*SubmissionInfo, error) {
	submission, err := s.kycRepo.FindByID(ctx, input.SubmissionID)
	if err != nil {
		return nil, err
	}
	if err := submission.Approve(input.ReviewerID, input.Notes); err != nil {
		return nil, err
	}
	if err := s.kycRepo.SaveWithLock(ctx, submission); err != nil {
		return nil, err
	}

	s.logger.Info("KYC document approved",
		zap.String("submission_id", submission.ID.String()),
		zap.String("reviewer_id", input.ReviewerID.String()))
	return ToSubmissionInfo(submission), nil
}

// RejectDocument fails a document round with notes for the seller
func (s *KYCService) RejectDocument(ctx context.Context, input ReviewDecisionInput) (*SubmissionInfo, error) {
	submission, err := s.kycRepo.FindByID(ctx, input.SubmissionID)
	if err != nil {
		return nil, err
	}
	if err := submission.Reject(input.ReviewerID, input.Notes); err != nil {
		return nil, err
	}
	if err := s.kycRepo.SaveWithLock(ctx, submission); err != nil {
		return nil, err
	}

	s.logger.Info("KYC document rejected",
		zap.String("submission_id", submission.ID.String()),
		zap.String("reviewer_id", input.ReviewerID.String()))

	s.publishEvents(ctx, submission.GetDomainEvents())
	submission.ClearDomainEvents()
	return ToSubmissionInfo(submission), nil
}

// ClaimDocument assigns a submission to the calling reviewer
func (s *KYCService) ClaimDocument(ctx context.Context, submissionID, reviewerID uuid.UUID) (*SubmissionInfo, error) {
	submission, err := s.kycRepo.FindByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if err := submission.Claim(reviewerID); err != nil {
		return nil, err
	}
	if err := s.kycRepo.SaveWithLock(ctx, submission); err != nil {
		return nil, err
	}
	return ToSubmissionInfo(submission), nil
}

// DocumentURL hands a reviewer a short-lived download link
func (s *KYCService) DocumentURL(ctx context.Context, submissionID uuid.UUID) (string, error) {
	submission, err := s.kycRepo.FindByID(ctx, submissionID)
	if err != nil {
		return "", err
	}
	url, _, err := s.documents.GenerateDownloadURL(ctx, submission.ObjectKey, uploadURLExpiry)
	if err != nil {
		s.logger.Error("Failed to presign document download",
			zap.String("submission_id", submissionID.String()), zap.Error(err))
		return "", shared.NewDomainError("STORAGE_ERROR", "Could not generate a document link")
	}
	return url, nil
}

// ListMySubmissions returns the caller's document history, newest first
func (s *KYCService) ListMySubmissions(ctx context.Context, userID uuid.UUID) ([]*SubmissionInfo, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	submissions, err := s.kycRepo.FindByProfile(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	infos := make([]*SubmissionInfo, 0, len(submissions))
	for i := range submissions {
		infos = append(infos, ToSubmissionInfo(&submissions[i]))
	}
	return infos, nil
}

// ReviewQueue returns undecided submissions oldest first
func (s *KYCService) ReviewQueue(ctx context.Context, filter shared.Filter) (*shared.Paginated[*SubmissionInfo], error) {
	submissions, err := s.kycRepo.FindReviewQueue(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.kycRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	infos := make([]*SubmissionInfo, 0, len(submissions))
	for i := range submissions {
		infos = append(infos, ToSubmissionInfo(&submissions[i]))
	}
	return shared.NewPaginated(infos, total, filter.Page, filter.PageSize), nil
}

func (s *KYCService) saveWithUploadURL(ctx context.Context, submission *seller.KYCSubmission, contentType string) (*SubmitDocumentResult, error) {
	url, _, err := s.documents.GenerateUploadURL(ctx, submission.ObjectKey, contentType, uploadURLExpiry)
	if err != nil {
		s.logger.Error("Failed to presign document upload",
			zap.String("object_key", submission.ObjectKey), zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Could not generate an upload link")
	}
	if err := s.kycRepo.Save(ctx, submission); err != nil {
		return nil, err
	}

	s.logger.Info("KYC document submitted",
		zap.String("submission_id", submission.ID.String()),
		zap.String("document_type", submission.DocumentType.String()),
		zap.Int("round", submission.Round))

	s.publishEvents(ctx, submission.GetDomainEvents())
	submission.ClearDomainEvents()
	return &SubmitDocumentResult{
		Submission: ToSubmissionInfo(submission),
		UploadURL:  url,
	}, nil
}

func (s *KYCService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range events {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("Failed to publish event",
				zap.String("event_type", event.EventType()), zap.Error(err))
		}
	}
}

// documentKey builds the storage key for one document upload
func documentKey(profileID uuid.UUID, docType seller.KYCDocumentType) string {
	return fmt.Sprintf("kyc/%s/%s/%s", profileID, docType, uuid.New())
}
