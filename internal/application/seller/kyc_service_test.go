package seller

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mercato/backend/internal/domain/seller"
	"github.com/mercato/backend/internal/domain/shared"
)

type kycFixture struct {
	kycRepo     *MockKYCSubmissionRepository
	profileRepo *MockSellerProfileRepository
	documents   *MockDocumentStore
	service     *KYCService
}

func newKYCFixture() *kycFixture {
	f := &kycFixture{
		kycRepo:     new(MockKYCSubmissionRepository),
		profileRepo: new(MockSellerProfileRepository),
		documents:   new(MockDocumentStore),
	}
	f.service = NewKYCService(f.kycRepo, f.profileRepo, f.documents, zap.NewNop())
	return f
}

func TestKYCService_SubmitDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("records submission and presigns upload", func(t *testing.T) {
		f := newKYCFixture()
		userID := uuid.New()
		profile := pendingProfile(t, userID)
		f.profileRepo.On("FindByUserID", ctx, userID).Return(profile, nil)
		f.documents.On("GenerateUploadURL", ctx, mock.AnythingOfType("string"),
			"application/pdf", uploadURLExpiry).
			Return("https://storage.example/upload/abc", time.Now().Add(uploadURLExpiry), nil)
		f.kycRepo.On("Save", ctx, mock.AnythingOfType("*seller.KYCSubmission")).Return(nil)

		result, err := f.service.SubmitDocument(ctx, SubmitDocumentInput{
			UserID:       userID,
			DocumentType: "IDENTITY",
			ContentType:  "application/pdf",
		})

		require.NoError(t, err)
		assert.Equal(t, "https://storage.example/upload/abc", result.UploadURL)
		assert.Equal(t, seller.KYCStatusSubmitted.String(), result.Submission.Status)
		assert.Equal(t, 1, result.Submission.Round)
		f.kycRepo.AssertExpectations(t)
	})

	t.Run("does not persist when presigning fails", func(t *testing.T) {
		f := newKYCFixture()
		userID := uuid.New()
		profile := pendingProfile(t, userID)
		f.profileRepo.On("FindByUserID", ctx, userID).Return(profile, nil)
		f.documents.On("GenerateUploadURL", ctx, mock.AnythingOfType("string"),
			"image/png", uploadURLExpiry).
			Return("", time.Time{}, assert.AnError)

		_, err := f.service.SubmitDocument(ctx, SubmitDocumentInput{
			UserID:       userID,
			DocumentType: "IDENTITY",
			ContentType:  "image/png",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "STORAGE_ERROR", domainErr.Code)
		f.kycRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestKYCService_ResubmitDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("opens next round after rejection", func(t *testing.T) {
		f := newKYCFixture()
		userID := uuid.New()
		profile := pendingProfile(t, userID)
		prior, err := seller.NewKYCSubmission(profile.ID, seller.KYCDocumentTypeIdentity, "kyc/doc-1")
		require.NoError(t, err)
		require.NoError(t, prior.Reject(uuid.New(), "photo is unreadable"))

		f.profileRepo.On("FindByUserID", ctx, userID).Return(profile, nil)
		f.kycRepo.On("FindByID", ctx, prior.ID).Return(prior, nil)
		f.documents.On("GenerateUploadURL", ctx, mock.AnythingOfType("string"),
			"application/pdf", uploadURLExpiry).
			Return("https://storage.example/upload/next", time.Now().Add(uploadURLExpiry), nil)

		var saved *seller.KYCSubmission
		f.kycRepo.On("Save", ctx, mock.AnythingOfType("*seller.KYCSubmission")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*seller.KYCSubmission)
			}).Return(nil)

		result, err := f.service.ResubmitDocument(ctx, ResubmitDocumentInput{
			UserID:       userID,
			SubmissionID: prior.ID,
			ContentType:  "application/pdf",
		})

		require.NoError(t, err)
		assert.Equal(t, 2, result.Submission.Round)
		assert.NotEqual(t, prior.ObjectKey, saved.ObjectKey)
	})

	t.Run("forbids resubmitting someone else's document", func(t *testing.T) {
		f := newKYCFixture()
		userID := uuid.New()
		profile := pendingProfile(t, userID)
		other, err := seller.NewKYCSubmission(uuid.New(), seller.KYCDocumentTypeIdentity, "kyc/doc-x")
		require.NoError(t, err)
		require.NoError(t, other.Reject(uuid.New(), "wrong document"))

		f.profileRepo.On("FindByUserID", ctx, userID).Return(profile, nil)
		f.kycRepo.On("FindByID", ctx, other.ID).Return(other, nil)

		_, err = f.service.ResubmitDocument(ctx, ResubmitDocumentInput{
			UserID:       userID,
			SubmissionID: other.ID,
			ContentType:  "application/pdf",
		})

		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestKYCService_Review(t *testing.T) {
	ctx := context.Background()

	t.Run("approve decides straight from submitted", func(t *testing.T) {
		f := newKYCFixture()
		submission, err := seller.NewKYCSubmission(uuid.New(), seller.KYCDocumentTypeBusinessReg, "kyc/doc-3")
		require.NoError(t, err)
		submission.ClearDomainEvents()
		reviewerID := uuid.New()
		f.kycRepo.On("FindByID", ctx, submission.ID).Return(submission, nil)
		f.kycRepo.On("SaveWithLock", ctx, submission).Return(nil)

		info, err := f.service.ApproveDocument(ctx, ReviewDecisionInput{
			SubmissionID: submission.ID,
			ReviewerID:   reviewerID,
			Notes:        "registration matches store name",
		})

		require.NoError(t, err)
		assert.Equal(t, seller.KYCStatusApproved.String(), info.Status)
		assert.NotNil(t, info.ReviewedAt)
	})

	t.Run("reject requires notes", func(t *testing.T) {
		f := newKYCFixture()
		submission, err := seller.NewKYCSubmission(uuid.New(), seller.KYCDocumentTypeIdentity, "kyc/doc-4")
		require.NoError(t, err)
		f.kycRepo.On("FindByID", ctx, submission.ID).Return(submission, nil)

		_, err = f.service.RejectDocument(ctx, ReviewDecisionInput{
			SubmissionID: submission.ID,
			ReviewerID:   uuid.New(),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_NOTES", domainErr.Code)
		f.kycRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("claimed submission blocks other reviewers", func(t *testing.T) {
		f := newKYCFixture()
		submission, err := seller.NewKYCSubmission(uuid.New(), seller.KYCDocumentTypeIdentity, "kyc/doc-5")
		require.NoError(t, err)
		submission.ClearDomainEvents()
		claimer := uuid.New()
		f.kycRepo.On("FindByID", ctx, submission.ID).Return(submission, nil)
		f.kycRepo.On("SaveWithLock", ctx, submission).Return(nil)

		_, err = f.service.ClaimDocument(ctx, submission.ID, claimer)
		require.NoError(t, err)

		_, err = f.service.ApproveDocument(ctx, ReviewDecisionInput{
			SubmissionID: submission.ID,
			ReviewerID:   uuid.New(),
			Notes:        "ok",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "REVIEWER_MISMATCH", domainErr.Code)
	})
}

func TestKYCService_DocumentURL(t *testing.T) {
	ctx := context.Background()
	f := newKYCFixture()
	submission, err := seller.NewKYCSubmission(uuid.New(), seller.KYCDocumentTypeBankStatement, "kyc/doc-6")
	require.NoError(t, err)
	f.kycRepo.On("FindByID", ctx, submission.ID).Return(submission, nil)
	f.documents.On("GenerateDownloadURL", ctx, "kyc/doc-6", uploadURLExpiry).
		Return("https://storage.example/download/doc-6", time.Now().Add(uploadURLExpiry), nil)

	url, err := f.service.DocumentURL(ctx, submission.ID)

	require.NoError(t, err)
	assert.Equal(t, "https://storage.example/download/doc-6", url)
}

func TestKYCService_ReviewQueue(t *testing.T) {
	ctx := context.Background()
	f := newKYCFixture()
	filter := shared.Filter{Page: 1, PageSize: 20}
	first, err := seller.NewKYCSubmission(uuid.New(), seller.KYCDocumentTypeIdentity, "kyc/doc-7")
	require.NoError(t, err)
	f.kycRepo.On("FindReviewQueue", ctx, filter).Return([]seller.KYCSubmission{*first}, nil)
	f.kycRepo.On("Count", ctx, filter).Return(int64(1), nil)

	page, err := f.service.ReviewQueue(ctx, filter)

	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, seller.KYCStatusSubmitted.String(), page.Items[0].Status)
}
