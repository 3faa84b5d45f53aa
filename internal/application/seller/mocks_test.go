package seller

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mercato/backend/internal/domain/seller"
	"github.com/mercato/backend/internal/domain/shared"
)

type MockSellerProfileRepository struct {
	mock.Mock
}

func (m *MockSellerProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*seller.SellerProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seller.SellerProfile), args.Error(1)
}

func (m *MockSellerProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*seller.SellerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seller.SellerProfile), args.Error(1)
}

func (m *MockSellerProfileRepository) FindBySlug(ctx context.Context, slug string) (*seller.SellerProfile, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seller.SellerProfile), args.Error(1)
}

func (m *MockSellerProfileRepository) FindAll(ctx context.Context, filter shared.Filter) ([]seller.SellerProfile, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]seller.SellerProfile), args.Error(1)
}

func (m *MockSellerProfileRepository) FindByStatus(ctx context.Context, status seller.ProfileStatus, filter shared.Filter) ([]seller.SellerProfile, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]seller.SellerProfile), args.Error(1)
}

func (m *MockSellerProfileRepository) Save(ctx context.Context, p *seller.SellerProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockSellerProfileRepository) SaveWithLock(ctx context.Context, p *seller.SellerProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockSellerProfileRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSellerProfileRepository) ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSellerProfileRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

type MockKYCSubmissionRepository struct {
	mock.Mock
}

func (m *MockKYCSubmissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*seller.KYCSubmission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seller.KYCSubmission), args.Error(1)
}

func (m *MockKYCSubmissionRepository) FindByProfile(ctx context.Context, sellerProfileID uuid.UUID) ([]seller.KYCSubmission, error) {
	args := m.Called(ctx, sellerProfileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]seller.KYCSubmission), args.Error(1)
}

func (m *MockKYCSubmissionRepository) FindReviewQueue(ctx context.Context, filter shared.Filter) ([]seller.KYCSubmission, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]seller.KYCSubmission), args.Error(1)
}

func (m *MockKYCSubmissionRepository) Save(ctx context.Context, k *seller.KYCSubmission) error {
	args := m.Called(ctx, k)
	return args.Error(0)
}

func (m *MockKYCSubmissionRepository) SaveWithLock(ctx context.Context, k *seller.KYCSubmission) error {
	args := m.Called(ctx, k)
	return args.Error(0)
}

func (m *MockKYCSubmissionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockDocumentStore) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
