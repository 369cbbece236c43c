package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/finvoice/backend/internal/domain/identity"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ObjectStorage is the presigned-URL object storage the company service
// needs for logo assets. Implemented by the S3 storage adapter.
type ObjectStorage interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
	DeleteObject(ctx context.Context, storageKey string) error
}

// Content types accepted for company logos
var allowedLogoContentTypes = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpg",
	"image/svg+xml": "svg",
	"image/webp":    "webp",
}

// CompanyService manages the company profile and its logo asset
type CompanyService struct {
	companyRepo   identity.CompanyRepository
	storage       ObjectStorage
	logoKeyPrefix string
	presignExpiry time.Duration
	logger        *zap.Logger
}

// NewCompanyService creates a new company service
func NewCompanyService(
	companyRepo identity.CompanyRepository,
	storage ObjectStorage,
	logoKeyPrefix string,
	presignExpiry time.Duration,
	logger *zap.Logger,
) *CompanyService {
	if logoKeyPrefix == "" {
		logoKeyPrefix = "logos"
	}
	if presignExpiry == 0 {
		presignExpiry = 15 * time.Minute
	}
	return &CompanyService{
		companyRepo:   companyRepo,
		storage:       storage,
		logoKeyPrefix: logoKeyPrefix,
		presignExpiry: presignExpiry,
		logger:        logger,
	}
}

// Get returns the company profile
func (s *CompanyService) Get(ctx context.Context, companyID uuid.UUID) (*identity.Company, error) {
	return s.companyRepo.FindByID(ctx, companyID)
}

// Update modifies the company profile
func (s *CompanyService) Update(ctx context.Context, companyID uuid.UUID, input UpdateCompanyInput) (*identity.Company, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if err := company.UpdateProfile(input.Name, input.LegalName, input.TaxNumber, input.Email, input.Phone, input.Address); err != nil {
		return nil, err
	}
	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// RequestLogoUpload returns a presigned upload URL for a new logo. The
// client uploads directly to object storage, then calls ConfirmLogoUpload
// with the returned key.
func (s *CompanyService) RequestLogoUpload(ctx context.Context, companyID uuid.UUID, contentType string) (*LogoUploadResult, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Object storage is not configured")
	}

	ext, ok := allowedLogoContentTypes[contentType]
	if !ok {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Logo must be png, jpeg, svg or webp")
	}
	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s/%s.%s", s.logoKeyPrefix, companyID, uuid.NewString(), ext)
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, s.presignExpiry)
	if err != nil {
		s.logger.Error("Failed to presign logo upload", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate upload URL")
	}

	return &LogoUploadResult{
		UploadURL: url,
		Key:       key,
		ExpiresAt: expiresAt,
	}, nil
}

// ConfirmLogoUpload records the uploaded object as the company logo after
// verifying the object actually exists. A previous logo is deleted.
func (s *CompanyService) ConfirmLogoUpload(ctx context.Context, companyID uuid.UUID, key string) (*identity.Company, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Object storage is not configured")
	}

	expectedPrefix := fmt.Sprintf("%s/%s/", s.logoKeyPrefix, companyID)
	if len(key) <= len(expectedPrefix) || key[:len(expectedPrefix)] != expectedPrefix {
		return nil, shared.NewDomainError("INVALID_KEY", "Logo key does not belong to this company")
	}

	exists, err := s.storage.ObjectExists(ctx, key)
	if err != nil {
		s.logger.Error("Failed to check logo object", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify uploaded logo")
	}
	if !exists {
		return nil, shared.NewDomainError("NOT_UPLOADED", "Logo object was not uploaded")
	}

	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	previous := company.LogoKey
	company.SetLogo(key)
	if err := s.companyRepo.Save(ctx, company); err != nil {
		return nil, err
	}

	if previous != "" && previous != key {
		if err := s.storage.DeleteObject(ctx, previous); err != nil {
			// Orphaned object, not a request failure
			s.logger.Warn("Failed to delete previous logo", zap.Error(err), zap.String("key", previous))
		}
	}
	return company, nil
}

// LogoDownloadURL returns a short-lived presigned URL for the current logo
func (s *CompanyService) LogoDownloadURL(ctx context.Context, companyID uuid.UUID) (*LogoDownloadResult, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Object storage is not configured")
	}

	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.LogoKey == "" {
		return nil, shared.ErrNotFound
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, company.LogoKey, s.presignExpiry)
	if err != nil {
		s.logger.Error("Failed to presign logo download", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate download URL")
	}

	return &LogoDownloadResult{
		DownloadURL: url,
		ExpiresAt:   expiresAt,
	}, nil
}
