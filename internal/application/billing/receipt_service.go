package billing

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spicedepot/backend/internal/domain/billing"
	"github.com/spicedepot/backend/internal/domain/shared"
)

// DefaultUploadTimeout bounds how long a receipt upload may take before the
// request is abandoned
const DefaultUploadTimeout = 30 * time.Second

// allowedReceiptTypes is the whitelist for receipt uploads; receipts are
// photos or scans, nothing executable
var allowedReceiptTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// ObjectStorage is implemented by the infrastructure layer (S3 or a local
// stub) and stores uploaded receipt files
type ObjectStorage interface {
	// PutObject stores a file under the given key
	PutObject(ctx context.Context, key, contentType string, body io.Reader, size int64) error

	// GenerateDownloadURL returns a presigned download URL and its expiry
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject removes a stored file
	DeleteObject(ctx context.Context, key string) error
}

// ReceiptUploadResponse reports a stored receipt file
type ReceiptUploadResponse struct {
	StorageKey     string    `json:"storage_key"`
	DistributionID uuid.UUID `json:"distribution_id,omitempty"`
	UploadedAt     time.Time `json:"uploaded_at"`
}

// ReceiptService stores receipt images for bills
type ReceiptService struct {
	storage          ObjectStorage
	distributionRepo billing.DistributionRepository
	uploadTimeout    time.Duration
	logger           *zap.Logger
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(storage ObjectStorage, distributionRepo billing.DistributionRepository, logger *zap.Logger) *ReceiptService {
	return &ReceiptService{
		storage:          storage,
		distributionRepo: distributionRepo,
		uploadTimeout:    DefaultUploadTimeout,
		logger:           logger,
	}
}

// SetUploadTimeout overrides the upload deadline
func (s *ReceiptService) SetUploadTimeout(d time.Duration) {
	s.uploadTimeout = d
}

// Upload stores a receipt file and, when a distribution ID is given, attaches
// it to that bill. The upload is bounded by the configured timeout.
func (s *ReceiptService) Upload(ctx context.Context, distributionID *uuid.UUID, filename, contentType string, body io.Reader, size int64) (*ReceiptUploadResponse, error) {
	if !allowedReceiptTypes[strings.ToLower(contentType)] {
		return nil, shared.NewDomainError("INVALID_FILE_TYPE", "Receipt must be a JPEG, PNG, WebP, or PDF file")
	}
	if size <= 0 {
		return nil, shared.NewDomainError("INVALID_FILE", "Receipt file is empty")
	}

	key := fmt.Sprintf("receipts/%s/%s%s", time.Now().Format("2006/01"), uuid.NewString(), strings.ToLower(filepath.Ext(filename)))

	uploadCtx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	if err := s.storage.PutObject(uploadCtx, key, contentType, body, size); err != nil {
		if uploadCtx.Err() != nil {
			s.logger.Warn("receipt upload timed out", zap.String("key", key), zap.Error(err))
			return nil, shared.NewDomainError("UPLOAD_TIMEOUT", "Receipt upload did not finish in time")
		}
		return nil, err
	}

	response := &ReceiptUploadResponse{
		StorageKey: key,
		UploadedAt: time.Now(),
	}

	if distributionID != nil {
		distribution, err := s.distributionRepo.FindByID(ctx, *distributionID)
		if err != nil {
			return nil, err
		}
		distribution.SetReceiptImage(key)
		if err := s.distributionRepo.Save(ctx, distribution); err != nil {
			return nil, err
		}
		response.DistributionID = *distributionID
	}

	return response, nil
}

// DownloadURL returns a presigned URL for a stored receipt
func (s *ReceiptService) DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, shared.NewDomainError("INVALID_KEY", "Storage key cannot be empty")
	}
	return s.storage.GenerateDownloadURL(ctx, key, expiresIn)
}
