package billing

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spicedepot/backend/internal/domain/billing"
	"github.com/spicedepot/backend/internal/domain/shared"
)

type fakeObjectStorage struct {
	objects map[string][]byte
	putErr  error
	slow    time.Duration
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{objects: make(map[string][]byte)}
}

func (s *fakeObjectStorage) PutObject(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	if s.slow > 0 {
		select {
		case <-time.After(s.slow):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if s.putErr != nil {
		return s.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *fakeObjectStorage) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://storage.local/" + key, time.Now().Add(expiresIn), nil
}

func (s *fakeObjectStorage) DeleteObject(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func TestReceiptUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the file under a dated key", func(t *testing.T) {
		storage := newFakeObjectStorage()
		service := NewReceiptService(storage, newFakeDistributionRepo(), zap.NewNop())

		body := bytes.NewReader([]byte("jpeg bytes"))
		resp, err := service.Upload(ctx, nil, "receipt.JPG", "image/jpeg", body, 10)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(resp.StorageKey, "receipts/"), resp.StorageKey)
		assert.True(t, strings.HasSuffix(resp.StorageKey, ".jpg"), resp.StorageKey)
		assert.Equal(t, []byte("jpeg bytes"), storage.objects[resp.StorageKey])
	})

	t.Run("attaches the receipt to an existing bill", func(t *testing.T) {
		storage := newFakeObjectStorage()
		repo := newFakeDistributionRepo()
		service := NewReceiptService(storage, repo, zap.NewNop())

		distribution, err := billing.NewDistribution("CB-20260901-001", uuid.New(), "Sharma Caterers", time.Now())
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, distribution))

		resp, err := service.Upload(ctx, &distribution.ID, "receipt.png", "image/png", bytes.NewReader([]byte("png")), 3)
		require.NoError(t, err)
		assert.Equal(t, distribution.ID, resp.DistributionID)
		assert.Equal(t, resp.StorageKey, distribution.ReceiptImage)
	})

	t.Run("rejects disallowed content types", func(t *testing.T) {
		service := NewReceiptService(newFakeObjectStorage(), newFakeDistributionRepo(), zap.NewNop())

		_, err := service.Upload(ctx, nil, "notes.txt", "text/plain", bytes.NewReader([]byte("x")), 1)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_FILE_TYPE", derr.Code)
	})

	t.Run("rejects empty files", func(t *testing.T) {
		service := NewReceiptService(newFakeObjectStorage(), newFakeDistributionRepo(), zap.NewNop())

		_, err := service.Upload(ctx, nil, "receipt.jpg", "image/jpeg", bytes.NewReader(nil), 0)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_FILE", derr.Code)
	})

	t.Run("slow uploads time out", func(t *testing.T) {
		storage := newFakeObjectStorage()
		storage.slow = 100 * time.Millisecond
		service := NewReceiptService(storage, newFakeDistributionRepo(), zap.NewNop())
		service.SetUploadTimeout(10 * time.Millisecond)

		_, err := service.Upload(ctx, nil, "receipt.jpg", "image/jpeg", bytes.NewReader([]byte("x")), 1)
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "UPLOAD_TIMEOUT", derr.Code)
	})
}

func TestReceiptDownloadURL(t *testing.T) {
	ctx := context.Background()
	service := NewReceiptService(newFakeObjectStorage(), newFakeDistributionRepo(), zap.NewNop())

	t.Run("returns a presigned URL with expiry", func(t *testing.T) {
		url, expires, err := service.DownloadURL(ctx, "receipts/2026/09/abc.jpg", 15*time.Minute)
		require.NoError(t, err)
		assert.Contains(t, url, "receipts/2026/09/abc.jpg")
		assert.True(t, expires.After(time.Now()))
	})

	t.Run("rejects empty keys", func(t *testing.T) {
		_, _, err := service.DownloadURL(ctx, "", time.Minute)
		assert.Error(t, err)
	})
}
