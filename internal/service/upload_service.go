package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/config"
	"github.com/spec-kit/lostfound-service/internal/imaging"
	"github.com/spec-kit/lostfound-service/internal/storage"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

// UploadService normalizes uploaded images and hands them to object storage.
type UploadService struct {
	objects      storage.ObjectStore
	logger       *zap.Logger
	maxBytes     int
	maxDimension int
	now          Clock
}

// NewUploadService constructs the service.
func NewUploadService(objects storage.ObjectStore, cfg config.UploadConfig, logger *zap.Logger) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadService{
		objects:      objects,
		logger:       logger,
		maxBytes:     cfg.MaxBytes,
		maxDimension: cfg.MaxDimension,
		now:          utcNow,
	}
}

// MaxBytes is the largest accepted upload.
func (s *UploadService) MaxBytes() int {
	return s.maxBytes
}

// Upload validates data as an image, re-encodes it and stores it under a
// fresh key. Storage failures are not retried.
func (s *UploadService) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperrors.NewValidationError("no file uploaded", nil)
	}
	if s.maxBytes > 0 && len(data) > s.maxBytes {
		return "", apperrors.NewValidationError("file too large", map[string]any{"max_bytes": s.maxBytes})
	}

	processed, err := imaging.Process(data, s.maxDimension)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			return "", apperrors.NewValidationError("only JPEG, PNG and WebP images are accepted", nil)
		}
		return "", apperrors.NewInternalError(err)
	}

	key := s.objectKey()
	url, err := s.objects.Put(ctx, key, processed.MIME, processed.Data)
	if err != nil {
		s.logger.Error("upload failed", zap.String("key", key), zap.String("filename", filename), zap.Error(err))
		return "", apperrors.NewInternalError(fmt.Errorf("storing upload: %w", err))
	}

	s.logger.Info("file uploaded",
		zap.String("key", key),
		zap.String("filename", filename),
		zap.Int("bytes", len(processed.Data)))
	return url, nil
}

func (s *UploadService) objectKey() string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d-%s.jpg", s.now().UnixMilli(), random)
}
