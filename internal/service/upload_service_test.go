package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lostfound-service/internal/config"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

type memoryObjects struct {
	objects map[string][]byte
	err     error
}

func (m *memoryObjects) Put(_ context.Context, key, contentType string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[key] = data
	return "https://cdn.example.com/uploads/" + key, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestUploadStoresReencodedImage(t *testing.T) {
	objects := &memoryObjects{}
	svc := NewUploadService(objects, config.UploadConfig{MaxBytes: 1 << 20, MaxDimension: 64}, nil)

	url, err := svc.Upload(context.Background(), "photo.png", pngBytes(t, 200, 100))
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^https://cdn\.example\.com/uploads/\d+-[0-9a-f]{8}\.jpg$`), url)
	require.Len(t, objects.objects, 1)
	for _, data := range objects.objects {
		cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, 64, cfg.Width)
		assert.Equal(t, 32, cfg.Height)
	}
}

func TestUploadValidation(t *testing.T) {
	svc := NewUploadService(&memoryObjects{}, config.UploadConfig{MaxBytes: 1024, MaxDimension: 64}, nil)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "empty.png", nil)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = svc.Upload(ctx, "notes.txt", []byte("just some text"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = svc.Upload(ctx, "huge.png", make([]byte, 2048))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestUploadStorageFailure(t *testing.T) {
	svc := NewUploadService(&memoryObjects{err: errors.New("bucket unavailable")}, config.UploadConfig{MaxBytes: 1 << 20}, nil)

	_, err := svc.Upload(context.Background(), "photo.png", pngBytes(t, 10, 10))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
	assert.Equal(t, 500, apperrors.ToDomainError(err).HTTPStatus)
}
