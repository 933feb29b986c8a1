// Package storage holds the object stores uploaded files are written to.
package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spec-kit/lostfound-service/internal/config"
)

// ObjectStore persists an object under key and returns its public URL.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// New selects the backend named by cfg.Driver.
func New(cfg config.StorageConfig) (ObjectStore, error) {
	switch cfg.Driver {
	case config.StorageLocal, "":
		return NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL)
	case config.StorageSupabase:
		return NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.Bucket, &http.Client{Timeout: 30 * time.Second}), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
