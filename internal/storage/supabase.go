package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// SupabaseStore uploads objects through the Supabase Storage REST API into a
// public bucket.
type SupabaseStore struct {
	baseURL string
	key     string
	bucket  string
	client  *http.Client
}

// NewSupabaseStore builds a store for the project at baseURL.
func NewSupabaseStore(baseURL, serviceKey, bucket string, client *http.Client) *SupabaseStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &SupabaseStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     serviceKey,
		bucket:  bucket,
		client:  client,
	}
}

func (s *SupabaseStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	object := url.PathEscape(s.bucket) + "/" + url.PathEscape(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/storage/v1/object/"+object, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("apikey", s.key)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=3600")
	req.Header.Set("x-upsert", "false")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("uploading object: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return s.baseURL + "/storage/v1/object/public/" + object, nil
}
