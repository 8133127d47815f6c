// Package storage stores uploaded binary objects in the hosted storage
// bucket. Proof-of-purchase scans and cover images are uploaded with the
// service key and served from the bucket's public URL space.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"click-collectible-service/internal/config"
	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/httpclient"

	"github.com/rs/zerolog"
)

// BucketStorage implements the object storage interface against a
// Supabase-compatible storage endpoint.
type BucketStorage struct {
	baseURL    string
	bucket     string
	serviceKey string
	client     *httpclient.Client
	httpClient *http.Client
	logger     zerolog.Logger
}

type BucketStorageParams struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewBucketStorage creates a bucket storage adapter
func NewBucketStorage(params BucketStorageParams) *BucketStorage {
	baseURL := strings.TrimSuffix(params.Config.Identity.URL, "/") + "/storage/v1"

	client := httpclient.New(httpclient.ClientParams{
		BaseURL:     baseURL,
		Credentials: httpclient.StaticCredential(params.Config.Storage.ServiceKey),
		Logger:      params.Logger,
	})

	return &BucketStorage{
		baseURL:    baseURL,
		bucket:     params.Config.Storage.Bucket,
		serviceKey: params.Config.Storage.ServiceKey,
		client:     client,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     params.Logger.With().Str("component", "bucket_storage").Logger(),
	}
}

// Upload stores data under path and returns the public URL. The upload body
// is raw bytes, so it bypasses the JSON client.
func (s *BucketStorage) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if s.serviceKey == "" {
		return "", httpclient.ErrNoCredential
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	uploadURL := fmt.Sprintf("%s/object/%s/%s", s.baseURL, s.bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		s.logger.Error().
			Int("status", resp.StatusCode).
			Str("path", path).
			Msg("Object upload failed")
		return "", &httpclient.StatusError{Status: resp.StatusCode, Message: string(body)}
	}

	s.logger.Info().
		Str("path", path).
		Int("size", len(data)).
		Msg("Uploaded object")

	return s.PublicURL(path), nil
}

// Delete removes objects by path
func (s *BucketStorage) Delete(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	body := map[string]any{"prefixes": paths}

	err := s.client.Do(ctx, http.MethodDelete, "/object/"+s.bucket, &httpclient.Options{Body: body})
	if err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound {
			return shared.ErrObjectNotFound
		}
		return fmt.Errorf("delete objects: %w", err)
	}

	return nil
}

// PublicURL returns the public URL for a stored object
func (s *BucketStorage) PublicURL(path string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", s.baseURL, s.bucket, path)
}
