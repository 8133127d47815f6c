package outbound

import (
	"context"

	"click-collectible-service/internal/domain/shared"
)

// IdentityProvider verifies bearer credentials against the hosted identity
// service and exposes the session lifecycle operations the application
// consumes.
type IdentityProvider interface {
	// VerifyToken validates an access token and returns its session. The
	// token's shape is checked before any upstream call is attempted.
	VerifyToken(ctx context.Context, token string) (*shared.Session, error)

	// SignOut revokes the session behind the token
	SignOut(ctx context.Context, token string) error
}

// ObjectStorage stores uploaded binary objects (proof-of-purchase scans,
// cover images) in the provider's bucket.
type ObjectStorage interface {
	// Upload stores data under path and returns the public URL
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)

	// Delete removes objects by path
	Delete(ctx context.Context, paths []string) error

	// PublicURL returns the public URL for a stored object
	PublicURL(path string) string
}

// ImageResult is a normalized external image search hit.
type ImageResult struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
	Title     string `json:"title"`
}

// ImageSearcher queries the keyed external image-search provider.
type ImageSearcher interface {
	Search(ctx context.Context, query string) ([]ImageResult, error)
}
