package inbound

import (
	"context"

	"github.com/google/uuid"

	"click-collectible-service/internal/domain/shared"
)

// UserService defines the interface for account operations
type UserService interface {
	// GetOrProvision returns the local account for an authenticated
	// identity, creating the row on first sign-in
	GetOrProvision(ctx context.Context, auth shared.AuthUser) (*shared.User, error)

	// GetUser retrieves a user's public profile
	GetUser(ctx context.Context, id uuid.UUID) (*shared.User, error)

	// UpdateProfile applies a partial profile update for the caller
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*shared.User, error)

	// SignOut revokes the caller's session with the identity provider
	SignOut(ctx context.Context, token string) error
}

// request to update a profile; nil fields are left unchanged
type UpdateProfileRequest struct {
	CallerID  uuid.UUID         `json:"-"`
	FirstName *string           `json:"first_name,omitempty"`
	LastName  *string           `json:"last_name,omitempty"`
	Location  *string           `json:"location,omitempty"`
	Socials   map[string]string `json:"socials,omitempty"`
}
