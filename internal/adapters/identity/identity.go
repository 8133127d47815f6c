// Package identity verifies bearer tokens against the hosted identity
// service. Tokens are verified locally against the shared JWT secret when one
// is configured; otherwise the provider's REST endpoint is consulted.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"click-collectible-service/internal/config"
	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/httpclient"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Provider implements the identity provider interface against a
// Supabase-compatible auth endpoint.
type Provider struct {
	client    *httpclient.Client
	anonKey   string
	jwtSecret []byte
	logger    zerolog.Logger
}

type ProviderParams struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewProvider creates an identity provider
func NewProvider(params ProviderParams) *Provider {
	cfg := params.Config.Identity

	client := httpclient.New(httpclient.ClientParams{
		BaseURL:     cfg.URL,
		Credentials: httpclient.StaticCredential(cfg.AnonKey),
		Logger:      params.Logger,
	})

	return &Provider{
		client:    client,
		anonKey:   cfg.AnonKey,
		jwtSecret: []byte(cfg.JWTSecret),
		logger:    params.Logger.With().Str("component", "identity_provider").Logger(),
	}
}

// VerifyToken validates an access token and returns its session. The token
// must have the three dot-separated segments of a JWT; malformed tokens are
// rejected before any upstream call.
func (p *Provider) VerifyToken(ctx context.Context, token string) (*shared.Session, error) {
	if token == "" {
		return nil, shared.ErrUnauthenticated
	}

	if len(strings.Split(token, ".")) != 3 {
		return nil, shared.ErrTokenMalformed
	}

	if len(p.jwtSecret) > 0 {
		session, err := p.verifyLocal(token)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, errVerifyUpstream) {
			return nil, err
		}
	}

	return p.verifyUpstream(ctx, token)
}

// errVerifyUpstream signals that local verification could not decide and the
// upstream endpoint should be consulted.
var errVerifyUpstream = errors.New("defer to upstream verification")

type sessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func (p *Provider) verifyLocal(token string) (*shared.Session, error) {
	var claims sessionClaims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return p.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, shared.ErrTokenInvalid
		}
		// The secret may not match the issuer's; let the upstream decide.
		return nil, errVerifyUpstream
	}
	if !parsed.Valid {
		return nil, shared.ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, shared.ErrTokenInvalid
	}

	session := &shared.Session{
		AccessToken: token,
		User: shared.AuthUser{
			ID:    userID,
			Email: claims.Email,
			Role:  claims.Role,
		},
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	if session.Expired() {
		return nil, shared.ErrTokenInvalid
	}

	return session, nil
}

type upstreamUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (p *Provider) verifyUpstream(ctx context.Context, token string) (*shared.Session, error) {
	var user upstreamUser

	err := p.client.Do(ctx, http.MethodGet, "/auth/v1/user", &httpclient.Options{
		Out:    &user,
		Bearer: token,
		Header: http.Header{"Apikey": []string{p.anonKey}},
	})
	if err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) && (statusErr.Status == http.StatusUnauthorized || statusErr.Status == http.StatusForbidden) {
			return nil, shared.ErrTokenInvalid
		}
		p.logger.Error().Err(err).Msg("Token verification request failed")
		return nil, fmt.Errorf("verify token: %w", err)
	}

	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return nil, shared.ErrTokenInvalid
	}

	return &shared.Session{
		AccessToken: token,
		ExpiresAt:   time.Time{},
		User: shared.AuthUser{
			ID:    userID,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}

// SignOut revokes the session behind the token
func (p *Provider) SignOut(ctx context.Context, token string) error {
	err := p.client.Do(ctx, http.MethodPost, "/auth/v1/logout", &httpclient.Options{
		Bearer: token,
		Header: http.Header{"Apikey": []string{p.anonKey}},
	})
	if err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) && statusErr.Status == http.StatusUnauthorized {
			return shared.ErrTokenInvalid
		}
		return fmt.Errorf("sign out: %w", err)
	}

	return nil
}
