package httpapi

import (
	"context"
	"net/http"
	"strings"

	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/ports/inbound"
	"click-collectible-service/internal/ports/outbound"

	"github.com/rs/zerolog"
)

type contextKey string

const (
	userContextKey  contextKey = "user"
	tokenContextKey contextKey = "token"
)

// UserFromContext returns the authenticated account attached by the auth
// middleware.
func UserFromContext(ctx context.Context) (*shared.User, bool) {
	u, ok := ctx.Value(userContextKey).(*shared.User)
	return u, ok
}

// TokenFromContext returns the raw bearer token of the current request.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

// authMiddleware authenticates every request behind it: it extracts the
// bearer token, verifies it with the identity provider and attaches the
// local account (provisioned on first sign-in) to the request context.
type authMiddleware struct {
	identity    outbound.IdentityProvider
	userService inbound.UserService
	logger      zerolog.Logger
}

func newAuthMiddleware(identity outbound.IdentityProvider, userService inbound.UserService, logger zerolog.Logger) *authMiddleware {
	return &authMiddleware{
		identity:    identity,
		userService: userService,
		logger:      logger.With().Str("component", "auth_middleware").Logger(),
	}
}

func (m *authMiddleware) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, m.logger, shared.ErrUnauthenticated)
			return
		}

		session, err := m.identity.VerifyToken(r.Context(), token)
		if err != nil {
			m.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Token verification failed")
			writeError(w, m.logger, err)
			return
		}

		user, err := m.userService.GetOrProvision(r.Context(), session.User)
		if err != nil {
			writeError(w, m.logger, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, tokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
