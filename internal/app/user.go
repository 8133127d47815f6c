package app

import (
	"context"
	"errors"
	"time"

	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/eventbus"
	"click-collectible-service/internal/ports/inbound"
	"click-collectible-service/internal/ports/outbound"
	"click-collectible-service/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// UserService implements the account use cases
type UserService struct {
	userRepo  outbound.UserRepository
	identity  outbound.IdentityProvider
	validator *validation.Validator
	bus       outbound.EventBus
	logger    zerolog.Logger
}

type UserServiceParams struct {
	UserRepo  outbound.UserRepository
	Identity  outbound.IdentityProvider
	Validator *validation.Validator
	Bus       outbound.EventBus
	Logger    zerolog.Logger
}

// NewUserService creates a new user service
func NewUserService(params UserServiceParams) *UserService {
	return &UserService{
		userRepo:  params.UserRepo,
		identity:  params.Identity,
		validator: params.Validator,
		bus:       params.Bus,
		logger:    params.Logger.With().Str("component", "user_service").Logger(),
	}
}

// GetOrProvision returns the local account for an authenticated identity,
// creating the row on first sign-in.
func (service *UserService) GetOrProvision(ctx context.Context, auth shared.AuthUser) (*shared.User, error) {
	user, err := service.userRepo.GetByID(ctx, auth.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, shared.ErrUserNotFound) {
		service.logger.Error().Err(err).Str("user_id", auth.ID.String()).Msg("Failed to look up user")
		return nil, err
	}

	now := time.Now()
	user = &shared.User{
		ID:        auth.ID,
		Email:     auth.Email,
		Role:      auth.Role,
		Socials:   map[string]string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	vctx := validation.Context{Action: "provision_user", Source: "identity", Dest: "db", Direction: validation.Incoming}
	if err := service.validator.User(user, vctx); err != nil {
		return nil, err
	}

	if err := service.userRepo.Create(ctx, user); err != nil {
		service.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to provision user")
		return nil, err
	}

	service.logger.Info().
		Str("user_id", user.ID.String()).
		Str("email", user.Email).
		Msg("Provisioned user on first sign-in")

	return user, nil
}

// GetUser retrieves a user's public profile
func (service *UserService) GetUser(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	user, err := service.userRepo.GetByID(ctx, id)
	if err != nil {
		service.logger.Debug().Err(err).Str("user_id", id.String()).Msg("User lookup failed")
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a partial profile update for the caller. Nil request
// fields leave the stored value unchanged.
func (service *UserService) UpdateProfile(ctx context.Context, req inbound.UpdateProfileRequest) (*shared.User, error) {
	user, err := service.userRepo.GetByID(ctx, req.CallerID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Location != nil {
		user.Location = *req.Location
	}
	if req.Socials != nil {
		user.Socials = req.Socials
	}
	user.UpdatedAt = time.Now()

	vctx := validation.Context{Action: "update_profile", Source: "api", Dest: "db", Direction: validation.Incoming}
	if err := service.validator.User(user, vctx); err != nil {
		return nil, err
	}

	if err := service.userRepo.Update(ctx, user); err != nil {
		service.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to update profile")
		return nil, err
	}

	out := validation.Context{Action: "update_profile", Source: "db", Dest: "api", Direction: validation.Outgoing}
	if err := service.validator.User(user, out); err != nil {
		return nil, err
	}

	service.logger.Info().Str("user_id", user.ID.String()).Msg("Profile updated")
	service.bus.Publish(eventbus.UserUpdated, user)

	return user, nil
}

// SignOut revokes the caller's session with the identity provider
func (service *UserService) SignOut(ctx context.Context, token string) error {
	if err := service.identity.SignOut(ctx, token); err != nil {
		service.logger.Warn().Err(err).Msg("Sign-out failed")
		return err
	}
	return nil
}
