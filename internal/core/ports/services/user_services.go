package services

import (
	"context"
	"time"

	"github.com/moneta-ict/moneta-backend/internal/core/domain"
	"github.com/moneta-ict/moneta-backend/internal/dto"
)

// UserSvcFacade defines account registration, authentication and lookup.
type UserSvcFacade interface {
	// Register creates a new user and applies the welcome bonus policy.
	// A bonus policy failure is reported in the result, never as an error.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// Authenticate verifies credentials and returns the user on success.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	// GetUserByID retrieves a user's profile.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// TokenSvcFacade mints access tokens.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a new JWT access token for the given user.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}
