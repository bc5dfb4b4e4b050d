package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/moneta-ict/moneta-backend/internal/apperrors"
	"github.com/moneta-ict/moneta-backend/internal/core/domain"
	portsrepo "github.com/moneta-ict/moneta-backend/internal/core/ports/repositories"
	portssvc "github.com/moneta-ict/moneta-backend/internal/core/ports/services"
	"github.com/moneta-ict/moneta-backend/internal/dto"
	"github.com/moneta-ict/moneta-backend/internal/middleware"
	"github.com/moneta-ict/moneta-backend/internal/utils"
)

// fallbackCurrency is assigned at registration when the jurisdiction has no
// bonus entry; the first supported credit would fix the real currency.
const fallbackCurrency = "USD"

// userService handles registration, authentication and profile lookup.
type userService struct {
	userRepo    portsrepo.UserRepositoryFacade
	requestRepo portsrepo.RequestRepositoryFacade
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, requestRepo portsrepo.RequestRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{
		userRepo:    userRepo,
		requestRepo: requestRepo,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// Register creates a new user and applies the welcome bonus policy.
// An unsupported jurisdiction is logged and swallowed: the account is still
// created with a zero balance and no bonus request.
func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.userRepo.FindUserByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username or email already exists", apperrors.ErrDuplicate)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	bonus, bonusErr := BonusForCountry(req.Country)

	currency := fallbackCurrency
	if bonusErr == nil {
		currency = bonus.CurrencyCode
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		FullName:     req.FullName,
		Country:      req.Country,
		Role:         domain.RoleUser,
		Balance:      decimal.Zero,
		CurrencyCode: currency,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	if bonusErr != nil {
		// Policy gap is a warning, not a registration failure.
		logger.Warn("Welcome bonus skipped",
			slog.String("user_id", user.UserID),
			slog.String("country", req.Country),
			slog.String("error", bonusErr.Error()))
		return &user, nil
	}

	credited, err := s.creditWelcomeBonus(ctx, user.UserID, bonus)
	if err != nil {
		// The account exists; the bonus can be replayed by an operator.
		logger.Error("Failed to credit welcome bonus",
			slog.String("user_id", user.UserID),
			slog.String("error", err.Error()))
		return &user, nil
	}

	logger.Info("Welcome bonus credited",
		slog.String("user_id", user.UserID),
		slog.String("amount", bonus.Amount.String()),
		slog.String("currency", bonus.CurrencyCode))
	return credited, nil
}

// creditWelcomeBonus applies the bonus exactly once: the flag check, the
// balance credit and the COMPLETED bonus request land in one transaction
// under a row lock, so a retried registration or a replayed credit call
// observes the flag and becomes a no-op.
func (s *userService) creditWelcomeBonus(ctx context.Context, userID string, bonus domain.WelcomeBonus) (*domain.User, error) {
	tx, err := s.requestRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.requestRepo.Rollback(ctx, tx)

	user, err := s.userRepo.FindUserByIDForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock user %s: %w", userID, err)
	}
	if user.WelcomeBonusCredited {
		return user, nil
	}

	now := time.Now().UTC()
	newBalance := user.Balance.Add(bonus.Amount)

	if err := s.userRepo.UpdateUserBalanceInTx(ctx, tx, userID, newBalance, now); err != nil {
		return nil, fmt.Errorf("failed to credit bonus balance: %w", err)
	}
	if err := s.userRepo.MarkWelcomeBonusInTx(ctx, tx, userID, bonus.CurrencyCode, now); err != nil {
		return nil, fmt.Errorf("failed to mark bonus flag: %w", err)
	}

	reference, err := utils.NewReference(utils.RefPrefixWelcomeBonus)
	if err != nil {
		return nil, err
	}
	resolvedAt := now
	request := domain.Request{
		RequestID:    uuid.NewString(),
		Reference:    reference,
		UserID:       userID,
		Type:         domain.TypeWelcomeBonus,
		Amount:       bonus.Amount,
		CurrencyCode: bonus.CurrencyCode,
		Status:       domain.StatusCompleted,
		Description:  "Welcome Bonus - " + bonus.CountryName,
		ResolvedAt:   &resolvedAt,
		ResolvedBy:   "system",
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.requestRepo.SaveRequestInTx(ctx, tx, request); err != nil {
		return nil, fmt.Errorf("failed to save bonus request: %w", err)
	}

	if err := s.requestRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	user.Balance = newBalance
	user.CurrencyCode = bonus.CurrencyCode
	user.WelcomeBonusCredited = true
	user.LastUpdatedAt = now
	return user, nil
}

// Authenticate verifies credentials and returns the user on success.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same error as a bad password to avoid leaking which usernames exist.
			return nil, apperrors.ErrUnauthorized
		}
		logger.Error("Failed to look up user for authentication", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}

	return user, nil
}

// GetUserByID retrieves a user's profile.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", userID, err)
	}
	return user, nil
}
