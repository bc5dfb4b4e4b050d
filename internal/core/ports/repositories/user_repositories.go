package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/moneta-ict/moneta-backend/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their unique identifier.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsername retrieves a user by username.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindUserByUsernameOrEmail retrieves a user matching either credential,
	// used for duplicate checks at registration.
	FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error
}

// UserLedgerSupport defines the balance mutation primitives. All of them
// operate inside a caller-owned transaction so that the row lock taken by
// FindUserByIDForUpdate spans the read-compute-write sequence.
type UserLedgerSupport interface {
	// FindUserByIDForUpdate selects a user row and locks it for update within a transaction.
	FindUserByIDForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.User, error)

	// UpdateUserBalanceInTx sets the user's balance within a given transaction.
	UpdateUserBalanceInTx(ctx context.Context, tx pgx.Tx, userID string, newBalance decimal.Decimal, now time.Time) error

	// MarkWelcomeBonusInTx flips the bonus flag and fixes the account
	// currency within a given transaction.
	MarkWelcomeBonusInTx(ctx context.Context, tx pgx.Tx, userID string, currencyCode string, now time.Time) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserLedgerSupport
}
