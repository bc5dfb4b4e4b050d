package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/moneta-ict/moneta-backend/internal/apperrors"
	"github.com/moneta-ict/moneta-backend/internal/core/domain"
	portsrepo "github.com/moneta-ict/moneta-backend/internal/core/ports/repositories"
	"github.com/moneta-ict/moneta-backend/internal/models"
)

type PgxUserRepository struct {
	pool *pgxpool.Pool
}

// newPgxUserRepository creates a new repository for user data.
func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{pool: pool}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `user_id, username, email, password_hash, full_name, country, role, balance, currency_code, welcome_bonus_credited, created_at, last_updated_at`

// Helper to convert domain.User to models.User for DB storage
func toModelUser(d domain.User) models.User {
	return models.User{
		UserID:               d.UserID,
		Username:             d.Username,
		Email:                d.Email,
		PasswordHash:         d.PasswordHash,
		FullName:             d.FullName,
		Country:              d.Country,
		Role:                 string(d.Role),
		Balance:              d.Balance,
		CurrencyCode:         d.CurrencyCode,
		WelcomeBonusCredited: d.WelcomeBonusCredited,
		CreatedAt:            d.CreatedAt,
		LastUpdatedAt:        d.LastUpdatedAt,
	}
}

// Helper to convert models.User from DB to domain.User
func toDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:               m.UserID,
		Username:             m.Username,
		Email:                m.Email,
		PasswordHash:         m.PasswordHash,
		FullName:             m.FullName,
		Country:              m.Country,
		Role:                 domain.UserRole(m.Role),
		Balance:              m.Balance,
		CurrencyCode:         m.CurrencyCode,
		WelcomeBonusCredited: m.WelcomeBonusCredited,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

// rowScanner abstracts pgx.Row so user scanning works from both the pool and
// a transaction.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Username,
		&m.Email,
		&m.PasswordHash,
		&m.FullName,
		&m.Country,
		&m.Role,
		&m.Balance,
		&m.CurrencyCode,
		&m.WelcomeBonusCredited,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}
	u := toDomainUser(m)
	return &u, nil
}

// SaveUser inserts a new user.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := toModelUser(user)

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.pool.Exec(ctx, query,
		m.UserID,
		m.Username,
		m.Email,
		m.PasswordHash,
		m.FullName,
		m.Country,
		m.Role,
		m.Balance,
		m.CurrencyCode,
		m.WelcomeBonusCredited,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: user with this username or email already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save user %s: %w", m.UserID, err)
	}
	return nil
}

// FindUserByID retrieves a user by their ID.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`
	user, err := scanUser(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	return user, nil
}

// FindUserByUsername retrieves a user by username.
func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1;`
	user, err := scanUser(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return user, nil
}

// FindUserByUsernameOrEmail retrieves a user matching either credential.
func (r *PgxUserRepository) FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $2 LIMIT 1;`
	user, err := scanUser(r.pool.QueryRow(ctx, query, username, email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by username or email: %w", err)
	}
	return user, nil
}

// FindUserByIDForUpdate retrieves a user row and locks it for update.
// Must be called within a transaction.
func (r *PgxUserRepository) FindUserByIDForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1 FOR UPDATE;`
	user, err := scanUser(tx.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock user row %s: %w", userID, err)
	}
	return user, nil
}

// UpdateUserBalanceInTx sets the user's balance within a transaction. The
// caller must hold the row lock taken by FindUserByIDForUpdate.
func (r *PgxUserRepository) UpdateUserBalanceInTx(ctx context.Context, tx pgx.Tx, userID string, newBalance decimal.Decimal, now time.Time) error {
	query := `
		UPDATE users
		SET balance = $2, last_updated_at = $3
		WHERE user_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, userID, newBalance, now)
	if err != nil {
		return fmt.Errorf("failed to update balance for user %s: %w", userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s not found during balance update", apperrors.ErrNotFound, userID)
	}
	return nil
}

// MarkWelcomeBonusInTx flips the bonus flag and fixes the account currency.
func (r *PgxUserRepository) MarkWelcomeBonusInTx(ctx context.Context, tx pgx.Tx, userID string, currencyCode string, now time.Time) error {
	query := `
		UPDATE users
		SET welcome_bonus_credited = TRUE, currency_code = $2, last_updated_at = $3
		WHERE user_id = $1 AND welcome_bonus_credited = FALSE;
	`
	cmdTag, err := tx.Exec(ctx, query, userID, currencyCode, now)
	if err != nil {
		return fmt.Errorf("failed to mark welcome bonus for user %s: %w", userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Either the user vanished or the bonus was already credited. The
		// caller checks the flag under the row lock first, so this means
		// the row is gone.
		return fmt.Errorf("%w: user %s not found during bonus flag update", apperrors.ErrNotFound, userID)
	}
	return nil
}
