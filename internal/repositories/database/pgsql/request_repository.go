package pgsql

import (
	"context"
	"database/sql"
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

type PgxRequestRepository struct {
	BaseRepository
}

// newPgxRequestRepository creates a new repository for request data.
func newPgxRequestRepository(pool *pgxpool.Pool) portsrepo.RequestRepositoryFacade {
	return &PgxRequestRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxRequestRepository implements portsrepo.RequestRepositoryFacade
var _ portsrepo.RequestRepositoryFacade = (*PgxRequestRepository)(nil)

const requestColumns = `request_id, reference, user_id, type, amount, currency_code, status, description, evidence_url, review_deadline, bank_name, account_number, account_type, plan_id, plan_name, daily_return, duration_days, start_date, end_date, resolved_at, resolved_by, created_at, last_updated_at`

// Helper to convert domain.Request to models.Request for DB storage
func toModelRequest(d domain.Request) models.Request {
	m := models.Request{
		RequestID:     d.RequestID,
		Reference:     d.Reference,
		UserID:        d.UserID,
		Type:          string(d.Type),
		Amount:        d.Amount,
		CurrencyCode:  d.CurrencyCode,
		Status:        string(d.Status),
		Description:   d.Description,
		CreatedAt:     d.CreatedAt,
		LastUpdatedAt: d.LastUpdatedAt,
	}
	if d.EvidenceURL != "" {
		m.EvidenceURL = sql.NullString{String: d.EvidenceURL, Valid: true}
	}
	if d.ReviewDeadline != nil {
		m.ReviewDeadline = sql.NullTime{Time: *d.ReviewDeadline, Valid: true}
	}
	if d.Bank != nil {
		m.BankName = sql.NullString{String: d.Bank.BankName, Valid: true}
		m.AccountNumber = sql.NullString{String: d.Bank.AccountNumber, Valid: true}
		m.AccountType = sql.NullString{String: d.Bank.AccountType, Valid: true}
	}
	if d.Investment != nil {
		m.PlanID = sql.NullString{String: d.Investment.PlanID, Valid: true}
		m.PlanName = sql.NullString{String: d.Investment.PlanName, Valid: true}
		m.DailyReturn = decimal.NullDecimal{Decimal: d.Investment.DailyReturn, Valid: true}
		m.DurationDays = sql.NullInt32{Int32: int32(d.Investment.DurationDays), Valid: true}
		m.StartDate = sql.NullTime{Time: d.Investment.StartDate, Valid: true}
		m.EndDate = sql.NullTime{Time: d.Investment.EndDate, Valid: true}
	}
	if d.ResolvedAt != nil {
		m.ResolvedAt = sql.NullTime{Time: *d.ResolvedAt, Valid: true}
	}
	if d.ResolvedBy != "" {
		m.ResolvedBy = sql.NullString{String: d.ResolvedBy, Valid: true}
	}
	return m
}

// Helper to convert models.Request from DB to domain.Request
func toDomainRequest(m models.Request) domain.Request {
	d := domain.Request{
		RequestID:    m.RequestID,
		Reference:    m.Reference,
		UserID:       m.UserID,
		Type:         domain.RequestType(m.Type),
		Amount:       m.Amount,
		CurrencyCode: m.CurrencyCode,
		Status:       domain.RequestStatus(m.Status),
		Description:  m.Description,
		ResolvedBy:   m.ResolvedBy.String,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
	d.EvidenceURL = m.EvidenceURL.String
	if m.ReviewDeadline.Valid {
		deadline := m.ReviewDeadline.Time
		d.ReviewDeadline = &deadline
	}
	if m.BankName.Valid {
		d.Bank = &domain.BankDetails{
			BankName:      m.BankName.String,
			AccountNumber: m.AccountNumber.String,
			AccountType:   m.AccountType.String,
		}
	}
	if m.PlanID.Valid {
		d.Investment = &domain.InvestmentDetails{
			PlanID:       m.PlanID.String,
			PlanName:     m.PlanName.String,
			DailyReturn:  m.DailyReturn.Decimal,
			DurationDays: int(m.DurationDays.Int32),
			StartDate:    m.StartDate.Time,
			EndDate:      m.EndDate.Time,
		}
	}
	if m.ResolvedAt.Valid {
		resolvedAt := m.ResolvedAt.Time
		d.ResolvedAt = &resolvedAt
	}
	return d
}

func scanRequest(row rowScanner) (*domain.Request, error) {
	var m models.Request
	err := row.Scan(
		&m.RequestID,
		&m.Reference,
		&m.UserID,
		&m.Type,
		&m.Amount,
		&m.CurrencyCode,
		&m.Status,
		&m.Description,
		&m.EvidenceURL,
		&m.ReviewDeadline,
		&m.BankName,
		&m.AccountNumber,
		&m.AccountType,
		&m.PlanID,
		&m.PlanName,
		&m.DailyReturn,
		&m.DurationDays,
		&m.StartDate,
		&m.EndDate,
		&m.ResolvedAt,
		&m.ResolvedBy,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan request row: %w", err)
	}
	d := toDomainRequest(m)
	return &d, nil
}

// SaveRequestInTx inserts a new request within a transaction.
func (r *PgxRequestRepository) SaveRequestInTx(ctx context.Context, tx pgx.Tx, request domain.Request) error {
	m := toModelRequest(request)

	query := `
		INSERT INTO requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);
	`
	_, err := tx.Exec(ctx, query,
		m.RequestID,
		m.Reference,
		m.UserID,
		m.Type,
		m.Amount,
		m.CurrencyCode,
		m.Status,
		m.Description,
		m.EvidenceURL,
		m.ReviewDeadline,
		m.BankName,
		m.AccountNumber,
		m.AccountType,
		m.PlanID,
		m.PlanName,
		m.DailyReturn,
		m.DurationDays,
		m.StartDate,
		m.EndDate,
		m.ResolvedAt,
		m.ResolvedBy,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: request with reference %s already exists", apperrors.ErrDuplicate, m.Reference)
		}
		return fmt.Errorf("failed to save request %s: %w", m.Reference, err)
	}
	return nil
}

// FindRequestByReference retrieves a request by its external reference.
func (r *PgxRequestRepository) FindRequestByReference(ctx context.Context, reference string) (*domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE reference = $1;`
	request, err := scanRequest(r.Pool.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find request %s: %w", reference, err)
	}
	return request, nil
}

// FindRequestByReferenceForUpdate retrieves a request row and locks it for
// update. Must be called within a transaction; concurrent decisions on the
// same reference serialize on this lock.
func (r *PgxRequestRepository) FindRequestByReferenceForUpdate(ctx context.Context, tx pgx.Tx, reference string) (*domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE reference = $1 FOR UPDATE;`
	request, err := scanRequest(tx.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock request row %s: %w", reference, err)
	}
	return request, nil
}

func (r *PgxRequestRepository) listRequests(ctx context.Context, where string, args []any, filter domain.RequestFilter) ([]domain.Request, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		where += fmt.Sprintf(" AND type = $%d", len(args))
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT `+requestColumns+`
		FROM requests
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d;
	`, where, len(args)-1, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	requests := []domain.Request{}
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating request rows: %w", err)
	}
	return requests, nil
}

// ListRequestsByUser retrieves a user's requests, newest first.
func (r *PgxRequestRepository) ListRequestsByUser(ctx context.Context, userID string, filter domain.RequestFilter) ([]domain.Request, error) {
	return r.listRequests(ctx, "user_id = $1", []any{userID}, filter)
}

// ListRequests retrieves requests across all users, newest first.
func (r *PgxRequestRepository) ListRequests(ctx context.Context, filter domain.RequestFilter) ([]domain.Request, error) {
	return r.listRequests(ctx, "TRUE", nil, filter)
}

// CountRequestsByUserAndType counts a user's requests of a given type.
func (r *PgxRequestRepository) CountRequestsByUserAndType(ctx context.Context, userID string, requestType domain.RequestType) (int, error) {
	query := `SELECT COUNT(*) FROM requests WHERE user_id = $1 AND type = $2;`
	var count int
	if err := r.Pool.QueryRow(ctx, query, userID, string(requestType)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count requests for user %s: %w", userID, err)
	}
	return count, nil
}

// SetEvidence attaches a proof artifact and moves the request to REVIEWING.
// The update is conditional on the current status so a race with a decision
// shows up as zero rows affected rather than a stomped terminal status.
func (r *PgxRequestRepository) SetEvidence(ctx context.Context, reference string, evidenceURL string, reviewDeadline time.Time, now time.Time) (int64, error) {
	query := `
		UPDATE requests
		SET status = $2, evidence_url = $3, review_deadline = $4, last_updated_at = $5
		WHERE reference = $1 AND status = ANY($6);
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		reference,
		string(domain.StatusReviewing),
		evidenceURL,
		reviewDeadline,
		now,
		[]string{string(domain.StatusPending), string(domain.StatusReviewing)},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to set evidence on request %s: %w", reference, err)
	}
	return cmdTag.RowsAffected(), nil
}

// TransitionStatusInTx performs a compare-and-swap on status: the row is
// updated only if its current status is one of fromStatuses.
func (r *PgxRequestRepository) TransitionStatusInTx(ctx context.Context, tx pgx.Tx, reference string, fromStatuses []domain.RequestStatus, to domain.RequestStatus, resolvedBy string, now time.Time) (int64, error) {
	from := make([]string, len(fromStatuses))
	for i, s := range fromStatuses {
		from[i] = string(s)
	}

	query := `
		UPDATE requests
		SET status = $2, resolved_at = $3, resolved_by = $4, last_updated_at = $3
		WHERE reference = $1 AND status = ANY($5);
	`
	cmdTag, err := tx.Exec(ctx, query, reference, string(to), now, resolvedBy, from)
	if err != nil {
		return 0, fmt.Errorf("failed to transition request %s to %s: %w", reference, to, err)
	}
	return cmdTag.RowsAffected(), nil
}
