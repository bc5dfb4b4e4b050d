package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Request is the DB representation of a monetary request. Type-specific
// fields are nullable columns; which ones are populated depends on type.
type Request struct {
	RequestID    string          `db:"request_id"`
	Reference    string          `db:"reference"`
	UserID       string          `db:"user_id"`
	Type         string          `db:"type"`
	Amount       decimal.Decimal `db:"amount"`
	CurrencyCode string          `db:"currency_code"`
	Status       string          `db:"status"`
	Description  string          `db:"description"`

	EvidenceURL    sql.NullString `db:"evidence_url"`
	ReviewDeadline sql.NullTime   `db:"review_deadline"`

	BankName      sql.NullString `db:"bank_name"`
	AccountNumber sql.NullString `db:"account_number"`
	AccountType   sql.NullString `db:"account_type"`

	PlanID       sql.NullString      `db:"plan_id"`
	PlanName     sql.NullString      `db:"plan_name"`
	DailyReturn  decimal.NullDecimal `db:"daily_return"`
	DurationDays sql.NullInt32       `db:"duration_days"`
	StartDate    sql.NullTime        `db:"start_date"`
	EndDate      sql.NullTime        `db:"end_date"`

	ResolvedAt    sql.NullTime   `db:"resolved_at"`
	ResolvedBy    sql.NullString `db:"resolved_by"`
	CreatedAt     time.Time      `db:"created_at"`
	LastUpdatedAt time.Time      `db:"last_updated_at"`
}
