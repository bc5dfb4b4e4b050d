package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the DB representation of an account holder.
type User struct {
	UserID               string          `db:"user_id"`
	Username             string          `db:"username"`
	Email                string          `db:"email"`
	PasswordHash         string          `db:"password_hash"`
	FullName             string          `db:"full_name"`
	Country              string          `db:"country"`
	Role                 string          `db:"role"`
	Balance              decimal.Decimal `db:"balance"`
	CurrencyCode         string          `db:"currency_code"`
	WelcomeBonusCredited bool            `db:"welcome_bonus_credited"`
	CreatedAt            time.Time       `db:"created_at"`
	LastUpdatedAt        time.Time       `db:"last_updated_at"`
}
