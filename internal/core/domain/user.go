package domain

import (
	"github.com/shopspring/decimal"
)

// UserRole gates access to the operator endpoints.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User represents an account holder. Balance is the authoritative ledger
// state for the user and is mutated only through request resolution.
type User struct {
	UserID               string          `json:"userID"`
	Username             string          `json:"username"`
	Email                string          `json:"email"`
	PasswordHash         string          `json:"-"`
	FullName             string          `json:"fullName"`
	Country              string          `json:"country"`
	Role                 UserRole        `json:"role"`
	Balance              decimal.Decimal `json:"balance"`
	CurrencyCode         string          `json:"currencyCode"`
	WelcomeBonusCredited bool            `json:"welcomeBonusCredited"`
	AuditFields
}

// IsAdmin reports whether the user may resolve requests.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
