package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestType discriminates the kinds of monetary requests.
type RequestType string

const (
	TypeDeposit      RequestType = "DEPOSIT"
	TypeWithdrawal   RequestType = "WITHDRAWAL"
	TypeInvestment   RequestType = "INVESTMENT"
	TypeWelcomeBonus RequestType = "WELCOME_BONUS"
)

// RequestStatus is the lifecycle state of a request.
//
// Deposits, withdrawals and bonuses move through PENDING → {REVIEWING} →
// {COMPLETED | REJECTED}. Investments use the separate ACTIVE → MATURED
// track and never enter the operator approval flow.
type RequestStatus string

const (
	StatusPending   RequestStatus = "PENDING"
	StatusReviewing RequestStatus = "REVIEWING"
	StatusCompleted RequestStatus = "COMPLETED"
	StatusRejected  RequestStatus = "REJECTED"
	StatusActive    RequestStatus = "ACTIVE"
	StatusMatured   RequestStatus = "MATURED"
)

// IsTerminal reports whether no further operator transition is possible.
func (s RequestStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusRejected, StatusMatured:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// Transitions are monotonic: terminal states have no outgoing edges.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusReviewing || next == StatusCompleted || next == StatusRejected
	case StatusReviewing:
		return next == StatusCompleted || next == StatusRejected
	case StatusActive:
		return next == StatusMatured
	}
	return false
}

// Decision is an operator verdict on a pending request.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// BankDetails is the payout destination attached to a withdrawal.
type BankDetails struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountType   string `json:"accountType"`
}

// InvestmentDetails is the plan snapshot attached to an investment request.
// The plan terms are copied at creation time so later catalog changes do not
// alter existing investments.
type InvestmentDetails struct {
	PlanID       string          `json:"planID"`
	PlanName     string          `json:"planName"`
	DailyReturn  decimal.Decimal `json:"dailyReturn"`
	DurationDays int             `json:"durationDays"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      time.Time       `json:"endDate"`
}

// Request is a unit of work representing a deposit, withdrawal, investment
// or bonus credit, tracked through its lifecycle. Every balance mutation is
// paired 1:1 with a request resolution.
type Request struct {
	RequestID    string          `json:"requestID"`
	Reference    string          `json:"reference"`
	UserID       string          `json:"userID"`
	Type         RequestType     `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	Status       RequestStatus   `json:"status"`
	Description  string          `json:"description"`

	// Deposits only.
	EvidenceURL    string     `json:"evidenceURL,omitempty"`
	ReviewDeadline *time.Time `json:"reviewDeadline,omitempty"`

	// Withdrawals only.
	Bank *BankDetails `json:"bank,omitempty"`

	// Investments only.
	Investment *InvestmentDetails `json:"investment,omitempty"`

	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
	ResolvedBy string     `json:"resolvedBy,omitempty"`
	AuditFields
}

// Decidable reports whether the request type participates in the operator
// approval flow at all.
func (r *Request) Decidable() bool {
	return r.Type == TypeDeposit || r.Type == TypeWithdrawal
}

// RequestFilter narrows request listings.
type RequestFilter struct {
	Status RequestStatus
	Type   RequestType
	Limit  int
	Offset int
}
