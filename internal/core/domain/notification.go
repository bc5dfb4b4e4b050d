package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperatorNotification is the payload pushed to the operator channel when a
// request needs human attention. Delivery is best-effort and happens outside
// the transaction boundary.
type OperatorNotification struct {
	Reference    string          `json:"reference"`
	Type         RequestType     `json:"type"`
	UserID       string          `json:"userID"`
	Username     string          `json:"username"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	EvidenceURL  string          `json:"evidenceURL,omitempty"`
	Bank         *BankDetails    `json:"bank,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}
