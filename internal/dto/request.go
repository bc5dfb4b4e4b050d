package dto

import (
	"time"

	"github.com/moneta-ict/moneta-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDepositRequest defines the data needed to open a deposit.
type CreateDepositRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currency" binding:"required,len=3,uppercase"`
}

// CreateWithdrawalRequest defines the data needed to request a payout.
type CreateWithdrawalRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode  string          `json:"currency" binding:"required,len=3,uppercase"`
	BankName      string          `json:"bankName" binding:"required"`
	AccountNumber string          `json:"accountNumber" binding:"required"`
	AccountType   string          `json:"accountType" binding:"required,oneof=savings checking"`
}

// CreateInvestmentRequest defines the data needed to lock funds into a plan.
type CreateInvestmentRequest struct {
	PlanID string          `json:"planID" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// DecisionRequest is an operator verdict submitted over HTTP.
type DecisionRequest struct {
	Decision domain.Decision `json:"decision" binding:"required,oneof=approve reject"`
}

// BankInstructions tells a depositor where to transfer the funds.
type BankInstructions struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

// RequestResponse defines the data returned for a request.
type RequestResponse struct {
	RequestID    string               `json:"requestID"`
	Reference    string               `json:"reference"`
	Type         domain.RequestType   `json:"type"`
	Amount       decimal.Decimal      `json:"amount"`
	CurrencyCode string               `json:"currencyCode"`
	Status       domain.RequestStatus `json:"status"`
	Description  string               `json:"description,omitempty"`

	EvidenceURL    string     `json:"evidenceURL,omitempty"`
	ReviewDeadline *time.Time `json:"reviewDeadline,omitempty"`

	Bank       *domain.BankDetails       `json:"bank,omitempty"`
	Investment *domain.InvestmentDetails `json:"investment,omitempty"`

	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// DepositCreatedResponse is a freshly opened deposit plus the payment
// instructions for the transfer.
type DepositCreatedResponse struct {
	Request      RequestResponse  `json:"request"`
	Instructions BankInstructions `json:"accountDetails"`
}

// EvidenceUploadedResponse confirms a proof upload and reports the review
// window the operator has been asked to honor.
type EvidenceUploadedResponse struct {
	Reference      string               `json:"reference"`
	Status         domain.RequestStatus `json:"status"`
	EvidenceURL    string               `json:"evidenceURL"`
	ReviewDeadline time.Time            `json:"reviewDeadline"`
}

// DecisionResponse reports the outcome of an operator decision.
type DecisionResponse struct {
	Request    RequestResponse  `json:"request"`
	NewBalance *decimal.Decimal `json:"newBalance,omitempty"`
}

// ListRequestsParams defines query parameters for listing requests.
type ListRequestsParams struct {
	Status string `form:"status"`
	Type   string `form:"type"`
	Limit  int    `form:"limit,default=50"`
	Offset int    `form:"offset,default=0"`
}

// ToRequestResponse converts a domain.Request to a RequestResponse DTO.
func ToRequestResponse(r *domain.Request) RequestResponse {
	return RequestResponse{
		RequestID:      r.RequestID,
		Reference:      r.Reference,
		Type:           r.Type,
		Amount:         r.Amount,
		CurrencyCode:   r.CurrencyCode,
		Status:         r.Status,
		Description:    r.Description,
		EvidenceURL:    r.EvidenceURL,
		ReviewDeadline: r.ReviewDeadline,
		Bank:           r.Bank,
		Investment:     r.Investment,
		ResolvedAt:     r.ResolvedAt,
		CreatedAt:      r.CreatedAt,
	}
}

// ToRequestResponses converts a slice of domain.Request to DTOs.
func ToRequestResponses(requests []domain.Request) []RequestResponse {
	res := make([]RequestResponse, len(requests))
	for i := range requests {
		res[i] = ToRequestResponse(&requests[i])
	}
	return res
}

// PlanResponse defines the data returned for an investment plan.
type PlanResponse struct {
	PlanID       string          `json:"planID"`
	Name         string          `json:"name"`
	DailyReturn  decimal.Decimal `json:"dailyReturn"`
	DurationDays int             `json:"durationDays"`
	MinAmount    decimal.Decimal `json:"minAmount"`
}

// ToPlanResponses converts the plan catalog to DTOs.
func ToPlanResponses(plans []domain.InvestmentPlan) []PlanResponse {
	res := make([]PlanResponse, len(plans))
	for i, p := range plans {
		res[i] = PlanResponse{
			PlanID:       p.PlanID,
			Name:         p.Name,
			DailyReturn:  p.DailyReturn,
			DurationDays: p.DurationDays,
			MinAmount:    p.MinAmount,
		}
	}
	return res
}
