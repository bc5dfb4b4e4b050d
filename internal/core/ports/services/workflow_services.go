package services

import (
	"context"

	"github.com/moneta-ict/moneta-backend/internal/core/domain"
	"github.com/moneta-ict/moneta-backend/internal/dto"
)

// WorkflowSvcFacade drives the lifecycle of monetary requests: creation,
// evidence review and terminal resolution, keeping the ledger and the
// request store mutually consistent.
type WorkflowSvcFacade interface {
	// CreateDeposit opens a PENDING deposit. No ledger effect.
	CreateDeposit(ctx context.Context, userID string, req dto.CreateDepositRequest) (*domain.Request, error)

	// AttachEvidence records an uploaded proof artifact, moves the deposit
	// to REVIEWING (idempotent if already REVIEWING) and alerts the operator.
	AttachEvidence(ctx context.Context, userID string, reference string, evidenceURL string) (*domain.Request, error)

	// CreateWithdrawal debits the ledger immediately and opens a PENDING
	// withdrawal. Fails with ErrInsufficientFunds before any write.
	CreateWithdrawal(ctx context.Context, userID string, req dto.CreateWithdrawalRequest) (*domain.Request, error)

	// CreateInvestment debits the ledger and opens an ACTIVE investment
	// with a plan snapshot and computed maturity window.
	CreateInvestment(ctx context.Context, userID string, req dto.CreateInvestmentRequest) (*domain.Request, error)

	// Decide applies an operator verdict to a pending request. Replayed
	// decisions on a terminal request return ErrAlreadyResolved and leave
	// the ledger untouched.
	Decide(ctx context.Context, reference string, decision domain.Decision, operatorID string) (*domain.Request, error)

	// GetRequest retrieves a request owned by userID.
	GetRequest(ctx context.Context, userID string, reference string) (*domain.Request, error)

	// ListUserRequests lists a user's requests, newest first.
	ListUserRequests(ctx context.Context, userID string, filter domain.RequestFilter) ([]domain.Request, error)

	// ListAllRequests lists requests across all users (operator view).
	ListAllRequests(ctx context.Context, filter domain.RequestFilter) ([]domain.Request, error)

	// ListPlans returns the investment plan catalog.
	ListPlans(ctx context.Context) []domain.InvestmentPlan
}

// Notifier pushes operator notifications. Implementations are best-effort:
// a failed publish is logged by the caller and never fails the business
// transaction it follows.
type Notifier interface {
	Publish(ctx context.Context, n domain.OperatorNotification) error
}
