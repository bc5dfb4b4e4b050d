package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/moneta-ict/moneta-backend/internal/apperrors"
	"github.com/moneta-ict/moneta-backend/internal/core/domain"
	portsrepo "github.com/moneta-ict/moneta-backend/internal/core/ports/repositories"
	portssvc "github.com/moneta-ict/moneta-backend/internal/core/ports/services"
	"github.com/moneta-ict/moneta-backend/internal/dto"
	"github.com/moneta-ict/moneta-backend/internal/middleware"
	"github.com/moneta-ict/moneta-backend/internal/utils"
)

var (
	// ErrCurrencyMismatch indicates the request currency does not match the account currency.
	ErrCurrencyMismatch = errors.New("request currency does not match account currency")

	// ErrBelowMinimum indicates an amount under the allowed floor.
	ErrBelowMinimum = errors.New("amount below minimum")
)

// minDepositAmount is the smallest accepted deposit in any currency.
var minDepositAmount = decimal.NewFromInt(10)

// evidenceReviewWindow is the review window promised to the depositor once
// proof of payment is uploaded.
const evidenceReviewWindow = 5 * time.Minute

// workflowService drives monetary requests from creation to terminal
// resolution. Every ledger mutation happens inside a pgx transaction under
// a user row lock, paired with exactly one request status change.
type workflowService struct {
	requestRepo portsrepo.RequestRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
	notifier    portssvc.Notifier
}

// NewWorkflowService creates a new WorkflowService. notifier may be nil, in
// which case operator notifications are skipped.
func NewWorkflowService(requestRepo portsrepo.RequestRepositoryFacade, userRepo portsrepo.UserRepositoryFacade, notifier portssvc.Notifier) portssvc.WorkflowSvcFacade {
	return &workflowService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

var _ portssvc.WorkflowSvcFacade = (*workflowService)(nil)

// CreateDeposit opens a PENDING deposit. The ledger is untouched until an
// operator approves it.
func (s *workflowService) CreateDeposit(ctx context.Context, userID string, req dto.CreateDepositRequest) (*domain.Request, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if req.Amount.LessThan(minDepositAmount) {
		return nil, fmt.Errorf("%w: minimum deposit amount is %s %s", ErrBelowMinimum, req.CurrencyCode, minDepositAmount.String())
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", userID, err)
	}
	if user.CurrencyCode != req.CurrencyCode {
		return nil, fmt.Errorf("%w: account is %s, deposit is %s", ErrCurrencyMismatch, user.CurrencyCode, req.CurrencyCode)
	}

	reference, err := utils.NewReference(utils.RefPrefixDeposit)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	request := domain.Request{
		RequestID:    uuid.NewString(),
		Reference:    reference,
		UserID:       userID,
		Type:         domain.TypeDeposit,
		Amount:       req.Amount,
		CurrencyCode: req.CurrencyCode,
		Status:       domain.StatusPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	tx, err := s.requestRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.requestRepo.Rollback(ctx, tx)

	if err := s.requestRepo.SaveRequestInTx(ctx, tx, request); err != nil {
		return nil, fmt.Errorf("failed to save deposit request: %w", err)
	}
	if err := s.requestRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Deposit request created",
		slog.String("reference", reference),
		slog.String("amount", req.Amount.String()))
	return &request, nil
}

// AttachEvidence records an uploaded proof artifact and moves the deposit to
// REVIEWING. Re-uploading while already REVIEWING replaces the evidence and
// succeeds; the operator notification fires on every upload.
func (s *workflowService) AttachEvidence(ctx context.Context, userID string, reference string, evidenceURL string) (*domain.Request, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	request, err := s.requestRepo.FindRequestByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to find request %s: %w", reference, err)
	}
	if request.UserID != userID {
		// Obscure existence of other users' requests.
		return nil, apperrors.ErrNotFound
	}
	if request.Type != domain.TypeDeposit {
		return nil, fmt.Errorf("%w: evidence applies to deposits only", apperrors.ErrValidation)
	}
	if request.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: request %s is %s", apperrors.ErrAlreadyResolved, reference, request.Status)
	}

	now := time.Now().UTC()
	deadline := now.Add(evidenceReviewWindow)

	rows, err := s.requestRepo.SetEvidence(ctx, reference, evidenceURL, deadline, now)
	if err != nil {
		return nil, fmt.Errorf("failed to attach evidence to %s: %w", reference, err)
	}
	if rows == 0 {
		// Status flipped between the read and the conditional update.
		return nil, fmt.Errorf("%w: request %s", apperrors.ErrAlreadyResolved, reference)
	}

	request.Status = domain.StatusReviewing
	request.EvidenceURL = evidenceURL
	request.ReviewDeadline = &deadline
	request.LastUpdatedAt = now

	s.notifyOperator(ctx, request)

	logger.Info("Deposit moved to reviewing",
		slog.String("reference", reference),
		slog.String("evidence_url", evidenceURL))
	return request, nil
}

// CreateWithdrawal debits the ledger at creation time: the funds are
// reserved for payout before the operator ever sees the request. If the
// balance is insufficient nothing is written.
func (s *workflowService) CreateWithdrawal(ctx context.Context, userID string, req dto.CreateWithdrawalRequest) (*domain.Request, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	reference, err := utils.NewReference(utils.RefPrefixWithdrawal)
	if err != nil {
		return nil, err
	}

	tx, err := s.requestRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.requestRepo.Rollback(ctx, tx)

	user, err := s.userRepo.FindUserByIDForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock user %s: %w", userID, err)
	}
	if user.CurrencyCode != req.CurrencyCode {
		return nil, fmt.Errorf("%w: account is %s, withdrawal is %s", ErrCurrencyMismatch, user.CurrencyCode, req.CurrencyCode)
	}
	if req.Amount.GreaterThan(user.Balance) {
		return nil, fmt.Errorf("%w: balance is %s, requested %s", apperrors.ErrInsufficientFunds, user.Balance.String(), req.Amount.String())
	}

	now := time.Now().UTC()
	newBalance := user.Balance.Sub(req.Amount)
	if err := s.userRepo.UpdateUserBalanceInTx(ctx, tx, userID, newBalance, now); err != nil {
		return nil, fmt.Errorf("failed to debit withdrawal: %w", err)
	}

	request := domain.Request{
		RequestID:    uuid.NewString(),
		Reference:    reference,
		UserID:       userID,
		Type:         domain.TypeWithdrawal,
		Amount:       req.Amount,
		CurrencyCode: req.CurrencyCode,
		Status:       domain.StatusPending,
		Bank: &domain.BankDetails{
			BankName:      req.BankName,
			AccountNumber: req.AccountNumber,
			AccountType:   req.AccountType,
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.requestRepo.SaveRequestInTx(ctx, tx, request); err != nil {
		return nil, fmt.Errorf("failed to save withdrawal request: %w", err)
	}
	if err := s.requestRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.notifyOperator(ctx, &request)

	middleware.GetLoggerFromCtx(ctx).Info("Withdrawal request created",
		slog.String("reference", reference),
		slog.String("amount", req.Amount.String()))
	return &request, nil
}

// CreateInvestment debits the ledger and opens an ACTIVE investment with a
// snapshot of the plan terms and the computed maturity window. Investments
// are self-resolving: they never enter the operator approval flow.
func (s *workflowService) CreateInvestment(ctx context.Context, userID string, req dto.CreateInvestmentRequest) (*domain.Request, error) {
	plan, err := PlanByID(req.PlanID)
	if err != nil {
		return nil, err
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if req.Amount.LessThan(plan.MinAmount) {
		return nil, fmt.Errorf("%w: plan %s requires at least %s", ErrBelowMinimum, plan.PlanID, plan.MinAmount.String())
	}

	reference, err := utils.NewReference(utils.RefPrefixInvestment)
	if err != nil {
		return nil, err
	}

	tx, err := s.requestRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.requestRepo.Rollback(ctx, tx)

	user, err := s.userRepo.FindUserByIDForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock user %s: %w", userID, err)
	}
	if req.Amount.GreaterThan(user.Balance) {
		return nil, fmt.Errorf("%w: balance is %s, requested %s", apperrors.ErrInsufficientFunds, user.Balance.String(), req.Amount.String())
	}

	now := time.Now().UTC()
	newBalance := user.Balance.Sub(req.Amount)
	if err := s.userRepo.UpdateUserBalanceInTx(ctx, tx, userID, newBalance, now); err != nil {
		return nil, fmt.Errorf("failed to debit investment: %w", err)
	}

	request := domain.Request{
		RequestID:    uuid.NewString(),
		Reference:    reference,
		UserID:       userID,
		Type:         domain.TypeInvestment,
		Amount:       req.Amount,
		CurrencyCode: user.CurrencyCode,
		Status:       domain.StatusActive,
		Description:  "Investment in " + plan.Name,
		Investment: &domain.InvestmentDetails{
			PlanID:       plan.PlanID,
			PlanName:     plan.Name,
			DailyReturn:  plan.DailyReturn,
			DurationDays: plan.DurationDays,
			StartDate:    now,
			EndDate:      now.AddDate(0, 0, plan.DurationDays),
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.requestRepo.SaveRequestInTx(ctx, tx, request); err != nil {
		return nil, fmt.Errorf("failed to save investment request: %w", err)
	}
	if err := s.requestRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Investment created",
		slog.String("reference", reference),
		slog.String("plan_id", plan.PlanID),
		slog.String("amount", req.Amount.String()))
	return &request, nil
}

// Decide applies an operator verdict. The request row is locked first, so
// concurrent decisions on one reference serialize: the loser of the race
// observes a terminal status and returns ErrAlreadyResolved without
// touching the ledger. The balance mutation and the status flip commit
// atomically.
func (s *workflowService) Decide(ctx context.Context, reference string, decision domain.Decision, operatorID string) (*domain.Request, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.requestRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.requestRepo.Rollback(ctx, tx)

	request, err := s.requestRepo.FindRequestByReferenceForUpdate(ctx, tx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to find request %s: %w", reference, err)
	}
	if request.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: request %s is %s", apperrors.ErrAlreadyResolved, reference, request.Status)
	}
	if !request.Decidable() {
		return nil, fmt.Errorf("%w: %s requests are not subject to operator decisions", apperrors.ErrInvalidTransition, request.Type)
	}

	now := time.Now().UTC()
	toStatus := domain.StatusRejected
	if decision == domain.DecisionApprove {
		toStatus = domain.StatusCompleted
	}

	var fromStatuses []domain.RequestStatus
	switch request.Type {
	case domain.TypeDeposit:
		// Approval may skip the evidence step.
		fromStatuses = []domain.RequestStatus{domain.StatusPending, domain.StatusReviewing}
		if decision == domain.DecisionApprove {
			if err := s.applyBalanceChange(ctx, tx, request.UserID, request.Amount, now); err != nil {
				return nil, err
			}
		}
	case domain.TypeWithdrawal:
		fromStatuses = []domain.RequestStatus{domain.StatusPending}
		if decision == domain.DecisionReject {
			// Compensating credit: return the funds debited at creation.
			if err := s.applyBalanceChange(ctx, tx, request.UserID, request.Amount, now); err != nil {
				return nil, err
			}
		}
	}

	rows, err := s.requestRepo.TransitionStatusInTx(ctx, tx, reference, fromStatuses, toStatus, operatorID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to transition request %s: %w", reference, err)
	}
	if rows == 0 {
		// Unreachable while we hold the row lock; kept as a guard against
		// a status the CAS predicate does not cover.
		return nil, fmt.Errorf("%w: request %s is %s", apperrors.ErrInvalidTransition, reference, request.Status)
	}

	if err := s.requestRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	request.Status = toStatus
	request.ResolvedAt = &now
	request.ResolvedBy = operatorID
	request.LastUpdatedAt = now

	logger.Info("Request resolved",
		slog.String("reference", reference),
		slog.String("decision", string(decision)),
		slog.String("operator_id", operatorID))
	return request, nil
}

// applyBalanceChange credits delta to a user's balance under the row lock of
// the surrounding transaction.
func (s *workflowService) applyBalanceChange(ctx context.Context, tx pgx.Tx, userID string, delta decimal.Decimal, now time.Time) error {
	user, err := s.userRepo.FindUserByIDForUpdate(ctx, tx, userID)
	if err != nil {
		return fmt.Errorf("failed to lock user %s: %w", userID, err)
	}
	newBalance := user.Balance.Add(delta)
	if newBalance.IsNegative() {
		return fmt.Errorf("%w: balance would become %s", apperrors.ErrInsufficientFunds, newBalance.String())
	}
	if err := s.userRepo.UpdateUserBalanceInTx(ctx, tx, userID, newBalance, now); err != nil {
		return fmt.Errorf("failed to update balance for user %s: %w", userID, err)
	}
	return nil
}

// GetRequest retrieves a request owned by userID.
func (s *workflowService) GetRequest(ctx context.Context, userID string, reference string) (*domain.Request, error) {
	request, err := s.requestRepo.FindRequestByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to find request %s: %w", reference, err)
	}
	if request.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return request, nil
}

// ListUserRequests lists a user's requests, newest first.
func (s *workflowService) ListUserRequests(ctx context.Context, userID string, filter domain.RequestFilter) ([]domain.Request, error) {
	requests, err := s.requestRepo.ListRequestsByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

// ListAllRequests lists requests across all users (operator view).
func (s *workflowService) ListAllRequests(ctx context.Context, filter domain.RequestFilter) ([]domain.Request, error) {
	requests, err := s.requestRepo.ListRequests(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

// ListPlans returns the investment plan catalog.
func (s *workflowService) ListPlans(ctx context.Context) []domain.InvestmentPlan {
	return Plans()
}

// notifyOperator pushes a best-effort notification. Failures are logged and
// never propagate: delivery is outside the transaction boundary.
func (s *workflowService) notifyOperator(ctx context.Context, request *domain.Request) {
	if s.notifier == nil {
		return
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	username := ""
	if user, err := s.userRepo.FindUserByID(ctx, request.UserID); err == nil {
		username = user.Username
	}

	n := domain.OperatorNotification{
		Reference:    request.Reference,
		Type:         request.Type,
		UserID:       request.UserID,
		Username:     username,
		Amount:       request.Amount,
		CurrencyCode: request.CurrencyCode,
		EvidenceURL:  request.EvidenceURL,
		Bank:         request.Bank,
		CreatedAt:    request.CreatedAt,
	}
	if err := s.notifier.Publish(ctx, n); err != nil {
		logger.Warn("Failed to publish operator notification",
			slog.String("reference", request.Reference),
			slog.String("error", err.Error()))
	}
}
