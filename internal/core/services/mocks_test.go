package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/moneta-ict/moneta-backend/internal/core/domain"
)

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByIDForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*domain.User, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUserBalanceInTx(ctx context.Context, tx pgx.Tx, userID string, newBalance decimal.Decimal, now time.Time) error {
	args := m.Called(ctx, tx, userID, newBalance, now)
	return args.Error(0)
}

func (m *MockUserRepository) MarkWelcomeBonusInTx(ctx context.Context, tx pgx.Tx, userID string, currencyCode string, now time.Time) error {
	args := m.Called(ctx, tx, userID, currencyCode, now)
	return args.Error(0)
}

// MockRequestRepository is a mock type for the RequestRepositoryFacade interface
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockRequestRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRequestRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRequestRepository) FindRequestByReference(ctx context.Context, reference string) (*domain.Request, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Request), args.Error(1)
}

func (m *MockRequestRepository) FindRequestByReferenceForUpdate(ctx context.Context, tx pgx.Tx, reference string) (*domain.Request, error) {
	args := m.Called(ctx, tx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Request), args.Error(1)
}

func (m *MockRequestRepository) ListRequestsByUser(ctx context.Context, userID string, filter domain.RequestFilter) ([]domain.Request, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Request), args.Error(1)
}

func (m *MockRequestRepository) ListRequests(ctx context.Context, filter domain.RequestFilter) ([]domain.Request, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Request), args.Error(1)
}

func (m *MockRequestRepository) CountRequestsByUserAndType(ctx context.Context, userID string, requestType domain.RequestType) (int, error) {
	args := m.Called(ctx, userID, requestType)
	return args.Int(0), args.Error(1)
}

func (m *MockRequestRepository) SaveRequestInTx(ctx context.Context, tx pgx.Tx, request domain.Request) error {
	args := m.Called(ctx, tx, request)
	return args.Error(0)
}

func (m *MockRequestRepository) SetEvidence(ctx context.Context, reference string, evidenceURL string, reviewDeadline time.Time, now time.Time) (int64, error) {
	args := m.Called(ctx, reference, evidenceURL, reviewDeadline, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRequestRepository) TransitionStatusInTx(ctx context.Context, tx pgx.Tx, reference string, fromStatuses []domain.RequestStatus, to domain.RequestStatus, resolvedBy string, now time.Time) (int64, error) {
	args := m.Called(ctx, tx, reference, fromStatuses, to, resolvedBy, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotifier is a mock type for the Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Publish(ctx context.Context, n domain.OperatorNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
