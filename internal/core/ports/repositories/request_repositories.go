package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/moneta-ict/moneta-backend/internal/core/domain"
)

// RequestReader defines read operations for request data
type RequestReader interface {
	// FindRequestByReference retrieves a request by its external reference.
	FindRequestByReference(ctx context.Context, reference string) (*domain.Request, error)

	// FindRequestByReferenceForUpdate retrieves and locks a request row
	// within a transaction.
	FindRequestByReferenceForUpdate(ctx context.Context, tx pgx.Tx, reference string) (*domain.Request, error)

	// ListRequestsByUser retrieves a user's requests, newest first.
	ListRequestsByUser(ctx context.Context, userID string, filter domain.RequestFilter) ([]domain.Request, error)

	// ListRequests retrieves requests across all users, newest first.
	ListRequests(ctx context.Context, filter domain.RequestFilter) ([]domain.Request, error)

	// CountRequestsByUserAndType counts a user's requests of a given type,
	// used by the exactly-once welcome bonus guard.
	CountRequestsByUserAndType(ctx context.Context, userID string, requestType domain.RequestType) (int, error)
}

// RequestWriter defines write operations for request data
type RequestWriter interface {
	// SaveRequestInTx persists a new request within a given transaction.
	SaveRequestInTx(ctx context.Context, tx pgx.Tx, request domain.Request) error

	// SetEvidence attaches a proof artifact and moves the request to
	// REVIEWING. The update is conditional on the current status being
	// PENDING or REVIEWING; it returns the number of rows affected.
	SetEvidence(ctx context.Context, reference string, evidenceURL string, reviewDeadline time.Time, now time.Time) (int64, error)

	// TransitionStatusInTx performs a compare-and-swap on status within a
	// given transaction: the row is updated only if its current status is
	// one of fromStatuses. It returns the number of rows affected; zero
	// means the request was missing or in an unexpected status.
	TransitionStatusInTx(ctx context.Context, tx pgx.Tx, reference string, fromStatuses []domain.RequestStatus, to domain.RequestStatus, resolvedBy string, now time.Time) (int64, error)
}

// RequestRepositoryFacade combines all request-related repository interfaces
// plus transaction management, since the approval workflow spans request and
// user writes in a single transaction.
type RequestRepositoryFacade interface {
	RequestReader
	RequestWriter
	TransactionManager
}

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	UserRepo    UserRepositoryFacade
	RequestRepo RequestRepositoryFacade
}
