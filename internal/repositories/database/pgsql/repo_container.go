package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/moneta-ict/moneta-backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	requestRepo := newPgxRequestRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:    userRepo,
		RequestRepo: requestRepo,
	}
}
