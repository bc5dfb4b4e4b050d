package services

import (
	portsrepo "github.com/moneta-ict/moneta-backend/internal/core/ports/repositories"
	portssvc "github.com/moneta-ict/moneta-backend/internal/core/ports/services"
	"github.com/moneta-ict/moneta-backend/internal/platform/config"
)

// NewServiceContainer wires every service implementation against the
// repository provider and returns the container handed to the handlers.
func NewServiceContainer(repos portsrepo.RepositoryProvider, notifier portssvc.Notifier, cfg *config.Config) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		User:     NewUserService(repos.UserRepo, repos.RequestRepo),
		Token:    NewTokenService(cfg),
		Workflow: NewWorkflowService(repos.RequestRepo, repos.UserRepo, notifier),
	}
}
