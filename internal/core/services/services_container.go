package services

import (
	portsrepo "github.com/ebanklabs/ebank_backend/internal/core/ports/repositories"
	portssvc "github.com/ebanklabs/ebank_backend/internal/core/ports/services"
	"github.com/ebanklabs/ebank_backend/pkg/config"
)

// NewServiceContainer creates a service container with properly initialized
// dependencies. The fraud service is wired first since the ledger and auth
// services feed it every committed event.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Fraud = NewFraudService(
		repos.LedgerRepo,
		repos.AttemptRepo,
		repos.AlertRepo,
		repos.AccountRepo,
		cfg.Fraud,
	)

	container.Ledger = NewLedgerService(repos.LedgerRepo, container.Fraud)
	container.Account = NewAccountService(repos.AccountRepo)
	container.Auth = NewAuthService(repos.AccountRepo, repos.AttemptRepo, container.Fraud, cfg)
	container.Reporting = NewReportingService(repos.AccountRepo, repos.LedgerRepo)

	return container
}
