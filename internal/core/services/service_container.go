package services

import (
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
)

// NewServiceContainer wires the service facades from the repository provider.
func NewServiceContainer(repos portsrepo.RepositoryProvider, suggestionWindowDays int) *portssvc.ServiceContainer {
	broker := NewIdempotencyBroker(repos.IdempotencyRepo)
	return &portssvc.ServiceContainer{
		Document: NewDocumentService(
			repos.DocumentRepo,
			repos.LedgerRepo,
			repos.MasterDataRepo,
			repos.OrgRepo,
			broker,
		),
		Reconciliation: NewReconciliationService(
			repos.ReconciliationRepo,
			repos.LedgerRepo,
			repos.MasterDataRepo,
			suggestionWindowDays,
		),
	}
}
