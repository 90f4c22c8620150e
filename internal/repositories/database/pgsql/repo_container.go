package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	auditRepo := newPgxAuditRepository(dbPool)
	documentRepo := newPgxDocumentRepository(dbPool, auditRepo)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	idempotencyRepo := newPgxIdempotencyRepository(dbPool)
	reconciliationRepo := newPgxReconciliationRepository(dbPool, auditRepo)
	masterDataRepo := newPgxMasterDataRepository(dbPool)
	orgRepo := newPgxOrgRepository(dbPool)

	return portsrepo.RepositoryProvider{
		DocumentRepo:       documentRepo,
		LedgerRepo:         ledgerRepo,
		IdempotencyRepo:    idempotencyRepo,
		ReconciliationRepo: reconciliationRepo,
		MasterDataRepo:     masterDataRepo,
		OrgRepo:            orgRepo,
		AuditRepo:          auditRepo,
	}
}
