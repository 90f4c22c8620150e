package repositories

// RepositoryProvider bundles every repository facade the service layer needs.
type RepositoryProvider struct {
	DocumentRepo       DocumentRepositoryFacade
	LedgerRepo         LedgerReader
	IdempotencyRepo    IdempotencyRepositoryFacade
	ReconciliationRepo ReconciliationRepositoryFacade
	MasterDataRepo     MasterDataReader
	OrgRepo            OrgSettingsReader
	AuditRepo          AuditRepositoryFacade
}
