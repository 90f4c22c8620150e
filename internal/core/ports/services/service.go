package services

// ServiceContainer bundles the service facades handed to route registration.
type ServiceContainer struct {
	Document       DocumentSvcFacade
	Reconciliation ReconciliationSvcFacade
}
