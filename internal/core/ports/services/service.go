package services

// ServiceContainer holds all the services and manages their dependencies.
type ServiceContainer struct {
	Account   AccountSvcFacade
	Ledger    LedgerSvcFacade
	Fraud     FraudSvcFacade
	Auth      AuthSvcFacade
	Reporting ReportingSvcFacade
}
