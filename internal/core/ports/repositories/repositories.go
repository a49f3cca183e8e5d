package repositories

// RepositoryProvider bundles the repository facades a storage backend must
// supply. Both the pgsql and the in-memory backend satisfy it.
type RepositoryProvider struct {
	AccountRepo AccountRepositoryFacade
	LedgerRepo  LedgerRepositoryFacade
	AttemptRepo LoginAttemptRepositoryFacade
	AlertRepo   FraudAlertRepositoryFacade
}
