package pgsql

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/ebanklabs/ebank_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the PostgreSQL-backed repositories over a
// shared connection pool.
func NewRepositoryProvider(pool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: newPgxAccountRepository(pool),
		LedgerRepo:  newPgxLedgerRepository(pool, lockTimeout),
		AttemptRepo: newPgxLoginAttemptRepository(pool),
		AlertRepo:   newPgxFraudAlertRepository(pool),
	}
}
