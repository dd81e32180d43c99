package pgsql

import (
	"time"

	portsrepo "github.com/Maikoeliud/micro-savings-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider builds the full set of pgsql-backed repositories.
// lockTimeout bounds how long a unit of work may wait for account row locks.
func NewRepositoryProvider(pool *pgxpool.Pool, lockTimeout time.Duration) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		User:    newPgxUserRepository(pool),
		Account: newPgxAccountRepository(pool),
		Ledger:  newPgxLedgerRepository(pool, lockTimeout),
		Audit:   newPgxAuditRepository(pool),
	}
}
