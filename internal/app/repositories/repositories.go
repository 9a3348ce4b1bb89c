package repositories

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPostgresStores wires the Postgres-backed implementations of all stores.
func NewPostgresStores(db *pgxpool.Pool, timeout time.Duration) *Stores {
	return &Stores{
		Sessions: NewSessionRepository(db, timeout),
		CheckIns: NewCheckInRepository(db, timeout),
	}
}
