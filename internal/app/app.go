// Package app implements the scheduling engine: availability patterns, slot
// generation, the booking ledger and the transactional admission path, plus
// the HTTP handlers that expose them.
package app

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App carries the database pool and the identity of the deployment's host.
// Engine operations take an explicit host id; HostID is the default the HTTP
// layer uses, since this deployment serves a single host.
type App struct {
	DB     *pgxpool.Pool
	HostID string
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so ledger queries can
// run standalone or inside the admission transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}
