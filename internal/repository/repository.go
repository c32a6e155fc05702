// Package repository contains the data access layer.
//
// Queries are hand-written SQL over database/sql with the pgx stdlib driver.
// Every call is bounded by a per-query timeout so a wedged connection
// surfaces as an error instead of hanging a request.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrNoRowsAffected is returned by update queries that matched no row.
var ErrNoRowsAffected = errors.New("repository: no rows affected")

// DefaultQueryTimeout bounds a single statement when no timeout is configured.
const DefaultQueryTimeout = 5 * time.Second

// DBTX is the minimal database handle the queries need. Both *sql.DB and
// *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries provides access to all database operations.
type Queries struct {
	db      *sql.DB
	timeout time.Duration
}

// New creates a Queries instance over the given database handle.
// A non-positive timeout falls back to DefaultQueryTimeout.
func New(db *sql.DB, timeout time.Duration) *Queries {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &Queries{db: db, timeout: timeout}
}

// bound derives a context with the per-query timeout applied.
func (q *Queries) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, q.timeout)
}
