// Package sqlite contains the SQLite implementation of the ledger port.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/cruisebot/internal/ports/secondary"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx, so the
// same store code serves both the auto-commit and transactional paths.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Ledger implements secondary.Ledger with SQLite.
type Ledger struct {
	db *sql.DB // nil for transactional views
	q  DBTX
}

// NewLedger creates a new SQLite ledger store.
func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db, q: db}
}

// InTx runs fn against a transactional view, committing on nil and rolling
// back on error. Calls from inside a transaction reuse it: sqlite has no
// nested transactions and the single-writer lock already serializes passes.
func (l *Ledger) InTx(ctx context.Context, fn func(tx secondary.Ledger) error) error {
	if l.db == nil {
		return fn(l)
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&Ledger{q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (after: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Ensure Ledger implements the interface
var _ secondary.Ledger = (*Ledger)(nil)
