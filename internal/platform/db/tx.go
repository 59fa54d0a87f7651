package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

const txKey contextKey = "db_tx"

// TxFromContext retrieves the transaction started by RunInTx, if any.
// Repositories use it to join an open transaction transparently.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey).(pgx.Tx)
	return tx
}

// TxRunner executes a function inside a single database transaction.
// The services that must mutate two rows as one unit (an appointment and
// its availability slot, a prescription and its medicine stock) depend on
// this interface rather than on the pool directly.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type pgxTxRunner struct{ pool *pgxpool.Pool }

func NewTxRunner(pool *pgxpool.Pool) TxRunner { return &pgxTxRunner{pool: pool} }

// RunInTx begins a transaction, stores it in the context passed to fn, and
// commits when fn returns nil. Any error from fn rolls the whole unit back.
func (r *pgxTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
