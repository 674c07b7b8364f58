package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Beginner starts transactions. Satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx,
// so WithTx nests as a savepoint when given a transaction.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WithTx runs fn in a transaction, committing when fn returns nil.
// An error or panic from fn rolls the transaction back; the panic is re-raised.
func WithTx(ctx context.Context, db Beginner, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}
