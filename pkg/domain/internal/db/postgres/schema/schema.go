package schema

import (
	"context"
	_ "embed"

	kpool "github.com/tasklane/tasklane/pkg/conn/db/postgres/pool"
	xe "github.com/tasklane/tasklane/pkg/errors"
)

//go:embed schema.sql
var ddl string

// Apply creates the tasklane tables and indexes if they do not exist yet.
//
// All statements are idempotent, so Apply is safe to run on every startup.
func Apply(ctx context.Context, pool kpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, ddl); err != nil {
		return xe.WrapWithNote("schema apply failed", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return xe.Wrap(err)
	}
	return nil
}
