// Package pgstore is a PostgreSQL persist.ConditionalStore built on
// github.com/jackc/pgx/v5.
//
// All kinds of entities share one table, entity_states (kind, id, state,
// created_at, updated_at), created by the embedded goose migrations:
//
//	if err := pg.Migrate(ctx, pool, pgCfg, pgstore.Migrations, "migrations", log); err != nil {
//	    return err
//	}
//	store := pgstore.New[int64, OrderState](pool, "order", persist.StringCodec[OrderState]{})
//
// SaveIf is a single UPDATE guarded by the expected state, so concurrent
// applies on the same entity resolve to exactly one winner.
package pgstore
