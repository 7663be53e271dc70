// Package pg bootstraps PostgreSQL access with github.com/jackc/pgx/v5:
// a retrying pool constructor, a health probe and goose migrations read from
// an fs.FS so that packages can embed their own schema.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, pgstore.Migrations, ".", log); err != nil {
//	    return err
//	}
//
// Error helpers such as IsNotFoundError and IsDuplicateKeyError classify pgx
// errors without callers importing pgconn.
package pg
