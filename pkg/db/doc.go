// Package db provides PostgreSQL plumbing: pooled connections with retry,
// goose migrations from an embedded filesystem, a readiness check and a
// transaction helper.
//
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := db.Migrate(ctx, pool, migrations.FS, cfg.MigrationsTable, log); err != nil {
//		return err
//	}
//
//	err = db.WithTx(ctx, pool, func(tx pgx.Tx) error {
//		_, err := tx.Exec(ctx, "UPDATE tasks SET completed = NOT completed WHERE id = $1", id)
//		return err
//	})
//
// Errors are wrapped with [errors.Join] around the sentinel values in
// errors.go, so callers can match them with [errors.Is].
package db
