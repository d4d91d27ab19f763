// Package job runs periodic maintenance tasks on a River queue backed by
// PostgreSQL.
//
// A task implements [PeriodicTask]; its Schedule is a standard 5-field cron
// expression parsed with robfig/cron. River inserts one job per tick and
// its leader election keeps runs unique across instances.
//
//	if err := job.Migrate(ctx, pool, log); err != nil {
//		return err
//	}
//	m, err := job.NewManager(pool,
//		job.WithLogger(log),
//		job.WithPeriodicTask(session.NewCleanupTask(store, "0 * * * *", log)),
//	)
//	if err != nil {
//		return err
//	}
//	if err := m.Start(ctx); err != nil {
//		return err
//	}
//	defer m.Stop(context.Background())
package job
