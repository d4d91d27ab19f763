// Command taskmanager serves the task API with Google sign-in.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/taskmanager"
	"github.com/dmitrymomot/taskmanager/handlers"
	"github.com/dmitrymomot/taskmanager/internal/config"
	"github.com/dmitrymomot/taskmanager/internal/db/migrations"
	"github.com/dmitrymomot/taskmanager/middlewares"
	"github.com/dmitrymomot/taskmanager/pkg/cache"
	"github.com/dmitrymomot/taskmanager/pkg/db"
	"github.com/dmitrymomot/taskmanager/pkg/job"
	"github.com/dmitrymomot/taskmanager/pkg/logger"
	"github.com/dmitrymomot/taskmanager/pkg/oauth"
	"github.com/dmitrymomot/taskmanager/pkg/redis"
	"github.com/dmitrymomot/taskmanager/pkg/session"
	"github.com/dmitrymomot/taskmanager/pkg/tasks"
	"github.com/dmitrymomot/taskmanager/pkg/users"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, flush := logger.New(cfg.Log, middlewares.RequestIDExtractor(), middlewares.UserIDExtractor())
	defer flush()

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	if err := db.Migrate(ctx, pool, migrations.FS, cfg.DB.MigrationsTable, log); err != nil {
		pool.Close()
		return err
	}
	if err := job.Migrate(ctx, pool, log); err != nil {
		pool.Close()
		return err
	}

	var rdb goredis.UniversalClient
	if cfg.Redis.URL != "" {
		if rdb, err = redis.Connect(ctx, cfg.Redis); err != nil {
			pool.Close()
			return err
		}
	}

	// Sessions
	var (
		store   session.Store
		jobOpts = []taskmanager.JobOption{job.WithLogger(log)}
	)
	switch cfg.SessionBackend {
	case config.BackendRedis:
		store = session.NewCacheStore(
			cache.NewRedis[session.Session](rdb, nil, cache.WithPrefix("sessions")),
			cache.NewRedis[[]string](rdb, nil, cache.WithPrefix("user_sessions")),
		)
	default:
		pgStore := session.NewPostgresStore(pool)
		store = pgStore
		jobOpts = append(jobOpts, job.WithPeriodicTask(session.NewCleanupTask(pgStore, cfg.SessionCleanupSchedule, log)))
	}
	gate := middlewares.Auth(
		session.NewResolver(store, session.WithLogger(log)),
		middlewares.WithAuthCookieName(cfg.SessionCookieName),
	)

	// Users are read on every session lookup of the web app.
	var userCache cache.Cache[users.User] = cache.NewMemory[users.User]()
	if rdb != nil {
		userCache = cache.NewRedis[users.User](rdb, nil, cache.WithPrefix("users"))
	}
	userRepo := users.NewCachedRepository(users.NewPostgresRepository(pool), userCache, cfg.UserCacheTTL)

	taskSvc := tasks.NewService(tasks.NewPostgresRepository(pool), tasks.WithLogger(log))

	var provider oauth.Provider
	if cfg.Google.Enabled() {
		if provider, err = oauth.NewGoogleProvider(cfg.Google); err != nil {
			return err
		}
	} else {
		log.Warn("google sign-in disabled: GOOGLE_OAUTH_CLIENT_ID is not set")
	}
	sessionOpts := []taskmanager.SessionOption{
		taskmanager.WithSessionCookieName(cfg.SessionCookieName),
		taskmanager.WithSessionTTL(cfg.SessionTTL),
	}
	if cfg.TrustProxyHeaders {
		sessionOpts = append(sessionOpts, taskmanager.WithTrustedProxyHeaders())
	}

	routes := []taskmanager.Handler{
		handlers.NewTaskHandler(taskSvc, gate),
		handlers.NewAuthHandler(provider, userRepo, gate, handlers.WithTrustedOrigins(cfg.TrustedOrigins...)),
	}

	checks := []taskmanager.HealthOption{
		taskmanager.WithReadinessCheck("postgres", db.Healthcheck(pool)),
	}
	shutdown := []taskmanager.RunOption{
		taskmanager.ShutdownHook(db.Shutdown(pool)),
		taskmanager.ShutdownHook(func(context.Context) error { return userCache.Close() }),
	}
	if rdb != nil {
		checks = append(checks, taskmanager.WithReadinessCheck("redis", redis.Healthcheck(rdb)))
		shutdown = append(shutdown, taskmanager.ShutdownHook(redis.Shutdown(rdb)))
	}

	app := taskmanager.New(
		taskmanager.WithLogger(log),
		taskmanager.WithMiddleware(
			middlewares.CORS(middlewares.WithTrustedOrigins(cfg.TrustedOrigins...)),
			middlewares.RequestID(),
			middlewares.Recover(),
			middlewares.Timeout(cfg.RequestTimeout),
		),
		taskmanager.WithErrorHandler(middlewares.JSONErrorHandler()),
		taskmanager.WithCookieOptions(
			taskmanager.WithCookieSecret(cfg.CookieSecret),
			taskmanager.WithCookieSecure(cfg.CookieSecure),
		),
		taskmanager.WithSessions(store, sessionOpts...),
		taskmanager.WithJobs(pool, jobOpts...),
		taskmanager.WithHealthChecks(checks...),
		taskmanager.WithHandlers(routes...),
	)

	log.Info("starting server",
		slog.String("address", cfg.Address),
		slog.String("session_backend", cfg.SessionBackend),
	)

	return app.Run(cfg.Address, append(shutdown,
		taskmanager.Logger(log),
		taskmanager.ShutdownTimeout(cfg.ShutdownTimeout),
	)...)
}
