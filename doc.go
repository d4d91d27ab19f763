// Package taskmanager is a small multi-user task manager built as a thin
// HTTP application layer over chi, Postgres and an optimistic client cache.
//
// The root package re-exports the application core from internal so that
// handlers and middleware depend on one stable surface.
//
// # Quick Start
//
//	app := taskmanager.New(
//	    taskmanager.WithLogger(log),
//	    taskmanager.WithCookieOptions(taskmanager.WithCookieSecret(cfg.CookieSecret)),
//	    taskmanager.WithSessions(store),
//	    taskmanager.WithMiddleware(middlewares.RequestID()),
//	    taskmanager.WithErrorHandler(middlewares.JSONErrorHandler()),
//	    taskmanager.WithHandlers(
//	        handlers.NewTaskHandler(svc, gate),
//	        handlers.NewAuthHandler(provider, users, gate, handlers.WithTrustedOrigins(origins...)),
//	    ),
//	    taskmanager.WithHealthChecks(
//	        taskmanager.WithReadinessCheck("db", db.Healthcheck(pool)),
//	    ),
//	)
//
//	if err := app.Run(":8080", taskmanager.Logger(log)); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// # Handlers
//
// Handlers implement the [Handler] interface to declare routes:
//
//	func (h *TaskHandler) Routes(r taskmanager.Router) {
//	    r.Route("/v1/tasks", func(r taskmanager.Router) {
//	        r.Use(h.gate)
//	        r.GET("/", h.list)
//	        r.POST("/", h.create)
//	    })
//	}
//
// # Authentication
//
// The auth gate in the middlewares package resolves a bearer token or the
// session cookie into a session.AuthContext and binds it to the request
// context. Handlers read it with Context.Auth or Context.UserID. Requests
// without a valid session never reach a gated handler.
//
// # Errors
//
// Handlers return errors instead of writing failure responses. An
// [HTTPError] carries the status code and a client-safe message; anything
// else is rendered as 500 by the configured [ErrorHandler].
//
// # Shutdown
//
// Run handles SIGINT and SIGTERM. Background jobs started by WithJobs stop
// before the registered shutdown hooks run:
//
//	app.Run(":8080",
//	    taskmanager.ShutdownHook(db.Shutdown(pool)),
//	)
package taskmanager
