// Package logger builds the application's slog logger.
//
// Records go to stdout as JSON (or text) and, when a Sentry DSN is
// configured, to Sentry as well: errors become issues, warnings are kept
// as searchable logs. [ContextExtractor]s add request-scoped attributes
// such as the request id or the authenticated user id to every record
// logged with a context.
//
//	log, flush := logger.New(cfg.Log,
//		middlewares.RequestIDExtractor(),
//		middlewares.UserIDExtractor(),
//	)
//	defer flush()
//
// [NewNope] returns a logger that discards everything; packages use it as
// their default so a logger is never nil.
package logger
