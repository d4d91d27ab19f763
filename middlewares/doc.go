// Package middlewares provides the HTTP middleware of the task manager API.
//
// # Auth
//
// Auth is the gate in front of every protected route. It resolves the
// bearer token or the session cookie on each request and binds the
// resulting identity to the request context. Failures never reach the
// handler and are rendered as 401 {"error":"Unauthorized"}.
//
//	gate := middlewares.Auth(session.NewResolver(store))
//
//	r.Route("/v1/tasks", func(r taskmanager.Router) {
//	    r.Use(gate)
//	    r.GET("/", h.list)
//	})
//
// # Errors
//
// JSONErrorHandler renders every handler error as {"error": message}.
// HTTPErrors keep their code; TimeoutError becomes 504; everything else is
// logged with the request ID and returned as a generic 500.
//
// # Request ID, Recover, Timeout, CORS
//
// RequestID tags requests for log correlation; pair it with
// RequestIDExtractor and UserIDExtractor in the logger. Recover turns
// panics into PanicError. Timeout installs a deadline on the request
// context and returns TimeoutError when the handler misses it. CORS with
// WithTrustedOrigins admits credentialed requests from the web client.
//
// Recommended order:
//
//	taskmanager.WithMiddleware(
//	    middlewares.CORS(middlewares.WithTrustedOrigins(cfg.TrustedOrigins...)),
//	    middlewares.RequestID(),
//	    middlewares.Recover(),
//	    middlewares.Timeout(30*time.Second),
//	)
package middlewares
