// Package internal provides the HTTP application core of the task manager.
//
// Import "github.com/dmitrymomot/taskmanager" instead, which re-exports the
// public API.
//
// # Core Types
//
//   - App: routing, middleware, health endpoints and graceful shutdown
//   - Context: request/response access, JSON helpers, cookies and identity
//   - Router: interface handlers use to declare routes
//   - Handler: types that declare routes on a Router
//   - HandlerFunc: route handlers that return errors
//   - Middleware: wraps HandlerFunc; may short-circuit by returning an error
//   - SessionManager: issues and revokes sessions, owns the session cookie
//
// # Context as context.Context
//
// Context embeds context.Context and delegates to the request context, so
// it can be passed straight to repositories and HTTP clients:
//
//	func (h *TaskHandler) list(c taskmanager.Context) error {
//	    items, err := h.svc.List(c, c.UserID())
//	    if err != nil {
//	        return err
//	    }
//	    return c.JSON(http.StatusOK, items)
//	}
//
// # Identity
//
// Requests carry an identity only after the auth gate middleware resolved
// their session and bound a session.AuthContext with c.SetContext.
// Auth, UserID and IsAuthenticated read that binding; nothing is cached
// across requests. SignIn issues a session and sets the cookie, SignOut
// revokes the session that authenticated the request.
//
// # Error Handling
//
// Handlers and middleware return errors. The ErrorHandler configured with
// WithErrorHandler renders them unless a response was already written.
// HTTPError carries the status code and client-facing message:
//
//	return taskmanager.ErrNotFound("Task not found")
//
// # Server Runtime
//
//	err := app.Run(":8080",
//	    taskmanager.Logger(log),
//	    taskmanager.ShutdownHook(db.Shutdown(pool)),
//	)
//
// Run blocks until SIGINT/SIGTERM or cancellation of the WithContext
// context. Startup hooks and the job manager start before the listener;
// shutdown hooks run after the server drained.
package internal
