package internal

// Handler groups related routes. App calls Routes once, inside New.
//
//	func (h *TaskHandler) Routes(r taskmanager.Router) {
//	    r.Group(func(r taskmanager.Router) {
//	        r.Use(h.gate)
//	        r.GET("/v1/tasks", h.list)
//	    })
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc serves one request. A returned error goes to the ErrorHandler
// unless the response has already been written.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc and may answer without calling next.
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler turns a handler error into a response.
type ErrorHandler func(c Context, err error) error
