package internal

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrymomot/taskmanager/pkg/logger"
)

type hook = func(context.Context) error

// RunOption configures App.Run.
type RunOption func(*server)

// server owns one listen-serve-drain cycle.
type server struct {
	addr     string
	log      *slog.Logger
	parent   context.Context
	grace    time.Duration
	startup  []hook
	shutdown []hook
}

func newServer(addr string, opts ...RunOption) *server {
	s := &server{
		addr:   addr,
		log:    logger.NewNope(),
		parent: context.Background(),
		grace:  defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.addr == "" {
		s.addr = ":8080"
	}
	return s
}

// Logger receives server lifecycle events. Nil keeps them silent.
func Logger(l *slog.Logger) RunOption {
	return func(s *server) {
		if l != nil {
			s.log = l
		}
	}
}

// ShutdownTimeout bounds draining in-flight requests plus all shutdown
// hooks. Default: 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return func(s *server) {
		if d > 0 {
			s.grace = d
		}
	}
}

// StartupHook runs before the listener opens. An error aborts Run after the
// shutdown hooks have released what was already acquired.
func StartupHook(fn func(context.Context) error) RunOption {
	return func(s *server) {
		if fn != nil {
			s.startup = append(s.startup, fn)
		}
	}
}

// ShutdownHook runs after the server stopped accepting requests, in
// registration order.
//
//	taskmanager.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return func(s *server) {
		if fn != nil {
			s.shutdown = append(s.shutdown, fn)
		}
	}
}

// WithContext stops the server when ctx is cancelled, in addition to
// SIGINT and SIGTERM.
func WithContext(ctx context.Context) RunOption {
	return func(s *server) {
		if ctx != nil {
			s.parent = ctx
		}
	}
}

func (s *server) serve(h http.Handler) error {
	ctx, stop := signal.NotifyContext(s.parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, fn := range s.startup {
		if err := fn(ctx); err != nil {
			s.log.Error("startup hook failed", slog.Any("error", err))
			return errors.Join(err, s.release(nil))
		}
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.Join(err, s.release(nil))
	}

	srv := &http.Server{
		Handler:           h,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
	}
	failed := make(chan error, 1)
	go func() {
		s.log.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		return errors.Join(err, s.release(nil))
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	err = s.release(srv)
	if err != nil {
		s.log.Error("shutdown completed with errors", slog.Any("error", err))
		return err
	}
	s.log.Info("shutdown completed")
	return nil
}

// release drains srv when it is running, then runs the shutdown hooks, all
// within the grace period.
func (s *server) release(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()

	var errs []error
	if srv != nil {
		errs = append(errs, srv.Shutdown(ctx))
	}
	for _, fn := range s.shutdown {
		if err := fn(ctx); err != nil {
			s.log.Error("shutdown hook failed", slog.Any("error", err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
