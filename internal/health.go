package internal

import (
	"github.com/dmitrymomot/taskmanager/pkg/health"
	"github.com/dmitrymomot/taskmanager/pkg/job"
)

type healthConfig struct {
	live   string
	ready  string
	checks health.Checks
}

// HealthOption configures the health endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath moves the liveness endpoint. Default: /health/live.
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.live = path
		}
	}
}

// WithReadinessPath moves the readiness endpoint. Default: /health/ready.
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.ready = path
		}
	}
}

// WithReadinessCheck adds a check to the readiness endpoint. Nil checks are
// skipped so optional backends can be wired unconditionally.
//
//	taskmanager.WithReadinessCheck("postgres", db.Healthcheck(pool))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if fn == nil {
			return
		}
		if c.checks == nil {
			c.checks = health.Checks{}
		}
		c.checks[name] = fn
	}
}

// mountHealth registers the health endpoints outside the app middleware's error
// handling. The job scheduler joins the readiness checks when it is enabled.
func (a *App) mountHealth() {
	if a.jobs != nil {
		WithReadinessCheck("jobs", job.Healthcheck(a.jobs))(a.health)
	}
	a.mux.Get(a.health.live, health.LivenessHandler())
	a.mux.Get(a.health.ready, health.ReadinessHandler(a.health.checks, health.WithLogger(a.logger)))
}
