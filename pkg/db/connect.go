package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect returns a pool that has answered a ping. Postgres often comes up
// after the API in compose setups, so failed attempts are retried.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, errors.Join(ErrParseConfig, err)
	}

	var lastErr error
	for attempt := 1; ; attempt++ {
		var pool *pgxpool.Pool
		if pool, lastErr = open(ctx, poolCfg); lastErr == nil {
			return pool, nil
		}
		if attempt >= cfg.RetryAttempts {
			return nil, errors.Join(ErrConnect, lastErr)
		}

		wait := time.NewTimer(cfg.backoff(attempt))
		select {
		case <-ctx.Done():
			wait.Stop()
			return nil, errors.Join(ErrConnect, ctx.Err(), lastErr)
		case <-wait.C:
		}
	}
}

func poolConfig(cfg Config) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		pc.MaxConns = cfg.MaxOpenConns
	}
	pc.MinConns = cfg.MinConns
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.HealthCheckPeriod = cfg.HealthCheckPeriod
	return pc, nil
}

func open(ctx context.Context, pc *pgxpool.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Shutdown adapts pool.Close to a run hook. Close blocks until acquired
// connections are released.
func Shutdown(pool *pgxpool.Pool) func(context.Context) error {
	return func(context.Context) error {
		pool.Close()
		return nil
	}
}
