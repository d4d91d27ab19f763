// Package redis opens go-redis clients from environment configuration.
//
// The client backs the session cache store when SESSION_BACKEND=redis:
//
//	client, err := redis.Connect(ctx, cfg.Redis)
//	if err != nil {
//		return err
//	}
//	sessions := cache.NewRedis[session.Session](client, nil, cache.WithPrefix("sessions"))
package redis
