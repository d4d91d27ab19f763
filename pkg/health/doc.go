// Package health serves liveness and readiness endpoints.
//
// Readiness runs named [CheckFunc]s concurrently under a shared timeout
// and answers 503 with a per-check JSON breakdown if any of them fails.
// The server registers checks for PostgreSQL, Redis and the job manager
// depending on what is configured.
package health
