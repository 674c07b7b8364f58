// Package health serves liveness and readiness probes.
//
//	r.Get("/healthz", health.Liveness())
//	r.Get("/readyz", health.Readiness(health.Checks{
//	    "postgres": db.Healthcheck(pool),
//	    "redis":    redis.Healthcheck(client),
//	    "patterns": health.Patterns(cfg),
//	}, health.WithTimeout(2*time.Second)))
//
// Checks run concurrently under one timeout. Readiness answers 503 with the
// per-check outcome when any of them fails.
package health
