// Package health provides liveness and readiness probes.
//
// Liveness only says the process is up. Readiness runs the registered
// checks concurrently, each under its own timeout:
//
//	checker := health.New(2 * time.Second)
//	checker.Register("cache", func(ctx context.Context) error {
//	    _, err := store.Stats(ctx)
//	    return err
//	})
//	mux.Handle("GET /readyz", checker.ReadinessHandler())
package health
