// Package health serves the relay's operational endpoints.
//
//   - /health: liveness, always 200 while the process serves
//   - /health/ready: readiness, 503 when a registered check fails
//     (for example the upstream credential cannot be resolved)
//   - /health/upstream: upstream request counters
//   - /version: build information
//
// Usage:
//
//	checker := health.New(2 * time.Second)
//	checker.Register("credential", func(ctx context.Context) error {
//	    _, err := secrets.GetSecret(ctx, "AIunclesamAPIkey")
//	    return err
//	})
//	mux.Handle("/health", checker.LivenessHandler())
//	mux.Handle("/health/ready", checker.ReadinessHandler())
//
// Readiness never changes relay behavior: an invocation without a
// credential still answers with the configuration error.
package health
