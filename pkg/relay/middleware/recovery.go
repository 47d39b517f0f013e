package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"chatrelay/pkg/relay"
	"chatrelay/pkg/telemetry/logging"
)

// RecoveryMiddleware recovers from panics in HTTP handlers and answers with
// the relay's 500 body, {"message": "Internal server error: <panic>"}.
// http.ErrAbortHandler is re-panicked so net/http can abort the connection.
func RecoveryMiddleware(logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.ErrorContext(r.Context(), "panic in handler",
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				relay.WriteResponse(w, relay.InternalErrorResponse(fmt.Errorf("%v", rec)))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
