package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	apperrors "contactnorm/pkg/errors"
	httputil "contactnorm/pkg/http"
	"contactnorm/pkg/logger"
)

func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Error("Panic recovered",
						"request_id", RequestID(r.Context()),
						"error", err,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)

					_ = httputil.WriteError(w, apperrors.Internal("Internal server error", fmt.Errorf("panic: %v", err)))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
