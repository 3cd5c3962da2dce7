package handler

import (
	"net/http"

	"contactnorm/pkg/config"
	"contactnorm/pkg/contracts"
	"contactnorm/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

var (
	_ contracts.Handler = (*ContactHandler)(nil)
	_ contracts.Handler = (*HealthHandler)(nil)
)

// NewRouter mounts health endpoints behind Recovery and Logging only, and the
// API behind the full stack. limiter may be nil to disable rate limiting.
func NewRouter(cfg *config.Config, contacts, health contracts.Handler, limiter *middleware.ClientRateLimiter) http.Handler {
	healthRouter := httprouter.New()
	health.RegisterRoutes(healthRouter)

	var healthHTTPHandler http.Handler = healthRouter
	healthHTTPHandler = middleware.RequestLogging(cfg.Log)(healthHTTPHandler)
	healthHTTPHandler = middleware.Recovery(cfg.Log)(healthHTTPHandler)

	apiRouter := httprouter.New()
	contacts.RegisterRoutes(apiRouter)

	// Recovery → Logging → MaxSize → ContentType → RateLimit → Timeout → Router
	var apiHTTPHandler http.Handler = apiRouter
	apiHTTPHandler = middleware.RequestTimeout(cfg.RequestTimeout)(apiHTTPHandler)
	if limiter != nil {
		apiHTTPHandler = middleware.RateLimit(limiter)(apiHTTPHandler)
	}
	apiHTTPHandler = middleware.ContentTypeValidation(cfg.Log)(apiHTTPHandler)
	apiHTTPHandler = middleware.MaxRequestSize(cfg.MaxRequestSize)(apiHTTPHandler)
	apiHTTPHandler = middleware.RequestLogging(cfg.Log)(apiHTTPHandler)
	apiHTTPHandler = middleware.Recovery(cfg.Log)(apiHTTPHandler)

	mux := http.NewServeMux()
	mux.Handle("/health", healthHTTPHandler)
	mux.Handle("/ready", healthHTTPHandler)
	mux.Handle("/", apiHTTPHandler)
	return mux
}
