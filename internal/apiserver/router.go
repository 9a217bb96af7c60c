package apiserver

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig carries the middleware knobs the chi router is built with.
type RouterConfig struct {
	WriteTimeout   time.Duration
	MaxRequestSize int64
	EnableCORS     bool
	CorsOrigins    []string
}

// NewRouter builds the /v0/prove + /healthcheck router, with the standard
// middleware stack (request ID, real IP, structured logging, panic
// recovery, timeouts, request-size limiting, and optional CORS).
func NewRouter(server *Server, cfg RouterConfig, logger Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.WriteTimeout))
	r.Use(middleware.RequestSize(cfg.MaxRequestSize))

	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Post("/v0/prove", server.HandleProve)
	r.Get("/healthcheck", server.HandleHealthcheck)
	r.NotFound(server.HandleFallback)

	return r
}

// NewMetricsRouter builds the standalone router served on the metrics port.
func NewMetricsRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	return r
}
