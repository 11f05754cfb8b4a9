package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the public API. The original client speaks POST for
// every data call, so the routes mirror that.
func NewRouter(handlers *Handlers, logger *slog.Logger, registry *prometheus.Registry) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/platina_songs", handlers.HandleSongs)
		r.Post("/platina_patterns", handlers.HandlePatterns)
		r.Post("/register", handlers.HandleRegister)
		r.Post("/reissue_key", handlers.HandleReissueKey)
		r.Post("/decode", handlers.HandleDecode)
		r.Post("/get_archive", handlers.HandleGetArchive)
		r.Post("/progress", handlers.HandleProgress)
		r.Post("/progress_chart", handlers.HandleProgressChart)
	})

	r.Get("/healthz", handlers.HandleHealthz)
	if registry != nil {
		r.Get("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP)
	}

	return r
}
