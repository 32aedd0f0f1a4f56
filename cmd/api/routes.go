package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/prospection-crm/internal/config"
	"github.com/xavierca1/prospection-crm/internal/infra/http/handlers"
	metrics "github.com/xavierca1/prospection-crm/internal/infra/http/middleware"
)

type routes struct {
	Prospects  *handlers.ProspectHandler
	Kanban     *handlers.KanbanHandler
	Validation *handlers.ValidationHandler
	Data       *handlers.DataHandler
	Calendar   *handlers.CalendarHandler
	Health     *handlers.HealthHandler
}

func newRouter(cfg config.Config, h routes) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	r.Use(metrics.Metrics)

	r.Get("/health", h.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if cfg.BasicAuthEnabled() {
			r.Use(middleware.BasicAuth("Secure Area", map[string]string{
				cfg.BasicAuthUser: cfg.BasicAuthPass,
			}))
		}

		r.Route("/prospects", func(r chi.Router) {
			r.Get("/", h.Prospects.List)
			r.Post("/", h.Prospects.Create)
			r.Get("/{id}", h.Prospects.Get)
			r.Patch("/{id}", h.Prospects.Update)
			r.Delete("/{id}", h.Prospects.Delete)
			r.Post("/{id}/interactions", h.Prospects.AddInteraction)
		})

		r.Get("/kanban", h.Kanban.Board)
		r.Post("/kanban/pickup", h.Kanban.PickUp)
		r.Delete("/kanban/pickup", h.Kanban.Cancel)
		r.Post("/kanban/drop", h.Kanban.Drop)

		r.Get("/stats", h.Prospects.Stats)
		r.Post("/validate", h.Validation.Handle)

		r.Get("/data/export", h.Data.Export)
		r.Post("/data/import", h.Data.Import)

		r.Post("/calendar/{provider}/events", h.Calendar.CreateEvent)
	})

	return r
}
