package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-leads/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
)

type Handlers struct {
	Leads         *handlers.LeadHandler
	Views         *handlers.LeadViewsHandler
	Assignments   *handlers.AssignmentHandler
	Notifications *handlers.NotificationHandler
	Health        *handlers.HealthHandler
	// Realtime serves the notification websocket. Optional.
	Realtime http.Handler
}

func New(h Handlers, allowedOrigins []string, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/teams/{teamId}", func(r chi.Router) {
		r.Get("/queue", h.Views.Queue)
		r.Get("/dashboard", h.Views.Dashboard)
		r.Get("/sla-alerts", h.Views.SLAAlerts)
		r.Post("/leads", h.Leads.Capture)
		r.Post("/assignments", h.Assignments.Assign)
		r.Post("/assignments/preview", h.Assignments.Preview)
	})

	r.Patch("/leads/{leadId}/action", h.Leads.UpdateAction)
	r.Patch("/formation-assignments/{id}", h.Assignments.SetActive)

	r.Get("/users/{userId}/notifications", h.Notifications.ListUnread)
	r.Post("/notifications/{id}/read", h.Notifications.MarkRead)

	if h.Realtime != nil {
		r.Handle("/ws/notifications", h.Realtime)
	}

	return r
}
