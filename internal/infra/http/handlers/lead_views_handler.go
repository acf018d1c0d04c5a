package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

type LeadViews interface {
	Queue(ctx context.Context, teamID, assignedTo string) ([]entity.Lead, error)
	Dashboard(ctx context.Context, teamID, assignedTo string) (*usecase.Dashboard, error)
}

type SLAAlerts interface {
	Alerts(ctx context.Context, teamID string) ([]entity.SLAAlert, error)
}

type LeadViewsHandler struct {
	views LeadViews
	sla   SLAAlerts
}

func NewLeadViewsHandler(views LeadViews, sla SLAAlerts) *LeadViewsHandler {
	return &LeadViewsHandler{views: views, sla: sla}
}

type QueueResponse struct {
	TeamID string        `json:"team_id"`
	Count  int           `json:"count"`
	Leads  []entity.Lead `json:"leads"`
}

// Queue handles GET /teams/{teamId}/queue?assigned_to=.
func (h *LeadViewsHandler) Queue(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamId")

	leads, err := h.views.Queue(r.Context(), teamID, r.URL.Query().Get("assigned_to"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, QueueResponse{TeamID: teamID, Count: len(leads), Leads: leads})
}

// Dashboard handles GET /teams/{teamId}/dashboard?assigned_to=.
func (h *LeadViewsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.views.Dashboard(r.Context(), chi.URLParam(r, "teamId"), r.URL.Query().Get("assigned_to"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

// SLAAlerts handles GET /teams/{teamId}/sla-alerts.
func (h *LeadViewsHandler) SLAAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.sla.Alerts(r.Context(), chi.URLParam(r, "teamId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}
