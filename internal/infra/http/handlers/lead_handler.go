package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-leads/internal/usecase"
)

type LeadCapturer interface {
	Execute(ctx context.Context, input usecase.CaptureLeadInput) (*usecase.CaptureLeadOutput, error)
}

type LeadActionUpdater interface {
	Execute(ctx context.Context, input usecase.UpdateLeadActionInput) error
}

type LeadHandler struct {
	capture     LeadCapturer
	update      LeadActionUpdater
	rateLimiter *RateLimiter
}

func NewLeadHandler(capture LeadCapturer, update LeadActionUpdater, rateLimiter *RateLimiter) *LeadHandler {
	if rateLimiter == nil {
		rateLimiter = NewRateLimiter(10, time.Minute)
	}
	return &LeadHandler{capture: capture, update: update, rateLimiter: rateLimiter}
}

// Capture handles POST /teams/{teamId}/leads.
func (h *LeadHandler) Capture(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(clientIP(r)) {
		writeErrorBody(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, please try again later")
		return
	}

	var input usecase.CaptureLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.TeamID = chi.URLParam(r, "teamId")

	out, err := h.capture.Execute(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, out)
}

// UpdateAction handles PATCH /leads/{leadId}/action.
func (h *LeadHandler) UpdateAction(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateLeadActionInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.LeadID = chi.URLParam(r, "leadId")

	if err := h.update.Execute(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
