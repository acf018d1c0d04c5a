package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

type LeadAssigner interface {
	Execute(ctx context.Context, input usecase.AssignLeadInput) (*usecase.AssignLeadOutput, error)
	Preview(ctx context.Context, teamID, formationTypeID string) entity.AssignmentResult
}

type AssignmentHandler struct {
	assigner    LeadAssigner
	assignments entity.FormationAssignmentRepositoryInterface
}

func NewAssignmentHandler(assigner LeadAssigner, assignments entity.FormationAssignmentRepositoryInterface) *AssignmentHandler {
	return &AssignmentHandler{assigner: assigner, assignments: assignments}
}

type PreviewRequest struct {
	FormationTypeID string `json:"formation_type_id"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

// Assign handles POST /teams/{teamId}/assignments.
func (h *AssignmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var input usecase.AssignLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.TeamID = chi.URLParam(r, "teamId")

	out, err := h.assigner.Execute(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

// Preview handles POST /teams/{teamId}/assignments/preview. Nothing is written.
func (h *AssignmentHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result := h.assigner.Preview(r.Context(), chi.URLParam(r, "teamId"), req.FormationTypeID)
	writeJSON(w, http.StatusOK, result)
}

// SetActive handles PATCH /formation-assignments/{id}.
func (h *AssignmentHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req SetActiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.IsActive == nil {
		writeErrorBody(w, http.StatusBadRequest, usecase.CodeValidation, "is_active is required")
		return
	}

	if err := h.assignments.SetActive(r.Context(), chi.URLParam(r, "id"), *req.IsActive); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
