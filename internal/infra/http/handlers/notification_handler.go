package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

const maxNotifications = 100

type NotificationHandler struct {
	repo entity.NotificationRepositoryInterface
}

func NewNotificationHandler(repo entity.NotificationRepositoryInterface) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

// ListUnread handles GET /users/{userId}/notifications?limit=.
func (h *NotificationHandler) ListUnread(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeErrorBody(w, http.StatusBadRequest, usecase.CodeValidation, "limit must be a positive integer")
			return
		}
		limit = min(n, maxNotifications)
	}

	list, err := h.repo.ListUnread(r.Context(), chi.URLParam(r, "userId"), limit)
	if err != nil {
		writeErrorBody(w, http.StatusInternalServerError, usecase.CodeDatabase, "failed to load notifications")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"notifications": list})
}

// MarkRead handles POST /notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
