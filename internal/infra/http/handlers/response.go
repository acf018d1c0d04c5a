package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

type ErrorBody struct {
	Error ErrorItem `json:"error"`
}

type ErrorItem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorBody{Error: ErrorItem{Code: code, Message: message}})
}

// writeError maps use case errors to HTTP statuses. Technical errors expose
// their message but never the wrapped cause.
func writeError(w http.ResponseWriter, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status := http.StatusBadRequest
		switch de.Code {
		case usecase.CodeLeadNotFound, usecase.CodeNotFound:
			status = http.StatusNotFound
		}
		writeErrorBody(w, status, de.Code, de.Message)
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		status := http.StatusInternalServerError
		if te.Code == usecase.CodeFetchFailed {
			status = http.StatusServiceUnavailable
		}
		writeErrorBody(w, status, te.Code, te.Message)
		return
	}

	if errors.Is(err, entity.ErrNotFound) {
		writeErrorBody(w, http.StatusNotFound, usecase.CodeNotFound, "not found")
		return
	}

	writeErrorBody(w, http.StatusInternalServerError, "INTERNAL", "internal error")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorBody(w, http.StatusBadRequest, usecase.CodeValidation, "invalid JSON body")
		return false
	}
	return true
}
