package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/yourorg/genwork/internal/domain"
	"github.com/yourorg/genwork/internal/service"
	"github.com/yourorg/genwork/internal/validate"
)

// Pagination describes one page of a list response
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPagination computes page metadata for a list of total items
func NewPagination(page, limit, total int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	pages := (total + limit - 1) / limit
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Responder writes the JSON envelope every endpoint shares
type Responder struct {
	logger      *slog.Logger
	development bool
}

// NewResponder creates a responder. In development mode internal errors
// include the underlying message.
func NewResponder(logger *slog.Logger, development bool) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{logger: logger, development: development}
}

func (rp *Responder) writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		rp.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// OK writes a success envelope. Extra fields are merged alongside success
// and message.
func (rp *Responder) OK(w http.ResponseWriter, status int, message string, extra map[string]any) {
	body := map[string]any{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range extra {
		body[k] = v
	}
	rp.writeJSON(w, status, body)
}

// Fail writes a failure envelope with the given message
func (rp *Responder) Fail(w http.ResponseWriter, status int, message string, extra map[string]any) {
	body := map[string]any{"success": false, "message": message}
	for k, v := range extra {
		body[k] = v
	}
	rp.writeJSON(w, status, body)
}

// Error maps a service error to its HTTP status and failure envelope
func (rp *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validate.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fe.Message)
		}
		rp.Fail(w, http.StatusBadRequest, "Validation failed", map[string]any{"errors": details})
		return
	}

	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		rp.Fail(w, http.StatusConflict, conflict.Message, nil)
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		rp.Fail(w, http.StatusNotFound, "Resource not found", nil)
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountDeactivated),
		errors.Is(err, service.ErrInvalidToken):
		rp.Fail(w, http.StatusUnauthorized, err.Error(), nil)
	default:
		rp.logger.Error("request failed",
			slog.String("path", r.URL.Path),
			slog.String("method", r.Method),
			slog.String("error", err.Error()),
		)
		message := "Internal server error"
		if rp.development {
			message = err.Error()
		}
		rp.Fail(w, http.StatusInternalServerError, message, nil)
	}
}

// BadRequest writes a 400 failure envelope for malformed bodies
func (rp *Responder) BadRequest(w http.ResponseWriter, message string) {
	rp.Fail(w, http.StatusBadRequest, message, nil)
}

// parsePageLimit reads page and limit query params with their defaults
func parsePageLimit(r *http.Request) (int, int) {
	page := 1
	limit := 50
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return page, limit
}
