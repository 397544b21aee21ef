package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yourorg/genwork/internal/domain"
)

// UserHandler serves the admin user management endpoints
type UserHandler struct {
	users     domain.UserRepository
	responder *Responder
	logger    *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users domain.UserRepository, responder *Responder, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{users: users, responder: responder, logger: logger}
}

// List handles GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePageLimit(r)

	items, total, err := h.users.List(r.Context(), page, limit)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	views := make([]UserView, 0, len(items))
	for _, u := range items {
		views = append(views, userView(u))
	}

	h.responder.OK(w, http.StatusOK, "", map[string]any{
		"data":       views,
		"pagination": NewPagination(page, limit, total),
	})
}

// Get handles GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, http.StatusOK, "", map[string]any{"data": userView(user)})
}

// Update handles PATCH /api/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		FirstName *string `json:"firstName,omitempty"`
		LastName  *string `json:"lastName,omitempty"`
		Role      *string `json:"role,omitempty"`
		IsActive  *bool   `json:"isActive,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.responder.BadRequest(w, "Invalid request body")
		return
	}

	user, err := h.users.Update(r.Context(), r.PathValue("id"), domain.UserUpdate{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Role:      payload.Role,
		IsActive:  payload.IsActive,
	})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.OK(w, http.StatusOK, "User updated successfully",
		map[string]any{"data": userView(user)})
}

// Deactivate handles DELETE /api/users/{id}. Users are soft-deleted so
// their history stays attributable.
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.users.Deactivate(r.Context(), id); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.logger.Info("user deactivated", slog.String("id", id))
	h.responder.OK(w, http.StatusOK, "User deactivated successfully", nil)
}
