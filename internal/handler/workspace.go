package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/genwork/internal/domain"
	"github.com/yourorg/genwork/internal/validate"
)

// WorkspaceView is the stored workspace projection
type WorkspaceView struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description,omitempty"`
	OwnerID     string         `json:"ownerId"`
	Settings    map[string]any `json:"settings,omitempty"`
	IsActive    bool           `json:"isActive"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func workspaceView(ws *domain.Workspace) WorkspaceView {
	return WorkspaceView{
		ID:          ws.ID,
		Name:        ws.Name,
		Slug:        ws.Slug,
		Description: ws.Description,
		OwnerID:     ws.OwnerID,
		Settings:    ws.Settings,
		IsActive:    ws.IsActive,
		CreatedAt:   ws.CreatedAt,
		UpdatedAt:   ws.UpdatedAt,
	}
}

// MemberView is the stored membership projection
type MemberView struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	UserID      string    `json:"userId"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joinedAt"`
}

func memberView(m *domain.WorkspaceMember) MemberView {
	return MemberView{
		ID:          m.ID,
		WorkspaceID: m.WorkspaceID,
		UserID:      m.UserID,
		Role:        m.Role,
		JoinedAt:    m.JoinedAt,
	}
}

// WorkspaceHandler serves the workspace and membership endpoints
type WorkspaceHandler struct {
	workspaces domain.WorkspaceRepository
	responder  *Responder
	logger     *slog.Logger
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(workspaces domain.WorkspaceRepository, responder *Responder, logger *slog.Logger) *WorkspaceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkspaceHandler{workspaces: workspaces, responder: responder, logger: logger}
}

// Create handles POST /api/workspaces
func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name        string         `json:"name"`
		Slug        string         `json:"slug,omitempty"`
		Description string         `json:"description,omitempty"`
		OwnerID     string         `json:"ownerId"`
		Settings    map[string]any `json:"settings,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.responder.BadRequest(w, "Invalid request body")
		return
	}

	ws := &domain.Workspace{
		Name:        payload.Name,
		Slug:        payload.Slug,
		Description: payload.Description,
		OwnerID:     payload.OwnerID,
		Settings:    payload.Settings,
		IsActive:    true,
	}

	if errs := validate.Workspace(ws); len(errs) > 0 {
		h.responder.Error(w, r, errs)
		return
	}

	if err := h.workspaces.Create(r.Context(), ws); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.logger.Info("workspace created",
		slog.String("id", ws.ID),
		slog.String("slug", ws.Slug),
	)
	h.responder.OK(w, http.StatusCreated, "Workspace created successfully",
		map[string]any{"data": workspaceView(ws)})
}

// List handles GET /api/workspaces
func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePageLimit(r)

	items, total, err := h.workspaces.List(r.Context(), page, limit)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	views := make([]WorkspaceView, 0, len(items))
	for _, item := range items {
		views = append(views, workspaceView(item))
	}

	h.responder.OK(w, http.StatusOK, "", map[string]any{
		"data":       views,
		"pagination": NewPagination(page, limit, total),
	})
}

// Get handles GET /api/workspaces/{id}
func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ws, err := h.workspaces.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, http.StatusOK, "", map[string]any{"data": workspaceView(ws)})
}

// Update handles PATCH /api/workspaces/{id}
func (h *WorkspaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name        *string        `json:"name,omitempty"`
		Slug        *string        `json:"slug,omitempty"`
		Description *string        `json:"description,omitempty"`
		Settings    map[string]any `json:"settings,omitempty"`
		IsActive    *bool          `json:"isActive,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.responder.BadRequest(w, "Invalid request body")
		return
	}

	ws, err := h.workspaces.Update(r.Context(), r.PathValue("id"), domain.WorkspaceUpdate{
		Name:        payload.Name,
		Slug:        payload.Slug,
		Description: payload.Description,
		Settings:    payload.Settings,
		IsActive:    payload.IsActive,
	})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.OK(w, http.StatusOK, "Workspace updated successfully",
		map[string]any{"data": workspaceView(ws)})
}

// Delete handles DELETE /api/workspaces/{id}
func (h *WorkspaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.workspaces.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, http.StatusOK, "Workspace deleted successfully", nil)
}

// AddMember handles POST /api/workspaces/{id}/members
func (h *WorkspaceHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID string `json:"userId"`
		Role   string `json:"role,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.responder.BadRequest(w, "Invalid request body")
		return
	}

	if payload.UserID == "" {
		h.responder.BadRequest(w, "userId is required")
		return
	}

	member := &domain.WorkspaceMember{
		WorkspaceID: r.PathValue("id"),
		UserID:      payload.UserID,
		Role:        payload.Role,
	}

	if err := h.workspaces.AddMember(r.Context(), member); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.OK(w, http.StatusCreated, "Member added successfully",
		map[string]any{"data": memberView(member)})
}

// ListMembers handles GET /api/workspaces/{id}/members
func (h *WorkspaceHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.workspaces.ListMembers(r.Context(), r.PathValue("id"))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	views := make([]MemberView, 0, len(members))
	for _, m := range members {
		views = append(views, memberView(m))
	}

	h.responder.OK(w, http.StatusOK, "", map[string]any{"data": views})
}

// UpdateMember handles PATCH /api/workspaces/{id}/members/{member_id}
func (h *WorkspaceHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.responder.BadRequest(w, "Invalid request body")
		return
	}

	if payload.Role == "" {
		h.responder.BadRequest(w, "role is required")
		return
	}

	member, err := h.workspaces.UpdateMemberRole(r.Context(), r.PathValue("member_id"), payload.Role)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.OK(w, http.StatusOK, "Member updated successfully",
		map[string]any{"data": memberView(member)})
}

// RemoveMember handles DELETE /api/workspaces/{id}/members/{member_id}
func (h *WorkspaceHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	if err := h.workspaces.RemoveMember(r.Context(), r.PathValue("member_id")); err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, http.StatusOK, "Member removed successfully", nil)
}
