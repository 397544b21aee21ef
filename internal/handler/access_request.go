package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/genwork/internal/domain"
	"github.com/yourorg/genwork/internal/service"
)

// AccessRequestPayload is the public submission body
type AccessRequestPayload struct {
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Company        string `json:"company"`
	CompanySize    string `json:"companySize,omitempty"`
	PrimaryUseCase string `json:"primaryUseCase,omitempty"`
}

// AccessRequestView is the admin projection of a stored access request
type AccessRequestView struct {
	ID             string    `json:"id"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	Company        string    `json:"company"`
	CompanySize    string    `json:"companySize,omitempty"`
	PrimaryUseCase string    `json:"primaryUseCase,omitempty"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func accessRequestView(req *domain.AccessRequest) AccessRequestView {
	return AccessRequestView{
		ID:             req.ID,
		FullName:       req.FullName,
		Email:          req.Email,
		Company:        req.Company,
		CompanySize:    req.CompanySize,
		PrimaryUseCase: req.PrimaryUseCase,
		Status:         string(req.Status),
		Notes:          req.Notes,
		CreatedAt:      req.CreatedAt,
		UpdatedAt:      req.UpdatedAt,
	}
}

// AccessRequestHandler serves the access request endpoints
type AccessRequestHandler struct {
	leads     *service.LeadService
	responder *Responder
	logger    *slog.Logger
}

// NewAccessRequestHandler creates a new access request handler
func NewAccessRequestHandler(leads *service.LeadService, responder *Responder, logger *slog.Logger) *AccessRequestHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccessRequestHandler{leads: leads, responder: responder, logger: logger}
}

// Create handles POST /api/access-requests
func (h *AccessRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload AccessRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Error("failed to decode access request", slog.String("error", err.Error()))
		h.responder.BadRequest(w, "Invalid request body")
		return
	}

	req := &domain.AccessRequest{
		FullName:       payload.FullName,
		Email:          payload.Email,
		Company:        payload.Company,
		CompanySize:    payload.CompanySize,
		PrimaryUseCase: payload.PrimaryUseCase,
	}

	if err := h.leads.SubmitAccessRequest(r.Context(), req); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.OK(w, http.StatusCreated,
		"Access request submitted successfully. We will review your request and get back to you soon.",
		map[string]any{"id": req.ID})
}

// List handles GET /api/access-requests
func (h *AccessRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePageLimit(r)
	status := r.URL.Query().Get("status")

	items, total, err := h.leads.ListAccessRequests(r.Context(), status, page, limit)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	views := make([]AccessRequestView, 0, len(items))
	for _, item := range items {
		views = append(views, accessRequestView(item))
	}

	h.responder.OK(w, http.StatusOK, "", map[string]any{
		"data":       views,
		"pagination": NewPagination(page, limit, total),
	})
}

// UpdateStatus handles PATCH /api/access-requests/{id}
func (h *AccessRequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.responder.BadRequest(w, "Invalid request body")
		return
	}

	req, err := h.leads.UpdateAccessRequestStatus(r.Context(), r.PathValue("id"), payload.Status)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.OK(w, http.StatusOK, "Access request updated successfully",
		map[string]any{"data": accessRequestView(req)})
}
