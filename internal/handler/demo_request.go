package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/genwork/internal/domain"
	"github.com/yourorg/genwork/internal/service"
)

// DemoRequestPayload is the public submission body
type DemoRequestPayload struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Company    string `json:"company"`
	JobTitle   string `json:"jobTitle,omitempty"`
	Department string `json:"department,omitempty"`
	Needs      string `json:"needs,omitempty"`
}

// DemoRequestView is the admin projection of a stored demo request
type DemoRequestView struct {
	ID            string     `json:"id"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Email         string     `json:"email"`
	Company       string     `json:"company"`
	JobTitle      string     `json:"jobTitle,omitempty"`
	Department    string     `json:"department,omitempty"`
	Needs         string     `json:"needs,omitempty"`
	Status        string     `json:"status"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func demoRequestView(req *domain.DemoRequest) DemoRequestView {
	return DemoRequestView{
		ID:            req.ID,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Company:       req.Company,
		JobTitle:      req.JobTitle,
		Department:    req.Department,
		Needs:         req.Needs,
		Status:        string(req.Status),
		ScheduledDate: req.ScheduledDate,
		Notes:         req.Notes,
		CreatedAt:     req.CreatedAt,
		UpdatedAt:     req.UpdatedAt,
	}
}

// DemoRequestHandler serves the demo request endpoints
type DemoRequestHandler struct {
	leads     *service.LeadService
	responder *Responder
	logger    *slog.Logger
}

// NewDemoRequestHandler creates a new demo request handler
func NewDemoRequestHandler(leads *service.LeadService, responder *Responder, logger *slog.Logger) *DemoRequestHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DemoRequestHandler{leads: leads, responder: responder, logger: logger}
}

// Create handles POST /api/demo-requests
func (h *DemoRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload DemoRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Error("failed to decode demo request", slog.String("error", err.Error()))
		h.responder.BadRequest(w, "Invalid request body")
		return
	}

	req := &domain.DemoRequest{
		FirstName:  payload.FirstName,
		LastName:   payload.LastName,
		Email:      payload.Email,
		Company:    payload.Company,
		JobTitle:   payload.JobTitle,
		Department: payload.Department,
		Needs:      payload.Needs,
	}

	if err := h.leads.SubmitDemoRequest(r.Context(), req); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.OK(w, http.StatusCreated,
		"Demo request submitted successfully. We will contact you within 24 hours.",
		map[string]any{"id": req.ID})
}

// List handles GET /api/demo-requests
func (h *DemoRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePageLimit(r)
	status := r.URL.Query().Get("status")

	items, total, err := h.leads.ListDemoRequests(r.Context(), status, page, limit)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	views := make([]DemoRequestView, 0, len(items))
	for _, item := range items {
		views = append(views, demoRequestView(item))
	}

	h.responder.OK(w, http.StatusOK, "", map[string]any{
		"data":       views,
		"pagination": NewPagination(page, limit, total),
	})
}

// UpdateStatus handles PATCH /api/demo-requests/{id}
func (h *DemoRequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.responder.BadRequest(w, "Invalid request body")
		return
	}

	req, err := h.leads.UpdateDemoRequestStatus(r.Context(), r.PathValue("id"), payload.Status)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.OK(w, http.StatusOK, "Demo request updated successfully",
		map[string]any{"data": demoRequestView(req)})
}
