package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yourorg/genwork/internal/service"
)

// AIHandler serves the AI task execution proxy
type AIHandler struct {
	ai        *service.AIService
	responder *Responder
	logger    *slog.Logger
}

// NewAIHandler creates a new AI handler
func NewAIHandler(ai *service.AIService, responder *Responder, logger *slog.Logger) *AIHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AIHandler{ai: ai, responder: responder, logger: logger}
}

// Execute handles POST /api/ai/execute
func (h *AIHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Prompt      string  `json:"prompt"`
		Department  string  `json:"department,omitempty"`
		Context     string  `json:"context,omitempty"`
		Temperature float64 `json:"temperature,omitempty"`
		MaxTokens   int     `json:"maxTokens,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.responder.BadRequest(w, "Invalid request body")
		return
	}

	if payload.Prompt == "" {
		h.responder.BadRequest(w, "prompt is required")
		return
	}

	result, err := h.ai.Execute(r.Context(), service.ExecuteInput{
		Prompt:      payload.Prompt,
		Department:  payload.Department,
		Context:     payload.Context,
		Temperature: payload.Temperature,
		MaxTokens:   payload.MaxTokens,
	})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	extra := map[string]any{
		"result": result.Result,
		"taskId": result.TaskID,
	}
	if result.Model != "" {
		extra["model"] = result.Model
	}
	if result.Mock {
		extra["mock"] = true
	}

	h.responder.OK(w, http.StatusOK, "", extra)
}

// Departments handles GET /api/ai/departments
func (h *AIHandler) Departments(w http.ResponseWriter, r *http.Request) {
	h.responder.OK(w, http.StatusOK, "", map[string]any{
		"departments": service.Departments(),
	})
}
