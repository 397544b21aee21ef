package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/genwork/internal/domain"
	"github.com/yourorg/genwork/internal/validate"
)

// TaskPayload is the create body
type TaskPayload struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Status      string         `json:"status,omitempty"`
	Priority    string         `json:"priority,omitempty"`
	AssignedTo  *string        `json:"assignedTo,omitempty"`
	WorkspaceID *string        `json:"workspaceId,omitempty"`
	DueDate     *time.Time     `json:"dueDate,omitempty"`
	CreatedBy   *string        `json:"createdBy,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// TaskUpdatePayload is the partial update body; absent fields stay untouched
type TaskUpdatePayload struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Status      *string        `json:"status,omitempty"`
	Priority    *string        `json:"priority,omitempty"`
	AssignedTo  *string        `json:"assignedTo,omitempty"`
	WorkspaceID *string        `json:"workspaceId,omitempty"`
	DueDate     *time.Time     `json:"dueDate,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

func (p TaskUpdatePayload) toDomain() domain.TaskUpdate {
	return domain.TaskUpdate{
		Title:       p.Title,
		Description: p.Description,
		Status:      p.Status,
		Priority:    p.Priority,
		AssignedTo:  p.AssignedTo,
		WorkspaceID: p.WorkspaceID,
		DueDate:     p.DueDate,
		Metadata:    p.Metadata,
	}
}

// TaskView is the stored task projection
type TaskView struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Status      string         `json:"status"`
	Priority    string         `json:"priority"`
	AssignedTo  *string        `json:"assignedTo,omitempty"`
	WorkspaceID *string        `json:"workspaceId,omitempty"`
	DueDate     *time.Time     `json:"dueDate,omitempty"`
	CreatedBy   *string        `json:"createdBy,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func taskView(t *domain.Task) TaskView {
	return TaskView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		AssignedTo:  t.AssignedTo,
		WorkspaceID: t.WorkspaceID,
		DueDate:     t.DueDate,
		CreatedBy:   t.CreatedBy,
		Metadata:    t.Metadata,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// TaskHandler serves the task endpoints
type TaskHandler struct {
	tasks     domain.TaskRepository
	responder *Responder
	logger    *slog.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(tasks domain.TaskRepository, responder *Responder, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{tasks: tasks, responder: responder, logger: logger}
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload TaskPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.responder.BadRequest(w, "Invalid request body")
		return
	}

	task := &domain.Task{
		Title:       payload.Title,
		Description: payload.Description,
		Status:      payload.Status,
		Priority:    payload.Priority,
		AssignedTo:  payload.AssignedTo,
		WorkspaceID: payload.WorkspaceID,
		DueDate:     payload.DueDate,
		CreatedBy:   payload.CreatedBy,
		Metadata:    payload.Metadata,
	}

	if errs := validate.Task(task); len(errs) > 0 {
		h.responder.Error(w, r, errs)
		return
	}

	if err := h.tasks.Create(r.Context(), task); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.logger.Info("task created", slog.String("id", task.ID), slog.String("title", task.Title))
	h.responder.OK(w, http.StatusCreated, "Task created successfully",
		map[string]any{"data": taskView(task)})
}

// List handles GET /api/tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePageLimit(r)
	q := r.URL.Query()
	filter := domain.TaskFilter{
		Status:      q.Get("status"),
		Priority:    q.Get("priority"),
		AssignedTo:  q.Get("assigned_to"),
		WorkspaceID: q.Get("workspace_id"),
	}

	items, total, err := h.tasks.List(r.Context(), filter, page, limit)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	views := make([]TaskView, 0, len(items))
	for _, item := range items {
		views = append(views, taskView(item))
	}

	h.responder.OK(w, http.StatusOK, "", map[string]any{
		"data":       views,
		"pagination": NewPagination(page, limit, total),
	})
}

// Get handles GET /api/tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.tasks.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, http.StatusOK, "", map[string]any{"data": taskView(task)})
}

// Update handles PATCH /api/tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload TaskUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.responder.BadRequest(w, "Invalid request body")
		return
	}

	task, err := h.tasks.Update(r.Context(), r.PathValue("id"), payload.toDomain())
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.OK(w, http.StatusOK, "Task updated successfully",
		map[string]any{"data": taskView(task)})
}

// Delete handles DELETE /api/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.tasks.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.OK(w, http.StatusOK, "Task deleted successfully", nil)
}

// BulkUpdate handles PATCH /api/tasks/bulk/update
func (h *TaskHandler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		TaskIDs []string          `json:"task_ids"`
		Updates TaskUpdatePayload `json:"updates"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.responder.BadRequest(w, "Invalid request body")
		return
	}

	if len(payload.TaskIDs) == 0 {
		h.responder.BadRequest(w, "task_ids array is required")
		return
	}

	tasks, err := h.tasks.BulkUpdate(r.Context(), payload.TaskIDs, payload.Updates.toDomain())
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, taskView(t))
	}

	h.logger.Info("tasks bulk updated", slog.Int("count", len(tasks)))
	h.responder.OK(w, http.StatusOK, "Tasks updated successfully",
		map[string]any{"data": views})
}
