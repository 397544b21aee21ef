package domain

import (
	"context"
	"time"
)

const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"

	TaskPriorityMedium = "medium"
)

// Task is a unit of work tracked on the admin dashboard
type Task struct {
	ID          string
	Title       string
	Description string
	Status      string // defaults to pending
	Priority    string // defaults to medium
	AssignedTo  *string
	WorkspaceID *string
	DueDate     *time.Time
	CreatedBy   *string
	Metadata    map[string]any
	CompletedAt *time.Time // stamped when status transitions to completed
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskFilter narrows a task listing; zero values mean no filter
type TaskFilter struct {
	Status      string
	Priority    string
	AssignedTo  string
	WorkspaceID string
}

// TaskUpdate carries a partial update; nil fields are left untouched
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	AssignedTo  *string
	WorkspaceID *string
	DueDate     *time.Time
	Metadata    map[string]any
}

// TaskRepository defines data access for tasks
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	List(ctx context.Context, filter TaskFilter, page, limit int) ([]*Task, int, error)
	GetByID(ctx context.Context, id string) (*Task, error)
	Update(ctx context.Context, id string, upd TaskUpdate) (*Task, error)
	Delete(ctx context.Context, id string) error
	BulkUpdate(ctx context.Context, ids []string, upd TaskUpdate) ([]*Task, error)
}
