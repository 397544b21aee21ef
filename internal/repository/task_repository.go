package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/yourorg/genwork/internal/domain"
)

// PostgresTaskRepository implements domain.TaskRepository using PostgreSQL
type PostgresTaskRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresTaskRepository creates a new task repository
func NewPostgresTaskRepository(db *sql.DB, logger *slog.Logger) *PostgresTaskRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskRepository{
		db:     db,
		logger: logger,
	}
}

const taskColumns = `id, title, description, status, priority, assigned_to, workspace_id, due_date, created_by, metadata, completed_at, created_at, updated_at`

// Create inserts a new task, defaulting status to pending and priority to medium
func (r *PostgresTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = domain.TaskPriorityMedium
	}

	metadata, err := marshalMap(task.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal task metadata: %w", err)
	}

	query := `
		INSERT INTO tasks (id, title, description, status, priority, assigned_to, workspace_id, due_date, created_by, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err = r.db.QueryRowContext(ctx, query,
		task.ID,
		task.Title,
		nullString(task.Description),
		task.Status,
		task.Priority,
		task.AssignedTo,
		task.WorkspaceID,
		task.DueDate,
		task.CreatedBy,
		metadata,
	).Scan(&task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		r.logger.Error("failed to create task",
			slog.String("title", task.Title),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// List returns a page of tasks, newest first, narrowed by the filter
func (r *PostgresTaskRepository) List(ctx context.Context, filter domain.TaskFilter, page, limit int) ([]*domain.Task, int, error) {
	_, limit, offset := pageWindow(page, limit)

	var conds []string
	var args []any
	addCond := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	addCond("status", filter.Status)
	addCond("priority", filter.Priority)
	addCond("assigned_to", filter.AssignedTo)
	addCond("workspace_id", filter.WorkspaceID)

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`+where, args...).Scan(&total); err != nil {
		r.logger.Error("failed to count tasks", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM tasks%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		taskColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	return tasks, total, rows.Err()
}

// GetByID retrieves a task by ID
func (r *PostgresTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("failed to get task",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// Update applies a partial update, stamping updated_at, and completed_at when
// the status transitions to completed
func (r *PostgresTaskRepository) Update(ctx context.Context, id string, upd domain.TaskUpdate) (*domain.Task, error) {
	sets, args, err := buildTaskUpdate(upd)
	if err != nil {
		return nil, err
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE tasks SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), taskColumns,
	)

	task, err := scanTask(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("failed to update task",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Delete removes a task
func (r *PostgresTaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("failed to delete task",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// BulkUpdate applies the same partial update to every task in ids
func (r *PostgresTaskRepository) BulkUpdate(ctx context.Context, ids []string, upd domain.TaskUpdate) ([]*domain.Task, error) {
	sets, args, err := buildTaskUpdate(upd)
	if err != nil {
		return nil, err
	}

	args = append(args, pq.Array(ids))
	query := fmt.Sprintf(
		`UPDATE tasks SET %s WHERE id = ANY($%d) RETURNING %s`,
		strings.Join(sets, ", "), len(args), taskColumns,
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to bulk update tasks",
			slog.Int("count", len(ids)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to bulk update tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

func buildTaskUpdate(upd domain.TaskUpdate) ([]string, []any, error) {
	sets := []string{"updated_at = NOW()"}
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
		if *upd.Status == domain.TaskStatusCompleted {
			sets = append(sets, "completed_at = NOW()")
		}
	}
	if upd.Priority != nil {
		add("priority", *upd.Priority)
	}
	if upd.AssignedTo != nil {
		add("assigned_to", nullString(*upd.AssignedTo))
	}
	if upd.WorkspaceID != nil {
		add("workspace_id", nullString(*upd.WorkspaceID))
	}
	if upd.DueDate != nil {
		add("due_date", *upd.DueDate)
	}
	if upd.Metadata != nil {
		metadata, err := marshalMap(upd.Metadata)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal task metadata: %w", err)
		}
		add("metadata", metadata)
	}

	return sets, args, nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	task := &domain.Task{}
	var description sql.NullString
	var assignedTo, workspaceID, createdBy sql.NullString
	var dueDate, completedAt sql.NullTime
	var metadata []byte

	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&task.Status,
		&task.Priority,
		&assignedTo,
		&workspaceID,
		&dueDate,
		&createdBy,
		&metadata,
		&completedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Description = fromNullString(description)
	if assignedTo.Valid {
		task.AssignedTo = &assignedTo.String
	}
	if workspaceID.Valid {
		task.WorkspaceID = &workspaceID.String
	}
	if createdBy.Valid {
		task.CreatedBy = &createdBy.String
	}
	task.DueDate = fromNullTime(dueDate)
	task.CompletedAt = fromNullTime(completedAt)

	task.Metadata, err = unmarshalMap(metadata)
	if err != nil {
		return nil, err
	}
	return task, nil
}
