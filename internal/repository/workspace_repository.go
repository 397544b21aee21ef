package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/yourorg/genwork/internal/domain"
)

// PostgresWorkspaceRepository implements domain.WorkspaceRepository using PostgreSQL
type PostgresWorkspaceRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresWorkspaceRepository creates a new workspace repository
func NewPostgresWorkspaceRepository(db *sql.DB, logger *slog.Logger) *PostgresWorkspaceRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresWorkspaceRepository{
		db:     db,
		logger: logger,
	}
}

const workspaceColumns = `id, name, slug, description, owner_id, settings, is_active, created_at, updated_at`
const memberColumns = `id, workspace_id, user_id, role, joined_at`

// Create inserts a new workspace; duplicate slug yields a ConflictError
func (r *PostgresWorkspaceRepository) Create(ctx context.Context, ws *domain.Workspace) error {
	if ws.ID == "" {
		ws.ID = uuid.NewString()
	}
	if ws.Slug == "" {
		ws.Slug = domain.Slugify(ws.Name)
	}

	settings, err := marshalMap(ws.Settings)
	if err != nil {
		return fmt.Errorf("failed to marshal workspace settings: %w", err)
	}

	query := `
		INSERT INTO workspaces (id, name, slug, description, owner_id, settings, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, true)
		RETURNING is_active, created_at, updated_at
	`

	err = r.db.QueryRowContext(ctx, query,
		ws.ID,
		ws.Name,
		ws.Slug,
		nullString(ws.Description),
		ws.OwnerID,
		settings,
	).Scan(&ws.IsActive, &ws.CreatedAt, &ws.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflict("A workspace with this slug already exists")
		}
		r.logger.Error("failed to create workspace",
			slog.String("name", ws.Name),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create workspace: %w", err)
	}

	return nil
}

// List returns a page of workspaces, newest first
func (r *PostgresWorkspaceRepository) List(ctx context.Context, page, limit int) ([]*domain.Workspace, int, error) {
	_, limit, offset := pageWindow(page, limit)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM workspaces`).Scan(&total); err != nil {
		r.logger.Error("failed to count workspaces", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to count workspaces: %w", err)
	}

	query := `SELECT ` + workspaceColumns + ` FROM workspaces ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("failed to list workspaces", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []*domain.Workspace
	for rows.Next() {
		ws, err := scanWorkspace(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan workspace: %w", err)
		}
		workspaces = append(workspaces, ws)
	}

	return workspaces, total, rows.Err()
}

// GetByID retrieves a workspace by ID
func (r *PostgresWorkspaceRepository) GetByID(ctx context.Context, id string) (*domain.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces WHERE id = $1`

	ws, err := scanWorkspace(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("failed to get workspace",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	return ws, nil
}

// Update applies a partial update and stamps updated_at
func (r *PostgresWorkspaceRepository) Update(ctx context.Context, id string, upd domain.WorkspaceUpdate) (*domain.Workspace, error) {
	sets := []string{"updated_at = NOW()"}
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Description != nil {
		add("description", nullString(*upd.Description))
	}
	if upd.Slug != nil {
		add("slug", *upd.Slug)
	}
	if upd.Settings != nil {
		settings, err := marshalMap(upd.Settings)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal workspace settings: %w", err)
		}
		add("settings", settings)
	}
	if upd.IsActive != nil {
		add("is_active", *upd.IsActive)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE workspaces SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), workspaceColumns,
	)

	ws, err := scanWorkspace(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.NewConflict("A workspace with this slug already exists")
		}
		r.logger.Error("failed to update workspace",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to update workspace: %w", err)
	}

	return ws, nil
}

// Delete removes a workspace
func (r *PostgresWorkspaceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM workspaces WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("failed to delete workspace",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to delete workspace: %w", err)
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

// AddMember inserts a member; a duplicate (workspace, user) pair yields a ConflictError
func (r *PostgresWorkspaceRepository) AddMember(ctx context.Context, m *domain.WorkspaceMember) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Role == "" {
		m.Role = "member"
	}

	query := `
		INSERT INTO workspace_members (id, workspace_id, user_id, role)
		VALUES ($1, $2, $3, $4)
		RETURNING joined_at
	`

	err := r.db.QueryRowContext(ctx, query, m.ID, m.WorkspaceID, m.UserID, m.Role).Scan(&m.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflict("User is already a member of this workspace")
		}
		r.logger.Error("failed to add workspace member",
			slog.String("workspace_id", m.WorkspaceID),
			slog.String("user_id", m.UserID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to add workspace member: %w", err)
	}

	return nil
}

// ListMembers returns all members of a workspace
func (r *PostgresWorkspaceRepository) ListMembers(ctx context.Context, workspaceID string) ([]*domain.WorkspaceMember, error) {
	query := `SELECT ` + memberColumns + ` FROM workspace_members WHERE workspace_id = $1 ORDER BY joined_at`

	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		r.logger.Error("failed to list workspace members",
			slog.String("workspace_id", workspaceID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to list workspace members: %w", err)
	}
	defer rows.Close()

	var members []*domain.WorkspaceMember
	for rows.Next() {
		m := &domain.WorkspaceMember{}
		if err := rows.Scan(&m.ID, &m.WorkspaceID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan workspace member: %w", err)
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

// UpdateMemberRole changes a member's role
func (r *PostgresWorkspaceRepository) UpdateMemberRole(ctx context.Context, memberID, role string) (*domain.WorkspaceMember, error) {
	query := `
		UPDATE workspace_members
		SET role = $1
		WHERE id = $2
		RETURNING ` + memberColumns

	m := &domain.WorkspaceMember{}
	err := r.db.QueryRowContext(ctx, query, role, memberID).Scan(&m.ID, &m.WorkspaceID, &m.UserID, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("failed to update workspace member",
			slog.String("member_id", memberID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to update workspace member: %w", err)
	}

	return m, nil
}

// RemoveMember deletes a member row
func (r *PostgresWorkspaceRepository) RemoveMember(ctx context.Context, memberID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM workspace_members WHERE id = $1`, memberID)
	if err != nil {
		r.logger.Error("failed to remove workspace member",
			slog.String("member_id", memberID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to remove workspace member: %w", err)
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

func scanWorkspace(row rowScanner) (*domain.Workspace, error) {
	ws := &domain.Workspace{}
	var description sql.NullString
	var settings []byte

	err := row.Scan(
		&ws.ID,
		&ws.Name,
		&ws.Slug,
		&description,
		&ws.OwnerID,
		&settings,
		&ws.IsActive,
		&ws.CreatedAt,
		&ws.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	ws.Description = fromNullString(description)
	ws.Settings, err = unmarshalMap(settings)
	if err != nil {
		return nil, err
	}
	return ws, nil
}
