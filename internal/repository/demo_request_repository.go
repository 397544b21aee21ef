package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/yourorg/genwork/internal/domain"
)

// PostgresDemoRequestRepository implements domain.DemoRequestRepository using PostgreSQL
type PostgresDemoRequestRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresDemoRequestRepository creates a new demo request repository
func NewPostgresDemoRequestRepository(db *sql.DB, logger *slog.Logger) *PostgresDemoRequestRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDemoRequestRepository{
		db:     db,
		logger: logger,
	}
}

const demoRequestColumns = `id, first_name, last_name, email, company, job_title, department, needs, status, scheduled_date, notes, created_at, updated_at`

// Create inserts a new demo request with status pending
func (r *PostgresDemoRequestRepository) Create(ctx context.Context, req *domain.DemoRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Status == "" {
		req.Status = domain.DemoStatusPending
	}

	query := `
		INSERT INTO demo_requests (id, first_name, last_name, email, company, job_title, department, needs, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		req.ID,
		req.FirstName,
		req.LastName,
		req.Email,
		req.Company,
		nullString(req.JobTitle),
		nullString(req.Department),
		nullString(req.Needs),
		req.Status,
	).Scan(&req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			// Partial unique index on email for open statuses backstops the
			// duplicate guard against concurrent submissions.
			return domain.NewConflict("You already have a pending demo request. We will contact you soon.")
		}
		r.logger.Error("failed to create demo request",
			slog.String("email", req.Email),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create demo request: %w", err)
	}

	return nil
}

// FindOpenByEmail returns a demo request for email in an open status, or ErrNotFound
func (r *PostgresDemoRequestRepository) FindOpenByEmail(ctx context.Context, email string) (*domain.DemoRequest, error) {
	statuses := make([]string, len(domain.OpenDemoStatuses))
	for i, s := range domain.OpenDemoStatuses {
		statuses[i] = string(s)
	}

	query := `
		SELECT ` + demoRequestColumns + `
		FROM demo_requests
		WHERE email = $1 AND status = ANY($2)
		LIMIT 1
	`

	req, err := scanDemoRequest(r.db.QueryRowContext(ctx, query, email, pq.Array(statuses)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("failed to find open demo request",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to find open demo request: %w", err)
	}

	return req, nil
}

// List returns a page of demo requests, newest first, optionally filtered by status
func (r *PostgresDemoRequestRepository) List(ctx context.Context, status domain.DemoRequestStatus, page, limit int) ([]*domain.DemoRequest, int, error) {
	_, limit, offset := pageWindow(page, limit)

	countQuery := `SELECT COUNT(*) FROM demo_requests`
	listQuery := `SELECT ` + demoRequestColumns + ` FROM demo_requests`
	var args []any
	if status != "" {
		countQuery += ` WHERE status = $1`
		listQuery += ` WHERE status = $1`
		args = append(args, string(status))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error("failed to count demo requests", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to count demo requests: %w", err)
	}

	listQuery += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		r.logger.Error("failed to list demo requests", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to list demo requests: %w", err)
	}
	defer rows.Close()

	var requests []*domain.DemoRequest
	for rows.Next() {
		req, err := scanDemoRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan demo request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, total, rows.Err()
}

// GetByID retrieves a demo request by ID
func (r *PostgresDemoRequestRepository) GetByID(ctx context.Context, id string) (*domain.DemoRequest, error) {
	query := `SELECT ` + demoRequestColumns + ` FROM demo_requests WHERE id = $1`

	req, err := scanDemoRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("failed to get demo request",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to get demo request: %w", err)
	}

	return req, nil
}

// UpdateStatus sets the status of a demo request and stamps updated_at
func (r *PostgresDemoRequestRepository) UpdateStatus(ctx context.Context, id string, status domain.DemoRequestStatus) (*domain.DemoRequest, error) {
	query := `
		UPDATE demo_requests
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + demoRequestColumns

	req, err := scanDemoRequest(r.db.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			// Reopening a closed request while another open one exists for
			// the same email trips the partial unique index.
			return nil, domain.NewConflict("Another open demo request already exists for this email.")
		}
		r.logger.Error("failed to update demo request",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to update demo request: %w", err)
	}

	return req, nil
}

// Delete removes a demo request
func (r *PostgresDemoRequestRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM demo_requests WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("failed to delete demo request",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to delete demo request: %w", err)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDemoRequest(row rowScanner) (*domain.DemoRequest, error) {
	req := &domain.DemoRequest{}
	var jobTitle, department, needs, notes sql.NullString
	var scheduledDate sql.NullTime

	err := row.Scan(
		&req.ID,
		&req.FirstName,
		&req.LastName,
		&req.Email,
		&req.Company,
		&jobTitle,
		&department,
		&needs,
		&req.Status,
		&scheduledDate,
		&notes,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	req.JobTitle = fromNullString(jobTitle)
	req.Department = fromNullString(department)
	req.Needs = fromNullString(needs)
	req.Notes = fromNullString(notes)
	req.ScheduledDate = fromNullTime(scheduledDate)
	return req, nil
}
