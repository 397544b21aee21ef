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

// PostgresAccessRequestRepository implements domain.AccessRequestRepository using PostgreSQL
type PostgresAccessRequestRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresAccessRequestRepository creates a new access request repository
func NewPostgresAccessRequestRepository(db *sql.DB, logger *slog.Logger) *PostgresAccessRequestRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAccessRequestRepository{
		db:     db,
		logger: logger,
	}
}

const accessRequestColumns = `id, full_name, email, company, company_size, primary_use_case, status, notes, created_at, updated_at`

// Create inserts a new access request with status pending
func (r *PostgresAccessRequestRepository) Create(ctx context.Context, req *domain.AccessRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Status == "" {
		req.Status = domain.AccessStatusPending
	}

	query := `
		INSERT INTO access_requests (id, full_name, email, company, company_size, primary_use_case, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		req.ID,
		req.FullName,
		req.Email,
		req.Company,
		nullString(req.CompanySize),
		nullString(req.PrimaryUseCase),
		req.Status,
	).Scan(&req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflict("You already have a pending access request. We will contact you soon.")
		}
		r.logger.Error("failed to create access request",
			slog.String("email", req.Email),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create access request: %w", err)
	}

	return nil
}

// FindOpenByEmail returns an access request for email in an open status, or ErrNotFound
func (r *PostgresAccessRequestRepository) FindOpenByEmail(ctx context.Context, email string) (*domain.AccessRequest, error) {
	statuses := make([]string, len(domain.OpenAccessStatuses))
	for i, s := range domain.OpenAccessStatuses {
		statuses[i] = string(s)
	}

	query := `
		SELECT ` + accessRequestColumns + `
		FROM access_requests
		WHERE email = $1 AND status = ANY($2)
		LIMIT 1
	`

	req, err := scanAccessRequest(r.db.QueryRowContext(ctx, query, email, pq.Array(statuses)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("failed to find open access request",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to find open access request: %w", err)
	}

	return req, nil
}

// List returns a page of access requests, newest first, optionally filtered by status
func (r *PostgresAccessRequestRepository) List(ctx context.Context, status domain.AccessRequestStatus, page, limit int) ([]*domain.AccessRequest, int, error) {
	_, limit, offset := pageWindow(page, limit)

	countQuery := `SELECT COUNT(*) FROM access_requests`
	listQuery := `SELECT ` + accessRequestColumns + ` FROM access_requests`
	var args []any
	if status != "" {
		countQuery += ` WHERE status = $1`
		listQuery += ` WHERE status = $1`
		args = append(args, string(status))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error("failed to count access requests", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to count access requests: %w", err)
	}

	listQuery += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		r.logger.Error("failed to list access requests", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to list access requests: %w", err)
	}
	defer rows.Close()

	var requests []*domain.AccessRequest
	for rows.Next() {
		req, err := scanAccessRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan access request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, total, rows.Err()
}

// GetByID retrieves an access request by ID
func (r *PostgresAccessRequestRepository) GetByID(ctx context.Context, id string) (*domain.AccessRequest, error) {
	query := `SELECT ` + accessRequestColumns + ` FROM access_requests WHERE id = $1`

	req, err := scanAccessRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("failed to get access request",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to get access request: %w", err)
	}

	return req, nil
}

// UpdateStatus sets the status of an access request and stamps updated_at
func (r *PostgresAccessRequestRepository) UpdateStatus(ctx context.Context, id string, status domain.AccessRequestStatus) (*domain.AccessRequest, error) {
	query := `
		UPDATE access_requests
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + accessRequestColumns

	req, err := scanAccessRequest(r.db.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.NewConflict("Another open access request already exists for this email.")
		}
		r.logger.Error("failed to update access request",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to update access request: %w", err)
	}

	return req, nil
}

// Delete removes an access request
func (r *PostgresAccessRequestRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM access_requests WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("failed to delete access request",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to delete access request: %w", err)
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

func scanAccessRequest(row rowScanner) (*domain.AccessRequest, error) {
	req := &domain.AccessRequest{}
	var companySize, primaryUseCase, notes sql.NullString

	err := row.Scan(
		&req.ID,
		&req.FullName,
		&req.Email,
		&req.Company,
		&companySize,
		&primaryUseCase,
		&req.Status,
		&notes,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	req.CompanySize = fromNullString(companySize)
	req.PrimaryUseCase = fromNullString(primaryUseCase)
	req.Notes = fromNullString(notes)
	return req, nil
}
