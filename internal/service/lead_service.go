package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/yourorg/genwork/internal/domain"
	"github.com/yourorg/genwork/internal/events"
	"github.com/yourorg/genwork/internal/notify"
	"github.com/yourorg/genwork/internal/observability/metrics"
	"github.com/yourorg/genwork/internal/validate"
)

// LeadService handles demo and access request submissions: validation,
// the duplicate guard, persistence and the best-effort notification fan-out
type LeadService struct {
	demoRepo   domain.DemoRequestRepository
	accessRepo domain.AccessRequestRepository
	dispatcher *notify.Dispatcher
	hub        *events.Hub
	logger     *slog.Logger
}

// NewLeadService creates a new lead service
func NewLeadService(
	demoRepo domain.DemoRequestRepository,
	accessRepo domain.AccessRequestRepository,
	dispatcher *notify.Dispatcher,
	hub *events.Hub,
	logger *slog.Logger,
) *LeadService {
	if logger == nil {
		logger = slog.Default()
	}

	return &LeadService{
		demoRepo:   demoRepo,
		accessRepo: accessRepo,
		dispatcher: dispatcher,
		hub:        hub,
		logger:     logger,
	}
}

// SubmitDemoRequest validates and persists a new demo request.
// A second submission for the same email while one is open yields a ConflictError.
func (s *LeadService) SubmitDemoRequest(ctx context.Context, req *domain.DemoRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if errs := validate.DemoRequest(req); len(errs) > 0 {
		return errs
	}

	// Duplicate guard: read-then-insert; the partial unique index in the store
	// backstops the race between concurrent submissions.
	_, err := s.demoRepo.FindOpenByEmail(ctx, req.Email)
	switch {
	case err == nil:
		metrics.ObserveLeadSubmission("demo_request", "duplicate")
		return domain.NewConflict("You already have a pending demo request. We will contact you soon.")
	case !errors.Is(err, domain.ErrNotFound):
		return err
	}

	req.Status = domain.DemoStatusPending
	if err := s.demoRepo.Create(ctx, req); err != nil {
		if domain.IsConflict(err) {
			metrics.ObserveLeadSubmission("demo_request", "duplicate")
		} else {
			metrics.ObserveLeadSubmission("demo_request", "error")
		}
		return err
	}

	metrics.ObserveLeadSubmission("demo_request", "created")
	s.logger.Info("new demo request",
		slog.String("id", req.ID),
		slog.String("email", req.Email),
		slog.String("company", req.Company),
	)

	s.dispatcher.DemoRequestCreated(req)
	s.hub.Publish(events.LeadEvent{
		Kind:      "demo_request",
		ID:        req.ID,
		Email:     req.Email,
		Company:   req.Company,
		CreatedAt: req.CreatedAt,
	})
	return nil
}

// SubmitAccessRequest validates and persists a new access request
func (s *LeadService) SubmitAccessRequest(ctx context.Context, req *domain.AccessRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if errs := validate.AccessRequest(req); len(errs) > 0 {
		return errs
	}

	_, err := s.accessRepo.FindOpenByEmail(ctx, req.Email)
	switch {
	case err == nil:
		metrics.ObserveLeadSubmission("access_request", "duplicate")
		return domain.NewConflict("You already have a pending access request. We will contact you soon.")
	case !errors.Is(err, domain.ErrNotFound):
		return err
	}

	req.Status = domain.AccessStatusPending
	if err := s.accessRepo.Create(ctx, req); err != nil {
		if domain.IsConflict(err) {
			metrics.ObserveLeadSubmission("access_request", "duplicate")
		} else {
			metrics.ObserveLeadSubmission("access_request", "error")
		}
		return err
	}

	metrics.ObserveLeadSubmission("access_request", "created")
	s.logger.Info("new access request",
		slog.String("id", req.ID),
		slog.String("email", req.Email),
		slog.String("company", req.Company),
	)

	s.dispatcher.AccessRequestCreated(req)
	s.hub.Publish(events.LeadEvent{
		Kind:      "access_request",
		ID:        req.ID,
		Email:     req.Email,
		Company:   req.Company,
		CreatedAt: req.CreatedAt,
	})
	return nil
}

// UpdateDemoRequestStatus validates the target status and applies it
func (s *LeadService) UpdateDemoRequestStatus(ctx context.Context, id, status string) (*domain.DemoRequest, error) {
	if errs := validate.DemoRequestStatus(status); len(errs) > 0 {
		return nil, errs
	}

	req, err := s.demoRepo.UpdateStatus(ctx, id, domain.DemoRequestStatus(status))
	if err != nil {
		return nil, err
	}

	s.logger.Info("demo request status updated",
		slog.String("id", id),
		slog.String("status", status),
	)
	return req, nil
}

// UpdateAccessRequestStatus validates the target status and applies it
func (s *LeadService) UpdateAccessRequestStatus(ctx context.Context, id, status string) (*domain.AccessRequest, error) {
	if errs := validate.AccessRequestStatus(status); len(errs) > 0 {
		return nil, errs
	}

	req, err := s.accessRepo.UpdateStatus(ctx, id, domain.AccessRequestStatus(status))
	if err != nil {
		return nil, err
	}

	s.logger.Info("access request status updated",
		slog.String("id", id),
		slog.String("status", status),
	)
	return req, nil
}

// ListDemoRequests returns a page of demo requests, optionally filtered by status.
// A non-empty filter outside the enum is rejected before hitting the store.
func (s *LeadService) ListDemoRequests(ctx context.Context, status string, page, limit int) ([]*domain.DemoRequest, int, error) {
	if status != "" {
		if errs := validate.DemoRequestStatus(status); len(errs) > 0 {
			return nil, 0, errs
		}
	}
	return s.demoRepo.List(ctx, domain.DemoRequestStatus(status), page, limit)
}

// ListAccessRequests returns a page of access requests, optionally filtered by status
func (s *LeadService) ListAccessRequests(ctx context.Context, status string, page, limit int) ([]*domain.AccessRequest, int, error) {
	if status != "" {
		if errs := validate.AccessRequestStatus(status); len(errs) > 0 {
			return nil, 0, errs
		}
	}
	return s.accessRepo.List(ctx, domain.AccessRequestStatus(status), page, limit)
}
