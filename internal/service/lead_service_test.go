package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/yourorg/genwork/internal/domain"
	"github.com/yourorg/genwork/internal/events"
	"github.com/yourorg/genwork/internal/notify"
)

type memDemoRepo struct {
	byID map[string]*domain.DemoRequest
	seq  int
}

func newMemDemoRepo() *memDemoRepo {
	return &memDemoRepo{byID: map[string]*domain.DemoRequest{}}
}

func (m *memDemoRepo) Create(_ context.Context, req *domain.DemoRequest) error {
	m.seq++
	req.ID = "demo-" + string(rune('0'+m.seq))
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	m.byID[req.ID] = req
	return nil
}

func (m *memDemoRepo) FindOpenByEmail(_ context.Context, email string) (*domain.DemoRequest, error) {
	for _, req := range m.byID {
		if req.Email != email {
			continue
		}
		for _, s := range domain.OpenDemoStatuses {
			if req.Status == s {
				return req, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memDemoRepo) List(_ context.Context, status domain.DemoRequestStatus, page, limit int) ([]*domain.DemoRequest, int, error) {
	var out []*domain.DemoRequest
	for _, req := range m.byID {
		if status == "" || req.Status == status {
			out = append(out, req)
		}
	}
	return out, len(out), nil
}

func (m *memDemoRepo) GetByID(_ context.Context, id string) (*domain.DemoRequest, error) {
	if req, ok := m.byID[id]; ok {
		return req, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memDemoRepo) UpdateStatus(_ context.Context, id string, status domain.DemoRequestStatus) (*domain.DemoRequest, error) {
	req, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	req.Status = status
	req.UpdatedAt = time.Now()
	return req, nil
}

func (m *memDemoRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memAccessRepo struct {
	byID map[string]*domain.AccessRequest
	seq  int
}

func newMemAccessRepo() *memAccessRepo {
	return &memAccessRepo{byID: map[string]*domain.AccessRequest{}}
}

func (m *memAccessRepo) Create(_ context.Context, req *domain.AccessRequest) error {
	m.seq++
	req.ID = "access-" + string(rune('0'+m.seq))
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	m.byID[req.ID] = req
	return nil
}

func (m *memAccessRepo) FindOpenByEmail(_ context.Context, email string) (*domain.AccessRequest, error) {
	for _, req := range m.byID {
		if req.Email != email {
			continue
		}
		for _, s := range domain.OpenAccessStatuses {
			if req.Status == s {
				return req, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memAccessRepo) List(_ context.Context, status domain.AccessRequestStatus, page, limit int) ([]*domain.AccessRequest, int, error) {
	var out []*domain.AccessRequest
	for _, req := range m.byID {
		if status == "" || req.Status == status {
			out = append(out, req)
		}
	}
	return out, len(out), nil
}

func (m *memAccessRepo) GetByID(_ context.Context, id string) (*domain.AccessRequest, error) {
	if req, ok := m.byID[id]; ok {
		return req, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memAccessRepo) UpdateStatus(_ context.Context, id string, status domain.AccessRequestStatus) (*domain.AccessRequest, error) {
	req, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	req.Status = status
	req.UpdatedAt = time.Now()
	return req, nil
}

func (m *memAccessRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

// recordingMailer captures sends for assertions; safe for the dispatcher's
// concurrent goroutines
type recordingMailer struct {
	mu   sync.Mutex
	mail []sentMail
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mail = append(m.mail, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *recordingMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentMail, len(m.mail))
	copy(out, m.mail)
	return out
}

func newTestLeadService(mailer notify.Mailer) (*LeadService, *memDemoRepo, *memAccessRepo, *notify.Dispatcher) {
	demoRepo := newMemDemoRepo()
	accessRepo := newMemAccessRepo()
	dispatcher := notify.NewDispatcher(mailer, "admin@gen.work", nil)
	hub := events.NewHub(nil)
	return NewLeadService(demoRepo, accessRepo, dispatcher, hub, nil), demoRepo, accessRepo, dispatcher
}

func TestSubmitDemoRequest(t *testing.T) {
	mailer := &recordingMailer{}
	svc, repo, _, dispatcher := newTestLeadService(mailer)

	req := &domain.DemoRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "Jane@Example.COM",
		Company:   "Acme",
	}
	if err := svc.SubmitDemoRequest(context.Background(), req); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if req.ID == "" {
		t.Fatalf("expected an id to be assigned")
	}
	if req.Email != "jane@example.com" {
		t.Fatalf("expected email lowercased, got %q", req.Email)
	}
	if req.Status != domain.DemoStatusPending {
		t.Fatalf("expected pending status, got %q", req.Status)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected one stored request")
	}

	// Both the admin notice and the confirmation go out
	dispatcher.Wait()
	sent := mailer.Sent()
	if len(sent) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(sent))
	}
	recipients := map[string]bool{}
	for _, s := range sent {
		recipients[s.To] = true
	}
	if !recipients["admin@gen.work"] || !recipients["jane@example.com"] {
		t.Fatalf("unexpected recipients: %v", recipients)
	}
}

func TestSubmitDemoRequestDuplicate(t *testing.T) {
	mailer := &recordingMailer{}
	svc, _, _, dispatcher := newTestLeadService(mailer)

	first := &domain.DemoRequest{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Company: "Acme"}
	if err := svc.SubmitDemoRequest(context.Background(), first); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	dispatcher.Wait()

	dup := &domain.DemoRequest{FirstName: "Jane", LastName: "Doe", Email: "JANE@example.com", Company: "Acme"}
	err := svc.SubmitDemoRequest(context.Background(), dup)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	// No notification for the rejected duplicate
	dispatcher.Wait()
	if got := len(mailer.Sent()); got != 2 {
		t.Fatalf("expected 2 emails total, got %d", got)
	}
}

func TestSubmitDemoRequestAfterCompletion(t *testing.T) {
	svc, repo, _, dispatcher := newTestLeadService(nil)
	defer dispatcher.Wait()

	first := &domain.DemoRequest{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Company: "Acme"}
	if err := svc.SubmitDemoRequest(context.Background(), first); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if _, err := svc.UpdateDemoRequestStatus(context.Background(), first.ID, "completed"); err != nil {
		t.Fatalf("status update failed: %v", err)
	}

	// A closed request no longer blocks resubmission
	second := &domain.DemoRequest{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Company: "Acme"}
	if err := svc.SubmitDemoRequest(context.Background(), second); err != nil {
		t.Fatalf("resubmit after completion failed: %v", err)
	}
	if len(repo.byID) != 2 {
		t.Fatalf("expected 2 stored requests, got %d", len(repo.byID))
	}
}

func TestSubmitDemoRequestValidation(t *testing.T) {
	svc, repo, _, _ := newTestLeadService(nil)

	err := svc.SubmitDemoRequest(context.Background(), &domain.DemoRequest{Email: "bad"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if domain.IsConflict(err) || errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("invalid request must not be stored")
	}
}

func TestSubmitAccessRequestDuplicate(t *testing.T) {
	svc, _, _, dispatcher := newTestLeadService(nil)
	defer dispatcher.Wait()

	first := &domain.AccessRequest{FullName: "Jane Doe", Email: "jane@example.com", Company: "Acme"}
	if err := svc.SubmitAccessRequest(context.Background(), first); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	dup := &domain.AccessRequest{FullName: "Jane Doe", Email: "jane@example.com", Company: "Acme"}
	if err := svc.SubmitAccessRequest(context.Background(), dup); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	svc, repo, _, _ := newTestLeadService(nil)

	req := &domain.DemoRequest{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Company: "Acme"}
	if err := svc.SubmitDemoRequest(context.Background(), req); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if _, err := svc.UpdateDemoRequestStatus(context.Background(), req.ID, "archived"); err == nil {
		t.Fatalf("expected enum rejection")
	}
	if repo.byID[req.ID].Status != domain.DemoStatusPending {
		t.Fatalf("stored status must be untouched after rejection")
	}
}

func TestListRejectsUnknownStatusFilter(t *testing.T) {
	svc, _, _, _ := newTestLeadService(nil)

	if _, _, err := svc.ListDemoRequests(context.Background(), "bogus", 1, 50); err == nil {
		t.Fatalf("expected filter rejection")
	}
	if _, _, err := svc.ListDemoRequests(context.Background(), "", 1, 50); err != nil {
		t.Fatalf("empty filter must pass: %v", err)
	}
}
