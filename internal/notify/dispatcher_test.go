package notify

import (
	"errors"
	"sync"
	"testing"

	"github.com/yourorg/genwork/internal/domain"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []string // recipients in send order
	fail bool
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp down")
	}
	m.sent = append(m.sent, to)
	return nil
}

func (m *fakeMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent))
	copy(out, m.sent)
	return out
}

func TestDemoRequestCreatedSendsBoth(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(mailer, "admin@gen.work", nil)

	d.DemoRequestCreated(&domain.DemoRequest{
		FirstName: "Jane", LastName: "Doe",
		Email: "jane@example.com", Company: "Acme",
	})
	d.Wait()

	got := map[string]bool{}
	for _, to := range mailer.recipients() {
		got[to] = true
	}
	if !got["admin@gen.work"] || !got["jane@example.com"] {
		t.Fatalf("expected admin notice and confirmation, got %v", mailer.recipients())
	}
}

func TestAccessRequestCreatedSendsBoth(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(mailer, "admin@gen.work", nil)

	d.AccessRequestCreated(&domain.AccessRequest{
		FullName: "Jane Doe", Email: "jane@example.com", Company: "Acme",
	})
	d.Wait()

	if len(mailer.recipients()) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(mailer.recipients()))
	}
}

func TestDispatcherNilMailerSkips(t *testing.T) {
	d := NewDispatcher(nil, "admin@gen.work", nil)

	// Must not panic or block
	d.DemoRequestCreated(&domain.DemoRequest{Email: "jane@example.com"})
	d.Wait()
}

func TestDispatcherSendFailureDoesNotPropagate(t *testing.T) {
	mailer := &fakeMailer{fail: true}
	d := NewDispatcher(mailer, "admin@gen.work", nil)

	// Failures are logged, never surfaced
	d.DemoRequestCreated(&domain.DemoRequest{Email: "jane@example.com"})
	d.Wait()
}
