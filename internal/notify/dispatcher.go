package notify

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/yourorg/genwork/internal/domain"
	"github.com/yourorg/genwork/internal/observability/metrics"
)

// Dispatcher fires best-effort notification emails after a lead is created.
// Sends run detached from the request lifecycle: failures are logged, never
// surfaced, and the HTTP response is already decided when they happen.
type Dispatcher struct {
	mailer     Mailer // nil when SMTP credentials are not configured
	adminEmail string
	logger     *slog.Logger
	wg         sync.WaitGroup
}

// NewDispatcher creates a dispatcher; a nil mailer disables sending entirely
func NewDispatcher(mailer Mailer, adminEmail string, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	if mailer == nil {
		logger.Warn("email credentials not configured, notification emails will not be sent")
	}

	return &Dispatcher{
		mailer:     mailer,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

// DemoRequestCreated dispatches the admin notice and requester confirmation
// for a new demo request
func (d *Dispatcher) DemoRequestCreated(req *domain.DemoRequest) {
	d.dispatch(
		send{
			kind:    "demo_admin_notice",
			to:      d.adminEmail,
			subject: fmt.Sprintf("New Demo Request from %s", req.Company),
			body: fmt.Sprintf(
				`<h2>New Demo Request</h2>
<p><strong>Name:</strong> %s %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Company:</strong> %s</p>
<p><strong>Job Title:</strong> %s</p>
<p><strong>Department:</strong> %s</p>
<p><strong>Needs:</strong></p>
<p>%s</p>
<hr>
<p><small>Received at: %s</small></p>`,
				req.FirstName, req.LastName, req.Email, req.Company,
				req.JobTitle, req.Department, req.Needs,
				time.Now().Format(time.RFC1123),
			),
		},
		send{
			kind:    "demo_confirmation",
			to:      req.Email,
			subject: "Your gen.work Demo Request Received",
			body: fmt.Sprintf(
				`<h2>Thank You for Your Interest in gen.work!</h2>
<p>Hi %s,</p>
<p>We've received your demo request and will reach out within 1-2 business days to schedule a personalized demo.</p>
<p>Best regards,<br>The gen.work Team</p>`,
				req.FirstName,
			),
		},
	)
}

// AccessRequestCreated dispatches the admin notice and requester confirmation
// for a new access request
func (d *Dispatcher) AccessRequestCreated(req *domain.AccessRequest) {
	d.dispatch(
		send{
			kind:    "access_admin_notice",
			to:      d.adminEmail,
			subject: fmt.Sprintf("New Access Request from %s", req.Company),
			body: fmt.Sprintf(
				`<h2>New Access Request</h2>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Company:</strong> %s</p>
<p><strong>Company Size:</strong> %s</p>
<p><strong>Primary Use Case:</strong></p>
<p>%s</p>
<hr>
<p><small>Received at: %s</small></p>`,
				req.FullName, req.Email, req.Company,
				req.CompanySize, req.PrimaryUseCase,
				time.Now().Format(time.RFC1123),
			),
		},
		send{
			kind:    "access_confirmation",
			to:      req.Email,
			subject: "Your gen.work Access Request Received",
			body: fmt.Sprintf(
				`<h2>Thank You for Your Interest in gen.work!</h2>
<p>Hi %s,</p>
<p>We've received your access request and will review it carefully. We typically respond within 1-2 business days with next steps.</p>
<p>Best regards,<br>The gen.work Team</p>`,
				req.FullName,
			),
		},
	)
}

// Wait blocks until all in-flight sends have settled. Used on shutdown and in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

type send struct {
	kind    string
	to      string
	subject string
	body    string
}

// dispatch fires both sends concurrently in a detached goroutine and waits for
// both to settle before the post-creation work is considered done
func (d *Dispatcher) dispatch(sends ...send) {
	if d.mailer == nil {
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		var inner sync.WaitGroup
		for _, s := range sends {
			inner.Add(1)
			go func(s send) {
				defer inner.Done()
				if err := d.mailer.Send(s.to, s.subject, s.body); err != nil {
					metrics.ObserveEmail(s.kind, "error")
					d.logger.Error("failed to send notification email",
						slog.String("kind", s.kind),
						slog.String("to", s.to),
						slog.String("error", err.Error()),
					)
					return
				}
				metrics.ObserveEmail(s.kind, "sent")
				d.logger.Info("notification email sent",
					slog.String("kind", s.kind),
					slog.String("to", s.to),
				)
			}(s)
		}
		inner.Wait()
	}()
}
