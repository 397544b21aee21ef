package validate

import (
	"strings"
	"testing"

	"github.com/yourorg/genwork/internal/domain"
)

func TestEmail(t *testing.T) {
	valid := []string{"a@b.co", "john.doe@example.com", "user-name@sub.domain.org"}
	for _, e := range valid {
		if !Email(e) {
			t.Fatalf("expected %q to be valid", e)
		}
	}

	invalid := []string{"", "plain", "@nodomain.com", "user@", "user@domain", "user @domain.com"}
	for _, e := range invalid {
		if Email(e) {
			t.Fatalf("expected %q to be invalid", e)
		}
	}
}

func TestDemoRequestValidation(t *testing.T) {
	req := &domain.DemoRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Company:   "Acme",
	}
	if errs := DemoRequest(req); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	empty := &domain.DemoRequest{}
	errs := DemoRequest(empty)
	if len(errs) != 4 {
		t.Fatalf("expected 4 errors for empty request, got %d: %v", len(errs), errs)
	}

	req.Department = "Marketing"
	errs = DemoRequest(req)
	if len(errs) != 1 || errs[0].Field != "department" {
		t.Fatalf("expected department enum rejection, got %v", errs)
	}

	req.Department = "IT Operations"
	req.Needs = strings.Repeat("x", 1001)
	errs = DemoRequest(req)
	if len(errs) != 1 || errs[0].Field != "needs" {
		t.Fatalf("expected needs length rejection, got %v", errs)
	}
}

func TestAccessRequestValidation(t *testing.T) {
	req := &domain.AccessRequest{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Company:  "Acme",
	}
	if errs := AccessRequest(req); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	req.CompanySize = "huge"
	req.PrimaryUseCase = "Other"
	errs := AccessRequest(req)
	if len(errs) != 1 || errs[0].Field != "companySize" {
		t.Fatalf("expected companySize rejection, got %v", errs)
	}
}

func TestStatusValidation(t *testing.T) {
	if errs := DemoRequestStatus("contacted"); len(errs) != 0 {
		t.Fatalf("expected contacted to pass, got %v", errs)
	}
	if errs := DemoRequestStatus("bogus"); len(errs) == 0 {
		t.Fatalf("expected bogus to fail")
	}
	if errs := AccessRequestStatus("approved"); len(errs) != 0 {
		t.Fatalf("expected approved to pass, got %v", errs)
	}
	// Statuses do not cross entity enums
	if errs := AccessRequestStatus("scheduled"); len(errs) == 0 {
		t.Fatalf("expected scheduled to fail for access requests")
	}
}

func TestCredentialsValidation(t *testing.T) {
	if errs := Credentials("a@b.com", "pass"); len(errs) != 0 {
		t.Fatalf("expected valid credentials, got %v", errs)
	}
	if errs := Credentials("", "pass"); len(errs) == 0 {
		t.Fatalf("expected missing email error")
	}
	if errs := Credentials("not-an-email", "pass"); len(errs) == 0 {
		t.Fatalf("expected bad email error")
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "a", Message: "A is required"},
		{Field: "b", Message: "B is required"},
	}
	if got := errs.Error(); got != "A is required; B is required" {
		t.Fatalf("unexpected message: %q", got)
	}
}
