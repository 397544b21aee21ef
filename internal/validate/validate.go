package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yourorg/genwork/internal/domain"
)

// FieldError is a single per-field validation failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects per-field failures for one submission
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// Email reports whether s looks like a valid email address
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// Departments a demo request may name
var Departments = []string{
	"IT Operations", "HR", "Procurement", "Legal", "Travel", "Finance", "Multiple Departments",
}

// CompanySizes an access request may name
var CompanySizes = []string{
	"1-50 employees", "51-200 employees", "201-500 employees", "501-1000 employees", "1000+ employees",
}

// PrimaryUseCases an access request may name
var PrimaryUseCases = []string{
	"IT Operations", "HR Management", "Procurement", "Legal Operations", "Travel Management", "Finance", "Other",
}

func inSet(value string, set []string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}

// DemoRequest validates a demo request submission
func DemoRequest(r *domain.DemoRequest) ValidationErrors {
	var errs ValidationErrors
	errs = required(errs, "firstName", r.FirstName, "First name is required")
	errs = maxLen(errs, "firstName", r.FirstName, 50)
	errs = required(errs, "lastName", r.LastName, "Last name is required")
	errs = maxLen(errs, "lastName", r.LastName, 50)
	errs = email(errs, r.Email)
	errs = required(errs, "company", r.Company, "Company is required")
	errs = maxLen(errs, "company", r.Company, 100)
	errs = maxLen(errs, "jobTitle", r.JobTitle, 100)
	if r.Department != "" && !inSet(r.Department, Departments) {
		errs = append(errs, FieldError{Field: "department", Message: "Department must be one of the allowed values"})
	}
	errs = maxLen(errs, "needs", r.Needs, 1000)
	errs = maxLen(errs, "notes", r.Notes, 2000)
	return errs
}

// AccessRequest validates an access request submission
func AccessRequest(r *domain.AccessRequest) ValidationErrors {
	var errs ValidationErrors
	errs = required(errs, "fullName", r.FullName, "Full name is required")
	errs = maxLen(errs, "fullName", r.FullName, 100)
	errs = email(errs, r.Email)
	errs = required(errs, "company", r.Company, "Company is required")
	errs = maxLen(errs, "company", r.Company, 100)
	if r.CompanySize != "" && !inSet(r.CompanySize, CompanySizes) {
		errs = append(errs, FieldError{Field: "companySize", Message: "Company size must be one of the allowed values"})
	}
	if r.PrimaryUseCase != "" && !inSet(r.PrimaryUseCase, PrimaryUseCases) {
		errs = append(errs, FieldError{Field: "primaryUseCase", Message: "Primary use case must be one of the allowed values"})
	}
	errs = maxLen(errs, "notes", r.Notes, 2000)
	return errs
}

// DemoRequestStatus validates an admin status update for a demo request
func DemoRequestStatus(status string) ValidationErrors {
	if !domain.DemoRequestStatus(status).Valid() {
		return ValidationErrors{{Field: "status", Message: "Invalid status value"}}
	}
	return nil
}

// AccessRequestStatus validates an admin status update for an access request
func AccessRequestStatus(status string) ValidationErrors {
	if !domain.AccessRequestStatus(status).Valid() {
		return ValidationErrors{{Field: "status", Message: "Invalid status value"}}
	}
	return nil
}

// Task validates a task creation payload
func Task(t *domain.Task) ValidationErrors {
	var errs ValidationErrors
	errs = required(errs, "title", t.Title, "Title is required")
	return errs
}

// Workspace validates a workspace creation payload
func Workspace(ws *domain.Workspace) ValidationErrors {
	var errs ValidationErrors
	errs = required(errs, "name", ws.Name, "Name is required")
	errs = required(errs, "owner_id", ws.OwnerID, "owner_id is required")
	return errs
}

// Credentials validates a login/register payload
func Credentials(emailAddr, password string) ValidationErrors {
	var errs ValidationErrors
	if emailAddr == "" || password == "" {
		errs = append(errs, FieldError{Field: "email", Message: "Email and password are required"})
		return errs
	}
	if !Email(emailAddr) {
		errs = append(errs, FieldError{Field: "email", Message: "Please provide a valid email address"})
	}
	return errs
}

func required(errs ValidationErrors, field, value, message string) ValidationErrors {
	if strings.TrimSpace(value) == "" {
		return append(errs, FieldError{Field: field, Message: message})
	}
	return errs
}

func maxLen(errs ValidationErrors, field, value string, limit int) ValidationErrors {
	if len(value) > limit {
		return append(errs, FieldError{
			Field:   field,
			Message: fmt.Sprintf("%s cannot be longer than %d characters", field, limit),
		})
	}
	return errs
}

func email(errs ValidationErrors, value string) ValidationErrors {
	if strings.TrimSpace(value) == "" {
		return append(errs, FieldError{Field: "email", Message: "Email is required"})
	}
	if !Email(value) {
		return append(errs, FieldError{Field: "email", Message: "Please provide a valid email address"})
	}
	return errs
}
