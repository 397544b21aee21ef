package domain

import (
	"context"
	"time"
)

// DemoRequestStatus is the lifecycle status of a demo request
type DemoRequestStatus string

const (
	DemoStatusPending   DemoRequestStatus = "pending"
	DemoStatusContacted DemoRequestStatus = "contacted"
	DemoStatusScheduled DemoRequestStatus = "scheduled"
	DemoStatusCompleted DemoRequestStatus = "completed"
	DemoStatusCancelled DemoRequestStatus = "cancelled"
)

// Valid reports whether s is a member of the demo request status enum
func (s DemoRequestStatus) Valid() bool {
	switch s {
	case DemoStatusPending, DemoStatusContacted, DemoStatusScheduled, DemoStatusCompleted, DemoStatusCancelled:
		return true
	}
	return false
}

// OpenDemoStatuses are the statuses that block a new submission for the same email
var OpenDemoStatuses = []DemoRequestStatus{DemoStatusPending, DemoStatusContacted, DemoStatusScheduled}

// AccessRequestStatus is the lifecycle status of an access request
type AccessRequestStatus string

const (
	AccessStatusPending   AccessRequestStatus = "pending"
	AccessStatusApproved  AccessRequestStatus = "approved"
	AccessStatusContacted AccessRequestStatus = "contacted"
	AccessStatusRejected  AccessRequestStatus = "rejected"
)

// Valid reports whether s is a member of the access request status enum
func (s AccessRequestStatus) Valid() bool {
	switch s {
	case AccessStatusPending, AccessStatusApproved, AccessStatusContacted, AccessStatusRejected:
		return true
	}
	return false
}

// OpenAccessStatuses are the statuses that block a new submission for the same email
var OpenAccessStatuses = []AccessRequestStatus{AccessStatusPending, AccessStatusApproved, AccessStatusContacted}

// DemoRequest is a demo booking submitted through the marketing site
type DemoRequest struct {
	ID            string
	FirstName     string
	LastName      string
	Email         string // stored lowercased
	Company       string
	JobTitle      string
	Department    string
	Needs         string
	Status        DemoRequestStatus
	ScheduledDate *time.Time
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AccessRequest is an early-access signup submitted through the marketing site
type AccessRequest struct {
	ID             string
	FullName       string
	Email          string // stored lowercased
	Company        string
	CompanySize    string
	PrimaryUseCase string
	Status         AccessRequestStatus
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DemoRequestRepository defines data access for demo requests
type DemoRequestRepository interface {
	Create(ctx context.Context, req *DemoRequest) error
	// FindOpenByEmail returns a request for email in an open status, or ErrNotFound
	FindOpenByEmail(ctx context.Context, email string) (*DemoRequest, error)
	List(ctx context.Context, status DemoRequestStatus, page, limit int) ([]*DemoRequest, int, error)
	GetByID(ctx context.Context, id string) (*DemoRequest, error)
	UpdateStatus(ctx context.Context, id string, status DemoRequestStatus) (*DemoRequest, error)
	Delete(ctx context.Context, id string) error
}

// AccessRequestRepository defines data access for access requests
type AccessRequestRepository interface {
	Create(ctx context.Context, req *AccessRequest) error
	FindOpenByEmail(ctx context.Context, email string) (*AccessRequest, error)
	List(ctx context.Context, status AccessRequestStatus, page, limit int) ([]*AccessRequest, int, error)
	GetByID(ctx context.Context, id string) (*AccessRequest, error)
	UpdateStatus(ctx context.Context, id string, status AccessRequestStatus) (*AccessRequest, error)
	Delete(ctx context.Context, id string) error
}
