package domain

import (
	"context"
	"strings"
	"time"
)

// Workspace groups tasks and members under a shared slug
type Workspace struct {
	ID          string
	Name        string
	Slug        string // unique, derived from name when not supplied
	Description string
	OwnerID     string
	Settings    map[string]any
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WorkspaceUpdate carries a partial update; nil fields are left untouched
type WorkspaceUpdate struct {
	Name        *string
	Description *string
	Slug        *string
	Settings    map[string]any
	IsActive    *bool
}

// WorkspaceMember links a user to a workspace with a role.
// The (workspace, user) pair is unique.
type WorkspaceMember struct {
	ID          string
	WorkspaceID string
	UserID      string
	Role        string // defaults to member
	JoinedAt    time.Time
}

// WorkspaceRepository defines data access for workspaces and their members
type WorkspaceRepository interface {
	// Create inserts the workspace; duplicate slug yields a ConflictError
	Create(ctx context.Context, ws *Workspace) error
	List(ctx context.Context, page, limit int) ([]*Workspace, int, error)
	GetByID(ctx context.Context, id string) (*Workspace, error)
	Update(ctx context.Context, id string, upd WorkspaceUpdate) (*Workspace, error)
	Delete(ctx context.Context, id string) error

	// AddMember inserts the member; duplicate (workspace, user) yields a ConflictError
	AddMember(ctx context.Context, m *WorkspaceMember) error
	ListMembers(ctx context.Context, workspaceID string) ([]*WorkspaceMember, error)
	UpdateMemberRole(ctx context.Context, memberID, role string) (*WorkspaceMember, error)
	RemoveMember(ctx context.Context, memberID string) error
}

// Slugify derives a workspace slug from its name: lowercase, runs of
// non-alphanumerics collapse to a single hyphen, no leading/trailing hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
