package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/yourorg/genwork/internal/domain"
)

func TestWorkspaceCreateDerivesSlug(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewPostgresWorkspaceRepository(db, nil)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO workspaces`)).
		WithArgs(sqlmock.AnyArg(), "Acme Corp!", "acme-corp", sqlmock.AnyArg(), "owner-1", []byte(`{}`)).
		WillReturnRows(sqlmock.NewRows([]string{"is_active", "created_at", "updated_at"}).AddRow(true, now, now))

	ws := &domain.Workspace{Name: "Acme Corp!", OwnerID: "owner-1"}
	if err := repo.Create(context.Background(), ws); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if ws.Slug != "acme-corp" {
		t.Fatalf("expected derived slug, got %q", ws.Slug)
	}
	if !ws.IsActive {
		t.Fatalf("expected active workspace")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestWorkspaceCreateSlugConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewPostgresWorkspaceRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO workspaces`)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "workspaces_slug_key"})

	ws := &domain.Workspace{Name: "Acme", Slug: "acme", OwnerID: "owner-1"}
	if err := repo.Create(context.Background(), ws); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAddMemberDefaultsRoleAndConflicts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewPostgresWorkspaceRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO workspace_members`)).
		WithArgs(sqlmock.AnyArg(), "ws-1", "user-1", "member").
		WillReturnRows(sqlmock.NewRows([]string{"joined_at"}).AddRow(time.Now()))

	m := &domain.WorkspaceMember{WorkspaceID: "ws-1", UserID: "user-1"}
	if err := repo.AddMember(context.Background(), m); err != nil {
		t.Fatalf("add member failed: %v", err)
	}
	if m.Role != "member" {
		t.Fatalf("expected default role, got %q", m.Role)
	}

	// The same pair again hits the unique constraint
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO workspace_members`)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "workspace_members_workspace_id_user_id_key"})

	dup := &domain.WorkspaceMember{WorkspaceID: "ws-1", UserID: "user-1"}
	err = repo.AddMember(context.Background(), dup)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err.Error() != "User is already a member of this workspace" {
		t.Fatalf("unexpected conflict message: %q", err.Error())
	}
}

func TestUserCreateEmailConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewPostgresUserRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	user := &domain.User{Email: "jane@example.com", PasswordHash: "hash", Role: "user", IsActive: true}
	err = repo.Create(context.Background(), user)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err.Error() != "User already exists with this email" {
		t.Fatalf("unexpected conflict message: %q", err.Error())
	}
}
