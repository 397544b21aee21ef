package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yourorg/genwork/internal/domain"
	"github.com/yourorg/genwork/internal/security/auth"
)

type memUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	seq     int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]*domain.User{}, byEmail: map[string]*domain.User{}}
}

func (m *memUserRepo) Create(_ context.Context, u *domain.User) error {
	if _, exists := m.byEmail[u.Email]; exists {
		return domain.NewConflict("User already exists with this email")
	}
	m.seq++
	u.ID = "user-" + string(rune('0'+m.seq))
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := m.byEmail[strings.ToLower(email)]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) List(_ context.Context, page, limit int) ([]*domain.User, int, error) {
	var out []*domain.User
	for _, u := range m.byID {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (m *memUserRepo) Update(_ context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
	u.UpdatedAt = time.Now()
	return u, nil
}

func (m *memUserRepo) UpdateLastLogin(_ context.Context, id string) error {
	u, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now()
	u.LastLogin = &now
	return nil
}

func (m *memUserRepo) Deactivate(_ context.Context, id string) error {
	u, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.IsActive = false
	return nil
}

func newTestAuthService() (*AuthService, *memUserRepo) {
	repo := newMemUserRepo()
	tokens := auth.NewTokenManager("test-secret", "genwork")
	return NewAuthService(repo, tokens, nil), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{
		Email:     "Alice@Example.com",
		Password:  "Password123",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if reg.Token == "" || reg.User.ID == "" {
		t.Fatalf("expected token and user id")
	}
	if reg.User.Email != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %q", reg.User.Email)
	}
	if reg.User.Role != "user" {
		t.Fatalf("expected default role user, got %q", reg.User.Role)
	}
	if reg.User.PasswordHash == "Password123" {
		t.Fatalf("password must not be stored in plaintext")
	}

	// Duplicate email, case-insensitive
	if _, err := svc.Register(ctx, RegisterInput{Email: "ALICE@example.com", Password: "Other123"}); !domain.IsConflict(err) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}

	lr, err := svc.Login(ctx, "alice@example.com", "Password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if lr.Token == "" {
		t.Fatalf("expected token on login")
	}
	if lr.User.LastLogin == nil {
		t.Fatalf("expected last login stamp")
	}

	if _, err := svc.Login(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "Password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	svc, repo := newTestAuthService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{Email: "bob@example.com", Password: "Password123"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := repo.Deactivate(ctx, reg.User.ID); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	if _, err := svc.Login(ctx, "bob@example.com", "Password123"); !errors.Is(err, ErrAccountDeactivated) {
		t.Fatalf("expected deactivated error, got %v", err)
	}
}

func TestVerify(t *testing.T) {
	svc, repo := newTestAuthService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{Email: "carol@example.com", Password: "Password123", Role: "admin"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, err := svc.Verify(ctx, reg.Token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if user.ID != reg.User.ID || user.Role != "admin" {
		t.Fatalf("unexpected verified user: %+v", user)
	}

	// Tampered token
	if _, err := svc.Verify(ctx, reg.Token+"x"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}

	// Token signed with a different secret
	other := auth.NewTokenManager("other-secret", "genwork")
	foreign, err := other.GenerateToken(reg.User.ID, reg.User.Email, reg.User.Role)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := svc.Verify(ctx, foreign); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for foreign signature, got %v", err)
	}

	// Deactivated users fail verification even with a valid token
	if err := repo.Deactivate(ctx, reg.User.ID); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if _, err := svc.Verify(ctx, reg.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for deactivated user, got %v", err)
	}
}
