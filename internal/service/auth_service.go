package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yourorg/genwork/internal/domain"
	"github.com/yourorg/genwork/internal/observability/metrics"
	"github.com/yourorg/genwork/internal/security/auth"
	"github.com/yourorg/genwork/internal/validate"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the cost factor used for all stored password hashes
const bcryptCost = 10

// Auth failures that map to 401 at the HTTP boundary
var (
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrAccountDeactivated = errors.New("Account has been deactivated")
	ErrInvalidToken       = errors.New("Invalid token")
)

// AuthService handles login, registration and token verification
type AuthService struct {
	userRepo domain.UserRepository
	tokens   *auth.TokenManager
	logger   *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo domain.UserRepository, tokens *auth.TokenManager, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// AuthResult is the outcome of a successful login or registration
type AuthResult struct {
	Token string
	User  *domain.User
}

// RegisterInput carries a registration payload
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// Login authenticates a user and issues a bearer token
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if errs := validate.Credentials(email, password); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.ObserveAuthAttempt("login", "invalid_credentials")
			s.logger.Warn("failed login attempt", slog.String("email", email))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.ObserveAuthAttempt("login", "invalid_credentials")
		s.logger.Warn("invalid password", slog.String("email", email))
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		metrics.ObserveAuthAttempt("login", "deactivated")
		return nil, ErrAccountDeactivated
	}

	// Best-effort: a failed stamp must not block the login
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Error("failed to stamp last login",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	metrics.ObserveAuthAttempt("login", "success")
	s.logger.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
		slog.String("role", user.Role),
	)

	return &AuthResult{Token: token, User: user}, nil
}

// Register creates a new user account and issues a token.
// An existing account with the same email yields a ConflictError.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if errs := validate.Credentials(input.Email, input.Password); len(errs) > 0 {
		return nil, errs
	}

	email := strings.ToLower(input.Email)

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		metrics.ObserveAuthAttempt("register", "duplicate")
		return nil, domain.NewConflict("User already exists with this email")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	role := input.Role
	if role == "" {
		role = "user"
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         role,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if domain.IsConflict(err) {
			metrics.ObserveAuthAttempt("register", "duplicate")
		}
		return nil, err
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	metrics.ObserveAuthAttempt("register", "success")
	s.logger.Info("new user registered", slog.String("email", user.Email))

	return &AuthResult{Token: token, User: user}, nil
}

// Verify validates a bearer token and re-fetches the current user.
// Tokens for deleted or deactivated users are rejected.
func (s *AuthService) Verify(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		metrics.ObserveAuthAttempt("verify", "invalid_token")
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.ObserveAuthAttempt("verify", "unknown_user")
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if !user.IsActive {
		metrics.ObserveAuthAttempt("verify", "deactivated")
		return nil, ErrInvalidToken
	}

	metrics.ObserveAuthAttempt("verify", "success")
	return user, nil
}
