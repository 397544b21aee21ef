package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/genwork/internal/domain"
	"github.com/yourorg/genwork/internal/security/auth"
	"github.com/yourorg/genwork/internal/service"
)

// UserView is the user projection returned by auth and user endpoints.
// The password hash never leaves the repository layer.
type UserView struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func userView(u *domain.User) UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}

// AuthHandler serves login, registration and token verification
type AuthHandler struct {
	authService *service.AuthService
	responder   *Responder
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, responder *Responder, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{authService: authService, responder: responder, logger: logger}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.responder.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.authService.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.OK(w, http.StatusOK, "Login successful", map[string]any{
		"token": result.Token,
		"user":  userView(result.User),
	})
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Role      string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.responder.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.authService.Register(r.Context(), service.RegisterInput{
		Email:     payload.Email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Role:      payload.Role,
	})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.OK(w, http.StatusCreated, "User registered successfully", map[string]any{
		"token": result.Token,
		"user":  userView(result.User),
	})
}

// Verify handles GET /api/auth/verify
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	tokenString, err := auth.ExtractToken(r.Header.Get("Authorization"))
	if err != nil {
		h.responder.Fail(w, http.StatusUnauthorized, "No token provided", nil)
		return
	}

	user, err := h.authService.Verify(r.Context(), tokenString)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.OK(w, http.StatusOK, "", map[string]any{"user": userView(user)})
}
