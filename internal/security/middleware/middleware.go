package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/yourorg/genwork/internal/security/audit"
	"github.com/yourorg/genwork/internal/security/auth"
	"github.com/yourorg/genwork/internal/security/ratelimit"
)

type ClaimsContextKey struct{}

// JWTMiddleware attaches validated claims to the request context when a
// bearer token is present. It never rejects: apart from the verify endpoint,
// routes in this service do not enforce authentication.
func JWTMiddleware(tm *auth.TokenManager, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, err := auth.ExtractToken(authHeader)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				log.Debug("ignoring invalid bearer token", slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimitMiddleware rejects clients that exceed the per-IP request budget
func RateLimitMiddleware(limiter ratelimit.Allower, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" || r.URL.Path == "/metrics" ||
				strings.HasPrefix(r.URL.Path, "/ws/") {
				next.ServeHTTP(w, r)
				return
			}

			ip := ClientIP(r)
			if !limiter.Allow(r.Context(), ip) {
				log.Warn("rate limit exceeded",
					slog.String("ip", ip),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"message": "Too many requests from this IP, please try again later.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AuditMiddleware records mutating admin actions with the acting user, if known
func AuditMiddleware(auditLog *audit.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/") &&
				!strings.HasPrefix(r.URL.Path, "/api/auth/") {
				userID := ""
				if claims := GetClaimsFromContext(r.Context()); claims != nil {
					userID = claims.UserID
				}
				resource, resourceID := splitResourcePath(r.URL.Path)
				auditLog.LogAction(r.Context(), userID, strings.ToLower(r.Method), resource, resourceID)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetClaimsFromContext returns token claims attached by JWTMiddleware, or nil
func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	if c := ctx.Value(ClaimsContextKey{}); c != nil {
		return c.(*auth.Claims)
	}
	return nil
}

// ClientIP extracts the originating client IP, honoring X-Forwarded-For
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// splitResourcePath maps /api/demo-requests/abc to ("demo-requests", "abc").
// It runs before mux routing, so path values are not available yet.
func splitResourcePath(path string) (string, string) {
	parts := strings.Split(strings.TrimPrefix(path, "/api/"), "/")
	switch len(parts) {
	case 0:
		return path, ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], parts[1]
	}
}
