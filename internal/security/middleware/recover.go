package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// RecoverMiddleware converts panics into logged 500 responses. The panic
// detail is only exposed outside production.
func RecoverMiddleware(log *slog.Logger, development bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic recovered",
						slog.Any("panic", rec),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())),
					)

					message := "Internal server error"
					if development {
						if err, ok := rec.(error); ok {
							message = err.Error()
						}
					}

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]any{
						"success": false,
						"message": message,
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
