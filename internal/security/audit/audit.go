package audit

import (
	"context"
	"log/slog"
)

// Logger records admin actions against lead and workspace resources
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates an audit logger
func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger}
}

// LogAction records one admin action. userID is empty for anonymous requests.
func (al *Logger) LogAction(ctx context.Context, userID, action, resource, resourceID string) {
	al.logger.InfoContext(ctx, "audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("user_id", userID),
	)
}
