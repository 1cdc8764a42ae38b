package logging

import (
	"context"

	"github.com/you/booklib/domain"
)

// AuditLogger writes audit events as structured log lines.
type AuditLogger struct {
	log Logger
}

func NewAuditLogger(log Logger) *AuditLogger {
	return &AuditLogger{log: log.With("component", "audit")}
}

func (a *AuditLogger) LogEvent(ctx context.Context, event *domain.AuditEvent) {
	args := []any{
		"event_type", string(event.EventType),
		"success", event.Success,
		"timestamp", event.Timestamp,
	}
	if event.UserID != "" {
		args = append(args, "user_id", event.UserID)
	}
	if event.Username != "" {
		args = append(args, "username", event.Username)
	}
	if event.Email != "" {
		args = append(args, "email", event.Email)
	}
	if event.ErrorMsg != "" {
		args = append(args, "error", event.ErrorMsg)
	}
	for k, v := range event.Metadata {
		args = append(args, k, v)
	}

	if event.Success {
		a.log.Info(ctx, string(event.EventType), args...)
		return
	}
	a.log.Warn(ctx, string(event.EventType), args...)
}

var _ domain.AuditLogger = (*AuditLogger)(nil)
