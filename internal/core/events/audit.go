package events

import (
	"context"
	"log/slog"
)

// AuditTypes are the events written to the audit log.
var AuditTypes = []string{
	EventTypeUserStatusToggled,
	EventTypeUserPasswordChanged,
	EventTypeCompanyDeleted,
}

// RegisterAuditLog subscribes an audit writer for every type in AuditTypes.
func RegisterAuditLog(bus *EventBus, logger *slog.Logger) {
	audit := logger.With("component", "audit")
	for _, eventType := range AuditTypes {
		bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
			audit.InfoContext(ctx, "audit",
				"event_type", event.EventType(),
				"event_id", event.EventID(),
				"occurred_at", event.OccurredAt(),
				"payload", event.Payload(),
			)
			return nil
		})
	}
}
