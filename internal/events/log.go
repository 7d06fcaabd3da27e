package events

import (
	"context"

	"pet-custody-go/pkg/logger"
)

// LogPublisher writes events to the application log. Used when no broker is
// configured.
type LogPublisher struct {
	log logger.Logger
}

func NewLogPublisher(log logger.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) {
	args := []any{"event", event.Name, "actor", event.Actor.String(), "occurred_at", event.OccurredAt}
	for key, value := range event.Fields {
		args = append(args, key, value)
	}
	p.log.Info("events: published", args...)
}
