package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Domain event names consumed by the external notification dispatcher.
const (
	RelationshipGranted       = "relationship.granted"
	RelationshipRevoked       = "relationship.revoked"
	InvitationCreated         = "invitation.created"
	InvitationRedeemed        = "invitation.redeemed"
	PlacementRequestFulfilled = "placement_request.fulfilled"
	ResponseAccepted          = "response.accepted"
	HandoverCompleted         = "handover.completed"
	HandoverDisputed          = "handover.disputed"
)

type Event struct {
	Name       string            `json:"name"`
	Actor      uuid.UUID         `json:"actor"`
	OccurredAt time.Time         `json:"occurred_at"`
	Fields     map[string]string `json:"fields,omitempty"`
}

// Publisher hands events to the notification dispatcher. Delivery and retry
// are the dispatcher's concern; publishing must never fail a domain
// transaction.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}

// Recorder captures published events in memory. Test helper.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.events))
	for _, event := range r.events {
		names = append(names, event.Name)
	}
	return names
}
