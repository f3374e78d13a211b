package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type names a ride lifecycle event
type Type string

const (
	TypeUserRegistered         Type = "user.registered"
	TypeRideCreated            Type = "ride.created"
	TypeParticipationRequested Type = "participation.requested"
	TypeParticipationAccepted  Type = "participation.accepted"
	TypeParticipationRejected  Type = "participation.rejected"
	TypeRideStarted            Type = "ride.started"
	TypeRideEnded              Type = "ride.ended"
	TypeParticipantUnloaded    Type = "participation.unloaded"
)

// Event describes a committed state change. Aliases and statuses are
// plain strings so sinks do not depend on domain packages.
type Event struct {
	ID                  uuid.UUID `json:"id"`
	Type                Type      `json:"type"`
	RideID              int       `json:"ride_id,omitempty"`
	DriverAlias         string    `json:"driver,omitempty"`
	ParticipantAlias    string    `json:"participant,omitempty"`
	RideStatus          string    `json:"ride_status,omitempty"`
	ParticipationStatus string    `json:"participation_status,omitempty"`
	RemainingSpaces     *int      `json:"remaining_spaces,omitempty"`
	OccurredAt          time.Time `json:"occurred_at"`
}

// New stamps an event with a fresh id and the current time
func New(t Type) Event {
	return Event{
		ID:         uuid.New(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher accepts committed events
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Sink delivers events to one destination
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event Event) error
}

// Nop drops every event
type Nop struct{}

// Publish implements Publisher
func (Nop) Publish(context.Context, Event) {}
