package events

import (
	"context"
	"strconv"

	"github.com/gocomet/carpool/pkg/database"
	"github.com/gocomet/carpool/pkg/websocket"
)

// Broadcaster is the part of the WebSocket hub the HubSink needs
type Broadcaster interface {
	Broadcast(audience websocket.Audience, message websocket.Message) int
}

// HubSink pushes each event once to every client that follows the ride, is
// the affected participant, or is a dashboard.
type HubSink struct {
	hub Broadcaster
}

// NewHubSink creates a sink on top of the WebSocket hub
func NewHubSink(hub Broadcaster) *HubSink {
	return &HubSink{hub: hub}
}

// Name implements Sink
func (s *HubSink) Name() string { return "websocket" }

// Deliver implements Sink
func (s *HubSink) Deliver(_ context.Context, event Event) error {
	audience := websocket.Audience{
		Alias:      event.ParticipantAlias,
		ClientType: websocket.ClientDashboard,
	}
	if event.RideID != 0 {
		audience.RideID = strconv.Itoa(event.RideID)
	}
	s.hub.Broadcast(audience, websocket.Message{Type: string(event.Type), Data: event})
	return nil
}

// ChannelPublisher is the part of the Redis publisher the RedisSink needs
type ChannelPublisher interface {
	Publish(ctx context.Context, payload interface{}) error
	SetRideStatus(ctx context.Context, rideID int, status string) error
}

// RedisSink publishes events on a Redis channel and refreshes the cached
// ride status.
type RedisSink struct {
	publisher ChannelPublisher
}

// NewRedisSink creates a Redis-backed sink
func NewRedisSink(publisher ChannelPublisher) *RedisSink {
	return &RedisSink{publisher: publisher}
}

// Name implements Sink
func (s *RedisSink) Name() string { return "redis" }

// Deliver implements Sink
func (s *RedisSink) Deliver(ctx context.Context, event Event) error {
	if err := s.publisher.Publish(ctx, event); err != nil {
		return err
	}
	if event.RideID != 0 && event.RideStatus != "" {
		return s.publisher.SetRideStatus(ctx, event.RideID, event.RideStatus)
	}
	return nil
}

// AuditAppender is the part of the Postgres audit log the AuditSink needs
type AuditAppender interface {
	Append(ctx context.Context, rec database.AuditRecord) error
}

// AuditSink appends every event to the audit trail
type AuditSink struct {
	log AuditAppender
}

// NewAuditSink creates an audit sink
func NewAuditSink(log AuditAppender) *AuditSink {
	return &AuditSink{log: log}
}

// Name implements Sink
func (s *AuditSink) Name() string { return "audit" }

// Deliver implements Sink
func (s *AuditSink) Deliver(ctx context.Context, event Event) error {
	return s.log.Append(ctx, database.AuditRecord{
		EventID:             event.ID.String(),
		EventType:           string(event.Type),
		RideID:              event.RideID,
		DriverAlias:         event.DriverAlias,
		ParticipantAlias:    event.ParticipantAlias,
		RideStatus:          event.RideStatus,
		ParticipationStatus: event.ParticipationStatus,
		OccurredAt:          event.OccurredAt,
	})
}

// APMRecorder is the part of the New Relic wrapper the APMSink needs
type APMRecorder interface {
	RecordRideEvent(eventType string, rideID int, driver, participant string)
	RecordRemainingSpaces(remaining int)
}

// APMSink records events as New Relic custom events
type APMSink struct {
	apm APMRecorder
}

// NewAPMSink creates an APM sink
func NewAPMSink(apm APMRecorder) *APMSink {
	return &APMSink{apm: apm}
}

// Name implements Sink
func (s *APMSink) Name() string { return "newrelic" }

// Deliver implements Sink
func (s *APMSink) Deliver(_ context.Context, event Event) error {
	s.apm.RecordRideEvent(string(event.Type), event.RideID, event.DriverAlias, event.ParticipantAlias)
	if event.RemainingSpaces != nil {
		s.apm.RecordRemainingSpaces(*event.RemainingSpaces)
	}
	return nil
}
