// Package coordination is the entry point request layers use. It owns the
// user registry, the ride store and the participation engine, serializes
// every mutation behind one lock, and emits an event after each commit.
package coordination

import (
	"context"
	"sync"

	"github.com/gocomet/carpool/internal/domain/ride"
	"github.com/gocomet/carpool/internal/domain/user"
	"github.com/gocomet/carpool/internal/events"
	"github.com/gocomet/carpool/internal/service/participation"
	"github.com/gocomet/carpool/pkg/logger"
)

// RideSummary is a ride snapshot plus its computed free seats
type RideSummary struct {
	Ride            *ride.Ride
	RemainingSpaces int
}

// ParticipantDetail pairs a participation with its participant's snapshot
type ParticipantDetail struct {
	Participation ride.Participation
	Participant   *user.User
}

// RideDetail is the full view of one ride
type RideDetail struct {
	RideSummary
	Participants []ParticipantDetail
}

// Service coordinates users, rides and participations.
//
// A single lock covers everything: capacity checks are read-compare-write
// on a ride, and counters of one user can change from several rides.
type Service struct {
	mu        sync.RWMutex
	users     user.Repository
	rides     ride.Repository
	engine    *participation.Engine
	publisher events.Publisher
	logger    *logger.Logger
}

// NewService wires the service around explicitly owned stores
func NewService(users user.Repository, rides ride.Repository, publisher events.Publisher, log *logger.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		users:     users,
		rides:     rides,
		engine:    participation.NewEngine(users, log),
		publisher: publisher,
		logger:    log.Named("coordination"),
	}
}

// NewInMemory builds a service over fresh in-memory stores
func NewInMemory(publisher events.Publisher, log *logger.Logger) *Service {
	users := user.NewRegistry()
	return NewService(users, ride.NewStore(users), publisher, log)
}

// RegisterUser creates a user with zeroed counters
func (s *Service) RegisterUser(ctx context.Context, alias, name, carPlate string) (string, error) {
	s.mu.Lock()
	alias, err := s.users.Register(ctx, alias, name, carPlate)
	s.mu.Unlock()
	if err != nil {
		return "", err
	}

	s.logger.Info("User registered", logger.Alias(alias))

	ev := events.New(events.TypeUserRegistered)
	ev.ParticipantAlias = alias
	s.publisher.Publish(ctx, ev)
	return alias, nil
}

// ListUsers returns user snapshots in registration order
func (s *Service) ListUsers(ctx context.Context) []*user.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := s.users.List(ctx)
	out := make([]*user.User, len(users))
	for i, u := range users {
		out[i] = u.Clone()
	}
	return out
}

// GetUser returns a snapshot of one user
func (s *Service) GetUser(ctx context.Context, alias string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, err := s.users.Lookup(ctx, alias)
	if err != nil {
		return nil, err
	}
	return u.Clone(), nil
}

// CreateRide stores a new ride for params.DriverAlias and returns its id
func (s *Service) CreateRide(ctx context.Context, params ride.CreateParams) (int, error) {
	s.mu.Lock()
	r, err := s.rides.Create(ctx, params)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	ev := rideEvent(events.TypeRideCreated, r)
	s.mu.Unlock()

	s.logger.Info("Ride created",
		logger.RideID(r.ID),
		logger.Alias(params.DriverAlias),
		logger.Int("allowed_spaces", r.AllowedSpaces),
	)
	s.publisher.Publish(ctx, ev)
	return ev.RideID, nil
}

// ListRides returns snapshots of the rides driven by driverAlias
func (s *Service) ListRides(ctx context.Context, driverAlias string) ([]RideSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.users.Lookup(ctx, driverAlias); err != nil {
		return nil, err
	}
	rides := s.rides.ListByDriver(ctx, driverAlias)
	out := make([]RideSummary, len(rides))
	for i, r := range rides {
		out[i] = summarize(r)
	}
	return out, nil
}

// GetRide returns the full detail of one of driverAlias's rides
func (s *Service) GetRide(ctx context.Context, driverAlias string, rideID int) (*RideDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, err := s.rides.FindByDriverAndID(ctx, driverAlias, rideID)
	if err != nil {
		return nil, err
	}

	detail := &RideDetail{
		RideSummary:  summarize(r),
		Participants: make([]ParticipantDetail, 0, len(r.Participants)),
	}
	for _, p := range r.Participants {
		u, err := s.users.Lookup(ctx, p.ParticipantAlias)
		if err != nil {
			return nil, err
		}
		detail.Participants = append(detail.Participants, ParticipantDetail{
			Participation: *p,
			Participant:   u.Clone(),
		})
	}
	return detail, nil
}

// RequestToJoin files participantAlias's request on a driver's ride
func (s *Service) RequestToJoin(ctx context.Context, driverAlias string, rideID int, participantAlias, destination string, occupiedSpaces int) (ride.Participation, error) {
	return s.participationOp(ctx, driverAlias, rideID, events.TypeParticipationRequested,
		func(r *ride.Ride) (*ride.Participation, error) {
			return s.engine.RequestToJoin(ctx, r, participantAlias, destination, occupiedSpaces)
		})
}

// CheckJoin reports the first error RequestToJoin would return before it
// looks at destination or seat count. Nothing is mutated.
func (s *Service) CheckJoin(ctx context.Context, driverAlias string, rideID int, participantAlias string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, err := s.rides.FindByDriverAndID(ctx, driverAlias, rideID)
	if err != nil {
		return err
	}
	return s.engine.CanJoin(ctx, r, participantAlias)
}

// Accept confirms participantAlias on a driver's ride
func (s *Service) Accept(ctx context.Context, driverAlias string, rideID int, participantAlias string) (ride.Participation, error) {
	return s.participationOp(ctx, driverAlias, rideID, events.TypeParticipationAccepted,
		func(r *ride.Ride) (*ride.Participation, error) {
			return s.engine.Accept(ctx, r, participantAlias)
		})
}

// Reject declines participantAlias on a driver's ride
func (s *Service) Reject(ctx context.Context, driverAlias string, rideID int, participantAlias string) (ride.Participation, error) {
	return s.participationOp(ctx, driverAlias, rideID, events.TypeParticipationRejected,
		func(r *ride.Ride) (*ride.Participation, error) {
			return s.engine.Reject(ctx, r, participantAlias)
		})
}

// StartRide moves a driver's ride to inprogress
func (s *Service) StartRide(ctx context.Context, driverAlias string, rideID int) error {
	s.mu.Lock()
	r, err := s.rides.FindByDriverAndID(ctx, driverAlias, rideID)
	if err == nil {
		err = s.engine.Start(ctx, r)
	}
	if err != nil {
		s.mu.Unlock()
		return err
	}
	ev := rideEvent(events.TypeRideStarted, r)
	s.mu.Unlock()

	s.publisher.Publish(ctx, ev)
	return nil
}

// EndRide closes a driver's ride and reconciles participant counters
func (s *Service) EndRide(ctx context.Context, driverAlias string, rideID int) ([]participation.Reconciliation, error) {
	s.mu.Lock()
	r, err := s.rides.FindByDriverAndID(ctx, driverAlias, rideID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	result, err := s.engine.End(ctx, r)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	ev := rideEvent(events.TypeRideEnded, r)
	s.mu.Unlock()

	s.publisher.Publish(ctx, ev)
	return result, nil
}

// UnloadParticipant lets participantAlias leave ride rideID early. The ride
// is found by id alone, whoever drives it.
func (s *Service) UnloadParticipant(ctx context.Context, participantAlias string, rideID int) (ride.Participation, error) {
	s.mu.Lock()
	r, err := s.rides.FindByID(ctx, rideID)
	if err != nil {
		s.mu.Unlock()
		return ride.Participation{}, err
	}
	p, err := s.engine.Unload(ctx, r, participantAlias)
	if err != nil {
		s.mu.Unlock()
		return ride.Participation{}, err
	}
	snapshot := *p
	ev := participationEvent(events.TypeParticipantUnloaded, r, p)
	s.mu.Unlock()

	s.publisher.Publish(ctx, ev)
	return snapshot, nil
}

func (s *Service) participationOp(ctx context.Context, driverAlias string, rideID int, eventType events.Type, op func(r *ride.Ride) (*ride.Participation, error)) (ride.Participation, error) {
	s.mu.Lock()
	r, err := s.rides.FindByDriverAndID(ctx, driverAlias, rideID)
	if err != nil {
		s.mu.Unlock()
		return ride.Participation{}, err
	}
	p, err := op(r)
	if err != nil {
		s.mu.Unlock()
		return ride.Participation{}, err
	}
	snapshot := *p
	ev := participationEvent(eventType, r, p)
	s.mu.Unlock()

	s.publisher.Publish(ctx, ev)
	return snapshot, nil
}

func summarize(r *ride.Ride) RideSummary {
	return RideSummary{
		Ride:            r.Clone(),
		RemainingSpaces: r.RemainingSpaces(),
	}
}

func rideEvent(t events.Type, r *ride.Ride) events.Event {
	remaining := r.RemainingSpaces()
	ev := events.New(t)
	ev.RideID = r.ID
	ev.DriverAlias = r.DriverAlias
	ev.RideStatus = string(r.Status)
	ev.RemainingSpaces = &remaining
	return ev
}

func participationEvent(t events.Type, r *ride.Ride, p *ride.Participation) events.Event {
	ev := rideEvent(t, r)
	ev.ParticipantAlias = p.ParticipantAlias
	ev.ParticipationStatus = string(p.Status)
	return ev
}
