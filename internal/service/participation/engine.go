// Package participation owns the ride and participation state machine and
// its capacity rules. Callers serialize access to a ride; the engine itself
// holds no locks.
package participation

import (
	"context"
	"time"

	"github.com/gocomet/carpool/internal/domain/ride"
	"github.com/gocomet/carpool/internal/domain/user"
	"github.com/gocomet/carpool/internal/service/stats"
	apperrors "github.com/gocomet/carpool/pkg/errors"
	"github.com/gocomet/carpool/pkg/logger"
)

// UserLookup resolves participant aliases
type UserLookup interface {
	Lookup(ctx context.Context, alias string) (*user.User, error)
}

// Reconciliation records what end-of-ride did to one participation
type Reconciliation struct {
	ParticipantAlias string
	Before           ride.ParticipationStatus
	After            ride.ParticipationStatus
	Outcome          stats.Outcome
}

// Engine applies transitions to rides. Every operation checks all of its
// preconditions before mutating anything.
type Engine struct {
	users  UserLookup
	logger *logger.Logger
	now    func() time.Time
}

// NewEngine creates a new participation engine
func NewEngine(users UserLookup, log *logger.Logger) *Engine {
	return &Engine{
		users:  users,
		logger: log.Named("participation"),
		now:    time.Now,
	}
}

// RequestToJoin adds a waiting participation for participantAlias.
// Checks run in order: participant exists, ride is ready, no earlier
// request, seat count is positive, enough seats remain.
func (e *Engine) RequestToJoin(ctx context.Context, r *ride.Ride, participantAlias, destination string, occupiedSpaces int) (*ride.Participation, error) {
	participant, err := e.checkJoin(ctx, r, participantAlias)
	if err != nil {
		return nil, err
	}

	p, err := ride.NewParticipation(r.ID, participantAlias, destination, occupiedSpaces)
	if err != nil {
		return nil, err
	}
	if r.RemainingSpaces() < occupiedSpaces {
		return nil, ErrInsufficientSpaces
	}

	r.Participants = append(r.Participants, p)
	participant.AddRide(r.ID)

	e.logger.Info("Participant requested to join",
		logger.RideID(r.ID),
		logger.Participant(participantAlias),
		logger.Int("occupied_spaces", occupiedSpaces),
		logger.Int("remaining_spaces", r.RemainingSpaces()),
	)
	return p, nil
}

// CanJoin runs the checks of RequestToJoin that do not depend on the
// request body, in the same order, without mutating anything.
func (e *Engine) CanJoin(ctx context.Context, r *ride.Ride, participantAlias string) error {
	_, err := e.checkJoin(ctx, r, participantAlias)
	return err
}

func (e *Engine) checkJoin(ctx context.Context, r *ride.Ride, participantAlias string) (*user.User, error) {
	participant, err := e.lookupParticipant(ctx, participantAlias)
	if err != nil {
		return nil, err
	}
	if !r.CanJoin() {
		return nil, ErrRideAlreadyStarted
	}
	if r.HasParticipant(participantAlias) {
		return nil, ErrAlreadyRequested
	}
	return participant, nil
}

// Accept confirms a pending request. Capacity is checked again against the
// seats held by every other active participation. A waiting request already
// reserves its own seats, so through the engine this check only fails when
// the ride was changed behind its back.
func (e *Engine) Accept(_ context.Context, r *ride.Ride, participantAlias string) (*ride.Participation, error) {
	p := r.Participation(participantAlias)
	if p == nil || p.Confirmation.IsDecided() {
		return nil, ErrInvalidRequest
	}

	available := r.RemainingSpaces()
	if p.Status.HoldsSeat() {
		available += p.OccupiedSpaces
	}
	if available < p.OccupiedSpaces {
		return nil, ErrInsufficientSpaces
	}

	p.Confirmation = ride.ConfirmationAccepted
	p.Status = ride.ParticipationConfirmed

	e.logger.Info("Participant accepted",
		logger.RideID(r.ID),
		logger.Participant(participantAlias),
	)
	return p, nil
}

// Reject declines a pending request and counts it against the participant
// right away.
func (e *Engine) Reject(ctx context.Context, r *ride.Ride, participantAlias string) (*ride.Participation, error) {
	p := r.Participation(participantAlias)
	if p == nil || p.Confirmation.IsDecided() {
		return nil, ErrInvalidRequest
	}
	participant, err := e.lookupParticipant(ctx, participantAlias)
	if err != nil {
		return nil, err
	}

	p.Confirmation = ride.ConfirmationRejected
	p.Status = ride.ParticipationRejected
	stats.RecordRejected(participant)

	e.logger.Info("Participant rejected",
		logger.RideID(r.ID),
		logger.Participant(participantAlias),
	)
	return p, nil
}

// Start moves a ready ride to inprogress once every request was decided
func (e *Engine) Start(_ context.Context, r *ride.Ride) error {
	if !r.CanStart() {
		return ErrRideAlreadyStarted
	}
	for _, p := range r.Participants {
		if p.Status != ride.ParticipationConfirmed && p.Status != ride.ParticipationRejected {
			return ErrUnprocessedRequests
		}
	}

	for _, p := range r.Participants {
		switch p.Status {
		case ride.ParticipationConfirmed:
			p.Status = ride.ParticipationInProgress
		case ride.ParticipationWaiting:
			// unreachable while the check above rejects waiting requests
			p.Status = ride.ParticipationMissing
		case ride.ParticipationRejected, ride.ParticipationMissing,
			ride.ParticipationInProgress, ride.ParticipationNotMarked,
			ride.ParticipationDone:
		}
	}

	now := e.now()
	r.Status = ride.StatusInProgress
	r.StartedAt = &now

	e.logger.Info("Ride started",
		logger.RideID(r.ID),
		logger.Alias(r.DriverAlias),
		logger.Int("participants", len(r.Participants)),
	)
	return nil
}

// End closes the ride and reconciles every participant's counters. Only
// inprogress participations are relabeled (to notmarked); confirmed and
// missing ones keep their status but still count.
func (e *Engine) End(ctx context.Context, r *ride.Ride) ([]Reconciliation, error) {
	if !r.CanEnd() {
		return nil, ErrRideAlreadyFinished
	}

	participants := make([]*user.User, len(r.Participants))
	for i, p := range r.Participants {
		u, err := e.lookupParticipant(ctx, p.ParticipantAlias)
		if err != nil {
			return nil, err
		}
		participants[i] = u
	}

	result := make([]Reconciliation, 0, len(r.Participants))
	for i, p := range r.Participants {
		before := p.Status
		switch p.Status {
		case ride.ParticipationInProgress:
			p.Status = ride.ParticipationNotMarked
		case ride.ParticipationWaiting, ride.ParticipationConfirmed,
			ride.ParticipationRejected, ride.ParticipationMissing,
			ride.ParticipationNotMarked, ride.ParticipationDone:
		}
		outcome := stats.RecordRideEnd(participants[i], before)
		result = append(result, Reconciliation{
			ParticipantAlias: p.ParticipantAlias,
			Before:           before,
			After:            p.Status,
			Outcome:          outcome,
		})
	}

	now := e.now()
	r.Status = ride.StatusDone
	r.EndedAt = &now

	e.logger.Info("Ride ended",
		logger.RideID(r.ID),
		logger.Alias(r.DriverAlias),
		logger.Int("participants", len(r.Participants)),
	)
	return result, nil
}

// Unload lets an inprogress participant get off early. The ride must be
// resolved by id alone; the driver is not involved.
func (e *Engine) Unload(ctx context.Context, r *ride.Ride, participantAlias string) (*ride.Participation, error) {
	p := r.Participation(participantAlias)
	if p == nil {
		return nil, ErrCannotDisembark
	}
	switch p.Status {
	case ride.ParticipationInProgress:
	case ride.ParticipationWaiting, ride.ParticipationConfirmed,
		ride.ParticipationRejected, ride.ParticipationMissing,
		ride.ParticipationNotMarked, ride.ParticipationDone:
		return nil, ErrCannotDisembark
	default:
		return nil, ErrCannotDisembark
	}

	participant, err := e.lookupParticipant(ctx, participantAlias)
	if err != nil {
		return nil, err
	}

	p.Status = ride.ParticipationDone
	stats.RecordUnload(participant)

	e.logger.Info("Participant unloaded",
		logger.RideID(r.ID),
		logger.Participant(participantAlias),
	)
	return p, nil
}

func (e *Engine) lookupParticipant(ctx context.Context, alias string) (*user.User, error) {
	u, err := e.users.Lookup(ctx, alias)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return nil, apperrors.WithDetail(ErrParticipantNotFound, err)
		}
		return nil, err
	}
	return u, nil
}
