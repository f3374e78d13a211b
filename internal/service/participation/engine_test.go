package participation

import (
	"context"
	"testing"

	"github.com/gocomet/carpool/internal/domain/ride"
	"github.com/gocomet/carpool/internal/domain/user"
	"github.com/gocomet/carpool/internal/service/stats"
	apperrors "github.com/gocomet/carpool/pkg/errors"
	"github.com/gocomet/carpool/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctx    context.Context
	users  *user.Registry
	engine *Engine
}

func newFixture(t *testing.T, aliases ...string) *fixture {
	t.Helper()
	ctx := context.Background()
	users := user.NewRegistry()
	for _, alias := range append([]string{"jperez"}, aliases...) {
		_, err := users.Register(ctx, alias, "User "+alias, "")
		require.NoError(t, err)
	}
	return &fixture{ctx: ctx, users: users, engine: NewEngine(users, logger.NewNop())}
}

func (f *fixture) newRide(t *testing.T, spaces int) *ride.Ride {
	t.Helper()
	r, err := ride.NewRide(1, "2025/07/15 22:00", "Av Javier Prado 456", spaces, "jperez")
	require.NoError(t, err)
	return r
}

func (f *fixture) join(t *testing.T, r *ride.Ride, alias string, spaces int) *ride.Participation {
	t.Helper()
	p, err := f.engine.RequestToJoin(f.ctx, r, alias, "Destino "+alias, spaces)
	require.NoError(t, err)
	return p
}

func (f *fixture) stats(t *testing.T, alias string) user.Stats {
	t.Helper()
	u, err := f.users.Lookup(f.ctx, alias)
	require.NoError(t, err)
	return u.Stats
}

// TestRequestToJoin_Success tests a plain join request
func TestRequestToJoin_Success(t *testing.T) {
	f := newFixture(t, "lgomez")
	r := f.newRide(t, 3)

	p := f.join(t, r, "lgomez", 2)

	assert.Equal(t, ride.ParticipationWaiting, p.Status)
	assert.Equal(t, ride.ConfirmationUnset, p.Confirmation)
	assert.Equal(t, "Destino lgomez", p.Destination)
	assert.Equal(t, 1, r.RemainingSpaces(), "waiting requests reserve seats")

	u, err := f.users.Lookup(f.ctx, "lgomez")
	require.NoError(t, err)
	assert.Equal(t, []int{r.ID}, u.Rides, "participation is appended to the participant history")
}

// TestRequestToJoin_Preconditions tests check order, first failure wins
func TestRequestToJoin_Preconditions(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(f *fixture, r *ride.Ride)
		alias    string
		spaces   int
		wantErr  error
		wantCode string
	}{
		{
			name:     "Unknown participant beats started ride",
			setup:    func(f *fixture, r *ride.Ride) { r.Status = ride.StatusInProgress },
			alias:    "ghost",
			spaces:   1,
			wantErr:  ErrParticipantNotFound,
			wantCode: apperrors.CodeNotFound,
		},
		{
			name:     "Ride already started",
			setup:    func(f *fixture, r *ride.Ride) { r.Status = ride.StatusInProgress },
			alias:    "lgomez",
			spaces:   1,
			wantErr:  ErrRideAlreadyStarted,
			wantCode: apperrors.CodeInvalidState,
		},
		{
			name: "Duplicate request beats capacity",
			setup: func(f *fixture, r *ride.Ride) {
				_, _ = f.engine.RequestToJoin(f.ctx, r, "lgomez", "x", 1)
			},
			alias:    "lgomez",
			spaces:   5,
			wantErr:  ErrAlreadyRequested,
			wantCode: apperrors.CodeConflict,
		},
		{
			name:     "Non-positive seats",
			setup:    func(f *fixture, r *ride.Ride) {},
			alias:    "lgomez",
			spaces:   0,
			wantErr:  ride.ErrInvalidOccupiedSpaces,
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "Not enough seats",
			setup:    func(f *fixture, r *ride.Ride) {},
			alias:    "lgomez",
			spaces:   3,
			wantErr:  ErrInsufficientSpaces,
			wantCode: apperrors.CodeCapacityExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "lgomez")
			r := f.newRide(t, 2)
			tt.setup(f, r)
			before := len(r.Participants)

			_, err := f.engine.RequestToJoin(f.ctx, r, tt.alias, "x", tt.spaces)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, apperrors.HasCode(err, tt.wantCode))
			assert.Len(t, r.Participants, before, "failed joins must not mutate the ride")
		})
	}
}

// TestCanJoin_MatchesRequestOrder tests the body-independent checks
func TestCanJoin_MatchesRequestOrder(t *testing.T) {
	f := newFixture(t, "lgomez", "mrodriguez")
	r := f.newRide(t, 3)
	f.join(t, r, "lgomez", 1)

	assert.ErrorIs(t, f.engine.CanJoin(f.ctx, r, "ghost"), ErrParticipantNotFound)
	assert.ErrorIs(t, f.engine.CanJoin(f.ctx, r, "lgomez"), ErrAlreadyRequested)
	assert.NoError(t, f.engine.CanJoin(f.ctx, r, "mrodriguez"))
	assert.Len(t, r.Participants, 1, "checks never mutate")

	r.Status = ride.StatusInProgress
	assert.ErrorIs(t, f.engine.CanJoin(f.ctx, r, "mrodriguez"), ErrRideAlreadyStarted)
}

// TestAccept_CapacityScenario tests the one-seat ride scenario
func TestAccept_CapacityScenario(t *testing.T) {
	f := newFixture(t, "lgomez", "mrodriguez")
	r := f.newRide(t, 1)

	f.join(t, r, "lgomez", 1)
	_, err := f.engine.RequestToJoin(f.ctx, r, "mrodriguez", "Destino 2", 1)
	assert.ErrorIs(t, err, ErrInsufficientSpaces, "the only seat is held by the waiting request")

	p, err := f.engine.Accept(f.ctx, r, "lgomez")
	require.NoError(t, err)
	assert.Equal(t, ride.ParticipationConfirmed, p.Status)
	assert.Equal(t, ride.ConfirmationAccepted, p.Confirmation)
	assert.Equal(t, 0, r.RemainingSpaces())

	_, err = f.engine.Accept(f.ctx, r, "mrodriguez")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

// TestAccept_RechecksCapacity tests that acceptance counts other active seats
func TestAccept_RechecksCapacity(t *testing.T) {
	f := newFixture(t, "lgomez", "mrodriguez")
	r := f.newRide(t, 2)
	f.join(t, r, "lgomez", 1)
	f.join(t, r, "mrodriguez", 1)

	// simulate seats consumed outside the normal join path
	r.Participants[0].OccupiedSpaces = 2

	_, err := f.engine.Accept(f.ctx, r, "mrodriguez")
	assert.ErrorIs(t, err, ErrInsufficientSpaces)
	assert.Equal(t, ride.ParticipationWaiting, r.Participants[1].Status)
	assert.Equal(t, ride.ConfirmationUnset, r.Participants[1].Confirmation)
}

// TestAcceptReject_AtMostOnce tests that a decision is final
func TestAcceptReject_AtMostOnce(t *testing.T) {
	f := newFixture(t, "lgomez", "mrodriguez")
	r := f.newRide(t, 3)
	f.join(t, r, "lgomez", 1)
	f.join(t, r, "mrodriguez", 1)

	_, err := f.engine.Accept(f.ctx, r, "lgomez")
	require.NoError(t, err)
	_, err = f.engine.Reject(f.ctx, r, "mrodriguez")
	require.NoError(t, err)

	_, err = f.engine.Accept(f.ctx, r, "lgomez")
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = f.engine.Reject(f.ctx, r, "lgomez")
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = f.engine.Accept(f.ctx, r, "mrodriguez")
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = f.engine.Reject(f.ctx, r, "nobody")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	assert.Equal(t, user.Stats{Rejected: 1}, f.stats(t, "mrodriguez"))
	assert.Equal(t, 2, r.RemainingSpaces(), "rejected requests release their seats")
}

// TestStart_UnprocessedRequests tests the start precondition
func TestStart_UnprocessedRequests(t *testing.T) {
	f := newFixture(t, "lgomez", "mrodriguez")
	r := f.newRide(t, 3)
	f.join(t, r, "lgomez", 1)
	f.join(t, r, "mrodriguez", 1)
	_, err := f.engine.Accept(f.ctx, r, "lgomez")
	require.NoError(t, err)

	err = f.engine.Start(f.ctx, r)

	assert.ErrorIs(t, err, ErrUnprocessedRequests)
	assert.Equal(t, ride.StatusReady, r.Status)
	assert.Equal(t, ride.ParticipationConfirmed, r.Participants[0].Status, "no partial application")
}

// TestStart_MovesConfirmedToInProgress tests the start transition
func TestStart_MovesConfirmedToInProgress(t *testing.T) {
	f := newFixture(t, "lgomez", "mrodriguez")
	r := f.newRide(t, 3)
	f.join(t, r, "lgomez", 1)
	f.join(t, r, "mrodriguez", 1)
	_, err := f.engine.Accept(f.ctx, r, "lgomez")
	require.NoError(t, err)
	_, err = f.engine.Reject(f.ctx, r, "mrodriguez")
	require.NoError(t, err)

	require.NoError(t, f.engine.Start(f.ctx, r))

	assert.Equal(t, ride.StatusInProgress, r.Status)
	assert.NotNil(t, r.StartedAt)
	assert.Equal(t, ride.ParticipationInProgress, r.Participants[0].Status)
	assert.Equal(t, ride.ParticipationRejected, r.Participants[1].Status)

	assert.ErrorIs(t, f.engine.Start(f.ctx, r), ErrRideAlreadyStarted, "status never moves backward")
	_, err = f.engine.RequestToJoin(f.ctx, r, "jperez", "x", 1)
	assert.ErrorIs(t, err, ErrRideAlreadyStarted)
}

// TestEnd_Reconciliation tests the end-of-ride counter table
func TestEnd_Reconciliation(t *testing.T) {
	f := newFixture(t, "inride", "rejected", "unloaded")
	r := f.newRide(t, 3)
	for _, alias := range []string{"inride", "rejected", "unloaded"} {
		f.join(t, r, alias, 1)
	}
	_, err := f.engine.Accept(f.ctx, r, "inride")
	require.NoError(t, err)
	_, err = f.engine.Accept(f.ctx, r, "unloaded")
	require.NoError(t, err)
	_, err = f.engine.Reject(f.ctx, r, "rejected")
	require.NoError(t, err)
	require.NoError(t, f.engine.Start(f.ctx, r))
	_, err = f.engine.Unload(f.ctx, r, "unloaded")
	require.NoError(t, err)

	result, err := f.engine.End(f.ctx, r)
	require.NoError(t, err)

	assert.Equal(t, ride.StatusDone, r.Status)
	assert.NotNil(t, r.EndedAt)
	require.Len(t, result, 3)
	assert.Equal(t, Reconciliation{"inride", ride.ParticipationInProgress, ride.ParticipationNotMarked, stats.OutcomeNotMarked}, result[0])
	assert.Equal(t, Reconciliation{"rejected", ride.ParticipationRejected, ride.ParticipationRejected, stats.OutcomeNone}, result[1])
	assert.Equal(t, Reconciliation{"unloaded", ride.ParticipationDone, ride.ParticipationDone, stats.OutcomeNone}, result[2])

	assert.Equal(t, user.Stats{Total: 1, NotMarked: 1}, f.stats(t, "inride"))
	assert.Equal(t, user.Stats{Total: 1, Rejected: 1}, f.stats(t, "rejected"))
	assert.Equal(t, user.Stats{Total: 2, Completed: 1}, f.stats(t, "unloaded"), "unload counts on its own, end adds total")
}

// TestEnd_WithoutStart tests ending a ride that never started
func TestEnd_WithoutStart(t *testing.T) {
	f := newFixture(t, "lgomez", "mrodriguez")
	r := f.newRide(t, 3)
	f.join(t, r, "lgomez", 1)
	f.join(t, r, "mrodriguez", 1)
	_, err := f.engine.Accept(f.ctx, r, "lgomez")
	require.NoError(t, err)
	r.Participants[1].Status = ride.ParticipationMissing

	_, err = f.engine.End(f.ctx, r)
	require.NoError(t, err)

	assert.Equal(t, ride.ParticipationConfirmed, r.Participants[0].Status, "confirmed keeps its status")
	assert.Equal(t, ride.ParticipationMissing, r.Participants[1].Status)
	assert.Equal(t, user.Stats{Total: 1, Completed: 1}, f.stats(t, "lgomez"))
	assert.Equal(t, user.Stats{Total: 1, Missing: 1}, f.stats(t, "mrodriguez"))

	_, err = f.engine.End(f.ctx, r)
	assert.ErrorIs(t, err, ErrRideAlreadyFinished)
	assert.Equal(t, 1, f.stats(t, "lgomez").Total, "ending twice must not double count")
}

// TestUnload tests early checkout rules
func TestUnload(t *testing.T) {
	f := newFixture(t, "lgomez", "mrodriguez")
	r := f.newRide(t, 3)
	f.join(t, r, "lgomez", 1)
	f.join(t, r, "mrodriguez", 1)
	_, err := f.engine.Accept(f.ctx, r, "lgomez")
	require.NoError(t, err)
	_, err = f.engine.Accept(f.ctx, r, "mrodriguez")
	require.NoError(t, err)

	_, err = f.engine.Unload(f.ctx, r, "lgomez")
	assert.ErrorIs(t, err, ErrCannotDisembark, "ride has not started yet")

	require.NoError(t, f.engine.Start(f.ctx, r))

	p, err := f.engine.Unload(f.ctx, r, "lgomez")
	require.NoError(t, err)
	assert.Equal(t, ride.ParticipationDone, p.Status)
	assert.Equal(t, user.Stats{Total: 1, Completed: 1}, f.stats(t, "lgomez"))
	assert.Equal(t, 2, r.RemainingSpaces())

	_, err = f.engine.Unload(f.ctx, r, "lgomez")
	assert.ErrorIs(t, err, ErrCannotDisembark)
	_, err = f.engine.Unload(f.ctx, r, "ghost")
	assert.ErrorIs(t, err, ErrCannotDisembark)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidState))
}

// TestRemainingSpaces_NeverNegative tests the capacity invariant over a sequence
func TestRemainingSpaces_NeverNegative(t *testing.T) {
	aliases := []string{"a", "b", "c", "d", "e"}
	f := newFixture(t, aliases...)
	r := f.newRide(t, 4)

	for i, alias := range aliases {
		_, _ = f.engine.RequestToJoin(f.ctx, r, alias, "x", i%3+1)
		assert.GreaterOrEqual(t, r.RemainingSpaces(), 0)
	}
	for _, alias := range aliases {
		_, _ = f.engine.Accept(f.ctx, r, alias)
		assert.GreaterOrEqual(t, r.RemainingSpaces(), 0)
	}
}
