package stats

import (
	"testing"

	"github.com/gocomet/carpool/internal/domain/ride"
	"github.com/gocomet/carpool/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(t *testing.T) *user.User {
	t.Helper()
	u, err := user.New("lgomez", "Luis Gomez", "")
	require.NoError(t, err)
	return u
}

// TestRecordRideEnd_Table tests the end-of-ride reconciliation table
func TestRecordRideEnd_Table(t *testing.T) {
	tests := []struct {
		name    string
		before  ride.ParticipationStatus
		outcome Outcome
		want    user.Stats
	}{
		{name: "In progress is not marked", before: ride.ParticipationInProgress, outcome: OutcomeNotMarked, want: user.Stats{Total: 1, NotMarked: 1}},
		{name: "Confirmed completes", before: ride.ParticipationConfirmed, outcome: OutcomeCompleted, want: user.Stats{Total: 1, Completed: 1}},
		{name: "Missing stays missing", before: ride.ParticipationMissing, outcome: OutcomeMissing, want: user.Stats{Total: 1, Missing: 1}},
		{name: "Rejected only counts total", before: ride.ParticipationRejected, outcome: OutcomeNone, want: user.Stats{Total: 1}},
		{name: "Done only counts total", before: ride.ParticipationDone, outcome: OutcomeNone, want: user.Stats{Total: 1}},
		{name: "Waiting only counts total", before: ride.ParticipationWaiting, outcome: OutcomeNone, want: user.Stats{Total: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newUser(t)
			got := RecordRideEnd(u, tt.before)
			assert.Equal(t, tt.outcome, got)
			assert.Equal(t, tt.want, u.Stats)
		})
	}
}

// TestRecordRejected tests the immediate rejection counter
func TestRecordRejected(t *testing.T) {
	u := newUser(t)
	RecordRejected(u)
	RecordRejected(u)
	assert.Equal(t, user.Stats{Rejected: 2}, u.Stats)
}

// TestRecordUnload tests early checkout accounting
func TestRecordUnload(t *testing.T) {
	u := newUser(t)
	RecordUnload(u)
	assert.Equal(t, user.Stats{Total: 1, Completed: 1}, u.Stats)
}
