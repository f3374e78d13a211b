// Package stats applies ride outcomes to a user's historical counters.
// Only the participation engine calls into it.
package stats

import (
	"github.com/gocomet/carpool/internal/domain/ride"
	"github.com/gocomet/carpool/internal/domain/user"
)

// Outcome names the counter an end-of-ride reconciliation touched
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeMissing   Outcome = "missing"
	OutcomeNotMarked Outcome = "notmarked"
	OutcomeNone      Outcome = "none"
)

// RecordRejected counts a rejection as soon as the driver decides
func RecordRejected(u *user.User) {
	u.Stats.Rejected++
}

// RecordRideEnd reconciles one participation at end of ride. before is the
// participation status prior to the end transition. Total always grows by one.
func RecordRideEnd(u *user.User, before ride.ParticipationStatus) Outcome {
	u.Stats.Total++
	outcome := outcomeFor(before)
	switch outcome {
	case OutcomeCompleted:
		u.Stats.Completed++
	case OutcomeMissing:
		u.Stats.Missing++
	case OutcomeNotMarked:
		u.Stats.NotMarked++
	case OutcomeNone:
	}
	return outcome
}

// RecordUnload counts an early checkout as a completed ride
func RecordUnload(u *user.User) {
	u.Stats.Completed++
	u.Stats.Total++
}

func outcomeFor(before ride.ParticipationStatus) Outcome {
	switch before {
	case ride.ParticipationInProgress:
		return OutcomeNotMarked
	case ride.ParticipationConfirmed:
		return OutcomeCompleted
	case ride.ParticipationMissing:
		return OutcomeMissing
	case ride.ParticipationWaiting, ride.ParticipationRejected,
		ride.ParticipationNotMarked, ride.ParticipationDone:
		return OutcomeNone
	}
	return OutcomeNone
}
