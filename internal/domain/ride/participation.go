package ride

import (
	"strings"
	"time"
)

// ParticipationStatus represents where a participant is in the ride lifecycle
type ParticipationStatus string

const (
	ParticipationWaiting    ParticipationStatus = "waiting"
	ParticipationConfirmed  ParticipationStatus = "confirmed"
	ParticipationRejected   ParticipationStatus = "rejected"
	ParticipationMissing    ParticipationStatus = "missing"
	ParticipationInProgress ParticipationStatus = "inprogress"
	ParticipationNotMarked  ParticipationStatus = "notmarked"
	ParticipationDone       ParticipationStatus = "done"
)

// IsValid validates the status
func (s ParticipationStatus) IsValid() bool {
	switch s {
	case ParticipationWaiting, ParticipationConfirmed, ParticipationRejected,
		ParticipationMissing, ParticipationInProgress, ParticipationNotMarked,
		ParticipationDone:
		return true
	}
	return false
}

// HoldsSeat reports whether a participation in this status reserves seats
func (s ParticipationStatus) HoldsSeat() bool {
	switch s {
	case ParticipationWaiting, ParticipationConfirmed, ParticipationInProgress:
		return true
	case ParticipationRejected, ParticipationMissing, ParticipationNotMarked, ParticipationDone:
		return false
	}
	return false
}

// Confirmation mirrors the driver's decision on a join request
type Confirmation string

const (
	ConfirmationUnset    Confirmation = ""
	ConfirmationAccepted Confirmation = "accepted"
	ConfirmationRejected Confirmation = "rejected"
)

// IsDecided reports whether the driver already accepted or rejected
func (c Confirmation) IsDecided() bool {
	return c != ConfirmationUnset
}

// Participation links one participant to one ride. Both ends are referenced
// by identifier and resolved through their stores.
type Participation struct {
	RideID           int                 `json:"rideId"`
	ParticipantAlias string              `json:"participant"`
	Destination      string              `json:"destination"`
	OccupiedSpaces   int                 `json:"occupiedSpaces"`
	Status           ParticipationStatus `json:"status"`
	Confirmation     Confirmation        `json:"confirmation,omitempty"`
	RequestedAt      time.Time           `json:"requested_at"`
}

// NewParticipation returns a waiting participation with no decision yet
func NewParticipation(rideID int, participantAlias, destination string, occupiedSpaces int) (*Participation, error) {
	if strings.TrimSpace(participantAlias) == "" {
		return nil, ErrParticipantRequired
	}
	if occupiedSpaces <= 0 {
		return nil, ErrInvalidOccupiedSpaces
	}
	return &Participation{
		RideID:           rideID,
		ParticipantAlias: participantAlias,
		Destination:      destination,
		OccupiedSpaces:   occupiedSpaces,
		Status:           ParticipationWaiting,
		Confirmation:     ConfirmationUnset,
		RequestedAt:      time.Now(),
	}, nil
}
