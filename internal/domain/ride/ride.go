package ride

import (
	"strings"
	"time"
)

// Status represents ride status. It only moves forward:
// ready -> inprogress -> done.
type Status string

const (
	StatusReady      Status = "ready"
	StatusInProgress Status = "inprogress"
	StatusDone       Status = "done"
)

// IsValid validates the status
func (s Status) IsValid() bool {
	switch s {
	case StatusReady, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Ride represents a scheduled trip offered by a driver with a fixed number
// of seats. The driver is referenced by alias; the ride owns its
// participations.
type Ride struct {
	ID            int              `json:"id"`
	DateTime      string           `json:"rideDateAndTime"`
	FinalAddress  string           `json:"finalAddress"`
	AllowedSpaces int              `json:"allowedSpaces"`
	DriverAlias   string           `json:"driver"`
	Status        Status           `json:"status"`
	Participants  []*Participation `json:"participants"`
	CreatedAt     time.Time        `json:"created_at"`
	StartedAt     *time.Time       `json:"started_at,omitempty"`
	EndedAt       *time.Time       `json:"ended_at,omitempty"`
}

// NewRide validates the ride attributes and returns a ready ride with no
// participants.
func NewRide(id int, dateTime, finalAddress string, allowedSpaces int, driverAlias string) (*Ride, error) {
	if strings.TrimSpace(dateTime) == "" {
		return nil, ErrDateTimeRequired
	}
	if strings.TrimSpace(finalAddress) == "" {
		return nil, ErrFinalAddressRequired
	}
	if allowedSpaces < 0 {
		return nil, ErrNegativeSpaces
	}
	if driverAlias == "" {
		return nil, ErrDriverRequired
	}
	return &Ride{
		ID:            id,
		DateTime:      dateTime,
		FinalAddress:  finalAddress,
		AllowedSpaces: allowedSpaces,
		DriverAlias:   driverAlias,
		Status:        StatusReady,
		Participants:  []*Participation{},
		CreatedAt:     time.Now(),
	}, nil
}

// ReservedSpaces sums the seats held by participations that still count
// against capacity.
func (r *Ride) ReservedSpaces() int {
	reserved := 0
	for _, p := range r.Participants {
		if p.Status.HoldsSeat() {
			reserved += p.OccupiedSpaces
		}
	}
	return reserved
}

// RemainingSpaces is recomputed on every call so it always reflects the
// current participation statuses.
func (r *Ride) RemainingSpaces() int {
	return r.AllowedSpaces - r.ReservedSpaces()
}

// Participation returns the participation of alias on this ride, or nil
func (r *Ride) Participation(alias string) *Participation {
	for _, p := range r.Participants {
		if p.ParticipantAlias == alias {
			return p
		}
	}
	return nil
}

// HasParticipant reports whether alias already requested to join
func (r *Ride) HasParticipant(alias string) bool {
	return r.Participation(alias) != nil
}

// IsDrivenBy reports whether alias is the ride's driver
func (r *Ride) IsDrivenBy(alias string) bool {
	return r.DriverAlias == alias
}

// CanJoin checks if the ride still accepts requests
func (r *Ride) CanJoin() bool {
	return r.Status == StatusReady
}

// CanStart checks if ride can be started
func (r *Ride) CanStart() bool {
	return r.Status == StatusReady
}

// CanEnd checks if ride can be ended
func (r *Ride) CanEnd() bool {
	return r.Status != StatusDone
}

// Clone returns a deep copy safe to hand out of a locked section
func (r *Ride) Clone() *Ride {
	c := *r
	c.Participants = make([]*Participation, len(r.Participants))
	for i, p := range r.Participants {
		pc := *p
		c.Participants[i] = &pc
	}
	if r.StartedAt != nil {
		t := *r.StartedAt
		c.StartedAt = &t
	}
	if r.EndedAt != nil {
		t := *r.EndedAt
		c.EndedAt = &t
	}
	return &c
}
