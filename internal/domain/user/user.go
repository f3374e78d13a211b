package user

import (
	"strings"
	"time"
)

// Stats holds a user's historical ride outcomes. Counters only grow and are
// mutated by the stats updater at fixed lifecycle points.
type Stats struct {
	Total     int `json:"previousRidesTotal"`
	Completed int `json:"previousRidesCompleted"`
	Missing   int `json:"previousRidesMissing"`
	NotMarked int `json:"previousRidesNotMarked"`
	Rejected  int `json:"previousRidesRejected"`
}

// User represents a registered person. The same user can drive some rides
// and take part in others.
type User struct {
	Alias     string    `json:"alias"`
	Name      string    `json:"name"`
	CarPlate  string    `json:"carPlate,omitempty"`
	Stats     Stats     `json:"stats"`
	Rides     []int     `json:"rides"` // ride ids of this user's participations, in request order
	CreatedAt time.Time `json:"created_at"`
}

// New validates input and returns a user with zeroed counters
func New(alias, name, carPlate string) (*User, error) {
	if strings.TrimSpace(alias) == "" {
		return nil, ErrAliasRequired
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	return &User{
		Alias:     alias,
		Name:      name,
		CarPlate:  carPlate,
		Rides:     []int{},
		CreatedAt: time.Now(),
	}, nil
}

// HasCar reports whether the user registered a plate
func (u *User) HasCar() bool {
	return u.CarPlate != ""
}

// AddRide appends a ride id to the user's participation history
func (u *User) AddRide(rideID int) {
	u.Rides = append(u.Rides, rideID)
}

// Clone returns a deep copy safe to hand out of a locked section
func (u *User) Clone() *User {
	c := *u
	c.Rides = append([]int(nil), u.Rides...)
	return &c
}
