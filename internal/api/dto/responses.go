package dto

import (
	"github.com/gocomet/carpool/internal/domain/ride"
	"github.com/gocomet/carpool/internal/domain/user"
	"github.com/gocomet/carpool/internal/service/coordination"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

// SuccessResponse is the body of every mutation that succeeded
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// CreatedRideResponse carries the id of a new ride
type CreatedRideResponse struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
}

// UserSummary is one row of the user list
type UserSummary struct {
	Alias    string  `json:"alias"`
	Name     string  `json:"name"`
	CarPlate *string `json:"carPlate"`
}

// ParticipantCounters is a participant's alias with its ride history counters
type ParticipantCounters struct {
	Alias                  string `json:"alias"`
	PreviousRidesTotal     int    `json:"previousRidesTotal"`
	PreviousRidesCompleted int    `json:"previousRidesCompleted"`
	PreviousRidesMissing   int    `json:"previousRidesMissing"`
	PreviousRidesNotMarked int    `json:"previousRidesNotMarked"`
	PreviousRidesRejected  int    `json:"previousRidesRejected"`
}

// UserDetail is a user with counters and ride history
type UserDetail struct {
	Alias                  string  `json:"alias"`
	Name                   string  `json:"name"`
	CarPlate               *string `json:"carPlate"`
	PreviousRidesTotal     int     `json:"previousRidesTotal"`
	PreviousRidesCompleted int     `json:"previousRidesCompleted"`
	PreviousRidesMissing   int     `json:"previousRidesMissing"`
	PreviousRidesNotMarked int     `json:"previousRidesNotMarked"`
	PreviousRidesRejected  int     `json:"previousRidesRejected"`
	Rides                  []int   `json:"rides"`
}

// RideSummary is one row of a driver's ride list
type RideSummary struct {
	ID              int    `json:"id"`
	RideDateAndTime string `json:"rideDateAndTime"`
	FinalAddress    string `json:"finalAddress"`
	Status          string `json:"status"`
	AllowedSpaces   int    `json:"allowedSpaces"`
	RemainingSpaces int    `json:"remainingSpaces"`
}

// ParticipantResponse describes one participation inside a ride
type ParticipantResponse struct {
	Confirmation   *string             `json:"confirmation"`
	Participant    ParticipantCounters `json:"participant"`
	Destination    string              `json:"destination"`
	OccupiedSpaces int                 `json:"occupiedSpaces"`
	Status         string              `json:"status"`
}

// RideDetail is the full view of a ride
type RideDetail struct {
	ID              int                   `json:"id"`
	RideDateAndTime string                `json:"rideDateAndTime"`
	FinalAddress    string                `json:"finalAddress"`
	Driver          string                `json:"driver"`
	Status          string                `json:"status"`
	AllowedSpaces   int                   `json:"allowedSpaces"`
	RemainingSpaces int                   `json:"remainingSpaces"`
	Participants    []ParticipantResponse `json:"participants"`
}

// RideDetailResponse wraps a ride detail under "ride"
type RideDetailResponse struct {
	Ride RideDetail `json:"ride"`
}

// NewUserSummaries maps users to list rows
func NewUserSummaries(users []*user.User) []UserSummary {
	out := make([]UserSummary, len(users))
	for i, u := range users {
		out[i] = UserSummary{Alias: u.Alias, Name: u.Name, CarPlate: carPlate(u)}
	}
	return out
}

// NewUserDetail maps a user snapshot to its detail body
func NewUserDetail(u *user.User) UserDetail {
	rides := u.Rides
	if rides == nil {
		rides = []int{}
	}
	return UserDetail{
		Alias:                  u.Alias,
		Name:                   u.Name,
		CarPlate:               carPlate(u),
		PreviousRidesTotal:     u.Stats.Total,
		PreviousRidesCompleted: u.Stats.Completed,
		PreviousRidesMissing:   u.Stats.Missing,
		PreviousRidesNotMarked: u.Stats.NotMarked,
		PreviousRidesRejected:  u.Stats.Rejected,
		Rides:                  rides,
	}
}

// NewRideSummaries maps ride snapshots to list rows
func NewRideSummaries(rides []coordination.RideSummary) []RideSummary {
	out := make([]RideSummary, len(rides))
	for i, r := range rides {
		out[i] = RideSummary{
			ID:              r.Ride.ID,
			RideDateAndTime: r.Ride.DateTime,
			FinalAddress:    r.Ride.FinalAddress,
			Status:          string(r.Ride.Status),
			AllowedSpaces:   r.Ride.AllowedSpaces,
			RemainingSpaces: r.RemainingSpaces,
		}
	}
	return out
}

// NewRideDetailResponse maps a ride detail to its body
func NewRideDetailResponse(d *coordination.RideDetail) RideDetailResponse {
	participants := make([]ParticipantResponse, len(d.Participants))
	for i, pd := range d.Participants {
		participants[i] = ParticipantResponse{
			Confirmation:   confirmation(pd.Participation.Confirmation),
			Participant:    newParticipantCounters(pd.Participant),
			Destination:    pd.Participation.Destination,
			OccupiedSpaces: pd.Participation.OccupiedSpaces,
			Status:         string(pd.Participation.Status),
		}
	}
	return RideDetailResponse{
		Ride: RideDetail{
			ID:              d.Ride.ID,
			RideDateAndTime: d.Ride.DateTime,
			FinalAddress:    d.Ride.FinalAddress,
			Driver:          d.Ride.DriverAlias,
			Status:          string(d.Ride.Status),
			AllowedSpaces:   d.Ride.AllowedSpaces,
			RemainingSpaces: d.RemainingSpaces,
			Participants:    participants,
		},
	}
}

func newParticipantCounters(u *user.User) ParticipantCounters {
	return ParticipantCounters{
		Alias:                  u.Alias,
		PreviousRidesTotal:     u.Stats.Total,
		PreviousRidesCompleted: u.Stats.Completed,
		PreviousRidesMissing:   u.Stats.Missing,
		PreviousRidesNotMarked: u.Stats.NotMarked,
		PreviousRidesRejected:  u.Stats.Rejected,
	}
}

// confirmation renders an undecided request as null
func confirmation(c ride.Confirmation) *string {
	if !c.IsDecided() {
		return nil
	}
	s := string(c)
	return &s
}

// carPlate renders a user without a car as null
func carPlate(u *user.User) *string {
	if !u.HasCar() {
		return nil
	}
	plate := u.CarPlate
	return &plate
}
