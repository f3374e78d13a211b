package dto

// CreateUserRequest represents a user registration
type CreateUserRequest struct {
	Alias    string `json:"alias"`
	Name     string `json:"name"`
	CarPlate string `json:"carPlate"`
}

// CreateRideRequest represents a driver publishing a ride. Fields are not
// bound as required: the driver must be resolved before fields are checked.
type CreateRideRequest struct {
	FinalAddress    string `json:"finalAddress"`
	RideDateAndTime string `json:"rideDateAndTime"`
	AllowedSpaces   *int   `json:"allowedSpaces"`
}

// JoinRequest represents a participant asking for seats on a ride
type JoinRequest struct {
	Destination    string `json:"destination"`
	OccupiedSpaces int    `json:"occupiedSpaces"`
}
