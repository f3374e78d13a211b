package ride

import (
	"context"
	"sync"
)

// CreateParams carries the raw ride input. AllowedSpaces is a pointer so a
// missing value can be told apart from zero.
type CreateParams struct {
	DriverAlias   string
	DateTime      string
	FinalAddress  string
	AllowedSpaces *int
}

// DriverDirectory answers whether a driver alias is registered
type DriverDirectory interface {
	Exists(ctx context.Context, alias string) bool
}

// Repository defines the interface for ride data access
type Repository interface {
	// Create validates params and stores a new ready ride
	Create(ctx context.Context, params CreateParams) (*Ride, error)

	// FindByDriverAndID retrieves a ride only when both driver and id match
	FindByDriverAndID(ctx context.Context, driverAlias string, id int) (*Ride, error)

	// FindByID retrieves a ride by id across all drivers
	FindByID(ctx context.Context, id int) (*Ride, error)

	// ListByDriver returns a driver's rides in creation order
	ListByDriver(ctx context.Context, driverAlias string) []*Ride
}

// Store is the in-memory Repository. Ids are dense: the counter only
// advances after a ride is stored.
type Store struct {
	mu      sync.RWMutex
	drivers DriverDirectory
	rides   []*Ride
	byID    map[int]*Ride
	nextID  int
}

// NewStore creates an empty store whose first ride gets id 1
func NewStore(drivers DriverDirectory) *Store {
	return &Store{
		drivers: drivers,
		byID:    make(map[int]*Ride),
		nextID:  1,
	}
}

// Create checks the driver first, then the ride fields
func (s *Store) Create(ctx context.Context, params CreateParams) (*Ride, error) {
	if !s.drivers.Exists(ctx, params.DriverAlias) {
		return nil, ErrDriverNotFound
	}
	if params.AllowedSpaces == nil {
		// report the first missing field in payload order
		if params.DateTime == "" {
			return nil, ErrDateTimeRequired
		}
		if params.FinalAddress == "" {
			return nil, ErrFinalAddressRequired
		}
		return nil, ErrAllowedSpacesRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := NewRide(s.nextID, params.DateTime, params.FinalAddress, *params.AllowedSpaces, params.DriverAlias)
	if err != nil {
		return nil, err
	}
	s.rides = append(s.rides, r)
	s.byID[r.ID] = r
	s.nextID++
	return r, nil
}

// FindByDriverAndID returns ErrRideNotFound unless the id belongs to driverAlias
func (s *Store) FindByDriverAndID(_ context.Context, driverAlias string, id int) (*Ride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byID[id]
	if !ok || r.DriverAlias != driverAlias {
		return nil, ErrRideNotFound
	}
	return r, nil
}

// FindByID returns the ride with id regardless of driver
func (s *Store) FindByID(_ context.Context, id int) (*Ride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.byID[id]
	if !ok {
		return nil, ErrRideNotFound
	}
	return r, nil
}

// ListByDriver returns a fresh slice of the driver's rides
func (s *Store) ListByDriver(_ context.Context, driverAlias string) []*Ride {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*Ride{}
	for _, r := range s.rides {
		if r.DriverAlias == driverAlias {
			out = append(out, r)
		}
	}
	return out
}

// Count returns the number of stored rides
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rides)
}
