package user

import (
	"context"
	"sync"
)

// Repository defines the interface for user data access
type Repository interface {
	// Register stores a new user and returns its alias
	Register(ctx context.Context, alias, name, carPlate string) (string, error)

	// Lookup retrieves a user by alias
	Lookup(ctx context.Context, alias string) (*User, error)

	// Exists reports whether alias is registered
	Exists(ctx context.Context, alias string) bool

	// List returns all users in registration order
	List(ctx context.Context) []*User
}

// Registry is the in-memory Repository. Users are never deleted, so the
// pointers it hands out stay valid for the process lifetime.
type Registry struct {
	mu      sync.RWMutex
	byAlias map[string]*User
	order   []*User
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		byAlias: make(map[string]*User),
	}
}

// Register validates and stores a new user
func (r *Registry) Register(_ context.Context, alias, name, carPlate string) (string, error) {
	u, err := New(alias, name, carPlate)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byAlias[alias]; exists {
		return "", ErrAliasTaken
	}
	r.byAlias[alias] = u
	r.order = append(r.order, u)
	return alias, nil
}

// Lookup returns the stored user or ErrUserNotFound
func (r *Registry) Lookup(_ context.Context, alias string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byAlias[alias]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// Exists reports whether alias is registered
func (r *Registry) Exists(_ context.Context, alias string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byAlias[alias]
	return ok
}

// List returns a fresh slice of users in registration order
func (r *Registry) List(_ context.Context) []*User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*User, len(r.order))
	copy(out, r.order)
	return out
}

// Count returns the number of registered users
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
