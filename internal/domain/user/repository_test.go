package user

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/gocomet/carpool/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegistry_Register tests registration and its validation rules
func TestRegistry_Register(t *testing.T) {
	tests := []struct {
		name     string
		alias    string
		userName string
		wantErr  error
	}{
		{name: "Driver with plate", alias: "jperez", userName: "Juan Perez"},
		{name: "Missing alias", alias: "", userName: "Juan Perez", wantErr: ErrAliasRequired},
		{name: "Blank name", alias: "lgomez", userName: "   ", wantErr: ErrNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			alias, err := reg.Register(context.Background(), tt.alias, tt.userName, "ABC-123")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
				assert.Equal(t, 0, reg.Count())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.alias, alias)
		})
	}
}

// TestRegistry_DuplicateAlias tests that an alias can only be taken once
func TestRegistry_DuplicateAlias(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()

	_, err := reg.Register(ctx, "jperez", "Juan Perez", "ABC-123")
	require.NoError(t, err)

	_, err = reg.Register(ctx, "jperez", "Someone Else", "")
	assert.True(t, errors.Is(err, ErrAliasTaken))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	u, err := reg.Lookup(ctx, "jperez")
	require.NoError(t, err)
	assert.Equal(t, "Juan Perez", u.Name, "original user must be untouched")
}

// TestRegistry_Lookup tests zeroed counters and not-found handling
func TestRegistry_Lookup(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()
	_, err := reg.Register(ctx, "lgomez", "Luis Gomez", "")
	require.NoError(t, err)

	u, err := reg.Lookup(ctx, "lgomez")
	require.NoError(t, err)
	assert.Equal(t, Stats{}, u.Stats)
	assert.False(t, u.HasCar())
	assert.Empty(t, u.Rides)

	_, err = reg.Lookup(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.False(t, reg.Exists(ctx, "ghost"))
}

// TestRegistry_ListOrder tests that listing is ordered and restartable
func TestRegistry_ListOrder(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()
	for _, alias := range []string{"c", "a", "b"} {
		_, err := reg.Register(ctx, alias, "User "+alias, "")
		require.NoError(t, err)
	}

	first := reg.List(ctx)
	second := reg.List(ctx)

	require.Len(t, first, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{first[0].Alias, first[1].Alias, first[2].Alias})
	assert.Equal(t, first, second)

	first[0] = nil
	assert.NotNil(t, reg.List(ctx)[0], "callers must not be able to mutate registry order")
}

// TestUser_Clone tests that clones do not share history
func TestUser_Clone(t *testing.T) {
	u, err := New("lgomez", "Luis Gomez", "")
	require.NoError(t, err)
	u.AddRide(1)

	c := u.Clone()
	c.AddRide(2)
	c.Stats.Total++

	assert.Equal(t, []int{1}, u.Rides)
	assert.Equal(t, 0, u.Stats.Total)
}
