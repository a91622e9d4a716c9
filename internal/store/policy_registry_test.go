package store

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/edumark/gradebook-go-api/internal/models"
)

func weekendPolicy() models.LatePolicy {
	return models.LatePolicy{
		ID:   "weekend",
		Name: "Weekend Grace",
		Levels: map[string]models.LateLevel{
			models.LateLevelNone: {Name: "On Time", Multiplier: 1.0},
			"weekend":            {Name: "Weekend", Multiplier: 0.9},
		},
	}
}

func TestLatePolicyRegistrySeedsDefault(t *testing.T) {
	registry := NewLatePolicyRegistry(zerolog.Nop())

	current := registry.Current()
	require.Equal(t, models.DefaultLatePolicyID, current.ID)
	require.True(t, current.HasLevel(models.LateLevelNone))
	require.InDelta(t, 0.8, current.Levels["within24"].Multiplier, 1e-9)
	require.Len(t, registry.List(), 1)
}

func TestLatePolicyRegistryUpsertAndSwitch(t *testing.T) {
	registry := NewLatePolicyRegistry(zerolog.Nop())

	require.NoError(t, registry.Upsert(weekendPolicy()))
	require.Len(t, registry.List(), 2)

	require.NoError(t, registry.SetCurrent("weekend"))
	require.Equal(t, "weekend", registry.Current().ID)

	stored, ok := registry.Get("weekend")
	require.True(t, ok)
	require.InDelta(t, 0.9, stored.Levels["weekend"].Multiplier, 1e-9)
}

func TestLatePolicyRegistryUpsertValidation(t *testing.T) {
	registry := NewLatePolicyRegistry(zerolog.Nop())

	missingID := weekendPolicy()
	missingID.ID = ""
	require.ErrorIs(t, registry.Upsert(missingID), ErrInvalidLatePolicy)

	noNone := weekendPolicy()
	delete(noNone.Levels, models.LateLevelNone)
	require.ErrorIs(t, registry.Upsert(noNone), ErrInvalidLatePolicy)

	badNone := weekendPolicy()
	badNone.Levels[models.LateLevelNone] = models.LateLevel{Name: "On Time", Multiplier: 0.95}
	require.ErrorIs(t, registry.Upsert(badNone), ErrInvalidLatePolicy)

	outOfRange := weekendPolicy()
	outOfRange.Levels["weekend"] = models.LateLevel{Name: "Weekend", Multiplier: 1.5}
	require.ErrorIs(t, registry.Upsert(outOfRange), ErrInvalidLatePolicy)
}

func TestLatePolicyRegistrySetCurrentUnknown(t *testing.T) {
	registry := NewLatePolicyRegistry(zerolog.Nop())

	require.ErrorIs(t, registry.SetCurrent("ghost"), ErrPolicyNotFound)
	require.Equal(t, models.DefaultLatePolicyID, registry.Current().ID)
}

func TestLatePolicyRegistryReset(t *testing.T) {
	registry := NewLatePolicyRegistry(zerolog.Nop())
	require.NoError(t, registry.Upsert(weekendPolicy()))
	require.NoError(t, registry.SetCurrent("weekend"))

	registry.Reset()

	require.Equal(t, models.DefaultLatePolicyID, registry.Current().ID)
	require.Len(t, registry.List(), 1)
}

func TestLatePolicyRegistryCopySemantics(t *testing.T) {
	registry := NewLatePolicyRegistry(zerolog.Nop())
	policy := weekendPolicy()
	require.NoError(t, registry.Upsert(policy))

	policy.Levels["weekend"] = models.LateLevel{Name: "Weekend", Multiplier: 0.1}

	stored, _ := registry.Get("weekend")
	require.InDelta(t, 0.9, stored.Levels["weekend"].Multiplier, 1e-9)
}
