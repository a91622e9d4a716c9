package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/edumark/gradebook-go-api/internal/dto"
	"github.com/edumark/gradebook-go-api/internal/models"
	"github.com/edumark/gradebook-go-api/internal/store"
)

func newPolicyService(t *testing.T) (LatePolicyService, *store.LatePolicyRegistry) {
	t.Helper()
	registry := store.NewLatePolicyRegistry(zerolog.Nop())
	privacy := NewPrivacySessionService(time.Hour, nil, zerolog.Nop())
	t.Cleanup(privacy.Shutdown)
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewLatePolicyService(registry, privacy, validate, zerolog.Nop()), registry
}

func TestPolicyServiceListIncludesDefault(t *testing.T) {
	svc, _ := newPolicyService(t)

	response, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, models.DefaultLatePolicyID, response.CurrentID)
	require.Len(t, response.Policies, 1)
}

func TestPolicyServiceCreateAndSwitch(t *testing.T) {
	svc, registry := newPolicyService(t)
	ctx := context.Background()

	create := dto.LatePolicyCreateRequest{
		ID:   "strict",
		Name: "Strict",
		Levels: map[string]dto.LateLevelPayload{
			models.LateLevelNone: {Name: "On Time", Multiplier: 1.0},
			"any_late":           {Name: "Any Lateness", Multiplier: 0.5},
		},
	}
	response, err := svc.Create(ctx, create)
	require.NoError(t, err)
	require.Len(t, response.Policies, 2)

	response, err = svc.SetCurrent(ctx, dto.SetCurrentPolicyRequest{ID: "strict"})
	require.NoError(t, err)
	require.Equal(t, "strict", response.CurrentID)
	require.Equal(t, "strict", registry.Current().ID)
	require.Equal(t, "strict", svc.Current(ctx).ID)
}

func TestPolicyServiceCreateRejectsMissingNoneLevel(t *testing.T) {
	svc, _ := newPolicyService(t)

	create := dto.LatePolicyCreateRequest{
		ID: "broken",
		Levels: map[string]dto.LateLevelPayload{
			"any_late": {Name: "Any Lateness", Multiplier: 0.5},
		},
	}
	_, err := svc.Create(context.Background(), create)
	require.ErrorIs(t, err, store.ErrInvalidLatePolicy)
}

func TestPolicyServiceSetCurrentUnknown(t *testing.T) {
	svc, _ := newPolicyService(t)

	_, err := svc.SetCurrent(context.Background(), dto.SetCurrentPolicyRequest{ID: "ghost"})
	require.ErrorIs(t, err, store.ErrPolicyNotFound)
}

func TestPolicyServiceResetRestoresDefault(t *testing.T) {
	svc, registry := newPolicyService(t)
	ctx := context.Background()

	create := dto.LatePolicyCreateRequest{
		ID:   "strict",
		Name: "Strict",
		Levels: map[string]dto.LateLevelPayload{
			models.LateLevelNone: {Name: "On Time", Multiplier: 1.0},
			"any_late":           {Name: "Any Lateness", Multiplier: 0.5},
		},
	}
	_, err := svc.Create(ctx, create)
	require.NoError(t, err)
	_, err = svc.SetCurrent(ctx, dto.SetCurrentPolicyRequest{ID: "strict"})
	require.NoError(t, err)

	response, err := svc.Reset(ctx)
	require.NoError(t, err)
	require.Equal(t, models.DefaultLatePolicyID, response.CurrentID)
	require.Len(t, response.Policies, 1)
	require.Equal(t, models.DefaultLatePolicyID, registry.Current().ID)
}

func TestLoadLatePoliciesFile(t *testing.T) {
	registry := store.NewLatePolicyRegistry(zerolog.Nop())

	path := filepath.Join(t.TempDir(), "policies.yaml")
	content := `current: generous
policies:
  - id: generous
    name: Generous Policy
    levels:
      none:
        name: On Time
        multiplier: 1.0
      within48:
        name: Within 48 Hours
        multiplier: 0.9
        description: Two-day grace window
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	require.NoError(t, LoadLatePoliciesFile(registry, path, zerolog.Nop()))

	require.Equal(t, "generous", registry.Current().ID)
	policy, ok := registry.Get("generous")
	require.True(t, ok)
	require.InDelta(t, 0.9, policy.Levels["within48"].Multiplier, 1e-9)
	require.Equal(t, "Two-day grace window", policy.Levels["within48"].Description)
}

func TestLoadLatePoliciesFileEmptyPath(t *testing.T) {
	registry := store.NewLatePolicyRegistry(zerolog.Nop())
	require.NoError(t, LoadLatePoliciesFile(registry, "", zerolog.Nop()))
	require.Equal(t, models.DefaultLatePolicyID, registry.Current().ID)
}

func TestLoadLatePoliciesFileRejectsInvalidPolicy(t *testing.T) {
	registry := store.NewLatePolicyRegistry(zerolog.Nop())

	path := filepath.Join(t.TempDir(), "policies.yaml")
	content := `policies:
  - id: broken
    levels:
      slightly_late:
        name: Slightly Late
        multiplier: 0.9
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	require.ErrorIs(t, LoadLatePoliciesFile(registry, path, zerolog.Nop()), store.ErrInvalidLatePolicy)
}
