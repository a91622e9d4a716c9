package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/edumark/gradebook-go-api/internal/models"
)

// ErrPolicyNotFound indicates an unknown late policy id.
var ErrPolicyNotFound = errors.New("late policy not found")

// ErrInvalidLatePolicy indicates a policy missing its mandatory "none" level.
var ErrInvalidLatePolicy = errors.New("invalid late policy")

// LatePolicyRegistry holds the built-in default late policy plus any number of
// custom policies, and tracks which one is current.
type LatePolicyRegistry struct {
	mu        sync.RWMutex
	policies  map[string]models.LatePolicy
	currentID string
	logger    zerolog.Logger
}

// NewLatePolicyRegistry constructs a registry seeded with the default policy
// as current.
func NewLatePolicyRegistry(logger zerolog.Logger) *LatePolicyRegistry {
	def := models.DefaultLatePolicy()
	return &LatePolicyRegistry{
		policies:  map[string]models.LatePolicy{def.ID: def},
		currentID: def.ID,
		logger:    logger.With().Str("component", "late_policy_registry").Logger(),
	}
}

// Upsert validates and stores a policy. Policies must carry a "none" level
// with multiplier 1.0 as fallback.
func (r *LatePolicyRegistry) Upsert(policy models.LatePolicy) error {
	if policy.ID == "" {
		return fmt.Errorf("%w: id must not be empty", ErrInvalidLatePolicy)
	}
	noneLevel, ok := policy.Levels[models.LateLevelNone]
	if !ok {
		return fmt.Errorf("%w: missing %q level", ErrInvalidLatePolicy, models.LateLevelNone)
	}
	if noneLevel.Multiplier != 1.0 {
		return fmt.Errorf("%w: %q level multiplier must be 1.0", ErrInvalidLatePolicy, models.LateLevelNone)
	}
	for key, level := range policy.Levels {
		if level.Multiplier < 0 || level.Multiplier > 1 {
			return fmt.Errorf("%w: level %q multiplier out of range", ErrInvalidLatePolicy, key)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.policies[policy.ID] = policy.Clone()
	return nil
}

// SetCurrent switches the current policy.
func (r *LatePolicyRegistry) SetCurrent(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.policies[id]; !ok {
		return fmt.Errorf("%w: %q", ErrPolicyNotFound, id)
	}
	r.currentID = id
	return nil
}

// Current returns a copy of the current policy.
func (r *LatePolicyRegistry) Current() models.LatePolicy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.policies[r.currentID].Clone()
}

// Get returns the policy with the given id.
func (r *LatePolicyRegistry) Get(id string) (models.LatePolicy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	policy, ok := r.policies[id]
	if !ok {
		return models.LatePolicy{}, false
	}
	return policy.Clone(), true
}

// List returns all policies in no particular order.
func (r *LatePolicyRegistry) List() []models.LatePolicy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.LatePolicy, 0, len(r.policies))
	for _, policy := range r.policies {
		out = append(out, policy.Clone())
	}
	return out
}

// Reset restores the registry to just the default policy.
func (r *LatePolicyRegistry) Reset() {
	def := models.DefaultLatePolicy()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.policies = map[string]models.LatePolicy{def.ID: def}
	r.currentID = def.ID
}
