package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/edumark/gradebook-go-api/internal/models"
)

// ErrInvalidRubricFormat indicates a rubric document missing required sections
// or violating structural invariants. The previous rubric is kept on rejection.
var ErrInvalidRubricFormat = errors.New("invalid rubric format")

// RubricStore holds at most one rubric definition with replace-whole-object
// semantics. Session-scoped: state lives in memory only.
type RubricStore struct {
	mu      sync.RWMutex
	current *models.RubricDefinition
}

// NewRubricStore constructs an empty rubric store.
func NewRubricStore() *RubricStore {
	return &RubricStore{}
}

// Load validates and installs a new rubric, recomputing the total points from
// the criteria. On validation failure the previously loaded rubric is untouched.
func (s *RubricStore) Load(def models.RubricDefinition) error {
	if err := validateRubric(def); err != nil {
		return err
	}

	replacement := def.Clone()
	replacement.RecomputeTotalPoints()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &replacement
	return nil
}

// Get returns a copy of the current rubric, or false when none is loaded.
func (s *RubricStore) Get() (models.RubricDefinition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.RubricDefinition{}, false
	}
	return s.current.Clone(), true
}

// Loaded reports whether a rubric is present.
func (s *RubricStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Clear drops the rubric. Used by the privacy session expiry.
func (s *RubricStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

func validateRubric(def models.RubricDefinition) error {
	if def.AssignmentInfo.Title == "" {
		return fmt.Errorf("%w: assignment info is missing", ErrInvalidRubricFormat)
	}
	if len(def.Levels) == 0 {
		return fmt.Errorf("%w: levels are missing", ErrInvalidRubricFormat)
	}
	if len(def.Criteria) == 0 {
		return fmt.Errorf("%w: criteria are missing", ErrInvalidRubricFormat)
	}

	seenLevels := make(map[string]struct{}, len(def.Levels))
	previous := -1.0
	for _, level := range def.Levels {
		if level.Key == "" {
			return fmt.Errorf("%w: level key must not be empty", ErrInvalidRubricFormat)
		}
		if _, dup := seenLevels[level.Key]; dup {
			return fmt.Errorf("%w: duplicate level key %q", ErrInvalidRubricFormat, level.Key)
		}
		seenLevels[level.Key] = struct{}{}
		if level.Multiplier < 0 || level.Multiplier > 1 {
			return fmt.Errorf("%w: level %q multiplier out of range", ErrInvalidRubricFormat, level.Key)
		}
		if level.Multiplier < previous {
			return fmt.Errorf("%w: level multipliers must be ascending", ErrInvalidRubricFormat)
		}
		previous = level.Multiplier
	}

	seenCriteria := make(map[string]struct{}, len(def.Criteria))
	for _, criterion := range def.Criteria {
		if criterion.ID == "" {
			return fmt.Errorf("%w: criterion id must not be empty", ErrInvalidRubricFormat)
		}
		if _, dup := seenCriteria[criterion.ID]; dup {
			return fmt.Errorf("%w: duplicate criterion id %q", ErrInvalidRubricFormat, criterion.ID)
		}
		seenCriteria[criterion.ID] = struct{}{}
		if criterion.MaxPoints < 0 {
			return fmt.Errorf("%w: criterion %q max points must not be negative", ErrInvalidRubricFormat, criterion.ID)
		}
	}

	return nil
}
