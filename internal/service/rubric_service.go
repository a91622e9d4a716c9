package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/edumark/gradebook-go-api/internal/dto"
	"github.com/edumark/gradebook-go-api/internal/models"
	"github.com/edumark/gradebook-go-api/internal/store"
)

// rubricSchema is the wire contract for rubric documents supplied by the
// authoring tool. Structural invariants beyond its reach (unique ids,
// ascending multipliers) are enforced by the store.
const rubricSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["assignment_info", "levels", "criteria"],
  "properties": {
    "assignment_info": {
      "type": "object",
      "required": ["title"],
      "properties": {
        "title": {"type": "string", "minLength": 1},
        "description": {"type": "string"},
        "weight": {"type": "number", "minimum": 0, "maximum": 100},
        "passing_threshold": {"type": "number", "minimum": 0, "maximum": 100},
        "total_points": {"type": "number", "minimum": 0}
      }
    },
    "levels": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["key", "name", "multiplier"],
        "properties": {
          "key": {"type": "string", "minLength": 1},
          "name": {"type": "string", "minLength": 1},
          "multiplier": {"type": "number", "minimum": 0, "maximum": 1},
          "color": {"type": "string"}
        }
      }
    },
    "criteria": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "name", "max_points"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string", "minLength": 1},
          "max_points": {"type": "number", "minimum": 0},
          "level_detail": {"type": "object"}
        }
      }
    }
  }
}`

// RubricService loads and exposes the rubric definition.
type RubricService interface {
	Load(ctx context.Context, raw []byte) (dto.RubricResponse, error)
	Get(ctx context.Context) (dto.RubricResponse, error)
}

type rubricService struct {
	rubrics   *store.RubricStore
	privacy   PrivacySessionService
	validator *validator.Validate
	schema    *jsonschema.Schema
	activity  ActivityPublisher
	logger    zerolog.Logger
	now       func() time.Time

	mu       sync.RWMutex
	loadedAt time.Time
}

// NewRubricService constructs the rubric service. The embedded schema is
// compiled once at startup.
func NewRubricService(rubrics *store.RubricStore, privacy PrivacySessionService, validate *validator.Validate, activity ActivityPublisher, logger zerolog.Logger) RubricService {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("rubric.schema.json", strings.NewReader(rubricSchema)); err != nil {
		panic(err)
	}
	return &rubricService{
		rubrics:   rubrics,
		privacy:   privacy,
		validator: validate,
		schema:    compiler.MustCompile("rubric.schema.json"),
		activity:  activity,
		logger:    logger.With().Str("component", "rubric_service").Logger(),
		now:       time.Now,
	}
}

func (s *rubricService) Load(ctx context.Context, raw []byte) (dto.RubricResponse, error) {
	if !s.privacy.Active() {
		return dto.RubricResponse{}, ErrSessionExpired
	}

	var document interface{}
	if err := json.Unmarshal(raw, &document); err != nil {
		return dto.RubricResponse{}, fmt.Errorf("%w: %v", store.ErrInvalidRubricFormat, err)
	}
	if err := s.schema.Validate(document); err != nil {
		return dto.RubricResponse{}, fmt.Errorf("%w: %v", store.ErrInvalidRubricFormat, err)
	}

	var def models.RubricDefinition
	if err := json.Unmarshal(raw, &def); err != nil {
		return dto.RubricResponse{}, fmt.Errorf("%w: %v", store.ErrInvalidRubricFormat, err)
	}
	if err := s.validator.Struct(def); err != nil {
		return dto.RubricResponse{}, fmt.Errorf("%w: %v", store.ErrInvalidRubricFormat, err)
	}

	if err := s.rubrics.Load(def); err != nil {
		return dto.RubricResponse{}, err
	}

	loadedAt := s.now()
	s.mu.Lock()
	s.loadedAt = loadedAt
	s.mu.Unlock()

	current, _ := s.rubrics.Get()
	s.logger.Info().
		Str("assignment", current.AssignmentInfo.Title).
		Float64("total_points", current.AssignmentInfo.TotalPoints).
		Int("criteria", len(current.Criteria)).
		Msg("rubric loaded")
	s.activity.Publish(ctx, ActivityEvent{Action: "rubric.loaded", Metadata: map[string]string{
		"assignment": current.AssignmentInfo.Title,
	}})

	return dto.NewRubricResponse(current, loadedAt), nil
}

func (s *rubricService) Get(ctx context.Context) (dto.RubricResponse, error) {
	current, ok := s.rubrics.Get()
	if !ok {
		return dto.RubricResponse{}, ErrNoRubricLoaded
	}
	s.mu.RLock()
	loadedAt := s.loadedAt
	s.mu.RUnlock()
	return dto.NewRubricResponse(current, loadedAt), nil
}
