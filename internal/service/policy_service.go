package service

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/edumark/gradebook-go-api/internal/dto"
	"github.com/edumark/gradebook-go-api/internal/models"
	"github.com/edumark/gradebook-go-api/internal/store"
)

// LatePolicyService manages the configurable late policy registry.
type LatePolicyService interface {
	List(ctx context.Context) (dto.LatePoliciesResponse, error)
	Create(ctx context.Context, payload dto.LatePolicyCreateRequest) (dto.LatePoliciesResponse, error)
	SetCurrent(ctx context.Context, payload dto.SetCurrentPolicyRequest) (dto.LatePoliciesResponse, error)
	Reset(ctx context.Context) (dto.LatePoliciesResponse, error)
	Current(ctx context.Context) models.LatePolicy
}

type latePolicyService struct {
	registry  *store.LatePolicyRegistry
	privacy   PrivacySessionService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewLatePolicyService constructs the policy service.
func NewLatePolicyService(registry *store.LatePolicyRegistry, privacy PrivacySessionService, validate *validator.Validate, logger zerolog.Logger) LatePolicyService {
	return &latePolicyService{
		registry:  registry,
		privacy:   privacy,
		validator: validate,
		logger:    logger.With().Str("component", "late_policy_service").Logger(),
	}
}

func (s *latePolicyService) List(ctx context.Context) (dto.LatePoliciesResponse, error) {
	return s.snapshot(), nil
}

func (s *latePolicyService) Create(ctx context.Context, payload dto.LatePolicyCreateRequest) (dto.LatePoliciesResponse, error) {
	if !s.privacy.Active() {
		return dto.LatePoliciesResponse{}, ErrSessionExpired
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.LatePoliciesResponse{}, err
	}
	if err := s.registry.Upsert(payload.ToModel()); err != nil {
		return dto.LatePoliciesResponse{}, err
	}
	s.logger.Info().Str("policy_id", payload.ID).Msg("late policy registered")
	return s.snapshot(), nil
}

func (s *latePolicyService) SetCurrent(ctx context.Context, payload dto.SetCurrentPolicyRequest) (dto.LatePoliciesResponse, error) {
	if !s.privacy.Active() {
		return dto.LatePoliciesResponse{}, ErrSessionExpired
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.LatePoliciesResponse{}, err
	}
	if err := s.registry.SetCurrent(payload.ID); err != nil {
		return dto.LatePoliciesResponse{}, err
	}
	s.logger.Info().Str("policy_id", payload.ID).Msg("current late policy switched")
	return s.snapshot(), nil
}

// Reset discards all custom policies and returns to the built-in default.
// Policies survive privacy expiry (they hold no student data), so this is the
// only way to clear them short of a restart.
func (s *latePolicyService) Reset(ctx context.Context) (dto.LatePoliciesResponse, error) {
	if !s.privacy.Active() {
		return dto.LatePoliciesResponse{}, ErrSessionExpired
	}
	s.registry.Reset()
	s.logger.Info().Msg("late policy registry reset to default")
	return s.snapshot(), nil
}

func (s *latePolicyService) Current(ctx context.Context) models.LatePolicy {
	return s.registry.Current()
}

func (s *latePolicyService) snapshot() dto.LatePoliciesResponse {
	policies := s.registry.List()
	sort.Slice(policies, func(i, j int) bool { return policies[i].ID < policies[j].ID })
	return dto.LatePoliciesResponse{
		CurrentID: s.registry.Current().ID,
		Policies:  policies,
	}
}

// latePolicyFile is the YAML shape for preloading custom policies at startup.
type latePolicyFile struct {
	Current  string              `yaml:"current"`
	Policies []latePolicyFileDef `yaml:"policies"`
}

type latePolicyFileDef struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Levels map[string]struct {
		Name        string  `yaml:"name"`
		Multiplier  float64 `yaml:"multiplier"`
		Description string  `yaml:"description"`
	} `yaml:"levels"`
}

// LoadLatePoliciesFile reads custom late policies from a YAML file into the
// registry. Missing path is not an error; the built-in default always exists.
func LoadLatePoliciesFile(registry *store.LatePolicyRegistry, path string, logger zerolog.Logger) error {
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read late policy file: %w", err)
	}

	var file latePolicyFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("failed to parse late policy file: %w", err)
	}

	for _, def := range file.Policies {
		levels := make(map[string]models.LateLevel, len(def.Levels))
		for key, level := range def.Levels {
			levels[key] = models.LateLevel{Name: level.Name, Multiplier: level.Multiplier, Description: level.Description}
		}
		policy := models.LatePolicy{ID: def.ID, Name: def.Name, Levels: levels}
		if err := registry.Upsert(policy); err != nil {
			return fmt.Errorf("policy %q: %w", def.ID, err)
		}
		logger.Info().Str("policy_id", def.ID).Msg("late policy loaded from file")
	}

	if file.Current != "" {
		if err := registry.SetCurrent(file.Current); err != nil {
			return err
		}
	}
	return nil
}
