package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/edumark/gradebook-go-api/internal/dto"
	"github.com/edumark/gradebook-go-api/internal/store"
)

// RosterService imports and exposes the class roster. The importer supplies
// already-parsed students; reading spreadsheets is its problem, not ours.
type RosterService interface {
	Import(ctx context.Context, payload dto.RosterImportRequest) (dto.RosterResponse, error)
	Get(ctx context.Context) (dto.RosterResponse, error)
}

type rosterService struct {
	roster    *store.RosterStore
	privacy   PrivacySessionService
	validator *validator.Validate
	activity  ActivityPublisher
	logger    zerolog.Logger
}

// NewRosterService constructs the roster service.
func NewRosterService(roster *store.RosterStore, privacy PrivacySessionService, validate *validator.Validate, activity ActivityPublisher, logger zerolog.Logger) RosterService {
	return &rosterService{
		roster:    roster,
		privacy:   privacy,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "roster_service").Logger(),
	}
}

func (s *rosterService) Import(ctx context.Context, payload dto.RosterImportRequest) (dto.RosterResponse, error) {
	if !s.privacy.Active() {
		return dto.RosterResponse{}, ErrSessionExpired
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.RosterResponse{}, err
	}

	students := payload.ToModels()
	s.roster.Import(students, payload.Metadata)

	s.logger.Info().
		Int("students", len(students)).
		Str("course", payload.Metadata.CourseName).
		Msg("roster imported")
	s.activity.Publish(ctx, ActivityEvent{Action: "roster.imported", Metadata: map[string]string{
		"course": payload.Metadata.CourseName,
	}})

	return s.snapshot(), nil
}

func (s *rosterService) Get(ctx context.Context) (dto.RosterResponse, error) {
	return s.snapshot(), nil
}

func (s *rosterService) snapshot() dto.RosterResponse {
	students := s.roster.Students()
	return dto.RosterResponse{
		Students: students,
		Progress: s.roster.Progress(),
		Metadata: s.roster.Metadata(),
		Count:    len(students),
	}
}
