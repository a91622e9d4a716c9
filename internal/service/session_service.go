package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/edumark/gradebook-go-api/internal/dto"
	"github.com/edumark/gradebook-go-api/internal/models"
	"github.com/edumark/gradebook-go-api/internal/observability"
	"github.com/edumark/gradebook-go-api/internal/store"
)

// SessionService is the batch grading state machine: an ordered, pausable
// walk over the roster with a working record per cursor position.
type SessionService interface {
	Initialize(ctx context.Context) (dto.SessionStateResponse, error)
	State(ctx context.Context) dto.SessionStateResponse
	EditWorkingRecord(ctx context.Context, payload dto.GradeRecordRequest) (dto.SessionStateResponse, error)
	Next(ctx context.Context, payload dto.SessionAdvanceRequest) (dto.SessionAdvanceResponse, error)
	Previous(ctx context.Context) (dto.SessionAdvanceResponse, error)
	Pause(ctx context.Context) (dto.SessionStateResponse, error)
	Resume(ctx context.Context) (dto.SessionStateResponse, error)
	Teardown(ctx context.Context)
}

type sessionService struct {
	mu          sync.Mutex
	initialized bool
	paused      bool
	index       int
	working     models.GradeRecord
	hasWorking  bool

	roster    *store.RosterStore
	rubrics   *store.RubricStore
	grades    GradeService
	privacy   PrivacySessionService
	debounce  *autosaveDebouncer
	validator *validator.Validate
	activity  ActivityPublisher
	logger    zerolog.Logger
}

// NewSessionService constructs the session controller and registers its
// teardown with the privacy session so expiry resets the state machine.
func NewSessionService(
	roster *store.RosterStore,
	rubrics *store.RubricStore,
	grades GradeService,
	privacy PrivacySessionService,
	debounceWindow time.Duration,
	validate *validator.Validate,
	activity ActivityPublisher,
	logger zerolog.Logger,
) SessionService {
	s := &sessionService{
		roster:    roster,
		rubrics:   rubrics,
		grades:    grades,
		privacy:   privacy,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "session_service").Logger(),
	}
	s.debounce = newAutosaveDebouncer(debounceWindow, func(studentID string, record models.GradeRecord) {
		// Late-arriving commits after expiry are refused by the gate inside
		// SaveRecord; the expiry clear always wins.
		if err := grades.SaveRecord(context.Background(), studentID, record, models.GradeTypeDraft, true); err != nil {
			s.logger.Warn().Err(err).Str("student_id", studentID).Msg("debounced autosave dropped")
		}
	})
	privacy.RegisterOnExpire(func() { s.reset() })
	return s
}

func (s *sessionService) Initialize(ctx context.Context) (dto.SessionStateResponse, error) {
	if !s.privacy.Active() {
		return dto.SessionStateResponse{}, ErrSessionExpired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.rubrics.Loaded() {
		return s.stateLocked(), ErrNoRubricLoaded
	}
	if s.roster.Len() == 0 {
		return s.stateLocked(), ErrEmptyRoster
	}

	s.initialized = true
	s.paused = false
	s.index = 0
	s.loadWorkingLocked()

	observability.SessionTransitions().WithLabelValues("initialize").Inc()
	s.activity.Publish(ctx, ActivityEvent{Action: "session.started"})
	s.logger.Info().Int("roster_size", s.roster.Len()).Msg("grading session initialized")
	return s.stateLocked(), nil
}

func (s *sessionService) State(ctx context.Context) dto.SessionStateResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// EditWorkingRecord applies an edit to the current student's working record
// and schedules a debounced autosave. Every edit cancels and reschedules the
// pending commit.
func (s *sessionService) EditWorkingRecord(ctx context.Context, payload dto.GradeRecordRequest) (dto.SessionStateResponse, error) {
	if !s.privacy.Active() {
		return dto.SessionStateResponse{}, ErrSessionExpired
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.SessionStateResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return s.stateLocked(), ErrNoActiveSession
	}
	if s.paused {
		return s.stateLocked(), ErrSessionPaused
	}

	student, _ := s.roster.StudentAt(s.index)
	record := payload.ToModel(student.ID)
	record.Attachments = s.working.Attachments
	s.working = record
	s.hasWorking = true

	s.debounce.Schedule(student.ID, record)
	return s.stateLocked(), nil
}

func (s *sessionService) Next(ctx context.Context, payload dto.SessionAdvanceRequest) (dto.SessionAdvanceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SessionAdvanceResponse{}, err
	}
	mode := models.GradeType(payload.SaveMode)
	return s.advance(ctx, mode, +1)
}

// Previous always saves as a draft; moving backwards never finalizes.
func (s *sessionService) Previous(ctx context.Context) (dto.SessionAdvanceResponse, error) {
	return s.advance(ctx, models.GradeTypeDraft, -1)
}

func (s *sessionService) advance(ctx context.Context, mode models.GradeType, direction int) (dto.SessionAdvanceResponse, error) {
	if !s.privacy.Active() {
		return dto.SessionAdvanceResponse{}, ErrSessionExpired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return dto.SessionAdvanceResponse{State: s.stateLocked()}, ErrNoActiveSession
	}
	if s.paused {
		return dto.SessionAdvanceResponse{State: s.stateLocked()}, ErrSessionPaused
	}

	if direction < 0 && s.index == 0 {
		// Already at the first student; nothing saved, nothing moved.
		return dto.SessionAdvanceResponse{Moved: false, State: s.stateLocked()}, nil
	}

	student, _ := s.roster.StudentAt(s.index)
	s.debounce.Cancel()
	record := s.working
	if !s.hasWorking {
		record = models.GradeRecord{StudentID: student.ID}
	}
	if err := s.grades.SaveRecord(ctx, student.ID, record, mode, false); err != nil {
		return dto.SessionAdvanceResponse{State: s.stateLocked()}, err
	}

	if direction > 0 && s.index == s.roster.Len()-1 {
		// Last student: the save happened but the cursor stays put. The
		// caller treats Moved=false as session complete.
		observability.SessionTransitions().WithLabelValues("complete").Inc()
		return dto.SessionAdvanceResponse{Moved: false, State: s.stateLocked()}, nil
	}

	s.index += direction
	s.loadWorkingLocked()
	transition := "next"
	if direction < 0 {
		transition = "previous"
	}
	observability.SessionTransitions().WithLabelValues(transition).Inc()
	return dto.SessionAdvanceResponse{Moved: true, State: s.stateLocked()}, nil
}

func (s *sessionService) Pause(ctx context.Context) (dto.SessionStateResponse, error) {
	if !s.privacy.Active() {
		return dto.SessionStateResponse{}, ErrSessionExpired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return s.stateLocked(), ErrNoActiveSession
	}
	s.paused = true
	observability.SessionTransitions().WithLabelValues("pause").Inc()
	return s.stateLocked(), nil
}

func (s *sessionService) Resume(ctx context.Context) (dto.SessionStateResponse, error) {
	if !s.privacy.Active() {
		return dto.SessionStateResponse{}, ErrSessionExpired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return s.stateLocked(), ErrNoActiveSession
	}
	s.paused = false
	observability.SessionTransitions().WithLabelValues("resume").Inc()
	return s.stateLocked(), nil
}

// Teardown exits session mode and drops the working record. The ledger keeps
// whatever was already saved.
func (s *sessionService) Teardown(ctx context.Context) {
	s.reset()
	observability.SessionTransitions().WithLabelValues("teardown").Inc()
	s.activity.Publish(ctx, ActivityEvent{Action: "session.torn_down"})
}

func (s *sessionService) reset() {
	s.debounce.Cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = false
	s.paused = false
	s.index = 0
	s.working = models.GradeRecord{}
	s.hasWorking = false
}

// loadWorkingLocked primes the working record for the student under the
// cursor from the ledger draft, if one exists.
func (s *sessionService) loadWorkingLocked() {
	student, ok := s.roster.StudentAt(s.index)
	if !ok {
		s.working = models.GradeRecord{}
		s.hasWorking = false
		return
	}
	if draft, found := s.grades.LoadDraftRecord(student.ID); found {
		s.working = draft
		s.hasWorking = true
		return
	}
	s.working = models.GradeRecord{StudentID: student.ID}
	s.hasWorking = false
}

func (s *sessionService) stateLocked() dto.SessionStateResponse {
	state := dto.SessionStateResponse{
		Active:              s.initialized && !s.paused,
		Paused:              s.paused,
		CurrentStudentIndex: s.index,
		RosterSize:          s.roster.Len(),
	}
	if s.initialized {
		if student, ok := s.roster.StudentAt(s.index); ok {
			state.CurrentStudent = &student
		}
	}
	return state
}
