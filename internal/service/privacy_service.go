package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/edumark/gradebook-go-api/internal/dto"
	"github.com/edumark/gradebook-go-api/internal/observability"
)

// Clearer is implemented by every component whose working state the privacy
// session erases on expiry.
type Clearer interface {
	Clear()
}

// PrivacySessionService bounds the lifetime of all grading state. On expiry
// every registered component is cleared in one atomic step and mutating calls
// are refused until a new session is started.
type PrivacySessionService interface {
	Start(ctx context.Context) dto.PrivacySessionResponse
	Extend(ctx context.Context) (dto.PrivacySessionResponse, error)
	Status(ctx context.Context) dto.PrivacySessionResponse
	Active() bool
	Sweep()
	Shutdown()
	RegisterOnExpire(fn func())
}

type privacySessionService struct {
	mu       sync.Mutex
	duration time.Duration
	startAt  time.Time
	active   bool
	timer    *time.Timer
	clearers []Clearer
	onExpire []func()
	now      func() time.Time
	logger   zerolog.Logger
}

// NewPrivacySessionService constructs the service and starts the first
// session immediately.
func NewPrivacySessionService(duration time.Duration, clearers []Clearer, logger zerolog.Logger) PrivacySessionService {
	s := &privacySessionService{
		duration: duration,
		clearers: clearers,
		now:      time.Now,
		logger:   logger.With().Str("component", "privacy_session").Logger(),
	}
	s.Start(context.Background())
	return s
}

// RegisterOnExpire adds a callback run after the stores are cleared. Used for
// components constructed after the privacy service, such as the grading
// session controller and the autosave debouncer.
func (s *privacySessionService) RegisterOnExpire(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpire = append(s.onExpire, fn)
}

func (s *privacySessionService) Start(ctx context.Context) dto.PrivacySessionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.startAt = s.now()
	s.active = true
	s.rescheduleLocked()
	s.logger.Info().Dur("duration", s.duration).Msg("privacy session started")
	return s.statusLocked()
}

func (s *privacySessionService) Extend(ctx context.Context) (dto.PrivacySessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expireLocked() {
		return s.statusLocked(), ErrSessionExpired
	}

	s.startAt = s.now()
	s.rescheduleLocked()
	s.logger.Info().Msg("privacy session extended")
	return s.statusLocked(), nil
}

func (s *privacySessionService) Status(ctx context.Context) dto.PrivacySessionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()
	return s.statusLocked()
}

// Active reports whether mutating calls are currently allowed. Expiry is also
// detected lazily here so a stopped timer cannot leave a stale session open.
func (s *privacySessionService) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.expireLocked() && s.active
}

// Sweep forces an expiry check. Scheduled periodically alongside the timer as
// a safety net, and purely observational while the session is live.
func (s *privacySessionService) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expireLocked() {
		return
	}
	if s.active {
		s.logger.Debug().Int64("remaining_ms", s.remainingLocked().Milliseconds()).Msg("privacy session sweep")
	}
}

// Shutdown stops the expiry timer without clearing state.
func (s *privacySessionService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *privacySessionService) remainingLocked() time.Duration {
	if !s.active {
		return 0
	}
	remaining := s.duration - s.now().Sub(s.startAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *privacySessionService) statusLocked() dto.PrivacySessionResponse {
	return dto.PrivacySessionResponse{
		Active:      s.active,
		StartedAt:   s.startAt.UnixMilli(),
		DurationMS:  s.duration.Milliseconds(),
		RemainingMS: s.remainingLocked().Milliseconds(),
	}
}

func (s *privacySessionService) rescheduleLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.duration, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.expireLocked()
	})
}

// expireLocked clears all registered state once the deadline has passed.
// Returns true when the session is expired. The clear is irreversible.
func (s *privacySessionService) expireLocked() bool {
	if !s.active {
		return true
	}
	if s.now().Sub(s.startAt) < s.duration {
		return false
	}

	s.active = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	for _, clearer := range s.clearers {
		clearer.Clear()
	}
	// Callbacks run detached: expiry can be detected from inside a call that
	// already holds a subscriber's lock, so invoking them inline could deadlock.
	for _, fn := range s.onExpire {
		go fn()
	}
	observability.PrivacyExpiries().Inc()
	s.logger.Warn().Msg("privacy session expired, all grading state cleared")
	return true
}
