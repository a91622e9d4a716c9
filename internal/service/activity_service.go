package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// ActivityEvent describes one grading workflow event published to the message bus.
type ActivityEvent struct {
	Action    string            `json:"action"`
	StudentID string            `json:"student_id,omitempty"`
	Actor     string            `json:"actor,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	At        time.Time         `json:"at"`
}

// ActivityPublisher emits grading workflow events.
type ActivityPublisher interface {
	Publish(ctx context.Context, event ActivityEvent)
}

type activityPublisher struct {
	nats        *nats.Conn
	subjectBase string
	now         func() time.Time
	logger      zerolog.Logger
}

// NewActivityPublisher builds a NATS-backed publisher. A nil connection makes
// publishing a no-op so the workflow never depends on the bus being up.
func NewActivityPublisher(natsConn *nats.Conn, subjectBase string, logger zerolog.Logger) ActivityPublisher {
	if subjectBase == "" {
		subjectBase = "gradebook.activity"
	}
	return &activityPublisher{
		nats:        natsConn,
		subjectBase: subjectBase,
		now:         time.Now,
		logger:      logger.With().Str("component", "activity_publisher").Logger(),
	}
}

func (p *activityPublisher) Publish(ctx context.Context, event ActivityEvent) {
	if p.nats == nil {
		return
	}
	if event.At.IsZero() {
		event.At = p.now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn().Err(err).Str("action", event.Action).Msg("failed to encode activity event")
		return
	}

	subject := p.subjectBase + "." + event.Action
	if err := p.nats.Publish(subject, payload); err != nil {
		p.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish activity event")
	}
}
