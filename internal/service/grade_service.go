package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/edumark/gradebook-go-api/internal/dto"
	"github.com/edumark/gradebook-go-api/internal/grading"
	"github.com/edumark/gradebook-go-api/internal/models"
	"github.com/edumark/gradebook-go-api/internal/observability"
	"github.com/edumark/gradebook-go-api/internal/store"
)

// allowedAttachmentTypes lists the content types accepted on grade records.
var allowedAttachmentTypes = map[string]struct{}{
	"application/pdf": {},
	"application/zip": {},
	"image/png":       {},
	"image/jpeg":      {},
	"text/plain":      {},
}

// SummaryInvalidator drops cached class aggregates after a ledger write.
type SummaryInvalidator interface {
	Invalidate(ctx context.Context)
}

// GradeService owns the draft/final grade ledger workflow: saves, status
// transitions, unlock, scoring, and attachments.
type GradeService interface {
	LoadDraft(ctx context.Context, studentID string) (dto.GradeRecordResponse, error)
	LoadDraftRecord(studentID string) (models.GradeRecord, bool)
	SaveDraft(ctx context.Context, studentID string, payload dto.GradeRecordRequest) (dto.GradeRecordResponse, error)
	SaveFinal(ctx context.Context, studentID string, payload dto.GradeRecordRequest) (dto.GradeRecordResponse, error)
	SaveRecord(ctx context.Context, studentID string, record models.GradeRecord, mode models.GradeType, autosave bool) error
	Unlock(ctx context.Context, studentID string) (dto.GradeRecordResponse, error)
	Status(ctx context.Context, studentID string) dto.GradeStatusResponse
	Score(ctx context.Context, studentID string) (dto.ScoreResponse, error)
	AddAttachment(ctx context.Context, studentID, fileName string, content []byte) (dto.AttachmentResponse, error)
}

type gradeService struct {
	ledger    *store.GradeLedger
	roster    *store.RosterStore
	rubrics   *store.RubricStore
	policies  *store.LatePolicyRegistry
	engine    *grading.Engine
	privacy   PrivacySessionService
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	activity  ActivityPublisher
	summary   SummaryInvalidator
	tracer    trace.Tracer
	logger    zerolog.Logger
	now       func() time.Time
}

// NewGradeService constructs the grade service.
func NewGradeService(
	ledger *store.GradeLedger,
	roster *store.RosterStore,
	rubrics *store.RubricStore,
	policies *store.LatePolicyRegistry,
	engine *grading.Engine,
	privacy PrivacySessionService,
	validate *validator.Validate,
	activity ActivityPublisher,
	summary SummaryInvalidator,
	logger zerolog.Logger,
) GradeService {
	return &gradeService{
		ledger:    ledger,
		roster:    roster,
		rubrics:   rubrics,
		policies:  policies,
		engine:    engine,
		privacy:   privacy,
		validator: validate,
		sanitizer: bluemonday.UGCPolicy(),
		activity:  activity,
		summary:   summary,
		tracer:    otel.Tracer("github.com/edumark/gradebook-go-api/internal/service/grade"),
		logger:    logger.With().Str("component", "grade_service").Logger(),
		now:       time.Now,
	}
}

func (s *gradeService) LoadDraft(ctx context.Context, studentID string) (dto.GradeRecordResponse, error) {
	record, ok := s.ledger.Draft(studentID)
	if !ok {
		return dto.GradeRecordResponse{}, store.ErrGradeNotFound
	}
	return dto.NewGradeRecordResponse(record, s.ledger.Status(studentID)), nil
}

// LoadDraftRecord is the raw draft lookup used by the session controller to
// prime its working record.
func (s *gradeService) LoadDraftRecord(studentID string) (models.GradeRecord, bool) {
	return s.ledger.Draft(studentID)
}

func (s *gradeService) SaveDraft(ctx context.Context, studentID string, payload dto.GradeRecordRequest) (dto.GradeRecordResponse, error) {
	return s.save(ctx, studentID, payload, models.GradeTypeDraft)
}

func (s *gradeService) SaveFinal(ctx context.Context, studentID string, payload dto.GradeRecordRequest) (dto.GradeRecordResponse, error) {
	return s.save(ctx, studentID, payload, models.GradeTypeFinal)
}

func (s *gradeService) save(ctx context.Context, studentID string, payload dto.GradeRecordRequest, mode models.GradeType) (dto.GradeRecordResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GradeRecordResponse{}, err
	}

	record := payload.ToModel(studentID)
	if existing, ok := s.ledger.Draft(studentID); ok {
		// Attachments are managed through their own endpoint; a record save
		// must not drop them.
		record.Attachments = existing.Attachments
	}

	if err := s.SaveRecord(ctx, studentID, record, mode, false); err != nil {
		return dto.GradeRecordResponse{}, err
	}
	saved, _, _ := s.ledger.Best(studentID)
	return dto.NewGradeRecordResponse(saved, s.ledger.Status(studentID)), nil
}

// SaveRecord persists a record into the ledger. It is the single write path
// shared by the HTTP surface, the grading session controller, and the
// debounced autosave; autosave writes mark progress in_progress instead of
// completed_draft.
func (s *gradeService) SaveRecord(ctx context.Context, studentID string, record models.GradeRecord, mode models.GradeType, autosave bool) error {
	ctx, span := s.tracer.Start(ctx, "ledger.save", trace.WithAttributes(
		attribute.String("grading.student_id", studentID),
		attribute.String("grading.mode", string(mode)),
		attribute.Bool("grading.autosave", autosave),
	))
	defer span.End()

	if !s.privacy.Active() {
		span.SetStatus(codes.Error, "session_expired")
		observability.GradingOps().WithLabelValues("save_"+string(mode), "expired").Inc()
		return ErrSessionExpired
	}

	rubric, ok := s.rubrics.Get()
	if !ok {
		span.SetStatus(codes.Error, "no_rubric")
		return ErrNoRubricLoaded
	}
	if _, found := s.roster.ProgressFor(studentID); !found {
		span.SetStatus(codes.Error, "student_not_found")
		return fmt.Errorf("%w: %s", ErrStudentNotFound, studentID)
	}
	for criterionID := range record.RubricGrading {
		if !rubric.HasCriterion(criterionID) {
			span.SetStatus(codes.Error, "unknown_criterion")
			return fmt.Errorf("%w: %s", ErrUnknownCriterion, criterionID)
		}
	}

	s.sanitizeRecord(&record)
	record.Metadata.UpdatedAt = s.now()

	switch mode {
	case models.GradeTypeFinal:
		gradedAt := s.now()
		record.Metadata.GradedDate = &gradedAt
		s.ledger.SaveFinal(studentID, record)
		s.roster.SetProgress(studentID, models.ProgressCompletedFinal, mode, gradedAt)
		s.publish(ctx, "grading.finalized", studentID)
	default:
		s.ledger.SaveDraft(studentID, record)
		status := models.ProgressCompletedDraft
		if autosave {
			status = models.ProgressInProgress
		}
		s.roster.SetProgress(studentID, status, models.GradeTypeDraft, record.Metadata.UpdatedAt)
		if !autosave {
			s.publish(ctx, "grading.draft_saved", studentID)
		}
	}

	if s.summary != nil {
		s.summary.Invalidate(ctx)
	}
	observability.GradingOps().WithLabelValues("save_"+string(mode), "ok").Inc()
	s.logger.Debug().
		Str("student_id", studentID).
		Str("mode", string(mode)).
		Bool("autosave", autosave).
		Msg("grade record saved")
	return nil
}

func (s *gradeService) Unlock(ctx context.Context, studentID string) (dto.GradeRecordResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.unlock", trace.WithAttributes(
		attribute.String("grading.student_id", studentID),
	))
	defer span.End()

	if !s.privacy.Active() {
		span.SetStatus(codes.Error, "session_expired")
		return dto.GradeRecordResponse{}, ErrSessionExpired
	}

	record, err := s.ledger.Unlock(studentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "not_found")
		observability.GradingOps().WithLabelValues("unlock", "not_found").Inc()
		return dto.GradeRecordResponse{}, err
	}

	s.roster.SetProgress(studentID, models.ProgressCompletedDraft, models.GradeTypeDraft, s.now())
	if s.summary != nil {
		s.summary.Invalidate(ctx)
	}
	observability.GradingOps().WithLabelValues("unlock", "ok").Inc()
	s.publish(ctx, "grading.unlocked", studentID)
	s.logger.Info().Str("student_id", studentID).Msg("final grade unlocked back to draft")

	return dto.NewGradeRecordResponse(record, s.ledger.Status(studentID)), nil
}

func (s *gradeService) Status(ctx context.Context, studentID string) dto.GradeStatusResponse {
	return dto.GradeStatusResponse{StudentID: studentID, Status: s.ledger.Status(studentID)}
}

func (s *gradeService) Score(ctx context.Context, studentID string) (dto.ScoreResponse, error) {
	_, span := s.tracer.Start(ctx, "ledger.score", trace.WithAttributes(
		attribute.String("grading.student_id", studentID),
	))
	defer span.End()

	rubric, ok := s.rubrics.Get()
	if !ok {
		span.SetStatus(codes.Error, "no_rubric")
		return dto.ScoreResponse{}, ErrNoRubricLoaded
	}

	record, source, found := s.ledger.Best(studentID)
	if !found {
		span.SetStatus(codes.Error, "not_found")
		return dto.ScoreResponse{}, store.ErrGradeNotFound
	}

	policy := s.policies.Current()
	if record.Late.PolicyID != "" {
		if selected, ok := s.policies.Get(record.Late.PolicyID); ok {
			policy = selected
		} else {
			s.logger.Warn().
				Str("student_id", studentID).
				Str("policy_id", record.Late.PolicyID).
				Msg("record references unknown late policy, using current")
		}
	}

	breakdown := s.engine.Calculate(rubric, record, policy)
	span.SetAttributes(
		attribute.Float64("grading.final_score", breakdown.FinalScore),
		attribute.String("grading.letter", breakdown.LetterGrade),
	)
	return dto.NewScoreResponse(studentID, source, breakdown), nil
}

func (s *gradeService) AddAttachment(ctx context.Context, studentID, fileName string, content []byte) (dto.AttachmentResponse, error) {
	if !s.privacy.Active() {
		return dto.AttachmentResponse{}, ErrSessionExpired
	}
	if _, found := s.roster.ProgressFor(studentID); !found {
		return dto.AttachmentResponse{}, fmt.Errorf("%w: %s", ErrStudentNotFound, studentID)
	}

	detected := mimetype.Detect(content)
	if _, ok := allowedAttachmentTypes[baseMIME(detected.String())]; !ok {
		return dto.AttachmentResponse{}, fmt.Errorf("%w: %s", ErrUnsupportedAttachment, detected.String())
	}

	attachment := models.Attachment{
		ID:          uuid.NewString(),
		FileName:    fileName,
		ContentType: baseMIME(detected.String()),
		Size:        int64(len(content)),
		UploadedAt:  s.now(),
	}

	record, ok := s.ledger.Draft(studentID)
	if !ok {
		record = models.GradeRecord{StudentID: studentID}
	}
	record.Attachments = append(record.Attachments, attachment)
	record.Metadata.UpdatedAt = attachment.UploadedAt
	s.ledger.SaveDraft(studentID, record)
	s.roster.SetProgress(studentID, models.ProgressInProgress, models.GradeTypeDraft, attachment.UploadedAt)

	if s.summary != nil {
		s.summary.Invalidate(ctx)
	}
	s.logger.Info().
		Str("student_id", studentID).
		Str("file", fileName).
		Str("content_type", attachment.ContentType).
		Msg("attachment added to grade record")
	return dto.NewAttachmentResponse(attachment), nil
}

func (s *gradeService) sanitizeRecord(record *models.GradeRecord) {
	record.Feedback.General = s.sanitizer.Sanitize(record.Feedback.General)
	record.Feedback.Strengths = s.sanitizer.Sanitize(record.Feedback.Strengths)
	record.Feedback.Improvements = s.sanitizer.Sanitize(record.Feedback.Improvements)
	for id, grade := range record.RubricGrading {
		grade.CustomComments = s.sanitizer.Sanitize(grade.CustomComments)
		record.RubricGrading[id] = grade
	}
}

func (s *gradeService) publish(ctx context.Context, action, studentID string) {
	s.activity.Publish(ctx, ActivityEvent{Action: action, StudentID: studentID})
}

// baseMIME strips any parameters from a detected content type.
func baseMIME(value string) string {
	for i := 0; i < len(value); i++ {
		if value[i] == ';' {
			return value[:i]
		}
	}
	return value
}
