package dto

import (
	"time"

	"github.com/edumark/gradebook-go-api/internal/grading"
	"github.com/edumark/gradebook-go-api/internal/models"
)

// FeedbackPayload carries instructor commentary; fields are sanitised at the
// ledger boundary before storage.
type FeedbackPayload struct {
	General      string `json:"general"`
	Strengths    string `json:"strengths"`
	Improvements string `json:"improvements"`
}

// CriterionGradePayload selects an achievement level for one criterion.
type CriterionGradePayload struct {
	SelectedLevel  string `json:"selected_level"`
	CustomComments string `json:"custom_comments"`
}

// LateSelectionPayload records the lateness level applied to the record.
type LateSelectionPayload struct {
	Level    string `json:"level"`
	PolicyID string `json:"policy_id"`
}

// GradeRecordRequest is the payload for saving a draft or final grade, and for
// working-record edits during a grading session.
type GradeRecordRequest struct {
	Course        string                           `json:"course"`
	Assignment    string                           `json:"assignment"`
	Feedback      FeedbackPayload                  `json:"feedback"`
	VideoLinks    []string                         `json:"video_links" validate:"omitempty,dive,url"`
	Late          LateSelectionPayload             `json:"late_policy"`
	RubricGrading map[string]CriterionGradePayload `json:"rubric_grading"`
	GradedBy      string                           `json:"graded_by"`
}

// ToModel converts the request into a domain grade record for the student.
func (r GradeRecordRequest) ToModel(studentID string) models.GradeRecord {
	grades := make(map[string]models.CriterionGrade, len(r.RubricGrading))
	for id, g := range r.RubricGrading {
		grades[id] = models.CriterionGrade{SelectedLevel: g.SelectedLevel, CustomComments: g.CustomComments}
	}
	return models.GradeRecord{
		StudentID:  studentID,
		Course:     r.Course,
		Assignment: r.Assignment,
		Feedback: models.Feedback{
			General:      r.Feedback.General,
			Strengths:    r.Feedback.Strengths,
			Improvements: r.Feedback.Improvements,
		},
		VideoLinks:    append([]string(nil), r.VideoLinks...),
		Late:          models.LateSelection{Level: r.Late.Level, PolicyID: r.Late.PolicyID},
		RubricGrading: grades,
		Metadata:      models.GradeMetadata{GradedBy: r.GradedBy},
	}
}

// GradeRecordResponse returns a ledger record together with its status.
type GradeRecordResponse struct {
	StudentID string             `json:"student_id"`
	Status    models.GradeStatus `json:"status"`
	Record    models.GradeRecord `json:"record"`
}

// NewGradeRecordResponse maps a record into its API shape.
func NewGradeRecordResponse(record models.GradeRecord, status models.GradeStatus) GradeRecordResponse {
	return GradeRecordResponse{StudentID: record.StudentID, Status: status, Record: record}
}

// GradeStatusResponse reports the ledger status for one student.
type GradeStatusResponse struct {
	StudentID string             `json:"student_id"`
	Status    models.GradeStatus `json:"status"`
}

// ScoreResponse is the scoring engine output for one student.
type ScoreResponse struct {
	StudentID      string             `json:"student_id"`
	Source         models.GradeStatus `json:"source"`
	RawScore       float64            `json:"raw_score"`
	FinalScore     float64            `json:"final_score"`
	Percentage     int                `json:"percentage"`
	LetterGrade    string             `json:"letter_grade"`
	PenaltyApplied bool               `json:"penalty_applied"`
}

// NewScoreResponse maps a score breakdown into its API shape.
func NewScoreResponse(studentID string, source models.GradeStatus, breakdown grading.ScoreBreakdown) ScoreResponse {
	return ScoreResponse{
		StudentID:      studentID,
		Source:         source,
		RawScore:       breakdown.RawScore,
		FinalScore:     breakdown.FinalScore,
		Percentage:     breakdown.Percentage,
		LetterGrade:    breakdown.LetterGrade,
		PenaltyApplied: breakdown.PenaltyApplied,
	}
}

// AttachmentResponse describes a stored attachment.
type AttachmentResponse struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// NewAttachmentResponse maps an attachment into its API shape.
func NewAttachmentResponse(a models.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		Size:        a.Size,
		UploadedAt:  a.UploadedAt,
	}
}
