package dto

import "github.com/edumark/gradebook-go-api/internal/models"

// SessionAdvanceRequest selects how the current record is persisted before
// moving to the next student.
type SessionAdvanceRequest struct {
	SaveMode string `json:"save_mode" validate:"required,oneof=draft final"`
}

// SessionStateResponse is the observable state of the grading session.
type SessionStateResponse struct {
	Active              bool            `json:"active"`
	Paused              bool            `json:"paused"`
	CurrentStudentIndex int             `json:"current_student_index"`
	CurrentStudent      *models.Student `json:"current_student,omitempty"`
	RosterSize          int             `json:"roster_size"`
}

// SessionAdvanceResponse reports whether the cursor moved; Moved=false on
// Next means the session is complete, on Previous it means the cursor was
// already at the first student. Neither is an error.
type SessionAdvanceResponse struct {
	Moved bool                 `json:"moved"`
	State SessionStateResponse `json:"state"`
}

// PrivacySessionResponse reports the privacy session countdown.
type PrivacySessionResponse struct {
	Active      bool  `json:"active"`
	StartedAt   int64 `json:"started_at_unix_ms"`
	DurationMS  int64 `json:"duration_ms"`
	RemainingMS int64 `json:"remaining_ms"`
}

// ClassSummaryResponse aggregates roster progress and scored results.
type ClassSummaryResponse struct {
	TotalStudents     int     `json:"total_students"`
	Pending           int     `json:"pending"`
	InProgress        int     `json:"in_progress"`
	CompletedDraft    int     `json:"completed_draft"`
	CompletedFinal    int     `json:"completed_final"`
	Drafts            int     `json:"drafts"`
	Finals            int     `json:"finals"`
	AveragePercentage float64 `json:"average_percentage"`
	GeneratedAtUnix   int64   `json:"generated_at_unix"`
	CacheHit          bool    `json:"cache_hit"`
}
