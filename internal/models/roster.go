package models

import "time"

// Student is one roster entry, imported verbatim from an external roster source.
type Student struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Program string `json:"program"`
}

// ProgressStatus tracks how far grading has moved for one student.
type ProgressStatus string

const (
	// ProgressPending means no grading work has started.
	ProgressPending ProgressStatus = "pending"
	// ProgressInProgress means edits exist but no explicit save has happened.
	ProgressInProgress ProgressStatus = "in_progress"
	// ProgressCompletedDraft means a draft grade has been saved.
	ProgressCompletedDraft ProgressStatus = "completed_draft"
	// ProgressCompletedFinal means a final grade has been saved.
	ProgressCompletedFinal ProgressStatus = "completed_final"
)

// RosterProgressEntry is the per-student grading progress record, created at
// import time parallel to the student list.
type RosterProgressEntry struct {
	StudentID    string         `json:"student_id"`
	Status       ProgressStatus `json:"status"`
	LastModified *time.Time     `json:"last_modified"`
	GradeType    string         `json:"grade_type"`
}

// RosterMetadata describes the course the roster was imported for.
type RosterMetadata struct {
	CourseName string `json:"course_name"`
	CourseCode string `json:"course_code"`
	Term       string `json:"term"`
	Source     string `json:"source"`
}
