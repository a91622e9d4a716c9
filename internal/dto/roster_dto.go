package dto

import "github.com/edumark/gradebook-go-api/internal/models"

// StudentPayload is one roster entry in an import request.
type StudentPayload struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Program string `json:"program"`
}

// RosterImportRequest carries an already-parsed roster; spreadsheet parsing
// belongs to the external importer.
type RosterImportRequest struct {
	Students []StudentPayload      `json:"students" validate:"required,min=1,dive"`
	Metadata models.RosterMetadata `json:"metadata"`
}

// ToModels converts the payload students into domain students, preserving order.
func (r RosterImportRequest) ToModels() []models.Student {
	students := make([]models.Student, len(r.Students))
	for i, s := range r.Students {
		students[i] = models.Student{ID: s.ID, Name: s.Name, Email: s.Email, Program: s.Program}
	}
	return students
}

// RosterResponse is returned when importing or listing the roster.
type RosterResponse struct {
	Students []models.Student             `json:"students"`
	Progress []models.RosterProgressEntry `json:"progress"`
	Metadata models.RosterMetadata        `json:"metadata"`
	Count    int                          `json:"count"`
}
