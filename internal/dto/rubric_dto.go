package dto

import (
	"time"

	"github.com/edumark/gradebook-go-api/internal/models"
)

// RubricResponse is returned when loading or fetching the rubric.
type RubricResponse struct {
	Rubric        models.RubricDefinition `json:"rubric"`
	TotalPoints   float64                 `json:"total_points"`
	CriteriaCount int                     `json:"criteria_count"`
	LoadedAt      time.Time               `json:"loaded_at"`
}

// NewRubricResponse maps a rubric definition into its API shape.
func NewRubricResponse(def models.RubricDefinition, loadedAt time.Time) RubricResponse {
	return RubricResponse{
		Rubric:        def,
		TotalPoints:   def.AssignmentInfo.TotalPoints,
		CriteriaCount: len(def.Criteria),
		LoadedAt:      loadedAt,
	}
}
