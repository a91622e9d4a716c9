package grading

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/edumark/gradebook-go-api/internal/models"
)

// ScoreBreakdown is the full result of scoring one record against one rubric.
type ScoreBreakdown struct {
	RawScore       float64 `json:"raw_score"`
	FinalScore     float64 `json:"final_score"`
	Percentage     int     `json:"percentage"`
	LetterGrade    string  `json:"letter_grade"`
	PenaltyApplied bool    `json:"penalty_applied"`
}

// Engine computes scores from a rubric, a grade record, and a late policy.
// Calculate has no side effects besides a warning log on stale late levels,
// so identical inputs always produce identical output.
type Engine struct {
	logger zerolog.Logger
}

// NewEngine constructs a scoring engine.
func NewEngine(logger zerolog.Logger) *Engine {
	return &Engine{logger: logger.With().Str("component", "scoring_engine").Logger()}
}

// ResolveLateLevel returns the lateness level selected on a record, falling
// back to the policy's "none" level when the key is unknown or empty. Stale
// keys can survive a policy switch; they are coerced rather than rejected.
func (e *Engine) ResolveLateLevel(policy models.LatePolicy, levelKey string) (string, models.LateLevel) {
	if levelKey != "" {
		if level, ok := policy.Levels[levelKey]; ok {
			return levelKey, level
		}
		e.logger.Warn().
			Str("policy_id", policy.ID).
			Str("level", levelKey).
			Msg("unknown late level, falling back to none")
	}
	return models.LateLevelNone, policy.Levels[models.LateLevelNone]
}

// Calculate scores the record. Ungraded criteria contribute zero points but
// their maximums still count toward the denominator.
func (e *Engine) Calculate(rubric models.RubricDefinition, record models.GradeRecord, policy models.LatePolicy) ScoreBreakdown {
	raw := 0.0
	for _, criterion := range rubric.Criteria {
		grade, ok := record.RubricGrading[criterion.ID]
		if !ok || grade.SelectedLevel == "" {
			continue
		}
		level, ok := rubric.LevelByKey(grade.SelectedLevel)
		if !ok {
			continue
		}
		raw += criterion.MaxPoints * level.Multiplier
	}

	resolvedKey, resolvedLevel := e.ResolveLateLevel(policy, record.Late.Level)
	final := raw * resolvedLevel.Multiplier

	raw = roundToTenth(raw)
	final = roundToTenth(final)

	percentage := 0
	if total := rubric.AssignmentInfo.TotalPoints; total > 0 {
		percentage = roundToInt(final / total * 100)
	}

	return ScoreBreakdown{
		RawScore:       raw,
		FinalScore:     final,
		Percentage:     percentage,
		LetterGrade:    LetterForPercentage(percentage),
		PenaltyApplied: resolvedKey != models.LateLevelNone,
	}
}

// roundToTenth rounds half-up to one decimal place.
func roundToTenth(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

// roundToInt rounds half-up to the nearest integer.
func roundToInt(v float64) int {
	return int(math.Floor(v + 0.5))
}
