package models

// AchievementLevel is a named performance tier whose multiplier scales a
// criterion's maximum points.
type AchievementLevel struct {
	Key        string  `json:"key" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	Multiplier float64 `json:"multiplier" validate:"gte=0,lte=1"`
	Color      string  `json:"color"`
}

// CriterionLevelDetail describes how one achievement level applies to one criterion.
type CriterionLevelDetail struct {
	Description string `json:"description"`
	PointRange  string `json:"point_range"`
}

// Criterion is a single gradable dimension of the rubric.
type Criterion struct {
	ID          string                          `json:"id" validate:"required"`
	Name        string                          `json:"name" validate:"required"`
	MaxPoints   float64                         `json:"max_points" validate:"gte=0"`
	LevelDetail map[string]CriterionLevelDetail `json:"level_detail"`
}

// AssignmentInfo carries the assignment metadata attached to a rubric.
type AssignmentInfo struct {
	Title            string  `json:"title" validate:"required"`
	Description      string  `json:"description"`
	Weight           float64 `json:"weight" validate:"gte=0,lte=100"`
	PassingThreshold float64 `json:"passing_threshold" validate:"gte=0,lte=100"`
	TotalPoints      float64 `json:"total_points" validate:"gte=0"`
}

// RubricDefinition is the whole scoring definition. It is replaced wholesale
// on every save; there is no partial merge.
type RubricDefinition struct {
	AssignmentInfo AssignmentInfo     `json:"assignment_info" validate:"required"`
	Levels         []AchievementLevel `json:"levels" validate:"required,min=1,dive"`
	Criteria       []Criterion        `json:"criteria" validate:"required,min=1,dive"`
}

// RecomputeTotalPoints resets AssignmentInfo.TotalPoints to the sum of the
// criteria maximums. Called on every load so the total can never drift from
// the criteria.
func (r *RubricDefinition) RecomputeTotalPoints() {
	total := 0.0
	for _, c := range r.Criteria {
		total += c.MaxPoints
	}
	r.AssignmentInfo.TotalPoints = total
}

// LevelByKey returns the achievement level with the given key.
func (r RubricDefinition) LevelByKey(key string) (AchievementLevel, bool) {
	for _, level := range r.Levels {
		if level.Key == key {
			return level, true
		}
	}
	return AchievementLevel{}, false
}

// HasCriterion reports whether a criterion with the given id exists.
func (r RubricDefinition) HasCriterion(id string) bool {
	for _, c := range r.Criteria {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Clone produces an independent deep copy of the rubric.
func (r RubricDefinition) Clone() RubricDefinition {
	out := r
	out.Levels = make([]AchievementLevel, len(r.Levels))
	copy(out.Levels, r.Levels)
	out.Criteria = make([]Criterion, len(r.Criteria))
	for i, c := range r.Criteria {
		cc := c
		if c.LevelDetail != nil {
			cc.LevelDetail = make(map[string]CriterionLevelDetail, len(c.LevelDetail))
			for k, v := range c.LevelDetail {
				cc.LevelDetail[k] = v
			}
		}
		out.Criteria[i] = cc
	}
	return out
}
