package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edumark/gradebook-go-api/internal/models"
)

func validRubric() models.RubricDefinition {
	return models.RubricDefinition{
		AssignmentInfo: models.AssignmentInfo{Title: "Capstone Project", TotalPoints: 999},
		Levels: []models.AchievementLevel{
			{Key: "developing", Name: "Developing", Multiplier: 0.7},
			{Key: "proficient", Name: "Proficient", Multiplier: 0.82},
			{Key: "exemplary", Name: "Exemplary", Multiplier: 1.0},
		},
		Criteria: []models.Criterion{
			{ID: "design", Name: "Design", MaxPoints: 35},
			{ID: "implementation", Name: "Implementation", MaxPoints: 30},
		},
	}
}

func TestRubricStoreLoadRecomputesTotalPoints(t *testing.T) {
	store := NewRubricStore()

	require.NoError(t, store.Load(validRubric()))

	current, ok := store.Get()
	require.True(t, ok)
	// the declared total is ignored in favour of the criteria sum
	require.InDelta(t, 65.0, current.AssignmentInfo.TotalPoints, 1e-9)
}

func TestRubricStoreRejectsInvalidDefinitions(t *testing.T) {
	cases := map[string]func(*models.RubricDefinition){
		"missing title":          func(r *models.RubricDefinition) { r.AssignmentInfo.Title = "" },
		"no levels":              func(r *models.RubricDefinition) { r.Levels = nil },
		"no criteria":            func(r *models.RubricDefinition) { r.Criteria = nil },
		"empty level key":        func(r *models.RubricDefinition) { r.Levels[0].Key = "" },
		"duplicate level key":    func(r *models.RubricDefinition) { r.Levels[1].Key = r.Levels[0].Key },
		"multiplier above one":   func(r *models.RubricDefinition) { r.Levels[2].Multiplier = 1.2 },
		"descending multipliers": func(r *models.RubricDefinition) { r.Levels[0].Multiplier = 0.9 },
		"empty criterion id":     func(r *models.RubricDefinition) { r.Criteria[0].ID = "" },
		"duplicate criterion id": func(r *models.RubricDefinition) { r.Criteria[1].ID = r.Criteria[0].ID },
		"negative max points":    func(r *models.RubricDefinition) { r.Criteria[0].MaxPoints = -1 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			store := NewRubricStore()
			rubric := validRubric()
			mutate(&rubric)
			require.ErrorIs(t, store.Load(rubric), ErrInvalidRubricFormat)
			require.False(t, store.Loaded())
		})
	}
}

func TestRubricStoreKeepsPreviousOnRejectedLoad(t *testing.T) {
	store := NewRubricStore()
	require.NoError(t, store.Load(validRubric()))

	broken := validRubric()
	broken.AssignmentInfo.Title = ""
	require.ErrorIs(t, store.Load(broken), ErrInvalidRubricFormat)

	current, ok := store.Get()
	require.True(t, ok)
	require.Equal(t, "Capstone Project", current.AssignmentInfo.Title)
}

func TestRubricStoreReplacesWholesale(t *testing.T) {
	store := NewRubricStore()
	require.NoError(t, store.Load(validRubric()))

	replacement := validRubric()
	replacement.AssignmentInfo.Title = "Midterm Essay"
	replacement.Criteria = replacement.Criteria[:1]
	require.NoError(t, store.Load(replacement))

	current, _ := store.Get()
	require.Equal(t, "Midterm Essay", current.AssignmentInfo.Title)
	require.Len(t, current.Criteria, 1)
	require.InDelta(t, 35.0, current.AssignmentInfo.TotalPoints, 1e-9)
}

func TestRubricStoreClear(t *testing.T) {
	store := NewRubricStore()
	require.NoError(t, store.Load(validRubric()))
	require.True(t, store.Loaded())

	store.Clear()
	require.False(t, store.Loaded())
	_, ok := store.Get()
	require.False(t, ok)
}
