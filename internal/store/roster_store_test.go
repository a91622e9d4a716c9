package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edumark/gradebook-go-api/internal/models"
)

func sampleStudents() []models.Student {
	return []models.Student{
		{ID: "s-001", Name: "Ayu Lestari", Email: "ayu@example.com", Program: "informatics"},
		{ID: "s-002", Name: "Budi Santoso", Email: "budi@example.com", Program: "informatics"},
		{ID: "s-003", Name: "Citra Dewi", Email: "citra@example.com", Program: "design"},
	}
}

func TestRosterStoreImportStartsPending(t *testing.T) {
	store := NewRosterStore()
	store.Import(sampleStudents(), models.RosterMetadata{CourseName: "Software Engineering", Term: "2026-1"})

	require.Equal(t, 3, store.Len())
	require.Equal(t, "Software Engineering", store.Metadata().CourseName)

	progress := store.Progress()
	require.Len(t, progress, 3)
	for i, entry := range progress {
		require.Equal(t, sampleStudents()[i].ID, entry.StudentID)
		require.Equal(t, models.ProgressPending, entry.Status)
		require.Nil(t, entry.LastModified)
	}
}

func TestRosterStorePreservesOrderAndDuplicates(t *testing.T) {
	store := NewRosterStore()
	students := sampleStudents()
	students = append(students, students[0])
	store.Import(students, models.RosterMetadata{})

	require.Equal(t, 4, store.Len())
	first, ok := store.StudentAt(0)
	require.True(t, ok)
	last, ok := store.StudentAt(3)
	require.True(t, ok)
	require.Equal(t, first.ID, last.ID)

	_, ok = store.StudentAt(4)
	require.False(t, ok)
	_, ok = store.StudentAt(-1)
	require.False(t, ok)
}

func TestRosterStoreSetProgressFirstOccurrence(t *testing.T) {
	store := NewRosterStore()
	students := sampleStudents()
	students = append(students, students[0])
	store.Import(students, models.RosterMetadata{})

	at := time.Now()
	require.True(t, store.SetProgress("s-001", models.ProgressCompletedDraft, models.GradeTypeDraft, at))

	progress := store.Progress()
	require.Equal(t, models.ProgressCompletedDraft, progress[0].Status)
	require.Equal(t, "draft", progress[0].GradeType)
	require.NotNil(t, progress[0].LastModified)
	// the duplicate occurrence stays untouched
	require.Equal(t, models.ProgressPending, progress[3].Status)

	entry, found := store.ProgressFor("s-001")
	require.True(t, found)
	require.Equal(t, models.ProgressCompletedDraft, entry.Status)
}

func TestRosterStoreSetProgressUnknownStudent(t *testing.T) {
	store := NewRosterStore()
	store.Import(sampleStudents(), models.RosterMetadata{})

	require.False(t, store.SetProgress("ghost", models.ProgressInProgress, models.GradeTypeDraft, time.Now()))
	_, found := store.ProgressFor("ghost")
	require.False(t, found)
}

func TestRosterStoreImportReplacesPreviousRoster(t *testing.T) {
	store := NewRosterStore()
	store.Import(sampleStudents(), models.RosterMetadata{CourseName: "Old Course"})
	store.SetProgress("s-001", models.ProgressCompletedFinal, models.GradeTypeFinal, time.Now())

	store.Import(sampleStudents()[:1], models.RosterMetadata{CourseName: "New Course"})

	require.Equal(t, 1, store.Len())
	require.Equal(t, "New Course", store.Metadata().CourseName)
	entry, found := store.ProgressFor("s-001")
	require.True(t, found)
	require.Equal(t, models.ProgressPending, entry.Status)
}

func TestRosterStoreClear(t *testing.T) {
	store := NewRosterStore()
	store.Import(sampleStudents(), models.RosterMetadata{CourseName: "Software Engineering"})

	store.Clear()

	require.Zero(t, store.Len())
	require.Empty(t, store.Students())
	require.Empty(t, store.Progress())
	require.Equal(t, models.RosterMetadata{}, store.Metadata())
}
