package store

import (
	"sync"
	"time"

	"github.com/edumark/gradebook-go-api/internal/models"
)

// RosterStore holds the imported students and a parallel per-student progress
// record. Import order is preserved and duplicates are kept as-is.
type RosterStore struct {
	mu       sync.RWMutex
	students []models.Student
	progress []models.RosterProgressEntry
	metadata models.RosterMetadata
}

// NewRosterStore constructs an empty roster store.
func NewRosterStore() *RosterStore {
	return &RosterStore{}
}

// Import replaces the roster with the given students. Every student starts
// with a pending progress entry and a nil timestamp.
func (s *RosterStore) Import(students []models.Student, metadata models.RosterMetadata) {
	progress := make([]models.RosterProgressEntry, len(students))
	for i, student := range students {
		progress[i] = models.RosterProgressEntry{
			StudentID: student.ID,
			Status:    models.ProgressPending,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.students = append([]models.Student(nil), students...)
	s.progress = progress
	s.metadata = metadata
}

// Students returns a copy of the roster in import order.
func (s *RosterStore) Students() []models.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Student(nil), s.students...)
}

// Len returns the number of roster entries.
func (s *RosterStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.students)
}

// StudentAt returns the student at the given roster index.
func (s *RosterStore) StudentAt(index int) (models.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.students) {
		return models.Student{}, false
	}
	return s.students[index], true
}

// Progress returns a copy of the progress entries in roster order.
func (s *RosterStore) Progress() []models.RosterProgressEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.RosterProgressEntry(nil), s.progress...)
}

// ProgressFor returns the progress entry for the first roster occurrence of
// the student id.
func (s *RosterStore) ProgressFor(studentID string) (models.RosterProgressEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, entry := range s.progress {
		if entry.StudentID == studentID {
			return entry, true
		}
	}
	return models.RosterProgressEntry{}, false
}

// SetProgress updates the progress entry for the first roster occurrence of
// the student id, stamping the modification time.
func (s *RosterStore) SetProgress(studentID string, status models.ProgressStatus, gradeType models.GradeType, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.progress {
		if s.progress[i].StudentID == studentID {
			s.progress[i].Status = status
			s.progress[i].GradeType = string(gradeType)
			stamp := at
			s.progress[i].LastModified = &stamp
			return true
		}
	}
	return false
}

// Metadata returns the course metadata supplied at import time.
func (s *RosterStore) Metadata() models.RosterMetadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metadata
}

// Clear drops students, progress, and metadata. Used by the privacy session expiry.
func (s *RosterStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students = nil
	s.progress = nil
	s.metadata = models.RosterMetadata{}
}
