package store

import (
	"errors"
	"sync"

	"github.com/edumark/gradebook-go-api/internal/models"
)

// ErrGradeNotFound indicates a ledger lookup found no matching record.
var ErrGradeNotFound = errors.New("grade record not found")

// GradeLedger keeps at most one draft and one final grade record per student.
// Writes are last-write-wins per student id.
type GradeLedger struct {
	mu     sync.RWMutex
	drafts map[string]models.GradeRecord
	finals map[string]models.GradeRecord
}

// NewGradeLedger constructs an empty ledger.
func NewGradeLedger() *GradeLedger {
	return &GradeLedger{
		drafts: make(map[string]models.GradeRecord),
		finals: make(map[string]models.GradeRecord),
	}
}

// SaveDraft upserts a draft record. The final map is untouched.
func (l *GradeLedger) SaveDraft(studentID string, record models.GradeRecord) {
	record.StudentID = studentID
	l.mu.Lock()
	defer l.mu.Unlock()
	l.drafts[studentID] = record.Clone()
}

// SaveFinal upserts a final record.
func (l *GradeLedger) SaveFinal(studentID string, record models.GradeRecord) {
	record.StudentID = studentID
	l.mu.Lock()
	defer l.mu.Unlock()
	l.finals[studentID] = record.Clone()
}

// Draft returns the draft record for a student, if any.
func (l *GradeLedger) Draft(studentID string) (models.GradeRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	record, ok := l.drafts[studentID]
	if !ok {
		return models.GradeRecord{}, false
	}
	return record.Clone(), true
}

// Final returns the final record for a student, if any.
func (l *GradeLedger) Final(studentID string) (models.GradeRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	record, ok := l.finals[studentID]
	if !ok {
		return models.GradeRecord{}, false
	}
	return record.Clone(), true
}

// Unlock demotes a student's final record back to a draft, overwriting any
// existing draft. The returned draft equals the former final exactly.
func (l *GradeLedger) Unlock(studentID string) (models.GradeRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	record, ok := l.finals[studentID]
	if !ok {
		return models.GradeRecord{}, ErrGradeNotFound
	}
	delete(l.finals, studentID)
	l.drafts[studentID] = record
	return record.Clone(), nil
}

// Status derives the ledger status for a student: a final wins over a draft,
// a draft wins over nothing.
func (l *GradeLedger) Status(studentID string) models.GradeStatus {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if _, ok := l.finals[studentID]; ok {
		return models.GradeStatusFinal
	}
	if _, ok := l.drafts[studentID]; ok {
		return models.GradeStatusDraft
	}
	return models.GradeStatusNone
}

// Best returns the authoritative record for a student: the final if present,
// otherwise the draft.
func (l *GradeLedger) Best(studentID string) (models.GradeRecord, models.GradeStatus, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if record, ok := l.finals[studentID]; ok {
		return record.Clone(), models.GradeStatusFinal, true
	}
	if record, ok := l.drafts[studentID]; ok {
		return record.Clone(), models.GradeStatusDraft, true
	}
	return models.GradeRecord{}, models.GradeStatusNone, false
}

// Counts reports how many drafts and finals the ledger holds.
func (l *GradeLedger) Counts() (drafts int, finals int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.drafts), len(l.finals)
}

// Clear drops every record. Used by the privacy session expiry; irreversible.
func (l *GradeLedger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.drafts = make(map[string]models.GradeRecord)
	l.finals = make(map[string]models.GradeRecord)
}
