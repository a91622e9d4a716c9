package service

import (
	"sync"
	"time"

	"github.com/edumark/gradebook-go-api/internal/models"
)

// commitFunc receives the student id and record snapshot captured when the
// commit was scheduled.
type commitFunc func(studentID string, record models.GradeRecord)

// autosaveDebouncer batches rapid edits to the working record into a single
// ledger write after a quiescence window. Each call cancels and reschedules
// the pending commit rather than merely delaying it, and captures the target
// student id plus a record snapshot at schedule time so navigating to another
// student before the timer fires cannot corrupt the wrong ledger entry.
//
// The generation counter closes the window between a timer firing and its
// callback running: a commit must claim the current generation under the
// mutex before it may write, and Cancel/Schedule invalidate all prior
// generations. The commit itself runs under the mutex, so once Cancel
// returns no debounced write can land after it.
type autosaveDebouncer struct {
	mu     sync.Mutex
	window time.Duration
	timer  *time.Timer
	gen    uint64
	commit commitFunc
}

func newAutosaveDebouncer(window time.Duration, commit commitFunc) *autosaveDebouncer {
	return &autosaveDebouncer{window: window, commit: commit}
}

// Schedule replaces any pending commit with a new one for the given student.
func (d *autosaveDebouncer) Schedule(studentID string, record models.GradeRecord) {
	snapshot := record.Clone()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.window, func() {
		d.fire(gen, studentID, snapshot)
	})
}

// fire claims the generation for a fired timer and runs the commit. A stale
// generation means a Cancel or reschedule won the race after the timer fired;
// the snapshot must not land.
func (d *autosaveDebouncer) fire(gen uint64, studentID string, record models.GradeRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		return
	}
	d.gen++
	d.timer = nil
	d.commit(studentID, record)
}

// Cancel drops any pending commit, including one whose timer has already
// fired but has not yet claimed the write. Called on navigation flushes and
// when the privacy session expires; the explicit save or the expiry clear
// always wins over a late-arriving commit.
func (d *autosaveDebouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a commit is currently scheduled.
func (d *autosaveDebouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
