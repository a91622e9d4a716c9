package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/edumark/gradebook-go-api/internal/dto"
	"github.com/edumark/gradebook-go-api/internal/models"
)

func newSessionFixture(t *testing.T) (*gradingFixture, SessionService) {
	t.Helper()
	f := newGradingFixture(t)
	validate := validator.New(validator.WithRequiredStructEnabled())
	activity := NewActivityPublisher(nil, "", zerolog.Nop())
	session := NewSessionService(f.roster, f.rubrics, f.grades, f.privacy, 20*time.Millisecond, validate, activity, zerolog.Nop())
	return f, session
}

func TestSessionInitializeRequiresRubricAndRoster(t *testing.T) {
	f, session := newSessionFixture(t)
	ctx := context.Background()

	f.rubrics.Clear()
	_, err := session.Initialize(ctx)
	require.ErrorIs(t, err, ErrNoRubricLoaded)

	require.NoError(t, f.rubrics.Load(fixtureRubric()))
	f.roster.Clear()
	_, err = session.Initialize(ctx)
	require.ErrorIs(t, err, ErrEmptyRoster)
}

func TestSessionWalkThroughRoster(t *testing.T) {
	_, session := newSessionFixture(t)
	ctx := context.Background()

	state, err := session.Initialize(ctx)
	require.NoError(t, err)
	require.True(t, state.Active)
	require.Zero(t, state.CurrentStudentIndex)
	require.Equal(t, 3, state.RosterSize)
	require.Equal(t, "s-001", state.CurrentStudent.ID)

	advance := dto.SessionAdvanceRequest{SaveMode: "draft"}

	first, err := session.Next(ctx, advance)
	require.NoError(t, err)
	require.True(t, first.Moved)
	require.Equal(t, 1, first.State.CurrentStudentIndex)

	second, err := session.Next(ctx, advance)
	require.NoError(t, err)
	require.True(t, second.Moved)
	require.Equal(t, 2, second.State.CurrentStudentIndex)

	// advancing past the last student saves but reports completion
	last, err := session.Next(ctx, advance)
	require.NoError(t, err)
	require.False(t, last.Moved)
	require.Equal(t, 2, last.State.CurrentStudentIndex)
}

func TestSessionNextAtEndStillSavesThirdStudent(t *testing.T) {
	f, session := newSessionFixture(t)
	ctx := context.Background()

	_, err := session.Initialize(ctx)
	require.NoError(t, err)

	advance := dto.SessionAdvanceRequest{SaveMode: "draft"}
	for i := 0; i < 2; i++ {
		moved, err := session.Next(ctx, advance)
		require.NoError(t, err)
		require.True(t, moved.Moved)
	}

	_, err = session.EditWorkingRecord(ctx, gradePayload())
	require.NoError(t, err)

	done, err := session.Next(ctx, advance)
	require.NoError(t, err)
	require.False(t, done.Moved)

	require.Equal(t, models.GradeStatusDraft, f.ledger.Status("s-003"))
	draft, ok := f.ledger.Draft("s-003")
	require.True(t, ok)
	require.Equal(t, "solid work", draft.Feedback.General)
}

func TestSessionPreviousAtFirstStudentDoesNotSave(t *testing.T) {
	f, session := newSessionFixture(t)
	ctx := context.Background()

	_, err := session.Initialize(ctx)
	require.NoError(t, err)

	result, err := session.Previous(ctx)
	require.NoError(t, err)
	require.False(t, result.Moved)
	require.Zero(t, result.State.CurrentStudentIndex)

	drafts, finals := f.ledger.Counts()
	require.Zero(t, drafts)
	require.Zero(t, finals)
}

func TestSessionPreviousSavesDraftAndMovesBack(t *testing.T) {
	f, session := newSessionFixture(t)
	ctx := context.Background()

	_, err := session.Initialize(ctx)
	require.NoError(t, err)

	moved, err := session.Next(ctx, dto.SessionAdvanceRequest{SaveMode: "draft"})
	require.NoError(t, err)
	require.True(t, moved.Moved)

	_, err = session.EditWorkingRecord(ctx, gradePayload())
	require.NoError(t, err)

	back, err := session.Previous(ctx)
	require.NoError(t, err)
	require.True(t, back.Moved)
	require.Zero(t, back.State.CurrentStudentIndex)
	require.Equal(t, models.GradeStatusDraft, f.ledger.Status("s-002"))
}

func TestSessionNextFinalizesWhenRequested(t *testing.T) {
	f, session := newSessionFixture(t)
	ctx := context.Background()

	_, err := session.Initialize(ctx)
	require.NoError(t, err)

	_, err = session.EditWorkingRecord(ctx, gradePayload())
	require.NoError(t, err)

	moved, err := session.Next(ctx, dto.SessionAdvanceRequest{SaveMode: "final"})
	require.NoError(t, err)
	require.True(t, moved.Moved)
	require.Equal(t, models.GradeStatusFinal, f.ledger.Status("s-001"))
}

func TestSessionEditDebouncesAutosave(t *testing.T) {
	f, session := newSessionFixture(t)
	ctx := context.Background()

	_, err := session.Initialize(ctx)
	require.NoError(t, err)

	_, err = session.EditWorkingRecord(ctx, gradePayload())
	require.NoError(t, err)

	// the autosave has not fired inside the debounce window
	require.Equal(t, models.GradeStatusNone, f.ledger.Status("s-001"))

	require.Eventually(t, func() bool {
		return f.ledger.Status("s-001") == models.GradeStatusDraft
	}, time.Second, 5*time.Millisecond)

	// autosaves mark progress as in_progress, not completed_draft
	entry, _ := f.roster.ProgressFor("s-001")
	require.Equal(t, models.ProgressInProgress, entry.Status)
}

func TestSessionPauseBlocksEditsAndNavigation(t *testing.T) {
	_, session := newSessionFixture(t)
	ctx := context.Background()

	_, err := session.Initialize(ctx)
	require.NoError(t, err)

	state, err := session.Pause(ctx)
	require.NoError(t, err)
	require.True(t, state.Paused)
	require.False(t, state.Active)

	_, err = session.EditWorkingRecord(ctx, gradePayload())
	require.ErrorIs(t, err, ErrSessionPaused)
	_, err = session.Next(ctx, dto.SessionAdvanceRequest{SaveMode: "draft"})
	require.ErrorIs(t, err, ErrSessionPaused)

	state, err = session.Resume(ctx)
	require.NoError(t, err)
	require.False(t, state.Paused)
	require.True(t, state.Active)

	_, err = session.EditWorkingRecord(ctx, gradePayload())
	require.NoError(t, err)
}

func TestSessionOperationsRequireInitialization(t *testing.T) {
	_, session := newSessionFixture(t)
	ctx := context.Background()

	_, err := session.EditWorkingRecord(ctx, gradePayload())
	require.ErrorIs(t, err, ErrNoActiveSession)
	_, err = session.Next(ctx, dto.SessionAdvanceRequest{SaveMode: "draft"})
	require.ErrorIs(t, err, ErrNoActiveSession)
	_, err = session.Pause(ctx)
	require.ErrorIs(t, err, ErrNoActiveSession)
}

func TestSessionPrimesWorkingRecordFromExistingDraft(t *testing.T) {
	f, session := newSessionFixture(t)
	ctx := context.Background()

	_, err := f.grades.SaveDraft(ctx, "s-001", gradePayload())
	require.NoError(t, err)

	_, err = session.Initialize(ctx)
	require.NoError(t, err)

	// advancing without edits must carry the primed draft forward, not a blank record
	moved, err := session.Next(ctx, dto.SessionAdvanceRequest{SaveMode: "final"})
	require.NoError(t, err)
	require.True(t, moved.Moved)

	final, ok := f.ledger.Final("s-001")
	require.True(t, ok)
	require.Equal(t, "solid work", final.Feedback.General)
}

func TestSessionResetOnPrivacyExpiry(t *testing.T) {
	f, session := newSessionFixture(t)
	ctx := context.Background()

	_, err := session.Initialize(ctx)
	require.NoError(t, err)

	expirePrivacy(f)

	_, err = session.Next(ctx, dto.SessionAdvanceRequest{SaveMode: "draft"})
	require.ErrorIs(t, err, ErrSessionExpired)

	// the reset callback runs detached from the expiry detection
	require.Eventually(t, func() bool {
		state := session.State(ctx)
		return !state.Active && state.CurrentStudentIndex == 0
	}, time.Second, 5*time.Millisecond)
}

func TestSessionTeardownKeepsLedger(t *testing.T) {
	f, session := newSessionFixture(t)
	ctx := context.Background()

	_, err := session.Initialize(ctx)
	require.NoError(t, err)
	_, err = f.grades.SaveDraft(ctx, "s-001", gradePayload())
	require.NoError(t, err)

	session.Teardown(ctx)

	state := session.State(ctx)
	require.False(t, state.Active)
	require.Equal(t, models.GradeStatusDraft, f.ledger.Status("s-001"))
}
