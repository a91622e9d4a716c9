package service

import "errors"

// ErrSessionExpired indicates the privacy session has ended; every working
// store has been cleared and mutations are refused until a new session starts.
var ErrSessionExpired = errors.New("privacy session expired")

// ErrNoRubricLoaded indicates a grading session cannot start without a rubric.
var ErrNoRubricLoaded = errors.New("no rubric loaded")

// ErrEmptyRoster indicates a grading session cannot start on an empty roster.
var ErrEmptyRoster = errors.New("roster is empty")

// ErrNoActiveSession indicates a session operation was called before initialization.
var ErrNoActiveSession = errors.New("no active grading session")

// ErrSessionPaused indicates navigation was attempted while the session is paused.
var ErrSessionPaused = errors.New("grading session is paused")

// ErrStudentNotFound indicates the student id is not on the roster.
var ErrStudentNotFound = errors.New("student not found")

// ErrUnknownCriterion indicates a record references a criterion missing from
// the loaded rubric.
var ErrUnknownCriterion = errors.New("unknown rubric criterion")

// ErrUnsupportedAttachment indicates an attachment of a disallowed content type.
var ErrUnsupportedAttachment = errors.New("unsupported attachment type")
