package engine

import (
	"errors"
	"fmt"
)

// State is a node of the progression state machine.
type State string

const (
	StateHome              State = "home"
	StateCreatingPath      State = "creating-path"
	StateDiagnostic        State = "diagnostic"
	StatePlanning          State = "planning"
	StatePathDashboard     State = "path-dashboard"
	StateChapter           State = "chapter"
	StateQuizWithinChapter State = "quiz-within-chapter"
)

var (
	// ErrBusy is returned when a generation for a different target is
	// already in flight.
	ErrBusy = errors.New("engine: another request is in progress")

	// ErrChapterLocked is returned when opening a chapter that is not yet
	// unlocked.
	ErrChapterLocked = errors.New("engine: chapter is locked")

	// ErrSuperseded is returned when the learner navigated away while a
	// request was in flight. The result was discarded.
	ErrSuperseded = errors.New("engine: result discarded after navigation")

	// ErrNoActivePath is returned by operations that need an open path.
	ErrNoActivePath = errors.New("engine: no active path")
)

// TransitionError reports an operation invoked from a state that does not
// allow it. Nothing was changed.
type TransitionError struct {
	From State
	Op   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("engine: %s not allowed in state %s", e.Op, e.From)
}
