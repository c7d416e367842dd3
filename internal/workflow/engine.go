package workflow

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel failure modes surfaced by Apply. Callers classify with
// errors.Is; the wrapped message carries the human-readable detail.
var (
	// ErrUnknownDomain means the domain id itself is not registered.
	ErrUnknownDomain = errors.New("unknown workflow domain")

	// ErrInvalidStatus means the requested status is not an enumerated
	// state of the domain.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrTransitionNotAllowed means the requested status is enumerated
	// but not reachable from the current state.
	ErrTransitionNotAllowed = errors.New("transition not allowed")

	// ErrNoteRequired means a requires-note status was requested
	// without a non-empty transition note.
	ErrNoteRequired = errors.New("transition note required")
)

// Context carries the actor and optional guard payload for one
// transition attempt.
type Context struct {
	ActorID string
	Note    string

	// Create marks an entity-creation call. The current status is
	// treated as "not yet existing": adjacency is skipped, but a
	// requires-note initial status still demands a note, and an
	// unenumerated status falls back to the domain initial instead of
	// failing.
	Create bool
}

// Result describes one applied transition. The caller persists the
// entity, the history append, and the event in a single transaction.
type Result struct {
	From string
	To   string
	Note string
	At   time.Time
}

// Apply validates a single transition and, when valid, returns the
// history entry to persist. A nil Result with nil error is the
// idempotent no-op case (update path, target equals current).
func Apply(d DomainID, current, requested string, tctx Context) (*Result, error) {
	def, ok := Get(d)
	if !ok {
		return nil, fmt.Errorf("%q: %w", d, ErrUnknownDomain)
	}

	if !StateExists(d, requested) {
		if tctx.Create {
			requested = def.Initial
		} else {
			return nil, fmt.Errorf("%q is not a %s status: %w", requested, d, ErrInvalidStatus)
		}
	}

	if !tctx.Create {
		if current == requested {
			return nil, nil
		}
		if !StateExists(d, current) {
			return nil, fmt.Errorf("current status %q is not a %s status: %w", current, d, ErrInvalidStatus)
		}
		if !Allowed(d, current, requested) {
			return nil, fmt.Errorf("%s cannot move %s -> %s: %w", d, current, requested, ErrTransitionNotAllowed)
		}
	}

	note := strings.TrimSpace(tctx.Note)
	if NoteRequired(d, requested) && note == "" {
		return nil, fmt.Errorf("a transition note is required when moving to %s: %w", requested, ErrNoteRequired)
	}
	if note == "" {
		note = DefaultNote(d, requested)
	}

	return &Result{
		From: current,
		To:   requested,
		Note: note,
		At:   time.Now().UTC(),
	}, nil
}

// DefaultNote synthesizes the history note used when the caller
// supplied none and none was required.
func DefaultNote(d DomainID, status string) string {
	if states, ok := stateIndex[d]; ok {
		if s, ok := states[status]; ok && s.Label != "" {
			return fmt.Sprintf("Status changed to %s", s.Label)
		}
	}
	return fmt.Sprintf("Status changed to %s", status)
}

// EventMessage derives the human-readable message recorded on the
// workflow event for a transition.
func EventMessage(entity string, d DomainID, status string) string {
	if states, ok := stateIndex[d]; ok {
		if s, ok := states[status]; ok && s.Label != "" {
			return fmt.Sprintf("%s moved to %s", capitalize(entity), s.Label)
		}
	}
	return fmt.Sprintf("%s moved to %s", capitalize(entity), status)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
