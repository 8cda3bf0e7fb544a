// Package scheduling implements the session scheduling core: the
// session lifecycle state machine, the booking engine with its
// waitlist, buffered table-collision detection, batch table
// numbering and the grace-period auto-cancel sweep.  It talks to
// persistence through the Store interface and reports failures with
// the typed errors defined in this file so that handlers can map
// them to precise HTTP responses.
package scheduling

import "fmt"

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Entity string // e.g. "session", "time slot"
	ID     uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ValidationError reports malformed input: a schedule outside its
// slot's bounds, an exceeded duration cap, a missing rejection
// reason.  Field names the offending input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidStateError reports an operation that is not legal in the
// entity's current lifecycle state.
type InvalidStateError struct {
	Entity string
	State  string
	Op     string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s %s in state %s", e.Op, e.Entity, e.State)
}

// ForbiddenError reports that the actor lacks the required
// relationship or role for the operation.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string { return e.Reason }

// ConflictError reports a uniqueness violation: a duplicate booking,
// a table collision or a duplicate table label.  When the conflict
// is with another session, ConflictingID/Title/Start/End identify it
// so the caller can render a precise message.
type ConflictError struct {
	Reason        string
	Label         string // offending table label on batch create
	ConflictingID uint64 // colliding session on table assignment
	Title         string
	Start, End    string // RFC3339 window of the colliding session
}

func (e *ConflictError) Error() string {
	if e.ConflictingID != 0 {
		return fmt.Sprintf("%s: session %d %q (%s - %s)", e.Reason, e.ConflictingID, e.Title, e.Start, e.End)
	}
	if e.Label != "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.Label)
	}
	return e.Reason
}
