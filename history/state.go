// Package history implements per-diagram undo/redo timelines with a
// two-phase commit discipline: callers stage the pre-edit state with
// UpdateState (freely, many times per gesture) and commit one undo step
// with Push once the logical user action completes.
package history

import "board/diagram"

// State is the document content at one point in the timeline. States held in
// the undo and redo stacks are deep copies, so later edits never touch them.
type State struct {
	Elements      diagram.Elements      `json:"elements"`
	Relationships []diagram.Relationship `json:"relationships"`
}

// EmptyState returns a state with no elements and no relationships.
func EmptyState() State {
	return State{
		Elements:      diagram.Elements{},
		Relationships: []diagram.Relationship{},
	}
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	return State{
		Elements:      s.Elements.Clone(),
		Relationships: diagram.CloneRelationships(s.Relationships),
	}
}

// Update is a partial state. A nil field keeps the current value; an empty
// non-nil slice replaces the current value with nothing.
type Update struct {
	Elements      diagram.Elements
	Relationships []diagram.Relationship
}

// Entry is one committed, undo-able change: the state as of just before the
// change, plus a human-readable description for menus and tooltips.
type Entry struct {
	State       State
	Description string
}
