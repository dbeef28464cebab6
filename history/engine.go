package history

import (
	"errors"
	"fmt"
)

// DefaultMaxEntries caps each diagram's undo and redo stacks. When the cap is
// exceeded the oldest entries are evicted first.
const DefaultMaxEntries = 50

// ErrNoActiveDiagram is returned when a history operation is invoked with no
// diagram active. This is a programmer error: a SwitchToDiagram call is missing.
var ErrNoActiveDiagram = errors.New("no active diagram")

// ErrUnknownDiagram is returned by SwitchToDiagram when the diagram has no
// saved timeline and no initial state was provided.
var ErrUnknownDiagram = errors.New("unknown diagram")

// timeline is the full undo/redo record for one diagram. It lives in the
// engine's map for the lifetime of the process, or until ClearDiagram.
type timeline struct {
	undo    []Entry
	redo    []Entry
	current State
}

// Engine maintains one isolated timeline per diagram id. Exactly one diagram
// is active at a time (or none); only the active diagram's stacks are mutable.
//
// The engine is not safe for concurrent use. All mutations are expected to
// happen on a single event-processing goroutine; the document store adds the
// locking it needs for its autosave snapshot.
type Engine struct {
	timelines map[string]*timeline
	active    *timeline
	activeID  string

	// pending is the state captured before the edit currently being applied.
	// Non-nil iff at least one UpdateState call happened since the last
	// Push, Undo, Redo or diagram switch.
	pending *State

	maxEntries int
}

// NewEngine creates an engine with the given stack cap. A cap of zero or less
// uses DefaultMaxEntries.
func NewEngine(maxEntries int) *Engine {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Engine{
		timelines:  make(map[string]*timeline),
		maxEntries: maxEntries,
	}
}

// ActiveDiagram returns the id of the active diagram, or "" when none.
func (e *Engine) ActiveDiagram() string {
	return e.activeID
}

// Current returns the current state of the active diagram. With no active
// diagram it returns an empty state.
func (e *Engine) Current() State {
	if e.active == nil {
		return EmptyState()
	}
	return e.active.current
}

// CanUndo reports whether the active diagram has committed entries to undo.
func (e *Engine) CanUndo() bool {
	return e.active != nil && len(e.active.undo) > 0
}

// CanRedo reports whether the active diagram has undone entries to redo.
func (e *Engine) CanRedo() bool {
	return e.active != nil && len(e.active.redo) > 0
}

// SwitchToDiagram activates the timeline for id, restoring it if one is saved
// or creating a fresh one from initial. Switching away discards any pending
// snapshot of the previous diagram without committing it; the previous
// timeline itself survives in the engine's map.
func (e *Engine) SwitchToDiagram(id string, initial *State) error {
	tl, ok := e.timelines[id]
	if !ok {
		if initial == nil {
			return fmt.Errorf("%w: no history for diagram %s and no initial state provided", ErrUnknownDiagram, id)
		}
		tl = &timeline{current: initial.Clone()}
		e.timelines[id] = tl
	}

	e.active = tl
	e.activeID = id
	e.pending = nil
	return nil
}

// UpdateState merges a partial state into the active diagram's current state.
// The first call since the last Push, Undo, Redo or switch captures the
// pre-edit state as the pending snapshot; later calls only merge, so a burst
// of incremental updates collapses into a single undo step.
func (e *Engine) UpdateState(partial Update) error {
	if e.active == nil {
		return ErrNoActiveDiagram
	}

	if e.pending == nil {
		snap := e.active.current.Clone()
		e.pending = &snap
	}

	if partial.Elements != nil {
		e.active.current.Elements = partial.Elements
	}
	if partial.Relationships != nil {
		e.active.current.Relationships = partial.Relationships
	}
	return nil
}

// Push commits the pending snapshot as one undo entry. Without a pending
// snapshot it does nothing: committing with nothing staged must not create a
// phantom history entry. Any redo history is invalidated.
func (e *Engine) Push(description string) error {
	if e.active == nil {
		return ErrNoActiveDiagram
	}
	if e.pending == nil {
		return nil
	}

	e.active.undo = append(e.active.undo, Entry{State: *e.pending, Description: description})
	if len(e.active.undo) > e.maxEntries {
		e.active.undo = e.active.undo[len(e.active.undo)-e.maxEntries:]
	}
	e.active.redo = nil
	e.pending = nil
	return nil
}

// Undo restores the state before the most recently committed change and
// returns it. It returns (nil, nil) when there is nothing to undo. An undo
// cancels any in-progress, uncommitted edit.
func (e *Engine) Undo() (*State, error) {
	if e.active == nil {
		return nil, ErrNoActiveDiagram
	}
	if len(e.active.undo) == 0 {
		return nil, nil
	}

	entry := e.active.undo[len(e.active.undo)-1]
	e.active.undo = e.active.undo[:len(e.active.undo)-1]
	e.active.redo = append(e.active.redo, Entry{State: e.active.current, Description: entry.Description})
	e.active.current = entry.State
	e.pending = nil

	state := e.active.current
	return &state, nil
}

// Redo reapplies the most recently undone change and returns the new current
// state, or (nil, nil) when there is nothing to redo.
func (e *Engine) Redo() (*State, error) {
	if e.active == nil {
		return nil, ErrNoActiveDiagram
	}
	if len(e.active.redo) == 0 {
		return nil, nil
	}

	entry := e.active.redo[len(e.active.redo)-1]
	e.active.redo = e.active.redo[:len(e.active.redo)-1]
	e.active.undo = append(e.active.undo, Entry{State: e.active.current, Description: entry.Description})
	e.active.current = entry.State
	e.pending = nil

	state := e.active.current
	return &state, nil
}

// UndoDescription returns the description of the entry Undo would revert,
// or "" when the undo stack is empty.
func (e *Engine) UndoDescription() string {
	if !e.CanUndo() {
		return ""
	}
	return e.active.undo[len(e.active.undo)-1].Description
}

// RedoDescription returns the description of the entry Redo would reapply,
// or "" when the redo stack is empty.
func (e *Engine) RedoDescription() string {
	if !e.CanRedo() {
		return ""
	}
	return e.active.redo[len(e.active.redo)-1].Description
}

// ClearDiagram removes the saved timeline for id, e.g. when the diagram is
// permanently deleted. If id is the active diagram the engine reverts to
// "no active diagram".
func (e *Engine) ClearDiagram(id string) {
	delete(e.timelines, id)
	if e.activeID == id {
		e.active = nil
		e.activeID = ""
		e.pending = nil
	}
}
