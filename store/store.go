// Package store is the command surface of the editor: the only writer of
// document state. Every mutating operation computes the new element and
// relationship lists, stages them in the history engine, commits one
// history entry with a human-readable description, and schedules autosave.
// Transient operations (drag moves, pan, zoom) skip the commit; the gesture
// layer commits once when the gesture ends.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"board/diagram"
	"board/history"
	"board/storage"
)

// Options configures a Store.
type Options struct {
	// HistoryLimit caps undo/redo stacks per diagram. Zero uses
	// history.DefaultMaxEntries.
	HistoryLimit int

	// AutosaveDelay is the debounce window for persistence. Zero uses
	// DefaultAutosaveDelay.
	AutosaveDelay time.Duration

	// Logger receives autosave failures. If nil, slog.Default is used.
	Logger *slog.Logger
}

// Store wraps the history engine with the editor's command operations and
// debounced persistence. The mutex exists only so that the autosave timer,
// which fires on its own goroutine, reads a consistent point-in-time copy;
// all commands are expected to arrive from a single event loop.
type Store struct {
	mu      sync.Mutex
	history *history.Engine
	storage storage.Store
	logger  *slog.Logger
	saver   *autosaver

	current  *diagram.Diagram
	viewport diagram.Viewport
}

// New creates a document store persisting into st.
func New(st storage.Store, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		history:  history.NewEngine(opts.HistoryLimit),
		storage:  st,
		logger:   logger,
		viewport: diagram.DefaultViewport(),
	}
	s.saver = newAutosaver(opts.AutosaveDelay, s.saveNow)
	return s
}

// Load makes d the active document. Its timeline is restored if the engine
// has seen it before, otherwise a fresh one starts from the diagram content.
func (s *Store) Load(d *diagram.Diagram) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	initial := history.State{
		Elements:      d.Elements,
		Relationships: d.Relationships,
	}
	if err := s.history.SwitchToDiagram(d.ID, &initial); err != nil {
		return err
	}
	s.current = d.Clone()
	s.viewport = d.Viewport
	return nil
}

// Unload detaches the current document. Its timeline stays in the engine.
func (s *Store) Unload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saver.Stop()
	s.current = nil
}

// Diagram returns the loaded diagram's metadata, or nil when none is loaded.
func (s *Store) Diagram() *diagram.Diagram {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	return s.current.Clone()
}

// Elements returns the current element list.
func (s *Store) Elements() diagram.Elements {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Current().Elements
}

// Relationships returns the current relationship list.
func (s *Store) Relationships() []diagram.Relationship {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Current().Relationships
}

// Viewport returns the current camera state.
func (s *Store) Viewport() diagram.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

// CanUndo reports whether an undo step is available.
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// CanRedo reports whether a redo step is available.
func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// ClearDiagramHistory drops the timeline for a diagram, e.g. after permanent
// deletion.
func (s *Store) ClearDiagramHistory(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.ClearDiagram(id)
}

// Undo reverts the most recent committed change. The reverted state must be
// persisted, so a non-nil result reschedules autosave.
func (s *Store) Undo() (*history.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.history.Undo()
	if err != nil {
		return nil, err
	}
	if state != nil {
		s.saver.Schedule()
	}
	return state, nil
}

// Redo reapplies the most recently undone change.
func (s *Store) Redo() (*history.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.history.Redo()
	if err != nil {
		return nil, err
	}
	if state != nil {
		s.saver.Schedule()
	}
	return state, nil
}

// AddElement appends an element and commits immediately.
func (s *Store) AddElement(el diagram.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	elements := append(s.history.Current().Elements, el)
	if err := s.history.UpdateState(history.Update{Elements: elements}); err != nil {
		return err
	}
	return s.pushHistory(fmt.Sprintf("Add %s", el.ElementKind()))
}

// UpdateElement applies a partial update to the element with the given id.
// An unknown id leaves the list unchanged but still commits a history entry;
// the redundant undo step is harmless.
func (s *Store) UpdateElement(id string, update ElementUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.history.Current().Elements
	elements := make(diagram.Elements, len(current))
	for i, el := range current {
		if el.ElementID() == id {
			elements[i] = update.applyTo(el)
		} else {
			elements[i] = el
		}
	}
	if err := s.history.UpdateState(history.Update{Elements: elements}); err != nil {
		return err
	}
	return s.pushHistory("Update element")
}

// RemoveElement removes a single element and any relationship touching it.
// Unknown ids are ignored without committing anything.
func (s *Store) RemoveElement(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.history.Current().Elements.FindByID(id) == nil {
		return nil
	}
	return s.removeSelected([]string{id}, nil)
}

// RemoveSelected removes the named elements and relationships, cascading to
// every relationship whose source or target is among the removed elements
// even when that relationship was not explicitly listed.
func (s *Store) RemoveSelected(elementIDs, relationshipIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeSelected(elementIDs, relationshipIDs)
}

func (s *Store) removeSelected(elementIDs, relationshipIDs []string) error {
	state := s.history.Current()

	removeElement := make(map[string]bool, len(elementIDs))
	for _, id := range elementIDs {
		removeElement[id] = true
	}
	removeRelationship := make(map[string]bool, len(relationshipIDs))
	for _, id := range relationshipIDs {
		removeRelationship[id] = true
	}

	var removedKinds []diagram.ElementKind
	elements := make(diagram.Elements, 0, len(state.Elements))
	for _, el := range state.Elements {
		if removeElement[el.ElementID()] {
			removedKinds = append(removedKinds, el.ElementKind())
			continue
		}
		elements = append(elements, el)
	}

	relationships := make([]diagram.Relationship, 0, len(state.Relationships))
	for _, rel := range state.Relationships {
		if removeRelationship[rel.ID] || removeElement[rel.SourceID] || removeElement[rel.TargetID] {
			continue
		}
		relationships = append(relationships, rel)
	}

	err := s.history.UpdateState(history.Update{
		Elements:      elements,
		Relationships: relationships,
	})
	if err != nil {
		return err
	}

	total := len(elementIDs) + len(relationshipIDs)
	var desc string
	switch {
	case total == 1 && len(elementIDs) == 1 && len(removedKinds) > 0:
		desc = fmt.Sprintf("Delete %s", removedKinds[0])
	case total == 1:
		desc = "Delete relationship"
	default:
		desc = fmt.Sprintf("Delete %d items", total)
	}
	return s.pushHistory(desc)
}

// MoveElement updates one element's position without committing. A drag may
// call this dozens of times per second; only the final position matters for
// undo, so the commit waits for CommitMove.
func (s *Store) MoveElement(id string, x, y float64) error {
	return s.MoveElements([]Move{{ID: id, X: x, Y: y}})
}

// MoveElements applies a batch of transient position updates.
func (s *Store) MoveElements(moves []Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[string]Move, len(moves))
	for _, m := range moves {
		byID[m.ID] = m
	}

	current := s.history.Current().Elements
	elements := make(diagram.Elements, len(current))
	for i, el := range current {
		if m, ok := byID[el.ElementID()]; ok {
			elements[i] = el.WithPosition(diagram.Point{X: m.X, Y: m.Y})
		} else {
			elements[i] = el
		}
	}
	if err := s.history.UpdateState(history.Update{Elements: elements}); err != nil {
		return err
	}
	s.saver.Schedule()
	return nil
}

// CommitMove commits a finished single-element drag as one undo step.
func (s *Store) CommitMove(id string) error {
	return s.CommitMoves([]string{id})
}

// CommitMoves commits a finished multi-element drag as one undo step. Callers
// must not commit when no move occurred, or a no-op entry would be recorded.
func (s *Store) CommitMoves(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	desc := "Move element"
	if len(ids) != 1 {
		desc = fmt.Sprintf("Move %d elements", len(ids))
	}
	return s.pushHistory(desc)
}

// AddAttribute appends an attribute to a class-like element. Notes and
// unknown ids are left untouched.
func (s *Store) AddAttribute(classID string, attr diagram.Attribute) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateClass(classID, "Add attribute", func(c diagram.ClassElement) diagram.ClassElement {
		c.Attributes = append(c.Attributes, attr)
		return c
	})
}

// UpdateAttribute applies a partial update to one attribute of a class-like
// element.
func (s *Store) UpdateAttribute(classID, attributeID string, update AttributeUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateClass(classID, "Update attribute", func(c diagram.ClassElement) diagram.ClassElement {
		attrs := make([]diagram.Attribute, len(c.Attributes))
		for i, a := range c.Attributes {
			if a.ID == attributeID {
				attrs[i] = update.applyTo(a)
			} else {
				attrs[i] = a
			}
		}
		c.Attributes = attrs
		return c
	})
}

// RemoveAttribute removes one attribute of a class-like element.
func (s *Store) RemoveAttribute(classID, attributeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateClass(classID, "Remove attribute", func(c diagram.ClassElement) diagram.ClassElement {
		attrs := make([]diagram.Attribute, 0, len(c.Attributes))
		for _, a := range c.Attributes {
			if a.ID != attributeID {
				attrs = append(attrs, a)
			}
		}
		c.Attributes = attrs
		return c
	})
}

// AddMethod appends a method to a class-like element.
func (s *Store) AddMethod(classID string, method diagram.Method) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateClass(classID, "Add method", func(c diagram.ClassElement) diagram.ClassElement {
		c.Methods = append(c.Methods, method)
		return c
	})
}

// UpdateMethod applies a partial update to one method of a class-like element.
func (s *Store) UpdateMethod(classID, methodID string, update MethodUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateClass(classID, "Update method", func(c diagram.ClassElement) diagram.ClassElement {
		methods := make([]diagram.Method, len(c.Methods))
		for i, m := range c.Methods {
			if m.ID == methodID {
				methods[i] = update.applyTo(m)
			} else {
				methods[i] = m
			}
		}
		c.Methods = methods
		return c
	})
}

// RemoveMethod removes one method of a class-like element.
func (s *Store) RemoveMethod(classID, methodID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateClass(classID, "Remove method", func(c diagram.ClassElement) diagram.ClassElement {
		methods := make([]diagram.Method, 0, len(c.Methods))
		for _, m := range c.Methods {
			if m.ID != methodID {
				methods = append(methods, m)
			}
		}
		c.Methods = methods
		return c
	})
}

// updateClass maps fn over the class-like element with the given id and
// commits. Requires s.mu held.
func (s *Store) updateClass(classID, desc string, fn func(diagram.ClassElement) diagram.ClassElement) error {
	current := s.history.Current().Elements
	elements := make(diagram.Elements, len(current))
	for i, el := range current {
		if c, ok := el.(diagram.ClassElement); ok && c.ID == classID {
			elements[i] = fn(c)
		} else {
			elements[i] = el
		}
	}
	if err := s.history.UpdateState(history.Update{Elements: elements}); err != nil {
		return err
	}
	return s.pushHistory(desc)
}

// AddRelationship appends a relationship and commits. Endpoint ids are not
// validated here; that is the importer's responsibility.
func (s *Store) AddRelationship(rel diagram.Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	relationships := append(s.history.Current().Relationships, rel)
	if err := s.history.UpdateState(history.Update{Relationships: relationships}); err != nil {
		return err
	}
	return s.pushHistory("Add relationship")
}

// UpdateRelationship applies a partial update to one relationship.
func (s *Store) UpdateRelationship(id string, update RelationshipUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.history.Current().Relationships
	relationships := make([]diagram.Relationship, len(current))
	for i, rel := range current {
		if rel.ID == id {
			relationships[i] = update.applyTo(rel)
		} else {
			relationships[i] = rel
		}
	}
	if err := s.history.UpdateState(history.Update{Relationships: relationships}); err != nil {
		return err
	}
	return s.pushHistory("Update relationship")
}

// RemoveRelationship removes a single relationship.
func (s *Store) RemoveRelationship(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeSelected(nil, []string{id})
}

// SetViewport replaces the camera state. Viewport changes are transient:
// persisted, never undoable.
func (s *Store) SetViewport(v diagram.Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = v
	s.saver.Schedule()
}

// Pan shifts the camera by a screen-space delta.
func (s *Store) Pan(dx, dy float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport.X += dx
	s.viewport.Y += dy
	s.saver.Schedule()
}

// Zoom scales the camera around the screen point (cx, cy): the canvas point
// under the anchor stays fixed. The zoom level is clamped to
// [diagram.MinZoom, diagram.MaxZoom].
func (s *Store) Zoom(factor, cx, cy float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	oldZoom := s.viewport.Zoom
	newZoom := oldZoom * factor
	if newZoom < diagram.MinZoom {
		newZoom = diagram.MinZoom
	}
	if newZoom > diagram.MaxZoom {
		newZoom = diagram.MaxZoom
	}

	wx := (cx - s.viewport.X) / oldZoom
	wy := (cy - s.viewport.Y) / oldZoom

	s.viewport = diagram.Viewport{
		X:    cx - wx*newZoom,
		Y:    cy - wy*newZoom,
		Zoom: newZoom,
	}
	s.saver.Schedule()
}

// UpdateName renames the loaded diagram. Metadata is not document content,
// so no history entry is committed.
func (s *Store) UpdateName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return
	}
	s.current.Name = name
	s.saver.Schedule()
}

// Flush forces any pending autosave to write now. Used on shutdown.
func (s *Store) Flush() {
	s.saver.Flush()
}

// pushHistory commits one undo entry and schedules autosave. Requires s.mu
// held.
func (s *Store) pushHistory(description string) error {
	if err := s.history.Push(description); err != nil {
		return err
	}
	s.saver.Schedule()
	return nil
}

// saveNow assembles a point-in-time copy of the loaded diagram and writes it.
// It runs on the autosave timer goroutine; failures are logged and dropped,
// since the next edit schedules another save.
func (s *Store) saveNow() {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	snap := s.current.Clone()
	state := s.history.Current()
	snap.Elements = state.Elements.Clone()
	snap.Relationships = diagram.CloneRelationships(state.Relationships)
	snap.Viewport = s.viewport
	s.mu.Unlock()

	if err := s.storage.SaveDiagram(context.Background(), snap); err != nil {
		s.logger.Error("autosave failed",
			slog.String("diagram", snap.ID),
			slog.String("error", err.Error()))
	}
}
