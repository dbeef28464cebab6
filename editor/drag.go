package editor

import (
	"board/diagram"
	"board/store"
)

// Drag tracks an in-progress element drag: the positions of the dragged
// elements at gesture start and the anchor mouse position, both in document
// space. Positions stream into the document store transiently; the single
// history commit happens on End.
type Drag struct {
	active         bool
	startPositions map[string]diagram.Point
	startMouse     diagram.Point
	moved          bool
}

// NewDrag creates an idle drag tracker.
func NewDrag() *Drag {
	return &Drag{startPositions: make(map[string]diagram.Point)}
}

// IsActive reports whether a drag is in progress.
func (d *Drag) IsActive() bool {
	return d.active
}

// Start begins dragging the selected elements. Selected ids with no matching
// element are ignored. mouse is the gesture's anchor point in document space.
func (d *Drag) Start(elements diagram.Elements, sel *Selection, mouse diagram.Point) {
	positions := make(map[string]diagram.Point)
	for _, id := range sel.IDs() {
		if el := elements.FindByID(id); el != nil {
			positions[id] = el.Pos()
		}
	}
	d.active = true
	d.startPositions = positions
	d.startMouse = mouse
	d.moved = false
}

// Moves translates the current mouse position into a move batch: every
// dragged element keeps its offset from the gesture anchor.
func (d *Drag) Moves(mouse diagram.Point) []store.Move {
	if !d.active {
		return nil
	}

	dx := mouse.X - d.startMouse.X
	dy := mouse.Y - d.startMouse.Y
	if dx != 0 || dy != 0 {
		d.moved = true
	}

	moves := make([]store.Move, 0, len(d.startPositions))
	for id, start := range d.startPositions {
		moves = append(moves, store.Move{
			ID: id,
			X:  start.X + dx,
			Y:  start.Y + dy,
		})
	}
	return moves
}

// End finishes the gesture and returns the ids to commit. It returns nil when
// the drag never actually moved anything, so callers don't record a no-op
// history entry.
func (d *Drag) End() []string {
	if !d.active {
		return nil
	}
	moved := d.moved
	ids := make([]string, 0, len(d.startPositions))
	for id := range d.startPositions {
		ids = append(ids, id)
	}

	d.active = false
	d.startPositions = make(map[string]diagram.Point)
	d.moved = false

	if !moved {
		return nil
	}
	return ids
}
