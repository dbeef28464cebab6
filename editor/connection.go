package editor

import "board/diagram"

// ConnectionDrag tracks a new relationship being dragged out of an element
// anchor toward its target.
type ConnectionDrag struct {
	SourceElementID string
	SourceAnchor    diagram.AnchorPoint
	StartPosition   diagram.Point
}

// RelationshipEnd names the end of a relationship being adjusted.
type RelationshipEnd string

const (
	SourceEnd RelationshipEnd = "source"
	TargetEnd RelationshipEnd = "target"
)

// AnchorAdjustment tracks one end of an existing relationship being dragged
// to a new element or anchor while the other end stays fixed.
type AnchorAdjustment struct {
	RelationshipID string
	End            RelationshipEnd
	FixedPosition  diagram.Point
	StartPosition  diagram.Point
}

// connectionPhase is the gesture state machine: idle, dragging a new
// connection, or adjusting an end of an existing one.
type connectionPhase int

const (
	phaseIdle connectionPhase = iota
	phaseDragging
	phaseAdjusting
)

// Connection is the transient state of connection gestures.
type Connection struct {
	phase      connectionPhase
	drag       ConnectionDrag
	adjustment AnchorAdjustment
}

// NewConnection creates an idle connection gesture tracker.
func NewConnection() *Connection {
	return &Connection{}
}

// IsDragging reports whether a new connection is being dragged.
func (c *Connection) IsDragging() bool {
	return c.phase == phaseDragging
}

// Drag returns the in-progress connection drag, or nil when not dragging.
func (c *Connection) Drag() *ConnectionDrag {
	if c.phase != phaseDragging {
		return nil
	}
	d := c.drag
	return &d
}

// IsAdjusting reports whether an existing relationship end is being moved.
func (c *Connection) IsAdjusting() bool {
	return c.phase == phaseAdjusting
}

// Adjustment returns the in-progress adjustment, or nil when not adjusting.
func (c *Connection) Adjustment() *AnchorAdjustment {
	if c.phase != phaseAdjusting {
		return nil
	}
	a := c.adjustment
	return &a
}

// Start begins dragging a new connection out of sourceElementID.
func (c *Connection) Start(sourceElementID string, sourceAnchor diagram.AnchorPoint, position diagram.Point) {
	c.phase = phaseDragging
	c.drag = ConnectionDrag{
		SourceElementID: sourceElementID,
		SourceAnchor:    sourceAnchor,
		StartPosition:   position,
	}
}

// StartAdjustment begins moving one end of an existing relationship.
func (c *Connection) StartAdjustment(relationshipID string, end RelationshipEnd, fixed, start diagram.Point) {
	c.phase = phaseAdjusting
	c.adjustment = AnchorAdjustment{
		RelationshipID: relationshipID,
		End:            end,
		FixedPosition:  fixed,
		StartPosition:  start,
	}
}

// Cancel returns the gesture tracker to idle.
func (c *Connection) Cancel() {
	c.phase = phaseIdle
}
