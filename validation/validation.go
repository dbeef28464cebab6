// Package validation collects structural defects in diagrams as
// human-readable messages. Import fails atomically on any defect; in-memory
// edits are not re-validated for performance.
package validation

import (
	"fmt"
	"strings"

	"board/diagram"
)

// Error is a list of structural defects. It is only returned non-empty.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid diagram: %s", strings.Join(e.Messages, "; "))
}

// NewError wraps collected messages, or returns nil when there are none.
func NewError(messages []string) error {
	if len(messages) == 0 {
		return nil
	}
	return &Error{Messages: messages}
}

// ValidateDiagram checks a typed diagram for structural defects: dangling
// relationship endpoints, invalid enum values and an out-of-range zoom.
func ValidateDiagram(d *diagram.Diagram) []string {
	var errors []string

	ids := make(map[string]bool, len(d.Elements))
	for i, el := range d.Elements {
		if el.ElementID() == "" {
			errors = append(errors, fmt.Sprintf("Element %d: missing id", i))
			continue
		}
		if ids[el.ElementID()] {
			errors = append(errors, fmt.Sprintf("Element %d: duplicate id %q", i, el.ElementID()))
		}
		ids[el.ElementID()] = true
	}

	for i, rel := range d.Relationships {
		prefix := fmt.Sprintf("Relationship %d", i)
		if !rel.Kind.Valid() {
			errors = append(errors, fmt.Sprintf("%s: Invalid relationship type %q", prefix, rel.Kind))
		}
		if !ids[rel.SourceID] {
			errors = append(errors, fmt.Sprintf("%s: sourceId references non-existent element %q", prefix, rel.SourceID))
		}
		if !ids[rel.TargetID] {
			errors = append(errors, fmt.Sprintf("%s: targetId references non-existent element %q", prefix, rel.TargetID))
		}
		if !rel.Anchors.Source.Valid() {
			errors = append(errors, fmt.Sprintf("%s: Invalid anchor source %q", prefix, rel.Anchors.Source))
		}
		if !rel.Anchors.Target.Valid() {
			errors = append(errors, fmt.Sprintf("%s: Invalid anchor target %q", prefix, rel.Anchors.Target))
		}
	}

	if d.Viewport.Zoom < diagram.MinZoom || d.Viewport.Zoom > diagram.MaxZoom {
		errors = append(errors, fmt.Sprintf("Viewport zoom %g out of range", d.Viewport.Zoom))
	}

	return errors
}
