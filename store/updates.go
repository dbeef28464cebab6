package store

import "board/diagram"

// Move is one entry of a drag batch: the new document-space position for an
// element.
type Move struct {
	ID string
	X  float64
	Y  float64
}

// ElementUpdate is a partial element update. Nil fields keep the current
// value. Variant-specific fields are only applied to the matching variant:
// a note never gains a name, attributes or methods, and a class-like element
// never gains content.
type ElementUpdate struct {
	Name       *string
	Content    *string
	Position   *diagram.Point
	Attributes []diagram.Attribute
	Methods    []diagram.Method
}

// AttributeUpdate is a partial attribute update; nil fields keep the current
// value.
type AttributeUpdate struct {
	Name       *string
	DataType   *string
	Visibility *diagram.Visibility
}

// MethodUpdate is a partial method update; nil fields keep the current value.
type MethodUpdate struct {
	Name       *string
	ReturnType *string
	Visibility *diagram.Visibility
	Parameters []diagram.Parameter
}

// RelationshipUpdate is a partial relationship update; nil fields keep the
// current value.
type RelationshipUpdate struct {
	Kind               *diagram.RelationshipKind
	SourceID           *string
	TargetID           *string
	Anchors            *diagram.Anchors
	SourceMultiplicity *string
	TargetMultiplicity *string
	Label              *string
}

func (u ElementUpdate) applyTo(el diagram.Element) diagram.Element {
	switch e := el.(type) {
	case diagram.ClassElement:
		if u.Name != nil {
			e.Name = *u.Name
		}
		if u.Position != nil {
			e.Position = *u.Position
		}
		if u.Attributes != nil {
			e.Attributes = u.Attributes
		}
		if u.Methods != nil {
			e.Methods = u.Methods
		}
		return e
	case diagram.NoteElement:
		if u.Content != nil {
			e.Content = *u.Content
		}
		if u.Position != nil {
			e.Position = *u.Position
		}
		return e
	default:
		return el
	}
}

func (u AttributeUpdate) applyTo(a diagram.Attribute) diagram.Attribute {
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.DataType != nil {
		a.DataType = *u.DataType
	}
	if u.Visibility != nil {
		a.Visibility = *u.Visibility
	}
	return a
}

func (u MethodUpdate) applyTo(m diagram.Method) diagram.Method {
	if u.Name != nil {
		m.Name = *u.Name
	}
	if u.ReturnType != nil {
		m.ReturnType = *u.ReturnType
	}
	if u.Visibility != nil {
		m.Visibility = *u.Visibility
	}
	if u.Parameters != nil {
		m.Parameters = u.Parameters
	}
	return m
}

func (u RelationshipUpdate) applyTo(r diagram.Relationship) diagram.Relationship {
	if u.Kind != nil {
		r.Kind = *u.Kind
	}
	if u.SourceID != nil {
		r.SourceID = *u.SourceID
	}
	if u.TargetID != nil {
		r.TargetID = *u.TargetID
	}
	if u.Anchors != nil {
		r.Anchors = *u.Anchors
	}
	if u.SourceMultiplicity != nil {
		r.SourceMultiplicity = *u.SourceMultiplicity
	}
	if u.TargetMultiplicity != nil {
		r.TargetMultiplicity = *u.TargetMultiplicity
	}
	if u.Label != nil {
		r.Label = *u.Label
	}
	return r
}
