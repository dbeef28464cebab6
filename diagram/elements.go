package diagram

import (
	"encoding/json"
	"fmt"
)

// Visibility of a class member.
type Visibility string

const (
	Public    Visibility = "public"
	Private   Visibility = "private"
	Protected Visibility = "protected"
)

// Valid reports whether v is one of the known visibility levels.
func (v Visibility) Valid() bool {
	switch v {
	case Public, Private, Protected:
		return true
	}
	return false
}

// ElementKind discriminates the element variants.
type ElementKind string

const (
	KindClass     ElementKind = "class"
	KindAbstract  ElementKind = "abstract"
	KindInterface ElementKind = "interface"
	KindNote      ElementKind = "note"
)

// Parameter is a single method parameter.
type Parameter struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Attribute is a field of a class-like element.
type Attribute struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	DataType   string     `json:"dataType"`
	Visibility Visibility `json:"visibility"`
}

// Method is an operation of a class-like element.
type Method struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	ReturnType string      `json:"returnType"`
	Visibility Visibility  `json:"visibility"`
	Parameters []Parameter `json:"parameters"`
}

// Clone returns a deep copy of the method.
func (m Method) Clone() Method {
	c := m
	c.Parameters = make([]Parameter, len(m.Parameters))
	copy(c.Parameters, m.Parameters)
	return c
}

// Element is a diagram element: either a class-like element or a note.
// Every site that branches on the variant should use a type switch over
// ClassElement and NoteElement so the compiler keeps the variants apart.
type Element interface {
	ElementID() string
	ElementKind() ElementKind
	Pos() Point
	// WithPosition returns a copy of the element at the given position.
	WithPosition(p Point) Element
	// Clone returns a deep copy, safe to keep across later edits.
	Clone() Element
}

// ClassElement is a class, abstract class or interface box.
type ClassElement struct {
	ID         string      `json:"id"`
	Kind       ElementKind `json:"type"`
	Name       string      `json:"name"`
	Position   Point       `json:"position"`
	Attributes []Attribute `json:"attributes"`
	Methods    []Method    `json:"methods"`
}

// NewClass creates a class-like element with a fresh id.
func NewClass(kind ElementKind, name string, position Point) ClassElement {
	return ClassElement{
		ID:         NewID(),
		Kind:       kind,
		Name:       name,
		Position:   position,
		Attributes: []Attribute{},
		Methods:    []Method{},
	}
}

func (c ClassElement) ElementID() string        { return c.ID }
func (c ClassElement) ElementKind() ElementKind { return c.Kind }
func (c ClassElement) Pos() Point               { return c.Position }

func (c ClassElement) WithPosition(p Point) Element {
	c.Position = p
	return c
}

func (c ClassElement) Clone() Element {
	clone := c
	clone.Attributes = make([]Attribute, len(c.Attributes))
	copy(clone.Attributes, c.Attributes)
	clone.Methods = make([]Method, len(c.Methods))
	for i, m := range c.Methods {
		clone.Methods[i] = m.Clone()
	}
	return clone
}

// NoteElement is a free-floating text note.
type NoteElement struct {
	ID       string      `json:"id"`
	Kind     ElementKind `json:"type"`
	Content  string      `json:"content"`
	Position Point       `json:"position"`
}

// NewNote creates a note element with a fresh id.
func NewNote(content string, position Point) NoteElement {
	return NoteElement{
		ID:       NewID(),
		Kind:     KindNote,
		Content:  content,
		Position: position,
	}
}

func (n NoteElement) ElementID() string        { return n.ID }
func (n NoteElement) ElementKind() ElementKind { return KindNote }
func (n NoteElement) Pos() Point               { return n.Position }

func (n NoteElement) WithPosition(p Point) Element {
	n.Position = p
	return n
}

func (n NoteElement) Clone() Element { return n }

// IsClassLike reports whether the element is a class, abstract class or interface.
func IsClassLike(e Element) bool {
	_, ok := e.(ClassElement)
	return ok
}

// Elements is an ordered list of diagram elements. It carries the custom JSON
// decoding needed to pick the concrete variant from the "type" field.
type Elements []Element

// Clone returns a deep copy of the element list.
func (e Elements) Clone() Elements {
	if e == nil {
		return nil
	}
	clone := make(Elements, len(e))
	for i, el := range e {
		clone[i] = el.Clone()
	}
	return clone
}

// FindByID returns the element with the given id, or nil.
func (e Elements) FindByID(id string) Element {
	for _, el := range e {
		if el.ElementID() == id {
			return el
		}
	}
	return nil
}

func (e *Elements) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(Elements, 0, len(raw))
	for i, msg := range raw {
		var probe struct {
			Type ElementKind `json:"type"`
		}
		if err := json.Unmarshal(msg, &probe); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}

		switch probe.Type {
		case KindClass, KindAbstract, KindInterface:
			var c ClassElement
			if err := json.Unmarshal(msg, &c); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
			if c.Attributes == nil {
				c.Attributes = []Attribute{}
			}
			if c.Methods == nil {
				c.Methods = []Method{}
			}
			out = append(out, c)
		case KindNote:
			var n NoteElement
			if err := json.Unmarshal(msg, &n); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, n)
		default:
			return fmt.Errorf("element %d: unknown element type %q", i, probe.Type)
		}
	}

	*e = out
	return nil
}
