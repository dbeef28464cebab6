package diagram

// RelationshipKind is the UML relationship variant.
type RelationshipKind string

const (
	Association    RelationshipKind = "association"
	Inheritance    RelationshipKind = "inheritance"
	Implementation RelationshipKind = "implementation"
	Aggregation    RelationshipKind = "aggregation"
	Composition    RelationshipKind = "composition"
)

// Valid reports whether k is one of the known relationship kinds.
func (k RelationshipKind) Valid() bool {
	switch k {
	case Association, Inheritance, Implementation, Aggregation, Composition:
		return true
	}
	return false
}

// AnchorPoint names the side of an element a relationship attaches to.
type AnchorPoint string

const (
	AnchorTop    AnchorPoint = "top"
	AnchorBottom AnchorPoint = "bottom"
	AnchorLeft   AnchorPoint = "left"
	AnchorRight  AnchorPoint = "right"
	AnchorAuto   AnchorPoint = "auto"
)

// Valid reports whether a is one of the known anchor points.
func (a AnchorPoint) Valid() bool {
	switch a {
	case AnchorTop, AnchorBottom, AnchorLeft, AnchorRight, AnchorAuto:
		return true
	}
	return false
}

// Anchors holds the attachment sides for both ends of a relationship.
type Anchors struct {
	Source AnchorPoint `json:"source"`
	Target AnchorPoint `json:"target"`
}

// AutoAnchors returns anchors that let the renderer pick the best sides.
func AutoAnchors() Anchors {
	return Anchors{Source: AnchorAuto, Target: AnchorAuto}
}

// Relationship is a directed edge between two elements. SourceID and TargetID
// reference element ids in the same diagram; the reference is enforced at
// import time, not on every in-memory edit.
type Relationship struct {
	ID                 string           `json:"id"`
	Kind               RelationshipKind `json:"type"`
	SourceID           string           `json:"sourceId"`
	TargetID           string           `json:"targetId"`
	Anchors            Anchors          `json:"anchors"`
	SourceMultiplicity string           `json:"sourceMultiplicity,omitempty"`
	TargetMultiplicity string           `json:"targetMultiplicity,omitempty"`
	Label              string           `json:"label,omitempty"`
}

// NewRelationship creates a relationship with a fresh id and auto anchors.
func NewRelationship(kind RelationshipKind, sourceID, targetID string) Relationship {
	return Relationship{
		ID:       NewID(),
		Kind:     kind,
		SourceID: sourceID,
		TargetID: targetID,
		Anchors:  AutoAnchors(),
	}
}

// CloneRelationships returns a copy of the relationship list.
func CloneRelationships(rels []Relationship) []Relationship {
	if rels == nil {
		return nil
	}
	clone := make([]Relationship, len(rels))
	copy(clone, rels)
	return clone
}
