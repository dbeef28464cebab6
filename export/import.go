package export

import (
	"encoding/json"
	"fmt"

	"board/diagram"
	"board/validation"
)

// ImportJSON parses and validates an exported payload and builds a fresh
// diagram from it. Validation is all-or-nothing: any structural defect fails
// the import with the full collected message list and no partial document.
// Every element, member and relationship id is regenerated, and relationship
// endpoints are remapped through the new id assignment.
func ImportJSON(data []byte) (*diagram.Diagram, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, validation.NewError([]string{"Invalid JSON format"})
	}

	root, ok := parsed.(map[string]any)
	if !ok {
		return nil, validation.NewError([]string{"Invalid data format"})
	}

	var errors []string

	if _, ok := root["version"].(float64); !ok {
		errors = append(errors, "Missing or invalid version")
	}

	rawDiagram, ok := root["diagram"].(map[string]any)
	if !ok {
		errors = append(errors, "Missing diagram data")
		return nil, validation.NewError(errors)
	}

	name, ok := rawDiagram["name"].(string)
	if !ok {
		errors = append(errors, "Missing diagram name")
	}

	if kind, _ := rawDiagram["type"].(string); diagram.DiagramKind(kind) != diagram.KindClassDiagram {
		errors = append(errors, "Invalid diagram type")
	}

	rawElements, ok := rawDiagram["elements"].([]any)
	if !ok {
		errors = append(errors, "Elements must be an array")
	}

	rawRelationships, ok := rawDiagram["relationships"].([]any)
	if !ok {
		errors = append(errors, "Relationships must be an array")
	}

	viewport, viewportOK := parseViewport(rawDiagram["viewport"])
	if !viewportOK {
		errors = append(errors, "Missing or invalid viewport")
	}

	if len(errors) > 0 {
		return nil, validation.NewError(errors)
	}

	elementIDs := make(map[string]bool)
	for _, raw := range rawElements {
		if el, ok := raw.(map[string]any); ok {
			if id, ok := el["id"].(string); ok {
				elementIDs[id] = true
			}
		}
	}

	for i, raw := range rawElements {
		errors = append(errors, validateElement(raw, i)...)
	}
	for i, raw := range rawRelationships {
		errors = append(errors, validateRelationship(raw, i, elementIDs)...)
	}
	if len(errors) > 0 {
		return nil, validation.NewError(errors)
	}

	// Validation passed; build the typed diagram with fresh ids.
	idMap := make(map[string]string, len(elementIDs))

	elements := make(diagram.Elements, 0, len(rawElements))
	for _, raw := range rawElements {
		el := raw.(map[string]any)
		oldID, _ := el["id"].(string)
		newID := diagram.NewID()
		if oldID != "" {
			idMap[oldID] = newID
		}
		elements = append(elements, buildElement(el, newID))
	}

	relationships := make([]diagram.Relationship, 0, len(rawRelationships))
	for _, raw := range rawRelationships {
		relationships = append(relationships, buildRelationship(raw.(map[string]any), idMap))
	}

	return &diagram.Diagram{
		ID:            diagram.NewID(),
		Name:          name,
		Kind:          diagram.KindClassDiagram,
		Elements:      elements,
		Relationships: relationships,
		Viewport:      viewport,
	}, nil
}

func validElementKind(kind string) bool {
	switch diagram.ElementKind(kind) {
	case diagram.KindClass, diagram.KindAbstract, diagram.KindInterface, diagram.KindNote:
		return true
	}
	return false
}

func validateElement(raw any, index int) []string {
	var errors []string
	prefix := fmt.Sprintf("Element %d", index)

	el, ok := raw.(map[string]any)
	if !ok {
		return []string{prefix + ": Invalid element data"}
	}

	kind, _ := el["type"].(string)
	if !validElementKind(kind) {
		return []string{fmt.Sprintf("%s: Invalid element type %q", prefix, kind)}
	}

	if _, ok := parsePoint(el["position"]); !ok {
		errors = append(errors, prefix+": Missing or invalid position")
	}

	if diagram.ElementKind(kind) == diagram.KindNote {
		if _, ok := el["content"].(string); !ok {
			errors = append(errors, prefix+": Missing note content")
		}
		return errors
	}

	if _, ok := el["name"].(string); !ok {
		errors = append(errors, prefix+": Missing class name")
	}

	if attrs, ok := el["attributes"].([]any); ok {
		for i, raw := range attrs {
			attr, ok := raw.(map[string]any)
			if !ok {
				errors = append(errors, fmt.Sprintf("%s: Attribute %d is invalid", prefix, i))
				continue
			}
			if _, ok := attr["name"].(string); !ok {
				errors = append(errors, fmt.Sprintf("%s: Attribute %d missing name", prefix, i))
			}
			if _, ok := attr["dataType"].(string); !ok {
				errors = append(errors, fmt.Sprintf("%s: Attribute %d missing dataType", prefix, i))
			}
			if vis, _ := attr["visibility"].(string); !diagram.Visibility(vis).Valid() {
				errors = append(errors, fmt.Sprintf("%s: Attribute %d has invalid visibility", prefix, i))
			}
		}
	}

	if methods, ok := el["methods"].([]any); ok {
		for i, raw := range methods {
			method, ok := raw.(map[string]any)
			if !ok {
				errors = append(errors, fmt.Sprintf("%s: Method %d is invalid", prefix, i))
				continue
			}
			if _, ok := method["name"].(string); !ok {
				errors = append(errors, fmt.Sprintf("%s: Method %d missing name", prefix, i))
			}
			if _, ok := method["returnType"].(string); !ok {
				errors = append(errors, fmt.Sprintf("%s: Method %d missing returnType", prefix, i))
			}
			if vis, _ := method["visibility"].(string); !diagram.Visibility(vis).Valid() {
				errors = append(errors, fmt.Sprintf("%s: Method %d has invalid visibility", prefix, i))
			}
			if params, ok := method["parameters"].([]any); ok {
				for j, raw := range params {
					param, ok := raw.(map[string]any)
					if !ok {
						errors = append(errors, fmt.Sprintf("%s: Method %d parameter %d is invalid", prefix, i, j))
						continue
					}
					if _, ok := param["name"].(string); !ok {
						errors = append(errors, fmt.Sprintf("%s: Method %d parameter %d missing name", prefix, i, j))
					}
					if _, ok := param["type"].(string); !ok {
						errors = append(errors, fmt.Sprintf("%s: Method %d parameter %d missing type", prefix, i, j))
					}
				}
			}
		}
	}

	return errors
}

func validateRelationship(raw any, index int, elementIDs map[string]bool) []string {
	var errors []string
	prefix := fmt.Sprintf("Relationship %d", index)

	rel, ok := raw.(map[string]any)
	if !ok {
		return []string{prefix + ": Invalid relationship data"}
	}

	if kind, _ := rel["type"].(string); !diagram.RelationshipKind(kind).Valid() {
		errors = append(errors, fmt.Sprintf("%s: Invalid relationship type %q", prefix, kind))
	}

	sourceID, sourceOK := rel["sourceId"].(string)
	targetID, targetOK := rel["targetId"].(string)
	if !sourceOK || !targetOK {
		errors = append(errors, prefix+": Missing sourceId or targetId")
	} else {
		if !elementIDs[sourceID] {
			errors = append(errors, fmt.Sprintf("%s: sourceId references non-existent element %q", prefix, sourceID))
		}
		if !elementIDs[targetID] {
			errors = append(errors, fmt.Sprintf("%s: targetId references non-existent element %q", prefix, targetID))
		}
	}

	if anchors, ok := rel["anchors"].(map[string]any); ok {
		if source, ok := anchors["source"].(string); ok && !diagram.AnchorPoint(source).Valid() {
			errors = append(errors, fmt.Sprintf("%s: Invalid anchor source %q", prefix, source))
		}
		if target, ok := anchors["target"].(string); ok && !diagram.AnchorPoint(target).Valid() {
			errors = append(errors, fmt.Sprintf("%s: Invalid anchor target %q", prefix, target))
		}
	}

	return errors
}

func parsePoint(raw any) (diagram.Point, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return diagram.Point{}, false
	}
	x, xOK := obj["x"].(float64)
	y, yOK := obj["y"].(float64)
	if !xOK || !yOK {
		return diagram.Point{}, false
	}
	return diagram.Point{X: x, Y: y}, true
}

func parseViewport(raw any) (diagram.Viewport, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return diagram.Viewport{}, false
	}
	x, xOK := obj["x"].(float64)
	y, yOK := obj["y"].(float64)
	zoom, zoomOK := obj["zoom"].(float64)
	if !xOK || !yOK || !zoomOK {
		return diagram.Viewport{}, false
	}
	return diagram.Viewport{X: x, Y: y, Zoom: zoom}, true
}

// buildElement constructs the typed element from validated raw data,
// regenerating every nested member id.
func buildElement(el map[string]any, newID string) diagram.Element {
	kind, _ := el["type"].(string)
	position, _ := parsePoint(el["position"])

	if diagram.ElementKind(kind) == diagram.KindNote {
		content, _ := el["content"].(string)
		return diagram.NoteElement{
			ID:       newID,
			Kind:     diagram.KindNote,
			Content:  content,
			Position: position,
		}
	}

	name, _ := el["name"].(string)
	class := diagram.ClassElement{
		ID:         newID,
		Kind:       diagram.ElementKind(kind),
		Name:       name,
		Position:   position,
		Attributes: []diagram.Attribute{},
		Methods:    []diagram.Method{},
	}

	if attrs, ok := el["attributes"].([]any); ok {
		for _, raw := range attrs {
			attr := raw.(map[string]any)
			name, _ := attr["name"].(string)
			dataType, _ := attr["dataType"].(string)
			vis, _ := attr["visibility"].(string)
			class.Attributes = append(class.Attributes, diagram.Attribute{
				ID:         diagram.NewID(),
				Name:       name,
				DataType:   dataType,
				Visibility: diagram.Visibility(vis),
			})
		}
	}

	if methods, ok := el["methods"].([]any); ok {
		for _, raw := range methods {
			method := raw.(map[string]any)
			name, _ := method["name"].(string)
			returnType, _ := method["returnType"].(string)
			vis, _ := method["visibility"].(string)
			m := diagram.Method{
				ID:         diagram.NewID(),
				Name:       name,
				ReturnType: returnType,
				Visibility: diagram.Visibility(vis),
				Parameters: []diagram.Parameter{},
			}
			if params, ok := method["parameters"].([]any); ok {
				for _, raw := range params {
					param := raw.(map[string]any)
					name, _ := param["name"].(string)
					typ, _ := param["type"].(string)
					m.Parameters = append(m.Parameters, diagram.Parameter{
						ID:   diagram.NewID(),
						Name: name,
						Type: typ,
					})
				}
			}
			class.Methods = append(class.Methods, m)
		}
	}

	return class
}

// buildRelationship constructs the typed relationship from validated raw
// data, remapping both endpoints through the new element id assignment.
func buildRelationship(rel map[string]any, idMap map[string]string) diagram.Relationship {
	kind, _ := rel["type"].(string)
	sourceID, _ := rel["sourceId"].(string)
	targetID, _ := rel["targetId"].(string)

	anchors := diagram.AutoAnchors()
	if raw, ok := rel["anchors"].(map[string]any); ok {
		if source, ok := raw["source"].(string); ok {
			anchors.Source = diagram.AnchorPoint(source)
		}
		if target, ok := raw["target"].(string); ok {
			anchors.Target = diagram.AnchorPoint(target)
		}
	}

	out := diagram.Relationship{
		ID:       diagram.NewID(),
		Kind:     diagram.RelationshipKind(kind),
		SourceID: mappedID(idMap, sourceID),
		TargetID: mappedID(idMap, targetID),
		Anchors:  anchors,
	}
	if v, ok := rel["sourceMultiplicity"].(string); ok {
		out.SourceMultiplicity = v
	}
	if v, ok := rel["targetMultiplicity"].(string); ok {
		out.TargetMultiplicity = v
	}
	if v, ok := rel["label"].(string); ok {
		out.Label = v
	}
	return out
}

func mappedID(idMap map[string]string, id string) string {
	if mapped, ok := idMap[id]; ok {
		return mapped
	}
	return id
}
