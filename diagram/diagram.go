package diagram

// DiagramKind is the diagram variant. Only class diagrams exist today.
type DiagramKind string

const KindClassDiagram DiagramKind = "class"

// Diagram is the persisted unit: document content plus catalogue metadata.
// The history engine only ever sees the elements and relationships.
type Diagram struct {
	ID            string         `json:"id"`
	FolderID      string         `json:"folderId,omitempty"`
	Name          string         `json:"name"`
	Kind          DiagramKind    `json:"type"`
	Elements      Elements       `json:"elements"`
	Relationships []Relationship `json:"relationships"`
	Viewport      Viewport       `json:"viewport"`
	Trashed       bool           `json:"isTrashed"`
}

// NewDiagram creates an empty class diagram with a fresh id.
func NewDiagram(name, folderID string) *Diagram {
	return &Diagram{
		ID:            NewID(),
		FolderID:      folderID,
		Name:          name,
		Kind:          KindClassDiagram,
		Elements:      Elements{},
		Relationships: []Relationship{},
		Viewport:      DefaultViewport(),
	}
}

// Clone creates a deep copy of the diagram.
func (d *Diagram) Clone() *Diagram {
	if d == nil {
		return nil
	}
	clone := *d
	clone.Elements = d.Elements.Clone()
	clone.Relationships = CloneRelationships(d.Relationships)
	return &clone
}

// Folder groups diagrams in the workspace sidebar.
type Folder struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"`
	Trashed  bool   `json:"isTrashed"`
}

// NewFolder creates a folder with a fresh id.
func NewFolder(name, parentID string) *Folder {
	return &Folder{
		ID:       NewID(),
		Name:     name,
		ParentID: parentID,
	}
}
