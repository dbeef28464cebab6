package export

import (
	"encoding/json"
	"time"

	"board/diagram"
)

// PayloadVersion is the current interchange payload version.
const PayloadVersion = 1

// Payload is the versioned envelope written by the JSON exporter. The
// diagram inside carries no catalogue state (folder, trash flag): exports are
// standalone documents.
type Payload struct {
	Version    int             `json:"version"`
	ExportedAt time.Time       `json:"exportedAt"`
	Diagram    ExportedDiagram `json:"diagram"`
}

// ExportedDiagram is the document portion of the payload.
type ExportedDiagram struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Kind          diagram.DiagramKind    `json:"type"`
	Elements      diagram.Elements       `json:"elements"`
	Relationships []diagram.Relationship `json:"relationships"`
	Viewport      diagram.Viewport       `json:"viewport"`
}

// JSONExporter writes the native versioned JSON payload.
type JSONExporter struct {
	// Pretty indents the output for humans. On by default.
	Pretty bool
	// Version overrides the payload version. Zero uses PayloadVersion.
	Version int

	// now is swapped in tests.
	now func() time.Time
}

// NewJSONExporter creates a JSON exporter with default options.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{Pretty: true, now: time.Now}
}

// Export serializes the diagram into the versioned payload.
func (e *JSONExporter) Export(d *diagram.Diagram) (Result, error) {
	version := e.Version
	if version == 0 {
		version = PayloadVersion
	}
	now := e.now
	if now == nil {
		now = time.Now
	}

	payload := Payload{
		Version:    version,
		ExportedAt: now().UTC(),
		Diagram: ExportedDiagram{
			ID:            d.ID,
			Name:          d.Name,
			Kind:          d.Kind,
			Elements:      d.Elements,
			Relationships: d.Relationships,
			Viewport:      d.Viewport,
		},
	}

	var data []byte
	var err error
	if e.Pretty {
		data, err = json.MarshalIndent(payload, "", "\t")
	} else {
		data, err = json.Marshal(payload)
	}
	if err != nil {
		return Result{}, err
	}

	return Result{
		Data:     data,
		Filename: sanitizeFilename(d.Name) + ".json",
		MIMEType: "application/json",
	}, nil
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// FormatName returns the format name.
func (e *JSONExporter) FormatName() string {
	return "JSON"
}
