// Package export serializes diagrams to interchange formats and imports
// them back. Import regenerates every id, so an imported diagram never
// collides with documents already in the workspace.
package export

import (
	"fmt"
	"strings"

	"board/diagram"
)

// Format represents an export format.
type Format string

// FormatJSON is the native versioned JSON payload.
const FormatJSON Format = "json"

// Result is a finished export: the encoded payload plus the filename and
// MIME type a UI would hand to the browser or filesystem.
type Result struct {
	Data     []byte
	Filename string
	MIMEType string
}

// Exporter converts a diagram to one target format.
type Exporter interface {
	// Export serializes the diagram.
	Export(d *diagram.Diagram) (Result, error)
	// FileExtension returns the recommended file extension.
	FileExtension() string
	// FormatName returns a human-readable name for the format.
	FormatName() string
}

// NewExporter creates an exporter for the specified format.
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatJSON:
		return NewJSONExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// sanitizeFilename strips characters that are unsafe in filenames.
func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}
