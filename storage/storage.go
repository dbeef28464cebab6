// Package storage persists diagrams, folders and editor settings. The
// document store and workspace only see the Store interface; the default
// implementation is an embedded BadgerDB, with an in-memory variant for tests.
package storage

import (
	"context"
	"errors"

	"board/diagram"
)

// ErrNotFound is returned when the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Store is the persistence collaborator. All methods may fail; callers that
// autosave treat failures as best-effort (log and wait for the next edit).
type Store interface {
	Diagram(ctx context.Context, id string) (*diagram.Diagram, error)
	Diagrams(ctx context.Context) ([]*diagram.Diagram, error)
	SaveDiagram(ctx context.Context, d *diagram.Diagram) error
	DeleteDiagram(ctx context.Context, id string) error

	Folder(ctx context.Context, id string) (*diagram.Folder, error)
	Folders(ctx context.Context) ([]*diagram.Folder, error)
	SaveFolder(ctx context.Context, f *diagram.Folder) error
	DeleteFolder(ctx context.Context, id string) error

	// Setting decodes the stored JSON value for key into out. The bool
	// result reports whether the key existed.
	Setting(ctx context.Context, key string, out any) (bool, error)
	SetSetting(ctx context.Context, key string, value any) error

	Close() error
}
