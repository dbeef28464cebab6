// Package workspace manages the diagram catalogue around the editor: the
// folder tree, soft-delete trash, and persisted UI settings such as the last
// open diagram. It owns which document the store currently edits.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"board/diagram"
	"board/storage"
	"board/store"
)

// Setting keys. Values are JSON-encoded by the storage layer.
const (
	settingLastDiagram   = "lastDiagramId"
	settingFolderExpand  = "folderExpandState"
	settingTrashExpanded = "trashExpanded"
)

// DefaultDiagramName is used when a diagram is created without a name.
const DefaultDiagramName = "Untitled Diagram"

// Workspace is the catalogue of diagrams and folders backed by persistent
// storage. It is not safe for concurrent use; like the document store it is
// driven from a single event loop.
type Workspace struct {
	storage storage.Store
	store   *store.Store

	diagrams map[string]*diagram.Diagram
	folders  map[string]*diagram.Folder
	activeID string

	folderExpand  map[string]bool
	trashExpanded bool
}

// New creates a workspace over st, editing documents through docs.
func New(st storage.Store, docs *store.Store) *Workspace {
	return &Workspace{
		storage:      st,
		store:        docs,
		diagrams:     make(map[string]*diagram.Diagram),
		folders:      make(map[string]*diagram.Folder),
		folderExpand: make(map[string]bool),
	}
}

// Initialize loads the catalogue and settings, then opens the last used
// diagram. When the workspace is empty (or the last diagram is gone) it
// falls back to the first live diagram, creating a fresh untitled one if
// none exists.
func (w *Workspace) Initialize(ctx context.Context) error {
	diagrams, err := w.storage.Diagrams(ctx)
	if err != nil {
		return fmt.Errorf("load diagrams: %w", err)
	}
	for _, d := range diagrams {
		w.diagrams[d.ID] = d
	}

	folders, err := w.storage.Folders(ctx)
	if err != nil {
		return fmt.Errorf("load folders: %w", err)
	}
	for _, f := range folders {
		w.folders[f.ID] = f
	}

	if _, err := w.storage.Setting(ctx, settingFolderExpand, &w.folderExpand); err != nil {
		return fmt.Errorf("load folder expand state: %w", err)
	}
	if w.folderExpand == nil {
		w.folderExpand = make(map[string]bool)
	}
	if _, err := w.storage.Setting(ctx, settingTrashExpanded, &w.trashExpanded); err != nil {
		return fmt.Errorf("load trash state: %w", err)
	}

	var lastID string
	if _, err := w.storage.Setting(ctx, settingLastDiagram, &lastID); err != nil {
		return fmt.Errorf("load last diagram id: %w", err)
	}
	if d, ok := w.diagrams[lastID]; ok && !d.Trashed {
		return w.Open(ctx, lastID)
	}

	if live := w.Diagrams(); len(live) > 0 {
		return w.Open(ctx, live[0].ID)
	}

	created, err := w.CreateDiagram(ctx, DefaultDiagramName, "")
	if err != nil {
		return err
	}
	return w.Open(ctx, created.ID)
}

// ActiveID returns the id of the open diagram, or "" when none is open.
func (w *Workspace) ActiveID() string {
	return w.activeID
}

// Diagrams returns the live (non-trashed) diagrams sorted by name.
func (w *Workspace) Diagrams() []*diagram.Diagram {
	out := make([]*diagram.Diagram, 0, len(w.diagrams))
	for _, d := range w.diagrams {
		if !d.Trashed {
			out = append(out, d)
		}
	}
	sortDiagrams(out)
	return out
}

// DiagramsInFolder returns the live diagrams directly inside folderID.
// The root is folderID == "".
func (w *Workspace) DiagramsInFolder(folderID string) []*diagram.Diagram {
	var out []*diagram.Diagram
	for _, d := range w.diagrams {
		if !d.Trashed && d.FolderID == folderID {
			out = append(out, d)
		}
	}
	sortDiagrams(out)
	return out
}

// Folders returns the live folders directly inside parentID, sorted by name.
func (w *Workspace) Folders(parentID string) []*diagram.Folder {
	var out []*diagram.Folder
	for _, f := range w.folders {
		if !f.Trashed && f.ParentID == parentID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// TrashedDiagrams returns the diagrams in the trash, sorted by name.
func (w *Workspace) TrashedDiagrams() []*diagram.Diagram {
	var out []*diagram.Diagram
	for _, d := range w.diagrams {
		if d.Trashed {
			out = append(out, d)
		}
	}
	sortDiagrams(out)
	return out
}

// Open makes the diagram the active document, flushing any pending edits of
// the previous one first.
func (w *Workspace) Open(ctx context.Context, id string) error {
	d, ok := w.diagrams[id]
	if !ok {
		return fmt.Errorf("open diagram %s: %w", id, storage.ErrNotFound)
	}

	w.store.Flush()
	if err := w.store.Load(d); err != nil {
		return err
	}
	w.activeID = id
	if err := w.storage.SetSetting(ctx, settingLastDiagram, id); err != nil {
		return fmt.Errorf("persist last diagram id: %w", err)
	}
	return nil
}

// CreateDiagram adds a new empty diagram to the catalogue and persists it.
// It does not open it.
func (w *Workspace) CreateDiagram(ctx context.Context, name, folderID string) (*diagram.Diagram, error) {
	if name == "" {
		name = DefaultDiagramName
	}
	d := diagram.NewDiagram(name, folderID)
	if err := w.storage.SaveDiagram(ctx, d); err != nil {
		return nil, fmt.Errorf("save diagram: %w", err)
	}
	w.diagrams[d.ID] = d
	return d, nil
}

// RenameDiagram renames a diagram in the catalogue. When it is the open
// document the rename goes through the store, so its autosave writes the
// new name together with the document content. Renames never touch history.
func (w *Workspace) RenameDiagram(ctx context.Context, id, name string) error {
	d, ok := w.diagrams[id]
	if !ok {
		return fmt.Errorf("rename diagram %s: %w", id, storage.ErrNotFound)
	}
	d.Name = name
	if id == w.activeID {
		w.store.UpdateName(name)
		return nil // the store autosaves the full document
	}
	return w.storage.SaveDiagram(ctx, d)
}

// MoveDiagram moves a diagram into folderID ("" for the root).
func (w *Workspace) MoveDiagram(ctx context.Context, id, folderID string) error {
	d, ok := w.diagrams[id]
	if !ok {
		return fmt.Errorf("move diagram %s: %w", id, storage.ErrNotFound)
	}
	if folderID != "" {
		if _, ok := w.folders[folderID]; !ok {
			return fmt.Errorf("move diagram %s: folder %s: %w", id, folderID, storage.ErrNotFound)
		}
	}
	d.FolderID = folderID
	return w.storage.SaveDiagram(ctx, d)
}

// TrashDiagram soft-deletes a diagram. The open document is closed first;
// the next live diagram (or a fresh untitled one) takes its place so the
// editor is never left without a document.
func (w *Workspace) TrashDiagram(ctx context.Context, id string) error {
	d, ok := w.diagrams[id]
	if !ok {
		return fmt.Errorf("trash diagram %s: %w", id, storage.ErrNotFound)
	}

	if id == w.activeID {
		w.store.Flush()
		w.store.Unload()
		w.activeID = ""
	}

	d.Trashed = true
	if err := w.storage.SaveDiagram(ctx, d); err != nil {
		return fmt.Errorf("save diagram: %w", err)
	}

	if w.activeID != "" {
		return nil
	}
	if live := w.Diagrams(); len(live) > 0 {
		return w.Open(ctx, live[0].ID)
	}
	created, err := w.CreateDiagram(ctx, DefaultDiagramName, "")
	if err != nil {
		return err
	}
	return w.Open(ctx, created.ID)
}

// RestoreDiagram brings a diagram back from the trash. If its folder is
// itself trashed or gone, the diagram lands at the root.
func (w *Workspace) RestoreDiagram(ctx context.Context, id string) error {
	d, ok := w.diagrams[id]
	if !ok {
		return fmt.Errorf("restore diagram %s: %w", id, storage.ErrNotFound)
	}
	d.Trashed = false
	if d.FolderID != "" {
		f, ok := w.folders[d.FolderID]
		if !ok || f.Trashed {
			d.FolderID = ""
		}
	}
	return w.storage.SaveDiagram(ctx, d)
}

// DeleteDiagram permanently removes a diagram, dropping its undo history.
func (w *Workspace) DeleteDiagram(ctx context.Context, id string) error {
	if _, ok := w.diagrams[id]; !ok {
		return fmt.Errorf("delete diagram %s: %w", id, storage.ErrNotFound)
	}
	if err := w.storage.DeleteDiagram(ctx, id); err != nil {
		return fmt.Errorf("delete diagram: %w", err)
	}
	delete(w.diagrams, id)
	w.store.ClearDiagramHistory(id)
	return nil
}

// EmptyTrash permanently deletes everything in the trash.
func (w *Workspace) EmptyTrash(ctx context.Context) error {
	var errs []error
	for id, d := range w.diagrams {
		if d.Trashed {
			errs = append(errs, w.DeleteDiagram(ctx, id))
		}
	}
	for id, f := range w.folders {
		if f.Trashed {
			errs = append(errs, w.deleteFolder(ctx, id))
		}
	}
	return errors.Join(errs...)
}

// CreateFolder adds a folder under parentID ("" for the root).
func (w *Workspace) CreateFolder(ctx context.Context, name, parentID string) (*diagram.Folder, error) {
	f := diagram.NewFolder(name, parentID)
	if err := w.storage.SaveFolder(ctx, f); err != nil {
		return nil, fmt.Errorf("save folder: %w", err)
	}
	w.folders[f.ID] = f
	return f, nil
}

// RenameFolder renames a folder.
func (w *Workspace) RenameFolder(ctx context.Context, id, name string) error {
	f, ok := w.folders[id]
	if !ok {
		return fmt.Errorf("rename folder %s: %w", id, storage.ErrNotFound)
	}
	f.Name = name
	return w.storage.SaveFolder(ctx, f)
}

// TrashFolder soft-deletes a folder together with its diagrams and
// subfolders.
func (w *Workspace) TrashFolder(ctx context.Context, id string) error {
	f, ok := w.folders[id]
	if !ok {
		return fmt.Errorf("trash folder %s: %w", id, storage.ErrNotFound)
	}

	for _, d := range w.DiagramsInFolder(id) {
		if err := w.TrashDiagram(ctx, d.ID); err != nil {
			return err
		}
	}
	for _, sub := range w.Folders(id) {
		if err := w.TrashFolder(ctx, sub.ID); err != nil {
			return err
		}
	}

	f.Trashed = true
	return w.storage.SaveFolder(ctx, f)
}

// RestoreFolder brings a folder back from the trash together with the
// trashed diagrams directly inside it. Its parent may itself be trashed, in
// which case the folder moves to the root. Trashed subfolders stay in the
// trash and are restored individually.
func (w *Workspace) RestoreFolder(ctx context.Context, id string) error {
	f, ok := w.folders[id]
	if !ok {
		return fmt.Errorf("restore folder %s: %w", id, storage.ErrNotFound)
	}
	f.Trashed = false
	if f.ParentID != "" {
		parent, ok := w.folders[f.ParentID]
		if !ok || parent.Trashed {
			f.ParentID = ""
		}
	}
	if err := w.storage.SaveFolder(ctx, f); err != nil {
		return err
	}

	for _, d := range w.diagrams {
		if d.FolderID != id || !d.Trashed {
			continue
		}
		d.Trashed = false
		if err := w.storage.SaveDiagram(ctx, d); err != nil {
			return fmt.Errorf("save diagram: %w", err)
		}
	}
	return nil
}

func (w *Workspace) deleteFolder(ctx context.Context, id string) error {
	if err := w.storage.DeleteFolder(ctx, id); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	delete(w.folders, id)
	delete(w.folderExpand, id)
	return nil
}

// FolderExpanded reports whether the sidebar shows the folder open. Folders
// with no recorded state are expanded.
func (w *Workspace) FolderExpanded(id string) bool {
	if expanded, ok := w.folderExpand[id]; ok {
		return expanded
	}
	return true
}

// SetFolderExpanded records and persists the sidebar expansion state of a
// folder.
func (w *Workspace) SetFolderExpanded(ctx context.Context, id string, expanded bool) error {
	w.folderExpand[id] = expanded
	return w.storage.SetSetting(ctx, settingFolderExpand, w.folderExpand)
}

// TrashExpanded reports whether the sidebar shows the trash section open.
func (w *Workspace) TrashExpanded() bool {
	return w.trashExpanded
}

// SetTrashExpanded records and persists the trash section state.
func (w *Workspace) SetTrashExpanded(ctx context.Context, expanded bool) error {
	w.trashExpanded = expanded
	return w.storage.SetSetting(ctx, settingTrashExpanded, expanded)
}

func sortDiagrams(ds []*diagram.Diagram) {
	sort.Slice(ds, func(i, j int) bool { return ds[i].Name < ds[j].Name })
}
