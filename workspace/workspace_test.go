package workspace

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"board/diagram"
	"board/storage"
	"board/store"
)

func newWorkspace(t *testing.T) (*Workspace, *store.Store, *storage.MemoryStore) {
	t.Helper()
	st := storage.NewMemoryStore()
	docs := store.New(st, store.Options{AutosaveDelay: time.Millisecond})
	return New(st, docs), docs, st
}

func TestInitializeCreatesUntitledDiagramWhenEmpty(t *testing.T) {
	w, docs, _ := newWorkspace(t)
	ctx := context.Background()

	require.NoError(t, w.Initialize(ctx))

	live := w.Diagrams()
	require.Len(t, live, 1)
	assert.Equal(t, DefaultDiagramName, live[0].Name)
	assert.Equal(t, live[0].ID, w.ActiveID())
	require.NotNil(t, docs.Diagram())
	assert.Equal(t, live[0].ID, docs.Diagram().ID)
}

func TestInitializeReopensLastDiagram(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStore()

	d1 := diagram.NewDiagram("First", "")
	d2 := diagram.NewDiagram("Second", "")
	require.NoError(t, st.SaveDiagram(ctx, d1))
	require.NoError(t, st.SaveDiagram(ctx, d2))
	require.NoError(t, st.SetSetting(ctx, "lastDiagramId", d2.ID))

	docs := store.New(st, store.Options{AutosaveDelay: time.Millisecond})
	w := New(st, docs)
	require.NoError(t, w.Initialize(ctx))

	assert.Equal(t, d2.ID, w.ActiveID())
}

func TestInitializeFallsBackWhenLastDiagramTrashed(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStore()

	gone := diagram.NewDiagram("Gone", "")
	gone.Trashed = true
	alive := diagram.NewDiagram("Alive", "")
	require.NoError(t, st.SaveDiagram(ctx, gone))
	require.NoError(t, st.SaveDiagram(ctx, alive))
	require.NoError(t, st.SetSetting(ctx, "lastDiagramId", gone.ID))

	docs := store.New(st, store.Options{AutosaveDelay: time.Millisecond})
	w := New(st, docs)
	require.NoError(t, w.Initialize(ctx))

	assert.Equal(t, alive.ID, w.ActiveID())
}

func TestOpenPersistsLastDiagramID(t *testing.T) {
	w, _, st := newWorkspace(t)
	ctx := context.Background()
	require.NoError(t, w.Initialize(ctx))

	d, err := w.CreateDiagram(ctx, "Other", "")
	require.NoError(t, err)
	require.NoError(t, w.Open(ctx, d.ID))

	var lastID string
	ok, err := st.Setting(ctx, "lastDiagramId", &lastID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, d.ID, lastID)
}

func TestOpenUnknownDiagram(t *testing.T) {
	w, _, _ := newWorkspace(t)
	err := w.Open(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTrashAndRestoreDiagram(t *testing.T) {
	w, _, st := newWorkspace(t)
	ctx := context.Background()
	require.NoError(t, w.Initialize(ctx))

	d, err := w.CreateDiagram(ctx, "Doomed", "")
	require.NoError(t, err)

	require.NoError(t, w.TrashDiagram(ctx, d.ID))
	assert.Len(t, w.TrashedDiagrams(), 1)
	for _, live := range w.Diagrams() {
		assert.NotEqual(t, d.ID, live.ID)
	}

	// The trash flag is persisted.
	saved, err := st.Diagram(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, saved.Trashed)

	require.NoError(t, w.RestoreDiagram(ctx, d.ID))
	assert.Empty(t, w.TrashedDiagrams())
	saved, err = st.Diagram(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, saved.Trashed)
}

func TestTrashingActiveDiagramOpensNext(t *testing.T) {
	w, _, _ := newWorkspace(t)
	ctx := context.Background()
	require.NoError(t, w.Initialize(ctx))

	other, err := w.CreateDiagram(ctx, "Other", "")
	require.NoError(t, err)

	active := w.ActiveID()
	require.NoError(t, w.TrashDiagram(ctx, active))

	assert.Equal(t, other.ID, w.ActiveID(), "the remaining live diagram becomes active")
}

func TestTrashingLastDiagramCreatesReplacement(t *testing.T) {
	w, _, _ := newWorkspace(t)
	ctx := context.Background()
	require.NoError(t, w.Initialize(ctx))

	require.NoError(t, w.TrashDiagram(ctx, w.ActiveID()))

	live := w.Diagrams()
	require.Len(t, live, 1)
	assert.Equal(t, DefaultDiagramName, live[0].Name)
	assert.Equal(t, live[0].ID, w.ActiveID())
}

func TestRestoreDiagramFromTrashedFolderLandsAtRoot(t *testing.T) {
	w, _, _ := newWorkspace(t)
	ctx := context.Background()
	require.NoError(t, w.Initialize(ctx))

	f, err := w.CreateFolder(ctx, "Projects", "")
	require.NoError(t, err)
	d, err := w.CreateDiagram(ctx, "Inside", f.ID)
	require.NoError(t, err)

	require.NoError(t, w.TrashFolder(ctx, f.ID))
	assert.Len(t, w.TrashedDiagrams(), 1)
	assert.Empty(t, w.Folders(""))

	require.NoError(t, w.RestoreDiagram(ctx, d.ID))
	restored := w.DiagramsInFolder("")
	found := false
	for _, live := range restored {
		if live.ID == d.ID {
			found = true
		}
	}
	assert.True(t, found, "restored diagram moves to the root when its folder is trashed")
}

func TestRestoreFolderRestoresContainedDiagrams(t *testing.T) {
	w, _, st := newWorkspace(t)
	ctx := context.Background()
	require.NoError(t, w.Initialize(ctx))

	f, err := w.CreateFolder(ctx, "Projects", "")
	require.NoError(t, err)
	inside, err := w.CreateDiagram(ctx, "Inside", f.ID)
	require.NoError(t, err)
	loose, err := w.CreateDiagram(ctx, "Loose", "")
	require.NoError(t, err)
	require.NoError(t, w.TrashDiagram(ctx, loose.ID))
	require.NoError(t, w.TrashFolder(ctx, f.ID))
	require.Len(t, w.TrashedDiagrams(), 2)

	require.NoError(t, w.RestoreFolder(ctx, f.ID))

	// The folder comes back with its own diagrams, still filed under it.
	require.Len(t, w.Folders(""), 1)
	restored := w.DiagramsInFolder(f.ID)
	require.Len(t, restored, 1)
	assert.Equal(t, inside.ID, restored[0].ID)
	saved, err := st.Diagram(ctx, inside.ID)
	require.NoError(t, err)
	assert.False(t, saved.Trashed)

	// Diagrams trashed on their own stay in the trash.
	trashed := w.TrashedDiagrams()
	require.Len(t, trashed, 1)
	assert.Equal(t, loose.ID, trashed[0].ID)
}

func TestRestoreFolderLeavesSubfoldersTrashed(t *testing.T) {
	w, _, _ := newWorkspace(t)
	ctx := context.Background()
	require.NoError(t, w.Initialize(ctx))

	parent, err := w.CreateFolder(ctx, "Parent", "")
	require.NoError(t, err)
	_, err = w.CreateFolder(ctx, "Child", parent.ID)
	require.NoError(t, err)

	require.NoError(t, w.TrashFolder(ctx, parent.ID))
	require.NoError(t, w.RestoreFolder(ctx, parent.ID))

	require.Len(t, w.Folders(""), 1)
	assert.Empty(t, w.Folders(parent.ID), "subfolders are restored individually")
}

func TestFolderExpandedDefaultsToExpanded(t *testing.T) {
	w, _, _ := newWorkspace(t)
	ctx := context.Background()
	require.NoError(t, w.Initialize(ctx))

	f, err := w.CreateFolder(ctx, "Projects", "")
	require.NoError(t, err)
	assert.True(t, w.FolderExpanded(f.ID), "folders with no recorded state are open")

	require.NoError(t, w.SetFolderExpanded(ctx, f.ID, false))
	assert.False(t, w.FolderExpanded(f.ID))

	require.NoError(t, w.SetFolderExpanded(ctx, f.ID, true))
	assert.True(t, w.FolderExpanded(f.ID))
}

func TestDeleteDiagramIsPermanent(t *testing.T) {
	w, _, st := newWorkspace(t)
	ctx := context.Background()
	require.NoError(t, w.Initialize(ctx))

	d, err := w.CreateDiagram(ctx, "Doomed", "")
	require.NoError(t, err)
	require.NoError(t, w.TrashDiagram(ctx, d.ID))
	require.NoError(t, w.DeleteDiagram(ctx, d.ID))

	_, err = st.Diagram(ctx, d.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Empty(t, w.TrashedDiagrams())
}

func TestEmptyTrash(t *testing.T) {
	w, _, st := newWorkspace(t)
	ctx := context.Background()
	require.NoError(t, w.Initialize(ctx))

	d1, err := w.CreateDiagram(ctx, "One", "")
	require.NoError(t, err)
	d2, err := w.CreateDiagram(ctx, "Two", "")
	require.NoError(t, err)
	require.NoError(t, w.TrashDiagram(ctx, d1.ID))
	require.NoError(t, w.TrashDiagram(ctx, d2.ID))

	require.NoError(t, w.EmptyTrash(ctx))
	assert.Empty(t, w.TrashedDiagrams())
	_, err = st.Diagram(ctx, d1.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = st.Diagram(ctx, d2.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFolderTree(t *testing.T) {
	w, _, _ := newWorkspace(t)
	ctx := context.Background()
	require.NoError(t, w.Initialize(ctx))

	root, err := w.CreateFolder(ctx, "Root", "")
	require.NoError(t, err)
	child, err := w.CreateFolder(ctx, "Child", root.ID)
	require.NoError(t, err)

	d, err := w.CreateDiagram(ctx, "Doc", child.ID)
	require.NoError(t, err)

	require.Len(t, w.Folders(""), 1)
	require.Len(t, w.Folders(root.ID), 1)
	inFolder := w.DiagramsInFolder(child.ID)
	require.Len(t, inFolder, 1)
	assert.Equal(t, d.ID, inFolder[0].ID)

	require.NoError(t, w.MoveDiagram(ctx, d.ID, ""))
	assert.Empty(t, w.DiagramsInFolder(child.ID))
}

func TestMoveDiagramToUnknownFolder(t *testing.T) {
	w, _, _ := newWorkspace(t)
	ctx := context.Background()
	require.NoError(t, w.Initialize(ctx))

	err := w.MoveDiagram(ctx, w.ActiveID(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRenameActiveDiagramGoesThroughStore(t *testing.T) {
	w, docs, _ := newWorkspace(t)
	ctx := context.Background()
	require.NoError(t, w.Initialize(ctx))

	require.NoError(t, w.RenameDiagram(ctx, w.ActiveID(), "Renamed"))
	assert.Equal(t, "Renamed", docs.Diagram().Name)
	assert.False(t, docs.CanUndo(), "renames are metadata, not history")
}

func TestExpandStatePersists(t *testing.T) {
	w, _, st := newWorkspace(t)
	ctx := context.Background()
	require.NoError(t, w.Initialize(ctx))

	f, err := w.CreateFolder(ctx, "Projects", "")
	require.NoError(t, err)

	require.NoError(t, w.SetFolderExpanded(ctx, f.ID, false))
	require.NoError(t, w.SetTrashExpanded(ctx, true))
	assert.False(t, w.FolderExpanded(f.ID))
	assert.True(t, w.TrashExpanded())

	// A fresh workspace over the same storage sees the same UI state.
	docs2 := store.New(st, store.Options{AutosaveDelay: time.Millisecond})
	w2 := New(st, docs2)
	require.NoError(t, w2.Initialize(ctx))
	assert.False(t, w2.FolderExpanded(f.ID))
	assert.True(t, w2.TrashExpanded())
}
