package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"board/diagram"
	"board/export"
	"board/storage"
	"board/store"
	"board/workspace"
)

func TestExportActiveUsesCurrentEditorState(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStore()
	docs := store.New(st, store.Options{AutosaveDelay: time.Hour})
	ws := workspace.New(st, docs)
	require.NoError(t, ws.Initialize(ctx))

	// Edit after load: the export must carry the edit, not the load-time copy.
	require.NoError(t, docs.AddElement(diagram.NewClass(diagram.KindClass, "User", diagram.Point{X: 10, Y: 20})))
	docs.Pan(50, 60)

	out := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, exportDiagram(ws, docs, "active", out, true))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	imported, err := export.ImportJSON(data)
	require.NoError(t, err)

	require.Len(t, imported.Elements, 1)
	user, ok := imported.Elements[0].(diagram.ClassElement)
	require.True(t, ok)
	assert.Equal(t, "User", user.Name)
	assert.Equal(t, diagram.Viewport{X: 50, Y: 60, Zoom: 1}, imported.Viewport)
}

func TestExportUnknownDiagram(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStore()
	docs := store.New(st, store.Options{AutosaveDelay: time.Hour})
	ws := workspace.New(st, docs)
	require.NoError(t, ws.Initialize(ctx))

	err := exportDiagram(ws, docs, "missing", "", true)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
