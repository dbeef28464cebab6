package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"board/diagram"
)

// storeUnderTest runs the same behavioral suite against both Store
// implementations.
func storeUnderTest(t *testing.T, name string, open func(t *testing.T) Store) {
	t.Run(name+"/DiagramRoundTrip", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()

		d := diagram.NewDiagram("Shop", "f1")
		d.Elements = diagram.Elements{
			diagram.NewClass(diagram.KindClass, "User", diagram.Point{X: 10, Y: 20}),
			diagram.NewNote("todo", diagram.Point{X: 30, Y: 40}),
		}
		d.Relationships = []diagram.Relationship{
			diagram.NewRelationship(diagram.Association,
				d.Elements[0].ElementID(), d.Elements[1].ElementID()),
		}
		require.NoError(t, st.SaveDiagram(ctx, d))

		got, err := st.Diagram(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, d.Name, got.Name)
		assert.Equal(t, d.FolderID, got.FolderID)
		require.Len(t, got.Elements, 2)

		// The element variants must survive persistence.
		user, ok := got.Elements[0].(diagram.ClassElement)
		require.True(t, ok)
		assert.Equal(t, "User", user.Name)
		note, ok := got.Elements[1].(diagram.NoteElement)
		require.True(t, ok)
		assert.Equal(t, "todo", note.Content)

		require.Len(t, got.Relationships, 1)
		assert.Equal(t, d.Relationships[0].ID, got.Relationships[0].ID)
	})

	t.Run(name+"/DiagramNotFound", func(t *testing.T) {
		st := open(t)
		_, err := st.Diagram(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run(name+"/DeleteDiagram", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()

		d := diagram.NewDiagram("Doomed", "")
		require.NoError(t, st.SaveDiagram(ctx, d))
		require.NoError(t, st.DeleteDiagram(ctx, d.ID))

		_, err := st.Diagram(ctx, d.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run(name+"/ListDiagrams", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()

		for _, n := range []string{"A", "B", "C"} {
			require.NoError(t, st.SaveDiagram(ctx, diagram.NewDiagram(n, "")))
		}
		all, err := st.Diagrams(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run(name+"/FolderRoundTrip", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()

		f := diagram.NewFolder("Projects", "")
		require.NoError(t, st.SaveFolder(ctx, f))

		got, err := st.Folder(ctx, f.ID)
		require.NoError(t, err)
		assert.Equal(t, "Projects", got.Name)

		require.NoError(t, st.DeleteFolder(ctx, f.ID))
		_, err = st.Folder(ctx, f.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		folders, err := st.Folders(ctx)
		require.NoError(t, err)
		assert.Empty(t, folders)
	})

	t.Run(name+"/Settings", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()

		var id string
		ok, err := st.Setting(ctx, "lastDiagramId", &id)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, st.SetSetting(ctx, "lastDiagramId", "d-42"))
		ok, err = st.Setting(ctx, "lastDiagramId", &id)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "d-42", id)

		// Structured values round-trip through JSON too.
		require.NoError(t, st.SetSetting(ctx, "folderExpandState", map[string]bool{"f1": true}))
		var expand map[string]bool
		ok, err = st.Setting(ctx, "folderExpandState", &expand)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, map[string]bool{"f1": true}, expand)
	})

	t.Run(name+"/KeyspacesAreIsolated", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()

		d := diagram.NewDiagram("Doc", "")
		f := diagram.NewFolder("Dir", "")
		require.NoError(t, st.SaveDiagram(ctx, d))
		require.NoError(t, st.SaveFolder(ctx, f))

		_, err := st.Diagram(ctx, f.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = st.Folder(ctx, d.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

}

func TestBadgerHonorsCanceledContext(t *testing.T) {
	st, err := OpenInMemory()
	require.NoError(t, err)
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = st.SaveDiagram(ctx, diagram.NewDiagram("Late", ""))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBadgerStore(t *testing.T) {
	storeUnderTest(t, "badger", func(t *testing.T) Store {
		st, err := OpenInMemory()
		require.NoError(t, err)
		t.Cleanup(func() { st.Close() })
		return st
	})
}

func TestMemoryStore(t *testing.T) {
	storeUnderTest(t, "memory", func(t *testing.T) Store {
		return NewMemoryStore()
	})
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}

func TestBadgerPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	st, err := Open(Config{Path: dir})
	require.NoError(t, err)
	d := diagram.NewDiagram("Durable", "")
	require.NoError(t, st.SaveDiagram(ctx, d))
	require.NoError(t, st.Close())

	st, err = Open(Config{Path: dir})
	require.NoError(t, err)
	defer st.Close()

	got, err := st.Diagram(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Durable", got.Name)
}
