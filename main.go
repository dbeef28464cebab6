package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"board/export"
	"board/storage"
	"board/store"
	"board/workspace"
)

func main() {
	var (
		dbPath     = flag.String("db", defaultDBPath(), "Path to the workspace database")
		inMemory   = flag.Bool("in-memory", false, "Use a throwaway in-memory database")
		list       = flag.Bool("list", false, "List diagrams in the workspace")
		exportID   = flag.String("export", "", "Export a diagram as JSON (diagram id, or 'active')")
		importFile = flag.String("import", "", "Import a diagram from a JSON export file")
		outputFile = flag.String("o", "", "Output file for -export (default: stdout)")
		pretty     = flag.Bool("pretty", true, "Pretty-print exported JSON")
		help       = flag.Bool("help", false, "Show help")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "UML class diagram workspace: manage, import and export diagrams.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -list                        # List diagrams\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -export active               # Export the current diagram to stdout\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -export <id> -o out.json     # Export a diagram to a file\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -import diagram.json         # Import an exported diagram\n", os.Args[0])
	}

	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}

	if err := run(*dbPath, *inMemory, *list, *exportID, *importFile, *outputFile, *pretty); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(dbPath string, inMemory, list bool, exportID, importFile, outputFile string, pretty bool) error {
	cfg := storage.DefaultConfig(dbPath)
	if inMemory {
		cfg = storage.InMemoryConfig()
	}
	st, err := storage.Open(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	docs := store.New(st, store.Options{})
	ws := workspace.New(st, docs)
	if err := ws.Initialize(ctx); err != nil {
		return err
	}
	defer docs.Flush()

	switch {
	case list:
		return listDiagrams(ws)
	case importFile != "":
		return importDiagram(ctx, st, importFile)
	case exportID != "":
		return exportDiagram(ws, docs, exportID, outputFile, pretty)
	default:
		fmt.Printf("Workspace: %d diagram(s), active %s\n", len(ws.Diagrams()), ws.ActiveID())
		return nil
	}
}

func listDiagrams(ws *workspace.Workspace) error {
	for _, d := range ws.Diagrams() {
		marker := " "
		if d.ID == ws.ActiveID() {
			marker = "*"
		}
		fmt.Printf("%s %s  %s (%d elements)\n", marker, d.ID, d.Name, len(d.Elements))
	}
	if trashed := ws.TrashedDiagrams(); len(trashed) > 0 {
		fmt.Printf("\nTrash:\n")
		for _, d := range trashed {
			fmt.Printf("  %s  %s\n", d.ID, d.Name)
		}
	}
	return nil
}

func importDiagram(ctx context.Context, st storage.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	d, err := export.ImportJSON(data)
	if err != nil {
		return err
	}
	if err := st.SaveDiagram(ctx, d); err != nil {
		return fmt.Errorf("save imported diagram: %w", err)
	}
	fmt.Printf("Imported %q as %s\n", d.Name, d.ID)
	return nil
}

func exportDiagram(ws *workspace.Workspace, docs *store.Store, id, outputFile string, pretty bool) error {
	if id == "active" {
		id = ws.ActiveID()
	}
	target := docs.Diagram()
	if target != nil && target.ID == id {
		// Export what the editor sees, not the load-time copy.
		target.Elements = docs.Elements()
		target.Relationships = docs.Relationships()
		target.Viewport = docs.Viewport()
	} else {
		target = nil
		for _, d := range ws.Diagrams() {
			if d.ID == id {
				target = d
				break
			}
		}
		if target == nil {
			return fmt.Errorf("export diagram %s: %w", id, storage.ErrNotFound)
		}
	}

	exporter := export.NewJSONExporter()
	exporter.Pretty = pretty
	result, err := exporter.Export(target)
	if err != nil {
		return err
	}

	if outputFile == "" {
		fmt.Println(string(result.Data))
		return nil
	}
	if err := os.WriteFile(outputFile, result.Data, 0644); err != nil {
		return err
	}
	fmt.Printf("Exported %q to %s\n", target.Name, outputFile)
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "board.db"
	}
	return filepath.Join(home, ".board", "workspace.db")
}
