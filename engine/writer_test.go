package engine

import (
	"compress/gzip"
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"

	catalog "github.com/asgen/cataloggen"
)

func readCatalog(t *testing.T, path string) xmlDocument {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	var doc xmlDocument
	if err := xml.NewDecoder(zr).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestWriteCatalogSkipsVetoedApps(t *testing.T) {
	kept := catalog.NewApp("kept.desktop", "desktop", &fakePackage{name: "kept"})
	vetoed := catalog.NewApp("dropped.desktop", "desktop", &fakePackage{name: "dropped"})
	vetoed.AddVeto("duplicate of kept-1-1.x86_64")

	dir := t.TempDir()
	cfg := Config{ApiVersion: 0.8, Basename: "test"}
	cfg.OutputDir = dir

	if err := writeCatalog([]*catalog.App{kept, vetoed}, cfg); err != nil {
		t.Fatal(err)
	}

	doc := readCatalog(t, filepath.Join(dir, "test.xml.gz"))
	if len(doc.Apps) != 1 {
		t.Fatalf("len(doc.Apps) = %d, want 1 (vetoed app must not be serialized)", len(doc.Apps))
	}
	if doc.Apps[0].ID != "kept.desktop" {
		t.Fatalf("doc.Apps[0].ID = %q, want %q", doc.Apps[0].ID, "kept.desktop")
	}
}
