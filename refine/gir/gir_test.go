package gir

import (
	"os"
	"path/filepath"
	"testing"

	catalog "github.com/asgen/cataloggen"
)

const girWithGtk3 = `<?xml version="1.0"?>
<repository version="1.2">
  <include name="Gtk" version="3.0"/>
</repository>
`

const girWithoutGtk3 = `<?xml version="1.0"?>
<repository version="1.2">
  <include name="GLib" version="2.0"/>
</repository>
`

func writeGir(t *testing.T, root, rel, body string) {
	t.Helper()
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("MkdirAll(%q) error = %v", filepath.Dir(full), err)
	}
	if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile(%q) error = %v", full, err)
	}
}

func TestRefineSetsGTK3KudoOnMatchingInclude(t *testing.T) {
	root := t.TempDir()
	writeGir(t, root, "usr/share/gir-1.0/Gimp-3.0.gir", girWithGtk3)
	app := catalog.NewApp("gimp", "desktop", nil)

	if err := Refine(app, root, []string{"/usr/share/gir-1.0/Gimp-3.0.gir"}); err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if app.Metadata["X-Kudo-GTK3"] != "true" {
		t.Fatalf("X-Kudo-GTK3 = %q, want %q", app.Metadata["X-Kudo-GTK3"], "true")
	}
}

func TestRefineLeavesKudoUnsetWithoutGtk3Include(t *testing.T) {
	root := t.TempDir()
	writeGir(t, root, "usr/share/gir-1.0/Foo-1.0.gir", girWithoutGtk3)
	app := catalog.NewApp("foo", "desktop", nil)

	if err := Refine(app, root, []string{"/usr/share/gir-1.0/Foo-1.0.gir"}); err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if _, ok := app.Metadata["X-Kudo-GTK3"]; ok {
		t.Fatalf("X-Kudo-GTK3 set, want unset")
	}
}
