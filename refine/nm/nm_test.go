package nm

import (
	"os"
	"path/filepath"
	"testing"

	catalog "github.com/asgen/cataloggen"
)

func TestRefineSkipsPathsOutsideUsrBin(t *testing.T) {
	app := catalog.NewApp("x", "desktop", nil)
	filelist := []string{"/usr/share/applications/x.desktop", "/etc/x.conf"}

	if err := Refine(app, t.TempDir(), filelist); err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if len(app.Metadata) != 0 {
		t.Fatalf("Metadata = %v, want empty (no /usr/bin entries to scan)", app.Metadata)
	}
}

func TestDynamicSymbolsRejectsNonELF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-an-elf")
	if err := os.WriteFile(path, []byte("not an ELF binary"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := dynamicSymbols(path); err == nil {
		t.Fatalf("dynamicSymbols() error = nil, want an error for a non-ELF file")
	}
}
