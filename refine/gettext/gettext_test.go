package gettext

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	catalog "github.com/asgen/cataloggen"
)

func writeMO(t *testing.T, path string, nstrings uint32) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll(%q) error = %v", filepath.Dir(path), err)
	}
	buf := make([]byte, 28)
	binary.LittleEndian.PutUint32(buf[0:4], moMagicLE)
	binary.LittleEndian.PutUint32(buf[4:8], 0)
	binary.LittleEndian.PutUint32(buf[8:12], nstrings)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("WriteFile(%q) error = %v", path, err)
	}
}

func TestRefineKeepsLocalesAboveThreshold(t *testing.T) {
	root := t.TempDir()
	writeMO(t, filepath.Join(root, "usr/share/locale/de/LC_MESSAGES/app.mo"), 100)
	writeMO(t, filepath.Join(root, "usr/share/locale/fr/LC_MESSAGES/app.mo"), 10)

	app := catalog.NewApp("app", "desktop", nil)
	filelist := []string{
		"/usr/share/locale/de/LC_MESSAGES/app.mo",
		"/usr/share/locale/fr/LC_MESSAGES/app.mo",
	}
	if err := Refine(app, root, filelist); err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if _, ok := app.Languages["de"]; !ok {
		t.Fatalf("Languages[de] missing, want the fully-translated locale kept")
	}
	if _, ok := app.Languages["fr"]; ok {
		t.Fatalf("Languages[fr] present, want the 10%% locale dropped below the %d%% threshold", minPercentage)
	}
}

func TestLocaleFromPath(t *testing.T) {
	got := localeFromPath("/usr/share/locale/de/LC_MESSAGES/app.mo")
	if got != "de" {
		t.Fatalf("localeFromPath() = %q, want %q", got, "de")
	}
	if got := localeFromPath("/usr/bin/app"); got != "" {
		t.Fatalf("localeFromPath() = %q, want empty for a non-locale path", got)
	}
}
