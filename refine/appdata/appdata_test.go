package appdata

import (
	"os"
	"path/filepath"
	"testing"

	catalog "github.com/asgen/cataloggen"
)

const gimpAppdata = `<?xml version="1.0" encoding="UTF-8"?>
<component>
  <id>gimp.desktop</id>
  <metadata_license>CC0-1.0</metadata_license>
  <name>GIMP</name>
  <name xml:lang="fr">GIMP</name>
  <summary>Image editor</summary>
  <url type="homepage">https://www.gimp.org</url>
  <project_group>GNOME</project_group>
</component>
`

func writeAppdata(t *testing.T, tmpDir, id, body string) {
	t.Helper()
	dir := filepath.Join(tmpDir, "usr", "share", "appdata")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll(%q) error = %v", dir, err)
	}
	path := filepath.Join(dir, id+".appdata.xml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile(%q) error = %v", path, err)
	}
}

func TestRefineMergesMatchingAppdata(t *testing.T) {
	tmpDir := t.TempDir()
	writeAppdata(t, tmpDir, "gimp.desktop", gimpAppdata)

	app := catalog.NewApp("gimp.desktop", "desktop", nil)
	reason := "no appdata yet"
	app.AddRequiresAppdata(&reason)

	if err := Refine(app, tmpDir, ""); err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if app.ProjectGroup != "GNOME" {
		t.Fatalf("ProjectGroup = %q, want %q", app.ProjectGroup, "GNOME")
	}
	if app.URLs["homepage"] != "https://www.gimp.org" {
		t.Fatalf("URLs[homepage] = %q, want %q", app.URLs["homepage"], "https://www.gimp.org")
	}
	if app.NeedsAppdata() {
		t.Fatalf("NeedsAppdata() = true, want false after a successful merge")
	}
}

func TestRefineRejectsIDMismatch(t *testing.T) {
	tmpDir := t.TempDir()
	writeAppdata(t, tmpDir, "other.desktop", gimpAppdata)

	app := catalog.NewApp("other.desktop", "desktop", nil)
	if err := Refine(app, tmpDir, ""); err == nil {
		t.Fatalf("Refine() error = nil, want an id-mismatch error")
	}
}

func TestRefineRejectsDisallowedMetadataLicense(t *testing.T) {
	tmpDir := t.TempDir()
	body := `<?xml version="1.0"?>
<component>
  <id>bad.desktop</id>
  <metadata_license>Proprietary</metadata_license>
  <name>Bad</name>
</component>
`
	writeAppdata(t, tmpDir, "bad.desktop", body)

	app := catalog.NewApp("bad.desktop", "desktop", nil)
	if err := Refine(app, tmpDir, ""); err == nil {
		t.Fatalf("Refine() error = nil, want a disallowed-license error")
	}
}

func TestRefineIsNoopWithoutAppdataFile(t *testing.T) {
	app := catalog.NewApp("nofile", "font", nil)
	if err := Refine(app, t.TempDir(), ""); err != nil {
		t.Fatalf("Refine() error = %v, want nil for a missing appdata file on a non-desktop kind", err)
	}
}
