package desktopentry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	catalog "github.com/asgen/cataloggen"
	"github.com/asgen/cataloggen/pkgset"
)

type fakePackage struct{ name string }

func (f *fakePackage) Filename() string                                  { return f.name + ".rpm" }
func (f *fakePackage) Basename() string                                  { return f.name + ".rpm" }
func (f *fakePackage) Name() string                                      { return f.name }
func (f *fakePackage) Epoch() uint64                                     { return 0 }
func (f *fakePackage) Version() string                                   { return "1" }
func (f *fakePackage) Release() string                                   { return "1" }
func (f *fakePackage) Arch() string                                      { return "x86_64" }
func (f *fakePackage) URL() string                                       { return "" }
func (f *fakePackage) License() string                                   { return "" }
func (f *fakePackage) SourceName() string                                { return f.name }
func (f *fakePackage) Filelist() []string                                { return nil }
func (f *fakePackage) Requires() []string                                { return nil }
func (f *fakePackage) Provides() []string                                { return nil }
func (f *fakePackage) NEVR() string                                      { return f.name + "-1-1.x86_64" }
func (f *fakePackage) EVR() string                                       { return "1-1" }
func (f *fakePackage) Releases() []pkgset.Release                        { return nil }
func (f *fakePackage) Explode(ctx context.Context, d string, g []string) error { return nil }
func (f *fakePackage) Compare(other pkgset.Package) int                  { return 0 }
func (f *fakePackage) Log(level pkgset.Level, format string, args ...any) {}
func (f *fakePackage) LogFlush(logDir string) error                      { return nil }
func (f *fakePackage) ConfigGet(key string) (string, bool)               { return "", false }
func (f *fakePackage) ConfigSet(key, value string)                       {}
func (f *fakePackage) Enabled() bool                                     { return true }
func (f *fakePackage) SetEnabled(bool)                                   {}

var _ pkgset.Package = (*fakePackage)(nil)

func writeDesktopFile(t *testing.T, root, rel, body string) {
	t.Helper()
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("MkdirAll(%q) error = %v", filepath.Dir(full), err)
	}
	if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile(%q) error = %v", full, err)
	}
}

func TestCheckFilenameMatchesApplicationsGlob(t *testing.T) {
	if !CheckFilename("/usr/share/applications/gimp.desktop") {
		t.Fatalf("CheckFilename() = false, want true for a standard applications path")
	}
	if CheckFilename("/usr/share/doc/gimp/README") {
		t.Fatalf("CheckFilename() = true, want false for an unrelated path")
	}
}

func TestProcessParsesNameAndCategories(t *testing.T) {
	root := t.TempDir()
	rel := "usr/share/applications/gimp.desktop"
	writeDesktopFile(t, root, rel, "[Desktop Entry]\nName=GIMP\nName[fr]=GIMP\nCategories=Graphics;2DGraphics;\n")

	pkg := &fakePackage{name: "gimp"}
	apps, err := Process(pkg, root, []string{"/" + rel})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("Process() returned %d apps, want 1", len(apps))
	}
	app := apps[0].(*catalog.App)
	if app.Name["C"] != "GIMP" || app.Name["fr"] != "GIMP" {
		t.Fatalf("Name = %v, want C and fr both %q", app.Name, "GIMP")
	}
	if !app.HasCategory("Graphics") || !app.HasCategory("2DGraphics") {
		t.Fatalf("categories missing Graphics or 2DGraphics")
	}
}

func TestProcessFlagsNoDisplayAsRequiresAppdata(t *testing.T) {
	root := t.TempDir()
	rel := "usr/share/applications/hidden.desktop"
	writeDesktopFile(t, root, rel, "[Desktop Entry]\nName=Hidden\nNoDisplay=true\n")

	pkg := &fakePackage{name: "hidden"}
	apps, err := Process(pkg, root, []string{"/" + rel})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("Process() returned %d apps, want 1", len(apps))
	}
	if !apps[0].(*catalog.App).NeedsAppdata() {
		t.Fatalf("NeedsAppdata() = false, want true for NoDisplay=true")
	}
}

func TestProcessDropsBlacklistedUnknownCategory(t *testing.T) {
	root := t.TempDir()
	rel := "usr/share/applications/settingspanel.desktop"
	writeDesktopFile(t, root, rel, "[Desktop Entry]\nName=Panel\nCategories=X-GNOME-Settings-Panel;\n")

	pkg := &fakePackage{name: "panel"}
	apps, err := Process(pkg, root, []string{"/" + rel})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(apps) != 0 {
		t.Fatalf("Process() returned %d apps, want 0 (blacklisted category must drop the entry)", len(apps))
	}
}

func TestAcceptableSize(t *testing.T) {
	if !acceptableSize("scalable") {
		t.Fatalf("acceptableSize(scalable) = false, want true")
	}
	if !acceptableSize("32") {
		t.Fatalf("acceptableSize(32) = false, want true")
	}
	if acceptableSize("16") {
		t.Fatalf("acceptableSize(16) = true, want false (below the 32x32 minimum)")
	}
}
