package hardcoded

import (
	"context"
	"testing"
	"time"

	catalog "github.com/asgen/cataloggen"
	"github.com/asgen/cataloggen/pkgset"
)

type fakePackage struct{ url string }

func (f *fakePackage) Filename() string                                  { return "x.rpm" }
func (f *fakePackage) Basename() string                                  { return "x.rpm" }
func (f *fakePackage) Name() string                                      { return "x" }
func (f *fakePackage) Epoch() uint64                                     { return 0 }
func (f *fakePackage) Version() string                                   { return "1" }
func (f *fakePackage) Release() string                                   { return "1" }
func (f *fakePackage) Arch() string                                      { return "x86_64" }
func (f *fakePackage) URL() string                                       { return f.url }
func (f *fakePackage) License() string                                   { return "" }
func (f *fakePackage) SourceName() string                                { return "x" }
func (f *fakePackage) Filelist() []string                                { return nil }
func (f *fakePackage) Requires() []string                                { return nil }
func (f *fakePackage) Provides() []string                                { return nil }
func (f *fakePackage) NEVR() string                                      { return "x-1-1.x86_64" }
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

func TestRefineAppliesKnownCategory(t *testing.T) {
	pkg := &fakePackage{}
	app := catalog.NewApp("gimp.desktop", "desktop", pkg)
	app.AddCategory("placeholder")

	if err := Refine(app, pkg, t.TempDir(), nil, nil, NewURLTable(), "", time.Now()); err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if !app.HasCategory("Graphics") || !app.HasCategory("2DGraphics") {
		t.Fatalf("Categories() = %v, want Graphics and 2DGraphics added", app.Categories())
	}
}

func TestRefineSetsProjectGroupFromURL(t *testing.T) {
	pkg := &fakePackage{url: "https://www.kde.org/applications/dolphin"}
	app := catalog.NewApp("dolphin.desktop", "desktop", pkg)

	if err := Refine(app, pkg, t.TempDir(), nil, nil, NewURLTable(), "", time.Now()); err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if app.ProjectGroup != "KDE" {
		t.Fatalf("ProjectGroup = %q, want %q", app.ProjectGroup, "KDE")
	}
}

func TestRefineVetoesObsoleteToolkitDependency(t *testing.T) {
	pkg := &fakePackage{}
	app := catalog.NewApp("old.desktop", "desktop", pkg)
	app.AddCategory("placeholder")

	requires := []string{"libgtk-1.2.so.0"}
	if err := Refine(app, pkg, t.TempDir(), nil, requires, NewURLTable(), "", time.Now()); err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if !app.HasVeto() {
		t.Fatalf("HasVeto() = false, want true for an obsolete toolkit dependency")
	}
}

func TestRefineRequiresAppdataWhenNoCategory(t *testing.T) {
	pkg := &fakePackage{}
	app := catalog.NewApp("nocat.desktop", "desktop", pkg)

	if err := Refine(app, pkg, t.TempDir(), nil, nil, NewURLTable(), "", time.Now()); err != nil {
		t.Fatalf("Refine() error = %v", err)
	}
	if !app.NeedsAppdata() {
		t.Fatalf("NeedsAppdata() = false, want true for a category-less app")
	}
}

func TestApplyStalenessVetoesDeadUpstream(t *testing.T) {
	app := catalog.NewApp("dead.desktop", "desktop", nil)
	now := time.Now()
	app.Releases = []pkgset.Release{{Timestamp: now.AddDate(-11, 0, 0).Unix()}}

	applyStaleness(app, now)
	if !app.HasVeto() {
		t.Fatalf("HasVeto() = false, want true for an upstream dead for 11 years")
	}
}

func TestApplyStalenessFlagsRecentRelease(t *testing.T) {
	app := catalog.NewApp("fresh.desktop", "desktop", nil)
	now := time.Now()
	app.Releases = []pkgset.Release{{Timestamp: now.AddDate(0, -1, 0).Unix()}}

	applyStaleness(app, now)
	if app.Metadata["X-Kudo-RecentRelease"] != "true" {
		t.Fatalf("X-Kudo-RecentRelease = %q, want %q", app.Metadata["X-Kudo-RecentRelease"], "true")
	}
}
