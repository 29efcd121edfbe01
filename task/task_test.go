package task

import (
	"context"
	"testing"

	catalog "github.com/asgen/cataloggen"
	"github.com/asgen/cataloggen/pkgset"
	"github.com/asgen/cataloggen/plugin"
)

// fakePackage is a minimal pkgset.Package test double exercising only the
// surface task.Task touches.
type fakePackage struct {
	name     string
	filelist []string
	url      string
	license  string
	enabled  bool
	config   map[string]string
	explodeErr error
}

func newFakePackage(name string, filelist ...string) *fakePackage {
	return &fakePackage{name: name, filelist: filelist, enabled: true, config: map[string]string{}}
}

func (f *fakePackage) Filename() string   { return f.name + ".rpm" }
func (f *fakePackage) Basename() string   { return f.name + ".rpm" }
func (f *fakePackage) Name() string       { return f.name }
func (f *fakePackage) Epoch() uint64      { return 0 }
func (f *fakePackage) Version() string    { return "1" }
func (f *fakePackage) Release() string    { return "1" }
func (f *fakePackage) Arch() string       { return "x86_64" }
func (f *fakePackage) URL() string        { return f.url }
func (f *fakePackage) License() string    { return f.license }
func (f *fakePackage) SourceName() string { return f.name }
func (f *fakePackage) Filelist() []string { return f.filelist }
func (f *fakePackage) Requires() []string { return nil }
func (f *fakePackage) Provides() []string { return nil }
func (f *fakePackage) NEVR() string       { return f.name + "-1-1.x86_64" }
func (f *fakePackage) EVR() string        { return "1-1" }
func (f *fakePackage) Releases() []pkgset.Release { return nil }
func (f *fakePackage) Explode(ctx context.Context, dest string, glob []string) error {
	return f.explodeErr
}
func (f *fakePackage) Compare(other pkgset.Package) int         { return 0 }
func (f *fakePackage) Log(level pkgset.Level, format string, args ...any) {}
func (f *fakePackage) LogFlush(logDir string) error             { return nil }
func (f *fakePackage) ConfigGet(key string) (string, bool)       { v, ok := f.config[key]; return v, ok }
func (f *fakePackage) ConfigSet(key, value string)               { f.config[key] = value }
func (f *fakePackage) Enabled() bool                             { return f.enabled }
func (f *fakePackage) SetEnabled(v bool)                         { f.enabled = v }

var _ pkgset.Package = (*fakePackage)(nil)

func alwaysMatchHandle(name string, apps []*catalog.App) *plugin.Handle {
	return &plugin.Handle{
		Name:          name,
		Enabled:       true,
		CheckFilename: func(path string) bool { return true },
		Process: func(ctx context.Context, pkg pkgset.Package, tmpDir string) ([]plugin.App, error) {
			out := make([]plugin.App, len(apps))
			for i, a := range apps {
				out[i] = a
			}
			return out, nil
		},
	}
}

func TestRunSkipsWhenNoPluginMatches(t *testing.T) {
	pkg := newFakePackage("nothing-of-interest", "/usr/bin/foo")
	registry := plugin.NewRegistry()
	registry.Register(&plugin.Handle{
		Name:          "desktopentry",
		Enabled:       true,
		CheckFilename: func(path string) bool { return false },
	})
	tk := New(pkg, registry, Config{}, nil, nil, nil)

	got := tk.Run(context.Background())
	if got != Skipped {
		t.Fatalf("State = %s, want Skipped", got)
	}
}

func TestRunSkipsWhenExtractionYieldsNoApps(t *testing.T) {
	pkg := newFakePackage("empty-extract", "/usr/share/applications/foo.desktop")
	registry := plugin.NewRegistry()
	registry.Register(alwaysMatchHandle("desktopentry", nil))
	tk := New(pkg, registry, Config{}, nil, nil, nil)

	got := tk.Run(context.Background())
	if got != Skipped {
		t.Fatalf("State = %s, want Skipped", got)
	}
}

func TestRunReachesDoneAndKeepsWellFormedApp(t *testing.T) {
	pkg := newFakePackage("gimp", "/usr/share/applications/gimp.desktop")
	pkg.url = "https://gimp.org"
	pkg.license = "GPL-3.0"
	app := catalog.NewApp("gimp.desktop", "desktop", pkg)
	app.Name["C"] = "GIMP"
	app.Summary["C"] = "GNU Image Manipulation Program"
	app.Icon = &catalog.Icon{Name: "gimp", Kind: catalog.IconCached}

	registry := plugin.NewRegistry()
	registry.Register(alwaysMatchHandle("desktopentry", []*catalog.App{app}))
	tk := New(pkg, registry, Config{}, nil, nil, nil)

	got := tk.Run(context.Background())
	if got != Done {
		t.Fatalf("State = %s, want Done", got)
	}
	if len(tk.Apps) != 1 {
		t.Fatalf("Apps = %d, want 1", len(tk.Apps))
	}
	if tk.Apps[0].URLs["homepage"] != pkg.url {
		t.Fatalf("homepage URL = %q, want %q", tk.Apps[0].URLs["homepage"], pkg.url)
	}
	if tk.Apps[0].ProjectLicense != pkg.license {
		t.Fatalf("ProjectLicense = %q, want %q", tk.Apps[0].ProjectLicense, pkg.license)
	}
}

func TestRunDropsVetoedApp(t *testing.T) {
	pkg := newFakePackage("vetoed", "/usr/share/applications/v.desktop")
	app := catalog.NewApp("v.desktop", "desktop", pkg)
	app.AddVeto("testing veto")

	registry := plugin.NewRegistry()
	registry.Register(alwaysMatchHandle("desktopentry", []*catalog.App{app}))
	tk := New(pkg, registry, Config{}, nil, nil, nil)

	tk.Run(context.Background())
	if len(tk.Apps) != 0 {
		t.Fatalf("Apps = %d, want 0 (vetoed app must be dropped)", len(tk.Apps))
	}
}

func TestRunDropsAppStillNeedingAppdata(t *testing.T) {
	pkg := newFakePackage("needsappdata", "/usr/share/applications/n.desktop")
	app := catalog.NewApp("n.desktop", "desktop", pkg)
	reason := "ConsoleOnly"
	app.AddRequiresAppdata(&reason)

	registry := plugin.NewRegistry()
	registry.Register(alwaysMatchHandle("desktopentry", []*catalog.App{app}))
	tk := New(pkg, registry, Config{}, nil, nil, nil)

	tk.Run(context.Background())
	if len(tk.Apps) != 0 {
		t.Fatalf("Apps = %d, want 0 (unsatisfied requires-appdata must veto)", len(tk.Apps))
	}
}

func TestRunVetoesDesktopAppMissingCommentOrIcon(t *testing.T) {
	pkg := newFakePackage("noicon", "/usr/share/applications/n.desktop")
	app := catalog.NewApp("n.desktop", "desktop", pkg)
	app.Name["C"] = "No Icon"

	registry := plugin.NewRegistry()
	registry.Register(alwaysMatchHandle("desktopentry", []*catalog.App{app}))
	tk := New(pkg, registry, Config{}, nil, nil, nil)

	tk.Run(context.Background())
	if len(tk.Apps) != 0 {
		t.Fatalf("Apps = %d, want 0 (I5/I6 must veto a desktop app with no comment and no icon)", len(tk.Apps))
	}
}

func TestStateStringCoversAllValues(t *testing.T) {
	for s := Admitted; s <= Failed; s++ {
		if s.String() == "Unknown" {
			t.Fatalf("state %d has no String() case", int(s))
		}
	}
}
