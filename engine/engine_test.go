package engine

import (
	"context"
	"testing"

	catalog "github.com/asgen/cataloggen"
	"github.com/asgen/cataloggen/pkgset"
)

// fakePackage is a minimal pkgset.Package test double exercising only the
// NEVR surface finalizeApps touches.
type fakePackage struct {
	name string
}

func (f *fakePackage) Filename() string                                 { return f.name + ".rpm" }
func (f *fakePackage) Basename() string                                 { return f.name + ".rpm" }
func (f *fakePackage) Name() string                                     { return f.name }
func (f *fakePackage) Epoch() uint64                                    { return 0 }
func (f *fakePackage) Version() string                                  { return "1" }
func (f *fakePackage) Release() string                                  { return "1" }
func (f *fakePackage) Arch() string                                     { return "x86_64" }
func (f *fakePackage) URL() string                                      { return "" }
func (f *fakePackage) License() string                                  { return "" }
func (f *fakePackage) SourceName() string                               { return f.name }
func (f *fakePackage) Filelist() []string                               { return nil }
func (f *fakePackage) Requires() []string                               { return nil }
func (f *fakePackage) Provides() []string                               { return nil }
func (f *fakePackage) NEVR() string                                     { return f.name + "-1-1.x86_64" }
func (f *fakePackage) EVR() string                                      { return "1-1" }
func (f *fakePackage) Releases() []pkgset.Release                       { return nil }
func (f *fakePackage) Explode(ctx context.Context, dest string, glob []string) error {
	return nil
}
func (f *fakePackage) Compare(other pkgset.Package) int                   { return 0 }
func (f *fakePackage) Log(level pkgset.Level, format string, args ...any) {}
func (f *fakePackage) LogFlush(logDir string) error                       { return nil }
func (f *fakePackage) ConfigGet(key string) (string, bool)                { return "", false }
func (f *fakePackage) ConfigSet(key, value string)                        {}
func (f *fakePackage) Enabled() bool                                      { return true }
func (f *fakePackage) SetEnabled(v bool)                                  {}

var _ pkgset.Package = (*fakePackage)(nil)

func TestFinalizeAppsDedupesByIDKeepingFirst(t *testing.T) {
	first := catalog.NewApp("x.desktop", "desktop", &fakePackage{name: "first"})
	second := catalog.NewApp("x.desktop", "desktop", &fakePackage{name: "second"})

	finalizeApps([]*catalog.App{first, second})

	if first.HasVeto() {
		t.Fatalf("kept app must not be vetoed, got: %v", first.Vetoes())
	}
	if !second.HasVeto() {
		t.Fatal("duplicate app must be vetoed")
	}
	want := "duplicate of first-1-1.x86_64"
	got := second.Vetoes()[0]
	if got != want {
		t.Fatalf("veto reason = %q, want %q", got, want)
	}
}

func TestFinalizeAppsIgnoresAlreadyVetoedWhenChoosingKept(t *testing.T) {
	vetoed := catalog.NewApp("x.desktop", "desktop", &fakePackage{name: "vetoed"})
	vetoed.AddVeto("some earlier reason")
	survivor := catalog.NewApp("x.desktop", "desktop", &fakePackage{name: "survivor"})

	finalizeApps([]*catalog.App{vetoed, survivor})

	if survivor.HasVeto() {
		t.Fatalf("survivor must not be vetoed just because an earlier app shared its id, got: %v", survivor.Vetoes())
	}
}

func TestFinalizeAppsStripsFontMetadata(t *testing.T) {
	app := catalog.NewApp("f.desktop", "font", &fakePackage{name: "f"})
	app.SetMetadata(catalog.FontPrefix+"Family", "Noto Sans")
	app.SetMetadata("X-Other", "keep-me")

	finalizeApps([]*catalog.App{app})

	if _, ok := app.Metadata[catalog.FontPrefix+"Family"]; ok {
		t.Fatal("Font* metadata must be stripped by finalizeApps")
	}
	if _, ok := app.Metadata["X-Other"]; !ok {
		t.Fatal("non-Font metadata must survive finalizeApps")
	}
}

func TestFinalizeAppsNoDuplicatesLeavesAllUnvetoed(t *testing.T) {
	a := catalog.NewApp("a.desktop", "desktop", &fakePackage{name: "a"})
	b := catalog.NewApp("b.desktop", "desktop", &fakePackage{name: "b"})

	finalizeApps([]*catalog.App{a, b})

	if a.HasVeto() || b.HasVeto() {
		t.Fatal("apps with distinct ids must not be vetoed")
	}
}
