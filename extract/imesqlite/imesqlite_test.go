package imesqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

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

func writeIMEDatabase(t *testing.T, root, rel string, name, symbol, description, languages string) {
	t.Helper()
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("MkdirAll(%q) error = %v", filepath.Dir(full), err)
	}
	db, err := sql.Open("sqlite", full)
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`CREATE TABLE ime (name TEXT, symbol TEXT, description TEXT, languages TEXT)`); err != nil {
		t.Fatalf("CREATE TABLE error = %v", err)
	}
	if _, err := db.Exec(`INSERT INTO ime (name, symbol, description, languages) VALUES (?, ?, ?, ?)`,
		name, symbol, description, languages); err != nil {
		t.Fatalf("INSERT error = %v", err)
	}
}

func TestCheckFilenameMatchesIbusTableGlob(t *testing.T) {
	if !CheckFilename("/usr/share/ibus-table/tables/cangjie.db") {
		t.Fatalf("CheckFilename() = false, want true for a standard ibus-table path")
	}
	if CheckFilename("/usr/share/ibus-table/icons/cangjie.svg") {
		t.Fatalf("CheckFilename() = true, want false for an unrelated path")
	}
}

func TestProcessReadsNameAndLanguages(t *testing.T) {
	root := t.TempDir()
	rel := "usr/share/ibus-table/tables/cangjie.db"
	writeIMEDatabase(t, root, rel, "Cangjie", "C", "Cangjie input method", "zh_TW, zh_HK")

	pkg := &fakePackage{name: "ibus-table-cangjie"}
	apps, err := Process(pkg, root, []string{"/" + rel})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("Process() returned %d apps, want 1", len(apps))
	}
	app := apps[0].(*catalog.App)
	if app.Name["C"] != "Cangjie" {
		t.Fatalf("Name[C] = %q, want %q", app.Name["C"], "Cangjie")
	}
	if app.Languages["zh_TW"] != 100 || app.Languages["zh_HK"] != 100 {
		t.Fatalf("Languages = %v, want zh_TW and zh_HK at 100", app.Languages)
	}
}

func TestProcessRejectsMissingDescription(t *testing.T) {
	root := t.TempDir()
	rel := "usr/share/ibus-table/tables/broken.db"
	writeIMEDatabase(t, root, rel, "Broken", "B", "", "en")

	pkg := &fakePackage{name: "ibus-table-broken"}
	apps, err := Process(pkg, root, []string{"/" + rel})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(apps) != 0 {
		t.Fatalf("Process() returned %d apps, want 0 (missing description must be rejected)", len(apps))
	}
}
