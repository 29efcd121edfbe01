package engine

import (
	"context"
	"time"

	catalog "github.com/asgen/cataloggen"
	"github.com/asgen/cataloggen/extract/desktopentry"
	"github.com/asgen/cataloggen/extract/font"
	"github.com/asgen/cataloggen/extract/imesqlite"
	"github.com/asgen/cataloggen/extract/imexml"
	"github.com/asgen/cataloggen/globtable"
	"github.com/asgen/cataloggen/pkgset"
	"github.com/asgen/cataloggen/plugin"
	"github.com/asgen/cataloggen/refine/appdata"
	"github.com/asgen/cataloggen/refine/blacklist"
	"github.com/asgen/cataloggen/refine/gettext"
	"github.com/asgen/cataloggen/refine/gir"
	"github.com/asgen/cataloggen/refine/hardcoded"
	"github.com/asgen/cataloggen/refine/nm"
	"github.com/asgen/cataloggen/task"
)

// defaultPackageBlacklist is the context-level package-name blacklist
// (spec §4.8 step 2 "add_filename", §4.1 use (a): "value ignored").
func defaultPackageBlacklist() *globtable.Table {
	t := globtable.New()
	for _, name := range []string{
		"bash", "coreutils", "glibc", "filesystem", "*-devel", "*-debuginfo",
		"*-debugsource", "kernel*",
	} {
		t.Push(name, "")
	}
	return t
}

// buildRegistry wires every extraction and refinement plugin into a
// Registry, adapting each package's concrete function signature to the
// plugin.Handle hook shape (spec §4.4, §4.5, §4.6). Refinement handles are
// registered in the fixed order spec §4.6 names: blacklist, gir, gettext,
// hardcoded, nm, appdata.
func buildRegistry(cfg task.Config) *plugin.Registry {
	r := plugin.NewRegistry()
	blacklistTable := blacklist.NewTable()
	urlTable := hardcoded.NewURLTable()

	r.Register(&plugin.Handle{
		Name:          "desktopentry",
		Enabled:       true,
		AddGlobs:      desktopentry.AddGlobs,
		CheckFilename: desktopentry.CheckFilename,
		Process: func(ctx context.Context, pkg pkgset.Package, tmpDir string) ([]plugin.App, error) {
			return desktopentry.Process(pkg, tmpDir, pkg.Filelist())
		},
	})

	r.Register(&plugin.Handle{
		Name:          "imesqlite",
		Enabled:       true,
		AddGlobs:      imesqlite.AddGlobs,
		CheckFilename: imesqlite.CheckFilename,
		Process: func(ctx context.Context, pkg pkgset.Package, tmpDir string) ([]plugin.App, error) {
			return imesqlite.Process(pkg, tmpDir, pkg.Filelist())
		},
	})

	r.Register(&plugin.Handle{
		Name:          "imexml",
		Enabled:       true,
		AddGlobs:      imexml.AddGlobs,
		CheckFilename: imexml.CheckFilename,
		Process: func(ctx context.Context, pkg pkgset.Package, tmpDir string) ([]plugin.App, error) {
			return imexml.Process(pkg, tmpDir, pkg.Filelist())
		},
	})

	r.Register(&plugin.Handle{
		Name:          "font",
		Enabled:       true,
		AddGlobs:      font.AddGlobs,
		CheckFilename: font.CheckFilename,
		Process: func(ctx context.Context, pkg pkgset.Package, tmpDir string) ([]plugin.App, error) {
			return font.Process(pkg, tmpDir, pkg.Filelist(), cfg.CacheDir)
		},
	})

	r.Register(&plugin.Handle{
		Name:    "blacklist",
		Enabled: true,
		ProcessApp: func(ctx context.Context, pkg pkgset.Package, app plugin.App, tmpDir string) error {
			return blacklist.Refine(asApp(app), blacklistTable)
		},
	})

	r.Register(&plugin.Handle{
		Name:    "gir",
		Enabled: true,
		ProcessApp: func(ctx context.Context, pkg pkgset.Package, app plugin.App, tmpDir string) error {
			return gir.Refine(asApp(app), tmpDir, pkg.Filelist())
		},
	})

	r.Register(&plugin.Handle{
		Name:    "gettext",
		Enabled: true,
		ProcessApp: func(ctx context.Context, pkg pkgset.Package, app plugin.App, tmpDir string) error {
			return gettext.Refine(asApp(app), tmpDir, pkg.Filelist())
		},
	})

	r.Register(&plugin.Handle{
		Name:    "hardcoded",
		Enabled: true,
		ProcessApp: func(ctx context.Context, pkg pkgset.Package, app plugin.App, tmpDir string) error {
			return hardcoded.Refine(asApp(app), pkg, tmpDir, pkg.Filelist(), pkg.Requires(), urlTable, cfg.ScreenshotsExtra, currentTime())
		},
	})

	r.Register(&plugin.Handle{
		Name:    "nm",
		Enabled: true,
		ProcessApp: func(ctx context.Context, pkg pkgset.Package, app plugin.App, tmpDir string) error {
			return nm.Refine(asApp(app), tmpDir, pkg.Filelist())
		},
	})

	r.Register(&plugin.Handle{
		Name:    "appdata",
		Enabled: true,
		ProcessApp: func(ctx context.Context, pkg pkgset.Package, app plugin.App, tmpDir string) error {
			return appdata.Refine(asApp(app), tmpDir, cfg.AppDataExtra)
		},
	})

	return r
}

func asApp(a plugin.App) *catalog.App {
	app, _ := a.(*catalog.App)
	return app
}

func currentTime() time.Time { return time.Now() }
