// Package task implements the per-package task runner (spec §4.7): the
// state machine that explodes a package, selects and runs extraction
// plugins, refines the resulting apps, enforces the veto/requires-appdata
// invariants, materializes images, and reports the finished apps back to
// the scheduler.
//
// Grounded on the teacher's indexer/controller FSM (internal/indexer/controller,
// now superseded by controller2 in the teacher tree but kept here as the
// closest idiom match): a State enum with a String method, a runner that
// walks states until a terminal one, and per-package logging on every
// non-fatal error instead of aborting the batch.
package task

import (
	"context"
	"os"
	"path/filepath"
	"time"

	catalog "github.com/asgen/cataloggen"
	"github.com/asgen/cataloggen/globtable"
	"github.com/asgen/cataloggen/pkgset"
	"github.com/asgen/cataloggen/plugin"
	"github.com/asgen/cataloggen/toolkit/spool"
)

// State is one stage of the per-package state machine (spec §4.7).
type State int

const (
	Admitted State = iota
	Scanned
	Exploded
	Extracted
	Refined
	Written
	Done
	Skipped
	Failed
)

func (s State) String() string {
	switch s {
	case Admitted:
		return "Admitted"
	case Scanned:
		return "Scanned"
	case Exploded:
		return "Exploded"
	case Extracted:
		return "Extracted"
	case Refined:
		return "Refined"
	case Written:
		return "Written"
	case Done:
		return "Done"
	case Skipped:
		return "Skipped"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Config carries the run-scoped directories and flags injected into every
// package before its task runs (spec §6).
type Config struct {
	TempDir          string
	OutputDir        string
	LogDir           string
	CacheDir         string
	MirrorURI        string
	AppDataExtra     string
	ScreenshotsExtra string

	NoNetwork       bool
	AddCacheId      bool
	ExtraChecks     bool
	UsePackageCache bool
}

// ExtraLookup resolves an extra-package name to an already-opened Package,
// used to explode supplementary "-data"/"-common" style packages into the
// same scratch tree (spec §4.7 step 3).
type ExtraLookup func(name string) (pkgset.Package, bool)

// Task runs the 12-step algorithm of spec §4.7 for one package.
type Task struct {
	Pkg           pkgset.Package
	Registry      *plugin.Registry
	Config        Config
	ExtraPackages *globtable.Table
	LookupExtra   ExtraLookup
	// Arena owns the per-task scratch directories used when
	// Config.UsePackageCache is false. A nil Arena falls back to a bare
	// TempDir/<nevr> path managed by hand, for callers (tests, mainly)
	// that don't want the lifecycle tracking.
	Arena *spool.Arena

	State State
	Apps  []*catalog.App

	dir scratchDir
}

// scratchDir unifies spool.Dir and the plain-directory fallback used when no
// Arena is configured, so Run's cleanup step doesn't need to know which one
// it has.
type scratchDir interface {
	Name() string
	Close() error
}

type plainDir string

func (p plainDir) Name() string  { return string(p) }
func (p plainDir) Close() error { return os.RemoveAll(string(p)) }

// New returns a Task ready to Run, in the Admitted state.
func New(pkg pkgset.Package, registry *plugin.Registry, cfg Config, extraPackages *globtable.Table, lookup ExtraLookup, arena *spool.Arena) *Task {
	return &Task{
		Pkg:           pkg,
		Registry:      registry,
		Config:        cfg,
		ExtraPackages: extraPackages,
		LookupExtra:   lookup,
		Arena:         arena,
		State:         Admitted,
	}
}

// Run executes steps 1-12 of spec §4.7 to completion, returning the final
// state. A Skipped or Failed result is not itself an error: the scheduler
// continues with other tasks regardless (spec §5 cancellation: "no global
// abort").
func (t *Task) Run(ctx context.Context) State {
	nevr := t.Pkg.NEVR()

	// Step 2: plugin selection.
	handles := t.selectPlugins()
	if len(handles) == 0 {
		t.State = Skipped
		t.Pkg.Log(pkgset.Info, "no plugin matched any file in %s", nevr)
		return t.State
	}
	t.State = Scanned

	// Step 3: explode. A cached run reuses the deterministic
	// TempDir/<nevr> tree from a prior invocation instead of an
	// arena-managed scratch directory, since that tree must survive past
	// this task's cleanup step.
	scratch := filepath.Join(t.Config.TempDir, nevr)
	if !t.Config.UsePackageCache {
		dir, err := t.newScratchDir(ctx, nevr)
		if err != nil {
			t.Pkg.Log(pkgset.Warning, "explode failed: %v", err)
			t.State = Failed
			return t.State
		}
		t.dir = dir
		scratch = dir.Name()
		if err := t.explode(ctx, scratch, handles); err != nil {
			t.Pkg.Log(pkgset.Warning, "explode failed: %v", err)
			t.State = Failed
			return t.State
		}
	}
	t.State = Exploded

	// Step 4: extraction.
	apps := t.extract(ctx, scratch, handles)
	if len(apps) == 0 {
		t.State = Skipped
		t.Pkg.Log(pkgset.Info, "no apps extracted from %s", nevr)
		t.maybeDummyApp()
		return t.State
	}
	t.State = Extracted

	// Step 5-6: per-app refinement and invariant enforcement.
	var kept []*catalog.App
	for _, app := range apps {
		if app.ID == "" {
			t.Pkg.Log(pkgset.Info, "dropping app with empty id from %s", nevr)
			continue
		}
		app.URLs["homepage"] = t.Pkg.URL()
		app.ProjectLicense = t.Pkg.License()
		app.Releases = append(app.Releases, t.Pkg.Releases()...)

		if err := t.Registry.ProcessApp(ctx, t.Pkg, app, scratch); err != nil {
			t.Pkg.Log(pkgset.Warning, "refinement failed for %s: %v", app.ID, err)
		}

		applyEmissionInvariants(app)

		if app.HasVeto() {
			for _, v := range app.Vetoes() {
				t.Pkg.Log(pkgset.Info, "veto for %s: %s", app.ID, v)
			}
			continue
		}
		if app.NeedsAppdata() {
			app.AddVeto("required appdata missing")
			t.Pkg.Log(pkgset.Info, "veto for %s: required appdata missing", app.ID)
			continue
		}

		if t.Config.ExtraChecks {
			t.probeURLs(ctx, app)
		}

		kept = append(kept, app)
	}
	t.State = Refined

	// Step 8-10: resources and cache id.
	for _, app := range kept {
		if err := SaveResources(app, t.Config); err != nil {
			t.Pkg.Log(pkgset.Warning, "save_resources failed for %s: %v", app.ID, err)
		}
		logAbsentKudos(t.Pkg, app)
		if t.Config.AddCacheId {
			if key, err := catalog.CacheID(t.Pkg.Filename()); err == nil {
				app.SetMetadata(catalog.CacheIDMetadataKey, key)
			}
		}
	}
	t.Apps = kept
	if t.Config.AddCacheId && len(kept) == 0 {
		t.maybeDummyApp()
	}
	t.State = Written

	// Step 12: cleanup.
	if !t.Config.UsePackageCache && t.dir != nil {
		_ = t.dir.Close()
	}
	_ = t.Pkg.LogFlush(t.Config.LogDir)

	t.State = Done
	return t.State
}

func (t *Task) maybeDummyApp() {
	if !t.Config.AddCacheId {
		return
	}
	key, err := catalog.CacheID(t.Pkg.Filename())
	if err != nil {
		return
	}
	dummy := catalog.NewApp(t.Pkg.Name(), "", t.Pkg)
	dummy.SetMetadata(catalog.CacheIDMetadataKey, key)
	t.Apps = append(t.Apps, dummy)
}

// applyEmissionInvariants implements spec §4.7 step 6 "Apply invariants I5,
// I6": a desktop app with no "C" name or no "C" comment is vetoed, and an
// app of any kind but addon with no icon is vetoed.
func applyEmissionInvariants(app *catalog.App) {
	if app.Kind == "desktop" {
		if app.Name["C"] == "" {
			app.AddVeto("Has no Name")
		}
		if app.Summary["C"] == "" {
			app.AddVeto("Has no Comment")
		}
	}
	if app.Kind != "addon" && app.Icon == nil && app.Pixbuf == nil {
		app.AddVeto("Has no Icon")
	}
}

// selectPlugins implements step 2: the deduped, registry-ordered set of
// plugins matching any path in the package's filelist.
func (t *Task) selectPlugins() []*plugin.Handle {
	seen := make(map[string]bool)
	var out []*plugin.Handle
	for _, h := range t.Registry.Enabled() {
		if h.CheckFilename == nil || seen[h.Name] {
			continue
		}
		for _, path := range t.Pkg.Filelist() {
			if h.CheckFilename(path) {
				seen[h.Name] = true
				out = append(out, h)
				break
			}
		}
	}
	return out
}

// newScratchDir allocates the scratch tree a package is exploded into. When
// an Arena is configured (the normal, non-test path) it is a
// spool.Dir allocated with a random suffix so concurrent tasks for packages
// that happen to share an nevr never collide; otherwise it falls back to a
// plain TempDir/<nevr> directory the caller is responsible for removing.
func (t *Task) newScratchDir(ctx context.Context, nevr string) (scratchDir, error) {
	if t.Arena != nil {
		return t.Arena.NewDir(ctx, nevr+"-*")
	}
	path := filepath.Join(t.Config.TempDir, nevr)
	if err := os.RemoveAll(path); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, err
	}
	return plainDir(path), nil
}

// explode implements step 3: the main package plus every extra-package
// rule matching this package's name, plus the always-attempted "-data" and
// "-common" variants.
func (t *Task) explode(ctx context.Context, scratch string, handles []*plugin.Handle) error {
	globs := t.collectGlobs(handles)

	if err := t.Pkg.Explode(ctx, scratch, globs); err != nil {
		return err
	}

	extraNames := []string{t.Pkg.Name() + "-data", t.Pkg.Name() + "-common"}
	if t.ExtraPackages != nil {
		if name, ok := t.ExtraPackages.Search(t.Pkg.Name()); ok {
			extraNames = append(extraNames, name)
		}
	}
	for _, name := range extraNames {
		if t.LookupExtra == nil {
			continue
		}
		extra, ok := t.LookupExtra(name)
		if !ok {
			continue
		}
		if err := extra.Explode(ctx, scratch, globs); err != nil {
			t.Pkg.Log(pkgset.Warning, "explode of extra package %s failed: %v", name, err)
		}
	}
	return nil
}

func (t *Task) collectGlobs(handles []*plugin.Handle) []string {
	table := globtable.New()
	for _, h := range handles {
		if h.AddGlobs != nil {
			h.AddGlobs(table)
		}
	}
	return table.Patterns()
}

// extract implements step 4: run every selected plugin's Process hook and
// accumulate the returned apps.
func (t *Task) extract(ctx context.Context, scratch string, handles []*plugin.Handle) []*catalog.App {
	var out []*catalog.App
	for _, h := range handles {
		if h.Process == nil {
			continue
		}
		got, err := h.Process(ctx, t.Pkg, scratch)
		if err != nil {
			t.Pkg.Log(pkgset.Warning, "extraction plugin %s failed: %v", h.Name, err)
			continue
		}
		for _, a := range got {
			if app, ok := a.(*catalog.App); ok {
				out = append(out, app)
			}
		}
	}
	return out
}

// probeURLs implements step 7: a 5-second HEAD probe per URL, warning-only
// on failure (spec §4.7 step 7, §7 NetworkError policy).
func (t *Task) probeURLs(ctx context.Context, app *catalog.App) {
	if t.Config.NoNetwork {
		return
	}
	for kind, url := range app.URLs {
		probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := probeOne(probeCtx, url)
		cancel()
		if err != nil {
			t.Pkg.Log(pkgset.Warning, "unreachable %s URL for %s: %v", kind, app.ID, err)
		}
	}
}

// knownKudos is the fixed set of kudo metadata keys collected from the
// refinement plugins (spec §4.7 step 9, §9 design notes: "not defined in
// one place").
var knownKudos = []string{
	"X-Kudo-GTK3", "X-Kudo-QT5", "X-Kudo-UsesAppMenu",
	"X-Kudo-InstallsUserDocs", "X-Kudo-SearchProvider", "X-Kudo-RecentRelease",
}

func logAbsentKudos(pkg pkgset.Package, app *catalog.App) {
	for _, k := range knownKudos {
		if _, ok := app.Metadata[k]; !ok {
			pkg.Log(pkgset.Info, "%s: missing kudo %s", app.ID, k)
		}
	}
}
