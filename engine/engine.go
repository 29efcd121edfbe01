// Package engine implements the context and scheduler (spec §4.8 "Context +
// scheduler", C8): global configuration and shared state, package admission
// and deduplication, the bounded worker pool that drives one task.Task per
// enabled package, and the final catalog XML + icon archive writers.
//
// Grounded on the teacher's indexer.LayerScanner.Scan (indexer/layerscanner.go):
// launch every unit of work as an errgroup goroutine immediately, let
// (*errgroup.Group).SetLimit cap in-flight work, Wait to drain. Unlike the
// teacher, a failing task here never cancels its siblings (spec §5: "no
// global abort") — each task.Task.Run already reduces every internal error
// to a terminal state instead of propagating one, so the errgroup thunks
// here never return a non-nil error themselves.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	catalog "github.com/asgen/cataloggen"
	"github.com/asgen/cataloggen/globtable"
	"github.com/asgen/cataloggen/pkgset"
	"github.com/asgen/cataloggen/pkgset/deb"
	"github.com/asgen/cataloggen/pkgset/rpm"
	"github.com/asgen/cataloggen/plugin"
	"github.com/asgen/cataloggen/task"
	"github.com/asgen/cataloggen/toolkit/spool"
)

// Config is the full set of run-scoped directories and flags from spec §6,
// embedding the subset task.Task itself consumes.
type Config struct {
	task.Config

	// ApiVersion is the catalog schema version written into the XML.
	ApiVersion float64
	// MaxThreads bounds the worker pool (pool size >= 1).
	MaxThreads int
	// Basename is the catalog file stem.
	Basename string
}

// Context holds global state for one catalog-generation run (spec §4.8).
type Context struct {
	cfg Config

	registry      *plugin.Registry
	blacklist     *globtable.Table
	extraPackages *globtable.Table
	arena         *spool.Arena

	packagesMu sync.Mutex
	packages   []pkgset.Package
	byName     map[string]pkgset.Package

	appsMu sync.Mutex
	apps   []*catalog.App

	// oldMetadata maps a cache key (spec §4.8 step 5, the
	// X-CreaterepoAsCacheID value) to the Apps recorded for it in a prior
	// run's catalog, loaded from <OutputDir>/<basename>.xml.gz if present.
	oldMetadata map[string][]*catalog.App
}

// New returns a Context for cfg. Call Setup before admitting packages.
func New(cfg Config) *Context {
	if cfg.MaxThreads < 1 {
		cfg.MaxThreads = 1
	}
	return &Context{
		cfg:    cfg,
		byName: make(map[string]pkgset.Package),
	}
}

// Setup builds the plugin registry, the blacklist/url glob tables, and
// loads the prior run's catalog as the old-metadata cache (spec §4.8 step
// 1 "setup").
func (c *Context) Setup(ctx context.Context) error {
	c.registry = buildRegistry(c.cfg.Config)
	if err := c.registry.Discover(ctx); err != nil {
		return err
	}
	c.blacklist = defaultPackageBlacklist()
	c.extraPackages = globtable.New()

	if err := os.MkdirAll(c.cfg.TempDir, 0o755); err != nil {
		return catalog.NewError("engine.Setup", catalog.ErrIO, c.cfg.TempDir, err)
	}
	arena, err := spool.NewArena(ctx, c.cfg.TempDir, "scratch")
	if err != nil {
		return catalog.NewError("engine.Setup", catalog.ErrIO, c.cfg.TempDir, err)
	}
	c.arena = arena

	old, err := loadOldCatalog(filepath.Join(c.cfg.OutputDir, c.cfg.Basename+".xml.gz"))
	if err != nil {
		// Absence of a prior catalog is not an error; a fresh run has none.
		old = nil
	}
	c.oldMetadata = indexByCacheID(old)
	return nil
}

// PushExtraPackageRule registers a name→extra-package glob rule consulted
// by task.Task.explode (spec §4.7 step 3).
func (c *Context) PushExtraPackageRule(namePattern, extraPackageName string) {
	c.extraPackages.Push(namePattern, extraPackageName)
}

// AddFilename opens path as an RPM or DEB package, checks it against the
// blacklist, and admits it into the context (spec §4.8 step 2 "add
// filename"). A blacklisted file is not an error: the caller is told via
// the returned bool. A file that is neither .rpm nor .deb, or that fails to
// open, is returned as an error.
func (c *Context) AddFilename(path string) (bool, error) {
	pkg, err := openPackage(path)
	if err != nil {
		return false, err
	}
	if c.blacklist.Matches(pkg.Name()) {
		return false, nil
	}

	c.packagesMu.Lock()
	defer c.packagesMu.Unlock()
	c.packages = append(c.packages, pkg)
	c.byName[pkg.Name()] = pkg
	return true, nil
}

func openPackage(path string) (pkgset.Package, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".rpm":
		return rpm.Open(path)
	case ".deb":
		return deb.Open(path)
	default:
		return nil, catalog.NewError("engine.openPackage", catalog.ErrUnsupportedFormat, path, nil)
	}
}

// DisableOlderPackages groups admitted packages by source name and keeps
// only the highest version per group enabled (spec §4.8 step 3
// "disable_older_pkgs", §8 P5).
func (c *Context) DisableOlderPackages() {
	c.packagesMu.Lock()
	defer c.packagesMu.Unlock()

	bySource := make(map[string][]pkgset.Package)
	for _, pkg := range c.packages {
		bySource[pkg.SourceName()] = append(bySource[pkg.SourceName()], pkg)
	}
	for _, group := range bySource {
		if len(group) < 2 {
			continue
		}
		best := group[0]
		for _, pkg := range group[1:] {
			if pkg.Compare(best) > 0 {
				best = pkg
			}
		}
		for _, pkg := range group {
			pkg.SetEnabled(pkg == best)
		}
	}
}

// findInCache implements spec §4.8 step 5: if a prior-run App carries the
// cache key computed for path, that App is folded straight into the
// current apps list and the caller should skip scheduling a task for path.
func (c *Context) findInCache(path string) bool {
	if !c.cfg.AddCacheId || len(c.oldMetadata) == 0 {
		return false
	}
	key, err := catalog.CacheID(path)
	if err != nil {
		return false
	}
	cached, ok := c.oldMetadata[key]
	if !ok {
		return false
	}
	c.appsMu.Lock()
	c.apps = append(c.apps, cached...)
	c.appsMu.Unlock()
	return true
}

// Process runs the bounded worker pool over every enabled package, merges
// the results, and writes the catalog XML and icon archive (spec §4.8 step
// 4 "process").
func (c *Context) Process(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.MaxThreads)

	for _, pkg := range c.packages {
		if !pkg.Enabled() {
			continue
		}
		if c.findInCache(pkg.Filename()) {
			continue
		}
		g.Go(func() error {
			t := task.New(pkg, c.registry, c.cfg.Config, c.extraPackages, c.lookupExtra, c.arena)
			t.Run(gctx)
			if len(t.Apps) > 0 {
				c.appsMu.Lock()
				c.apps = append(c.apps, t.Apps...)
				c.appsMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	pluginApps := make([]plugin.App, len(c.apps))
	for i, a := range c.apps {
		pluginApps[i] = a
	}
	if err := c.registry.Merge(ctx, pluginApps); err != nil {
		return fmt.Errorf("merge phase: %w", err)
	}
	finalizeApps(c.apps)

	if c.arena != nil {
		_ = c.arena.Close()
	}

	if err := writeCatalog(c.apps, c.cfg); err != nil {
		return err
	}
	return writeIconArchive(c.cfg)
}

// finalizeApps implements the fixed merge steps of spec §4.4 that run after
// every plugin's Merge hook: strip the internal Font* metadata left by the
// font extractor, then drop every App after the first with a given
// identifier, vetoing the dropped ones with the owning package of the one
// that was kept (invariant I3, property P2).
func finalizeApps(apps []*catalog.App) {
	for _, a := range apps {
		a.StripFontMetadata()
	}
	kept := make(map[string]*catalog.App, len(apps))
	for _, a := range apps {
		if a.HasVeto() {
			continue
		}
		if first, ok := kept[a.ID]; ok {
			a.AddVeto("duplicate of %s", first.Pkg.NEVR())
			continue
		}
		kept[a.ID] = a
	}
}

func (c *Context) lookupExtra(name string) (pkgset.Package, bool) {
	c.packagesMu.Lock()
	defer c.packagesMu.Unlock()
	pkg, ok := c.byName[name]
	return pkg, ok
}

// Apps returns the accumulated Apps after Process has run.
func (c *Context) Apps() []*catalog.App { return c.apps }
