// Package plugin implements the plugin registry (spec §4.4): discovering
// plugin handles, looking them up by filename glob, and iterating them in a
// deterministic order to drive the extraction, refinement, and merge
// phases.
package plugin

import (
	"context"
	"errors"
	"sort"

	"github.com/asgen/cataloggen/globtable"
	"github.com/asgen/cataloggen/pkgset"
)

// App is the subset of the catalog entity that plugins read and write.
// Defined here (not imported from the root catalog package) to keep plugin
// free of a dependency on catalog; the root package implements this
// interface on its *App type.
type App interface {
	AppID() string
}

// Handle is a plugin's capability set (spec §4.1 "Plugin handle"): a name,
// the enabled/native flags, and an opaque subset of hook functions. Any
// field may be nil; the registry only calls the hooks a handle provides.
type Handle struct {
	Name    string
	Enabled bool
	Native  bool

	Init    func(ctx context.Context) error
	Destroy func(ctx context.Context) error

	// AddGlobs registers this plugin's file-name globs into table, used to
	// pre-filter the exploded package tree before extraction (spec §4.4
	// collect_globs()).
	AddGlobs func(table *globtable.Table)

	// CheckFilename reports whether this plugin wants to process path.
	CheckFilename func(path string) bool

	// Process extracts App entities from an exploded package tree (spec
	// §4.5).
	Process func(ctx context.Context, pkg pkgset.Package, tmpDir string) ([]App, error)

	// ProcessApp refines a single App already produced by some extractor
	// (spec §4.6).
	ProcessApp func(ctx context.Context, pkg pkgset.Package, app App, tmpDir string) error

	// Merge runs cross-app merge logic once every app in a batch has been
	// refined (spec §4.8 merge phase).
	Merge func(ctx context.Context, apps []App) error
}

// Registry holds the discovered plugin handles in deterministic order
// (spec §4.4, grounded on the teacher's ecosystem dedupe-by-name pattern).
type Registry struct {
	handles []*Handle
	byName  map[string]*Handle
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Handle)}
}

// Register adds handle to the registry. Registering a name twice replaces
// the earlier handle; iteration order is insertion order, with the name's
// original position kept on replacement.
func (r *Registry) Register(h *Handle) {
	if _, exists := r.byName[h.Name]; exists {
		for i, existing := range r.handles {
			if existing.Name == h.Name {
				r.handles[i] = h
				break
			}
		}
		r.byName[h.Name] = h
		return
	}
	r.handles = append(r.handles, h)
	r.byName[h.Name] = h
}

// Discover runs Init on every enabled, not-yet-initialized handle, in
// registration order. A handle whose Init returns an error is disabled and
// excluded from subsequent phases; Discover continues with the rest (spec
// §5 cancellation semantics: "no global abort").
func (r *Registry) Discover(ctx context.Context) error {
	for _, h := range r.handles {
		if !h.Enabled || h.Init == nil {
			continue
		}
		if err := h.Init(ctx); err != nil {
			h.Enabled = false
		}
	}
	return nil
}

// Destroy runs Destroy on every handle that has one, in registration order.
func (r *Registry) Destroy(ctx context.Context) {
	for _, h := range r.handles {
		if h.Destroy != nil {
			_ = h.Destroy(ctx)
		}
	}
}

// Globs collects every enabled handle's file-name globs into one
// glob-value table (spec §4.4 collect_globs()).
func (r *Registry) Globs() *globtable.Table {
	table := globtable.New()
	for _, h := range r.Enabled() {
		if h.AddGlobs != nil {
			h.AddGlobs(table)
		}
	}
	return table
}

// Match returns the enabled handles whose CheckFilename accepts path, in
// registration order.
func (r *Registry) Match(path string) []*Handle {
	var out []*Handle
	for _, h := range r.Enabled() {
		if h.CheckFilename != nil && h.CheckFilename(path) {
			out = append(out, h)
		}
	}
	return out
}

// Enabled returns every currently-enabled handle, in registration order.
func (r *Registry) Enabled() []*Handle {
	out := make([]*Handle, 0, len(r.handles))
	for _, h := range r.handles {
		if h.Enabled {
			out = append(out, h)
		}
	}
	return out
}

// Names returns the registered handle names sorted lexically, used only
// for deterministic log output.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.handles))
	for _, h := range r.handles {
		out = append(out, h.Name)
	}
	sort.Strings(out)
	return out
}

// ProcessApp runs ProcessApp on every enabled handle that has one, in
// registration order. A failing refiner does not stop the remaining ones
// from running against the same app (spec §4.7 error policy: "Refinement
// failure of one plugin does not abort the remaining plugins for that
// App"); every error is collected and returned joined.
func (r *Registry) ProcessApp(ctx context.Context, pkg pkgset.Package, app App, tmpDir string) error {
	var errs []error
	for _, h := range r.Enabled() {
		if h.ProcessApp == nil {
			continue
		}
		if err := h.ProcessApp(ctx, pkg, app, tmpDir); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Merge runs Merge on every enabled handle that has one, in registration
// order (spec §4.8 merge phase).
func (r *Registry) Merge(ctx context.Context, apps []App) error {
	for _, h := range r.Enabled() {
		if h.Merge == nil {
			continue
		}
		if err := h.Merge(ctx, apps); err != nil {
			return err
		}
	}
	return nil
}
