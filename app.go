package catalog

import (
	"fmt"
	"image"
	"sort"

	"github.com/asgen/cataloggen/pkgset"
)

// RequiresAppdata is one recorded requirement that external appdata metadata
// be merged before an App can be emitted (spec §3 App, §GLOSSARY
// "Requires-appdata"). An entry with Unspecified set (and an empty Reason)
// is the "required, no specific reason" sentinel described in spec §9
// design notes, replacing the C-ism of a null string in a reason list.
type RequiresAppdata struct {
	Reason string
	// Unspecified is true when no specific reason was given.
	Unspecified bool
}

// App is the catalog entity produced by extraction plugins and mutated by
// refinement plugins (spec §3 App).
type App struct {
	ID          string
	Kind        string
	Name        map[string]string
	Summary     map[string]string
	Description map[string]string

	Icon       *Icon
	categories map[string]struct{}
	Keywords   []string
	MimeTypes  []string
	Languages  map[string]int
	Metadata   map[string]string
	Pkgnames   []string
	Screenshots []*Screenshot
	URLs       map[string]string

	ProjectGroup         string
	ProjectLicense       string
	CompulsoryForDesktop []string
	Releases             []pkgset.Release

	vetoes          []string
	requiresAppdata []RequiresAppdata

	// Pixbuf is the decoded icon raster, nil until the image pipeline
	// materializes it.
	Pixbuf image.Image

	// Pkg is a non-owning back-reference to the owning package (spec §3
	// invariant I4). It is also this App's route to the per-package log
	// buffer for warnings raised while mutating App state.
	Pkg pkgset.Package
}

// NewApp returns an empty App with its maps initialized, owned by pkg.
func NewApp(id, kind string, pkg pkgset.Package) *App {
	return &App{
		ID:       id,
		Kind:     kind,
		Name:     make(map[string]string),
		Summary:  make(map[string]string),
		Description: make(map[string]string),
		categories:  make(map[string]struct{}),
		Languages:   make(map[string]int),
		Metadata:    make(map[string]string),
		URLs:        make(map[string]string),
		Pkg:         pkg,
	}
}

// AddVeto appends a human-readable veto reason (spec §3 invariant I1).
func (a *App) AddVeto(format string, args ...any) {
	a.vetoes = append(a.vetoes, fmt.Sprintf(format, args...))
}

// Vetoes returns the recorded veto reasons.
func (a *App) Vetoes() []string { return a.vetoes }

// HasVeto reports whether this App carries at least one veto; per invariant
// I1 such an App must never be emitted.
func (a *App) HasVeto() bool { return len(a.vetoes) > 0 }

// AddRequiresAppdata records that appdata merge is required. A nil reason
// pointer is the "required, no specific reason" sentinel (spec §3, §9).
func (a *App) AddRequiresAppdata(reason *string) {
	if reason == nil {
		a.requiresAppdata = append(a.requiresAppdata, RequiresAppdata{Unspecified: true})
		return
	}
	a.requiresAppdata = append(a.requiresAppdata, RequiresAppdata{Reason: *reason})
}

// RequiresAppdataReasons returns the recorded appdata requirements.
func (a *App) RequiresAppdataReasons() []RequiresAppdata { return a.requiresAppdata }

// NeedsAppdata reports whether any appdata requirement is still outstanding.
func (a *App) NeedsAppdata() bool { return len(a.requiresAppdata) > 0 }

// ClearRequiresAppdata drops every recorded requirement; called by the
// appdata refinement plugin on a successful merge (spec §4.6 Appdata).
func (a *App) ClearRequiresAppdata() { a.requiresAppdata = nil }

// SetPixbuf attaches the decoded icon raster, warning via the owning
// package's log if it lacks an alpha channel (spec §4.3).
func (a *App) SetPixbuf(img image.Image) {
	a.Pixbuf = img
	if img == nil {
		return
	}
	switch img.ColorModel() {
	case image.RGBAModel, image.NRGBAModel, image.Alpha16Model, image.AlphaModel:
	default:
		if a.Pkg != nil {
			a.Pkg.Log(pkgset.Warning, "icon for %s has no alpha channel", a.ID)
		}
	}
}

// AddScreenshot appends a screenshot, marking the first one added as
// default (spec §4.3).
func (a *App) AddScreenshot(ss *Screenshot) {
	ss.App = a
	if len(a.Screenshots) == 0 && !ss.IsDefault {
		ss.IsDefault = true
	}
	a.Screenshots = append(a.Screenshots, ss)
}

// AddCategory adds a freedesktop category to the App's category set.
func (a *App) AddCategory(c string) {
	if c == "" {
		return
	}
	a.categories[c] = struct{}{}
}

// HasCategory reports whether c is present in the App's category set.
func (a *App) HasCategory(c string) bool {
	_, ok := a.categories[c]
	return ok
}

// Categories returns the App's categories, sorted for determinism.
func (a *App) Categories() []string {
	out := make([]string, 0, len(a.categories))
	for c := range a.categories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// CategoryCount reports how many categories are set.
func (a *App) CategoryCount() int { return len(a.categories) }

// AppID implements plugin.App, giving the plugin registry a package-free
// way to refer to an App across its interface boundary.
func (a *App) AppID() string { return a.ID }

// SetMetadata sets a metadata key, logging an info line via the owning
// package's log buffer on overwrite (spec §4.6 Appdata: "each overwrite
// logs an info line").
func (a *App) SetMetadata(key, value string) {
	if a.Metadata == nil {
		a.Metadata = make(map[string]string)
	}
	if old, ok := a.Metadata[key]; ok && old != value && a.Pkg != nil {
		a.Pkg.Log(pkgset.Info, "overwriting metadata %s: %q -> %q", key, old, value)
	}
	a.Metadata[key] = value
}

// StripFontMetadata removes every metadata key with the reserved Font*
// prefix (spec §4.4 merge step (a)).
func (a *App) StripFontMetadata() {
	for k := range a.Metadata {
		if len(k) >= len(FontPrefix) && k[:len(FontPrefix)] == FontPrefix {
			delete(a.Metadata, k)
		}
	}
}
