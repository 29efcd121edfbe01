// Package hardcoded implements the hardcoded refinement plugin (spec §4.6
// "Hardcoded"): fixed id→category pairs, project-group-from-URL, file- and
// dependency-based kudos, obsolete-toolkit vetoes, the appdata-requirement
// rules, and upstream-staleness policy.
package hardcoded

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	catalog "github.com/asgen/cataloggen"
	"github.com/asgen/cataloggen/globtable"
	"github.com/asgen/cataloggen/pkgset"
)

// KnownCategories is the short fixed id→category list (spec §4.6).
var KnownCategories = map[string][]string{
	"org.gnome.Builder.desktop": {"Development", "IDE"},
	"gimp.desktop":              {"Graphics", "2DGraphics"},
	"inkscape.desktop":          {"Graphics", "VectorGraphics"},
	"blender.desktop":           {"Graphics", "3DGraphics"},
}

var obsoleteToolkits = map[string]string{
	"libgtk-1.2.so.0": "Obsolete toolkit: GTK 1",
	"libqt-mt.so.3":   "Obsolete toolkit: Qt 3",
	"liblcms.so.1":    "Obsolete toolkit: lcms 1",
	"libelektra.so.4": "Obsolete toolkit: elektra 4",
}

var dependencyKudos = map[string]string{
	"libgtk-3.so.0":    "X-Kudo-GTK3",
	"libQt5Core.so.5":  "X-Kudo-QT5",
}

const (
	deadUpstreamYears  = 10
	staleUpstreamYears = 5
	recentReleaseYears = 1
)

// defaultURLEntries maps homepage URL prefixes to a project group, the
// same heuristic the desktop-entry extractor applies from key names (spec
// §4.5 Desktop-entry) but here driven purely by the package's recorded URL.
var defaultURLEntries = []struct{ Pattern, Group string }{
	{"https://gitlab.gnome.org/*", "GNOME"},
	{"https://gitlab.freedesktop.org/xfce/*", "XFCE"},
	{"https://www.kde.org/*", "KDE"},
	{"https://mate-desktop.org/*", "MATE"},
}

// NewURLTable builds the default project-group-from-URL glob-value table
// (spec §4.6 Hardcoded).
func NewURLTable() *globtable.Table {
	t := globtable.New()
	for _, e := range defaultURLEntries {
		t.Push(e.Pattern, e.Group)
	}
	return t
}

// Refine applies the fixed rule set to app (spec §4.6 Hardcoded).
func Refine(app *catalog.App, pkg pkgset.Package, treeRoot string, filelist, requires []string, urlTable *globtable.Table, screenshotsExtra string, now time.Time) error {
	for _, c := range KnownCategories[app.ID] {
		app.AddCategory(c)
	}

	if app.ProjectGroup == "" {
		// The URL is tried whole and then cut back one path segment at a
		// time, so a "https://host/*" prefix pattern also covers deeper
		// paths that a single "*" cannot span.
		for u := pkg.URL(); u != ""; {
			if group, ok := urlTable.Search(u); ok {
				app.ProjectGroup = group
				break
			}
			i := strings.LastIndexByte(u, '/')
			if i < 0 {
				break
			}
			u = u[:i]
		}
	}

	for _, rel := range filelist {
		switch {
		case strings.HasPrefix(rel, "/usr/share/help/"):
			app.SetMetadata("X-Kudo-InstallsUserDocs", "true")
		case strings.HasPrefix(rel, "/usr/share/gnome-shell/search-providers/"):
			app.SetMetadata("X-Kudo-SearchProvider", "true")
		}
	}

	for _, req := range requires {
		if kudo, ok := dependencyKudos[req]; ok {
			app.SetMetadata(kudo, "true")
		}
		if reason, ok := obsoleteToolkits[req]; ok {
			app.AddVeto("%s", reason)
		}
		if req == "libXt.so.6" || req == "wine-core" {
			reason := req
			app.AddRequiresAppdata(&reason)
		}
	}

	if app.CategoryCount() == 0 || app.HasCategory("ConsoleOnly") {
		reason := "ConsoleOnly or no category"
		app.AddRequiresAppdata(&reason)
	}

	applyStaleness(app, now)

	if dir := filepath.Join(screenshotsExtra, app.ID); dirExists(dir) {
		entries, _ := os.ReadDir(dir)
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), ".png") {
				raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
				if err != nil {
					continue
				}
				app.AddScreenshot(&catalog.Screenshot{
					Basename: catalog.ScreenshotBasename(app.ID, raw),
				})
			}
		}
	}

	return nil
}

// applyStaleness implements the latest-release-age rule (spec §4.6).
func applyStaleness(app *catalog.App, now time.Time) {
	if len(app.Releases) == 0 {
		return
	}
	latest := app.Releases[0]
	for _, r := range app.Releases[1:] {
		if r.Timestamp > latest.Timestamp {
			latest = r
		}
	}
	age := now.Sub(time.Unix(latest.Timestamp, 0))
	years := age.Hours() / (24 * 365)

	switch {
	case years > deadUpstreamYears:
		app.AddVeto("Dead upstream for %s years", strconv.Itoa(int(years)))
	case years > staleUpstreamYears:
		reason := "Stale upstream"
		app.AddRequiresAppdata(&reason)
	}
	if years <= recentReleaseYears {
		app.SetMetadata("X-Kudo-RecentRelease", "true")
	}
}

func dirExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
