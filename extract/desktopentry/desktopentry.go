// Package desktopentry implements the desktop-entry extraction plugin
// (spec §4.5 "Desktop-entry"): parsing freedesktop .desktop files into one
// App per file, and resolving the entry's Icon key to a real icon file
// under the package tree.
package desktopentry

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	catalog "github.com/asgen/cataloggen"
	"github.com/asgen/cataloggen/globtable"
	"github.com/asgen/cataloggen/pkgset"
	"github.com/asgen/cataloggen/plugin"
)

// Globs are the file-name patterns this plugin matches (spec §4.5).
var Globs = []string{
	"/usr/share/applications/*.desktop",
	"/usr/share/applications/kde4/*.desktop",
}

// AddGlobs registers this plugin's globs (spec §4.4 collect_globs()).
func AddGlobs(table *globtable.Table) {
	for _, g := range Globs {
		table.Push(g, "")
	}
}

// CheckFilename reports whether path matches this plugin's globs.
func CheckFilename(path string) bool {
	for _, g := range Globs {
		if ok, _ := filepath.Match(g, path); ok {
			return true
		}
	}
	return false
}

var unknownCategoryBlacklist = []string{
	"X-*-Settings-Panel",
	"X-*-SettingsDialog",
}

// iconSizes and iconExts are searched, in order, under
// /usr/share/icons/hicolor/<size>/apps/ (spec §4.5 Desktop-entry, icon
// resolution).
var iconSizes = []string{"64", "128", "96", "256", "scalable", "48", "32", "24", "16"}
var iconExts = []string{".png", ".gif", ".svg", ".xpm", ""}

// Process parses every matched .desktop file under treeRoot, emitting one
// App each (spec §4.5).
func Process(pkg pkgset.Package, treeRoot string, paths []string) ([]plugin.App, error) {
	var out []plugin.App
	for _, rel := range paths {
		if !CheckFilename(rel) {
			continue
		}
		app, skip, err := processOne(pkg, treeRoot, rel)
		if err != nil {
			pkg.Log(pkgset.Warning, "desktopentry: %s: %v", rel, err)
			continue
		}
		if skip {
			continue
		}
		out = append(out, app)
	}
	return out, nil
}

func processOne(pkg pkgset.Package, treeRoot, rel string) (*catalog.App, bool, error) {
	full := filepath.Join(treeRoot, rel)
	fields, err := parseINI(full, "Desktop Entry")
	if err != nil {
		return nil, false, err
	}

	id := filepath.Base(rel)
	app := catalog.NewApp(id, "desktop", pkg)

	if fields.get("NoDisplay") == "true" {
		reason := "NoDisplay=true"
		app.AddRequiresAppdata(&reason)
	}

	for _, cat := range strings.Split(fields.get("Categories"), ";") {
		cat = strings.TrimSpace(cat)
		if cat == "" {
			continue
		}
		if cat == "Settings" || cat == "DesktopSettings" {
			reason := cat
			app.AddRequiresAppdata(&reason)
		}
		if isBlacklistedCategory(cat) {
			pkg.Log(pkgset.Info, "desktopentry: %s: dropping unknown category %s", id, cat)
			return nil, true, nil
		}
		app.AddCategory(cat)
	}

	if name := fields.get("Name"); name != "" {
		app.Name["C"] = name
	}
	for k, v := range fields.localized("Name") {
		app.Name[k] = v
	}
	if c := fields.get("Comment"); c != "" {
		app.Summary["C"] = c
	}
	for k, v := range fields.localized("Comment") {
		app.Summary[k] = v
	}

	app.ProjectGroup = projectGroup(fields)

	if icon := fields.get("Icon"); icon != "" {
		switch ext := strings.ToLower(filepath.Ext(icon)); ext {
		case ".xpm", ".gif", ".ico":
			app.AddVeto("Uses %s icon: %s", strings.ToUpper(strings.TrimPrefix(ext, ".")), icon)
		default:
			if found := findIcon(treeRoot, icon); found != "" {
				app.Icon = &catalog.Icon{Name: found, Kind: catalog.IconCached}
			}
		}
	}

	return app, false, nil
}

func isBlacklistedCategory(cat string) bool {
	for _, pat := range unknownCategoryBlacklist {
		if ok, _ := filepath.Match(pat, cat); ok {
			return true
		}
	}
	return false
}

// projectGroup applies the fixed project-group heuristics (spec §4.5).
func projectGroup(f iniSection) string {
	switch {
	case f.get("X-GNOME-Bugzilla-Product") != "":
		return "GNOME"
	case f.get("X-MATE-Bugzilla-Product") != "":
		return "MATE"
	case f.get("X-KDE-StartupNotify") != "":
		return "KDE"
	case strings.HasPrefix(f.get("X-DocPath"), "http://userbase.kde.org/"):
		return "KDE"
	case strings.HasPrefix(f.get("Exec"), "xfce4-"):
		return "XFCE"
	}
	if only := strings.Split(f.get("OnlyShowIn"), ";"); len(only) == 2 && only[1] == "" {
		return only[0]
	}
	return ""
}

// findIcon resolves a bare icon name to a real file under the package tree
// (spec §4.5 Desktop-entry icon resolution). Returns "" if nothing
// acceptable was found.
func findIcon(treeRoot, name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	for _, size := range iconSizes {
		for _, ext := range iconExts {
			rel := filepath.Join("usr/share/icons/hicolor", size, "apps", stem+ext)
			if p := statOK(treeRoot, rel); p != "" {
				if acceptableSize(size) {
					return rel
				}
			}
		}
	}
	for _, dir := range []string{"usr/share/pixmaps", "usr/share/icons"} {
		for _, ext := range iconExts {
			rel := filepath.Join(dir, stem+ext)
			if p := statOK(treeRoot, rel); p != "" {
				return rel
			}
		}
	}
	return ""
}

func statOK(treeRoot, rel string) string {
	full := filepath.Join(treeRoot, rel)
	if fi, err := os.Stat(full); err == nil && !fi.IsDir() {
		return rel
	}
	return ""
}

// acceptableSize enforces the 32x32 minimum (spec §4.5: "minimum acceptable
// size is 32×32 on either axis"); "scalable" is always acceptable.
func acceptableSize(size string) bool {
	if size == "scalable" {
		return true
	}
	n, err := strconv.Atoi(size)
	return err == nil && n >= 32
}

// iniSection is a parsed .desktop [Desktop Entry] group plus its localized
// key[locale] variants.
type iniSection struct {
	plain     map[string]string
	loc map[string]map[string]string
}

func (s iniSection) get(key string) string { return s.plain[key] }

func (s iniSection) localized(key string) map[string]string {
	return s.loc[key]
}

// parseINI reads the named group from a freedesktop .desktop file. There is
// no INI library in the reference corpus suited to the localized
// "Key[locale]=value" convention desktop entries use, so this is a direct
// line-oriented parser over bufio.Scanner (see DESIGN.md).
func parseINI(path, group string) (iniSection, error) {
	f, err := os.Open(path)
	if err != nil {
		return iniSection{}, catalog.NewError("desktopentry.parseINI", catalog.ErrIO, path, err)
	}
	defer f.Close()

	sec := iniSection{plain: make(map[string]string), loc: make(map[string]map[string]string)}
	inGroup := false
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inGroup = line[1:len(line)-1] == group
			continue
		}
		if !inGroup {
			continue
		}
		i := strings.IndexByte(line, '=')
		if i < 0 {
			continue
		}
		key := strings.TrimSpace(line[:i])
		val := strings.TrimSpace(line[i+1:])
		if j := strings.IndexByte(key, '['); j >= 0 && strings.HasSuffix(key, "]") {
			base := key[:j]
			locale := key[j+1 : len(key)-1]
			if sec.loc[base] == nil {
				sec.loc[base] = make(map[string]string)
			}
			sec.loc[base][locale] = val
			continue
		}
		sec.plain[key] = val
	}
	if err := sc.Err(); err != nil {
		return iniSection{}, catalog.NewError("desktopentry.parseINI", catalog.ErrIO, path, err)
	}
	return sec, nil
}
