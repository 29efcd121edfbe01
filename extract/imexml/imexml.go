// Package imexml implements the IME XML extraction plugin (spec §4.5
// "IME XML"): reading ibus component descriptors, tolerating a missing XML
// prolog.
package imexml

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	catalog "github.com/asgen/cataloggen"
	"github.com/asgen/cataloggen/globtable"
	"github.com/asgen/cataloggen/pkgset"
	"github.com/asgen/cataloggen/plugin"
)

// Glob is the file-name pattern this plugin matches (spec §4.5).
const Glob = "/usr/share/ibus/component/*.xml"

// AddGlobs registers this plugin's glob.
func AddGlobs(table *globtable.Table) { table.Push(Glob, "") }

// CheckFilename reports whether path matches Glob.
func CheckFilename(path string) bool {
	ok, _ := filepath.Match(Glob, path)
	return ok
}

type component struct {
	XMLName xml.Name `xml:"component"`
	Name    string   `xml:"name"`
	Desc    string   `xml:"description"`
	Engines []engine `xml:"engines>engine"`
}

type engine struct {
	Name     string `xml:"name"`
	Language string `xml:"language"`
	Icon     string `xml:"icon"`
}

// Process parses every matched ibus component XML file, emitting one App
// per <engine> (spec §4.5).
func Process(pkg pkgset.Package, treeRoot string, paths []string) ([]plugin.App, error) {
	var out []plugin.App
	for _, rel := range paths {
		if !CheckFilename(rel) {
			continue
		}
		apps, err := processOne(pkg, filepath.Join(treeRoot, rel), rel)
		if err != nil {
			pkg.Log(pkgset.Warning, "imexml: %s: %v", rel, err)
			continue
		}
		out = append(out, apps...)
	}
	return out, nil
}

func processOne(pkg pkgset.Package, full, rel string) ([]plugin.App, error) {
	raw, err := os.ReadFile(full)
	if err != nil {
		return nil, catalog.NewError("imexml.processOne", catalog.ErrIO, full, err)
	}

	body := skipToProlog(raw)

	var c component
	if err := xml.Unmarshal(body, &c); err != nil {
		return nil, catalog.NewError("imexml.processOne", catalog.ErrPackageParse, full, err)
	}

	var out []plugin.App
	for i, e := range c.Engines {
		id := e.Name
		if id == "" {
			id = filepath.Base(rel) + "-" + strconv.Itoa(i)
		}
		app := catalog.NewApp(id, "inputmethod", pkg)
		app.Name["C"] = e.Name
		if e.Language != "" {
			app.Languages[e.Language] = 100
		}
		if e.Icon != "" {
			app.Icon = &catalog.Icon{Name: e.Icon, Kind: catalog.IconCached}
		}
		app.AddCategory("Addons")
		app.AddCategory("InputSources")
		reason := "ibus component entry"
		app.AddRequiresAppdata(&reason)
		out = append(out, app)
	}
	return out, nil
}

// skipToProlog tolerates a missing XML prolog by scanning forward to the
// first line beginning with "<?xml" or "<component>" (spec §4.5: "Tolerates
// a missing XML prolog by skipping leading lines until the first line
// beginning with <?xml or <component>").
func skipToProlog(raw []byte) []byte {
	lines := strings.Split(string(raw), "\n")
	for i, line := range lines {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "<?xml") || strings.HasPrefix(t, "<component>") {
			return []byte(strings.Join(lines[i:], "\n"))
		}
	}
	return raw
}
