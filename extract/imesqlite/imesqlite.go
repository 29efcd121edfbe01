// Package imesqlite implements the IME SQLite extraction plugin (spec §4.5
// "IME SQLite"): reading name/symbol/description/languages from an
// ibus-table database's "ime" table.
package imesqlite

import (
	"database/sql"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	catalog "github.com/asgen/cataloggen"
	"github.com/asgen/cataloggen/globtable"
	"github.com/asgen/cataloggen/pkgset"
	"github.com/asgen/cataloggen/plugin"
)

// Glob is the file-name pattern this plugin matches (spec §4.5).
const Glob = "/usr/share/ibus-table/tables/*.db"

// AddGlobs registers this plugin's glob.
func AddGlobs(table *globtable.Table) { table.Push(Glob, "") }

// CheckFilename reports whether path matches Glob.
func CheckFilename(path string) bool {
	ok, _ := filepath.Match(Glob, path)
	return ok
}

// Process opens every matched ibus-table database and emits one App per
// file (spec §4.5).
func Process(pkg pkgset.Package, treeRoot string, paths []string) ([]plugin.App, error) {
	var out []plugin.App
	for _, rel := range paths {
		if !CheckFilename(rel) {
			continue
		}
		app, err := processOne(pkg, filepath.Join(treeRoot, rel), rel)
		if err != nil {
			pkg.Log(pkgset.Warning, "imesqlite: %s: %v", rel, err)
			continue
		}
		out = append(out, app)
	}
	return out, nil
}

func processOne(pkg pkgset.Package, full, rel string) (*catalog.App, error) {
	db, err := sql.Open("sqlite", full)
	if err != nil {
		return nil, catalog.NewError("imesqlite.processOne", catalog.ErrIO, full, err)
	}
	defer db.Close()

	var name, symbol, description, languages sql.NullString
	row := db.QueryRow(`SELECT name, symbol, description, languages FROM ime LIMIT 1`)
	if err := row.Scan(&name, &symbol, &description, &languages); err != nil {
		return nil, catalog.NewError("imesqlite.processOne", catalog.ErrPluginFailed, full, err)
	}
	if !name.Valid || name.String == "" || !description.Valid || description.String == "" {
		return nil, catalog.NewError("imesqlite.processOne", catalog.ErrPluginFailed, "missing name or description", nil)
	}

	id := filepath.Base(rel)
	app := catalog.NewApp(id, "inputmethod", pkg)
	app.Name["C"] = name.String
	app.Summary["C"] = description.String
	app.AddCategory("Addons")
	app.AddCategory("InputSources")
	app.Icon = &catalog.Icon{Name: "system-run-symbolic", Kind: catalog.IconStock}

	for _, lang := range strings.Split(languages.String, ",") {
		lang = strings.TrimSpace(lang)
		if lang != "" {
			app.Languages[lang] = 100
		}
	}

	reason := "IME table entry"
	app.AddRequiresAppdata(&reason)

	return app, nil
}
