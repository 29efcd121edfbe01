// Package appdata implements the appdata refinement plugin (spec §4.6
// "Appdata"): locating and merging an AppStream appdata.xml file into an
// App, enforcing the identifier and license invariants, and clearing the
// requires-appdata list on success.
package appdata

import (
	"encoding/xml"
	"os"
	"path/filepath"

	catalog "github.com/asgen/cataloggen"
	"github.com/asgen/cataloggen/pkgset"
)

// allowedLicenses is the fixed metadata-license allowlist (spec §4.6
// Appdata).
var allowedLicenses = map[string]bool{
	"CC0-1.0":      true,
	"CC-BY-3.0":    true,
	"CC-BY-SA-3.0": true,
	"GFDL-1.3":     true,
}

type document struct {
	XMLName      xml.Name      `xml:"component"`
	ID           string        `xml:"id"`
	MetadataLic  string        `xml:"metadata_license,attr"`
	Name         []localString `xml:"name"`
	Summary      []localString `xml:"summary"`
	Description  []localString `xml:"description"`
	URL          []urlEntry    `xml:"url"`
	ProjectGroup string        `xml:"project_group"`
	Compulsory   []string      `xml:"compulsory_for_desktop"`
	Screenshots  []screenshot  `xml:"screenshots>screenshot"`
}

type localString struct {
	Lang string `xml:"lang,attr"`
	Text string `xml:",chardata"`
}

type urlEntry struct {
	Type string `xml:"type,attr"`
	Text string `xml:",chardata"`
}

type screenshot struct {
	Type    string    `xml:"type,attr"`
	Images  []imageEl `xml:"image"`
	Caption string    `xml:"caption"`
}

type imageEl struct {
	Type string `xml:"type,attr"`
	Text string `xml:",chardata"`
}

// Refine locates the appdata file for app (tmpdir path first, then the
// AppDataExtra fallback), parses it, validates id and metadata license, and
// merges its content into app (spec §4.6 Appdata).
func Refine(app *catalog.App, tmpDir, appDataExtra string) error {
	path := filepath.Join(tmpDir, "usr", "share", "appdata", app.ID+".appdata.xml")
	if !fileExists(path) && appDataExtra != "" {
		path = filepath.Join(appDataExtra, app.Kind, app.ID+".appdata.xml")
	}
	if !fileExists(path) {
		if app.Kind == "desktop" {
			_, hasNoDisplayReq := firstReasonContaining(app, "NoDisplay=true")
			if !hasNoDisplayReq {
				app.Pkg.Log(pkgset.Warning, "%s: no appdata and no NoDisplay, deprecated", app.ID)
			}
		}
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return catalog.NewError("appdata.Refine", catalog.ErrIO, path, err)
	}
	var doc document
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return catalog.NewError("appdata.Refine", catalog.ErrValidation, path, err)
	}

	if doc.ID != app.ID {
		return catalog.NewError("appdata.Refine", catalog.ErrValidation, "id mismatch: "+doc.ID+" != "+app.ID, nil)
	}
	if !allowedLicenses[doc.MetadataLic] {
		return catalog.NewError("appdata.Refine", catalog.ErrValidation, "disallowed metadata_license: "+doc.MetadataLic, nil)
	}

	for _, u := range doc.URL {
		if u.Type == "homepage" {
			app.URLs["homepage"] = u.Text
		}
	}
	if doc.ProjectGroup != "" {
		app.ProjectGroup = doc.ProjectGroup
	}
	app.CompulsoryForDesktop = append(app.CompulsoryForDesktop, doc.Compulsory...)
	for _, n := range doc.Name {
		app.Name[localeOrC(n.Lang)] = n.Text
	}
	for _, s := range doc.Summary {
		app.Summary[localeOrC(s.Lang)] = s.Text
	}
	for _, d := range doc.Description {
		app.Description[localeOrC(d.Lang)] = d.Text
	}
	for _, s := range doc.Screenshots {
		ss := &catalog.Screenshot{IsDefault: s.Type == "default" || len(app.Screenshots) == 0}
		for _, img := range s.Images {
			ss.Images = append(ss.Images, catalog.Image{URL: img.Text, Kind: catalog.ImageSource})
		}
		ss.SetCaption("C", s.Caption)
		app.AddScreenshot(ss)
	}

	app.ClearRequiresAppdata()
	return nil
}

func localeOrC(lang string) string {
	if lang == "" {
		return "C"
	}
	return lang
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

func firstReasonContaining(app *catalog.App, substr string) (catalog.RequiresAppdata, bool) {
	for _, r := range app.RequiresAppdataReasons() {
		if r.Reason == substr {
			return r, true
		}
	}
	return catalog.RequiresAppdata{}, false
}
