// Package gir implements the GIR refinement plugin (spec §4.6 "GIR"):
// scanning GObject-Introspection repository XML for a Gtk 3.0 include and
// setting the GTK3 kudo.
package gir

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"

	catalog "github.com/asgen/cataloggen"
)

type repository struct {
	XMLName  xml.Name  `xml:"repository"`
	Includes []include `xml:"include"`
}

type include struct {
	Name    string `xml:"name,attr"`
	Version string `xml:"version,attr"`
}

// Refine scans every "*/*.gir" file under treeRoot for a repository whose
// top-level include names Gtk 3.0, setting X-Kudo-GTK3 (spec §4.6).
func Refine(app *catalog.App, treeRoot string, filelist []string) error {
	for _, rel := range filelist {
		ok, _ := filepath.Match("/usr/share/*/*.gir", rel)
		if !ok {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(treeRoot, strings.TrimPrefix(rel, "/")))
		if err != nil {
			continue
		}
		var repo repository
		if err := xml.Unmarshal(raw, &repo); err != nil {
			continue
		}
		for _, inc := range repo.Includes {
			if inc.Name == "Gtk" && inc.Version == "3.0" {
				app.SetMetadata("X-Kudo-GTK3", "true")
				return nil
			}
		}
	}
	return nil
}
