// Package nm implements the nm refinement plugin (spec §4.6 "Nm"):
// scanning each packaged /usr/bin/* ELF binary's dynamic symbol table for
// known GTK entry points.
//
// The spec's "host's dynamic-symbol lister" subprocess (spec §6) is
// replaced with a direct read of the ELF dynamic symbol table via the
// standard library's debug/elf — no third-party ELF reader appears
// anywhere in the reference corpus, and debug/elf exposes exactly the
// symbol table this plugin needs without a subprocess (see DESIGN.md).
package nm

import (
	"debug/elf"
	"path/filepath"
	"strings"

	catalog "github.com/asgen/cataloggen"
)

var watchedSymbols = map[string]string{
	"gtk_application_new":            "X-Kudo-GTK3",
	"gtk_application_set_app_menu":   "X-Kudo-UsesAppMenu",
}

// Refine scans every /usr/bin/* entry in filelist for the watched dynamic
// symbols, setting the corresponding kudo on a match (spec §4.6 Nm).
func Refine(app *catalog.App, treeRoot string, filelist []string) error {
	for _, rel := range filelist {
		ok, _ := filepath.Match("/usr/bin/*", rel)
		if !ok {
			continue
		}
		symbols, err := dynamicSymbols(filepath.Join(treeRoot, strings.TrimPrefix(rel, "/")))
		if err != nil {
			continue
		}
		for _, sym := range symbols {
			if kudo, ok := watchedSymbols[sym]; ok {
				app.SetMetadata(kudo, "true")
			}
		}
	}
	return nil
}

func dynamicSymbols(path string) ([]string, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, catalog.NewError("nm.dynamicSymbols", catalog.ErrIO, path, err)
	}
	defer f.Close()

	syms, err := f.DynamicSymbols()
	if err != nil {
		return nil, catalog.NewError("nm.dynamicSymbols", catalog.ErrPackageParse, path, err)
	}
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = s.Name
	}
	return out, nil
}
