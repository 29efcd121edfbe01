// Package gettext implements the gettext refinement plugin (spec §4.6
// "Gettext"): reading .mo message-object headers to compute each locale's
// translation coverage percentage and emitting language entries that meet
// the 25% threshold (spec §8 P7).
package gettext

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"

	catalog "github.com/asgen/cataloggen"
)

const moMagicLE = 0x950412de
const moMagicBE = 0xde120495

// minPercentage is the language-threshold invariant (spec §8 P7).
const minPercentage = 25

// Refine walks <pkg>/usr/share/locale/<loc>/LC_MESSAGES/*.mo, computing
// each locale's coverage percentage relative to the package's largest
// message catalog, and records a language entry for every locale at or
// above the threshold (spec §4.6, §8 P7).
func Refine(app *catalog.App, treeRoot string, filelist []string) error {
	type entry struct {
		locale   string
		nstrings int
	}
	var entries []entry
	maxStrings := 0

	for _, rel := range filelist {
		ok, _ := filepath.Match("/usr/share/locale/*/LC_MESSAGES/*.mo", rel)
		if !ok {
			continue
		}
		locale := localeFromPath(rel)
		if locale == "" {
			continue
		}
		n, err := readMONStrings(filepath.Join(treeRoot, strings.TrimPrefix(rel, "/")))
		if err != nil {
			continue
		}
		entries = append(entries, entry{locale: locale, nstrings: n})
		if n > maxStrings {
			maxStrings = n
		}
	}
	if maxStrings == 0 {
		return nil
	}
	for _, e := range entries {
		pct := e.nstrings * 100 / maxStrings
		if pct > 100 {
			pct = 100
		}
		if pct >= minPercentage {
			app.Languages[e.locale] = pct
		}
	}
	return nil
}

func localeFromPath(rel string) string {
	parts := strings.Split(strings.TrimPrefix(rel, "/"), "/")
	for i, p := range parts {
		if p == "locale" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

// readMONStrings reads a gettext .mo file's header and returns its string
// count (the "nstrings" field of the seven-word header: magic, revision,
// nstrings, originals-table offset, translations-table offset, hash-table
// size, hash-table offset).
func readMONStrings(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, catalog.NewError("gettext.readMONStrings", catalog.ErrIO, path, err)
	}
	if len(raw) < 28 {
		return 0, catalog.NewError("gettext.readMONStrings", catalog.ErrPackageParse, path, nil)
	}
	magic := binary.LittleEndian.Uint32(raw[0:4])
	var order binary.ByteOrder
	switch magic {
	case moMagicLE:
		order = binary.LittleEndian
	case moMagicBE:
		order = binary.BigEndian
	default:
		return 0, catalog.NewError("gettext.readMONStrings", catalog.ErrPackageParse, "bad mo magic", nil)
	}
	nstrings := order.Uint32(raw[8:12])
	return int(nstrings), nil
}
