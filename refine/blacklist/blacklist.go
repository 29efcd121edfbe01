// Package blacklist implements the blacklist refinement plugin (spec §4.6
// "Blacklist"): checking an app's identifier against a glob-value table and
// recording the stored reason as a veto on a match.
package blacklist

import (
	catalog "github.com/asgen/cataloggen"
	"github.com/asgen/cataloggen/globtable"
)

// DefaultEntries is a representative subset of the ~80-entry blacklist
// table spec §4.6 describes (spec.md does not enumerate the full list).
var DefaultEntries = []struct{ Pattern, Reason string }{
	{"bash", "Not a GUI application"},
	{"coreutils", "Not a GUI application"},
	{"*-devel", "Development package"},
	{"*-debuginfo", "Debug package"},
	{"*-debugsource", "Debug package"},
	{"*-doc", "Documentation package"},
	{"kde4-l10n-*", "Translation package"},
	{"man-pages-*", "Documentation package"},
}

// NewTable builds the default blacklist glob-value table.
func NewTable() *globtable.Table {
	t := globtable.New()
	for _, e := range DefaultEntries {
		t.Push(e.Pattern, e.Reason)
	}
	return t
}

// Refine vetoes app if its identifier matches an entry in table (spec
// §4.6).
func Refine(app *catalog.App, table *globtable.Table) error {
	if reason, ok := table.Search(app.ID); ok {
		app.AddVeto("%s", reason)
	}
	return nil
}
