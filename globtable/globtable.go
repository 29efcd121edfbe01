// Package globtable implements the glob-value table (spec §4.1): an
// insertion-ordered list of (pattern, value) pairs searched by first-match
// shell-style glob, used for the package-name blacklist, the package-name →
// extra-package dependency table, the URL-prefix → project-group table, and
// the file-glob pre-filter collected from every plugin before extraction.
package globtable

import "path"

// entry is one (pattern, value) pair in insertion order.
type entry struct {
	pattern string
	value   string
}

// Table is a glob-value table (spec §4.1 Glob-value table).
type Table struct {
	entries []entry
}

// New returns an empty Table.
func New() *Table {
	return &Table{}
}

// Push appends a (pattern, value) pair. Patterns use shell-style globs (*,
// ?, character classes), matched with path.Match semantics.
func (t *Table) Push(pattern, value string) {
	t.entries = append(t.entries, entry{pattern: pattern, value: value})
}

// Search returns the value of the first pattern matching needle, in
// insertion order, and true; or "", false if no pattern matches (spec §4.1
// search()).
func (t *Table) Search(needle string) (string, bool) {
	for _, e := range t.entries {
		if ok, _ := path.Match(e.pattern, needle); ok {
			return e.value, true
		}
	}
	return "", false
}

// Matches reports whether any entry matches needle, discarding the value;
// used by pure membership tables such as the package-name blacklist.
func (t *Table) Matches(needle string) bool {
	_, ok := t.Search(needle)
	return ok
}

// Len reports the number of entries pushed.
func (t *Table) Len() int { return len(t.entries) }

// Patterns returns the patterns in insertion order, used by the task runner
// to collect every plugin's file-name globs for the exploded-tree
// pre-filter (spec §4.4 collect_globs()).
func (t *Table) Patterns() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.pattern
	}
	return out
}
