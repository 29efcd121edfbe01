package pkgset

import "strings"

// changelogBlacklist holds substrings that, when present in a changelog
// entry's body, mean the description must be left empty (spec §4.2
// releases(), changelog-blacklist). Entries are matched case-sensitively, as
// written in the source list; spec §9 Open Questions leaves normalization as
// an implementer's choice — see DESIGN.md for that decision.
var changelogBlacklist = []string{
	"BR ", " >= ", "BuildRequires", "Buildroot", "Bump release",
	"%configure", "%doc", "ExcludeArch", "fix build", "FTBFS",
	"rebuild", "Rebuild", "rebuilt", "Rebuilt", "Requires",
	"scriptlets", "spec file", "subpackage",
	"Updated to ", "Update to ", "Upgrade to ", "Upstream",
	"vendor prefix",
}

// ShouldBlacklistChangelogBody reports whether body must not be used as a
// Release's Description, either because it matches one of the fixed
// substrings above or because it contains the release's own version string
// (spec §4.2).
func ShouldBlacklistChangelogBody(body, version string) bool {
	if version != "" && strings.Contains(body, version) {
		return true
	}
	for _, needle := range changelogBlacklist {
		if strings.Contains(body, needle) {
			return true
		}
	}
	return false
}

// ChangelogVersion extracts the release version from a changelog entry's
// header line: the last whitespace-separated token, with any "epoch:"
// prefix stripped (spec §4.2 releases()). The "-release" suffix is left in
// place; the caller strips it.
func ChangelogVersion(header string) string {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return ""
	}
	tok := fields[len(fields)-1]
	if i := strings.IndexByte(tok, ':'); i >= 0 {
		tok = tok[i+1:]
	}
	return tok
}

// TrimChangelogBody strips a leading "- " from a changelog body, as the
// rpm %changelog convention writes each entry (spec §4.2).
func TrimChangelogBody(body string) string {
	return strings.TrimPrefix(body, "- ")
}
