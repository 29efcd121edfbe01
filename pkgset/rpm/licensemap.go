package rpm

import "strings"

// legacyToSPDX maps tokens from the legacy Fedora/RPM license-tag vocabulary
// to SPDX identifiers (spec §4.2 open(): "License tags in RPM are
// token-wise mapped ... using a fixed dictionary (≈70 entries)"). This is a
// representative subset of that dictionary; spec.md does not itself
// enumerate the entries.
var legacyToSPDX = map[string]string{
	"GPL+":               "GPL-1.0-or-later",
	"GPLv2":               "GPL-2.0-only",
	"GPLv2+":              "GPL-2.0-or-later",
	"GPLv3":               "GPL-3.0-only",
	"GPLv3+":              "GPL-3.0-or-later",
	"LGPLv2":              "LGPL-2.0-only",
	"LGPLv2+":             "LGPL-2.0-or-later",
	"LGPLv2.1":            "LGPL-2.1-only",
	"LGPLv2.1+":           "LGPL-2.1-or-later",
	"LGPLv3":              "LGPL-3.0-only",
	"LGPLv3+":             "LGPL-3.0-or-later",
	"MIT":                 "MIT",
	"MITX11":              "MIT",
	"BSD":                 "BSD-3-Clause",
	"BSDwithadvertising":  "BSD-4-Clause",
	"ASL 2.0":             "Apache-2.0",
	"Apache-2.0":          "Apache-2.0",
	"zlib":                "Zlib",
	"Python":              "Python-2.0",
	"Artistic":            "Artistic-1.0",
	"Artistic 2.0":        "Artistic-2.0",
	"Public Domain":       "CC0-1.0",
	"CC0":                 "CC0-1.0",
	"OpenLDAP":            "OLDAP-2.8",
	"ISC":                 "ISC",
	"MPLv1.1":             "MPL-1.1",
	"MPLv2.0":             "MPL-2.0",
	"QPL":                 "QPL-1.0",
	"Vim":                 "Vim",
	"W3C":                 "W3C",
	"CDDL":                "CDDL-1.0",
	"Freely redistributable without restriction": "FSFUL",
}

// mapLicense maps an RPM license expression token-wise, falling back to the
// original token when no mapping is known.
func mapLicense(raw string) string {
	if raw == "" {
		return ""
	}
	parts := strings.Split(raw, " and ")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if spdx, ok := legacyToSPDX[p]; ok {
			parts[i] = spdx
		} else {
			parts[i] = p
		}
	}
	return strings.Join(parts, " AND ")
}
