package pkgset

// Release is one entry in an App's release history, sourced from a
// package's changelog (spec §3 Release, §4.2 releases()).
type Release struct {
	// Version is the release's own version string.
	Version string
	// Timestamp is an epoch-seconds changelog timestamp.
	Timestamp int64
	// Description is pre-serialized markup text, left empty when the
	// changelog entry matched the changelog-blacklist (spec §4.2).
	Description string
}

// ReleaseList holds a package's releases keyed by Version, preserving the
// "keep the earlier timestamp, backfill description if still empty"
// dedup rule from spec §3.
type ReleaseList struct {
	byVersion map[string]*Release
	order     []string
}

// NewReleaseList returns an empty ReleaseList ready to use.
func NewReleaseList() *ReleaseList {
	return &ReleaseList{byVersion: make(map[string]*Release)}
}

// Add inserts or merges a changelog-derived release entry.
func (l *ReleaseList) Add(version string, timestamp int64, description string) {
	if existing, ok := l.byVersion[version]; ok {
		if timestamp < existing.Timestamp {
			existing.Timestamp = timestamp
		}
		if existing.Description == "" && description != "" {
			existing.Description = description
		}
		return
	}
	r := &Release{Version: version, Timestamp: timestamp, Description: description}
	l.byVersion[version] = r
	l.order = append(l.order, version)
}

// Slice returns the releases in first-observed order.
func (l *ReleaseList) Slice() []Release {
	out := make([]Release, 0, len(l.order))
	for _, v := range l.order {
		out = append(out, *l.byVersion[v])
	}
	return out
}
