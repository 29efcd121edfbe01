package catalog

// Screenshot is one screenshot attached to an App (spec §3 Screenshot).
type Screenshot struct {
	// Basename is "<app-id>-<md5-of-source-bytes>.png" (spec §8 P4).
	Basename string
	// Caption maps locale to caption text. Per the cra-screenshot.c
	// fallback supplemented into this spec (see SPEC_FULL.md), a missing
	// locale-specific caption falls back to the "C" caption rather than
	// being left blank; Caption implements that lookup.
	captions  map[string]string
	IsDefault bool
	// Images holds every rendered resolution: one "source" entry for
	// fonts; for everything else, one thumbnail entry per
	// ScreenshotMatrix size (three) is added alongside any source entry.
	Images []Image
	// App is a non-owning back-reference to the owning App.
	App *App
}

// Caption returns the caption for locale, falling back to the "C" locale
// when no locale-specific caption was recorded.
func (s *Screenshot) Caption(locale string) string {
	if s.captions == nil {
		return ""
	}
	if c, ok := s.captions[locale]; ok {
		return c
	}
	return s.captions["C"]
}

// SetCaption records a caption for the given locale.
func (s *Screenshot) SetCaption(locale, text string) {
	if s.captions == nil {
		s.captions = make(map[string]string)
	}
	s.captions[locale] = text
}

// Icon describes an App's icon (spec §3 App).
type Icon struct {
	Name string
	Kind IconKind
}

// IconKind is the provenance of an App's icon (spec §3 App).
type IconKind string

const (
	IconStock  IconKind = "stock"
	IconCached IconKind = "cached"
	IconRemote IconKind = "remote"
)
