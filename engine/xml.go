package engine

import (
	"context"
	"encoding/xml"

	catalog "github.com/asgen/cataloggen"
	"github.com/asgen/cataloggen/pkgset"
)

// xmlDocument is the on-disk catalog schema (spec §4.8 step 4 "process":
// "write the XML catalog... setting the catalog origin to <basename> and
// API version to the configured value"). It round-trips through
// writeCatalog/loadOldCatalog, so the old-metadata cache (spec §4.8 step 5)
// can be rebuilt from a prior run's output without a separate sidecar
// format.
type xmlDocument struct {
	XMLName xml.Name     `xml:"components"`
	Version float64      `xml:"version,attr"`
	Origin  string       `xml:"origin,attr"`
	Apps    []xmlApp     `xml:"component"`
}

type xmlApp struct {
	Type                 string        `xml:"type,attr"`
	ID                   string        `xml:"id"`
	Name                 []xmlLocale   `xml:"name"`
	Summary              []xmlLocale   `xml:"summary"`
	Description          []xmlLocale   `xml:"description"`
	Categories           []string      `xml:"categories>category"`
	Keywords             []string      `xml:"keywords>keyword"`
	MimeTypes            []string      `xml:"mimetypes>mimetype"`
	Languages            []xmlLanguage `xml:"languages>lang"`
	Metadata             []xmlMetadata `xml:"metadata>value"`
	Pkgnames             []string      `xml:"pkgname"`
	URLs                 []xmlURL      `xml:"url"`
	ProjectGroup         string        `xml:"project_group,omitempty"`
	ProjectLicense       string        `xml:"project_license,omitempty"`
	CompulsoryForDesktop []string      `xml:"compulsory_for_desktop,omitempty"`
	Releases             []xmlRelease  `xml:"releases>release"`
	IconName             string        `xml:"icon,omitempty"`
}

type xmlLocale struct {
	Lang string `xml:"lang,attr,omitempty"`
	Text string `xml:",chardata"`
}

type xmlLanguage struct {
	Lang    string `xml:"lang,attr"`
	Percent int    `xml:",chardata"`
}

type xmlMetadata struct {
	Key  string `xml:"key,attr"`
	Text string `xml:",chardata"`
}

type xmlURL struct {
	Type string `xml:"type,attr"`
	Text string `xml:",chardata"`
}

type xmlRelease struct {
	Version     string `xml:"version,attr"`
	Timestamp   int64  `xml:"timestamp,attr"`
	Description string `xml:",chardata"`
}

func toXMLApp(a *catalog.App) xmlApp {
	x := xmlApp{
		Type:                 a.Kind,
		ID:                   a.ID,
		Categories:           a.Categories(),
		Keywords:             a.Keywords,
		MimeTypes:            a.MimeTypes,
		Pkgnames:             a.Pkgnames,
		ProjectGroup:         a.ProjectGroup,
		ProjectLicense:       a.ProjectLicense,
		CompulsoryForDesktop: a.CompulsoryForDesktop,
	}
	for lang, text := range a.Name {
		x.Name = append(x.Name, xmlLocale{Lang: lang, Text: text})
	}
	for lang, text := range a.Summary {
		x.Summary = append(x.Summary, xmlLocale{Lang: lang, Text: text})
	}
	for lang, text := range a.Description {
		x.Description = append(x.Description, xmlLocale{Lang: lang, Text: text})
	}
	for lang, pct := range a.Languages {
		x.Languages = append(x.Languages, xmlLanguage{Lang: lang, Percent: pct})
	}
	for key, value := range a.Metadata {
		x.Metadata = append(x.Metadata, xmlMetadata{Key: key, Text: value})
	}
	for kind, url := range a.URLs {
		x.URLs = append(x.URLs, xmlURL{Type: kind, Text: url})
	}
	for _, r := range a.Releases {
		x.Releases = append(x.Releases, xmlRelease{Version: r.Version, Timestamp: r.Timestamp, Description: r.Description})
	}
	if a.Icon != nil {
		x.IconName = a.Icon.Name
	}
	return x
}

func fromXMLApp(x xmlApp) *catalog.App {
	a := catalog.NewApp(x.ID, x.Type, emptyPackage{})
	for _, l := range x.Name {
		a.Name[localeKey(l.Lang)] = l.Text
	}
	for _, l := range x.Summary {
		a.Summary[localeKey(l.Lang)] = l.Text
	}
	for _, l := range x.Description {
		a.Description[localeKey(l.Lang)] = l.Text
	}
	for _, c := range x.Categories {
		a.AddCategory(c)
	}
	a.Keywords = x.Keywords
	a.MimeTypes = x.MimeTypes
	a.Pkgnames = x.Pkgnames
	a.ProjectGroup = x.ProjectGroup
	a.ProjectLicense = x.ProjectLicense
	a.CompulsoryForDesktop = x.CompulsoryForDesktop
	for _, l := range x.Languages {
		a.Languages[l.Lang] = l.Percent
	}
	for _, m := range x.Metadata {
		a.Metadata[m.Key] = m.Text
	}
	for _, u := range x.URLs {
		a.URLs[u.Type] = u.Text
	}
	for _, r := range x.Releases {
		a.Releases = append(a.Releases, pkgset.Release{Version: r.Version, Timestamp: r.Timestamp, Description: r.Description})
	}
	if x.IconName != "" {
		a.Icon = &catalog.Icon{Name: x.IconName, Kind: catalog.IconCached}
	}
	return a
}

func localeKey(lang string) string {
	if lang == "" {
		return "C"
	}
	return lang
}

// emptyPackage is the Pkg back-reference given to Apps rehydrated from a
// prior catalog: they are only ever copied into the current apps list by
// findInCache, never refined again, so every method beyond satisfying the
// interface is unreachable.
type emptyPackage struct{}

func (emptyPackage) Filename() string           { return "" }
func (emptyPackage) Basename() string           { return "" }
func (emptyPackage) Name() string               { return "" }
func (emptyPackage) Epoch() uint64              { return 0 }
func (emptyPackage) Version() string            { return "" }
func (emptyPackage) Release() string            { return "" }
func (emptyPackage) Arch() string                { return "" }
func (emptyPackage) URL() string                { return "" }
func (emptyPackage) License() string            { return "" }
func (emptyPackage) SourceName() string         { return "" }
func (emptyPackage) Filelist() []string         { return nil }
func (emptyPackage) Requires() []string         { return nil }
func (emptyPackage) Provides() []string         { return nil }
func (emptyPackage) NEVR() string                { return "" }
func (emptyPackage) EVR() string                 { return "" }
func (emptyPackage) Releases() []pkgset.Release { return nil }
func (emptyPackage) Explode(context.Context, string, []string) error { return nil }
func (emptyPackage) Compare(pkgset.Package) int                      { return 0 }
func (emptyPackage) Log(pkgset.Level, string, ...any)                {}
func (emptyPackage) LogFlush(string) error                           { return nil }
func (emptyPackage) ConfigGet(string) (string, bool)                 { return "", false }
func (emptyPackage) ConfigSet(string, string)                        {}
func (emptyPackage) Enabled() bool                                   { return true }
func (emptyPackage) SetEnabled(bool)                                 {}

var _ pkgset.Package = emptyPackage{}
