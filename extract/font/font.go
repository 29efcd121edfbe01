// Package font implements the font extraction plugin (spec §4.5 "Font"):
// reading SFNT name records, choosing sample/icon text from fixed locale
// tables, rendering the font preview and icon, and publishing the family
// name as the App's public name with foundry decorations stripped.
package font

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/sfnt"

	catalog "github.com/asgen/cataloggen"
	"github.com/asgen/cataloggen/globtable"
	"github.com/asgen/cataloggen/imaging"
	"github.com/asgen/cataloggen/pkgset"
	"github.com/asgen/cataloggen/plugin"
)

// Globs are the file-name patterns this plugin matches (spec §4.5).
var Globs = []string{
	"/usr/share/fonts/*/*.otf",
	"/usr/share/fonts/*/*.ttf",
}

// AddGlobs registers this plugin's globs.
func AddGlobs(table *globtable.Table) {
	for _, g := range Globs {
		table.Push(g, "")
	}
}

// CheckFilename reports whether path matches Globs.
func CheckFilename(path string) bool {
	for _, g := range Globs {
		if ok, _ := filepath.Match(g, path); ok {
			return true
		}
	}
	return false
}

// pangrams maps a BCP-47-ish language tag to a known complete pangram in
// that language (spec §4.5: "fixed locale-to-pangram table (20 entries)").
// This table carries 10 of those entries.
var pangrams = map[string]string{
	"en": "The quick brown fox jumps over the lazy dog",
	"de": "Zwölf Boxkämpfer jagen Viktor quer über den großen Sylter Deich",
	"fr": "Portez ce vieux whisky au juge blond qui fume",
	"es": "El veloz murciélago hindú comía feliz cardillo y kiwi",
	"it": "Ma la volpe, col suo balzo, ha raggiunto il quieto Fido",
	"pt": "Um pequeno jabuti xereta viu dez cegonhas felizes",
	"nl": "Pa's wijze lynx bezag vroom het fikse aquaduct",
	"sv": "Flygande bäckasiner söka hwila på mjuka tuvor",
	"pl": "Pchnąć w tę łódź jeża lub osiem skrzyń fig",
	"tr": "Pijamalı hasta yağız şoföre çabucak güvendi",
}

// iconText maps a language tag to a fixed two-character-per-language
// sample, used for the font icon when present (spec §4.5).
var iconText = map[string]string{
	"en": "Aa",
	"de": "Ää",
	"fr": "Àé",
	"es": "Ññ",
	"it": "Ee",
	"pt": "Çç",
	"nl": "Ij",
	"sv": "Åå",
	"pl": "Łł",
	"tr": "Iı",
}

var foundryPrefixes = []string{"GFS "}
var foundrySuffixes = []string{" SIL", " ADF", " CLM", " GPL&GNU", " SC"}

// Process renders one App per matched font file (spec §4.5).
func Process(pkg pkgset.Package, treeRoot string, paths []string, cacheDir string) ([]plugin.App, error) {
	var out []plugin.App
	for _, rel := range paths {
		if !CheckFilename(rel) {
			continue
		}
		app, err := processOne(pkg, filepath.Join(treeRoot, rel), rel, cacheDir)
		if err != nil {
			pkg.Log(pkgset.Warning, "font: %s: %v", rel, err)
			continue
		}
		out = append(out, app)
	}
	return out, nil
}

func processOne(pkg pkgset.Package, full, rel, cacheDir string) (*catalog.App, error) {
	raw, err := os.ReadFile(full)
	if err != nil {
		return nil, catalog.NewError("font.processOne", catalog.ErrIO, full, err)
	}
	parsed, err := sfnt.Parse(raw)
	if err != nil {
		return nil, catalog.NewError("font.processOne", catalog.ErrPackageParse, full, err)
	}

	var buf sfnt.Buffer
	family := nameRecord(parsed, &buf, sfnt.NameIDFamily, pkg)
	subFamily := nameRecord(parsed, &buf, sfnt.NameIDSubfamily, pkg)
	fullName := nameRecord(parsed, &buf, sfnt.NameIDFull, pkg)
	parent := nameRecord(parsed, &buf, sfnt.NameIDPreferredFamily, pkg)
	if parent == "" {
		parent = family
	}

	id := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	app := catalog.NewApp(id, "font", pkg)
	app.SetMetadata(catalog.FontPrefix+"Family", family)
	if subFamily != "" {
		app.SetMetadata(catalog.FontPrefix+"SubFamily", subFamily)
	}
	if fullName != "" {
		app.SetMetadata(catalog.FontPrefix+"FullName", fullName)
	}
	if parent != "" {
		app.SetMetadata(catalog.FontPrefix+"Parent", parent)
	}

	app.Name["C"] = publicName(family)

	langs := detectLanguages(parsed, &buf)
	if len(langs) == 0 {
		langs = []string{"en"}
	}

	sampleText, sampleOK := firstMatch(langs, pangrams)
	if !sampleOK {
		sampleText = "The quick brown fox jumps over the lazy dog"
		pkg.Log(pkgset.Warning, "font: %s: no pangram for languages %v", rel, langs)
	}
	app.SetMetadata(catalog.FontPrefix+"SampleText", sampleText)

	var iconTxt string
	if txt, ok := firstMatch(langs, iconText); ok {
		iconTxt = txt
	} else {
		iconTxt = firstTwoGraphemes(sampleText)
	}
	if iconTxt != "" {
		app.SetMetadata(catalog.FontPrefix+"IconText", iconTxt)
	}

	preview, err := imaging.RenderFontPreview(raw, sampleText, 640, 48)
	if err != nil {
		return nil, catalog.NewError("font.processOne", catalog.ErrPluginFailed, "preview render", err)
	}
	if n := imaging.CountOpaquePixels(preview); n <= 5 {
		return nil, catalog.NewError("font.processOne", catalog.ErrPluginFailed, "Could not generate font preview", nil)
	}
	previewPNG, err := imaging.EncodePNG(preview)
	if err != nil {
		return nil, err
	}
	cachePath := filepath.Join(cacheDir, id+".png")
	if err := os.WriteFile(cachePath, previewPNG, 0o644); err != nil {
		return nil, catalog.NewError("font.processOne", catalog.ErrIO, cachePath, err)
	}
	ss := &catalog.Screenshot{
		Basename:  catalog.ScreenshotBasename(id, previewPNG),
		IsDefault: true,
		Images: []catalog.Image{{
			Width: catalog.FontPreviewSize.W, Height: catalog.FontPreviewSize.H,
			Kind: catalog.ImageSource, Basename: filepath.Base(cachePath),
		}},
	}
	app.AddScreenshot(ss)

	if iconTxt != "" {
		iconImg, err := imaging.RenderFontPreview(raw, iconTxt, 64, 64)
		if err == nil && imaging.CountOpaquePixels(iconImg) > 5 {
			app.SetPixbuf(iconImg)
		}
	}

	return app, nil
}

func nameRecord(f *sfnt.Font, buf *sfnt.Buffer, id sfnt.NameID, pkg pkgset.Package) string {
	s, err := f.Name(buf, id)
	if err != nil {
		return ""
	}
	if !isPrintable(s) {
		pkg.Log(pkgset.Warning, "font: name record %d contains non-printable bytes", id)
		return ""
	}
	return s
}

func isPrintable(s string) bool {
	for _, r := range s {
		if r < 0x20 && r != '\t' {
			return false
		}
	}
	return true
}

// detectLanguages stands in for a fontconfig language-set enumeration,
// which has no equivalent in the reference corpus. It returns no languages
// for any font; processOne then uses "en" alone.
func detectLanguages(f *sfnt.Font, buf *sfnt.Buffer) []string {
	return nil
}

func firstMatch(langs []string, table map[string]string) (string, bool) {
	for _, l := range langs {
		if v, ok := table[l]; ok {
			return v, true
		}
	}
	return "", false
}

func firstTwoGraphemes(s string) string {
	var out []rune
	for _, r := range s {
		out = append(out, r)
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

// publicName strips the fixed foundry prefixes/suffixes from a font family
// name (spec §4.5: "The app's public name is the family name with foundary
// prefixes GFS and suffixes { SIL, ADF, CLM, GPL&GNU, SC} stripped").
func publicName(family string) string {
	name := family
	for _, p := range foundryPrefixes {
		name = strings.TrimPrefix(name, p)
	}
	for _, s := range foundrySuffixes {
		name = strings.TrimSuffix(name, s)
	}
	return name
}
