// Package rpm implements the RPM variant of the Package abstraction (spec
// §4.2, §9 "Package = Rpm{…} | Deb{…}"): opening an ".rpm" file's lead,
// signature, and header sections; deriving NEVR/EVR, the filelist, the
// dependency list, and the changelog-derived release history; and exploding
// the CPIO payload into a scratch directory.
package rpm

import (
	"bufio"
	"context"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"

	catalog "github.com/asgen/cataloggen"
	"github.com/asgen/cataloggen/pkgset"
)

// Package is an opened RPM container file.
type Package struct {
	*pkgset.Base

	releases *pkgset.ReleaseList
}

var _ pkgset.Package = (*Package)(nil)

// Open parses an RPM file's lead, signature header, and main header, and
// returns a ready-to-use Package (spec §4.2 open()).
func Open(filename string) (*Package, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, catalog.NewError("rpm.Open", catalog.ErrIO, filename, err)
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 64*1024)
	if err := readLead(r); err != nil {
		return nil, err
	}
	sig, sigLen, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if err := skipPad(r, sigLen); err != nil {
		return nil, err
	}
	_ = sig
	hdr, _, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	p := &Package{Base: pkgset.NewBase(filename)}
	p.Nm, _ = hdr.getString(tagName)
	p.Vr, _ = hdr.getString(tagVersion)
	p.Rl, _ = hdr.getString(tagRelease)
	p.Ar, _ = hdr.getString(tagArch)
	p.Ur, _ = hdr.getString(tagURL)
	if raw, ok := hdr.getString(tagLicense); ok {
		p.Lic = mapLicense(raw)
	}
	p.Src, _ = hdr.getString(tagSourceRPM)
	if e, ok := hdr.getInt32(tagEpoch); ok && e > 0 {
		p.Ep = uint64(e)
	}

	p.SetFilelist(joinFilelist(hdr))
	p.SetRequires(filterRequires(hdr.getStringArray(tagRequireName)))
	p.SetProvides(hdr.getStringArray(tagProvideName))

	p.releases = parseChangelog(hdr)

	return p, nil
}

// joinFilelist reconstructs absolute paths from DIRNAMES+BASENAMES+DIRINDEXES
// (spec §4.2 open()).
func joinFilelist(hdr *header) []string {
	base := hdr.getStringArray(tagBaseNames)
	dirs := hdr.getStringArray(tagDirNames)
	idx := hdr.getInt32Array(tagDirIndexes)
	if len(base) == 0 || len(dirs) == 0 || len(idx) != len(base) {
		return nil
	}
	out := make([]string, 0, len(base))
	for i, b := range base {
		di := int(idx[i])
		if di < 0 || di >= len(dirs) {
			continue
		}
		out = append(out, path.Join(dirs[di], b))
	}
	return out
}

// filterRequires drops "rpmlib(" capabilities and the literal "/bin/sh",
// and strips bracketed suffixes such as "()(64bit)" (spec §4.2 open()).
func filterRequires(in []string) []string {
	out := make([]string, 0, len(in))
	for _, r := range in {
		name := r
		if i := strings.IndexAny(name, " \t"); i >= 0 {
			name = name[:i]
		}
		if strings.HasPrefix(name, "rpmlib(") || name == "/bin/sh" {
			continue
		}
		if i := strings.IndexByte(name, '('); i > 0 {
			name = name[:i]
		}
		out = append(out, name)
	}
	return out
}

// parseChangelog builds the package's release history from the
// CHANGELOGTIME/NAME/TEXT tags (spec §4.2 releases()).
func parseChangelog(hdr *header) *pkgset.ReleaseList {
	times := hdr.getInt32Array(tagChangelogTime)
	names := hdr.getStringArray(tagChangelogName)
	texts := hdr.getStringArray(tagChangelogText)

	list := pkgset.NewReleaseList()
	n := len(times)
	if len(names) < n {
		n = len(names)
	}
	if len(texts) < n {
		n = len(texts)
	}
	for i := 0; i < n; i++ {
		version := pkgset.ChangelogVersion(names[i])
		if j := strings.LastIndexByte(version, '-'); j > 0 {
			version = version[:j]
		}
		if version == "" {
			continue
		}
		body := pkgset.TrimChangelogBody(texts[i])
		desc := body
		if pkgset.ShouldBlacklistChangelogBody(body, version) {
			desc = ""
		}
		list.Add(version, int64(times[i]), desc)
	}
	return list
}

// Releases implements pkgset.Package.
func (p *Package) Releases() []pkgset.Release {
	if p.releases == nil {
		return nil
	}
	return p.releases.Slice()
}

// Compare implements pkgset.Package: the standard RPM EVR comparator (spec
// §4.2 compare()).
func (p *Package) Compare(other pkgset.Package) int {
	o, ok := other.(*Package)
	if !ok {
		// Mixed-kind comparisons aren't meaningful; treat as equal so
		// callers relying on a total order for same-kind groups aren't
		// surprised.
		return 0
	}
	return compareEVR(p.Ep, p.Vr, p.Rl, o.Ep, o.Vr, o.Rl)
}

// Explode implements pkgset.Package: a single CPIO pass over the
// (decompressed) payload (spec §4.2 explode()).
func (p *Package) Explode(ctx context.Context, dest string, glob []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Open(p.Filename())
	if err != nil {
		return catalog.NewError("rpm.Explode", catalog.ErrIO, p.Filename(), err)
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 64*1024)
	if err := readLead(r); err != nil {
		return err
	}
	sig, sigLen, err := readHeader(r)
	if err != nil {
		return err
	}
	if err := skipPad(r, sigLen); err != nil {
		return err
	}
	hdr, _, err := readHeader(r)
	if err != nil {
		return err
	}

	compressor, _ := hdr.getString(tagPayloadCompressor)
	payload, err := decompressPayload(r, compressor)
	if err != nil {
		return err
	}

	var matches func(string) bool
	if len(glob) > 0 {
		matches = func(p string) bool { return matchAny(glob, p) }
	}
	_ = sig
	return cpioExtract(payload, dest, matches)
}

func decompressPayload(r *bufio.Reader, compressor string) (*bufio.Reader, error) {
	switch compressor {
	case "", "gzip":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, catalog.NewError("rpm.Explode", catalog.ErrPackageParse, "gzip payload", err)
		}
		return bufio.NewReaderSize(zr, 64*1024), nil
	case "xz":
		zr, err := xz.NewReader(r)
		if err != nil {
			return nil, catalog.NewError("rpm.Explode", catalog.ErrPackageParse, "xz payload", err)
		}
		return bufio.NewReaderSize(zr, 64*1024), nil
	default:
		return r, nil
	}
}

func matchAny(globs []string, name string) bool {
	for _, g := range globs {
		if ok, _ := path.Match(g, name); ok {
			return true
		}
	}
	return false
}

// SortByName orders a batch of opened packages by name.
func SortByName(pkgs []*Package) {
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].Nm < pkgs[j].Nm })
}
