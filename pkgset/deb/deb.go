// Package deb implements the DEB variant of the Package abstraction (spec
// §4.2, §9 "Package = Rpm{…} | Deb{…}"): reading the outer ar(1) container,
// parsing the control.tar member's control file for Package/Source/Version/
// Depends, and a two-stage explode of the outer ar container followed by the
// inner data.tar.{xz,bz2,gz,lzma} member.
package deb

import (
	"bufio"
	"compress/bzip2"
	"context"
	"io"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"

	catalog "github.com/asgen/cataloggen"
	"github.com/asgen/cataloggen/pkgset"
)

// Package is an opened .deb container file.
type Package struct {
	*pkgset.Base
}

var _ pkgset.Package = (*Package)(nil)

// Open reads the ar(1) container's control.tar.* member and parses its
// control file for Package/Source/Version/Depends (spec §4.2 open(), ".deb
// branch").
func Open(filename string) (*Package, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, catalog.NewError("deb.Open", catalog.ErrIO, filename, err)
	}
	defer f.Close()

	members, err := readAr(bufio.NewReaderSize(f, 64*1024))
	if err != nil {
		return nil, err
	}

	p := &Package{Base: pkgset.NewBase(filename)}

	var controlMember *arMember
	for i := range members {
		if strings.HasPrefix(members[i].name, "control.tar") {
			controlMember = &members[i]
			break
		}
	}
	if controlMember == nil {
		return nil, catalog.NewError("deb.Open", catalog.ErrPackageParse, "no control.tar member", nil)
	}

	tr, err := tarReaderFor(controlMember.name, controlMember.data)
	if err != nil {
		return nil, err
	}
	var controlText string
	if err := walkTar(tr, func(name string, body []byte) error {
		if path.Base(name) == "control" {
			controlText = string(body)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if controlText == "" {
		return nil, catalog.NewError("deb.Open", catalog.ErrPackageParse, "control file not found", nil)
	}

	fields := parseControlFields(controlText)
	p.Nm = fields["Package"]
	p.Src = fields["Source"]
	if p.Src == "" {
		p.Src = p.Nm
	}
	p.Ur = fields["Homepage"]

	epoch, version, release := parseDebianVersion(fields["Version"])
	p.Ep = epoch
	p.Vr = version
	p.Rl = release

	p.SetRequires(parseDepends(fields["Depends"]))

	dataMember, err := findDataMember(members)
	if err == nil {
		dtr, err := tarReaderFor(dataMember.name, dataMember.data)
		if err == nil {
			var files []string
			_ = walkTar(dtr, func(name string, _ []byte) error {
				files = append(files, "/"+strings.TrimPrefix(path.Clean("/"+name), "/"))
				return nil
			})
			p.SetFilelist(files)
		}
	}

	return p, nil
}

func findDataMember(members []arMember) (*arMember, error) {
	for i := range members {
		if strings.HasPrefix(members[i].name, "data.tar") {
			return &members[i], nil
		}
	}
	return nil, catalog.NewError("deb.findDataMember", catalog.ErrPackageParse, "no data.tar member", nil)
}

// parseControlFields parses RFC822-style "Key: value" fields, folding
// continuation lines (leading whitespace) into the previous value.
func parseControlFields(text string) map[string]string {
	out := make(map[string]string)
	var lastKey string
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		if (line[0] == ' ' || line[0] == '\t') && lastKey != "" {
			out[lastKey] += "\n" + strings.TrimSpace(line)
			continue
		}
		i := strings.IndexByte(line, ':')
		if i < 0 {
			continue
		}
		key := strings.TrimSpace(line[:i])
		val := strings.TrimSpace(line[i+1:])
		out[key] = val
		lastKey = key
	}
	return out
}

// parseDepends splits a Depends field into bare capability names, dropping
// version constraints and alternative groups (spec §4.2 open() dependency
// list is "an ordered sequence of bare capability names").
func parseDepends(field string) []string {
	if field == "" {
		return nil
	}
	var out []string
	for _, entry := range strings.Split(field, ",") {
		alt := strings.SplitN(entry, "|", 2)[0]
		alt = strings.TrimSpace(alt)
		if i := strings.IndexByte(alt, ' '); i >= 0 {
			alt = alt[:i]
		}
		if alt != "" {
			out = append(out, alt)
		}
	}
	return out
}

// Releases is not populated for DEB packages: changelog text is not part of
// the control member this opener reads, and the spec's Release type is
// defined in terms of RPM's CHANGELOGTIME/NAME/TEXT tags (spec §4.2
// releases()), which dpkg has no equivalent of.
func (p *Package) Releases() []pkgset.Release { return nil }

// Compare implements pkgset.Package: the standard Debian version comparator
// (spec §4.2 compare()).
func (p *Package) Compare(other pkgset.Package) int {
	o, ok := other.(*Package)
	if !ok {
		return 0
	}
	return compareDebianVersion(p.Ep, p.Vr, p.Rl, o.Ep, o.Vr, o.Rl)
}

// Explode implements pkgset.Package: the two-stage ar → data.tar.* pass
// (spec §4.2 explode(), ".deb: two-stage").
func (p *Package) Explode(ctx context.Context, dest string, glob []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Open(p.Filename())
	if err != nil {
		return catalog.NewError("deb.Explode", catalog.ErrIO, p.Filename(), err)
	}
	defer f.Close()

	members, err := readAr(bufio.NewReaderSize(f, 64*1024))
	if err != nil {
		return err
	}
	dataMember, err := findDataMember(members)
	if err != nil {
		return err
	}
	tr, err := tarReaderFor(dataMember.name, dataMember.data)
	if err != nil {
		return err
	}

	var matches func(string) bool
	if len(glob) > 0 {
		matches = func(name string) bool {
			for _, g := range glob {
				if ok, _ := path.Match(g, name); ok {
					return true
				}
			}
			return false
		}
	}
	return extractTar(tr, dest, matches)
}

// tarReaderFor decompresses an ar member's bytes according to its name
// suffix into a tar stream (spec §4.2 explode(), data.tar.{xz,bz2,gz,lzma}).
func tarReaderFor(name string, data []byte) (io.Reader, error) {
	r := strings.NewReader(string(data))
	switch {
	case strings.HasSuffix(name, ".tar"):
		return r, nil
	case strings.HasSuffix(name, ".tar.gz"):
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, catalog.NewError("deb.tarReaderFor", catalog.ErrPackageParse, name, err)
		}
		return zr, nil
	case strings.HasSuffix(name, ".tar.xz"):
		zr, err := xz.NewReader(r)
		if err != nil {
			return nil, catalog.NewError("deb.tarReaderFor", catalog.ErrPackageParse, name, err)
		}
		return zr, nil
	case strings.HasSuffix(name, ".tar.bz2"):
		return bzip2.NewReader(r), nil
	case strings.HasSuffix(name, ".tar.lzma"):
		zr, err := lzma.NewReader(r)
		if err != nil {
			return nil, catalog.NewError("deb.tarReaderFor", catalog.ErrPackageParse, name, err)
		}
		return zr, nil
	default:
		return nil, catalog.NewError("deb.tarReaderFor", catalog.ErrUnsupportedFormat, name, nil)
	}
}
