package deb

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"strings"

	catalog "github.com/asgen/cataloggen"
)

// walkTar calls fn with the contents of every regular file in a tar stream.
// archive/tar is the standard library, not a third-party dependency; no
// example in the pack wraps tar reading behind a library, so this is a
// direct use of the stdlib reader (see DESIGN.md).
func walkTar(r io.Reader, fn func(name string, body []byte) error) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return catalog.NewError("deb.walkTar", catalog.ErrPackageParse, "", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		body := make([]byte, hdr.Size)
		if _, err := io.ReadFull(tr, body); err != nil {
			return catalog.NewError("deb.walkTar", catalog.ErrPackageParse, hdr.Name, err)
		}
		if err := fn(hdr.Name, body); err != nil {
			return err
		}
	}
}

// extractTar writes every regular file in a tar stream under dest, honoring
// an optional glob predicate (spec §4.2 explode()).
func extractTar(r io.Reader, dest string, matches func(string) bool) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return catalog.NewError("deb.extractTar", catalog.ErrPackageParse, "", err)
		}
		name := "/" + strings.TrimPrefix(filepath.Clean("/"+hdr.Name), "/")

		switch hdr.Typeflag {
		case tar.TypeDir:
			if matches == nil || matches(name) {
				_ = os.MkdirAll(filepath.Join(dest, name), 0o755)
			}
		case tar.TypeReg:
			if matches != nil && !matches(name) {
				continue
			}
			target := filepath.Join(dest, name)
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return catalog.NewError("deb.extractTar", catalog.ErrIO, target, err)
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode&0o7777))
			if err != nil {
				return catalog.NewError("deb.extractTar", catalog.ErrIO, target, err)
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return catalog.NewError("deb.extractTar", catalog.ErrIO, target, err)
			}
			f.Close()
		default:
			continue
		}
	}
}
