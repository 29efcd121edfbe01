package rpm

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	catalog "github.com/asgen/cataloggen"
)

// cpioExtract reads an RPM payload in "newc" CPIO format from r and writes
// each matching regular file into dest (spec §4.2 explode(), "a single pass
// using CPIO-from-RPM semantics").
//
// matches is nil (extract everything) or a predicate built from the
// caller's glob filter.
func cpioExtract(r io.Reader, dest string, matches func(string) bool) error {
	br := bufio.NewReaderSize(r, 64*1024)
	for {
		name, mode, size, err := readCPIOHeader(br)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if name == "TRAILER!!!" {
			return nil
		}
		clean := strings.TrimPrefix(name, "./")
		clean = strings.TrimPrefix(clean, "/")

		isDir := mode&0o170000 == 0o040000
		isReg := mode&0o170000 == 0o100000
		want := matches == nil || matches("/"+clean)

		switch {
		case isDir:
			if want {
				_ = os.MkdirAll(filepath.Join(dest, clean), 0o755)
			}
			continue
		case !isReg:
			if err := skipPadded(br, int(size)); err != nil {
				return err
			}
			continue
		}

		if !want {
			if err := skipPadded(br, int(size)); err != nil {
				return err
			}
			continue
		}

		target := filepath.Join(dest, clean)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return catalog.NewError("rpm.explode", catalog.ErrIO, target, err)
		}
		f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(mode&0o7777))
		if err != nil {
			return catalog.NewError("rpm.explode", catalog.ErrIO, target, err)
		}
		if _, err := io.CopyN(f, br, int64(size)); err != nil {
			f.Close()
			return catalog.NewError("rpm.explode", catalog.ErrIO, target, err)
		}
		f.Close()
		if pad := (4 - int(size)%4) % 4; pad > 0 {
			if _, err := br.Discard(pad); err != nil {
				return catalog.NewError("rpm.explode", catalog.ErrIO, target, err)
			}
		}
	}
}

// readCPIOHeader reads one newc-format header plus its (padded) filename.
func readCPIOHeader(r *bufio.Reader) (name string, mode uint32, size uint64, err error) {
	magic := make([]byte, 6)
	if _, err = io.ReadFull(r, magic); err != nil {
		return
	}
	if string(magic) != "070701" && string(magic) != "070702" {
		err = catalog.NewError("rpm.explode", catalog.ErrPackageParse, "bad cpio magic", nil)
		return
	}
	fields := make([]byte, 13*8)
	if _, err = io.ReadFull(r, fields); err != nil {
		return
	}
	hexField := func(i int) uint64 {
		v, _ := strconv.ParseUint(string(fields[i*8:i*8+8]), 16, 64)
		return v
	}
	m := hexField(1)
	fsize := hexField(6)
	namesize := hexField(11)

	nameBuf := make([]byte, namesize)
	if _, err = io.ReadFull(r, nameBuf); err != nil {
		return
	}
	name = strings.TrimRight(string(nameBuf), "\x00")

	headerLen := 6 + 13*8 + int(namesize)
	if pad := (4 - headerLen%4) % 4; pad > 0 {
		if _, err = r.Discard(pad); err != nil {
			return
		}
	}
	return name, uint32(m), fsize, nil
}

func skipPadded(r *bufio.Reader, size int) error {
	if size > 0 {
		if _, err := r.Discard(size); err != nil {
			return catalog.NewError("rpm.explode", catalog.ErrIO, "", err)
		}
	}
	if pad := (4 - size%4) % 4; pad > 0 {
		if _, err := r.Discard(pad); err != nil {
			return catalog.NewError("rpm.explode", catalog.ErrIO, "", err)
		}
	}
	return nil
}
