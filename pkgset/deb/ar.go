package deb

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	catalog "github.com/asgen/cataloggen"
)

// arMember is one decoded member of a Unix ar(1) archive (the outer .deb
// container).
type arMember struct {
	name string
	data []byte
}

const arGlobalMagic = "!<arch>\n"

// readAr reads a whole ar(1) archive into memory, returning its members in
// order (spec §4.2 explode(), "extract the outer ar-style container").
func readAr(r *bufio.Reader) ([]arMember, error) {
	magic := make([]byte, len(arGlobalMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, catalog.NewError("deb.readAr", catalog.ErrPackageParse, "", err)
	}
	if string(magic) != arGlobalMagic {
		return nil, catalog.NewError("deb.readAr", catalog.ErrPackageParse, "bad ar magic", nil)
	}

	var members []arMember
	for {
		header := make([]byte, 60)
		if _, err := io.ReadFull(r, header); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, catalog.NewError("deb.readAr", catalog.ErrPackageParse, "", err)
		}
		if string(header[58:60]) != "`\n" {
			return nil, catalog.NewError("deb.readAr", catalog.ErrPackageParse, "bad ar member header terminator", nil)
		}
		name := strings.TrimRight(string(header[0:16]), " ")
		name = strings.TrimSuffix(name, "/")
		sizeStr := strings.TrimSpace(string(header[48:58]))
		size, err := strconv.ParseInt(sizeStr, 10, 64)
		if err != nil {
			return nil, catalog.NewError("deb.readAr", catalog.ErrPackageParse, "bad ar member size", err)
		}

		data := make([]byte, size)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, catalog.NewError("deb.readAr", catalog.ErrPackageParse, "", err)
		}
		if size%2 == 1 {
			if _, err := r.Discard(1); err != nil {
				return nil, catalog.NewError("deb.readAr", catalog.ErrPackageParse, "", err)
			}
		}

		members = append(members, arMember{name: name, data: data})
	}
	return members, nil
}
