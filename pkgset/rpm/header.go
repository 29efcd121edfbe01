package rpm

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	catalog "github.com/asgen/cataloggen"
)

// headerEntry is one decoded index entry from an RPM header section.
type headerEntry struct {
	typ    int32
	offset int32
	count  int32
}

// header is a parsed RPM header section (the signature header or the main
// header share the same on-disk shape).
type header struct {
	entries map[int32]headerEntry
	data    []byte
}

const leadSize = 96
const headerMagic0, headerMagic1, headerMagic2 = 0x8e, 0xad, 0xe8

// readLead validates and skips the 96-byte RPM lead.
func readLead(r *bufio.Reader) error {
	buf := make([]byte, leadSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return catalog.NewError("rpm.readLead", catalog.ErrPackageParse, "", err)
	}
	if buf[0] != 0xed || buf[1] != 0xab || buf[2] != 0xee || buf[3] != 0xdb {
		return catalog.NewError("rpm.readLead", catalog.ErrPackageParse, "bad lead magic", nil)
	}
	return nil
}

// readHeader parses one signature-or-main header section: an 8 byte magic +
// version + reserved block, an index-entry-count and data-size, the index
// entries themselves, then the data blob (spec §4.2 open()).
func readHeader(r *bufio.Reader) (*header, int, error) {
	intro := make([]byte, 16)
	if _, err := io.ReadFull(r, intro); err != nil {
		return nil, 0, catalog.NewError("rpm.readHeader", catalog.ErrPackageParse, "", err)
	}
	if intro[0] != headerMagic0 || intro[1] != headerMagic1 || intro[2] != headerMagic2 || intro[3] != 0x01 {
		return nil, 0, catalog.NewError("rpm.readHeader", catalog.ErrPackageParse, "bad header magic", nil)
	}
	il := int32(binary.BigEndian.Uint32(intro[8:12]))
	dl := int32(binary.BigEndian.Uint32(intro[12:16]))
	if il < 0 || dl < 0 {
		return nil, 0, catalog.NewError("rpm.readHeader", catalog.ErrPackageParse, "negative header sizes", nil)
	}

	entries := make(map[int32]headerEntry, il)
	rawEntries := make([]byte, int(il)*16)
	if _, err := io.ReadFull(r, rawEntries); err != nil {
		return nil, 0, catalog.NewError("rpm.readHeader", catalog.ErrPackageParse, "", err)
	}
	for i := 0; i < int(il); i++ {
		e := rawEntries[i*16 : i*16+16]
		tag := int32(binary.BigEndian.Uint32(e[0:4]))
		entries[tag] = headerEntry{
			typ:    int32(binary.BigEndian.Uint32(e[4:8])),
			offset: int32(binary.BigEndian.Uint32(e[8:12])),
			count:  int32(binary.BigEndian.Uint32(e[12:16])),
		}
	}

	data := make([]byte, dl)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, 0, catalog.NewError("rpm.readHeader", catalog.ErrPackageParse, "", err)
	}

	consumed := 16 + int(il)*16 + int(dl)
	return &header{entries: entries, data: data}, consumed, nil
}

// skipPad consumes up to 7 bytes to realign the reader to an 8-byte
// boundary, as RPM pads the signature header's total length.
func skipPad(r *bufio.Reader, consumed int) error {
	if rem := consumed % 8; rem != 0 {
		pad := make([]byte, 8-rem)
		if _, err := io.ReadFull(r, pad); err != nil {
			return catalog.NewError("rpm.skipPad", catalog.ErrPackageParse, "", err)
		}
	}
	return nil
}

func (h *header) getString(tag int32) (string, bool) {
	e, ok := h.entries[tag]
	if !ok {
		return "", false
	}
	s, _, ok := cString(h.data, int(e.offset))
	return s, ok
}

func (h *header) getStringArray(tag int32) []string {
	e, ok := h.entries[tag]
	if !ok {
		return nil
	}
	out := make([]string, 0, e.count)
	off := int(e.offset)
	for i := int32(0); i < e.count; i++ {
		s, n, ok := cString(h.data, off)
		if !ok {
			break
		}
		out = append(out, s)
		off += n
	}
	return out
}

func (h *header) getInt32Array(tag int32) []int32 {
	e, ok := h.entries[tag]
	if !ok {
		return nil
	}
	out := make([]int32, 0, e.count)
	off := int(e.offset)
	for i := int32(0); i < e.count; i++ {
		if off+4 > len(h.data) {
			break
		}
		out = append(out, int32(binary.BigEndian.Uint32(h.data[off:off+4])))
		off += 4
	}
	return out
}

func (h *header) getInt32(tag int32) (int32, bool) {
	a := h.getInt32Array(tag)
	if len(a) == 0 {
		return 0, false
	}
	return a[0], true
}

// cString reads a single NUL-terminated string starting at off, returning
// the string and the number of bytes it (and its terminator) occupied.
func cString(data []byte, off int) (string, int, bool) {
	if off < 0 || off >= len(data) {
		return "", 0, false
	}
	idx := bytes.IndexByte(data[off:], 0)
	if idx < 0 {
		return string(data[off:]), len(data) - off, true
	}
	return string(data[off : off+idx]), idx + 1, true
}
