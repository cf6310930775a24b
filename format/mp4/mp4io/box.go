package mp4io

import (
	"fmt"
	"io"
	"math"

	"github.com/ugparu/spatialmedia/utils/bits/pio"
)

const (
	HeaderSize         = 8
	ExtendedHeaderSize = 16
)

// Box is a node of the box tree.
type Box interface {
	Tag() Tag
	// Pos is the offset of the box start in the stream it was loaded from.
	Pos() int64
	HeaderSize() int64
	ContentSize() int64
	Size() int64
	Children() []Box
	// Resize recomputes ContentSize bottom-up from the current tree.
	Resize()
	// Save writes the box to out. Payload not held in memory is copied from
	// in. Boxes storing absolute file offsets shift them by delta.
	Save(in io.ReadSeeker, out io.Writer, delta int64) error
	PrintStructure(w io.Writer, indent string)
}

// BoxHeader holds the fields shared by every box.
type BoxHeader struct {
	Type       Tag
	Offset     int64
	HeaderLen  int64
	ContentLen int64
}

func (h *BoxHeader) Tag() Tag {
	return h.Type
}

func (h *BoxHeader) Pos() int64 {
	return h.Offset
}

func (h *BoxHeader) HeaderSize() int64 {
	return h.HeaderLen
}

func (h *BoxHeader) ContentSize() int64 {
	return h.ContentLen
}

func (h *BoxHeader) Size() int64 {
	return h.HeaderLen + h.ContentLen
}

func (h *BoxHeader) Children() []Box {
	return nil
}

// SetExtended switches between the 8-byte and the 16-byte (64-bit size) header.
func (h *BoxHeader) SetExtended(extended bool) {
	if extended {
		h.HeaderLen = ExtendedHeaderSize
	} else {
		h.HeaderLen = HeaderSize
	}
}

func (h *BoxHeader) PrintStructure(w io.Writer, indent string) {
	fmt.Fprintf(w, "%s %s [%d, %d]\n", indent, h.Type, h.HeaderLen, h.ContentLen)
}

// fitHeader moves to the extended header once the size outgrows 32 bits.
func (h *BoxHeader) fitHeader() {
	if h.HeaderLen == HeaderSize && h.Size() > math.MaxUint32 {
		h.HeaderLen = ExtendedHeaderSize
	}
}

func (h *BoxHeader) contentStart() int64 {
	return h.Offset + h.HeaderLen
}

// decodeHeader seeks to pos and reads a box header, leaving the stream at the
// first content byte. size is the total box size as declared; a declared size
// of 0 extends the box to end.
func decodeHeader(r io.ReadSeeker, pos, end int64) (h BoxHeader, size int64, err error) {
	if end-pos < HeaderSize {
		err = parseErr("header", pos, ErrOutOfBounds)
		return
	}
	if _, err = r.Seek(pos, io.SeekStart); err != nil {
		return
	}
	pr := pio.NewReader(r)
	size32 := pr.U32BE()
	h.Type = Tag(pr.U32BE())
	h.Offset = pos
	h.HeaderLen = HeaderSize
	size = int64(size32)
	if size32 == 1 {
		if end-pos < ExtendedHeaderSize {
			err = parseErr("largesize", pos, ErrOutOfBounds)
			return
		}
		size64 := pr.U64BE()
		if size64 > math.MaxInt64 {
			err = parseErr("largesize", pos, ErrOutOfBounds)
			return
		}
		size = int64(size64)
		h.HeaderLen = ExtendedHeaderSize
	}
	if err = pr.Err(); err != nil {
		err = parseErr("header", pos, err)
		return
	}
	if size32 == 0 {
		size = end - pos
	}
	return
}

func checkBounds(h *BoxHeader, size, end int64) error {
	if h.Offset+size > end {
		return parseErr(h.Type.String(), h.Offset, ErrOutOfBounds)
	}
	if size < h.HeaderLen {
		return parseErr(h.Type.String(), h.Offset, ErrInvalidSize)
	}
	h.ContentLen = size - h.HeaderLen
	return nil
}

func readHeader(r io.ReadSeeker, pos, end int64) (h BoxHeader, err error) {
	var size int64
	if h, size, err = decodeHeader(r, pos, end); err != nil {
		return
	}
	err = checkBounds(&h, size, end)
	return
}

func writeHeader(w *pio.Writer, h *BoxHeader) error {
	switch h.HeaderLen {
	case ExtendedHeaderSize:
		w.U32BE(1)
		w.U32BE(uint32(h.Type))
		w.U64BE(uint64(h.Size())) //nolint:gosec
	case HeaderSize:
		if h.Size() > math.MaxUint32 {
			return fmt.Errorf("mp4io: %s box of %d bytes needs an extended header", h.Type, h.Size())
		}
		w.U32BE(uint32(h.Size())) //nolint:gosec
		w.U32BE(uint32(h.Type))
	default:
		return fmt.Errorf("mp4io: %s box has invalid header size %d", h.Type, h.HeaderLen)
	}
	return w.Err()
}

func copyRange(in io.ReadSeeker, out io.Writer, pos, n int64) error {
	if n == 0 {
		return nil
	}
	if _, err := in.Seek(pos, io.SeekStart); err != nil {
		return err
	}
	if _, err := io.CopyN(out, in, n); err != nil {
		return fmt.Errorf("mp4io: copy of %d bytes at %d: %w", n, pos, err)
	}
	return nil
}

// RawBox is a leaf whose payload is kept opaque. A loaded RawBox copies its
// payload from the source stream on save; one built by NewRawBox writes Data.
type RawBox struct {
	BoxHeader
	Data []byte
}

func NewRawBox(tag Tag, data []byte) *RawBox {
	if data == nil {
		data = []byte{}
	}
	return &RawBox{
		BoxHeader: BoxHeader{Type: tag, HeaderLen: HeaderSize, ContentLen: int64(len(data))},
		Data:      data,
	}
}

func (b *RawBox) Resize() {
	if b.Data != nil {
		b.ContentLen = int64(len(b.Data))
	}
	b.fitHeader()
}

func (b *RawBox) Save(in io.ReadSeeker, out io.Writer, _ int64) error {
	w := pio.NewWriter(out)
	if err := writeHeader(w, &b.BoxHeader); err != nil {
		return err
	}
	if b.Data != nil {
		w.WriteBytes(b.Data)
		return w.Err()
	}
	return copyRange(in, out, b.contentStart(), b.ContentLen)
}

// ReadAt fills p with payload bytes starting off bytes into the content.
func (b *RawBox) ReadAt(in io.ReadSeeker, p []byte, off int64) error {
	if off < 0 || off+int64(len(p)) > b.ContentLen {
		return parseErr(b.Type.String(), b.Offset+off, ErrOutOfBounds)
	}
	if b.Data != nil {
		copy(p, b.Data[off:])
		return nil
	}
	if _, err := in.Seek(b.contentStart()+off, io.SeekStart); err != nil {
		return err
	}
	pr := pio.NewReader(in)
	pr.ReadFull(p)
	return pr.Err()
}
