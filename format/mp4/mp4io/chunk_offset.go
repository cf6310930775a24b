package mp4io

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/ugparu/spatialmedia/utils/bits/pio"
)

// ChunkOffsetBox is an stco or co64 box. Its entries are absolute file
// offsets into media data; they stay in the source stream and are shifted by
// delta while being copied on save.
type ChunkOffsetBox struct {
	BoxHeader
	EntryCount uint32
}

func (b *ChunkOffsetBox) entryWidth() int64 {
	if b.Type == CO64 {
		return 8 //nolint:mnd
	}
	return 4 //nolint:mnd
}

func loadChunkOffset(r io.ReadSeeker, h BoxHeader) (*ChunkOffsetBox, error) {
	b := &ChunkOffsetBox{BoxHeader: h}
	if h.ContentLen < 8 { //nolint:mnd
		return nil, parseErr(h.Type.String(), h.Offset, ErrInvalidSize)
	}
	if _, err := r.Seek(h.contentStart()+4, io.SeekStart); err != nil {
		return nil, err
	}
	pr := pio.NewReader(r)
	b.EntryCount = pr.U32BE()
	if err := pr.Err(); err != nil {
		return nil, parseErr("entry_count", h.contentStart()+4, err)
	}
	if 8+int64(b.EntryCount)*b.entryWidth() != h.ContentLen {
		return nil, parseErr(h.Type.String(), h.Offset, ErrInvalidEntry)
	}
	return b, nil
}

func (b *ChunkOffsetBox) Resize() {}

func (b *ChunkOffsetBox) Save(in io.ReadSeeker, out io.Writer, delta int64) error {
	w := pio.NewWriter(out)
	if err := writeHeader(w, &b.BoxHeader); err != nil {
		return err
	}
	if _, err := in.Seek(b.contentStart(), io.SeekStart); err != nil {
		return err
	}
	pr := pio.NewReader(bufio.NewReaderSize(io.LimitReader(in, b.ContentLen), pio.RecommendBufioSize))

	var versionAndCount [8]byte
	pr.ReadFull(versionAndCount[:])
	w.WriteBytes(versionAndCount[:])
	for i := uint32(0); i < b.EntryCount && pr.Err() == nil; i++ {
		if b.Type == CO64 {
			offset := int64(pr.U64BE()) + delta //nolint:gosec
			if offset < 0 {
				return fmt.Errorf("mp4io: co64 entry %d moved before file start", i)
			}
			w.U64BE(uint64(offset))
			continue
		}
		offset := int64(pr.U32BE()) + delta
		if offset < 0 || offset > math.MaxUint32 {
			return fmt.Errorf("mp4io: stco entry %d moved out of 32-bit range: %d", i, offset)
		}
		w.U32BE(uint32(offset))
	}
	if err := pr.Err(); err != nil {
		return parseErr(b.Type.String(), b.Offset, err)
	}
	return w.Err()
}
