package mp4io

import (
	"fmt"
	"io"

	"github.com/ugparu/spatialmedia"
	"github.com/ugparu/spatialmedia/utils/bits/pio"
	"github.com/ugparu/spatialmedia/utils/logger"
)

// sa3dFixedSize covers version, type, order, ordering, normalization and
// channel count.
const sa3dFixedSize = 12

// SA3DBox carries the ambisonic layout of the sound sample entry it sits in.
//
//	version                    uint8
//	ambisonic_type             uint8
//	ambisonic_order            uint32
//	ambisonic_channel_ordering uint8
//	ambisonic_normalization    uint8
//	num_channels               uint32
//	channel_map                uint32 * num_channels
type SA3DBox struct {
	BoxHeader
	Version         uint8
	AmbisonicType   spatialmedia.AmbisonicType
	AmbisonicOrder  uint32
	ChannelOrdering spatialmedia.ChannelOrdering
	Normalization   spatialmedia.Normalization
	NumChannels     uint32
	ChannelMap      []uint32

	trailing []byte // bytes after the channel map, written back unchanged
}

// NewSA3DBox builds a periphonic ACN/SN3D box for channels channels with an
// identity channel map.
func NewSA3DBox(channels uint32) *SA3DBox {
	b := &SA3DBox{BoxHeader: BoxHeader{Type: SA3D, HeaderLen: HeaderSize}}
	b.AmbisonicOrder = spatialmedia.AmbisonicOrder(channels)

	b.Version = 0
	b.ContentLen += 1 // version
	b.ContentLen += 1 // ambisonic_type
	b.ContentLen += 4 // ambisonic_order
	b.ContentLen += 1 // ambisonic_channel_ordering
	b.ContentLen += 1 // ambisonic_normalization
	b.NumChannels = channels
	b.ContentLen += 4 // num_channels

	b.ChannelMap = make([]uint32, 0, channels)
	for i := uint32(0); i < channels; i++ {
		b.ChannelMap = append(b.ChannelMap, i)
		b.ContentLen += 4 // channel_map entry
	}
	return b
}

// LoadSA3D loads the SA3D box starting at pos. The box must end at or before end.
func LoadSA3D(r io.ReadSeeker, pos, end int64) (*SA3DBox, error) {
	h, size, err := decodeHeader(r, pos, end)
	if err != nil {
		logger.Errorf(SA3D, "failed to read box header at %d: %v", pos, err)
		return nil, err
	}
	if h.Type != SA3D {
		logger.Errorf(SA3D, "box %q at %d is not an SA3D box", h.Type, pos)
		return nil, parseErr(h.Type.String(), pos, ErrTagMismatch)
	}
	if err = checkBounds(&h, size, end); err != nil {
		logger.Errorf(SA3D, "SA3D box size %d at %d exceeds bounds %d", size, pos, end)
		return nil, err
	}
	if h.ContentLen < sa3dFixedSize {
		logger.Errorf(SA3D, "SA3D box at %d is too short: %d bytes", pos, h.ContentLen)
		return nil, parseErr("SA3D", pos, ErrInvalidSize)
	}

	b := &SA3DBox{BoxHeader: h}
	pr := pio.NewReader(r)
	b.Version = pr.U8()
	b.AmbisonicType = spatialmedia.AmbisonicType(pr.U8())
	b.AmbisonicOrder = pr.U32BE()
	b.ChannelOrdering = spatialmedia.ChannelOrdering(pr.U8())
	b.Normalization = spatialmedia.Normalization(pr.U8())
	b.NumChannels = pr.U32BE()
	if err = pr.Err(); err != nil {
		return nil, parseErr("SA3D", pos, err)
	}
	if int64(b.NumChannels)*4 > h.ContentLen-sa3dFixedSize {
		logger.Errorf(SA3D, "SA3D channel map of %d entries at %d exceeds box size", b.NumChannels, pos)
		return nil, parseErr("ChannelMap", h.contentStart()+sa3dFixedSize, ErrOutOfBounds)
	}
	b.ChannelMap = make([]uint32, b.NumChannels)
	for i := range b.ChannelMap {
		b.ChannelMap[i] = pr.U32BE()
	}
	if extra := h.ContentLen - sa3dFixedSize - 4*int64(b.NumChannels); extra > 0 {
		b.trailing = make([]byte, extra)
		pr.ReadFull(b.trailing)
	}
	if err = pr.Err(); err != nil {
		return nil, parseErr("ChannelMap", h.contentStart()+sa3dFixedSize, err)
	}
	return b, nil
}

func (b *SA3DBox) Resize() {
	b.NumChannels = uint32(len(b.ChannelMap)) //nolint:gosec
	b.ContentLen = sa3dFixedSize + 4*int64(len(b.ChannelMap)) + int64(len(b.trailing))
	b.fitHeader()
}

// Save writes the box. The extended header form is size 1, tag, 64-bit size;
// the tag is not repeated after the 64-bit size.
func (b *SA3DBox) Save(_ io.ReadSeeker, out io.Writer, _ int64) error {
	w := pio.NewWriter(out)
	if err := writeHeader(w, &b.BoxHeader); err != nil {
		return err
	}
	w.U8(b.Version)
	w.U8(uint8(b.AmbisonicType))
	w.U32BE(b.AmbisonicOrder)
	w.U8(uint8(b.ChannelOrdering))
	w.U8(uint8(b.Normalization))
	w.U32BE(b.NumChannels)
	for _, v := range b.ChannelMap {
		w.U32BE(v)
	}
	w.WriteBytes(b.trailing)
	return w.Err()
}

// AmbisonicTypeName returns "" for values without a registered name.
func (b *SA3DBox) AmbisonicTypeName() string {
	return b.AmbisonicType.String()
}

// ChannelOrderingName returns "" for values without a registered name.
func (b *SA3DBox) ChannelOrderingName() string {
	return b.ChannelOrdering.String()
}

// NormalizationName returns "" for values without a registered name.
func (b *SA3DBox) NormalizationName() string {
	return b.Normalization.String()
}

func (b *SA3DBox) Metadata() spatialmedia.AudioMetadata {
	return spatialmedia.AudioMetadata{
		Version:         b.Version,
		Type:            b.AmbisonicType,
		Order:           b.AmbisonicOrder,
		ChannelOrdering: b.ChannelOrdering,
		Normalization:   b.Normalization,
		ChannelMap:      append([]uint32(nil), b.ChannelMap...),
	}
}

// MetadataString returns a concise single line description of the box.
func (b *SA3DBox) MetadataString() string {
	return b.Metadata().String()
}

// PrintBox writes the box fields one per line.
func (b *SA3DBox) PrintBox(w io.Writer) {
	fmt.Fprintf(w, "\t\tAmbisonic Type: %s\n", b.AmbisonicTypeName())
	fmt.Fprintf(w, "\t\tAmbisonic Order: %d\n", b.AmbisonicOrder)
	fmt.Fprintf(w, "\t\tAmbisonic Channel Ordering: %s\n", b.ChannelOrderingName())
	fmt.Fprintf(w, "\t\tAmbisonic Normalization: %s\n", b.NormalizationName())
	fmt.Fprintf(w, "\t\tNumber of Channels: %d\n", b.NumChannels)
	fmt.Fprintf(w, "\t\tChannel Map: %s\n", spatialmedia.ChannelMapString(b.ChannelMap))
}
