package mp4io

import (
	"bytes"

	"github.com/ugparu/spatialmedia"
	"github.com/ugparu/spatialmedia/utils/bits/pio"
)

func u16(v uint16) []byte {
	b := make([]byte, 2)
	pio.PutU16BE(b, v)
	return b
}

func u32(v uint32) []byte {
	b := make([]byte, 4)
	pio.PutU32BE(b, v)
	return b
}

func u64(v uint64) []byte {
	b := make([]byte, 8)
	pio.PutU64BE(b, v)
	return b
}

func cat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// box encodes a box with a compact header.
func box(tag string, parts ...[]byte) []byte {
	content := cat(parts...)
	return cat(u32(uint32(HeaderSize+len(content))), []byte(tag), content)
}

// extBox encodes a box with a 64-bit size header.
func extBox(tag string, parts ...[]byte) []byte {
	content := cat(parts...)
	return cat(u32(1), []byte(tag), u64(uint64(ExtendedHeaderSize+len(content))), content)
}

// soundEntryFields returns the fixed fields of a version 0 sound sample
// description.
func soundEntryFields(version, channels uint16) []byte {
	b := make([]byte, soundEntryV0Length)
	pio.PutU16BE(b[6:], 1) // data_reference_index
	pio.PutU16BE(b[8:], version)
	pio.PutU16BE(b[16:], channels)
	pio.PutU16BE(b[18:], 16) //nolint:mnd
	pio.PutU32BE(b[24:], 48000<<16)
	switch version {
	case 1:
		b = append(b, make([]byte, soundEntryV1Length-soundEntryV0Length)...)
	case 2:
		b = append(b, make([]byte, soundEntryV2Length-soundEntryV0Length)...)
	}
	return b
}

func soundEntry(tag string, channels uint16, children ...[]byte) []byte {
	return box(tag, soundEntryFields(0, channels), cat(children...))
}

func stsd(entries ...[]byte) []byte {
	return box("stsd", u32(0), u32(uint32(len(entries))), cat(entries...))
}

func stco(offsets ...uint32) []byte {
	parts := [][]byte{u32(0), u32(uint32(len(offsets)))}
	for _, o := range offsets {
		parts = append(parts, u32(o))
	}
	return box("stco", parts...)
}

func co64(offsets ...uint64) []byte {
	parts := [][]byte{u32(0), u32(uint32(len(offsets)))}
	for _, o := range offsets {
		parts = append(parts, u64(o))
	}
	return box("co64", parts...)
}

func sa3d(channels uint32) []byte {
	parts := [][]byte{{0, 0}, u32(spatialmedia.AmbisonicOrder(channels)), {0, 0}, u32(channels)}
	for i := uint32(0); i < channels; i++ {
		parts = append(parts, u32(i))
	}
	return box("SA3D", parts...)
}

// audioFile builds ftyp, moov with one audio track and mdat holding payload.
// The track's stco points at the first payload byte.
func audioFile(payload []byte, entry []byte) []byte {
	ftyp := box("ftyp", []byte("isom"), u32(0x200), []byte("isommp41"))
	build := func(offset uint32) []byte {
		return box("moov",
			box("mvhd", make([]byte, 100)),
			box("trak",
				box("mdia",
					box("hdlr", u32(0), u32(0), []byte("soun"), make([]byte, 13)),
					box("minf",
						box("stbl",
							stsd(entry),
							stco(offset),
						),
					),
				),
			),
		)
	}
	moov := build(0)
	offset := uint32(len(ftyp) + len(moov) + HeaderSize)
	return cat(ftyp, build(offset), box("mdat", payload))
}
