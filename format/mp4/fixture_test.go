package mp4

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ugparu/spatialmedia/utils/bits/pio"
)

var samplePayload = []byte("interleaved audio and video samples")

func u32(v uint32) []byte {
	b := make([]byte, 4)
	pio.PutU32BE(b, v)
	return b
}

func box(tag string, parts ...[]byte) []byte {
	content := bytes.Join(parts, nil)
	return bytes.Join([][]byte{u32(uint32(8 + len(content))), []byte(tag), content}, nil)
}

func fullBox(tag string, flags uint32, parts ...[]byte) []byte {
	return box(tag, append([][]byte{u32(flags)}, parts...)...)
}

func zeros(n int) []byte {
	return make([]byte, n)
}

func mvhd() []byte {
	b := zeros(96)
	pio.PutU32BE(b[8:], 1000)        // timescale
	pio.PutU32BE(b[16:], 0x00010000) // rate
	pio.PutU16BE(b[20:], 0x0100)     // volume
	pio.PutU32BE(b[92:], 3)          // next_track_ID
	return fullBox("mvhd", 0, b)
}

func tkhd(trackID uint32) []byte {
	b := zeros(80)
	pio.PutU32BE(b[8:], trackID)
	return fullBox("tkhd", 3, b)
}

func mdhd(timescale uint32) []byte {
	b := zeros(20)
	pio.PutU32BE(b[8:], timescale)
	pio.PutU16BE(b[16:], 0x55c4) // und
	return fullBox("mdhd", 0, b)
}

func hdlr(handler, name string) []byte {
	return fullBox("hdlr", 0, zeros(4), []byte(handler), zeros(12), []byte(name), []byte{0})
}

func dinf() []byte {
	return box("dinf", fullBox("dref", 0, u32(1), fullBox("url ", 1)))
}

// soundEntry encodes a version 0 sound sample description.
func soundEntry(tag string, channels uint16) []byte {
	b := zeros(28)
	pio.PutU16BE(b[6:], 1)
	pio.PutU16BE(b[16:], channels)
	pio.PutU16BE(b[18:], 16)
	pio.PutU32BE(b[24:], 48000<<16)
	return box(tag, b)
}

func visualEntry() []byte {
	b := zeros(78)
	pio.PutU16BE(b[6:], 1)
	pio.PutU16BE(b[24:], 64) // width
	pio.PutU16BE(b[26:], 48) // height
	pio.PutU32BE(b[28:], 0x00480000)
	pio.PutU32BE(b[32:], 0x00480000)
	pio.PutU16BE(b[40:], 1) // frame_count
	pio.PutU16BE(b[74:], 0x18)
	pio.PutU16BE(b[76:], 0xffff)
	return box("avc1", b)
}

func stbl(entry []byte, offset uint32) []byte {
	return box("stbl",
		fullBox("stsd", 0, u32(1), entry),
		fullBox("stts", 0, u32(1), u32(1), u32(1024)),
		fullBox("stsc", 0, u32(1), u32(1), u32(1), u32(1)),
		fullBox("stsz", 0, u32(uint32(len(samplePayload))), u32(1)),
		fullBox("stco", 0, u32(1), u32(offset)),
	)
}

// unnamedTrak has an hdlr too short to hold a handler type.
func unnamedTrak(offset uint32) []byte {
	return box("trak",
		tkhd(3),
		box("mdia",
			mdhd(1000),
			fullBox("hdlr", 0, zeros(4)),
			box("minf", fullBox("nmhd", 0), dinf(), stbl(box("meta", zeros(8)), offset)),
		),
	)
}

func audioTrak(channels uint16, offset uint32) []byte {
	return box("trak",
		tkhd(1),
		box("mdia",
			mdhd(48000),
			hdlr("soun", "SoundHandler"),
			box("minf", fullBox("smhd", 0, zeros(4)), dinf(), stbl(soundEntry("mp4a", channels), offset)),
		),
	)
}

func videoTrak(offset uint32) []byte {
	return box("trak",
		tkhd(2),
		box("mdia",
			mdhd(90000),
			hdlr("vide", "VideoHandler"),
			box("minf", fullBox("vmhd", 1, zeros(8)), dinf(), stbl(visualEntry(), offset)),
		),
	)
}

// movie encodes ftyp, free, moov and mdat. Every track's single chunk starts
// at the first payload byte.
func movie(channels uint16, video bool) (data []byte, payloadOffset uint32) {
	ftyp := box("ftyp", []byte("isom"), u32(0x200), []byte("isommp41"))
	free := box("free", zeros(8))
	moov := func(offset uint32) []byte {
		traks := [][]byte{mvhd(), audioTrak(channels, offset)}
		if video {
			traks = append(traks, videoTrak(offset))
		}
		return box("moov", traks...)
	}
	payloadOffset = uint32(len(ftyp) + len(free) + len(moov(0)) + 8)
	data = bytes.Join([][]byte{ftyp, free, moov(payloadOffset), box("mdat", samplePayload)}, nil)
	return
}

func writeMovie(t *testing.T, channels uint16, video bool) (path string, data []byte, payloadOffset uint32) {
	t.Helper()

	data, payloadOffset = movie(channels, video)
	path = filepath.Join(t.TempDir(), "input.mp4")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return
}
