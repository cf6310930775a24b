// Package mp4io reads, mutates and re-serializes the box tree of an ISO BMFF
// (MPEG-4) file.
package mp4io

import "github.com/ugparu/spatialmedia/utils/bits/pio"

// Tag is a four-byte box type held big-endian. Tags compare as fixed-width
// integers, never as strings.
type Tag uint32

func (t Tag) String() string {
	var b [4]byte
	pio.PutU32BE(b[:], uint32(t))
	for i := 0; i < 4; i++ {
		if b[i] == 0 {
			b[i] = ' '
		}
	}
	return string(b[:])
}

func StringToTag(tag string) Tag {
	var b [4]byte
	copy(b[:], []byte(tag))
	return Tag(pio.U32BE(b[:]))
}

const (
	FTYP = Tag(0x66747970)
	MOOV = Tag(0x6d6f6f76)
	FREE = Tag(0x66726565)
	MDAT = Tag(0x6d646174)

	TRAK = Tag(0x7472616b)
	MDIA = Tag(0x6d646961)
	MINF = Tag(0x6d696e66)
	STBL = Tag(0x7374626c)
	STSD = Tag(0x73747364)
	EDTS = Tag(0x65647473)
	DINF = Tag(0x64696e66)
	UDTA = Tag(0x75647461)
	MVEX = Tag(0x6d766578)
	HDLR = Tag(0x68646c72)

	STCO = Tag(0x7374636f)
	CO64 = Tag(0x636f3634)

	SA3D = Tag(0x53413344)
)

// Sound sample entry formats.
const (
	NONE = Tag(0x4e4f4e45)
	RAW  = Tag(0x72617720)
	TWOS = Tag(0x74776f73)
	SOWT = Tag(0x736f7774)
	FL32 = Tag(0x666c3332)
	FL64 = Tag(0x666c3634)
	IN24 = Tag(0x696e3234)
	IN32 = Tag(0x696e3332)
	ULAW = Tag(0x756c6177)
	ALAW = Tag(0x616c6177)
	LPCM = Tag(0x6c70636d)
	MP4A = Tag(0x6d703461)
	OPUS = Tag(0x4f707573)
)

var containerTags = map[Tag]struct{}{
	MOOV: {}, TRAK: {}, MDIA: {}, MINF: {}, STBL: {},
	STSD: {}, EDTS: {}, DINF: {}, UDTA: {}, MVEX: {},
}

var soundSampleEntryTags = map[Tag]struct{}{
	NONE: {}, RAW: {}, TWOS: {}, SOWT: {}, FL32: {}, FL64: {}, IN24: {},
	IN32: {}, ULAW: {}, ALAW: {}, LPCM: {}, MP4A: {}, OPUS: {},
}

// IsContainer reports whether boxes of this type are loaded as a Container.
func IsContainer(tag Tag) bool {
	if _, ok := containerTags[tag]; ok {
		return true
	}
	return IsSoundSampleEntry(tag)
}

// IsSoundSampleEntry reports whether tag names an audio sample description.
func IsSoundSampleEntry(tag Tag) bool {
	_, ok := soundSampleEntryTags[tag]
	return ok
}
