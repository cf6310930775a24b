package mp4

import (
	"io"
	"math"

	"github.com/ugparu/spatialmedia"
	"github.com/ugparu/spatialmedia/format/mp4/mp4io"
	"github.com/ugparu/spatialmedia/utils/bits/pio"
	"github.com/ugparu/spatialmedia/utils/logger"
)

// Handler types of the hdlr box.
var (
	SoundHandler = mp4io.StringToTag("soun")
	VideoHandler = mp4io.StringToTag("vide")
)

const (
	hdlrTypeOffset         = 8
	soundEntryChannels     = 16
	soundEntryV2Channels   = 40
	soundEntryV2FieldsSize = 64

	// maxSoundEntryChannels is the range a version 0 or 1 description can express.
	maxSoundEntryChannels = math.MaxUint16
)

// Stream is one track of a loaded file.
type Stream struct {
	index     int              // Index of the track within moov.
	trackBox  *mp4io.Container // trak box.
	handler   mp4io.Tag        // Media handler type from hdlr.
	sampleTab *mp4io.Container // stbl box, nil when the track has none.
}

func (s *Stream) String() string {
	return "track " + s.handler.String()
}

// Index returns the position of the track among the trak boxes of moov.
func (s *Stream) Index() int {
	return s.index
}

func (s *Stream) Track() *mp4io.Container {
	return s.trackBox
}

func (s *Stream) Handler() mp4io.Tag {
	return s.handler
}

func (s *Stream) IsAudio() bool {
	return s.handler == SoundHandler
}

// SoundEntries returns the sound sample descriptions of the track.
func (s *Stream) SoundEntries() (entries []*mp4io.Container) {
	if s.sampleTab == nil {
		return
	}
	stsd, ok := s.sampleTab.Find(mp4io.STSD).(*mp4io.Container)
	if !ok {
		return
	}
	for _, box := range stsd.Contents {
		if entry, ok := box.(*mp4io.Container); ok && mp4io.IsSoundSampleEntry(entry.Tag()) {
			entries = append(entries, entry)
		}
	}
	return
}

// SpatialAudio returns the SA3D boxes of every sound sample description.
func (s *Stream) SpatialAudio() (boxes []*mp4io.SA3DBox) {
	for _, entry := range s.SoundEntries() {
		if sa3d, ok := entry.Find(mp4io.SA3D).(*mp4io.SA3DBox); ok {
			boxes = append(boxes, sa3d)
		}
	}
	return
}

// InjectSpatialAudio adds an SA3D box to every sound sample description with
// an ambisonic channel count, replacing any SA3D box already there. It
// returns the number of descriptions updated.
func (s *Stream) InjectSpatialAudio() (n int) {
	for _, entry := range s.SoundEntries() {
		channels := SoundEntryChannels(entry)
		if channels > maxSoundEntryChannels {
			logger.Warningf(s, "%s entry declares %d channels, above the supported %d", entry.Tag(), channels, maxSoundEntryChannels)
			continue
		}
		if !spatialmedia.IsAmbisonicChannelCount(channels) {
			logger.Warningf(s, "%s entry has %d channels, not an ambisonic layout", entry.Tag(), channels)
			continue
		}
		if removed := entry.Remove(mp4io.SA3D); removed > 0 {
			logger.Debugf(s, "replacing %d SA3D box(es) of %s entry", removed, entry.Tag())
		}
		entry.Contents = append(entry.Contents, mp4io.NewSA3DBox(channels))
		logger.Debugf(s, "injected SA3D into %s entry for %d channels", entry.Tag(), channels)
		n++
	}
	return
}

// SoundEntryChannels reads the channel count from the fixed fields of a
// sound sample description.
func SoundEntryChannels(entry *mp4io.Container) uint32 {
	if len(entry.Padding) >= soundEntryV2FieldsSize {
		return pio.U32BE(entry.Padding[soundEntryV2Channels:])
	}
	if len(entry.Padding) < soundEntryChannels+2 {
		return 0
	}
	return uint32(pio.U16BE(entry.Padding[soundEntryChannels:]))
}

// readStreams builds a Stream for every trak box of moov. The handler type is
// read from the source stream because hdlr payloads are not kept in memory.
func readStreams(r io.ReadSeeker, moov *mp4io.Container) (streams []*Stream, err error) {
	for _, box := range moov.Contents {
		trak, ok := box.(*mp4io.Container)
		if !ok || trak.Tag() != mp4io.TRAK {
			continue
		}
		stream := &Stream{index: len(streams), trackBox: trak}
		if mdia, ok := trak.Find(mp4io.MDIA).(*mp4io.Container); ok {
			hdlr, ok := mdia.Find(mp4io.HDLR).(*mp4io.RawBox)
			if ok && hdlr.ContentSize() < hdlrTypeOffset+4 {
				logger.Warningf(stream, "hdlr of track %d is too short, handler type unknown", stream.index)
				ok = false
			}
			if ok {
				var b [4]byte
				if err = hdlr.ReadAt(r, b[:], hdlrTypeOffset); err != nil {
					logger.Errorf(stream, "failed to read handler type of track %d: %v", stream.index, err)
					return nil, err
				}
				stream.handler = mp4io.Tag(pio.U32BE(b[:]))
			}
			if minf, ok := mdia.Find(mp4io.MINF).(*mp4io.Container); ok {
				stream.sampleTab, _ = minf.Find(mp4io.STBL).(*mp4io.Container)
			}
		}
		streams = append(streams, stream)
	}
	return streams, nil
}
