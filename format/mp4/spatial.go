package mp4

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ugparu/spatialmedia"
	"github.com/ugparu/spatialmedia/format/mp4/mp4io"
	"github.com/ugparu/spatialmedia/utils"
	"github.com/ugparu/spatialmedia/utils/logger"
)

var (
	ErrNoAmbisonicTrack = errors.New("mp4: no audio track with an ambisonic channel layout")
	ErrSameFile         = errors.New("mp4: source and destination are the same file")
)

// SpatialAudio returns the SA3D boxes of all audio tracks of root.
func SpatialAudio(r io.ReadSeeker, root *mp4io.Mpeg4Container) (boxes []*mp4io.SA3DBox, err error) {
	streams, err := rootStreams(r, root)
	if err != nil {
		return
	}
	for _, stream := range streams {
		if stream.IsAudio() {
			boxes = append(boxes, stream.SpatialAudio()...)
		}
	}
	return
}

// InjectSpatialAudio adds SA3D metadata to every audio track of root whose
// channel count is ambisonic. It returns the number of sample descriptions
// updated and ErrNoAmbisonicTrack if there were none.
func InjectSpatialAudio(r io.ReadSeeker, root *mp4io.Mpeg4Container) (n int, err error) {
	streams, err := rootStreams(r, root)
	if err != nil {
		return
	}
	for _, stream := range streams {
		if stream.IsAudio() {
			n += stream.InjectSpatialAudio()
		}
	}
	if n == 0 {
		logger.Error(root, ErrNoAmbisonicTrack.Error())
		return 0, ErrNoAmbisonicTrack
	}
	root.Resize()
	return n, nil
}

func rootStreams(r io.ReadSeeker, root *mp4io.Mpeg4Container) ([]*Stream, error) {
	moov := root.Moov()
	if moov == nil {
		return nil, &utils.MissingBoxError{Tag: mp4io.MOOV.String()}
	}
	return readStreams(r, moov)
}

// Probe returns the spatial audio metadata stored in the file at url.
func Probe(url string) ([]spatialmedia.AudioMetadata, error) {
	dmx := NewDemuxer(url)
	defer dmx.Close()
	return dmx.Demux()
}

// Inject writes a copy of src to dst with SA3D metadata on every ambisonic
// audio track. dst is removed if the copy fails.
func Inject(src, dst string) (n int, err error) {
	if same, _ := sameFile(src, dst); same {
		return 0, ErrSameFile
	}

	dmx := NewDemuxer(src)
	defer dmx.Close()
	if _, err = dmx.Demux(); err != nil {
		return
	}
	if n, err = InjectSpatialAudio(dmx.Reader(), dmx.Container()); err != nil {
		return
	}

	var f *os.File
	if f, err = os.Create(dst); err != nil {
		return
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(dst)
		}
	}()

	if err = NewMuxer(f).Mux(dmx.Reader(), dmx.Container()); err != nil {
		logger.Errorf(dmx.Container(), "failed to write %s: %v", dst, err)
		return
	}
	logger.Infof(dmx.Container(), "injected spatial audio into %d sample description(s) of %s", n, dst)
	return n, nil
}

func sameFile(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	if absA == absB {
		return true, nil
	}
	infoA, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	return os.SameFile(infoA, infoB), nil
}

// PrintStructure writes the box tree of the file at url followed by the
// spatial audio metadata of each audio track.
func PrintStructure(url string, w io.Writer) (err error) {
	dmx := NewDemuxer(url)
	defer dmx.Close()
	if _, err = dmx.Demux(); err != nil {
		return
	}
	dmx.Container().PrintStructure(w, "")
	for _, stream := range dmx.Streams() {
		if !stream.IsAudio() {
			continue
		}
		for _, sa3d := range stream.SpatialAudio() {
			fmt.Fprintf(w, "Track %d\n\tSpatial Audio:\n", stream.Index())
			sa3d.PrintBox(w)
		}
	}
	return
}
