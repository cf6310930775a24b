// Package mp4 reads and injects spatial audio metadata in MP4 files.
package mp4

import (
	"errors"
	"io"
	"os"

	"github.com/ugparu/spatialmedia"
	"github.com/ugparu/spatialmedia/format/mp4/mp4io"
)

// Demuxer loads the box structure of an MP4 file and exposes its tracks.
type Demuxer struct {
	r       *os.File
	url     string
	root    *mp4io.Mpeg4Container
	streams []*Stream
}

func NewDemuxer(url string) *Demuxer {
	dmx := new(Demuxer)
	dmx.url = url
	return dmx
}

// Demux opens the file and returns the spatial audio metadata of every audio
// track that carries it.
func (dmx *Demuxer) Demux() (metadata []spatialmedia.AudioMetadata, err error) {
	if dmx.r == nil {
		if dmx.r, err = os.Open(dmx.url); err != nil {
			return
		}
	}
	if err = dmx.probe(); err != nil {
		return
	}
	for _, stream := range dmx.streams {
		if !stream.IsAudio() {
			continue
		}
		for _, sa3d := range stream.SpatialAudio() {
			metadata = append(metadata, sa3d.Metadata())
		}
	}
	return metadata, nil
}

func (dmx *Demuxer) Close() {
	if dmx.r != nil {
		dmx.r.Close()
		dmx.r = nil
	}
}

func (dmx *Demuxer) Streams() []*Stream {
	return dmx.streams
}

// Container returns the loaded box tree, nil before a successful Demux.
func (dmx *Demuxer) Container() *mp4io.Mpeg4Container {
	return dmx.root
}

// Reader returns the source stream that unloaded payloads are copied from.
func (dmx *Demuxer) Reader() io.ReadSeeker {
	return dmx.r
}

func (dmx *Demuxer) probe() (err error) {
	if dmx.root != nil {
		return
	}

	var root *mp4io.Mpeg4Container
	if root, err = mp4io.LoadMpeg4(dmx.r); err != nil {
		return
	}
	moov := root.Moov()
	if moov == nil {
		return errors.New("mp4: moov is not a container")
	}
	if dmx.streams, err = readStreams(dmx.r, moov); err != nil {
		return
	}
	dmx.root = root
	return
}
