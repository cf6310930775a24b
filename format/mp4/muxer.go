package mp4

import (
	"bufio"
	"io"

	"github.com/ugparu/spatialmedia/format/mp4/mp4io"
	"github.com/ugparu/spatialmedia/utils/bits/pio"
)

// Muxer writes a box tree back out, copying unloaded payloads from the
// stream the tree was loaded from.
type Muxer struct {
	bufferedWriter *bufio.Writer // Buffered writer for efficient write operations.
}

func NewMuxer(writer io.Writer) *Muxer {
	return &Muxer{
		bufferedWriter: bufio.NewWriterSize(writer, pio.RecommendBufioSize),
	}
}

// Mux serializes root with chunk offsets corrected for any change in the size
// of the boxes preceding the media data.
func (mux *Muxer) Mux(in io.ReadSeeker, root *mp4io.Mpeg4Container) (err error) {
	if err = root.Save(in, mux.bufferedWriter, 0); err != nil {
		return
	}
	return mux.bufferedWriter.Flush()
}
