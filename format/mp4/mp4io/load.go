package mp4io

import (
	"io"

	"github.com/ugparu/spatialmedia/utils/logger"
)

// LoadBox loads the box starting at pos, choosing the box kind by its tag.
// The box must end at or before end.
func LoadBox(r io.ReadSeeker, pos, end int64) (Box, error) {
	h, err := readHeader(r, pos, end)
	if err != nil {
		logger.Errorf(h.Type, "failed to load box at %d: %v", pos, err)
		return nil, err
	}
	logger.Tracef(h.Type, "box at %d: header %d, content %d", pos, h.HeaderLen, h.ContentLen)

	switch {
	case h.Type == SA3D:
		box, err := LoadSA3D(r, pos, end)
		if err != nil {
			return nil, err
		}
		return box, nil
	case h.Type == STCO || h.Type == CO64:
		box, err := loadChunkOffset(r, h)
		if err != nil {
			logger.Errorf(h.Type, "invalid chunk offset box at %d: %v", pos, err)
			return nil, err
		}
		return box, nil
	case h.Type == STSD:
		return loadContainerBox(r, h, stsdPadding)
	case IsSoundSampleEntry(h.Type):
		padding, err := soundEntryPadding(r, h)
		if err != nil {
			logger.Errorf(h.Type, "unsupported sound sample entry at %d: %v", pos, err)
			return nil, err
		}
		return loadContainerBox(r, h, padding)
	case IsContainer(h.Type):
		return loadContainerBox(r, h, 0)
	default:
		return &RawBox{BoxHeader: h}, nil
	}
}

func loadContainerBox(r io.ReadSeeker, h BoxHeader, padding int64) (Box, error) {
	c, err := loadContainer(r, h, padding)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// LoadMultiple loads consecutive sibling boxes covering [pos, end). Any
// failing box fails the whole list.
func LoadMultiple(r io.ReadSeeker, pos, end int64) (boxes []Box, err error) {
	for pos < end {
		var box Box
		if box, err = LoadBox(r, pos, end); err != nil {
			return nil, err
		}
		boxes = append(boxes, box)
		pos += box.Size()
	}
	return boxes, nil
}
