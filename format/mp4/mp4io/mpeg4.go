package mp4io

import (
	"fmt"
	"io"

	"github.com/ugparu/spatialmedia/utils"
	"github.com/ugparu/spatialmedia/utils/logger"
)

// Mpeg4Container is the root of a loaded file. It has no header of its own.
// The ftyp, moov, free and first mdat boxes are tracked as indices into
// Contents; the child list stays the only owner of the boxes.
type Mpeg4Container struct {
	Container
	// FirstMdatPos is where the first mdat payload started when the file was
	// loaded. Save measures how far that payload moved against it.
	FirstMdatPos int64

	ftyp, moov, free, mdat int
}

// LoadMpeg4 loads the whole box structure of r.
func LoadMpeg4(r io.ReadSeeker) (*Mpeg4Container, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err = r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	contents, err := LoadMultiple(r, 0, size)
	if err != nil {
		logger.Errorf("mpeg4", "failed to load .mp4 file: %v", err)
		return nil, err
	}
	if len(contents) == 0 {
		logger.Errorf("mpeg4", "failed to load .mp4 file: no boxes")
		return nil, fmt.Errorf("mp4io: no boxes in %d byte stream", size)
	}

	m := &Mpeg4Container{Container: Container{Contents: contents}}
	m.identify()
	if m.moov < 0 {
		logger.Errorf(m, "file does not contain moov box")
		return nil, &utils.MissingBoxError{Tag: MOOV.String()}
	}
	if m.mdat < 0 {
		logger.Errorf(m, "file does not contain mdat box")
		return nil, &utils.MissingBoxError{Tag: MDAT.String()}
	}

	first := m.Contents[m.mdat]
	m.FirstMdatPos = first.Pos() + first.HeaderSize()
	for _, box := range m.Contents {
		m.ContentLen += box.Size()
	}
	return m, nil
}

func (m *Mpeg4Container) String() string {
	return "mpeg4"
}

// identify records the first ftyp, moov, free and mdat boxes.
func (m *Mpeg4Container) identify() {
	m.ftyp, m.moov, m.free, m.mdat = -1, -1, -1, -1
	for i, box := range m.Contents {
		switch box.Tag() {
		case FTYP:
			if m.ftyp < 0 {
				m.ftyp = i
			}
		case MOOV:
			if m.moov < 0 {
				m.moov = i
			}
		case FREE:
			if m.free < 0 {
				m.free = i
			}
		case MDAT:
			if m.mdat < 0 {
				m.mdat = i
			}
		}
	}
}

func (m *Mpeg4Container) child(i int) Box {
	if i < 0 {
		return nil
	}
	return m.Contents[i]
}

func (m *Mpeg4Container) Ftyp() Box {
	return m.child(m.ftyp)
}

// Moov returns the movie box. A loaded container always has one unless it
// was removed afterwards.
func (m *Mpeg4Container) Moov() *Container {
	c, _ := m.child(m.moov).(*Container)
	return c
}

func (m *Mpeg4Container) Free() Box {
	return m.child(m.free)
}

func (m *Mpeg4Container) FirstMdat() Box {
	return m.child(m.mdat)
}

func (m *Mpeg4Container) Add(box Box) error {
	defer m.identify()
	return m.Container.Add(box)
}

func (m *Mpeg4Container) Insert(i int, box Box) error {
	defer m.identify()
	return m.Container.Insert(i, box)
}

func (m *Mpeg4Container) Remove(tag Tag) int {
	defer m.identify()
	return m.Container.Remove(tag)
}

// Merge always fails: joining two files would require rebuilding every
// offset table.
func (m *Mpeg4Container) Merge(Box) error {
	logger.Errorf(m, "cannot merge mpeg4 files")
	return &utils.UnsupportedError{Operation: "merge", Reason: "mpeg4 files cannot be merged"}
}

// Delta resizes the tree and returns how far the first mdat payload moves
// when the tree is saved, relative to where it was loaded from.
func (m *Mpeg4Container) Delta() (int64, error) {
	m.Resize()
	var pos int64
	for _, box := range m.Contents {
		if box.Tag() == MDAT {
			pos += box.HeaderSize()
			return pos - m.FirstMdatPos, nil
		}
		pos += box.Size()
	}
	return 0, &utils.MissingBoxError{Tag: MDAT.String()}
}

// Save writes the whole file. The delta argument is ignored; the container
// computes its own and hands it to every child.
func (m *Mpeg4Container) Save(in io.ReadSeeker, out io.Writer, _ int64) error {
	delta, err := m.Delta()
	if err != nil {
		return err
	}
	logger.Debugf(m, "saving %d bytes, media data delta %d", m.ContentLen, delta)
	for _, box := range m.Contents {
		if err = box.Save(in, out, delta); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mpeg4Container) PrintStructure(w io.Writer, _ string) {
	fmt.Fprintf(w, "mpeg4 [%d]\n", m.ContentLen)
	remaining := len(m.Contents)
	for _, box := range m.Contents {
		remaining--
		indent := " ├──"
		if remaining <= 0 {
			indent = " └──"
		}
		box.PrintStructure(w, indent)
	}
}
