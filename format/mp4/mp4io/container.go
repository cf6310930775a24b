package mp4io

import (
	"fmt"
	"io"
	"strings"

	"github.com/ugparu/spatialmedia/utils/bits/pio"
)

const (
	stsdPadding        = 8
	soundEntryV0Length = 28
	soundEntryV1Length = soundEntryV0Length + 16
	soundEntryV2Length = soundEntryV0Length + 36
)

// Container is a box that owns an ordered list of child boxes. Padding holds
// the fixed fields that precede the first child.
type Container struct {
	BoxHeader
	Padding  []byte
	Contents []Box
}

func NewContainer(tag Tag, padding []byte) *Container {
	c := &Container{
		BoxHeader: BoxHeader{Type: tag, HeaderLen: HeaderSize},
		Padding:   padding,
	}
	c.Resize()
	return c
}

func loadContainer(r io.ReadSeeker, h BoxHeader, padding int64) (c *Container, err error) {
	if padding > h.ContentLen {
		return nil, parseErr(h.Type.String(), h.Offset, ErrOutOfBounds)
	}
	c = &Container{BoxHeader: h, Padding: make([]byte, padding)}
	if padding > 0 {
		if _, err = r.Seek(h.contentStart(), io.SeekStart); err != nil {
			return nil, err
		}
		pr := pio.NewReader(r)
		pr.ReadFull(c.Padding)
		if err = pr.Err(); err != nil {
			return nil, parseErr("padding", h.contentStart(), err)
		}
	}
	if c.Contents, err = LoadMultiple(r, h.contentStart()+padding, h.Offset+h.Size()); err != nil {
		return nil, parseErr(h.Type.String(), h.Offset, err)
	}
	return c, nil
}

// soundEntryPadding returns the length of the fixed sample description fields
// for the QuickTime sound description version stored in the entry.
func soundEntryPadding(r io.ReadSeeker, h BoxHeader) (int64, error) {
	const versionOffset = 8
	if h.ContentLen < soundEntryV0Length {
		return 0, parseErr(h.Type.String(), h.Offset, ErrOutOfBounds)
	}
	if _, err := r.Seek(h.contentStart()+versionOffset, io.SeekStart); err != nil {
		return 0, err
	}
	pr := pio.NewReader(r)
	version := pr.U16BE()
	if err := pr.Err(); err != nil {
		return 0, parseErr("version", h.contentStart()+versionOffset, err)
	}
	switch version {
	case 0:
		return soundEntryV0Length, nil
	case 1:
		return soundEntryV1Length, nil
	case 2: //nolint:mnd
		return soundEntryV2Length, nil
	default:
		return 0, parseErr(fmt.Sprintf("sound description version %d", version), h.Offset, ErrInvalidEntry)
	}
}

func (c *Container) Children() []Box {
	return c.Contents
}

func (c *Container) Resize() {
	c.ContentLen = int64(len(c.Padding))
	for _, box := range c.Contents {
		box.Resize()
		c.ContentLen += box.Size()
	}
	c.fitHeader()
}

func (c *Container) Save(in io.ReadSeeker, out io.Writer, delta int64) error {
	w := pio.NewWriter(out)
	if err := writeHeader(w, &c.BoxHeader); err != nil {
		return err
	}
	w.WriteBytes(c.Padding)
	if err := w.Err(); err != nil {
		return err
	}
	for _, box := range c.Contents {
		if err := box.Save(in, out, delta); err != nil {
			return err
		}
	}
	return nil
}

func (c *Container) PrintStructure(w io.Writer, indent string) {
	c.BoxHeader.PrintStructure(w, indent)
	printChildren(w, indent, c.Contents)
}

var branchReplacer = strings.NewReplacer("├", "│", "└", " ", "─", " ")

func printChildren(w io.Writer, indent string, contents []Box) {
	base := branchReplacer.Replace(indent)
	for i, box := range contents {
		next := base + " ├──"
		if i == len(contents)-1 {
			next = base + " └──"
		}
		box.PrintStructure(w, next)
	}
}

// Find returns the first direct child with the given tag.
func (c *Container) Find(tag Tag) Box {
	for _, box := range c.Contents {
		if box.Tag() == tag {
			return box
		}
	}
	return nil
}

// Add appends box. A child container of the same type absorbs the new box's
// children instead; a duplicate leaf is refused.
func (c *Container) Add(box Box) error {
	for _, existing := range c.Contents {
		if existing.Tag() != box.Tag() {
			continue
		}
		if ec, ok := existing.(*Container); ok {
			return ec.Merge(box)
		}
		return fmt.Errorf("mp4io: cannot merge %s leaf boxes", box.Tag())
	}
	c.Contents = append(c.Contents, box)
	return nil
}

// Insert places box at index i of the child list.
func (c *Container) Insert(i int, box Box) error {
	if i < 0 || i > len(c.Contents) {
		return fmt.Errorf("mp4io: insert index %d out of range [0, %d]", i, len(c.Contents))
	}
	c.Contents = append(c.Contents, nil)
	copy(c.Contents[i+1:], c.Contents[i:])
	c.Contents[i] = box
	return nil
}

// Remove drops every direct child with the given tag and returns how many
// were removed.
func (c *Container) Remove(tag Tag) (n int) {
	kept := c.Contents[:0]
	for _, box := range c.Contents {
		if box.Tag() == tag {
			n++
			continue
		}
		kept = append(kept, box)
	}
	clear(c.Contents[len(kept):])
	c.Contents = kept
	return
}

// Merge appends the children of another container of the same type.
func (c *Container) Merge(other Box) error {
	oc, ok := other.(*Container)
	if !ok || oc.Type != c.Type {
		return fmt.Errorf("mp4io: cannot merge %s into %s container", other.Tag(), c.Type)
	}
	for _, box := range oc.Contents {
		if err := c.Add(box); err != nil {
			return err
		}
	}
	c.Resize()
	return nil
}

// FindChildren returns the first box with the given tag in a depth-first walk
// from root, root included.
func FindChildren(root Box, tag Tag) Box {
	if root.Tag() == tag {
		return root
	}
	for _, child := range root.Children() {
		if r := FindChildren(child, tag); r != nil {
			return r
		}
	}
	return nil
}

// FindAll returns every box with the given tag under root in file order.
func FindAll(root Box, tag Tag) (boxes []Box) {
	if root.Tag() == tag {
		boxes = append(boxes, root)
	}
	for _, child := range root.Children() {
		boxes = append(boxes, FindAll(child, tag)...)
	}
	return
}
