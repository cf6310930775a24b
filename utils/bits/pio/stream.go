package pio

import "io"

// Reader reads big-endian integers from an underlying stream. The first error
// is latched: every later call returns zero and Err reports it.
type Reader struct {
	r   io.Reader
	buf [8]byte
	err error
}

// NewReader wraps r. Reads start at the stream's current position.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Err returns the first error hit by any read, or nil.
func (r *Reader) Err() error {
	return r.err
}

// ReadFull fills b, unless an earlier read already failed.
func (r *Reader) ReadFull(b []byte) {
	if r.err != nil {
		return
	}
	if _, err := io.ReadFull(r.r, b); err != nil {
		if err == io.EOF { //nolint:errorlint
			err = io.ErrUnexpectedEOF
		}
		r.err = err
	}
}

func (r *Reader) fill(n int) []byte {
	b := r.buf[:n]
	r.ReadFull(b)
	if r.err != nil {
		clear(b)
	}
	return b
}

func (r *Reader) U8() uint8 {
	return U8(r.fill(1))
}

func (r *Reader) U16BE() uint16 {
	return U16BE(r.fill(2))
}

func (r *Reader) U32BE() uint32 {
	return U32BE(r.fill(4))
}

func (r *Reader) U64BE() uint64 {
	return U64BE(r.fill(8))
}

// Writer writes big-endian integers to an underlying stream, latching the
// first error like Reader.
type Writer struct {
	w   io.Writer
	buf [8]byte
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error hit by any write, or nil.
func (w *Writer) Err() error {
	return w.err
}

// WriteBytes writes b as is. Failures are reported by Err.
func (w *Writer) WriteBytes(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

func (w *Writer) U8(v uint8) {
	PutU8(w.buf[:], v)
	w.WriteBytes(w.buf[:1])
}

func (w *Writer) U16BE(v uint16) {
	PutU16BE(w.buf[:], v)
	w.WriteBytes(w.buf[:2])
}

func (w *Writer) U32BE(v uint32) {
	PutU32BE(w.buf[:], v)
	w.WriteBytes(w.buf[:4])
}

func (w *Writer) U64BE(v uint64) {
	PutU64BE(w.buf[:], v)
	w.WriteBytes(w.buf[:8])
}
