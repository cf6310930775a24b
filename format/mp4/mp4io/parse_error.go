package mp4io

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTagMismatch  = errors.New("unexpected box type")
	ErrOutOfBounds  = errors.New("box size exceeds bounds")
	ErrInvalidSize  = errors.New("box size smaller than its header")
	ErrInvalidEntry = errors.New("invalid entry table")
)

// ParseError locates a format error: Debug names the field or box being
// decoded and Offset is its position in the source stream. Errors raised
// while decoding nested boxes are chained through prev.
type ParseError struct {
	Debug  string
	Offset int64
	prev   error
}

func (p *ParseError) Error() string {
	s := []string{}
	var err error = p
	for err != nil {
		pe, ok := err.(*ParseError) //nolint:errorlint
		if !ok {
			s = append(s, err.Error())
			break
		}
		s = append(s, fmt.Sprintf("%s:%d", pe.Debug, pe.Offset))
		err = pe.prev
	}
	return "mp4io: parse error: " + strings.Join(s, ",")
}

func (p *ParseError) Unwrap() error {
	return p.prev
}

func parseErr(debug string, offset int64, prev error) error {
	return &ParseError{Debug: debug, Offset: offset, prev: prev}
}
