package image

import (
	"errors"

	"github.com/ezrec/bcpu/translate"
)

var f = translate.From

var (
	ErrFormatUnknown   = errors.New(f("image format unknown"))
	ErrBinaryDigit     = errors.New(f("binary word malformed"))
	ErrRecordMarker    = errors.New(f("record marker missing"))
	ErrRecordLength    = errors.New(f("record length invalid"))
	ErrRecordCount     = errors.New(f("record byte count invalid"))
	ErrRecordAddress   = errors.New(f("record address out of range"))
	ErrRecordDuplicate = errors.New(f("record address duplicated"))
	ErrRecordHex       = errors.New(f("record hex digits invalid"))
)

// ErrImageLength is returned when an image does not have exactly one line
// per memory word.
type ErrImageLength struct {
	Lines int // Lines read before the error was detected.
}

func (err *ErrImageLength) Error() string {
	return f("image has %v lines, expected %v", err.Lines, LINES)
}

// ErrImageLine locates a malformed line of an image.
type ErrImageLine struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrImageLine) Error() string {
	return f("image line %v '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrImageLine) Unwrap() error {
	return err.Err
}
