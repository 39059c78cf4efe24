package emulator

import (
	"errors"

	"github.com/ezrec/bcpu/translate"
)

var f = translate.From

var (
	ErrLimit = errors.New(f("instruction limit reached"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo  int    // Source line, or 0 if the address has no listing.
	Address uint16 // Address of the instruction.
	Err     error
}

func (err *ErrRuntime) Error() string {
	return f("line %d (address 0x%03x) %v", err.LineNo, err.Address, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
