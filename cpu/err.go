package cpu

import (
	"errors"

	"github.com/ezrec/bcpu/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrOperationUnknown = errors.New(f("operation unknown"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrAddressRange       = errors.New(f("address out of range"))
	ErrValueRange         = errors.New(f("value out of range"))
	ErrOriginOverlap      = errors.New(f("ORG overlaps assembled code"))
	ErrAfterEnd           = errors.New(f("code after END"))
)

// ErrOperation is the fault raised when an operation code matches no
// register or I/O reference instruction. The machine is stopped when it is
// raised.
type ErrOperation struct {
	Address  uint16 // Address of the faulting instruction.
	Word     uint16 // Faulting instruction word.
	AR       uint16 // Operation bits left in the address register.
	Indirect bool   // Indirect bit; selects the I/O table when set.
}

func (err *ErrOperation) Error() string {
	class := "register"
	if err.Indirect {
		class = "io"
	}
	return f("unknown %v operation 0x%03x (I=%v) at 0x%03x", class, err.AR, err.Indirect, err.Address)
}

func (err *ErrOperation) Unwrap() error {
	return ErrOperationUnknown
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
