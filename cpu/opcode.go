package cpu

import (
	"fmt"
	"strings"
)

// Class is the instruction class.
type Class int

//go:generate go tool stringer -linecomment -type=Class
const (
	CLASS_MEMORY   = Class(0) // memory
	CLASS_REGISTER = Class(1) // register
	CLASS_IO       = Class(2) // io
)

const (
	INDIRECT_BIT  = 0x8000 // Indirect addressing, or I/O class when opcode is 7.
	OPCODE_SHIFT  = 12     // Position of the 3-bit opcode field.
	OPCODE_MASK   = 0x7    // Mask of the opcode field after shifting.
	OPCODE_NONMEM = 0x7    // Opcode of register and I/O reference instructions.
)

// Op identifies one of the 25 instructions.
type Op int

const (
	OP_AND = Op(iota)
	OP_ADD
	OP_LDA
	OP_STA
	OP_BUN
	OP_BSA
	OP_ISZ
	OP_CLA
	OP_CLE
	OP_CMA
	OP_CME
	OP_CIR
	OP_CIL
	OP_INC
	OP_SPA
	OP_SNA
	OP_SZA
	OP_SZE
	OP_HLT
	OP_INP
	OP_OUT
	OP_SKI
	OP_SKO
	OP_ION
	OP_IOF
)

// Instruction describes one entry of the instruction set.
type Instruction struct {
	Op       Op
	Mnemonic string
	Class    Class
	Code     uint16 // Opcode field for memory reference, else the full instruction word.
	Cycles   int    // Execute phase timing steps.
}

// instructionSet is indexed by Op and never modified.
var instructionSet = [...]Instruction{
	{OP_AND, "AND", CLASS_MEMORY, 0x0, 2},
	{OP_ADD, "ADD", CLASS_MEMORY, 0x1, 2},
	{OP_LDA, "LDA", CLASS_MEMORY, 0x2, 2},
	{OP_STA, "STA", CLASS_MEMORY, 0x3, 1},
	{OP_BUN, "BUN", CLASS_MEMORY, 0x4, 1},
	{OP_BSA, "BSA", CLASS_MEMORY, 0x5, 2},
	{OP_ISZ, "ISZ", CLASS_MEMORY, 0x6, 2},
	{OP_CLA, "CLA", CLASS_REGISTER, 0x7800, 1},
	{OP_CLE, "CLE", CLASS_REGISTER, 0x7400, 1},
	{OP_CMA, "CMA", CLASS_REGISTER, 0x7200, 1},
	{OP_CME, "CME", CLASS_REGISTER, 0x7100, 1},
	{OP_CIR, "CIR", CLASS_REGISTER, 0x7080, 1},
	{OP_CIL, "CIL", CLASS_REGISTER, 0x7040, 1},
	{OP_INC, "INC", CLASS_REGISTER, 0x7020, 1},
	{OP_SPA, "SPA", CLASS_REGISTER, 0x7010, 1},
	{OP_SNA, "SNA", CLASS_REGISTER, 0x7008, 1},
	{OP_SZA, "SZA", CLASS_REGISTER, 0x7004, 1},
	{OP_SZE, "SZE", CLASS_REGISTER, 0x7002, 1},
	{OP_HLT, "HLT", CLASS_REGISTER, 0x7001, 1},
	{OP_INP, "INP", CLASS_IO, 0xf800, 1},
	{OP_OUT, "OUT", CLASS_IO, 0xf400, 1},
	{OP_SKI, "SKI", CLASS_IO, 0xf200, 1},
	{OP_SKO, "SKO", CLASS_IO, 0xf100, 1},
	{OP_ION, "ION", CLASS_IO, 0xf080, 1},
	{OP_IOF, "IOF", CLASS_IO, 0xf040, 1},
}

var byMnemonic = map[string]Op{}

// byOperation holds the register and I/O tables, keyed by the one-hot
// address bits.
var byOperation [2]map[uint16]Op

func init() {
	byOperation[0] = map[uint16]Op{}
	byOperation[1] = map[uint16]Op{}

	for _, ins := range instructionSet {
		byMnemonic[ins.Mnemonic] = ins.Op
		switch ins.Class {
		case CLASS_REGISTER:
			byOperation[0][ins.Code&ADDRESS_MASK] = ins.Op
		case CLASS_IO:
			byOperation[1][ins.Code&ADDRESS_MASK] = ins.Op
		}
	}
}

// String returns the mnemonic of the operation.
func (op Op) String() string {
	if op < 0 || int(op) >= len(instructionSet) {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return instructionSet[op].Mnemonic
}

// Instruction returns the instruction set entry for the operation.
func (op Op) Instruction() Instruction {
	return instructionSet[op]
}

// InstructionSet returns a copy of the instruction set table.
func InstructionSet() []Instruction {
	return append([]Instruction(nil), instructionSet[:]...)
}

// Lookup finds an instruction by mnemonic, ignoring case.
func Lookup(mnemonic string) (ins Instruction, ok bool) {
	op, ok := byMnemonic[strings.ToUpper(mnemonic)]
	if ok {
		ins = instructionSet[op]
	}
	return
}

// IndirectCode returns the 4-bit opcode nibble of the indirect form of a
// memory reference instruction.
func (ins Instruction) IndirectCode() uint16 {
	return ins.Code | (INDIRECT_BIT >> OPCODE_SHIFT)
}

// Encode returns the instruction word. The address and indirect bit are only
// used by memory reference instructions.
func (ins Instruction) Encode(address uint16, indirect bool) (word uint16) {
	if ins.Class != CLASS_MEMORY {
		return ins.Code
	}

	word = (ins.Code << OPCODE_SHIFT) | (address & ADDRESS_MASK)
	if indirect {
		word |= INDIRECT_BIT
	}

	return
}

// Decoded is the field split of an instruction word.
type Decoded struct {
	Indirect bool   // Bit 15.
	Opcode   uint8  // Bits 14-12.
	Address  uint16 // Bits 11-0; the one-hot operation when Opcode is 7.
}

// Decode splits an instruction word into its fields.
func Decode(word uint16) Decoded {
	return Decoded{
		Indirect: (word & INDIRECT_BIT) != 0,
		Opcode:   uint8((word >> OPCODE_SHIFT) & OPCODE_MASK),
		Address:  word & ADDRESS_MASK,
	}
}

// Class returns the instruction class of the decoded word.
func (dec Decoded) Class() Class {
	switch {
	case dec.Opcode != OPCODE_NONMEM:
		return CLASS_MEMORY
	case dec.Indirect:
		return CLASS_IO
	default:
		return CLASS_REGISTER
	}
}

// Instruction returns the instruction set entry of the decoded word.
// ok is false for an operation that is in neither one-hot table.
func (dec Decoded) Instruction() (ins Instruction, ok bool) {
	var op Op

	switch dec.Class() {
	case CLASS_MEMORY:
		op, ok = Op(dec.Opcode), true
	case CLASS_REGISTER:
		op, ok = byOperation[0][dec.Address]
	case CLASS_IO:
		op, ok = byOperation[1][dec.Address]
	}

	if ok {
		ins = instructionSet[op]
	}

	return
}

// Disassemble renders an instruction word as assembly text. Words that do
// not decode are rendered as a HEX constant.
func Disassemble(word uint16) string {
	dec := Decode(word)
	ins, ok := dec.Instruction()
	if !ok {
		return fmt.Sprintf("HEX %04X", word)
	}

	if ins.Class != CLASS_MEMORY {
		return ins.Mnemonic
	}

	if dec.Indirect {
		return fmt.Sprintf("%v %03X I", ins.Mnemonic, dec.Address)
	}

	return fmt.Sprintf("%v %03X", ins.Mnemonic, dec.Address)
}
