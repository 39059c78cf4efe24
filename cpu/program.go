package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Opcode is one assembled memory word with its source location.
type Opcode struct {
	LineNo    int      // Source line number.
	Address   int      // Memory address of the word.
	Words     []string // Source words, after equate and expression expansion.
	Word      uint16   // Assembled word.
	LinkLabel string   // Label linked into the address field, if any.
}

// Program is an assembled program listing.
type Program struct {
	Opcodes []Opcode
}

// Find returns the opcode assembled at an address, or nil.
func (prog *Program) Find(address uint16) *Opcode {
	address &= ADDRESS_MASK
	for n := range prog.Opcodes {
		if prog.Opcodes[n].Address == int(address) {
			return &prog.Opcodes[n]
		}
	}

	return nil
}

// LineNo returns the source line of the word at an address, or 0.
func (prog *Program) LineNo(address uint16) int {
	op := prog.Find(address)
	if op == nil {
		return 0
	}

	return op.LineNo
}

// Words iterates over the assembled address and word pairs.
func (prog *Program) Words() iter.Seq2[uint16, uint16] {
	return func(yield func(address uint16, word uint16) bool) {
		for _, op := range prog.Opcodes {
			if !yield(uint16(op.Address), op.Word) {
				return
			}
		}
	}
}

// Image returns the memory image of the program. Unassembled words are zero.
func (prog *Program) Image() (mem *Memory) {
	mem = &Memory{}
	for address, word := range prog.Words() {
		mem.Write(address, word)
	}

	return
}

// Listing returns the assembler listing: address, word and source words.
func (prog *Program) Listing() string {
	var sb strings.Builder
	for _, op := range prog.Opcodes {
		fmt.Fprintf(&sb, "%03X %04X %4d  %v\n", op.Address, op.Word, op.LineNo, strings.Join(op.Words, " "))
	}

	return sb.String()
}
