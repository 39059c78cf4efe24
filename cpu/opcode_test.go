package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		word    uint16
		decoded Decoded
		class   Class
		op      Op
		ok      bool
		disasm  string
	}){
		{0x0123, Decoded{false, 0, 0x123}, CLASS_MEMORY, OP_AND, true, "AND 123"},
		{0xa014, Decoded{true, 2, 0x014}, CLASS_MEMORY, OP_LDA, true, "LDA 014 I"},
		{0xefff, Decoded{true, 6, 0xfff}, CLASS_MEMORY, OP_ISZ, true, "ISZ FFF I"},
		{0x7800, Decoded{false, 7, 0x800}, CLASS_REGISTER, OP_CLA, true, "CLA"},
		{0x7001, Decoded{false, 7, 0x001}, CLASS_REGISTER, OP_HLT, true, "HLT"},
		{0xf040, Decoded{true, 7, 0x040}, CLASS_IO, OP_IOF, true, "IOF"},
		{0x7003, Decoded{false, 7, 0x003}, CLASS_REGISTER, 0, false, "HEX 7003"},
		{0xf020, Decoded{true, 7, 0x020}, CLASS_IO, 0, false, "HEX F020"},
		{0x7000, Decoded{false, 7, 0x000}, CLASS_REGISTER, 0, false, "HEX 7000"},
	}

	for _, entry := range table {
		dec := Decode(entry.word)
		assert.Equal(entry.decoded, dec, "%04x", entry.word)
		assert.Equal(entry.class, dec.Class(), "%04x", entry.word)

		ins, ok := dec.Instruction()
		assert.Equal(entry.ok, ok, "%04x", entry.word)
		if ok {
			assert.Equal(entry.op, ins.Op, "%04x", entry.word)
		}

		assert.Equal(entry.disasm, Disassemble(entry.word))
	}
}

func TestInstructionSet(t *testing.T) {
	assert := assert.New(t)

	set := InstructionSet()
	assert.Len(set, 25)

	codes := map[uint16]bool{}
	for n, ins := range set {
		assert.Equal(Op(n), ins.Op)
		assert.Equal(ins.Mnemonic, ins.Op.String())

		found, ok := Lookup(ins.Mnemonic)
		assert.True(ok, ins.Mnemonic)
		assert.Equal(ins, found)

		// Every encoding decodes back to the same instruction.
		for _, indirect := range []bool{false, true} {
			word := ins.Encode(0x5a5, indirect)
			assert.False(codes[word], "duplicate encoding %04x", word)
			codes[word] = true

			dec, ok := Decode(word).Instruction()
			assert.True(ok, ins.Mnemonic)
			assert.Equal(ins.Op, dec.Op, ins.Mnemonic)

			if ins.Class != CLASS_MEMORY {
				break
			}
		}

		// Register and I/O operations are one-hot in the low 12 bits.
		if ins.Class != CLASS_MEMORY {
			bits := ins.Code & ADDRESS_MASK
			assert.NotZero(bits, ins.Mnemonic)
			assert.Zero(bits&(bits-1), ins.Mnemonic)
		}
	}

	// The set is a copy.
	set[0].Mnemonic = "XXX"
	assert.Equal("AND", OP_AND.String())
}

func TestLookup(t *testing.T) {
	assert := assert.New(t)

	ins, ok := Lookup("lda")
	assert.True(ok)
	assert.Equal(OP_LDA, ins.Op)
	assert.Equal(uint16(0xa), ins.IndirectCode())

	ins, ok = Lookup("Hlt")
	assert.True(ok)
	assert.Equal(OP_HLT, ins.Op)

	_, ok = Lookup("NOP")
	assert.False(ok)

	assert.Equal("Op(99)", Op(99).String())
}

func TestEncode(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint16(0x2014), OP_LDA.Instruction().Encode(0x014, false))
	assert.Equal(uint16(0xa014), OP_LDA.Instruction().Encode(0x014, true))
	assert.Equal(uint16(0x5fff), OP_BSA.Instruction().Encode(0xffff, false))
	assert.Equal(uint16(0x7020), OP_INC.Instruction().Encode(0x123, true))
	assert.Equal(uint16(0xf800), OP_INP.Instruction().Encode(0, false))
}
