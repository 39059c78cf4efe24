package cpu

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlags(t *testing.T) {
	assert := assert.New(t)

	var flags Flags
	assert.Equal("-", flags.String())

	for n := range FlagCount {
		flag := Flag(n)
		assert.False(flags.Has(flag), flag.String())
		flags.Set(flag, true)
		assert.True(flags.Has(flag), flag.String())
	}

	flags.Set(FLAG_E, false)
	assert.False(flags.Has(FLAG_E))
	assert.True(flags.Has(FLAG_CARRY))

	flags.Toggle(FLAG_E)
	assert.True(flags.Has(FLAG_E))
	flags.Toggle(FLAG_E)
	assert.False(flags.Has(FLAG_E))

	flags.Reset()
	assert.Equal(Flags(0), flags)

	flags.Set(FLAG_IEN, true)
	flags.Set(FLAG_FGO, true)
	assert.Equal("IEN|FGO", flags.String())

	on := 0
	for _, set := range flags.All() {
		if set {
			on++
		}
	}
	assert.Equal(2, on)

	var other Flags
	other.Set(FLAG_IEN, true)
	other.Set(FLAG_R, true)
	assert.Equal([]Flag{FLAG_FGO, FLAG_R}, slices.Collect(flags.Changed(other)))
	assert.Empty(slices.Collect(flags.Changed(flags)))
}

func TestRegisters(t *testing.T) {
	assert := assert.New(t)

	var regs Registers

	table := [](struct {
		reg   Register
		name  string
		value uint16
		want  uint16
	}){
		{REG_AC, "AC", 0xffff, 0xffff},
		{REG_PC, "PC", 0xffff, 0x0fff},
		{REG_AR, "AR", 0x1234, 0x0234},
		{REG_DR, "DR", 0xbeef, 0xbeef},
		{REG_IR, "IR", 0x7001, 0x7001},
		{REG_TR, "TR", 0x8000, 0x8000},
		{REG_INPR, "INPR", 0x1ff, 0x0ff},
		{REG_OUTR, "OUTR", 0x141, 0x041},
		{REG_SC, "SC", 0x13, 0x03},
	}

	for _, entry := range table {
		assert.Equal(entry.name, entry.reg.String())
		regs.Set(entry.reg, entry.value)
		assert.Equal(entry.want, regs.Get(entry.reg), entry.name)
	}

	assert.Equal(uint16(0x0fff), regs.PC)
	assert.Equal(uint8(0x41), regs.OUTR)

	regs.Reset()
	assert.Equal(Registers{}, regs)

	assert.Panics(func() { regs.Get(Register(RegisterCount)) })
}

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	var mem Memory
	mem.Write(0x1005, 0xabcd)
	assert.Equal(uint16(0xabcd), mem.Read(0x005))
	assert.Equal(uint16(0xabcd), mem.Read(0xf005))
	assert.Equal(MEMORY_SIZE, len(mem))
}
