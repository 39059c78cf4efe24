package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{
			{LineNo: 3, Address: 0x010, Words: []string{"CLA"}, Word: 0x7800},
			{LineNo: 4, Address: 0x011, Words: []string{"HLT"}, Word: 0x7001},
			{LineNo: 7, Address: 0xfff, Words: []string{"HEX", "BEEF"}, Word: 0xbeef},
		},
	}

	assert.Nil(prog.Find(0x012))
	assert.Equal(0, prog.LineNo(0x012))
	assert.Equal(4, prog.LineNo(0x011))
	assert.Equal(7, prog.LineNo(0xffff))

	image := prog.Image()
	assert.Equal(uint16(0x7800), image.Read(0x010))
	assert.Equal(uint16(0xbeef), image.Read(0xfff))
	assert.Equal(uint16(0), image.Read(0))

	count := 0
	for range prog.Words() {
		count++
		break
	}
	assert.Equal(1, count)

	assert.Contains(prog.Listing(), "FFF BEEF    7  HEX BEEF\n")
}
