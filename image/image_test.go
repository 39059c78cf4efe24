package image

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/bcpu/cpu"
)

func binaryLines(count int, line string) string {
	return strings.Repeat(line+"\n", count)
}

func TestParseFormat(t *testing.T) {
	assert := assert.New(t)

	format, err := ParseFormat("binary")
	assert.NoError(err)
	assert.Equal(FORMAT_BINARY, format)

	format, err = ParseFormat("RECORD")
	assert.NoError(err)
	assert.Equal(FORMAT_RECORD, format)

	_, err = ParseFormat("ihex")
	assert.True(errors.Is(err, ErrFormatUnknown))
}

func TestDecodeBinary(t *testing.T) {
	assert := assert.New(t)

	var sb strings.Builder
	sb.WriteString("0010000000010100\r\n")
	sb.WriteString("1111111111111111\n")
	sb.WriteString("101\n")
	sb.WriteString(binaryLines(LINES-3, "0000000000000000"))

	mem, err := DecodeBinary(strings.NewReader(sb.String()))
	assert.NoError(err)
	assert.Equal(uint16(0x2014), mem.Read(0))
	assert.Equal(uint16(0xffff), mem.Read(1))
	assert.Equal(uint16(0x0005), mem.Read(2))
	assert.Equal(uint16(0), mem.Read(3))
}

func TestDecodeBinaryErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		input  string
		lineno int
		err    error
	}){
		{"digit", "0000000000000002\n" + binaryLines(LINES-1, "0"), 1, ErrBinaryDigit},
		{"empty", binaryLines(5, "0") + "\n" + binaryLines(LINES-6, "0"), 6, ErrBinaryDigit},
		{"wide", binaryLines(10, "0") + "10000000000000000\n", 11, ErrBinaryDigit},
	}

	for _, entry := range table {
		mem, err := DecodeBinary(strings.NewReader(entry.input))
		assert.Nil(mem, entry.name)
		assert.True(errors.Is(err, entry.err), entry.name)

		var line *ErrImageLine
		if assert.True(errors.As(err, &line), entry.name) {
			assert.Equal(entry.lineno, line.LineNo, entry.name)
		}
	}
}

func TestDecodeLength(t *testing.T) {
	assert := assert.New(t)

	for _, count := range []int{0, 1, LINES - 1, LINES + 1} {
		mem, err := DecodeBinary(strings.NewReader(binaryLines(count, "1")))
		assert.Nil(mem, "%v lines", count)

		var length *ErrImageLength
		assert.True(errors.As(err, &length), "%v lines", count)
	}

	mem, err := DecodeRecord(strings.NewReader(""))
	assert.Nil(mem)
	var length *ErrImageLength
	assert.True(errors.As(err, &length))
}

func TestLoadIsAtomic(t *testing.T) {
	assert := assert.New(t)

	machine := cpu.NewCpu()
	machine.Memory.Write(0x123, 0xbeef)
	machine.Registers.AC = 0x4242

	// A 4097 line image must leave the machine untouched.
	mem, err := DecodeBinary(strings.NewReader(binaryLines(LINES+1, "1")))
	assert.Error(err)
	if mem != nil {
		machine.Load(mem)
	}

	assert.Equal(uint16(0xbeef), machine.Memory.Read(0x123))
	assert.Equal(uint16(0x4242), machine.Registers.AC)
}

func TestDecodeRecord(t *testing.T) {
	assert := assert.New(t)

	var sb strings.Builder
	// Records may be in any order, and the type and checksum are not checked.
	sb.WriteString(":040FFF00CDAB00\n")
	sb.WriteString(":040000001420C8\r\n")
	for address := 1; address < LINES-1; address++ {
		fmt.Fprintf(&sb, ":04%04X7F0000FF\n", address)
	}

	mem, err := DecodeRecord(strings.NewReader(sb.String()))
	assert.NoError(err)
	assert.Equal(uint16(0x2014), mem.Read(0))
	assert.Equal(uint16(0xabcd), mem.Read(0xfff))
	assert.Equal(uint16(0), mem.Read(0x800))
}

func TestDecodeRecordErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		line string
		err  error
	}){
		{"marker", "#040000001420C8", ErrRecordMarker},
		{"short", ":040000001420C", ErrRecordLength},
		{"long", ":040000001420C80", ErrRecordLength},
		{"count", ":020000001420C8", ErrRecordCount},
		{"address", ":041000001420C8", ErrRecordAddress},
		{"hex", ":0400000014G0C8", ErrRecordHex},
		{"duplicate", ":0400007F0000FF", ErrRecordDuplicate},
	}

	for _, entry := range table {
		input := ":040000001420C8\n" + entry.line + "\n"

		mem, err := DecodeRecord(strings.NewReader(input))
		assert.Nil(mem, entry.name)
		assert.True(errors.Is(err, entry.err), "%v: %v", entry.name, err)

		var line *ErrImageLine
		if assert.True(errors.As(err, &line), entry.name) {
			assert.Equal(2, line.LineNo, entry.name)
			assert.Equal(entry.line, line.Line, entry.name)
		}
	}
}

func TestDecodeRecordDuplicate(t *testing.T) {
	assert := assert.New(t)

	// Every record at address 0 leaves the rest of memory undefined.
	input := strings.Repeat(":040000001420C8\n", LINES)

	mem, err := DecodeRecord(strings.NewReader(input))
	assert.Nil(mem)
	assert.True(errors.Is(err, ErrRecordDuplicate))

	var line *ErrImageLine
	if assert.True(errors.As(err, &line)) {
		assert.Equal(2, line.LineNo)
	}
}

func TestEncode(t *testing.T) {
	assert := assert.New(t)

	mem := &cpu.Memory{}
	mem.Write(0x000, 0x2014)
	mem.Write(0x001, 0x7001)
	mem.Write(0xfff, 0xabcd)

	var buf bytes.Buffer
	assert.NoError(EncodeRecord(&buf, mem))
	lines := strings.Split(buf.String(), "\n")
	assert.Len(lines, LINES+1)
	assert.Equal(":040000001420C8", lines[0])
	assert.Equal(":0400010001708A", lines[1])
	assert.Equal("", lines[LINES])

	buf.Reset()
	assert.NoError(EncodeBinary(&buf, mem))
	lines = strings.Split(buf.String(), "\n")
	assert.Len(lines, LINES+1)
	assert.Equal("0010000000010100", lines[0])
	assert.Equal("1010101111001101", lines[LINES-1])
}

func TestRoundTrip(t *testing.T) {
	assert := assert.New(t)

	mem := &cpu.Memory{}
	for address := range cpu.MEMORY_SIZE {
		mem.Write(uint16(address), uint16(address*0x9e37))
	}

	for _, format := range []Format{FORMAT_BINARY, FORMAT_RECORD} {
		var buf bytes.Buffer
		assert.NoError(Encode(&buf, mem, format), format.String())

		decoded, err := Decode(&buf, format)
		assert.NoError(err, format.String())
		assert.Equal(mem, decoded, format.String())
	}

	_, err := Decode(strings.NewReader(""), Format(7))
	assert.True(errors.Is(err, ErrFormatUnknown))
}
