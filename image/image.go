// Package image encodes and decodes the text forms of a basic computer
// memory image.
//
// Both forms have exactly one line per memory word. The binary form is in
// address order; each record carries its own address. The word 0x2014 at
// address 0 is:
//
//	binary: 0010000000010100
//	record: :040000001420C8
//
// The record payload stores the low byte of the word before the high byte.
package image

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ezrec/bcpu/cpu"
)

// Format is a memory image text encoding.
type Format int

//go:generate go tool stringer -linecomment -type=Format
const (
	FORMAT_BINARY = Format(0) // binary
	FORMAT_RECORD = Format(1) // record
)

const (
	LINES         = cpu.MEMORY_SIZE // Lines in an image.
	BINARY_DIGITS = 16              // Maximum digits in a binary line.
	RECORD_LENGTH = 15              // Characters in a record line.
	RECORD_COUNT  = 0x04            // Required record byte count field.
	RECORD_TYPE   = 0x00            // Record type written by EncodeRecord.
)

// ParseFormat returns the format with the given name.
func ParseFormat(name string) (format Format, err error) {
	for _, format = range []Format{FORMAT_BINARY, FORMAT_RECORD} {
		if strings.EqualFold(name, format.String()) {
			return
		}
	}

	err = ErrFormatUnknown
	return
}

// scanLines calls fn for each line of the input, and checks that there is
// exactly one line per memory word.
func scanLines(input io.Reader, fn func(lineno int, line string) error) (err error) {
	scanner := bufio.NewScanner(input)

	lineno := 0
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		lineno++

		if lineno > LINES {
			err = &ErrImageLength{Lines: lineno}
			return
		}

		err = fn(lineno, line)
		if err != nil {
			err = &ErrImageLine{LineNo: lineno, Line: line, Err: err}
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if lineno != LINES {
		err = &ErrImageLength{Lines: lineno}
		return
	}

	return
}

// DecodeBinary decodes a binary-line image. Line n holds the word for
// address n-1.
func DecodeBinary(input io.Reader) (mem *cpu.Memory, err error) {
	image := &cpu.Memory{}

	err = scanLines(input, func(lineno int, line string) error {
		if len(line) == 0 || len(line) > BINARY_DIGITS {
			return ErrBinaryDigit
		}
		value, err := strconv.ParseUint(line, 2, BINARY_DIGITS)
		if err != nil {
			return ErrBinaryDigit
		}
		image.Write(uint16(lineno-1), uint16(value))
		return nil
	})
	if err != nil {
		return
	}

	mem = image
	return
}

// DecodeRecord decodes a record image. Each record names its own target
// address, and every address appears exactly once; the record type and checksum fields must be hex digits but are
// otherwise ignored.
func DecodeRecord(input io.Reader) (mem *cpu.Memory, err error) {
	image := &cpu.Memory{}
	var seen [LINES]bool

	err = scanLines(input, func(lineno int, line string) error {
		if len(line) != RECORD_LENGTH {
			return ErrRecordLength
		}
		if line[0] != ':' {
			return ErrRecordMarker
		}
		fields, err := hex.DecodeString(line[1:])
		if err != nil {
			return ErrRecordHex
		}
		if fields[0] != RECORD_COUNT {
			return ErrRecordCount
		}
		address := uint16(fields[1])<<8 | uint16(fields[2])
		if address >= cpu.MEMORY_SIZE {
			return ErrRecordAddress
		}
		if seen[address] {
			return ErrRecordDuplicate
		}
		seen[address] = true
		image.Write(address, uint16(fields[4])|uint16(fields[5])<<8)
		return nil
	})
	if err != nil {
		return
	}

	mem = image
	return
}

// Decode decodes an image in the given format.
func Decode(input io.Reader, format Format) (mem *cpu.Memory, err error) {
	switch format {
	case FORMAT_BINARY:
		return DecodeBinary(input)
	case FORMAT_RECORD:
		return DecodeRecord(input)
	}

	err = ErrFormatUnknown
	return
}

// EncodeBinary writes a binary-line image of 16 digits per word.
func EncodeBinary(output io.Writer, mem *cpu.Memory) (err error) {
	w := bufio.NewWriter(output)
	for _, word := range mem {
		_, err = fmt.Fprintf(w, "%016b\n", word)
		if err != nil {
			return
		}
	}

	err = w.Flush()
	return
}

// recordChecksum is the two's complement of the byte sum of a record.
func recordChecksum(fields []byte) (sum byte) {
	for _, b := range fields {
		sum += b
	}

	return -sum
}

// EncodeRecord writes a record image in address order.
func EncodeRecord(output io.Writer, mem *cpu.Memory) (err error) {
	w := bufio.NewWriter(output)
	for address, word := range mem {
		fields := []byte{
			RECORD_COUNT,
			byte(address >> 8),
			byte(address),
			RECORD_TYPE,
			byte(word),
			byte(word >> 8),
		}
		fields = append(fields, recordChecksum(fields))
		_, err = fmt.Fprintf(w, ":%X\n", fields)
		if err != nil {
			return
		}
	}

	err = w.Flush()
	return
}

// Encode writes an image in the given format.
func Encode(output io.Writer, mem *cpu.Memory, format Format) (err error) {
	switch format {
	case FORMAT_BINARY:
		return EncodeBinary(output, mem)
	case FORMAT_RECORD:
		return EncodeRecord(output, mem)
	}

	err = ErrFormatUnknown
	return
}
