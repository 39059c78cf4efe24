// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":  fmt.Sprintf("%#x", MEMORY_SIZE),
	"ADDRESS_MASK": fmt.Sprintf("%#x", ADDRESS_MASK),
	"WORD_MASK":    fmt.Sprintf("%#x", WORD_MASK),
}

// Defines for the cpu
func Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

var (
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
	reLabel      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Assembler is a single pass assembler for basic computer assembly.
//
// Each line is `[LABEL,] MNEMONIC [OPERAND [I]]`, with comments introduced
// by '/' or ';'. The pseudo-operations are ORG (hex origin), HEX and DEC
// (data words) and END. `.equ NAME VALUE` defines an equate, and `$(expr)`
// is evaluated at assembly time.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.

	location int            // Location counter.
	used     [MEMORY_SIZE]bool
	ended    bool
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf parses a number. A 0x prefix is always hexadecimal, otherwise
// the number is in the given base.
func valueOf(word string, base int) (value int64, err error) {
	text := word
	negative := false
	if strings.HasPrefix(text, "-") {
		negative = true
		text = text[1:]
	}
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		text = text[2:]
		base = 16
	}

	value, err = strconv.ParseInt(text, base, 32)
	if err != nil || len(text) == 0 {
		err = ErrParseNumber(word)
		return
	}

	if negative {
		value = -value
	}

	return
}

// wordOf converts a value in [-0x8000, 0xffff] to a 16-bit word.
func wordOf(value int64) (word uint16, err error) {
	if value < -0x8000 || value > WORD_MASK {
		err = ErrValueRange
		return
	}

	word = uint16(value & WORD_MASK)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v int64
		v, err = valueOf(str, 10)
		if err != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt64(v)
	}
	err = nil
	for key, address := range asm.Label {
		pred[key] = starlark.MakeInt(address)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// stripComment removes a '/' or ';' comment that is not inside $(...).
func stripComment(line string) string {
	depth := 0
	for n := 0; n < len(line); n++ {
		switch {
		case line[n] == '$' && n+1 < len(line) && line[n+1] == '(':
			depth++
			n++
		case line[n] == '(' && depth > 0:
			depth++
		case line[n] == ')' && depth > 0:
			depth--
		case (line[n] == '/' || line[n] == ';') && depth == 0:
			return line[:n]
		}
	}

	return line
}

// parseLine expands a single line into words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		if value < 0 {
			return fmt.Sprintf("%d", value)
		}
		return fmt.Sprintf("%#x", value)
	})
	if err != nil {
		return
	}

	// A label is terminated by a comma, and may abut the mnemonic.
	if before, after, ok := strings.Cut(line, ","); ok {
		line = before + ", " + after
	}

	words = strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for strings.HasSuffix(words[0], ",") {
		label := words[0][:len(words[0])-1]
		if !reLabel.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.location
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// Operand equates; the mnemonic itself is never replaced.
	for n := 1; n < len(words); n++ {
		equate, ok := asm.Equate[words[n]]
		if ok {
			words[n] = equate
		}
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = make(map[string]int, 16)
	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
	asm.location = 0
	asm.used = [MEMORY_SIZE]bool{}
	asm.ended = false

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))
		if len(line) == 0 {
			continue
		}

		if asm.ended {
			err = ErrAfterEnd
			return
		}

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		address, ok := asm.Label[label]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		op.Word |= uint16(address) & ADDRESS_MASK
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// emit appends an assembled word at the location counter.
func (asm *Assembler) emit(lineno int, words []string, word uint16, label string) (err error) {
	if asm.location >= MEMORY_SIZE {
		err = ErrAddressRange
		return
	}
	if asm.used[asm.location] {
		err = ErrOriginOverlap
		return
	}
	asm.used[asm.location] = true

	asm.Opcode = append(asm.Opcode, Opcode{
		LineNo:    lineno,
		Address:   asm.location,
		Words:     slices.Clone(words),
		Word:      word,
		LinkLabel: label,
	})
	asm.location++

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	mnemonic := strings.ToUpper(words[0])
	args := words[1:]

	switch mnemonic {
	case "ORG":
		if len(args) != 1 {
			err = ErrOpcodeValueMissing
			return
		}
		var value int64
		value, err = valueOf(args[0], 16)
		if err != nil {
			return
		}
		if value < 0 || value >= MEMORY_SIZE {
			err = ErrAddressRange
			return
		}
		asm.location = int(value)
		return
	case "END":
		if len(args) != 0 {
			err = ErrOpcodeExtraArgs
			return
		}
		asm.ended = true
		return
	case "HEX", "DEC":
		if len(args) != 1 {
			err = ErrOpcodeValueMissing
			return
		}
		base := 16
		if mnemonic == "DEC" {
			base = 10
		}
		var value int64
		value, err = valueOf(args[0], base)
		if err != nil {
			return
		}
		var word uint16
		word, err = wordOf(value)
		if err != nil {
			return
		}
		err = asm.emit(lineno, words, word, "")
		return
	}

	ins, ok := Lookup(mnemonic)
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	if ins.Class != CLASS_MEMORY {
		if len(args) != 0 {
			err = ErrOpcodeExtraArgs
			return
		}
		err = asm.emit(lineno, words, ins.Encode(0, false), "")
		return
	}

	// Memory reference: OPERAND [I]
	if len(args) == 0 {
		err = ErrOpcodeValueMissing
		return
	}
	if len(args) > 2 || (len(args) == 2 && !strings.EqualFold(args[1], "I")) {
		err = ErrOpcodeExtraArgs
		return
	}
	indirect := len(args) == 2

	var address uint16
	var label string
	operand := args[0]
	if reLabel.MatchString(operand) {
		// Symbolic address, resolved after the pass.
		label = operand
	} else {
		var value int64
		value, err = valueOf(operand, 16)
		if err != nil {
			return
		}
		if value < 0 || value >= MEMORY_SIZE {
			err = ErrAddressRange
			return
		}
		address = uint16(value)
	}

	err = asm.emit(lineno, words, ins.Encode(address, indirect), label)
	return
}
