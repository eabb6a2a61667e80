// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/mos6502/memory"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass assembler for the processor.
//
// Each line holds an optional label, then an instruction or directive:
//
//	start:  lda #$(VALUE + 1)   ; immediate load
//	        tax
//	        .byte 0xe8 $00
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]uint16 // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
// Go integer literals and 6502 style '$hex' are accepted.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}
	if word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(word)
		return
	}

	if word[0] == '$' {
		value, err = strconv.ParseInt(word[1:], 16, 32)
	} else {
		value, err = strconv.ParseInt(word, 0, 32)
	}
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// byteOf returns the value of a word that must fit in a byte.
// Negative values down to -128 are stored as two's complement.
func (asm *Assembler) byteOf(word string) (value uint8, err error) {
	v64, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if v64 < -0x80 || v64 > 0xff {
		err = errors.Join(ErrOperandRange, ErrParseNumber(word))
		return
	}

	value = uint8(v64)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v64 int64
		v64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
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

var (
	reCharacter = regexp.MustCompile(`'\\?[^']'`)
	reParen     = regexp.MustCompile(`\$\([^\$]*\)`)
)

// parseLine expands a line of text into words.
// Labels and directives are processed here, and yield no words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			case "0":
				str = "\000"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
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

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]uint16, 16)
		}
		addr := asm.currentAddr()
		asm.Label[label] = addr
		asm.Equate[label] = fmt.Sprintf("0x%04x", addr)
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	for n, word := range words {
		// Immediate operands keep their '#' prefix.
		prefix := ""
		if strings.HasPrefix(word, "#") {
			prefix = "#"
			word = word[1:]
		}

		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = prefix + equate
		}
	}

	return
}

// nextAddr gets the address of the next generated byte.
// It may be one past the end of memory.
func (asm *Assembler) nextAddr() int {
	if len(asm.Opcode) == 0 {
		return int(ROM_BASE)
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return int(last.Addr) + len(last.Bytes)
}

// currentAddr gets the address of the next generated byte.
func (asm *Assembler) currentAddr() uint16 {
	return uint16(asm.nextAddr())
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.SplitN(text, ";", 2)
		line = strings.TrimSpace(text_comment[0])

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

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var bytes []uint8

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if err != nil || len(bytes) == 0 {
			return
		}
		addr := asm.nextAddr()
		if addr+len(bytes) > memory.MEMORY_SIZE {
			err = errors.Join(ErrImageTooLarge, &memory.ErrAddressRange{Addr: addr, Len: len(bytes)})
			return
		}
		opcode := Opcode{LineNo: lineno, Addr: asm.currentAddr(), Words: initial_words, Bytes: bytes}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	// .byte VALUE...
	if words[0] == ".byte" {
		if len(words) < 2 {
			err = ErrByteSyntax
			return
		}
		for _, word := range words[1:] {
			var value uint8
			value, err = asm.byteOf(word)
			if err != nil {
				bytes = nil
				err = errors.Join(ErrByteRange, err)
				return
			}
			bytes = append(bytes, value)
		}
		return
	}

	mnemonic, ok := ParseMnemonic(strings.ToLower(words[0]))
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	if len(words) > 2 {
		err = ErrOpcodeExtraArgs
		return
	}

	mode := MODE_IMPLIED
	var operands []uint8
	if len(words) == 2 {
		arg := words[1]
		if !strings.HasPrefix(arg, "#") {
			err = ErrModeInvalid
			return
		}
		var value uint8
		value, err = asm.byteOf(arg[1:])
		if err != nil {
			return
		}
		mode = MODE_IMMEDIATE
		operands = append(operands, value)
	}

	ins, ok := Lookup(mnemonic, mode)
	if !ok {
		if mode == MODE_IMPLIED {
			err = ErrOpcodeValueMissing
		} else {
			err = ErrModeInvalid
		}
		return
	}

	bytes = append([]uint8{ins.Opcode}, operands...)

	return
}
