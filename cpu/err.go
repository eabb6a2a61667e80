// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"

	"github.com/ezrec/mos6502/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrNotLoaded     = errors.New(f("no program loaded"))
	ErrImageTooLarge = errors.New(f("image too large"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrByteSyntax         = errors.New(f(".byte syntax"))
	ErrByteRange          = errors.New(f(".byte value out of range"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOperandRange       = errors.New(f("operand out of range"))
	ErrModeInvalid        = errors.New(f("addressing mode invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
)

// ErrOpcode is an opcode with no instruction defined.
type ErrOpcode struct {
	Opcode uint8  // Opcode byte fetched.
	PC     uint16 // Address the opcode was fetched from.
}

func (eo *ErrOpcode) Error() string {
	return f("unimplemented opcode 0x%02x at 0x%04x", eo.Opcode, eo.PC)
}

func (eo *ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(*ErrOpcode)
	return
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

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
