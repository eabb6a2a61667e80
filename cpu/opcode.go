// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
)

// Mnemonic is an instruction name.
type Mnemonic int

//go:generate go tool stringer -linecomment -type=Mnemonic
const (
	MN_BRK = Mnemonic(0) // brk
	MN_LDA = Mnemonic(1) // lda
	MN_TAX = Mnemonic(2) // tax
	MN_INX = Mnemonic(3) // inx
)

// Mode is an operand addressing mode.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_IMPLIED   = Mode(0) // implied
	MODE_IMMEDIATE = Mode(1) // immediate
)

// OperandLen returns the number of operand bytes that follow the opcode.
func (mode Mode) OperandLen() int {
	switch mode {
	case MODE_IMMEDIATE:
		return 1
	default:
		return 0
	}
}

// Instruction describes how a single opcode byte is decoded and executed.
type Instruction struct {
	Opcode   uint8    // Opcode byte.
	Mnemonic Mnemonic // Instruction name.
	Mode     Mode     // Addressing mode of the operand bytes.

	// exec performs the instruction, and returns true if the CPU halts.
	exec func(cpu *Cpu, operands []uint8) (halt bool)
}

// Len returns the encoded length of the instruction, in bytes.
func (ins *Instruction) Len() int {
	return 1 + ins.Mode.OperandLen()
}

// Format returns the assembly language form of the instruction.
func (ins *Instruction) Format(operands []uint8) string {
	switch ins.Mode {
	case MODE_IMMEDIATE:
		if len(operands) < 1 {
			return fmt.Sprintf("%v #", ins.Mnemonic)
		}
		return fmt.Sprintf("%v #$%02x", ins.Mnemonic, operands[0])
	default:
		return ins.Mnemonic.String()
	}
}

// instructionSet is the table of all implemented opcodes.
var instructionSet = [...]Instruction{
	{Opcode: 0x00, Mnemonic: MN_BRK, Mode: MODE_IMPLIED, exec: (*Cpu).brk},
	{Opcode: 0xa9, Mnemonic: MN_LDA, Mode: MODE_IMMEDIATE, exec: (*Cpu).lda},
	{Opcode: 0xaa, Mnemonic: MN_TAX, Mode: MODE_IMPLIED, exec: (*Cpu).tax},
	{Opcode: 0xe8, Mnemonic: MN_INX, Mode: MODE_IMPLIED, exec: (*Cpu).inx},
}

// opcodeTable maps an opcode byte to its instruction.
var opcodeTable [256]*Instruction

// mnemonicMap maps an instruction name to its mnemonic.
var mnemonicMap = map[string]Mnemonic{}

func init() {
	for n := range instructionSet {
		ins := &instructionSet[n]
		if opcodeTable[ins.Opcode] != nil {
			panic(fmt.Sprintf("opcode 0x%02x duplicated", ins.Opcode))
		}
		opcodeTable[ins.Opcode] = ins
		mnemonicMap[ins.Mnemonic.String()] = ins.Mnemonic
	}
}

// Decode returns the instruction for an opcode byte.
func Decode(opcode uint8) (ins *Instruction, ok bool) {
	ins = opcodeTable[opcode]
	ok = ins != nil
	return
}

// Lookup returns the instruction for a mnemonic in an addressing mode.
func Lookup(mnemonic Mnemonic, mode Mode) (ins *Instruction, ok bool) {
	for n := range instructionSet {
		if instructionSet[n].Mnemonic == mnemonic && instructionSet[n].Mode == mode {
			return &instructionSet[n], true
		}
	}
	return
}

// ParseMnemonic returns the mnemonic for an instruction name.
func ParseMnemonic(name string) (mnemonic Mnemonic, ok bool) {
	mnemonic, ok = mnemonicMap[name]
	return
}

// Instructions returns all of the implemented instructions, in table order.
func Instructions() iter.Seq[*Instruction] {
	return func(yield func(ins *Instruction) bool) {
		for n := range instructionSet {
			if !yield(&instructionSet[n]) {
				return
			}
		}
	}
}
