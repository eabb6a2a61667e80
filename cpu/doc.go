// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package cpu implements the processor core and assembler for a subset of
// the MOS 6502 instruction set.
//
// The CPU consists of an 8-bit accumulator (A), an 8-bit index register (X),
// a status register holding the Zero and Negative flags, and a 16-bit
// program counter (PC), attached to a flat 64KiB memory. Programs are loaded
// at ROM_BASE, and execution begins at the address held in the reset vector.
//
// Instructions are decoded through a table mapping each opcode byte to its
// mnemonic, addressing mode and handler. Executing an opcode missing from the
// table stops the CPU with an ErrOpcode.
//
// The assembler provides a line oriented assembly language for the
// instruction set, supporting labels, equates, raw bytes, and compile-time
// expression evaluation.
package cpu
