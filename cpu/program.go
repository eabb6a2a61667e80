// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location and generated bytes.
type Opcode struct {
	LineNo int      // Source line number.
	Addr   uint16   // Address of the first byte.
	Words  []string // Source words, after equate substitution.
	Bytes  []uint8  // Encoded bytes.
}

// Program is an assembled program listing.
type Program struct {
	Opcodes []Opcode
}

// Debug locates the listing entry covering an address.
type Debug struct {
	*Opcode
	Index int // Offset of the address within the Opcode's bytes.
}

// Debug returns the listing entry that covers addr.
// The returned Opcode is nil if no entry covers it.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(addr) >= int(op.Addr) && int(addr) < int(op.Addr)+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr - op.Addr),
			}
			break
		}
	}

	return
}

// Binary returns the program image, starting at ROM_BASE.
// Gaps between listing entries are zero filled.
func (prog *Program) Binary() (bins []uint8) {
	for addr, data := range prog.Codes() {
		offset := int(addr) - int(ROM_BASE)
		if offset < 0 {
			continue
		}
		for len(bins) <= offset {
			bins = append(bins, 0)
		}
		bins[offset] = data
	}

	return
}

// Codes yields each address and byte of the program.
func (prog *Program) Codes() iter.Seq2[uint16, uint8] {
	return func(yield func(addr uint16, data uint8) bool) {
		for _, op := range prog.Opcodes {
			for n, data := range op.Bytes {
				if !yield(op.Addr+uint16(n), data) {
					return
				}
			}
		}
	}
}
