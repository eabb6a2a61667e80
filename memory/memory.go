// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory implements the flat 64KiB address space of the processor.
//
// Every 16-bit address is valid for byte access. Word access is little
// endian, with the low byte at the lower address.
package memory

import (
	"fmt"
	"iter"
	"maps"
)

const (
	MEMORY_SIZE = 0x10000 // Size of the address space, in bytes.
)

var _memory_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("0x%x", MEMORY_SIZE),
}

// Memory is a flat, byte addressable memory.
type Memory struct {
	Data [MEMORY_SIZE]uint8
}

// Defines for the memory.
func (mem *Memory) Defines() iter.Seq2[string, string] {
	return maps.All(_memory_defines)
}

// Reset zero fills the memory.
func (mem *Memory) Reset() {
	clear(mem.Data[:])
}

// checkRange verifies that size bytes starting at addr are in memory.
func checkRange(addr uint16, size int) (err error) {
	if int(addr)+size > MEMORY_SIZE {
		err = &ErrAddressRange{Addr: int(addr), Len: size}
	}
	return
}

// Read8 returns the byte at addr.
func (mem *Memory) Read8(addr uint16) uint8 {
	return mem.Data[addr]
}

// Write8 stores value at addr.
func (mem *Memory) Write8(addr uint16, value uint8) {
	mem.Data[addr] = value
}

// Read16 returns the little endian word at addr.
func (mem *Memory) Read16(addr uint16) (value uint16, err error) {
	err = checkRange(addr, 2)
	if err != nil {
		return
	}

	lo := uint16(mem.Read8(addr))
	hi := uint16(mem.Read8(addr + 1))
	value = (hi << 8) | lo

	return
}

// Write16 stores value as a little endian word at addr.
// Nothing is written if the word would not fit.
func (mem *Memory) Write16(addr uint16, value uint16) (err error) {
	err = checkRange(addr, 2)
	if err != nil {
		return
	}

	mem.Write8(addr, uint8(value&0xff))
	mem.Write8(addr+1, uint8(value>>8))

	return
}

// LoadBlock copies data into memory starting at base.
// Nothing is written if data would run past the end of memory.
func (mem *Memory) LoadBlock(base uint16, data []uint8) (err error) {
	err = checkRange(base, len(data))
	if err != nil {
		return
	}

	copy(mem.Data[base:], data)

	return
}
