// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/mos6502/memory"
)

// Memory layout constants.
const (
	ROM_BASE     = uint16(0x8000)              // Load address of program images.
	ROM_SIZE     = memory.MEMORY_SIZE - 0x8000 // Largest program image, in bytes.
	RESET_VECTOR = uint16(0xfffc)              // Address of the 16-bit reset vector.
)

var _cpu_defines = map[string]string{
	"ROM_BASE":      fmt.Sprintf("0x%04x", ROM_BASE),
	"ROM_SIZE":      fmt.Sprintf("0x%04x", ROM_SIZE),
	"RESET_VECTOR":  fmt.Sprintf("0x%04x", RESET_VECTOR),
	"FLAG_ZERO":     fmt.Sprintf("0x%02x", uint8(FLAG_ZERO)),
	"FLAG_NEGATIVE": fmt.Sprintf("0x%02x", uint8(FLAG_NEGATIVE)),
}

// Cpu is the simulation context for the processor and its memory.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	A      uint8  // Accumulator.
	X      uint8  // Index register X.
	Status Status // Processor status flags.
	PC     uint16 // Program counter.

	Memory *memory.Memory // Address space owned by this CPU.

	Ticks int // Instructions retired since reset.

	loaded bool // Set once a program image has been loaded.
}

// NewCpu creates a new CPU with zeroed registers and memory.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Memory: &memory.Memory{},
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %04X\n", "pc", cpu.PC)
	text += fmt.Sprintf("% 5s: %02X\n", "a", cpu.A)
	text += fmt.Sprintf("% 5s: %02X\n", "x", cpu.X)
	text += fmt.Sprintf("% 5s: %v\n", "p", cpu.Status)
	text += fmt.Sprintf("% 5s: %v\n", "ticks", cpu.Ticks)

	return
}

// Load copies a program image to ROM_BASE, and points the reset vector at it.
// The registers are not modified. Memory is allocated if the CPU has none.
func (cpu *Cpu) Load(program []uint8) (err error) {
	if cpu.Memory == nil {
		cpu.Memory = &memory.Memory{}
	}

	if len(program) > ROM_SIZE {
		err = errors.Join(ErrImageTooLarge, &memory.ErrAddressRange{Addr: int(ROM_BASE), Len: len(program)})
		return
	}

	err = cpu.Memory.LoadBlock(ROM_BASE, program)
	if err != nil {
		err = errors.Join(ErrImageTooLarge, err)
		return
	}

	err = cpu.Memory.Write16(RESET_VECTOR, ROM_BASE)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: loaded %v bytes at 0x%04x", len(program), ROM_BASE)
	}

	cpu.loaded = true

	return
}

// Reset the CPU state.
// - Clears the A, X and status registers.
// - Zeros the tick counter.
// - Sets the program counter from the reset vector.
func (cpu *Cpu) Reset() (err error) {
	if !cpu.loaded {
		err = ErrNotLoaded
		return
	}

	pc, err := cpu.Memory.Read16(RESET_VECTOR)
	if err != nil {
		return
	}

	cpu.A = 0
	cpu.X = 0
	cpu.Status = 0
	cpu.Ticks = 0
	cpu.PC = pc

	if cpu.Verbose {
		log.Printf("cpu: reset, pc 0x%04x", cpu.PC)
	}

	return
}

// fetch reads the byte at the program counter, and advances it.
func (cpu *Cpu) fetch() (value uint8) {
	value = cpu.Memory.Read8(cpu.PC)
	cpu.PC++
	return
}

// Step executes a single instruction.
// On an undefined opcode, only the opcode fetch has modified the CPU state.
func (cpu *Cpu) Step() (halted bool, err error) {
	if !cpu.loaded {
		err = ErrNotLoaded
		return
	}

	pc := cpu.PC
	opcode := cpu.fetch()

	ins, ok := Decode(opcode)
	if !ok {
		err = &ErrOpcode{Opcode: opcode, PC: pc}
		return
	}

	var operands [2]uint8
	for n := range ins.Mode.OperandLen() {
		operands[n] = cpu.fetch()
	}
	args := operands[:ins.Mode.OperandLen()]

	if cpu.Verbose {
		log.Printf("%04x: %v", pc, ins.Format(args))
	}

	halted = ins.exec(cpu, args)
	cpu.Ticks++

	return
}

// Run executes instructions until the CPU halts.
func (cpu *Cpu) Run() (err error) {
	for {
		var halted bool
		halted, err = cpu.Step()
		if err != nil || halted {
			return
		}
	}
}

// RunFor executes at most budget instructions.
// If the budget is exhausted before the CPU halts, halted is false and err is nil.
func (cpu *Cpu) RunFor(budget int) (halted bool, err error) {
	for range budget {
		halted, err = cpu.Step()
		if err != nil || halted {
			return
		}
	}

	return
}

// LoadAndRun loads a program, resets the CPU, and runs until halted.
func (cpu *Cpu) LoadAndRun(program []uint8) (err error) {
	err = cpu.Load(program)
	if err != nil {
		return
	}

	err = cpu.Reset()
	if err != nil {
		return
	}

	err = cpu.Run()

	return
}
