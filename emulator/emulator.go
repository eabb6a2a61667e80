// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/mos6502/cpu"
	"github.com/ezrec/mos6502/internal"
)

const (
	DEFAULT_BUDGET = 1 << 20 // Default instruction budget for a run.
)

var _emulator_defines = map[string]string{
	"DEFAULT_BUDGET": fmt.Sprintf("%v", DEFAULT_BUDGET),
}

// Emulator state. CPU + memory + program listing.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines, in name order.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.Sorted2(internal.Concat2(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Cpu.Memory.Defines(),
	))
}

// Assemble replaces the program with one assembled from source text.
// All of the emulator defines are available to the source.
func (emu *Emulator) Assemble(input io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog

	return
}

// SetBinary replaces the program with a raw image loaded at ROM_BASE.
func (emu *Emulator) SetBinary(image []uint8) {
	emu.Program = &cpu.Program{
		Opcodes: []cpu.Opcode{
			{Addr: cpu.ROM_BASE, Bytes: image},
		},
	}
}

// Reset clears memory, loads the program into it, and resets the CPU.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Memory.Reset()

	err = emu.Cpu.Load(emu.Program.Binary())
	if err != nil {
		return
	}

	err = emu.Cpu.Reset()
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: reset, %v listing lines", len(emu.Program.Opcodes))
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Code returns the instruction at the program counter.
func (emu *Emulator) Code() (ins *cpu.Instruction, ok bool) {
	return cpu.Decode(emu.Cpu.Memory.Read8(emu.Cpu.PC))
}

// LineNo returns the current line number for the executing opcode.
// Zero is returned when the program counter is outside of the listing.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.PC)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single instruction of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	done, err = emu.Cpu.Step()

	return
}

// Run ticks the emulator until the program halts, or until budget
// instructions have executed. A budget of zero or less is unlimited.
func (emu *Emulator) Run(budget int) (done bool, err error) {
	for n := 0; budget <= 0 || n < budget; n++ {
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}

	if emu.Verbose {
		log.Printf("emulator: budget of %v exhausted", budget)
	}

	err = &ErrRuntime{LineNo: emu.LineNo(), Err: ErrBudget}
	return
}
