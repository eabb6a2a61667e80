package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/mos6502/memory"
)

func TestCpu(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()

	assert.False(cpu.Verbose)
	assert.NotNil(cpu.Memory)
	assert.Equal(uint8(0), cpu.A)
	assert.Equal(uint8(0), cpu.X)
	assert.Equal(Status(0), cpu.Status)
	assert.Equal(uint16(0), cpu.PC)
}

func TestCpuLoadAndRun(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		program  []uint8
		a        uint8
		x        uint8
		zero     bool
		negative bool
	}){
		{"lda_immediate", []uint8{0xa9, 0x05, 0x00}, 0x05, 0x00, false, false},
		{"lda_zero", []uint8{0xa9, 0x00, 0x00}, 0x00, 0x00, true, false},
		{"lda_negative", []uint8{0xa9, 0x80, 0x00}, 0x80, 0x00, false, true},
		{"lda_0x7f", []uint8{0xa9, 0x7f, 0x00}, 0x7f, 0x00, false, false},
		{"lda_0xff", []uint8{0xa9, 0xff, 0x00}, 0xff, 0x00, false, true},
		{"lda_twice", []uint8{0xa9, 0x00, 0xa9, 0x42, 0x00}, 0x42, 0x00, false, false},
		{"tax", []uint8{0xa9, 0x90, 0xaa, 0x00}, 0x90, 0x90, false, true},
		{"tax_zero", []uint8{0xaa, 0x00}, 0x00, 0x00, true, false},
		{"inx", []uint8{0xe8, 0x00}, 0x00, 0x01, false, false},
		{"ops_working_together", []uint8{0xa9, 0xc0, 0xaa, 0xe8, 0x00}, 0xc0, 0xc1, false, true},
		{"inx_to_negative", []uint8{0xa9, 0x7f, 0xaa, 0xe8, 0x00}, 0x7f, 0x80, false, true},
		{"brk_only", []uint8{0x00}, 0x00, 0x00, false, false},
	}

	for _, entry := range table {
		cpu := NewCpu()
		err := cpu.LoadAndRun(entry.program)
		assert.NoError(err, entry.name)
		assert.Equal(entry.a, cpu.A, entry.name)
		assert.Equal(entry.x, cpu.X, entry.name)
		assert.Equal(entry.zero, cpu.Status.Zero(), entry.name)
		assert.Equal(entry.negative, cpu.Status.Negative(), entry.name)
		assert.Equal(entry.zero, cpu.Status&0b0000_0010 == 0b10, entry.name)
		assert.Equal(entry.negative, cpu.Status&0b1000_0000 != 0, entry.name)
	}
}

func TestCpuTax(t *testing.T) {
	assert := assert.New(t)

	for _, value := range []uint8{0x00, 0x01, 0x0a, 0x7f, 0x80, 0xff} {
		cpu := NewCpu()

		err := cpu.Load([]uint8{0xaa, 0x00})
		assert.NoError(err)
		err = cpu.Reset()
		assert.NoError(err)

		// Flags must come from A, not the prior X.
		cpu.A = value
		cpu.X = ^value | 1
		err = cpu.Run()
		assert.NoError(err)

		assert.Equal(value, cpu.X)
		assert.Equal(value == 0, cpu.Status.Zero())
		assert.Equal(value >= 0x80, cpu.Status.Negative())
	}
}

func TestCpuInxOverflow(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()

	err := cpu.Load([]uint8{0xe8, 0x00})
	assert.NoError(err)
	err = cpu.Reset()
	assert.NoError(err)

	cpu.X = 0xff
	err = cpu.Run()
	assert.NoError(err)
	assert.Equal(uint8(0x00), cpu.X)
	assert.True(cpu.Status.Zero())
	assert.False(cpu.Status.Negative())

	err = cpu.Load([]uint8{0xe8, 0xe8, 0x00})
	assert.NoError(err)
	err = cpu.Reset()
	assert.NoError(err)

	cpu.X = 0xff
	err = cpu.Run()
	assert.NoError(err)
	assert.Equal(uint8(0x01), cpu.X)
	assert.False(cpu.Status.Zero())
}

func TestCpuHalt(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []uint8
		pc      uint16
		ticks   int
	}){
		{"brk", []uint8{0x00}, ROM_BASE + 1, 1},
		{"lda_brk", []uint8{0xa9, 0x05, 0x00}, ROM_BASE + 3, 2},
		{"lda_zero_operand", []uint8{0xa9, 0x00, 0x00, 0xa9, 0x01}, ROM_BASE + 3, 2},
		{"composite", []uint8{0xa9, 0xc0, 0xaa, 0xe8, 0x00}, ROM_BASE + 5, 4},
		{"trailing_bytes", []uint8{0xe8, 0x00, 0xff, 0xff}, ROM_BASE + 2, 2},
	}

	for _, entry := range table {
		cpu := NewCpu()
		err := cpu.LoadAndRun(entry.program)
		assert.NoError(err, entry.name)
		assert.Equal(entry.pc, cpu.PC, entry.name)
		assert.Equal(entry.ticks, cpu.Ticks, entry.name)
	}
}

func TestCpuReset(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()

	err := cpu.Reset()
	assert.ErrorIs(err, ErrNotLoaded)

	_, err = cpu.Step()
	assert.ErrorIs(err, ErrNotLoaded)

	err = cpu.Run()
	assert.ErrorIs(err, ErrNotLoaded)

	err = cpu.Load([]uint8{0xa9, 0xc0, 0xaa, 0xe8, 0x00})
	assert.NoError(err)
	assert.Equal(uint16(0), cpu.PC)

	vector, err := cpu.Memory.Read16(RESET_VECTOR)
	assert.NoError(err)
	assert.Equal(ROM_BASE, vector)

	for range 3 {
		err = cpu.Reset()
		assert.NoError(err)
		assert.Equal(uint8(0), cpu.A)
		assert.Equal(uint8(0), cpu.X)
		assert.Equal(Status(0), cpu.Status)
		assert.Equal(ROM_BASE, cpu.PC)
		assert.Equal(0, cpu.Ticks)

		err = cpu.Run()
		assert.NoError(err)
		assert.Equal(uint8(0xc1), cpu.X)
		assert.NotEqual(ROM_BASE, cpu.PC)
	}
}

func TestCpuLoad(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.A = 0x12
	cpu.X = 0x34
	cpu.PC = 0x5678

	err := cpu.Load([]uint8{0xa9, 0x05, 0x00})
	assert.NoError(err)
	assert.Equal(uint8(0x12), cpu.A)
	assert.Equal(uint8(0x34), cpu.X)
	assert.Equal(uint16(0x5678), cpu.PC)
	assert.Equal(uint8(0xa9), cpu.Memory.Read8(0x8000))
	assert.Equal(uint8(0x05), cpu.Memory.Read8(0x8001))
	assert.Equal(uint8(0x00), cpu.Memory.Read8(0xfffc))
	assert.Equal(uint8(0x80), cpu.Memory.Read8(0xfffd))

	// Largest image.
	err = cpu.Load(make([]uint8, ROM_SIZE))
	assert.NoError(err)

	// Too large, and nothing is written.
	cpu = NewCpu()
	image := make([]uint8, ROM_SIZE+1)
	for n := range image {
		image[n] = 0xea
	}
	err = cpu.Load(image)
	assert.ErrorIs(err, ErrImageTooLarge)
	assert.ErrorIs(err, &memory.ErrAddressRange{})
	assert.Equal(uint8(0), cpu.Memory.Read8(ROM_BASE))
	assert.Equal(uint8(0), cpu.Memory.Read8(RESET_VECTOR))

	err = cpu.Reset()
	assert.ErrorIs(err, ErrNotLoaded)
}

func TestCpuOpcodeUnimplemented(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()

	err := cpu.LoadAndRun([]uint8{0xa9, 0x05, 0xff, 0x00})
	assert.Error(err)
	assert.ErrorIs(err, &ErrOpcode{})

	var opcode_err *ErrOpcode
	assert.True(errors.As(err, &opcode_err))
	assert.Equal(uint8(0xff), opcode_err.Opcode)
	assert.Equal(ROM_BASE+2, opcode_err.PC)

	// Registers retain the state before the bad opcode.
	assert.Equal(uint8(0x05), cpu.A)
	assert.Equal(1, cpu.Ticks)
	assert.Equal(ROM_BASE+3, cpu.PC)

	assert.Contains(err.Error(), "0xff")
	assert.Contains(err.Error(), "0x8002")
}

func TestCpuRunFor(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()

	err := cpu.Load([]uint8{0xe8, 0xe8, 0xe8, 0xe8, 0x00})
	assert.NoError(err)
	err = cpu.Reset()
	assert.NoError(err)

	halted, err := cpu.RunFor(2)
	assert.NoError(err)
	assert.False(halted)
	assert.Equal(uint8(2), cpu.X)
	assert.Equal(ROM_BASE+2, cpu.PC)

	halted, err = cpu.RunFor(0)
	assert.NoError(err)
	assert.False(halted)
	assert.Equal(uint8(2), cpu.X)

	halted, err = cpu.RunFor(100)
	assert.NoError(err)
	assert.True(halted)
	assert.Equal(uint8(4), cpu.X)
	assert.Equal(5, cpu.Ticks)
	assert.Equal(ROM_BASE+5, cpu.PC)
}

func TestCpuStatusReserved(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()

	err := cpu.Load([]uint8{0xa9, 0x00, 0xaa, 0xe8, 0xa9, 0x80, 0x00})
	assert.NoError(err)
	err = cpu.Reset()
	assert.NoError(err)

	reserved := Status(0b0111_1101)
	cpu.Status = reserved
	err = cpu.Run()
	assert.NoError(err)
	assert.Equal(reserved, cpu.Status&reserved)
	assert.True(cpu.Status.Negative())
	assert.False(cpu.Status.Zero())
}

func TestCpuProgramCounterWrap(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()

	err := cpu.Load([]uint8{0x00})
	assert.NoError(err)
	err = cpu.Reset()
	assert.NoError(err)

	// lda #$33 straddling the end of memory, then brk at 0x0001.
	cpu.Memory.Write8(0xffff, 0xa9)
	cpu.Memory.Write8(0x0000, 0x33)
	cpu.PC = 0xffff
	err = cpu.Run()
	assert.NoError(err)
	assert.Equal(uint8(0x33), cpu.A)
	assert.Equal(uint16(0x0002), cpu.PC)
}

func TestCpuIndependent(t *testing.T) {
	assert := assert.New(t)

	a := NewCpu()
	b := NewCpu()

	assert.NoError(a.LoadAndRun([]uint8{0xa9, 0x11, 0x00}))
	assert.NoError(b.LoadAndRun([]uint8{0xa9, 0x22, 0x00}))

	assert.Equal(uint8(0x11), a.A)
	assert.Equal(uint8(0x22), b.A)
	assert.Equal(uint8(0x11), a.Memory.Read8(ROM_BASE+1))
}

func TestCpuString(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	err := cpu.LoadAndRun([]uint8{0xa9, 0xc0, 0xaa, 0xe8, 0x00})
	assert.NoError(err)

	text := cpu.String()
	assert.Contains(text, "   pc: 8005\n")
	assert.Contains(text, "    a: C0\n")
	assert.Contains(text, "    x: C1\n")
	assert.Contains(text, "    p: N00000z0\n")
}

func TestCpuDefines(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	defines := map[string]string{}
	for key, value := range cpu.Defines() {
		defines[key] = value
	}

	assert.Equal("0x8000", defines["ROM_BASE"])
	assert.Equal("0x8000", defines["ROM_SIZE"])
	assert.Equal("0xfffc", defines["RESET_VECTOR"])
	assert.Equal("0x02", defines["FLAG_ZERO"])
	assert.Equal("0x80", defines["FLAG_NEGATIVE"])
}

func TestCpuZeroValue(t *testing.T) {
	assert := assert.New(t)

	cpu := &Cpu{}

	err := cpu.Reset()
	assert.ErrorIs(err, ErrNotLoaded)

	err = cpu.LoadAndRun([]uint8{0xa9, 0xc0, 0xaa, 0xe8, 0x00})
	assert.NoError(err)
	assert.NotNil(cpu.Memory)
	assert.Equal(uint8(0xc1), cpu.X)
	assert.Equal(ROM_BASE+5, cpu.PC)
}
