// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

// brk halts execution.
func (cpu *Cpu) brk(operands []uint8) (halt bool) {
	return true
}

// lda loads the accumulator.
func (cpu *Cpu) lda(operands []uint8) (halt bool) {
	cpu.A = operands[0]
	cpu.Status.SetZN(cpu.A)
	return
}

// tax transfers the accumulator to X.
func (cpu *Cpu) tax(operands []uint8) (halt bool) {
	cpu.X = cpu.A
	cpu.Status.SetZN(cpu.X)
	return
}

// inx increments X, wrapping at 256.
func (cpu *Cpu) inx(operands []uint8) (halt bool) {
	cpu.X++
	cpu.Status.SetZN(cpu.X)
	return
}
