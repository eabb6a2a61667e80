// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

// Status is the processor status register.
//
// Only the Zero and Negative flags are defined. The remaining bits are
// reserved, and are never modified by instruction execution.
type Status uint8

const (
	FLAG_ZERO     = Status(0b0000_0010) // Z: result was zero.
	FLAG_NEGATIVE = Status(0b1000_0000) // N: bit 7 of the result was set.
)

// Zero returns true if the Zero flag is set.
func (st Status) Zero() bool {
	return st&FLAG_ZERO != 0
}

// Negative returns true if the Negative flag is set.
func (st Status) Negative() bool {
	return st&FLAG_NEGATIVE != 0
}

// SetZN updates the Zero and Negative flags from a result value.
func (st *Status) SetZN(value uint8) {
	if value == 0 {
		*st |= FLAG_ZERO
	} else {
		*st &^= FLAG_ZERO
	}

	if value&0x80 != 0 {
		*st |= FLAG_NEGATIVE
	} else {
		*st &^= FLAG_NEGATIVE
	}
}

// String returns the status register as a bit picture, MSB first.
// Defined flags are shown as letters, upper case when set.
func (st Status) String() string {
	var out [8]byte
	for n := range 8 {
		bit := Status(1 << (7 - n))
		set := st&bit != 0
		switch {
		case bit == FLAG_NEGATIVE && set:
			out[n] = 'N'
		case bit == FLAG_NEGATIVE:
			out[n] = 'n'
		case bit == FLAG_ZERO && set:
			out[n] = 'Z'
		case bit == FLAG_ZERO:
			out[n] = 'z'
		case set:
			out[n] = '1'
		default:
			out[n] = '0'
		}
	}
	return string(out[:])
}
