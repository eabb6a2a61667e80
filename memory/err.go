// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package memory

import (
	"github.com/ezrec/mos6502/translate"
)

var f = translate.From

// ErrAddressRange is an access that would run past the end of memory.
type ErrAddressRange struct {
	Addr int // Starting address of the access.
	Len  int // Length of the access, in bytes.
}

func (err *ErrAddressRange) Error() string {
	return f("address range 0x%04x+%v exceeds memory", err.Addr, err.Len)
}

func (err *ErrAddressRange) Is(target error) (ok bool) {
	_, ok = target.(*ErrAddressRange)
	return
}
