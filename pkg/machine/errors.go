// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package machine

import (
	"errors"
	"fmt"
)

var (
	ErrReservedOpcode = errors.New("reserved opcode")
	ErrUnknownTrap    = errors.New("unknown trap vector")
	ErrNoDevice       = errors.New("no console device")
)

// Fault is an unrecoverable error raised by the instruction at Addr. The
// machine does not step again once it has reported one.
type Fault struct {
	Addr        uint16
	Instruction Instruction
	Err         error
}

func (fault *Fault) Error() string {
	return fmt.Sprintf(
		"fault at %#04x (%#04x %v): %v",
		fault.Addr, fault.Instruction.Word, fault.Instruction, fault.Err,
	)
}

func (fault *Fault) Unwrap() error {
	return fault.Err
}
