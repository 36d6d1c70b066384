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

import "fmt"

// TrapVector is the 8-bit service code of a TRAP instruction. Only
// TRAP_GETC through TRAP_HALT are serviced; any other vector faults.
type TrapVector uint8

func (tv TrapVector) Known() bool {
	return tv >= TRAP_GETC && tv <= TRAP_HALT
}

func (tv TrapVector) String() string {
	switch tv {
	case TRAP_GETC:
		return "GETC"
	case TRAP_OUT:
		return "OUT"
	case TRAP_PUTS:
		return "PUTS"
	case TRAP_IN:
		return "IN"
	case TRAP_PUTSP:
		return "PUTSP"
	case TRAP_HALT:
		return "HALT"
	default:
		return fmt.Sprintf("x%02X", uint8(tv))
	}
}

func (mc *Machine) trap(vector TrapVector) error {
	if !vector.Known() {
		return ErrUnknownTrap
	}

	if vector == TRAP_HALT {
		mc.status = StatusHalted
		if mc.Device == nil {
			return nil
		}
		return mc.Device.Flush()
	}

	if mc.Device == nil {
		return ErrNoDevice
	}

	switch vector {
	// Read one character into R0, no echo
	case TRAP_GETC:
		mc.Registers.Set(0, uint16(mc.readChar()))

	// Write the low byte of R0
	case TRAP_OUT:
		if err := mc.Device.WriteChar(byte(mc.Registers.Get(0))); err != nil {
			return err
		}
		return mc.Device.Flush()

	// One character per word from R0 up to a zero word
	case TRAP_PUTS:
		for addr := mc.Registers.Get(0); ; addr++ {
			value := mc.Memory.Read(addr)
			if value == 0 {
				break
			}

			if err := mc.Device.WriteChar(byte(value)); err != nil {
				return err
			}
		}
		return mc.Device.Flush()

	// Prompt, then read one character into R0 and echo it
	case TRAP_IN:
		for i := 0; i < len(IN_PROMPT); i++ {
			if err := mc.Device.WriteChar(IN_PROMPT[i]); err != nil {
				return err
			}
		}
		if err := mc.Device.Flush(); err != nil {
			return err
		}

		key := mc.readChar()
		mc.Registers.Set(0, uint16(key))

		if err := mc.Device.WriteChar(key); err != nil {
			return err
		}
		return mc.Device.Flush()

	// Two characters per word, low byte first, from R0 up to a zero word
	case TRAP_PUTSP:
		for addr := mc.Registers.Get(0); ; addr++ {
			value := mc.Memory.Read(addr)
			if value == 0 {
				break
			}

			if err := mc.Device.WriteChar(byte(value)); err != nil {
				return err
			}

			if high := byte(value >> 8); high != 0 {
				if err := mc.Device.WriteChar(high); err != nil {
					return err
				}
			}
		}
		return mc.Device.Flush()
	}

	return nil
}

// A timed out or exhausted keyboard reads as NUL.
func (mc *Machine) readChar() byte {
	timeout := mc.Timeout
	if timeout <= 0 {
		timeout = DEFAULT_TIMEOUT
	}

	key, ok := mc.Device.ReadChar(timeout)
	if !ok {
		return 0
	}

	return key
}
