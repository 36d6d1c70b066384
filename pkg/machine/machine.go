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
	"context"
	"fmt"
	"log/slog"

	"github.com/lassandro/lc3vm/pkg/image"
)

// New returns a running machine with img loaded and the program counter at
// its origin. dev is shared, not owned: the machine never closes it.
func New(img *image.Image, dev Device) *Machine {
	mc := &Machine{Device: dev}
	mc.Reset()

	if img != nil {
		mc.Memory.Load(img)
		mc.Registers.SetPC(img.Origin)
	}

	return mc
}

func (mc *Machine) Reset() {
	mc.Registers.Reset()
	mc.Memory.Reset()
	mc.Memory.Keyboard = mc.Device
	mc.status = StatusRunning
	mc.cycles = 0
}

func (mc *Machine) Status() Status {
	return mc.status
}

func (mc *Machine) Halted() bool {
	return mc.status == StatusHalted
}

// Cycles returns the number of instructions executed so far.
func (mc *Machine) Cycles() uint64 {
	return mc.cycles
}

// Step executes one instruction. Once the machine has halted or faulted it
// does nothing; a fault is returned only by the step that caused it.
func (mc *Machine) Step() (Status, error) {
	if mc.status != StatusRunning {
		return mc.status, nil
	}

	if mc.Memory.Keyboard == nil && mc.Device != nil {
		mc.Memory.Keyboard = mc.Device
	}

	addr := mc.Registers.PC()
	in := Decode(mc.Memory.Read(addr))

	mc.Registers.SetPC(addr + 1)
	mc.cycles++

	if mc.Logger != nil {
		mc.Logger.Debug("step",
			slog.String("pc", fmt.Sprintf("%#04x", addr)),
			slog.String("instr", fmt.Sprintf("%#04x", in.Word)),
			slog.String("op", in.String()),
		)
	}

	if err := mc.execute(in); err != nil {
		mc.status = StatusFaulted
		fault := &Fault{Addr: addr, Instruction: in, Err: err}

		if mc.Logger != nil {
			mc.Logger.Error("fault", slog.String("err", fault.Error()))
		}

		return mc.status, fault
	}

	if mc.status == StatusHalted && mc.Logger != nil {
		mc.Logger.Debug("halt",
			slog.String("pc", fmt.Sprintf("%#04x", addr)),
			slog.Uint64("cycles", mc.cycles),
		)
	}

	return mc.status, nil
}

// Run steps until the machine halts, faults, or ctx is done.
func (mc *Machine) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		status, err := mc.Step()

		if err != nil {
			return err
		} else if status != StatusRunning {
			return nil
		}
	}
}

func (mc *Machine) execute(in Instruction) error {
	rf := &mc.Registers

	switch in.Opcode {
	// ADD  |0001    |DR   |SR1  |0|00 |SR2   | Register  addition
	// ADD  |0001    |DR   |SR1  |1|imm5      | Immediate addition
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_ADD:
		if in.Imm {
			rf.Set(in.Dest, rf.Get(in.Src1)+in.Imm5)
		} else {
			rf.Set(in.Dest, rf.Get(in.Src1)+rf.Get(in.Src2))
		}

		rf.SetFlags(rf.Get(in.Dest))

	// AND  |0101    |DR   |SR1  |0|00 |SR2   | Register  bitwise
	// AND  |0101    |DR   |SR1  |1|imm5      | Immediate bitwise
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_AND:
		if in.Imm {
			rf.Set(in.Dest, rf.Get(in.Src1)&in.Imm5)
		} else {
			rf.Set(in.Dest, rf.Get(in.Src1)&rf.Get(in.Src2))
		}

		rf.SetFlags(rf.Get(in.Dest))

	// BR   |0000    |N|Z|P|PCoffset9         | Conditional branch
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_BR:
		if in.Cond&rf.Flags() != 0 {
			rf.SetPC(rf.PC() + in.Off9)
		}

	// JMP  |1100    |000  |BaseR|000000      | Jump
	// RET  |1100    |000  |111  |000000      | Return
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_JMP:
		rf.SetPC(rf.Get(in.Src1))

	// JSR  |0100    |1|PCoffset11            | Jump to subroutine
	// JSRR |0100    |0|00 |BaseR|000000      | Jump to subroutine register
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_JSR:
		// Read BaseR first so JSRR R7 jumps to the old R7
		target := rf.Get(in.Src1)
		if in.Long {
			target = rf.PC() + in.Off11
		}

		rf.Set(7, rf.PC())
		rf.SetPC(target)

	// LD   |0010    |DR   |PCoffset9         | Load
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LD:
		rf.Set(in.Dest, mc.Memory.Read(rf.PC()+in.Off9))
		rf.SetFlags(rf.Get(in.Dest))

	// LDI  |1010    |DR   |PCoffset9         | Load indirect
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LDI:
		rf.Set(in.Dest, mc.Memory.Read(mc.Memory.Read(rf.PC()+in.Off9)))
		rf.SetFlags(rf.Get(in.Dest))

	// LDR  |0110    |DR   |BaseR|offset6     | Load base+offset
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LDR:
		rf.Set(in.Dest, mc.Memory.Read(rf.Get(in.Src1)+in.Off6))
		rf.SetFlags(rf.Get(in.Dest))

	// LEA  |1110    |DR   |PCoffset9         | Load effective address
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LEA:
		rf.Set(in.Dest, rf.PC()+in.Off9)
		rf.SetFlags(rf.Get(in.Dest))

	// NOT  |1001    |DR   |SR   |1|11111     | Bitwise complement
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_NOT:
		rf.Set(in.Dest, ^rf.Get(in.Src1))
		rf.SetFlags(rf.Get(in.Dest))

	// ST   |0011    |SR   |PCoffset9         | Store
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_ST:
		mc.Memory.Write(rf.PC()+in.Off9, rf.Get(in.Dest))

	// STI  |1011    |SR   |PCoffset9         | Store indirect
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_STI:
		mc.Memory.Write(mc.Memory.Read(rf.PC()+in.Off9), rf.Get(in.Dest))

	// STR  |0111    |SR   |BaseR|offset6     | Store base+offset
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_STR:
		mc.Memory.Write(rf.Get(in.Src1)+in.Off6, rf.Get(in.Dest))

	// TRAP |1111    |0000   |trapvect8       | System call
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_TRAP:
		return mc.trap(in.Trap)

	// RTI  |1000    |000000000000            | Return from interrupt
	// RES  |1101    |                        | Reserved (illegal)
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	default:
		return ErrReservedOpcode
	}

	return nil
}
