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
	"fmt"

	"github.com/lassandro/lc3vm/pkg/encoding"
)

type Opcode uint16

var opcodeNames = [16]string{
	OP_BR:   "BR",
	OP_ADD:  "ADD",
	OP_LD:   "LD",
	OP_ST:   "ST",
	OP_JSR:  "JSR",
	OP_AND:  "AND",
	OP_LDR:  "LDR",
	OP_STR:  "STR",
	OP_RTI:  "RTI",
	OP_NOT:  "NOT",
	OP_LDI:  "LDI",
	OP_STI:  "STI",
	OP_JMP:  "JMP",
	OP_RES:  "RES",
	OP_LEA:  "LEA",
	OP_TRAP: "TRAP",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}

	return fmt.Sprintf("Opcode(%d)", uint16(op))
}

// Reserved reports whether executing op is an illegal instruction.
func (op Opcode) Reserved() bool {
	return op == OP_RTI || op == OP_RES
}

// Instruction holds every operand field of a word. Which of them mean
// anything depends on Opcode; the offsets are already sign extended.
type Instruction struct {
	Word   uint16
	Opcode Opcode

	Dest  uint16 // DR, or SR for ST/STI/STR
	Src1  uint16 // SR1, SR or BaseR
	Src2  uint16
	Cond  uint16 // n|z|p mask for BR
	Imm   bool   // immediate form of ADD/AND
	Long  bool   // JSR rather than JSRR
	Imm5  uint16
	Off6  uint16
	Off9  uint16
	Off11 uint16
	Trap  TrapVector
}

// Decode splits a word into its fields. Every word decodes; reserved
// opcodes are only rejected when executed.
func Decode(word uint16) Instruction {
	return Instruction{
		Word:   word,
		Opcode: Opcode(word >> 12),
		Dest:   (word >> 9) & 0x7,
		Src1:   (word >> 6) & 0x7,
		Src2:   word & 0x7,
		Cond:   (word >> 9) & 0x7,
		Imm:    (word>>5)&0x1 == 1,
		Long:   (word>>11)&0x1 == 1,
		Imm5:   encoding.SignExtend(word, 5),
		Off6:   encoding.SignExtend(word, 6),
		Off9:   encoding.SignExtend(word, 9),
		Off11:  encoding.SignExtend(word, 11),
		Trap:   TrapVector(encoding.ZeroExtend(word, 8)),
	}
}

func (in Instruction) String() string {
	switch in.Opcode {
	case OP_ADD, OP_AND:
		if in.Imm {
			return fmt.Sprintf(
				"%v R%d, R%d, #%d", in.Opcode, in.Dest, in.Src1, int16(in.Imm5),
			)
		}
		return fmt.Sprintf("%v R%d, R%d, R%d", in.Opcode, in.Dest, in.Src1, in.Src2)
	case OP_NOT:
		return fmt.Sprintf("NOT R%d, R%d", in.Dest, in.Src1)
	case OP_BR:
		mask := ""
		for i, c := range "nzp" {
			if in.Cond&(0x4>>i) != 0 {
				mask += string(c)
			}
		}
		return fmt.Sprintf("BR%s #%d", mask, int16(in.Off9))
	case OP_JMP:
		if in.Src1 == 7 {
			return "RET"
		}
		return fmt.Sprintf("JMP R%d", in.Src1)
	case OP_JSR:
		if in.Long {
			return fmt.Sprintf("JSR #%d", int16(in.Off11))
		}
		return fmt.Sprintf("JSRR R%d", in.Src1)
	case OP_LD, OP_LDI, OP_LEA, OP_ST, OP_STI:
		return fmt.Sprintf("%v R%d, #%d", in.Opcode, in.Dest, int16(in.Off9))
	case OP_LDR, OP_STR:
		return fmt.Sprintf(
			"%v R%d, R%d, #%d", in.Opcode, in.Dest, in.Src1, int16(in.Off6),
		)
	case OP_TRAP:
		return fmt.Sprintf("TRAP %v", in.Trap)
	default:
		return fmt.Sprintf("%v %#04x", in.Opcode, in.Word)
	}
}
