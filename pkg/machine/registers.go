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

// Registers is the register file: R0-R7, the program counter and the
// N/Z/P condition register.
type Registers struct {
	General   [8]uint16
	Program   uint16
	Condition uint16
}

func (rf *Registers) Get(r uint16) uint16 {
	return rf.General[r&0x7]
}

func (rf *Registers) Set(r uint16, value uint16) {
	rf.General[r&0x7] = value
}

func (rf *Registers) PC() uint16 {
	return rf.Program
}

func (rf *Registers) SetPC(value uint16) {
	rf.Program = value
}

// SetFlags replaces the condition register with exactly one of N, Z or P,
// chosen by the sign of value.
func (rf *Registers) SetFlags(value uint16) {
	if value == 0 {
		rf.Condition = FLAG_ZERO
	} else if value>>15 == 1 {
		rf.Condition = FLAG_NEG
	} else {
		rf.Condition = FLAG_POS
	}
}

func (rf *Registers) Flags() uint16 {
	return rf.Condition
}

func (rf *Registers) Reset() {
	rf.General = [8]uint16{}
	rf.Program = MEMSPACE_USER
	rf.Condition = FLAG_ZERO
}
