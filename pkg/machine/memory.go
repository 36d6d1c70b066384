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
	"github.com/lassandro/lc3vm/pkg/image"
)

// Memory is the full 16-bit word address space. KBSR and KBDR are refreshed
// from Keyboard whenever KBSR is read; every other address is plain storage.
type Memory struct {
	Keyboard Keyboard
	Cells    [MEMORY_SIZE]uint16
}

func (mem *Memory) Read(addr uint16) uint16 {
	if addr == DEV_KBSR {
		mem.pollKeyboard()
	}

	return mem.Cells[addr]
}

func (mem *Memory) Write(addr uint16, value uint16) {
	mem.Cells[addr] = value
}

// Load copies img into memory at its origin. The program counter is left
// alone.
func (mem *Memory) Load(img *image.Image) {
	copy(mem.Cells[img.Origin:], img.Words)
}

func (mem *Memory) Reset() {
	for i := range mem.Cells {
		mem.Cells[i] = 0x0000
	}
}

func (mem *Memory) pollKeyboard() {
	if mem.Keyboard != nil && mem.Keyboard.KeyAvailable() {
		if key, ok := mem.Keyboard.ReadChar(0); ok {
			mem.Cells[DEV_KBSR] |= 1 << 15
			mem.Cells[DEV_KBDR] = uint16(key)
			return
		}
	}

	mem.Cells[DEV_KBSR] &^= 1 << 15
}
