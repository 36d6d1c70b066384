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

import "time"

// Keyboard is the console input side of a device.
type Keyboard interface {
	// KeyAvailable reports whether ReadChar would return a character
	// immediately. It never blocks.
	KeyAvailable() bool

	// ReadChar waits at most timeout for one character. It returns false on
	// timeout or end of input.
	ReadChar(timeout time.Duration) (byte, bool)
}

// Display is the console output side of a device.
type Display interface {
	WriteChar(c byte) error
	Flush() error
}

type Device interface {
	Keyboard
	Display
}
