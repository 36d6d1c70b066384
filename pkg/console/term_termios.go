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

//go:build linux || darwin

package console

import (
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// MakeRaw turns off line buffering and echo on file so the machine sees
// each key as it is pressed. Output processing and signal keys are left
// alone. The returned function restores the previous settings. When file
// is not a terminal nothing is changed.
func MakeRaw(file *os.File) (func() error, error) {
	if !term.IsTerminal(int(file.Fd())) {
		return func() error { return nil }, nil
	}

	var restore unix.Termios

	if err := termios.Tcgetattr(file.Fd(), &restore); err != nil {
		return nil, err
	}

	state := restore
	state.Lflag &^= unix.ICANON | unix.ECHO

	if err := termios.Tcsetattr(file.Fd(), termios.TCSANOW, &state); err != nil {
		return nil, err
	}

	return func() error {
		return termios.Tcsetattr(file.Fd(), termios.TCSANOW, &restore)
	}, nil
}
