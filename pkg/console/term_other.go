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

//go:build !(linux || darwin)

package console

import (
	"os"

	"golang.org/x/term"
)

func MakeRaw(file *os.File) (func() error, error) {
	fd := int(file.Fd())

	if !term.IsTerminal(fd) {
		return func() error { return nil }, nil
	}

	state, err := term.MakeRaw(fd)

	if err != nil {
		return nil, err
	}

	return func() error {
		return term.Restore(fd, state)
	}, nil
}
