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
	"log/slog"
	"time"
)

type Status int

const (
	StatusRunning Status = iota
	StatusHalted
	StatusFaulted
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusHalted:
		return "halted"
	case StatusFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

type Machine struct {
	Registers Registers
	Memory    Memory
	Device    Device

	// Bound on GETC/IN reads; zero means DEFAULT_TIMEOUT.
	Timeout time.Duration

	// Receives a Debug record per instruction when set.
	Logger *slog.Logger

	status Status
	cycles uint64
}
