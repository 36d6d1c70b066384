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
package machine_test

import (
	"bytes"
	"time"
)

// scriptDevice replays a fixed keyboard script and records display output.
type scriptDevice struct {
	keys     []byte
	display  bytes.Buffer
	flushed  []string
	timeouts []time.Duration
	writeErr error
}

func newScriptDevice(keys string) *scriptDevice {
	return &scriptDevice{keys: []byte(keys)}
}

func (dev *scriptDevice) KeyAvailable() bool {
	return len(dev.keys) > 0
}

func (dev *scriptDevice) ReadChar(timeout time.Duration) (byte, bool) {
	dev.timeouts = append(dev.timeouts, timeout)

	if len(dev.keys) == 0 {
		return 0, false
	}

	key := dev.keys[0]
	dev.keys = dev.keys[1:]

	return key, true
}

func (dev *scriptDevice) WriteChar(c byte) error {
	if dev.writeErr != nil {
		return dev.writeErr
	}

	return dev.display.WriteByte(c)
}

func (dev *scriptDevice) Flush() error {
	dev.flushed = append(dev.flushed, dev.display.String())
	return nil
}
