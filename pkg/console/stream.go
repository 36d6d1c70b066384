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

// Package console adapts byte streams and terminals to the machine's
// keyboard and display.
package console

import (
	"bufio"
	"io"
	"sync"
	"time"
)

// Stream is a machine.Device backed by a reader and a writer. A goroutine
// pulls input one byte at a time so that KeyAvailable never blocks.
type Stream struct {
	keys    chan byte
	done    chan struct{}
	stopped sync.Once
	display *bufio.Writer
}

func NewStream(keyboard io.Reader, display io.Writer) *Stream {
	s := &Stream{
		keys:    make(chan byte, 64),
		done:    make(chan struct{}),
		display: bufio.NewWriter(display),
	}

	go s.pump(keyboard)

	return s
}

func (s *Stream) pump(keyboard io.Reader) {
	defer close(s.keys)

	buf := make([]byte, 1)

	for {
		n, err := keyboard.Read(buf)

		if n > 0 {
			select {
			case s.keys <- buf[0]:
			case <-s.done:
				return
			}
		}

		if err != nil {
			return
		}
	}
}

func (s *Stream) KeyAvailable() bool {
	select {
	case <-s.done:
		return false
	default:
		return len(s.keys) > 0
	}
}

// ReadChar returns false once timeout elapses, the input is exhausted, or
// the stream is closed. A zero timeout only takes what is already buffered.
func (s *Stream) ReadChar(timeout time.Duration) (byte, bool) {
	select {
	case <-s.done:
		return 0, false
	default:
	}

	if timeout <= 0 {
		select {
		case key, ok := <-s.keys:
			return key, ok
		default:
			return 0, false
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case key, ok := <-s.keys:
		return key, ok
	case <-s.done:
		return 0, false
	case <-timer.C:
		return 0, false
	}
}

func (s *Stream) WriteChar(c byte) error {
	return s.display.WriteByte(c)
}

func (s *Stream) Flush() error {
	return s.display.Flush()
}

// Close wakes any pending ReadChar and makes later reads report no input.
// It is safe to call from another goroutine; it does not flush the display.
func (s *Stream) Close() error {
	s.stopped.Do(func() {
		close(s.done)
	})

	return nil
}
