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
package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lassandro/lc3vm/pkg/image"
	"github.com/lassandro/lc3vm/pkg/machine"
)

func writeImage(t *testing.T, name string, origin uint16, words ...uint16) string {
	t.Helper()

	data := binary.BigEndian.AppendUint16(nil, origin)
	for _, word := range words {
		data = binary.BigEndian.AppendUint16(data, word)
	}

	filename := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(filename, data, 0o644))

	return filename
}

func defaultOptions() *options {
	return &options{timeout: time.Second}
}

func TestRunEcho(t *testing.T) {
	program := writeImage(t, "echo.obj", 0x3000,
		0xF020, // GETC
		0xF021, // OUT
		0xF023, // IN
		0xF025, // HALT
	)

	var stdout bytes.Buffer
	err := run(context.Background(), []string{program}, defaultOptions(),
		strings.NewReader("ab"), &stdout)

	require.NoError(t, err)
	assert.Equal(t, "a"+machine.IN_PROMPT+"b", stdout.String())
}

func TestRunMultipleImages(t *testing.T) {
	prog := writeImage(t, "main.obj", 0x3000,
		0b1110_000_011111111, // LEA R0, x3100
		0xF022,               // PUTS
		0xF025,               // HALT
	)
	data := writeImage(t, "data.obj", 0x3100, 'o', 'k', 0)

	var stdout bytes.Buffer
	err := run(context.Background(), []string{prog, data}, defaultOptions(),
		strings.NewReader(""), &stdout)

	require.NoError(t, err)
	assert.Equal(t, "ok", stdout.String())
}

func TestRunEntry(t *testing.T) {
	program := writeImage(t, "entry.obj", 0x3000,
		0xD000, // RES
		0xF025, // HALT
	)

	opts := defaultOptions()
	opts.entry = "x3001"

	err := run(context.Background(), []string{program}, opts,
		strings.NewReader(""), &bytes.Buffer{})
	assert.NoError(t, err)

	opts.entry = "3001"
	err = run(context.Background(), []string{program}, opts,
		strings.NewReader(""), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunFault(t *testing.T) {
	program := writeImage(t, "fault.obj", 0x3000, 0x8000)

	err := run(context.Background(), []string{program}, defaultOptions(),
		strings.NewReader(""), &bytes.Buffer{})

	assert.ErrorIs(t, err, machine.ErrReservedOpcode)
}

func TestRunCycleLimit(t *testing.T) {
	program := writeImage(t, "spin.obj", 0x3000,
		0b0000_111_111111111, // BRnzp #-1
	)

	opts := defaultOptions()
	opts.maxCycles = 100

	err := run(context.Background(), []string{program}, opts,
		strings.NewReader(""), &bytes.Buffer{})

	assert.ErrorIs(t, err, ErrCycleLimit)
}

func TestRunCancelled(t *testing.T) {
	program := writeImage(t, "spin.obj", 0x3000,
		0b0000_111_111111111, // BRnzp #-1
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := run(ctx, []string{program}, defaultOptions(),
		strings.NewReader(""), &bytes.Buffer{})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunBadImage(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "odd.obj")
	require.NoError(t, os.WriteFile(filename, []byte{0x30, 0x00, 0x12}, 0o644))

	err := run(context.Background(), []string{filename}, defaultOptions(),
		strings.NewReader(""), &bytes.Buffer{})

	assert.ErrorIs(t, err, image.ErrOddSize)
}

func TestCommandArgs(t *testing.T) {
	cmd := newCommand()
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})

	assert.Error(t, cmd.Execute())

	program := writeImage(t, "halt.obj", 0x3000, 0xF025)

	var stdout bytes.Buffer
	cmd = newCommand()
	cmd.SetArgs([]string{"--timeout", "10ms", program})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&stdout)

	assert.NoError(t, cmd.Execute())
	assert.Empty(t, stdout.String())
}
