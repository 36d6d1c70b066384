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

package image_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lassandro/lc3vm/pkg/image"
)

func TestDecode(t *testing.T) {
	img, err := image.Decode(bytes.NewReader([]byte{
		0x30, 0x00, // origin
		0x12, 0x20,
		0xF0, 0x25,
	}))

	require.NoError(t, err)
	assert.Equal(t, uint16(0x3000), img.Origin)
	assert.Equal(t, []uint16{0x1220, 0xF025}, img.Words)
	assert.Equal(t, uint32(0x3002), img.End())
}

func TestDecodeOriginOnly(t *testing.T) {
	img, err := image.Decode(bytes.NewReader([]byte{0x30, 0x00}))

	require.NoError(t, err)
	assert.Equal(t, uint16(0x3000), img.Origin)
	assert.Empty(t, img.Words)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		Name  string
		Input []byte
		Err   error
	}{
		{"Empty", []byte{}, image.ErrTooShort},
		{"Half origin", []byte{0x30}, image.ErrTooShort},
		{"Trailing byte", []byte{0x30, 0x00, 0x12}, image.ErrOddSize},
		{"Overflow", []byte{0xFF, 0xFF, 0x00, 0x01, 0x00, 0x02}, image.ErrOverflow},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			_, err := image.Decode(bytes.NewReader(test.Input))
			assert.ErrorIs(t, err, test.Err)
		})
	}
}

func TestDecodeLastAddress(t *testing.T) {
	img, err := image.Decode(bytes.NewReader([]byte{0xFF, 0xFF, 0xAB, 0xCD}))

	require.NoError(t, err)
	assert.Equal(t, uint32(1<<16), img.End())
}

func TestReadFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "prog.obj")
	require.NoError(t, os.WriteFile(filename, []byte{0x30, 0x00, 0xF0, 0x25}, 0o644))

	img, err := image.ReadFile(filename)

	require.NoError(t, err)
	assert.Equal(t, []uint16{0xF025}, img.Words)

	_, err = image.ReadFile(filepath.Join(t.TempDir(), "missing.obj"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
