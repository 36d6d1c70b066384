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

// Package image reads LC-3 object images: a big-endian origin word followed
// by the big-endian words to place at consecutive addresses from the origin.
package image

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	ErrTooShort = errors.New("image too short")
	ErrOddSize  = errors.New("image has a trailing byte")
	ErrOverflow = errors.New("image overflows address space")
)

type Image struct {
	Origin uint16
	Words  []uint16
}

// End returns the first address past the image.
func (img *Image) End() uint32 {
	return uint32(img.Origin) + uint32(len(img.Words))
}

func Decode(reader io.Reader) (*Image, error) {
	data, err := io.ReadAll(reader)

	if err != nil {
		return nil, err
	}

	if len(data) < 2 {
		return nil, ErrTooShort
	} else if len(data)%2 != 0 {
		return nil, ErrOddSize
	}

	img := &Image{
		Origin: binary.BigEndian.Uint16(data),
		Words:  make([]uint16, 0, len(data)/2-1),
	}

	for index := 2; index < len(data); index += 2 {
		img.Words = append(img.Words, binary.BigEndian.Uint16(data[index:]))
	}

	if img.End() > 1<<16 {
		return nil, fmt.Errorf(
			"%w: %d words at %#04x", ErrOverflow, len(img.Words), img.Origin,
		)
	}

	return img, nil
}

func ReadFile(filename string) (*Image, error) {
	file, err := os.Open(filename)

	if err != nil {
		return nil, err
	}

	defer file.Close()

	img, err := Decode(file)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	return img, nil
}
