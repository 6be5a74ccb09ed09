/*
Copyright © 2025 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionAt(t *testing.T) {
	source := []byte("abc\ndef\nghi")

	tests := []struct {
		name       string
		offset     uint32
		wantLine   uint32
		wantColumn uint32
	}{
		{"start of document", 0, 1, 1},
		{"mid first line", 2, 1, 3},
		{"start of second line", 4, 2, 1},
		{"mid third line", 9, 3, 2},
		{"offset past end clamps to document end", 100, 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, column := PositionAt(source, tt.offset)
			assert.Equal(t, tt.wantLine, line)
			assert.Equal(t, tt.wantColumn, column)
		})
	}
}
