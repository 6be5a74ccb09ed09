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

// PositionAt converts a byte offset within source into a 1-based
// line/column position, matching TemplateRecord.Location's convention.
func PositionAt(source []byte, offset uint32) (line, column uint32) {
	line, column = 1, 1
	limit := offset
	if int(limit) > len(source) {
		limit = uint32(len(source))
	}
	for i := uint32(0); i < limit; i++ {
		if source[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}
