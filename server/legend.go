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

package server

// tokenTypes is the 23-entry semantic-token legend in the fixed order
// the class-to-type-index table indexes into.
var tokenTypes = []string{
	"namespace",     // 0
	"type",          // 1
	"class",         // 2
	"enum",          // 3
	"interface",     // 4
	"struct",        // 5
	"typeParameter", // 6
	"parameter",     // 7
	"variable",      // 8
	"property",      // 9
	"enumMember",    // 10
	"event",         // 11
	"function",      // 12
	"method",        // 13
	"macro",         // 14
	"keyword",       // 15
	"modifier",      // 16
	"comment",       // 17
	"string",        // 18
	"number",        // 19
	"regexp",        // 20
	"operator",      // 21
	"decorator",     // 22
}

var tokenModifiers = []string{
	"declaration",
	"definition",
	"readonly",
	"static",
	"deprecated",
	"abstract",
	"async",
	"modification",
	"documentation",
	"defaultLibrary",
}
