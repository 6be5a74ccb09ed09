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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentCache(t *testing.T) {
	cache := newDocumentCache()

	_, ok := cache.get("file:///a.py")
	assert.False(t, ok)

	cache.set("file:///a.py", "t\"hi\"")
	text, ok := cache.get("file:///a.py")
	assert.True(t, ok)
	assert.Equal(t, "t\"hi\"", text)

	cache.set("file:///a.py", "t\"bye\"")
	text, ok = cache.get("file:///a.py")
	assert.True(t, ok)
	assert.Equal(t, "t\"bye\"", text)

	cache.remove("file:///a.py")
	_, ok = cache.get("file:///a.py")
	assert.False(t, ok)
}
