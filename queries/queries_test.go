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

package queries

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLanguageTag(t *testing.T) {
	assert.Equal(t, "javascript", NormalizeLanguageTag("js"))
	assert.Equal(t, "javascript", NormalizeLanguageTag("javascript"))
	assert.Equal(t, "sql", NormalizeLanguageTag("sql"))
	assert.Equal(t, "", NormalizeLanguageTag(""))
}

func TestHighlightIndex(t *testing.T) {
	idx := HighlightIndex("variable.parameter")
	assert.Equal(t, len(HighlightNames)-1, idx)

	assert.Equal(t, -1, HighlightIndex("not-a-real-class"))
}

func TestTypeIndexForClass(t *testing.T) {
	tests := []struct {
		class string
		want  uint32
	}{
		{"keyword", 15},
		{"function", 12},
		{"string", 18},
		{"number", 19},
		{"comment", 17},
		{"type", 1},
		{"class", 2},
		{"property", 9},
		{"operator", 21},
		{"macro", 14},
		{"variable.parameter", DefaultTypeIndex},
		{"something-unmapped", DefaultTypeIndex},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeIndexForClass(tt.class))
		})
	}
}

func TestKnownLanguageTags(t *testing.T) {
	tags := KnownLanguageTags()
	assert.Contains(t, tags, "html")
	assert.Contains(t, tags, "css")
	assert.Contains(t, tags, "javascript")
	assert.Contains(t, tags, "js")
	assert.Contains(t, tags, "json")
	assert.Contains(t, tags, "sql")
}

func TestLookupEmbeddedGrammar(t *testing.T) {
	t.Run("known tag resolves", func(t *testing.T) {
		_, ok := LookupEmbeddedGrammar("html")
		assert.True(t, ok)
	})

	t.Run("unknown tag does not resolve", func(t *testing.T) {
		_, ok := LookupEmbeddedGrammar("cobol")
		assert.False(t, ok)
	})
}
