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

func TestResolveAnnotatedTemplateTag(t *testing.T) {
	imports := map[string]string{
		"Annotated": "typing.Annotated",
		"Template":  "string.templatelib.Template",
	}

	t.Run("resolves through imports", func(t *testing.T) {
		tag, ok := ResolveAnnotatedTemplateTag(`Annotated[Template, "html"]`, imports)
		assert.True(t, ok)
		assert.Equal(t, "html", tag)
	})

	t.Run("resolves fully-qualified names written out in full", func(t *testing.T) {
		tag, ok := ResolveAnnotatedTemplateTag(`typing.Annotated[string.templatelib.Template, "sql"]`, map[string]string{})
		assert.True(t, ok)
		assert.Equal(t, "sql", tag)
	})

	t.Run("rejects an unrelated generic", func(t *testing.T) {
		_, ok := ResolveAnnotatedTemplateTag(`list[int]`, imports)
		assert.False(t, ok)
	})

	t.Run("rejects Annotated that doesn't wrap Template", func(t *testing.T) {
		imports := map[string]string{"Annotated": "typing.Annotated", "Other": "some.Other"}
		_, ok := ResolveAnnotatedTemplateTag(`Annotated[Other, "html"]`, imports)
		assert.False(t, ok)
	})

	t.Run("tolerates whitespace", func(t *testing.T) {
		tag, ok := ResolveAnnotatedTemplateTag(`  Annotated[ Template ,  'css' ] `, imports)
		assert.True(t, ok)
		assert.Equal(t, "css", tag)
	})
}
