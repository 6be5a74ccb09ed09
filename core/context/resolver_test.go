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

package resolver_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"go.tsh.dev/tsh/core"
	resolver "go.tsh.dev/tsh/core/context"
	"go.tsh.dev/tsh/queries"
)

func parseAndResolve(t *testing.T, source string) *core.ModuleContext {
	t.Helper()

	manager, err := queries.NewQueryManager(queries.DefaultQueries())
	require.NoError(t, err)
	t.Cleanup(manager.Close)

	parser := queries.GetPythonParser()
	t.Cleanup(func() { queries.PutPythonParser(parser) })

	src := []byte(source)
	tree := parser.Parse(src, nil)
	require.NotNil(t, tree)
	t.Cleanup(tree.Close)

	ctx, err := resolver.Resolve(manager, tree.RootNode(), src)
	require.NoError(t, err)
	return ctx
}

func TestResolveImports(t *testing.T) {
	source := `
import os
import xml.etree as ET
from typing import Annotated
from string.templatelib import Template as Tmpl
`
	ctx := parseAndResolve(t, source)

	require.Equal(t, "os", ctx.Imports["os"])
	require.Equal(t, "xml.etree", ctx.Imports["ET"])
	require.Equal(t, "typing.Annotated", ctx.Imports["Annotated"])
	require.Equal(t, "string.templatelib.Template", ctx.Imports["Tmpl"])
}

func TestResolveTypeAliases(t *testing.T) {
	source := `
from typing import Annotated, TypeAlias
from string.templatelib import Template

type HtmlTag = Annotated[Template, "html"]
SqlTag: TypeAlias = Annotated[Template, "sql"]
`
	ctx := parseAndResolve(t, source)

	require.Equal(t, "html", ctx.TypeAliases["HtmlTag"])
	require.Equal(t, "sql", ctx.TypeAliases["SqlTag"])
}

func TestResolveFunctionSignatures(t *testing.T) {
	source := `
def render(name, body: HtmlTag, *, count: int = 0) -> None:
    pass
`
	ctx := parseAndResolve(t, source)

	params, ok := ctx.FunctionSignatures["render"]
	require.True(t, ok)
	require.Len(t, params, 3)
	require.Equal(t, 0, params[0].Position)
	require.Equal(t, "", params[0].TypeText)
	require.Equal(t, 1, params[1].Position)
	require.Equal(t, "HtmlTag", params[1].TypeText)
	require.Equal(t, 2, params[2].Position)
	require.Equal(t, "int", params[2].TypeText)
}

// TestContextIsolation covers spec's context-isolation invariant: resolving
// a document with a type alias in scope never leaks it into a second,
// unrelated document resolved afterward in the same process. A structural
// diff makes the "nothing extra carried over" shape of the failure clearer
// than a field-by-field require.Equal chain would.
func TestContextIsolation(t *testing.T) {
	withAlias := parseAndResolve(t, `
from typing import Annotated
from string.templatelib import Template

type HtmlTag = Annotated[Template, "html"]
`)

	without := parseAndResolve(t, `
x = 1
`)

	want := core.NewModuleContext()
	if diff := cmp.Diff(want, without); diff != "" {
		t.Fatalf("second document's context carried state from the first (-want +got):\n%s", diff)
	}
	require.NotEqual(t, withAlias.TypeAliases, without.TypeAliases)
}
