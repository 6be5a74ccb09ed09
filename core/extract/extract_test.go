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

package extract_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go.tsh.dev/tsh/core"
	resolver "go.tsh.dev/tsh/core/context"
	"go.tsh.dev/tsh/core/extract"
	"go.tsh.dev/tsh/queries"
)

func extractSource(t *testing.T, source string) []core.TemplateRecord {
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

	records, err := extract.Extract(manager, tree.RootNode(), src, ctx)
	require.NoError(t, err)
	return records
}

func TestExtractPlainStatementTemplate(t *testing.T) {
	records := extractSource(t, `t"hello {name}"`+"\n")
	require.Len(t, records, 1)

	r := records[0]
	require.Equal(t, "hello {}", r.StrippedContent)
	require.Len(t, r.Interpolations, 1)
	require.Equal(t, "name", r.Interpolations[0].Text)
	require.Equal(t, "", r.Language)
	require.False(t, r.Flags.IsRaw)
	require.False(t, r.Flags.IsTripleQuoted)
}

func TestExtractRawTripleQuoted(t *testing.T) {
	records := extractSource(t, "tr'''select {col}'''\n")
	require.Len(t, records, 1)

	r := records[0]
	require.True(t, r.Flags.IsRaw)
	require.True(t, r.Flags.IsTripleQuoted)
	require.Equal(t, "select {}", r.StrippedContent)
}

func TestExtractAnnotatedAssignmentResolvesLanguage(t *testing.T) {
	source := `
from typing import Annotated
from string.templatelib import Template

page: Annotated[Template, "html"] = t"<p>{name}</p>"
`
	records := extractSource(t, source)
	require.Len(t, records, 1)

	r := records[0]
	require.Equal(t, "html", r.Language)
	require.Equal(t, "page", r.VariableName)
}

func TestExtractCallSiteResolvesLanguageViaSignature(t *testing.T) {
	source := `
from typing import Annotated
from string.templatelib import Template

type HtmlTag = Annotated[Template, "html"]

def render(name, body: HtmlTag):
    pass

render("x", t"<p>{name}</p>")
`
	records := extractSource(t, source)
	require.Len(t, records, 1)

	r := records[0]
	require.Equal(t, "render", r.FunctionName)
	require.Equal(t, 1, r.ArgumentPosition)
	require.Equal(t, "html", r.Language)
}

func TestExtractKeywordArgumentNeverResolves(t *testing.T) {
	source := `
from typing import Annotated
from string.templatelib import Template

type HtmlTag = Annotated[Template, "html"]

def render(name, body: HtmlTag):
    pass

render("x", body=t"<p>{name}</p>")
`
	records := extractSource(t, source)
	require.Len(t, records, 1)

	r := records[0]
	require.Equal(t, "", r.FunctionName)
	require.Equal(t, "", r.Language)
}

func TestExtractEscapedBraces(t *testing.T) {
	records := extractSource(t, `t"{{literal}} {value}"`+"\n")
	require.Len(t, records, 1)

	r := records[0]
	require.Equal(t, "{literal} {}", r.StrippedContent)
	require.Len(t, r.Interpolations, 1)
	require.Equal(t, "value", r.Interpolations[0].Text)
}

func TestSplitPrefix(t *testing.T) {
	tests := []struct {
		raw        string
		wantPrefix string
		wantQuote  string
		wantOK     bool
	}{
		{`t"abc"`, "t", `"`, true},
		{`tr'abc'`, "tr", `'`, true},
		{`rt"""abc"""`, "rt", `"""`, true},
		{`"abc"`, "", "", false},
	}
	for _, tt := range tests {
		prefix, quote, ok := extract.SplitPrefix(tt.raw)
		require.Equal(t, tt.wantOK, ok)
		if ok {
			require.Equal(t, tt.wantPrefix, prefix)
			require.Equal(t, tt.wantQuote, quote)
		}
	}
}
