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

package highlight_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"go.tsh.dev/tsh/core"
	"go.tsh.dev/tsh/core/highlight"
	"go.tsh.dev/tsh/queries"
)

func newManager(t *testing.T) *queries.QueryManager {
	t.Helper()
	manager, err := queries.NewQueryManager(queries.DefaultQueries())
	require.NoError(t, err)
	t.Cleanup(manager.Close)
	return manager
}

func TestHighlightJavaScript(t *testing.T) {
	manager := newManager(t)

	record := core.TemplateRecord{
		StrippedContent: `const x = {};`,
		Language:        "javascript",
	}

	spans, err := highlight.Highlight(manager, record)
	require.NoError(t, err)
	require.NotEmpty(t, spans)

	var sawKeyword, sawSentinel bool
	for _, span := range spans {
		if span.Class == "keyword" {
			sawKeyword = true
		}
		if span.Class == "variable.parameter" && span.EndByte-span.StartByte == 2 {
			sawSentinel = true
		}
	}
	require.True(t, sawKeyword, "expected a keyword span for `const`")
	require.True(t, sawSentinel, "expected a sentinel span covering the `{}` interpolation marker")
}

func TestHighlightJSAliasSharesJavaScriptGrammar(t *testing.T) {
	manager := newManager(t)

	record := core.TemplateRecord{
		StrippedContent: `let y = 1;`,
		Language:        "js",
	}

	spans, err := highlight.Highlight(manager, record)
	require.NoError(t, err)
	require.NotEmpty(t, spans)
}

func TestHighlightUnsupportedLanguage(t *testing.T) {
	manager := newManager(t)

	record := core.TemplateRecord{
		StrippedContent: `whatever`,
		Language:        "cobol",
	}

	_, err := highlight.Highlight(manager, record)
	require.Error(t, err)
	require.True(t, errors.Is(err, core.ErrUnsupportedLanguage))
}
