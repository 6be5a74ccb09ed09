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

package project_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go.tsh.dev/tsh/core"
	"go.tsh.dev/tsh/core/project"
	"go.tsh.dev/tsh/queries"
)

func TestProjectUnresolvedLanguageEmitsMacroToken(t *testing.T) {
	record := core.TemplateRecord{
		RawText:  `t"select * from t"`,
		Language: "",
		Location: core.Location{StartLine: 3, StartColumn: 5, EndLine: 3, EndColumn: 23},
	}

	tokens := project.Project(record, nil)
	require.Len(t, tokens, 1)
	require.Equal(t, uint32(2), tokens[0].Line)   // 0-based
	require.Equal(t, uint32(4), tokens[0].Column) // 0-based
	require.Equal(t, uint32(14), tokens[0].TypeIndex)
}

func TestProjectInterpolationTokenFiresIndependently(t *testing.T) {
	record := core.TemplateRecord{
		RawText:  `t"hi {name}"`,
		Language: "javascript",
		Location: core.Location{StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 13},
		Interpolations: []core.Interpolation{
			{
				Text:     "name",
				Location: core.Location{StartLine: 1, StartColumn: 7, EndLine: 1, EndColumn: 11},
			},
		},
	}

	tokens := project.Project(record, nil)
	require.GreaterOrEqual(t, len(tokens), 1)

	found := false
	for _, tok := range tokens {
		if tok.TypeIndex == queries.TypeIndexForClass("variable.parameter") && tok.Line == 0 && tok.Column == 6 {
			found = true
		}
	}
	require.True(t, found, "expected an interpolation token at the recorded location")
}

func TestProjectTranslatesStrippedSpanToDocumentCoordinates(t *testing.T) {
	record := core.TemplateRecord{
		RawText:         `t"const x = {}"`,
		StrippedContent: `const x = {}`,
		Language:        "javascript",
		Location:        core.Location{StartLine: 10, StartColumn: 1, EndLine: 10, EndColumn: 17},
	}

	spans := []core.HighlightSpan{
		{StartByte: 0, EndByte: 5, Class: "keyword"}, // "const"
	}

	tokens := project.Project(record, spans)
	require.Len(t, tokens, 1)
	require.Equal(t, uint32(9), tokens[0].Line) // 0-based
	// column = start_column(1) + prefix_length(2 for `t"`) + 0(byte offset) - 1 (0-based)
	require.Equal(t, uint32(2), tokens[0].Column)
	require.Equal(t, uint32(5), tokens[0].Length)
	require.Equal(t, queries.TypeIndexForClass("keyword"), tokens[0].TypeIndex)
}

func TestSortOrdersByLineThenColumn(t *testing.T) {
	tokens := []core.ProtocolToken{
		{Line: 2, Column: 5},
		{Line: 1, Column: 9},
		{Line: 1, Column: 2},
		{Line: 2, Column: 1},
	}
	sorted := project.Sort(tokens)
	require.Equal(t, []core.ProtocolToken{
		{Line: 1, Column: 2},
		{Line: 1, Column: 9},
		{Line: 2, Column: 1},
		{Line: 2, Column: 5},
	}, sorted)
}

func TestEncodeDeltaEncodesSortedTokens(t *testing.T) {
	tokens := []core.ProtocolToken{
		{Line: 1, Column: 2, Length: 5, TypeIndex: 18, Modifiers: 0},
		{Line: 1, Column: 9, Length: 3, TypeIndex: 19, Modifiers: 0},
		{Line: 3, Column: 0, Length: 4, TypeIndex: 15, Modifiers: 0},
	}

	data := project.Encode(tokens)
	require.Equal(t, []uint32{
		1, 2, 5, 18, 0,
		0, 7, 3, 19, 0,
		2, 0, 4, 15, 0,
	}, data)
}
