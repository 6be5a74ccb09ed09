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

// Package highlight implements the Embedded Highlighter: it parses a
// TemplateRecord's stripped content under its resolved language's
// grammar, runs that grammar's highlight query, and produces a sorted
// sequence of HighlightSpans.
package highlight

import (
	"fmt"
	"slices"

	"go.tsh.dev/tsh/core"
	"go.tsh.dev/tsh/queries"
)

// Highlight runs the embedded-highlighting algorithm for one
// TemplateRecord. A record with no resolved language is the caller's
// responsibility to skip — Highlight always requires record.Language
// to be non-empty.
func Highlight(manager *queries.QueryManager, record core.TemplateRecord) ([]core.HighlightSpan, error) {
	grammar, ok := queries.LookupEmbeddedGrammar(record.Language)
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedLanguage, record.Language)
	}

	content := []byte(record.StrippedContent)

	parser := grammar.Get()
	defer grammar.Put(parser)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: language %q", core.ErrEmbeddedParse, record.Language)
	}
	defer tree.Close()

	queryLanguage := queries.NormalizeLanguageTag(record.Language)
	matcher, err := queries.GetCachedQueryMatcher(manager, queryLanguage, grammar.QueryName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrQuery, err)
	}
	defer matcher.Close()

	var spans []core.HighlightSpan
	for match := range matcher.AllQueryMatches(tree.RootNode(), content) {
		for _, cap := range match.Captures {
			class := matcher.GetCaptureNameByIndex(cap.Index)
			spans = append(spans, core.HighlightSpan{
				StartByte: uint32(cap.Node.StartByte()),
				EndByte:   uint32(cap.Node.EndByte()),
				Class:     class,
			})
		}
	}

	spans = append(spans, sentinelSpans(content)...)

	slices.SortStableFunc(spans, func(a, b core.HighlightSpan) int {
		return int(a.StartByte) - int(b.StartByte)
	})

	return spans, nil
}

// sentinelSpans finds every `{}` two-byte sentinel in content and
// emits an overriding variable.parameter span for it, per §4.4 step 5.
func sentinelSpans(content []byte) []core.HighlightSpan {
	var spans []core.HighlightSpan
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '{' && content[i+1] == '}' {
			spans = append(spans, core.HighlightSpan{
				StartByte: uint32(i),
				EndByte:   uint32(i + 2),
				Class:     "variable.parameter",
			})
			i++ // sentinel consumed, don't rescan its closing byte
		}
	}
	return spans
}
