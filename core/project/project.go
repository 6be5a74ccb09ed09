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

// Package project implements the Position Projector: it reconciles
// stripped-content byte coordinates with document line/column
// coordinates and emits delta-encoded protocol tokens, the way
// gopls's protocol/semtok.Encode turns a flat token list into the
// editor wire format.
package project

import (
	"fmt"
	"strings"

	"go.tsh.dev/tsh/core"
	"go.tsh.dev/tsh/core/extract"
	"go.tsh.dev/tsh/internal/logging"
	"go.tsh.dev/tsh/queries"
)

// Project turns one TemplateRecord's HighlightSpans into
// ProtocolTokens in absolute document coordinates. It never fails: a
// two-pointer walk that runs off the end of raw content logs the
// PositionProjectionError at debug level and returns the partial token
// set built so far.
func Project(record core.TemplateRecord, spans []core.HighlightSpan) []core.ProtocolToken {
	var tokens []core.ProtocolToken

	// Step 1: interpolation tokens fire independently of highlighting.
	for _, interp := range record.Interpolations {
		tokens = append(tokens, interpolationToken(interp))
	}

	if record.Language == "" {
		tokens = append(tokens, macroFallbackTokens(record)...)
		return Sort(tokens)
	}

	prefix, quote, ok := extract.SplitPrefix(record.RawText)
	if !ok {
		return Sort(tokens)
	}
	prefixLength := len(prefix) + len(quote)
	interior := interiorOf(record.RawText, prefixLength, len(quote))

	stripped := []byte(record.StrippedContent)
	raw := []byte(interior)
	w := &walker{
		line:   record.Location.StartLine,
		column: record.Location.StartColumn + uint32(prefixLength),
	}

	for _, span := range spans {
		if span.Class == "variable.parameter" {
			// Dropped here: step 1 owns every variable.parameter token.
			continue
		}
		if span.EndByte <= span.StartByte {
			continue
		}
		if err := w.advanceTo(int(span.StartByte), stripped, raw); err != nil {
			logging.Debug("%v", err)
			return Sort(tokens)
		}
		tokens = append(tokens, core.ProtocolToken{
			Line:      w.line - 1,
			Column:    w.column - 1,
			Length:    span.EndByte - span.StartByte,
			TypeIndex: queries.TypeIndexForClass(span.Class),
		})
	}

	return Sort(tokens)
}

func interpolationToken(interp core.Interpolation) core.ProtocolToken {
	length := uint32(1)
	if interp.Location.EndLine == interp.Location.StartLine && interp.Location.EndColumn > interp.Location.StartColumn {
		length = interp.Location.EndColumn - interp.Location.StartColumn
	}
	return core.ProtocolToken{
		Line:      interp.Location.StartLine - 1,
		Column:    interp.Location.StartColumn - 1,
		Length:    length,
		TypeIndex: queries.TypeIndexForClass("variable.parameter"),
	}
}

// interiorOf strips a literal's opener and closing quote(s) off its
// raw text.
func interiorOf(rawText string, prefixLength, quoteLength int) string {
	if len(rawText) < prefixLength+quoteLength {
		return ""
	}
	return rawText[prefixLength : len(rawText)-quoteLength]
}

// walker advances in lockstep over stripped-content and raw-interior
// bytes, tracking the document line/column the raw pointer has
// reached.
type walker struct {
	strippedPos int
	rawPos      int
	line        uint32
	column      uint32
}

// advanceTo walks both pointers until strippedPos reaches target,
// skipping interpolation sentinels and collapsing escaped braces in
// lockstep with the raw side.
func (w *walker) advanceTo(target int, stripped, raw []byte) error {
	for w.strippedPos < target {
		if w.rawPos >= len(raw) {
			return fmt.Errorf("%w: raw content exhausted", core.ErrPositionProjection)
		}

		// A genuine interpolation: stripped holds the two-byte `{}`
		// sentinel, raw holds `{expr...}` with no nested top-level `}`.
		if isSentinelAt(stripped, w.strippedPos) && raw[w.rawPos] == '{' && !isEscapedBrace(raw, w.rawPos) {
			end := indexByteFrom(raw, w.rawPos+1, '}')
			if end < 0 {
				return fmt.Errorf("%w: unterminated interpolation", core.ErrPositionProjection)
			}
			w.advanceRaw(raw, w.rawPos, end+1)
			w.rawPos = end + 1
			w.strippedPos += 2
			continue
		}

		// An escaped `{{` or `}}`: two raw bytes collapse to one
		// stripped byte.
		if isEscapedBrace(raw, w.rawPos) {
			w.advanceRaw(raw, w.rawPos, w.rawPos+2)
			w.rawPos += 2
			w.strippedPos++
			continue
		}

		if raw[w.rawPos] == '\n' {
			w.line++
			w.column = 1
		} else {
			w.column++
		}
		w.rawPos++
		w.strippedPos++
	}
	return nil
}

// advanceRaw updates line/column tracking across raw[from:to] without
// moving rawPos itself (the caller repositions it after a skip).
func (w *walker) advanceRaw(raw []byte, from, to int) {
	for i := from; i < to && i < len(raw); i++ {
		if raw[i] == '\n' {
			w.line++
			w.column = 1
		} else {
			w.column++
		}
	}
}

func isSentinelAt(stripped []byte, pos int) bool {
	return pos+1 < len(stripped) && stripped[pos] == '{' && stripped[pos+1] == '}'
}

func isEscapedBrace(raw []byte, pos int) bool {
	if pos+1 >= len(raw) {
		return false
	}
	return (raw[pos] == '{' && raw[pos+1] == '{') || (raw[pos] == '}' && raw[pos+1] == '}')
}

func indexByteFrom(b []byte, from int, c byte) int {
	for i := from; i < len(b); i++ {
		if b[i] == c {
			return i
		}
	}
	return -1
}

// macroFallbackTokens implements the unresolved-language edge case:
// a single macro-class token covering the literal's full span, split
// per line for multi-line literals.
func macroFallbackTokens(record core.TemplateRecord) []core.ProtocolToken {
	lines := strings.Split(record.RawText, "\n")
	if len(lines) == 1 {
		length := record.Location.EndColumn - record.Location.StartColumn
		if length == 0 {
			return nil
		}
		return []core.ProtocolToken{{
			Line:      record.Location.StartLine - 1,
			Column:    record.Location.StartColumn - 1,
			Length:    length,
			TypeIndex: 14, // macro
		}}
	}

	var tokens []core.ProtocolToken
	for i, text := range lines {
		line := record.Location.StartLine - 1 + uint32(i)
		switch {
		case i == 0:
			length := uint32(len(text))
			tokens = append(tokens, core.ProtocolToken{
				Line: line, Column: record.Location.StartColumn - 1, Length: length, TypeIndex: 14,
			})
		case i == len(lines)-1:
			if record.Location.EndColumn <= 1 {
				continue
			}
			tokens = append(tokens, core.ProtocolToken{
				Line: line, Column: 0, Length: record.Location.EndColumn - 1, TypeIndex: 14,
			})
		default:
			if len(text) == 0 {
				continue
			}
			tokens = append(tokens, core.ProtocolToken{
				Line: line, Column: 0, Length: uint32(len(text)), TypeIndex: 14,
			})
		}
	}
	return tokens
}

// Sort orders tokens by (line, column), ascending, stable. The Server
// Loop calls this again over the combined token stream from every
// template in a document before delta-encoding.
func Sort(tokens []core.ProtocolToken) []core.ProtocolToken {
	for i := 1; i < len(tokens); i++ {
		for j := i; j > 0; j-- {
			a, b := tokens[j-1], tokens[j]
			if a.Line < b.Line || (a.Line == b.Line && a.Column <= b.Column) {
				break
			}
			tokens[j-1], tokens[j] = tokens[j], tokens[j-1]
		}
	}
	return tokens
}

// Encode delta-encodes a sorted token stream into the LSP
// semantic-tokens `data` array: quintuples of (delta_line,
// delta_start, length, type_index, modifier_bitset), with delta_start
// resetting to an absolute column whenever delta_line > 0. Grounded on
// gopls's protocol/semtok.Encode, adapted to this project's token
// type and without its noStrings/noNumbers filtering knobs.
func Encode(tokens []core.ProtocolToken) []uint32 {
	data := make([]uint32, 0, 5*len(tokens))
	var lastLine, lastColumn uint32
	for i, tok := range tokens {
		// Deduplicate exact-duplicate positions left by overlapping
		// nested highlight spans projected to the same byte range.
		if i > 0 && tok.Line == tokens[i-1].Line && tok.Column == tokens[i-1].Column && tok.Length == tokens[i-1].Length && tok.TypeIndex == tokens[i-1].TypeIndex {
			continue
		}

		var deltaLine, deltaColumn uint32
		if i == 0 || tok.Line != lastLine {
			deltaLine = tok.Line
			if i > 0 {
				deltaLine = tok.Line - lastLine
			}
			deltaColumn = tok.Column
		} else {
			deltaLine = 0
			deltaColumn = tok.Column - lastColumn
		}

		data = append(data, deltaLine, deltaColumn, tok.Length, tok.TypeIndex, tok.Modifiers)
		lastLine, lastColumn = tok.Line, tok.Column
	}
	return data
}
