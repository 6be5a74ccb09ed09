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

// Package extract implements the Template Extractor: it turns every
// string literal in a document that carries a `t`/`tr` prefix into a
// TemplateRecord with stripped content, an ordered interpolation list,
// and a resolved language tag.
package extract

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"go.tsh.dev/tsh/core"
	"go.tsh.dev/tsh/queries"
)

// knownPrefixes lists every template-literal opener this extractor
// recognizes, longest-quote variants first so a triple-quote opener is
// never mistaken for a single-quote one.
var knownPrefixes = []string{`t"""`, `t'''`, `tr"""`, `tr'''`, `rt"""`, `rt'''`, `t"`, `t'`, `tr"`, `tr'`, `rt"`, `rt'`}

// countableArgumentKinds are the node kinds spec's call-site positional
// matching counts as "arguments": string, identifier, call, attribute,
// integer, float, boolean, none. Keyword arguments are deliberately
// excluded — and since they never appear as a direct child of
// argument_list (Python wraps them in a keyword_argument node), a
// template passed as `f(x=t"...")` simply never matches the call
// pattern at all, so it never advances, or needs, a position.
var countableArgumentKinds = map[string]bool{
	"string":     true,
	"identifier": true,
	"call":       true,
	"attribute":  true,
	"integer":    true,
	"float":      true,
	"true":       true,
	"false":      true,
	"none":       true,
}

// Extract runs the host-grammar templates query over root and returns
// every TemplateRecord in source order, including those whose language
// stays unresolved ("").
func Extract(manager *queries.QueryManager, root *ts.Node, source []byte, ctx *core.ModuleContext) ([]core.TemplateRecord, error) {
	matcher, err := queries.NewQueryMatcher(manager, "python", "templates")
	if err != nil {
		return nil, err
	}
	defer matcher.Close()

	var records []core.TemplateRecord

	for captures := range matcher.ParentCaptures(root, source, "string") {
		stringCaptures, ok := captures["string"]
		if !ok || len(stringCaptures) == 0 {
			continue
		}
		stringInfo := stringCaptures[0]
		stringNode := queries.GetDescendantById(root, stringInfo.NodeId)
		if stringNode == nil {
			continue
		}

		prefix, quote, ok := matchPrefix(stringNode.Utf8Text(source))
		if !ok || !strings.ContainsAny(prefix, "tT") {
			continue
		}

		record := core.TemplateRecord{
			RawText: stringNode.Utf8Text(source),
			Flags: core.TemplateFlags{
				IsRaw:          strings.ContainsAny(prefix, "rR"),
				IsTripleQuoted: len(quote) == 3,
			},
			ArgumentPosition: -1,
		}
		record.Location = locationOf(stringNode, source)

		stripped, interpolations := reconstructContent(stringNode, source)
		record.StrippedContent = stripped
		record.Interpolations = interpolations

		if varNames, ok := captures["var_name"]; ok && len(varNames) > 0 {
			record.VariableName = varNames[0].Text
		}
		if funcNames, ok := captures["func_name"]; ok && len(funcNames) > 0 {
			record.FunctionName = funcNames[0].Text
			record.ArgumentPosition = argumentPosition(stringNode)
		}

		var typeAnnotation string
		if annotations, ok := captures["type_annotation"]; ok && len(annotations) > 0 {
			typeAnnotation = annotations[0].Text
		}

		record.Language = resolveLanguage(record, typeAnnotation, ctx)

		records = append(records, record)
	}

	return records, nil
}

// SplitPrefix splits a literal's raw text into its letter prefix and
// its opening quote delimiter — shared with the position projector,
// which needs the same prefix length to locate the literal's interior.
func SplitPrefix(rawText string) (prefix, quote string, ok bool) {
	return matchPrefix(rawText)
}

// matchPrefix splits a literal's raw text into its letter prefix and
// its opening quote delimiter.
func matchPrefix(rawText string) (prefix, quote string, ok bool) {
	for _, candidate := range knownPrefixes {
		if !strings.HasPrefix(rawText, candidate) {
			continue
		}
		// candidate is letters+quote; split at the first quote rune.
		for i, r := range candidate {
			if r == '"' || r == '\'' {
				return candidate[:i], candidate[i:], true
			}
		}
	}
	return "", "", false
}

func locationOf(node *ts.Node, source []byte) core.Location {
	startLine, startCol := core.PositionAt(source, uint32(node.StartByte()))
	endLine, endCol := core.PositionAt(source, uint32(node.EndByte()))
	return core.Location{
		StartLine:   startLine,
		StartColumn: startCol,
		EndLine:     endLine,
		EndColumn:   endCol,
	}
}

// reconstructContent walks the string node's children, collapsing
// doubled braces in literal fragments and replacing every
// interpolation with the two-byte `{}` sentinel.
func reconstructContent(stringNode *ts.Node, source []byte) (string, []core.Interpolation) {
	var sb strings.Builder
	var interpolations []core.Interpolation

	childCount := int(stringNode.ChildCount())
	for i := range childCount {
		child := stringNode.Child(uint(i))
		if child == nil {
			continue
		}

		switch child.Kind() {
		case "string_content":
			sb.WriteString(collapseBraces(child.Utf8Text(source)))
		case "interpolation":
			sb.WriteString("{}")
			if expr := interpolationExpression(child); expr != nil {
				startLine, startCol := core.PositionAt(source, uint32(expr.StartByte()))
				endLine, endCol := core.PositionAt(source, uint32(expr.EndByte()))
				interpolations = append(interpolations, core.Interpolation{
					Text: expr.Utf8Text(source),
					Location: core.Location{
						StartLine:   startLine,
						StartColumn: startCol,
						EndLine:     endLine,
						EndColumn:   endCol,
					},
				})
			}
		case "escape_interpolation":
			text := child.Utf8Text(source)
			if strings.Contains(text, "{") {
				sb.WriteByte('{')
			} else if strings.Contains(text, "}") {
				sb.WriteByte('}')
			}
		case "string_start", "string_end":
			// prefix + opening quote, and the closing quote: not part
			// of the interior.
		default:
			// Anonymous punctuation (if the grammar emits any outside
			// string_start/string_end) carries no content of its own.
		}
	}

	return sb.String(), interpolations
}

// interpolationExpression returns the interpolation node's expression
// child: the first child that is not a brace, `=`, format specifier,
// or type conversion.
func interpolationExpression(interpolation *ts.Node) *ts.Node {
	skip := map[string]bool{
		"{":                 true,
		"}":                 true,
		"=":                 true,
		"format_specifier":  true,
		"type_conversion":   true,
	}
	childCount := int(interpolation.ChildCount())
	for i := range childCount {
		child := interpolation.Child(uint(i))
		if child == nil || skip[child.Kind()] {
			continue
		}
		return child
	}
	return nil
}

func collapseBraces(s string) string {
	var b strings.Builder
	i := 0
	for i < len(s) {
		if i+1 < len(s) && s[i] == '{' && s[i+1] == '{' {
			b.WriteByte('{')
			i += 2
			continue
		}
		if i+1 < len(s) && s[i] == '}' && s[i+1] == '}' {
			b.WriteByte('}')
			i += 2
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// argumentPosition returns stringNode's 0-based positional index among
// its argument_list siblings, counting only value-bearing argument
// kinds, or -1 if stringNode is not a direct argument_list child.
func argumentPosition(stringNode *ts.Node) int {
	parent := stringNode.Parent()
	if parent == nil || parent.Kind() != "argument_list" {
		return -1
	}

	position := 0
	childCount := int(parent.ChildCount())
	for i := range childCount {
		child := parent.Child(uint(i))
		if child == nil || !child.IsNamed() {
			continue
		}
		if child.Id() == stringNode.Id() {
			return position
		}
		if countableArgumentKinds[child.Kind()] {
			position++
		}
	}
	return -1
}

// resolveLanguage applies the three-rule priority chain: direct
// Annotated-Template-tag annotation, then the type-alias table, then
// the call-site parameter's recorded type.
func resolveLanguage(record core.TemplateRecord, typeAnnotation string, ctx *core.ModuleContext) string {
	if typeAnnotation != "" {
		if tag, ok := core.ResolveAnnotatedTemplateTag(typeAnnotation, ctx.Imports); ok {
			return tag
		}
		if tag, ok := ctx.TypeAliases[strings.TrimSpace(typeAnnotation)]; ok {
			return tag
		}
	}

	if record.FunctionName != "" && record.ArgumentPosition >= 0 {
		if params, ok := ctx.FunctionSignatures[record.FunctionName]; ok {
			for _, p := range params {
				if p.Position != record.ArgumentPosition || p.TypeText == "" {
					continue
				}
				if tag, ok := core.ResolveAnnotatedTemplateTag(p.TypeText, ctx.Imports); ok {
					return tag
				}
				if tag, ok := ctx.TypeAliases[strings.TrimSpace(p.TypeText)]; ok {
					return tag
				}
			}
		}
	}

	return ""
}
