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

// Package resolver implements the Context Resolver: it runs the
// imports, type-alias, and function-signature queries over a
// document's host AST, one query pass each, producing a fresh
// ModuleContext consumed by the extractor's language-resolution chain.
package resolver

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"go.tsh.dev/tsh/core"
	"go.tsh.dev/tsh/queries"
)

// Resolve runs three query passes over root (imports first, then type
// aliases, then function signatures) and returns a ModuleContext. It
// never mutates or reuses state from a previous document.
func Resolve(manager *queries.QueryManager, root *ts.Node, source []byte) (*core.ModuleContext, error) {
	ctx := core.NewModuleContext()

	if err := resolveImports(manager, root, source, ctx); err != nil {
		return nil, err
	}
	if err := resolveTypeAliases(manager, root, source, ctx); err != nil {
		return nil, err
	}
	if err := resolveFunctionSignatures(manager, root, source, ctx); err != nil {
		return nil, err
	}

	return ctx, nil
}

func resolveImports(manager *queries.QueryManager, root *ts.Node, source []byte, ctx *core.ModuleContext) error {
	matcher, err := queries.NewQueryMatcher(manager, "python", "imports")
	if err != nil {
		return err
	}
	defer matcher.Close()

	for match := range matcher.AllQueryMatches(root, source) {
		var dotted, module, name, alias string
		for _, cap := range match.Captures {
			capName := matcher.GetCaptureNameByIndex(cap.Index)
			text := cap.Node.Utf8Text(source)
			switch capName {
			case "import.dotted":
				dotted = text
			case "import.module":
				module = text
			case "import.name":
				name = text
			case "import.alias":
				alias = text
			}
		}

		switch {
		case dotted != "" && alias != "":
			ctx.Imports[alias] = dotted
		case dotted != "":
			ctx.Imports[lastSegment(dotted)] = dotted
		case module != "" && name != "" && alias != "":
			ctx.Imports[alias] = module + "." + name
		case module != "" && name != "":
			ctx.Imports[name] = module + "." + name
		}
	}

	return nil
}

func resolveTypeAliases(manager *queries.QueryManager, root *ts.Node, source []byte, ctx *core.ModuleContext) error {
	matcher, err := queries.NewQueryMatcher(manager, "python", "typeAliases")
	if err != nil {
		return err
	}
	defer matcher.Close()

	for match := range matcher.AllQueryMatches(root, source) {
		var name, value, annotation string
		for _, cap := range match.Captures {
			capName := matcher.GetCaptureNameByIndex(cap.Index)
			text := cap.Node.Utf8Text(source)
			switch capName {
			case "alias.name":
				name = text
			case "alias.value":
				value = text
			case "alias.annotation":
				annotation = text
			}
		}
		if name == "" || value == "" {
			continue
		}
		// The `type NAME = EXPR` statement form always qualifies. The
		// typed-assignment form only qualifies when its annotation
		// textually mentions TypeAlias.
		if annotation != "" && !strings.Contains(annotation, "TypeAlias") {
			continue
		}
		if tag, ok := core.ResolveAnnotatedTemplateTag(value, ctx.Imports); ok {
			ctx.TypeAliases[name] = tag
		}
	}

	return nil
}

func resolveFunctionSignatures(manager *queries.QueryManager, root *ts.Node, source []byte, ctx *core.ModuleContext) error {
	matcher, err := queries.NewQueryMatcher(manager, "python", "functionSignatures")
	if err != nil {
		return err
	}
	defer matcher.Close()

	for match := range matcher.AllQueryMatches(root, source) {
		var name string
		var parametersNode *ts.Node
		for _, cap := range match.Captures {
			capName := matcher.GetCaptureNameByIndex(cap.Index)
			switch capName {
			case "function.name":
				name = cap.Node.Utf8Text(source)
			case "function.parameters":
				n := cap.Node
				parametersNode = &n
			}
		}
		if name == "" || parametersNode == nil {
			continue
		}
		ctx.FunctionSignatures[name] = parameterList(parametersNode, source)
	}

	return nil
}

// parameterList walks a `parameters` node's children, advancing a
// position counter for every parameter kind alike (typed, untyped,
// defaulted, splat) and recording the textual type expression when
// present.
func parameterList(parametersNode *ts.Node, source []byte) []core.FunctionParameter {
	var params []core.FunctionParameter
	position := 0

	childCount := int(parametersNode.ChildCount())
	for i := range childCount {
		child := parametersNode.Child(uint(i))
		if child == nil || !child.IsNamed() {
			continue
		}

		switch child.Kind() {
		case "identifier", "list_splat_pattern", "dictionary_splat_pattern":
			params = append(params, core.FunctionParameter{Position: position})
		case "typed_parameter":
			params = append(params, core.FunctionParameter{
				Position: position,
				TypeText: fieldText(child, "type", source),
			})
		case "default_parameter":
			params = append(params, core.FunctionParameter{Position: position})
		case "typed_default_parameter":
			params = append(params, core.FunctionParameter{
				Position: position,
				TypeText: fieldText(child, "type", source),
			})
		default:
			continue
		}
		position++
	}

	return params
}

func fieldText(node *ts.Node, field string, source []byte) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return child.Utf8Text(source)
}

func lastSegment(dotted string) string {
	idx := strings.LastIndex(dotted, ".")
	if idx < 0 {
		return dotted
	}
	return dotted[idx+1:]
}
