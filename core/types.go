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

// Package core holds the data model shared by the context resolver,
// extractor, highlighter, and position projector: the types that flow
// document text -> host parse -> templates -> highlight spans ->
// protocol tokens.
package core

// Location is a 1-based start/end line/column span in a document.
type Location struct {
	StartLine   uint32
	StartColumn uint32
	EndLine     uint32
	EndColumn   uint32
}

// Import maps a locally-visible name to its dotted fully-qualified name.
type Import struct {
	LocalName string
	QualifiedName string
}

// FunctionParameter is one positional parameter of a recorded function
// signature: its position, and the textual type expression if typed.
type FunctionParameter struct {
	Position int
	TypeText string // empty if the parameter carries no annotation
}

// ModuleContext is the per-document resolved view of imports, type
// aliases, and function signatures, rebuilt from scratch for every
// document and never carried across documents.
type ModuleContext struct {
	// Imports maps a locally-visible name to its dotted FQN.
	Imports map[string]string
	// TypeAliases maps an alias name to a resolved language tag.
	TypeAliases map[string]string
	// FunctionSignatures maps a function name to its ordered
	// positional parameter list.
	FunctionSignatures map[string][]FunctionParameter
}

// NewModuleContext returns an empty, ready-to-populate ModuleContext.
func NewModuleContext() *ModuleContext {
	return &ModuleContext{
		Imports:            make(map[string]string),
		TypeAliases:        make(map[string]string),
		FunctionSignatures: make(map[string][]FunctionParameter),
	}
}

// TemplateFlags records the lexical form of a template literal.
type TemplateFlags struct {
	IsRaw         bool
	IsTripleQuoted bool
}

// Interpolation is one `{expr[:format][!conv][=]}` hole.
type Interpolation struct {
	Text     string
	Location Location
}

// TemplateRecord is one template literal found in a document.
type TemplateRecord struct {
	RawText         string
	StrippedContent string
	Interpolations  []Interpolation
	// Language is the resolved language tag, or "" if unresolved.
	Language string
	Flags    TemplateFlags
	Location Location
	// VariableName and FunctionName are the surrounding context used
	// by the language-resolution chain; both may be empty.
	VariableName string
	FunctionName string
	// ArgumentPosition is the template's 0-based positional index when
	// FunctionName is set; -1 otherwise.
	ArgumentPosition int
}

// HighlightSpan is one classified byte range over a TemplateRecord's
// StrippedContent.
type HighlightSpan struct {
	StartByte uint32
	EndByte   uint32
	Class     string
}

// ProtocolToken is one semantic token in absolute, 0-based document
// coordinates, prior to delta encoding.
type ProtocolToken struct {
	Line      uint32
	Column    uint32
	Length    uint32
	TypeIndex uint32
	Modifiers uint32
}
