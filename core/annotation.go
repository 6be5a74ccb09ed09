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

import "regexp"

// annotatedTemplatePattern matches `A[T, "tag"]` or `A[T, 'tag']`,
// whitespace-tolerant, where A and T are dotted identifiers.
var annotatedTemplatePattern = regexp.MustCompile(
	`^\s*([A-Za-z_][A-Za-z0-9_.]*)\s*\[\s*([A-Za-z_][A-Za-z0-9_.]*)\s*,\s*["']([A-Za-z0-9_]+)["']\s*\]\s*$`,
)

// ResolveAnnotatedTemplateTag implements the Annotated-Template-tag
// rule shared by the Context Resolver's type-alias pass and the
// Template Extractor's language-resolution chain: an annotation of the
// shape `A[T, "tag"]` names the language tag in its second slot iff A
// resolves, through imports, to typing.Annotated and T resolves to
// string.templatelib.Template.
func ResolveAnnotatedTemplateTag(annotationText string, imports map[string]string) (string, bool) {
	m := annotatedTemplatePattern.FindStringSubmatch(annotationText)
	if m == nil {
		return "", false
	}
	annotatedName, templateName, tag := m[1], m[2], m[3]

	if !resolvesTo(annotatedName, imports, "typing.Annotated") {
		return "", false
	}
	if !resolvesTo(templateName, imports, "string.templatelib.Template") {
		return "", false
	}
	return tag, true
}

// resolvesTo reports whether name is itself the fully-qualified target
// (written out in full at the use site) or resolves to it through the
// import table.
func resolvesTo(name string, imports map[string]string, fqn string) bool {
	if name == fqn {
		return true
	}
	return imports[name] == fqn
}
