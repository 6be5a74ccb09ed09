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

// Package check is a thin, non-LSP consumer of the extraction/
// highlighting pipeline for the `tsh check` command: it runs the same
// passes the server runs per document and reports
// UnsupportedLanguage/EmbeddedParseError/QueryError occurrences as
// findings instead of degrading them silently.
package check

import (
	"errors"
	"fmt"

	"go.tsh.dev/tsh/core"
	resolver "go.tsh.dev/tsh/core/context"
	"go.tsh.dev/tsh/core/extract"
	"go.tsh.dev/tsh/core/highlight"
	"go.tsh.dev/tsh/queries"
)

// Finding is one lint-reportable occurrence: a template whose embedded
// language failed to resolve or highlight.
type Finding struct {
	Location core.Location
	Language string
	Err      error
}

// File runs the pipeline over one Python source file's bytes and
// returns every template with a language tag whose highlighting
// failed, plus the total number of templates found. Templates with no
// resolved language tag are counted but not reported.
func File(manager *queries.QueryManager, source []byte) (findings []Finding, templateCount int, err error) {
	parser := queries.GetPythonParser()
	defer queries.PutPythonParser(parser)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, 0, fmt.Errorf("%w", core.ErrHostParse)
	}
	defer tree.Close()

	ctx, err := resolver.Resolve(manager, tree.RootNode(), source)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", core.ErrHostParse, err)
	}

	records, err := extract.Extract(manager, tree.RootNode(), source, ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", core.ErrExtract, err)
	}

	for _, record := range records {
		if record.Language == "" {
			continue
		}
		if _, hErr := highlight.Highlight(manager, record); hErr != nil {
			findings = append(findings, Finding{
				Location: record.Location,
				Language: record.Language,
				Err:      &core.TemplateError{Err: hErr, Location: record.Location},
			})
		}
	}

	return findings, len(records), nil
}

// IsRecoverable reports whether err is one of the per-template
// recovery-policy errors (as opposed to a fatal host-parse/extract
// failure that aborts the whole file).
func IsRecoverable(err error) bool {
	return errors.Is(err, core.ErrUnsupportedLanguage) ||
		errors.Is(err, core.ErrEmbeddedParse) ||
		errors.Is(err, core.ErrQuery)
}
