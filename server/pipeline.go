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

package server

import (
	"fmt"
	"sync"

	"go.tsh.dev/tsh/core"
	resolver "go.tsh.dev/tsh/core/context"
	"go.tsh.dev/tsh/core/extract"
	"go.tsh.dev/tsh/core/highlight"
	"go.tsh.dev/tsh/core/project"
	"go.tsh.dev/tsh/internal/logging"
	"go.tsh.dev/tsh/queries"
)

// pipeline owns the shared QueryManager and the extractor/highlighter
// mutexes the concurrency model requires: a request acquires them in
// the fixed order (extractor, then highlighter), held only for the
// duration of its call, so deadlock is impossible.
type pipeline struct {
	manager       *queries.QueryManager
	extractorMu   sync.Mutex
	highlighterMu sync.Mutex
}

func newPipeline() (*pipeline, error) {
	manager, err := queries.NewQueryManager(queries.DefaultQueries())
	if err != nil {
		return nil, fmt.Errorf("failed to construct query manager: %w", err)
	}
	return &pipeline{manager: manager}, nil
}

func (p *pipeline) close() {
	p.manager.Close()
}

// analyze runs the full extraction pass for logging/diagnostics on
// open/change, without highlighting or projecting. Per-template
// extraction is best-effort: a malformed template is skipped, never
// fatal to the document.
func (p *pipeline) analyze(uri, text string) {
	_, records, err := p.extractAll(text)
	if err != nil {
		logging.Debug("host parse failed for %s: %v", uri, err)
		return
	}
	logging.Debug("%s: %d template(s) found", uri, len(records))
}

// semanticTokens runs the full pipeline for one document and returns
// the delta-encoded `data` array for textDocument/semanticTokens/full.
func (p *pipeline) semanticTokens(uri, text string) ([]uint32, error) {
	_, records, err := p.extractAll(text)
	if err != nil {
		return nil, err
	}

	var tokens []core.ProtocolToken
	for _, record := range records {
		spans, degraded := p.highlightRecord(uri, record)
		if degraded {
			// UnsupportedLanguage / EmbeddedParseError / QueryError:
			// the whole template degrades to the macro-fallback path.
			record.Language = ""
		}
		tokens = append(tokens, project.Project(record, spans)...)
	}

	sorted := project.Sort(tokens)
	return project.Encode(sorted), nil
}

func (p *pipeline) extractAll(text string) (*core.ModuleContext, []core.TemplateRecord, error) {
	p.extractorMu.Lock()
	defer p.extractorMu.Unlock()

	source := []byte(text)
	parser := queries.GetPythonParser()
	defer queries.PutPythonParser(parser)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, nil, fmt.Errorf("%w", core.ErrHostParse)
	}
	defer tree.Close()

	ctx, err := resolver.Resolve(p.manager, tree.RootNode(), source)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", core.ErrHostParse, err)
	}

	records, err := extract.Extract(p.manager, tree.RootNode(), source, ctx)
	if err != nil {
		return ctx, nil, fmt.Errorf("%w: %v", core.ErrExtract, err)
	}

	return ctx, records, nil
}

// highlightRecord highlights one template, degrading to an unresolved
// (macro-fallback) record on any UnsupportedLanguage/EmbeddedParseError/
// QueryError rather than failing the whole request.
func (p *pipeline) highlightRecord(uri string, record core.TemplateRecord) (spans []core.HighlightSpan, degraded bool) {
	if record.Language == "" {
		return nil, false
	}

	p.highlighterMu.Lock()
	defer p.highlighterMu.Unlock()

	spans, err := highlight.Highlight(p.manager, record)
	if err != nil {
		logging.Debug("%s: %v", uri, err)
		return nil, true
	}
	return spans, false
}
