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

// Package queries holds the grammar registry: one compiled host grammar
// (Python) plus the embedded grammars a template's language tag can
// resolve to, each with its highlight query loaded from an embed.FS.
package queries

import (
	"embed"
	"errors"
	"fmt"
	"iter"
	"path"
	"slices"
	"sync"
	"time"

	"github.com/pterm/pterm"

	ts "github.com/tree-sitter/go-tree-sitter"
	tsSql "github.com/DerekStride/tree-sitter-sql/bindings/go"
	tsCss "github.com/tree-sitter/tree-sitter-css/bindings/go"
	tsHtml "github.com/tree-sitter/tree-sitter-html/bindings/go"
	tsJavascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tsJson "github.com/tree-sitter/tree-sitter-json/bindings/go"
	tsPython "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

//go:embed */*.scm
var queryFiles embed.FS

var ErrNoQueryManager = errors.New("QueryManager is nil")

type NoCaptureError struct {
	Capture string
	Query   string
}

func (e *NoCaptureError) Error() string {
	return fmt.Sprintf("no nodes for capture %s in query %s", e.Capture, e.Query)
}

// ---- host + embedded grammars ----

var languages = struct {
	python     *ts.Language
	html       *ts.Language
	css        *ts.Language
	javascript *ts.Language
	json       *ts.Language
	sql        *ts.Language
}{
	ts.NewLanguage(tsPython.Language()),
	ts.NewLanguage(tsHtml.Language()),
	ts.NewLanguage(tsCss.Language()),
	ts.NewLanguage(tsJavascript.Language()),
	ts.NewLanguage(tsJson.Language()),
	ts.NewLanguage(tsSql.Language()),
}

// HostLanguage returns the compiled host grammar (Python).
func HostLanguage() *ts.Language {
	return languages.python
}

// ---- parser pooling ----

var pythonParserPool = newParserPool(languages.python)
var htmlParserPool = newParserPool(languages.html)
var cssParserPool = newParserPool(languages.css)
var javascriptParserPool = newParserPool(languages.javascript)
var jsonParserPool = newParserPool(languages.json)
var sqlParserPool = newParserPool(languages.sql)

func newParserPool(lang *ts.Language) *sync.Pool {
	return &sync.Pool{
		New: func() any {
			parser := ts.NewParser()
			if err := parser.SetLanguage(lang); err != nil {
				panic(fmt.Sprintf("failed to set language: %v", err))
			}
			return parser
		},
	}
}

// GetPythonParser returns a pooled Python (host-grammar) parser.
// Always call PutPythonParser when done.
func GetPythonParser() *ts.Parser { return pythonParserPool.Get().(*ts.Parser) }
func PutPythonParser(p *ts.Parser) {
	p.Reset()
	pythonParserPool.Put(p)
}

func GetHTMLParser() *ts.Parser { return htmlParserPool.Get().(*ts.Parser) }
func PutHTMLParser(p *ts.Parser) {
	p.Reset()
	htmlParserPool.Put(p)
}

func GetCSSParser() *ts.Parser { return cssParserPool.Get().(*ts.Parser) }
func PutCSSParser(p *ts.Parser) {
	p.Reset()
	cssParserPool.Put(p)
}

func GetJavaScriptParser() *ts.Parser { return javascriptParserPool.Get().(*ts.Parser) }
func PutJavaScriptParser(p *ts.Parser) {
	p.Reset()
	javascriptParserPool.Put(p)
}

func GetJSONParser() *ts.Parser { return jsonParserPool.Get().(*ts.Parser) }
func PutJSONParser(p *ts.Parser) {
	p.Reset()
	jsonParserPool.Put(p)
}

func GetSQLParser() *ts.Parser { return sqlParserPool.Get().(*ts.Parser) }
func PutSQLParser(p *ts.Parser) {
	p.Reset()
	sqlParserPool.Put(p)
}

// EmbeddedGrammar is a registry entry: a lookup of embedded-grammar
// resources for a language tag. The registry never parses; it only
// hands callers a parser/query pair to work with.
type EmbeddedGrammar struct {
	Language  *ts.Language
	Get       func() *ts.Parser
	Put       func(*ts.Parser)
	QueryName string
}

// embeddedGrammars maps a language tag to its embedded grammar entry.
// "javascript" and "js" share one entry, per the registry's initial set.
var embeddedGrammars = map[string]EmbeddedGrammar{
	"html":       {languages.html, GetHTMLParser, PutHTMLParser, "highlights"},
	"css":        {languages.css, GetCSSParser, PutCSSParser, "highlights"},
	"javascript": {languages.javascript, GetJavaScriptParser, PutJavaScriptParser, "highlights"},
	"js":         {languages.javascript, GetJavaScriptParser, PutJavaScriptParser, "highlights"},
	"json":       {languages.json, GetJSONParser, PutJSONParser, "highlights"},
	"sql":        {languages.sql, GetSQLParser, PutSQLParser, "highlights"},
}

// LookupEmbeddedGrammar returns the registered embedded grammar for a
// language tag, or false if the tag has no registered grammar — the
// caller degrades to a single opaque token (UnsupportedLanguage).
func LookupEmbeddedGrammar(languageTag string) (EmbeddedGrammar, bool) {
	g, ok := embeddedGrammars[languageTag]
	return g, ok
}

// KnownLanguageTags returns every registered embedded language tag,
// in a stable order, for preloading and CLI help text.
func KnownLanguageTags() []string {
	return []string{"html", "css", "javascript", "js", "json", "sql"}
}

// NormalizeLanguageTag maps a language tag to the key its compiled
// queries are stored under in a QueryManager. "js" shares
// "javascript"'s grammar and query, so it normalizes to that key;
// every other tag maps to itself.
func NormalizeLanguageTag(tag string) string {
	if tag == "js" {
		return "javascript"
	}
	return tag
}

// ---- highlight-class vocabulary (§4.1) ----

// HighlightNames is the ordered highlight-class vocabulary; a class's
// position in it is its stable index (see HighlightIndex). Highlight
// queries are not configured against this list: the highlighter reads
// each query's own capture names.
var HighlightNames = []string{
	"attribute",
	"comment",
	"constant",
	"constant.builtin",
	"constructor",
	"embedded",
	"function",
	"function.builtin",
	"keyword",
	"number",
	"operator",
	"property",
	"punctuation",
	"punctuation.bracket",
	"punctuation.delimiter",
	"punctuation.special",
	"string",
	"string.special",
	"tag",
	"type",
	"type.builtin",
	"variable",
	"variable.builtin",
	"variable.parameter",
}

// HighlightIndex returns the stable index of a highlight class name
// within HighlightNames, or -1 if unknown.
func HighlightIndex(name string) int {
	return slices.Index(HighlightNames, name)
}

// classToTypeIndex is the class -> LSP semantic-token-type-index
// table. Classes not listed default to variable (8).
var classToTypeIndex = map[string]uint32{
	"keyword":                15,
	"function":               12,
	"function.builtin":       12,
	"variable":               8,
	"variable.builtin":       8,
	"variable.parameter":     8,
	"string":                 18,
	"string.special":         18,
	"number":                 19,
	"comment":                17,
	"type":                   1,
	"type.builtin":           1,
	"class":                  2,
	"constructor":            2,
	"tag":                    2,
	"property":               9,
	"attribute":              9,
	"operator":               21,
	"punctuation":            21,
	"punctuation.bracket":    21,
	"punctuation.delimiter":  21,
	"macro":                  14,
}

// DefaultTypeIndex is the type index a class maps to when it has no
// explicit entry in the mapping table.
const DefaultTypeIndex uint32 = 8

// TypeIndexForClass maps a highlight class to its LSP semantic-token
// type index, defaulting to DefaultTypeIndex (variable) per §6.
func TypeIndexForClass(class string) uint32 {
	if idx, ok := classToTypeIndex[class]; ok {
		return idx
	}
	return DefaultTypeIndex
}

// ---- query selection + loading ----

// QuerySelector names the host-grammar and embedded-grammar query
// files to compile into a QueryManager.
type QuerySelector struct {
	Python     []string
	HTML       []string
	CSS        []string
	JavaScript []string
	JSON       []string
	SQL        []string
}

// DefaultQueries selects every query the core pipeline needs: the
// host-grammar queries that drive the Context Resolver and Template
// Extractor, and one highlight query per embedded grammar.
func DefaultQueries() QuerySelector {
	return QuerySelector{
		Python:     []string{"templates", "imports", "typeAliases", "functionSignatures"},
		HTML:       []string{"highlights"},
		CSS:        []string{"highlights"},
		JavaScript: []string{"highlights"},
		JSON:       []string{"highlights"},
		SQL:        []string{"highlights"},
	}
}

type QueryManager struct {
	mu      sync.RWMutex
	queries map[string]map[string]*ts.Query // language -> name -> query
}

func NewQueryManager(selector QuerySelector) (*QueryManager, error) {
	start := time.Now()
	qm := &QueryManager{queries: make(map[string]map[string]*ts.Query)}

	groups := []struct {
		language string
		names    []string
	}{
		{"python", selector.Python},
		{"html", selector.HTML},
		{"css", selector.CSS},
		{"javascript", selector.JavaScript},
		{"json", selector.JSON},
		{"sql", selector.SQL},
	}

	for _, group := range groups {
		for _, name := range group.names {
			if err := qm.loadQuery(group.language, name); err != nil {
				qm.Close()
				return nil, fmt.Errorf("failed to load %s query %s: %w", group.language, name, err)
			}
		}
	}

	pterm.Debug.Println("constructing selected queries took", time.Since(start))
	return qm, nil
}

func languageByName(language string) (*ts.Language, error) {
	switch language {
	case "python":
		return languages.python, nil
	case "html":
		return languages.html, nil
	case "css":
		return languages.css, nil
	case "javascript", "js":
		return languages.javascript, nil
	case "json":
		return languages.json, nil
	case "sql":
		return languages.sql, nil
	default:
		return nil, fmt.Errorf("unknown language %s", language)
	}
}

func (qm *QueryManager) loadQuery(language, queryName string) error {
	// path.Join, not filepath.Join - embed.FS requires POSIX separators.
	queryPath := path.Join(language, queryName+".scm")
	data, err := queryFiles.ReadFile(queryPath)
	if err != nil {
		return fmt.Errorf("failed to read query file %s: %w", queryPath, err)
	}

	tsLang, err := languageByName(language)
	if err != nil {
		return err
	}

	query, qerr := ts.NewQuery(tsLang, string(data))
	if qerr != nil {
		return fmt.Errorf("failed to parse query %s: %w", queryName, qerr)
	}

	qm.mu.Lock()
	defer qm.mu.Unlock()
	if qm.queries[language] == nil {
		qm.queries[language] = make(map[string]*ts.Query)
	}
	qm.queries[language][queryName] = query
	return nil
}

func (qm *QueryManager) Close() {
	qm.mu.Lock()
	defer qm.mu.Unlock()
	for _, byName := range qm.queries {
		for _, query := range byName {
			query.Close()
		}
	}
}

func (qm *QueryManager) getQuery(queryName, language string) (*ts.Query, error) {
	qm.mu.RLock()
	defer qm.mu.RUnlock()
	byName, ok := qm.queries[language]
	if !ok {
		return nil, fmt.Errorf("unknown language %s", language)
	}
	q, ok := byName[queryName]
	if !ok {
		return nil, fmt.Errorf("unknown query %s for language %s", queryName, language)
	}
	return q, nil
}

// ---- query matching ----

type CaptureInfo struct {
	NodeId    int
	Text      string
	StartByte uint
	EndByte   uint
}

type CaptureMap = map[string][]CaptureInfo

type QueryMatcher struct {
	query  *ts.Query
	cursor *ts.QueryCursor
}

func (qm QueryMatcher) Close() {
	// Queries themselves close only via QueryManager.Close; cursors are
	// never pooled because QueryCursor carries mutable iteration state.
	qm.cursor.Close()
}

func (qm QueryMatcher) GetCaptureNameByIndex(index uint32) string {
	return qm.query.CaptureNames()[index]
}

func NewQueryMatcher(manager *QueryManager, language, queryName string) (*QueryMatcher, error) {
	if manager == nil {
		return nil, ErrNoQueryManager
	}
	query, err := manager.getQuery(queryName, language)
	if err != nil {
		return nil, err
	}
	cursor := ts.NewQueryCursor()
	qm := QueryMatcher{query, cursor}
	return &qm, nil
}

// GetCachedQueryMatcher returns a matcher over a cached, shared query
// with a fresh cursor — sharing a *ts.Query is safe, sharing a
// *ts.QueryCursor across concurrent matches is not.
func GetCachedQueryMatcher(manager *QueryManager, language, queryName string) (*QueryMatcher, error) {
	if manager == nil {
		return nil, ErrNoQueryManager
	}
	query, err := manager.getQuery(queryName, language)
	if err != nil {
		return nil, err
	}
	cursor := ts.NewQueryCursor()
	matcher := QueryMatcher{query, cursor}
	return &matcher, nil
}

func (q QueryMatcher) AllQueryMatches(node *ts.Node, text []byte) iter.Seq[*ts.QueryMatch] {
	matches := q.cursor.Matches(q.query, node, text)
	return func(yield func(m *ts.QueryMatch) bool) {
		for {
			m := matches.Next()
			if m == nil {
				break
			}
			if !yield(m) {
				return
			}
		}
	}
}

// ParentCaptures returns an iterator over unique parent-node captures
// identified by parentCaptureName. For every unique parent node (e.g. a
// template literal, an import statement, a function definition), it
// aggregates all captures from all matches sharing that parent node
// into a single CaptureMap, sorted by the parent's start byte.
func (q *QueryMatcher) ParentCaptures(root *ts.Node, code []byte, parentCaptureName string) iter.Seq[CaptureMap] {
	names := q.query.CaptureNames()

	type pgroup struct {
		capMap    CaptureMap
		startByte uint
	}

	parentGroups := make(map[int]pgroup)

	for match := range q.AllQueryMatches(root, code) {
		var parentNode *ts.Node
		for _, cap := range match.Captures {
			if names[cap.Index] == parentCaptureName {
				parentNode = &cap.Node
				break
			}
		}
		if parentNode == nil {
			continue
		}
		pid := int(parentNode.Id())
		startByte := parentNode.StartByte()
		if _, ok := parentGroups[pid]; !ok {
			parentGroups[pid] = pgroup{make(CaptureMap), startByte}
		}
		for _, cap := range match.Captures {
			name := names[cap.Index]
			ci := CaptureInfo{
				NodeId:    int(cap.Node.Id()),
				Text:      cap.Node.Utf8Text(code),
				StartByte: cap.Node.StartByte(),
				EndByte:   cap.Node.EndByte(),
			}
			if !slices.ContainsFunc(parentGroups[pid].capMap[name], func(m CaptureInfo) bool {
				return m.NodeId == ci.NodeId
			}) {
				parentGroups[pid].capMap[name] = append(parentGroups[pid].capMap[name], ci)
			}
		}
	}

	sorted := make([]pgroup, 0, len(parentGroups))
	for _, group := range parentGroups {
		sorted = append(sorted, group)
	}
	slices.SortStableFunc(sorted, func(a, b pgroup) int {
		return int(a.startByte) - int(b.startByte)
	})

	return func(yield func(CaptureMap) bool) {
		for _, group := range sorted {
			if !yield(group.capMap) {
				break
			}
		}
	}
}

func GetDescendantById(root *ts.Node, id int) *ts.Node {
	var find func(node *ts.Node) *ts.Node
	find = func(node *ts.Node) *ts.Node {
		if int(node.Id()) == id {
			return node
		}
		for i := range int(node.ChildCount()) {
			child := node.Child(uint(i))
			if child == nil {
				continue
			}
			if res := find(child); res != nil {
				return res
			}
		}
		return nil
	}
	return find(root)
}

