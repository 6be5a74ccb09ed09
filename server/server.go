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

// Package server wires the extraction/highlight/projection pipeline
// into a glsp Handler: one method per LSP request/notification this
// server answers.
package server

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"go.tsh.dev/tsh/internal/logging"
)

// TransportKind selects how the server exchanges LSP messages with its
// client.
type TransportKind string

const (
	TransportStdio     TransportKind = "stdio"
	TransportTCP       TransportKind = "tcp"
	TransportWebSocket TransportKind = "websocket"
	TransportNodeJS    TransportKind = "nodejs"
)

// Server answers textDocument/semanticTokens/full for embedded
// template languages discovered inside PEP 750 template strings.
type Server struct {
	pipeline  *pipeline
	documents *documentCache
	server    *server.Server
	transport TransportKind
}

// NewServer constructs the pipeline and the glsp Handler that fronts
// it.
func NewServer(transport TransportKind) (*Server, error) {
	// pterm writes to stderr so CLI-style log output never contaminates
	// the LSP stdout stream.
	pterm.SetDefaultOutput(os.Stderr)

	p, err := newPipeline()
	if err != nil {
		return nil, fmt.Errorf("failed to construct pipeline: %w", err)
	}

	s := &Server{
		pipeline:  p,
		documents: newDocumentCache(),
		transport: transport,
	}

	handler := protocol.Handler{
		Initialize:                    s.initialize,
		Initialized:                   s.initialized,
		Shutdown:                      s.shutdown,
		SetTrace:                      s.setTrace,
		TextDocumentDidOpen:           s.didOpen,
		TextDocumentDidChange:         s.didChange,
		TextDocumentDidClose:          s.didClose,
		TextDocumentSemanticTokensFull: s.semanticTokensFull,
	}

	debug := transport == TransportStdio
	s.server = server.NewServer(&handler, "tsh-lsp", debug)

	return s, nil
}

// Run starts the server on its configured transport.
func (s *Server) Run() error {
	logging.Debug("lsp: running with transport %s", s.transport)

	switch s.transport {
	case TransportStdio:
		return s.server.RunStdio()
	case TransportTCP:
		return s.server.RunTCP("localhost:8080")
	case TransportWebSocket:
		return s.server.RunWebSocket("localhost:8081")
	case TransportNodeJS:
		return s.server.RunNodeJs()
	default:
		return fmt.Errorf("unsupported transport kind: %s", s.transport)
	}
}

// Close releases the pipeline's query manager.
func (s *Server) Close() error {
	s.pipeline.close()
	return nil
}

func (s *Server) initialize(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	full := protocol.TextDocumentSyncKindFull
	capabilities := protocol.ServerCapabilities{
		TextDocumentSync: full,
		SemanticTokensProvider: protocol.SemanticTokensOptions{
			Legend: protocol.SemanticTokensLegend{
				TokenTypes:     tokenTypes,
				TokenModifiers: tokenModifiers,
			},
			Full: true,
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    "tsh-lsp",
			Version: &[]string{"0.1.0"}[0],
		},
	}, nil
}

func (s *Server) initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	logging.SetLSPContext(context)
	logging.Debug("lsp: initialized")
	return nil
}

func (s *Server) shutdown(context *glsp.Context) error {
	logging.Debug("lsp: shutdown requested")
	return s.Close()
}

func (s *Server) setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	logging.SetDebugEnabled(params.Value != protocol.TraceValueOff)
	logging.Debug("lsp: trace set to %s", params.Value)
	return nil
}

func (s *Server) didOpen(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	s.documents.set(uri, params.TextDocument.Text)
	s.pipeline.analyze(uri, params.TextDocument.Text)
	return nil
}

func (s *Server) didChange(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	for _, change := range params.ContentChanges {
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.documents.set(uri, whole.Text)
		}
	}
	if text, ok := s.documents.get(uri); ok {
		s.pipeline.analyze(uri, text)
	}
	return nil
}

func (s *Server) didClose(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.documents.remove(string(params.TextDocument.URI))
	return nil
}

func (s *Server) semanticTokensFull(context *glsp.Context, params *protocol.SemanticTokensParams) (any, error) {
	uri := string(params.TextDocument.URI)
	text, ok := s.documents.get(uri)
	if !ok {
		return nil, fmt.Errorf("document not open: %s", uri)
	}

	data, err := s.pipeline.semanticTokens(uri, text)
	if err != nil {
		logging.Debug("%s: semantic tokens failed: %v", uri, err)
		return &protocol.SemanticTokens{Data: []uint32{}}, nil
	}

	return &protocol.SemanticTokens{Data: data}, nil
}
