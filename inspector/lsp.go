// Package inspector exposes VM bytecode disassembly to an editor over
// the Language Server Protocol: a client opens a "document" whose
// content is a Blob's disassembly text (as produced by a session run),
// and hovering an opcode mnemonic explains what it does.
package inspector

import (
	"strings"
	"sync"
	"unicode"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/loomlang/loom/session"
)

const serverName = "loom-inspector"

// opcodeDocs is the hover text shown for each opcode mnemonic.
var opcodeDocs = map[string]string{
	"PUSH_NIL":         "Pushes the singular NIL value.",
	"PUSH_INTEGER":     "Pushes an INTEGER constant carried in the instruction's operand.",
	"PUSH_VARIABLE":    "Looks up a name in the current environment chain and pushes its value.",
	"PUSH_FUNCTION":    "Creates a closure over the current environment and the operand blob, and pushes it.",
	"DECLARE_VARIABLE": "Binds a name, in the current environment only, to the value on top of the stack.",
	"BLOCK_START":      "Pushes a fresh child environment onto the environment stack.",
	"BLOCK_END":        "Pops the current environment, exposing its parent again.",
	"POP":              "Discards the top of the value stack.",
	"IF":               "Pops a value; jumps to the operand offset if it is falsy (NIL), otherwise falls through.",
	"ELSE":             "Unconditionally jumps to the operand offset, past the else branch.",
	"CALL":             "Pops a FUNCTION and its arguments, binds parameters in a fresh environment, and transfers control into the callee's blob.",
	"DEBUG_PRINT":      "Writes the debug representation of the top-of-stack value without popping it.",
	"TAILCALL":         "Reserved; unimplemented, execution fails if reached.",
	"INVALID":          "Never emitted by the compiler; execution fails if reached.",
}

// Server answers LSP hover requests over the disassembly documents the
// client has opened; the text of each comes from didOpen/didChange.
type Server struct {
	store *session.Store

	mu   sync.Mutex
	docs map[string]string

	handler protocol.Handler
	server  *glspserver.Server
	version string
}

// New creates an inspector server that holds store. Hover answers are
// computed from the open documents only; store is not consulted.
func New(store *session.Store) *Server {
	s := &Server{
		store:   store,
		docs:    make(map[string]string),
		version: "0.1.0",
	}

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentHover: s.textDocumentHover,
	}

	s.server = glspserver.NewServer(&s.handler, serverName, false)
	return s
}

// Run starts the LSP server on stdio. Blocks until the client disconnects.
func (s *Server) Run() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	commonlog.NewInfoMessage(0, "loom inspector initializing")

	capabilities := s.handler.CreateServerCapabilities()
	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}
	capabilities.HoverProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.mu.Lock()
	s.docs[string(params.TextDocument.URI)] = params.TextDocument.Text
	s.mu.Unlock()
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	last := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := last.(protocol.TextDocumentContentChangeEventWhole); ok {
		s.mu.Lock()
		s.docs[string(params.TextDocument.URI)] = whole.Text
		s.mu.Unlock()
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	delete(s.docs, string(params.TextDocument.URI))
	s.mu.Unlock()
	return nil
}

func (s *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := params.TextDocument.URI
	pos := params.Position

	s.mu.Lock()
	text, ok := s.docs[string(uri)]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}

	word := extractWord(text, pos)
	doc, ok := opcodeDocs[word]
	if !ok {
		return nil, nil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: "**" + word + "**\n\n" + doc,
		},
	}, nil
}

// extractWord returns the full opcode-mnemonic-shaped token under the
// cursor: letters, digits, and underscores.
func extractWord(text string, pos protocol.Position) string {
	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return ""
	}
	line := lines[pos.Line]
	col := int(pos.Character)
	if col > len(line) {
		col = len(line)
	}

	start := col
	for start > 0 {
		ch := rune(line[start-1])
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' {
			start--
		} else {
			break
		}
	}
	end := col
	for end < len(line) {
		ch := rune(line[end])
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' {
			end++
		} else {
			break
		}
	}
	if start == end {
		return ""
	}
	return line[start:end]
}

func boolPtr(b bool) *bool { return &b }
