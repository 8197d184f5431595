// SPDX-License-Identifier: Apache-2.0
package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/wisplang/wisp/internal/lsp"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const dumpIRMethod = "wisp/dumpIR"

// customRequestHandler serves the wisp/dumpIR extension method and delegates
// every standard LSP method to the generated protocol.Handler.
type customRequestHandler struct {
	base  *protocol.Handler
	kanso *lsp.KansoHandler
}

func (h *customRequestHandler) Handle(context *glsp.Context) (r any, validMethod bool, validParams bool, err error) {
	if context.Method != dumpIRMethod {
		return h.base.Handle(context)
	}

	var params lsp.DumpIRParams
	if len(context.Params) > 0 {
		if err := json.Unmarshal(context.Params, &params); err != nil {
			return nil, true, false, err
		}
	}

	result, err := h.kanso.DumpIR(context, &params)
	return result, true, true, err
}

const lsName = "github.com/wisplang/wisp" // Name identifier for the language server

var (
	version = "0.0.1"        // Server version
	handler protocol.Handler // Protocol handler instance (wired up below)
)

// Define the list of supported semantic token types
// This should align with what your language server reports and uses
var semanticTokenTypes = []string{
	"namespace",
	"type",
	"typeParameter",
	"function",
	"variable",
	"parameter",
	"property",
	"keyword",
	"number",
	"operator",
	"modifier",
}

// Define the list of semantic token modifiers (extra tags)
var semanticTokenModifiers = []string{
	"declaration",
	"definition",
	"readonly",
	"static",
	"deprecated",
	"abstract",
}

func main() {
	// Configure debug logging (1 = debug level, nil = default logger)
	commonlog.Configure(1, nil)

	// Create a new instance of the KansoHandler (your language-specific handler)
	kansoHandler := lsp.NewKansoHandler()

	// Wire up the handler with specific LSP method implementations
	handler = protocol.Handler{
		Initialize:                     kansoHandler.Initialize,
		Initialized:                    kansoHandler.Initialized,
		Shutdown:                       kansoHandler.Shutdown,
		SetTrace:                       kansoHandler.SetTrace,
		TextDocumentDidOpen:            kansoHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           kansoHandler.TextDocumentDidClose,
		TextDocumentDidChange:          kansoHandler.TextDocumentDidChange,
		TextDocumentCompletion:         kansoHandler.TextDocumentCompletion,
		TextDocumentSemanticTokensFull: kansoHandler.TextDocumentSemanticTokensFull,
	}

	// protocol.Handler only dispatches the fixed LSP method set, so the
	// wisp/dumpIR extension is served by a thin wrapper that intercepts its
	// own method name and otherwise falls through to the generated handler.
	dumpIRHandler := &customRequestHandler{base: &handler, kanso: kansoHandler}

	// Create a new GLSP (Go Language Server Protocol) server instance
	// Parameters:
	// - handler: the protocol handler struct
	// - name: the language server name (shown to clients)
	// - debug: whether to enable internal GLSP debug logs
	s := server.NewServer(dumpIRHandler, lsName, false)

	log.Println("Starting Kanso LSP server...")

	// Start the server over standard input/output (used by most editors for LSP)
	// This lets the editor communicate with the language server process
	err := s.RunStdio()
	if err != nil {
		log.Println("Error starting Kanso LSP server:", err)
		os.Exit(1)

	}
}
