package lsp

import (
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/wisplang/wisp/internal/ast"
	"github.com/wisplang/wisp/internal/ir"
	"github.com/wisplang/wisp/internal/lower"
)

// DumpIRParams is the payload of the wisp/dumpIR custom request: the open
// document to lower, and optionally a single function name to restrict the
// dump to (empty means every function in the contract).
type DumpIRParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
	Function     string                          `json:"function,omitempty"`
}

// DumpIRResult carries one printed, simplified IR listing per lowered
// function plus any recoverable lowering diagnostics.
type DumpIRResult struct {
	Functions []FunctionIR `json:"functions"`
}

// FunctionIR is a single function's printed IR alongside the lowering
// errors recorded while building it.
type FunctionIR struct {
	Name   string   `json:"name"`
	IR     string   `json:"ir"`
	Errors []string `json:"errors,omitempty"`
}

// DumpIR serves the wisp/dumpIR custom request: it lowers the requested
// document's function(s) through internal/lower, simplifies the resulting
// graph with internal/ir.Simplify, and prints it, giving an editor the same
// IR that cmd/wisp's -ir flag prints at the command line (SPEC_FULL.md §4.12
// makes the LSP a downstream consumer of the lowering collaborator rather
// than a parallel implementation of it).
func (h *KansoHandler) DumpIR(ctx *glsp.Context, params *DumpIRParams) (*DumpIRResult, error) {
	path, err := uriToPath(string(params.TextDocument.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", params.TextDocument.URI, err)
	}

	contract, err := h.getOrUpdateAST(ctx, path, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return &DumpIRResult{}, nil
	}

	var out DumpIRResult
	for _, item := range contract.Items {
		fn, ok := item.(*ast.Function)
		if !ok || (params.Function != "" && fn.Name.Value != params.Function) {
			continue
		}

		result := lower.LowerFunction(fn, "")
		b := &ir.Builder{Func: result.Func}
		ir.Simplify(b)

		entry := FunctionIR{Name: fn.Name.Value, IR: ir.Print(result.Func)}
		for _, e := range result.Errors {
			entry.Errors = append(entry.Errors, fmt.Sprintf("%d:%d: %s", e.Position.Line, e.Position.Column, e.Message))
		}
		out.Functions = append(out.Functions, entry)
	}

	return &out, nil
}

// SetTrace handles the $/setTrace notification; wisp's LSP doesn't vary its
// logging by trace level, so this is a no-op acknowledgement.
func (h *KansoHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}
