package ir

import (
	"strings"
	"testing"
)

// ============================================================================
// Printer Tests
// ============================================================================

func TestPrintIncludesFunctionSignatureAndEntryMarker(t *testing.T) {
	b := NewBuilder(FunctionIdent{Module: "m", Name: "f", Arity: 0}, "NORMAL", 0)
	entry := b.Func.Entry()
	b.SetUnreachable(entry, b.Func.Locations.Empty())

	out := Print(b.Func)
	if !strings.Contains(out, "fn m:f/0") {
		t.Errorf("expected printed output to name the function, got:\n%s", out)
	}
	if !strings.Contains(out, "entry") {
		t.Errorf("expected the entry block to be marked, got:\n%s", out)
	}
	if !strings.Contains(out, "unreachable") {
		t.Errorf("expected the unreachable terminator to be printed, got:\n%s", out)
	}
}

func TestPrintCallFunctionShowsCallee(t *testing.T) {
	b := NewBuilder(FunctionIdent{Module: "m", Name: "f", Arity: 1}, "NORMAL", 1)
	entry := b.Func.Entry()
	x := b.ArgValue(entry, 0)
	b.SetCallFunction(entry, FunctionIdent{Module: "other", Name: "g", Arity: 1}, []Value{x}, b.Func.Locations.Empty())

	out := Print(b.Func)
	if !strings.Contains(out, "other:g/1") {
		t.Errorf("expected callee ident in output, got:\n%s", out)
	}
}

func TestPrintConstAtomAndTuple(t *testing.T) {
	b := NewBuilder(FunctionIdent{Module: "m", Name: "f", Arity: 0}, "NORMAL", 0)
	entry := b.Func.Entry()
	ok := b.ConstValue(b.Func.Consts.Atom("ok"))
	one := b.ConstValue(b.Func.Consts.Int(1))
	tup := b.Tuple([]Value{ok, one})
	b.SetCallFunction(entry, FunctionIdent{Module: "m", Name: "g", Arity: 1}, []Value{tup}, b.Func.Locations.Empty())

	out := Print(b.Func)
	if !strings.Contains(out, "ok") || !strings.Contains(out, "1") {
		t.Errorf("expected constant values rendered in output, got:\n%s", out)
	}
}
