package ir

import "testing"

// ============================================================================
// Builder Tests
// ============================================================================

func TestCreateBlockAllocatesArguments(t *testing.T) {
	b := NewBuilder(FunctionIdent{Module: "m", Name: "f", Arity: 1}, "NORMAL", 1)
	blk := b.CreateBlock(2)

	args := b.Func.BlockArgs(blk)
	if len(args) != 2 {
		t.Fatalf("expected 2 arguments, got %d", len(args))
	}
	if args[0] == args[1] {
		t.Error("distinct formal arguments must be distinct values")
	}
	if got := b.ArgValue(blk, 0); got != args[0] {
		t.Errorf("ArgValue mismatch: got %d want %d", got, args[0])
	}
}

func TestSetCallControlFlowMaintainsPredecessors(t *testing.T) {
	b := NewBuilder(FunctionIdent{Module: "m", Name: "f", Arity: 0}, "NORMAL", 0)
	entry := b.Func.Entry()
	target := b.CreateBlock(0)

	b.SetCallControlFlow(entry, b.BlockValue(target), nil, b.Func.Locations.Empty())

	succs := b.Func.Successors(entry)
	if len(succs) != 1 || succs[0] != target {
		t.Fatalf("expected entry's only successor to be target, got %v", succs)
	}
	preds := b.Func.Predecessors(target)
	if len(preds) != 1 || preds[0] != entry {
		t.Fatalf("expected target's only predecessor to be entry, got %v", preds)
	}
}

func TestReassigningTerminatorDropsStaleEdges(t *testing.T) {
	b := NewBuilder(FunctionIdent{Module: "m", Name: "f", Arity: 0}, "NORMAL", 0)
	entry := b.Func.Entry()
	first := b.CreateBlock(0)
	second := b.CreateBlock(0)

	b.SetCallControlFlow(entry, b.BlockValue(first), nil, b.Func.Locations.Empty())
	b.BlockClear(entry)
	b.SetCallControlFlow(entry, b.BlockValue(second), nil, b.Func.Locations.Empty())

	if preds := b.Func.Predecessors(first); len(preds) != 0 {
		t.Errorf("first should no longer be a successor of entry, preds=%v", preds)
	}
	if preds := b.Func.Predecessors(second); len(preds) != 1 || preds[0] != entry {
		t.Errorf("second should now be entry's only successor, preds=%v", preds)
	}
}

func TestReterminatingWithoutClearPanics(t *testing.T) {
	b := NewBuilder(FunctionIdent{Module: "m", Name: "f", Arity: 0}, "NORMAL", 0)
	entry := b.Func.Entry()
	loc := b.Func.Locations.Empty()
	b.SetUnreachable(entry, loc)

	defer func() {
		if recover() == nil {
			t.Fatal("expected re-terminating entry without BlockClear to panic")
		}
	}()
	b.SetUnreachable(entry, loc)
}

func TestBlockClearAllowsReterminating(t *testing.T) {
	b := NewBuilder(FunctionIdent{Module: "m", Name: "f", Arity: 0}, "NORMAL", 0)
	entry := b.Func.Entry()
	loc := b.Func.Locations.Empty()
	b.SetUnreachable(entry, loc)

	b.BlockClear(entry)
	b.SetUnreachable(entry, loc)
	if b.Func.BlockKind(entry) != OpUnreachable {
		t.Fatalf("expected entry to be re-terminated after BlockClear, got %v", b.Func.BlockKind(entry))
	}
}

func TestValueUsagesTracksTerminatorReads(t *testing.T) {
	b := NewBuilder(FunctionIdent{Module: "m", Name: "f", Arity: 0}, "NORMAL", 0)
	entry := b.Func.Entry()
	target := b.CreateBlock(1)

	c := b.ConstValue(b.Func.Consts.Int(7))
	b.SetCallControlFlow(entry, b.BlockValue(target), []Value{c}, b.Func.Locations.Empty())

	usages := b.Func.ValueUsages(c)
	if len(usages) != 1 || usages[0] != entry {
		t.Fatalf("expected const value to be used by entry, got %v", usages)
	}
}

func TestPrimOpTupleDedup(t *testing.T) {
	b := NewBuilder(FunctionIdent{Module: "m", Name: "f", Arity: 0}, "NORMAL", 1)
	entry := b.Func.Entry()
	x := b.ArgValue(entry, 0)

	t1 := b.Tuple([]Value{x, x})
	t2 := b.Tuple([]Value{x, x})
	if t1 != t2 {
		t.Fatal("structurally equal primops should dedup to the same Value")
	}
}

func TestGraphValidateGlobalOnWellFormedGraph(t *testing.T) {
	b := NewBuilder(FunctionIdent{Module: "m", Name: "f", Arity: 1}, "NORMAL", 1)
	entry := b.Func.Entry()
	x := b.ArgValue(entry, 0)
	thenB := b.CreateBlock(0)
	elseB := b.CreateBlock(0)

	b.SetIfBool(entry, x, b.BlockValue(thenB), b.BlockValue(elseB), b.Func.Locations.Empty())
	b.SetUnreachable(thenB, b.Func.Locations.Empty())
	b.SetUnreachable(elseB, b.Func.Locations.Empty())

	if err := b.Func.GraphValidateGlobal(); err != nil {
		t.Fatalf("expected a well-formed graph to validate, got %v", err)
	}
}
