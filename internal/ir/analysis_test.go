package ir

import "testing"

// ============================================================================
// Dataflow Analysis Tests
// ============================================================================

func TestLiveBlocksExcludesUnreachable(t *testing.T) {
	b := NewBuilder(FunctionIdent{Module: "m", Name: "f", Arity: 0}, "NORMAL", 0)
	entry := b.Func.Entry()
	reachable := b.CreateBlock(0)
	unreachable := b.CreateBlock(0)
	loc := b.Func.Locations.Empty()

	b.SetCallControlFlow(entry, b.BlockValue(reachable), nil, loc)
	b.SetUnreachable(reachable, loc)
	b.SetUnreachable(unreachable, loc)

	live := LiveBlocks(b.Func)
	if !live[entry] || !live[reachable] {
		t.Fatal("entry and reachable must be live")
	}
	if live[unreachable] {
		t.Fatal("a block with no incoming edge must not be live")
	}

	dead := DeadBlocks(b.Func)
	if len(dead) != 1 || dead[0] != unreachable {
		t.Fatalf("expected DeadBlocks to report only %v, got %v", unreachable, dead)
	}
}

func TestLiveValuesFollowsPrimOpOperands(t *testing.T) {
	b := NewBuilder(FunctionIdent{Module: "m", Name: "f", Arity: 1}, "NORMAL", 1)
	entry := b.Func.Entry()
	x := b.ArgValue(entry, 0)
	tuple := b.Tuple([]Value{x})
	b.SetCallFunction(entry, FunctionIdent{Module: "m", Name: "g", Arity: 1}, []Value{tuple}, b.Func.Locations.Empty())

	live := LiveValues(b.Func)
	if !live[tuple] {
		t.Fatal("the tuple read by the terminator must be live")
	}
	if !live[x] {
		t.Fatal("liveness must propagate through the tuple's own operand")
	}
}

func TestLiveValuesAtIsScopedPerBlock(t *testing.T) {
	b := NewBuilder(FunctionIdent{Module: "m", Name: "f", Arity: 1}, "NORMAL", 1)
	entry := b.Func.Entry()
	x := b.ArgValue(entry, 0)
	forward := b.CreateBlock(1)
	loc := b.Func.Locations.Empty()

	b.SetCallControlFlow(entry, b.BlockValue(forward), []Value{x}, loc)
	y := b.ArgValue(forward, 0)
	b.SetCallFunction(forward, FunctionIdent{Module: "m", Name: "g", Arity: 1}, []Value{y}, loc)

	atForward := LiveValuesAt(b.Func, forward)
	if !atForward[y] {
		t.Fatal("forward's own formal arg, read by its terminator, must be live at forward")
	}

	atEntry := LiveValuesAt(b.Func, entry)
	if !atEntry[x] {
		t.Fatal("entry's formal arg, read by its own terminator, must be live at entry")
	}
	if atEntry[y] {
		t.Fatal("forward's formal arg must not leak into entry's own live set")
	}
}

func TestTrivialCallChainEdgesFindsForwarders(t *testing.T) {
	b := NewBuilder(FunctionIdent{Module: "m", Name: "f", Arity: 0}, "NORMAL", 0)
	entry := b.Func.Entry()
	target := b.CreateBlock(0)
	loc := b.Func.Locations.Empty()

	b.SetCallControlFlow(entry, b.BlockValue(target), nil, loc)
	b.SetCallFunction(target, FunctionIdent{Module: "m", Name: "g", Arity: 0}, nil, loc)

	edges := TrivialCallChainEdges(b.Func)
	if len(edges) != 1 || edges[0].From != entry || edges[0].To != target {
		t.Fatalf("expected a single forwarding edge entry->target, got %v", edges)
	}
}
