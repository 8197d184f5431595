package ir

import "testing"

// ============================================================================
// Function Graph Tests
// ============================================================================

func TestValueListGetNRoundTrips(t *testing.T) {
	b := NewBuilder(FunctionIdent{Module: "m", Name: "f", Arity: 0}, "NORMAL", 0)
	c1 := b.ConstValue(b.Func.Consts.Int(1))
	c2 := b.ConstValue(b.Func.Consts.Int(2))
	list := b.ValueList([]Value{c1, c2})

	v0, ok0 := b.Func.ValueListGetN(list, 0)
	v1, ok1 := b.Func.ValueListGetN(list, 1)
	if !ok0 || !ok1 || v0 != c1 || v1 != c2 {
		t.Fatalf("ValueListGetN mismatch: v0=%v ok0=%v v1=%v ok1=%v", v0, ok0, v1, ok1)
	}

	if got, ok := b.Func.ValueListGetN(c1, 0); !ok || got != c1 {
		t.Error("ValueListGetN(v,0) should return v itself for a value that isn't a value-list primop")
	}
	if _, ok := b.Func.ValueListGetN(c1, 1); ok {
		t.Error("ValueListGetN(v,n>0) should fail for a value that isn't a value-list primop")
	}

	if got := b.Func.ValueListLength(list); got != 2 {
		t.Errorf("ValueListLength(list) = %d, want 2", got)
	}
	if got := b.Func.ValueListLength(c1); got != 1 {
		t.Errorf("ValueListLength(non-list) = %d, want 1", got)
	}
}

func TestSuccessorsDeduplicatesRepeatedTargets(t *testing.T) {
	b := NewBuilder(FunctionIdent{Module: "m", Name: "f", Arity: 1}, "NORMAL", 1)
	entry := b.Func.Entry()
	target := b.CreateBlock(0)
	cond := b.ArgValue(entry, 0)

	// Both branches of the if_bool happen to go to the same place.
	b.SetIfBool(entry, cond, b.BlockValue(target), b.BlockValue(target), b.Func.Locations.Empty())

	succs := b.Func.Successors(entry)
	if len(succs) != 1 || succs[0] != target {
		t.Fatalf("expected a single deduplicated successor, got %v", succs)
	}
	preds := b.Func.Predecessors(target)
	if len(preds) != 1 {
		t.Fatalf("expected a single deduplicated predecessor, got %v", preds)
	}
}

func TestGraphValidateGlobalCatchesMalformedIfBool(t *testing.T) {
	b := NewBuilder(FunctionIdent{Module: "m", Name: "f", Arity: 0}, "NORMAL", 0)
	entry := b.Func.Entry()
	// Bypass the builder's SetIfBool to simulate a malformed graph directly.
	b.setTerminator(entry, opData{Tag: OpIfBool}, nil, b.Func.Locations.Empty())

	if err := b.Func.GraphValidateGlobal(); err == nil {
		t.Fatal("expected validation to reject an if_bool terminator with no reads")
	}
}

func TestMatchArmsRoundTrip(t *testing.T) {
	b := NewBuilder(FunctionIdent{Module: "m", Name: "f", Arity: 0}, "NORMAL", 0)
	entry := b.Func.Entry()
	okAtom := b.Func.Consts.Atom("ok")
	scrutinee := b.ConstValue(okAtom)
	matched := b.CreateBlock(0)
	wildcard := b.CreateBlock(0)

	arms := []MatchArm{
		{Kind: MatchArmValue, Literal: okAtom, Target: b.BlockValue(matched)},
		{Kind: MatchArmWildcard, Target: b.BlockValue(wildcard)},
	}
	b.SetMatch(entry, scrutinee, arms, b.Func.Locations.Empty())

	got := b.Func.BlockMatchArms(entry)
	if len(got) != 2 || got[0].Literal != okAtom || got[1].Kind != MatchArmWildcard {
		t.Fatalf("unexpected match arms: %+v", got)
	}

	succs := b.Func.Successors(entry)
	if len(succs) != 2 {
		t.Fatalf("expected match arms to count as successors, got %v", succs)
	}
}
