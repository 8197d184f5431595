package ir

// Simplify collapses trivial call chains and rewrites provably-infinite
// control-flow cycles (spec.md §4.7). Grounded directly on
// original_source/libeir_passes/src/simplify_cfg/mod.rs's analyze/rewrite
// split: "analyze" here is reversePostOrder plus the per-block chain walk in
// walkChain, "rewrite" is installTerminator/mintBlock via the Builder and
// Mangler. walkChain's substitution is scoped by analysis.go's
// LiveValuesAt (spec.md §4.6), the per-block counterpart of the phi map
// spec.md §4.7 step 3b computes. The redundant-block-argument idiom comes
// from wazero ssa's passRedundantPhiEliminationOpt (other_examples/...ssa-
// pass.go.go), applied here as the loop-to-fixpoint shape rather than a
// literal phi map, since this IR has no phi nodes: block arguments already
// play that role.
type SimplifyStats struct {
	ChainsCollapsed int
	CyclesRewritten int
}

// ReceiveWaitForeverIntrinsic is the terminator name the simplify pass
// installs in place of a provably-infinite trivial call cycle: the chain
// never reaches a block that does observable work, so it is semantically
// equivalent to parking forever. Always permitted by the NORMAL dialect
// (internal/dialect).
const ReceiveWaitForeverIntrinsic = "receive_wait_forever"

// Simplify runs the pass to a fixpoint, then runs the §4.8 Mangler once over
// the resulting graph from its entry and adopts the mangler's returned block
// as the function's new entry (spec.md §4.7 step 5). Every chain-collapse
// and cycle-rewrite below mutates blocks in place; the final mangle pass is
// a pure graph rebuild under the identity substitution, so it changes no
// observable terminator — it only gives the function a canonical copy that
// no longer carries any of the now-unreachable chain interior blocks as
// live nodes reachable from entry.
func Simplify(b *Builder) SimplifyStats {
	var stats SimplifyStats
	for {
		changed := false
		for _, blk := range reversePostOrder(b.Func) {
			if threadBlock(b, blk, &stats) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	m := NewMangler(b, map[Value]Value{})
	if newEntry, err := m.MangleEntry(b.BlockValue(b.Func.Entry())); err == nil {
		b.Func.entry = newEntry
		b.SetCurrentBlock(newEntry)
	}

	return stats
}

// reversePostOrder orders live blocks so that, as much as a cyclic graph
// allows, a block is processed before the blocks it calls — giving
// deterministic results when more than one chain could be threaded first
// (spec.md §4.7's reverse-post-order tie-break).
func reversePostOrder(f *Function) []Block {
	visited := make(map[Block]bool)
	var post []Block
	var visit func(b Block)
	visit = func(b Block) {
		if visited[b] {
			return
		}
		visited[b] = true
		for _, s := range f.Successors(b) {
			visit(s)
		}
		post = append(post, b)
	}
	visit(f.Entry())
	// reverse
	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}

// staticCallee resolves a continuation value to a concrete Block, if it is
// one (rather than a runtime-chosen continuation).
func staticCallee(f *Function, v Value) (Block, bool) {
	k := f.ValueKind(v)
	if k.Tag != ValueKindBlock {
		return 0, false
	}
	return k.Block, true
}

// threadBlock dispatches a live block to the collapse appropriate to its own
// terminator shape: a block whose entire body is a forward is collapsed
// directly; a block that branches to several continuations (Match, IfBool)
// has each collapsible branch replaced independently, since no single one of
// them can become the whole block's terminator.
func threadBlock(b *Builder, blk Block, stats *SimplifyStats) bool {
	switch b.Func.BlockKind(blk) {
	case OpCallControlFlow:
		return collapseCallControlFlow(b, blk, stats)
	case OpMatch:
		return collapseMatchArms(b, blk, stats)
	case OpIfBool:
		return collapseIfBoolBranches(b, blk, stats)
	default:
		return false
	}
}

// chainWalkResult is the real terminator walkChain found at the far end of a
// chain of trivial forwarding blocks, already rewritten under the
// accumulated substitution — or a report that the chain can never reach one.
type chainWalkResult struct {
	cyclic bool

	tag    OpKindTag
	callee FunctionIdent
	n      int
	update bool
	name   string
	arms   []MatchArm
	reads  []Value
	loc    Location
}

// walkChain follows callee/args forward through zero or more trivial
// call_control_flow forwarding blocks — substituting each hop's formal
// arguments for the threaded actual arguments, scoped to the values
// LiveValuesAt reports the hop's target actually needs (spec.md §4.6, §4.7
// step 3b) — until it reaches a block whose terminator does real work, and
// returns that terminator spliced under the full accumulated substitution.
// requireHop demands that callee resolve to a block whose own terminator is
// itself a forward before any collapsing happens: a chain edge is by
// definition a call_control_flow link (spec.md §4.7's "Definitions"), so a
// Match arm or IfBool branch that points directly at a real-work block with
// no such edge in between is not a chain and must be left alone — skipping
// this check for a multi-arm entry would re-mint an identical replacement
// block every fixpoint iteration and never converge.
func walkChain(b *Builder, calleeVal Value, args []Value, loc Location, requireHop bool) (chainWalkResult, bool) {
	f := b.Func
	target, ok := staticCallee(f, calleeVal)
	if !ok {
		return chainWalkResult{}, false
	}
	if requireHop && f.BlockKind(target) != OpCallControlFlow {
		return chainWalkResult{}, false
	}

	visited := make(map[Block]bool)
	for {
		if visited[target] {
			return chainWalkResult{cyclic: true}, true
		}
		visited[target] = true

		live := LiveValuesAt(f, target)
		targetArgs := f.BlockArgs(target)
		subst := make(map[Value]Value, len(targetArgs))
		for i, formal := range targetArgs {
			if i < len(args) && live[formal] {
				subst[formal] = args[i]
			}
		}

		if f.BlockKind(target) == OpCallControlFlow {
			mangled, err := NewMangler(b, subst).MangleAll(f.BlockReads(target))
			if err != nil {
				return chainWalkResult{}, false
			}
			calleeVal, args = mangled[0], mangled[1:]
			loc = f.Locations.Concat(loc, f.BlockLocation(target))
			next, ok := staticCallee(f, calleeVal)
			if !ok {
				return chainWalkResult{}, false
			}
			target = next
			continue
		}

		m := NewMangler(b, subst)
		reads, err := m.MangleAll(f.BlockReads(target))
		if err != nil {
			return chainWalkResult{}, false
		}
		res := chainWalkResult{
			tag:    f.BlockKind(target),
			callee: f.BlockCallee(target),
			n:      f.BlockUnpackCount(target),
			update: f.BlockMapUpdate(target),
			name:   f.BlockOpName(target),
			reads:  reads,
			loc:    f.Locations.Concat(loc, f.BlockLocation(target)),
		}
		if res.tag == OpMatch {
			arms := f.BlockMatchArms(target)
			newArms := make([]MatchArm, len(arms))
			for i, arm := range arms {
				nt, err := m.Mangle(arm.Target)
				if err != nil {
					return chainWalkResult{}, false
				}
				newArms[i] = MatchArm{Kind: arm.Kind, Literal: arm.Literal, Binary: arm.Binary, Target: nt}
			}
			res.arms = newArms
		}
		return res, true
	}
}

// installTerminator reinstalls a chainWalkResult's terminator on blk. blk
// must not currently carry a terminator (callers clear it, or it was just
// allocated).
func installTerminator(b *Builder, blk Block, res chainWalkResult) {
	switch res.tag {
	case OpCallFunction:
		b.SetCallFunction(blk, res.callee, res.reads, res.loc)
	case OpMatch:
		b.SetMatch(blk, res.reads[0], res.arms, res.loc)
	case OpIfBool:
		b.SetIfBool(blk, res.reads[0], res.reads[1], res.reads[2], res.loc)
	case OpUnpackValueList:
		b.SetUnpackValueList(blk, res.n, res.reads[0], res.reads[1], res.loc)
	case OpMapPut:
		b.SetMapPut(blk, res.update, res.reads[0], res.reads[1], res.reads[2], res.reads[3], res.loc)
	case OpTraceCaptureRaw:
		b.SetTraceCaptureRaw(blk, res.reads[0], res.loc)
	case OpTraceConstruct:
		b.SetTraceConstruct(blk, res.reads[0], res.reads[1], res.loc)
	case OpUnreachable:
		b.SetUnreachable(blk, res.loc)
	case OpIntrinsic:
		b.SetIntrinsic(blk, res.name, res.reads, res.loc)
	case OpDyn:
		b.SetDyn(blk, res.name, res.reads, res.loc)
	}
}

// mintBlock allocates a fresh, argument-less block carrying res's terminator
// — the "mint a new block" half of spec.md §4.7 step 3c, used whenever a
// collapsible chain hangs off one operand of a larger terminator (a Match
// arm, an IfBool branch) rather than being the whole block's own terminator,
// so it cannot simply overwrite that block in place.
func mintBlock(b *Builder, res chainWalkResult) Block {
	blk := b.CreateBlock(0)
	installTerminator(b, blk, res)
	return blk
}

func mintIntrinsicBlock(b *Builder, name string, loc Location) Block {
	blk := b.CreateBlock(0)
	b.SetIntrinsic(blk, name, nil, loc)
	return blk
}

// collapseCallControlFlow handles a block whose entire terminator is a
// forward: the target's real terminator can be reused directly on blk, since
// blk had nothing else going on (spec.md §4.7 step 3c's direct-reuse case;
// §8 Scenarios 1 and 2).
func collapseCallControlFlow(b *Builder, blk Block, stats *SimplifyStats) bool {
	f := b.Func
	reads := f.BlockReads(blk)
	calleeVal, args := reads[0], reads[1:]
	loc := f.BlockLocation(blk)

	res, ok := walkChain(b, calleeVal, args, loc, false)
	if !ok {
		return false
	}

	b.BlockClear(blk)
	if res.cyclic {
		b.SetIntrinsic(blk, ReceiveWaitForeverIntrinsic, nil, loc)
		stats.CyclesRewritten++
		return true
	}
	installTerminator(b, blk, res)
	stats.ChainsCollapsed++
	return true
}

// collapseMatchArms rewrites each Match arm whose target is reached through
// a trivial forwarding chain to point at a freshly minted block carrying the
// chain's real terminator instead (spec.md §8 Scenario 4: "Match
// pass-through").
func collapseMatchArms(b *Builder, blk Block, stats *SimplifyStats) bool {
	f := b.Func
	arms := f.BlockMatchArms(blk)
	loc := f.BlockLocation(blk)
	newArms := make([]MatchArm, len(arms))
	changed := false

	for i, arm := range arms {
		newArms[i] = arm
		res, ok := walkChain(b, arm.Target, nil, loc, true)
		if !ok {
			continue
		}
		changed = true
		if res.cyclic {
			newArms[i].Target = b.BlockValue(mintIntrinsicBlock(b, ReceiveWaitForeverIntrinsic, loc))
			stats.CyclesRewritten++
			continue
		}
		newArms[i].Target = b.BlockValue(mintBlock(b, res))
		stats.ChainsCollapsed++
	}
	if !changed {
		return false
	}

	scrutinee := f.BlockReads(blk)[0]
	b.BlockClear(blk)
	b.SetMatch(blk, scrutinee, newArms, loc)
	return true
}

// collapseIfBoolBranches is collapseMatchArms' counterpart for the two
// branches of an IfBool terminator.
func collapseIfBoolBranches(b *Builder, blk Block, stats *SimplifyStats) bool {
	f := b.Func
	reads := f.BlockReads(blk)
	cond, thenCont, elseCont := reads[0], reads[1], reads[2]
	loc := f.BlockLocation(blk)
	changed := false

	collapse := func(cont Value) Value {
		res, ok := walkChain(b, cont, nil, loc, true)
		if !ok {
			return cont
		}
		changed = true
		if res.cyclic {
			stats.CyclesRewritten++
			return b.BlockValue(mintIntrinsicBlock(b, ReceiveWaitForeverIntrinsic, loc))
		}
		stats.ChainsCollapsed++
		return b.BlockValue(mintBlock(b, res))
	}

	newThen := collapse(thenCont)
	newElse := collapse(elseCont)
	if !changed {
		return false
	}

	b.BlockClear(blk)
	b.SetIfBool(blk, cond, newThen, newElse, loc)
	return true
}
