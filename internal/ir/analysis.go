package ir

// Read-only dataflow queries over a Function (spec.md §4.6). Grounded on
// wazero ssa's passDeadBlockEliminationOpt (reachability via an explicit
// worklist, other_examples/...ssa-pass.go.go) for the live-block walk, and on
// malphas-lang's internal/mir/optimize/dce.go (other_examples) for the
// backward liveness shape.

// LiveBlocks returns the set of blocks reachable from the function's entry
// block by following terminator control-flow edges.
func LiveBlocks(f *Function) map[Block]bool {
	live := make(map[Block]bool)
	stack := []Block{f.Entry()}
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if live[b] {
			continue
		}
		live[b] = true
		for _, s := range f.Successors(b) {
			if !live[s] {
				stack = append(stack, s)
			}
		}
	}
	return live
}

// LiveValues returns the set of values transitively read by some live
// block's terminator, including the operands of any PrimOp reached that way
// (a backward fixpoint over the primop DAG: a primop's own reads are live
// exactly when the value it produces is live).
func LiveValues(f *Function) map[Value]bool {
	live := make(map[Value]bool)
	var mark func(v Value)
	mark = func(v Value) {
		if !v.Valid() || live[v] {
			return
		}
		live[v] = true
		if f.ValueKind(v).Tag == ValueKindPrimOp {
			for _, r := range f.PrimOpReads(f.ValueKind(v).PrimOp) {
				mark(r)
			}
		}
	}
	for b := range LiveBlocks(f) {
		for _, r := range f.BlockReads(b) {
			mark(r)
		}
		for _, arm := range f.BlockMatchArms(b) {
			mark(arm.Target)
		}
	}
	return live
}

// LiveValuesAt returns the values live on entry to b: values read by b's own
// terminator, plus any value live on entry to a successor that neither b nor
// that successor defines as a formal argument (spec.md §4.6: "for each block, the set
// of Values that are read in this block or any successor and are not
// defined... in this block"). This is the per-block counterpart to
// LiveValues; simplify.go's chain synthesis (§4.7 step 3b) uses it to scope
// a collapsed target's substitution map to the values the target actually
// needs, rather than its whole formal argument list.
func LiveValuesAt(f *Function, b Block) map[Value]bool {
	return liveValuesByBlock(f)[b]
}

// liveValuesByBlock computes live-in sets for every live block together, as
// a backward dataflow fixpoint: live-in(b) = uses(b) ∪ (live-out(b) \
// args(b)), live-out(b) = the union of (live-in(s) \ args(s)) over b's
// successors.
// Grounded on malphas-lang's internal/mir/optimize/dce.go (other_examples)
// backward-fixpoint shape, generalized from a single flat set to one set per
// block.
func liveValuesByBlock(f *Function) map[Block]map[Value]bool {
	live := LiveBlocks(f)
	order := reversePostOrder(f)

	liveIn := make(map[Block]map[Value]bool, len(live))
	for b := range live {
		liveIn[b] = make(map[Value]bool)
	}

	for {
		changed := false
		for i := len(order) - 1; i >= 0; i-- {
			b := order[i]

			uses := make(map[Value]bool)
			for _, r := range f.BlockReads(b) {
				if r.Valid() {
					uses[r] = true
				}
			}
			for _, arm := range f.BlockMatchArms(b) {
				if arm.Target.Valid() {
					uses[arm.Target] = true
				}
			}

			defs := make(map[Value]bool)
			for _, a := range f.BlockArgs(b) {
				defs[a] = true
			}

			next := make(map[Value]bool, len(uses))
			for v := range uses {
				next[v] = true
			}
			for _, s := range f.Successors(b) {
				sDefs := make(map[Value]bool)
				for _, a := range f.BlockArgs(s) {
					sDefs[a] = true
				}
				for v := range liveIn[s] {
					if !defs[v] && !sDefs[v] {
						next[v] = true
					}
				}
			}

			cur := liveIn[b]
			if len(next) != len(cur) {
				changed = true
			} else {
				for v := range next {
					if !cur[v] {
						changed = true
						break
					}
				}
			}
			liveIn[b] = next
		}
		if !changed {
			break
		}
	}
	return liveIn
}

// DeadBlocks returns every block id not reachable from the entry block —
// candidates the builder's caller may choose to stop emitting, though
// nothing in this package removes arena slots (arenas never shrink; see
// arena.go).
func DeadBlocks(f *Function) []Block {
	live := LiveBlocks(f)
	var dead []Block
	for _, b := range f.Blocks() {
		if !live[b] {
			dead = append(dead, b)
		}
	}
	return dead
}

// TrivialCallChainEdge describes a block whose only work is to forward
// control to another continuation with no other side-effecting terminator in
// between: the unit of work the simplify pass's chain discovery starts from
// (spec.md §4.6, "call-chain tree discovery"; see simplify.go).
type TrivialCallChainEdge struct {
	From Block
	To   Block
	Args []Value
}

// TrivialCallChainEdges finds every block whose terminator is a direct
// OpCallControlFlow to another block-valued continuation: a candidate link
// in a chain the simplify pass may later collapse.
func TrivialCallChainEdges(f *Function) []TrivialCallChainEdge {
	var edges []TrivialCallChainEdge
	for _, b := range f.Blocks() {
		if f.BlockKind(b) != OpCallControlFlow {
			continue
		}
		reads := f.BlockReads(b)
		if len(reads) == 0 {
			continue
		}
		calleeKind := f.ValueKind(reads[0])
		if calleeKind.Tag != ValueKindBlock {
			continue
		}
		edges = append(edges, TrivialCallChainEdge{From: b, To: calleeKind.Block, Args: reads[1:]})
	}
	return edges
}
