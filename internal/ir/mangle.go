package ir

import "fmt"

// Mangler rebuilds values, and whole reachable block graphs, under a
// substitution map, re-interning any PrimOp it has to reconstruct so
// structural de-duplication still applies to the rebuilt terms. Grounded on
// original_source/libeir_passes/src/simplify_cfg/mod.rs's use of a Mangler
// (mangler.start / add_rename / .run(b)) to splice one block's body into
// another under argument substitution, and on the same file's use of the
// Mangler to rebuild a whole function graph under a substitution map
// (spec.md §4.8). Used by simplify.go both to thread calls through trivial
// forwarding blocks (Mangle/MangleAll) and, once per pass, to rebuild the
// whole function from its entry (MangleEntry).
type Mangler struct {
	b        *Builder
	subst    map[Value]Value
	valCache map[Value]Value
	blkCache map[Block]Block
	visiting map[Value]bool
}

// NewMangler starts a mangling pass against b's function. subst maps source
// values (typically a block's formal arguments) to their replacements
// (typically a caller's actual arguments); any value not present in subst is
// passed through unchanged, except PrimOps, whose operand trees are walked
// and rebuilt so a substitution anywhere inside them takes effect.
func NewMangler(b *Builder, subst map[Value]Value) *Mangler {
	return &Mangler{
		b:        b,
		subst:    subst,
		valCache: make(map[Value]Value),
		blkCache: make(map[Block]Block),
		visiting: make(map[Value]bool),
	}
}

// Mangle returns v rewritten under the substitution map. It returns an error
// if the substitution map is cyclic (spec.md §4.8 invariant: "the
// substitution map must be acyclic"; the original value graph is already a
// DAG, so a cycle can only be introduced by a malformed subst map). Mangle
// never copies blocks: a Block-kinded value absent from subst passes through
// unchanged. Use MangleEntry when the whole reachable graph needs rebuilding
// under a fresh identity.
func (m *Mangler) Mangle(v Value) (Value, error) {
	if !v.Valid() {
		return v, nil
	}
	if out, ok := m.valCache[v]; ok {
		return out, nil
	}
	if repl, ok := m.subst[v]; ok {
		if m.visiting[v] {
			return invalidValue, fmt.Errorf("ir: mangle: cyclic substitution at value %d", v)
		}
		m.visiting[v] = true
		out, err := m.Mangle(repl)
		m.visiting[v] = false
		if err != nil {
			return invalidValue, err
		}
		m.valCache[v] = out
		return out, nil
	}

	kind := m.b.Func.ValueKind(v)
	if kind.Tag != ValueKindPrimOp {
		m.valCache[v] = v
		return v, nil
	}

	if m.visiting[v] {
		return invalidValue, fmt.Errorf("ir: mangle: cyclic primop operand graph at value %d", v)
	}
	m.visiting[v] = true
	pd := m.b.Func.primops.get(int(kind.PrimOp))
	newReads := make([]Value, len(pd.Reads))
	for i, r := range pd.Reads {
		nr, err := m.Mangle(r)
		if err != nil {
			m.visiting[v] = false
			return invalidValue, err
		}
		newReads[i] = nr
	}
	m.visiting[v] = false

	out := m.b.primOpValue(pd.Kind, newReads, pd.Name, pd.Ident)
	m.valCache[v] = out
	return out, nil
}

// MangleAll mangles every value in vs, in order, short-circuiting on the
// first error.
func (m *Mangler) MangleAll(vs []Value) ([]Value, error) {
	out := make([]Value, len(vs))
	for i, v := range vs {
		nv, err := m.Mangle(v)
		if err != nil {
			return nil, err
		}
		out[i] = nv
	}
	return out, nil
}

// MangleEntry is the §4.8 Mangler proper: starting from start (typically a
// BlockValue naming a function's entry), it copies every block reachable
// from it into a fresh block allocated through the same Builder, threading
// m's substitution map through the copy, and returns the new entry. Blocks
// not reachable from start are left untouched and not copied — the way the
// pass drops a chain's now-unreachable interior blocks without an explicit
// delete (spec.md §4.7 step 5: "set the function's entry to the mangler's
// returned block"; §8's round-trip law, "mangle(f, identity_map) returns a
// function isomorphic to f", holds because every reachable block, argument,
// and terminator is rebuilt structurally unchanged when subst is empty).
func (m *Mangler) MangleEntry(start Value) (Block, error) {
	nv, err := m.mangleGraphValue(start)
	if err != nil {
		return 0, err
	}
	blk, ok := m.b.Func.ValueBlock(nv)
	if !ok {
		return 0, fmt.Errorf("ir: mangle: start value %d does not denote a block", start)
	}
	return blk, nil
}

// mangleGraphValue is Mangle's block-copying counterpart: identical
// substitution and PrimOp-rebuilding behavior, except a Block-kinded value
// triggers copyBlock instead of passing through unchanged.
func (m *Mangler) mangleGraphValue(v Value) (Value, error) {
	if !v.Valid() {
		return v, nil
	}
	if out, ok := m.valCache[v]; ok {
		return out, nil
	}
	if repl, ok := m.subst[v]; ok {
		if m.visiting[v] {
			return invalidValue, fmt.Errorf("ir: mangle: cyclic substitution at value %d", v)
		}
		m.visiting[v] = true
		out, err := m.mangleGraphValue(repl)
		m.visiting[v] = false
		if err != nil {
			return invalidValue, err
		}
		m.valCache[v] = out
		return out, nil
	}

	f := m.b.Func
	kind := f.ValueKind(v)
	switch kind.Tag {
	case ValueKindBlock:
		nb, err := m.copyBlock(kind.Block)
		if err != nil {
			return invalidValue, err
		}
		out := m.b.BlockValue(nb)
		m.valCache[v] = out
		return out, nil

	case ValueKindArgument:
		if _, err := m.copyBlock(kind.Block); err != nil {
			return invalidValue, err
		}
		if out, ok := m.valCache[v]; ok {
			return out, nil
		}
		return invalidValue, fmt.Errorf("ir: mangle: argument %d of block %d escaped its owning block", kind.Arg, kind.Block)

	case ValueKindConst:
		m.valCache[v] = v
		return v, nil

	default: // ValueKindPrimOp
		if m.visiting[v] {
			return invalidValue, fmt.Errorf("ir: mangle: cyclic primop operand graph at value %d", v)
		}
		m.visiting[v] = true
		pd := f.primops.get(int(kind.PrimOp))
		newReads := make([]Value, len(pd.Reads))
		for i, r := range pd.Reads {
			nr, err := m.mangleGraphValue(r)
			if err != nil {
				m.visiting[v] = false
				return invalidValue, err
			}
			newReads[i] = nr
		}
		m.visiting[v] = false
		out := m.b.primOpValue(pd.Kind, newReads, pd.Name, pd.Ident)
		m.valCache[v] = out
		return out, nil
	}
}

// copyBlock allocates blk's copy (caching it before recursing into blk's
// reads, so a block reachable from its own terminator — a loop — copies
// cleanly instead of recursing forever), maps blk's formal arguments onto
// the copy's, and reinstalls blk's terminator on the copy under m's
// substitution.
func (m *Mangler) copyBlock(blk Block) (Block, error) {
	if nb, ok := m.blkCache[blk]; ok {
		return nb, nil
	}
	f := m.b.Func
	oldArgs := f.BlockArgs(blk)
	newBlk := m.b.CreateBlock(len(oldArgs))
	m.blkCache[blk] = newBlk

	newArgs := f.BlockArgs(newBlk)
	for i, oa := range oldArgs {
		m.valCache[oa] = newArgs[i]
	}

	reads, err := m.mangleAllGraph(f.BlockReads(blk))
	if err != nil {
		return 0, err
	}
	loc := f.BlockLocation(blk)

	switch tag := f.BlockKind(blk); tag {
	case OpCallFunction:
		m.b.SetCallFunction(newBlk, f.BlockCallee(blk), reads, loc)
	case OpCallControlFlow:
		m.b.SetCallControlFlow(newBlk, reads[0], reads[1:], loc)
	case OpMatch:
		arms := f.BlockMatchArms(blk)
		newArms := make([]MatchArm, len(arms))
		for i, arm := range arms {
			nt, err := m.mangleGraphValue(arm.Target)
			if err != nil {
				return 0, err
			}
			newArms[i] = MatchArm{Kind: arm.Kind, Literal: arm.Literal, Binary: arm.Binary, Target: nt}
		}
		m.b.SetMatch(newBlk, reads[0], newArms, loc)
	case OpIfBool:
		m.b.SetIfBool(newBlk, reads[0], reads[1], reads[2], loc)
	case OpUnpackValueList:
		m.b.SetUnpackValueList(newBlk, f.BlockUnpackCount(blk), reads[0], reads[1], loc)
	case OpMapPut:
		m.b.SetMapPut(newBlk, f.BlockMapUpdate(blk), reads[0], reads[1], reads[2], reads[3], loc)
	case OpTraceCaptureRaw:
		m.b.SetTraceCaptureRaw(newBlk, reads[0], loc)
	case OpTraceConstruct:
		m.b.SetTraceConstruct(newBlk, reads[0], reads[1], loc)
	case OpUnreachable:
		m.b.SetUnreachable(newBlk, loc)
	case OpIntrinsic:
		m.b.SetIntrinsic(newBlk, f.BlockOpName(blk), reads, loc)
	case OpDyn:
		m.b.SetDyn(newBlk, f.BlockOpName(blk), reads, loc)
	}
	return newBlk, nil
}

func (m *Mangler) mangleAllGraph(vs []Value) ([]Value, error) {
	out := make([]Value, len(vs))
	for i, v := range vs {
		nv, err := m.mangleGraphValue(v)
		if err != nil {
			return nil, err
		}
		out[i] = nv
	}
	return out, nil
}
