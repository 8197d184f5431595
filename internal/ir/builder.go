package ir

import "fmt"

// Builder mutates a single Function, keeping the predecessor cache and value
// usage sets consistent after every call (spec.md §4.5: "all operations must
// leave the graph's invariants intact on return"). Grounded on the teacher's
// own internal/ir/builder.go shape (a Builder wrapping the function under
// construction plus a "current position" cursor) and on wazero ssa.Builder's
// split between allocation and control-flow wiring
// (other_examples/...ssa-builder.go.go).
type Builder struct {
	Func    *Function
	current Block
}

// NewBuilder starts building a fresh function, with its entry block already
// allocated and carrying entryArgs formal arguments.
func NewBuilder(ident FunctionIdent, dialect string, entryArgs int) *Builder {
	f := NewFunction(ident, dialect)
	b := &Builder{Func: f}
	entry := b.CreateBlock(entryArgs)
	f.entry = entry
	b.current = entry
	return b
}

// CreateBlock allocates a new, terminator-less block with argc formal
// arguments and returns its handle. The block is unreachable until some
// terminator is made to target it.
func (b *Builder) CreateBlock(argc int) Block {
	id := Block(b.Func.blocks.push(blockData{preds: make(map[Block]struct{})}))
	args := make([]Value, argc)
	for i := 0; i < argc; i++ {
		args[i] = b.Func.values.internValue(argumentValueKind(id, i))
	}
	b.Func.block(id).arguments = args
	return id
}

// SetCurrentBlock repositions the builder's cursor; it does not affect graph
// contents.
func (b *Builder) SetCurrentBlock(blk Block) { b.current = blk }

// CurrentBlock returns the builder's cursor.
func (b *Builder) CurrentBlock() Block { return b.current }

// BlockValue returns the Value denoting blk as a continuation, interning it
// on first use.
func (b *Builder) BlockValue(blk Block) Value {
	return b.Func.values.internValue(blockValueKind(blk))
}

// ArgValue returns the Value denoting the n-th formal argument of blk.
func (b *Builder) ArgValue(blk Block, n int) Value {
	return b.Func.BlockArgValue(blk, n)
}

// ConstValue returns the Value denoting constant c, interning it on first
// use.
func (b *Builder) ConstValue(c Const) Value {
	return b.Func.values.internValue(constValueKind(c))
}

// SetValueLocation attaches a location to v, overwriting any previous one.
func (b *Builder) SetValueLocation(v Value, loc Location) {
	vd := b.Func.values.get(v)
	vd.location = loc
	vd.hasLoc = true
}

// --- PrimOp construction ---

func (b *Builder) primOpValue(kind primOpKindTag, reads []Value, name string, ident FunctionIdent) Value {
	id := PrimOp(b.Func.primops.push(primOpData{Kind: kind, Reads: append([]Value(nil), reads...), Name: name, Ident: ident}, b.Func))
	return b.Func.values.internValue(primOpValueKind(id))
}

// ValueList builds (or reuses) the PrimOp that packages elements as a single
// multi-value Value, as consumed by OpUnpackValueList and call return values.
func (b *Builder) ValueList(elements []Value) Value {
	return b.primOpValue(PrimOpValueList, elements, "", FunctionIdent{})
}

func (b *Builder) Tuple(elements []Value) Value {
	return b.primOpValue(PrimOpTuple, elements, "", FunctionIdent{})
}

func (b *Builder) ListCell(head, tail Value) Value {
	return b.primOpValue(PrimOpListCell, []Value{head, tail}, "", FunctionIdent{})
}

// Map builds a literal map PrimOp from alternating key/value reads.
func (b *Builder) Map(keysThenValues []Value) Value {
	return b.primOpValue(PrimOpMap, keysThenValues, "", FunctionIdent{})
}

func (b *Builder) BinaryOp(name string, lhs, rhs Value) Value {
	return b.primOpValue(PrimOpBinaryOp, []Value{lhs, rhs}, name, FunctionIdent{})
}

func (b *Builder) CaptureFunction(ident FunctionIdent) Value {
	return b.primOpValue(PrimOpCaptureFunction, nil, "", ident)
}

// --- terminator assignment ---

// setTerminator installs op/reads/location on blk, withdrawing the block's
// prior edges and usages first and re-deriving them from the new contents —
// the mechanism that keeps Predecessors and value usage sets correct after
// every mutating call. Installing a terminator requires blk to currently
// have none; re-terminating an already-terminated block without first
// calling BlockClear is a fatal builder-contract violation (spec.md §4.5,
// §7).
func (b *Builder) setTerminator(blk Block, op opData, reads []Value, loc Location) {
	f := b.Func
	bd := f.block(blk)
	if bd.terminated {
		panic(fmt.Sprintf("ir: builder contract violation: block %d already has a terminator; call BlockClear(%d) before re-terminating", blk, blk))
	}

	oldSuccs := f.Successors(blk)
	oldReads := bd.reads
	for _, s := range oldSuccs {
		delete(f.block(s).preds, blk)
	}
	for _, r := range oldReads {
		f.values.removeUsage(r, blk)
	}

	bd.op = op
	bd.reads = append([]Value(nil), reads...)
	bd.location = loc
	bd.terminated = true

	for _, r := range reads {
		f.values.addUsage(r, blk)
	}
	for _, s := range f.Successors(blk) {
		f.block(s).preds[blk] = struct{}{}
	}
}

// BlockClear removes blk's terminator, withdrawing its edges and value
// usages, so a subsequent Set* call may install a fresh one. Re-terminating
// a block always goes through BlockClear first (spec.md §4.5: "re-terminating
// is done by first block_clear(src)").
func (b *Builder) BlockClear(blk Block) {
	f := b.Func
	bd := f.block(blk)
	for _, s := range f.Successors(blk) {
		delete(f.block(s).preds, blk)
	}
	for _, r := range bd.reads {
		f.values.removeUsage(r, blk)
	}
	bd.op = opData{}
	bd.reads = nil
	bd.terminated = false
}

func (b *Builder) SetCallFunction(blk Block, callee FunctionIdent, args []Value, loc Location) {
	b.setTerminator(blk, opData{Tag: OpCallFunction, Callee: callee}, args, loc)
}

// SetCallControlFlow targets a continuation value (typically a BlockValue or
// an argument bound to one): reads[0] is the callee, reads[1:] its arguments.
func (b *Builder) SetCallControlFlow(blk Block, callee Value, args []Value, loc Location) {
	reads := append([]Value{callee}, args...)
	b.setTerminator(blk, opData{Tag: OpCallControlFlow}, reads, loc)
}

func (b *Builder) SetMatch(blk Block, scrutinee Value, arms []MatchArm, loc Location) {
	b.setTerminator(blk, opData{Tag: OpMatch, Arms: append([]MatchArm(nil), arms...)}, []Value{scrutinee}, loc)
}

// SetIfBool installs a 2-way boolean branch: reads = [cond, thenCont, elseCont].
func (b *Builder) SetIfBool(blk Block, cond, thenCont, elseCont Value, loc Location) {
	b.setTerminator(blk, opData{Tag: OpIfBool}, []Value{cond, thenCont, elseCont}, loc)
}

// SetUnpackValueList installs reads = [list, cont]: cont is invoked with n
// arguments unpacked from list.
func (b *Builder) SetUnpackValueList(blk Block, n int, list, cont Value, loc Location) {
	b.setTerminator(blk, opData{Tag: OpUnpackValueList, N: n}, []Value{list, cont}, loc)
}

// SetMapPut installs reads = [mapVal, key, val, cont].
func (b *Builder) SetMapPut(blk Block, update bool, mapVal, key, val, cont Value, loc Location) {
	b.setTerminator(blk, opData{Tag: OpMapPut, Update: update}, []Value{mapVal, key, val, cont}, loc)
}

func (b *Builder) SetTraceCaptureRaw(blk Block, cont Value, loc Location) {
	b.setTerminator(blk, opData{Tag: OpTraceCaptureRaw}, []Value{cont}, loc)
}

func (b *Builder) SetTraceConstruct(blk Block, traceValue, cont Value, loc Location) {
	b.setTerminator(blk, opData{Tag: OpTraceConstruct}, []Value{traceValue, cont}, loc)
}

func (b *Builder) SetUnreachable(blk Block, loc Location) {
	b.setTerminator(blk, opData{Tag: OpUnreachable}, nil, loc)
}

func (b *Builder) SetIntrinsic(blk Block, name string, reads []Value, loc Location) {
	b.setTerminator(blk, opData{Tag: OpIntrinsic, Name: name}, reads, loc)
}

func (b *Builder) SetDyn(blk Block, name string, reads []Value, loc Location) {
	b.setTerminator(blk, opData{Tag: OpDyn, Name: name}, reads, loc)
}
