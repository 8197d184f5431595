package ir

// Value is an SSA-like name: a dense handle into a Function's value map.
type Value int

const invalidValue Value = -1

func (v Value) Valid() bool { return v >= 0 }

// ValueKindTag discriminates the four things a Value can denote (spec.md
// §3, "Value").
type ValueKindTag uint8

const (
	ValueKindBlock ValueKindTag = iota
	ValueKindArgument
	ValueKindConst
	ValueKindPrimOp
)

// ValueKind is the payload of a Value. It is a plain comparable struct (not
// an interface) so it can be used directly as an interning map key by
// valueMap — mirroring spec.md §4.3's "Interns ValueKind -> Value".
type ValueKind struct {
	Tag ValueKindTag

	// Block: the block this value denotes as a continuation (Tag == ValueKindBlock),
	// or the block an Argument belongs to (Tag == ValueKindArgument).
	Block Block
	// Arg: the n-th formal, only meaningful when Tag == ValueKindArgument.
	Arg int
	// Const: only meaningful when Tag == ValueKindConst.
	Const Const
	// PrimOp: only meaningful when Tag == ValueKindPrimOp.
	PrimOp PrimOp
}

func blockValueKind(b Block) ValueKind            { return ValueKind{Tag: ValueKindBlock, Block: b} }
func argumentValueKind(b Block, n int) ValueKind  { return ValueKind{Tag: ValueKindArgument, Block: b, Arg: n} }
func constValueKind(c Const) ValueKind            { return ValueKind{Tag: ValueKindConst, Const: c} }
func primOpValueKind(p PrimOp) ValueKind          { return ValueKind{Tag: ValueKindPrimOp, PrimOp: p} }

// valueData is the per-Value record: its kind, an optional source location,
// and the set of blocks that read it (a cache maintained by the builder,
// never the source of truth — spec.md §9 "Graph with back-edges").
type valueData struct {
	kind     ValueKind
	location Location
	hasLoc   bool
	usages   map[Block]struct{}
}

// valueMap interns ValueKind -> Value: inserting the same kind twice
// returns the same Value (spec.md §4.3).
type valueMap struct {
	data   arena[valueData]
	intern map[ValueKind]Value
}

func newValueMap() valueMap {
	return valueMap{intern: make(map[ValueKind]Value)}
}

// internValue returns the Value for kind, creating a fresh one on first
// insertion.
func (m *valueMap) internValue(kind ValueKind) Value {
	if v, ok := m.intern[kind]; ok {
		return v
	}
	id := m.data.push(valueData{kind: kind, usages: make(map[Block]struct{})})
	v := Value(id)
	m.intern[kind] = v
	return v
}

func (m *valueMap) get(v Value) *valueData {
	return m.data.get(int(v))
}

func (m *valueMap) lookup(kind ValueKind) (Value, bool) {
	v, ok := m.intern[kind]
	return v, ok
}

func (m *valueMap) addUsage(v Value, b Block) {
	m.get(v).usages[b] = struct{}{}
}

func (m *valueMap) removeUsage(v Value, b Block) {
	delete(m.get(v).usages, b)
}
