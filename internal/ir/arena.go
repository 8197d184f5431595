package ir

// Dense integer handles into per-function arenas. Arenas are append-only:
// ids never move and are never recycled. Logical deletion happens by
// rebuilding the function with the mangler (mangle.go), not by removing
// entries here.

// arena is a primary store: push(data) -> id, get(id) -> data. No
// structural de-duplication; used for nodes whose identity is positional
// (blocks, value records).
type arena[T any] struct {
	items []T
}

func (a *arena[T]) push(data T) int {
	id := len(a.items)
	a.items = append(a.items, data)
	return id
}

func (a *arena[T]) get(id int) *T {
	return &a.items[id]
}

func (a *arena[T]) len() int {
	return len(a.items)
}

// dedupKey is implemented by entries stored in a dedupArena. Equality (and
// the hash key derived from it) may depend on an auxiliary context — e.g.
// a listPool used to resolve operand-slice handles into comparable slices
// — because entries often contain handles into other arenas whose contents
// define equality. The same aux value must be used for every insertion and
// lookup against a given dedupArena.
type dedupKey[Aux any] interface {
	dedupHashKey(aux Aux) string
}

// dedupArena is an append-only store that returns the id of an existing
// entry when a structurally-equal one is pushed again (spec.md §4.1,
// "Dedup primary store"). Grounded on the original eir source's
// DedupAuxPrimaryMap (original_source/libeir_ir/src/function/mod.rs) and,
// for the pooled-backing-store idiom in Go, on wazero's ssa.pool[T]
// (other_examples/...ssa-builder.go.go).
type dedupArena[T dedupKey[Aux], Aux any] struct {
	items []T
	index map[string]int
}

func newDedupArena[T dedupKey[Aux], Aux any]() dedupArena[T, Aux] {
	return dedupArena[T, Aux]{index: make(map[string]int)}
}

// push inserts data, returning the id of an existing structurally-equal
// entry if one exists, else appending data and returning its fresh id.
func (d *dedupArena[T, Aux]) push(data T, aux Aux) int {
	key := data.dedupHashKey(aux)
	if id, ok := d.index[key]; ok {
		return id
	}
	id := len(d.items)
	d.items = append(d.items, data)
	d.index[key] = id
	return id
}

func (d *dedupArena[T, Aux]) get(id int) *T {
	return &d.items[id]
}

func (d *dedupArena[T, Aux]) len() int {
	return len(d.items)
}

// listToken addresses a variable-length sublist of a listPool by
// (offset, len), avoiding a separate heap allocation per list.
type listToken struct {
	offset int
	length int
}

func (t listToken) empty() bool { return t.length == 0 }

// listPool is a single contiguous backing store for variable-length lists
// of handles, addressed by listToken. Mirrors spec.md §4.1's "list pool".
type listPool[T comparable] struct {
	items []T
}

func (p *listPool[T]) alloc(items []T) listToken {
	if len(items) == 0 {
		return listToken{}
	}
	off := len(p.items)
	p.items = append(p.items, items...)
	return listToken{offset: off, length: len(items)}
}

func (p *listPool[T]) slice(tok listToken) []T {
	if tok.length == 0 {
		return nil
	}
	return p.items[tok.offset : tok.offset+tok.length]
}
