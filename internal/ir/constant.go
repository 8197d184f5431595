package ir

import (
	"fmt"
	"strings"
)

// Const is a de-duplicated constant term handle (spec.md §3, "Const").
type Const int

func (c Const) Valid() bool { return c >= 0 }

type ConstKindTag uint8

const (
	ConstAtom ConstKindTag = iota
	ConstInt
	ConstFloat
	ConstTuple
	ConstList
	ConstMap
	ConstBinary
)

// constData is the structural payload of one Const entry. Only the fields
// relevant to Tag are meaningful, mirroring the original eir ConstKind enum
// (original_source/libeir_ir/src/function/mod.rs references ConstKind via
// ConstantContainer).
type constData struct {
	Tag ConstKindTag

	Atom  string  // ConstAtom
	Int   int64   // ConstInt
	Float float64 // ConstFloat

	// ConstTuple, ConstList: elements live in the container's element pool.
	Elements listToken
	// ConstList only: Tail.Valid() false means a proper (nil-terminated) list;
	// otherwise Tail is the improper list's final cdr.
	Tail Const

	// ConstMap: keys/values are parallel slices in the container's element pool.
	MapKeys   listToken
	MapValues listToken

	// ConstBinary: raw bytes live in the container's byte pool.
	Binary listToken
}

// dedupHashKey implements dedupKey[*ConstContainer]: structurally equal
// constants (spec.md invariant 4) collapse to one id regardless of
// insertion order, by hashing through the shared element/byte pools.
func (c constData) dedupHashKey(aux *ConstContainer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|", c.Tag)
	switch c.Tag {
	case ConstAtom:
		b.WriteString(c.Atom)
	case ConstInt:
		fmt.Fprintf(&b, "%d", c.Int)
	case ConstFloat:
		fmt.Fprintf(&b, "%v", c.Float)
	case ConstTuple:
		for _, e := range aux.elements.slice(c.Elements) {
			fmt.Fprintf(&b, "%d,", e)
		}
	case ConstList:
		for _, e := range aux.elements.slice(c.Elements) {
			fmt.Fprintf(&b, "%d,", e)
		}
		fmt.Fprintf(&b, "|tail=%d", c.Tail)
	case ConstMap:
		keys := aux.elements.slice(c.MapKeys)
		vals := aux.elements.slice(c.MapValues)
		for i := range keys {
			fmt.Fprintf(&b, "%d=%d,", keys[i], vals[i])
		}
	case ConstBinary:
		b.Write(aux.bytes.slice(c.Binary))
	}
	return b.String()
}

// ConstContainer de-duplicates constant term trees for one Function
// (spec.md §3, §4). Grounded on original_source's ConstantContainer
// (function/mod.rs) and malphas-lang's mir.Literal (other_examples,
// internal/mir/mir.go) for the "typed constant leaf" shape.
type ConstContainer struct {
	consts   dedupArena[constData, *ConstContainer]
	elements listPool[Const]
	bytes    listPool[byte]
}

func NewConstContainer() *ConstContainer {
	c := &ConstContainer{consts: newDedupArena[constData, *ConstContainer]()}
	return c
}

func (c *ConstContainer) push(data constData) Const {
	return Const(c.consts.push(data, c))
}

func (c *ConstContainer) Atom(name string) Const {
	return c.push(constData{Tag: ConstAtom, Atom: name})
}

func (c *ConstContainer) Int(v int64) Const {
	return c.push(constData{Tag: ConstInt, Int: v})
}

func (c *ConstContainer) Float(v float64) Const {
	return c.push(constData{Tag: ConstFloat, Float: v})
}

func (c *ConstContainer) Tuple(elements []Const) Const {
	return c.push(constData{Tag: ConstTuple, Elements: c.elements.alloc(elements)})
}

// List builds a proper (nil-terminated) list when tail is invalid, or an
// improper list ending in tail otherwise.
func (c *ConstContainer) List(elements []Const, tail Const) Const {
	return c.push(constData{Tag: ConstList, Elements: c.elements.alloc(elements), Tail: tail})
}

func (c *ConstContainer) Map(keys, values []Const) Const {
	if len(keys) != len(values) {
		panic("ir: const map keys/values length mismatch")
	}
	return c.push(constData{
		Tag:       ConstMap,
		MapKeys:   c.elements.alloc(keys),
		MapValues: c.elements.alloc(values),
	})
}

func (c *ConstContainer) Binary(data []byte) Const {
	return c.push(constData{Tag: ConstBinary, Binary: c.bytes.alloc(data)})
}

func (c *ConstContainer) Kind(v Const) ConstKindTag {
	return c.consts.get(int(v)).Tag
}

func (c *ConstContainer) AtomValue(v Const) string {
	return c.consts.get(int(v)).Atom
}

func (c *ConstContainer) IntValue(v Const) int64 {
	return c.consts.get(int(v)).Int
}

func (c *ConstContainer) FloatValue(v Const) float64 {
	return c.consts.get(int(v)).Float
}

func (c *ConstContainer) Entries(v Const) []Const {
	d := c.consts.get(int(v))
	return c.elements.slice(d.Elements)
}

func (c *ConstContainer) ListTail(v Const) Const {
	return c.consts.get(int(v)).Tail
}

func (c *ConstContainer) MapEntries(v Const) (keys, values []Const) {
	d := c.consts.get(int(v))
	return c.elements.slice(d.MapKeys), c.elements.slice(d.MapValues)
}

func (c *ConstContainer) BinaryValue(v Const) []byte {
	return c.bytes.slice(c.consts.get(int(v)).Binary)
}
