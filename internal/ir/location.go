package ir

import "fmt"

// Location is a de-duplicated, concatenable source-span trail: a function
// value's Location is the chain of spans it has passed through as blocks get
// inlined and merged (spec.md §3, "Location"). Grounded directly on
// original_source/libeir_ir/src/function/location.rs.
type Location int

func (l Location) Valid() bool { return l >= 0 }

// LocationTerminal is one entry of a Location's span list: a concrete source
// span, or the sentinel produced by Unknown.
type LocationTerminal struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
	unknown   bool
}

func (t LocationTerminal) dedupHashKey(aux struct{}) string {
	if t.unknown {
		return "?"
	}
	return fmt.Sprintf("%s:%d:%d-%d:%d", t.File, t.StartLine, t.StartCol, t.EndLine, t.EndCol)
}

// locationData is the payload of one Location entry: an ordered list of
// terminal ids, oldest-span-first.
type locationData struct {
	terminals listToken
}

func (d locationData) dedupHashKey(aux *LocationContainer) string {
	s := ""
	for _, t := range aux.pool.slice(d.terminals) {
		s += fmt.Sprintf("%d,", t)
	}
	return s
}

// LocationContainer de-duplicates Location chains for one Function.
type LocationContainer struct {
	terminals dedupArena[LocationTerminal, struct{}]
	locations dedupArena[locationData, *LocationContainer]
	pool      listPool[int]
}

func NewLocationContainer() *LocationContainer {
	return &LocationContainer{
		terminals: newDedupArena[LocationTerminal, struct{}](),
		locations: newDedupArena[locationData, *LocationContainer](),
	}
}

// Empty is the Location with no terminals: nothing is known about where a
// value came from because it has none yet (distinct from Unknown, which
// records that a span was looked for and not found).
func (c *LocationContainer) Empty() Location {
	return Location(c.locations.push(locationData{}, c))
}

// Unknown records a single explicit "no span available" terminal. Fixes
// spec.md §9 Open Question #2: the original source builds the terminal and a
// one-element terminal list but then discards the list and returns an empty
// LocationData, so every "unknown" location was silently indistinguishable
// from Empty. Here the built terminal is actually attached.
func (c *LocationContainer) Unknown() Location {
	term := c.terminals.push(LocationTerminal{unknown: true}, struct{}{})
	tok := c.pool.alloc([]int{term})
	return Location(c.locations.push(locationData{terminals: tok}, c))
}

// FromSpan interns a single concrete source span as a one-terminal Location.
func (c *LocationContainer) FromSpan(file string, startLine, startCol, endLine, endCol int) Location {
	term := c.terminals.push(LocationTerminal{
		File: file, StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol,
	}, struct{}{})
	tok := c.pool.alloc([]int{term})
	return Location(c.locations.push(locationData{terminals: tok}, c))
}

// Concat appends b's terminal chain after a's, de-duplicating the result
// (spec.md §4.2: location concatenation happens when the simplify pass
// inlines one block's body into another).
func (c *LocationContainer) Concat(a, b Location) Location {
	at := c.pool.slice(c.locations.get(int(a)).terminals)
	bt := c.pool.slice(c.locations.get(int(b)).terminals)
	if len(at) == 0 {
		return b
	}
	if len(bt) == 0 {
		return a
	}
	merged := make([]int, 0, len(at)+len(bt))
	merged = append(merged, at...)
	merged = append(merged, bt...)
	tok := c.pool.alloc(merged)
	return Location(c.locations.push(locationData{terminals: tok}, c))
}

// Lookup returns the ordered terminal chain for a Location, oldest first.
func (c *LocationContainer) Lookup(l Location) []LocationTerminal {
	ids := c.pool.slice(c.locations.get(int(l)).terminals)
	out := make([]LocationTerminal, len(ids))
	for i, id := range ids {
		out[i] = *c.terminals.get(id)
	}
	return out
}
