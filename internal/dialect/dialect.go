// Package dialect loads and queries the permitted set of Dyn/Intrinsic
// terminator names a Function may carry (spec.md §3, glossary: "Dialect —
// a named set of permitted OpKind extensions"). Not its own [MODULE] in
// spec.md, but required by the Function.Dialect field and the OpDyn/
// OpIntrinsic extension points (SPEC_FULL.md §4.11). Grounded on
// funvibe-funxy's internal/ext/config.go Config/Dep yaml-tagged struct
// pattern (other_examples) for the "small YAML-declared registry" shape.
package dialect

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Normal is the always-present, zero-config dialect: it permits only the
// receive_wait_forever intrinsic the simplify pass itself emits (spec.md
// §4.7 step 3e). Every Function starts life tagged with this dialect unless
// a project's wisp.yaml declares another.
const Normal = "normal"

// Extension describes one permitted Dyn or Intrinsic terminator name: the
// name itself, whether it is a Dyn (opaque, dialect-owned payload) or a
// plain Intrinsic, and the minimum number of terminator reads it takes.
// The registry records MinArgs but does not check reads against it.
type Extension struct {
	Name    string `yaml:"name"`
	Dyn     bool   `yaml:"dyn"`
	MinArgs int    `yaml:"min_args"`
}

// Dialect is one named, closed set of permitted extensions.
type Dialect struct {
	Name       string      `yaml:"name"`
	Extensions []Extension `yaml:"extensions"`

	byName map[string]Extension
}

func (d *Dialect) index() {
	d.byName = make(map[string]Extension, len(d.Extensions))
	for _, e := range d.Extensions {
		d.byName[e.Name] = e
	}
}

// Permits reports whether name is a permitted Dyn/Intrinsic terminator for
// this dialect.
func (d *Dialect) Permits(name string) bool {
	if d.byName == nil {
		d.index()
	}
	_, ok := d.byName[name]
	return ok
}

// Lookup returns the full Extension descriptor for name, if permitted.
func (d *Dialect) Lookup(name string) (Extension, bool) {
	if d.byName == nil {
		d.index()
	}
	e, ok := d.byName[name]
	return e, ok
}

// file is the on-disk shape of a wisp.yaml dialect config: a project may
// declare more than one named dialect (e.g. one per front end), though a
// given Function only ever carries one by name.
type file struct {
	Dialects []Dialect `yaml:"dialects"`
}

// Registry resolves dialect names to their permitted-extension sets. The
// NORMAL dialect is always present even in an empty registry.
type Registry struct {
	dialects map[string]*Dialect
}

// NewRegistry returns a registry containing only the built-in NORMAL
// dialect.
func NewRegistry() *Registry {
	r := &Registry{dialects: make(map[string]*Dialect)}
	r.dialects[Normal] = &Dialect{
		Name: Normal,
		Extensions: []Extension{
			{Name: "receive_wait_forever", Dyn: false, MinArgs: 0},
		},
	}
	return r
}

// LoadFile merges the dialects declared in a wisp.yaml-shaped file at path
// into the registry. A dialect named "normal" in the file is rejected: the
// built-in NORMAL dialect is not user-redefinable.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dialect: read %s: %w", path, err)
	}
	return Load(data)
}

// Load parses YAML dialect config bytes into a registry seeded with the
// built-in NORMAL dialect.
func Load(data []byte) (*Registry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("dialect: parse config: %w", err)
	}
	r := NewRegistry()
	for i := range f.Dialects {
		d := f.Dialects[i]
		if d.Name == Normal {
			return nil, fmt.Errorf("dialect: %q is reserved and cannot be redeclared", Normal)
		}
		d.index()
		r.dialects[d.Name] = &d
	}
	return r, nil
}

// Lookup returns the named dialect, or false if the registry has no such
// dialect.
func (r *Registry) Lookup(name string) (*Dialect, bool) {
	d, ok := r.dialects[name]
	return d, ok
}

// Permits reports whether extName is permitted under the named dialect. An
// unknown dialect name permits nothing (fail closed), matching spec.md §9
// Open Question #1: unknown terminators/extensions are a recoverable
// lowering error, not a panic.
func (r *Registry) Permits(dialectName, extName string) bool {
	d, ok := r.Lookup(dialectName)
	if !ok {
		return false
	}
	return d.Permits(extName)
}
