// Package field holds the process-wide registry of named field descriptors.
//
// # Why a registry
//
// Every observable piece of node state (an input's response, a grader's
// score) is declared once, by name, with a scope tier and a default. The
// state layer refuses to read or write a field that was never registered:
// that situation is a registration bug in a tag module, not a data-quality
// issue, and must fail fast rather than silently produce orphan keys.
package field

import "fmt"

// Descriptor is the static definition of one named field.
type Descriptor struct {
	// Name is the globally-unique field name within one Table.
	Name string
	// Scope is the addressing tier used to derive storage keys.
	Scope Scope
	// Default is the value materialized on first read when nothing has been
	// written and the caller supplied no fallback.
	Default any
	// MutationEvent is the canonical event name emitted when the field is
	// written. Derived as "set:" + Name.
	MutationEvent string
}

// NewDescriptor builds a descriptor with the canonical mutation event name.
func NewDescriptor(name string, scope Scope, defaultValue any) *Descriptor {
	return &Descriptor{
		Name:          name,
		Scope:         scope,
		Default:       defaultValue,
		MutationEvent: "set:" + name,
	}
}

// Table is the registry of field descriptors for one session. Populated once
// at startup; read-only afterwards.
type Table struct {
	fields map[string]*Descriptor
}

// NewTable creates an empty field table.
func NewTable() *Table {
	return &Table{fields: make(map[string]*Descriptor)}
}

// Register adds a descriptor to the table. Registering the same name twice
// is an error.
func (t *Table) Register(d *Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("field: descriptor has empty name")
	}
	if d.Scope == ScopeUnknown {
		return fmt.Errorf("field %q: scope is unknown", d.Name)
	}
	if _, exists := t.fields[d.Name]; exists {
		return fmt.Errorf("field %q already registered", d.Name)
	}
	t.fields[d.Name] = d
	return nil
}

// RegisterNames registers component-scoped descriptors with nil defaults for
// each given name and returns them keyed by name.
func (t *Table) RegisterNames(names ...string) (map[string]*Descriptor, error) {
	out := make(map[string]*Descriptor, len(names))
	for _, name := range names {
		d := NewDescriptor(name, ScopeComponent, nil)
		if err := t.Register(d); err != nil {
			return nil, err
		}
		out[name] = d
	}
	return out, nil
}

// Lookup returns the descriptor registered under name.
func (t *Table) Lookup(name string) (*Descriptor, bool) {
	d, ok := t.fields[name]
	return d, ok
}

// MustLookup returns the descriptor registered under name and panics when the
// name is unknown. The state layer uses this to fail fast on registration
// bugs.
func (t *Table) MustLookup(name string) *Descriptor {
	d, ok := t.fields[name]
	if !ok {
		panic(fmt.Sprintf("field %q is not registered", name))
	}
	return d
}

// Len reports the number of registered descriptors.
func (t *Table) Len() int {
	return len(t.fields)
}
