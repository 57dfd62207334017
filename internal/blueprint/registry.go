package blueprint

import (
	"fmt"
	"log/slog"
	"strings"
)

// Module is the interface all tag packages implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry maps tag names to blueprints for a single application instance.
// Populated once at startup and read-only at runtime; resolution is a map
// lookup, never reflection.
type Registry struct {
	blueprints map[string]*Blueprint
	normalized map[string]*Blueprint
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		blueprints: make(map[string]*Blueprint),
		normalized: make(map[string]*Blueprint),
	}
}

// Register adds a blueprint under its canonical name. Registering a nil
// parser or a name twice is a defect and panics.
func (r *Registry) Register(b *Blueprint) {
	if b.Name == "" {
		panic("blueprint with empty name")
	}
	if b.Parser == nil {
		panic(fmt.Sprintf("blueprint %q has no parser", b.Name))
	}
	if _, exists := r.blueprints[b.Name]; exists {
		panic(fmt.Sprintf("blueprint with name '%s' already registered", b.Name))
	}
	lower := strings.ToLower(b.Name)
	if _, exists := r.normalized[lower]; exists {
		panic(fmt.Sprintf("blueprint name '%s' collides case-insensitively with an existing registration", b.Name))
	}
	slog.Debug("Registering blueprint.", "name", b.Name)
	r.blueprints[b.Name] = b
	r.normalized[lower] = b
}

// Resolve looks up a blueprint by tag name. Lookup is exact first, then
// case-insensitive, so `textInput` resolves to a registered `TextInput`.
func (r *Registry) Resolve(tag string) (*Blueprint, bool) {
	if b, ok := r.blueprints[tag]; ok {
		return b, true
	}
	b, ok := r.normalized[strings.ToLower(tag)]
	return b, ok
}

// Names returns the canonical names of all registered blueprints.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.blueprints))
	for name := range r.blueprints {
		names = append(names, name)
	}
	return names
}
