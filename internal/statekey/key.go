// Package statekey derives deterministic storage keys for scoped field state.
//
// # Why a structured key
//
// A key is a value type, not a concatenated string. Ad hoc concatenation
// makes a prefixed id ("list1" + ":" + "item") indistinguishable from a
// literal id that happens to contain the separator ("list1:item"). Keeping
// the segments in separate struct fields gives the key well-defined equality
// and makes it directly usable as a Go map key; the string form exists only
// for display and for wire encodings, where each segment is escaped.
package statekey

import (
	"net/url"
	"strings"

	"github.com/vk/contentgraph/internal/field"
)

// Key addresses one field value in the external state store. Derivation is a
// pure function of its inputs: the same (scope, id, field, prefix) always
// yields the same Key.
type Key struct {
	// Scope is the field's addressing tier.
	Scope field.Scope
	// Prefix is the instantiation prefix. Set only for component scope.
	Prefix string
	// ID is the raw node id. Empty for global scope.
	ID string
	// Field is the field name.
	Field string
}

// Resolve derives the storage key for a (scope, raw id, prefix, field) tuple.
// Component scope keeps the prefix and id, giving repeated-template instances
// independent slots. System scope drops the prefix. Global scope additionally
// drops the id.
func Resolve(scope field.Scope, rawID, prefix, fieldName string) Key {
	switch scope {
	case field.ScopeComponent:
		return Key{Scope: scope, Prefix: prefix, ID: rawID, Field: fieldName}
	case field.ScopeSystem:
		return Key{Scope: scope, ID: rawID, Field: fieldName}
	default:
		return Key{Scope: scope, Field: fieldName}
	}
}

// ForDescriptor derives the storage key for a registered descriptor.
func ForDescriptor(d *field.Descriptor, rawID, prefix string) Key {
	return Resolve(d.Scope, rawID, prefix, d.Name)
}

// QualifiedID returns the instance-qualified node id: prefix + ":" + id when
// a prefix applies, the raw id otherwise.
func (k Key) QualifiedID() string {
	if k.Prefix != "" {
		return k.Prefix + ":" + k.ID
	}
	return k.ID
}

// Encode renders the key as a collision-free string for flat backends such
// as Redis. Each segment is escaped so a separator inside an id can never
// alias another key.
func (k Key) Encode() string {
	segments := []string{
		k.Scope.String(),
		url.QueryEscape(k.Prefix),
		url.QueryEscape(k.ID),
		url.QueryEscape(k.Field),
	}
	return strings.Join(segments, "/")
}

// String renders the key for logs and error messages.
func (k Key) String() string {
	return k.Scope.String() + "/" + k.QualifiedID() + "/" + k.Field
}
