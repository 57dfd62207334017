package entry

import "fmt"

// ParseError is a fatal, per-document structural violation: a duplicate id or
// a malformed reference node. It aborts the enclosing parse; the caller
// decides whether to render a partial document or a full failure.
type ParseError struct {
	// Tag is the tag of the offending node.
	Tag string
	// Provenance locates the offending node in its source.
	Provenance Provenance
	// Reason describes the violation, naming the ids and tags involved.
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s in <%s>: %s", e.Provenance, e.Tag, e.Reason)
}
