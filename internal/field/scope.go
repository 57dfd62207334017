package field

// Scope identifies the addressing tier of a field. It determines how much of
// the (prefix, id) pair participates in the field's storage key.
type Scope int

const (
	// ScopeUnknown guards against misconfiguration so call sites can detect
	// missing metadata.
	ScopeUnknown Scope = iota
	// ScopeComponent addresses a field per node instance: the instantiation
	// prefix and the raw id both qualify the key.
	ScopeComponent
	// ScopeSystem addresses a field per raw id, shared across all instances
	// of a repeated template.
	ScopeSystem
	// ScopeGlobal addresses a single process-wide slot; the id is ignored.
	ScopeGlobal
)

func (s Scope) String() string {
	switch s {
	case ScopeComponent:
		return "component"
	case ScopeSystem:
		return "system"
	case ScopeGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// ParseScope converts a string representation into the corresponding Scope.
// Returns ScopeUnknown for unrecognised values.
func ParseScope(value string) Scope {
	switch value {
	case "component", "COMPONENT":
		return ScopeComponent
	case "system", "SYSTEM":
		return ScopeSystem
	case "global", "GLOBAL":
		return ScopeGlobal
	default:
		return ScopeUnknown
	}
}
