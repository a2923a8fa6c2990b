package symbolgraph

import "strings"

// builtinTypes are resolved without a graph entry (spec §4.4): a reference
// to one of these is never enqueued as deferred and never flagged
// unresolved.
var builtinTypes = map[string]bool{
	"string": true, "list": true, "map": true, "integer": true, "long": true,
	"decimal": true, "boolean": true, "id": true, "blob": true, "date": true,
	"datetime": true, "time": true, "object": true, "void": true, "set": true,
	"sobject": true,
}

// isBuiltinType reports whether name (or, for a dotted name, its System.*
// form) names an Apex builtin.
func isBuiltinType(name string) bool {
	return IsBuiltinType(name)
}

// IsBuiltinType reports whether name (or, for a dotted name, its System.*
// form) names an Apex builtin. Exported so validators can apply the same
// short-circuit the graph itself uses (spec §4.5's UnresolvedTypeValidator
// must not flag builtins).
func IsBuiltinType(name string) bool {
	lower := strings.ToLower(name)
	if builtinTypes[lower] {
		return true
	}
	if strings.HasPrefix(lower, "system.") {
		return true
	}
	return false
}

// isValidReferenceName applies the cheap guard spec §4.4 requires before
// any expensive resolution attempt: names containing `[`, more than two
// dots, or a trailing dot are never looked up.
func isValidReferenceName(name string) bool {
	if name == "" {
		return false
	}
	if strings.Contains(name, "[") {
		return false
	}
	if strings.HasSuffix(name, ".") {
		return false
	}
	if strings.Count(name, ".") > 2 {
		return false
	}
	return true
}
