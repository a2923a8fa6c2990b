// Package diagcode is the stable catalog of diagnostic codes emitted by the
// validator registry and the diagnostic orchestrator. It is structured the
// same way the teacher's pkg/apierr catalogs HTTP API error codes: a typed
// Code string plus one constructor per code that fixes the message text in
// one place.
package diagcode

// Code is a machine-readable diagnostic code, stable across releases so
// editor tooling (quick fixes, suppressions) can key off it.
type Code string

// Syntax errors, surfaced verbatim from the parser (spec §7).
const (
	CodeSyntaxError Code = "SYNTAX_ERROR"
)

// Semantic errors, raised by listeners while walking the parse tree
// (spec §4.2, §7).
const (
	CodeDuplicateVariable      Code = "DUPLICATE_VARIABLE"
	CodeDuplicateEnumValue     Code = "DUPLICATE_ENUM_VALUE"
	CodeDuplicateMethod        Code = "DUPLICATE_METHOD"
	CodeConflictingModifiers   Code = "CONFLICTING_MODIFIERS"
)

// Resolution errors, raised by THOROUGH validators (spec §4.5, §7).
const (
	CodeUnresolvedType Code = "INVALID_UNRESOLVED_TYPE"
	CodeInvalidClass   Code = "INVALID_CLASS"
)

// Graph-analysis diagnostics (spec §4.4, §4.6 step 9).
const (
	CodeCircularDependency Code = "CIRCULAR_DEPENDENCY"
	CodeHighImpactSymbol   Code = "HIGH_IMPACT_SYMBOL"
)
