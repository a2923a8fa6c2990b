package validator

import (
	"github.com/forcedotcom/apexls-core/internal/symbolgraph"
	"github.com/forcedotcom/apexls-core/pkg/diagcode"
	"github.com/forcedotcom/apexls-core/pkg/models"
)

// descriptor is the common embeddable bit every builtin validator shares:
// an id, a tier, a priority, and a set of prerequisites.
type descriptor struct {
	id    string
	tier  Tier
	prio  int
	prereq Prerequisites
}

func (d descriptor) ID() string               { return d.id }
func (d descriptor) Tier() Tier                { return d.tier }
func (d descriptor) Priority() int             { return d.prio }
func (d descriptor) Prerequisites() Prerequisites { return d.prereq }

// UnresolvedTypeValidator flags every captured reference that never
// resolved to a symbol anywhere in the project, except builtins (spec
// §4.5).
type UnresolvedTypeValidator struct{ descriptor }

// NewUnresolvedTypeValidator constructs the THOROUGH unresolved-type check.
func NewUnresolvedTypeValidator() *UnresolvedTypeValidator {
	return &UnresolvedTypeValidator{descriptor{
		id: "unresolved-type", tier: Thorough, prio: 10,
		prereq: Prerequisites{RequiredDetailLevel: models.DetailFull, RequiresReferences: true, RequiresCrossFileResolution: true},
	}}
}

func (v *UnresolvedTypeValidator) Run(ctx Context) models.ValidationResult {
	var result models.ValidationResult
	for _, ref := range ctx.Table.References() {
		if ref.Context == models.ContextLiteral {
			continue
		}
		if ref.IsResolved() {
			continue
		}
		if symbolgraph.IsBuiltinType(ref.Name) {
			continue
		}
		result.Errors = append(result.Errors, diagcode.UnresolvedType(ref.Location.IdentifierRange, ref.Name))
	}
	return result
}

// DuplicateMethodValidator flags two method/constructor symbols sharing a
// scope, name, and parameter arity (spec §4.5) — distinct from a legitimate
// overload, which differs in arity.
type DuplicateMethodValidator struct{ descriptor }

// NewDuplicateMethodValidator constructs the IMMEDIATE duplicate-method
// check.
func NewDuplicateMethodValidator() *DuplicateMethodValidator {
	return &DuplicateMethodValidator{descriptor{
		id: "duplicate-method", tier: Immediate, prio: 10,
		prereq: Prerequisites{RequiredDetailLevel: models.DetailPublicAPI},
	}}
}

func (v *DuplicateMethodValidator) Run(ctx Context) models.ValidationResult {
	var result models.ValidationResult
	for _, sym := range ctx.Table.AllSymbols() {
		if sym.Kind != models.SymbolKindMethod && sym.Kind != models.SymbolKindConstructor {
			continue
		}
		all := ctx.Table.GetAllSymbolsByID(sym.ID)
		if len(all) < 2 {
			continue
		}
		seenArity := make(map[int]bool)
		for _, candidate := range all {
			arity := len(candidate.Parameters)
			if seenArity[arity] {
				result.Errors = append(result.Errors, diagcode.DuplicateMethod(candidate.Location.IdentifierRange, candidate.Name, arity))
				continue
			}
			seenArity[arity] = true
		}
	}
	return result
}

// CircularDependencyValidator surfaces strongly-connected components found
// by the symbol graph as Warning diagnostics (spec §4.5, scenario S6).
type CircularDependencyValidator struct{ descriptor }

// NewCircularDependencyValidator constructs the THOROUGH circular-dependency
// check.
func NewCircularDependencyValidator() *CircularDependencyValidator {
	return &CircularDependencyValidator{descriptor{
		id: "circular-dependency", tier: Thorough, prio: 20,
		prereq: Prerequisites{RequiredDetailLevel: models.DetailFull, RequiresCrossFileResolution: true},
	}}
}

func (v *CircularDependencyValidator) Run(ctx Context) models.ValidationResult {
	var result models.ValidationResult
	if ctx.Graph == nil {
		return result
	}
	fileURI := ctx.Table.FileURI()
	ownIDs := make(map[string]bool)
	for _, sym := range ctx.Table.AllSymbols() {
		ownIDs[sym.ID] = true
	}
	for _, cycle := range ctx.Graph.DetectCircularDependencies() {
		var anchor models.Symbol
		found := false
		for _, id := range cycle {
			if !ownIDs[id] {
				continue
			}
			sym, ok := ctx.Graph.SymbolByID(id)
			if !ok || sym.FileURI != fileURI {
				continue
			}
			anchor = sym
			found = true
			break
		}
		if !found {
			continue
		}
		result.Warnings = append(result.Warnings, diagcode.CircularDependency(anchor.Location.IdentifierRange, cycle))
	}
	return result
}

// ConflictingModifiersValidator flags any symbol marked both final and
// abstract, complementing the listener's inline field-level check with
// full-table coverage across every symbol kind (spec §4.5).
type ConflictingModifiersValidator struct{ descriptor }

// NewConflictingModifiersValidator constructs the IMMEDIATE
// conflicting-modifiers check.
func NewConflictingModifiersValidator() *ConflictingModifiersValidator {
	return &ConflictingModifiersValidator{descriptor{
		id: "conflicting-modifiers", tier: Immediate, prio: 5,
		prereq: Prerequisites{RequiredDetailLevel: models.DetailPublicAPI},
	}}
}

func (v *ConflictingModifiersValidator) Run(ctx Context) models.ValidationResult {
	var result models.ValidationResult
	for _, sym := range ctx.Table.AllSymbols() {
		if sym.Modifiers.Final && sym.Modifiers.Abstract {
			result.Errors = append(result.Errors, diagcode.ConflictingModifiers(sym.Location.IdentifierRange, sym.Name, "final", "abstract"))
		}
	}
	return result
}
