package diagcode

import (
	"fmt"

	"github.com/forcedotcom/apexls-core/pkg/models"
)

const source = "apex"

// SyntaxError builds a SYNTAX_ERROR diagnostic from the parser's error sink.
func SyntaxError(r models.Range, message string) models.Diagnostic {
	return models.Diagnostic{Range: r, Message: message, Severity: models.SeverityError, Code: string(CodeSyntaxError), Source: source}
}

// DuplicateVariable flags a second declaration of the same name in one
// declarator list.
func DuplicateVariable(r models.Range, name string) models.Diagnostic {
	return models.Diagnostic{
		Range: r, Severity: models.SeverityError, Code: string(CodeDuplicateVariable), Source: source,
		Message: fmt.Sprintf("variable %q is already declared in this scope", name),
	}
}

// DuplicateEnumValue flags a repeated value name within one enum body.
func DuplicateEnumValue(r models.Range, name string) models.Diagnostic {
	return models.Diagnostic{
		Range: r, Severity: models.SeverityError, Code: string(CodeDuplicateEnumValue), Source: source,
		Message: fmt.Sprintf("enum value %q is already declared", name),
	}
}

// DuplicateMethod flags two methods with identical name+arity in one scope.
func DuplicateMethod(r models.Range, name string, arity int) models.Diagnostic {
	return models.Diagnostic{
		Range: r, Severity: models.SeverityError, Code: string(CodeDuplicateMethod), Source: source,
		Message: fmt.Sprintf("method %q with %d parameter(s) is already declared in this scope", name, arity),
	}
}

// ConflictingModifiers flags a declaration that is both final and abstract
// (or another mutually-exclusive modifier pair).
func ConflictingModifiers(r models.Range, name, a, b string) models.Diagnostic {
	return models.Diagnostic{
		Range: r, Severity: models.SeverityError, Code: string(CodeConflictingModifiers), Source: source,
		Message: fmt.Sprintf("%q cannot be both %s and %s", name, a, b),
	}
}

// UnresolvedType flags a reference whose target could not be resolved
// anywhere in the project.
func UnresolvedType(r models.Range, name string) models.Diagnostic {
	return models.Diagnostic{
		Range: r, Severity: models.SeverityError, Code: string(CodeUnresolvedType), Source: source,
		Message: fmt.Sprintf("unresolved type %q", name),
	}
}

// InvalidClass flags a reference to a name that resolves but not to a
// class/interface/trigger/enum symbol where one is required.
func InvalidClass(r models.Range, name string) models.Diagnostic {
	return models.Diagnostic{
		Range: r, Severity: models.SeverityError, Code: string(CodeInvalidClass), Source: source,
		Message: fmt.Sprintf("%q is not a class, interface, trigger, or enum", name),
	}
}

// CircularDependency flags a strongly-connected component discovered by
// SymbolGraph.DetectCircularDependencies.
func CircularDependency(r models.Range, cycle []string) models.Diagnostic {
	return models.Diagnostic{
		Range: r, Severity: models.SeverityWarning, Code: string(CodeCircularDependency), Source: source,
		Message: fmt.Sprintf("circular dependency: %v", cycle),
	}
}

// HighImpactSymbol flags a symbol whose AnalyzeDependencies impact score
// crosses the configured threshold.
func HighImpactSymbol(r models.Range, name string, score float64) models.Diagnostic {
	return models.Diagnostic{
		Range: r, Severity: models.SeverityInformation, Code: string(CodeHighImpactSymbol), Source: source,
		Message: fmt.Sprintf("%q is a high-impact symbol (impact score %.2f)", name, score),
	}
}
