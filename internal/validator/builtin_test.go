package validator

import (
	"testing"

	"github.com/forcedotcom/apexls-core/internal/symbolgraph"
	"github.com/forcedotcom/apexls-core/internal/symboltable"
	"github.com/forcedotcom/apexls-core/pkg/models"
)

func testLoc() models.Location {
	return models.Location{
		SymbolRange:     models.Range{Start: models.Position{Line: 1, Column: 0}, End: models.Position{Line: 1, Column: 10}},
		IdentifierRange: models.Range{Start: models.Position{Line: 1, Column: 0}, End: models.Position{Line: 1, Column: 3}},
	}
}

func TestUnresolvedTypeValidatorFlagsUnresolvedNonBuiltin(t *testing.T) {
	table := symboltable.New("file:///x.cls")
	sym := table.AddSymbol(models.Symbol{Name: "Foo", Kind: models.SymbolKindClass, Location: testLoc()}, nil)
	table.AddTypeReference(models.Reference{Name: "Bar", Location: testLoc(), Context: models.ContextClassReference, SourceSymbolID: sym.ID})
	table.AddTypeReference(models.Reference{Name: "String", Location: testLoc(), Context: models.ContextParameterType, SourceSymbolID: sym.ID})

	v := NewUnresolvedTypeValidator()
	result := v.Run(Context{Table: table, DetailLevel: models.DetailFull, CrossFileResolutionRan: true})

	if len(result.Errors) != 1 {
		t.Fatalf("want 1 unresolved error (Bar, not String), got %d", len(result.Errors))
	}
	if result.Errors[0].Code != "INVALID_UNRESOLVED_TYPE" {
		t.Fatalf("unexpected code %q", result.Errors[0].Code)
	}
}

func TestUnresolvedTypeValidatorSkipsResolved(t *testing.T) {
	table := symboltable.New("file:///x.cls")
	sym := table.AddSymbol(models.Symbol{Name: "Foo", Kind: models.SymbolKindClass, Location: testLoc()}, nil)
	table.AddTypeReference(models.Reference{
		Name: "Bar", Location: testLoc(), Context: models.ContextClassReference,
		SourceSymbolID: sym.ID, ResolvedSymbolID: "some-id",
	})

	v := NewUnresolvedTypeValidator()
	result := v.Run(Context{Table: table, DetailLevel: models.DetailFull, CrossFileResolutionRan: true})
	if len(result.Errors) != 0 {
		t.Fatalf("resolved reference should not be flagged, got %d errors", len(result.Errors))
	}
}

func TestDuplicateMethodValidatorFlagsSameArityRedeclaration(t *testing.T) {
	table := symboltable.New("file:///x.cls")
	loc1 := testLoc()
	loc2 := models.Location{
		SymbolRange:     models.Range{Start: models.Position{Line: 5, Column: 0}, End: models.Position{Line: 5, Column: 10}},
		IdentifierRange: models.Range{Start: models.Position{Line: 5, Column: 0}, End: models.Position{Line: 5, Column: 3}},
	}
	table.AddSymbol(models.Symbol{Name: "doWork", Kind: models.SymbolKindMethod, Location: loc1, Parameters: nil}, nil)
	table.AddSymbol(models.Symbol{Name: "doWork", Kind: models.SymbolKindMethod, Location: loc2, Parameters: nil}, nil)

	v := NewDuplicateMethodValidator()
	result := v.Run(Context{Table: table})

	if len(result.Errors) != 1 {
		t.Fatalf("want 1 duplicate-method error, got %d", len(result.Errors))
	}
}

func TestDuplicateMethodValidatorAllowsOverloadsByArity(t *testing.T) {
	table := symboltable.New("file:///x.cls")
	loc1 := testLoc()
	loc2 := models.Location{
		SymbolRange:     models.Range{Start: models.Position{Line: 5, Column: 0}, End: models.Position{Line: 5, Column: 10}},
		IdentifierRange: models.Range{Start: models.Position{Line: 5, Column: 0}, End: models.Position{Line: 5, Column: 3}},
	}
	table.AddSymbol(models.Symbol{Name: "doWork", Kind: models.SymbolKindMethod, Location: loc1, Parameters: nil}, nil)
	table.AddSymbol(models.Symbol{
		Name: "doWork", Kind: models.SymbolKindMethod, Location: loc2,
		Parameters: []models.Parameter{{Name: "x", Type: "Integer"}},
	}, nil)

	v := NewDuplicateMethodValidator()
	result := v.Run(Context{Table: table})

	if len(result.Errors) != 0 {
		t.Fatalf("overload with different arity should not be flagged, got %d errors", len(result.Errors))
	}
}

func TestConflictingModifiersValidatorFlagsFinalAbstract(t *testing.T) {
	table := symboltable.New("file:///x.cls")
	table.AddSymbol(models.Symbol{
		Name: "Foo", Kind: models.SymbolKindClass, Location: testLoc(),
		Modifiers: models.Modifiers{Final: true, Abstract: true},
	}, nil)

	v := NewConflictingModifiersValidator()
	result := v.Run(Context{Table: table})

	if len(result.Errors) != 1 {
		t.Fatalf("want 1 conflicting-modifiers error, got %d", len(result.Errors))
	}
}

func TestCircularDependencyValidatorReportsOwnFileAnchor(t *testing.T) {
	ta := symboltable.New("file:///A.cls")
	a := ta.AddSymbol(models.Symbol{Name: "A", Kind: models.SymbolKindClass, Location: testLoc()}, nil)
	ta.AddTypeReference(models.Reference{Name: "B", Location: testLoc(), Context: models.ContextClassReference, SourceSymbolID: a.ID})

	tb := symboltable.New("file:///B.cls")
	b := tb.AddSymbol(models.Symbol{Name: "B", Kind: models.SymbolKindClass, Location: testLoc()}, nil)
	tb.AddTypeReference(models.Reference{Name: "A", Location: testLoc(), Context: models.ContextClassReference, SourceSymbolID: b.ID})

	g := symbolgraph.New()
	g.AddSymbolTable(ta)
	g.AddSymbolTable(tb)

	v := NewCircularDependencyValidator()
	result := v.Run(Context{Table: ta, Graph: g, DetailLevel: models.DetailFull, CrossFileResolutionRan: true})

	if len(result.Warnings) != 1 {
		t.Fatalf("want 1 circular-dependency warning anchored in file A, got %d", len(result.Warnings))
	}
}
