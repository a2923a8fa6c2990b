package symbolgraph

import (
	"testing"

	"github.com/forcedotcom/apexls-core/internal/symboltable"
	"github.com/forcedotcom/apexls-core/pkg/models"
)

func loc() models.Location {
	return models.Location{
		SymbolRange:     models.Range{Start: models.Position{Line: 1, Column: 0}, End: models.Position{Line: 1, Column: 10}},
		IdentifierRange: models.Range{Start: models.Position{Line: 1, Column: 0}, End: models.Position{Line: 1, Column: 3}},
	}
}

// buildFileWithClass returns a one-symbol table declaring a public class
// named name.
func buildFileWithClass(fileURI, name string) (*symboltable.Table, models.Symbol) {
	t := symboltable.New(fileURI)
	sym := t.AddSymbol(models.Symbol{
		Name: name, Kind: models.SymbolKindClass, Location: loc(),
		Modifiers: models.Modifiers{Visibility: models.VisibilityPublic},
	}, nil)
	return t, sym
}

func TestCrossFileResolutionInOrder(t *testing.T) {
	producer, _ := buildFileWithClass("file:///A.cls", "Foo")

	consumer := symboltable.New("file:///B.cls")
	bar := consumer.AddSymbol(models.Symbol{Name: "Bar", Kind: models.SymbolKindClass, Location: loc()}, nil)
	consumer.AddTypeReference(models.Reference{
		Name: "Foo", Location: loc(), Context: models.ContextClassReference, SourceSymbolID: bar.ID,
	})

	g := New()
	g.AddSymbolTable(producer)
	g.AddSymbolTable(consumer)

	edges := g.FindReferencesFrom(bar.ID)
	if len(edges) != 1 {
		t.Fatalf("want 1 edge from Bar, got %d", len(edges))
	}
	stats := g.GetStats()
	if stats.DeferredReferences != 0 {
		t.Fatalf("want 0 deferred, got %d", stats.DeferredReferences)
	}
}

func TestCrossFileResolutionOutOfOrderDefers(t *testing.T) {
	consumer := symboltable.New("file:///B.cls")
	bar := consumer.AddSymbol(models.Symbol{Name: "Bar", Kind: models.SymbolKindClass, Location: loc()}, nil)
	consumer.AddTypeReference(models.Reference{
		Name: "Foo", Location: loc(), Context: models.ContextClassReference, SourceSymbolID: bar.ID,
	})

	g := New()
	g.AddSymbolTable(consumer) // Foo unknown yet; must be deferred

	stats := g.GetStats()
	if stats.DeferredReferences != 1 {
		t.Fatalf("want 1 deferred, got %d", stats.DeferredReferences)
	}
	if len(g.FindReferencesFrom(bar.ID)) != 0 {
		t.Fatalf("edge should not exist before Foo is registered")
	}

	producer, _ := buildFileWithClass("file:///A.cls", "Foo")
	g.AddSymbolTable(producer)

	if len(g.FindReferencesFrom(bar.ID)) != 1 {
		t.Fatalf("edge should materialize once Foo is registered")
	}
	if g.GetStats().DeferredReferences != 0 {
		t.Fatalf("deferred queue should drain once Foo is registered")
	}
}

func TestCircularDependencyDetection(t *testing.T) {
	ta := symboltable.New("file:///A.cls")
	a := ta.AddSymbol(models.Symbol{Name: "A", Kind: models.SymbolKindClass, Location: loc()}, nil)
	ta.AddTypeReference(models.Reference{Name: "B", Location: loc(), Context: models.ContextClassReference, SourceSymbolID: a.ID})

	tb := symboltable.New("file:///B.cls")
	b := tb.AddSymbol(models.Symbol{Name: "B", Kind: models.SymbolKindClass, Location: loc()}, nil)
	tb.AddTypeReference(models.Reference{Name: "C", Location: loc(), Context: models.ContextClassReference, SourceSymbolID: b.ID})

	tc := symboltable.New("file:///C.cls")
	c := tc.AddSymbol(models.Symbol{Name: "C", Kind: models.SymbolKindClass, Location: loc()}, nil)
	tc.AddTypeReference(models.Reference{Name: "A", Location: loc(), Context: models.ContextClassReference, SourceSymbolID: c.ID})

	g := New()
	g.AddSymbolTable(ta)
	g.AddSymbolTable(tb)
	g.AddSymbolTable(tc)

	cycles := g.DetectCircularDependencies()
	if len(cycles) != 1 {
		t.Fatalf("want 1 cycle, got %d: %v", len(cycles), cycles)
	}
	if len(cycles[0]) != 3 {
		t.Fatalf("want 3-node cycle, got %d", len(cycles[0]))
	}
}

func TestAnalyzeDependenciesImpactScore(t *testing.T) {
	producer, foo := buildFileWithClass("file:///A.cls", "Foo")

	g := New()
	g.AddSymbolTable(producer)

	for i := 0; i < 3; i++ {
		consumer := symboltable.New("file:///consumer" + string(rune('A'+i)) + ".cls")
		sym := consumer.AddSymbol(models.Symbol{Name: "Consumer", Kind: models.SymbolKindClass, Location: loc()}, nil)
		consumer.AddTypeReference(models.Reference{
			Name: "Foo", Location: loc(), Context: models.ContextClassReference, SourceSymbolID: sym.ID,
		})
		g.AddSymbolTable(consumer)
	}

	analysis := g.AnalyzeDependencies(foo.ID)
	if len(analysis.Dependents) == 0 {
		t.Fatalf("want dependents on Foo, got none")
	}
	if analysis.ImpactScore <= 0 || analysis.ImpactScore > 1.0 {
		t.Fatalf("impact score out of range: %v", analysis.ImpactScore)
	}
}

func TestRemoveFileReDefersDanglingReferences(t *testing.T) {
	producer, foo := buildFileWithClass("file:///A.cls", "Foo")

	consumer := symboltable.New("file:///B.cls")
	bar := consumer.AddSymbol(models.Symbol{Name: "Bar", Kind: models.SymbolKindClass, Location: loc()}, nil)
	consumer.AddTypeReference(models.Reference{
		Name: "Foo", Location: loc(), Context: models.ContextClassReference, SourceSymbolID: bar.ID,
	})

	g := New()
	g.AddSymbolTable(producer)
	g.AddSymbolTable(consumer)

	if len(g.FindReferencesFrom(bar.ID)) != 1 {
		t.Fatalf("expected edge to exist before removal")
	}

	g.RemoveFile("file:///A.cls")

	if _, ok := g.LookupSymbolByFQN("foo"); ok {
		t.Fatalf("Foo should be gone after RemoveFile")
	}
	if len(g.FindReferencesFrom(bar.ID)) != 0 {
		t.Fatalf("dangling edge should be removed")
	}
	if g.GetStats().DeferredReferences != 1 {
		t.Fatalf("want 1 re-deferred reference, got %d", g.GetStats().DeferredReferences)
	}

	// Re-adding Foo under a new file should relink the re-deferred reference.
	producer2, _ := buildFileWithClass("file:///A2.cls", "Foo")
	g.AddSymbolTable(producer2)
	if len(g.FindReferencesFrom(bar.ID)) != 1 {
		t.Fatalf("re-added Foo should relink the deferred reference")
	}
	_ = foo
}

func TestBuiltinTypeNeverDeferred(t *testing.T) {
	consumer := symboltable.New("file:///B.cls")
	bar := consumer.AddSymbol(models.Symbol{Name: "Bar", Kind: models.SymbolKindClass, Location: loc()}, nil)
	consumer.AddTypeReference(models.Reference{
		Name: "String", Location: loc(), Context: models.ContextParameterType, SourceSymbolID: bar.ID,
	})

	g := New()
	g.AddSymbolTable(consumer)

	if g.GetStats().DeferredReferences != 0 {
		t.Fatalf("builtin type reference should never be deferred")
	}
}
