package listener

import (
	"testing"

	"github.com/forcedotcom/apexls-core/internal/symboltable"
	"github.com/forcedotcom/apexls-core/internal/walker"
	"github.com/forcedotcom/apexls-core/pkg/models"
)

func pt(row, col int) walker.Point { return walker.Point{Row: uint32(row), Column: uint32(col)} }

// newFileRoot wraps one or more top-level declarations in a synthetic
// program node, mirroring the tree-sitter-java grammar's actual root rule:
// Walk's first pass (preScanTypes) and its per-declaration dispatch both
// expect root's direct children to be the file's top-level declarations,
// not the declaration itself.
func newFileRoot(b *walker.FakeBuilder, decls ...int) walker.ParseTree {
	container := b.Add("parse_tree", pt(0, 0), pt(0, 0), "", decls...)
	return b.Root(container)
}

// buildSimpleClass constructs a fixture for:
//
//	public class TestClass {
//	    private String y;
//	}
func buildSimpleClass(b *walker.FakeBuilder) int {
	pub := b.Add("public", pt(0, 0), pt(0, 6), "public")
	mods := b.Add("modifiers", pt(0, 0), pt(0, 6), "", pub)
	className := b.Add("identifier", pt(0, 13), pt(0, 22), "TestClass")

	fieldMod := b.Add("private", pt(1, 4), pt(1, 11), "private")
	fieldMods := b.Add("modifiers", pt(1, 4), pt(1, 11), "", fieldMod)
	fieldType := b.Add("type_identifier", pt(1, 12), pt(1, 18), "String")
	fieldName := b.Add("identifier", pt(1, 19), pt(1, 20), "y")
	declarator := b.Add("variable_declarator", pt(1, 19), pt(1, 20), "", fieldName)
	fieldDecl := b.Add("field_declaration", pt(1, 4), pt(1, 21), "", fieldMods, fieldType, declarator)

	classBody := b.Add("class_body", pt(0, 24), pt(2, 1), "", fieldDecl)
	classDecl := b.Add("class_declaration", pt(0, 0), pt(2, 1), "", mods, className, classBody)
	return classDecl
}

func TestListenerSimpleClass(t *testing.T) {
	b := walker.NewFakeBuilder()
	root := newFileRoot(b, buildSimpleClass(b))

	tab := symboltable.New("file:///TestClass.cls")
	w := New(tab, Private, nil)
	w.Walk(nil, root)

	var class models.Symbol
	ok := false
	for _, s := range tab.AllSymbols() {
		if s.Name == "TestClass" {
			class, ok = s, true
			break
		}
	}
	if !ok {
		t.Fatal("expected TestClass to be emitted")
	}
	if class.Modifiers.Visibility != models.VisibilityPublic {
		t.Fatalf("expected public visibility, got %v", class.Modifiers.Visibility)
	}

	var field models.Symbol
	found := false
	for _, s := range tab.AllSymbols() {
		if s.Name == "y" {
			field, found = s, true
		}
	}
	if !found {
		t.Fatal("expected field y to be emitted under Private listener")
	}
	if field.Type != "String" {
		t.Fatalf("expected field type String, got %q", field.Type)
	}
	if field.Modifiers.Visibility != models.VisibilityPrivate {
		t.Fatalf("expected private visibility, got %v", field.Modifiers.Visibility)
	}
}

func TestListenerPublicAPISkipsPrivateField(t *testing.T) {
	b := walker.NewFakeBuilder()
	root := newFileRoot(b, buildSimpleClass(b))

	tab := symboltable.New("file:///TestClass.cls")
	w := New(tab, PublicAPI, nil)
	w.Walk(nil, root)

	for _, s := range tab.AllSymbols() {
		if s.Name == "y" {
			t.Fatal("public-api listener must not emit a private field")
		}
	}
}

// buildNestedControlFlow constructs:
//
//	class C {
//	    void m() {
//	        if (cond) {
//	            while (cond2) {
//	                String x;
//	            }
//	        }
//	    }
//	}
func buildNestedControlFlow(b *walker.FakeBuilder) int {
	className := b.Add("identifier", pt(0, 6), pt(0, 7), "C")

	methodName := b.Add("identifier", pt(1, 9), pt(1, 10), "m")

	xType := b.Add("type_identifier", pt(3, 16), pt(3, 22), "String")
	xName := b.Add("identifier", pt(3, 23), pt(3, 24), "x")
	xDeclarator := b.Add("variable_declarator", pt(3, 23), pt(3, 24), "", xName)
	xDecl := b.Add("local_variable_declaration", pt(3, 16), pt(3, 25), "", xType, xDeclarator)

	whileBody := b.Add("block", pt(2, 30), pt(4, 13), "", xDecl)
	whileCond := b.Add("identifier", pt(2, 19), pt(2, 24), "cond2")
	whileStmt := b.Add("while_statement", pt(2, 12), pt(4, 13), "", whileCond, whileBody)

	ifBody := b.Add("block", pt(1, 22), pt(5, 9), "", whileStmt)
	ifCond := b.Add("identifier", pt(1, 16), pt(1, 20), "cond")
	ifStmt := b.Add("if_statement", pt(1, 8), pt(5, 9), "", ifCond, ifBody)

	methodBody := b.Add("block", pt(1, 13), pt(6, 5), "", ifStmt)
	methodDecl := b.Add("method_declaration", pt(1, 4), pt(6, 5), "", methodName, methodBody)

	classBody := b.Add("class_body", pt(0, 9), pt(7, 1), "", methodDecl)
	classDecl := b.Add("class_declaration", pt(0, 0), pt(7, 1), "", className, classBody)
	return classDecl
}

func TestListenerNestedControlFlow(t *testing.T) {
	b := walker.NewFakeBuilder()
	root := newFileRoot(b, buildNestedControlFlow(b))

	tab := symboltable.New("file:///C.cls")
	w := New(tab, Full, nil)
	w.Walk(nil, root)

	var x models.Symbol
	found := false
	for _, s := range tab.AllSymbols() {
		if s.Name == "x" && s.Kind == models.SymbolKindVariable {
			x, found = s, true
		}
	}
	if !found {
		t.Fatal("expected variable x to be emitted by the full listener")
	}

	hierarchy := tab.GetScopeHierarchy(models.Position{Line: 4, Column: 17})
	if len(hierarchy) == 0 {
		t.Fatal("expected a non-empty scope hierarchy at x's position")
	}

	var scopeTypes []models.ScopeType
	for _, s := range hierarchy {
		if s.Kind == models.SymbolKindBlock {
			scopeTypes = append(scopeTypes, s.ScopeType)
		}
	}
	if len(scopeTypes) < 3 {
		t.Fatalf("expected at least 3 nested block scopes (method/if/while bodies), got %d: %v", len(scopeTypes), scopeTypes)
	}

	leaf := hierarchy[len(hierarchy)-1]
	if *x.ParentID != leaf.ID {
		t.Fatalf("expected x parented to the innermost block, got parent %s leaf %s", *x.ParentID, leaf.ID)
	}
}

// buildAccessKindFixture constructs:
//
//	class C {
//	    void m() {
//	        a = b;
//	        a += b;
//	        obj.x = y;
//	    }
//	}
func buildAccessKindFixture(b *walker.FakeBuilder) int {
	className := b.Add("identifier", pt(0, 6), pt(0, 7), "C")
	methodName := b.Add("identifier", pt(1, 9), pt(1, 10), "m")

	aWrite := b.Add("identifier", pt(2, 8), pt(2, 9), "a")
	bRead1 := b.Add("identifier", pt(2, 12), pt(2, 13), "b")
	simpleAssign := b.Add("assignment_expression", pt(2, 8), pt(2, 14), "", aWrite, bRead1)

	aReadWrite := b.Add("identifier", pt(3, 8), pt(3, 9), "a")
	bRead2 := b.Add("identifier", pt(3, 13), pt(3, 14), "b")
	compoundAssign := b.Add("compound_assignment_expression", pt(3, 8), pt(3, 15), "", aReadWrite, bRead2)

	objRead := b.Add("identifier", pt(4, 8), pt(4, 11), "obj")
	fieldWrite := b.Add("identifier", pt(4, 12), pt(4, 13), "x")
	fieldAccess := b.Add("field_access", pt(4, 8), pt(4, 13), "", objRead, fieldWrite)
	rhsRead := b.Add("identifier", pt(4, 16), pt(4, 17), "y")
	fieldAssign := b.Add("assignment_expression", pt(4, 8), pt(4, 18), "", fieldAccess, rhsRead)

	methodBody := b.Add("block", pt(1, 13), pt(5, 5), "", simpleAssign, compoundAssign, fieldAssign)
	methodDecl := b.Add("method_declaration", pt(1, 4), pt(5, 5), "", methodName, methodBody)

	classBody := b.Add("class_body", pt(0, 9), pt(6, 1), "", methodDecl)
	classDecl := b.Add("class_declaration", pt(0, 0), pt(6, 1), "", className, classBody)
	return classDecl
}

// TestListenerScenarioS4AccessPattern covers scenario S4: `a = b; a += b;`
// must produce exactly a write and a readwrite on a, and two reads on b, no
// duplicates.
func TestListenerScenarioS4AccessPattern(t *testing.T) {
	b := walker.NewFakeBuilder()
	root := newFileRoot(b, buildAccessKindFixture(b))

	tab := symboltable.New("file:///C.cls")
	w := New(tab, Full, nil)
	w.Walk(nil, root)

	var aAccess, bAccess []models.AccessKind
	for _, ref := range tab.References() {
		switch ref.Name {
		case "a":
			aAccess = append(aAccess, ref.Access)
		case "b":
			bAccess = append(bAccess, ref.Access)
		}
	}

	if len(aAccess) != 2 || aAccess[0] != models.AccessWrite || aAccess[1] != models.AccessReadWrite {
		t.Fatalf("expected a's access pattern [write, readwrite], got %v", aAccess)
	}
	if len(bAccess) != 2 || bAccess[0] != models.AccessRead || bAccess[1] != models.AccessRead {
		t.Fatalf("expected b's access pattern [read, read], got %v", bAccess)
	}
}

// TestListenerPropertyAccessKindLaws covers spec property 6's access-kind
// laws across simple assignment, compound assignment, and field-access
// assignment.
func TestListenerPropertyAccessKindLaws(t *testing.T) {
	b := walker.NewFakeBuilder()
	root := newFileRoot(b, buildAccessKindFixture(b))

	tab := symboltable.New("file:///C.cls")
	w := New(tab, Full, nil)
	w.Walk(nil, root)

	refs := tab.References()
	var obj, field *models.Reference
	for i := range refs {
		switch {
		case refs[i].Name == "obj":
			obj = &refs[i]
		case refs[i].Name == "x" && refs[i].Context == models.ContextFieldAccess:
			field = &refs[i]
		}
	}
	if obj == nil || obj.Access != models.AccessRead {
		t.Fatalf("expected obj to be read, got %+v", obj)
	}
	if field == nil || field.Access != models.AccessWrite || field.Qualifier != "obj" {
		t.Fatalf("expected x to be a qualified field-access write, got %+v", field)
	}

	yReads := 0
	for _, ref := range refs {
		if ref.Name == "y" && ref.Access == models.AccessRead {
			yReads++
		}
	}
	if yReads != 1 {
		t.Fatalf("expected exactly one read of y, got %d", yReads)
	}
}
