package orchestrator

import (
	"context"
	"testing"

	"github.com/forcedotcom/apexls-core/internal/docstate"
	"github.com/forcedotcom/apexls-core/internal/scheduler"
	"github.com/forcedotcom/apexls-core/internal/symbolgraph"
	"github.com/forcedotcom/apexls-core/internal/symboltable"
	"github.com/forcedotcom/apexls-core/internal/validator"
	"github.com/forcedotcom/apexls-core/internal/walker"
	"github.com/forcedotcom/apexls-core/pkg/models"
)

func pt(row, col int) walker.Point { return walker.Point{Row: uint32(row), Column: uint32(col)} }

// newFileRoot wraps a top-level declaration in a synthetic program node:
// Walk dispatches on root's direct children, not root itself.
func newFileRoot(b *walker.FakeBuilder, decls ...int) walker.ParseTree {
	container := b.Add("parse_tree", pt(0, 0), pt(0, 0), "", decls...)
	return b.Root(container)
}

// buildSimpleClass mirrors the listener package's own fixture for:
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

type fakeDocs struct {
	docs map[string]Document
}

func (d *fakeDocs) GetDocument(uri string) (Document, bool) {
	doc, ok := d.docs[uri]
	return doc, ok
}

func newFixtureParse() Parse {
	return func(src []byte, fileURI string) (walker.ParseTree, []models.Diagnostic, error) {
		b := walker.NewFakeBuilder()
		root := newFileRoot(b, buildSimpleClass(b))
		return root, nil, nil
	}
}

func newTestOrchestrator(docs *fakeDocs) *Orchestrator {
	o := New(docs, docstate.New(docstate.NewMemoryBackend()), symbolgraph.New(), validator.NewRegistry(), newFixtureParse(), scheduler.NewExecutor())
	o.Registry.Register(validator.NewConflictingModifiersValidator())
	o.Registry.Register(validator.NewDuplicateMethodValidator())
	return o
}

func TestDiagnoseSuppressesStandardLibraryURI(t *testing.T) {
	docs := &fakeDocs{docs: map[string]Document{}}
	o := newTestOrchestrator(docs)
	o.SuppressedURIPrefixes = []string{"apexlib://"}

	diags, err := o.Diagnose(context.Background(), "apexlib://System/Url.cls")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diags != nil {
		t.Fatalf("expected nil diagnostics for a suppressed URI, got %v", diags)
	}
}

func TestDiagnoseAbortsOnMissingDocument(t *testing.T) {
	docs := &fakeDocs{docs: map[string]Document{}}
	o := newTestOrchestrator(docs)

	if _, err := o.Diagnose(context.Background(), "file:///Missing.cls"); err == nil {
		t.Fatal("expected an error for a document not in storage")
	}
}

func TestDiagnoseCompilesAndRegistersWithGraph(t *testing.T) {
	uri := "file:///TestClass.cls"
	docs := &fakeDocs{docs: map[string]Document{
		uri: {Text: []byte("public class TestClass { private String y; }"), Version: 1},
	}}
	o := newTestOrchestrator(docs)

	if _, err := o.Diagnose(context.Background(), uri); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	for _, sym := range o.Graph.GetSymbolsInFile(uri) {
		if sym.Name == "TestClass" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected TestClass to be registered with the graph after diagnose")
	}
}

func TestDiagnoseReusesCacheOnSecondCall(t *testing.T) {
	uri := "file:///TestClass.cls"
	docs := &fakeDocs{docs: map[string]Document{
		uri: {Text: []byte("public class TestClass { private String y; }"), Version: 1},
	}}
	o := newTestOrchestrator(docs)

	if _, err := o.Diagnose(context.Background(), uri); err != nil {
		t.Fatalf("unexpected error on first call: %v", err)
	}
	entry, ok := o.Cache.Get(uri, 1)
	if !ok {
		t.Fatal("expected a cached entry after the first diagnose call")
	}
	firstCompiledAt := entry.CompiledAt

	if _, err := o.Diagnose(context.Background(), uri); err != nil {
		t.Fatalf("unexpected error on second call: %v", err)
	}
	entry, ok = o.Cache.Get(uri, 1)
	if !ok || entry.CompiledAt != firstCompiledAt {
		t.Fatal("expected the second diagnose call to reuse the cached entry rather than recompile")
	}
}

// buildQualifierCorrectionFixture constructs a fixture for:
//
//	class Util {
//	    class EncodingUtil {
//	        void urlEncode() {}
//	    }
//	    void m() {
//	        EncodingUtil.urlEncode(x);
//	    }
//	}
//
// EncodingUtil is a nested (not top-level) class, so the listener's
// single-pass preScanTypes never records it as a known type: the
// qualifier is always first classified VARIABLE_USAGE, regardless of
// enableReferenceCorrection. Only a correction pass run after the nested
// class has been registered with the graph can rewrite it.
func buildQualifierCorrectionFixture(b *walker.FakeBuilder) int {
	ueName := b.Add("identifier", pt(2, 13), pt(2, 22), "urlEncode")
	ueBody := b.Add("block", pt(2, 25), pt(2, 27), "")
	ueMethod := b.Add("method_declaration", pt(2, 8), pt(2, 27), "", ueName, ueBody)

	encName := b.Add("identifier", pt(1, 10), pt(1, 22), "EncodingUtil")
	encBody := b.Add("class_body", pt(1, 23), pt(3, 5), "", ueMethod)
	encDecl := b.Add("class_declaration", pt(1, 4), pt(3, 5), "", encName, encBody)

	callObj := b.Add("identifier", pt(5, 8), pt(5, 20), "EncodingUtil")
	callMethod := b.Add("identifier", pt(5, 21), pt(5, 30), "urlEncode")
	fieldAccess := b.Add("field_access", pt(5, 8), pt(5, 30), "", callObj, callMethod)
	methodInvocation := b.Add("method_invocation", pt(5, 8), pt(5, 33), "", fieldAccess)

	mName := b.Add("identifier", pt(4, 9), pt(4, 10), "m")
	mBody := b.Add("block", pt(4, 13), pt(6, 5), "", methodInvocation)
	mMethod := b.Add("method_declaration", pt(4, 4), pt(6, 5), "", mName, mBody)

	className := b.Add("identifier", pt(0, 6), pt(0, 10), "Util")
	classBody := b.Add("class_body", pt(0, 11), pt(7, 1), "", encDecl, mMethod)
	classDecl := b.Add("class_declaration", pt(0, 0), pt(7, 1), "", className, classBody)
	return classDecl
}

func newQualifierCorrectionParse() Parse {
	return func(src []byte, fileURI string) (walker.ParseTree, []models.Diagnostic, error) {
		b := walker.NewFakeBuilder()
		root := newFileRoot(b, buildQualifierCorrectionFixture(b))
		return root, nil, nil
	}
}

func qualifierContextAfterDiagnose(t *testing.T, correction bool) models.ReferenceContext {
	t.Helper()
	uri := "file:///Util.cls"
	docs := &fakeDocs{docs: map[string]Document{
		uri: {Text: []byte("class Util { class EncodingUtil { void urlEncode() {} } void m() { EncodingUtil.urlEncode(x); } }"), Version: 1},
	}}
	o := New(docs, docstate.New(docstate.NewMemoryBackend()), symbolgraph.New(), validator.NewRegistry(), newQualifierCorrectionParse(), scheduler.NewExecutor())
	o.EnableReferenceCorrection = correction

	if _, err := o.Diagnose(context.Background(), uri); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, ok := o.Cache.Get(uri, 1)
	if !ok {
		t.Fatal("expected a cached entry after diagnose")
	}
	table, ok := entry.SymbolTable.(*symboltable.Table)
	if !ok {
		t.Fatal("expected the cached entry to carry a live symbol table")
	}
	for _, ref := range table.References() {
		if ref.Name == "EncodingUtil" {
			return ref.Context
		}
	}
	t.Fatal("expected a reference named EncodingUtil")
	return ""
}

// TestDiagnoseLeavesQualifierAsVariableUsageWhenCorrectionDisabled covers
// scenario S5's first sub-case.
func TestDiagnoseLeavesQualifierAsVariableUsageWhenCorrectionDisabled(t *testing.T) {
	got := qualifierContextAfterDiagnose(t, false)
	if got != models.ContextVariableUsage {
		t.Fatalf("expected VARIABLE_USAGE with correction disabled, got %v", got)
	}
}

// TestDiagnoseCorrectsQualifierToClassReferenceWhenEnabled covers scenario
// S5's second sub-case: EncodingUtil is declared in the same file (as a
// nested class), so once it is registered with the graph the qualifier
// that the first listener pass left as VARIABLE_USAGE is rewritten to
// CLASS_REFERENCE.
func TestDiagnoseCorrectsQualifierToClassReferenceWhenEnabled(t *testing.T) {
	got := qualifierContextAfterDiagnose(t, true)
	if got != models.ContextClassReference {
		t.Fatalf("expected CLASS_REFERENCE with correction enabled, got %v", got)
	}
}

func TestDedupeDiagnosticsDropsExactDuplicates(t *testing.T) {
	r := models.Range{Start: models.Position{Line: 1, Column: 0}, End: models.Position{Line: 1, Column: 5}}
	in := []models.Diagnostic{
		{Range: r, Message: "dup", Code: "X"},
		{Range: r, Message: "dup", Code: "X"},
		{Range: r, Message: "other", Code: "X"},
	}
	out := dedupeDiagnostics(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 diagnostics after dedupe, got %d: %+v", len(out), out)
	}
}
