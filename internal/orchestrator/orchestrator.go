// Package orchestrator implements the diagnostic orchestrator of spec
// §4.6: the nine-step pipeline a pull-diagnostics request runs through,
// from the document state cache lookup down to the deduplicated, LSP-shaped
// diagnostic list. Every step is wrapped in a single scheduler.Effect so it
// runs serialized against the same executor that owns the symbol graph.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/forcedotcom/apexls-core/internal/docstate"
	"github.com/forcedotcom/apexls-core/internal/listener"
	"github.com/forcedotcom/apexls-core/internal/scheduler"
	"github.com/forcedotcom/apexls-core/internal/symbolgraph"
	"github.com/forcedotcom/apexls-core/internal/symboltable"
	"github.com/forcedotcom/apexls-core/internal/walker"
	"github.com/forcedotcom/apexls-core/pkg/diagcode"
	"github.com/forcedotcom/apexls-core/pkg/models"
	"github.com/forcedotcom/apexls-core/internal/validator"
)

// Document is the storage interface's view of one open file (spec §6):
// getText()/version/languageId, reduced to the fields the orchestrator
// actually needs.
type Document struct {
	Text       []byte
	Version    int
	LanguageID string
}

// DocumentStore is the inbound storage interface of spec §6.
type DocumentStore interface {
	GetDocument(uri string) (Document, bool)
}

// Parse is the inbound parser entry point of spec §6, reduced to the
// signature the orchestrator drives: turn source text into a ParseTree plus
// any syntax diagnostics. The real Apex grammar binding lives outside this
// module; this type is the seam an embedder supplies it through.
type Parse func(src []byte, fileURI string) (walker.ParseTree, []models.Diagnostic, error)

// Logger is the orchestrator's narrow logging seam — satisfied by
// *slog.Logger, among others — so orchestration failures can be logged and
// swallowed per spec §7 without this package depending on a concrete
// logging library.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Orchestrator bundles every collaborator spec §4.6 names: the document
// store, the document state cache, the process-wide symbol graph, the
// validator registry, the injected parser, and the cooperative executor
// every request runs on.
type Orchestrator struct {
	Docs     DocumentStore
	Cache    *docstate.Cache
	Graph    *symbolgraph.Graph
	Registry *validator.Registry
	Parse    Parse
	Executor *scheduler.Executor
	Log      Logger

	// SuppressedURIPrefixes marks standard-library URIs whose diagnostics
	// are always empty (spec §4.6 step 1), e.g. "apexlib://".
	SuppressedURIPrefixes []string

	// CachePollInterval/CachePollAttempts bound step 3's wait for a
	// concurrent didOpen to land before falling back to a fresh compile.
	CachePollInterval time.Duration
	CachePollAttempts int

	// HighImpactThreshold gates step 9's HIGH_IMPACT_SYMBOL diagnostics.
	HighImpactThreshold float64

	// EnableReferenceCorrection toggles the qualifier-correction pass of
	// spec §4.3/§6 (scenario S5): once cross-file resolution runs, a
	// qualifier initially classified VARIABLE_USAGE gets rewritten to
	// CLASS_REFERENCE if its name now resolves to a type symbol. Defaults
	// to true; a caller sets it false to leave VARIABLE_USAGE persisting.
	EnableReferenceCorrection bool

	mu         sync.Mutex
	registered map[string]int // fileURI -> last version registered with Graph
}

// New constructs an Orchestrator. Callers missing an optional collaborator
// (Log) get a reasonable default; required collaborators (Docs, Cache,
// Graph, Registry, Parse, Executor) are the caller's responsibility to set.
func New(docs DocumentStore, cache *docstate.Cache, graph *symbolgraph.Graph, registry *validator.Registry, parse Parse, exec *scheduler.Executor) *Orchestrator {
	return &Orchestrator{
		Docs:                docs,
		Cache:               cache,
		Graph:               graph,
		Registry:            registry,
		Parse:               parse,
		Executor:            exec,
		Log:                       noopLogger{},
		CachePollInterval:         50 * time.Millisecond,
		CachePollAttempts:         10,
		HighImpactThreshold:       0.5,
		EnableReferenceCorrection: true,
		registered:                make(map[string]int),
	}
}

// shouldSuppressDiagnostics reports whether uri belongs to a standard
// library source the editor never surfaces diagnostics for (spec §4.6 step
// 1).
func (o *Orchestrator) shouldSuppressDiagnostics(uri string) bool {
	for _, prefix := range o.SuppressedURIPrefixes {
		if strings.HasPrefix(uri, prefix) {
			return true
		}
	}
	return false
}

// Diagnose runs the full nine-step pipeline for uri and returns its
// diagnostics. It is a thin wrapper that submits one Effect to the
// Executor; see diagnoseEffect for the actual steps.
func (o *Orchestrator) Diagnose(ctx context.Context, uri string) ([]models.Diagnostic, error) {
	// requestID gives every log line from one request a shared correlation
	// value, standing in for the cancellation/progress token spec §5 says
	// every LSP request carries (the token itself belongs to the LSP
	// transport, which lives outside this module).
	requestID := uuid.NewString()

	var result []models.Diagnostic
	err := o.Executor.Run(ctx, func(y scheduler.Yielder) error {
		out, err := o.diagnoseEffect(ctx, y, uri)
		result = out
		return err
	})
	if err != nil {
		o.Log.Warn("diagnose request failed", "requestID", requestID, "uri", uri, "error", err.Error())
	}
	return result, err
}

func (o *Orchestrator) diagnoseEffect(ctx context.Context, y scheduler.Yielder, uri string) ([]models.Diagnostic, error) {
	// Step 1.
	if o.shouldSuppressDiagnostics(uri) {
		return nil, nil
	}
	if err := y.Yield(ctx); err != nil {
		return nil, err
	}

	// Step 2.
	doc, ok := o.Docs.GetDocument(uri)
	if !ok {
		return nil, fmt.Errorf("orchestrator: document %q not found in storage", uri)
	}

	// Step 3.
	entry, table, hit := o.consultCache(ctx, y, uri, doc.Version)

	var syntaxDiags []models.Diagnostic
	if hit {
		syntaxDiags = entry.Diagnostics
	} else {
		// Step 4: true miss. Compile with the public-api listener first;
		// diagnostics need no private symbols yet.
		var err error
		table, syntaxDiags, err = o.compile(doc.Text, uri, listener.PublicAPI)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: compiling %q: %w", uri, err)
		}
		o.Cache.Put(uri, doc.Version, docstate.Entry{
			SymbolTable: table,
			Diagnostics: syntaxDiags,
			CompiledAt:  time.Now().UnixMilli(),
		})
	}
	if err := y.Yield(ctx); err != nil {
		return nil, err
	}

	// Step 5: register with the graph if this version hasn't been yet.
	o.registerIfNeeded(uri, doc.Version, table)

	// Step 6: prerequisite orchestration — layer enrichment and cross-file
	// resolution.
	crossFileResolutionRan, err := o.runPrerequisites(ctx, y, uri, doc, table)
	if err != nil {
		o.Log.Warn("prerequisite orchestration failed, degrading to partial results", "uri", uri, "error", err.Error())
	}

	// Step 7: re-fetch. The table is walked in place above, so the local
	// variable already reflects enrichment; what must be refreshed is each
	// reference's resolved target, since resolution only ever updated the
	// graph's edges, not the table's own copy of the reference.
	table.SyncResolvedReferences(func(name string) (string, bool) {
		if symbolgraph.IsBuiltinType(name) {
			return "", false
		}
		return o.Graph.ResolveName(name)
	})
	if err := y.Yield(ctx); err != nil {
		return nil, err
	}

	// Step 8: run IMMEDIATE and THOROUGH validators.
	vctx := validator.Context{
		Table:                  table,
		DetailLevel:            currentDetailLevel(table),
		Graph:                  o.Graph,
		CrossFileResolutionRan: crossFileResolutionRan,
	}
	validated := o.runValidators(ctx, y, vctx)

	// Step 9: concatenate, dedupe, return.
	all := append([]models.Diagnostic(nil), syntaxDiags...)
	all = append(all, o.graphAnalysisDiagnostics(table)...)
	all = append(all, validated.Errors...)
	all = append(all, validated.Warnings...)
	return dedupeDiagnostics(all), nil
}

// consultCache implements step 3: a cache hit reuses the cached table if
// one was stored in-process; a miss polls briefly for a concurrent
// didOpen's result before reporting a true miss.
func (o *Orchestrator) consultCache(ctx context.Context, y scheduler.Yielder, uri string, version int) (docstate.Entry, *symboltable.Table, bool) {
	if entry, ok := o.Cache.Get(uri, version); ok {
		if table, ok := entry.SymbolTable.(*symboltable.Table); ok {
			return entry, table, true
		}
		// A remote-backed cache entry without a live table can still save
		// us the syntax-diagnostic recompute, but a table is required for
		// steps 5-8; fall through as a miss so one gets built.
	}

	for attempt := 0; attempt < o.CachePollAttempts; attempt++ {
		if err := y.Yield(ctx); err != nil {
			break
		}
		select {
		case <-time.After(o.CachePollInterval):
		case <-ctx.Done():
			return docstate.Entry{}, nil, false
		}
		if entry, ok := o.Cache.Get(uri, version); ok {
			if table, ok := entry.SymbolTable.(*symboltable.Table); ok {
				return entry, table, true
			}
		}
	}
	return docstate.Entry{}, nil, false
}

// compile drives the parser then one listener pass over its result (spec
// §6's compile(source, fileUri, listener, options) entry point).
func (o *Orchestrator) compile(src []byte, fileURI string, vis listener.Visibility) (*symboltable.Table, []models.Diagnostic, error) {
	tree, syntaxDiags, err := o.Parse(src, fileURI)
	if err != nil {
		return nil, nil, err
	}
	table := symboltable.New(fileURI)
	sink := listener.NewCollectingSink()
	w := listener.New(table, vis, sink)
	w.Walk(src, tree)

	diags := append([]models.Diagnostic(nil), syntaxDiags...)
	diags = append(diags, sink.Diagnostics...)
	return table, diags, nil
}

// registerIfNeeded implements step 5.
func (o *Orchestrator) registerIfNeeded(uri string, version int, table *symboltable.Table) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if last, ok := o.registered[uri]; ok && last == version {
		return
	}
	o.Graph.AddSymbolTable(table)
	o.registered[uri] = version
}

// runPrerequisites implements step 6: re-walk the same table with the full
// visibility listener (enrichment), then re-register it with the graph so
// newly captured references get a chance to resolve (cross-file
// resolution), then run the qualifier-correction pass if enabled. Reports
// whether cross-file resolution actually ran.
func (o *Orchestrator) runPrerequisites(ctx context.Context, y scheduler.Yielder, uri string, doc Document, table *symboltable.Table) (bool, error) {
	tree, _, err := o.Parse(doc.Text, uri)
	if err != nil {
		return false, err
	}
	sink := listener.NewCollectingSink()
	w := listener.New(table, listener.Full, sink)
	w.Walk(doc.Text, tree)
	if err := y.Yield(ctx); err != nil {
		return false, err
	}

	o.Graph.AddSymbolTable(table)
	o.mu.Lock()
	o.registered[uri] = doc.Version
	o.mu.Unlock()

	if o.EnableReferenceCorrection {
		o.correctQualifiers(table)
	}
	return true, nil
}

// typeSymbolKinds are the symbol kinds a qualifier can legitimately resolve
// to for CLASS_REFERENCE correction (spec §4.3).
var typeSymbolKinds = map[models.SymbolKind]bool{
	models.SymbolKindClass:     true,
	models.SymbolKindInterface: true,
	models.SymbolKindEnum:      true,
	models.SymbolKindTrigger:   true,
}

// correctQualifiers implements the enableReferenceCorrection pass of spec
// §4.3/§6 (scenario S5): every VARIABLE_USAGE reference whose name now
// resolves to a type symbol in the graph — same-file or cross-file — gets
// rewritten to CLASS_REFERENCE. Run after cross-file resolution so a
// qualifier the first listener pass couldn't classify (the type wasn't
// declared or wasn't yet registered) gets a second chance once it is.
func (o *Orchestrator) correctQualifiers(table *symboltable.Table) {
	seen := make(map[string]bool)
	for _, ref := range table.References() {
		if ref.Context != models.ContextVariableUsage || ref.Name == "" || seen[ref.Name] {
			continue
		}
		seen[ref.Name] = true

		for _, sym := range o.Graph.LookupSymbolByName(ref.Name) {
			if typeSymbolKinds[sym.Kind] {
				table.RewriteQualifierContext(ref.Name, models.ContextClassReference)
				break
			}
		}
	}
}

// runValidators implements step 8, yielding between the IMMEDIATE and
// THOROUGH tiers. If that yield reports cancellation, only the IMMEDIATE
// results are returned.
func (o *Orchestrator) runValidators(ctx context.Context, y scheduler.Yielder, vctx validator.Context) models.ValidationResult {
	var result models.ValidationResult
	result.Merge(o.Registry.RunForTier(validator.Immediate, vctx))
	if err := y.Yield(ctx); err != nil {
		return result
	}
	result.Merge(o.Registry.RunForTier(validator.Thorough, vctx))
	return result
}

// graphAnalysisDiagnostics supplies step 9's high-impact-symbol diagnostics,
// which are not expressed as a Validator because they need
// AnalyzeDependencies per-symbol rather than a single table-wide pass.
// Circular dependencies are reported by validator.CircularDependencyValidator.
func (o *Orchestrator) graphAnalysisDiagnostics(table *symboltable.Table) []models.Diagnostic {
	var out []models.Diagnostic
	for _, sym := range table.AllSymbols() {
		analysis := o.Graph.AnalyzeDependencies(sym.ID)
		if analysis.ImpactScore >= o.HighImpactThreshold {
			out = append(out, diagcode.HighImpactSymbol(sym.Location.IdentifierRange, sym.Name, analysis.ImpactScore))
		}
	}
	return out
}

// currentDetailLevel reports the highest DetailLevel any symbol in table
// has reached, since a single listener pass can leave earlier-enriched
// symbols at a higher level than the pass that just ran.
func currentDetailLevel(table *symboltable.Table) models.DetailLevel {
	level := models.DetailPublicAPI
	for _, sym := range table.AllSymbols() {
		if sym.DetailLevel > level {
			level = sym.DetailLevel
		}
	}
	return level
}

type dedupeKey struct {
	code    string
	rng     models.Range
	message string
}

func dedupeDiagnostics(in []models.Diagnostic) []models.Diagnostic {
	seen := make(map[dedupeKey]bool, len(in))
	out := make([]models.Diagnostic, 0, len(in))
	for _, d := range in {
		k := dedupeKey{d.Code, d.Range, d.Message}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, d)
	}
	return out
}
