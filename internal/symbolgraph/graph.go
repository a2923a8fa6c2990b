// Package symbolgraph is the process-wide cross-file index described in
// spec §4.4: every file's symboltable.Table is registered here once it is
// compiled, and every reference it captured is resolved (or deferred)
// against the whole project.
package symbolgraph

import (
	"sync"

	"github.com/forcedotcom/apexls-core/internal/symboltable"
	"github.com/forcedotcom/apexls-core/pkg/models"
)

// Edge is a resolved link from one symbol to another. The graph never fills
// in Location (the source symbol's IdentifierRange already carries that
// span), so it is a zero-value placeholder both on edges the graph creates
// and on edges rehydrated by FromStored (spec §4.4).
type Edge struct {
	SourceID   string
	TargetID   string
	TargetName string // preserved so RemoveFile can re-defer a dangling edge
	Type       models.ReferenceContext
	Context    string
	Location   models.Location
}

// StoredEdge is the on-disk/in-memory compact layout spec §4.4 names
// explicitly: `{type, sourceFile, targetFile, context?}`, omitting the
// location range since it is redundant with the source symbol's own
// identifierRange.
type StoredEdge struct {
	Type       string
	SourceFile string
	TargetFile string
	Context    string
}

// ToStored drops e's location and IDs down to the compact file-level
// layout.
func (e Edge) ToStored(sourceFile, targetFile string) StoredEdge {
	return StoredEdge{Type: string(e.Type), SourceFile: sourceFile, TargetFile: targetFile, Context: e.Context}
}

// FromStored rehydrates a StoredEdge into a full Edge for callers that need
// the Edge shape, filling Location with a zero-value placeholder since the
// compact form never carried one.
func FromStored(se StoredEdge, sourceID, targetID string) Edge {
	return Edge{
		SourceID: sourceID, TargetID: targetID,
		Type: models.ReferenceContext(se.Type), Context: se.Context,
	}
}

// Stats summarizes the graph's current size, per spec §4.4's getStats.
type Stats struct {
	TotalSymbols         int
	TotalFiles           int
	TotalReferences      int
	DeferredReferences   int
	CircularDependencies int
}

// DependencyAnalysis is the result of AnalyzeDependencies.
type DependencyAnalysis struct {
	Dependencies []string // forward-reachable symbol ids
	Dependents   []string // reverse-reachable symbol ids
	ImpactScore  float64  // clamped to [0, 1]
}

// Graph is the process-wide symbol index. One Graph instance serves an
// entire workspace; every compiled file registers its Table here.
type Graph struct {
	mu sync.RWMutex

	symbols map[string]models.Symbol // id -> symbol
	order   []string                 // insertion order, for deterministic Tarjan iteration

	byFile      map[string]map[string]bool // fileURI -> set of ids
	byLowerName map[string][]string        // lowercase name -> ids, insertion order
	byLowerFQN  map[string]string          // lowercase fqn -> id (first registration wins)

	forward map[string][]Edge // sourceID -> outbound edges
	reverse map[string][]Edge // targetID -> inbound edges
	edgeSeen map[string]bool  // dedup key: sourceID|targetID|type

	deferred map[string][]pendingRef // lowercase target name -> pending refs

	totalReferences int
}

// New constructs an empty Graph.
func New() *Graph {
	return &Graph{
		symbols:     make(map[string]models.Symbol),
		byFile:      make(map[string]map[string]bool),
		byLowerName: make(map[string][]string),
		byLowerFQN:  make(map[string]string),
		forward:     make(map[string][]Edge),
		reverse:     make(map[string][]Edge),
		edgeSeen:    make(map[string]bool),
		deferred:    make(map[string][]pendingRef),
	}
}

// AddSymbolTable registers every symbol of table, then attempts to resolve
// every reference it captured, per spec §4.4.
func (g *Graph) AddSymbolTable(table *symboltable.Table) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, sym := range table.AllSymbols() {
		g.addSymbolLocked(sym)
	}
	for _, ref := range table.References() {
		g.resolveReferenceLocked(ref)
	}
}

func (g *Graph) addSymbolLocked(sym models.Symbol) {
	if _, exists := g.symbols[sym.ID]; !exists {
		g.order = append(g.order, sym.ID)
	}
	g.symbols[sym.ID] = sym

	if g.byFile[sym.FileURI] == nil {
		g.byFile[sym.FileURI] = make(map[string]bool)
	}
	g.byFile[sym.FileURI][sym.ID] = true

	lname := lowerKey(sym.Name)
	found := false
	for _, id := range g.byLowerName[lname] {
		if id == sym.ID {
			found = true
			break
		}
	}
	if !found {
		g.byLowerName[lname] = append(g.byLowerName[lname], sym.ID)
	}

	if sym.FQN != "" {
		lfqn := lowerKey(sym.FQN)
		if _, exists := g.byLowerFQN[lfqn]; !exists {
			g.byLowerFQN[lfqn] = sym.ID
		}
	}

	g.drainDeferredFor(sym.ID, sym)
}

func (g *Graph) resolveReferenceLocked(ref models.Reference) {
	if ref.Context == models.ContextLiteral {
		return // literals never carry a resolvable target
	}
	g.totalReferences++

	name := ref.Name
	if ref.Context == models.ContextChainedType && len(ref.ChainNodes) > 0 {
		name = ref.ChainNodes[len(ref.ChainNodes)-1].Name
	}
	if !isValidReferenceName(name) || isBuiltinType(name) {
		return
	}

	sourceID := ref.SourceSymbolID
	if sourceID == "" {
		return // the listener never stamped an originating symbol; nothing to link from
	}

	if targetID, ok := g.lookupLocked(name); ok {
		g.addEdgeLocked(sourceID, targetID, ref.Context, ref.Qualifier, name)
		return
	}
	g.enqueueDeferred(sourceID, name, ref.Context, ref.Qualifier)
}

// ResolveName reports the symbol ID name currently resolves to, if any,
// using the same FQN-then-first-match rule as reference resolution.
func (g *Graph) ResolveName(name string) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.lookupLocked(name)
}

func (g *Graph) lookupLocked(name string) (string, bool) {
	lname := lowerKey(name)
	if id, ok := g.byLowerFQN[lname]; ok {
		return id, true
	}
	if ids, ok := g.byLowerName[lname]; ok && len(ids) > 0 {
		return ids[0], true
	}
	return "", false
}

func (g *Graph) addEdgeLocked(sourceID, targetID string, typ models.ReferenceContext, context, targetName string) {
	key := sourceID + "|" + targetID + "|" + string(typ)
	if g.edgeSeen[key] {
		return
	}
	g.edgeSeen[key] = true

	edge := Edge{SourceID: sourceID, TargetID: targetID, TargetName: targetName, Type: typ, Context: context}
	g.forward[sourceID] = append(g.forward[sourceID], edge)
	g.reverse[targetID] = append(g.reverse[targetID], edge)
}

// AddReference inserts a forward/reverse edge between two already-known
// symbols, or defers if targetName does not yet resolve. Deduplicates by
// (sourceID, targetID, type).
func (g *Graph) AddReference(sourceID, targetName string, typ models.ReferenceContext, context string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if targetID, ok := g.lookupLocked(targetName); ok {
		g.addEdgeLocked(sourceID, targetID, typ, context, targetName)
		return
	}
	g.enqueueDeferred(sourceID, targetName, typ, context)
}

// FindReferencesTo returns every edge whose target is symbolID.
func (g *Graph) FindReferencesTo(symbolID string) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Edge(nil), g.reverse[symbolID]...)
}

// FindReferencesFrom returns every edge whose source is symbolID.
func (g *Graph) FindReferencesFrom(symbolID string) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Edge(nil), g.forward[symbolID]...)
}

// AnalyzeDependencies computes the forward- and reverse-reachable sets for
// symbolID and an impact score pinned (per the design notes) to
// min(1.0, dependents / max(1, totalSymbols)).
func (g *Graph) AnalyzeDependencies(symbolID string) DependencyAnalysis {
	g.mu.RLock()
	defer g.mu.RUnlock()

	deps := g.reachableForwardLocked(symbolID)
	dependents := g.reachableReverseLocked(symbolID)

	total := len(g.symbols)
	denom := total
	if denom < 1 {
		denom = 1
	}
	score := float64(len(dependents)) / float64(denom)
	if score > 1.0 {
		score = 1.0
	}

	return DependencyAnalysis{Dependencies: deps, Dependents: dependents, ImpactScore: score}
}

// reachableForwardLocked walks g.forward, following each edge's TargetID.
func (g *Graph) reachableForwardLocked(start string) []string {
	visited := map[string]bool{start: true}
	queue := []string{start}
	var out []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.forward[cur] {
			if visited[e.TargetID] {
				continue
			}
			visited[e.TargetID] = true
			out = append(out, e.TargetID)
			queue = append(queue, e.TargetID)
		}
	}
	return out
}

// reachableReverseLocked walks g.reverse, following each edge's SourceID
// (the direction a dependent lies in, relative to start).
func (g *Graph) reachableReverseLocked(start string) []string {
	visited := map[string]bool{start: true}
	queue := []string{start}
	var out []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.reverse[cur] {
			if visited[e.SourceID] {
				continue
			}
			visited[e.SourceID] = true
			out = append(out, e.SourceID)
			queue = append(queue, e.SourceID)
		}
	}
	return out
}

// DetectCircularDependencies returns every strongly-connected component of
// size > 1 in the forward graph, in Tarjan discovery order.
func (g *Graph) DetectCircularDependencies() [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.detectCircularDependenciesLocked()
}

// RemoveFile erases every symbol with the given fileURI, every edge
// incident to those ids, and re-enqueues now-dangling edges as deferred.
func (g *Graph) RemoveFile(fileURI string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ids := g.byFile[fileURI]
	if len(ids) == 0 {
		return
	}
	delete(g.byFile, fileURI)

	for id := range ids {
		sym, ok := g.symbols[id]
		if !ok {
			continue
		}
		delete(g.symbols, id)
		g.removeFromOrder(id)
		g.removeFromNameIndexes(sym)

		for _, e := range g.forward[id] {
			g.removeReverseEntry(e.TargetID, id)
			delete(g.edgeSeen, e.SourceID+"|"+e.TargetID+"|"+string(e.Type))
		}
		delete(g.forward, id)

		for _, e := range g.reverse[id] {
			g.removeForwardEntry(e.SourceID, id)
			delete(g.edgeSeen, e.SourceID+"|"+e.TargetID+"|"+string(e.Type))
			// the other endpoint now references a name with no backing
			// symbol; re-defer it so a later re-add can relink.
			g.enqueueDeferred(e.SourceID, e.TargetName, e.Type, e.Context)
		}
		delete(g.reverse, id)
	}
}

func (g *Graph) removeFromOrder(id string) {
	for i, existing := range g.order {
		if existing == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			return
		}
	}
}

func (g *Graph) removeFromNameIndexes(sym models.Symbol) {
	lname := lowerKey(sym.Name)
	ids := g.byLowerName[lname]
	for i, id := range ids {
		if id == sym.ID {
			g.byLowerName[lname] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if sym.FQN != "" {
		lfqn := lowerKey(sym.FQN)
		if g.byLowerFQN[lfqn] == sym.ID {
			delete(g.byLowerFQN, lfqn)
		}
	}
}

func (g *Graph) removeReverseEntry(targetID, sourceID string) {
	edges := g.reverse[targetID]
	out := edges[:0]
	for _, e := range edges {
		if e.SourceID != sourceID {
			out = append(out, e)
		}
	}
	g.reverse[targetID] = out
}

func (g *Graph) removeForwardEntry(sourceID, targetID string) {
	edges := g.forward[sourceID]
	out := edges[:0]
	for _, e := range edges {
		if e.TargetID != targetID {
			out = append(out, e)
		}
	}
	g.forward[sourceID] = out
}

// SymbolByID returns the symbol registered under id, if any.
func (g *Graph) SymbolByID(id string) (models.Symbol, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	sym, ok := g.symbols[id]
	return sym, ok
}

// LookupSymbolByName returns every symbol whose name matches (case
// insensitive).
func (g *Graph) LookupSymbolByName(name string) []models.Symbol {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []models.Symbol
	for _, id := range g.byLowerName[lowerKey(name)] {
		if sym, ok := g.symbols[id]; ok {
			out = append(out, sym)
		}
	}
	return out
}

// LookupSymbolByFQN returns the symbol registered under fqn, if any.
func (g *Graph) LookupSymbolByFQN(fqn string) (models.Symbol, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	id, ok := g.byLowerFQN[lowerKey(fqn)]
	if !ok {
		return models.Symbol{}, false
	}
	sym, ok := g.symbols[id]
	return sym, ok
}

// GetSymbolsInFile returns every symbol registered under fileURI.
func (g *Graph) GetSymbolsInFile(fileURI string) []models.Symbol {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []models.Symbol
	for id := range g.byFile[fileURI] {
		if sym, ok := g.symbols[id]; ok {
			out = append(out, sym)
		}
	}
	return out
}

// GetFilesForSymbol returns every distinct file URI holding a symbol named
// name (case-insensitive) — relevant for Apex's partial-class declarations,
// where the same logical type spans multiple files.
func (g *Graph) GetFilesForSymbol(name string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, id := range g.byLowerName[lowerKey(name)] {
		sym, ok := g.symbols[id]
		if !ok || seen[sym.FileURI] {
			continue
		}
		seen[sym.FileURI] = true
		out = append(out, sym.FileURI)
	}
	return out
}

// AllSymbols returns every registered symbol, in insertion order. Used by
// the Neo4j mirror to do a full resync.
func (g *Graph) AllSymbols() []models.Symbol {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]models.Symbol, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.symbols[id])
	}
	return out
}

// AllEdges returns every resolved edge currently in the graph, deduplicated
// (the same shape as g.forward's values, flattened).
func (g *Graph) AllEdges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []Edge
	for _, id := range g.order {
		out = append(out, g.forward[id]...)
	}
	return out
}

// GetStats reports the graph's current size.
func (g *Graph) GetStats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	deferredCount := 0
	for _, pending := range g.deferred {
		deferredCount += len(pending)
	}

	return Stats{
		TotalSymbols:         len(g.symbols),
		TotalFiles:           len(g.byFile),
		TotalReferences:      g.totalReferences,
		DeferredReferences:   deferredCount,
		CircularDependencies: len(g.detectCircularDependenciesLocked()),
	}
}
