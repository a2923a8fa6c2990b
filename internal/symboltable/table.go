// Package symboltable owns all symbols parsed from a single Apex file and
// exposes scope-aware lookups, per spec §4.1. One Table is constructed per
// file and registered with the process-wide symbol graph
// (internal/symbolgraph) once compilation completes.
package symboltable

import (
	"strconv"
	"strings"
	"sync"

	"github.com/forcedotcom/apexls-core/pkg/models"
)

// slot holds one symbol id's stored value(s). The common case is a single
// symbol; true duplicates (same id, different declaration site) degrade to
// a short list, per Design Note 9.2's "tagged variant, normalized to
// always-list with a fast first() accessor".
type slot struct {
	first models.Symbol
	extra []models.Symbol
}

func (s *slot) all() []models.Symbol {
	out := make([]models.Symbol, 0, 1+len(s.extra))
	out = append(out, s.first)
	out = append(out, s.extra...)
	return out
}

// Table is the per-file symbol store.
type Table struct {
	mu      sync.RWMutex
	fileURI string

	bySlot map[string]*slot // id -> slot
	order  []string         // insertion order, for deterministic ToJSON/iteration

	references []models.Reference

	scopeSeq map[string]int // anonymous-scope naming counters
	rootID   string         // id of the single symbol with ParentID == nil, once assigned
}

// New creates an empty Table for the given file.
func New(fileURI string) *Table {
	return &Table{
		fileURI: fileURI,
		bySlot:  make(map[string]*slot),
		scopeSeq: make(map[string]int),
	}
}

// FileURI returns the file this table was built for.
func (t *Table) FileURI() string { return t.fileURI }

// getByID returns the first symbol stored at id, or nil. Caller must hold
// (at least) a read lock, or call from within a method that already does.
func (t *Table) getByID(id string) *models.Symbol {
	s, ok := t.bySlot[id]
	if !ok {
		return nil
	}
	return &s.first
}

// GetSymbolByID returns the first symbol stored under id (spec §4.1).
func (t *Table) GetSymbolByID(id string) (models.Symbol, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.bySlot[id]
	if !ok {
		return models.Symbol{}, false
	}
	return s.first, true
}

// GetAllSymbolsByID returns every symbol stored under id, including true
// duplicates.
func (t *Table) GetAllSymbolsByID(id string) []models.Symbol {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.bySlot[id]
	if !ok {
		return nil
	}
	return s.all()
}

// AllSymbols returns every distinct (id, first-copy) symbol in insertion
// order. Used by ToJSON and by the symbol graph at registration time.
func (t *Table) AllSymbols() []models.Symbol {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]models.Symbol, 0, len(t.order))
	for _, id := range t.order {
		if s, ok := t.bySlot[id]; ok {
			out = append(out, s.first)
		}
	}
	return out
}

// AddSymbol inserts sym, enriching an existing stored symbol in place if one
// already exists at the same id, per spec §4.1. AddSymbol is total: it
// always returns a valid stored symbol and never errors, per the
// "malformed input never corrupts the table" failure semantics of §4.1.
func (t *Table) AddSymbol(sym models.Symbol, currentScope *models.Symbol) models.Symbol {
	t.mu.Lock()
	defer t.mu.Unlock()

	sym.FileURI = t.fileURI
	if sym.ParentID == nil && currentScope != nil {
		id := currentScope.ID
		sym.ParentID = &id
	}
	if sym.ID == "" {
		sym.ID = t.computeID(sym.Kind, sym.Name, currentScope)
	}
	if sym.FQN == "" {
		sym.FQN = strings.ToLower(sym.Name)
	}

	if sym.ParentID == nil {
		// Invariant 2: at most one symbol per file has ParentID == nil.
		if t.rootID != "" && t.rootID != sym.ID {
			// Never corrupt the table: keep the first-seen root; treat any
			// further "rootless" symbol as parented to it instead.
			id := t.rootID
			sym.ParentID = &id
			sym.ID = t.computeID(sym.Kind, sym.Name, t.getByID(t.rootID))
		} else {
			t.rootID = sym.ID
		}
	}

	existing, ok := t.bySlot[sym.ID]
	if !ok {
		t.bySlot[sym.ID] = &slot{first: sym}
		t.order = append(t.order, sym.ID)
		return sym
	}

	if sym.DetailLevel > existing.first.DetailLevel {
		enriched := mergeEnrichment(existing.first, sym)
		existing.first = enriched
		return enriched
	}
	if sym.DetailLevel < existing.first.DetailLevel || sameDeclaration(existing.first, sym) {
		// Same-or-lower enrichment pass over the same declaration: keep the
		// stored symbol unchanged.
		return existing.first
	}

	// True duplicate: different declaration site, same id.
	existing.extra = append(existing.extra, sym)
	return existing.first
}

// sameDeclaration is a best-effort check for "this is the same enrichment
// pass revisiting the same declaration" vs. "this is a genuine duplicate
// declaration", based on identical identifier ranges.
func sameDeclaration(a, b models.Symbol) bool {
	return a.Location.IdentifierRange == b.Location.IdentifierRange
}

// mergeEnrichment upgrades `stored` in place with the higher-detail fields
// of `incoming`, preserving stored's ID, and ParentID (spec §4.1 invariant
// 4: enrichment preserves id and parentId).
func mergeEnrichment(stored, incoming models.Symbol) models.Symbol {
	id, parentID := stored.ID, stored.ParentID
	merged := incoming
	merged.ID = id
	merged.ParentID = parentID
	return merged
}

// EnterScope creates a scope symbol (kind=block) and inserts it into the
// table. For `class`/`method` scope types the caller passes the owning
// semantic symbol as parentScope (its id becomes this scope's ParentID);
// for every other scope type the caller passes the enclosing block scope.
// If name is empty, an edit-stable synthetic name is assigned from a
// per-(parent, scopeType) sequence counter.
func (t *Table) EnterScope(name string, scopeType models.ScopeType, loc models.Location, fileURI string, parentScope *models.Symbol) models.Symbol {
	t.mu.Lock()
	if name == "" {
		key := scopeSeqKey(parentScope, scopeType)
		seq := t.scopeSeq[key]
		t.scopeSeq[key] = seq + 1
		name = syntheticScopeName(scopeType, seq)
	}
	t.mu.Unlock()

	sym := models.Symbol{
		Name:      name,
		Kind:      models.SymbolKindBlock,
		ScopeType: scopeType,
		Location:  loc,
	}
	return t.AddSymbol(sym, parentScope)
}

func syntheticScopeName(scopeType models.ScopeType, seq int) string {
	return string(scopeType) + strconv.Itoa(seq)
}
