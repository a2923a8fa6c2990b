package symboltable

import (
	"strings"

	"github.com/forcedotcom/apexls-core/pkg/models"
)

// FindSymbolInScope returns the symbol named `name` (case-insensitive)
// whose ParentID is scope.ID.
func (t *Table) FindSymbolInScope(name string, scope models.Symbol) (models.Symbol, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.findInScopeLocked(name, scope.ID)
}

func (t *Table) findInScopeLocked(name, scopeID string) (models.Symbol, bool) {
	lname := strings.ToLower(name)
	for _, id := range t.order {
		s, ok := t.bySlot[id]
		if !ok {
			continue
		}
		sym := s.first
		if sym.ParentID == nil || *sym.ParentID != scopeID {
			continue
		}
		if strings.ToLower(sym.Name) == lname {
			return sym, true
		}
	}
	return models.Symbol{}, false
}

// FindSymbolInCurrentScope is an alias for FindSymbolInScope kept for
// parity with the listener's naming (it always operates against whatever
// scope the caller considers "current").
func (t *Table) FindSymbolInCurrentScope(name string, currentScope models.Symbol) (models.Symbol, bool) {
	return t.FindSymbolInScope(name, currentScope)
}

// Lookup resolves `name` starting from startingScope: it walks from the
// starting scope up through parents, then across file-level roots, then
// down through their descendants (spec §4.1).
func (t *Table) Lookup(name string, startingScope models.Symbol) (models.Symbol, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	lname := strings.ToLower(name)

	// 1. Walk up from startingScope through parents.
	for cur := &startingScope; cur != nil; cur = t.parentOf(cur) {
		if strings.ToLower(cur.Name) == lname {
			return *cur, true
		}
		if sym, ok := t.findInScopeLocked(name, cur.ID); ok {
			return sym, true
		}
	}

	// 2. File-level roots: any symbol with ParentID == nil.
	for _, id := range t.order {
		s := t.bySlot[id]
		if s.first.ParentID == nil && strings.ToLower(s.first.Name) == lname {
			return s.first, true
		}
	}

	// 3. Down through descendants of those roots (approximated here as a
	// full-file scan, since nested-type declarations are rare and the
	// table has no separate child index by design — containment is
	// expressed exclusively via ParentID per spec §3).
	for _, id := range t.order {
		s := t.bySlot[id]
		if strings.ToLower(s.first.Name) == lname {
			return s.first, true
		}
	}

	return models.Symbol{}, false
}

// FindContainingBlockSymbol returns the smallest block-kind symbol whose
// SymbolRange contains pos, or false if none does. Among blocks of equal
// size the most recently entered one wins, so a nested scope sharing its
// parent's range is preferred over the parent.
func (t *Table) FindContainingBlockSymbol(pos models.Position) (models.Symbol, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var best *models.Symbol
	for _, id := range t.order {
		s := t.bySlot[id]
		sym := s.first
		if sym.Kind != models.SymbolKindBlock {
			continue
		}
		if !sym.Location.SymbolRange.Contains(pos) {
			continue
		}
		if best == nil || rangeSize(sym.Location.SymbolRange) <= rangeSize(best.Location.SymbolRange) {
			cp := sym
			best = &cp
		}
	}
	if best == nil {
		return models.Symbol{}, false
	}
	return *best, true
}

// GetScopeHierarchy returns the root-to-leaf chain of symbols enclosing
// pos: the innermost containing block, followed by its ancestors up to the
// top-level symbol, reversed so the root comes first.
func (t *Table) GetScopeHierarchy(pos models.Position) []models.Symbol {
	leaf, ok := t.FindContainingBlockSymbol(pos)
	if !ok {
		return nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	var chain []models.Symbol
	for cur := &leaf; cur != nil; cur = t.parentOf(cur) {
		chain = append(chain, *cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

func rangeSize(r models.Range) int {
	lines := r.End.Line - r.Start.Line
	if lines < 0 {
		return 0
	}
	return lines*100000 + (r.End.Column - r.Start.Column)
}

