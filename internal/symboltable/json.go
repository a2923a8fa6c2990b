package symboltable

// JSONView is the debugging-convenience shape returned by ToJSON (spec
// §4.1: "a pair of arrays (symbols, scopes) suitable for diffing in
// tests; round-trip is not required").
type JSONView struct {
	Symbols []SymbolJSON `json:"symbols"`
	Scopes  []SymbolJSON `json:"scopes"`
}

// SymbolJSON is a flattened, human-diffable projection of a symbol.
type SymbolJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	ScopeType   string `json:"scopeType,omitempty"`
	ParentID    string `json:"parentId,omitempty"`
	FQN         string `json:"fqn"`
	DetailLevel string `json:"detailLevel"`
}

// ToJSON renders the table as a pair of arrays: semantic symbols and scope
// (block-kind) symbols, for use in golden-file style tests.
func (t *Table) ToJSON() JSONView {
	const blockKind = "block"
	t.mu.RLock()
	defer t.mu.RUnlock()

	var view JSONView
	for _, id := range t.order {
		s, ok := t.bySlot[id]
		if !ok {
			continue
		}
		sym := s.first
		entry := SymbolJSON{
			ID:          sym.ID,
			Name:        sym.Name,
			Kind:        string(sym.Kind),
			ScopeType:   string(sym.ScopeType),
			FQN:         sym.FQN,
			DetailLevel: sym.DetailLevel.String(),
		}
		if sym.ParentID != nil {
			entry.ParentID = *sym.ParentID
		}
		if string(sym.Kind) == blockKind {
			view.Scopes = append(view.Scopes, entry)
		} else {
			view.Symbols = append(view.Symbols, entry)
		}
	}
	return view
}
