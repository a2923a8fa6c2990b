package symboltable

import "github.com/forcedotcom/apexls-core/pkg/models"

// AddTypeReference records a simple (non-chained) reference.
func (t *Table) AddTypeReference(ref models.Reference) models.Reference {
	t.mu.Lock()
	defer t.mu.Unlock()
	ref.FileURI = t.fileURI
	t.references = append(t.references, ref)
	return ref
}

// AddHierarchicalReference records a chained reference (e.g. `a.b.c()`),
// trimming chainNodes to MaxChainLength per spec §9's open question.
func (t *Table) AddHierarchicalReference(ref models.Reference) models.Reference {
	if len(ref.ChainNodes) > models.MaxChainLength {
		ref.ChainNodes = ref.ChainNodes[:models.MaxChainLength]
	}
	return t.AddTypeReference(ref)
}

// References returns every reference captured in this table, in capture
// order.
func (t *Table) References() []models.Reference {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]models.Reference, len(t.references))
	copy(out, t.references)
	return out
}

// GetReferencesAtPosition returns every reference whose identifierRange,
// qualifierLocation, memberLocation, or any chainNodes[i].location contains
// pos (spec §4.1).
func (t *Table) GetReferencesAtPosition(pos models.Position) []models.Reference {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []models.Reference
	for _, ref := range t.references {
		if ref.Location.IdentifierRange.Contains(pos) {
			out = append(out, ref)
			continue
		}
		if ref.QualifierLocation != nil && ref.QualifierLocation.IdentifierRange.Contains(pos) {
			out = append(out, ref)
			continue
		}
		if ref.MemberLocation != nil && ref.MemberLocation.IdentifierRange.Contains(pos) {
			out = append(out, ref)
			continue
		}
		matched := false
		for _, node := range ref.ChainNodes {
			if node.Location.IdentifierRange.Contains(pos) {
				matched = true
				break
			}
		}
		if matched {
			out = append(out, ref)
		}
	}
	return out
}

// SyncResolvedReferences stamps ResolvedSymbolID on every reference this
// table captured that resolve can now answer for, using the same
// chained-reference name rule as the symbol graph (the last chain node
// names a ContextChainedType reference). Skips literals and anything
// already resolved. resolve is expected to report false for builtin types,
// which are never resolved to a project symbol. Returns the number of
// references newly marked resolved (spec §4.6 step 7: the orchestrator
// re-syncs a table's references after cross-file resolution runs, since
// resolution only ever updates the graph's own edges, not the table's
// copy of the reference).
func (t *Table) SyncResolvedReferences(resolve func(name string) (string, bool)) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for i := range t.references {
		ref := &t.references[i]
		if ref.Context == models.ContextLiteral || ref.ResolvedSymbolID != "" {
			continue
		}
		name := ref.Name
		if ref.Context == models.ContextChainedType && len(ref.ChainNodes) > 0 {
			name = ref.ChainNodes[len(ref.ChainNodes)-1].Name
		}
		if targetID, ok := resolve(name); ok {
			ref.ResolvedSymbolID = targetID
			n++
		}
	}
	return n
}

// RewriteQualifierContext changes the context of every VARIABLE_USAGE
// reference named qualifier to newContext and returns how many it changed
// (spec §4.3's enableReferenceCorrection pass rewrites VARIABLE_USAGE ->
// CLASS_REFERENCE once the name resolves to a type, same-file or
// cross-file).
func (t *Table) RewriteQualifierContext(qualifier string, newContext models.ReferenceContext) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for i := range t.references {
		ref := &t.references[i]
		if ref.Context == models.ContextVariableUsage && ref.Name == qualifier {
			ref.Context = newContext
			n++
		}
	}
	return n
}
