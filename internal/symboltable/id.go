package symboltable

import (
	"fmt"
	"strings"

	"github.com/forcedotcom/apexls-core/pkg/models"
)

// computeID builds the canonical, edit-stable symbol id described in spec
// §4.1: "fileUri:prefix1:name1:prefix2:name2:…:kind:name", where each
// prefix is the immediate scope kind of an ancestor. Line numbers are never
// included so whitespace-only edits preserve ids.
func (t *Table) computeID(kind models.SymbolKind, name string, parent *models.Symbol) string {
	var segments []string
	for anc := parent; anc != nil; anc = t.parentOf(anc) {
		prefix := string(anc.Kind)
		if anc.Kind == models.SymbolKindBlock {
			prefix = string(anc.ScopeType)
		}
		segments = append(segments, prefix, anc.Name)
	}
	// ancestors were collected leaf-to-root; the canonical form wants
	// root-to-leaf ordering.
	reverse(segments)

	segments = append(segments, string(kind), name)
	return t.fileURI + ":" + strings.Join(segments, ":")
}

func reverse(s []string) {
	// segments come in (prefix, name) pairs; reverse pair-wise.
	n := len(s) / 2
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		s[2*i], s[2*j] = s[2*j], s[2*i]
		s[2*i+1], s[2*j+1] = s[2*j+1], s[2*i+1]
	}
}

// parentOf resolves a symbol's parent via the table's own storage. Returns
// nil at the top-level symbol.
func (t *Table) parentOf(sym *models.Symbol) *models.Symbol {
	if sym.ParentID == nil {
		return nil
	}
	return t.getByID(*sym.ParentID)
}

// scopeSeqKey keys the anonymous-scope naming counter used by EnterScope
// when the caller does not supply a name (if/while/for/try/block bodies).
func scopeSeqKey(parent *models.Symbol, scopeType models.ScopeType) string {
	parentID := "<root>"
	if parent != nil {
		parentID = parent.ID
	}
	return fmt.Sprintf("%s|%s", parentID, scopeType)
}
