package listener

import (
	"strings"

	"github.com/forcedotcom/apexls-core/internal/walker"
	"github.com/forcedotcom/apexls-core/pkg/models"
)

func lowerName(s string) string { return strings.ToLower(s) }

// ChildByTypeHelper is a thin alias over walker.ChildByType, kept local so
// call sites in this package read naturally next to the other visitXxx
// helpers.
func ChildByTypeHelper(n walker.ParseTree, types ...string) walker.ParseTree {
	return walker.ChildByType(n, types...)
}

func nodeLocation(n walker.ParseTree) models.Location {
	r := models.Range{
		Start: models.Position{Line: int(n.StartPoint().Row) + 1, Column: int(n.StartPoint().Column)},
		End:   models.Position{Line: int(n.EndPoint().Row) + 1, Column: int(n.EndPoint().Column)},
	}
	return models.Location{SymbolRange: r, IdentifierRange: r}
}

// childIdentifierText returns the text of the first identifier-kind child
// of n, which by grammar convention is its declared name.
func childIdentifierText(src []byte, n walker.ParseTree) string {
	c := ChildByTypeHelper(n, nodeIdentifier)
	if c == nil {
		return ""
	}
	return c.Content(src)
}

func firstTypeIdentifier(src []byte, n walker.ParseTree) string {
	c := ChildByTypeHelper(n, nodeTypeIdent, nodeScopedTypeName)
	if c == nil {
		return ""
	}
	return c.Content(src)
}

func extractSuperclass(src []byte, n walker.ParseTree) string {
	c := ChildByTypeHelper(n, nodeSuperclass)
	if c == nil {
		return ""
	}
	if id := ChildByTypeHelper(c, nodeTypeIdent, nodeIdentifier); id != nil {
		return id.Content(src)
	}
	return c.Content(src)
}

func extractInterfaces(src []byte, n walker.ParseTree) []string {
	c := ChildByTypeHelper(n, nodeInterfaces)
	if c == nil {
		return nil
	}
	var out []string
	for i := 0; i < c.ChildCount(); i++ {
		ch := c.Child(i)
		if ch.Type() == nodeTypeIdent || ch.Type() == nodeIdentifier {
			out = append(out, ch.Content(src))
		}
	}
	return out
}

func extractReturnType(src []byte, n walker.ParseTree) string {
	c := ChildByTypeHelper(n, nodeTypeIdent, nodeScopedTypeName)
	if c == nil {
		return "void"
	}
	return c.Content(src)
}

func extractParameters(src []byte, n walker.ParseTree) []models.Parameter {
	var params []models.Parameter
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c.Type() != nodeParameter {
			continue
		}
		typ := firstTypeIdentifier(src, c)
		name := childIdentifierText(src, c)
		if name == "" {
			continue
		}
		params = append(params, models.Parameter{Name: name, Type: typ})
	}
	return params
}

// splitFieldAccess returns (object, field) for a `field_access` node whose
// children are [object, ".", field] by grammar convention.
func splitFieldAccess(n walker.ParseTree) (obj, field walker.ParseTree) {
	if n.ChildCount() < 2 {
		return nil, nil
	}
	return n.Child(0), n.Child(n.ChildCount()-1)
}

// splitArrayAccess returns (array, index) for an `array_access` node whose
// children are [array, index] by grammar convention.
func splitArrayAccess(n walker.ParseTree) (arr, idx walker.ParseTree) {
	if n.ChildCount() < 2 {
		return nil, nil
	}
	return n.Child(0), n.Child(1)
}

func effectiveVisibility(m models.Modifiers) models.Visibility {
	if m.Visibility == "" {
		return models.VisibilityDefault
	}
	return m.Visibility
}

// scanModifiersAndAnnotations walks a declaration's `modifiers` child (if
// present), folding each modifier keyword and annotation into d.
func (w *Walker) scanModifiersAndAnnotations(src []byte, n walker.ParseTree, d *declState) {
	m := ChildByTypeHelper(n, nodeModifiers)
	if m == nil {
		return
	}
	for i := 0; i < m.ChildCount(); i++ {
		c := m.Child(i)
		switch c.Type() {
		case nodeAnnotation:
			d.annotations = append(d.annotations, c.Content(src))
		default:
			applyModifierToken(d, strings.ToLower(c.Content(src)))
		}
	}
}
