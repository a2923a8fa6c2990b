// Package walker defines the ParseTree contract the listener layer walks,
// and adapts it onto the tree-sitter node API (spec §2: the Apex parser
// itself is an external collaborator, out of scope here; this package only
// owns the shape a parse tree must present).
package walker

// Point is a zero-based (row, column) source position, matching
// sitter.Point's field layout so the tree-sitter adapter is a direct
// pass-through rather than a coordinate translation.
type Point struct {
	Row    uint32
	Column uint32
}

// ParseTree is the subset of tree-sitter's *sitter.Node surface the listener
// layer needs to walk a parsed Apex file. Any concrete parser - the real
// Apex grammar, a tree-sitter adapter, or a hand-built test fixture - need
// only satisfy this interface.
type ParseTree interface {
	Type() string
	StartPoint() Point
	EndPoint() Point
	Child(i int) ParseTree
	ChildCount() int
	NamedChild(i int) ParseTree
	NamedChildCount() int
	Content(src []byte) string
	FieldNameForChild(i int) string
}

// Children returns every child of n as a slice, in order.
func Children(n ParseTree) []ParseTree {
	out := make([]ParseTree, 0, n.ChildCount())
	for i := 0; i < n.ChildCount(); i++ {
		out = append(out, n.Child(i))
	}
	return out
}

// NamedChildren returns every named child of n as a slice, in order.
func NamedChildren(n ParseTree) []ParseTree {
	out := make([]ParseTree, 0, n.NamedChildCount())
	for i := 0; i < n.NamedChildCount(); i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

// ChildByType returns the first direct child whose Type() matches one of
// types, or nil.
func ChildByType(n ParseTree, types ...string) ParseTree {
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		for _, want := range types {
			if c.Type() == want {
				return c
			}
		}
	}
	return nil
}
