package walker

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// sitterTree adapts a *sitter.Node onto ParseTree. Grounded on the teacher's
// internal/parser/java package, which walks *sitter.Node directly via
// Type()/Child()/ChildCount()/Content(); this wrapper exists only so the
// listener layer depends on ParseTree rather than the tree-sitter package
// itself, since the real Apex grammar is supplied externally.
type sitterTree struct {
	node *sitter.Node
}

// NewSitterTree wraps a tree-sitter node (typically tree.RootNode()) as a
// ParseTree.
func NewSitterTree(node *sitter.Node) ParseTree {
	if node == nil {
		return nil
	}
	return sitterTree{node: node}
}

func (t sitterTree) Type() string { return t.node.Type() }

func (t sitterTree) StartPoint() Point {
	p := t.node.StartPoint()
	return Point{Row: p.Row, Column: p.Column}
}

func (t sitterTree) EndPoint() Point {
	p := t.node.EndPoint()
	return Point{Row: p.Row, Column: p.Column}
}

func (t sitterTree) Child(i int) ParseTree {
	c := t.node.Child(i)
	if c == nil {
		return nil
	}
	return sitterTree{node: c}
}

func (t sitterTree) ChildCount() int { return int(t.node.ChildCount()) }

func (t sitterTree) NamedChild(i int) ParseTree {
	c := t.node.NamedChild(i)
	if c == nil {
		return nil
	}
	return sitterTree{node: c}
}

func (t sitterTree) NamedChildCount() int { return int(t.node.NamedChildCount()) }

func (t sitterTree) Content(src []byte) string { return t.node.Content(src) }

func (t sitterTree) FieldNameForChild(i int) string { return t.node.FieldNameForChild(i) }
