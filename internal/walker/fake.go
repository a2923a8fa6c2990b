package walker

// FakeBuilder constructs fixture ParseTrees for tests without depending on
// the tree-sitter parser or a real Apex grammar. Nodes are stored in a flat
// arena and referenced by index rather than by pointer, per Design Note
// 9.1 ("test fixtures must not form pointer cycles, so fixture trees live
// in an arena addressed by index").
type FakeBuilder struct {
	nodes []fakeNode
}

type fakeNode struct {
	typ        string
	start, end Point
	children   []int
	named      []int
	fields     map[int]string
	content    string
}

// NewFakeBuilder returns an empty builder.
func NewFakeBuilder() *FakeBuilder {
	return &FakeBuilder{}
}

// Add inserts a node of the given type and span with the given children
// (by index, as returned from earlier Add calls) and returns its index.
// Every child is treated as named, matching how Apex fixture grammars never
// need tree-sitter's anonymous-token children for listener-level tests.
func (b *FakeBuilder) Add(typ string, start, end Point, content string, children ...int) int {
	n := fakeNode{typ: typ, start: start, end: end, content: content, children: children, named: children}
	b.nodes = append(b.nodes, n)
	return len(b.nodes) - 1
}

// SetField records the tree-sitter field name for the i-th child of node
// parentIdx, so ChildByType-style lookups in listener code that key off
// field names (e.g. "name", "body") can be exercised in fixtures.
func (b *FakeBuilder) SetField(parentIdx, childPos int, field string) {
	n := &b.nodes[parentIdx]
	if n.fields == nil {
		n.fields = make(map[int]string)
	}
	n.fields[childPos] = field
}

// Root returns the ParseTree rooted at the given arena index.
func (b *FakeBuilder) Root(idx int) ParseTree {
	return fakeTree{arena: b.nodes, idx: idx}
}

// fakeTree is the ParseTree view over one arena slot. Copying the arena
// slice header (not its backing array) keeps every fakeTree cheap and
// immutable once built.
type fakeTree struct {
	arena []fakeNode
	idx   int
}

func (t fakeTree) node() fakeNode { return t.arena[t.idx] }

func (t fakeTree) Type() string { return t.node().typ }

func (t fakeTree) StartPoint() Point { return t.node().start }

func (t fakeTree) EndPoint() Point { return t.node().end }

func (t fakeTree) Child(i int) ParseTree {
	n := t.node()
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return fakeTree{arena: t.arena, idx: n.children[i]}
}

func (t fakeTree) ChildCount() int { return len(t.node().children) }

func (t fakeTree) NamedChild(i int) ParseTree {
	n := t.node()
	if i < 0 || i >= len(n.named) {
		return nil
	}
	return fakeTree{arena: t.arena, idx: n.named[i]}
}

func (t fakeTree) NamedChildCount() int { return len(t.node().named) }

func (t fakeTree) Content(src []byte) string { return t.node().content }

func (t fakeTree) FieldNameForChild(i int) string {
	n := t.node()
	if n.fields == nil {
		return ""
	}
	return n.fields[i]
}
