package symbolgraph

// tarjan runs Tarjan's strongly-connected-components algorithm over the
// forward edge map, iterating nodes in insertion order so results are
// deterministic across runs (spec §4.4). Only components of size > 1 are
// circular-dependency candidates; a lone node is never reported even if it
// has a self-edge.
type tarjanState struct {
	g        *Graph
	index    map[string]int
	lowlink  map[string]int
	onStack  map[string]bool
	stack    []string
	counter  int
	sccs     [][]string
}

func (g *Graph) detectCircularDependenciesLocked() [][]string {
	st := &tarjanState{
		g:       g,
		index:   make(map[string]int),
		lowlink: make(map[string]int),
		onStack: make(map[string]bool),
	}
	for _, id := range g.order {
		if _, seen := st.index[id]; !seen {
			st.strongConnect(id)
		}
	}

	var cycles [][]string
	for _, scc := range st.sccs {
		if len(scc) > 1 {
			cycles = append(cycles, scc)
		}
	}
	return cycles
}

func (s *tarjanState) strongConnect(v string) {
	s.index[v] = s.counter
	s.lowlink[v] = s.counter
	s.counter++
	s.stack = append(s.stack, v)
	s.onStack[v] = true

	for _, e := range s.g.forward[v] {
		w := e.TargetID
		if _, seen := s.index[w]; !seen {
			s.strongConnect(w)
			if s.lowlink[w] < s.lowlink[v] {
				s.lowlink[v] = s.lowlink[w]
			}
		} else if s.onStack[w] {
			if s.index[w] < s.lowlink[v] {
				s.lowlink[v] = s.index[w]
			}
		}
	}

	if s.lowlink[v] == s.index[v] {
		var component []string
		for {
			n := len(s.stack) - 1
			w := s.stack[n]
			s.stack = s.stack[:n]
			s.onStack[w] = false
			component = append(component, w)
			if w == v {
				break
			}
		}
		s.sccs = append(s.sccs, component)
	}
}
