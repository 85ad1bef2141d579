package graph

import (
	"iter"
	"slices"
)

// AddMultiEdge creates a multiedge grouping edges. The endpoints of edges
// become its initial tail and head vertices. A zero id asks the multiedge id
// generator for one; a zero label means Options.Labels.MultiEdge. A veto
// returns (nil, nil).
func (g *Graph[I, L, K, V]) AddMultiEdge(id I, label L, edges []*Edge[I, L, K, V], init Initializer[K, V]) (*MultiEdge[I, L, K, V], error) {
	return g.addMultiEdge(id, label, edges, init, false)
}

// AddMultiEdgeIfNotExists is AddMultiEdge except that an existing id returns
// the existing multiedge unchanged. edges are not merged into it.
func (g *Graph[I, L, K, V]) AddMultiEdgeIfNotExists(id I, label L, edges []*Edge[I, L, K, V], init Initializer[K, V]) (*MultiEdge[I, L, K, V], error) {
	return g.addMultiEdge(id, label, edges, init, true)
}

func (g *Graph[I, L, K, V]) addMultiEdge(id I, label L, edges []*Edge[I, L, K, V], init Initializer[K, V], ifNotExists bool) (*MultiEdge[I, L, K, V], error) {
	if slices.Contains(edges, nil) {
		return nil, invalidArgument("multiedge members must not be nil")
	}

	g.writeMu.Lock()
	for _, e := range edges {
		if err := own(g, "edge", e.id, e.graph, e.State()); err != nil {
			g.writeMu.Unlock()
			return nil, err
		}
	}

	var zero I
	if id == zero {
		var err error
		id, err = nextID(g.opts.MultiEdgeIDs, g.hasMultiEdge)
		if err != nil {
			g.writeMu.Unlock()
			return nil, err
		}
	} else if existing, ok := g.multiEdges.get(id); ok {
		g.writeMu.Unlock()
		if ifNotExists {
			return existing, nil
		}
		return nil, duplicateID("multiedge", id)
	}
	var zl L
	if label == zl {
		label = g.opts.Labels.MultiEdge
	}

	m, err := newMultiEdge(g, id, label, init)
	if err != nil {
		g.writeMu.Unlock()
		return nil, err
	}
	// voters see the members the multiedge will start with
	for _, e := range edges {
		m.edges.add(e.id)
		m.tails.add(e.outID)
		m.heads.add(e.inID)
	}
	if !g.events.AddMultiEdge.approve(m) {
		g.writeMu.Unlock()
		return nil, nil
	}

	g.mu.Lock()
	g.multiEdges.put(m)
	for _, e := range edges {
		g.linkMultiEdge(m, e)
	}
	m.setState(StateLive)
	g.mu.Unlock()
	g.writeMu.Unlock()

	g.events.AddMultiEdge.notify(m)
	return m, nil
}

// linkMultiEdge makes e a member of m and reports whether it was new. Must
// be called with both locks held.
func (g *Graph[I, L, K, V]) linkMultiEdge(m *MultiEdge[I, L, K, V], e *Edge[I, L, K, V]) bool {
	added := m.edges.add(e.id)
	e.multi.add(m.id)
	m.tails.add(e.outID)
	m.heads.add(e.inID)
	if v, ok := g.vertices.get(e.outID); ok {
		v.multi.add(m.id)
	}
	if v, ok := g.vertices.get(e.inID); ok {
		v.multi.add(m.id)
	}
	return added
}

func (g *Graph[I, L, K, V]) MultiEdgeByID(id I) *MultiEdge[I, L, K, V] {
	m, _ := g.TryGetMultiEdgeByID(id)
	return m
}

func (g *Graph[I, L, K, V]) TryGetMultiEdgeByID(id I) (*MultiEdge[I, L, K, V], bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.multiEdges.get(id)
}

func (g *Graph[I, L, K, V]) HasMultiEdgeID(id I) bool {
	_, ok := g.TryGetMultiEdgeByID(id)
	return ok
}

// GetMultiEdge is the strict lookup: an unknown id fails with ErrUnknownID.
func (g *Graph[I, L, K, V]) GetMultiEdge(id I) (*MultiEdge[I, L, K, V], error) {
	if m, ok := g.TryGetMultiEdgeByID(id); ok {
		return m, nil
	}
	return nil, unknownID("multiedge", id)
}

func (g *Graph[I, L, K, V]) MultiEdgesByID(ids ...I) iter.Seq[*MultiEdge[I, L, K, V]] {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return seq(g.multiEdges.lookup(ids), nil)
}

func (g *Graph[I, L, K, V]) MultiEdgesByLabel(labels ...L) iter.Seq[*MultiEdge[I, L, K, V]] {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return seq(g.multiEdges.withLabels(labels), nil)
}

func (g *Graph[I, L, K, V]) MultiEdges() iter.Seq[*MultiEdge[I, L, K, V]] {
	return g.MultiEdgesFunc(nil)
}

func (g *Graph[I, L, K, V]) MultiEdgesFunc(pred func(*MultiEdge[I, L, K, V]) bool) iter.Seq[*MultiEdge[I, L, K, V]] {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return seq(g.multiEdges.all(), pred)
}

func (g *Graph[I, L, K, V]) NumberOfMultiEdges() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.multiEdges.len()
}

func (g *Graph[I, L, K, V]) NumberOfMultiEdgesFunc(pred func(*MultiEdge[I, L, K, V]) bool) int {
	g.mu.RLock()
	all := g.multiEdges.all()
	g.mu.RUnlock()
	return countSeq(all, pred)
}

// RemoveMultiEdge drops m. Its member edges stay in the graph.
func (g *Graph[I, L, K, V]) RemoveMultiEdge(m *MultiEdge[I, L, K, V]) (bool, error) {
	if m == nil {
		return false, invalidArgument("nil multiedge")
	}
	if m.graph != g {
		return false, own(g, "multiedge", m.id, m.graph, m.State())
	}

	g.writeMu.Lock()
	if m.State() != StateLive || !g.events.RemoveMultiEdge.approve(m) {
		g.writeMu.Unlock()
		return false, nil
	}
	g.mu.Lock()
	g.unlinkMultiEdge(m)
	g.mu.Unlock()
	g.writeMu.Unlock()

	g.events.RemoveMultiEdge.notify(m)
	return true, nil
}

func (g *Graph[I, L, K, V]) RemoveMultiEdgeByID(id I) (bool, error) {
	m, ok := g.TryGetMultiEdgeByID(id)
	if !ok {
		return false, nil
	}
	return g.RemoveMultiEdge(m)
}

func (g *Graph[I, L, K, V]) RemoveMultiEdgesFunc(pred func(*MultiEdge[I, L, K, V]) bool) (int, error) {
	n := 0
	for _, m := range slices.Collect(g.MultiEdgesFunc(pred)) {
		ok, err := g.RemoveMultiEdge(m)
		if err != nil {
			return n, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// unlinkMultiEdge must be called with both locks held.
func (g *Graph[I, L, K, V]) unlinkMultiEdge(m *MultiEdge[I, L, K, V]) {
	for _, eid := range m.edges.ids() {
		if e, ok := g.edges.get(eid); ok {
			e.multi.remove(m.id)
		}
	}
	for _, vid := range append(m.tails.ids(), m.heads.ids()...) {
		if v, ok := g.vertices.get(vid); ok {
			v.multi.remove(m.id)
		}
	}
	g.multiEdges.delete(m)
	m.setState(StateRemoved)
}

func (g *Graph[I, L, K, V]) hasMultiEdge(id I) bool {
	_, ok := g.multiEdges.get(id)
	return ok
}
