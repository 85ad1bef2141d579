package graph

import (
	"cmp"
	"iter"
	"slices"
)

// AddEdge creates an edge from out to in. A zero id asks the edge id
// generator for one; a zero label means Options.Labels.Edge.
//
// Both endpoints must be live vertices of g. An existing id fails with
// ErrDuplicateID. A veto returns (nil, nil).
func (g *Graph[I, L, K, V]) AddEdge(id I, out *Vertex[I, L, K, V], label L, in *Vertex[I, L, K, V], init Initializer[K, V]) (*Edge[I, L, K, V], error) {
	return g.addEdge(id, out, label, in, init, false)
}

// AddEdgeIfNotExists is AddEdge except that an existing id returns the
// existing edge unchanged, whatever its endpoints.
func (g *Graph[I, L, K, V]) AddEdgeIfNotExists(id I, out *Vertex[I, L, K, V], label L, in *Vertex[I, L, K, V], init Initializer[K, V]) (*Edge[I, L, K, V], error) {
	return g.addEdge(id, out, label, in, init, true)
}

func (g *Graph[I, L, K, V]) addEdge(id I, out *Vertex[I, L, K, V], label L, in *Vertex[I, L, K, V], init Initializer[K, V], ifNotExists bool) (*Edge[I, L, K, V], error) {
	if out == nil || in == nil {
		return nil, invalidArgument("edge endpoints must not be nil")
	}

	g.writeMu.Lock()
	if err := g.checkEndpoints(out, in); err != nil {
		g.writeMu.Unlock()
		return nil, err
	}

	var zero I
	if id == zero {
		var err error
		id, err = nextID(g.opts.EdgeIDs, g.hasEdge)
		if err != nil {
			g.writeMu.Unlock()
			return nil, err
		}
	} else if existing, ok := g.edges.get(id); ok {
		g.writeMu.Unlock()
		if ifNotExists {
			return existing, nil
		}
		return nil, duplicateID("edge", id)
	}
	var zl L
	if label == zl {
		label = g.opts.Labels.Edge
	}

	e, err := newEdge(g, id, out, label, in, init)
	if err != nil {
		g.writeMu.Unlock()
		return nil, err
	}
	if !g.events.AddEdge.approve(e) {
		g.writeMu.Unlock()
		return nil, nil
	}

	g.mu.Lock()
	g.edges.put(e)
	out.out.add(id)
	in.in.add(id)
	e.setState(StateLive)
	g.mu.Unlock()
	g.events.AddEdge.committed(e)
	g.writeMu.Unlock()

	g.events.AddEdge.notify(e)
	return e, nil
}

func (g *Graph[I, L, K, V]) checkEndpoints(out, in *Vertex[I, L, K, V]) error {
	if err := own(g, "vertex", out.id, out.graph, out.State()); err != nil {
		return err
	}
	return own(g, "vertex", in.id, in.graph, in.State())
}

func (g *Graph[I, L, K, V]) EdgeByID(id I) *Edge[I, L, K, V] {
	e, _ := g.TryGetEdgeByID(id)
	return e
}

func (g *Graph[I, L, K, V]) TryGetEdgeByID(id I) (*Edge[I, L, K, V], bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges.get(id)
}

func (g *Graph[I, L, K, V]) HasEdgeID(id I) bool {
	_, ok := g.TryGetEdgeByID(id)
	return ok
}

// GetEdge is the strict lookup: an unknown id fails with ErrUnknownID.
func (g *Graph[I, L, K, V]) GetEdge(id I) (*Edge[I, L, K, V], error) {
	if e, ok := g.TryGetEdgeByID(id); ok {
		return e, nil
	}
	return nil, unknownID("edge", id)
}

// EdgesByID yields the edges for ids in input order, skipping unknown ids.
func (g *Graph[I, L, K, V]) EdgesByID(ids ...I) iter.Seq[*Edge[I, L, K, V]] {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return seq(g.edges.lookup(ids), nil)
}

func (g *Graph[I, L, K, V]) EdgesByLabel(labels ...L) iter.Seq[*Edge[I, L, K, V]] {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return seq(g.edges.withLabels(labels), nil)
}

func (g *Graph[I, L, K, V]) Edges() iter.Seq[*Edge[I, L, K, V]] {
	return g.EdgesFunc(nil)
}

func (g *Graph[I, L, K, V]) EdgesFunc(pred func(*Edge[I, L, K, V]) bool) iter.Seq[*Edge[I, L, K, V]] {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return seq(g.edges.all(), pred)
}

// NumberOfEdges is O(1).
func (g *Graph[I, L, K, V]) NumberOfEdges() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges.len()
}

func (g *Graph[I, L, K, V]) NumberOfEdgesByLabel(labels ...L) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges.countLabels(labels)
}

func (g *Graph[I, L, K, V]) NumberOfEdgesFunc(pred func(*Edge[I, L, K, V]) bool) int {
	g.mu.RLock()
	all := g.edges.all()
	g.mu.RUnlock()
	return countSeq(all, pred)
}

// RemoveEdge detaches e from its endpoints and multiedges and drops it. A
// veto or an edge that is already gone returns false.
func (g *Graph[I, L, K, V]) RemoveEdge(e *Edge[I, L, K, V]) (bool, error) {
	if e == nil {
		return false, invalidArgument("nil edge")
	}
	if e.graph != g {
		return false, own(g, "edge", e.id, e.graph, e.State())
	}

	g.writeMu.Lock()
	if e.State() != StateLive || !g.events.RemoveEdge.approve(e) {
		g.writeMu.Unlock()
		return false, nil
	}
	g.mu.Lock()
	g.unlinkEdge(e)
	g.mu.Unlock()
	g.writeMu.Unlock()

	g.events.RemoveEdge.notify(e)
	return true, nil
}

func (g *Graph[I, L, K, V]) RemoveEdgeByID(id I) (bool, error) {
	e, ok := g.TryGetEdgeByID(id)
	if !ok {
		return false, nil
	}
	return g.RemoveEdge(e)
}

// RemoveEdgesFunc removes every edge accepted by pred, a nil pred accepting
// all.
func (g *Graph[I, L, K, V]) RemoveEdgesFunc(pred func(*Edge[I, L, K, V]) bool) (int, error) {
	n := 0
	for _, e := range slices.Collect(g.EdgesFunc(pred)) {
		ok, err := g.RemoveEdge(e)
		if err != nil {
			return n, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// unlinkEdge must be called with both locks held.
func (g *Graph[I, L, K, V]) unlinkEdge(e *Edge[I, L, K, V]) {
	if out, ok := g.vertices.get(e.outID); ok {
		out.out.remove(e.id)
	}
	if in, ok := g.vertices.get(e.inID); ok {
		in.in.remove(e.id)
	}
	for _, mid := range e.multi.ids() {
		if m, ok := g.multiEdges.get(mid); ok {
			m.edges.remove(e.id)
		}
		e.multi.remove(mid)
	}
	g.edges.delete(e)
	e.setState(StateRemoved)
}

func (g *Graph[I, L, K, V]) hasEdge(id I) bool {
	_, ok := g.edges.get(id)
	return ok
}

// uniqueByID drops repeated edges, which self-loops produce when out and in
// sets are concatenated.
func uniqueByID[I, L, K cmp.Ordered, V any](edges []*Edge[I, L, K, V]) []*Edge[I, L, K, V] {
	seen := make(map[I]struct{}, len(edges))
	out := edges[:0]
	for _, e := range edges {
		if _, dup := seen[e.id]; dup {
			continue
		}
		seen[e.id] = struct{}{}
		out = append(out, e)
	}
	return out
}

// EdgeIDs collects the ids of es.
func EdgeIDs[I, L, K cmp.Ordered, V any](es iter.Seq[*Edge[I, L, K, V]]) []I {
	var ids []I
	for e := range es {
		ids = append(ids, e.ID())
	}
	return ids
}
