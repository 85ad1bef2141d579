package graph

import (
	"cmp"
	"iter"
	"slices"
)

// AddVertex creates a vertex. A zero id asks the vertex id generator for
// one; a zero label means Options.Labels.Vertex. init may pre-populate
// custom properties.
//
// An existing id fails with ErrDuplicateID. A veto by an AddVertex voter
// returns (nil, nil) and leaves the graph untouched.
func (g *Graph[I, L, K, V]) AddVertex(id I, label L, init Initializer[K, V]) (*Vertex[I, L, K, V], error) {
	return g.addVertex(id, label, init, false)
}

// AddVertexIfNotExists is AddVertex except that an existing id returns the
// existing vertex unchanged.
func (g *Graph[I, L, K, V]) AddVertexIfNotExists(id I, label L, init Initializer[K, V]) (*Vertex[I, L, K, V], error) {
	return g.addVertex(id, label, init, true)
}

func (g *Graph[I, L, K, V]) addVertex(id I, label L, init Initializer[K, V], ifNotExists bool) (*Vertex[I, L, K, V], error) {
	g.writeMu.Lock()

	var zero I
	if id == zero {
		var err error
		id, err = nextID(g.opts.VertexIDs, g.hasVertex)
		if err != nil {
			g.writeMu.Unlock()
			return nil, err
		}
	} else if existing, ok := g.vertices.get(id); ok {
		g.writeMu.Unlock()
		if ifNotExists {
			return existing, nil
		}
		return nil, duplicateID("vertex", id)
	}
	var zl L
	if label == zl {
		label = g.opts.Labels.Vertex
	}

	v, err := newVertex(g, id, label, init)
	if err != nil {
		g.writeMu.Unlock()
		return nil, err
	}
	if !g.events.AddVertex.approve(v) {
		g.writeMu.Unlock()
		return nil, nil
	}

	g.mu.Lock()
	g.vertices.put(v)
	v.setState(StateLive)
	g.mu.Unlock()
	g.events.AddVertex.committed(v)
	g.writeMu.Unlock()

	g.events.AddVertex.notify(v)
	return v, nil
}

// VertexByID returns the vertex with id, or nil.
func (g *Graph[I, L, K, V]) VertexByID(id I) *Vertex[I, L, K, V] {
	v, _ := g.TryGetVertexByID(id)
	return v
}

func (g *Graph[I, L, K, V]) TryGetVertexByID(id I) (*Vertex[I, L, K, V], bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.vertices.get(id)
}

func (g *Graph[I, L, K, V]) HasVertexID(id I) bool {
	_, ok := g.TryGetVertexByID(id)
	return ok
}

// GetVertex is the strict lookup: an unknown id fails with ErrUnknownID.
func (g *Graph[I, L, K, V]) GetVertex(id I) (*Vertex[I, L, K, V], error) {
	if v, ok := g.TryGetVertexByID(id); ok {
		return v, nil
	}
	return nil, unknownID("vertex", id)
}

// VerticesByID yields the vertices for ids in input order. Unknown ids are
// skipped; repeated ids yield the vertex repeatedly.
func (g *Graph[I, L, K, V]) VerticesByID(ids ...I) iter.Seq[*Vertex[I, L, K, V]] {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return seq(g.vertices.lookup(ids), nil)
}

// VerticesByLabel yields the vertices carrying any of labels in insertion
// order. No labels yields nothing.
func (g *Graph[I, L, K, V]) VerticesByLabel(labels ...L) iter.Seq[*Vertex[I, L, K, V]] {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return seq(g.vertices.withLabels(labels), nil)
}

// Vertices yields every vertex in insertion order.
func (g *Graph[I, L, K, V]) Vertices() iter.Seq[*Vertex[I, L, K, V]] {
	return g.VerticesFunc(nil)
}

// VerticesFunc yields the vertices accepted by pred.
func (g *Graph[I, L, K, V]) VerticesFunc(pred func(*Vertex[I, L, K, V]) bool) iter.Seq[*Vertex[I, L, K, V]] {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return seq(g.vertices.all(), pred)
}

// NumberOfVertices is O(1).
func (g *Graph[I, L, K, V]) NumberOfVertices() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.vertices.len()
}

func (g *Graph[I, L, K, V]) NumberOfVerticesByLabel(labels ...L) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.vertices.countLabels(labels)
}

func (g *Graph[I, L, K, V]) NumberOfVerticesFunc(pred func(*Vertex[I, L, K, V]) bool) int {
	g.mu.RLock()
	all := g.vertices.all()
	g.mu.RUnlock()
	return countSeq(all, pred)
}

// RemoveVertex removes v together with its incident edges, hyperedges and
// multiedges.
//
// Removal is all or nothing: every element of the cascade is voted on first
// (edges, hyperedges, multiedges, then v), and a single veto keeps the whole
// graph unchanged and returns false. Observers are told bottom-up in the same
// order. Removing a vertex that is already gone returns false.
//
// Each distinct incident edge is removed and reported once. A self-loop
// counts twice in Degree but is removed once, so the number of removed edges
// is Degree minus the number of self-loops.
func (g *Graph[I, L, K, V]) RemoveVertex(v *Vertex[I, L, K, V]) (bool, error) {
	if v == nil {
		return false, invalidArgument("nil vertex")
	}
	if v.graph != g {
		return false, own(g, "vertex", v.id, v.graph, v.State())
	}

	g.writeMu.Lock()
	if v.State() != StateLive {
		g.writeMu.Unlock()
		return false, nil
	}

	edges := g.edges.lookup(append(v.out.ids(), v.in.ids()...))
	edges = uniqueByID(edges)
	hypers := g.hyperEdges.lookup(v.hyper.ids())
	multis := g.multiEdges.lookup(v.multi.ids())

	for _, e := range edges {
		if !g.events.RemoveEdge.approve(e) {
			g.writeMu.Unlock()
			return false, nil
		}
	}
	for _, h := range hypers {
		if !g.events.RemoveHyperEdge.approve(h) {
			g.writeMu.Unlock()
			return false, nil
		}
	}
	for _, m := range multis {
		if !g.events.RemoveMultiEdge.approve(m) {
			g.writeMu.Unlock()
			return false, nil
		}
	}
	if !g.events.RemoveVertex.approve(v) {
		g.writeMu.Unlock()
		return false, nil
	}

	g.mu.Lock()
	for _, e := range edges {
		g.unlinkEdge(e)
	}
	for _, h := range hypers {
		g.unlinkHyperEdge(h)
	}
	for _, m := range multis {
		g.unlinkMultiEdge(m)
	}
	g.vertices.delete(v)
	v.setState(StateRemoved)
	g.mu.Unlock()
	g.writeMu.Unlock()

	for _, e := range edges {
		g.events.RemoveEdge.notify(e)
	}
	for _, h := range hypers {
		g.events.RemoveHyperEdge.notify(h)
	}
	for _, m := range multis {
		g.events.RemoveMultiEdge.notify(m)
	}
	g.events.RemoveVertex.notify(v)
	return true, nil
}

// RemoveVertexByID removes the vertex with id, if any.
func (g *Graph[I, L, K, V]) RemoveVertexByID(id I) (bool, error) {
	v, ok := g.TryGetVertexByID(id)
	if !ok {
		return false, nil
	}
	return g.RemoveVertex(v)
}

// RemoveVerticesFunc removes every vertex accepted by pred, a nil pred
// accepting all. The candidates are snapshotted before the first removal.
func (g *Graph[I, L, K, V]) RemoveVerticesFunc(pred func(*Vertex[I, L, K, V]) bool) (int, error) {
	n := 0
	for _, v := range slices.Collect(g.VerticesFunc(pred)) {
		ok, err := g.RemoveVertex(v)
		if err != nil {
			return n, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

func (g *Graph[I, L, K, V]) hasVertex(id I) bool {
	_, ok := g.vertices.get(id)
	return ok
}

// VertexIDs collects the ids of vs.
func VertexIDs[I, L, K cmp.Ordered, V any](vs iter.Seq[*Vertex[I, L, K, V]]) []I {
	var ids []I
	for v := range vs {
		ids = append(ids, v.ID())
	}
	return ids
}
