package graph

import (
	"iter"
	"slices"
)

// AddHyperEdge creates a hyperedge from out to every vertex of ins.
// Repeated head vertices are collapsed; out may also be a head. A zero id
// asks the hyperedge id generator for one; a zero label means
// Options.Labels.HyperEdge. A veto returns (nil, nil).
func (g *Graph[I, L, K, V]) AddHyperEdge(id I, out *Vertex[I, L, K, V], label L, ins []*Vertex[I, L, K, V], init Initializer[K, V]) (*HyperEdge[I, L, K, V], error) {
	return g.addHyperEdge(id, out, label, ins, init, false)
}

// AddHyperEdgeIfNotExists is AddHyperEdge except that an existing id returns
// the existing hyperedge unchanged.
func (g *Graph[I, L, K, V]) AddHyperEdgeIfNotExists(id I, out *Vertex[I, L, K, V], label L, ins []*Vertex[I, L, K, V], init Initializer[K, V]) (*HyperEdge[I, L, K, V], error) {
	return g.addHyperEdge(id, out, label, ins, init, true)
}

func (g *Graph[I, L, K, V]) addHyperEdge(id I, out *Vertex[I, L, K, V], label L, ins []*Vertex[I, L, K, V], init Initializer[K, V], ifNotExists bool) (*HyperEdge[I, L, K, V], error) {
	if out == nil {
		return nil, invalidArgument("hyperedge tail must not be nil")
	}
	if slices.Contains(ins, nil) {
		return nil, invalidArgument("hyperedge heads must not be nil")
	}

	g.writeMu.Lock()
	for _, v := range append([]*Vertex[I, L, K, V]{out}, ins...) {
		if err := own(g, "vertex", v.id, v.graph, v.State()); err != nil {
			g.writeMu.Unlock()
			return nil, err
		}
	}

	var zero I
	if id == zero {
		var err error
		id, err = nextID(g.opts.HyperEdgeIDs, g.hasHyperEdge)
		if err != nil {
			g.writeMu.Unlock()
			return nil, err
		}
	} else if existing, ok := g.hyperEdges.get(id); ok {
		g.writeMu.Unlock()
		if ifNotExists {
			return existing, nil
		}
		return nil, duplicateID("hyperedge", id)
	}
	var zl L
	if label == zl {
		label = g.opts.Labels.HyperEdge
	}

	h, err := newHyperEdge(g, id, out, label, ins, init)
	if err != nil {
		g.writeMu.Unlock()
		return nil, err
	}
	if !g.events.AddHyperEdge.approve(h) {
		g.writeMu.Unlock()
		return nil, nil
	}

	g.mu.Lock()
	g.hyperEdges.put(h)
	out.hyper.add(id)
	for _, vid := range h.inIDs {
		if v, ok := g.vertices.get(vid); ok {
			v.hyper.add(id)
		}
	}
	h.setState(StateLive)
	g.mu.Unlock()
	g.writeMu.Unlock()

	g.events.AddHyperEdge.notify(h)
	return h, nil
}

func (g *Graph[I, L, K, V]) HyperEdgeByID(id I) *HyperEdge[I, L, K, V] {
	h, _ := g.TryGetHyperEdgeByID(id)
	return h
}

func (g *Graph[I, L, K, V]) TryGetHyperEdgeByID(id I) (*HyperEdge[I, L, K, V], bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.hyperEdges.get(id)
}

func (g *Graph[I, L, K, V]) HasHyperEdgeID(id I) bool {
	_, ok := g.TryGetHyperEdgeByID(id)
	return ok
}

// GetHyperEdge is the strict lookup: an unknown id fails with ErrUnknownID.
func (g *Graph[I, L, K, V]) GetHyperEdge(id I) (*HyperEdge[I, L, K, V], error) {
	if h, ok := g.TryGetHyperEdgeByID(id); ok {
		return h, nil
	}
	return nil, unknownID("hyperedge", id)
}

func (g *Graph[I, L, K, V]) HyperEdgesByID(ids ...I) iter.Seq[*HyperEdge[I, L, K, V]] {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return seq(g.hyperEdges.lookup(ids), nil)
}

func (g *Graph[I, L, K, V]) HyperEdgesByLabel(labels ...L) iter.Seq[*HyperEdge[I, L, K, V]] {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return seq(g.hyperEdges.withLabels(labels), nil)
}

func (g *Graph[I, L, K, V]) HyperEdges() iter.Seq[*HyperEdge[I, L, K, V]] {
	return g.HyperEdgesFunc(nil)
}

func (g *Graph[I, L, K, V]) HyperEdgesFunc(pred func(*HyperEdge[I, L, K, V]) bool) iter.Seq[*HyperEdge[I, L, K, V]] {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return seq(g.hyperEdges.all(), pred)
}

func (g *Graph[I, L, K, V]) NumberOfHyperEdges() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.hyperEdges.len()
}

func (g *Graph[I, L, K, V]) NumberOfHyperEdgesFunc(pred func(*HyperEdge[I, L, K, V]) bool) int {
	g.mu.RLock()
	all := g.hyperEdges.all()
	g.mu.RUnlock()
	return countSeq(all, pred)
}

// RemoveHyperEdge detaches h from its vertices and drops it.
func (g *Graph[I, L, K, V]) RemoveHyperEdge(h *HyperEdge[I, L, K, V]) (bool, error) {
	if h == nil {
		return false, invalidArgument("nil hyperedge")
	}
	if h.graph != g {
		return false, own(g, "hyperedge", h.id, h.graph, h.State())
	}

	g.writeMu.Lock()
	if h.State() != StateLive || !g.events.RemoveHyperEdge.approve(h) {
		g.writeMu.Unlock()
		return false, nil
	}
	g.mu.Lock()
	g.unlinkHyperEdge(h)
	g.mu.Unlock()
	g.writeMu.Unlock()

	g.events.RemoveHyperEdge.notify(h)
	return true, nil
}

func (g *Graph[I, L, K, V]) RemoveHyperEdgeByID(id I) (bool, error) {
	h, ok := g.TryGetHyperEdgeByID(id)
	if !ok {
		return false, nil
	}
	return g.RemoveHyperEdge(h)
}

func (g *Graph[I, L, K, V]) RemoveHyperEdgesFunc(pred func(*HyperEdge[I, L, K, V]) bool) (int, error) {
	n := 0
	for _, h := range slices.Collect(g.HyperEdgesFunc(pred)) {
		ok, err := g.RemoveHyperEdge(h)
		if err != nil {
			return n, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// unlinkHyperEdge must be called with both locks held.
func (g *Graph[I, L, K, V]) unlinkHyperEdge(h *HyperEdge[I, L, K, V]) {
	for _, vid := range append([]I{h.outID}, h.inIDs...) {
		if v, ok := g.vertices.get(vid); ok {
			v.hyper.remove(h.id)
		}
	}
	g.hyperEdges.delete(h)
	h.setState(StateRemoved)
}

func (g *Graph[I, L, K, V]) hasHyperEdge(id I) bool {
	_, ok := g.hyperEdges.get(id)
	return ok
}
