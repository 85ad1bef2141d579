package graph

import (
	"cmp"
	"fmt"
	"iter"
)

// MultiEdge groups edges under one logical relation. Besides its member
// edges it keeps a set of tail vertices and a set of head vertices. Adding
// an edge adds its endpoints to those sets; removing an edge leaves them
// alone. All membership operations are idempotent.
type MultiEdge[I, L, K cmp.Ordered, V any] struct {
	element[I, L, K, V]

	graph *Graph[I, L, K, V]

	// guarded by graph.mu
	edges idSet[I]
	tails idSet[I]
	heads idSet[I]
}

func newMultiEdge[I, L, K cmp.Ordered, V any](g *Graph[I, L, K, V], id I, label L, init Initializer[K, V]) (*MultiEdge[I, L, K, V], error) {
	m := &MultiEdge[I, L, K, V]{
		graph: g,
		edges: newIDSet[I](),
		tails: newIDSet[I](),
		heads: newIDSet[I](),
	}
	if err := m.element.init(id, label, g.opts.Keys, init); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MultiEdge[I, L, K, V]) Graph() *Graph[I, L, K, V] { return m.graph }

// Equal reports whether other is a multiedge with the same id.
func (m *MultiEdge[I, L, K, V]) Equal(other *MultiEdge[I, L, K, V]) bool {
	return m != nil && other != nil && m.id == other.id
}

func (m *MultiEdge[I, L, K, V]) String() string {
	return fmt.Sprintf("MultiEdge(%v, %v)", m.id, m.label)
}

// Edges yields the member edges carrying any of labels.
func (m *MultiEdge[I, L, K, V]) Edges(labels ...L) iter.Seq[*Edge[I, L, K, V]] {
	return seq(m.memberEdges(), labelFilter[*Edge[I, L, K, V]](labels))
}

func (m *MultiEdge[I, L, K, V]) EdgesFunc(pred func(*Edge[I, L, K, V]) bool) iter.Seq[*Edge[I, L, K, V]] {
	return seq(m.memberEdges(), pred)
}

func (m *MultiEdge[I, L, K, V]) NumberOfEdges() int {
	m.graph.mu.RLock()
	defer m.graph.mu.RUnlock()
	return m.edges.len()
}

func (m *MultiEdge[I, L, K, V]) HasEdge(e *Edge[I, L, K, V]) bool {
	if e == nil || e.graph != m.graph {
		return false
	}
	m.graph.mu.RLock()
	defer m.graph.mu.RUnlock()
	return m.edges.has(e.id)
}

func (m *MultiEdge[I, L, K, V]) TailVertices() iter.Seq[*Vertex[I, L, K, V]] {
	return seq(m.vertices(m.tails), nil)
}

func (m *MultiEdge[I, L, K, V]) HeadVertices() iter.Seq[*Vertex[I, L, K, V]] {
	return seq(m.vertices(m.heads), nil)
}

func (m *MultiEdge[I, L, K, V]) NumberOfTailVertices() int {
	m.graph.mu.RLock()
	defer m.graph.mu.RUnlock()
	return m.tails.len()
}

func (m *MultiEdge[I, L, K, V]) NumberOfHeadVertices() int {
	m.graph.mu.RLock()
	defer m.graph.mu.RUnlock()
	return m.heads.len()
}

// AddEdges adds edges as members and unions their endpoints into the tail
// and head sets. It returns the number of edges that were not members yet.
func (m *MultiEdge[I, L, K, V]) AddEdges(edges ...*Edge[I, L, K, V]) (int, error) {
	g := m.graph
	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	if err := m.checkEdges(edges); err != nil {
		return 0, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	added := 0
	for _, e := range edges {
		if g.linkMultiEdge(m, e) {
			added++
		}
	}
	return added, nil
}

// RemoveEdges drops edges from the members. Tail and head sets are kept.
func (m *MultiEdge[I, L, K, V]) RemoveEdges(edges ...*Edge[I, L, K, V]) (int, error) {
	g := m.graph
	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	if err := m.checkEdges(edges); err != nil {
		return 0, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	removed := 0
	for _, e := range edges {
		if m.edges.remove(e.id) {
			e.multi.remove(m.id)
			removed++
		}
	}
	return removed, nil
}

func (m *MultiEdge[I, L, K, V]) AddTailVertices(vertices ...*Vertex[I, L, K, V]) (int, error) {
	return m.changeVertices(m.tails, vertices, true)
}

func (m *MultiEdge[I, L, K, V]) AddHeadVertices(vertices ...*Vertex[I, L, K, V]) (int, error) {
	return m.changeVertices(m.heads, vertices, true)
}

func (m *MultiEdge[I, L, K, V]) RemoveTailVertices(vertices ...*Vertex[I, L, K, V]) (int, error) {
	return m.changeVertices(m.tails, vertices, false)
}

func (m *MultiEdge[I, L, K, V]) RemoveHeadVertices(vertices ...*Vertex[I, L, K, V]) (int, error) {
	return m.changeVertices(m.heads, vertices, false)
}

func (m *MultiEdge[I, L, K, V]) changeVertices(set idSet[I], vertices []*Vertex[I, L, K, V], add bool) (int, error) {
	g := m.graph
	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	if err := own(g, "multiedge", m.id, m.graph, m.State()); err != nil {
		return 0, err
	}
	for _, v := range vertices {
		if v == nil {
			return 0, invalidArgument("nil vertex")
		}
		if err := own(g, "vertex", v.id, v.graph, v.State()); err != nil {
			return 0, err
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, v := range vertices {
		if add {
			if set.add(v.id) {
				v.multi.add(m.id)
				n++
			}
			continue
		}
		if set.remove(v.id) {
			if !m.tails.has(v.id) && !m.heads.has(v.id) {
				v.multi.remove(m.id)
			}
			n++
		}
	}
	return n, nil
}

func (m *MultiEdge[I, L, K, V]) checkEdges(edges []*Edge[I, L, K, V]) error {
	if err := own(m.graph, "multiedge", m.id, m.graph, m.State()); err != nil {
		return err
	}
	for _, e := range edges {
		if e == nil {
			return invalidArgument("nil edge")
		}
		if err := own(m.graph, "edge", e.id, e.graph, e.State()); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiEdge[I, L, K, V]) memberEdges() []*Edge[I, L, K, V] {
	m.graph.mu.RLock()
	defer m.graph.mu.RUnlock()
	return m.graph.edges.lookup(m.edges.ids())
}

func (m *MultiEdge[I, L, K, V]) vertices(set idSet[I]) []*Vertex[I, L, K, V] {
	m.graph.mu.RLock()
	defer m.graph.mu.RUnlock()
	return m.graph.vertices.lookup(set.ids())
}
