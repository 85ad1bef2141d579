package graph

import (
	"cmp"
	"fmt"
	"iter"
)

// Edge is a directed, labeled connection from an out-vertex to an in-vertex.
// The endpoints are fixed at construction; self-loops are allowed.
type Edge[I, L, K cmp.Ordered, V any] struct {
	element[I, L, K, V]

	graph *Graph[I, L, K, V]
	outID I
	inID  I

	// guarded by graph.mu
	multi idSet[I]
}

func newEdge[I, L, K cmp.Ordered, V any](g *Graph[I, L, K, V], id I, out *Vertex[I, L, K, V], label L, in *Vertex[I, L, K, V], init Initializer[K, V]) (*Edge[I, L, K, V], error) {
	e := &Edge[I, L, K, V]{
		graph: g,
		outID: out.id,
		inID:  in.id,
		multi: newIDSet[I](),
	}
	if err := e.element.init(id, label, g.opts.Keys, init); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Edge[I, L, K, V]) Graph() *Graph[I, L, K, V] { return e.graph }

func (e *Edge[I, L, K, V]) OutVertexID() I { return e.outID }

func (e *Edge[I, L, K, V]) InVertexID() I { return e.inID }

// OutVertex returns the tail of e, or nil once that vertex left the graph.
func (e *Edge[I, L, K, V]) OutVertex() *Vertex[I, L, K, V] {
	return e.graph.VertexByID(e.outID)
}

// InVertex returns the head of e, or nil once that vertex left the graph.
func (e *Edge[I, L, K, V]) InVertex() *Vertex[I, L, K, V] {
	return e.graph.VertexByID(e.inID)
}

func (e *Edge[I, L, K, V]) IsSelfLoop() bool { return e.outID == e.inID }

// Equal reports whether other is an edge with the same id.
func (e *Edge[I, L, K, V]) Equal(other *Edge[I, L, K, V]) bool {
	return e != nil && other != nil && e.id == other.id
}

func (e *Edge[I, L, K, V]) String() string {
	return fmt.Sprintf("Edge(%v, %v: %v -> %v)", e.id, e.label, e.outID, e.inID)
}

// MultiEdges yields the multiedges e is a member of, filtered by labels.
func (e *Edge[I, L, K, V]) MultiEdges(labels ...L) iter.Seq[*MultiEdge[I, L, K, V]] {
	return seq(e.multiEdges(), labelFilter[*MultiEdge[I, L, K, V]](labels))
}

func (e *Edge[I, L, K, V]) MultiEdgesFunc(pred func(*MultiEdge[I, L, K, V]) bool) iter.Seq[*MultiEdge[I, L, K, V]] {
	return seq(e.multiEdges(), pred)
}

func (e *Edge[I, L, K, V]) NumberOfMultiEdges() int {
	e.graph.mu.RLock()
	defer e.graph.mu.RUnlock()
	return e.multi.len()
}

// AddMultiEdge makes e a member of me. It reports false when e already was
// one.
func (e *Edge[I, L, K, V]) AddMultiEdge(me *MultiEdge[I, L, K, V]) (bool, error) {
	if me == nil {
		return false, invalidArgument("nil multiedge")
	}
	n, err := me.AddEdges(e)
	return n == 1, err
}

// RemoveMultiEdges drops e from each of mes and returns how many memberships
// it left.
func (e *Edge[I, L, K, V]) RemoveMultiEdges(mes ...*MultiEdge[I, L, K, V]) (int, error) {
	removed := 0
	for _, me := range mes {
		if me == nil {
			return removed, invalidArgument("nil multiedge")
		}
		n, err := me.RemoveEdges(e)
		removed += n
		if err != nil {
			return removed, err
		}
	}
	return removed, nil
}

func (e *Edge[I, L, K, V]) multiEdges() []*MultiEdge[I, L, K, V] {
	e.graph.mu.RLock()
	defer e.graph.mu.RUnlock()
	return e.graph.multiEdges.lookup(e.multi.ids())
}
