package graph

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
)

// HyperEdge connects one tail vertex to a set of head vertices. The head set
// has no duplicates and may contain the tail. Both are fixed at construction.
type HyperEdge[I, L, K cmp.Ordered, V any] struct {
	element[I, L, K, V]

	graph *Graph[I, L, K, V]
	outID I
	inIDs []I
}

func newHyperEdge[I, L, K cmp.Ordered, V any](g *Graph[I, L, K, V], id I, out *Vertex[I, L, K, V], label L, ins []*Vertex[I, L, K, V], init Initializer[K, V]) (*HyperEdge[I, L, K, V], error) {
	h := &HyperEdge[I, L, K, V]{graph: g, outID: out.id}
	seen := make(map[I]struct{}, len(ins))
	for _, v := range ins {
		if _, dup := seen[v.id]; dup {
			continue
		}
		seen[v.id] = struct{}{}
		h.inIDs = append(h.inIDs, v.id)
	}
	if err := h.element.init(id, label, g.opts.Keys, init); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *HyperEdge[I, L, K, V]) Graph() *Graph[I, L, K, V] { return h.graph }

func (h *HyperEdge[I, L, K, V]) OutVertexID() I { return h.outID }

func (h *HyperEdge[I, L, K, V]) OutVertex() *Vertex[I, L, K, V] {
	return h.graph.VertexByID(h.outID)
}

// InVertexIDs returns a copy of the head ids.
func (h *HyperEdge[I, L, K, V]) InVertexIDs() []I { return slices.Clone(h.inIDs) }

// InVertices yields the head vertices still present in the graph.
func (h *HyperEdge[I, L, K, V]) InVertices() iter.Seq[*Vertex[I, L, K, V]] {
	return h.graph.VerticesByID(h.inIDs...)
}

func (h *HyperEdge[I, L, K, V]) NumberOfInVertices() int { return len(h.inIDs) }

func (h *HyperEdge[I, L, K, V]) HasInVertex(v *Vertex[I, L, K, V]) bool {
	return v != nil && v.graph == h.graph && slices.Contains(h.inIDs, v.id)
}

// Equal reports whether other is a hyperedge with the same id.
func (h *HyperEdge[I, L, K, V]) Equal(other *HyperEdge[I, L, K, V]) bool {
	return h != nil && other != nil && h.id == other.id
}

func (h *HyperEdge[I, L, K, V]) String() string {
	return fmt.Sprintf("HyperEdge(%v, %v: %v -> %v)", h.id, h.label, h.outID, h.inIDs)
}
