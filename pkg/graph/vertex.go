package graph

import (
	"cmp"
	"fmt"
	"iter"
)

// Vertex is a graph element with incoming and outgoing edges. It also knows
// the hyperedges and multiedges it takes part in.
//
// Edge queries come in two shapes: a label form (OutEdges("knows", "likes"))
// where several labels are OR'd and no labels means all edges, and a
// predicate form (OutEdgesFunc). Labels match by equality; a label nothing
// carries matches nothing.
//
// Unfiltered degree queries are O(1). Filtered ones are O(degree).
type Vertex[I, L, K cmp.Ordered, V any] struct {
	element[I, L, K, V]

	graph *Graph[I, L, K, V]

	// guarded by graph.mu
	out   idSet[I]
	in    idSet[I]
	hyper idSet[I]
	multi idSet[I]
}

func newVertex[I, L, K cmp.Ordered, V any](g *Graph[I, L, K, V], id I, label L, init Initializer[K, V]) (*Vertex[I, L, K, V], error) {
	v := &Vertex[I, L, K, V]{
		graph: g,
		out:   newIDSet[I](),
		in:    newIDSet[I](),
		hyper: newIDSet[I](),
		multi: newIDSet[I](),
	}
	if err := v.element.init(id, label, g.opts.Keys, init); err != nil {
		return nil, err
	}
	return v, nil
}

// Graph returns the graph owning v.
func (v *Vertex[I, L, K, V]) Graph() *Graph[I, L, K, V] { return v.graph }

// Equal reports whether other is a vertex with the same id.
func (v *Vertex[I, L, K, V]) Equal(other *Vertex[I, L, K, V]) bool {
	return v != nil && other != nil && v.id == other.id
}

func (v *Vertex[I, L, K, V]) String() string {
	return fmt.Sprintf("Vertex(%v, %v)", v.id, v.label)
}

// OutEdges yields the outgoing edges carrying any of labels.
func (v *Vertex[I, L, K, V]) OutEdges(labels ...L) iter.Seq[*Edge[I, L, K, V]] {
	return seq(v.edgeSet(v.out), labelFilter[*Edge[I, L, K, V]](labels))
}

// OutEdgesFunc yields the outgoing edges accepted by pred.
func (v *Vertex[I, L, K, V]) OutEdgesFunc(pred func(*Edge[I, L, K, V]) bool) iter.Seq[*Edge[I, L, K, V]] {
	return seq(v.edgeSet(v.out), pred)
}

// InEdges yields the incoming edges carrying any of labels.
func (v *Vertex[I, L, K, V]) InEdges(labels ...L) iter.Seq[*Edge[I, L, K, V]] {
	return seq(v.edgeSet(v.in), labelFilter[*Edge[I, L, K, V]](labels))
}

// InEdgesFunc yields the incoming edges accepted by pred.
func (v *Vertex[I, L, K, V]) InEdgesFunc(pred func(*Edge[I, L, K, V]) bool) iter.Seq[*Edge[I, L, K, V]] {
	return seq(v.edgeSet(v.in), pred)
}

// BothEdges yields the outgoing then the incoming edges carrying any of
// labels. A self-loop shows up twice.
func (v *Vertex[I, L, K, V]) BothEdges(labels ...L) iter.Seq[*Edge[I, L, K, V]] {
	return seq(v.bothEdges(), labelFilter[*Edge[I, L, K, V]](labels))
}

// BothEdgesFunc is BothEdges with a predicate.
func (v *Vertex[I, L, K, V]) BothEdgesFunc(pred func(*Edge[I, L, K, V]) bool) iter.Seq[*Edge[I, L, K, V]] {
	return seq(v.bothEdges(), pred)
}

func (v *Vertex[I, L, K, V]) OutDegree(labels ...L) int {
	return v.degree(v.out, labels)
}

func (v *Vertex[I, L, K, V]) OutDegreeFunc(pred func(*Edge[I, L, K, V]) bool) int {
	return countSeq(v.edgeSet(v.out), pred)
}

func (v *Vertex[I, L, K, V]) InDegree(labels ...L) int {
	return v.degree(v.in, labels)
}

func (v *Vertex[I, L, K, V]) InDegreeFunc(pred func(*Edge[I, L, K, V]) bool) int {
	return countSeq(v.edgeSet(v.in), pred)
}

// Degree is OutDegree plus InDegree, so a self-loop counts twice.
func (v *Vertex[I, L, K, V]) Degree(labels ...L) int {
	return v.OutDegree(labels...) + v.InDegree(labels...)
}

func (v *Vertex[I, L, K, V]) DegreeFunc(pred func(*Edge[I, L, K, V]) bool) int {
	return v.OutDegreeFunc(pred) + v.InDegreeFunc(pred)
}

// Out yields the in-vertex of every outgoing edge carrying any of labels.
// Parallel edges yield the same neighbour more than once.
func (v *Vertex[I, L, K, V]) Out(labels ...L) iter.Seq[*Vertex[I, L, K, V]] {
	return v.OutFunc(labelFilter[*Edge[I, L, K, V]](labels))
}

// OutFunc yields the in-vertex of every outgoing edge accepted by pred.
func (v *Vertex[I, L, K, V]) OutFunc(pred func(*Edge[I, L, K, V]) bool) iter.Seq[*Vertex[I, L, K, V]] {
	return v.hop(v.edgeSet(v.out), pred, (*Edge[I, L, K, V]).InVertex)
}

// In yields the out-vertex of every incoming edge carrying any of labels.
func (v *Vertex[I, L, K, V]) In(labels ...L) iter.Seq[*Vertex[I, L, K, V]] {
	return v.InFunc(labelFilter[*Edge[I, L, K, V]](labels))
}

// InFunc yields the out-vertex of every incoming edge accepted by pred.
func (v *Vertex[I, L, K, V]) InFunc(pred func(*Edge[I, L, K, V]) bool) iter.Seq[*Vertex[I, L, K, V]] {
	return v.hop(v.edgeSet(v.in), pred, (*Edge[I, L, K, V]).OutVertex)
}

// Both yields Out followed by In without removing duplicates.
func (v *Vertex[I, L, K, V]) Both(labels ...L) iter.Seq[*Vertex[I, L, K, V]] {
	return v.BothFunc(labelFilter[*Edge[I, L, K, V]](labels))
}

func (v *Vertex[I, L, K, V]) BothFunc(pred func(*Edge[I, L, K, V]) bool) iter.Seq[*Vertex[I, L, K, V]] {
	out, in := v.OutFunc(pred), v.InFunc(pred)
	return func(yield func(*Vertex[I, L, K, V]) bool) {
		for n := range out {
			if !yield(n) {
				return
			}
		}
		for n := range in {
			if !yield(n) {
				return
			}
		}
	}
}

// HyperEdges yields the hyperedges v is the tail or a head of.
func (v *Vertex[I, L, K, V]) HyperEdges() iter.Seq[*HyperEdge[I, L, K, V]] {
	return seq(v.hyperEdges(), nil)
}

// HyperEdgesByLabel yields the incident hyperedges carrying any of labels.
// Like Graph.HyperEdgesByLabel it selects by label, so no labels select
// nothing; the adjacency filters (OutEdges, Edge.MultiEdges) treat no labels
// as no filter instead.
func (v *Vertex[I, L, K, V]) HyperEdgesByLabel(labels ...L) iter.Seq[*HyperEdge[I, L, K, V]] {
	if len(labels) == 0 {
		return seq[*HyperEdge[I, L, K, V]](nil, nil)
	}
	return seq(v.hyperEdges(), labelFilter[*HyperEdge[I, L, K, V]](labels))
}

func (v *Vertex[I, L, K, V]) HyperEdgesFunc(pred func(*HyperEdge[I, L, K, V]) bool) iter.Seq[*HyperEdge[I, L, K, V]] {
	return seq(v.hyperEdges(), pred)
}

// HyperEdgeByID returns the incident hyperedge with id, or nil.
func (v *Vertex[I, L, K, V]) HyperEdgeByID(id I) *HyperEdge[I, L, K, V] {
	v.graph.mu.RLock()
	defer v.graph.mu.RUnlock()
	if !v.hyper.has(id) {
		return nil
	}
	h, _ := v.graph.hyperEdges.get(id)
	return h
}

func (v *Vertex[I, L, K, V]) NumberOfHyperEdges() int {
	v.graph.mu.RLock()
	defer v.graph.mu.RUnlock()
	return v.hyper.len()
}

// MultiEdges yields the multiedges holding v as a tail or head vertex.
func (v *Vertex[I, L, K, V]) MultiEdges() iter.Seq[*MultiEdge[I, L, K, V]] {
	return seq(v.multiEdges(), nil)
}

// MultiEdgesByLabel yields the incident multiedges carrying any of labels.
// No labels select nothing, as for HyperEdgesByLabel.
func (v *Vertex[I, L, K, V]) MultiEdgesByLabel(labels ...L) iter.Seq[*MultiEdge[I, L, K, V]] {
	if len(labels) == 0 {
		return seq[*MultiEdge[I, L, K, V]](nil, nil)
	}
	return seq(v.multiEdges(), labelFilter[*MultiEdge[I, L, K, V]](labels))
}

func (v *Vertex[I, L, K, V]) MultiEdgesFunc(pred func(*MultiEdge[I, L, K, V]) bool) iter.Seq[*MultiEdge[I, L, K, V]] {
	return seq(v.multiEdges(), pred)
}

// MultiEdgeByID returns the incident multiedge with id, or nil.
func (v *Vertex[I, L, K, V]) MultiEdgeByID(id I) *MultiEdge[I, L, K, V] {
	v.graph.mu.RLock()
	defer v.graph.mu.RUnlock()
	if !v.multi.has(id) {
		return nil
	}
	m, _ := v.graph.multiEdges.get(id)
	return m
}

func (v *Vertex[I, L, K, V]) NumberOfMultiEdges() int {
	v.graph.mu.RLock()
	defer v.graph.mu.RUnlock()
	return v.multi.len()
}

func (v *Vertex[I, L, K, V]) degree(set idSet[I], labels []L) int {
	if len(labels) == 0 {
		v.graph.mu.RLock()
		defer v.graph.mu.RUnlock()
		return set.len()
	}
	return countSeq(v.edgeSet(set), labelFilter[*Edge[I, L, K, V]](labels))
}

func (v *Vertex[I, L, K, V]) edgeSet(set idSet[I]) []*Edge[I, L, K, V] {
	v.graph.mu.RLock()
	defer v.graph.mu.RUnlock()
	return v.graph.edges.lookup(set.ids())
}

func (v *Vertex[I, L, K, V]) bothEdges() []*Edge[I, L, K, V] {
	v.graph.mu.RLock()
	defer v.graph.mu.RUnlock()
	return append(v.graph.edges.lookup(v.out.ids()), v.graph.edges.lookup(v.in.ids())...)
}

func (v *Vertex[I, L, K, V]) hyperEdges() []*HyperEdge[I, L, K, V] {
	v.graph.mu.RLock()
	defer v.graph.mu.RUnlock()
	return v.graph.hyperEdges.lookup(v.hyper.ids())
}

func (v *Vertex[I, L, K, V]) multiEdges() []*MultiEdge[I, L, K, V] {
	v.graph.mu.RLock()
	defer v.graph.mu.RUnlock()
	return v.graph.multiEdges.lookup(v.multi.ids())
}

func (v *Vertex[I, L, K, V]) hop(edges []*Edge[I, L, K, V], pred func(*Edge[I, L, K, V]) bool, end func(*Edge[I, L, K, V]) *Vertex[I, L, K, V]) iter.Seq[*Vertex[I, L, K, V]] {
	return func(yield func(*Vertex[I, L, K, V]) bool) {
		for _, e := range edges {
			if pred != nil && !pred(e) {
				continue
			}
			n := end(e)
			if n == nil {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}
