// Package traversal provides read-only queries over one or more graphs:
// flattening vertices and edges across graphs, direction-aware neighbour
// queries, breadth- and depth-first walks and unweighted shortest paths.
//
// Nothing here mutates a graph. The functions are safe to call from many
// goroutines; each graph call sees a consistent snapshot, but a walk that
// runs while a writer mutates the graph may see the graph change between
// steps.
//
// Example:
//
//	// every person across two graphs
//	for v := range traversal.VerticesByLabel([]string{"person"}, g1, g2) {
//		fmt.Println(v.ID())
//	}
//
//	// friends of friends, two hops out
//	traversal.BFS(alice, traversal.Options[string, string, string, any]{
//		Direction: traversal.DirectionOutgoing,
//		Labels:    []string{"knows"},
//		MaxDepth:  2,
//	}, func(s traversal.Step[string, string, string, any]) bool {
//		fmt.Println(s.Depth, s.Vertex.ID())
//		return true
//	})
package traversal

import (
	"cmp"
	"fmt"
	"iter"
	"strings"

	"github.com/orneryd/propgraph/pkg/graph"
)

// Direction selects which incident edges a query follows.
type Direction int

const (
	DirectionBoth Direction = iota
	DirectionOutgoing
	DirectionIncoming
)

func (d Direction) String() string {
	switch d {
	case DirectionBoth:
		return "both"
	case DirectionOutgoing:
		return "out"
	case DirectionIncoming:
		return "in"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection accepts "both", "out"/"outgoing" and "in"/"incoming",
// ignoring case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "both", "":
		return DirectionBoth, nil
	case "out", "outgoing":
		return DirectionOutgoing, nil
	case "in", "incoming":
		return DirectionIncoming, nil
	}
	return DirectionBoth, fmt.Errorf("%w: unknown direction %q", graph.ErrInvalidArgument, s)
}

// Vertices yields the vertices of every graph in turn.
func Vertices[I, L, K cmp.Ordered, V any](graphs ...*graph.Graph[I, L, K, V]) iter.Seq[*graph.Vertex[I, L, K, V]] {
	return VerticesFunc(nil, graphs...)
}

// VerticesFunc yields the vertices accepted by pred across graphs. A nil
// pred accepts all.
func VerticesFunc[I, L, K cmp.Ordered, V any](pred func(*graph.Vertex[I, L, K, V]) bool, graphs ...*graph.Graph[I, L, K, V]) iter.Seq[*graph.Vertex[I, L, K, V]] {
	return flatten(graphs, func(g *graph.Graph[I, L, K, V]) iter.Seq[*graph.Vertex[I, L, K, V]] {
		return g.VerticesFunc(pred)
	})
}

// VerticesByLabel yields the vertices carrying any of labels across graphs.
func VerticesByLabel[I, L, K cmp.Ordered, V any](labels []L, graphs ...*graph.Graph[I, L, K, V]) iter.Seq[*graph.Vertex[I, L, K, V]] {
	return flatten(graphs, func(g *graph.Graph[I, L, K, V]) iter.Seq[*graph.Vertex[I, L, K, V]] {
		return g.VerticesByLabel(labels...)
	})
}

// Edges yields the edges of every graph in turn.
func Edges[I, L, K cmp.Ordered, V any](graphs ...*graph.Graph[I, L, K, V]) iter.Seq[*graph.Edge[I, L, K, V]] {
	return EdgesFunc(nil, graphs...)
}

func EdgesFunc[I, L, K cmp.Ordered, V any](pred func(*graph.Edge[I, L, K, V]) bool, graphs ...*graph.Graph[I, L, K, V]) iter.Seq[*graph.Edge[I, L, K, V]] {
	return flatten(graphs, func(g *graph.Graph[I, L, K, V]) iter.Seq[*graph.Edge[I, L, K, V]] {
		return g.EdgesFunc(pred)
	})
}

func EdgesByLabel[I, L, K cmp.Ordered, V any](labels []L, graphs ...*graph.Graph[I, L, K, V]) iter.Seq[*graph.Edge[I, L, K, V]] {
	return flatten(graphs, func(g *graph.Graph[I, L, K, V]) iter.Seq[*graph.Edge[I, L, K, V]] {
		return g.EdgesByLabel(labels...)
	})
}

// CountVertices sums the vertex counts of graphs in O(len(graphs)).
func CountVertices[I, L, K cmp.Ordered, V any](graphs ...*graph.Graph[I, L, K, V]) int {
	n := 0
	for _, g := range graphs {
		if g != nil {
			n += g.NumberOfVertices()
		}
	}
	return n
}

// CountEdges sums the edge counts of graphs in O(len(graphs)).
func CountEdges[I, L, K cmp.Ordered, V any](graphs ...*graph.Graph[I, L, K, V]) int {
	n := 0
	for _, g := range graphs {
		if g != nil {
			n += g.NumberOfEdges()
		}
	}
	return n
}

// flatten takes each graph's snapshot lazily, when iteration reaches it.
func flatten[I, L, K cmp.Ordered, V, T any](graphs []*graph.Graph[I, L, K, V], each func(*graph.Graph[I, L, K, V]) iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, g := range graphs {
			if g == nil {
				continue
			}
			for el := range each(g) {
				if !yield(el) {
					return
				}
			}
		}
	}
}
