package graph

import "cmp"

// Events are the structural hook points of a graph, one pair per element
// kind and mutation.
//
// Example:
//
//	// refuse edges without an explicit label
//	cancel := g.Events().AddEdge.Vote(func(e *graph.Edge[string, string, string, any]) bool {
//		return e.Label() != "Edge"
//	})
//	defer cancel()
//
//	g.Events().RemoveVertex.Notify(func(v *graph.Vertex[string, string, string, any]) {
//		log.Printf("vertex %s removed", v.ID())
//	})
type Events[I, L, K cmp.Ordered, V any] struct {
	AddVertex    Hooks[*Vertex[I, L, K, V]]
	RemoveVertex Hooks[*Vertex[I, L, K, V]]

	AddEdge    Hooks[*Edge[I, L, K, V]]
	RemoveEdge Hooks[*Edge[I, L, K, V]]

	AddMultiEdge    Hooks[*MultiEdge[I, L, K, V]]
	RemoveMultiEdge Hooks[*MultiEdge[I, L, K, V]]

	AddHyperEdge    Hooks[*HyperEdge[I, L, K, V]]
	RemoveHyperEdge Hooks[*HyperEdge[I, L, K, V]]
}
