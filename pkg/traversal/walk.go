package traversal

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/orneryd/propgraph/pkg/graph"
)

// ErrPathNotFound is returned by ShortestPath when the target is unreachable.
var ErrPathNotFound = errors.New("traversal: path not found")

// Options restricts which edges a walk follows.
type Options[I, L, K cmp.Ordered, V any] struct {
	Direction Direction
	// Labels limits the walk to edges carrying one of these labels. Empty
	// follows every label.
	Labels []L
	// EdgeFilter, when set, must also accept an edge.
	EdgeFilter func(*graph.Edge[I, L, K, V]) bool
	// MaxDepth bounds the number of hops from the start. Zero is unbounded.
	MaxDepth int
}

func (o Options[I, L, K, V]) validate() error {
	if o.MaxDepth < 0 {
		return fmt.Errorf("%w: negative max depth %d", graph.ErrInvalidArgument, o.MaxDepth)
	}
	if o.Direction < DirectionBoth || o.Direction > DirectionIncoming {
		return fmt.Errorf("%w: %v", graph.ErrInvalidArgument, o.Direction)
	}
	return nil
}

func (o Options[I, L, K, V]) follows(e *graph.Edge[I, L, K, V]) bool {
	if len(o.Labels) > 0 && !slices.Contains(o.Labels, e.Label()) {
		return false
	}
	return o.EdgeFilter == nil || o.EdgeFilter(e)
}

// Step is one vertex reached by a walk. Via is nil for the start vertex.
type Step[I, L, K cmp.Ordered, V any] struct {
	Vertex *graph.Vertex[I, L, K, V]
	Via    *graph.Edge[I, L, K, V]
	Depth  int
}

// Path is a walk from Vertices[0] to the last vertex. Edges[i] connects
// Vertices[i] and Vertices[i+1].
type Path[I, L, K cmp.Ordered, V any] struct {
	Vertices []*graph.Vertex[I, L, K, V]
	Edges    []*graph.Edge[I, L, K, V]
}

// Len is the number of hops.
func (p Path[I, L, K, V]) Len() int { return len(p.Edges) }

// IDs returns the vertex ids along the path.
func (p Path[I, L, K, V]) IDs() []I {
	ids := make([]I, len(p.Vertices))
	for i, v := range p.Vertices {
		ids[i] = v.ID()
	}
	return ids
}

type hop[I, L, K cmp.Ordered, V any] struct {
	edge *graph.Edge[I, L, K, V]
	to   *graph.Vertex[I, L, K, V]
}

// hops lists the edges of v the options follow together with the vertex at
// their other end. Out-edges come before in-edges.
func hops[I, L, K cmp.Ordered, V any](v *graph.Vertex[I, L, K, V], o Options[I, L, K, V]) []hop[I, L, K, V] {
	var out []hop[I, L, K, V]
	if o.Direction != DirectionIncoming {
		for e := range v.OutEdgesFunc(o.follows) {
			if to := e.InVertex(); to != nil {
				out = append(out, hop[I, L, K, V]{edge: e, to: to})
			}
		}
	}
	if o.Direction != DirectionOutgoing {
		for e := range v.InEdgesFunc(o.follows) {
			if to := e.OutVertex(); to != nil {
				out = append(out, hop[I, L, K, V]{edge: e, to: to})
			}
		}
	}
	return out
}

// Neighbors yields the vertex at the other end of every incident edge in
// direction d carrying any of labels. Like Vertex.Both it keeps duplicates.
func Neighbors[I, L, K cmp.Ordered, V any](v *graph.Vertex[I, L, K, V], d Direction, labels ...L) []*graph.Vertex[I, L, K, V] {
	hs := hops(v, Options[I, L, K, V]{Direction: d, Labels: labels})
	out := make([]*graph.Vertex[I, L, K, V], len(hs))
	for i, h := range hs {
		out[i] = h.to
	}
	return out
}

// Degree counts the incident edges of v in direction d carrying any of
// labels. Unfiltered counts are O(1).
func Degree[I, L, K cmp.Ordered, V any](v *graph.Vertex[I, L, K, V], d Direction, labels ...L) int {
	switch d {
	case DirectionOutgoing:
		return v.OutDegree(labels...)
	case DirectionIncoming:
		return v.InDegree(labels...)
	default:
		return v.Degree(labels...)
	}
}

// BFS visits the vertices reachable from start breadth-first, each once.
// visit returning false stops the walk.
func BFS[I, L, K cmp.Ordered, V any](start *graph.Vertex[I, L, K, V], opts Options[I, L, K, V], visit func(Step[I, L, K, V]) bool) error {
	if start == nil || visit == nil {
		return fmt.Errorf("%w: nil start or visitor", graph.ErrInvalidArgument)
	}
	if err := opts.validate(); err != nil {
		return err
	}

	seen := map[I]struct{}{start.ID(): {}}
	queue := []Step[I, L, K, V]{{Vertex: start}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if !visit(cur) {
			return nil
		}
		if opts.MaxDepth > 0 && cur.Depth >= opts.MaxDepth {
			continue
		}
		for _, h := range hops(cur.Vertex, opts) {
			if _, ok := seen[h.to.ID()]; ok {
				continue
			}
			seen[h.to.ID()] = struct{}{}
			queue = append(queue, Step[I, L, K, V]{Vertex: h.to, Via: h.edge, Depth: cur.Depth + 1})
		}
	}
	return nil
}

// DFS visits the vertices reachable from start depth-first in pre-order,
// each once. visit returning false stops the walk.
func DFS[I, L, K cmp.Ordered, V any](start *graph.Vertex[I, L, K, V], opts Options[I, L, K, V], visit func(Step[I, L, K, V]) bool) error {
	if start == nil || visit == nil {
		return fmt.Errorf("%w: nil start or visitor", graph.ErrInvalidArgument)
	}
	if err := opts.validate(); err != nil {
		return err
	}

	seen := make(map[I]struct{})
	stack := []Step[I, L, K, V]{{Vertex: start}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[cur.Vertex.ID()]; ok {
			continue
		}
		seen[cur.Vertex.ID()] = struct{}{}
		if !visit(cur) {
			return nil
		}
		if opts.MaxDepth > 0 && cur.Depth >= opts.MaxDepth {
			continue
		}
		hs := hops(cur.Vertex, opts)
		// reversed so the first edge is explored first
		for i := len(hs) - 1; i >= 0; i-- {
			if _, ok := seen[hs[i].to.ID()]; ok {
				continue
			}
			stack = append(stack, Step[I, L, K, V]{Vertex: hs[i].to, Via: hs[i].edge, Depth: cur.Depth + 1})
		}
	}
	return nil
}

// ShortestPath finds a path from from to to with the fewest hops. Ties are
// broken by edge insertion order.
func ShortestPath[I, L, K cmp.Ordered, V any](from, to *graph.Vertex[I, L, K, V], opts Options[I, L, K, V]) (Path[I, L, K, V], error) {
	if from == nil || to == nil {
		return Path[I, L, K, V]{}, fmt.Errorf("%w: nil endpoint", graph.ErrInvalidArgument)
	}
	if from.Graph() != to.Graph() {
		return Path[I, L, K, V]{}, fmt.Errorf("%w: endpoints in different graphs", graph.ErrForeignElement)
	}

	parents := make(map[I]Step[I, L, K, V])
	parentOf := func(id I) (I, bool) {
		s, ok := parents[id]
		if !ok || s.Via == nil {
			var zero I
			return zero, false
		}
		return otherEnd(s.Via, id), true
	}

	found := false
	err := BFS(from, opts, func(s Step[I, L, K, V]) bool {
		parents[s.Vertex.ID()] = s
		if s.Vertex.ID() == to.ID() {
			found = true
			return false
		}
		return true
	})
	if err != nil {
		return Path[I, L, K, V]{}, err
	}
	if !found {
		return Path[I, L, K, V]{}, fmt.Errorf("%w: %v -> %v", ErrPathNotFound, from.ID(), to.ID())
	}

	var p Path[I, L, K, V]
	for id, ok := to.ID(), true; ok; id, ok = parentOf(id) {
		s := parents[id]
		p.Vertices = append(p.Vertices, s.Vertex)
		if s.Via != nil {
			p.Edges = append(p.Edges, s.Via)
		}
	}
	slices.Reverse(p.Vertices)
	slices.Reverse(p.Edges)
	return p, nil
}

func otherEnd[I, L, K cmp.Ordered, V any](e *graph.Edge[I, L, K, V], id I) I {
	if e.OutVertexID() == id {
		return e.InVertexID()
	}
	return e.OutVertexID()
}
