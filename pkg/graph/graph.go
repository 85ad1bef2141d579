package graph

import (
	"cmp"
	"fmt"
	"sync"
)

// Graph is an in-memory property graph of vertices, edges, multiedges and
// hyperedges. A graph is itself an element: it has an id, a label, a
// revision and properties.
//
// Every collection keeps insertion order and a label index. Ids are unique
// per collection, not across collections, so a vertex and an edge may share
// an id.
//
// Elements only exist through the graph's factories (AddVertex, AddEdge,
// AddMultiEdge, AddHyperEdge). Each structural mutation first asks the
// voters registered in Events, commits only if all of them approve, and then
// tells the observers.
//
// Adjacency is stored as ids: a vertex knows the ids of its edges and an edge
// the ids of its endpoints. Accessors resolve them through the graph.
//
// Thread Safety:
//
//	All methods are safe for concurrent use. Structural mutations are
//	serialized; readers see either the state before or after a mutation,
//	never a partial one. Sequences returned by the query methods are
//	snapshots taken at call time.
//
// Example:
//
//	g, _ := graph.NewPropertyGraph("social")
//
//	alice, _ := g.AddVertex("Alice", "person", func(p *graph.PropertyBag[string, any]) {
//		p.Set("age", 31)
//	})
//	bob, _ := g.AddVertex("Bob", "person", nil)
//	g.AddEdge("", alice, "knows", bob, nil)
//
//	fmt.Println(alice.OutDegree())       // 1
//	fmt.Println(g.NumberOfVertices())    // 2
type Graph[I, L, K cmp.Ordered, V any] struct {
	element[I, L, K, V]

	opts Options[I, L, K]

	// writeMu serializes structural mutations and their voting. mu guards
	// collections and adjacency; it is only write-locked for the commit.
	writeMu sync.Mutex
	mu      sync.RWMutex

	vertices   table[I, L, *Vertex[I, L, K, V]]
	edges      table[I, L, *Edge[I, L, K, V]]
	multiEdges table[I, L, *MultiEdge[I, L, K, V]]
	hyperEdges table[I, L, *HyperEdge[I, L, K, V]]

	events Events[I, L, K, V]
}

// PropertyGraph is the graph with string ids, labels and keys and untyped
// values.
type PropertyGraph = Graph[string, string, string, any]

// New creates an empty graph. The zero id is rejected; zero fields of opts
// are filled as described on Options.
func New[I, L, K cmp.Ordered, V any](id I, label L, opts Options[I, L, K]) (*Graph[I, L, K, V], error) {
	var zero I
	if id == zero {
		return nil, invalidArgument("graph id must not be the zero value")
	}
	opts = opts.withDefaults()
	if err := opts.Keys.validate(); err != nil {
		return nil, err
	}
	g := &Graph[I, L, K, V]{
		opts:       opts,
		vertices:   newTable[I, L, *Vertex[I, L, K, V]](),
		edges:      newTable[I, L, *Edge[I, L, K, V]](),
		multiEdges: newTable[I, L, *MultiEdge[I, L, K, V]](),
		hyperEdges: newTable[I, L, *HyperEdge[I, L, K, V]](),
	}
	if err := g.element.init(id, label, opts.Keys, nil); err != nil {
		return nil, err
	}
	g.setState(StateLive)
	return g, nil
}

// NewPropertyGraph creates a PropertyGraph with default options.
func NewPropertyGraph(id string) (*PropertyGraph, error) {
	return New[string, string, string, any](id, "PropertyGraph", Options[string, string, string]{})
}

// Events returns the structural hook points of g.
func (g *Graph[I, L, K, V]) Events() *Events[I, L, K, V] { return &g.events }

// Options returns the options g was built with, defaults filled in.
func (g *Graph[I, L, K, V]) Options() Options[I, L, K] { return g.opts }

func (g *Graph[I, L, K, V]) String() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return fmt.Sprintf("Graph(%v, %v)[vertices=%d edges=%d multiedges=%d hyperedges=%d]",
		g.id, g.label, g.vertices.len(), g.edges.len(), g.multiEdges.len(), g.hyperEdges.len())
}

// Equal reports whether other is a graph with the same id.
func (g *Graph[I, L, K, V]) Equal(other *Graph[I, L, K, V]) bool {
	return g != nil && other != nil && g.id == other.id
}

// Clear removes every element through the regular removal path, so voters
// can keep individual elements. It returns the number of vertices removed.
func (g *Graph[I, L, K, V]) Clear() (int, error) {
	if _, err := g.RemoveHyperEdgesFunc(nil); err != nil {
		return 0, err
	}
	if _, err := g.RemoveMultiEdgesFunc(nil); err != nil {
		return 0, err
	}
	if _, err := g.RemoveEdgesFunc(nil); err != nil {
		return 0, err
	}
	return g.RemoveVerticesFunc(nil)
}

// nextID asks gen for an id that does not collide with exists. Must be called
// with writeMu held.
func nextID[I cmp.Ordered](gen IDGenerator[I], exists func(I) bool) (I, error) {
	var zero I
	for range maxIDAttempts {
		id, err := gen()
		if err != nil {
			return zero, err
		}
		if id != zero && !exists(id) {
			return id, nil
		}
	}
	return zero, ErrIDExhausted
}

// own checks that an element handed in by a caller belongs to g and is live.
// Must be called with writeMu held.
func own[I, L, K cmp.Ordered, V any](g *Graph[I, L, K, V], kind string, id I, owner *Graph[I, L, K, V], state State) error {
	if owner != g {
		return fmt.Errorf("%w: %s %v", ErrForeignElement, kind, id)
	}
	if state == StateRemoved {
		return fmt.Errorf("%w: %s %v", ErrElementRemoved, kind, id)
	}
	return nil
}
