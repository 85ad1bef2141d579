package graph

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Factory builds the empty graph a component is copied into. index is the
// position of the component in the result.
type Factory[I, L, K cmp.Ordered, V any] func(index int) (*Graph[I, L, K, V], error)

// ComponentOptions configures ComponentsWithOptions.
type ComponentOptions[I, L, K cmp.Ordered, V any] struct {
	// Factory is required.
	Factory Factory[I, L, K, V]
	// EdgeFilter selects the edges that connect vertices. nil includes all.
	EdgeFilter func(*Edge[I, L, K, V]) bool
	// Parallelism bounds how many components are copied at once. Values
	// below 2 copy sequentially.
	Parallelism int
}

// Components splits g into its weakly connected components, treating the
// edges accepted by edgeFilter as undirected. Each component is copied into a
// fresh graph from factory: vertices with their ids, labels and custom
// properties, and the included edges between them. Components come in the
// order their first vertex was added to g.
//
// Example:
//
//	parts, err := g.Components(func(i int) (*graph.PropertyGraph, error) {
//		return graph.NewPropertyGraph(fmt.Sprintf("part-%d", i))
//	}, nil)
func (g *Graph[I, L, K, V]) Components(factory Factory[I, L, K, V], edgeFilter func(*Edge[I, L, K, V]) bool) ([]*Graph[I, L, K, V], error) {
	return g.ComponentsWithOptions(context.Background(), ComponentOptions[I, L, K, V]{
		Factory:    factory,
		EdgeFilter: edgeFilter,
	})
}

// ComponentsWithOptions is Components with bounded parallel copying.
func (g *Graph[I, L, K, V]) ComponentsWithOptions(ctx context.Context, opts ComponentOptions[I, L, K, V]) ([]*Graph[I, L, K, V], error) {
	if opts.Factory == nil {
		return nil, invalidArgument("components need a graph factory")
	}
	parts := g.partition(opts.EdgeFilter)
	result := make([]*Graph[I, L, K, V], len(parts))

	eg, ctx := errgroup.WithContext(ctx)
	if opts.Parallelism > 1 {
		eg.SetLimit(opts.Parallelism)
	} else {
		eg.SetLimit(1)
	}
	for i, p := range parts {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cg, err := p.materialize(i, opts.Factory)
			if err != nil {
				return fmt.Errorf("component %d: %w", i, err)
			}
			result[i] = cg
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// NumberOfComponents counts the weakly connected components without copying
// them.
func (g *Graph[I, L, K, V]) NumberOfComponents(edgeFilter func(*Edge[I, L, K, V]) bool) int {
	return len(g.partition(edgeFilter))
}

type component[I, L, K cmp.Ordered, V any] struct {
	vertices []*Vertex[I, L, K, V]
	edges    []*Edge[I, L, K, V]
}

// partition runs union-find over a snapshot of g.
func (g *Graph[I, L, K, V]) partition(edgeFilter func(*Edge[I, L, K, V]) bool) []*component[I, L, K, V] {
	g.mu.RLock()
	vertices := g.vertices.all()
	edges := g.edges.all()
	g.mu.RUnlock()

	index := make(map[I]int, len(vertices))
	for i, v := range vertices {
		index[v.id] = i
	}
	parent := make([]int, len(vertices))
	for i := range parent {
		parent[i] = i
	}
	find := func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		if rb < ra {
			ra, rb = rb, ra
		}
		parent[rb] = ra
	}

	included := edges[:0:0]
	for _, e := range edges {
		if edgeFilter != nil && !edgeFilter(e) {
			continue
		}
		a, okA := index[e.outID]
		b, okB := index[e.inID]
		if !okA || !okB {
			continue
		}
		union(a, b)
		included = append(included, e)
	}

	byRoot := make(map[int]*component[I, L, K, V])
	var parts []*component[I, L, K, V]
	for i, v := range vertices {
		r := find(i)
		c, ok := byRoot[r]
		if !ok {
			c = &component[I, L, K, V]{}
			byRoot[r] = c
			parts = append(parts, c)
		}
		c.vertices = append(c.vertices, v)
	}
	for _, e := range included {
		c := byRoot[find(index[e.outID])]
		c.edges = append(c.edges, e)
	}
	return parts
}

func (c *component[I, L, K, V]) materialize(i int, factory Factory[I, L, K, V]) (*Graph[I, L, K, V], error) {
	cg, err := factory(i)
	if err != nil {
		return nil, err
	}
	if cg == nil {
		return nil, invalidArgument("factory returned a nil graph")
	}
	for _, v := range c.vertices {
		if _, err := cg.AddVertex(v.id, v.label, v.copyProperties()); err != nil {
			return nil, err
		}
	}
	for _, e := range c.edges {
		out, in := cg.VertexByID(e.outID), cg.VertexByID(e.inID)
		if out == nil || in == nil {
			// a voter on cg declined an endpoint
			continue
		}
		if _, err := cg.AddEdge(e.id, out, e.label, in, e.copyProperties()); err != nil {
			return nil, err
		}
	}
	return cg, nil
}

// ComponentSizes returns the vertex count of every component, largest first.
func (g *Graph[I, L, K, V]) ComponentSizes(edgeFilter func(*Edge[I, L, K, V]) bool) []int {
	parts := g.partition(edgeFilter)
	sizes := make([]int, len(parts))
	for i, p := range parts {
		sizes[i] = len(p.vertices)
	}
	slices.SortFunc(sizes, func(a, b int) int { return cmp.Compare(b, a) })
	return sizes
}
