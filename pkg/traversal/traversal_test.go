package traversal

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/propgraph/pkg/graph"
)

type (
	pg   = graph.PropertyGraph
	pv   = graph.Vertex[string, string, string, any]
	pe   = graph.Edge[string, string, string, any]
	opts = Options[string, string, string, any]
	step = Step[string, string, string, any]
)

// chain builds a -> b -> c -> d with "next" edges plus a "skip" edge a -> c.
func chain(t *testing.T) *pg {
	t.Helper()
	g, err := graph.NewPropertyGraph("chain")
	require.NoError(t, err)
	vs := map[string]*pv{}
	for _, id := range []string{"a", "b", "c", "d"} {
		v, err := g.AddVertex(id, "node", nil)
		require.NoError(t, err)
		vs[id] = v
	}
	for _, e := range [][3]string{{"a", "next", "b"}, {"b", "next", "c"}, {"c", "next", "d"}, {"a", "skip", "c"}} {
		_, err := g.AddEdge(e[0]+e[2], vs[e[0]], e[1], vs[e[2]], nil)
		require.NoError(t, err)
	}
	return g
}

func walkIDs(t *testing.T, walk func(*pv, opts, func(step) bool) error, start *pv, o opts) []string {
	t.Helper()
	var ids []string
	require.NoError(t, walk(start, o, func(s step) bool {
		ids = append(ids, s.Vertex.ID())
		return true
	}))
	return ids
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{
		"":         DirectionBoth,
		"BOTH":     DirectionBoth,
		"out":      DirectionOutgoing,
		"Outgoing": DirectionOutgoing,
		" in ":     DirectionIncoming,
		"incoming": DirectionIncoming,
	} {
		got, err := ParseDirection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDirection("sideways")
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)
	assert.Equal(t, "out", DirectionOutgoing.String())
	assert.Equal(t, "Direction(7)", Direction(7).String())
}

func TestMultiGraphQueries(t *testing.T) {
	g1 := chain(t)
	g2, err := graph.NewPropertyGraph("other")
	require.NoError(t, err)
	x, err := g2.AddVertex("x", "person", nil)
	require.NoError(t, err)
	y, err := g2.AddVertex("y", "node", nil)
	require.NoError(t, err)
	_, err = g2.AddEdge("xy", x, "next", y, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c", "d", "x", "y"}, graph.VertexIDs(Vertices(g1, g2)))
	assert.Equal(t, []string{"a", "b", "c", "d", "y"}, graph.VertexIDs(VerticesByLabel([]string{"node"}, g1, g2)))
	assert.Equal(t, []string{"x"}, graph.VertexIDs(VerticesFunc(func(v *pv) bool { return v.Label() == "person" }, g1, g2)))
	assert.Equal(t, []string{"ab", "bc", "cd", "ac", "xy"}, graph.EdgeIDs(Edges(g1, g2)))
	assert.Equal(t, []string{"ac"}, graph.EdgeIDs(EdgesByLabel([]string{"skip"}, g1, g2)))
	assert.Equal(t, []string{"xy"}, graph.EdgeIDs(EdgesFunc(func(e *pe) bool { return e.OutVertexID() == "x" }, g1, g2)))
	assert.Equal(t, 6, CountVertices(g1, nil, g2))
	assert.Equal(t, 5, CountEdges(g1, g2))
	assert.Empty(t, graph.VertexIDs(Vertices[string, string, string, any]()))

	t.Run("early break", func(t *testing.T) {
		n := 0
		for range Vertices(g1, g2) {
			n++
			if n == 5 {
				break
			}
		}
		assert.Equal(t, 5, n)
	})
}

func TestNeighborsAndDegree(t *testing.T) {
	g := chain(t)
	a, c := g.VertexByID("a"), g.VertexByID("c")

	ids := func(vs []*pv) []string {
		out := make([]string, len(vs))
		for i, v := range vs {
			out[i] = v.ID()
		}
		return out
	}
	assert.Equal(t, []string{"b", "c"}, ids(Neighbors(a, DirectionOutgoing)))
	assert.Equal(t, []string{"b"}, ids(Neighbors(a, DirectionOutgoing, "next")))
	assert.Empty(t, Neighbors(a, DirectionIncoming))
	assert.Equal(t, []string{"d", "b", "a"}, ids(Neighbors(c, DirectionBoth)))

	assert.Equal(t, 2, Degree(a, DirectionOutgoing))
	assert.Equal(t, 0, Degree(a, DirectionIncoming))
	assert.Equal(t, 3, Degree(c, DirectionBoth))
	assert.Equal(t, 1, Degree(c, DirectionIncoming, "skip"))
}

func TestBFS(t *testing.T) {
	g := chain(t)
	a, d := g.VertexByID("a"), g.VertexByID("d")

	assert.Equal(t, []string{"a", "b", "c", "d"}, walkIDs(t, BFS, a, opts{Direction: DirectionOutgoing}))
	assert.Equal(t, []string{"a"}, walkIDs(t, BFS, a, opts{Direction: DirectionIncoming}))
	assert.Equal(t, []string{"d", "c", "b", "a"}, walkIDs(t, BFS, d, opts{Direction: DirectionIncoming, Labels: []string{"next"}}))
	assert.Equal(t, []string{"a", "b", "c"}, walkIDs(t, BFS, a, opts{Direction: DirectionOutgoing, MaxDepth: 1}))

	t.Run("depth and via", func(t *testing.T) {
		var steps []step
		require.NoError(t, BFS(a, opts{Direction: DirectionOutgoing}, func(s step) bool {
			steps = append(steps, s)
			return true
		}))
		require.Len(t, steps, 4)
		assert.Nil(t, steps[0].Via)
		assert.Equal(t, 0, steps[0].Depth)
		assert.Equal(t, "ac", steps[2].Via.ID())
		assert.Equal(t, 1, steps[2].Depth)
		assert.Equal(t, 2, steps[3].Depth)
	})

	t.Run("edge filter", func(t *testing.T) {
		o := opts{Direction: DirectionOutgoing, EdgeFilter: func(e *pe) bool { return e.ID() != "bc" }}
		assert.Equal(t, []string{"a", "b", "c", "d"}, walkIDs(t, BFS, a, o))
		o.Labels = []string{"next"}
		assert.Equal(t, []string{"a", "b"}, walkIDs(t, BFS, a, o))
	})

	t.Run("visitor stops the walk", func(t *testing.T) {
		n := 0
		require.NoError(t, BFS(a, opts{}, func(step) bool {
			n++
			return n < 2
		}))
		assert.Equal(t, 2, n)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		noop := func(step) bool { return true }
		assert.ErrorIs(t, BFS(nil, opts{}, noop), graph.ErrInvalidArgument)
		assert.ErrorIs(t, BFS(a, opts{}, nil), graph.ErrInvalidArgument)
		assert.ErrorIs(t, BFS(a, opts{MaxDepth: -1}, noop), graph.ErrInvalidArgument)
		assert.ErrorIs(t, BFS(a, opts{Direction: Direction(9)}, noop), graph.ErrInvalidArgument)
	})
}

func TestDFS(t *testing.T) {
	g := chain(t)
	a := g.VertexByID("a")

	assert.Equal(t, []string{"a", "b", "c", "d"}, walkIDs(t, DFS, a, opts{Direction: DirectionOutgoing}))
	assert.Equal(t, []string{"a", "c", "d", "b"}, walkIDs(t, DFS, a, opts{
		Direction:  DirectionBoth,
		EdgeFilter: func(e *pe) bool { return e.ID() != "ab" },
	}))
	assert.Equal(t, []string{"a", "b", "c"}, walkIDs(t, DFS, a, opts{Direction: DirectionOutgoing, MaxDepth: 1}))
	assert.ErrorIs(t, DFS(nil, opts{}, func(step) bool { return true }), graph.ErrInvalidArgument)
}

func TestShortestPath(t *testing.T) {
	g := chain(t)
	a, b, d := g.VertexByID("a"), g.VertexByID("b"), g.VertexByID("d")

	p, err := ShortestPath(a, d, opts{Direction: DirectionOutgoing})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "d"}, p.IDs())
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, []string{"ac", "cd"}, graph.EdgeIDs(slices.Values(p.Edges)))

	p, err = ShortestPath(a, d, opts{Direction: DirectionOutgoing, Labels: []string{"next"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, p.IDs())

	p, err = ShortestPath(d, a, opts{Direction: DirectionBoth})
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c", "a"}, p.IDs())

	p, err = ShortestPath(b, b, opts{})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, p.IDs())
	assert.Zero(t, p.Len())

	_, err = ShortestPath(d, a, opts{Direction: DirectionOutgoing})
	assert.ErrorIs(t, err, ErrPathNotFound)

	_, err = ShortestPath(a, d, opts{Direction: DirectionOutgoing, MaxDepth: 1})
	assert.ErrorIs(t, err, ErrPathNotFound)

	other := chain(t)
	_, err = ShortestPath(a, other.VertexByID("d"), opts{})
	assert.ErrorIs(t, err, graph.ErrForeignElement)
}
