package graph

import (
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	pg = PropertyGraph
	pv = Vertex[string, string, string, any]
	pe = Edge[string, string, string, any]
)

func newTestGraph(t *testing.T) *pg {
	t.Helper()
	g, err := NewPropertyGraph("test")
	require.NoError(t, err)
	return g
}

func mustVertex(t *testing.T, g *pg, id, label string) *pv {
	t.Helper()
	v, err := g.AddVertex(id, label, nil)
	require.NoError(t, err)
	require.NotNil(t, v)
	return v
}

func mustEdge(t *testing.T, g *pg, id string, out *pv, label string, in *pv) *pe {
	t.Helper()
	e, err := g.AddEdge(id, out, label, in, nil)
	require.NoError(t, err)
	require.NotNil(t, e)
	return e
}

// socialGraph: Alice knows Bob and Carol, loves Rex; Bob knows Alice.
func socialGraph(t *testing.T) *pg {
	t.Helper()
	g := newTestGraph(t)
	alice := mustVertex(t, g, "Alice", "person")
	bob := mustVertex(t, g, "Bob", "person")
	carol := mustVertex(t, g, "Carol", "person")
	rex := mustVertex(t, g, "Rex", "pet")
	mustEdge(t, g, "e1", alice, "knows", bob)
	mustEdge(t, g, "e2", alice, "knows", carol)
	mustEdge(t, g, "e3", alice, "loves", rex)
	mustEdge(t, g, "e4", bob, "knows", alice)
	return g
}

func TestNew(t *testing.T) {
	t.Run("zero id is rejected", func(t *testing.T) {
		_, err := NewPropertyGraph("")
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("reserved keys must be distinct", func(t *testing.T) {
		_, err := New[string, string, string, any]("g", "G", Options[string, string, string]{
			Keys: ReservedKeys[string]{ID: "k", Revision: "k", Label: "l"},
		})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("defaults are filled in", func(t *testing.T) {
		g := newTestGraph(t)
		opts := g.Options()
		assert.Equal(t, ReservedKeys[string]{ID: "Id", Revision: "RevId", Label: "Label"}, opts.Keys)
		assert.Equal(t, "Vertex", opts.Labels.Vertex)
		assert.Equal(t, "Edge", opts.Labels.Edge)
		assert.NotNil(t, opts.VertexIDs)
		assert.Equal(t, "test", g.ID())
		assert.Equal(t, "PropertyGraph", g.Label())
		assert.Equal(t, StateLive, g.State())
	})

	t.Run("integer keys need explicit reserved keys", func(t *testing.T) {
		_, err := New[int, int, int, any](1, 0, Options[int, int, int]{})
		assert.ErrorIs(t, err, ErrInvalidArgument)

		g, err := New[int, int, int, any](1, 0, Options[int, int, int]{
			Keys: ReservedKeys[int]{ID: -1, Revision: -2, Label: -3},
		})
		require.NoError(t, err)
		v, err := g.AddVertex(0, 7, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, v.ID())
		id, ok := v.Property(-1)
		assert.True(t, ok)
		assert.Equal(t, 1, id)
	})
}

// richGraph is socialGraph plus hyperedge h1 Alice->[Bob, Carol] and
// multiedge m1 over e1 and e4.
func richGraph(t *testing.T) *pg {
	t.Helper()
	g := socialGraph(t)
	h, err := g.AddHyperEdge("h1", g.VertexByID("Alice"), "meeting", []*pv{g.VertexByID("Bob"), g.VertexByID("Carol")}, nil)
	require.NoError(t, err)
	require.NotNil(t, h)
	m, err := g.AddMultiEdge("m1", "pair", []*pe{g.EdgeByID("e1"), g.EdgeByID("e4")}, nil)
	require.NoError(t, err)
	require.NotNil(t, m)
	return g
}

func recordRemovals(g *pg) *[]string {
	var removed []string
	g.Events().RemoveEdge.Notify(func(e *pe) { removed = append(removed, "edge:"+e.ID()) })
	g.Events().RemoveHyperEdge.Notify(func(h *ph) { removed = append(removed, "hyper:"+h.ID()) })
	g.Events().RemoveMultiEdge.Notify(func(m *pm) { removed = append(removed, "multi:"+m.ID()) })
	g.Events().RemoveVertex.Notify(func(v *pv) { removed = append(removed, "vertex:"+v.ID()) })
	return &removed
}

func assertRichGraphIntact(t *testing.T, g *pg) {
	t.Helper()
	alice := g.VertexByID("Alice")
	require.NotNil(t, alice)
	assert.Equal(t, StateLive, alice.State())
	assert.Equal(t, 4, g.NumberOfVertices())
	assert.Equal(t, 4, g.NumberOfEdges())
	assert.Equal(t, 1, g.NumberOfHyperEdges())
	assert.Equal(t, 1, g.NumberOfMultiEdges())
	assert.Equal(t, 4, alice.Degree())
	assert.Equal(t, 1, alice.NumberOfHyperEdges())
	assert.Equal(t, 1, alice.NumberOfMultiEdges())
	assert.Equal(t, 2, g.MultiEdgeByID("m1").NumberOfEdges())
	assert.Equal(t, 2, g.HyperEdgeByID("h1").NumberOfInVertices())
	for _, id := range []string{"e1", "e2", "e3", "e4"} {
		assert.Equal(t, StateLive, g.EdgeByID(id).State(), id)
	}
}

func TestGraph_AddVertex(t *testing.T) {
	t.Run("strict add rejects duplicate ids", func(t *testing.T) {
		g := newTestGraph(t)
		v := mustVertex(t, g, "Alice", "person")

		dup, err := g.AddVertex("Alice", "person", nil)
		assert.ErrorIs(t, err, ErrDuplicateID)
		assert.Nil(t, dup)
		assert.Equal(t, 1, g.NumberOfVertices())

		again, err := g.AddVertexIfNotExists("Alice", "robot", nil)
		require.NoError(t, err)
		assert.Same(t, v, again)
		assert.Equal(t, "person", again.Label())
	})

	t.Run("zero id and label are generated", func(t *testing.T) {
		g := newTestGraph(t)
		v, err := g.AddVertex("", "", nil)
		require.NoError(t, err)
		assert.Len(t, v.ID(), 21)
		assert.Equal(t, "Vertex", v.Label())
		assert.Same(t, g, v.Graph())
		assert.Equal(t, StateLive, v.State())
	})

	t.Run("initializer fills custom properties", func(t *testing.T) {
		g := newTestGraph(t)
		v, err := g.AddVertex("Alice", "person", func(p *PropertyBag[string, any]) {
			p.Set("age", 31)
			p.Set("city", "Berlin")
		})
		require.NoError(t, err)
		age, ok := PropertyAs[int](v.Property("age"))
		assert.True(t, ok)
		assert.Equal(t, 31, age)
		assert.Equal(t, 2, v.NumberOfProperties())
	})

	t.Run("initializer may not set reserved keys", func(t *testing.T) {
		g := newTestGraph(t)
		v, err := g.AddVertex("Alice", "person", func(p *PropertyBag[string, any]) {
			p.Set("Label", "robot")
		})
		assert.ErrorIs(t, err, ErrReservedKey)
		assert.Nil(t, v)
		assert.Zero(t, g.NumberOfVertices())
	})

	t.Run("integer ids come from a sequence", func(t *testing.T) {
		g, err := New[int64, string, string, any](1, "ints", Options[int64, string, string]{})
		require.NoError(t, err)
		a, err := g.AddVertex(0, "", nil)
		require.NoError(t, err)
		b, err := g.AddVertex(0, "", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), a.ID())
		assert.Equal(t, int64(2), b.ID())
	})

	t.Run("generated ids skip taken ones", func(t *testing.T) {
		g, err := New[int, string, string, any](1, "ints", Options[int, string, string]{
			VertexIDs: Sequence(1),
		})
		require.NoError(t, err)
		_, err = g.AddVertex(1, "", nil)
		require.NoError(t, err)
		v, err := g.AddVertex(0, "", nil)
		require.NoError(t, err)
		assert.Equal(t, 2, v.ID())
	})

	t.Run("exhausted generator fails", func(t *testing.T) {
		g, err := New[int, string, string, any](1, "ints", Options[int, string, string]{
			VertexIDs: func() (int, error) { return 5, nil },
		})
		require.NoError(t, err)
		_, err = g.AddVertex(0, "", nil)
		require.NoError(t, err)
		_, err = g.AddVertex(0, "", nil)
		assert.ErrorIs(t, err, ErrIDExhausted)
	})
}

func TestGraph_Lookup(t *testing.T) {
	g := socialGraph(t)

	t.Run("by id", func(t *testing.T) {
		assert.Equal(t, "Alice", g.VertexByID("Alice").ID())
		assert.Nil(t, g.VertexByID("Nobody"))

		v, ok := g.TryGetVertexByID("Bob")
		assert.True(t, ok)
		assert.Equal(t, "Bob", v.ID())
		_, ok = g.TryGetVertexByID("Nobody")
		assert.False(t, ok)

		assert.True(t, g.HasVertexID("Rex"))
		assert.False(t, g.HasEdgeID("Rex"))
		assert.True(t, g.HasEdgeID("e1"))
	})

	t.Run("strict accessors", func(t *testing.T) {
		_, err := g.GetVertex("Nobody")
		assert.ErrorIs(t, err, ErrUnknownID)
		_, err = g.GetEdge("e9")
		assert.ErrorIs(t, err, ErrUnknownID)
		e, err := g.GetEdge("e1")
		require.NoError(t, err)
		assert.Equal(t, "knows", e.Label())
	})

	t.Run("vertices by id round trip", func(t *testing.T) {
		assert.Equal(t, []string{"Alice"}, VertexIDs(g.VerticesByID("Alice")))
		assert.Empty(t, slices.Collect(g.VerticesByID("Nobody", "Nothing")))
		assert.Equal(t, []string{"Bob", "Alice", "Bob"}, VertexIDs(g.VerticesByID("Bob", "Nobody", "Alice", "Bob")))
	})

	t.Run("by label", func(t *testing.T) {
		assert.Equal(t, []string{"Alice", "Bob", "Carol"}, VertexIDs(g.VerticesByLabel("person")))
		assert.Equal(t, []string{"Alice", "Bob", "Carol", "Rex"}, VertexIDs(g.VerticesByLabel("pet", "person")))
		assert.Empty(t, VertexIDs(g.VerticesByLabel("robot")))
		assert.Empty(t, VertexIDs(g.VerticesByLabel()))
		assert.Equal(t, []string{"e3"}, EdgeIDs(g.EdgesByLabel("loves")))
		assert.Equal(t, 3, g.NumberOfVerticesByLabel("person", "person"))
		assert.Equal(t, 3, g.NumberOfEdgesByLabel("knows"))
	})

	t.Run("counts and predicates", func(t *testing.T) {
		assert.Equal(t, 4, g.NumberOfVertices())
		assert.Equal(t, 4, g.NumberOfEdges())
		isPet := func(v *pv) bool { return v.Label() == "pet" }
		assert.Equal(t, 1, g.NumberOfVerticesFunc(isPet))
		assert.Equal(t, []string{"Rex"}, VertexIDs(g.VerticesFunc(isPet)))
		assert.Equal(t, []string{"Alice", "Bob", "Carol", "Rex"}, VertexIDs(g.Vertices()))
	})
}

func TestGraph_AddEdge(t *testing.T) {
	t.Run("adjacency is consistent", func(t *testing.T) {
		g := newTestGraph(t)
		a := mustVertex(t, g, "a", "")
		b := mustVertex(t, g, "b", "")
		e := mustEdge(t, g, "", a, "link", b)

		assert.Contains(t, EdgeIDs(a.OutEdges()), e.ID())
		assert.Contains(t, EdgeIDs(b.InEdges()), e.ID())
		assert.Empty(t, EdgeIDs(a.InEdges()))
		assert.Same(t, a, e.OutVertex())
		assert.Same(t, b, e.InVertex())
		assert.Equal(t, "a", e.OutVertexID())
		assert.Equal(t, "b", e.InVertexID())
		assert.False(t, e.IsSelfLoop())
	})

	t.Run("self loops count in both directions", func(t *testing.T) {
		g := newTestGraph(t)
		a := mustVertex(t, g, "a", "")
		e := mustEdge(t, g, "loop", a, "self", a)

		assert.True(t, e.IsSelfLoop())
		assert.Equal(t, 1, a.OutDegree())
		assert.Equal(t, 1, a.InDegree())
		assert.Equal(t, 2, a.Degree())
		assert.Equal(t, []string{"a", "a"}, VertexIDs(a.Both()))
	})

	t.Run("nil endpoints are invalid", func(t *testing.T) {
		g := newTestGraph(t)
		a := mustVertex(t, g, "a", "")
		_, err := g.AddEdge("", a, "x", nil, nil)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("endpoints from another graph are rejected", func(t *testing.T) {
		g := newTestGraph(t)
		other := newTestGraph(t)
		a := mustVertex(t, g, "a", "")
		b := mustVertex(t, other, "b", "")
		_, err := g.AddEdge("", a, "x", b, nil)
		assert.ErrorIs(t, err, ErrForeignElement)
		assert.Zero(t, g.NumberOfEdges())
	})

	t.Run("removed endpoints are rejected", func(t *testing.T) {
		g := newTestGraph(t)
		a := mustVertex(t, g, "a", "")
		b := mustVertex(t, g, "b", "")
		_, err := g.RemoveVertex(b)
		require.NoError(t, err)
		_, err = g.AddEdge("", a, "x", b, nil)
		assert.ErrorIs(t, err, ErrElementRemoved)
	})

	t.Run("duplicate edge ids", func(t *testing.T) {
		g := newTestGraph(t)
		a := mustVertex(t, g, "a", "")
		b := mustVertex(t, g, "b", "")
		e := mustEdge(t, g, "e", a, "x", b)
		_, err := g.AddEdge("e", b, "y", a, nil)
		assert.ErrorIs(t, err, ErrDuplicateID)
		again, err := g.AddEdgeIfNotExists("e", b, "y", a, nil)
		require.NoError(t, err)
		assert.Same(t, e, again)
	})

	t.Run("vertex and edge ids live in separate collections", func(t *testing.T) {
		g := newTestGraph(t)
		a := mustVertex(t, g, "same", "")
		_, err := g.AddEdge("same", a, "x", a, nil)
		assert.NoError(t, err)
	})
}

func TestVertex_Degree(t *testing.T) {
	g := socialGraph(t)
	alice := g.VertexByID("Alice")

	assert.Equal(t, 3, alice.OutDegree())
	assert.Equal(t, 2, alice.OutDegreeFunc(func(e *pe) bool { return e.Label() == "knows" }))
	assert.Equal(t, 1, alice.OutDegree("loves"))
	assert.Equal(t, 0, alice.OutDegree("nonexistent"))
	assert.Equal(t, 3, alice.OutDegree("knows", "loves", "knows"))
	assert.Equal(t, 1, alice.InDegree())
	assert.Equal(t, 1, alice.InDegreeFunc(func(e *pe) bool { return e.OutVertexID() == "Bob" }))
	assert.Equal(t, 4, alice.Degree())
	assert.Equal(t, 3, alice.Degree("knows"))
	assert.Equal(t, 1, alice.DegreeFunc(func(e *pe) bool { return e.Label() == "loves" }))
}

func TestVertex_Neighbours(t *testing.T) {
	g := socialGraph(t)
	alice := g.VertexByID("Alice")
	bob := g.VertexByID("Bob")

	assert.Equal(t, []string{"Bob", "Carol", "Rex"}, VertexIDs(alice.Out()))
	assert.Equal(t, []string{"Bob", "Carol"}, VertexIDs(alice.Out("knows")))
	assert.Equal(t, []string{"Rex"}, VertexIDs(alice.OutFunc(func(e *pe) bool { return e.Label() == "loves" })))
	assert.Equal(t, []string{"Bob"}, VertexIDs(alice.In()))
	assert.Equal(t, []string{"Bob", "Carol", "Rex", "Bob"}, VertexIDs(alice.Both()))
	assert.Equal(t, []string{"Alice", "Alice"}, VertexIDs(bob.Both("knows")))
	assert.Empty(t, VertexIDs(alice.In("loves")))
	assert.Equal(t, []string{"e1", "e2", "e3", "e4"}, EdgeIDs(alice.BothEdges()))

	t.Run("parallel edges repeat neighbours", func(t *testing.T) {
		mustEdge(t, g, "e5", alice, "knows", bob)
		assert.Equal(t, []string{"Bob", "Carol", "Bob"}, VertexIDs(alice.Out("knows")))
	})

	t.Run("sequences are snapshots", func(t *testing.T) {
		out := alice.OutEdges()
		mustEdge(t, g, "e6", alice, "knows", g.VertexByID("Carol"))
		assert.NotContains(t, EdgeIDs(out), "e6")
		assert.Contains(t, EdgeIDs(alice.OutEdges()), "e6")
	})
}

func TestGraph_RemoveVertex(t *testing.T) {
	t.Run("cascade removes incident edges first", func(t *testing.T) {
		g := socialGraph(t)
		alice := g.VertexByID("Alice")
		degree := alice.Degree()
		require.Equal(t, 4, degree)

		var order []string
		g.Events().RemoveEdge.Notify(func(e *pe) { order = append(order, "edge:"+e.ID()) })
		g.Events().RemoveVertex.Notify(func(v *pv) { order = append(order, "vertex:"+v.ID()) })

		ok, err := g.RemoveVertex(alice)
		require.NoError(t, err)
		assert.True(t, ok)

		assert.Len(t, order, degree+1)
		assert.Equal(t, "vertex:Alice", order[len(order)-1])
		assert.ElementsMatch(t, []string{"edge:e1", "edge:e2", "edge:e3", "edge:e4"}, order[:degree])
		assert.Equal(t, 3, g.NumberOfVertices())
		assert.Zero(t, g.NumberOfEdges())
		assert.Zero(t, g.VertexByID("Bob").Degree())
		assert.Equal(t, StateRemoved, alice.State())
	})

	t.Run("removing twice is a no-op", func(t *testing.T) {
		g := socialGraph(t)
		ok, err := g.RemoveVertexByID("Rex")
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = g.RemoveVertexByID("Rex")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("a vetoed edge keeps the whole cascade", func(t *testing.T) {
		g := socialGraph(t)
		g.Events().RemoveEdge.Vote(func(e *pe) bool { return e.ID() != "e3" })
		var removed []string
		g.Events().RemoveEdge.Notify(func(e *pe) { removed = append(removed, e.ID()) })

		ok, err := g.RemoveVertexByID("Alice")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, removed)
		assert.Equal(t, 4, g.NumberOfVertices())
		assert.Equal(t, 4, g.NumberOfEdges())
		assert.Equal(t, 4, g.VertexByID("Alice").Degree())
		assert.Equal(t, StateLive, g.VertexByID("Alice").State())
	})

	t.Run("a vetoed hyperedge keeps the whole cascade", func(t *testing.T) {
		g := richGraph(t)
		g.Events().RemoveHyperEdge.Vote(func(*ph) bool { return false })
		removed := recordRemovals(g)

		ok, err := g.RemoveVertexByID("Alice")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, *removed)
		assertRichGraphIntact(t, g)
	})

	t.Run("a vetoed multiedge keeps the whole cascade", func(t *testing.T) {
		g := richGraph(t)
		g.Events().RemoveMultiEdge.Vote(func(*pm) bool { return false })
		removed := recordRemovals(g)

		ok, err := g.RemoveVertexByID("Alice")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, *removed)
		assertRichGraphIntact(t, g)
	})

	t.Run("full cascade over every kind", func(t *testing.T) {
		g := richGraph(t)
		removed := recordRemovals(g)

		ok, err := g.RemoveVertexByID("Alice")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"edge:e1", "edge:e2", "edge:e3", "edge:e4", "hyper:h1", "multi:m1", "vertex:Alice"}, *removed)
		assert.Zero(t, g.NumberOfHyperEdges())
		assert.Zero(t, g.NumberOfMultiEdges())
		assert.Zero(t, g.VertexByID("Bob").NumberOfHyperEdges())
	})

	t.Run("self-loops are removed once", func(t *testing.T) {
		g := newTestGraph(t)
		a := mustVertex(t, g, "a", "")
		b := mustVertex(t, g, "b", "")
		mustEdge(t, g, "aa", a, "self", a)
		mustEdge(t, g, "ab", a, "next", b)
		require.Equal(t, 3, a.Degree())

		var removed []string
		g.Events().RemoveEdge.Notify(func(e *pe) { removed = append(removed, e.ID()) })
		ok, err := g.RemoveVertex(a)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.ElementsMatch(t, []string{"aa", "ab"}, removed)
		assert.Zero(t, g.NumberOfEdges())
		assert.Zero(t, b.Degree())
	})

	t.Run("predicate removal", func(t *testing.T) {
		g := socialGraph(t)
		n, err := g.RemoveVerticesFunc(func(v *pv) bool { return v.Label() == "person" })
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Equal(t, []string{"Rex"}, VertexIDs(g.Vertices()))
		assert.Zero(t, g.NumberOfEdges())
	})

	t.Run("foreign vertex", func(t *testing.T) {
		g := socialGraph(t)
		other := newTestGraph(t)
		x := mustVertex(t, other, "x", "")
		_, err := g.RemoveVertex(x)
		assert.ErrorIs(t, err, ErrForeignElement)
		_, err = g.RemoveVertex(nil)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("clear", func(t *testing.T) {
		g := socialGraph(t)
		n, err := g.Clear()
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		assert.Zero(t, g.NumberOfVertices())
		assert.Zero(t, g.NumberOfEdges())
	})
}

func TestGraph_RemoveEdge(t *testing.T) {
	g := socialGraph(t)
	alice := g.VertexByID("Alice")
	e := g.EdgeByID("e1")

	ok, err := g.RemoveEdge(e)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, alice.OutDegree())
	assert.Zero(t, g.VertexByID("Bob").InDegree())
	assert.Equal(t, StateRemoved, e.State())

	n, err := g.RemoveEdgesFunc(func(e *pe) bool { return e.Label() == "knows" })
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"e3"}, EdgeIDs(g.Edges()))
}

func TestGraph_Veto(t *testing.T) {
	t.Run("vetoed adds change nothing", func(t *testing.T) {
		g := newTestGraph(t)
		a := mustVertex(t, g, "a", "")
		g.Events().AddVertex.Vote(func(*pv) bool { return false })
		g.Events().AddEdge.Vote(func(*pe) bool { return false })

		var notified int
		g.Events().AddVertex.Notify(func(*pv) { notified++ })

		for range 3 {
			v, err := g.AddVertex("b", "", nil)
			assert.NoError(t, err)
			assert.Nil(t, v)
			e, err := g.AddEdge("", a, "x", a, nil)
			assert.NoError(t, err)
			assert.Nil(t, e)
			assert.Equal(t, 1, g.NumberOfVertices())
			assert.Zero(t, g.NumberOfEdges())
		}
		assert.Zero(t, notified)
		assert.Zero(t, a.Degree())
	})

	t.Run("vetoed hyperedges and multiedges change nothing", func(t *testing.T) {
		g := newTestGraph(t)
		a := mustVertex(t, g, "a", "")
		b := mustVertex(t, g, "b", "")
		e := mustEdge(t, g, "ab", a, "x", b)
		cancelHyper := g.Events().AddHyperEdge.Vote(func(*ph) bool { return false })
		cancelMulti := g.Events().AddMultiEdge.Vote(func(*pm) bool { return false })

		var notified int
		g.Events().AddHyperEdge.Notify(func(*ph) { notified++ })
		g.Events().AddMultiEdge.Notify(func(*pm) { notified++ })

		for range 3 {
			h, err := g.AddHyperEdge("h", a, "meeting", []*pv{b}, nil)
			assert.NoError(t, err)
			assert.Nil(t, h)
			m, err := g.AddMultiEdge("m", "group", []*pe{e}, nil)
			assert.NoError(t, err)
			assert.Nil(t, m)
		}
		assert.Zero(t, notified)
		assert.Zero(t, g.NumberOfHyperEdges())
		assert.Zero(t, g.NumberOfMultiEdges())
		assert.Zero(t, a.NumberOfHyperEdges())
		assert.Zero(t, b.NumberOfMultiEdges())
		assert.Zero(t, e.NumberOfMultiEdges())

		cancelHyper()
		cancelMulti()
		h, err := g.AddHyperEdge("h", a, "meeting", []*pv{b}, nil)
		require.NoError(t, err)
		assert.NotNil(t, h)
		m, err := g.AddMultiEdge("m", "group", []*pe{e}, nil)
		require.NoError(t, err)
		assert.NotNil(t, m)
		assert.Equal(t, 2, notified)
	})

	t.Run("first veto short-circuits", func(t *testing.T) {
		g := newTestGraph(t)
		var calls []string
		g.Events().AddVertex.Vote(func(*pv) bool { calls = append(calls, "first"); return false })
		g.Events().AddVertex.Vote(func(*pv) bool { calls = append(calls, "second"); return true })

		v, err := g.AddVertex("a", "", nil)
		require.NoError(t, err)
		assert.Nil(t, v)
		assert.Equal(t, []string{"first"}, calls)
	})

	t.Run("cancel unregisters", func(t *testing.T) {
		g := newTestGraph(t)
		cancel := g.Events().AddVertex.Vote(func(*pv) bool { return false })
		voters, observers := g.Events().AddVertex.Len()
		assert.Equal(t, 1, voters)
		assert.Zero(t, observers)

		cancel()
		v, err := g.AddVertex("a", "", nil)
		require.NoError(t, err)
		assert.NotNil(t, v)
	})

	t.Run("voters see the initialized candidate", func(t *testing.T) {
		g := newTestGraph(t)
		g.Events().AddVertex.Vote(func(v *pv) bool {
			age, ok := PropertyAs[int](v.Property("age"))
			return ok && age >= 18
		})
		minor, err := g.AddVertex("kid", "person", func(p *PropertyBag[string, any]) { p.Set("age", 9) })
		require.NoError(t, err)
		assert.Nil(t, minor)
		adult, err := g.AddVertex("adult", "person", func(p *PropertyBag[string, any]) { p.Set("age", 40) })
		require.NoError(t, err)
		assert.NotNil(t, adult)
	})
}

func TestGraph_ElementOrdering(t *testing.T) {
	g := newTestGraph(t)
	a := mustVertex(t, g, "a", "")
	b := mustVertex(t, g, "b", "")
	e := mustEdge(t, g, "b", a, "x", b)

	assert.Negative(t, a.Compare(b))
	assert.Positive(t, b.Compare(a))
	assert.Zero(t, b.Compare(e))
	assert.True(t, a.Equal(g.VertexByID("a")))
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
	assert.Equal(t, "Vertex(a, Vertex)", a.String())
	assert.Equal(t, "Edge(b, x: a -> b)", e.String())
}

func TestGraph_Concurrency(t *testing.T) {
	g := newTestGraph(t)
	hub := mustVertex(t, g, "hub", "")

	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWorker {
				v, err := g.AddVertex(fmt.Sprintf("w%d-%d", w, i), "leaf", nil)
				if !assert.NoError(t, err) {
					return
				}
				_, err = g.AddEdge("", hub, "has", v, nil)
				assert.NoError(t, err)
				_ = hub.OutDegree()
				_ = g.NumberOfVerticesByLabel("leaf")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*perWorker+1, g.NumberOfVertices())
	assert.Equal(t, workers*perWorker, hub.OutDegree())
	assert.Equal(t, workers*perWorker, g.NumberOfEdges())
}
