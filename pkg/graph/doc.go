// Package graph implements an in-memory, generic property graph.
//
// A Graph holds four kinds of elements:
//   - Vertex: carries outgoing and incoming edges
//   - Edge: connects an out-vertex to an in-vertex
//   - MultiEdge: groups edges and keeps tail and head vertex sets
//   - HyperEdge: connects one tail vertex to a set of head vertices
//
// Every element, the graph included, has an immutable id and label, a
// revision counter and an insertion-ordered property bag. Three reserved
// property keys alias the id, revision and label so that iterating all
// properties shows the identity too.
//
// The graph is parameterized by four types: the id type I, the label type L
// and the property key type K (all cmp.Ordered) and the property value type V.
// PropertyGraph fixes them to string, string, string and any.
//
// Label arguments come in two flavours. Methods named *ByLabel select
// elements carrying one of the labels, and selecting no labels yields
// nothing. Adjacency queries taking variadic labels (OutEdges, Out,
// OutDegree, Edge.MultiEdges and friends) use them as a filter, and no
// labels means no filtering.
//
// # Events
//
// Every structural mutation goes through two hook phases, exposed by
// Graph.Events. Voters run first and any of them can veto; a vetoed Add
// returns a nil element and a nil error, and the graph is unchanged.
// Observers run after the change committed. Elements offer the same pair
// for property changes (OnPropertyChanging and OnPropertyChanged).
//
// Removing a vertex removes its incident edges, hyperedges and multiedges
// too. The cascade is voted on as a whole before anything changes.
//
// # Algorithms
//
// Components splits a graph into weakly connected components and
// SchemaGraph derives the label-level schema of a graph, optionally learning
// continuously or enforcing it on later additions.
//
// Example:
//
//	g, _ := graph.NewPropertyGraph("social")
//	alice, _ := g.AddVertex("Alice", "person", nil)
//	bob, _ := g.AddVertex("Bob", "person", nil)
//	rex, _ := g.AddVertex("Rex", "pet", nil)
//	g.AddEdge("", alice, "knows", bob, nil)
//	g.AddEdge("", alice, "loves", rex, nil)
//
//	fmt.Println(alice.OutDegree("knows")) // 1
//	for n := range alice.Out() {
//		fmt.Println(n.ID()) // Bob, Rex
//	}
package graph
