package graph

import (
	"cmp"
	"slices"
	"sync"
)

// SchemaOptions configures SchemaGraph.
type SchemaOptions[L cmp.Ordered] struct {
	// Label is used as id and label of the schema graph. It must not be the
	// zero value.
	Label L
	// Strict fails extraction with a *SchemaViolationError when an edge label
	// connects more than one pair of vertex labels.
	Strict bool
	// ContinuousLearning keeps the schema in sync with later additions to
	// the source graph. In strict mode additions that would break strictness
	// are vetoed.
	ContinuousLearning bool
	// EnforceSchema freezes the schema and vetoes vertices and edges that do
	// not fit it. It turns ContinuousLearning off.
	EnforceSchema bool
}

// Schema is the label-level summary of a graph. Its graph has one vertex per
// vertex label (id and label both the vertex label) and one edge per distinct
// (edge label, out label, in label) triple.
type Schema[I, L, K cmp.Ordered, V any] struct {
	source *Graph[I, L, K, V]
	graph  *Graph[L, L, K, V]
	opts   SchemaOptions[L]

	mu      sync.Mutex
	pairs   map[L][]labelPair[L]
	cancels []func()
	err     error
}

type labelPair[L cmp.Ordered] struct {
	out, in L
}

// StrictSchemaGraph extracts a strict schema with no live hooks.
func (g *Graph[I, L, K, V]) StrictSchemaGraph(label L) (*Schema[I, L, K, V], error) {
	return g.SchemaGraph(SchemaOptions[L]{Label: label, Strict: true})
}

// SchemaGraph extracts the schema of g. The extraction and the installation
// of learning or enforcement hooks happen atomically with respect to
// mutations of g.
//
// Example:
//
//	s, err := g.SchemaGraph(graph.SchemaOptions[string]{Label: "schema", EnforceSchema: true})
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//	// from here on g only accepts vertices and edges matching the schema
func (g *Graph[I, L, K, V]) SchemaGraph(opts SchemaOptions[L]) (*Schema[I, L, K, V], error) {
	if opts.EnforceSchema {
		opts.ContinuousLearning = false
	}
	sg, err := New[L, L, K, V](opts.Label, opts.Label, Options[L, L, K]{Keys: g.opts.Keys})
	if err != nil {
		return nil, err
	}
	s := &Schema[I, L, K, V]{
		source: g,
		graph:  sg,
		opts:   opts,
		pairs:  make(map[L][]labelPair[L]),
	}

	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	for _, v := range g.vertices.all() {
		if err := s.learnVertex(v.label); err != nil {
			return nil, err
		}
	}
	for _, e := range g.edges.all() {
		out, okOut := g.vertices.get(e.outID)
		in, okIn := g.vertices.get(e.inID)
		if !okOut || !okIn {
			continue
		}
		if err := s.learnEdge(e.label, out.label, in.label); err != nil {
			return nil, err
		}
	}

	switch {
	case opts.EnforceSchema:
		s.cancels = append(s.cancels,
			g.events.AddVertex.Vote(func(v *Vertex[I, L, K, V]) bool {
				return s.knowsVertex(v.label)
			}),
			g.events.AddEdge.Vote(func(e *Edge[I, L, K, V]) bool {
				out, in, ok := s.endpointLabels(e)
				return ok && s.knowsEdge(e.label, out, in)
			}),
		)
	case opts.ContinuousLearning:
		if opts.Strict {
			s.cancels = append(s.cancels, g.events.AddEdge.Vote(func(e *Edge[I, L, K, V]) bool {
				out, in, ok := s.endpointLabels(e)
				return !ok || s.fitsStrict(e.label, out, in)
			}))
		}
		// learning runs inside the commit so the next voter already sees
		// what this edge taught the schema
		s.cancels = append(s.cancels,
			g.events.AddVertex.onCommit(func(v *Vertex[I, L, K, V]) {
				s.record(s.learnVertex(v.label))
			}),
			g.events.AddEdge.onCommit(func(e *Edge[I, L, K, V]) {
				out, in, ok := s.endpointLabels(e)
				if ok {
					s.record(s.learnEdge(e.label, out, in))
				}
			}),
		)
	}
	return s, nil
}

// Graph returns the schema graph.
func (s *Schema[I, L, K, V]) Graph() *Graph[L, L, K, V] { return s.graph }

// Source returns the graph the schema was extracted from.
func (s *Schema[I, L, K, V]) Source() *Graph[I, L, K, V] { return s.source }

func (s *Schema[I, L, K, V]) Options() SchemaOptions[L] { return s.opts }

// Endpoints returns the (out label, in label) pairs seen for edgeLabel.
func (s *Schema[I, L, K, V]) Endpoints(edgeLabel L) [][2]L {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out [][2]L
	for _, p := range s.pairs[edgeLabel] {
		out = append(out, [2]L{p.out, p.in})
	}
	return out
}

// Err returns the first error hit while learning continuously.
func (s *Schema[I, L, K, V]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close detaches the learning or enforcement hooks. The schema graph stays
// usable.
func (s *Schema[I, L, K, V]) Close() {
	s.mu.Lock()
	cancels := s.cancels
	s.cancels = nil
	s.mu.Unlock()
	for _, c := range cancels {
		c()
	}
}

func (s *Schema[I, L, K, V]) learnVertex(label L) error {
	_, err := s.graph.AddVertexIfNotExists(label, label, nil)
	return err
}

func (s *Schema[I, L, K, V]) learnEdge(label, out, in L) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pair := labelPair[L]{out: out, in: in}
	known := s.pairs[label]
	if slices.Contains(known, pair) {
		return nil
	}
	if s.opts.Strict && len(known) > 0 {
		return &SchemaViolationError{
			EdgeLabel: label,
			KnownOut:  known[0].out,
			KnownIn:   known[0].in,
			Out:       out,
			In:        in,
		}
	}

	sOut, err := s.graph.AddVertexIfNotExists(out, out, nil)
	if err != nil {
		return err
	}
	sIn, err := s.graph.AddVertexIfNotExists(in, in, nil)
	if err != nil {
		return err
	}
	var zero L
	if _, err := s.graph.AddEdge(zero, sOut, label, sIn, nil); err != nil {
		return err
	}
	s.pairs[label] = append(known, pair)
	return nil
}

func (s *Schema[I, L, K, V]) fitsStrict(label, out, in L) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	known := s.pairs[label]
	return len(known) == 0 || slices.Contains(known, labelPair[L]{out: out, in: in})
}

func (s *Schema[I, L, K, V]) knowsVertex(label L) bool {
	return s.graph.HasVertexID(label)
}

func (s *Schema[I, L, K, V]) knowsEdge(label, out, in L) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.pairs[label], labelPair[L]{out: out, in: in})
}

func (s *Schema[I, L, K, V]) endpointLabels(e *Edge[I, L, K, V]) (out, in L, ok bool) {
	ov, iv := e.OutVertex(), e.InVertex()
	if ov == nil || iv == nil {
		return out, in, false
	}
	return ov.label, iv.label, true
}

func (s *Schema[I, L, K, V]) record(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}
