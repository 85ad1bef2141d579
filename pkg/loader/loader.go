package loader

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/orneryd/propgraph/pkg/convert"
	"github.com/orneryd/propgraph/pkg/graph"
)

// ErrInvalidDocument wraps every structural problem of a document.
var ErrInvalidDocument = errors.New("loader: invalid document")

type (
	propertyGraph = graph.PropertyGraph
	vertex        = graph.Vertex[string, string, string, any]
	edge          = graph.Edge[string, string, string, any]
	bag           = graph.PropertyBag[string, any]
)

// Options configures Build and Load.
type Options struct {
	// Graph is passed to graph.New. The zero value uses graph defaults.
	Graph graph.Options[string, string, string]
	// GraphID is used when the document has no id.
	GraphID string
	// Strict turns dangling references into errors. Otherwise the element
	// is skipped and reported in Result.Skipped.
	Strict bool
	// Raw keeps property values exactly as decoded instead of passing them
	// through convert.Normalize.
	Raw bool
	// Log receives a warning per skipped element. nil logs nothing.
	Log logrus.FieldLogger
	// Prepare runs on the empty graph before any element is added, e.g. to
	// register hooks.
	Prepare func(*graph.PropertyGraph)
}

// Result summarizes a load.
type Result struct {
	Vertices   int
	Edges      int
	HyperEdges int
	MultiEdges int
	Properties int
	// Skipped describes elements left out in non-strict mode and reserved
	// property keys that were dropped.
	Skipped []string
}

// Total is the number of elements added.
func (r Result) Total() int {
	return r.Vertices + r.Edges + r.HyperEdges + r.MultiEdges
}

// LoadFile decodes the document at path and builds it. A document without
// an id is named after the file.
func LoadFile(path string, opts Options) (*graph.PropertyGraph, Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Result{}, err
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, Result{}, fmt.Errorf("%s: %w", path, err)
	}
	if opts.GraphID == "" {
		opts.GraphID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return Build(doc, opts)
}

// Build creates a graph from doc. Elements are added in document order:
// vertices, nodes, edges, relationships, hyperedges, multiedges.
func Build(doc *Document, opts Options) (*graph.PropertyGraph, Result, error) {
	id := doc.ID
	if id == "" {
		id = opts.GraphID
	}
	if id == "" {
		id = "graph"
	}
	label := doc.Label
	if label == "" {
		label = "PropertyGraph"
	}
	g, err := graph.New[string, string, string, any](id, label, opts.Graph)
	if err != nil {
		return nil, Result{}, err
	}

	if opts.Prepare != nil {
		opts.Prepare(g)
	}
	b := &builder{g: g, opts: opts, keys: g.Options().Keys}
	if err := b.build(doc); err != nil {
		return nil, b.res, err
	}
	return g, b.res, nil
}

type builder struct {
	g    *propertyGraph
	opts Options
	keys graph.ReservedKeys[string]
	res  Result
}

func (b *builder) build(doc *Document) error {
	props := b.properties("graph", doc.Properties)
	for _, k := range slices.Sorted(maps.Keys(props)) {
		if _, _, err := b.g.SetProperty(k, props[k]); err != nil {
			return err
		}
	}
	for i, v := range doc.Vertices {
		if err := b.addVertex(fmt.Sprintf("vertices[%d]", i), v.ID, v.Label, v.Properties); err != nil {
			return err
		}
	}
	for i, n := range doc.Nodes {
		if err := b.addVertex(fmt.Sprintf("nodes[%d]", i), n.ID, strings.Join(n.Labels, ":"), n.Properties); err != nil {
			return err
		}
	}
	for i, e := range doc.Edges {
		if err := b.addEdge(fmt.Sprintf("edges[%d]", i), e.ID, e.Out, e.Label, e.In, e.Properties); err != nil {
			return err
		}
	}
	for i, r := range doc.Relationships {
		if err := b.addEdge(fmt.Sprintf("relationships[%d]", i), r.ID, r.StartID(), r.Type, r.EndID(), r.Properties); err != nil {
			return err
		}
	}
	for i, h := range doc.HyperEdges {
		if err := b.addHyperEdge(fmt.Sprintf("hyperedges[%d]", i), h); err != nil {
			return err
		}
	}
	for i, m := range doc.MultiEdges {
		if err := b.addMultiEdge(fmt.Sprintf("multiedges[%d]", i), m); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) addVertex(at string, rawID any, label string, props map[string]any) error {
	vid, err := b.id(at, rawID)
	if err != nil {
		return err
	}
	v, err := b.g.AddVertex(vid, label, b.initializer(at, props))
	if err != nil {
		return fmt.Errorf("%s: %w", at, err)
	}
	if v == nil {
		return fmt.Errorf("%s: %w", at, graph.ErrVetoed)
	}
	b.res.Vertices++
	return nil
}

func (b *builder) addEdge(at string, rawID, rawOut any, label string, rawIn any, props map[string]any) error {
	eid, err := b.id(at, rawID)
	if err != nil {
		return err
	}
	out, ok, err := b.vertex(at, "out", rawOut)
	if !ok {
		return err
	}
	in, ok, err := b.vertex(at, "in", rawIn)
	if !ok {
		return err
	}
	e, err := b.g.AddEdge(eid, out, label, in, b.initializer(at, props))
	if err != nil {
		return fmt.Errorf("%s: %w", at, err)
	}
	if e == nil {
		return fmt.Errorf("%s: %w", at, graph.ErrVetoed)
	}
	b.res.Edges++
	return nil
}

func (b *builder) addHyperEdge(at string, h HyperEdgeDoc) error {
	hid, err := b.id(at, h.ID)
	if err != nil {
		return err
	}
	out, ok, err := b.vertex(at, "out", h.Out)
	if !ok {
		return err
	}
	ins := make([]*vertex, 0, len(h.In))
	for i, raw := range h.In {
		in, ok, err := b.vertex(at, fmt.Sprintf("in[%d]", i), raw)
		if !ok {
			return err
		}
		ins = append(ins, in)
	}
	he, err := b.g.AddHyperEdge(hid, out, h.Label, ins, b.initializer(at, h.Properties))
	if err != nil {
		return fmt.Errorf("%s: %w", at, err)
	}
	if he == nil {
		return fmt.Errorf("%s: %w", at, graph.ErrVetoed)
	}
	b.res.HyperEdges++
	return nil
}

func (b *builder) addMultiEdge(at string, m MultiEdgeDoc) error {
	mid, err := b.id(at, m.ID)
	if err != nil {
		return err
	}
	members := make([]*edge, 0, len(m.Edges))
	for i, raw := range m.Edges {
		eid, ok := convert.ToString(raw)
		if !ok {
			return fmt.Errorf("%w: %s.edges[%d]: unusable id %v", ErrInvalidDocument, at, i, raw)
		}
		e, found := b.g.TryGetEdgeByID(eid)
		if !found {
			return b.dangling(at, fmt.Sprintf("edges[%d]", i), "edge", eid)
		}
		members = append(members, e)
	}
	me, err := b.g.AddMultiEdge(mid, m.Label, members, b.initializer(at, m.Properties))
	if err != nil {
		return fmt.Errorf("%s: %w", at, err)
	}
	if me == nil {
		return fmt.Errorf("%s: %w", at, graph.ErrVetoed)
	}
	b.res.MultiEdges++
	return nil
}

// vertex resolves a reference. ok is false when the referring element must
// not be added; err is then set in strict mode.
func (b *builder) vertex(at, field string, raw any) (v *vertex, ok bool, err error) {
	vid, conv := convert.ToString(raw)
	if !conv || vid == "" {
		return nil, false, fmt.Errorf("%w: %s.%s: unusable vertex reference %v", ErrInvalidDocument, at, field, raw)
	}
	v, found := b.g.TryGetVertexByID(vid)
	if !found {
		return nil, false, b.dangling(at, field, "vertex", vid)
	}
	return v, true, nil
}

func (b *builder) dangling(at, field, kind, ref string) error {
	if b.opts.Strict {
		return fmt.Errorf("%s.%s: %w: %s %s", at, field, graph.ErrUnknownID, kind, ref)
	}
	msg := fmt.Sprintf("%s: unknown %s %s", at, kind, ref)
	b.res.Skipped = append(b.res.Skipped, msg)
	if b.opts.Log != nil {
		b.opts.Log.WithFields(logrus.Fields{"at": at, "ref": ref}).Warnf("skipping element with unknown %s", kind)
	}
	return nil
}

// id converts a document id. A missing id lets the graph generate one.
func (b *builder) id(at string, raw any) (string, error) {
	if raw == nil {
		return "", nil
	}
	s, ok := convert.ToString(raw)
	if !ok {
		return "", fmt.Errorf("%w: %s: unusable id %v", ErrInvalidDocument, at, raw)
	}
	return s, nil
}

func (b *builder) initializer(at string, props map[string]any) graph.Initializer[string, any] {
	clean := b.properties(at, props)
	if len(clean) == 0 {
		return nil
	}
	keys := slices.Sorted(maps.Keys(clean))
	return func(p *bag) {
		for _, k := range keys {
			p.Set(k, clean[k])
		}
	}
}

// properties drops reserved keys and normalizes values. Keys are visited in
// sorted order since decoded maps are unordered.
func (b *builder) properties(at string, props map[string]any) map[string]any {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]any, len(props))
	for _, k := range slices.Sorted(maps.Keys(props)) {
		v := props[k]
		if k == b.keys.ID || k == b.keys.Revision || k == b.keys.Label {
			b.res.Skipped = append(b.res.Skipped, fmt.Sprintf("%s: reserved property %s", at, k))
			continue
		}
		if !b.opts.Raw {
			v = convert.Normalize(v)
		}
		out[k] = v
	}
	b.res.Properties += len(out)
	return out
}
