// Package loader reads graph documents into property graphs.
//
// Two layouts are understood, in YAML or JSON (a JSON document is valid
// YAML):
//
// The native layout mirrors the graph model:
//
//	id: social
//	vertices:
//	  - {id: Alice, label: person, properties: {age: 31}}
//	  - {id: Bob, label: person}
//	edges:
//	  - {id: e1, out: Alice, label: knows, in: Bob}
//	hyperedges:
//	  - {id: h1, out: Alice, label: meets, in: [Bob]}
//	multiedges:
//	  - {id: m1, label: bundle, edges: [e1]}
//
// The Neo4j combined export uses nodes and relationships:
//
//	{"nodes": [{"id": 1, "labels": ["Person"], "properties": {...}}],
//	 "relationships": [{"id": 7, "type": "KNOWS", "startNode": 1, "endNode": 2}]}
//
// Both layouts may appear in one document; nodes are added after vertices
// and relationships after edges.
package loader

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Document is a decoded graph document. Ids are left untyped because
// exports use numbers as often as strings.
type Document struct {
	ID         string         `yaml:"id"`
	Label      string         `yaml:"label"`
	Properties map[string]any `yaml:"properties"`

	Vertices   []VertexDoc    `yaml:"vertices"`
	Edges      []EdgeDoc      `yaml:"edges"`
	HyperEdges []HyperEdgeDoc `yaml:"hyperedges"`
	MultiEdges []MultiEdgeDoc `yaml:"multiedges"`

	Nodes         []NodeDoc         `yaml:"nodes"`
	Relationships []RelationshipDoc `yaml:"relationships"`
}

type VertexDoc struct {
	ID         any            `yaml:"id"`
	Label      string         `yaml:"label"`
	Properties map[string]any `yaml:"properties"`
}

type EdgeDoc struct {
	ID         any            `yaml:"id"`
	Out        any            `yaml:"out"`
	Label      string         `yaml:"label"`
	In         any            `yaml:"in"`
	Properties map[string]any `yaml:"properties"`
}

type HyperEdgeDoc struct {
	ID         any            `yaml:"id"`
	Out        any            `yaml:"out"`
	Label      string         `yaml:"label"`
	In         []any          `yaml:"in"`
	Properties map[string]any `yaml:"properties"`
}

type MultiEdgeDoc struct {
	ID         any            `yaml:"id"`
	Label      string         `yaml:"label"`
	Edges      []any          `yaml:"edges"`
	Properties map[string]any `yaml:"properties"`
}

// NodeDoc is a Neo4j export node. Multiple labels are joined with ":".
type NodeDoc struct {
	ID         any            `yaml:"id"`
	Labels     []string       `yaml:"labels"`
	Properties map[string]any `yaml:"properties"`
}

// NodeRef is the start or end of a relationship in apoc.export.json output.
type NodeRef struct {
	ID     any      `yaml:"id"`
	Labels []string `yaml:"labels"`
}

// RelationshipDoc is a Neo4j export relationship. Both the flat
// startNode/endNode form and the APOC start/end form are accepted.
type RelationshipDoc struct {
	ID         any            `yaml:"id"`
	Type       string         `yaml:"type"`
	StartNode  any            `yaml:"startNode"`
	EndNode    any            `yaml:"endNode"`
	Start      NodeRef        `yaml:"start"`
	End        NodeRef        `yaml:"end"`
	Properties map[string]any `yaml:"properties"`
}

// StartID returns the start node reference in either form.
func (r RelationshipDoc) StartID() any {
	if r.Start.ID != nil {
		return r.Start.ID
	}
	return r.StartNode
}

// EndID returns the end node reference in either form.
func (r RelationshipDoc) EndID() any {
	if r.End.ID != nil {
		return r.End.ID
	}
	return r.EndNode
}

// Decode reads one YAML or JSON document from r.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, fmt.Errorf("decode graph document: %w", err)
	}
	return &doc, nil
}

// Elements is the number of elements the document describes.
func (d *Document) Elements() int {
	return len(d.Vertices) + len(d.Edges) + len(d.HyperEdges) + len(d.MultiEdges) +
		len(d.Nodes) + len(d.Relationships)
}
