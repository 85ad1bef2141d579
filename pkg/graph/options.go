package graph

import (
	"cmp"
	"reflect"
)

// ReservedKeys names the three property keys that alias an element's
// identity inside its property bag. They must be pairwise distinct.
type ReservedKeys[K cmp.Ordered] struct {
	ID       K
	Revision K
	Label    K
}

func (k ReservedKeys[K]) validate() error {
	if k.ID == k.Revision || k.ID == k.Label || k.Revision == k.Label {
		return invalidArgument("reserved keys must be distinct, got id=%v revision=%v label=%v", k.ID, k.Revision, k.Label)
	}
	return nil
}

func (k ReservedKeys[K]) reserved(key K) bool {
	return key == k.ID || key == k.Revision || key == k.Label
}

// DefaultLabels is the label registry consulted when a factory is called
// with the zero label.
type DefaultLabels[L cmp.Ordered] struct {
	Vertex    L
	Edge      L
	MultiEdge L
	HyperEdge L
}

// Options configures a graph at construction time.
//
// Zero fields are filled by DefaultOptions: string-kinded keys and labels get
// readable defaults and every nil generator gets a per-kind default
// (nanoid for string-kinded ids, a sequence starting at 1 for numeric ids).
type Options[I, L, K cmp.Ordered] struct {
	Keys   ReservedKeys[K]
	Labels DefaultLabels[L]

	VertexIDs    IDGenerator[I]
	EdgeIDs      IDGenerator[I]
	MultiEdgeIDs IDGenerator[I]
	HyperEdgeIDs IDGenerator[I]
}

// DefaultOptions returns the options New uses when handed a zero Options.
func DefaultOptions[I, L, K cmp.Ordered]() Options[I, L, K] {
	var opts Options[I, L, K]
	return opts.withDefaults()
}

func (o Options[I, L, K]) withDefaults() Options[I, L, K] {
	var zk K
	if o.Keys == (ReservedKeys[K]{}) {
		o.Keys = ReservedKeys[K]{
			ID:       named[K]("Id", zk),
			Revision: named[K]("RevId", zk),
			Label:    named[K]("Label", zk),
		}
	}
	var zl L
	if o.Labels.Vertex == zl {
		o.Labels.Vertex = named[L]("Vertex", zl)
	}
	if o.Labels.Edge == zl {
		o.Labels.Edge = named[L]("Edge", zl)
	}
	if o.Labels.MultiEdge == zl {
		o.Labels.MultiEdge = named[L]("MultiEdge", zl)
	}
	if o.Labels.HyperEdge == zl {
		o.Labels.HyperEdge = named[L]("HyperEdge", zl)
	}
	if o.VertexIDs == nil {
		o.VertexIDs = defaultIDs[I]()
	}
	if o.EdgeIDs == nil {
		o.EdgeIDs = defaultIDs[I]()
	}
	if o.MultiEdgeIDs == nil {
		o.MultiEdgeIDs = defaultIDs[I]()
	}
	if o.HyperEdgeIDs == nil {
		o.HyperEdgeIDs = defaultIDs[I]()
	}
	return o
}

// named converts s into T when T is string-kinded, otherwise returns
// fallback.
func named[T cmp.Ordered](s string, fallback T) T {
	var t T
	rv := reflect.ValueOf(&t).Elem()
	if rv.Kind() != reflect.String {
		return fallback
	}
	rv.SetString(s)
	return t
}
