package graph

import (
	"cmp"
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// idSet is an insertion-ordered set of ids. Vertices, edges and multiedges
// keep their adjacency as idSets and resolve ids through the owning graph.
type idSet[I cmp.Ordered] struct {
	m *orderedmap.OrderedMap[I, struct{}]
}

func newIDSet[I cmp.Ordered]() idSet[I] {
	return idSet[I]{m: orderedmap.New[I, struct{}]()}
}

func (s idSet[I]) add(id I) bool {
	_, present := s.m.Set(id, struct{}{})
	return !present
}

func (s idSet[I]) remove(id I) bool {
	_, present := s.m.Delete(id)
	return present
}

func (s idSet[I]) has(id I) bool {
	_, ok := s.m.Get(id)
	return ok
}

func (s idSet[I]) len() int { return s.m.Len() }

func (s idSet[I]) ids() []I {
	out := make([]I, 0, s.m.Len())
	for p := s.m.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

// labelIndex maps a label to the ids carrying it, in insertion order.
type labelIndex[I, L cmp.Ordered] map[L]idSet[I]

func (x labelIndex[I, L]) add(label L, id I) {
	s, ok := x[label]
	if !ok {
		s = newIDSet[I]()
		x[label] = s
	}
	s.add(id)
}

func (x labelIndex[I, L]) remove(label L, id I) {
	s, ok := x[label]
	if !ok {
		return
	}
	s.remove(id)
	if s.len() == 0 {
		delete(x, label)
	}
}

func (x labelIndex[I, L]) count(label L) int {
	if s, ok := x[label]; ok {
		return s.len()
	}
	return 0
}

// table is one element collection of a graph: elements by id in insertion
// order plus a label index.
type table[I, L cmp.Ordered, T labeled[I, L]] struct {
	byID    *orderedmap.OrderedMap[I, T]
	byLabel labelIndex[I, L]
}

type labeled[I, L cmp.Ordered] interface {
	ID() I
	Label() L
}

func newTable[I, L cmp.Ordered, T labeled[I, L]]() table[I, L, T] {
	return table[I, L, T]{
		byID:    orderedmap.New[I, T](),
		byLabel: labelIndex[I, L]{},
	}
}

func (t table[I, L, T]) get(id I) (T, bool) {
	return t.byID.Get(id)
}

func (t table[I, L, T]) put(el T) {
	t.byID.Set(el.ID(), el)
	t.byLabel.add(el.Label(), el.ID())
}

func (t table[I, L, T]) delete(el T) {
	t.byID.Delete(el.ID())
	t.byLabel.remove(el.Label(), el.ID())
}

func (t table[I, L, T]) len() int { return t.byID.Len() }

func (t table[I, L, T]) all() []T {
	out := make([]T, 0, t.byID.Len())
	for p := t.byID.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Value)
	}
	return out
}

// lookup resolves ids in order, skipping unknown ones and keeping duplicates.
func (t table[I, L, T]) lookup(ids []I) []T {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if el, ok := t.byID.Get(id); ok {
			out = append(out, el)
		}
	}
	return out
}

// withLabels returns the elements carrying any of labels in collection
// order. Repeated labels do not repeat elements.
func (t table[I, L, T]) withLabels(labels []L) []T {
	switch len(labels) {
	case 0:
		return nil
	case 1:
		s, ok := t.byLabel[labels[0]]
		if !ok {
			return nil
		}
		return t.lookup(s.ids())
	}
	want := make(map[L]struct{}, len(labels))
	for _, l := range labels {
		want[l] = struct{}{}
	}
	var out []T
	for p := t.byID.Oldest(); p != nil; p = p.Next() {
		if _, ok := want[p.Value.Label()]; ok {
			out = append(out, p.Value)
		}
	}
	return out
}

func (t table[I, L, T]) countLabels(labels []L) int {
	seen := make(map[L]struct{}, len(labels))
	n := 0
	for _, l := range labels {
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		n += t.byLabel.count(l)
	}
	return n
}

// seq yields items accepted by pred lazily. A nil pred accepts everything.
func seq[T any](items []T, pred func(T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, it := range items {
			if pred != nil && !pred(it) {
				continue
			}
			if !yield(it) {
				return
			}
		}
	}
}

type hasLabel[L cmp.Ordered] interface {
	Label() L
}

func labelFilter[T hasLabel[L], L cmp.Ordered](labels []L) func(T) bool {
	if len(labels) == 0 {
		return nil
	}
	if len(labels) == 1 {
		want := labels[0]
		return func(el T) bool { return el.Label() == want }
	}
	return func(el T) bool {
		for _, l := range labels {
			if el.Label() == l {
				return true
			}
		}
		return false
	}
}

func countSeq[T any](items []T, pred func(T) bool) int {
	if pred == nil {
		return len(items)
	}
	n := 0
	for _, it := range items {
		if pred(it) {
			n++
		}
	}
	return n
}
