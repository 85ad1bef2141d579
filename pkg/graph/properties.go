package graph

import (
	"cmp"
	"iter"
	"reflect"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// PropertyBag is an insertion-ordered key/value mapping.
//
// A bag on its own is not safe for concurrent use. Elements guard their bag
// and only hand it out unguarded to initializers, before the element is
// visible to anyone else.
type PropertyBag[K cmp.Ordered, V any] struct {
	m *orderedmap.OrderedMap[K, V]
}

// Initializer pre-populates the custom properties of a new element. It runs
// once, before voting, on a bag that only the factory can see.
type Initializer[K cmp.Ordered, V any] func(props *PropertyBag[K, V])

// NewPropertyBag returns an empty bag.
func NewPropertyBag[K cmp.Ordered, V any]() *PropertyBag[K, V] {
	return &PropertyBag[K, V]{m: orderedmap.New[K, V]()}
}

// Get returns the value stored under key.
func (b *PropertyBag[K, V]) Get(key K) (V, bool) {
	return b.m.Get(key)
}

// Set stores value under key and returns the value it replaced.
func (b *PropertyBag[K, V]) Set(key K, value V) (previous V, existed bool) {
	return b.m.Set(key, value)
}

// Remove deletes key and returns the value it held.
func (b *PropertyBag[K, V]) Remove(key K) (removed V, existed bool) {
	return b.m.Delete(key)
}

func (b *PropertyBag[K, V]) Contains(key K) bool {
	_, ok := b.m.Get(key)
	return ok
}

// ContainsValue reports whether key is present and holds a value deeply
// equal to value.
func (b *PropertyBag[K, V]) ContainsValue(key K, value V) bool {
	v, ok := b.m.Get(key)
	return ok && reflect.DeepEqual(v, value)
}

func (b *PropertyBag[K, V]) Len() int {
	return b.m.Len()
}

// Keys yields the keys present when Keys was called, in insertion order.
func (b *PropertyBag[K, V]) Keys() iter.Seq[K] {
	keys, _ := b.snapshot()
	return func(yield func(K) bool) {
		for _, k := range keys {
			if !yield(k) {
				return
			}
		}
	}
}

// Values yields the values present when Values was called, in insertion order.
func (b *PropertyBag[K, V]) Values() iter.Seq[V] {
	_, values := b.snapshot()
	return func(yield func(V) bool) {
		for _, v := range values {
			if !yield(v) {
				return
			}
		}
	}
}

// All yields a snapshot of every entry.
func (b *PropertyBag[K, V]) All() iter.Seq2[K, V] {
	return b.Filter(nil)
}

// Filter yields the snapshot entries accepted by pred. A nil pred accepts
// everything. pred runs lazily, as the sequence is consumed.
func (b *PropertyBag[K, V]) Filter(pred func(K, V) bool) iter.Seq2[K, V] {
	keys, values := b.snapshot()
	return entries(keys, values, pred)
}

// Clone returns an independent copy of the bag.
func (b *PropertyBag[K, V]) Clone() *PropertyBag[K, V] {
	c := NewPropertyBag[K, V]()
	for p := b.m.Oldest(); p != nil; p = p.Next() {
		c.m.Set(p.Key, p.Value)
	}
	return c
}

func (b *PropertyBag[K, V]) snapshot() ([]K, []V) {
	keys := make([]K, 0, b.m.Len())
	values := make([]V, 0, b.m.Len())
	for p := b.m.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
		values = append(values, p.Value)
	}
	return keys, values
}

func entries[K, V any](keys []K, values []V, pred func(K, V) bool) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i, k := range keys {
			if pred != nil && !pred(k, values[i]) {
				continue
			}
			if !yield(k, values[i]) {
				return
			}
		}
	}
}

// PropertyAs narrows a property lookup to T. It never converts: a missing
// key or a value of another dynamic type yields the zero T and false.
//
// Example:
//
//	age, ok := graph.PropertyAs[int](alice.Property("age"))
func PropertyAs[T, V any](value V, ok bool) (T, bool) {
	var zero T
	if !ok {
		return zero, false
	}
	t, ok := any(value).(T)
	if !ok {
		return zero, false
	}
	return t, true
}
