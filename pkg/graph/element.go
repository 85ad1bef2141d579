package graph

import (
	"cmp"
	"fmt"
	"iter"
	"reflect"
	"sync"
	"sync/atomic"
)

// State is the lifecycle stage of an element.
type State int32

const (
	// StateConstructed elements exist only inside a factory call: they are
	// being initialized or voted on.
	StateConstructed State = iota
	StateLive
	// StateRemoved is terminal.
	StateRemoved
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateLive:
		return "live"
	case StateRemoved:
		return "removed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Identifiable is anything ordered by an id of type I. Every element kind
// implements it, which makes elements of different kinds comparable.
type Identifiable[I cmp.Ordered] interface {
	ID() I
}

// PropertyChange describes a pending or committed property mutation.
type PropertyChange[I, K cmp.Ordered, V any] struct {
	ElementID   I
	Key         K
	Previous    V
	HadPrevious bool
	Value       V
	Removed     bool
	// Revision is the revision the element had when voting started; for
	// observers it is the revision the change produced.
	Revision uint64
}

// element is the state shared by graphs, vertices, edges, multiedges and
// hyperedges: identity, a revision counter, a property bag and property
// hooks. The id and label never change after construction.
type element[I, L, K cmp.Ordered, V any] struct {
	id    I
	label L
	keys  ReservedKeys[K]
	state atomic.Int32

	// writeMu serializes property mutations including their voting; propMu
	// guards the bag and revision so voters can still read the element.
	writeMu  sync.Mutex
	propMu   sync.RWMutex
	revision uint64
	props    *PropertyBag[K, V]

	changing Hooks[PropertyChange[I, K, V]]
	changed  Hooks[PropertyChange[I, K, V]]
}

func (e *element[I, L, K, V]) init(id I, label L, keys ReservedKeys[K], initializer Initializer[K, V]) error {
	e.id = id
	e.label = label
	e.keys = keys
	e.props = NewPropertyBag[K, V]()
	if initializer != nil {
		initializer(e.props)
	}
	for _, k := range []K{keys.ID, keys.Revision, keys.Label} {
		if e.props.Contains(k) {
			return fmt.Errorf("%w: initializer set %v", ErrReservedKey, k)
		}
	}
	return nil
}

func (e *element[I, L, K, V]) ID() I { return e.id }

func (e *element[I, L, K, V]) Label() L { return e.label }

// Revision returns the revision counter. It starts at zero and grows by one
// with every committed property change.
func (e *element[I, L, K, V]) Revision() uint64 {
	e.propMu.RLock()
	defer e.propMu.RUnlock()
	return e.revision
}

func (e *element[I, L, K, V]) State() State { return State(e.state.Load()) }

func (e *element[I, L, K, V]) setState(s State) { e.state.Store(int32(s)) }

// Compare orders by id only, so elements of different kinds compare too.
func (e *element[I, L, K, V]) Compare(other Identifiable[I]) int {
	return cmp.Compare(e.id, other.ID())
}

// ReservedKeys returns the keys aliasing the identity of this element.
func (e *element[I, L, K, V]) ReservedKeys() ReservedKeys[K] { return e.keys }

// Property returns the value under key. The reserved keys resolve to the id,
// revision and label when those are representable as V.
func (e *element[I, L, K, V]) Property(key K) (V, bool) {
	e.propMu.RLock()
	defer e.propMu.RUnlock()
	if v, ok, reserved := e.reservedValue(key); reserved {
		return v, ok
	}
	return e.props.Get(key)
}

func (e *element[I, L, K, V]) HasProperty(key K) bool {
	_, ok := e.Property(key)
	return ok
}

func (e *element[I, L, K, V]) HasPropertyValue(key K, value V) bool {
	e.propMu.RLock()
	defer e.propMu.RUnlock()
	if v, ok, reserved := e.reservedValue(key); reserved {
		return ok && reflect.DeepEqual(v, value)
	}
	return e.props.ContainsValue(key, value)
}

// SetProperty stores value under key after the OnPropertyChanging voters
// approve it. Reserved keys cannot be written.
func (e *element[I, L, K, V]) SetProperty(key K, value V) (previous V, existed bool, err error) {
	return e.mutate(key, value, false)
}

// RemoveProperty deletes key after the OnPropertyChanging voters approve it.
// Removing an absent key is a no-op that does not bump the revision.
func (e *element[I, L, K, V]) RemoveProperty(key K) (removed V, existed bool, err error) {
	var zero V
	return e.mutate(key, zero, true)
}

func (e *element[I, L, K, V]) mutate(key K, value V, remove bool) (V, bool, error) {
	var zero V
	if e.keys.reserved(key) {
		return zero, false, fmt.Errorf("%w: %v", ErrReservedKey, key)
	}
	e.writeMu.Lock()
	if e.State() == StateRemoved {
		e.writeMu.Unlock()
		return zero, false, fmt.Errorf("%w: %v", ErrElementRemoved, e.id)
	}

	e.propMu.RLock()
	prev, existed := e.props.Get(key)
	rev := e.revision
	e.propMu.RUnlock()
	if remove && !existed {
		e.writeMu.Unlock()
		return zero, false, nil
	}

	change := PropertyChange[I, K, V]{
		ElementID:   e.id,
		Key:         key,
		Previous:    prev,
		HadPrevious: existed,
		Value:       value,
		Removed:     remove,
		Revision:    rev,
	}
	if !e.changing.approve(change) {
		e.writeMu.Unlock()
		return prev, existed, fmt.Errorf("%w: property %v of %v", ErrVetoed, key, e.id)
	}

	e.propMu.Lock()
	if remove {
		e.props.Remove(key)
	} else {
		e.props.Set(key, value)
	}
	e.revision++
	change.Revision = e.revision
	e.propMu.Unlock()
	e.writeMu.Unlock()

	e.changed.notify(change)
	return prev, existed, nil
}

// OnPropertyChanging registers a voter consulted before every property
// change of this element.
func (e *element[I, L, K, V]) OnPropertyChanging(fn Voter[PropertyChange[I, K, V]]) (cancel func()) {
	return e.changing.Vote(fn)
}

// OnPropertyChanged registers an observer told about every committed
// property change of this element.
func (e *element[I, L, K, V]) OnPropertyChanged(fn Observer[PropertyChange[I, K, V]]) (cancel func()) {
	return e.changed.Notify(fn)
}

// PropertyKeys yields every key, reserved ones first.
func (e *element[I, L, K, V]) PropertyKeys() iter.Seq[K] {
	keys, _ := e.snapshot(true)
	return func(yield func(K) bool) {
		for _, k := range keys {
			if !yield(k) {
				return
			}
		}
	}
}

// PropertyValues yields every value, reserved ones first.
func (e *element[I, L, K, V]) PropertyValues() iter.Seq[V] {
	_, values := e.snapshot(true)
	return func(yield func(V) bool) {
		for _, v := range values {
			if !yield(v) {
				return
			}
		}
	}
}

// Properties yields a snapshot of all properties including the reserved
// entries that are representable as V.
func (e *element[I, L, K, V]) Properties() iter.Seq2[K, V] {
	keys, values := e.snapshot(true)
	return entries(keys, values, nil)
}

// CustomProperties yields a snapshot of the properties without the reserved
// entries.
func (e *element[I, L, K, V]) CustomProperties() iter.Seq2[K, V] {
	keys, values := e.snapshot(false)
	return entries(keys, values, nil)
}

// FilterProperties yields the snapshot entries accepted by pred, reserved
// entries included.
func (e *element[I, L, K, V]) FilterProperties(pred func(K, V) bool) iter.Seq2[K, V] {
	keys, values := e.snapshot(true)
	return entries(keys, values, pred)
}

// NumberOfProperties counts custom properties only.
func (e *element[I, L, K, V]) NumberOfProperties() int {
	e.propMu.RLock()
	defer e.propMu.RUnlock()
	return e.props.Len()
}

// copyProperties returns an initializer reproducing this element's custom
// properties.
func (e *element[I, L, K, V]) copyProperties() Initializer[K, V] {
	e.propMu.RLock()
	snap := e.props.Clone()
	e.propMu.RUnlock()
	return func(props *PropertyBag[K, V]) {
		for p := snap.m.Oldest(); p != nil; p = p.Next() {
			props.Set(p.Key, p.Value)
		}
	}
}

func (e *element[I, L, K, V]) snapshot(withReserved bool) ([]K, []V) {
	e.propMu.RLock()
	defer e.propMu.RUnlock()
	keys := make([]K, 0, e.props.Len()+3)
	values := make([]V, 0, e.props.Len()+3)
	if withReserved {
		for _, k := range []K{e.keys.ID, e.keys.Revision, e.keys.Label} {
			if v, ok, _ := e.reservedValue(k); ok {
				keys = append(keys, k)
				values = append(values, v)
			}
		}
	}
	ck, cv := e.props.snapshot()
	return append(keys, ck...), append(values, cv...)
}

// reservedValue must be called with propMu held.
func (e *element[I, L, K, V]) reservedValue(key K) (v V, ok bool, reserved bool) {
	switch key {
	case e.keys.ID:
		v, ok = any(e.id).(V)
	case e.keys.Revision:
		v, ok = any(e.revision).(V)
	case e.keys.Label:
		v, ok = any(e.label).(V)
	default:
		return v, false, false
	}
	return v, ok, true
}
