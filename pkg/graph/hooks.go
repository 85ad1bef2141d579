package graph

import (
	"slices"
	"sync"
)

// Voter decides whether a pending change may commit. Returning false vetoes
// it.
type Voter[T any] func(T) bool

// Observer is told about a change after it committed.
type Observer[T any] func(T)

// Hooks holds the voters and observers of one kind of change.
//
// Voters run in registration order and stop at the first veto. Observers
// run in registration order after the change is visible. Both registries are
// copied before invocation, so a hook may register or cancel hooks without
// affecting the call in progress.
//
// Voters attached to a graph run while the graph holds its mutation lock and
// must not mutate that same graph. Reads are fine.
type Hooks[T any] struct {
	mu        sync.Mutex
	seq       uint64
	voters    []hook[Voter[T]]
	observers []hook[Observer[T]]
	// commits run after the change is visible but before the mutation lock
	// is released, so they see mutations strictly in commit order.
	commits []hook[Observer[T]]
}

type hook[F any] struct {
	id uint64
	fn F
}

// Vote registers fn as a voter. Calling cancel unregisters it.
func (h *Hooks[T]) Vote(fn Voter[T]) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq++
	id := h.seq
	h.voters = append(h.voters, hook[Voter[T]]{id: id, fn: fn})
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.voters = without(h.voters, id)
	}
}

// Notify registers fn as an observer. Calling cancel unregisters it.
func (h *Hooks[T]) Notify(fn Observer[T]) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq++
	id := h.seq
	h.observers = append(h.observers, hook[Observer[T]]{id: id, fn: fn})
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.observers = without(h.observers, id)
	}
}

// onCommit registers fn to run inside the mutation lock right after a
// change commits. fn must not mutate the graph that owns h.
func (h *Hooks[T]) onCommit(fn Observer[T]) (cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq++
	id := h.seq
	h.commits = append(h.commits, hook[Observer[T]]{id: id, fn: fn})
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.commits = without(h.commits, id)
	}
}

// Len returns the number of registered voters and observers.
func (h *Hooks[T]) Len() (voters, observers int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.voters), len(h.observers)
}

func (h *Hooks[T]) approve(v T) bool {
	h.mu.Lock()
	voters := h.voters
	h.mu.Unlock()
	for _, vt := range voters {
		if !vt.fn(v) {
			return false
		}
	}
	return true
}

func (h *Hooks[T]) committed(v T) {
	h.mu.Lock()
	commits := h.commits
	h.mu.Unlock()
	for _, c := range commits {
		c.fn(v)
	}
}

func (h *Hooks[T]) notify(v T) {
	h.mu.Lock()
	observers := h.observers
	h.mu.Unlock()
	for _, o := range observers {
		o.fn(v)
	}
}

// without returns hooks minus id. It never edits the backing array in place
// since approve and notify may still be iterating it.
func without[F any](hooks []hook[F], id uint64) []hook[F] {
	i := slices.IndexFunc(hooks, func(h hook[F]) bool { return h.id == id })
	if i < 0 {
		return hooks
	}
	out := make([]hook[F], 0, len(hooks)-1)
	out = append(out, hooks[:i]...)
	return append(out, hooks[i+1:]...)
}
