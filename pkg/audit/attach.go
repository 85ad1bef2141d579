package audit

import (
	"cmp"
	"fmt"
	"sync"

	"github.com/orneryd/propgraph/pkg/graph"
)

// Attach subscribes l to every add and remove notification of g and returns
// a function that unsubscribes it again. With Config.Properties set it also
// follows property changes of vertices and edges, including those already
// in g.
func Attach[I, L, K cmp.Ordered, V any](l *Logger, g *graph.Graph[I, L, K, V]) (detach func()) {
	a := &attachment[I, L, K, V]{
		logger: l,
		graph:  fmt.Sprint(g.ID()),
		props:  make(map[string]func()),
	}
	ev := g.Events()

	cancels := []func(){
		ev.AddVertex.Notify(func(v *graph.Vertex[I, L, K, V]) {
			a.logVertex(EventVertexAdd, v)
			a.follow("v", v.ID(), v.OnPropertyChanged)
		}),
		ev.RemoveVertex.Notify(func(v *graph.Vertex[I, L, K, V]) {
			a.unfollow("v", v.ID())
			a.logVertex(EventVertexRemove, v)
		}),
		ev.AddEdge.Notify(func(e *graph.Edge[I, L, K, V]) {
			a.logEdge(EventEdgeAdd, e)
			a.follow("e", e.ID(), e.OnPropertyChanged)
		}),
		ev.RemoveEdge.Notify(func(e *graph.Edge[I, L, K, V]) {
			a.unfollow("e", e.ID())
			a.logEdge(EventEdgeRemove, e)
		}),
		ev.AddMultiEdge.Notify(func(m *graph.MultiEdge[I, L, K, V]) {
			a.logMultiEdge(EventMultiEdgeAdd, m)
		}),
		ev.RemoveMultiEdge.Notify(func(m *graph.MultiEdge[I, L, K, V]) {
			a.logMultiEdge(EventMultiEdgeRemove, m)
		}),
		ev.AddHyperEdge.Notify(func(h *graph.HyperEdge[I, L, K, V]) {
			a.logHyperEdge(EventHyperEdgeAdd, h)
		}),
		ev.RemoveHyperEdge.Notify(func(h *graph.HyperEdge[I, L, K, V]) {
			a.logHyperEdge(EventHyperEdgeRemove, h)
		}),
	}

	for v := range g.Vertices() {
		a.follow("v", v.ID(), v.OnPropertyChanged)
	}
	for e := range g.Edges() {
		a.follow("e", e.ID(), e.OnPropertyChanged)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for _, c := range cancels {
				c()
			}
			a.unfollowAll()
		})
	}
}

type attachment[I, L, K cmp.Ordered, V any] struct {
	logger *Logger
	graph  string

	mu     sync.Mutex
	props  map[string]func()
	closed bool
}

// follow subscribes to property changes of one element; kind keeps vertex
// and edge ids apart.
func (a *attachment[I, L, K, V]) follow(kind string, id I, subscribe func(graph.Observer[graph.PropertyChange[I, K, V]]) func()) {
	if !a.logger.config.Properties {
		return
	}
	key := kind + ":" + fmt.Sprint(id)
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.props[key]; ok || a.closed {
		return
	}
	a.props[key] = subscribe(func(c graph.PropertyChange[I, K, V]) {
		t := EventPropertySet
		if c.Removed {
			t = EventPropertyRemove
		}
		a.logger.Log(Event{
			Type:      t,
			Graph:     a.graph,
			ElementID: fmt.Sprint(c.ElementID),
			Key:       fmt.Sprint(c.Key),
			Revision:  c.Revision,
		})
	})
}

func (a *attachment[I, L, K, V]) unfollow(kind string, id I) {
	key := kind + ":" + fmt.Sprint(id)
	a.mu.Lock()
	defer a.mu.Unlock()
	if cancel, ok := a.props[key]; ok {
		cancel()
		delete(a.props, key)
	}
}

func (a *attachment[I, L, K, V]) unfollowAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, cancel := range a.props {
		cancel()
	}
	clear(a.props)
	a.closed = true
}

func (a *attachment[I, L, K, V]) logVertex(t EventType, v *graph.Vertex[I, L, K, V]) {
	a.logger.Log(Event{
		Type:      t,
		Graph:     a.graph,
		ElementID: fmt.Sprint(v.ID()),
		Label:     fmt.Sprint(v.Label()),
	})
}

func (a *attachment[I, L, K, V]) logEdge(t EventType, e *graph.Edge[I, L, K, V]) {
	a.logger.Log(Event{
		Type:      t,
		Graph:     a.graph,
		ElementID: fmt.Sprint(e.ID()),
		Label:     fmt.Sprint(e.Label()),
		Out:       fmt.Sprint(e.OutVertexID()),
		In:        []string{fmt.Sprint(e.InVertexID())},
	})
}

func (a *attachment[I, L, K, V]) logHyperEdge(t EventType, h *graph.HyperEdge[I, L, K, V]) {
	ins := h.InVertexIDs()
	in := make([]string, len(ins))
	for i, id := range ins {
		in[i] = fmt.Sprint(id)
	}
	a.logger.Log(Event{
		Type:      t,
		Graph:     a.graph,
		ElementID: fmt.Sprint(h.ID()),
		Label:     fmt.Sprint(h.Label()),
		Out:       fmt.Sprint(h.OutVertexID()),
		In:        in,
	})
}

func (a *attachment[I, L, K, V]) logMultiEdge(t EventType, m *graph.MultiEdge[I, L, K, V]) {
	a.logger.Log(Event{
		Type:      t,
		Graph:     a.graph,
		ElementID: fmt.Sprint(m.ID()),
		Label:     fmt.Sprint(m.Label()),
	})
}
