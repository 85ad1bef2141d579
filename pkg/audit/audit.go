// Package audit records the mutations of a graph as structured log entries.
//
// A Logger writes every event through logrus and can keep the most recent
// events in memory for inspection. Attach subscribes a Logger to the
// notification hooks of a graph, so only committed mutations are recorded;
// vetoed additions and removals never reach the audit trail.
//
// Example Usage:
//
//	logger := audit.NewLogger(logrus.StandardLogger(), audit.DefaultConfig())
//	detach := audit.Attach(logger, g)
//	defer detach()
//
//	logger.SetAlertCallback(func(e audit.Event) {
//		fmt.Println("removed", e.ElementID)
//	})
//
// Event Types:
//
//	VERTEX_ADD, VERTEX_REMOVE, EDGE_ADD, EDGE_REMOVE, MULTIEDGE_ADD,
//	MULTIEDGE_REMOVE, HYPEREDGE_ADD, HYPEREDGE_REMOVE, PROPERTY_SET,
//	PROPERTY_REMOVE
package audit

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// EventType categorizes audit events.
type EventType string

const (
	EventVertexAdd       EventType = "VERTEX_ADD"
	EventVertexRemove    EventType = "VERTEX_REMOVE"
	EventEdgeAdd         EventType = "EDGE_ADD"
	EventEdgeRemove      EventType = "EDGE_REMOVE"
	EventMultiEdgeAdd    EventType = "MULTIEDGE_ADD"
	EventMultiEdgeRemove EventType = "MULTIEDGE_REMOVE"
	EventHyperEdgeAdd    EventType = "HYPEREDGE_ADD"
	EventHyperEdgeRemove EventType = "HYPEREDGE_REMOVE"
	EventPropertySet     EventType = "PROPERTY_SET"
	EventPropertyRemove  EventType = "PROPERTY_REMOVE"
)

// Event is one committed mutation. Ids and labels are formatted with
// fmt.Sprint so one Logger serves graphs of any type parameters.
type Event struct {
	// ID is assigned by the Logger: audit-{graph}-{sequence}.
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`

	Graph     string `json:"graph"`
	ElementID string `json:"element_id"`
	Label     string `json:"label,omitempty"`

	// Out and In are the endpoints of edges and hyperedges.
	Out string   `json:"out,omitempty"`
	In  []string `json:"in,omitempty"`

	// Key and Revision are set for property events.
	Key      string `json:"key,omitempty"`
	Revision uint64 `json:"revision,omitempty"`
}

func (e Event) fields() logrus.Fields {
	f := logrus.Fields{
		"audit_id": e.ID,
		"type":     string(e.Type),
		"graph":    e.Graph,
		"id":       e.ElementID,
	}
	if e.Label != "" {
		f["label"] = e.Label
	}
	if e.Out != "" {
		f["out"] = e.Out
	}
	if len(e.In) > 0 {
		f["in"] = e.In
	}
	if e.Key != "" {
		f["key"] = e.Key
		f["revision"] = e.Revision
	}
	return f
}

// Config holds audit logger configuration.
type Config struct {
	// Enabled controls whether events are recorded at all.
	Enabled bool
	// Level is the logrus level events are written at.
	Level logrus.Level
	// Retain keeps up to Retain recent events in memory. Zero keeps none.
	Retain int
	// Properties also records property changes of the graph's vertices and
	// edges.
	Properties bool
	// AlertOnEvents triggers the alert callback for these event types.
	AlertOnEvents []EventType
}

// DefaultConfig logs structural events at info level and keeps the last
// 1000 in memory.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Level:   logrus.InfoLevel,
		Retain:  1000,
		AlertOnEvents: []EventType{
			EventVertexRemove,
			EventEdgeRemove,
			EventMultiEdgeRemove,
			EventHyperEdgeRemove,
		},
	}
}

// Logger handles audit log writing. All methods are safe for concurrent
// use.
type Logger struct {
	mu       sync.Mutex
	log      logrus.FieldLogger
	config   Config
	sequence uint64
	events   []Event

	alertCallback func(Event)
}

// NewLogger creates a logger writing through log. A nil log discards
// output but still retains events.
func NewLogger(log logrus.FieldLogger, config Config) *Logger {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Logger{log: log.WithField("component", "audit"), config: config}
}

// SetAlertCallback sets a callback for the types in Config.AlertOnEvents.
func (l *Logger) SetAlertCallback(fn func(Event)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.alertCallback = fn
}

// Log records event, filling in the timestamp and id when they are empty.
func (l *Logger) Log(event Event) {
	if !l.config.Enabled {
		return
	}

	l.mu.Lock()
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	l.sequence++
	if event.ID == "" {
		event.ID = fmt.Sprintf("audit-%s-%d", event.Graph, l.sequence)
	}
	if l.config.Retain > 0 {
		if len(l.events) == l.config.Retain {
			copy(l.events, l.events[1:])
			l.events = l.events[:len(l.events)-1]
		}
		l.events = append(l.events, event)
	}
	var alert func(Event)
	if l.alertCallback != nil {
		for _, t := range l.config.AlertOnEvents {
			if event.Type == t {
				alert = l.alertCallback
				break
			}
		}
	}
	l.mu.Unlock()

	l.log.WithFields(event.fields()).Log(l.config.Level, "graph mutation")
	if alert != nil {
		alert(event)
	}
}

// Events returns a copy of the retained events, oldest first.
func (l *Logger) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Count returns how many events were logged since creation, retained or
// not.
func (l *Logger) Count() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sequence
}

// Reset drops the retained events.
func (l *Logger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}
