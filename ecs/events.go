package ecs

// EventType names what happened to an entity during a tick.
type EventType string

const (
	// EventClipFinished is pushed once when a non-looping clip reaches its end.
	EventClipFinished EventType = "clip_finished"
	// EventDiagnostic carries a rig.Diagnostic the rig had not reported before.
	EventDiagnostic EventType = "diagnostic"
)

type Event struct {
	Type   EventType
	Entity Entity
	Data   any
}

// EventQueue collects events pushed by systems until the owner drains them.
// A nil queue drops everything.
type EventQueue struct {
	pending []Event
}

func (q *EventQueue) Push(events ...Event) {
	if q != nil {
		q.pending = append(q.pending, events...)
	}
}

// Drain hands back the pending events in push order and empties the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.pending) == 0 {
		return nil
	}
	out := q.pending
	q.pending = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.pending)
}
