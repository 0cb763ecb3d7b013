package ecs

// EventType identifies what happened to an entity.
type EventType string

const (
	EventEvolutionStarted   EventType = "evolution_started"
	EventStageConfirmed     EventType = "stage_confirmed"
	EventEvolutionCancelled EventType = "evolution_cancelled"
	EventFullReset          EventType = "full_reset"
	EventIconShown          EventType = "icon_shown"
	EventHoldToggled        EventType = "hold_toggled"
)

// Event is pushed by systems and drained by the frame driver.
type Event struct {
	Type   EventType
	Entity Entity
	Frame  uint64
	Data   any
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
