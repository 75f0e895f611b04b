package sim

// EventType identifies a simulation event.
type EventType int

const (
	EventRunStarted EventType = iota
	EventCollision
	EventRunEnded
)

// Event is emitted from inside Tick, Start or Reset.
type Event struct {
	Type      EventType
	RunID     string
	Score     float64 // rounded elapsed time, set on EventRunEnded
	HighScore float64
	Ticks     uint64 // ticks played in the run
}

// EventHandler receives events synchronously on the simulation goroutine.
type EventHandler func(Event)

// EventBus fans events out to subscribers by type. It is not safe for
// concurrent use; subscribe before the first tick.
type EventBus struct {
	handlers map[EventType][]EventHandler
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

// Subscribe registers fn for events of type t.
func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

// Emit calls every handler subscribed to e.Type in subscription order.
func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}
