package events

// Handler reacts to an event emitted on a bus.
type Handler func(GameEvent)

// Bus is a per-actor typed event dispatcher. Handlers run synchronously in
// registration order; core handlers always run before application handlers.
type Bus struct {
	core map[EventType][]Handler
	app  map[EventType][]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		core: make(map[EventType][]Handler),
		app:  make(map[EventType][]Handler),
	}
}

// Core registers an engine handler for the event type.
func (b *Bus) Core(t EventType, h Handler) {
	b.core[t] = append(b.core[t], h)
}

// On registers an application handler (quests, rewards) for the event type.
func (b *Bus) On(t EventType, h Handler) {
	b.app[t] = append(b.app[t], h)
}

// Emit dispatches the event to every handler registered for its type.
func (b *Bus) Emit(e GameEvent) {
	for _, h := range b.core[e.Type] {
		h(e)
	}
	for _, h := range b.app[e.Type] {
		h(e)
	}
}

// Listeners returns how many handlers are registered for the type.
func (b *Bus) Listeners(t EventType) int {
	return len(b.core[t]) + len(b.app[t])
}

// Clear drops every handler. Used when an actor leaves the world.
func (b *Bus) Clear() {
	b.core = make(map[EventType][]Handler)
	b.app = make(map[EventType][]Handler)
}
