package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/events"
	"github.com/MRamiBalles/tickmud/server/internal/platform/logger"
	"github.com/MRamiBalles/tickmud/server/internal/platform/metrics"
)

// Hub maintains the set of active clients. Player clients are indexed by
// actor so the engine can drop a connection when its actor leaves the world;
// spectator clients receive the audit event stream.
type Hub struct {
	clients    map[*Client]bool
	byActor    map[actor.ID]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.Mutex
	logger     *logger.Logger
	metrics    *metrics.Collector
}

// NewHub initializes a new WebSocket Hub.
func NewHub(log *logger.Logger, m *metrics.Collector) *Hub {
	if m == nil {
		m = metrics.NewCollector()
	}
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		byActor:    make(map[actor.ID]*Client),
		logger:     log,
		metrics:    m,
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("websocket hub shutting down")
			h.mu.Lock()
			for client := range h.clients {
				client.Close()
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if client.actorID != "" {
				h.byActor[client.actorID] = client
			}
			h.mu.Unlock()
			h.metrics.RecordWSConnection(1)
			h.logger.Info("websocket client connected", "actor", client.actorID, "spectator", client.spectator)
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				if h.byActor[client.actorID] == client {
					delete(h.byActor, client.actorID)
				}
				client.Close()
				h.metrics.RecordWSConnection(-1)
				h.logger.Info("websocket client disconnected", "actor", client.actorID)
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if client.spectator {
					client.enqueue(message)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Register adds a client. It is a no-op once the hub has stopped.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.Close()
	}
}

// Unregister removes a client and closes it.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Disconnect closes the connection bound to an actor, if any. It never
// blocks, so the engine can call it from a removal hook.
func (h *Hub) Disconnect(id actor.ID) {
	h.mu.Lock()
	c, ok := h.byActor[id]
	h.mu.Unlock()
	if ok {
		c.Close()
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Notice sends a line of text to every player client, e.g. before shutdown.
func (h *Hub) Notice(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if !client.spectator {
			client.Say(text)
		}
	}
}

// BroadcastEvent serializes a GameEvent and sends it to every spectator.
func (h *Hub) BroadcastEvent(event events.GameEvent) {
	payload, err := json.Marshal(Frame{Type: FrameEvent, Event: &event})
	if err != nil {
		h.logger.Error("failed to serialize event for websocket broadcast", "event", event.ID, "err", err)
		return
	}
	select {
	case h.broadcast <- payload:
	case <-h.done:
	}
}

// StartEventPoller spawns a goroutine that polls the EventLog and pushes new
// events to spectators, so the hub never runs on the tick goroutine.
func (h *Hub) StartEventPoller(ctx context.Context, eventLog *events.EventLog, every time.Duration) {
	go func() {
		pollInterval := time.NewTicker(every)
		defer pollInterval.Stop()

		// Start from the current end of the log; spectators see live events only.
		_, next := eventLog.Since(0)

		for {
			select {
			case <-ctx.Done():
				return
			case <-pollInterval.C:
				var batch []events.GameEvent
				batch, next = eventLog.Since(next)
				for _, event := range batch {
					h.BroadcastEvent(event)
				}
			}
		}
	}()
}
