package network

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
	// Outbound frames buffered per client before new ones are dropped.
	sendBuffer = 256
)

// Client is an active WebSocket connection. A player client is the actor's
// output Channel: structured clients get JSON frames, text clients get raw
// lines and the combat prompt.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	quit       chan struct{}
	closeOnce  sync.Once
	actorID    actor.ID
	structured bool
	spectator  bool
}

// NewClient creates a client. structured selects JSON frames over raw text.
func NewClient(hub *Hub, conn *websocket.Conn, structured bool) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBuffer),
		quit:       make(chan struct{}),
		structured: structured,
	}
}

// NewSpectator creates a client that only receives event frames.
func NewSpectator(hub *Hub, conn *websocket.Conn) *Client {
	c := NewClient(hub, conn, true)
	c.spectator = true
	return c
}

// ActorID returns the bound actor, or "" before login and for spectators.
func (c *Client) ActorID() actor.ID { return c.actorID }

// Say queues a line of output.
func (c *Client) Say(message string) {
	c.write(FrameSay, message)
}

// Prompt queues the combat prompt.
func (c *Client) Prompt(text string) {
	c.write(FramePrompt, text)
}

// Structured reports whether the client renders its own status display.
func (c *Client) Structured() bool { return c.structured }

func (c *Client) write(frameType, text string) {
	if !c.structured {
		c.enqueue([]byte(text))
		return
	}
	payload, err := json.Marshal(Frame{Type: frameType, Text: text})
	if err != nil {
		c.hub.metrics.RecordWSError()
		return
	}
	c.enqueue(payload)
}

// enqueue never blocks: a client too slow to drain its buffer loses frames.
func (c *Client) enqueue(payload []byte) {
	select {
	case <-c.quit:
		return
	default:
	}
	select {
	case c.send <- payload:
	default:
		c.hub.metrics.RecordWSError()
	}
}

// Close stops the write pump, which closes the connection. Safe to call
// more than once and from any goroutine.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.quit) })
}

// ReadPump pumps lines from the websocket connection to submit until the
// connection fails. It unregisters the client on return.
func (c *Client) ReadPump(submit func(line string)) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.metrics.RecordWSError()
				c.hub.logger.Warn("websocket read failed", "actor", c.actorID, "err", err)
			}
			return
		}
		c.hub.metrics.RecordWSMessage(true)

		line, ok := c.decode(message)
		if !ok {
			c.hub.logger.Warn("failed to parse websocket input", "actor", c.actorID)
			continue
		}
		if line == "" || c.spectator {
			continue
		}
		submit(line)
	}
}

func (c *Client) decode(message []byte) (string, bool) {
	if !c.structured {
		return strings.TrimSpace(string(message)), true
	}
	var in Input
	if err := json.Unmarshal(message, &in); err != nil {
		return "", false
	}
	if in.Type != "" && in.Type != "command" {
		return "", false
	}
	return strings.TrimSpace(in.Line), true
}

// WritePump pumps messages from the send buffer to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case <-c.quit:
			c.flush()
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.metrics.RecordWSError()
				return
			}
			c.hub.metrics.RecordWSMessage(false)
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// flush writes whatever is still buffered, so "Goodbye!" reaches the peer.
func (c *Client) flush() {
	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
			c.hub.metrics.RecordWSMessage(false)
		default:
			return
		}
	}
}

var _ actor.Channel = (*Client)(nil)
