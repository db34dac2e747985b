package network

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/engine"
	"github.com/MRamiBalles/tickmud/server/internal/events"
	"github.com/MRamiBalles/tickmud/server/internal/infra/storage"
	"github.com/MRamiBalles/tickmud/server/internal/platform/logger"
)

// LoginTimeout bounds how long a connection waits for the tick goroutine
// to admit its actor.
const LoginTimeout = 5 * time.Second

// DefaultClass is given to new characters that do not ask for one.
const DefaultClass = "warrior"

var validName = regexp.MustCompile(`^[A-Za-z]{3,16}$`)

// loginError is shown to the connecting player verbatim.
type loginError string

func (e loginError) Error() string { return string(e) }

const (
	errBadName        loginError = "Names are 3 to 16 letters."
	errAlreadyPlaying loginError = "That character is already playing."
	errUnknownClass   loginError = "There is no such class."
	errLookupFailed   loginError = "Your character could not be loaded. Try again later."
	errShuttingDown   loginError = "The server is shutting down."
)

// Gateway admits websocket connections into the world. A connection names
// its character with ?name=; new characters may pick ?class=. ?mode=text
// selects raw text lines with the combat prompt instead of JSON frames.
type Gateway struct {
	engine   *engine.Engine
	repo     storage.ActorRepository
	hub      *Hub
	logger   *logger.Logger
	upgrader websocket.Upgrader
}

// NewGateway creates a gateway. repo may be nil, in which case every login
// creates a fresh character.
func NewGateway(e *engine.Engine, repo storage.ActorRepository, hub *Hub, log *logger.Logger) *Gateway {
	g := &Gateway{
		engine: e,
		repo:   repo,
		hub:    hub,
		logger: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	e.OnRemove(func(a *actor.Actor) { hub.Disconnect(a.ID) })
	return g
}

// ServeWS handles GET /ws.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("name")
	if !validName.MatchString(name) {
		http.Error(w, errBadName.Error(), http.StatusBadRequest)
		return
	}

	snap, found, err := g.lookup(r.Context(), name)
	if err != nil {
		g.logger.Error("character lookup failed", "name", name, "err", err)
		http.Error(w, errLookupFailed.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.hub.metrics.RecordWSError()
		g.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	client := NewClient(g.hub, conn, q.Get("mode") != "text")
	client.actorID = snap.ID
	if !found {
		client.actorID = actor.ID(uuid.NewString())
	}
	result := make(chan error, 1)
	posted := g.engine.Post(func() {
		result <- g.enter(client, name, q.Get("class"), snap, found)
	})
	if !posted {
		reject(conn, client.structured, errShuttingDown)
		return
	}

	select {
	case err = <-result:
	case <-time.After(LoginTimeout):
		err = errShuttingDown
		// enter may still run later; undo it then.
		g.detach(client)
	}
	if err != nil {
		reject(conn, client.structured, err)
		return
	}

	g.hub.Register(client)
	go client.WritePump()
	id := client.ActorID()
	client.ReadPump(func(line string) { g.engine.Submit(id, line) })
	g.detach(client)
}

// ServeSpectator handles GET /ws/events: a read-only stream of audit events.
func (g *Gateway) ServeSpectator(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.hub.metrics.RecordWSError()
		return
	}
	client := NewSpectator(g.hub, conn)
	g.hub.Register(client)
	go client.WritePump()
	client.ReadPump(func(string) {})
}

func (g *Gateway) lookup(ctx context.Context, name string) (actor.Snapshot, bool, error) {
	if g.repo == nil {
		return actor.Snapshot{}, false, nil
	}
	snap, err := g.repo.FindByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return actor.Snapshot{}, false, nil
	}
	if err != nil {
		return actor.Snapshot{}, false, err
	}
	return snap, true, nil
}

// enter runs on the tick goroutine.
func (g *Gateway) enter(c *Client, name, classID string, snap actor.Snapshot, found bool) error {
	e := g.engine
	if _, online := e.World().FindPlayer(name); online {
		return errAlreadyPlaying
	}

	var a *actor.Actor
	if found {
		a = actor.Restore(snap, e.Now, events.GenerateEventID)
	} else {
		if classID == "" {
			classID = DefaultClass
		}
		if catalog := e.Abilities().Catalog(); catalog != nil {
			if _, ok := catalog.Class(classID); !ok {
				return errUnknownClass
			}
		}
		a = actor.New(c.actorID, name, e.Now)
		a.ClassID = classID
		a.RoomID = e.Config().StartingRoom
		e.Progression().LearnThrough(a)
	}

	a.Channel = c
	if found {
		a.Say("Welcome back, " + a.Name + ".")
	} else {
		a.Say("Welcome, " + a.Name + ".")
	}
	return e.Join(a)
}

// detach runs after the connection drops. The actor leaves the world the
// same way it would on quit; a fighting actor stays until the fight ends
// and the idle reaper collects it.
func (g *Gateway) detach(c *Client) {
	id := c.actorID
	g.engine.Post(func() {
		a, ok := g.engine.World().Actor(id)
		if !ok || a.Channel != actor.Channel(c) {
			return
		}
		a.Channel = actor.NopChannel{}
		if err := g.engine.Quit(a); err != nil {
			g.logger.Info("connection lost mid-fight", "actor", id)
		}
	})
}

func reject(conn *websocket.Conn, structured bool, err error) {
	payload := []byte(err.Error())
	if structured {
		payload, _ = json.Marshal(Frame{Type: FrameError, Text: err.Error()})
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.TextMessage, payload)
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
	conn.Close()
}
