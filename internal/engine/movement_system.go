package engine

import (
	"fmt"
	"strings"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/domain/room"
	"github.com/MRamiBalles/tickmud/server/internal/events"
	apperrors "github.com/MRamiBalles/tickmud/server/internal/platform/errors"
)

var (
	errNoExit     = apperrors.New(apperrors.CodeNoExit, "You can't go that way!")
	errInCombat   = apperrors.New(apperrors.CodeInCombat, "You are in the middle of a fight!")
	errDoorClosed = apperrors.New(apperrors.CodeDoorClosed, "The door is closed.")
	errDoorLocked = apperrors.New(apperrors.CodeDoorLocked, "The door is locked.")
)

// MovementSystem moves actors between rooms along exits.
type MovementSystem struct {
	e *Engine
}

// NewMovementSystem creates the movement handler.
func NewMovementSystem(e *Engine) *MovementSystem {
	return &MovementSystem{e: e}
}

// Move takes an exit. Followers standing in the same room come along.
func (ms *MovementSystem) Move(a *actor.Actor, direction string) error {
	if a.IsInCombat() {
		return errInCombat
	}
	w := ms.e.world
	from, ok := w.Room(a.RoomID)
	if !ok {
		return apperrors.New(apperrors.CodeStructural, fmt.Sprintf("actor %s is in unknown room %q", a.ID, a.RoomID))
	}
	exit, ok := from.FindExit(direction)
	if !ok {
		return errNoExit
	}
	dest, ok := w.Room(exit.RoomID)
	if !ok {
		return apperrors.WithMetadata(apperrors.CodeStructural, "exit leads nowhere", map[string]string{
			"room": from.ID, "direction": exit.Direction, "destination": exit.RoomID,
		})
	}
	if door := doorBetween(from, dest); door != nil && door.Closed {
		if door.Locked {
			return errDoorLocked
		}
		return errDoorClosed
	}

	var followers []*actor.Actor
	for _, f := range w.Followers(a) {
		if f.RoomID == from.ID {
			followers = append(followers, f)
		}
	}

	for _, b := range w.InRoom(from.ID) {
		if b.ID != a.ID {
			b.Say(fmt.Sprintf("%s leaves heading %s.", a.Name, exit.Direction))
		}
	}
	if err := w.Move(a, dest.ID); err != nil {
		return apperrors.Wrap(apperrors.CodeStructural, "move failed", err)
	}
	for _, b := range w.InRoom(dest.ID) {
		if b.ID != a.ID {
			b.Say(fmt.Sprintf("%s arrives.", a.Name))
		}
	}
	ms.e.emit(a, events.EventTypeMoved, "", MovedPayload{From: from.ID, To: dest.ID, Direction: exit.Direction})
	a.Say(ms.Look(a))

	for _, f := range followers {
		f.Say(fmt.Sprintf("You follow %s.", a.Name))
		if err := ms.Move(f, exit.Direction); err != nil {
			f.Say(apperrors.UserMessage(err))
		}
	}
	return nil
}

// doorBetween returns the door on either side of the passage.
func doorBetween(from, to *room.Room) *room.Door {
	if d := from.DoorTo(to.ID); d != nil {
		return d
	}
	return to.DoorTo(from.ID)
}

// Look describes the actor's room.
func (ms *MovementSystem) Look(a *actor.Actor) string {
	rm, ok := ms.e.world.Room(a.RoomID)
	if !ok {
		return "You are floating in a void."
	}
	var b strings.Builder
	b.WriteString(rm.Title)
	if rm.Description != "" {
		b.WriteString("\n" + rm.Description)
	}
	dirs := make([]string, 0, len(rm.Exits))
	for _, e := range rm.Exits {
		dirs = append(dirs, e.Direction)
	}
	if len(dirs) > 0 {
		fmt.Fprintf(&b, "\n[Exits: %s]", strings.Join(dirs, ", "))
	} else {
		b.WriteString("\n[Exits: none]")
	}
	for _, other := range ms.e.world.InRoom(rm.ID) {
		if other.ID == a.ID {
			continue
		}
		if other.IsInCombat() {
			fmt.Fprintf(&b, "\n%s is here, fighting.", other.Name)
		} else {
			fmt.Fprintf(&b, "\n%s is here.", other.Name)
		}
	}
	return b.String()
}

// Directions lists the exits of the actor's room.
func (ms *MovementSystem) Directions(a *actor.Actor) []room.Exit {
	rm, ok := ms.e.world.Room(a.RoomID)
	if !ok {
		return nil
	}
	return append([]room.Exit(nil), rm.Exits...)
}
