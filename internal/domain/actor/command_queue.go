package actor

import (
	"fmt"
	"time"
)

// QueuedCommand is a unit of deferred work owned by one actor's queue.
type QueuedCommand struct {
	Label    string
	Lag      time.Duration
	QueuedAt time.Time
	execute  func() error
}

// Remaining returns the lag left at now, never negative.
func (c *QueuedCommand) Remaining(now time.Time) time.Duration {
	left := c.Lag - now.Sub(c.QueuedAt)
	if left < 0 {
		return 0
	}
	return left
}

// CommandQueue runs an actor's delayed commands strictly in enqueue order,
// at most one per tick. New commands append; nothing is cancelled implicitly.
type CommandQueue struct {
	commands []*QueuedCommand
	now      func() time.Time
}

// NewCommandQueue creates a queue reading time from now (time.Now if nil).
func NewCommandQueue(now func() time.Time) *CommandQueue {
	if now == nil {
		now = time.Now
	}
	return &CommandQueue{now: now}
}

// Enqueue appends a command and returns its position in the queue.
func (q *CommandQueue) Enqueue(label string, lag time.Duration, execute func() error) int {
	if lag < 0 {
		lag = 0
	}
	q.commands = append(q.commands, &QueuedCommand{
		Label:    label,
		Lag:      lag,
		QueuedAt: q.now(),
		execute:  execute,
	})
	return len(q.commands) - 1
}

// HasPending reports whether any command remains.
func (q *CommandQueue) HasPending() bool {
	return len(q.commands) > 0
}

// Len returns the number of queued commands.
func (q *CommandQueue) Len() int {
	return len(q.commands)
}

// TimeTilRun returns the remaining lag of the command at index, in seconds.
// Unknown indexes report zero.
func (q *CommandQueue) TimeTilRun(index int) float64 {
	if index < 0 || index >= len(q.commands) {
		return 0
	}
	return q.commands[index].Remaining(q.now()).Seconds()
}

// Pending returns a copy of the queued commands for display.
func (q *CommandQueue) Pending() []QueuedCommand {
	out := make([]QueuedCommand, len(q.commands))
	for i, c := range q.commands {
		out[i] = *c
	}
	return out
}

// Tick runs the front command if its lag has expired. The command is removed
// before it runs; a returned error or panic is reported as err and leaves the
// rest of the queue untouched.
func (q *CommandQueue) Tick() (ran bool, label string, err error) {
	if len(q.commands) == 0 {
		return false, "", nil
	}
	front := q.commands[0]
	if front.Remaining(q.now()) > 0 {
		return false, "", nil
	}

	q.commands[0] = nil
	q.commands = q.commands[1:]

	return true, front.Label, run(front)
}

func run(c *QueuedCommand) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command %q panicked: %v", c.Label, r)
		}
	}()
	if c.execute == nil {
		return nil
	}
	return c.execute()
}

// Flush drops every queued command and returns how many were dropped.
func (q *CommandQueue) Flush() int {
	n := len(q.commands)
	q.commands = nil
	return n
}
