package network

import "github.com/MRamiBalles/tickmud/server/internal/events"

// Frame types sent to structured clients.
const (
	FrameSay    = "say"
	FramePrompt = "prompt"
	FrameError  = "error"
	FrameEvent  = "event"
)

// Frame is one outbound JSON message on a structured connection.
type Frame struct {
	Type  string            `json:"type" jsonschema:"enum=say,enum=prompt,enum=error,enum=event,required"`
	Text  string            `json:"text,omitempty" jsonschema:"description=Message text for say prompt and error frames"`
	Event *events.GameEvent `json:"event,omitempty" jsonschema:"description=Audit event sent to spectator connections"`
}

// Input is one inbound JSON message on a structured connection.
// Text connections send the command line as the raw message instead.
type Input struct {
	Type string `json:"type,omitempty" jsonschema:"enum=command"`
	Line string `json:"line" jsonschema:"description=Command line as typed,maxLength=400,required"`
}
