package actor

import "sync"

// Channel is the per-actor output sink. Structured transports render their
// own status displays, so the engine never sends them the combat prompt.
type Channel interface {
	Say(message string)
	Prompt(text string)
	Structured() bool
}

// NopChannel discards output. NPCs use it.
type NopChannel struct{}

func (NopChannel) Say(string)       {}
func (NopChannel) Prompt(string)    {}
func (NopChannel) Structured() bool { return false }

// RecordingChannel keeps everything written to it.
type RecordingChannel struct {
	mu           sync.Mutex
	lines        []string
	prompts      []string
	IsStructured bool
}

func (r *RecordingChannel) Say(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, message)
}

func (r *RecordingChannel) Prompt(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts = append(r.prompts, text)
}

func (r *RecordingChannel) Structured() bool { return r.IsStructured }

// Lines returns a copy of the messages said so far.
func (r *RecordingChannel) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// Prompts returns a copy of the prompts sent so far.
func (r *RecordingChannel) Prompts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.prompts...)
}

// Contains reports whether any line equals message.
func (r *RecordingChannel) Contains(message string) bool {
	for _, l := range r.Lines() {
		if l == message {
			return true
		}
	}
	return false
}

// Reset forgets recorded output.
func (r *RecordingChannel) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = nil
	r.prompts = nil
}
