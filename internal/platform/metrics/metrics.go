// Package metrics provides observability for the game server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance and gameplay counters.
// One Collector is created per process and passed to the engine and transports.
type Collector struct {
	// Tick metrics
	TickCount      int64
	TickLatencySum int64 // nanoseconds
	TickLatencyMax int64
	ActorFaults    int64
	LastTickTime   time.Time

	// Gameplay metrics
	CommandsExecuted int64
	CombatRounds     int64
	Deaths           int64
	LevelUps         int64
	IdleEvictions    int64

	// Persistence metrics
	SavesCompleted int64
	SaveErrors     int64
	EventsWritten  int64
	EventErrors    int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	StartTime time.Time
	mu        sync.RWMutex
}

// NewCollector creates a collector starting its uptime clock now.
func NewCollector() *Collector {
	return &Collector{StartTime: time.Now()}
}

// RecordTick records a tick cycle completion.
func (c *Collector) RecordTick(latency time.Duration) {
	atomic.AddInt64(&c.TickCount, 1)
	atomic.AddInt64(&c.TickLatencySum, int64(latency))

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.TickLatencyMax) {
		atomic.StoreInt64(&c.TickLatencyMax, int64(latency))
	}

	c.mu.Lock()
	c.LastTickTime = time.Now()
	c.mu.Unlock()
}

// RecordActorFault records a per-actor tick failure that was isolated.
func (c *Collector) RecordActorFault() { atomic.AddInt64(&c.ActorFaults, 1) }

// RecordCommand records a queued command that ran.
func (c *Collector) RecordCommand() { atomic.AddInt64(&c.CommandsExecuted, 1) }

// RecordRound records a combat round in which at least one exchange happened.
func (c *Collector) RecordRound() { atomic.AddInt64(&c.CombatRounds, 1) }

// RecordDeath records a death handled by the combat system.
func (c *Collector) RecordDeath() { atomic.AddInt64(&c.Deaths, 1) }

// RecordLevelUp records one level gained.
func (c *Collector) RecordLevelUp() { atomic.AddInt64(&c.LevelUps, 1) }

// RecordEviction records an idle eviction.
func (c *Collector) RecordEviction() { atomic.AddInt64(&c.IdleEvictions, 1) }

// RecordSave records the outcome of an asynchronous actor save.
func (c *Collector) RecordSave(err error) {
	if err != nil {
		atomic.AddInt64(&c.SaveErrors, 1)
		return
	}
	atomic.AddInt64(&c.SavesCompleted, 1)
}

// RecordEventWrite records an audit event written to the database.
func (c *Collector) RecordEventWrite(err error) {
	atomic.AddInt64(&c.EventsWritten, 1)
	if err != nil {
		atomic.AddInt64(&c.EventErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	lastTick := c.LastTickTime
	c.mu.RUnlock()

	tickCount := atomic.LoadInt64(&c.TickCount)
	var tickAvg float64
	if tickCount > 0 {
		tickAvg = float64(atomic.LoadInt64(&c.TickLatencySum)) / float64(tickCount) / 1e6 // ms
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"tick": map[string]interface{}{
			"count":          tickCount,
			"avg_latency_ms": tickAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.TickLatencyMax)) / 1e6,
			"actor_faults":   atomic.LoadInt64(&c.ActorFaults),
			"last_tick":      lastTick.Format(time.RFC3339),
		},

		"gameplay": map[string]interface{}{
			"commands_executed": atomic.LoadInt64(&c.CommandsExecuted),
			"combat_rounds":     atomic.LoadInt64(&c.CombatRounds),
			"deaths":            atomic.LoadInt64(&c.Deaths),
			"level_ups":         atomic.LoadInt64(&c.LevelUps),
			"idle_evictions":    atomic.LoadInt64(&c.IdleEvictions),
		},

		"persistence": map[string]interface{}{
			"saves":          atomic.LoadInt64(&c.SavesCompleted),
			"save_errors":    atomic.LoadInt64(&c.SaveErrors),
			"events_written": atomic.LoadInt64(&c.EventsWritten),
			"event_errors":   atomic.LoadInt64(&c.EventErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (c *Collector) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		_ = json.NewEncoder(w).Encode(c.Snapshot())
	}
}

// PrometheusHandler returns metrics in Prometheus text format.
func (c *Collector) PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		counter := func(name, help string, v int64) {
			fmt.Fprintf(w, "# HELP %s %s\n", name, help)
			fmt.Fprintf(w, "# TYPE %s counter\n", name)
			fmt.Fprintf(w, "%s %d\n\n", name, v)
		}

		counter("tickmud_tick_count", "Total tick cycles", atomic.LoadInt64(&c.TickCount))

		fmt.Fprintf(w, "# HELP tickmud_tick_latency_max_ms Maximum tick latency\n")
		fmt.Fprintf(w, "# TYPE tickmud_tick_latency_max_ms gauge\n")
		fmt.Fprintf(w, "tickmud_tick_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.TickLatencyMax))/1e6)

		counter("tickmud_actor_faults", "Per-actor tick failures isolated by the engine", atomic.LoadInt64(&c.ActorFaults))
		counter("tickmud_commands_executed", "Queued commands executed", atomic.LoadInt64(&c.CommandsExecuted))
		counter("tickmud_combat_rounds", "Combat rounds with at least one exchange", atomic.LoadInt64(&c.CombatRounds))
		counter("tickmud_deaths", "Deaths handled", atomic.LoadInt64(&c.Deaths))
		counter("tickmud_level_ups", "Levels gained", atomic.LoadInt64(&c.LevelUps))
		counter("tickmud_idle_evictions", "Sessions evicted for idleness", atomic.LoadInt64(&c.IdleEvictions))
		counter("tickmud_save_errors", "Failed actor saves", atomic.LoadInt64(&c.SaveErrors))
		counter("tickmud_event_write_errors", "Failed audit event writes", atomic.LoadInt64(&c.EventErrors))

		fmt.Fprintf(w, "# HELP tickmud_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE tickmud_ws_connections gauge\n")
		fmt.Fprintf(w, "tickmud_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP tickmud_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE tickmud_ws_messages_total counter\n")
		fmt.Fprintf(w, "tickmud_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "tickmud_ws_messages_total{direction=\"out\"} %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
