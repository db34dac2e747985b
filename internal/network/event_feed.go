package network

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/MRamiBalles/tickmud/server/internal/events"
	"github.com/MRamiBalles/tickmud/server/internal/infra/storage"
	"github.com/MRamiBalles/tickmud/server/internal/platform/logger"
)

// EventFeedHandler serves the audit event log over HTTP.
type EventFeedHandler struct {
	eventLog *events.EventLog
	repo     storage.EventRepository
	logger   *logger.Logger
}

// NewEventFeedHandler creates the handler. repo may be nil; then only the
// in-memory log is served.
func NewEventFeedHandler(el *events.EventLog, repo storage.EventRepository, log *logger.Logger) *EventFeedHandler {
	return &EventFeedHandler{
		eventLog: el,
		repo:     repo,
		logger:   log,
	}
}

// FeedResponse is the API response for the event feed.
type FeedResponse struct {
	ActorID     string             `json:"actor_id,omitempty"`
	Type        string             `json:"type,omitempty"`
	Source      string             `json:"source"`
	TotalEvents int                `json:"total_events"`
	Next        int                `json:"next,omitempty"`
	GeneratedAt string             `json:"generated_at"`
	Events      []events.GameEvent `json:"events"`
}

// HandleEvents returns events, optionally filtered.
// GET /events?actor=ID&type=LEVEL&since=N&source=db&limit=N
func (fh *EventFeedHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		fh.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	actorID := q.Get("actor")
	eventType := q.Get("type")
	limit, err := intParam(q.Get("limit"))
	if err != nil {
		fh.jsonError(w, "Invalid limit", http.StatusBadRequest)
		return
	}
	since, err := intParam(q.Get("since"))
	if err != nil {
		fh.jsonError(w, "Invalid since", http.StatusBadRequest)
		return
	}

	response := FeedResponse{
		ActorID:     actorID,
		Type:        eventType,
		Source:      "memory",
		GeneratedAt: time.Now().Format(time.RFC3339),
	}

	if q.Get("source") == "db" {
		if fh.repo == nil {
			fh.jsonError(w, "No event store configured", http.StatusNotFound)
			return
		}
		response.Source = "db"
		var found []events.GameEvent
		switch {
		case actorID != "":
			found, err = fh.repo.ByActor(r.Context(), actorID, limit)
		case eventType != "":
			found, err = fh.repo.ByType(r.Context(), events.EventType(eventType), limit)
		default:
			fh.jsonError(w, "Missing actor or type", http.StatusBadRequest)
			return
		}
		if err != nil {
			fh.logger.Error("event feed query failed", "err", err)
			fh.jsonError(w, "Event store unavailable", http.StatusServiceUnavailable)
			return
		}
		response.Events = filterType(found, eventType)
	} else {
		batch, next := fh.eventLog.Since(since)
		response.Next = next
		for _, e := range batch {
			if actorID != "" && e.ActorID != actorID {
				continue
			}
			if eventType != "" && string(e.Type) != eventType {
				continue
			}
			response.Events = append(response.Events, e)
		}
		if limit > 0 && len(response.Events) > limit {
			response.Events = response.Events[len(response.Events)-limit:]
		}
	}
	if response.Events == nil {
		response.Events = []events.GameEvent{}
	}
	response.TotalEvents = len(response.Events)

	fh.logger.Event("EVENT_FEED", actorID, fmt.Sprintf("source=%s events=%d", response.Source, response.TotalEvents))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HandleStats returns per-type counts over the in-memory log.
// GET /events/stats
func (fh *EventFeedHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		fh.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats := make(map[string]int)
	all := fh.eventLog.Replay()
	for _, e := range all {
		stats[string(e.Type)]++
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"total_events": len(all),
		"by_type":      stats,
	})
}

// RegisterRoutes sets up the event feed routes.
func (fh *EventFeedHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/events", fh.HandleEvents)
	mux.HandleFunc("/events/stats", fh.HandleStats)
}

func filterType(in []events.GameEvent, eventType string) []events.GameEvent {
	if eventType == "" {
		return in
	}
	var out []events.GameEvent
	for _, e := range in {
		if string(e.Type) == eventType {
			out = append(out, e)
		}
	}
	return out
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return n, nil
}

// jsonError sends an error response.
func (fh *EventFeedHandler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
