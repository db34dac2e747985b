package engine

import (
	"context"
	"sync"
	"time"

	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/platform/logger"
	"github.com/MRamiBalles/tickmud/server/internal/platform/metrics"
)

//go:generate go tool mockgen -destination=./mocks/saver_mock.go -package=mocks . Saver

// Saver durably stores actor snapshots.
type Saver interface {
	SaveActor(ctx context.Context, s actor.Snapshot) error
}

// SaveTimeout bounds a single snapshot write.
const SaveTimeout = 5 * time.Second

// saveJob is the newest unwritten snapshot of one actor plus every
// completion waiting on it.
type saveJob struct {
	snap  actor.Snapshot
	dones []func(error)
}

// saveLane serialises writes for one actor. While a write is in flight,
// later saves coalesce into pending.
type saveLane struct {
	pending *saveJob
}

// Persister writes snapshots off the tick goroutine. Completion callbacks
// are posted back to the engine and run at the start of a later tick.
// Writes for the same actor never overlap and land in save order.
type Persister struct {
	saver   Saver
	post    func(func()) bool
	later   func(func())
	logger  *logger.Logger
	metrics *metrics.Collector

	mu    sync.Mutex
	lanes map[actor.ID]*saveLane
	wg    sync.WaitGroup
}

// NewPersister wraps a saver. post hands completions from writer goroutines
// to the tick goroutine; later queues work from the tick goroutine itself.
// A nil saver turns saves into no-ops that still complete through later.
func NewPersister(saver Saver, post func(func()) bool, later func(func()), log *logger.Logger, m *metrics.Collector) *Persister {
	return &Persister{
		saver:   saver,
		post:    post,
		later:   later,
		logger:  log,
		metrics: m,
		lanes:   make(map[actor.ID]*saveLane),
	}
}

// Save snapshots the actor now and writes it in the background. NPCs are
// never stored. done may be nil.
func (p *Persister) Save(a *actor.Actor, now time.Time, done func(error)) {
	if p.saver == nil || a.IsNPC {
		if done != nil {
			p.later(func() { done(nil) })
		}
		return
	}
	snap := a.Snapshot()
	snap.SavedAt = now

	p.mu.Lock()
	defer p.mu.Unlock()

	if lane, busy := p.lanes[snap.ID]; busy {
		if lane.pending == nil {
			lane.pending = &saveJob{}
		}
		lane.pending.snap = snap
		if done != nil {
			lane.pending.dones = append(lane.pending.dones, done)
		}
		return
	}

	job := &saveJob{snap: snap}
	if done != nil {
		job.dones = append(job.dones, done)
	}
	p.lanes[snap.ID] = &saveLane{}
	p.wg.Add(1)
	go p.drain(snap.ID, job)
}

// drain writes job, then whatever coalesced behind it, until the lane is empty.
func (p *Persister) drain(id actor.ID, job *saveJob) {
	defer p.wg.Done()
	for job != nil {
		p.write(job)

		p.mu.Lock()
		lane := p.lanes[id]
		job = lane.pending
		lane.pending = nil
		if job == nil {
			delete(p.lanes, id)
		}
		p.mu.Unlock()
	}
}

func (p *Persister) write(job *saveJob) {
	ctx, cancel := context.WithTimeout(context.Background(), SaveTimeout)
	defer cancel()

	err := p.saver.SaveActor(ctx, job.snap)
	p.metrics.RecordSave(err)
	if err != nil {
		p.logger.Error("actor save failed", "actor", job.snap.ID, "err", err)
	}
	for _, done := range job.dones {
		done := done
		p.post(func() { done(err) })
	}
}

// Wait blocks until every in-flight write has finished.
func (p *Persister) Wait() {
	p.wg.Wait()
}
