// Package engine contains the game loop and simulation logic.
//
// All world mutation happens on the ticker goroutine. Transports and
// persistence hand work to the engine through Post and Submit.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/MRamiBalles/tickmud/server/internal/platform/logger"
)

// Ticker drives a callback at a fixed interval.
type Ticker struct {
	interval time.Duration
	logger   *logger.Logger
	onTick   func(ctx context.Context)
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewTicker creates a ticker calling onTick every interval.
func NewTicker(interval time.Duration, log *logger.Logger, onTick func(ctx context.Context)) *Ticker {
	return &Ticker{
		interval: interval,
		logger:   log,
		onTick:   onTick,
		stopChan: make(chan struct{}),
	}
}

// Start runs the loop until the context ends or Stop is called.
func (t *Ticker) Start(ctx context.Context) {
	t.logger.Info("engine ticker started", "interval", t.interval)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("engine ticker stopped by context")
			return
		case <-t.stopChan:
			t.logger.Info("engine ticker stopped manually")
			return
		case <-ticker.C:
			t.onTick(ctx)
		}
	}
}

// Stop gracefully stops the ticker.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() { close(t.stopChan) })
}
