// Package main is the entry point for the tickmud game server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MRamiBalles/tickmud/server/internal/ability"
	"github.com/MRamiBalles/tickmud/server/internal/command"
	"github.com/MRamiBalles/tickmud/server/internal/domain/actor"
	"github.com/MRamiBalles/tickmud/server/internal/engine"
	"github.com/MRamiBalles/tickmud/server/internal/events"
	"github.com/MRamiBalles/tickmud/server/internal/infra/cache"
	"github.com/MRamiBalles/tickmud/server/internal/infra/storage"
	"github.com/MRamiBalles/tickmud/server/internal/network"
	"github.com/MRamiBalles/tickmud/server/internal/platform/config"
	"github.com/MRamiBalles/tickmud/server/internal/platform/logger"
	"github.com/MRamiBalles/tickmud/server/internal/platform/metrics"
	"github.com/MRamiBalles/tickmud/server/internal/platform/otel"
	"github.com/MRamiBalles/tickmud/server/internal/world"
)

// respawnDelay is how long a slain NPC stays dead.
const respawnDelay = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tickmud:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appLogger := logger.New(logger.Options{Format: cfg.LogFormat, Level: cfg.LogLevel})
	appLogger.Info("initializing tickmud authoritative server", "addr", cfg.Addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, "tickmud", cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer shutdownTracing(context.Background())

	appLogger.Info("initializing sqlite database", "path", cfg.DBPath)
	db, err := storage.InitSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	collector := metrics.NewCollector()
	actorRepo := storage.NewSQLiteActorRepository(db)
	snapshots, err := cache.NewSnapshotCache(actorRepo, cfg.SnapshotCacheSize)
	if err != nil {
		return err
	}
	eventRepo := storage.NewSQLiteEventRepository(db, collector)

	eventLog := events.NewEventLog(eventRepo)
	eventLog.OnPersistError(func(ev events.GameEvent, err error) {
		appLogger.Warn("audit event write failed", "event", ev.ID, "type", ev.Type, "err", err)
	})

	w := world.NewRegistry()
	world.SeedLimbo(w)

	gameEngine := engine.NewEngine(cfg, engine.Deps{
		World:     w,
		Abilities: ability.Default(),
		Saver:     snapshots,
		EventLog:  eventLog,
		Logger:    appLogger,
		Metrics:   collector,
	})
	command.New(gameEngine, appLogger)
	spawnNPCs(gameEngine, appLogger)

	hub := network.NewHub(appLogger, collector)
	gateway := network.NewGateway(gameEngine, snapshots, hub, appLogger)
	feed := network.NewEventFeedHandler(eventLog, eventRepo, appLogger)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gateway.ServeWS)
	mux.HandleFunc("/ws/events", gateway.ServeSpectator)
	mux.HandleFunc("/metrics", collector.Handler())
	mux.HandleFunc("/metrics/prom", collector.PrometheusHandler())
	feed.RegisterRoutes(mux)
	srv := &http.Server{Addr: cfg.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	engineCtx, stopEngine := context.WithCancel(context.Background())
	defer stopEngine()
	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		gameEngine.Run(engineCtx)
	}()

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	g, gctx := errgroup.WithContext(ctx)
	hub.StartEventPoller(gctx, eventLog, 200*time.Millisecond)
	g.Go(func() error {
		backupLoop(gctx, gameEngine, cfg.BackupInterval)
		return nil
	})
	g.Go(func() error {
		appLogger.Info("http api and websocket server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("shutting down")
		hub.Notice("The server is shutting down.")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		stopHub()
		return err
	})

	err = g.Wait()

	// Final snapshot of every player, then stop the tick loop once the
	// writes have landed.
	saved := make(chan struct{})
	if gameEngine.Post(func() {
		gameEngine.SaveAll()
		close(saved)
	}) {
		select {
		case <-saved:
		case <-time.After(5 * time.Second):
			appLogger.Warn("final save did not run in time")
		}
	}
	gameEngine.Persister().Wait()
	stopEngine()
	<-engineDone

	appLogger.Info("server stopped")
	return err
}

// spawnNPCs places the default spawns and brings each back respawnDelay
// after it is removed from the world.
func spawnNPCs(e *engine.Engine, log *logger.Logger) {
	byID := make(map[actor.ID]world.Spawn, len(world.DefaultSpawns))
	for _, s := range world.DefaultSpawns {
		byID[s.ID] = s
		if err := e.RegisterActor(s.NewActor(e.Now)); err != nil {
			log.Error("npc spawn failed", "npc", s.ID, "err", err)
		}
	}
	e.OnRemove(func(a *actor.Actor) {
		s, ok := byID[a.ID]
		if !ok {
			return
		}
		time.AfterFunc(respawnDelay, func() {
			e.Post(func() {
				if err := e.RegisterActor(s.NewActor(e.Now)); err != nil {
					log.Error("npc respawn failed", "npc", s.ID, "err", err)
				}
			})
		})
	})
}

// backupLoop snapshots every live player through the async persister.
func backupLoop(ctx context.Context, e *engine.Engine, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			e.Post(e.SaveAll)
		}
	}
}
