// Package main is the entry point for the property game server.
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

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MRamiBalles/PropertyIdle/internal/config"
	"github.com/MRamiBalles/PropertyIdle/internal/engine"
	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/MRamiBalles/PropertyIdle/internal/infra/cache"
	"github.com/MRamiBalles/PropertyIdle/internal/infra/storage"
	"github.com/MRamiBalles/PropertyIdle/internal/network"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/logger"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/metrics"
	"github.com/MRamiBalles/PropertyIdle/internal/store"
)

// backend is the persistence collaborator chosen by configuration.
type backend struct {
	state  storage.StateRepository
	events storage.EventRepository // nil when the driver keeps no ledger
	close  func()
}

func openBackend(ctx context.Context, cfg config.Storage, log *logger.Logger) (*backend, error) {
	switch cfg.Driver {
	case "memory":
		log.Warn("Using in-memory storage; the game will not survive a restart.")
		return &backend{state: storage.NewMemoryStateRepository(), close: func() {}}, nil

	case "redis":
		pool := cache.NewRedisPool(cfg.RedisURL)
		return &backend{
			state: cache.NewRedisStore(pool, "propertyidle:"),
			close: func() { pool.Close() },
		}, nil

	case "postgres":
		pool, err := storage.ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return &backend{
			state:  storage.NewPostgresStateRepository(pool),
			events: storage.NewPostgresEventRepository(pool),
			close:  pool.Close,
		}, nil

	case "sqlite", "":
		log.Info("Initializing SQLite database '" + cfg.Path + "'...")
		db, err := storage.InitSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		b := &backend{
			state:  storage.NewSQLiteStateRepository(db),
			events: storage.NewSQLiteEventRepository(db),
			close:  func() { db.Close() },
		}
		if cfg.RedisURL != "" {
			log.Info("Fronting SQLite with a Redis read cache.")
			pool := cache.NewRedisPool(cfg.RedisURL)
			b.state = cache.NewReadThrough(b.state, cache.NewRedisStore(pool, "propertyidle:cache:").WithExpiration(15*time.Minute))
			closeDB := b.close
			b.close = func() {
				pool.Close()
				closeDB()
			}
		}
		return b, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	appLogger := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	appLogger.WithFields(map[string]interface{}{
		"difficulty": cfg.Difficulty,
		"storage":    cfg.Storage.Driver,
	}).Info("Initializing property game server...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	be, err := openBackend(ctx, cfg.Storage, appLogger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer be.close()

	appLogger.Info("Bootstrapping EventLog...")
	var persister events.EventPersister
	var recaps *storage.Reconstructor
	if be.events != nil {
		persister = storage.NewEventSink(be.events, cfg.Storage.Key)
		recaps = storage.NewReconstructor(be.events)
	}
	journal := events.NewEventLog(persister)

	appLogger.Info("Bootstrapping Engine Subsystems...")
	gameEngine := engine.NewEngine(cfg.Balance, appLogger,
		engine.WithRandom(engine.NewSeededRandom(time.Now().UnixNano())))

	gameStore := store.Open(ctx, gameEngine, be.state, appLogger,
		store.WithKey(cfg.Storage.Key), store.WithJournal(journal))

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(gameStore, appLogger)
	go hub.Run(ctx)
	gameStore.Subscribe(hub.Publish)

	ticker := engine.NewTicker(gameStore, appLogger)
	gameStore.Subscribe(func(u store.Update) {
		switch u.Command {
		case "setSpeed", "togglePause", "reset", "prestige":
			ticker.Reschedule()
		}
	})
	go ticker.Start(ctx)

	// Setup API Routes
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", network.ServeWs(ctx, hub))
	network.NewAPI(gameStore, journal, recaps, cfg.Storage.Key, appLogger).RegisterRoutes(mux)
	mux.HandleFunc("/metrics", metrics.Handler())
	mux.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: mux}
	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("HTTP API & WS Server listening on " + cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	appLogger.Info("Shutting down...")
	ticker.Stop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	_ = godotenv.Load()

	var configPath string
	rootCmd := &cobra.Command{
		Use:   "landlord-server",
		Short: "Property game simulation server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
