package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/gnosis/snapp-indexer/config"
	"github.com/gnosis/snapp-indexer/dispatcher"
	"github.com/gnosis/snapp-indexer/handlers"
	"github.com/gnosis/snapp-indexer/indexer"
	"github.com/gnosis/snapp-indexer/listener"
	"github.com/gnosis/snapp-indexer/store"
	"github.com/gnosis/snapp-indexer/store/memory"
	"github.com/gnosis/snapp-indexer/store/postgres"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to build store", zap.Error(err))
	}
	if closer, ok := s.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	h := handlers.New(s, logger)
	d := dispatcher.New(h, logger)

	// This repo ships no production listener.Listener implementation —
	// sourcing decoded events from a chain node is a separate process's
	// job (spec.md §6). Fake stands in here so the binary runs end to end
	// and serves health checks; a real deployment constructs its own
	// Listener and calls indexer.New/Run directly instead of running this
	// main.
	l := listener.NewFake()
	idx := indexer.New(l, d, cfg.PollInterval, logger)

	logger = logger.With(zap.String("store_backend", string(cfg.Backend)), zap.Duration("poll_interval", cfg.PollInterval))
	logger.Info("snapp indexer starting")

	go serveHealth(cfg.HealthPort, idx, logger)

	if err := idx.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("indexer stopped", zap.Error(err))
	}
	logger.Info("snapp indexer shutting down")
}

func buildStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		logger.Info("connecting to postgres store")
		return postgres.Open(ctx, cfg.PostgresDSN)
	default:
		logger.Info("using in-memory store")
		return memory.New(), nil
	}
}

func serveHealth(port string, idx *indexer.Indexer, logger *zap.Logger) {
	addr := fmt.Sprintf(":%s", port)
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		stats := idx.Stats()
		response := map[string]any{
			"status": "healthy",
			"metrics": map[string]any{
				"dispatched": stats.Dispatched,
				"dropped":    stats.Dropped,
				"errored":    stats.Errored,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.Error("failed to encode health response", zap.Error(err))
		}
	})

	logger.Info("starting health check server", zap.String("address", addr))
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Error("health check server stopped", zap.Error(err))
	}
}
