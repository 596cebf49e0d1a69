package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/naturalist-tools/inat-tz/services/api/config"
	"github.com/naturalist-tools/inat-tz/services/api/db"
	httpserver "github.com/naturalist-tools/inat-tz/services/api/http"
	"github.com/naturalist-tools/inat-tz/services/api/lookup"
	"github.com/naturalist-tools/inat-tz/services/api/zones"
	"github.com/naturalist-tools/inat-tz/services/libs/logging"
)

func main() {
	logger, err := logging.NewLogger("tz-api")
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("lookup service failed", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var store *db.Store
	if cfg.UsesPostgres() {
		store, err = db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("db connection error: %w", err)
		}
		defer store.Close()
	}

	var tokens lookup.TokenStore = store
	if cfg.TokenStore == config.BackendRedis {
		client, err := db.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return fmt.Errorf("redis connection error: %w", err)
		}
		defer client.Close()
		tokens = db.NewRedisTokenStore(client)
	}

	var finder lookup.ZoneFinder = store
	switch cfg.ZoneStore {
	case config.BackendTZF:
		if finder, err = zones.NewPolygonFinder(); err != nil {
			return err
		}
	case config.BackendGoogle:
		if finder, err = zones.NewGoogleFinder(cfg.GoogleMapsAPIKey); err != nil {
			return fmt.Errorf("google maps client error: %w", err)
		}
	}

	service := lookup.NewService(lookup.NewGate(tokens, logger), finder, logger)
	srv := httpserver.New(cfg, service, logger)
	logger.Info("lookup API listening",
		zap.String("addr", cfg.ListenAddr()),
		zap.String("token_store", cfg.TokenStore),
		zap.String("zone_store", cfg.ZoneStore),
	)

	return srv.Run(ctx)
}
