package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/naturalist-tools/inat-tz/services/libs/logging"
	"github.com/naturalist-tools/inat-tz/services/uploader/internal/config"
	"github.com/naturalist-tools/inat-tz/services/uploader/internal/exifmeta"
	"github.com/naturalist-tools/inat-tz/services/uploader/internal/tzclient"
	"github.com/naturalist-tools/inat-tz/services/uploader/internal/utils"
)

var errSomeFailed = errors.New("some images could not be read")

func main() {
	logger, err := logging.NewLogger("uploader")
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer logger.Sync()

	if err := run(logger, os.Args[1:]); err != nil {
		logger.Error("uploader failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger, paths []string) error {
	if len(paths) == 0 {
		return errors.New("usage: uploader <image> [image...]")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	extractor := exifmeta.NewExtractor(logger, cfg.CoordPrecision, cfg.AltPrecision)

	var client *tzclient.Client
	if cfg.LookupEnabled() {
		client = tzclient.New(cfg.ServerURL, cfg.Token, cfg.RequestTimeout)
	} else {
		logger.Info("time zone lookup disabled", zap.Bool("dry_run", cfg.DryRun))
	}

	out := json.NewEncoder(os.Stdout)
	failed := 0
	for _, path := range paths {
		meta, err := extractor.Extract(path)
		if err != nil {
			failed++
			logger.Error("cannot read image", zap.String("file", path), zap.Error(err))
			if err := out.Encode(utils.FailedReport(path, err)); err != nil {
				return err
			}
			continue
		}
		logger.Debug("extracted metadata",
			zap.String("file", path),
			zap.String("timestamp", meta.Timestamp),
			zap.String("position", utils.PositionString(meta)),
		)

		var env *tzclient.Envelope
		var lookupErr error
		if client != nil && meta.HasPosition() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
			env, lookupErr = client.Lookup(ctx, *meta.Longitude, *meta.Latitude)
			cancel()
			if lookupErr != nil {
				logger.Warn("time zone lookup failed", zap.String("file", path), zap.Error(lookupErr))
			}
		}

		if err := out.Encode(utils.BuildReport(path, meta, env, lookupErr)); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errSomeFailed, failed, len(paths))
	}
	return nil
}
