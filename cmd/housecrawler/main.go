package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Beigelman/house-crawler/internal/collect"
	"github.com/Beigelman/house-crawler/internal/config"
	"github.com/Beigelman/house-crawler/internal/logger"
	"github.com/Beigelman/house-crawler/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Starting house crawler...")

	runner := collect.NewRunner(cfg, log)
	res, err := collect.NewCollector(runner, collect.Targets(cfg), log).Collect(ctx)
	if res == nil {
		log.WithError(err).Fatal("Collection failed")
	}
	if err != nil {
		// interrupted: keep whatever was collected
		log.WithError(err).Warn("Collection interrupted")
	}

	if err := storage.WriteJSONFile(cfg.OutputFile, res.Properties); err != nil {
		log.WithError(err).Fatal("Error writing output file")
	}
	log.WithField("file", cfg.OutputFile).Infof("Wrote %d properties", len(res.Properties))

	if cfg.DatabaseURL == "" {
		return
	}
	store, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Error connecting to database")
	}
	defer store.Close()

	inserted, err := store.InsertNew(ctx, res.Properties)
	if err != nil {
		log.WithError(err).Error("Error syncing properties")
		return
	}
	for _, p := range inserted {
		log.WithField("link", p.Link).Infof("New property: %s %s", p.TitleText(), p.Price)
	}
	log.Infof("%d new properties stored", len(inserted))
}
