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
	"github.com/Beigelman/house-crawler/internal/parser"
	"github.com/Beigelman/house-crawler/internal/storage"
	"github.com/Beigelman/house-crawler/internal/validate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required to validate stored properties")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Error connecting to database")
	}
	defer store.Close()

	fetcher, _ := collect.NewFetcher(cfg)
	report, err := validate.New(fetcher, parser.Sites(), log).Run(ctx, store)
	if err != nil {
		log.WithError(err).Error("Validation failed")
		return
	}
	for _, link := range report.Invalid {
		fmt.Printf("removed: %s\n", link)
	}
}
