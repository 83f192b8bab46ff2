package main

import (
	"context"
	"flag"
	"time"

	"github.com/wuyiadepoju/iap-billing/internal/app/billing/migrations"
	"github.com/wuyiadepoju/iap-billing/internal/pkg/config"
	"github.com/wuyiadepoju/iap-billing/internal/pkg/logger"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to a config file (yaml, json or toml)")
		dir        = flag.String("dir", "", "Migrations directory (defaults to <project root>/migrations)")
		timeout    = flag.Duration("timeout", 5*time.Minute, "Timeout for migration operations")
	)
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.New(logger.Config{}).WithError(err).Fatal("Failed to load config")
	}
	log := logger.New(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := migrations.RunMigrations(ctx, cfg.Spanner, *dir, log); err != nil {
		log.WithError(err).Fatal("Migration failed")
	}

	log.Info("All migrations applied successfully")
}
