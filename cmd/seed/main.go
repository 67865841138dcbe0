package main

import (
	"context"
	"os"

	"winetour-backend/internal/config"
	"winetour-backend/internal/db"
	"winetour-backend/internal/logger"
	"winetour-backend/internal/seed"
)

func main() {
	cfg := config.FromEnv()

	log, err := logger.New()
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatalw("connect db", "err", err)
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool); err != nil {
		log.Fatalw("seed apply", "err", err)
	}

	log.Infow("seed applied")
}
