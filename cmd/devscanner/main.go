package main

import (
	"context"
	"database/sql"
	"os"

	_ "github.com/lib/pq"

	"devscanner/internal/app"
	"devscanner/internal/config"
	"devscanner/internal/logging"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	application := app.New(cfg, db, logger)

	if err := application.StartCleanup(ctx); err != nil {
		logger.Error("start cleanup scheduler", "error", err)
		os.Exit(1)
	}
	defer func() { _ = application.StopCleanup(ctx) }()

	if err := application.Run(ctx); err != nil {
		logger.Error("scan finished with failures", "error", err)
		os.Exit(1)
	}
}
