package main

import (
	"context"
	"flag"
	"log"
	"os"

	"secondhand-marketplace/internal/config"
	"secondhand-marketplace/internal/db"
	"secondhand-marketplace/internal/migrate"
)

func main() {
	var status bool
	flag.BoolVar(&status, "status", false, "Print the applied schema version and exit")
	flag.Parse()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if !status {
		if err := migrate.Apply(ctx, pool, logger); err != nil {
			logger.Fatalf("apply migrations: %v", err)
		}
	}

	version, dirty, err := migrate.Version(ctx, pool)
	if err != nil {
		logger.Fatalf("read schema version: %v", err)
	}
	logger.Printf("schema version %d (dirty=%t)", version, dirty)
}
