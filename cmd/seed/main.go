package main

import (
	"context"
	"log"
	"os"

	"secondhand-marketplace/internal/config"
	"secondhand-marketplace/internal/db"
	"secondhand-marketplace/internal/migrate"
	categoryrepo "secondhand-marketplace/internal/repository/category"
	productrepo "secondhand-marketplace/internal/repository/product"
	sessionrepo "secondhand-marketplace/internal/repository/session"
	userrepo "secondhand-marketplace/internal/repository/user"
	"secondhand-marketplace/internal/seed"
	authsvc "secondhand-marketplace/internal/service/auth"
	categorysvc "secondhand-marketplace/internal/service/category"
	productsvc "secondhand-marketplace/internal/service/product"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool, logger); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	users := userrepo.NewPostgres(pool, logger)
	categories := categorysvc.New(categoryrepo.NewPostgres(pool))

	err = seed.Apply(ctx, seed.Deps{
		Auth:       authsvc.New(users, sessionrepo.NewPostgres(pool), []byte(cfg.SessionSecret), cfg.SessionTTL, logger),
		Users:      users,
		Categories: categories,
		Listings:   productsvc.New(productrepo.NewPostgres(pool, logger), categories, users, logger),
	}, logger)
	if err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Printf("seed applied; demo accounts use password %q", seed.DemoPassword)
}
