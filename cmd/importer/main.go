package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"secondhand-marketplace/internal/config"
	"secondhand-marketplace/internal/db"
	"secondhand-marketplace/internal/importer"
	categoryrepo "secondhand-marketplace/internal/repository/category"
	productrepo "secondhand-marketplace/internal/repository/product"
	userrepo "secondhand-marketplace/internal/repository/user"
	categorysvc "secondhand-marketplace/internal/service/category"
	productsvc "secondhand-marketplace/internal/service/product"
)

func main() {
	var (
		filePath string
		seller   string
	)
	flag.StringVar(&filePath, "file", "", "Path to a listings or categories CSV file")
	flag.StringVar(&seller, "seller", "", "Email or display name of the seller owning imported listings")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	ctx := context.Background()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	kind, err := importer.DetectKind(f)
	if err != nil {
		logger.Fatalf("detect file kind: %v", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		logger.Fatalf("rewind file: %v", err)
	}
	if kind == importer.KindListings && seller == "" {
		logger.Fatalf("-seller is required for listing imports")
	}

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	users := userrepo.NewPostgres(pool, logger)
	categories := categorysvc.New(categoryrepo.NewPostgres(pool))
	listings := productsvc.New(productrepo.NewPostgres(pool, logger), categories, users, logger)

	var sellerID int64
	if kind == importer.KindListings {
		u, err := users.GetByLogin(ctx, seller)
		if err != nil {
			logger.Fatalf("look up seller %q: %v", seller, err)
		}
		sellerID = u.ID
	}

	imp := importer.NewCSVImporter(f, listings, categories, sellerID)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed after %d rows: %v", count, err)
	}

	fmt.Printf("Imported %d %s in %s\n", count, kind, time.Since(start).Truncate(time.Millisecond))
}
