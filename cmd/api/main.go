package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"secondhand-marketplace/internal/config"
	"secondhand-marketplace/internal/db"
	"secondhand-marketplace/internal/httpserver"
	"secondhand-marketplace/internal/migrate"
	cartrepo "secondhand-marketplace/internal/repository/cart"
	categoryrepo "secondhand-marketplace/internal/repository/category"
	productrepo "secondhand-marketplace/internal/repository/product"
	purchaserepo "secondhand-marketplace/internal/repository/purchase"
	userrepo "secondhand-marketplace/internal/repository/user"
	authsvc "secondhand-marketplace/internal/service/auth"
	cartsvc "secondhand-marketplace/internal/service/cart"
	categorysvc "secondhand-marketplace/internal/service/category"
	dashboardsvc "secondhand-marketplace/internal/service/dashboard"
	productsvc "secondhand-marketplace/internal/service/product"
	purchasesvc "secondhand-marketplace/internal/service/purchase"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if cfg.InsecureSessionSecret() {
		logger.Printf("WARNING: SESSION_SECRET is not set; tokens are signed with the public default secret")
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	if err := migrate.Apply(ctx, dbpool, logger); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	sessions, closeSessions, err := newSessionStore(ctx, cfg, dbpool, logger)
	if err != nil {
		logger.Fatalf("init session store: %v", err)
	}
	defer closeSessions()

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		logger.Fatalf("init event publisher: %v", err)
	}
	defer publisher.Close()

	userRepo := userrepo.NewPostgres(dbpool, logger)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	categoryService := categorysvc.New(categoryrepo.NewPostgres(dbpool))

	authService := authsvc.New(userRepo, sessions, []byte(cfg.SessionSecret), cfg.SessionTTL, logger)
	dashboardService := dashboardsvc.New(userRepo, logger)
	productService := productsvc.New(productRepo, categoryService, userRepo, logger)
	cartService := cartsvc.New(cartrepo.NewPostgres(dbpool, logger), productRepo, userRepo, logger)
	purchaseService := purchasesvc.New(purchaserepo.NewPostgres(dbpool, logger), userRepo, publisher, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		AuthSvc:      authService,
		DashboardSvc: dashboardService,
		ProductSvc:   productService,
		CartSvc:      cartService,
		PurchaseSvc:  purchaseService,
		StaticDir:    cfg.StaticDir,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
