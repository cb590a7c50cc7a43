package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"taskboard/internal/config"
	"taskboard/internal/database"
	"taskboard/internal/server"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Info("database connection established")

	if err := db.Migrate(); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	srv := server.New(cfg, db)
	srv.RegisterFiberRoutes()

	go func() {
		if err := srv.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("server stopped: %v", err)
		}
	}()
	log.Infof("taskboard api listening on port %s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := srv.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorf("shutdown failed: %v", err)
	}
}
