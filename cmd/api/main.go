package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"minesweeper/internal/cache"
	"minesweeper/internal/config"
	"minesweeper/internal/database"
	"minesweeper/internal/game"
	"minesweeper/internal/server"
	"minesweeper/internal/session"
)

func main() {
	cfg := config.Load()
	cfg.ConfigureLogging()

	log := logrus.WithField("component", "api")

	var recorder session.Recorder
	db, err := database.New()
	if err == nil {
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = db.DB().PingContext(pingCtx)
		cancel()
	}
	if err != nil {
		log.WithError(err).Warn("database unavailable, results will not be recorded")
		db = nil
	} else {
		if cfg.AutoMigrate {
			if err := database.RunMigrations(db.DB(), cfg.MigrationsPath); err != nil {
				log.WithError(err).Fatal("migrations failed")
			}
		}
		recorder = db
	}

	var store session.Store
	cacheService := cache.New(cfg.Redis)
	if cacheService != nil {
		store = session.NewRedisStore(cacheService.GetClient(), cfg.GameTTL)
	} else {
		log.Warn("redis unavailable, games are kept in memory")
		store = session.NewMemoryStore()
	}

	hub := session.NewHub()
	go hub.Run()

	manager := session.NewManager(session.Dependencies{
		Store:     store,
		Generator: game.NewGenerator(),
		Recorder:  recorder,
		Publisher: hub,
		Defaults:  cfg.Board,
	})

	app := server.New(manager, hub, db, cacheService)
	app.RegisterFiberRoutes()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		log.WithField("addr", addr).Info("listening")
		if err := app.Listen(addr); err != nil {
			log.WithError(err).Error("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	if err := app.Shutdown(); err != nil {
		log.WithError(err).Error("shutdown")
	}
	log.Info("server exited")
}
