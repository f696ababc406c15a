package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"minesweeper/internal/cache"
	"minesweeper/internal/database"
	"minesweeper/internal/session"
)

var log = logrus.WithField("component", "server")

type FiberServer struct {
	*fiber.App

	db      database.Service // nil when Postgres is unavailable
	cache   cache.Service    // nil when Redis is unavailable
	manager *session.Manager
	hub     *session.Hub
}

func New(manager *session.Manager, hub *session.Hub, db database.Service, cacheService cache.Service) *FiberServer {
	server := &FiberServer{
		App: fiber.New(fiber.Config{
			ServerHeader:  "minesweeper",
			AppName:       "minesweeper",
			ReadTimeout:   10 * time.Second,
			WriteTimeout:  10 * time.Second,
			IdleTimeout:   120 * time.Second,
			StrictRouting: false,
		}),

		db:      db,
		cache:   cacheService,
		manager: manager,
		hub:     hub,
	}

	server.App.Use(recover.New())
	server.App.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
	}))

	return server
}

// Shutdown stops accepting requests, then stops the hub and closes the
// backing services.
func (s *FiberServer) Shutdown() error {
	log.Info("shutting down")

	err := s.App.ShutdownWithTimeout(5 * time.Second)
	if err != nil {
		log.WithError(err).Error("http shutdown")
	}

	if s.hub != nil {
		s.hub.Stop()
	}
	if s.cache != nil {
		s.cache.Close()
	}
	if s.db != nil {
		s.db.Close()
	}

	return err
}
