package server

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"minesweeper/internal/database"
	"minesweeper/internal/game"
	"minesweeper/internal/session"
)

func errorStatus(err error) int {
	switch {
	case errors.Is(err, game.ErrInvalidConfiguration), errors.Is(err, game.ErrOutOfBounds):
		return fiber.StatusBadRequest
	case errors.Is(err, game.ErrGameOver):
		return fiber.StatusConflict
	case errors.Is(err, session.ErrGameNotFound), errors.Is(err, database.ErrResultNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		log.WithError(err).WithField("path", c.Path()).Error("request failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func (s *FiberServer) healthHandler(c *fiber.Ctx) error {
	health := fiber.Map{
		"database": fiber.Map{"status": "disabled"},
		"cache":    fiber.Map{"status": "disabled"},
		"game": fiber.Map{
			"status":            "running",
			"connected_clients": s.hub.GetClientCount(),
		},
	}
	if s.db != nil {
		health["database"] = s.db.Health()
	}
	if s.cache != nil {
		health["cache"] = s.cache.Health()
	}
	return c.JSON(health)
}

func (s *FiberServer) presetsHandler(c *fiber.Ctx) error {
	return c.JSON(session.Presets())
}

func (s *FiberServer) createGameHandler(c *fiber.Ctx) error {
	var req session.CreateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	id, snap, err := s.manager.Create(c.Context(), req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(session.CreateResponse{
		GameID:   id,
		Snapshot: snap,
	})
}

func (s *FiberServer) getGameHandler(c *fiber.Ctx) error {
	snap, err := s.manager.Snapshot(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(snap)
}

func (s *FiberServer) revealHandler(c *fiber.Ctx) error {
	var req session.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	id := c.Params("id")
	outcome, snap, err := s.manager.Reveal(c.Context(), id, req.Row, req.Col)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(session.RevealResponse{
		GameID:   id,
		Outcome:  outcome,
		Snapshot: snap,
	})
}

func (s *FiberServer) flagHandler(c *fiber.Ctx) error {
	var req session.MoveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	id := c.Params("id")
	outcome, snap, err := s.manager.ToggleFlag(c.Context(), id, req.Row, req.Col)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(session.FlagResponse{
		GameID:   id,
		Outcome:  outcome,
		Snapshot: snap,
	})
}

func (s *FiberServer) resetHandler(c *fiber.Ctx) error {
	snap, err := s.manager.Reset(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(snap)
}

func (s *FiberServer) resultHandler(c *fiber.Ctx) error {
	if s.db == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Result storage unavailable",
		})
	}

	result, err := s.db.GetResult(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(result)
}

func writeJSON(conn *websocket.Conn, msg session.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.WithError(err).Error("marshal websocket message")
		return
	}
	conn.WriteMessage(websocket.TextMessage, data)
}

// gameWebSocketHandler streams snapshots of one game and accepts commands
// for it. Command results reach every watcher through the hub.
func (s *FiberServer) gameWebSocketHandler(conn *websocket.Conn) {
	gameID := conn.Query("game_id")
	entry := log.WithField("game_id", gameID)
	ctx := context.Background()

	// Hijacked connections run outside fiber's recover middleware.
	defer func() {
		if r := recover(); r != nil {
			entry.WithField("panic", r).Error("websocket handler panicked")
		}
	}()

	snap, err := s.manager.Snapshot(ctx, gameID)
	if err != nil {
		writeJSON(conn, session.WSMessage{Type: "error", GameID: gameID, Data: err.Error()})
		return
	}

	client := s.hub.RegisterClient(conn, gameID)
	defer s.hub.UnregisterClient(conn)

	client.Send(session.WSMessage{Type: "snapshot", GameID: gameID, Data: snap})

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			entry.WithError(err).Debug("websocket read ended")
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg session.ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		var cmdErr error
		switch msg.Type {
		case "reveal":
			var outcome game.RevealOutcome
			outcome, _, cmdErr = s.manager.Reveal(ctx, gameID, msg.Row, msg.Col)
			if cmdErr == nil {
				client.Send(session.WSMessage{Type: "reveal", GameID: gameID, Data: outcome})
			}

		case "flag":
			var outcome game.FlagOutcome
			outcome, _, cmdErr = s.manager.ToggleFlag(ctx, gameID, msg.Row, msg.Col)
			if cmdErr == nil {
				client.Send(session.WSMessage{Type: "flag", GameID: gameID, Data: outcome})
			}

		case "reset":
			_, cmdErr = s.manager.Reset(ctx, gameID)

		case "ping":
			client.Send(session.WSMessage{Type: "pong"})

		default:
			entry.WithFields(logrus.Fields{"type": msg.Type}).Debug("unknown websocket message")
		}

		if cmdErr != nil {
			client.Send(session.WSMessage{Type: "error", GameID: gameID, Data: cmdErr.Error()})
		}
	}
}
