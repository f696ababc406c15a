package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"

	"minesweeper/internal/config"
)

var log = logrus.WithField("component", "database")

// ErrResultNotFound is returned when no finished game has the given id.
var ErrResultNotFound = errors.New("game result not found")

// GameResult is the durable record of a finished game. The seed fields let
// anyone re-derive the mine placement after the fact.
type GameResult struct {
	GameID           string    `json:"game_id"`
	Width            int       `json:"width"`
	Height           int       `json:"height"`
	MineCount        int       `json:"mine_count"`
	Status           string    `json:"status"`
	FlaggedMineScore int       `json:"flagged_mine_score"`
	MoveCount        int       `json:"move_count"`
	ServerSeed       string    `json:"server_seed"`
	ClientSeed       string    `json:"client_seed"`
	Nonce            int       `json:"nonce"`
	FinishedAt       time.Time `json:"finished_at"`
}

type Service interface {
	Health() map[string]string
	Close() error
	DB() *sql.DB
	RecordResult(ctx context.Context, result GameResult) error
	GetResult(ctx context.Context, gameID string) (GameResult, error)
}

type service struct {
	db *sql.DB
}

var (
	database   = config.GetEnv("BLUEPRINT_DB_DATABASE", "minesweeper")
	password   = config.GetEnv("BLUEPRINT_DB_PASSWORD", "postgres")
	username   = config.GetEnv("BLUEPRINT_DB_USERNAME", "postgres")
	port       = config.GetEnv("BLUEPRINT_DB_PORT", "5432")
	host       = config.GetEnv("BLUEPRINT_DB_HOST", "localhost")
	schema     = config.GetEnv("BLUEPRINT_DB_SCHEMA", "public")
	dbInstance *service
)

// ConnString builds the pgx connection URL from the BLUEPRINT_DB_* settings.
func ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable&search_path=%s",
		username, password, host, port, database, schema)
}

func New() (Service, error) {
	if dbInstance != nil {
		return dbInstance, nil
	}

	db, err := sql.Open("pgx", ConnString())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	dbInstance = &service{db: db}
	return dbInstance, nil
}

func (s *service) DB() *sql.DB {
	return s.db
}

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	err := s.db.PingContext(ctx)
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		log.WithError(err).Error("database ping failed")
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := s.db.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()
	stats["max_idle_closed"] = strconv.FormatInt(dbStats.MaxIdleClosed, 10)
	stats["max_lifetime_closed"] = strconv.FormatInt(dbStats.MaxLifetimeClosed, 10)

	if dbStats.OpenConnections > 40 {
		stats["message"] = "The database is experiencing heavy load."
	}

	return stats
}

// Close closes the database connection.
func (s *service) Close() error {
	log.WithField("database", database).Info("disconnected from database")
	dbInstance = nil
	return s.db.Close()
}

// RecordResult stores a finished game. A reset game finishes again under the
// same id with a new seed, so rows are unique per (game id, server seed);
// recording the same board twice keeps the first row.
func (s *service) RecordResult(ctx context.Context, r GameResult) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO game_results
			(game_id, width, height, mine_count, status, flagged_mine_score, move_count,
			 server_seed, client_seed, nonce, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (game_id, server_seed) DO NOTHING`,
		r.GameID, r.Width, r.Height, r.MineCount, r.Status, r.FlaggedMineScore, r.MoveCount,
		r.ServerSeed, r.ClientSeed, r.Nonce, r.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("record result %s: %w", r.GameID, err)
	}
	return nil
}

// GetResult returns the most recent result recorded for gameID.
func (s *service) GetResult(ctx context.Context, gameID string) (GameResult, error) {
	var r GameResult
	err := s.db.QueryRowContext(ctx, `
		SELECT game_id, width, height, mine_count, status, flagged_mine_score, move_count,
		       server_seed, client_seed, nonce, finished_at
		FROM game_results
		WHERE game_id = $1
		ORDER BY finished_at DESC, id DESC
		LIMIT 1`, gameID,
	).Scan(
		&r.GameID, &r.Width, &r.Height, &r.MineCount, &r.Status, &r.FlaggedMineScore, &r.MoveCount,
		&r.ServerSeed, &r.ClientSeed, &r.Nonce, &r.FinishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GameResult{}, ErrResultNotFound
	}
	if err != nil {
		return GameResult{}, fmt.Errorf("get result %s: %w", gameID, err)
	}
	return r, nil
}
