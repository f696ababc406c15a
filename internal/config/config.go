package config

import (
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	Port           int
	LogLevel       string
	Board          BoardConfig
	GameTTL        time.Duration
	Redis          RedisConfig
	MigrationsPath string
	AutoMigrate    bool
}

// BoardConfig is the board used when a request names no dimensions.
// MaxCells caps width*height of any requested board; zero disables it.
type BoardConfig struct {
	Width    int
	Height   int
	Mines    int
	MaxCells int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads the environment, after .env has been applied by godotenv.
func Load() *Config {
	return &Config{
		Port:     GetEnvAsInt("PORT", 8080),
		LogLevel: GetEnv("LOG_LEVEL", "info"),
		Board: BoardConfig{
			Width:    GetEnvAsInt("BOARD_WIDTH", 9),
			Height:   GetEnvAsInt("BOARD_HEIGHT", 9),
			Mines:    GetEnvAsInt("BOARD_MINES", 10),
			MaxCells: GetEnvAsInt("BOARD_MAX_CELLS", 250000),
		},
		GameTTL: GetEnvAsDuration("GAME_TTL", time.Hour),
		Redis: RedisConfig{
			Addr:     GetEnv("REDIS_URL", "localhost:6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetEnvAsInt("REDIS_DB", 0),
		},
		MigrationsPath: GetEnv("MIGRATIONS_PATH", "./migrations"),
		AutoMigrate:    GetEnvAsBool("AUTO_MIGRATE", false),
	}
}

// ConfigureLogging applies the level and formatter to the standard logrus
// logger. Unknown levels fall back to info.
func (c *Config) ConfigureLogging() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.WithField("level", c.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

func GetEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func GetEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func GetEnvAsBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func GetEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
