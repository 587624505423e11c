package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DBPath          string
	ServerPort      string
	LogLevel        string
	DrawsAPIURL     string
	Timezone        *time.Location
	DrawSyncEnabled bool
	DrawSyncCron    string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	tzName := getEnv("LOTTERY_TIMEZONE", "America/Sao_Paulo")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid LOTTERY_TIMEZONE %q: %w", tzName, err)
	}

	logLevel := getEnv("LOG_LEVEL", "info")
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", logLevel, err)
	}
	zerolog.SetGlobalLevel(level)

	syncEnabled, err := strconv.ParseBool(getEnv("DRAW_SYNC_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DRAW_SYNC_ENABLED: %w", err)
	}

	cfg := &Config{
		DBPath:          getEnv("DB_PATH", "bolao.db"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		LogLevel:        level.String(),
		DrawsAPIURL:     getEnv("DRAWS_API_URL", "https://servicebus2.caixa.gov.br/portaldeloterias/api"),
		Timezone:        loc,
		DrawSyncEnabled: syncEnabled,
		DrawSyncCron:    getEnv("DRAW_SYNC_CRON", "30 21 * * *"),
	}

	if cfg.DrawsAPIURL == "" {
		return nil, fmt.Errorf("DRAWS_API_URL is required")
	}
	if _, err := cron.ParseStandard(cfg.DrawSyncCron); err != nil {
		return nil, fmt.Errorf("invalid DRAW_SYNC_CRON %q: %w", cfg.DrawSyncCron, err)
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("draws_api_url", cfg.DrawsAPIURL).
		Str("timezone", cfg.Timezone.String()).
		Bool("draw_sync_enabled", cfg.DrawSyncEnabled).
		Str("draw_sync_cron", cfg.DrawSyncCron).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
