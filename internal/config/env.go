package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// EnvLogLevel overrides logging.level when set.
const EnvLogLevel = "DOCNAV_LOG_LEVEL"

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads the first readable .env file. Existing process
// environment variables are not overwritten.
func loadEnvFiles() {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Failed to load environment file", slog.String("file", name), slog.String("error", err.Error()))
			continue
		}
		slog.Debug("Loaded environment variables", slog.String("file", name))
		return
	}
}

func applyEnvOverrides(cfg *Config) {
	if raw := os.Getenv(EnvLogLevel); raw != "" {
		cfg.Logging.Level = NormalizeLogLevel(raw)
	}
}
