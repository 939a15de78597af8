package utils

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// LoadEnv reads ENV_FILE, or .env when unset. Variables already present in the
// environment win over file values.
func LoadEnv(logger *zap.Logger) {
	file := os.Getenv("ENV_FILE")
	if file == "" {
		file = ".env"
	}

	if err := godotenv.Load(file); err != nil {
		logger.Warn("ENV file not found or failed to load, using defaults", zap.String("file", file))
		return
	}
	logger.Info("ENV file loaded successfully", zap.String("file", file))
}
