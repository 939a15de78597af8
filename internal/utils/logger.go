package utils

import (
	"os"

	"go.uber.org/zap"
)

// NewLogger picks the production JSON encoder when ENV is prod or production.
func NewLogger() (*zap.Logger, error) {
	switch os.Getenv("ENV") {
	case "prod", "production":
		return zap.NewProduction()
	default:
		return zap.NewDevelopment()
	}
}
