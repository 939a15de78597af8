package main

import (
	"log"

	"crudboard/internal/config"
	"crudboard/internal/db"
	"crudboard/internal/db/seeder"
	"crudboard/internal/utils"

	"go.uber.org/zap"
)

// Applies the schema and, when SEED_SAMPLE_DATA is true, inserts sample posts.
func main() {
	logger, err := utils.NewLogger()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer logger.Sync()

	utils.LoadEnv(logger)

	cfg := config.LoadConfig()

	logger.Info("Config loaded",
		zap.String("db_driver", cfg.DBDriver),
		zap.String("db_host", cfg.DBHost),
		zap.String("env", cfg.Env),
	)

	dbConn, err := db.Connect(&cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.Migrate(dbConn, logger); err != nil {
		logger.Fatal("Migration failed", zap.Error(err))
	}

	if cfg.SeedSampleData {
		if err := seeder.NewSeeder(dbConn, logger).Seed(); err != nil {
			logger.Fatal("Seeding failed", zap.Error(err))
		}
	}

	logger.Info("Migration finished")
}
