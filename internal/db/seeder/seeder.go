package seeder

import (
	"crudboard/internal/app/board"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:     db,
		logger: logger,
	}
}

func (s *Seeder) Seed() error {
	s.logger.Info("Running database seeders...")

	if err := s.seedBoards(); err != nil {
		return err
	}

	s.logger.Info("Database seeders completed successfully")
	return nil
}

func (s *Seeder) seedBoards() error {
	var count int64
	if err := s.db.Model(&board.Board{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		s.logger.Info("Boards already exist, skipping seed")
		return nil
	}

	boards := []board.Board{
		{Title: "Welcome to the board", Author: "admin", Content: "This is the first post. Feel free to write your own."},
		{Title: "Posting guidelines", Author: "admin", Content: "Keep titles under 200 characters and be kind to each other."},
		{Title: "Getting started with Go", Author: "gopher", Content: "Start with the tour, then write something small and real."},
		{Title: "Weekend plans?", Author: "alice", Content: "Anyone going hiking this weekend?"},
		{Title: "Favourite databases", Author: "bob", Content: "PostgreSQL for production, SQLite for everything else."},
	}

	if err := s.db.Create(&boards).Error; err != nil {
		return err
	}

	s.logger.Info("Seeded boards", zap.Int("count", len(boards)))
	return nil
}
