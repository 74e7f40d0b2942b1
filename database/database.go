package database

import (
	"github.com/dostonbek/testplatform/config"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDatabase opens the embedded fallback store. It is a local file so that
// saving results keeps working when the remote results backend is down.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Fallback.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Error().Err(err).Str("path", cfg.Fallback.Path).Msg("Failed to open fallback database")
		return nil, err
	}
	log.Info().Str("path", cfg.Fallback.Path).Msg("Fallback database opened")
	return db, nil
}
