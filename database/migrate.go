package database

import (
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/skssmd/patient-project/internal/models"
)

func MigrateDatabase(db *gorm.DB, log zerolog.Logger) error {
	log.Info().Msg("Running database migrations...")

	err := db.AutoMigrate(
		&models.Patient{},
		&models.PatientMetrics{},
	)

	if err != nil {
		log.Error().Err(err).Msg("Error during migration")
		return err
	}

	log.Info().Msg("Database migrations completed successfully")
	return nil
}
