package utils

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/skssmd/patient-project/internal/models"
	"github.com/skssmd/patient-project/internal/repository"
)

const (
	DefaultNumPatients = 100
	seedBatchSize      = 500
)

var (
	firstNames = []string{"Ada", "Grace", "Alan", "Mary", "John", "Aisha", "Wei", "Priya", "Olu", "Sofia", "Noah", "Hana"}
	lastNames  = []string{"Lovelace", "Hopper", "Turing", "Seacole", "Snow", "Khan", "Zhang", "Patel", "Adeyemi", "Rossi", "Smith", "Sato"}
	ethnicity  = []string{"White British", "Asian", "Black African", "Black Caribbean", "Chinese", "Mixed", "Other"}
	sexes      = []models.Sex{models.SexMale, models.SexFemale, models.SexOther}
)

// GeneratePatient builds one random but valid patient.
func GeneratePatient(r *rand.Rand) models.Patient {
	dob := time.Date(1930, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, r.Intn(365*90))
	return models.Patient{
		FirstName:        firstNames[r.Intn(len(firstNames))],
		LastName:         lastNames[r.Intn(len(lastNames))],
		DOB:              models.Date(dob),
		Sex:              sexes[r.Intn(len(sexes))],
		EthnicBackground: ethnicity[r.Intn(len(ethnicity))],
	}
}

// SeedPatients inserts n generated patients in batches. Each batch is atomic.
func SeedPatients(ctx context.Context, repo repository.PatientRepository, n int, r *rand.Rand, log zerolog.Logger) (int, error) {
	if n <= 0 {
		return 0, nil
	}

	start := time.Now()
	created := 0
	for i := 0; i < n; i += seedBatchSize {
		end := i + seedBatchSize
		if end > n {
			end = n
		}

		batch := make([]models.Patient, 0, end-i)
		for j := i; j < end; j++ {
			batch = append(batch, GeneratePatient(r))
		}

		batchStart := time.Now()
		if err := repo.CreateBatch(ctx, batch); err != nil {
			return created, fmt.Errorf("failed to create patients batch %d-%d: %w", i, end-1, err)
		}
		created += len(batch)

		log.Debug().
			Int("from", i).
			Int("to", end-1).
			Dur("elapsed", time.Since(batchStart)).
			Msg("seeded patient batch")
	}

	elapsed := time.Since(start)
	log.Info().
		Int("patients", created).
		Dur("elapsed", elapsed).
		Float64("per_second", float64(created)/elapsed.Seconds()).
		Msg("seeding complete")
	return created, nil
}
