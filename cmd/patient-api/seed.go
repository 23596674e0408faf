package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skssmd/patient-project/database"
	"github.com/skssmd/patient-project/internal/repository"
	"github.com/skssmd/patient-project/internal/utils"
)

func seedCmd() *cobra.Command {
	var (
		count int
		seed  int64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert generated sample patients",
		Long: `Insert generated sample patients for local development.

Runs migrations first, then inserts patients in batches. Use --seed to get
the same patients on every run.

  patient-api seed --count 250
  patient-api seed --count 25 --seed 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 0 {
				return fmt.Errorf("--count must not be negative, got %d", count)
			}

			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			db, err := database.Connect(cfg, log)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.MigrateDatabase(db, log); err != nil {
				return err
			}

			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			created, err := utils.SeedPatients(cmd.Context(), repository.NewPatientRepository(db), count, rand.New(rand.NewSource(seed)), log)
			if err != nil {
				color.Red("Seeding stopped after %d patients: %v", created, err)
				return err
			}

			color.Green("Created %d patients", created)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", utils.DefaultNumPatients, "Number of patients to create")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 picks one from the clock)")
	return cmd
}
