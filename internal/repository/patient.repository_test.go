package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skssmd/patient-project/database"
	"github.com/skssmd/patient-project/internal/apperrors"
	"github.com/skssmd/patient-project/internal/config"
	"github.com/skssmd/patient-project/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{DBDriver: config.DriverSQLite, SQLitePath: ":memory:"}

	db, err := database.Connect(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.MigrateDatabase(db, zerolog.Nop()))
	return db
}

func samplePatient(first, last string) models.Patient {
	dob, _ := models.ParseDate("1985-12-10")
	return models.Patient{
		FirstName:        first,
		LastName:         last,
		DOB:              dob,
		Sex:              models.SexFemale,
		EthnicBackground: "White British",
	}
}

func TestPatientRepositoryCreateAndFind(t *testing.T) {
	repo := NewPatientRepository(newTestDB(t))
	ctx := context.Background()

	patient := samplePatient("Ada", "Lovelace")
	require.NoError(t, repo.Create(ctx, &patient))
	assert.NotZero(t, patient.ID)
	assert.False(t, patient.CreatedAt.IsZero())

	found, err := repo.FindByID(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", found.FirstName)
	assert.Equal(t, "Lovelace", found.LastName)
	assert.Equal(t, "1985-12-10", found.DOB.String())
	assert.Equal(t, models.SexFemale, found.Sex)
	assert.Equal(t, "White British", found.EthnicBackground)
}

func TestPatientRepositoryFindMissing(t *testing.T) {
	repo := NewPatientRepository(newTestDB(t))

	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPatientRepositoryListAndCount(t *testing.T) {
	repo := NewPatientRepository(newTestDB(t))
	ctx := context.Background()

	var batch []models.Patient
	for i := 0; i < 25; i++ {
		batch = append(batch, samplePatient(fmt.Sprintf("First%02d", i), "Last"))
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))
	for _, p := range batch {
		assert.NotZero(t, p.ID)
	}

	count, err := repo.Count(ctx, PatientFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(25), count)

	page, err := repo.List(ctx, PatientFilter{}, 20, 10)
	require.NoError(t, err)
	require.Len(t, page, 5)
	assert.Equal(t, "First20", page[0].FirstName)
	assert.Less(t, page[0].ID, page[1].ID)

	empty, err := repo.List(ctx, PatientFilter{}, 100, 10)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestPatientRepositoryFilters(t *testing.T) {
	repo := NewPatientRepository(newTestDB(t))
	ctx := context.Background()

	ada := samplePatient("Ada", "Lovelace")
	alan := samplePatient("Alan", "Turing")
	alan.Sex = models.SexMale
	alan.EthnicBackground = "Other"
	require.NoError(t, repo.CreateBatch(ctx, []models.Patient{ada, alan}))

	tests := []struct {
		name   string
		filter PatientFilter
		want   []string
	}{
		{name: "search first name, any case", filter: PatientFilter{Search: "aDa"}, want: []string{"Ada"}},
		{name: "search last name", filter: PatientFilter{Search: "turing"}, want: []string{"Alan"}},
		{name: "sex", filter: PatientFilter{Sex: "male"}, want: []string{"Alan"}},
		{name: "ethnic background", filter: PatientFilter{EthnicBackground: "White British"}, want: []string{"Ada"}},
		{name: "combined, no match", filter: PatientFilter{Search: "ada", Sex: "male"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patients, err := repo.List(ctx, tt.filter, 0, 10)
			require.NoError(t, err)

			names := []string{}
			for _, p := range patients {
				names = append(names, p.FirstName)
			}
			assert.Equal(t, tt.want, names)

			count, err := repo.Count(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), count)
		})
	}
}

func TestPatientRepositoryCreateBatchIsAtomic(t *testing.T) {
	db := newTestDB(t)
	repo := NewPatientRepository(db)
	ctx := context.Background()

	first := samplePatient("Ok", "One")
	require.NoError(t, repo.Create(ctx, &first))

	duplicate := samplePatient("Dup", "Two")
	duplicate.ID = first.ID
	err := repo.CreateBatch(ctx, []models.Patient{samplePatient("New", "Three"), duplicate})
	require.Error(t, err)

	count, err := repo.Count(ctx, PatientFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPatientRepositoryCreateBatchLarge(t *testing.T) {
	repo := NewPatientRepository(newTestDB(t))
	ctx := context.Background()

	batch := make([]models.Patient, 6500)
	for i := range batch {
		batch[i] = samplePatient(fmt.Sprintf("P%d", i), "Large")
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))
	assert.NotZero(t, batch[len(batch)-1].ID)

	count, err := repo.Count(ctx, PatientFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(6500), count)
}

func TestPatientRepositoryCreateBatchLargeIsAtomic(t *testing.T) {
	repo := NewPatientRepository(newTestDB(t))
	ctx := context.Background()

	first := samplePatient("Ok", "One")
	require.NoError(t, repo.Create(ctx, &first))

	batch := make([]models.Patient, 2500)
	for i := range batch {
		batch[i] = samplePatient(fmt.Sprintf("P%d", i), "Large")
	}
	batch[len(batch)-1].ID = first.ID
	require.Error(t, repo.CreateBatch(ctx, batch))

	count, err := repo.Count(ctx, PatientFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPatientRepositoryDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	repo := NewPatientRepository(db)
	metricsRepo := NewPatientMetricsRepository(db)
	ctx := context.Background()

	patient := samplePatient("Ada", "Lovelace")
	require.NoError(t, repo.Create(ctx, &patient))

	_, _, err := metricsRepo.Create(ctx, &models.PatientMetrics{
		PatientID: patient.ID, WeightValue: 70, WeightUnit: "kg", HeightValue: 1.7, HeightUnit: "m", Results: []byte("[]"),
	})
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, patient.ID, deleted.ID)
	assert.Equal(t, "Ada", deleted.FirstName)

	_, err = repo.FindByID(ctx, patient.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	remaining, err := metricsRepo.FindAllByPatientID(ctx, patient.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	_, err = repo.Delete(ctx, patient.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPatientRepositoryIDsNotReused(t *testing.T) {
	repo := NewPatientRepository(newTestDB(t))
	ctx := context.Background()

	first := samplePatient("A", "A")
	require.NoError(t, repo.Create(ctx, &first))
	_, err := repo.Delete(ctx, first.ID)
	require.NoError(t, err)

	second := samplePatient("B", "B")
	require.NoError(t, repo.Create(ctx, &second))
	assert.Greater(t, second.ID, first.ID)
}
