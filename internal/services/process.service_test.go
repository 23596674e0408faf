package services

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skssmd/patient-project/database"
	"github.com/skssmd/patient-project/internal/apperrors"
	"github.com/skssmd/patient-project/internal/config"
	"github.com/skssmd/patient-project/internal/mocks"
	"github.com/skssmd/patient-project/internal/models"
	"github.com/skssmd/patient-project/internal/processing"
	"github.com/skssmd/patient-project/internal/repository"
)

const processBody = `{"weight":{"value":70,"unit":"kg"},"height":{"value":1.75,"unit":"m"}}`

var processRequest = processing.Request{
	Weight: models.Measurement{Value: 70, Unit: "kg"},
	Height: models.Measurement{Value: 1.75, Unit: "m"},
}

func remoteResponse() *processing.Response {
	return &processing.Response{
		Patient: models.BodyMeasurements{Weight: processRequest.Weight, Height: processRequest.Height},
		Results: json.RawMessage(`[[0, 1.1], [30, 2.2]]`),
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(&config.Config{DBDriver: config.DriverSQLite, SQLitePath: ":memory:"}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.MigrateDatabase(db, zerolog.Nop()))
	return db
}

type processFixture struct {
	svc      *ProcessService
	patients repository.PatientRepository
	metrics  repository.PatientMetricsRepository
	client   *mocks.MockProcessingClient
	patient  models.Patient
}

func newProcessFixture(t *testing.T) *processFixture {
	t.Helper()
	db := newTestDB(t)
	patients := repository.NewPatientRepository(db)
	metrics := repository.NewPatientMetricsRepository(db)
	client := new(mocks.MockProcessingClient)

	patient, errs := ValidatePatient([]byte(patientJSON("Proc")))
	require.Nil(t, errs)
	require.NoError(t, patients.Create(context.Background(), &patient))

	return &processFixture{
		svc:      NewProcessService(patients, metrics, client, zerolog.Nop()),
		patients: patients,
		metrics:  metrics,
		client:   client,
		patient:  patient,
	}
}

func TestProcessCallsRemoteOnceForIdenticalInput(t *testing.T) {
	f := newProcessFixture(t)
	ctx := context.Background()
	f.client.On("Process", mock.Anything, f.patient.ID, processRequest).Return(remoteResponse(), nil).Once()

	first, err := f.svc.Process(ctx, f.patient.ID, []byte(processBody))
	require.NoError(t, err)
	second, err := f.svc.Process(ctx, f.patient.ID, []byte(processBody))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first.Results, 2)
	assert.JSONEq(t, "30", string(first.Results[1].Duration30M))
	assert.JSONEq(t, "2.2", string(first.Results[1].Concentration))
	assert.Equal(t, processRequest.Weight, first.Patient.Weight)

	rows, err := f.metrics.FindAllByPatientID(ctx, f.patient.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	f.client.AssertNumberOfCalls(t, "Process", 1)
}

func TestProcessConcurrentMissesStoreOneRow(t *testing.T) {
	f := newProcessFixture(t)
	ctx := context.Background()
	f.client.On("Process", mock.Anything, f.patient.ID, processRequest).Return(remoteResponse(), nil)

	var wg sync.WaitGroup
	results := make([]*ProcessResult, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.svc.Process(ctx, f.patient.ID, []byte(processBody))
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	for _, res := range results[1:] {
		assert.Equal(t, results[0], res)
	}
	rows, err := f.metrics.FindAllByPatientID(ctx, f.patient.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestProcessMissingPatient(t *testing.T) {
	f := newProcessFixture(t)

	_, err := f.svc.Process(context.Background(), f.patient.ID+100, []byte(processBody))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	f.client.AssertNotCalled(t, "Process", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessMalformedPayload(t *testing.T) {
	f := newProcessFixture(t)
	ctx := context.Background()

	_, err := f.svc.Process(ctx, f.patient.ID, []byte(`{"weight":{"value":70}}`))

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	f.client.AssertNotCalled(t, "Process", mock.Anything, mock.Anything, mock.Anything)

	rows, err := f.metrics.FindAllByPatientID(ctx, f.patient.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestProcessRemoteFailureStoresNothing(t *testing.T) {
	f := newProcessFixture(t)
	ctx := context.Background()
	remoteErr := &apperrors.ExternalError{StatusCode: http.StatusServiceUnavailable, Body: []byte("busy")}
	f.client.On("Process", mock.Anything, f.patient.ID, processRequest).Return(nil, remoteErr)

	_, err := f.svc.Process(ctx, f.patient.ID, []byte(processBody))
	assert.ErrorIs(t, err, remoteErr)

	rows, err := f.metrics.FindAllByPatientID(ctx, f.patient.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestProcessMalformedRemoteResultsStoresNothing(t *testing.T) {
	f := newProcessFixture(t)
	ctx := context.Background()
	resp := remoteResponse()
	resp.Results = json.RawMessage(`[1, 2]`)
	f.client.On("Process", mock.Anything, f.patient.ID, processRequest).Return(resp, nil).Twice()

	for i := 0; i < 2; i++ {
		_, err := f.svc.Process(ctx, f.patient.ID, []byte(processBody))
		var externalErr *apperrors.ExternalError
		require.ErrorAs(t, err, &externalErr)
		assert.Equal(t, http.StatusBadGateway, externalErr.StatusCode)
	}

	rows, err := f.metrics.FindAllByPatientID(ctx, f.patient.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
	f.client.AssertExpectations(t)
}

func TestProcessStoresRemoteMeasurements(t *testing.T) {
	f := newProcessFixture(t)
	ctx := context.Background()
	resp := remoteResponse()
	resp.Patient.Height = models.Measurement{Value: 175, Unit: "cm"}
	resp.Results = json.RawMessage(`[]`)
	f.client.On("Process", mock.Anything, f.patient.ID, processRequest).Return(resp, nil)

	res, err := f.svc.Process(ctx, f.patient.ID, []byte(processBody))
	require.NoError(t, err)
	assert.Equal(t, models.Measurement{Value: 175, Unit: "cm"}, res.Patient.Height)
	assert.NotNil(t, res.Results)
	assert.Empty(t, res.Results)
}

func TestIngestAndHistory(t *testing.T) {
	f := newProcessFixture(t)
	ctx := context.Background()

	view, created, err := f.svc.Ingest(ctx, f.patient.ID, []byte(`{"weight":{"value":80,"unit":"kg"},"height":{"value":1.9,"unit":"m"},"results":[[0,5]]}`))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.Measurement{Value: 80, Unit: "kg"}, view.Weight)
	require.Len(t, view.Results, 1)

	_, created, err = f.svc.Ingest(ctx, f.patient.ID, []byte(`{"weight":{"value":80,"unit":"kg"},"height":{"value":1.9,"unit":"m"}}`))
	require.NoError(t, err)
	assert.False(t, created)

	_, _, err = f.svc.Ingest(ctx, f.patient.ID, []byte(`{"weight":{"value":81,"unit":"kg"},"height":{"value":1.9,"unit":"m"},"results":{"bad":true}}`))
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)

	history, err := f.svc.History(ctx, f.patient.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, view.ID, history[0].ID)

	// A stored row short-circuits the remote call.
	res, err := f.svc.Process(ctx, f.patient.ID, []byte(`{"weight":{"value":80,"unit":"kg"},"height":{"value":1.9,"unit":"m"}}`))
	require.NoError(t, err)
	assert.JSONEq(t, "5", string(res.Results[0].Concentration))
	f.client.AssertNotCalled(t, "Process", mock.Anything, mock.Anything, mock.Anything)

	_, err = f.svc.History(ctx, f.patient.ID+1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteCascadesProcessedMetrics(t *testing.T) {
	f := newProcessFixture(t)
	ctx := context.Background()
	f.client.On("Process", mock.Anything, f.patient.ID, processRequest).Return(remoteResponse(), nil)

	_, err := f.svc.Process(ctx, f.patient.ID, []byte(processBody))
	require.NoError(t, err)

	patientSvc := NewPatientService(f.patients, f.metrics, zerolog.Nop())
	_, err = patientSvc.Delete(ctx, f.patient.ID)
	require.NoError(t, err)

	rows, err := f.metrics.FindAllByPatientID(ctx, f.patient.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
