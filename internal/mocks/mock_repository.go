package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/skssmd/patient-project/internal/models"
	"github.com/skssmd/patient-project/internal/processing"
	"github.com/skssmd/patient-project/internal/repository"
)

// Shared MockPatientRepository
type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	args := m.Called(ctx, patient)
	return args.Error(0)
}

func (m *MockPatientRepository) CreateBatch(ctx context.Context, patients []models.Patient) error {
	args := m.Called(ctx, patients)
	return args.Error(0)
}

func (m *MockPatientRepository) FindByID(ctx context.Context, id uint) (*models.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Patient), args.Error(1)
}

func (m *MockPatientRepository) List(ctx context.Context, filter repository.PatientFilter, offset, limit int) ([]models.Patient, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Patient), args.Error(1)
}

func (m *MockPatientRepository) Count(ctx context.Context, filter repository.PatientFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPatientRepository) Delete(ctx context.Context, id uint) (*models.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Patient), args.Error(1)
}

// Shared MockPatientMetricsRepository
type MockPatientMetricsRepository struct {
	mock.Mock
}

func (m *MockPatientMetricsRepository) FindExact(ctx context.Context, key models.MeasurementKey) (*models.PatientMetrics, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PatientMetrics), args.Error(1)
}

func (m *MockPatientMetricsRepository) Create(ctx context.Context, metrics *models.PatientMetrics) (*models.PatientMetrics, bool, error) {
	args := m.Called(ctx, metrics)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.PatientMetrics), args.Bool(1), args.Error(2)
}

func (m *MockPatientMetricsRepository) FindAllByPatientID(ctx context.Context, patientID uint) ([]models.PatientMetrics, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PatientMetrics), args.Error(1)
}

func (m *MockPatientMetricsRepository) InvalidatePatient(ctx context.Context, patientID uint) error {
	args := m.Called(ctx, patientID)
	return args.Error(0)
}

// Shared MockProcessingClient
type MockProcessingClient struct {
	mock.Mock
}

func (m *MockProcessingClient) Process(ctx context.Context, patientID uint, req processing.Request) (*processing.Response, error) {
	args := m.Called(ctx, patientID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*processing.Response), args.Error(1)
}

var (
	_ repository.PatientRepository        = (*MockPatientRepository)(nil)
	_ repository.PatientMetricsRepository = (*MockPatientMetricsRepository)(nil)
	_ processing.Client                   = (*MockProcessingClient)(nil)
)
