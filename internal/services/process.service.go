package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/skssmd/patient-project/internal/apperrors"
	"github.com/skssmd/patient-project/internal/models"
	"github.com/skssmd/patient-project/internal/processing"
	"github.com/skssmd/patient-project/internal/repository"
)

// ProcessResult is what a process call returns: the measurements as stored
// and the reshaped results.
type ProcessResult struct {
	Patient models.BodyMeasurements `json:"patient"`
	Results []models.ResultPoint    `json:"results"`
}

type ProcessService struct {
	patients repository.PatientRepository
	metrics  repository.PatientMetricsRepository
	client   processing.Client
	log      zerolog.Logger
}

func NewProcessService(
	patients repository.PatientRepository,
	metrics repository.PatientMetricsRepository,
	client processing.Client,
	log zerolog.Logger,
) *ProcessService {
	return &ProcessService{
		patients: patients,
		metrics:  metrics,
		client:   client,
		log:      log.With().Str("component", "process_service").Logger(),
	}
}

// Process returns stored results for an exact weight/height match, or calls
// the processing API once and stores what it returns.
func (s *ProcessService) Process(ctx context.Context, patientID uint, body []byte) (*ProcessResult, error) {
	if _, err := s.patients.FindByID(ctx, patientID); err != nil {
		return nil, err
	}

	in, errs := ValidateMetrics(body)
	if errs != nil {
		return nil, validationError(errs)
	}
	weight, height := in.Weight.toModel(), in.Height.toModel()

	existing, err := s.metrics.FindExact(ctx, models.MeasurementKey{
		PatientID:   patientID,
		WeightValue: weight.Value,
		WeightUnit:  weight.Unit,
		HeightValue: height.Value,
		HeightUnit:  height.Unit,
	})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.log.Debug().Uint("patient_id", patientID).Uint("metrics_id", existing.ID).Msg("reusing stored results")
		return buildProcessResult(existing)
	}

	resp, err := s.client.Process(ctx, patientID, processing.Request{Weight: weight, Height: height})
	if err != nil {
		s.log.Warn().Err(err).Uint("patient_id", patientID).Msg("processing API call failed")
		return nil, err
	}

	if _, err := models.ReshapeResults(resp.Results); err != nil {
		s.log.Warn().Err(err).Uint("patient_id", patientID).Msg("processing API returned malformed results")
		return nil, apperrors.NewGatewayError(fmt.Errorf("processing API returned malformed results: %w", err))
	}

	stored, _, err := s.metrics.Create(ctx, &models.PatientMetrics{
		PatientID:   patientID,
		WeightValue: resp.Patient.Weight.Value,
		WeightUnit:  resp.Patient.Weight.Unit,
		HeightValue: resp.Patient.Height.Value,
		HeightUnit:  resp.Patient.Height.Unit,
		Results:     datatypes.JSON(resp.Results),
	})
	if err != nil {
		return nil, err
	}

	return buildProcessResult(stored)
}

// Ingest stores a nested-form metrics payload without calling the
// processing API. created is false when an identical row already existed.
func (s *ProcessService) Ingest(ctx context.Context, patientID uint, body []byte) (*models.MetricsView, bool, error) {
	if _, err := s.patients.FindByID(ctx, patientID); err != nil {
		return nil, false, err
	}

	in, errs := ValidateMetrics(body)
	if errs != nil {
		return nil, false, validationError(errs)
	}

	results := bytes.TrimSpace(in.Results)
	if len(results) == 0 || bytes.Equal(results, []byte("null")) {
		results = []byte("[]")
	}
	if _, err := models.ReshapeResults(results); err != nil {
		return nil, false, validationError(FieldErrors{
			"results": []string{"Expected a list of [duration, concentration] pairs."},
		})
	}

	weight, height := in.Weight.toModel(), in.Height.toModel()
	stored, created, err := s.metrics.Create(ctx, &models.PatientMetrics{
		PatientID:   patientID,
		WeightValue: weight.Value,
		WeightUnit:  weight.Unit,
		HeightValue: height.Value,
		HeightUnit:  height.Unit,
		Results:     datatypes.JSON(json.RawMessage(results)),
	})
	if err != nil {
		return nil, false, err
	}

	view, err := stored.View()
	if err != nil {
		return nil, false, err
	}
	return &view, created, nil
}

// History lists every metrics row stored for a patient, oldest first.
func (s *ProcessService) History(ctx context.Context, patientID uint) ([]models.MetricsView, error) {
	if _, err := s.patients.FindByID(ctx, patientID); err != nil {
		return nil, err
	}

	rows, err := s.metrics.FindAllByPatientID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	views := make([]models.MetricsView, 0, len(rows))
	for _, row := range rows {
		view, err := row.View()
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func buildProcessResult(m *models.PatientMetrics) (*ProcessResult, error) {
	points, err := models.ReshapeResults(m.Results)
	if err != nil {
		return nil, err
	}
	return &ProcessResult{
		Patient: m.Measurements(),
		Results: points,
	}, nil
}
