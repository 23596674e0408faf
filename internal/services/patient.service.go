package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/skssmd/patient-project/internal/apperrors"
	"github.com/skssmd/patient-project/internal/models"
	"github.com/skssmd/patient-project/internal/repository"
)

const PageSize = 10

const msgExpectedList = "Expected a list of patient objects"

// PatientPage is one page of the patient listing.
type PatientPage struct {
	Page       int              `json:"page" example:"1"`
	TotalPages int              `json:"total_pages" example:"3"`
	TotalCount int64            `json:"total_count" example:"25"`
	Patients   []models.Patient `json:"patients"`
}

type PatientService struct {
	patients repository.PatientRepository
	metrics  repository.PatientMetricsRepository
	log      zerolog.Logger
}

func NewPatientService(patients repository.PatientRepository, metrics repository.PatientMetricsRepository, log zerolog.Logger) *PatientService {
	return &PatientService{
		patients: patients,
		metrics:  metrics,
		log:      log.With().Str("component", "patient_service").Logger(),
	}
}

// ParsePage turns the ?page= query value into a page number. Anything that
// is not a positive integer means the first page.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (s *PatientService) Create(ctx context.Context, body []byte) (*models.Patient, error) {
	patient, errs := ValidatePatient(body)
	if errs != nil {
		return nil, validationError(errs)
	}

	if err := s.patients.Create(ctx, &patient); err != nil {
		return nil, err
	}
	s.log.Info().Uint("patient_id", patient.ID).Msg("patient created")
	return &patient, nil
}

// CreateBulk validates every item before storing any. On failure the
// ValidationError holds a list aligned with the input, with an empty object
// for each valid item.
func (s *PatientService) CreateBulk(ctx context.Context, body []byte) ([]models.Patient, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil || items == nil {
		return nil, &apperrors.TypeMismatchError{Message: msgExpectedList}
	}

	patients := make([]models.Patient, 0, len(items))
	itemErrors := make([]FieldErrors, len(items))
	failed := false
	for i, item := range items {
		patient, errs := ValidatePatient(item)
		if errs != nil {
			itemErrors[i] = errs
			failed = true
			continue
		}
		itemErrors[i] = FieldErrors{}
		patients = append(patients, patient)
	}

	if failed {
		return nil, apperrors.NewValidationError(itemErrors)
	}

	if err := s.patients.CreateBatch(ctx, patients); err != nil {
		return nil, err
	}
	s.log.Info().Int("count", len(patients)).Msg("patients bulk created")
	return patients, nil
}

func (s *PatientService) Get(ctx context.Context, id uint) (*models.Patient, error) {
	return s.patients.FindByID(ctx, id)
}

func (s *PatientService) ListPage(ctx context.Context, page int, filter repository.PatientFilter) (*PatientPage, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.patients.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	patients, err := s.patients.List(ctx, filter, (page-1)*PageSize, PageSize)
	if err != nil {
		return nil, err
	}

	return &PatientPage{
		Page:       page,
		TotalPages: int((total + PageSize - 1) / PageSize),
		TotalCount: total,
		Patients:   patients,
	}, nil
}

// Delete removes the patient with its metrics and returns the deleted row.
func (s *PatientService) Delete(ctx context.Context, id uint) (*models.Patient, error) {
	patient, err := s.patients.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.metrics.InvalidatePatient(ctx, id); err != nil {
		s.log.Warn().Err(err).Uint("patient_id", id).Msg("failed to evict cached metrics")
	}
	s.log.Info().Uint("patient_id", id).Msg("patient deleted")
	return patient, nil
}
