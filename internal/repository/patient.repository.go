package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/skssmd/patient-project/internal/apperrors"
	"github.com/skssmd/patient-project/internal/models"
)

// PatientFilter narrows list and count queries. Zero values match everything.
type PatientFilter struct {
	Search           string
	Sex              string
	EthnicBackground string
}

type PatientRepository interface {
	Create(ctx context.Context, patient *models.Patient) error
	CreateBatch(ctx context.Context, patients []models.Patient) error
	FindByID(ctx context.Context, id uint) (*models.Patient, error)
	List(ctx context.Context, filter PatientFilter, offset, limit int) ([]models.Patient, error)
	Count(ctx context.Context, filter PatientFilter) (int64, error)
	Delete(ctx context.Context, id uint) (*models.Patient, error)
}

// createBatchSize keeps each INSERT well under the bind parameter limits of
// SQLite and Postgres.
const createBatchSize = 1000

type patientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *models.Patient) error {
	if err := r.db.WithContext(ctx).Create(patient).Error; err != nil {
		return fmt.Errorf("create patient: %w", err)
	}
	return nil
}

// CreateBatch inserts every patient or none of them.
func (r *patientRepository) CreateBatch(ctx context.Context, patients []models.Patient) error {
	if len(patients) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&patients, createBatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("create %d patients: %w", len(patients), err)
	}
	return nil
}

func (r *patientRepository) FindByID(ctx context.Context, id uint) (*models.Patient, error) {
	var patient models.Patient
	if err := r.db.WithContext(ctx).First(&patient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("patient", id)
		}
		return nil, fmt.Errorf("find patient %d: %w", id, err)
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context, filter PatientFilter, offset, limit int) ([]models.Patient, error) {
	patients := []models.Patient{}
	err := applyFilter(r.db.WithContext(ctx).Model(&models.Patient{}), filter).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) Count(ctx context.Context, filter PatientFilter) (int64, error) {
	var count int64
	err := applyFilter(r.db.WithContext(ctx).Model(&models.Patient{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return count, nil
}

// Delete removes the patient and its metrics in one transaction and returns
// the row as it was before deletion.
func (r *patientRepository) Delete(ctx context.Context, id uint) (*models.Patient, error) {
	var patient models.Patient

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&patient, id).Error; err != nil {
			return err
		}
		if err := tx.Where("patient_id = ?", id).Delete(&models.PatientMetrics{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Patient{}, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("patient", id)
		}
		return nil, fmt.Errorf("delete patient %d: %w", id, err)
	}
	return &patient, nil
}

func applyFilter(q *gorm.DB, filter PatientFilter) *gorm.DB {
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", pattern, pattern)
	}
	if filter.Sex != "" {
		q = q.Where("sex = ?", filter.Sex)
	}
	if filter.EthnicBackground != "" {
		q = q.Where("ethnic_background = ?", filter.EthnicBackground)
	}
	return q
}
