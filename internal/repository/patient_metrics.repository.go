package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skssmd/patient-project/internal/cache"
	"github.com/skssmd/patient-project/internal/models"
)

const metricsCacheKeyPrefix = "metrics:patient:"

type PatientMetricsRepository interface {
	// FindExact returns nil, nil when no row matches all five fields.
	FindExact(ctx context.Context, key models.MeasurementKey) (*models.PatientMetrics, error)
	// Create inserts metrics unless a row with the same key exists, in which
	// case the stored row is returned and created is false.
	Create(ctx context.Context, metrics *models.PatientMetrics) (stored *models.PatientMetrics, created bool, err error)
	FindAllByPatientID(ctx context.Context, patientID uint) ([]models.PatientMetrics, error)
	InvalidatePatient(ctx context.Context, patientID uint) error
}

type patientMetricsRepository struct {
	db    *gorm.DB
	redis *cache.RedisClient
	ttl   time.Duration
	log   zerolog.Logger
}

func NewPatientMetricsRepository(db *gorm.DB) PatientMetricsRepository {
	return &patientMetricsRepository{
		db:    db,
		redis: nil,
		log:   zerolog.Nop(),
	}
}

func NewCachedPatientMetricsRepository(db *gorm.DB, redisClient *cache.RedisClient, ttl time.Duration, log zerolog.Logger) PatientMetricsRepository {
	return &patientMetricsRepository{
		db:    db,
		redis: redisClient,
		ttl:   ttl,
		log:   log.With().Str("component", "metrics_cache").Logger(),
	}
}

func patientCachePrefix(patientID uint) string {
	return metricsCacheKeyPrefix + strconv.FormatUint(uint64(patientID), 10) + ":"
}

func metricsCacheKey(key models.MeasurementKey) string {
	var b strings.Builder
	b.WriteString(patientCachePrefix(key.PatientID))
	b.WriteString(strconv.FormatFloat(key.WeightValue, 'g', -1, 64))
	b.WriteByte(':')
	b.WriteString(key.WeightUnit)
	b.WriteByte(':')
	b.WriteString(strconv.FormatFloat(key.HeightValue, 'g', -1, 64))
	b.WriteByte(':')
	b.WriteString(key.HeightUnit)
	return b.String()
}

func (r *patientMetricsRepository) FindExact(ctx context.Context, key models.MeasurementKey) (*models.PatientMetrics, error) {
	if r.redis != nil {
		var cached models.PatientMetrics
		found, err := r.redis.GetJSON(ctx, metricsCacheKey(key), &cached)
		if err != nil {
			r.log.Warn().Err(err).Uint("patient_id", key.PatientID).Msg("metrics cache read failed")
		} else if found {
			r.log.Debug().Uint("patient_id", key.PatientID).Msg("metrics cache hit")
			return &cached, nil
		}
	}

	// Cache miss or error, query database
	metrics, err := r.findExactInDB(ctx, key)
	if err != nil || metrics == nil {
		return metrics, err
	}

	r.store(ctx, metrics)
	return metrics, nil
}

func (r *patientMetricsRepository) findExactInDB(ctx context.Context, key models.MeasurementKey) (*models.PatientMetrics, error) {
	var metrics models.PatientMetrics
	err := r.db.WithContext(ctx).
		Where("patient_id = ? AND weight_value = ? AND weight_unit = ? AND height_value = ? AND height_unit = ?",
			key.PatientID, key.WeightValue, key.WeightUnit, key.HeightValue, key.HeightUnit).
		Order("id ASC").
		First(&metrics).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find metrics for patient %d: %w", key.PatientID, err)
	}
	return &metrics, nil
}

func (r *patientMetricsRepository) Create(ctx context.Context, metrics *models.PatientMetrics) (*models.PatientMetrics, bool, error) {
	result := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(metrics)
	if result.Error != nil {
		return nil, false, fmt.Errorf("create metrics for patient %d: %w", metrics.PatientID, result.Error)
	}

	if result.RowsAffected > 0 {
		r.store(ctx, metrics)
		return metrics, true, nil
	}

	// Lost the race to an identical insert, return the winner.
	existing, err := r.findExactInDB(ctx, metrics.Key())
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("metrics for patient %d vanished after conflicting insert", metrics.PatientID)
	}
	r.store(ctx, existing)
	return existing, false, nil
}

func (r *patientMetricsRepository) FindAllByPatientID(ctx context.Context, patientID uint) ([]models.PatientMetrics, error) {
	metrics := []models.PatientMetrics{}
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("processed_at ASC, id ASC").
		Find(&metrics).Error
	if err != nil {
		return nil, fmt.Errorf("list metrics for patient %d: %w", patientID, err)
	}
	return metrics, nil
}

func (r *patientMetricsRepository) InvalidatePatient(ctx context.Context, patientID uint) error {
	if r.redis == nil {
		return nil
	}

	deleted, err := r.redis.DeleteMatching(ctx, patientCachePrefix(patientID)+"*")
	if err != nil {
		return fmt.Errorf("invalidate metrics cache for patient %d: %w", patientID, err)
	}
	r.log.Debug().Uint("patient_id", patientID).Int64("keys", deleted).Msg("metrics cache invalidated")
	return nil
}

func (r *patientMetricsRepository) store(ctx context.Context, metrics *models.PatientMetrics) {
	if r.redis == nil {
		return
	}
	if err := r.redis.SetJSON(ctx, metricsCacheKey(metrics.Key()), metrics, r.ttl); err != nil {
		r.log.Warn().Err(err).Uint("patient_id", metrics.PatientID).Msg("failed to cache metrics")
	}
}
