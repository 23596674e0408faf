package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	DefaultWeightUnit = "kg"
	DefaultHeightUnit = "m"
)

// PatientMetrics is one weight/height observation and the processing results
// computed for it. Rows are never updated once written.
type PatientMetrics struct {
	ID          uint           `gorm:"primaryKey" json:"id" example:"1"`
	PatientID   uint           `gorm:"not null;uniqueIndex:idx_patient_metrics_exact,priority:1" json:"patient_id" example:"1"`
	Patient     Patient        `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"-" swaggerignore:"true"`
	WeightValue float64        `gorm:"type:double precision;uniqueIndex:idx_patient_metrics_exact,priority:2" json:"weight_value" example:"70"`
	WeightUnit  string         `gorm:"size:10;not null;default:kg;uniqueIndex:idx_patient_metrics_exact,priority:3" json:"weight_unit" example:"kg"`
	HeightValue float64        `gorm:"type:double precision;uniqueIndex:idx_patient_metrics_exact,priority:4" json:"height_value" example:"1.75"`
	HeightUnit  string         `gorm:"size:10;not null;default:m;uniqueIndex:idx_patient_metrics_exact,priority:5" json:"height_unit" example:"m"`
	Results     datatypes.JSON `json:"results" swaggertype:"array,number"`
	ProcessedAt time.Time      `gorm:"autoCreateTime;<-:create" json:"processed_at" example:"2024-01-01T00:00:00Z"`
}

func (PatientMetrics) TableName() string {
	return "patient_metrics"
}

// Measurement is a value with its unit, the shape used on the wire for
// weight and height.
type Measurement struct {
	Value float64 `json:"value" example:"70"`
	Unit  string  `json:"unit" example:"kg"`
}

// BodyMeasurements is the {weight, height} pair echoed back by process calls.
type BodyMeasurements struct {
	Weight Measurement `json:"weight"`
	Height Measurement `json:"height"`
}

// MeasurementKey identifies a metrics row by exact match.
type MeasurementKey struct {
	PatientID   uint
	WeightValue float64
	WeightUnit  string
	HeightValue float64
	HeightUnit  string
}

func (m PatientMetrics) Key() MeasurementKey {
	return MeasurementKey{
		PatientID:   m.PatientID,
		WeightValue: m.WeightValue,
		WeightUnit:  m.WeightUnit,
		HeightValue: m.HeightValue,
		HeightUnit:  m.HeightUnit,
	}
}

func (m PatientMetrics) Measurements() BodyMeasurements {
	return BodyMeasurements{
		Weight: Measurement{Value: m.WeightValue, Unit: m.WeightUnit},
		Height: Measurement{Value: m.HeightValue, Unit: m.HeightUnit},
	}
}

// MetricsView is the API representation of a stored metrics row.
type MetricsView struct {
	ID          uint          `json:"id" example:"1"`
	PatientID   uint          `json:"patient_id" example:"1"`
	Weight      Measurement   `json:"weight"`
	Height      Measurement   `json:"height"`
	Results     []ResultPoint `json:"results"`
	ProcessedAt time.Time     `json:"processed_at" example:"2024-01-01T00:00:00Z"`
}

func (m PatientMetrics) View() (MetricsView, error) {
	points, err := ReshapeResults(m.Results)
	if err != nil {
		return MetricsView{}, err
	}
	return MetricsView{
		ID:          m.ID,
		PatientID:   m.PatientID,
		Weight:      Measurement{Value: m.WeightValue, Unit: m.WeightUnit},
		Height:      Measurement{Value: m.HeightValue, Unit: m.HeightUnit},
		Results:     points,
		ProcessedAt: m.ProcessedAt,
	}, nil
}
