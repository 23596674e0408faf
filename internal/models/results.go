package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ResultPoint is one [duration, concentration] pair from the processing API.
// Values are kept as raw JSON so whatever the API sent is echoed back untouched.
type ResultPoint struct {
	Duration30M   json.RawMessage `json:"duration_30_m" swaggertype:"number" example:"0.5"`
	Concentration json.RawMessage `json:"concentration" swaggertype:"number" example:"12.3"`
}

var jsonNull = json.RawMessage("null")

// ReshapeResults turns the stored [[duration, concentration], ...] array into
// named points. Empty or null input yields an empty, non-nil slice. Pairs
// shorter than two elements get null for the missing values; extra elements
// are ignored.
func ReshapeResults(raw []byte) ([]ResultPoint, error) {
	points := []ResultPoint{}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return points, nil
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return nil, fmt.Errorf("results must be a list: %w", err)
	}

	for i, row := range rows {
		var pair []json.RawMessage
		if err := json.Unmarshal(row, &pair); err != nil {
			return nil, fmt.Errorf("results[%d] must be a [duration, concentration] pair: %w", i, err)
		}

		point := ResultPoint{Duration30M: jsonNull, Concentration: jsonNull}
		if len(pair) > 0 {
			point.Duration30M = pair[0]
		}
		if len(pair) > 1 {
			point.Concentration = pair[1]
		}
		points = append(points, point)
	}

	return points, nil
}
