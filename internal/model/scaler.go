package model

import "fmt"

// StandardScaler normalizes a feature row to zero mean and unit variance
// using per-feature statistics captured at training time.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// loadScaler reads scaler.json and checks its width against the schema.
func loadScaler(path string, width int) (*StandardScaler, error) {
	var s StandardScaler
	if err := readJSON(path, &s); err != nil {
		return nil, err
	}
	if len(s.Mean) != width || len(s.Scale) != width {
		return nil, fmt.Errorf("load %s: scaler width mean=%d scale=%d does not match schema width %d",
			ScalerFile, len(s.Mean), len(s.Scale), width)
	}
	// Zero-variance features scale by 1, mirroring the training-side
	// convention, so the transform stays total.
	for i, v := range s.Scale {
		if v == 0 {
			s.Scale[i] = 1
		}
	}
	return &s, nil
}

// TransformRow returns (x - mean) / scale per feature. The row length is
// guaranteed by the scorer, which projects onto the schema first.
func (s *StandardScaler) TransformRow(row []float64) []float64 {
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return out
}
