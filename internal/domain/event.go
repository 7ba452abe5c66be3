package domain

import (
	"fmt"
	"math"
	"time"
)

// RawEvent is a single seismic-event record after ingestion. Magnitude,
// DepthKM, Latitude, and Longitude are mandatory; the remaining
// instrumentation fields carry defaults substituted by [ApplyDefaults].
type RawEvent struct {
	ID        string    `json:"id"`
	Time      time.Time `json:"time"`
	Magnitude float64   `json:"magnitude"`
	DepthKM   float64   `json:"depth_km"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`

	Significance float64 `json:"significance"`
	MMI          float64 `json:"mmi"`
	CDI          float64 `json:"cdi"`
	StationCount float64 `json:"station_count"`
	MinDistance  float64 `json:"min_distance"`
	AzimuthalGap float64 `json:"azimuthal_gap"`

	Place     string `json:"place,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
}

// FieldDefaults maps each optional RawEvent field to the value substituted
// when the source omits it or reports NaN.
type FieldDefaults struct {
	Significance float64
	MMI          float64
	CDI          float64
	StationCount float64
	MinDistance  float64
	AzimuthalGap float64
}

// DefaultFieldValues returns the documented per-field defaults for optional
// catalog properties.
func DefaultFieldValues() FieldDefaults {
	return FieldDefaults{
		Significance: 1000,
		MMI:          5.0,
		CDI:          5.0,
		StationCount: 50,
		MinDistance:  1.0,
		AzimuthalGap: 100.0,
	}
}

// ApplyDefaults substitutes defaults for every optional field that is
// unset (nil) or NaN. Mandatory fields are never defaulted; they are
// checked by [RawEvent.Validate] instead.
func ApplyDefaults(e RawEvent, d FieldDefaults) RawEvent {
	e.Significance = orDefault(e.Significance, d.Significance)
	e.MMI = orDefault(e.MMI, d.MMI)
	e.CDI = orDefault(e.CDI, d.CDI)
	e.StationCount = orDefault(e.StationCount, d.StationCount)
	e.MinDistance = orDefault(e.MinDistance, d.MinDistance)
	e.AzimuthalGap = orDefault(e.AzimuthalGap, d.AzimuthalGap)
	return e
}

// Resolve dereferences an optional numeric property, substituting fallback
// when the pointer is nil or the value is NaN. Adapters use it while mapping
// source records into RawEvents.
func Resolve(v *float64, fallback float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return fallback
	}
	return *v
}

func orDefault(v, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	return v
}

// ValidationError reports a mandatory RawEvent field that is missing or
// outside its domain.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid event: %s %s", e.Field, e.Reason)
}

// Validate checks the mandatory fields. Optional fields are not inspected;
// they are resolved at ingestion.
func (e RawEvent) Validate() error {
	if math.IsNaN(e.Magnitude) {
		return &ValidationError{Field: "magnitude", Reason: "is not a number"}
	}
	if math.IsNaN(e.DepthKM) || e.DepthKM < 0 {
		return &ValidationError{Field: "depth_km", Reason: "must be a number >= 0"}
	}
	if math.IsNaN(e.Latitude) || e.Latitude < -90 || e.Latitude > 90 {
		return &ValidationError{Field: "latitude", Reason: "must be within [-90, 90]"}
	}
	if math.IsNaN(e.Longitude) || e.Longitude < -180 || e.Longitude > 180 {
		return &ValidationError{Field: "longitude", Reason: "must be within [-180, 180]"}
	}
	if e.Time.IsZero() {
		return &ValidationError{Field: "time", Reason: "is required"}
	}
	return nil
}
