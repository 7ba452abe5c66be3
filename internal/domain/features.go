package domain

import "fmt"

// Feature names the engineer can produce. The model artifact schema must be
// a subset of these; ordering comes from the schema, not from this list.
const (
	FeatureMagnitude      = "magnitude"
	FeatureDepth          = "depth"
	FeatureLatitude       = "latitude"
	FeatureLongitude      = "longitude"
	FeatureCDI            = "cdi"
	FeatureMMI            = "mmi"
	FeatureSignificance   = "sig"
	FeatureStationCount   = "nst"
	FeatureMinDistance    = "dmin"
	FeatureAzimuthalGap   = "gap"
	FeatureYear           = "Year"
	FeatureMonth          = "Month"
	FeatureOceanProximity = "ocean_proximity"
	FeatureMagDepthRatio  = "mag_depth_ratio"
	FeatureIntensityScore = "intensity_score"
	FeatureShallowStrong  = "shallow_strong"
)

// FeatureVector holds derived feature values keyed by feature name. It
// contains exactly the features named by the schema the engineer was
// constructed with.
type FeatureVector map[string]float64

// SchemaMismatchError reports disagreement between the model artifact schema
// and the engineered feature set. It indicates artifact drift, a
// configuration error rather than a per-event fault.
type SchemaMismatchError struct {
	Feature string
	Detail  string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("feature schema mismatch: %q %s", e.Feature, e.Detail)
}

// FeatureEngineer derives feature vectors matching a fixed schema loaded
// from the model artifacts.
type FeatureEngineer struct {
	schema []string
}

// NewFeatureEngineer validates that every schema feature is producible and
// returns an engineer bound to that schema. An unknown schema feature is a
// *SchemaMismatchError.
func NewFeatureEngineer(schema []string) (*FeatureEngineer, error) {
	if len(schema) == 0 {
		return nil, &SchemaMismatchError{Feature: "", Detail: "schema is empty"}
	}
	for _, name := range schema {
		if !producible(name) {
			return nil, &SchemaMismatchError{Feature: name, Detail: "cannot be derived from a raw event"}
		}
	}
	return &FeatureEngineer{schema: append([]string(nil), schema...)}, nil
}

// Schema returns the ordered feature names this engineer produces.
func (fe *FeatureEngineer) Schema() []string {
	return append([]string(nil), fe.schema...)
}

// Derive validates the event's mandatory fields and computes the feature
// vector. Engineered values not named by the schema are dropped. The input
// event must already have defaults applied.
func (fe *FeatureEngineer) Derive(e RawEvent) (FeatureVector, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	all := map[string]float64{
		FeatureMagnitude:      e.Magnitude,
		FeatureDepth:          e.DepthKM,
		FeatureLatitude:       e.Latitude,
		FeatureLongitude:      e.Longitude,
		FeatureCDI:            e.CDI,
		FeatureMMI:            e.MMI,
		FeatureSignificance:   e.Significance,
		FeatureStationCount:   e.StationCount,
		FeatureMinDistance:    e.MinDistance,
		FeatureAzimuthalGap:   e.AzimuthalGap,
		FeatureYear:           float64(e.Time.UTC().Year()),
		FeatureMonth:          float64(e.Time.UTC().Month()),
		FeatureOceanProximity: boolToFeature(OceanProximity(e.Latitude, e.Longitude)),
		FeatureMagDepthRatio:  e.Magnitude / (e.DepthKM + 1),
		FeatureIntensityScore: e.Magnitude*0.5 + e.MMI*0.3 + e.Significance/100*0.2,
		FeatureShallowStrong:  boolToFeature(e.DepthKM < 70 && e.Magnitude > 7.5),
	}

	fv := make(FeatureVector, len(fe.schema))
	for _, name := range fe.schema {
		fv[name] = all[name]
	}
	return fv, nil
}

func boolToFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func producible(name string) bool {
	switch name {
	case FeatureMagnitude, FeatureDepth, FeatureLatitude, FeatureLongitude,
		FeatureCDI, FeatureMMI, FeatureSignificance, FeatureStationCount,
		FeatureMinDistance, FeatureAzimuthalGap, FeatureYear, FeatureMonth,
		FeatureOceanProximity, FeatureMagDepthRatio, FeatureIntensityScore,
		FeatureShallowStrong:
		return true
	}
	return false
}
