package model

import (
	"github.com/quakewatch/tsunami-monitor/internal/domain"
)

// Scorer turns a derived feature vector into a tsunami probability using an
// immutable bundle. A Scorer constructed without a bundle (artifacts failed
// to load) short-circuits every call with ErrScorerUnavailable so the rest
// of the service keeps running.
type Scorer struct {
	bundle *Bundle
}

// NewScorer wraps a loaded bundle. bundle may be nil.
func NewScorer(bundle *Bundle) *Scorer {
	return &Scorer{bundle: bundle}
}

// Available reports whether a bundle is loaded.
func (s *Scorer) Available() bool {
	return s != nil && s.bundle != nil
}

// Score projects the vector onto the schema order, scales it, and returns
// the probability of the tsunami class. A schema feature absent from the
// vector is a *domain.SchemaMismatchError: artifact drift, fatal to the
// batch rather than maskable per event.
func (s *Scorer) Score(fv domain.FeatureVector) (float64, error) {
	if !s.Available() {
		return 0, ErrScorerUnavailable
	}

	row := make([]float64, len(s.bundle.Schema))
	for i, name := range s.bundle.Schema {
		v, ok := fv[name]
		if !ok {
			return 0, &domain.SchemaMismatchError{Feature: name, Detail: "missing from derived vector"}
		}
		row[i] = v
	}

	scaled := s.bundle.Scaler.TransformRow(row)
	probs := s.bundle.Classifier.PredictProba(scaled)
	return probs[1], nil
}
