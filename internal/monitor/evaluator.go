// Package monitor applies the event-to-risk pipeline to live catalog data:
// the Evaluator scores event batches and the Poller drives the cooperative
// fetch-evaluate-render loop.
package monitor

import (
	"errors"
	"log/slog"
	"sort"
	"strconv"

	"github.com/jonboulle/clockwork"

	"github.com/quakewatch/tsunami-monitor/internal/domain"
	"github.com/quakewatch/tsunami-monitor/internal/model"
	"github.com/quakewatch/tsunami-monitor/internal/observability"
)

// Scorer turns a feature vector into a tsunami probability.
type Scorer interface {
	Score(fv domain.FeatureVector) (float64, error)
	Available() bool
}

// Summary is the outcome of evaluating one batch of events. Assessments are
// sorted by probability descending; ties keep arrival order.
type Summary struct {
	Assessments []domain.RiskAssessment `json:"assessments"`
	Alerts      []domain.RiskAssessment `json:"alerts"`
	Total       int                     `json:"total"`
	Failed      int                     `json:"failed"`
	MaxMag      float64                 `json:"-"`
}

// MaxMagnitude formats the batch's largest magnitude, or "N/A" for an empty
// batch.
func (s Summary) MaxMagnitude() string {
	if s.Total == 0 {
		return "N/A"
	}
	return formatMagnitude(s.MaxMag)
}

// Evaluator runs FeatureEngineer → Scorer → tier mapping over events. The
// monitoring (5-tier) policy is used for batches, the interactive (3-tier)
// policy for single-shot predictions.
type Evaluator struct {
	engineer    *domain.FeatureEngineer
	scorer      Scorer
	monitoring  domain.TierMapper
	interactive domain.TierMapper
	clock       clockwork.Clock
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// NewEvaluator creates an Evaluator. engineer may be nil when model
// artifacts failed to load; every evaluation then degrades to unavailable.
func NewEvaluator(engineer *domain.FeatureEngineer, scorer Scorer, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Evaluator {
	return &Evaluator{
		engineer:    engineer,
		scorer:      scorer,
		monitoring:  domain.MonitoringTiers(),
		interactive: domain.InteractiveTiers(),
		clock:       clock,
		logger:      logger,
		metrics:     metrics,
	}
}

// Assess scores a single event with the interactive tier policy, including
// the qualitative risk-factor list. Used by the prediction endpoint.
func (e *Evaluator) Assess(event domain.RawEvent) (domain.RiskAssessment, error) {
	p, err := e.assessProbability(event)
	if err != nil {
		return domain.RiskAssessment{}, err
	}
	return domain.RiskAssessment{
		Event:       event,
		Probability: p,
		Tier:        e.interactive.Map(p),
		Factors:     domain.RiskFactors(event),
		AssessedAt:  e.clock.Now().UTC(),
	}, nil
}

// Evaluate scores a batch with the monitoring tier policy and splits out the
// alert subset (probability >= threshold). Events whose scoring fails are
// dropped and counted in Summary.Failed, except for a schema mismatch,
// which indicates artifact drift and halts the whole batch.
func (e *Evaluator) Evaluate(events []domain.RawEvent, threshold float64) (Summary, error) {
	summary := Summary{Total: len(events)}

	for _, event := range events {
		e.metrics.Evaluations.Inc()
		if event.Magnitude > summary.MaxMag {
			summary.MaxMag = event.Magnitude
		}

		p, err := e.assessProbability(event)
		if err != nil {
			var mismatch *domain.SchemaMismatchError
			if errors.As(err, &mismatch) {
				return Summary{}, mismatch
			}
			e.logger.Warn("scoring failed, dropping event",
				"event_id", event.ID,
				"place", event.Place,
				"error", err,
			)
			e.metrics.ScoringFailures.Inc()
			summary.Failed++
			continue
		}

		summary.Assessments = append(summary.Assessments, domain.RiskAssessment{
			Event:       event,
			Probability: p,
			Tier:        e.monitoring.Map(p),
			AssessedAt:  e.clock.Now().UTC(),
		})
	}

	// Stable so equal probabilities keep arrival order.
	sort.SliceStable(summary.Assessments, func(i, j int) bool {
		return summary.Assessments[i].Probability > summary.Assessments[j].Probability
	})

	for _, a := range summary.Assessments {
		if a.Probability >= threshold {
			summary.Alerts = append(summary.Alerts, a)
		}
	}

	return summary, nil
}

func formatMagnitude(m float64) string {
	return strconv.FormatFloat(m, 'f', 1, 64)
}

func (e *Evaluator) assessProbability(event domain.RawEvent) (float64, error) {
	if e.engineer == nil || e.scorer == nil || !e.scorer.Available() {
		return 0, model.ErrScorerUnavailable
	}
	fv, err := e.engineer.Derive(event)
	if err != nil {
		return 0, err
	}
	return e.scorer.Score(fv)
}
