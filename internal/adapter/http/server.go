// Package http exposes the service's HTTP surface: health, readiness,
// metrics, single-shot predictions, and the latest monitoring snapshot.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quakewatch/tsunami-monitor/internal/domain"
	"github.com/quakewatch/tsunami-monitor/internal/model"
	"github.com/quakewatch/tsunami-monitor/internal/monitor"
	"github.com/quakewatch/tsunami-monitor/internal/observability"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Predictor scores one manually entered event with the interactive policy.
type Predictor interface {
	Assess(event domain.RawEvent) (domain.RiskAssessment, error)
}

// SnapshotProvider serves the latest completed poll cycle.
type SnapshotProvider interface {
	Latest() (monitor.Snapshot, bool)
}

// Server exposes the HTTP routes.
type Server struct {
	httpServer *http.Server
	predictor  Predictor
	snapshots  SnapshotProvider
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates an HTTP server with health, metrics, prediction, and
// snapshot routes.
func NewServer(addr string, ready ReadinessChecker, predictor Predictor, snapshots SnapshotProvider, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		predictor: predictor,
		snapshots: snapshots,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /v1/predictions", s.handlePredict)
	mux.HandleFunc("GET /v1/monitor/snapshot", s.handleSnapshot)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// predictionRequest mirrors the manual entry form: mandatory seismic fields
// plus optional instrumentation values that fall back to the documented
// defaults.
type predictionRequest struct {
	Magnitude *float64 `json:"magnitude"`
	DepthKM   *float64 `json:"depth_km"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	Time         *time.Time `json:"time,omitempty"`
	Significance *float64   `json:"significance,omitempty"`
	MMI          *float64   `json:"mmi,omitempty"`
	CDI          *float64   `json:"cdi,omitempty"`
	StationCount *float64   `json:"station_count,omitempty"`
	MinDistance  *float64   `json:"min_distance,omitempty"`
	AzimuthalGap *float64   `json:"azimuthal_gap,omitempty"`
	Place        string     `json:"place,omitempty"`
}

type predictionResponse struct {
	Probability float64   `json:"probability"`
	RiskLevel   string    `json:"risk_level"`
	RiskColor   string    `json:"risk_color"`
	RiskFactors []string  `json:"risk_factors"`
	AssessedAt  time.Time `json:"assessed_at"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.PredictionRequests.WithLabelValues("invalid").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body: " + err.Error()})
		return
	}

	event, err := s.buildEvent(req)
	if err != nil {
		s.metrics.PredictionRequests.WithLabelValues("invalid").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	assessment, err := s.predictor.Assess(event)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrScorerUnavailable):
		s.metrics.PredictionRequests.WithLabelValues("unavailable").Inc()
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "scoring unavailable: model bundle not loaded"})
		return
	default:
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			s.metrics.PredictionRequests.WithLabelValues("invalid").Inc()
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": vErr.Error()})
			return
		}
		s.metrics.PredictionRequests.WithLabelValues("error").Inc()
		s.logger.Error("prediction failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "prediction failed"})
		return
	}

	s.metrics.PredictionRequests.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, predictionResponse{
		Probability: assessment.Probability,
		RiskLevel:   assessment.Tier.Label,
		RiskColor:   assessment.Tier.Color,
		RiskFactors: assessment.Factors,
		AssessedAt:  assessment.AssessedAt,
	})
}

// buildEvent validates mandatory request fields and applies defaults to the
// rest, producing a fully resolved RawEvent.
func (s *Server) buildEvent(req predictionRequest) (domain.RawEvent, error) {
	if req.Magnitude == nil {
		return domain.RawEvent{}, &domain.ValidationError{Field: "magnitude", Reason: "is required"}
	}
	if req.DepthKM == nil {
		return domain.RawEvent{}, &domain.ValidationError{Field: "depth_km", Reason: "is required"}
	}
	if req.Latitude == nil {
		return domain.RawEvent{}, &domain.ValidationError{Field: "latitude", Reason: "is required"}
	}
	if req.Longitude == nil {
		return domain.RawEvent{}, &domain.ValidationError{Field: "longitude", Reason: "is required"}
	}

	eventTime := s.clock.Now().UTC()
	if req.Time != nil {
		eventTime = req.Time.UTC()
	}

	d := domain.DefaultFieldValues()
	event := domain.RawEvent{
		Time:      eventTime,
		Magnitude: *req.Magnitude,
		DepthKM:   *req.DepthKM,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,

		Significance: domain.Resolve(req.Significance, d.Significance),
		MMI:          domain.Resolve(req.MMI, d.MMI),
		CDI:          domain.Resolve(req.CDI, d.CDI),
		StationCount: domain.Resolve(req.StationCount, d.StationCount),
		MinDistance:  domain.Resolve(req.MinDistance, d.MinDistance),
		AzimuthalGap: domain.Resolve(req.AzimuthalGap, d.AzimuthalGap),
		Place:        req.Place,
	}
	return event, event.Validate()
}

// snapshotResponse is the batch-monitoring payload for the presentation
// layer.
type snapshotResponse struct {
	Total        int                     `json:"total"`
	AlertCount   int                     `json:"alert_count"`
	Failed       int                     `json:"failed"`
	MaxMagnitude string                  `json:"max_magnitude"`
	FetchedAt    time.Time               `json:"fetched_at"`
	Events       []domain.RawEvent       `json:"events"`
	Assessments  []domain.RiskAssessment `json:"assessments"`
	Alerts       []domain.RiskAssessment `json:"alerts"`
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.snapshots.Latest()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no poll cycle has completed yet"})
		return
	}

	writeJSON(w, http.StatusOK, snapshotResponse{
		Total:        snap.Summary.Total,
		AlertCount:   len(snap.Summary.Alerts),
		Failed:       snap.Summary.Failed,
		MaxMagnitude: snap.Summary.MaxMagnitude(),
		FetchedAt:    snap.FetchedAt,
		Events:       snap.Events,
		Assessments:  snap.Summary.Assessments,
		Alerts:       snap.Summary.Alerts,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
