package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/quakewatch/tsunami-monitor/internal/domain"
	"github.com/quakewatch/tsunami-monitor/internal/observability"
)

// State names the poller's position in its cycle. Transitions are strictly
// sequential: Idle → Fetching → Evaluating → Rendered → (Sleeping → Fetching
// | Idle).
type State int32

const (
	StateIdle State = iota
	StateFetching
	StateEvaluating
	StateRendered
	StateSleeping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateEvaluating:
		return "evaluating"
	case StateRendered:
		return "rendered"
	case StateSleeping:
		return "sleeping"
	default:
		return "unknown"
	}
}

// EventFetcher pulls raw events from the external catalog. Failures are
// absorbed by the fetcher (empty slice plus diagnostic), never returned.
type EventFetcher interface {
	Fetch(ctx context.Context, window time.Duration, minMagnitude float64) []domain.RawEvent
}

// AlertPublisher forwards the alert subset of a cycle to the sink.
type AlertPublisher interface {
	PublishAlerts(ctx context.Context, alerts []domain.RiskAssessment) error
}

// Snapshot is the rendered result of the most recent cycle, served to the
// presentation layer. Events carries the raw fetch results so the listing
// survives even when scoring is degraded and Summary holds no assessments.
type Snapshot struct {
	Events    []domain.RawEvent `json:"events"`
	Summary   Summary           `json:"summary"`
	FetchedAt time.Time         `json:"fetched_at"`
}

// Options configure one Poller.
type Options struct {
	Window         time.Duration
	MinMagnitude   float64
	AlertThreshold float64
	Interval       time.Duration
	AutoRefresh    bool
}

// Poller drives the fetch → evaluate → render → sleep loop. One cycle runs
// at a time; cancellation is only observed between cycles, never mid-flight.
type Poller struct {
	fetcher   EventFetcher
	evaluator *Evaluator
	publisher AlertPublisher // nil when alert publishing is disabled
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
	opts      Options

	state atomic.Int32
	ready atomic.Bool

	mu     sync.RWMutex
	latest *Snapshot
}

// NewPoller creates a Poller. publisher may be nil.
func NewPoller(fetcher EventFetcher, evaluator *Evaluator, publisher AlertPublisher, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Poller {
	return &Poller{
		fetcher:   fetcher,
		evaluator: evaluator,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
		opts:      opts,
	}
}

// State returns the poller's current cycle position.
func (p *Poller) State() State {
	return State(p.state.Load())
}

// Latest returns the most recent snapshot, or false before the first cycle
// completes.
func (p *Poller) Latest() (Snapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.latest == nil {
		return Snapshot{}, false
	}
	return *p.latest, true
}

// CheckReadiness returns nil once at least one cycle has completed.
func (p *Poller) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("poller has not completed a cycle yet")
	}
	return nil
}

// Run executes poll cycles until the context is cancelled. With auto-refresh
// disabled it performs exactly one cycle and returns to Idle.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("poller started",
		"window", p.opts.Window,
		"min_magnitude", p.opts.MinMagnitude,
		"alert_threshold", p.opts.AlertThreshold,
		"interval", p.opts.Interval,
		"auto_refresh", p.opts.AutoRefresh,
	)
	p.metrics.PollerRunning.Set(1)
	defer p.metrics.PollerRunning.Set(0)
	defer p.state.Store(int32(StateIdle))

	for {
		if ctx.Err() != nil {
			p.logger.Info("poller stopping", "reason", ctx.Err())
			return nil
		}

		p.cycle(ctx)

		if !p.opts.AutoRefresh {
			p.logger.Info("auto-refresh disabled, poller idle after one cycle")
			return nil
		}

		p.state.Store(int32(StateSleeping))
		if !p.sleep(ctx) {
			p.logger.Info("poller stopping", "reason", ctx.Err())
			return nil
		}
	}
}

// cycle runs one fetch-evaluate-render pass. Errors degrade the cycle
// (logged, partial or empty snapshot); they never abort the loop.
func (p *Poller) cycle(ctx context.Context) {
	start := p.clock.Now()

	p.state.Store(int32(StateFetching))
	events := p.fetcher.Fetch(ctx, p.opts.Window, p.opts.MinMagnitude)

	p.state.Store(int32(StateEvaluating))
	summary, err := p.evaluator.Evaluate(events, p.opts.AlertThreshold)
	if err != nil {
		// Schema mismatch: artifact drift. The batch is halted rather than
		// masked per event; raw fetch results are still rendered.
		p.logger.Error("batch evaluation halted", "error", err, "events", len(events))
		summary = Summary{Total: len(events), Failed: len(events)}
		for _, ev := range events {
			if ev.Magnitude > summary.MaxMag {
				summary.MaxMag = ev.Magnitude
			}
		}
	}

	p.render(ctx, events, summary)

	p.state.Store(int32(StateRendered))
	p.ready.Store(true)
	p.metrics.PollCycles.Inc()
	p.metrics.PollCycleDuration.Observe(p.clock.Since(start).Seconds())
	p.logger.Info("poll cycle complete",
		"events", summary.Total,
		"alerts", len(summary.Alerts),
		"failed", summary.Failed,
		"max_magnitude", summary.MaxMagnitude(),
	)
}

// render publishes the cycle outcome: snapshot for the HTTP surface, gauges
// for dashboards, and the alert subset to the sink when configured.
func (p *Poller) render(ctx context.Context, events []domain.RawEvent, summary Summary) {
	snap := &Snapshot{Events: events, Summary: summary, FetchedAt: p.clock.Now().UTC()}
	p.mu.Lock()
	p.latest = snap
	p.mu.Unlock()

	p.metrics.ActiveAlerts.Set(float64(len(summary.Alerts)))
	p.metrics.MaxMagnitude.Set(summary.MaxMag)

	if p.publisher == nil || len(summary.Alerts) == 0 {
		return
	}
	if err := p.publisher.PublishAlerts(ctx, summary.Alerts); err != nil {
		p.logger.Error("alert publish failed", "error", err, "alerts", len(summary.Alerts))
		return
	}
	p.metrics.AlertsPublished.Add(float64(len(summary.Alerts)))
}

// sleep suspends between cycles on the injected clock. Returns false when
// the context is cancelled first.
func (p *Poller) sleep(ctx context.Context) bool {
	timer := p.clock.NewTimer(p.opts.Interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
