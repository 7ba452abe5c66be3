// Command validate performs integrity checks on a model bundle: artifact
// loading, schema coverage against the feature engineer, tier partition
// sanity, and golden historical tsunami scenarios. It exists so a newly
// trained bundle can be vetted before deployment.
//
// Usage:
//
//	go run ./cmd/validate -model-dir models/tsunami
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/quakewatch/tsunami-monitor/internal/domain"
	"github.com/quakewatch/tsunami-monitor/internal/model"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// scenario is a historical event with the tier band the bundle must place
// it in.
type scenario struct {
	name     string
	event    domain.RawEvent
	minProb  float64
	maxProb  float64
	wantHigh bool // expect the interactive policy to say High
}

func scenarios() []scenario {
	return []scenario{
		{
			name: "Tōhoku, Japan 2011",
			event: domain.RawEvent{
				ID: "official20110311054624120_30", Time: date(2011, time.March),
				Magnitude: 9.1, DepthKM: 29.0, Latitude: 38.322, Longitude: 142.369,
				MMI: 7, CDI: 5, Significance: 1000, StationCount: 50, MinDistance: 1.0, AzimuthalGap: 100.0,
			},
			minProb: 0.7, maxProb: 1.0, wantHigh: true,
		},
		{
			name: "Sumatra, Indonesia 2004",
			event: domain.RawEvent{
				ID: "official20041226005853450_30", Time: date(2004, time.December),
				Magnitude: 9.1, DepthKM: 30.0, Latitude: 3.295, Longitude: 95.982,
				MMI: 7, CDI: 5, Significance: 1000, StationCount: 50, MinDistance: 1.0, AzimuthalGap: 100.0,
			},
			minProb: 0.7, maxProb: 1.0, wantHigh: true,
		},
		{
			name: "Maule, Chile 2010",
			event: domain.RawEvent{
				ID: "official20100227063411530_30", Time: date(2010, time.February),
				Magnitude: 8.8, DepthKM: 22.9, Latitude: -35.846, Longitude: -72.719,
				MMI: 7, CDI: 5, Significance: 1000, StationCount: 50, MinDistance: 1.0, AzimuthalGap: 100.0,
			},
			minProb: 0.7, maxProb: 1.0, wantHigh: true,
		},
		{
			name: "deep intraplate, low magnitude",
			event: domain.RawEvent{
				ID: "synthetic-deep-low", Time: date(2024, time.January),
				Magnitude: 4.0, DepthKM: 400, Latitude: 48.0, Longitude: 10.0,
				MMI: 5, CDI: 5, Significance: 1000, StationCount: 50, MinDistance: 1.0, AzimuthalGap: 100.0,
			},
			minProb: 0.0, maxProb: 0.3, wantHigh: false,
		},
	}
}

func date(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

func main() {
	modelDir := flag.String("model-dir", "", "directory containing the model bundle")
	flag.Parse()

	if *modelDir == "" {
		flag.Usage()
		os.Exit(2)
	}

	phases := []*phase{}

	// Phase 1: artifact integrity.
	load := &phase{name: "artifact integrity"}
	phases = append(phases, load)
	bundle, err := model.LoadBundle(*modelDir)
	if err != nil {
		load.errorf("load bundle: %v", err)
		report(phases)
		return
	}

	// Phase 2: schema coverage.
	coverage := &phase{name: "schema coverage"}
	phases = append(phases, coverage)
	engineer, err := domain.NewFeatureEngineer(bundle.Schema)
	if err != nil {
		coverage.errorf("schema rejected: %v", err)
		report(phases)
		return
	}

	// Phase 3: golden scenarios.
	golden := &phase{name: "golden scenarios"}
	phases = append(phases, golden)
	scorer := model.NewScorer(bundle)
	interactive := domain.InteractiveTiers()

	for _, sc := range scenarios() {
		fv, err := engineer.Derive(sc.event)
		if err != nil {
			golden.errorf("%s: derive: %v", sc.name, err)
			continue
		}
		p, err := scorer.Score(fv)
		if err != nil {
			golden.errorf("%s: score: %v", sc.name, err)
			continue
		}
		if p < sc.minProb || p > sc.maxProb {
			golden.errorf("%s: probability %.3f outside [%.2f, %.2f]", sc.name, p, sc.minProb, sc.maxProb)
		}
		isHigh := interactive.Map(p).Label == "High"
		if isHigh != sc.wantHigh {
			golden.errorf("%s: interactive tier High=%v, want %v (p=%.3f)", sc.name, isHigh, sc.wantHigh, p)
		}
		fmt.Printf("  %-32s p=%.3f tier=%s\n", sc.name, p, interactive.Map(p).Label)
	}

	report(phases)
}

func report(phases []*phase) {
	failed := 0
	fmt.Println()
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = "FAIL"
			failed++
		}
		fmt.Printf("[%s] %s\n", status, p.name)
		for _, e := range p.errors {
			fmt.Printf("       - %s\n", e)
		}
	}
	if failed > 0 {
		fmt.Printf("\n%d phase(s) failed\n", failed)
		os.Exit(1)
	}
	fmt.Println("\nall phases passed")
}
