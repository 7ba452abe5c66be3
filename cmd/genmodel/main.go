// Command genmodel writes a representative model bundle (feature schema,
// identity scaler, hand-built boosted stumps) to a directory. The bundle is
// used as the test fixture and as a development stand-in until a real
// training run produces artifacts.
//
// Usage:
//
//	go run ./cmd/genmodel -out internal/model/testdata/bundle
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/quakewatch/tsunami-monitor/internal/domain"
	"github.com/quakewatch/tsunami-monitor/internal/model"
)

// schema is the feature order the representative classifier was built
// against. It must stay a subset of what the feature engineer can produce.
var schema = []string{
	domain.FeatureMagnitude,
	domain.FeatureDepth,
	domain.FeatureLatitude,
	domain.FeatureLongitude,
	domain.FeatureCDI,
	domain.FeatureMMI,
	domain.FeatureSignificance,
	domain.FeatureStationCount,
	domain.FeatureMinDistance,
	domain.FeatureAzimuthalGap,
	domain.FeatureYear,
	domain.FeatureMonth,
	domain.FeatureOceanProximity,
	domain.FeatureMagDepthRatio,
	domain.FeatureIntensityScore,
	domain.FeatureShallowStrong,
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for the bundle")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing -out")
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}

	// Sanity-check the schema against the engineer before writing anything.
	if _, err := domain.NewFeatureEngineer(schema); err != nil {
		return fmt.Errorf("schema rejected by feature engineer: %w", err)
	}

	scaler := model.StandardScaler{
		Mean:  make([]float64, len(schema)),
		Scale: ones(len(schema)),
	}

	classifier := representativeClassifier()

	if err := writeJSON(filepath.Join(*out, model.SchemaFile), schema); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(*out, model.ScalerFile), scaler); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(*out, model.ClassifierFile), classifier); err != nil {
		return err
	}

	fmt.Printf("wrote bundle (%d features, %d trees) to %s\n", len(schema), len(classifier.Trees), *out)
	return nil
}

// representativeClassifier encodes domain knowledge as boosted stumps:
// magnitude above 7, an oceanic-basin epicenter, a shallow strong rupture,
// and a shallow depth all push the log-odds up; depth below the 70 km
// intermediate boundary and felt intensity add smaller nudges.
func representativeClassifier() model.GradientBoostedClassifier {
	idx := make(map[string]int, len(schema))
	for i, name := range schema {
		idx[name] = i
	}

	stump := func(feature string, threshold, leftValue, rightValue float64) model.Tree {
		return model.Tree{Nodes: []model.Node{
			{Feature: idx[feature], Threshold: threshold, Left: 1, Right: 2},
			{Value: leftValue},
			{Value: rightValue},
		}}
	}

	return model.GradientBoostedClassifier{
		Prior:        -3.2,
		LearningRate: 1.0,
		Trees: []model.Tree{
			stump(domain.FeatureMagnitude, 7.0, -0.4, 2.0),
			stump(domain.FeatureOceanProximity, 0.5, -0.6, 1.2),
			stump(domain.FeatureShallowStrong, 0.5, 0.0, 1.6),
			stump(domain.FeatureDepth, 70.0, 0.5, -0.8),
			stump(domain.FeatureIntensityScore, 6.0, -0.3, 0.6),
		},
	}
}

func ones(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = 1
	}
	return s
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
