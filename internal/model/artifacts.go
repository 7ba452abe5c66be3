// Package model loads the pretrained artifact bundle (feature schema,
// input scaler, classifier) and scores feature vectors with it.
//
// The three files are produced together by one training run and are
// versioned as a unit; the service only reads them. A bundle is loaded once
// at startup and treated as immutable afterwards, so concurrent readers
// need no locking.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact file names inside a bundle directory.
const (
	SchemaFile     = "features.json"
	ScalerFile     = "scaler.json"
	ClassifierFile = "classifier.json"
)

// ErrScorerUnavailable is returned when scoring is attempted without a
// loaded bundle. Callers degrade to "unknown" instead of crashing.
var ErrScorerUnavailable = errors.New("model bundle not loaded, scoring unavailable")

// Bundle is the loaded scaler/classifier/schema triple.
type Bundle struct {
	Schema     []string
	Scaler     *StandardScaler
	Classifier *GradientBoostedClassifier
}

// LoadBundle reads a bundle directory. Any missing or internally
// inconsistent artifact fails the load; a schema/scaler/classifier mismatch
// is a contract violation, not a recoverable condition.
func LoadBundle(dir string) (*Bundle, error) {
	var schema []string
	if err := readJSON(filepath.Join(dir, SchemaFile), &schema); err != nil {
		return nil, err
	}
	if len(schema) == 0 {
		return nil, fmt.Errorf("load %s: schema lists no features", SchemaFile)
	}

	scaler, err := loadScaler(filepath.Join(dir, ScalerFile), len(schema))
	if err != nil {
		return nil, err
	}

	classifier, err := loadClassifier(filepath.Join(dir, ClassifierFile), len(schema))
	if err != nil {
		return nil, err
	}

	return &Bundle{Schema: schema, Scaler: scaler, Classifier: classifier}, nil
}

func readJSON(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load model artifact: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return nil
}
