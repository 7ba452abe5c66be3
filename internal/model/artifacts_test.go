package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBundleDir = "testdata/bundle"

// corruptBundle copies the good fixture into a temp dir and overwrites one
// artifact file with the given content.
func corruptBundle(t *testing.T, file, content string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{SchemaFile, ScalerFile, ClassifierFile} {
		data, err := os.ReadFile(filepath.Join(testBundleDir, name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644))
	return dir
}

func TestLoadBundle(t *testing.T) {
	t.Run("loads the fixture bundle", func(t *testing.T) {
		bundle, err := LoadBundle(testBundleDir)
		require.NoError(t, err)

		assert.Len(t, bundle.Schema, 16)
		assert.Equal(t, "magnitude", bundle.Schema[0])
		assert.Len(t, bundle.Scaler.Mean, 16)
		assert.Len(t, bundle.Scaler.Scale, 16)
		assert.Len(t, bundle.Classifier.Trees, 5)
		assert.Equal(t, 1.0, bundle.Classifier.LearningRate)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := LoadBundle(filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
	})

	t.Run("empty schema", func(t *testing.T) {
		dir := corruptBundle(t, SchemaFile, `[]`)

		_, err := LoadBundle(dir)
		assert.ErrorContains(t, err, "schema lists no features")
	})

	t.Run("malformed schema json", func(t *testing.T) {
		dir := corruptBundle(t, SchemaFile, `{"not":"a list"`)

		_, err := LoadBundle(dir)
		require.Error(t, err)
	})

	t.Run("scaler width mismatch", func(t *testing.T) {
		dir := corruptBundle(t, ScalerFile, `{"mean":[0,0],"scale":[1,1]}`)

		_, err := LoadBundle(dir)
		assert.ErrorContains(t, err, "does not match schema width")
	})

	t.Run("zero scale is normalized to one", func(t *testing.T) {
		dir := corruptBundle(t, ScalerFile,
			`{"mean":[0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0],"scale":[0,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1]}`)

		bundle, err := LoadBundle(dir)
		require.NoError(t, err)
		assert.Equal(t, 1.0, bundle.Scaler.Scale[0])
	})

	t.Run("classifier with no trees", func(t *testing.T) {
		dir := corruptBundle(t, ClassifierFile, `{"prior":0,"trees":[]}`)

		_, err := LoadBundle(dir)
		assert.ErrorContains(t, err, "no trees")
	})

	t.Run("split on feature outside schema", func(t *testing.T) {
		dir := corruptBundle(t, ClassifierFile,
			`{"prior":0,"trees":[{"nodes":[{"feature":16,"threshold":1,"left":1,"right":2},{"value":0},{"value":1}]}]}`)

		_, err := LoadBundle(dir)
		assert.ErrorContains(t, err, "schema width")
	})

	t.Run("child index out of range", func(t *testing.T) {
		dir := corruptBundle(t, ClassifierFile,
			`{"prior":0,"trees":[{"nodes":[{"feature":0,"threshold":1,"left":1,"right":5},{"value":0},{"value":1}]}]}`)

		_, err := LoadBundle(dir)
		assert.ErrorContains(t, err, "child out of range")
	})

	t.Run("missing learning rate defaults to one", func(t *testing.T) {
		dir := corruptBundle(t, ClassifierFile,
			`{"prior":-1.0,"trees":[{"nodes":[{"value":0.5}]}]}`)

		bundle, err := LoadBundle(dir)
		require.NoError(t, err)
		assert.Equal(t, 1.0, bundle.Classifier.LearningRate)
	})
}

func TestStandardScalerTransformRow(t *testing.T) {
	s := &StandardScaler{Mean: []float64{10, 0}, Scale: []float64{2, 1}}

	got := s.TransformRow([]float64{14, -3})

	assert.Equal(t, []float64{2, -3}, got)
}

func TestGradientBoostedClassifierPredictProba(t *testing.T) {
	c := &GradientBoostedClassifier{
		Prior:        0,
		LearningRate: 0.5,
		Trees: []Tree{
			{Nodes: []Node{
				{Feature: 0, Threshold: 1.0, Left: 1, Right: 2},
				{Value: -2.0},
				{Value: 2.0},
			}},
		},
	}

	t.Run("left branch", func(t *testing.T) {
		probs := c.PredictProba([]float64{0.5})
		assert.InDelta(t, sigmoid(-1.0), probs[1], 1e-12)
		assert.InDelta(t, 1.0, probs[0]+probs[1], 1e-12)
	})

	t.Run("threshold routes left", func(t *testing.T) {
		probs := c.PredictProba([]float64{1.0})
		assert.InDelta(t, sigmoid(-1.0), probs[1], 1e-12)
	})

	t.Run("right branch", func(t *testing.T) {
		probs := c.PredictProba([]float64{1.5})
		assert.InDelta(t, sigmoid(1.0), probs[1], 1e-12)
	})
}
