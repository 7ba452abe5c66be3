package model

import (
	"fmt"
	"math"
)

// GradientBoostedClassifier is a two-class boosted tree ensemble in additive
// log-odds form: raw = prior + learning_rate * Σ tree(x), p = sigmoid(raw).
type GradientBoostedClassifier struct {
	Prior        float64 `json:"prior"`
	LearningRate float64 `json:"learning_rate"`
	Trees        []Tree  `json:"trees"`
}

// Tree is a regression tree in flattened node-array form. Node 0 is the
// root; since no child can point at the root, a node with Left == 0 and
// Right == 0 is a leaf.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Node is either an internal split (Feature/Threshold/Left/Right) or a leaf
// (Value only). Splits send row[Feature] <= Threshold to Left.
type Node struct {
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      int     `json:"left,omitempty"`
	Right     int     `json:"right,omitempty"`
	Value     float64 `json:"value,omitempty"`
}

// loadClassifier reads classifier.json and validates every split against the
// schema width and every child index against the node array.
func loadClassifier(path string, width int) (*GradientBoostedClassifier, error) {
	var c GradientBoostedClassifier
	if err := readJSON(path, &c); err != nil {
		return nil, err
	}
	if len(c.Trees) == 0 {
		return nil, fmt.Errorf("load %s: classifier has no trees", ClassifierFile)
	}
	if c.LearningRate == 0 {
		c.LearningRate = 1
	}
	for ti, tree := range c.Trees {
		if len(tree.Nodes) == 0 {
			return nil, fmt.Errorf("load %s: tree %d has no nodes", ClassifierFile, ti)
		}
		for ni, n := range tree.Nodes {
			if n.isLeaf() {
				continue
			}
			if n.Feature < 0 || n.Feature >= width {
				return nil, fmt.Errorf("load %s: tree %d node %d splits on feature %d, schema width is %d",
					ClassifierFile, ti, ni, n.Feature, width)
			}
			if n.Left <= 0 || n.Left >= len(tree.Nodes) || n.Right <= 0 || n.Right >= len(tree.Nodes) {
				return nil, fmt.Errorf("load %s: tree %d node %d has child out of range", ClassifierFile, ti, ni)
			}
		}
	}
	return &c, nil
}

func (n Node) isLeaf() bool { return n.Left == 0 && n.Right == 0 }

// PredictProba returns the two-class probability distribution for a scaled
// feature row: index 0 is "no tsunami", index 1 is "tsunami".
func (c *GradientBoostedClassifier) PredictProba(row []float64) [2]float64 {
	raw := c.Prior
	for _, tree := range c.Trees {
		raw += c.LearningRate * tree.score(row)
	}
	p := sigmoid(raw)
	return [2]float64{1 - p, p}
}

func (t Tree) score(row []float64) float64 {
	idx := 0
	for {
		n := t.Nodes[idx]
		if n.isLeaf() {
			return n.Value
		}
		if row[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
