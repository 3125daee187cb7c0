package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// RandomForest is an ensemble of decision trees. The predicted label is the
// majority vote and the confidence is the vote share of the winning label,
// which is the probability-like score ensemble models report.
type RandomForest struct {
	features int
	trees    []*DecisionTree
}

type forestArtifact struct {
	Features int          `json:"features"`
	Trees    [][]TreeNode `json:"trees"`
}

// NewRandomForest builds a forest from already-validated trees. Intended
// for tests and artifact tooling. All trees must share the feature width.
func NewRandomForest(features int, trees []*DecisionTree) (*RandomForest, error) {
	rf := &RandomForest{features: features, trees: trees}
	if err := rf.validate(); err != nil {
		return nil, err
	}
	return rf, nil
}

// FeatureCount returns the feature-vector width the forest was trained with.
func (rf *RandomForest) FeatureCount() int {
	return rf.features
}

// Predict runs every tree and aggregates the votes. Ties break toward the
// lowest label so the result is deterministic.
func (rf *RandomForest) Predict(features []float64) (int, float64, error) {
	if len(rf.trees) == 0 {
		return 0, 0, errors.New("model not loaded")
	}
	if len(features) != rf.features {
		return 0, 0, fmt.Errorf("expected %d features, got %d", rf.features, len(features))
	}

	votes := make(map[int]int)
	for i, tree := range rf.trees {
		label, _, err := tree.Predict(features)
		if err != nil {
			return 0, 0, fmt.Errorf("tree %d: %w", i, err)
		}
		votes[label]++
	}

	bestLabel := 0
	bestCount := -1
	for label, count := range votes {
		if count > bestCount || (count == bestCount && label < bestLabel) {
			bestLabel = label
			bestCount = count
		}
	}
	return bestLabel, float64(bestCount) / float64(len(rf.trees)), nil
}

// Save serializes the forest artifact to path.
func (rf *RandomForest) Save(path string) error {
	if len(rf.trees) == 0 {
		return errors.New("model is empty")
	}
	artifact := forestArtifact{Features: rf.features, Trees: make([][]TreeNode, len(rf.trees))}
	for i, tree := range rf.trees {
		artifact.Trees[i] = tree.nodes
	}
	payload, err := json.Marshal(artifact)
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

// Load deserializes the forest artifact from path and validates every tree.
func (rf *RandomForest) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var artifact forestArtifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return fmt.Errorf("corrupt model artifact %s: %w", path, err)
	}
	rf.features = artifact.Features
	rf.trees = make([]*DecisionTree, len(artifact.Trees))
	for i, nodes := range artifact.Trees {
		rf.trees[i] = &DecisionTree{features: artifact.Features, nodes: nodes}
	}
	if err := rf.validate(); err != nil {
		return fmt.Errorf("corrupt model artifact %s: %w", path, err)
	}
	return nil
}

func (rf *RandomForest) validate() error {
	if rf.features <= 0 {
		return errors.New("feature count must be positive")
	}
	if len(rf.trees) == 0 {
		return errors.New("forest has no trees")
	}
	for i, tree := range rf.trees {
		if tree.features != rf.features {
			return fmt.Errorf("tree %d: feature count %d does not match forest %d", i, tree.features, rf.features)
		}
		if err := tree.validate(); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}
