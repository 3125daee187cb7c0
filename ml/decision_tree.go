package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// TreeNode is one node of a flattened decision tree. Children are indexes
// into the node array; leaves carry the class label and the class
// probability observed at the leaf during training.
type TreeNode struct {
	FeatureIdx  int     `json:"feature_idx"`
	Threshold   float64 `json:"threshold"`
	LeftChild   int     `json:"left_child"`
	RightChild  int     `json:"right_child"`
	ClassLabel  int     `json:"class_label"`
	Probability float64 `json:"probability"`
	IsLeaf      bool    `json:"is_leaf"`
}

// DecisionTree is a single classification tree deserialized from a JSON
// artifact. It is immutable after Load.
type DecisionTree struct {
	features int
	nodes    []TreeNode
}

type treeArtifact struct {
	Features int        `json:"features"`
	Nodes    []TreeNode `json:"nodes"`
}

// NewDecisionTree builds a tree from an already-validated node array.
// Intended for tests and artifact tooling.
func NewDecisionTree(features int, nodes []TreeNode) (*DecisionTree, error) {
	dt := &DecisionTree{features: features, nodes: nodes}
	if err := dt.validate(); err != nil {
		return nil, err
	}
	return dt, nil
}

// FeatureCount returns the feature-vector width the tree was trained with.
func (dt *DecisionTree) FeatureCount() int {
	return dt.features
}

// Predict walks the tree for one feature vector. Node and feature indexes
// are bounds-checked so a malformed tree surfaces an error instead of
// panicking.
func (dt *DecisionTree) Predict(features []float64) (int, float64, error) {
	if len(dt.nodes) == 0 {
		return 0, 0, errors.New("model not loaded")
	}
	if len(features) != dt.features {
		return 0, 0, fmt.Errorf("expected %d features, got %d", dt.features, len(features))
	}

	idx := 0
	for steps := 0; steps <= len(dt.nodes); steps++ {
		node := dt.nodes[idx]
		if node.IsLeaf {
			confidence := node.Probability
			if confidence == 0 {
				confidence = fallbackConfidence
			}
			return node.ClassLabel, confidence, nil
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
	return 0, 0, errors.New("invalid tree state: walk did not reach a leaf")
}

// Save serializes the tree artifact to path.
func (dt *DecisionTree) Save(path string) error {
	if len(dt.nodes) == 0 {
		return errors.New("model is empty")
	}
	payload, err := json.Marshal(treeArtifact{Features: dt.features, Nodes: dt.nodes})
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

// Load deserializes the tree artifact from path and validates its shape.
func (dt *DecisionTree) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var artifact treeArtifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return fmt.Errorf("corrupt model artifact %s: %w", path, err)
	}
	dt.features = artifact.Features
	dt.nodes = artifact.Nodes
	if err := dt.validate(); err != nil {
		return fmt.Errorf("corrupt model artifact %s: %w", path, err)
	}
	return nil
}

// validate checks structural invariants of the node array so Predict can
// rely on them.
func (dt *DecisionTree) validate() error {
	if dt.features <= 0 {
		return errors.New("feature count must be positive")
	}
	if len(dt.nodes) == 0 {
		return errors.New("tree has no nodes")
	}
	for i, node := range dt.nodes {
		if node.IsLeaf {
			if node.Probability < 0 || node.Probability > 1 {
				return fmt.Errorf("node %d: probability %g outside [0,1]", i, node.Probability)
			}
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= dt.features {
			return fmt.Errorf("node %d: feature index %d out of range", i, node.FeatureIdx)
		}
		if node.LeftChild <= 0 || node.LeftChild >= len(dt.nodes) {
			return fmt.Errorf("node %d: left child %d out of range", i, node.LeftChild)
		}
		if node.RightChild <= 0 || node.RightChild >= len(dt.nodes) {
			return fmt.Errorf("node %d: right child %d out of range", i, node.RightChild)
		}
	}
	return nil
}
