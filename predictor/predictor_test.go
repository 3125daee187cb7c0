package predictor

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"titanicpredict/ml"
	"titanicpredict/monitoring"
	"titanicpredict/passenger"
)

// writeModel saves a minimal sex-split artifact and returns its path.
func writeModel(t *testing.T) string {
	t.Helper()
	tree, err := ml.NewDecisionTree(passenger.NumFeatures, []ml.TreeNode{
		{FeatureIdx: 1, Threshold: 0.5, LeftChild: 1, RightChild: 2},
		{IsLeaf: true, ClassLabel: 0, Probability: 0.81},
		{IsLeaf: true, ClassLabel: 1, Probability: 0.74},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "titanic.model")
	if err := tree.Save(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func newTestPredictor(t *testing.T) (*Predictor, *monitoring.Collector) {
	t.Helper()
	metrics := monitoring.NewCollector()
	pred, err := New(Config{
		ModelType: "decision_tree",
		ModelPath: writeModel(t),
		CacheSize: 8,
	}, metrics, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return pred, metrics
}

func validVector(t *testing.T) passenger.FeatureVector {
	t.Helper()
	vector, errs := passenger.Validate(passenger.Input{
		Class:      passenger.ClassThird,
		Sex:        passenger.SexMale,
		Age:        22,
		Fare:       7.25,
		EmbarkPort: passenger.PortSouthampton,
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	return vector
}

func TestInfer(t *testing.T) {
	pred, _ := newTestPredictor(t)

	result, err := pred.Infer(validVector(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Survived {
		t.Fatal("expected third-class male not to survive")
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		t.Fatalf("confidence outside [0,1]: %g", result.Confidence)
	}
}

func TestInferDeterministic(t *testing.T) {
	pred, _ := newTestPredictor(t)
	vector := validVector(t)

	first, err := pred.Infer(vector)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := pred.Infer(vector)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("inference not deterministic: %+v vs %+v", first, second)
	}
}

func TestInferUsesCache(t *testing.T) {
	pred, metrics := newTestPredictor(t)
	vector := validVector(t)

	if _, err := pred.Infer(vector); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := pred.Infer(vector); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := metrics.Count("predictor_inferences"); got != 1 {
		t.Fatalf("expected 1 inference, got %d", got)
	}
	if got := metrics.Count("predictor_cache_hits"); got != 1 {
		t.Fatalf("expected 1 cache hit, got %d", got)
	}
}

func TestInferWrongVectorWidth(t *testing.T) {
	pred, _ := newTestPredictor(t)
	if _, err := pred.Infer(passenger.FeatureVector{1, 2, 3}); err == nil {
		t.Fatal("expected error for wrong vector width")
	}
}

func TestNewMissingArtifact(t *testing.T) {
	_, err := New(Config{
		ModelType: "decision_tree",
		ModelPath: filepath.Join(t.TempDir(), "absent.model"),
	}, monitoring.NewCollector(), zap.NewNop())
	if err == nil {
		t.Fatal("expected error for missing artifact")
	}
}

func TestInferRejectsUnknownLabel(t *testing.T) {
	tree, err := ml.NewDecisionTree(passenger.NumFeatures, []ml.TreeNode{
		{IsLeaf: true, ClassLabel: 7, Probability: 0.9},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "bad.model")
	if err := tree.Save(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pred, err := New(Config{ModelType: "decision_tree", ModelPath: path},
		monitoring.NewCollector(), zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := pred.Infer(validVector(t)); err == nil {
		t.Fatal("expected error for label outside {0,1}")
	}
}

func TestInfo(t *testing.T) {
	pred, _ := newTestPredictor(t)
	info := pred.Info()
	if info.Type != "decision_tree" {
		t.Fatalf("unexpected type: %s", info.Type)
	}
	if info.Features != passenger.NumFeatures {
		t.Fatalf("expected %d features, got %d", passenger.NumFeatures, info.Features)
	}
	if info.LoadedAt.IsZero() {
		t.Fatal("expected load time to be set")
	}
}
