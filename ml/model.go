// Package ml holds the pre-trained classifier artifacts. Models are
// deserialized once at startup and are read-only afterwards; there are no
// training entry points in this service.
package ml

// Classifier is a read-only classification model. Predict returns the
// predicted class label and a probability-like confidence score in [0,1].
type Classifier interface {
	Predict(features []float64) (int, float64, error)
	FeatureCount() int
}

// fallbackConfidence is reported for leaves whose artifact carries no class
// probability, matching the score the original predictor fell back to when
// the underlying model exposed no probability estimate.
const fallbackConfidence = 0.8
