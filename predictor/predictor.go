// Package predictor wraps the loaded classifier behind the one inference
// operation the service exposes.
package predictor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"titanicpredict/ml"
	"titanicpredict/monitoring"
	"titanicpredict/passenger"
)

// Survival class labels in the model artifact.
const (
	labelDidNotSurvive = 0
	labelSurvived      = 1
)

const defaultCacheSize = 128

// Result is one prediction outcome. It is immutable once returned.
type Result struct {
	Survived   bool    `json:"survived"`
	Confidence float64 `json:"confidence"`
}

// ModelInfo describes the loaded artifact.
type ModelInfo struct {
	Type     string    `json:"type"`
	Path     string    `json:"path"`
	Features int       `json:"features"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Config holds the predictor section of the service configuration.
type Config struct {
	ModelType string
	ModelPath string
	CacheSize int
}

// Predictor is an immutable handle over a classifier loaded once at
// startup. The model is never written after New returns, so the handle is
// safe to share across concurrent requests.
type Predictor struct {
	model   ml.Classifier
	info    ModelInfo
	cache   *lru.Cache[string, Result]
	metrics *monitoring.Collector
	log     *zap.Logger
}

// New loads the model artifact and builds the predictor. A missing or
// corrupt artifact is returned as an error; the caller must not serve
// predictions without a predictor.
func New(cfg Config, metrics *monitoring.Collector, log *zap.Logger) (*Predictor, error) {
	model, err := ml.LoadModel(cfg.ModelType, cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	cacheSize := cfg.CacheSize
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[string, Result](cacheSize)
	if err != nil {
		return nil, err
	}

	log.Info("model loaded",
		zap.String("type", cfg.ModelType),
		zap.String("path", cfg.ModelPath),
		zap.Int("features", model.FeatureCount()),
	)

	return &Predictor{
		model: model,
		info: ModelInfo{
			Type:     cfg.ModelType,
			Path:     cfg.ModelPath,
			Features: model.FeatureCount(),
			LoadedAt: time.Now(),
		},
		cache:   cache,
		metrics: metrics,
		log:     log,
	}, nil
}

// Info returns metadata about the loaded artifact.
func (p *Predictor) Info() ModelInfo {
	return p.info
}

// Infer runs the model over one validated feature vector. The model is
// read-only, so identical vectors always yield identical results and may be
// served from the memoization cache. There are no retries; a failed
// inference is reported directly.
func (p *Predictor) Infer(vector passenger.FeatureVector) (Result, error) {
	if len(vector) != p.model.FeatureCount() {
		return Result{}, fmt.Errorf("expected %d features, got %d", p.model.FeatureCount(), len(vector))
	}

	key := cacheKey(vector)
	if cached, ok := p.cache.Get(key); ok {
		p.metrics.Inc("predictor_cache_hits")
		return cached, nil
	}

	label, confidence, err := p.model.Predict(vector)
	if err != nil {
		p.metrics.Inc("predictor_errors")
		return Result{}, fmt.Errorf("inference failed: %w", err)
	}
	if label != labelDidNotSurvive && label != labelSurvived {
		p.metrics.Inc("predictor_errors")
		return Result{}, fmt.Errorf("inference failed: unexpected class label %d", label)
	}
	if confidence < 0 || confidence > 1 {
		p.metrics.Inc("predictor_errors")
		return Result{}, fmt.Errorf("inference failed: confidence %g outside [0,1]", confidence)
	}

	result := Result{Survived: label == labelSurvived, Confidence: confidence}
	p.cache.Add(key, result)
	p.metrics.Inc("predictor_inferences")
	return result, nil
}

func cacheKey(vector passenger.FeatureVector) string {
	var b strings.Builder
	for i, v := range vector {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return b.String()
}
