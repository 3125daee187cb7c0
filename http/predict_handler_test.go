package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"titanicpredict/monitoring"
	"titanicpredict/passenger"
	"titanicpredict/predictor"
)

var errFake = errors.New("model rejected vector")

type fakePredictor struct {
	result predictor.Result
	err    error
	calls  int
}

func (f *fakePredictor) Infer(vector passenger.FeatureVector) (predictor.Result, error) {
	f.calls++
	return f.result, f.err
}

func (f *fakePredictor) Info() predictor.ModelInfo {
	return predictor.ModelInfo{Type: "decision_tree", Features: passenger.NumFeatures, LoadedAt: time.Now()}
}

func newTestMux(fake *fakePredictor) (*http.ServeMux, *monitoring.Collector) {
	metrics := monitoring.NewCollector()
	handlers := NewHandlers(fake, metrics, zap.NewNop())
	mux := http.NewServeMux()
	handlers.Register(mux)
	return mux, metrics
}

const validBody = `{
	"class": "Third",
	"sex": "Male",
	"age": 22,
	"siblings_spouses": 0,
	"parents_children": 0,
	"fare": 7.25,
	"embark_port": "Southampton"
}`

func TestHandlePredict(t *testing.T) {
	fake := &fakePredictor{result: predictor.Result{Survived: true, Confidence: 0.75}}
	mux, _ := newTestMux(fake)

	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(validBody))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var payload predictResponse
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !payload.Survived || payload.Confidence != 0.75 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.Label != "Survived" {
		t.Fatalf("unexpected label: %s", payload.Label)
	}
	if fake.calls != 1 {
		t.Fatalf("expected 1 inference call, got %d", fake.calls)
	}
}

func TestHandlePredictValidationErrors(t *testing.T) {
	fake := &fakePredictor{result: predictor.Result{Survived: true, Confidence: 0.75}}
	mux, metrics := newTestMux(fake)

	body := `{
		"class": "Fourth",
		"sex": "Male",
		"age": -1,
		"siblings_spouses": 0,
		"parents_children": 0,
		"fare": 7.25,
		"embark_port": "Southampton"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}

	var payload struct {
		Errors []passenger.FieldError `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(payload.Errors) != 2 {
		t.Fatalf("expected 2 field errors, got %d: %v", len(payload.Errors), payload.Errors)
	}
	if fake.calls != 0 {
		t.Fatalf("expected no inference call, got %d", fake.calls)
	}
	if metrics.Count("validation_failures") != 1 {
		t.Fatal("expected validation failure counter to increment")
	}
}

func TestHandlePredictMalformedBody(t *testing.T) {
	fake := &fakePredictor{}
	mux, _ := newTestMux(fake)

	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if fake.calls != 0 {
		t.Fatalf("expected no inference call, got %d", fake.calls)
	}
}

func TestHandlePredictInferenceError(t *testing.T) {
	fake := &fakePredictor{err: errFake}
	mux, _ := newTestMux(fake)

	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(validBody))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}

	var payload map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload["error"] != "prediction failed" {
		t.Fatalf("expected generic failure message, got %q", payload["error"])
	}
}
