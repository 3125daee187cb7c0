package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"titanicpredict/monitoring"
	"titanicpredict/passenger"
	"titanicpredict/predictor"
)

// Inferrer is the prediction operation the handlers depend on.
type Inferrer interface {
	Infer(vector passenger.FeatureVector) (predictor.Result, error)
	Info() predictor.ModelInfo
}

// Handlers holds the request handlers and their dependencies.
type Handlers struct {
	predictor Inferrer
	metrics   *monitoring.Collector
	log       *zap.Logger
}

// NewHandlers wires the handlers to the loaded predictor.
func NewHandlers(p Inferrer, metrics *monitoring.Collector, log *zap.Logger) *Handlers {
	return &Handlers{predictor: p, metrics: metrics, log: log}
}

// Register adds all routes to the mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("POST /api/predict", h.handlePredict)
	mux.HandleFunc("GET /api/model", h.handleModelInfo)
	mux.HandleFunc("GET /api/schema", h.handleSchema)
	mux.HandleFunc("GET /api/metrics", h.handleMetrics)
	mux.HandleFunc("GET /{$}", h.handleIndex)
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.predictor == nil {
		respondJSONStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "model not loaded"})
		return
	}
	respondJSON(w, map[string]string{"status": "ok"})
}

// predictResponse is the success payload of POST /api/predict.
type predictResponse struct {
	Survived   bool    `json:"survived"`
	Confidence float64 `json:"confidence"`
	Label      string  `json:"label"`
}

func (h *Handlers) handlePredict(w http.ResponseWriter, r *http.Request) {
	var in passenger.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSONStatus(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	vector, fieldErrs := passenger.Validate(in)
	if len(fieldErrs) > 0 {
		h.metrics.Inc("validation_failures")
		respondJSONStatus(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": fieldErrs})
		return
	}

	result, err := h.predictor.Infer(vector)
	if err != nil {
		h.log.Error("inference failed",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Error(err),
		)
		respondJSONStatus(w, http.StatusInternalServerError, map[string]string{"error": "prediction failed"})
		return
	}

	label := "Did not survive"
	if result.Survived {
		label = "Survived"
	}
	respondJSON(w, predictResponse{
		Survived:   result.Survived,
		Confidence: result.Confidence,
		Label:      label,
	})
}

func (h *Handlers) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	if h.predictor == nil {
		respondJSONStatus(w, http.StatusServiceUnavailable, map[string]string{"error": "model not loaded"})
		return
	}
	respondJSON(w, h.predictor.Info())
}

func (h *Handlers) handleSchema(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]interface{}{"fields": passenger.Constraints()})
}

func (h *Handlers) handleMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.metrics.Snapshot())
}

// respondJSON writes data as a 200 JSON response.
func respondJSON(w http.ResponseWriter, data interface{}) {
	respondJSONStatus(w, http.StatusOK, data)
}

func respondJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
