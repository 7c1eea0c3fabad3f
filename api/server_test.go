package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"substratex/app"
	"substratex/domain/gravity"
	gravityengine "substratex/internal/gravity"
	"substratex/internal/relativity"
	"substratex/internal/sweep"
	"substratex/internal/testkit"
)

func newTestServer(t *testing.T) (*Server, *OpsRouter) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	runs := testkit.NewInMemoryRunStore()
	signals := testkit.NewInMemorySignalStore()
	cases := testkit.NewInMemoryCaseStore()

	indicator, err := gravityengine.NewIndicator(gravity.DefaultThresholds(), gravity.DefaultScale)
	if err != nil {
		t.Fatalf("NewIndicator: %v", err)
	}

	sweepService := app.NewSweepService(sweep.NewRunner(testkit.NewSeededRNG(), 4), runs, nil, "")
	validationService := app.NewValidationService(relativity.NewSuite(8, time.Minute), runs, cases, nil, "")
	indicatorService := app.NewIndicatorService(indicator, runs, signals)
	fieldService := app.NewFieldService(runs)

	server := NewServer(gin.TestMode, sweepService, validationService, indicatorService, fieldService)
	return server, NewOpsRouter(indicatorService)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSweepEndpoints(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server.Router(), http.MethodPost, "/api/sweeps", map[string]int64{"seed": 42})
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/sweeps = %d: %s", rec.Code, rec.Body)
	}

	var outcome struct {
		Manifest struct {
			RunID string `json:"run_id"`
		} `json:"manifest"`
		Result struct {
			Universality float64 `json:"universality"`
		} `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("decode sweep response: %v", err)
	}
	if outcome.Manifest.RunID == "" {
		t.Fatal("sweep response missing run ID")
	}

	rec = doJSON(t, server.Router(), http.MethodGet, "/api/sweeps/"+outcome.Manifest.RunID, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("GET sweep = %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, server.Router(), http.MethodGet, "/api/sweeps/no-such-run", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET missing sweep = %d, want 404", rec.Code)
	}

	rec = doJSON(t, server.Router(), http.MethodGet, "/api/sweeps?limit=10", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /api/sweeps = %d: %s", rec.Code, rec.Body)
	}
}

func TestValidationEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server.Router(), http.MethodPost, "/api/validation/run", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/validation/run = %d: %s", rec.Code, rec.Body)
	}

	var result struct {
		RunID  string `json:"run_id"`
		Passed int    `json:"passed"`
		Failed int    `json:"failed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode validation response: %v", err)
	}
	if result.Failed != 0 || result.Passed != 4 {
		t.Errorf("suite outcome = %d passed %d failed, want 4/0", result.Passed, result.Failed)
	}

	rec = doJSON(t, server.Router(), http.MethodGet, "/api/validation/"+result.RunID+"/cases", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("GET cases = %d: %s", rec.Code, rec.Body)
	}
}

func TestIndicatorEndpoints(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server.Router(), http.MethodPost, "/api/indicator/evaluate", map[string]interface{}{
		"weights": testkit.ConcentratedWeights(10, 0.9),
		"series":  testkit.SineSeries(256, 8),
		"source":  "api-test",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST evaluate = %d: %s", rec.Code, rec.Body)
	}

	var reading struct {
		Signal string `json:"signal"`
		Source string `json:"source"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &reading); err != nil {
		t.Fatalf("decode reading: %v", err)
	}
	if reading.Source != "api-test" || reading.Signal == "" {
		t.Errorf("unexpected reading: %+v", reading)
	}

	rec = doJSON(t, server.Router(), http.MethodGet, "/api/signals?limit=5", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET signals = %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "api-test") {
		t.Error("signal listing missing recorded source")
	}

	rec = doJSON(t, server.Router(), http.MethodPost, "/api/indicator/evaluate", map[string]interface{}{
		"weights": []float64{},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST evaluate without series = %d, want 400", rec.Code)
	}
}

func TestTensionEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	crash := testkit.DrawdownSeries(21, 100.0,
		[]float64{-0.10, -0.01, -0.12, -0.02, -0.09, -0.01, -0.11, -0.02, -0.10, -0.03})

	rec := doJSON(t, server.Router(), http.MethodPost, "/api/tension/detect", map[string]interface{}{
		"domain": "finance",
		"series": crash,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST tension = %d: %s", rec.Code, rec.Body)
	}

	var capitulation struct {
		Entry   bool `json:"entry"`
		Reading struct {
			Level string `json:"level"`
		} `json:"reading"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &capitulation); err != nil {
		t.Fatalf("decode capitulation: %v", err)
	}
	if !capitulation.Entry {
		t.Error("crash series did not trigger capitulation entry")
	}

	rec = doJSON(t, server.Router(), http.MethodPost, "/api/tension/detect", map[string]interface{}{
		"domain": "astrology",
		"series": crash,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown domain = %d, want 400", rec.Code)
	}
}

func TestFieldEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doJSON(t, server.Router(), http.MethodPost, "/api/field/evolve", map[string]interface{}{
		"grid":         map[string]int{"rows": 12, "cols": 12},
		"params":       map[string]float64{"delta1": 2.0, "delta2": 1.2, "alpha": 1.2, "beta": 0.8, "gamma": 1.0, "tau_e": 0.6, "tau_f": 0.4, "r": 0.5, "d": 0.1, "dt": 0.01},
		"rho0":         0.5,
		"e0":           0.5,
		"f0":           0.1,
		"steps":        100,
		"record_every": 50,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST field = %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "\"stable\":true") {
		t.Errorf("field response missing stability flag: %s", rec.Body)
	}
}

func TestOpsRouter(t *testing.T) {
	_, ops := newTestServer(t)

	rec := doJSON(t, ops.Handler(), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d", rec.Code)
	}

	rec = doJSON(t, ops.Handler(), http.MethodGet, "/reports/signals", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /reports/signals = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Coherence Signals") {
		t.Error("signal report missing heading")
	}
}
