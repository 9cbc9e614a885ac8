//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/Mnehmos/provecalc-engine/internal/adapters/http"
	"github.com/Mnehmos/provecalc-engine/internal/adapters/http/handlers"
	"github.com/Mnehmos/provecalc-engine/internal/app"
	"github.com/Mnehmos/provecalc-engine/internal/platform/config"
	"github.com/Mnehmos/provecalc-engine/internal/ports"
)

// startTestServer wires the full stack and serves it in process.
func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := app.NewEngine(app.EngineConfig{Logger: logger})
	unitsService := app.NewUnitsService(logger, nil)

	registry := ports.NewHealthRegistry()
	require.NoError(t, registry.Register(ports.CheckerFunc{
		CheckName: "engine",
		Fn:        func(context.Context) error { return nil },
	}))

	ginEngine := gin.New()
	httpadapter.SetupRouter(ginEngine, httpadapter.RouterConfig{
		Logger:         logger,
		AppConfig:      &config.AppConfig{Name: "provecalc-engine", Environment: "test"},
		HealthHandler:  handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "none", "now")),
		ComputeHandler: handlers.NewComputeHandler(engine, unitsService),
		UnitsHandler:   handlers.NewUnitsHandler(unitsService),
		Timeout:        10 * time.Second,
	})

	server := httptest.NewServer(ginEngine)
	t.Cleanup(server.Close)

	return server
}

func postJSON(t *testing.T, server *httptest.Server, path string, body any) (int, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(server.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)

	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))

	return resp.StatusCode, decoded
}

func getJSON(t *testing.T, server *httptest.Server, path string) (int, map[string]any) {
	t.Helper()

	resp, err := http.Get(server.URL + path)
	require.NoError(t, err)

	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))

	return resp.StatusCode, decoded
}

func TestAPI_EvaluateWithConstants(t *testing.T) {
	server := startTestServer(t)

	status, body := postJSON(t, server, "/api/v1/compute/evaluate", map[string]any{
		"expression":    "c",
		"use_constants": true,
	})

	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 299792458.0, body["result"], 1e-3)
}

func TestAPI_SolvePendulumWorkflow(t *testing.T) {
	server := startTestServer(t)

	// Validate dimensions first, the way the worksheet client does
	status, body := postJSON(t, server, "/api/v1/compute/validate_equation", map[string]any{
		"equation": "F = m*a",
		"variables": map[string]any{
			"m": map[string]any{"value": 2, "unit": "kg"},
			"a": map[string]any{"value": 3, "unit": "m/s**2"},
			"F": map[string]any{"unit": "N"},
		},
		"target": "F",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["valid"])

	// Then solve
	status, body = postJSON(t, server, "/api/v1/compute/solve", map[string]any{
		"equations": []string{"F = m*a"},
		"target":    "F",
		"variables": map[string]float64{"m": 2, "a": 3},
	})
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 6.0, body["numeric_value"], 1e-9)
	assert.Equal(t, "symbolic+numeric", body["method_used"])
}

func TestAPI_SolveNumericBrent(t *testing.T) {
	server := startTestServer(t)

	status, body := postJSON(t, server, "/api/v1/compute/solve_numeric", map[string]any{
		"equations": []string{"x**2 = 4"},
		"target":    "x",
		"method":    "brentq",
		"lower":     0,
		"upper":     10,
	})

	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 2.0, body["value"], 1e-8)
	assert.Equal(t, "brentq", body["method_used"])
}

func TestAPI_AnalyzeUnderdeterminedSystem(t *testing.T) {
	server := startTestServer(t)

	status, body := postJSON(t, server, "/api/v1/compute/analyze_system", map[string]any{
		"equations": []string{"a + b + c = 10"},
	})

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "under_determined", body["status"])
}

func TestAPI_UnitConversionRoundTrip(t *testing.T) {
	server := startTestServer(t)

	status, body := postJSON(t, server, "/api/v1/units/convert", map[string]any{
		"value":     100,
		"from_unit": "km/hr",
		"to_unit":   "m/s",
	})

	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 27.7778, body["converted"], 1e-3)
}

func TestAPI_DomainClassification(t *testing.T) {
	server := startTestServer(t)

	status, body := getJSON(t, server, "/api/v1/units/domain/V")

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "electrical", body["domain"])
}

func TestAPI_ErrorEnvelopeShape(t *testing.T) {
	server := startTestServer(t)

	status, body := postJSON(t, server, "/api/v1/compute/evaluate", map[string]any{
		"expression": "a + b",
	})

	require.Equal(t, http.StatusUnprocessableEntity, status)

	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "error envelope missing: %v", body)
	assert.Equal(t, "UNDEFINED_SYMBOL", errObj["code"])
	assert.Contains(t, errObj["message"], "Undefined variables")
}

func TestAPI_ConcurrentMixedRequests(t *testing.T) {
	server := startTestServer(t)

	const workers = 16

	var wg sync.WaitGroup

	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			var (
				status int
				path   string
			)

			switch i % 3 {
			case 0:
				status, _ = postJSON(t, server, "/api/v1/compute/evaluate", map[string]any{
					"expression": "2*x + 1",
					"variables":  map[string]float64{"x": float64(i)},
				})
				path = "evaluate"
			case 1:
				status, _ = postJSON(t, server, "/api/v1/compute/plot_data", map[string]any{
					"expression":  "sin(x)",
					"variable":    "x",
					"x_min":       0,
					"x_max":       6.28,
					"point_count": 50,
				})
				path = "plot_data"
			default:
				status, _ = postJSON(t, server, "/api/v1/units/convert", map[string]any{
					"value":     float64(i),
					"from_unit": "m",
					"to_unit":   "ft",
				})
				path = "convert"
			}

			if status != http.StatusOK {
				errs <- assert.AnError
				t.Errorf("%s returned status %d", path, status)
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	assert.Empty(t, errs)
}
