package http_test

import (
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/geosentinal/slope-risk-service/internal/adapter/http"
	"github.com/geosentinal/slope-risk-service/internal/dashboard"
	"github.com/geosentinal/slope-risk-service/internal/domain"
	"github.com/geosentinal/slope-risk-service/internal/engine"
	"github.com/geosentinal/slope-risk-service/internal/geomap"
	"github.com/geosentinal/slope-risk-service/internal/history"
	"github.com/geosentinal/slope-risk-service/internal/observability"
)

type serverFixture struct {
	server *httpadapter.Server
	cycle  *engine.Cycle
	runner *engine.Runner
}

func newServerFixture(t *testing.T, overlay *geomap.Overlay) serverFixture {
	t.Helper()

	rng := domain.NewSeededRand(1)
	catalog := domain.SiteCatalog()
	scorer := domain.NewScorer(rng)
	buffer := history.NewBuffer(history.DefaultCapacity)
	metrics := observability.NewMetricsForTesting()
	logger := slog.Default()

	cycle := engine.NewCycle(catalog, scorer, buffer, rng, clockwork.NewFakeClock(), logger, metrics)
	runner := engine.NewRunner(cycle, clockwork.NewFakeClock(), logger, metrics, 5*time.Second)

	maps := geomap.NewBuilder(catalog, scorer, overlay, logger)
	asm := dashboard.NewAssembler(catalog, buffer, maps)

	api := httpadapter.NewAPI(cycle, runner, asm, overlay, logger)
	return serverFixture{
		server: httpadapter.NewServer(":0", api, cycle, nil, logger),
		cycle:  cycle,
		runner: runner,
	}
}

func (f serverFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	f := newServerFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestServer_Ready(t *testing.T) {
	f := newServerFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
}

func TestServer_Assess(t *testing.T) {
	f := newServerFixture(t, nil)

	body := `{
		"group1": {"rainfall": 10, "vibration": 1, "blast_events": 0},
		"group2": {"rainfall": 200, "vibration": 10, "blast_events": 5}
	}`
	rec := f.do(t, http.MethodPost, "/api/v1/assess", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload dashboard.Payload
	require.NoError(t, decodeJSON(rec, &payload))

	assert.NotEmpty(t, payload.TickID)
	assert.Equal(t, engine.ModeManual, payload.Mode)
	require.Len(t, payload.Table, 4)

	assert.Equal(t, "Bench 1", payload.Table[0].Bench)
	assert.Equal(t, 26.5, payload.Table[0].Score)
	assert.Equal(t, domain.RiskLow, payload.Table[0].Risk)
	assert.Equal(t, "Bench 4", payload.Table[3].Bench)
	assert.Equal(t, 225.0, payload.Table[3].Score)
	assert.Equal(t, domain.RiskHigh, payload.Table[3].Risk)

	assert.Len(t, payload.Map.Zones, 12)
	assert.Nil(t, payload.Map.DEM)

	// Identical requests stay deterministic through the full stack.
	rec2 := f.do(t, http.MethodPost, "/api/v1/assess", body)
	require.Equal(t, http.StatusOK, rec2.Code)
	var payload2 dashboard.Payload
	require.NoError(t, decodeJSON(rec2, &payload2))
	assert.Equal(t, payload.Table, payload2.Table)
}

func TestServer_AssessRejectsMalformedBody(t *testing.T) {
	f := newServerFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/v1/assess", `{"group1": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Mode(t *testing.T) {
	f := newServerFixture(t, nil)

	t.Run("enable auto with interval", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/mode", `{"mode":"auto","interval_seconds":3}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"mode":"auto","interval_seconds":3}`, rec.Body.String())
		assert.True(t, f.runner.Enabled())
		assert.Equal(t, 3*time.Second, f.runner.Interval())
	})

	t.Run("back to manual keeps interval", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/mode", `{"mode":"manual"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"mode":"manual","interval_seconds":3}`, rec.Body.String())
		assert.False(t, f.runner.Enabled())
	})

	t.Run("unknown mode", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/mode", `{"mode":"turbo"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("negative interval", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/mode", `{"mode":"auto","interval_seconds":-1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_Export(t *testing.T) {
	f := newServerFixture(t, nil)

	_, err := f.cycle.RunManual(engine.Inputs{
		Group1: domain.Reading{Rainfall: 10, Vibration: 1, BlastEvents: 0},
		Group2: domain.Reading{Rainfall: 200, Vibration: 10, BlastEvents: 5},
	})
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/api/v1/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="risk_report.csv"`, rec.Header().Get("Content-Disposition"))

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"tick", "rain1", "vib1", "blast1", "rain2", "vib2", "blast2",
		"Bench 1", "Bench 2", "Bench 3", "Bench 4",
	}, rows[0])
	assert.Equal(t, []string{"0", "10", "1", "0", "200", "10", "5", "26.5", "34", "217.5", "225"}, rows[1])
}

func TestServer_Overlay(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		f := newServerFixture(t, nil)
		rec := f.do(t, http.MethodGet, "/dem/overlay.png", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("present", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "overlay.png")
		require.NoError(t, os.WriteFile(path, []byte("not-a-real-png"), 0o644))

		f := newServerFixture(t, &geomap.Overlay{Path: path})
		rec := f.do(t, http.MethodGet, "/dem/overlay.png", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "not-a-real-png", rec.Body.String())
	})
}

func decodeJSON(rec *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(rec.Body.Bytes(), v)
}
