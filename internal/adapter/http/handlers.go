package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/geosentinal/slope-risk-service/internal/dashboard"
	"github.com/geosentinal/slope-risk-service/internal/engine"
	"github.com/geosentinal/slope-risk-service/internal/geomap"
	"github.com/geosentinal/slope-risk-service/internal/history"
)

// API holds the handlers behind the dashboard routes.
type API struct {
	cycle     *engine.Cycle
	runner    *engine.Runner
	assembler *dashboard.Assembler
	overlay   *geomap.Overlay
	logger    *slog.Logger
}

// NewAPI wires the dashboard API over the engine and assembler.
// overlay may be nil when no DEM artifact was loaded.
func NewAPI(cycle *engine.Cycle, runner *engine.Runner, assembler *dashboard.Assembler, overlay *geomap.Overlay, logger *slog.Logger) *API {
	return &API{
		cycle:     cycle,
		runner:    runner,
		assembler: assembler,
		overlay:   overlay,
		logger:    logger,
	}
}

type assessRequest struct {
	engine.Inputs
	ShowDEM bool `json:"show_dem"`
}

// handleAssess runs one manual deterministic tick with the supplied
// readings and returns the full dashboard payload.
func (a *API) handleAssess(w http.ResponseWriter, r *http.Request) {
	var req assessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	tick, err := a.cycle.RunManual(req.Inputs)
	if err != nil {
		a.logger.Error("manual tick failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	payload, err := a.assembler.Assemble(tick, req.ShowDEM)
	if err != nil {
		a.logger.Error("payload assembly failed", "tick_id", tick.TickID, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, payload)
}

type modeRequest struct {
	Mode            engine.Mode `json:"mode"`
	IntervalSeconds int         `json:"interval_seconds"`
}

type modeResponse struct {
	Mode            engine.Mode `json:"mode"`
	IntervalSeconds int         `json:"interval_seconds"`
}

// handleMode toggles the auto-tick loop and optionally retunes its
// period.
func (a *API) handleMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	if req.Mode != engine.ModeAuto && req.Mode != engine.ModeManual {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown mode %q", req.Mode))
		return
	}
	if req.IntervalSeconds < 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("interval_seconds must not be negative"))
		return
	}

	a.runner.SetAuto(req.Mode == engine.ModeAuto, time.Duration(req.IntervalSeconds)*time.Second)

	mode := engine.ModeManual
	if a.runner.Enabled() {
		mode = engine.ModeAuto
	}
	writeJSON(w, http.StatusOK, modeResponse{
		Mode:            mode,
		IntervalSeconds: int(a.runner.Interval() / time.Second),
	})
}

// handleExport streams the recorded history as a CSV download.
func (a *API) handleExport(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", history.ExportFilename))

	records := a.cycle.Buffer().Snapshot()
	if err := history.WriteCSV(w, a.cycle.Catalog().BenchIDs(), records); err != nil {
		// Headers are already out; log rather than rewrite the status.
		a.logger.Error("csv export failed", "error", err)
	}
}

// handleOverlay serves the DEM raster referenced by map documents.
func (a *API) handleOverlay(w http.ResponseWriter, r *http.Request) {
	if a.overlay == nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, a.overlay.Path)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
