// Package dashboard assembles the full presentation payload for one
// tick: trend charts, the risk table, and the map document. Both the
// HTTP assess handler and the WebSocket broadcaster use it.
package dashboard

import (
	"fmt"
	"math"
	"time"

	"github.com/geosentinal/slope-risk-service/internal/chart"
	"github.com/geosentinal/slope-risk-service/internal/domain"
	"github.com/geosentinal/slope-risk-service/internal/engine"
	"github.com/geosentinal/slope-risk-service/internal/geomap"
	"github.com/geosentinal/slope-risk-service/internal/history"
)

// TableRow is one bench's row in the risk table, scores rounded to one
// decimal for display.
type TableRow struct {
	Bench     string                `json:"bench"`
	Slope     float64               `json:"slope"`
	Rainfall  float64               `json:"rainfall"`
	Vibration float64               `json:"vibration"`
	Blast     float64               `json:"blast"`
	Score     float64               `json:"score"`
	Risk      domain.Classification `json:"risk"`
	Status    string                `json:"status"`
}

// Payload is everything the presentation layer renders for one tick.
type Payload struct {
	TickID     string          `json:"tick_id"`
	At         time.Time       `json:"at"`
	Mode       engine.Mode     `json:"mode"`
	Env1       chart.Series    `json:"env1"`
	Env2       chart.Series    `json:"env2"`
	BenchTrend chart.Series    `json:"bench_trend"`
	Table      []TableRow      `json:"table"`
	Map        geomap.Document `json:"map"`
}

// Assembler builds payloads from tick results and the current history.
type Assembler struct {
	catalog *domain.Catalog
	buffer  *history.Buffer
	maps    *geomap.Builder
}

// NewAssembler wires a payload assembler.
func NewAssembler(catalog *domain.Catalog, buffer *history.Buffer, maps *geomap.Builder) *Assembler {
	return &Assembler{catalog: catalog, buffer: buffer, maps: maps}
}

// HasOverlay reports whether the DEM artifact is available to render.
func (a *Assembler) HasOverlay() bool { return a.maps.HasOverlay() }

// Assemble builds the payload for a completed tick.
func (a *Assembler) Assemble(tick engine.TickResult, showDEM bool) (Payload, error) {
	doc, err := a.maps.Build(tick.Results, tick.Deterministic, showDEM)
	if err != nil {
		return Payload{}, fmt.Errorf("assemble dashboard: %w", err)
	}

	records := a.buffer.Snapshot()

	table := make([]TableRow, len(tick.Results))
	for i, r := range tick.Results {
		table[i] = TableRow{
			Bench:     r.BenchID,
			Slope:     r.Slope,
			Rainfall:  r.Reading.Rainfall,
			Vibration: r.Reading.Vibration,
			Blast:     r.Reading.BlastEvents,
			Score:     math.Round(r.Score*10) / 10,
			Risk:      r.Classification,
			Status:    r.Classification.Glyph(),
		}
	}

	return Payload{
		TickID:     tick.TickID,
		At:         tick.At,
		Mode:       tick.Mode,
		Env1:       chart.GroupSeries(records, 1, "Environmental Inputs - Group 1"),
		Env2:       chart.GroupSeries(records, 2, "Environmental Inputs - Group 2"),
		BenchTrend: chart.BenchSeries(records, a.catalog.BenchIDs(), "Bench Risk Trend"),
		Table:      table,
		Map:        doc,
	}, nil
}
