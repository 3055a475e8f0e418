package geomap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geosentinal/slope-risk-service/internal/domain"
)

var siteBounds = [2][2]float64{{23.16, 72.63}, {23.19, 72.66}}

func manualResults(t *testing.T) []domain.RiskResult {
	t.Helper()
	scorer := domain.NewScorer(domain.NewSeededRand(1))
	catalog := domain.SiteCatalog()

	reading := domain.Reading{Rainfall: 10, Vibration: 1, BlastEvents: 0}
	var results []domain.RiskResult
	for _, bench := range catalog.Benches() {
		class, score := scorer.Score(reading, bench.Slope, true)
		results = append(results, domain.RiskResult{
			BenchID:        bench.ID,
			Slope:          bench.Slope,
			Reading:        reading,
			Score:          score,
			Classification: class,
		})
	}
	return results
}

func newTestBuilder(overlay *Overlay) *Builder {
	return NewBuilder(
		domain.SiteCatalog(),
		domain.NewScorer(domain.NewSeededRand(1)),
		overlay,
		slog.Default(),
	)
}

func TestBuilder_Furniture(t *testing.T) {
	doc, err := newTestBuilder(nil).Build(nil, true, false)
	require.NoError(t, err)

	assert.Equal(t, domain.LatLon{Lat: 23.172, Lon: 72.649}, doc.Center)
	assert.Equal(t, 14, doc.Zoom)
	assert.Equal(t, "CartoDB Positron", doc.Tiles)

	require.Len(t, doc.Rivers, 2)
	for _, river := range doc.Rivers {
		assert.Equal(t, "#1E88E5", river.Color)
		assert.Equal(t, 3, river.Weight)
	}

	assert.Equal(t, "#666", doc.HaulRoad.Color)
	assert.Equal(t, 5, doc.HaulRoad.Weight)
	assert.Len(t, doc.HaulRoad.Points, 2)

	assert.Equal(t, "truck", doc.Hauler.Icon)
	assert.Equal(t, "Hauler", doc.Hauler.Tooltip)
	assert.Equal(t, doc.HaulRoad.Points[1], doc.Hauler.Position)
}

func TestBuilder_ZonesPerBench(t *testing.T) {
	results := manualResults(t)
	doc, err := newTestBuilder(nil).Build(results, true, false)
	require.NoError(t, err)

	require.Len(t, doc.Zones, len(results)*ZoneLayers)
	require.Len(t, doc.BenchLabels, len(results))

	zones := doc.Zones[:3] // Bench 1, slope 35, reading (10, 1, 0)
	for layer, zone := range zones {
		assert.Equal(t, "Bench 1", zone.BenchID)
		assert.Equal(t, layer, zone.Layer)
		assert.Equal(t, float64(30*(layer+1)), zone.Radius)
		assert.Equal(t, 0.5, zone.FillOpacity)

		// Deterministic layer score: slope perturbed by +2 per layer.
		expected := (35.0+float64(2*layer))/2 + 4 + 5
		assert.Equal(t, expected, zone.Score)
		assert.Equal(t, domain.RiskLow, zone.Classification)
		assert.Equal(t, zone.Classification.Color(), zone.Color)
		assert.Equal(t, fmt.Sprintf("Bench 1 - Layer %d: Low (%.1f)", layer+1, expected), zone.Tooltip)
	}

	// All zones of a bench share its centroid.
	assert.Equal(t, zones[0].Center, zones[1].Center)
	assert.Equal(t, zones[0].Center, zones[2].Center)
	assert.Equal(t, "Bench 1", doc.BenchLabels[0].Label)
	assert.Equal(t, zones[0].Center, doc.BenchLabels[0].Position)
}

func TestBuilder_StochasticLayersMayDisagree(t *testing.T) {
	results := manualResults(t)
	b := newTestBuilder(nil)

	doc, err := b.Build(results, false, false)
	require.NoError(t, err)

	scores := make(map[float64]struct{})
	for _, zone := range doc.Zones {
		scores[zone.Score] = struct{}{}
	}
	assert.Greater(t, len(scores), len(results), "stochastic layers must be sampled independently")
}

func TestBuilder_UnknownBenchIsFatal(t *testing.T) {
	results := []domain.RiskResult{{BenchID: "Bench 99"}}
	_, err := newTestBuilder(nil).Build(results, true, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown bench "Bench 99"`)
}

func TestBuilder_DEMOverlay(t *testing.T) {
	overlay := &Overlay{Path: "/data/dem_overlay.png", Bounds: siteBounds}

	t.Run("requested and available", func(t *testing.T) {
		doc, err := newTestBuilder(overlay).Build(nil, true, true)
		require.NoError(t, err)
		require.NotNil(t, doc.DEM)
		assert.Equal(t, OverlayURL, doc.DEM.URL)
		assert.Equal(t, siteBounds, doc.DEM.Bounds)
		assert.Equal(t, OverlayOpacity, doc.DEM.Opacity)
	})

	t.Run("not requested", func(t *testing.T) {
		doc, err := newTestBuilder(overlay).Build(nil, true, false)
		require.NoError(t, err)
		assert.Nil(t, doc.DEM)
	})

	t.Run("requested but unavailable", func(t *testing.T) {
		doc, err := newTestBuilder(nil).Build(nil, true, true)
		require.NoError(t, err)
		assert.Nil(t, doc.DEM)
	})
}

func TestLoadOverlay(t *testing.T) {
	logger := slog.Default()

	t.Run("empty path disables the overlay", func(t *testing.T) {
		assert.Nil(t, LoadOverlay("", siteBounds, logger))
	})

	t.Run("missing artifact degrades gracefully", func(t *testing.T) {
		assert.Nil(t, LoadOverlay("/nonexistent/dem_overlay.png", siteBounds, logger))
	})

	t.Run("directory path degrades gracefully", func(t *testing.T) {
		assert.Nil(t, LoadOverlay(t.TempDir(), siteBounds, logger))
	})

	t.Run("existing artifact loads", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dem_overlay.png")
		require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))

		overlay := LoadOverlay(path, siteBounds, logger)
		require.NotNil(t, overlay)
		assert.Equal(t, path, overlay.Path)
		assert.Equal(t, siteBounds, overlay.Bounds)
	})
}
