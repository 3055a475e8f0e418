// Package geomap translates one tick's risk results into a renderable
// multi-layer map document: static furniture, per-bench concentric
// risk zones, and an optional DEM image overlay. The document is
// ephemeral and recomputed every tick.
package geomap

import (
	"fmt"
	"log/slog"

	"github.com/geosentinal/slope-risk-service/internal/domain"
)

// ZoneLayers is the number of concentric risk zones per bench.
const ZoneLayers = 3

// Polyline is a styled coordinate path.
type Polyline struct {
	Points  []domain.LatLon `json:"points"`
	Color   string          `json:"color"`
	Weight  int             `json:"weight"`
	Opacity float64         `json:"opacity"`
}

// Marker is a styled point annotation.
type Marker struct {
	Position domain.LatLon `json:"position"`
	Icon     string        `json:"icon,omitempty"`
	Color    string        `json:"color,omitempty"`
	Label    string        `json:"label,omitempty"`
	Tooltip  string        `json:"tooltip,omitempty"`
}

// Zone is one concentric risk circle around a bench centroid. Each
// layer is scored independently with a perturbed slope, so layers may
// disagree with each other and with the bench's primary result; that
// variation is intentional.
type Zone struct {
	BenchID        string                `json:"bench_id"`
	Layer          int                   `json:"layer"` // 0-based
	Center         domain.LatLon         `json:"center"`
	Radius         float64               `json:"radius"`
	Color          string                `json:"color"`
	FillOpacity    float64               `json:"fill_opacity"`
	Classification domain.Classification `json:"classification"`
	Score          float64               `json:"score"`
	Tooltip        string                `json:"tooltip"`
}

// ImageOverlay positions a raster image on the map.
type ImageOverlay struct {
	URL     string        `json:"url"`
	Bounds  [2][2]float64 `json:"bounds"` // [[south, west], [north, east]]
	Opacity float64       `json:"opacity"`
}

// Document is the full renderable map for one tick.
type Document struct {
	Center      domain.LatLon `json:"center"`
	Zoom        int           `json:"zoom"`
	Tiles       string        `json:"tiles"`
	Rivers      []Polyline    `json:"rivers"`
	HaulRoad    Polyline      `json:"haul_road"`
	Hauler      Marker        `json:"hauler"`
	Zones       []Zone        `json:"zones"`
	BenchLabels []Marker      `json:"bench_labels"`
	DEM         *ImageOverlay `json:"dem,omitempty"`
}

// OverlayURL is where the HTTP layer serves the DEM artifact.
const OverlayURL = "/dem/overlay.png"

// Builder renders tick results onto the site map.
type Builder struct {
	catalog *domain.Catalog
	scorer  *domain.Scorer
	overlay *Overlay
	logger  *slog.Logger
}

// NewBuilder creates a Builder. overlay may be nil when the DEM
// artifact is unavailable.
func NewBuilder(catalog *domain.Catalog, scorer *domain.Scorer, overlay *Overlay, logger *slog.Logger) *Builder {
	return &Builder{catalog: catalog, scorer: scorer, overlay: overlay, logger: logger}
}

// HasOverlay reports whether the DEM artifact was loaded.
func (b *Builder) HasOverlay() bool { return b.overlay != nil }

// Overlay returns the loaded DEM artifact, or nil.
func (b *Builder) Overlay() *Overlay { return b.overlay }

// Build renders one tick's results. deterministic must be the same
// flag the tick was scored with so layer re-scoring matches the tick's
// evaluation mode. showDEM requests the overlay; it degrades silently
// when the artifact is unavailable.
func (b *Builder) Build(results []domain.RiskResult, deterministic, showDEM bool) (Document, error) {
	doc := Document{
		Center:   MapCenter,
		Zoom:     MapZoom,
		Tiles:    MapTiles,
		HaulRoad: Polyline{Points: haulRoadPath(), Color: "#666", Weight: 5, Opacity: 0.9},
		Hauler:   Marker{Position: haulerPosition, Icon: "truck", Color: "red", Tooltip: "Hauler"},
	}
	for _, path := range riverPaths() {
		doc.Rivers = append(doc.Rivers, Polyline{Points: path, Color: "#1E88E5", Weight: 3, Opacity: 0.8})
	}

	for _, r := range results {
		bench, err := b.catalog.Bench(r.BenchID)
		if err != nil {
			return Document{}, fmt.Errorf("geomap: %w", err)
		}
		center := bench.Centroid()

		for layer := range ZoneLayers {
			// Each zone re-scores the bench with the slope pushed up by
			// 2° per layer, modeling the steeper inner faces.
			class, score := b.scorer.Score(r.Reading, bench.Slope+float64(2*layer), deterministic)
			doc.Zones = append(doc.Zones, Zone{
				BenchID:        bench.ID,
				Layer:          layer,
				Center:         center,
				Radius:         float64(30 * (layer + 1)),
				Color:          class.Color(),
				FillOpacity:    0.5,
				Classification: class,
				Score:          score,
				Tooltip:        fmt.Sprintf("%s - Layer %d: %s (%.1f)", bench.ID, layer+1, class, score),
			})
		}

		doc.BenchLabels = append(doc.BenchLabels, Marker{Position: center, Label: bench.ID})
	}

	if showDEM && b.overlay != nil {
		doc.DEM = &ImageOverlay{
			URL:     OverlayURL,
			Bounds:  b.overlay.Bounds,
			Opacity: OverlayOpacity,
		}
	}

	return doc, nil
}
