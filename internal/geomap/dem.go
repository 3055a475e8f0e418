package geomap

import (
	"fmt"
	"log/slog"
	"os"
)

// Overlay is a precomputed DEM raster rendered by the upstream raster
// collaborator: an image file plus its geographic bounding box
// [[south, west], [north, east]]. The core never decodes rasters.
type Overlay struct {
	Path   string
	Bounds [2][2]float64
}

// OverlayOpacity is the fixed opacity the overlay is rendered at.
const OverlayOpacity = 0.6

// LoadOverlay checks the overlay artifact and returns nil when it is
// unavailable. A missing or unreadable artifact is never fatal; the map
// degrades to "no overlay".
func LoadOverlay(path string, bounds [2][2]float64, logger *slog.Logger) *Overlay {
	if path == "" {
		logger.Info("dem overlay disabled")
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		logger.Warn("dem overlay unavailable", "path", path, "error", err)
		return nil
	}
	if info.IsDir() {
		logger.Warn("dem overlay unavailable", "path", path, "error", fmt.Errorf("%s is a directory", path))
		return nil
	}

	logger.Info("dem overlay loaded", "path", path, "bytes", info.Size())
	return &Overlay{Path: path, Bounds: bounds}
}
