package geomap

import "github.com/geosentinal/slope-risk-service/internal/domain"

// Static map furniture from the site survey. None of it is derived
// from readings.

// MapCenter and MapZoom frame the monitored pit.
var MapCenter = domain.LatLon{Lat: 23.172, Lon: 72.649}

const (
	MapZoom  = 14
	MapTiles = "CartoDB Positron"
)

// riverPaths are the two seasonal streams crossing the lease area.
func riverPaths() [][]domain.LatLon {
	return [][]domain.LatLon{
		{{Lat: 23.1785, Lon: 72.6390}, {Lat: 23.1760, Lon: 72.6450}, {Lat: 23.1738, Lon: 72.6510}, {Lat: 23.1745, Lon: 72.6570}},
		{{Lat: 23.1722, Lon: 72.6460}, {Lat: 23.1718, Lon: 72.6510}, {Lat: 23.1728, Lon: 72.6550}},
	}
}

// haulRoadPath is the main haul road segment.
func haulRoadPath() []domain.LatLon {
	return []domain.LatLon{{Lat: 23.1725, Lon: 72.6496}, {Lat: 23.1723, Lon: 72.6512}}
}

// haulerPosition is the fixed hauler marker position.
var haulerPosition = domain.LatLon{Lat: 23.1723, Lon: 72.6512}
