package domain

// LatLon is a WGS-84 coordinate pair.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bench is a monitored slope segment. Immutable after catalog load.
type Bench struct {
	ID      string   `json:"id"`
	Slope   float64  `json:"slope"` // degrees
	Polygon []LatLon `json:"polygon"`
}

// Centroid returns the arithmetic mean of the polygon vertices. This is
// not a true area centroid; the vertex mean is the site convention for
// placing risk zones and labels.
func (b Bench) Centroid() LatLon {
	if len(b.Polygon) == 0 {
		return LatLon{}
	}
	var lat, lon float64
	for _, p := range b.Polygon {
		lat += p.Lat
		lon += p.Lon
	}
	n := float64(len(b.Polygon))
	return LatLon{Lat: lat / n, Lon: lon / n}
}

// Group is a cluster of benches sharing one environmental reading set.
type Group struct {
	ID       int      `json:"id"`
	BenchIDs []string `json:"bench_ids"`
}

// Reading is one environmental input triple for a group.
// Values are not range-validated; see the package documentation.
type Reading struct {
	Rainfall    float64 `json:"rainfall"`     // mm
	Vibration   float64 `json:"vibration"`    // mm/s
	BlastEvents float64 `json:"blast_events"` // events/day
}

// RiskResult is the scored outcome for one bench in one tick.
// Derived, never mutated after creation.
type RiskResult struct {
	BenchID        string         `json:"bench_id"`
	Slope          float64        `json:"slope"`
	Reading        Reading        `json:"reading"`
	Score          float64        `json:"score"`
	Classification Classification `json:"classification"`
}
