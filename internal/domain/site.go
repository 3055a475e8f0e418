package domain

// Static site survey data for the monitored pit near Gandhinagar.
// Polygons are implicitly closed (the last vertex connects back to the
// first).

// SiteBenches returns the four monitored benches.
func SiteBenches() []Bench {
	return []Bench{
		{ID: "Bench 1", Slope: 35, Polygon: []LatLon{
			{23.1792, 72.6508}, {23.1792, 72.6524}, {23.1779, 72.6529}, {23.1768, 72.6518}, {23.1775, 72.6506},
		}},
		{ID: "Bench 2", Slope: 50, Polygon: []LatLon{
			{23.1735, 72.6448}, {23.1736, 72.6468}, {23.1724, 72.6473}, {23.1715, 72.6462}, {23.1719, 72.6450},
		}},
		{ID: "Bench 3", Slope: 45, Polygon: []LatLon{
			{23.1710, 72.6504}, {23.1708, 72.6517}, {23.1696, 72.6521}, {23.1688, 72.6510}, {23.1694, 72.6499},
		}},
		{ID: "Bench 4", Slope: 60, Polygon: []LatLon{
			{23.1670, 72.6420}, {23.1672, 72.6445}, {23.1653, 72.6450}, {23.1643, 72.6433}, {23.1651, 72.6416},
		}},
	}
}

// SiteGroups returns the two monitored zones. Group 1 covers the upper
// benches, group 2 the lower pit.
func SiteGroups() []Group {
	return []Group{
		{ID: 1, BenchIDs: []string{"Bench 1", "Bench 2"}},
		{ID: 2, BenchIDs: []string{"Bench 3", "Bench 4"}},
	}
}

// SiteCatalog builds the catalog for the monitored site. The static
// data above is known-good, so construction cannot fail.
func SiteCatalog() *Catalog {
	c, err := NewCatalog(SiteBenches(), SiteGroups())
	if err != nil {
		panic(err)
	}
	return c
}
