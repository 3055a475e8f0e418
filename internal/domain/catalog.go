package domain

import "fmt"

// Catalog is the static registry of benches and their group partition.
// Read-only after construction; safe for concurrent use.
type Catalog struct {
	benches []Bench
	groups  []Group
	byID    map[string]Bench
}

// NewCatalog builds an indexed catalog and validates the partition
// invariant: every bench belongs to exactly one group, and every group
// member exists. A violation can only come from corrupted static
// configuration, so callers treat the error as fatal.
func NewCatalog(benches []Bench, groups []Group) (*Catalog, error) {
	byID := make(map[string]Bench, len(benches))
	for _, b := range benches {
		if _, dup := byID[b.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate bench %q", b.ID)
		}
		if len(b.Polygon) < 3 {
			return nil, fmt.Errorf("catalog: bench %q polygon has %d points, need at least 3", b.ID, len(b.Polygon))
		}
		if b.Slope <= 0 {
			return nil, fmt.Errorf("catalog: bench %q has non-positive slope %g", b.ID, b.Slope)
		}
		byID[b.ID] = b
	}

	seen := make(map[string]int, len(benches))
	for _, g := range groups {
		for _, id := range g.BenchIDs {
			if _, ok := byID[id]; !ok {
				return nil, fmt.Errorf("catalog: group %d references unknown bench %q", g.ID, id)
			}
			if prev, ok := seen[id]; ok {
				return nil, fmt.Errorf("catalog: bench %q in both group %d and group %d", id, prev, g.ID)
			}
			seen[id] = g.ID
		}
	}
	for _, b := range benches {
		if _, ok := seen[b.ID]; !ok {
			return nil, fmt.Errorf("catalog: bench %q belongs to no group", b.ID)
		}
	}

	return &Catalog{benches: benches, groups: groups, byID: byID}, nil
}

// Bench looks up a bench by id. An unknown id indicates a corrupted
// catalog, never bad user input.
func (c *Catalog) Bench(id string) (Bench, error) {
	b, ok := c.byID[id]
	if !ok {
		return Bench{}, fmt.Errorf("catalog: unknown bench %q", id)
	}
	return b, nil
}

// Benches returns all benches in catalog order.
func (c *Catalog) Benches() []Bench { return c.benches }

// BenchIDs returns all bench ids in catalog order.
func (c *Catalog) BenchIDs() []string {
	ids := make([]string, len(c.benches))
	for i, b := range c.benches {
		ids[i] = b.ID
	}
	return ids
}

// Groups returns the group partition in evaluation order.
func (c *Catalog) Groups() []Group { return c.groups }
