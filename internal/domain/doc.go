// Package domain models slope-stability risk for open-pit mine benches.
//
// # Site Model
//
// The monitored pit is divided into benches: discrete slope segments,
// each with a fixed slope angle (degrees) and a ground polygon in
// WGS-84 latitude/longitude. Benches are clustered into groups; every
// bench in a group shares one set of environmental sensor readings
// (rainfall, ground vibration, blast activity). Groups partition the
// catalog: each bench belongs to exactly one group, which the catalog
// enforces at construction time.
//
// # Scoring Model
//
// Blast activity is converted to an equivalent vibration contribution
// via a multiplier, fixed at 2.0 in deterministic mode and drawn
// uniformly from [1.5, 3.0] otherwise. With an additive noise term
// (zero deterministic, uniform [-5, 5] stochastic):
//
//	totalVib = vibration + blastEvents*multiplier
//	score    = slope/2 + rainfall*0.4 + totalVib*5 + blastEvents*3 + noise
//
// Classification thresholds:
//
//	score < 40  → Low
//	score < 70  → Medium
//	score ≥ 70  → High
//
// Deterministic mode performs zero random draws, so identical inputs
// always produce bit-identical scores. Stochastic mode consumes the
// injected shared random source; the draw order within one evaluation
// is multiplier first, then noise.
//
// Readings are deliberately not range-validated: the scorer computes a
// numeric result for any sign or magnitude, matching the upstream
// telemetry contract where bounds are enforced at the sensor/UI edge.
package domain
