// Package engine orchestrates evaluation ticks: scoring every bench,
// extending history, and driving the auto-telemetry loop.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/geosentinal/slope-risk-service/internal/domain"
	"github.com/geosentinal/slope-risk-service/internal/history"
	"github.com/geosentinal/slope-risk-service/internal/observability"
)

// Mode selects how tick inputs are obtained and whether scoring is
// reproducible. Manual mode is fully deterministic for identical
// inputs; auto mode draws fresh random readings every tick.
type Mode string

const (
	ModeManual Mode = "manual"
	ModeAuto   Mode = "auto"
)

// Inputs carries one reading triple per monitored group.
type Inputs struct {
	Group1 domain.Reading `json:"group1"`
	Group2 domain.Reading `json:"group2"`
}

// TickResult is the outcome of one evaluation tick.
type TickResult struct {
	TickID        string              `json:"tick_id"`
	At            time.Time           `json:"at"`
	Mode          Mode                `json:"mode"`
	Deterministic bool                `json:"deterministic"`
	Inputs        Inputs              `json:"inputs"`
	Results       []domain.RiskResult `json:"results"`
	Record        history.Record      `json:"-"`
}

// Cycle produces one consistent tick of results and extends history.
// The whole tick runs under one mutex: the design assumes at most one
// tick in flight, and concurrent HTTP requests must not interleave the
// history append-and-trim sequence.
type Cycle struct {
	mu      sync.Mutex
	catalog *domain.Catalog
	scorer  *domain.Scorer
	buffer  *history.Buffer
	rng     domain.Rand
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewCycle wires an assessment cycle over the given catalog and buffer.
func NewCycle(
	catalog *domain.Catalog,
	scorer *domain.Scorer,
	buffer *history.Buffer,
	rng domain.Rand,
	clock clockwork.Clock,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Cycle {
	return &Cycle{
		catalog: catalog,
		scorer:  scorer,
		buffer:  buffer,
		rng:     rng,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
}

// Buffer exposes the history buffer owned by this cycle.
func (c *Cycle) Buffer() *history.Buffer { return c.buffer }

// Catalog exposes the static bench catalog.
func (c *Cycle) Catalog() *domain.Catalog { return c.catalog }

// CheckReadiness reports whether the engine can serve ticks. The
// catalog is validated at construction, so a built cycle is ready.
func (c *Cycle) CheckReadiness(_ context.Context) error { return nil }

// RunManual evaluates one tick with caller-supplied readings.
// Scoring is deterministic: identical inputs yield identical scores.
func (c *Cycle) RunManual(in Inputs) (TickResult, error) {
	return c.run(ModeManual, in)
}

// RunAuto draws fresh random readings for both groups and evaluates one
// stochastic tick.
func (c *Cycle) RunAuto() (TickResult, error) {
	return c.run(ModeAuto, Inputs{Group1: c.drawReading(), Group2: c.drawReading()})
}

func (c *Cycle) run(mode Mode, in Inputs) (TickResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := c.clock.Now()
	deterministic := mode == ModeManual

	groups := c.catalog.Groups()
	readings := []domain.Reading{in.Group1, in.Group2}
	if len(groups) != len(readings) {
		return TickResult{}, fmt.Errorf("engine: %d groups but %d reading sets", len(groups), len(readings))
	}

	results := make([]domain.RiskResult, 0, len(c.catalog.Benches()))
	scores := make(map[string]float64, len(c.catalog.Benches()))

	for gi, g := range groups {
		reading := readings[gi]
		for _, id := range g.BenchIDs {
			bench, err := c.catalog.Bench(id)
			if err != nil {
				// Partition invariant violation: corrupted static catalog.
				c.metrics.TickErrors.Inc()
				return TickResult{}, fmt.Errorf("engine: %w", err)
			}
			class, score := c.scorer.Score(reading, bench.Slope, deterministic)
			results = append(results, domain.RiskResult{
				BenchID:        bench.ID,
				Slope:          bench.Slope,
				Reading:        reading,
				Score:          score,
				Classification: class,
			})
			scores[bench.ID] = round1(score)
			c.metrics.BenchScores.Observe(score)
			c.metrics.RiskLevels.WithLabelValues(string(class)).Inc()
		}
	}

	record := history.Record{
		TickID: uuid.NewString(),
		At:     start,
		Group1: in.Group1,
		Group2: in.Group2,
		Scores: scores,
	}
	c.buffer.Append(record)

	c.metrics.TicksTotal.WithLabelValues(string(mode)).Inc()
	c.metrics.TickDuration.Observe(c.clock.Since(start).Seconds())
	c.metrics.HistorySize.Set(float64(c.buffer.Len()))

	c.logger.Debug("tick complete",
		"tick_id", record.TickID,
		"mode", mode,
		"benches", len(results),
		"history_len", c.buffer.Len(),
	)

	return TickResult{
		TickID:        record.TickID,
		At:            start,
		Mode:          mode,
		Deterministic: deterministic,
		Inputs:        in,
		Results:       results,
		Record:        record,
	}, nil
}

// drawReading generates one auto-mode telemetry triple: integer
// rainfall in [0, 200] mm, vibration in [0, 10] mm/s to one decimal,
// integer blast count in [0, 5].
func (c *Cycle) drawReading() domain.Reading {
	return domain.Reading{
		Rainfall:    float64(c.rng.IntN(201)),
		Vibration:   round1(c.rng.Float64() * 10),
		BlastEvents: float64(c.rng.IntN(6)),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
