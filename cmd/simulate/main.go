// Command simulate runs a seeded batch of evaluation ticks through the
// actual engine and writes the resulting history as CSV and the final
// dashboard payload as JSON. It exists to generate fixtures and to
// print score statistics for updating test assertions.
//
// Usage:
//
//	go run ./cmd/simulate \
//	  -ticks 50 \
//	  -seed 7 \
//	  -csv-out data/mock/history.csv \
//	  -payload-out data/mock/payload.json
//
// With -mode manual every tick repeats the readings given by the
// -group1 and -group2 flags ("rain,vib,blast").
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/geosentinal/slope-risk-service/internal/dashboard"
	"github.com/geosentinal/slope-risk-service/internal/domain"
	"github.com/geosentinal/slope-risk-service/internal/engine"
	"github.com/geosentinal/slope-risk-service/internal/geomap"
	"github.com/geosentinal/slope-risk-service/internal/history"
	"github.com/geosentinal/slope-risk-service/internal/observability"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ticks := flag.Int("ticks", 50, "number of ticks to simulate")
	seed := flag.Uint64("seed", 1, "random seed (must be non-zero for reproducible output)")
	mode := flag.String("mode", "auto", "tick mode: auto or manual")
	group1 := flag.String("group1", "10,1,0", "manual-mode group 1 readings: rain,vib,blast")
	group2 := flag.String("group2", "200,10,5", "manual-mode group 2 readings: rain,vib,blast")
	csvOut := flag.String("csv-out", "", "output path for the history CSV fixture")
	payloadOut := flag.String("payload-out", "", "output path for the final dashboard payload JSON fixture")
	flag.Parse()

	if *ticks < 1 || *seed == 0 || *csvOut == "" || *payloadOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -ticks, -seed, -csv-out, -payload-out")
	}
	if *mode != "auto" && *mode != "manual" {
		return fmt.Errorf("invalid -mode %q: want auto or manual", *mode)
	}

	var inputs engine.Inputs
	if *mode == "manual" {
		g1, err := parseReading(*group1)
		if err != nil {
			return fmt.Errorf("invalid -group1: %w", err)
		}
		g2, err := parseReading(*group2)
		if err != nil {
			return fmt.Errorf("invalid -group2: %w", err)
		}
		inputs = engine.Inputs{Group1: g1, Group2: g2}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rng := domain.NewSeededRand(*seed)
	catalog := domain.SiteCatalog()
	scorer := domain.NewScorer(rng)
	buffer := history.NewBuffer(history.DefaultCapacity)

	cycle := engine.NewCycle(catalog, scorer, buffer, rng,
		clockwork.NewFakeClock(), logger, observability.NewMetricsForTesting())
	maps := geomap.NewBuilder(catalog, scorer, nil, logger)
	assembler := dashboard.NewAssembler(catalog, buffer, maps)

	var last engine.TickResult
	for i := 0; i < *ticks; i++ {
		var tick engine.TickResult
		var err error
		if *mode == "manual" {
			tick, err = cycle.RunManual(inputs)
		} else {
			tick, err = cycle.RunAuto()
		}
		if err != nil {
			return fmt.Errorf("tick %d: %w", i, err)
		}
		last = tick
	}
	log.Printf("simulated %d %s ticks (seed %d)", *ticks, *mode, *seed)

	if err := writeCSV(*csvOut, catalog.BenchIDs(), buffer.Snapshot()); err != nil {
		return fmt.Errorf("writing history fixture: %w", err)
	}
	log.Printf("wrote history fixture: %s", *csvOut)

	payload, err := assembler.Assemble(last, false)
	if err != nil {
		return fmt.Errorf("assembling final payload: %w", err)
	}
	if err := writeJSON(*payloadOut, payload); err != nil {
		return fmt.Errorf("writing payload fixture: %w", err)
	}
	log.Printf("wrote payload fixture: %s", *payloadOut)

	printStats(catalog.BenchIDs(), buffer.Snapshot())
	return nil
}

// parseReading parses "rain,vib,blast" into a telemetry triple.
func parseReading(s string) (domain.Reading, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return domain.Reading{}, fmt.Errorf("want rain,vib,blast, got %q", s)
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.Reading{}, fmt.Errorf("%q is not a number", p)
		}
		vals[i] = v
	}
	return domain.Reading{Rainfall: vals[0], Vibration: vals[1], BlastEvents: vals[2]}, nil
}

func writeCSV(path string, benchIDs []string, records []history.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := history.WriteCSV(f, benchIDs, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// printStats aggregates per-bench score ranges and classification
// counts so test expectations can be refreshed after scoring changes.
func printStats(benchIDs []string, records []history.Record) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Ticks: %d\n", len(records))

	for _, id := range benchIDs {
		var minScore, maxScore, sum float64
		var n int
		levels := map[domain.Classification]int{}

		for _, rec := range records {
			score, ok := rec.Scores[id]
			if !ok {
				continue
			}
			if n == 0 || score < minScore {
				minScore = score
			}
			if score > maxScore {
				maxScore = score
			}
			sum += score
			n++
			levels[domain.Classify(score)]++
		}
		if n == 0 {
			fmt.Printf("%s: no scores\n", id)
			continue
		}
		fmt.Printf("%s: min=%.1f max=%.1f mean=%.1f low=%d medium=%d high=%d\n",
			id, minScore, maxScore, sum/float64(n),
			levels[domain.RiskLow], levels[domain.RiskMedium], levels[domain.RiskHigh])
	}
}
