// Package chart projects the history buffer into named time series for
// trend rendering. Projections are purely derived; the buffer is never
// mutated.
package chart

import (
	"github.com/geosentinal/slope-risk-service/internal/history"
)

// Channel is one named line in a series. A nil value marks a gap at
// that tick (rendered as a break, not an error).
type Channel struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

// Series is a titled set of channels sharing one tick axis, oldest
// tick first.
type Series struct {
	Title    string    `json:"title"`
	Ticks    []int     `json:"ticks"`
	Channels []Channel `json:"channels"`
}

// GroupSeries extracts the three environmental channels for one group
// (1 or 2) from the records.
func GroupSeries(records []history.Record, group int, title string) Series {
	rain := make([]*float64, len(records))
	vib := make([]*float64, len(records))
	blast := make([]*float64, len(records))

	for i, rec := range records {
		reading := rec.Group1
		if group == 2 {
			reading = rec.Group2
		}
		rain[i] = ptr(reading.Rainfall)
		vib[i] = ptr(reading.Vibration)
		blast[i] = ptr(reading.BlastEvents)
	}

	return Series{
		Title: title,
		Ticks: tickAxis(len(records)),
		Channels: []Channel{
			{Name: "Rain", Values: rain},
			{Name: "Vibration", Values: vib},
			{Name: "Blast", Values: blast},
		},
	}
}

// BenchSeries extracts one score channel per bench id, in the given
// order. Ticks where a bench has no recorded score yield a gap.
func BenchSeries(records []history.Record, benchIDs []string, title string) Series {
	channels := make([]Channel, len(benchIDs))
	for ci, id := range benchIDs {
		values := make([]*float64, len(records))
		for i, rec := range records {
			if score, ok := rec.Scores[id]; ok {
				values[i] = ptr(score)
			}
		}
		channels[ci] = Channel{Name: id, Values: values}
	}

	return Series{
		Title:    title,
		Ticks:    tickAxis(len(records)),
		Channels: channels,
	}
}

func tickAxis(n int) []int {
	ticks := make([]int, n)
	for i := range ticks {
		ticks[i] = i
	}
	return ticks
}

func ptr(v float64) *float64 { return &v }
