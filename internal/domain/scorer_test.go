package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingRand records how many draws the scorer performs.
type countingRand struct {
	calls int
}

func (c *countingRand) Float64() float64 {
	c.calls++
	return 0.5
}

func (c *countingRand) IntN(n int) int {
	c.calls++
	return 0
}

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected Classification
	}{
		{"well below low threshold", 0, RiskLow},
		{"just below low threshold", 39.999, RiskLow},
		{"exactly 40", 40, RiskMedium},
		{"mid medium", 55, RiskMedium},
		{"just below high threshold", 69.999, RiskMedium},
		{"exactly 70", 70, RiskHigh},
		{"far above high threshold", 225, RiskHigh},
		{"negative score", -12.5, RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.score))
		})
	}
}

func TestScore_DeterministicExamples(t *testing.T) {
	scorer := NewScorer(&countingRand{})

	t.Run("calm conditions on shallow bench", func(t *testing.T) {
		// slope/2 + rain*0.4 + vib*5 = 17.5 + 4 + 5 = 26.5
		class, score := scorer.Score(Reading{Rainfall: 10, Vibration: 1, BlastEvents: 0}, 35, true)
		assert.Equal(t, RiskLow, class)
		assert.Equal(t, 26.5, score)
	})

	t.Run("extreme conditions on steep bench", func(t *testing.T) {
		// blast-derived vibration = 5*2 = 10, total vibration = 20
		// 30 + 80 + 100 + 15 = 225
		class, score := scorer.Score(Reading{Rainfall: 200, Vibration: 10, BlastEvents: 5}, 60, true)
		assert.Equal(t, RiskHigh, class)
		assert.Equal(t, 225.0, score)
	})

	t.Run("negative readings are not rejected", func(t *testing.T) {
		_, score := scorer.Score(Reading{Rainfall: -10, Vibration: -1, BlastEvents: 0}, 35, true)
		assert.Equal(t, 35.0/2-4-5, score)
	})
}

func TestScore_DeterministicIsPure(t *testing.T) {
	rng := &countingRand{}
	scorer := NewScorer(rng)
	r := Reading{Rainfall: 42, Vibration: 3.3, BlastEvents: 2}

	class1, score1 := scorer.Score(r, 50, true)
	class2, score2 := scorer.Score(r, 50, true)

	assert.Equal(t, score1, score2)
	assert.Equal(t, class1, class2)
	assert.Zero(t, rng.calls, "deterministic mode must draw zero random numbers")
}

func TestScore_StochasticVariesWithinBounds(t *testing.T) {
	scorer := NewScorer(NewSeededRand(1))
	r := Reading{Rainfall: 50, Vibration: 4, BlastEvents: 3}
	slope := 45.0

	// base + blast*mult*5 + noise, mult in [1.5, 3.0], noise in [-5, 5]
	base := slope/2 + r.Rainfall*0.4 + r.Vibration*5 + r.BlastEvents*3
	minScore := base + r.BlastEvents*1.5*5 - 5
	maxScore := base + r.BlastEvents*3.0*5 + 5

	seen := make(map[float64]struct{})
	for range 1000 {
		_, score := scorer.Score(r, slope, false)
		require.GreaterOrEqual(t, score, minScore)
		require.LessOrEqual(t, score, maxScore)
		seen[score] = struct{}{}
	}
	assert.Greater(t, len(seen), 1, "stochastic scores must not all be equal")
}

func TestScore_SeededStochasticIsReproducible(t *testing.T) {
	r := Reading{Rainfall: 120, Vibration: 6, BlastEvents: 4}

	s1 := NewScorer(NewSeededRand(7))
	s2 := NewScorer(NewSeededRand(7))

	for range 10 {
		_, score1 := s1.Score(r, 50, false)
		_, score2 := s2.Score(r, 50, false)
		assert.Equal(t, score1, score2)
	}
}

func TestClassification_ColorAndGlyph(t *testing.T) {
	assert.Equal(t, "#4CAF50", RiskLow.Color())
	assert.Equal(t, "#F4C430", RiskMedium.Color())
	assert.Equal(t, "#E53935", RiskHigh.Color())

	assert.Equal(t, "🟢", RiskLow.Glyph())
	assert.Equal(t, "🟡", RiskMedium.Glyph())
	assert.Equal(t, "🔴", RiskHigh.Glyph())

	// Unknown levels fall back to the safe rendering.
	assert.Equal(t, "#4CAF50", Classification("bogus").Color())
	assert.Equal(t, "🟢", Classification("bogus").Glyph())
}
