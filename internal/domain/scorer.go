package domain

// Classification is the three-level risk label derived from a score.
type Classification string

const (
	RiskLow    Classification = "Low"
	RiskMedium Classification = "Medium"
	RiskHigh   Classification = "High"
)

// Color returns the display color for a risk level.
func (c Classification) Color() string {
	switch c {
	case RiskMedium:
		return "#F4C430"
	case RiskHigh:
		return "#E53935"
	default:
		return "#4CAF50"
	}
}

// Glyph returns the status glyph for a risk level.
func (c Classification) Glyph() string {
	switch c {
	case RiskMedium:
		return "🟡"
	case RiskHigh:
		return "🔴"
	default:
		return "🟢"
	}
}

// Classify maps a numeric score onto the risk scale:
// score < 40 is Low, 40 ≤ score < 70 is Medium, score ≥ 70 is High.
func Classify(score float64) Classification {
	switch {
	case score < 40:
		return RiskLow
	case score < 70:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// Scorer evaluates slope-stability risk from environmental readings.
// The zero value is not usable; construct with NewScorer.
type Scorer struct {
	rng Rand
}

// NewScorer creates a Scorer drawing stochastic terms from rng.
// The source is only consumed in non-deterministic evaluations.
func NewScorer(rng Rand) *Scorer {
	return &Scorer{rng: rng}
}

// Score computes the risk score and classification for one bench.
// In deterministic mode the blast multiplier is fixed at 2.0, the noise
// term is zero, and no random numbers are drawn. In stochastic mode the
// multiplier is uniform in [1.5, 3.0] and the noise uniform in [-5, 5],
// drawn in that order from the shared source.
func (s *Scorer) Score(r Reading, slope float64, deterministic bool) (Classification, float64) {
	multiplier := 2.0
	noise := 0.0
	if !deterministic {
		multiplier = s.uniform(1.5, 3.0)
		noise = s.uniform(-5, 5)
	}

	totalVib := r.Vibration + r.BlastEvents*multiplier
	score := slope/2 + r.Rainfall*0.4 + totalVib*5 + r.BlastEvents*3 + noise
	return Classify(score), score
}

func (s *Scorer) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}
