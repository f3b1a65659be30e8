package mcmc

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// minRejectionMass is the smallest probability of a normal draw
// landing in the domain for which rejection sampling is used.
const minRejectionMass = 0.25

// TruncatedNormalProposal returns normal proposal function restricted
// to [min, max]. When the normal puts enough mass on [min, max] draws
// falling outside are discarded and resampled, otherwise the proposal
// is drawn by inverting the truncated CDF.
func TruncatedNormalProposal(rng *rand.Rand, sd, min, max float64) func(float64) float64 {
	if sd <= 0 {
		panic("sd should be > 0")
	}
	if max <= min {
		panic("max <= min")
	}
	return func(x float64) float64 {
		n := distuv.Normal{Mu: x, Sigma: sd}
		lo, hi := n.CDF(min), n.CDF(max)
		if hi-lo >= minRejectionMass {
			for {
				y := x + rng.NormFloat64()*sd
				if y >= min && y <= max {
					return y
				}
			}
		}
		if hi <= lo {
			// sd is so large the normal is flat on [min, max]
			return min + rng.Float64()*(max-min)
		}
		y := n.Quantile(lo + rng.Float64()*(hi-lo))
		return math.Max(min, math.Min(max, y))
	}
}
