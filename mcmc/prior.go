package mcmc

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// UniformPrior returns the log-density of the uniform distribution
// on [min, max]; incmin and incmax control whether the bounds are
// included.
func UniformPrior(min, max float64, incmin, incmax bool) LogDensity {
	if max <= min {
		panic("max <= min")
	}
	return func(x float64) float64 {
		if (incmin && x < min) ||
			(!incmin && x <= min) ||
			(incmax && x > max) ||
			(!incmax && x >= max) {
			return math.Inf(-1)
		}
		return -math.Log(max - min)
	}
}

// BetaPrior returns the log-density of Beta(a, b).
func BetaPrior(a, b float64) LogDensity {
	if a <= 0 || b <= 0 {
		panic("shape parameters of beta distribution must be > 0")
	}
	d := distuv.Beta{Alpha: a, Beta: b}
	return func(x float64) float64 {
		if x < 0 || x > 1 {
			return math.Inf(-1)
		}
		return d.LogProb(x)
	}
}

// SymmetricBetaPrior returns the log-density of Beta(a, a).
func SymmetricBetaPrior(a float64) LogDensity {
	return BetaPrior(a, a)
}
