package mcmc

import (
	"math"
	"testing"

	"github.com/op/go-logging"
)

const smallDiff = 1e-9

func init() {
	logging.SetLevel(logging.WARNING, "mcmc")
}

// bernoulli returns log-likelihood of 0/1 observations.
func bernoulli(obs []int) LogDensity {
	return func(p float64) (res float64) {
		for _, o := range obs {
			if o == 1 {
				res += math.Log(p)
			} else {
				res += math.Log(1 - p)
			}
		}
		return
	}
}

// ones returns n successes.
func ones(n int) []int {
	obs := make([]int, n)
	for i := range obs {
		obs[i] = 1
	}
	return obs
}

func mean(xs []float64) (m float64) {
	for _, x := range xs {
		m += x
	}
	return m / float64(len(xs))
}

func runChain(tst *testing.T, s *Settings, seed int64) *Chain {
	c, err := Sample(s, seed)
	if err != nil {
		tst.Fatal("Error running chain:", err)
	}
	return c
}
