// Package coin implements the coin-flip (Bernoulli) model: simulated
// observations, the likelihood and the two priors used for inference
// on the success probability.
package coin

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/op/go-logging"
	"gonum.org/v1/gonum/stat/distuv"

	"bitbucket.org/Davydov/bayesflip/mcmc"
)

// log is the global logging variable.
var log = logging.MustGetLogger("coin")

// Observations is a sequence of binary outcomes (0 or 1).
type Observations []int

// Generate draws n Bernoulli(p) outcomes.
func Generate(rng *rand.Rand, n int, p float64) (Observations, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative number of observations: %d", n)
	}
	if !(p >= 0 && p <= 1) {
		return nil, fmt.Errorf("success probability should be in [0, 1], got %v", p)
	}
	obs := make(Observations, n)
	for i := range obs {
		if rng.Float64() < p {
			obs[i] = 1
		}
	}
	log.Debugf("Generated %d observations (p=%v), %d successes", n, p, obs.Successes())
	return obs, nil
}

// Len returns the number of observations.
func (o Observations) Len() int {
	return len(o)
}

// Successes returns the number of ones.
func (o Observations) Successes() (k int) {
	for _, x := range o {
		k += x
	}
	return
}

// Failures returns the number of zeros.
func (o Observations) Failures() int {
	return len(o) - o.Successes()
}

// Validate checks that all the observations are either 0 or 1.
func (o Observations) Validate() error {
	for i, x := range o {
		if x != 0 && x != 1 {
			return fmt.Errorf("observation %d is not binary: %d", i, x)
		}
	}
	return nil
}

// String returns observations as a string of zeros and ones.
func (o Observations) String() string {
	b := make([]byte, len(o))
	for i, x := range o {
		b[i] = byte('0' + x)
	}
	return string(b)
}

// LogLikelihood returns the log-likelihood function of the success
// probability given the observations. An empty sequence gives 0.
func LogLikelihood(obs Observations) mcmc.LogDensity {
	return func(p float64) (res float64) {
		d := distuv.Bernoulli{P: p}
		for _, x := range obs {
			res += d.LogProb(float64(x))
		}
		return
	}
}

// ErrUnknownPrior is returned for unsupported prior names.
var ErrUnknownPrior = errors.New("unknown prior")

// Prior names.
const (
	Uniform = "uniform"
	Beta    = "beta"
)

// PriorSettings describes the prior distribution of the success
// probability.
type PriorSettings struct {
	Name  string  `json:"name"`
	Alpha float64 `json:"alpha,omitempty"`
	Beta  float64 `json:"beta,omitempty"`
}

// UninformativePrior is the uniform prior on [0, 1].
func UninformativePrior() PriorSettings {
	return PriorSettings{Name: Uniform}
}

// InformativePrior is the Beta(20, 20) prior.
func InformativePrior() PriorSettings {
	return PriorSettings{Name: Beta, Alpha: 20, Beta: 20}
}

// Shape returns beta shape parameters equivalent to the prior
// (uniform is Beta(1, 1)).
func (ps PriorSettings) Shape() (a, b float64, err error) {
	switch ps.Name {
	case Uniform:
		return 1, 1, nil
	case Beta:
		if !(ps.Alpha > 0) || !(ps.Beta > 0) {
			return 0, 0, fmt.Errorf("%w: beta shape parameters should be > 0, got %v and %v",
				mcmc.ErrConfig, ps.Alpha, ps.Beta)
		}
		return ps.Alpha, ps.Beta, nil
	}
	return 0, 0, fmt.Errorf("%w: %q", ErrUnknownPrior, ps.Name)
}

// Prior returns the log-density function.
func (ps PriorSettings) Prior() (mcmc.LogDensity, error) {
	a, b, err := ps.Shape()
	if err != nil {
		return nil, err
	}
	if ps.Name == Uniform {
		return mcmc.UniformPrior(0, 1, true, true), nil
	}
	return mcmc.BetaPrior(a, b), nil
}

// String returns a human readable prior description.
func (ps PriorSettings) String() string {
	if ps.Name == Beta {
		return fmt.Sprintf("Beta(%g, %g)", ps.Alpha, ps.Beta)
	}
	return "Uniform(0, 1)"
}
