// Package mcmc implements a Metropolis-Hastings sampler for a scalar
// parameter restricted to a closed interval.
package mcmc

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"

	"github.com/op/go-logging"
)

// log is the global logging variable.
var log = logging.MustGetLogger("mcmc")

// ErrConfig is returned (wrapped) for settings which do not allow
// sampling to start.
var ErrConfig = errors.New("invalid sampler configuration")

// LogDensity is a log-density function of a scalar parameter. It
// may return -Inf for impossible values.
type LogDensity func(float64) float64

// Settings stores everything needed to run a chain.
type Settings struct {
	// LogLikelihood is the log-likelihood of the data.
	LogLikelihood LogDensity
	// LogPrior is the log-density of the prior.
	LogPrior LogDensity
	// Iterations is the length of the resulting trace.
	Iterations int
	// SD is the proposal standard deviation.
	SD float64
	// Min and Max bound the parameter domain.
	Min float64
	Max float64
	// AccPeriod is how often the acceptance rate is logged; zero
	// disables it.
	AccPeriod int
	// RepPeriod is how often the trajectory line is written.
	RepPeriod int
}

// NewSettings creates settings for the unit interval with the
// default reporting periods.
func NewSettings(likelihood, prior LogDensity, iterations int, sd float64) *Settings {
	return &Settings{
		LogLikelihood: likelihood,
		LogPrior:      prior,
		Iterations:    iterations,
		SD:            sd,
		Min:           0,
		Max:           1,
		AccPeriod:     200,
		RepPeriod:     10,
	}
}

// Validate checks that sampling can start.
func (s *Settings) Validate() error {
	switch {
	case s.LogLikelihood == nil:
		return fmt.Errorf("%w: likelihood function is not set", ErrConfig)
	case s.LogPrior == nil:
		return fmt.Errorf("%w: prior function is not set", ErrConfig)
	case s.Iterations < 0:
		return fmt.Errorf("%w: negative number of iterations (%d)", ErrConfig, s.Iterations)
	case !(s.SD > 0) || math.IsInf(s.SD, 1):
		return fmt.Errorf("%w: proposal sd should be > 0, got %v", ErrConfig, s.SD)
	case !(s.Min < s.Max) || math.IsInf(s.Min, 0) || math.IsInf(s.Max, 0):
		return fmt.Errorf("%w: bad parameter domain [%v, %v]", ErrConfig, s.Min, s.Max)
	case s.AccPeriod < 0 || s.RepPeriod < 0:
		return fmt.Errorf("%w: negative report period", ErrConfig)
	}
	return nil
}

// Chain is the result of a single sampler run.
type Chain struct {
	// Index is the chain number (0 for a single run).
	Index int `json:"index"`
	// Seed used to initialize the random generator, if known.
	Seed int64 `json:"seed"`
	// Samples is the trace, one value per iteration.
	Samples []float64 `json:"samples"`
	// Accepted is the number of accepted proposals.
	Accepted int `json:"accepted"`
}

// AcceptanceRate returns the fraction of accepted proposals.
func (c *Chain) AcceptanceRate() float64 {
	if len(c.Samples) == 0 {
		return 0
	}
	return float64(c.Accepted) / float64(len(c.Samples))
}

// MH is a Metropolis-Hastings sampler.
type MH struct {
	*Settings
	rng      *rand.Rand
	propose  func(float64) float64
	out      io.Writer
	name     string
	x        float64
	l        float64
	i        int
	accepted int
}

// NewMH creates a new sampler. The random generator is owned by the
// sampler for the duration of Run.
func NewMH(settings *Settings, rng *rand.Rand) (*MH, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random generator is not set", ErrConfig)
	}
	return &MH{
		Settings: settings,
		rng:      rng,
		propose:  TruncatedNormalProposal(rng, settings.SD, settings.Min, settings.Max),
		name:     "p",
	}, nil
}

// SetOutput sets the trajectory output. Nil disables the output.
func (m *MH) SetOutput(w io.Writer) {
	m.out = w
}

// LogPosterior computes the unnormalized log-posterior.
func (m *MH) LogPosterior(x float64) float64 {
	return m.LogPrior(x) + m.LogLikelihood(x)
}

// AcceptanceRatio computes the Metropolis acceptance ratio for
// moving from current to proposal. Values above one mean the move
// is always accepted.
func (m *MH) AcceptanceRatio(current, proposal float64) float64 {
	return acceptanceRatio(current, m.LogPosterior(current), proposal, m.LogPosterior(proposal))
}

// acceptanceRatio computes the ratio from log-posteriors l at x and
// newL at y. Staying in place is always accepted.
func acceptanceRatio(x, l, y, newL float64) float64 {
	if x == y {
		return 1
	}
	return math.Exp(newL - l)
}

// Run samples the chain. The starting point is drawn uniformly from
// the domain; the trace has exactly Iterations elements.
func (m *MH) Run() *Chain {
	m.x = m.Min + m.rng.Float64()*(m.Max-m.Min)
	m.l = m.LogPosterior(m.x)
	m.accepted = 0
	log.Debugf("Starting value %s=%f, lnP=%f", m.name, m.x, m.l)

	samples := make([]float64, 0, m.Iterations)
	m.PrintHeader()
	accepted := 0
	for m.i = 0; m.i < m.Iterations; m.i++ {
		if m.AccPeriod > 0 && m.i > 0 && m.i%m.AccPeriod == 0 {
			log.Infof("Acceptance rate %.2f%%", 100*float64(accepted)/float64(m.AccPeriod))
			accepted = 0
		}

		newX := m.propose(m.x)
		newL := m.LogPosterior(newX)
		a := acceptanceRatio(m.x, m.l, newX, newL)
		if m.rng.Float64() < a {
			m.x = newX
			m.l = newL
			accepted++
			m.accepted++
		}
		samples = append(samples, m.x)

		if m.RepPeriod > 0 && m.i%m.RepPeriod == 0 {
			log.Debugf("%d: lnP=%f", m.i, m.l)
			m.PrintLine()
		}
	}
	log.Infof("Finished MCMC, %d/%d proposals accepted", m.accepted, m.Iterations)

	return &Chain{
		Samples:  samples,
		Accepted: m.accepted,
	}
}

// PrintHeader writes the trajectory header.
func (m *MH) PrintHeader() {
	if m.out != nil {
		fmt.Fprintf(m.out, "iteration\tposterior\t%s\n", m.name)
	}
}

// PrintLine writes the current state to the trajectory.
func (m *MH) PrintLine() {
	if m.out != nil {
		fmt.Fprintf(m.out, "%d\t%s\t%s\n", m.i,
			strconv.FormatFloat(m.l, 'f', 6, 64),
			strconv.FormatFloat(m.x, 'f', 6, 64))
	}
}

// Sample is a shortcut which seeds a new generator and runs a single
// chain.
func Sample(settings *Settings, seed int64) (*Chain, error) {
	m, err := NewMH(settings, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	c := m.Run()
	c.Seed = seed
	return c, nil
}
