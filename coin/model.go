package coin

import (
	"math/rand"

	"bitbucket.org/Davydov/bayesflip/mcmc"
)

// Model binds observations and a prior.
type Model struct {
	Observations Observations
	PriorSettings

	prior      mcmc.LogDensity
	likelihood mcmc.LogDensity
}

// NewModel creates a new model.
func NewModel(obs Observations, ps PriorSettings) (*Model, error) {
	if err := obs.Validate(); err != nil {
		return nil, err
	}
	prior, err := ps.Prior()
	if err != nil {
		return nil, err
	}
	return &Model{
		Observations:  obs,
		PriorSettings: ps,
		prior:         prior,
		likelihood:    LogLikelihood(obs),
	}, nil
}

// LogPrior computes the prior log-density.
func (m *Model) LogPrior(p float64) float64 {
	return m.prior(p)
}

// LogLikelihood computes the log-likelihood.
func (m *Model) LogLikelihood(p float64) float64 {
	return m.likelihood(p)
}

// LogPosterior computes the unnormalized log-posterior.
func (m *Model) LogPosterior(p float64) float64 {
	return m.prior(p) + m.likelihood(p)
}

// Settings returns sampler settings for the model.
func (m *Model) Settings(iterations int, sd float64) *mcmc.Settings {
	return mcmc.NewSettings(m.likelihood, m.prior, iterations, sd)
}

// MLE returns the maximum likelihood estimate (the proportion of
// successes), 0.5 without data.
func (m *Model) MLE() float64 {
	if len(m.Observations) == 0 {
		return 0.5
	}
	return float64(m.Observations.Successes()) / float64(len(m.Observations))
}

// RunSampler samples the posterior of the success probability with a
// fresh generator seeded with seed. The trace has exactly iterations
// values.
func RunSampler(observations []int, logPrior func(float64) float64, iterations int, proposalSD float64, seed int64) ([]float64, error) {
	obs := Observations(observations)
	if err := obs.Validate(); err != nil {
		return nil, err
	}
	s := mcmc.NewSettings(LogLikelihood(obs), logPrior, iterations, proposalSD)
	// a nil function converted to LogDensity stays nil and is
	// rejected by the validation
	m, err := mcmc.NewMH(s, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	return m.Run().Samples, nil
}
