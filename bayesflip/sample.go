package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"

	"bitbucket.org/Davydov/bayesflip/checkpoint"
	"bitbucket.org/Davydov/bayesflip/coin"
	"bitbucket.org/Davydov/bayesflip/dist"
	"bitbucket.org/Davydov/bayesflip/mcmc"
	"bitbucket.org/Davydov/bayesflip/optimize"
	"bitbucket.org/Davydov/bayesflip/trace"
	"bitbucket.org/Davydov/bayesflip/traceplot"
)

// sampleSettings stores settings of a sampling run.
type sampleSettings struct {
	n     int
	trueP float64
	prior coin.PriorSettings

	iterations int
	sd         float64
	chains     int
	burnin     int
	report     int
	accept     int
	seed       int64

	method  string
	mapIter int

	outF  string
	trajF string
	plotF string
	bins  int
	dbF   string
	key   string
}

// newSampleSettings creates sampleSettings from the command line
// parameters (global variables).
func newSampleSettings() *sampleSettings {
	ps := coin.PriorSettings{Name: *prior}
	if ps.Name == coin.Beta {
		ps.Alpha = *priorAlpha
		ps.Beta = *priorBeta
	}
	return &sampleSettings{
		n:     *nObs,
		trueP: *trueP,
		prior: ps,

		iterations: *iterations,
		sd:         *sd,
		chains:     *nChains,
		burnin:     *burnin,
		report:     *report,
		accept:     *accept,
		seed:       *seed,

		method:  *method,
		mapIter: *mapIter,

		outF:  *outF,
		trajF: *trajF,
		plotF: *plotF,
		bins:  *bins,
		dbF:   *dbF,
		key:   *runKey,
	}
}

// runSample simulates the observations, samples the posterior and
// writes all the requested outputs.
//
// The observations are generated from a generator seeded with seed,
// chain i uses seed+1+i.
func runSample(ss *sampleSettings) (*RunSummary, error) {
	rng := rand.New(rand.NewSource(ss.seed))
	obs, err := coin.Generate(rng, ss.n, ss.trueP)
	if err != nil {
		return nil, err
	}
	log.Infof("Observations: %s", obs)
	log.Noticef("%d successes out of %d", obs.Successes(), obs.Len())

	m, err := coin.NewModel(obs, ss.prior)
	if err != nil {
		return nil, err
	}
	log.Infof("Prior: %s", ss.prior)

	if ss.chains < 1 {
		return nil, fmt.Errorf("%w: number of chains should be >= 1, got %d", mcmc.ErrConfig, ss.chains)
	}
	settings := m.Settings(ss.iterations, ss.sd)
	settings.AccPeriod = ss.accept
	settings.RepPeriod = ss.report
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	var chains []*mcmc.Chain
	if ss.trajF != "" {
		chains, err = runWithTrajectory(settings, ss)
	} else {
		log.Infof("Running %d chain(s) of %d iterations", ss.chains, ss.iterations)
		chains, err = mcmc.RunChains(settings, ss.chains, ss.seed+1)
	}
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{
		Seed:         ss.seed,
		Observations: obs.String(),
		Successes:    obs.Successes(),
		TrueP:        ss.trueP,
		MLE:          m.MLE(),
		Prior:        ss.prior,
	}

	var pooled []float64
	for i, c := range chains {
		s := trace.SummarizeChain(c, ss.burnin)
		summary.Chains = append(summary.Chains, s)
		pooled = append(pooled, trace.Burn(c.Samples, ss.burnin)...)
		log.Infof("chain %d: mean=%f, sd=%f, acceptance=%.2f%%", i, s.Mean, s.SD, 100*s.AcceptanceRate)
	}
	summary.Posterior = trace.Summarize(pooled)
	summary.Posterior.Burnin = ss.burnin
	log.Noticef("Posterior mean=%f, sd=%f, 95%% interval=[%f, %f]",
		summary.Posterior.Mean, summary.Posterior.SD, summary.Posterior.Q025, summary.Posterior.Q975)

	bp, err := analytic(ss.prior, obs)
	if err != nil {
		return nil, err
	}
	summary.Analytic = analyticSummary(bp)
	log.Noticef("Exact posterior Beta(%g, %g): mean=%f, 95%% interval=[%f, %f]",
		bp.Alpha, bp.Beta, summary.Analytic.Mean, summary.Analytic.Q025, summary.Analytic.Q975)

	if ss.method != "none" {
		ms, err := findMode(m, ss.method, ss.mapIter)
		if err != nil {
			return nil, err
		}
		summary.MAP = ms
		log.Noticef("Posterior mode (%s): p=%f", ms.Method, ms.MaxLParameters["p"])
	}

	if ss.outF != "" {
		if err := writeTraces(ss.outF, chains); err != nil {
			return nil, err
		}
	}

	switch {
	case ss.plotF != "" && len(pooled) == 0:
		log.Warning("No samples left after burn-in, not plotting")
	case ss.plotF != "":
		if err := plotPosterior(ss.plotF, pooled, ss.bins, ss.prior, ss.trueP, bp); err != nil {
			return nil, err
		}
		log.Infof("Saved plot to %s", ss.plotF)
	}

	if ss.dbF != "" {
		data := &checkpoint.RunData{
			Prior:        ss.prior,
			Observations: obs,
			TrueP:        ss.trueP,
			Iterations:   ss.iterations,
			SD:           ss.sd,
			Seed:         ss.seed,
			Chains:       chains,
			Summary:      summary.Posterior,
			Final:        true,
		}
		if err := saveRun(ss.dbF, ss.key, data); err != nil {
			return nil, err
		}
	}

	return summary, nil
}

// runWithTrajectory runs the chains one by one, writing the
// trajectory of the first chain.
func runWithTrajectory(settings *mcmc.Settings, ss *sampleSettings) ([]*mcmc.Chain, error) {
	f, err := os.Create(ss.trajF)
	if err != nil {
		return nil, fmt.Errorf("Error creating trajectory file: %v", err)
	}
	defer f.Close()

	m, err := mcmc.NewMH(settings, rand.New(rand.NewSource(ss.seed+1)))
	if err != nil {
		return nil, err
	}
	m.SetOutput(f)
	first := m.Run()
	first.Seed = ss.seed + 1

	chains := []*mcmc.Chain{first}
	if ss.chains > 1 {
		rest, err := mcmc.RunChains(settings, ss.chains-1, ss.seed+2)
		if err != nil {
			return nil, err
		}
		for _, c := range rest {
			c.Index++
			chains = append(chains, c)
		}
	}
	return chains, nil
}

// analytic returns the exact conjugate posterior.
func analytic(ps coin.PriorSettings, obs coin.Observations) (*dist.BetaPosterior, error) {
	a, b, err := ps.Shape()
	if err != nil {
		return nil, err
	}
	return dist.NewBetaPosterior(a, b, obs.Successes(), obs.Failures())
}

// analyticSummary converts the exact posterior into a summary.
func analyticSummary(bp *dist.BetaPosterior) *AnalyticSummary {
	lo, hi := bp.CredibleInterval(0.95)
	return &AnalyticSummary{
		Alpha:       bp.Alpha,
		Beta:        bp.Beta,
		Mean:        bp.Mean(),
		Mode:        bp.Mode(),
		Q025:        lo,
		Q975:        hi,
		LogEvidence: bp.LogMarginalLikelihood(),
	}
}

// findMode searches for the posterior mode.
func findMode(m *coin.Model, method string, iterations int) (*optimize.Summary, error) {
	opt, err := optimize.New(method)
	if err != nil {
		return nil, err
	}
	opt.SetOptimizable(optimize.NewScalar(m.LogPosterior, "p", 0, 1))
	opt.SetStart([]float64{m.MLE()})
	if err := opt.Run(iterations); err != nil {
		return nil, err
	}
	s := opt.Summary()
	return &s, nil
}

// writeTraces writes all the chains to a file.
func writeTraces(fn string, chains []*mcmc.Chain) error {
	f, err := os.Create(fn)
	if err != nil {
		return fmt.Errorf("Error creating trace file: %v", err)
	}
	defer f.Close()

	names := make([]string, len(chains))
	columns := make([][]float64, len(chains))
	for i, c := range chains {
		names[i] = "p" + strconv.Itoa(i)
		columns[i] = c.Samples
	}
	if len(chains) == 1 {
		names[0] = "p"
	}
	return trace.WriteTSV(f, names, columns...)
}

// plotPosterior plots the pooled samples with the exact posterior
// density and the true value. Fn "-" writes svg to stdout.
func plotPosterior(fn string, samples []float64, bins int, ps coin.PriorSettings, trueP float64, bp *dist.BetaPosterior) error {
	opts := traceplot.NewOptions(fmt.Sprintf("Posterior, %s prior", ps))
	opts.Bins = bins
	opts.Reference = trueP
	opts.ReferenceLabel = "true p"
	opts.Density = bp.Pdf
	opts.DensityLabel = fmt.Sprintf("Beta(%g, %g)", bp.Alpha, bp.Beta)
	p, err := traceplot.Histogram(samples, opts)
	if err != nil {
		return err
	}
	if fn == "-" {
		return traceplot.Write(p, stdout, "svg")
	}
	return traceplot.Save(p, fn)
}

// openDB opens a bolt database.
func openDB(fn string, readOnly bool) (*bolt.DB, error) {
	db, err := bolt.Open(fn, 0600, &bolt.Options{Timeout: time.Second, ReadOnly: readOnly})
	if err != nil {
		return nil, fmt.Errorf("Error opening database %s: %v", fn, err)
	}
	return db, nil
}

// saveRun stores the run in the database.
func saveRun(fn, key string, data *checkpoint.RunData) error {
	db, err := openDB(fn, false)
	if err != nil {
		return err
	}
	defer db.Close()
	return checkpoint.NewCheckpointIO(db, []byte(key)).Save(data)
}
