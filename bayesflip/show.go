package main

import (
	"errors"
	"fmt"

	"bitbucket.org/Davydov/bayesflip/checkpoint"
	"bitbucket.org/Davydov/bayesflip/coin"
	"bitbucket.org/Davydov/bayesflip/trace"
)

// errNoRun is returned if there is no run with the key.
var errNoRun = errors.New("run not found")

// loadRun loads a stored run.
func loadRun(fn, key string) (*checkpoint.RunData, error) {
	db, err := openDB(fn, true)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	data, err := checkpoint.NewCheckpointIO(db, []byte(key)).Load()
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%w: %q", errNoRun, key)
	}
	return data, nil
}

// show prints and optionally plots a stored run.
func show(fn, key, plotF string) (*RunSummary, error) {
	data, err := loadRun(fn, key)
	if err != nil {
		return nil, err
	}
	if !data.Final {
		log.Warning("Run is not finished")
	}

	obs := data.Observations
	m, err := coin.NewModel(obs, data.Prior)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{
		Seed:         data.Seed,
		Observations: obs.String(),
		Successes:    obs.Successes(),
		TrueP:        data.TrueP,
		MLE:          m.MLE(),
		Prior:        data.Prior,
		Posterior:    data.Summary,
	}
	for _, c := range data.Chains {
		summary.Chains = append(summary.Chains, trace.SummarizeChain(c, data.Summary.Burnin))
	}

	bp, err := analytic(data.Prior, obs)
	if err != nil {
		return nil, err
	}
	summary.Analytic = analyticSummary(bp)

	log.Noticef("Run %q saved %s", key, data.Saved.Format("2006-01-02 15:04:05"))
	log.Noticef("Prior: %s, proposal sd: %g, iterations: %d, chains: %d",
		data.Prior, data.SD, data.Iterations, len(data.Chains))
	log.Noticef("%d successes out of %d (true p=%g)", obs.Successes(), obs.Len(), data.TrueP)
	log.Noticef("Posterior mean=%f, sd=%f, 95%% interval=[%f, %f]",
		data.Summary.Mean, data.Summary.SD, data.Summary.Q025, data.Summary.Q975)
	log.Noticef("Exact posterior Beta(%g, %g): mean=%f, 95%% interval=[%f, %f]",
		bp.Alpha, bp.Beta, summary.Analytic.Mean, summary.Analytic.Q025, summary.Analytic.Q975)

	if plotF != "" {
		var pooled []float64
		for _, c := range data.Chains {
			pooled = append(pooled, trace.Burn(c.Samples, data.Summary.Burnin)...)
		}
		if len(pooled) == 0 {
			return nil, errors.New("no samples to plot")
		}
		if err := plotPosterior(plotF, pooled, 50, data.Prior, data.TrueP, bp); err != nil {
			return nil, err
		}
		log.Infof("Saved plot to %s", plotF)
	}
	return summary, nil
}

// list prints all the stored runs.
func list(fn string) error {
	db, err := openDB(fn, true)
	if err != nil {
		return err
	}
	defer db.Close()

	keys, err := checkpoint.List(db)
	if err != nil {
		return err
	}
	for _, k := range keys {
		fmt.Fprintln(stdout, k)
	}
	log.Infof("%d run(s)", len(keys))
	return nil
}

// deleteRun removes a stored run.
func deleteRun(fn, key string) error {
	if _, err := loadRun(fn, key); err != nil {
		return err
	}

	db, err := openDB(fn, false)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := checkpoint.Delete(db, []byte(key)); err != nil {
		return err
	}
	log.Noticef("Deleted run %q", key)
	return nil
}
