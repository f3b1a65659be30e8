package main

import (
	"bitbucket.org/Davydov/bayesflip/coin"
	"bitbucket.org/Davydov/bayesflip/optimize"
	"bitbucket.org/Davydov/bayesflip/trace"
)

// RunSummary is storing bayesflip run summary information.
type RunSummary struct {
	// Version stores bayesflip version.
	Version string `json:"version,omitempty"`
	// CommandLine is an array storing binary name and all command-line parameters.
	CommandLine []string `json:"commandLine,omitempty"`
	// Seed is the seed used for random number generation initialization.
	Seed int64 `json:"seed"`
	// Time is the computations time in seconds.
	Time float64 `json:"time,omitempty"`

	// Observations is the simulated sequence.
	Observations string `json:"observations"`
	// Successes is the number of ones.
	Successes int `json:"successes"`
	// TrueP is the success probability used for the simulation.
	TrueP float64 `json:"trueP"`
	// MLE is the maximum likelihood estimate.
	MLE float64 `json:"mle"`
	// Prior is the prior description.
	Prior coin.PriorSettings `json:"prior"`

	// Posterior is the summary of all the chains pooled.
	Posterior trace.Summary `json:"posterior"`
	// Chains are per-chain summaries.
	Chains []trace.Summary `json:"chains"`
	// Analytic is the conjugate beta posterior.
	Analytic *AnalyticSummary `json:"analytic,omitempty"`
	// MAP is the result of the posterior mode search.
	MAP *optimize.Summary `json:"map,omitempty"`
}

// AnalyticSummary stores the exact posterior statistics.
type AnalyticSummary struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Mean  float64 `json:"mean"`
	Mode  float64 `json:"mode"`
	Q025  float64 `json:"q025"`
	Q975  float64 `json:"q975"`
	// LogEvidence is the log marginal likelihood of the sequence.
	LogEvidence float64 `json:"logEvidence"`
}
