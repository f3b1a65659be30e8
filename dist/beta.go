// Package dist implements the analytic beta posterior of the coin
// model, used as a reference for the sampler output.
package dist

import (
	"fmt"
	"math"

	"github.com/gonum/mathext"
)

// LnBeta returns log of Beta function.
func LnBeta(p, q float64) float64 {
	lgp, _ := math.Lgamma(p)
	lgq, _ := math.Lgamma(q)
	lgpq, _ := math.Lgamma(p + q)
	return lgp + lgq - lgpq
}

/*
CDFBeta returns distribution function of the standard form of the beta
distribution, that is, the incomplete beta ratio I_x(p,q).
*/
func CDFBeta(x, p, q float64) float64 {
	switch {
	case x <= 0:
		return 0
	case x >= 1:
		return 1
	}
	return mathext.RegIncBeta(p, q, x)
}

/*
QuantileBeta calculates the Quantile of the beta distribution
*/
func QuantileBeta(prob, p, q float64) float64 {
	return mathext.InvRegIncBeta(p, q, prob)
}

// BetaPosterior is the conjugate posterior of a Bernoulli success
// probability under a Beta(a, b) prior: Beta(a+k, b+n-k).
type BetaPosterior struct {
	// prior shape parameters
	PriorAlpha float64 `json:"priorAlpha"`
	PriorBeta  float64 `json:"priorBeta"`
	// data
	Successes int `json:"successes"`
	Failures  int `json:"failures"`
	// posterior shape parameters
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
}

// NewBetaPosterior computes the posterior given the prior and counts.
func NewBetaPosterior(a, b float64, successes, failures int) (*BetaPosterior, error) {
	if !(a > 0) || !(b > 0) {
		return nil, fmt.Errorf("beta shape parameters should be > 0, got %v and %v", a, b)
	}
	if successes < 0 || failures < 0 {
		return nil, fmt.Errorf("negative counts: %d successes, %d failures", successes, failures)
	}
	return &BetaPosterior{
		PriorAlpha: a,
		PriorBeta:  b,
		Successes:  successes,
		Failures:   failures,
		Alpha:      a + float64(successes),
		Beta:       b + float64(failures),
	}, nil
}

// Mean returns the posterior mean.
func (bp *BetaPosterior) Mean() float64 {
	return bp.Alpha / (bp.Alpha + bp.Beta)
}

// Variance returns the posterior variance.
func (bp *BetaPosterior) Variance() float64 {
	s := bp.Alpha + bp.Beta
	return bp.Alpha * bp.Beta / (s * s * (s + 1))
}

// Mode returns the posterior mode. For shape parameters below one
// the density is unbounded at a boundary, which is returned then.
func (bp *BetaPosterior) Mode() float64 {
	switch {
	case bp.Alpha > 1 && bp.Beta > 1:
		return (bp.Alpha - 1) / (bp.Alpha + bp.Beta - 2)
	case bp.Alpha <= 1 && bp.Beta > 1:
		return 0
	case bp.Alpha > 1 && bp.Beta <= 1:
		return 1
	}
	// Beta(1, 1) and U-shaped densities
	return 0.5
}

// LogPdf returns the posterior log-density.
func (bp *BetaPosterior) LogPdf(x float64) float64 {
	if x < 0 || x > 1 {
		return math.Inf(-1)
	}
	var lx, l1x float64
	if bp.Alpha != 1 {
		lx = (bp.Alpha - 1) * math.Log(x)
	}
	if bp.Beta != 1 {
		l1x = (bp.Beta - 1) * math.Log(1-x)
	}
	return lx + l1x - LnBeta(bp.Alpha, bp.Beta)
}

// Pdf returns the posterior density.
func (bp *BetaPosterior) Pdf(x float64) float64 {
	return math.Exp(bp.LogPdf(x))
}

// CDF returns the posterior distribution function.
func (bp *BetaPosterior) CDF(x float64) float64 {
	return CDFBeta(x, bp.Alpha, bp.Beta)
}

// CredibleInterval returns the equal-tailed interval containing the
// given posterior probability.
func (bp *BetaPosterior) CredibleInterval(level float64) (lower, upper float64) {
	if !(level > 0 && level < 1) {
		panic("credible level should be in (0, 1)")
	}
	tail := (1 - level) / 2
	return QuantileBeta(tail, bp.Alpha, bp.Beta), QuantileBeta(1-tail, bp.Alpha, bp.Beta)
}

// LogMarginalLikelihood returns the log-evidence of the observed
// sequence: B(a+k, b+n-k) / B(a, b).
func (bp *BetaPosterior) LogMarginalLikelihood() float64 {
	return LnBeta(bp.Alpha, bp.Beta) - LnBeta(bp.PriorAlpha, bp.PriorBeta)
}
