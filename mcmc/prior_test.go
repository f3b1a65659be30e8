package mcmc

import (
	"math"
	"math/rand"
	"testing"
)

func TestUniformPrior(tst *testing.T) {
	f := UniformPrior(0, 1, true, true)
	for _, x := range []float64{0, 0.25, 0.5, 1} {
		if v := f(x); v != 0 {
			tst.Errorf("UniformPrior(0, 1)(%v) = %v, expected 0", x, v)
		}
	}
	for _, x := range []float64{-1e-12, 1 + 1e-12, -3} {
		if v := f(x); !math.IsInf(v, -1) {
			tst.Errorf("UniformPrior(0, 1)(%v) = %v, expected -Inf", x, v)
		}
	}
	g := UniformPrior(0, 4, false, false)
	if v := g(2); math.Abs(v+math.Log(4)) > smallDiff {
		tst.Error("Incorrect uniform density:", v)
	}
	if !math.IsInf(g(0), -1) || !math.IsInf(g(4), -1) {
		tst.Error("Excluded bounds should have zero density")
	}
}

func TestBetaPrior(tst *testing.T) {
	f := SymmetricBetaPrior(20)
	lab, _ := math.Lgamma(40)
	la, _ := math.Lgamma(20)
	expected := lab - 2*la + 38*math.Log(0.5)
	if v := f(0.5); math.Abs(v-expected) > 1e-9 {
		tst.Errorf("Beta(20, 20) log density at 0.5: %v != %v", v, expected)
	}
	if f(0.5) <= f(0.3) || f(0.3) <= f(0.1) {
		tst.Error("Beta(20, 20) should concentrate mass near 0.5")
	}
	if math.Abs(f(0.3)-f(0.7)) > smallDiff {
		tst.Error("Symmetric beta is not symmetric")
	}
	if !math.IsInf(f(-0.1), -1) || !math.IsInf(f(1.1), -1) {
		tst.Error("Beta density outside [0, 1] should be zero")
	}

	// Beta(1, 1) is uniform
	g := BetaPrior(1, 1)
	for _, x := range []float64{0.1, 0.5, 0.9} {
		if v := g(x); math.Abs(v) > smallDiff {
			tst.Errorf("Beta(1, 1) log density at %v = %v", x, v)
		}
	}
}

func TestTruncatedNormalProposal(tst *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, sd := range []float64{1e-3, 0.1, 1, 100, 1e9, 1e300} {
		prop := TruncatedNormalProposal(rng, sd, 0, 1)
		for _, x := range []float64{0, 0.5, 1} {
			for i := 0; i < 1000; i++ {
				y := prop(x)
				if y < 0 || y > 1 {
					tst.Fatalf("sd=%v, x=%v: proposal out of range: %v", sd, x, y)
				}
			}
		}
	}
}

func TestTruncatedNormalProposalWide(tst *testing.T) {
	rng := rand.New(rand.NewSource(3))
	prop := TruncatedNormalProposal(rng, 1e9, 0, 1)
	// nearly flat on [0, 1]
	n := 20000
	sum := 0.0
	for i := 0; i < n; i++ {
		y := prop(0.9)
		if y < 0 || y > 1 {
			tst.Fatal("Proposal out of range:", y)
		}
		sum += y
	}
	if m := sum / float64(n); math.Abs(m-0.5) > 0.02 {
		tst.Error("Wide proposal should be close to uniform, mean:", m)
	}
}
