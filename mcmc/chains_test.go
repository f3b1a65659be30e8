package mcmc

import (
	"errors"
	"testing"
)

func TestRunChains(tst *testing.T) {
	s := NewSettings(bernoulli([]int{1, 0, 1, 1}), SymmetricBetaPrior(20), 300, 0.1)
	chains, err := RunChains(s, 4, 100)
	if err != nil {
		tst.Fatal(err)
	}
	if len(chains) != 4 {
		tst.Fatal("Incorrect number of chains:", len(chains))
	}
	for i, c := range chains {
		if c.Index != i || c.Seed != 100+int64(i) {
			tst.Errorf("Chain %d has index %d and seed %d", i, c.Index, c.Seed)
		}
		// every chain is the same as a single run with its seed
		single := runChain(tst, s, c.Seed)
		for j := range single.Samples {
			if single.Samples[j] != c.Samples[j] {
				tst.Fatalf("Chain %d differs from a single run at %d", i, j)
			}
		}
	}
	if s.AccPeriod != 200 {
		tst.Error("RunChains modified settings")
	}
}

func TestRunChainsErrors(tst *testing.T) {
	s := NewSettings(bernoulli(nil), UniformPrior(0, 1, true, true), 10, 0.1)
	if _, err := RunChains(s, 0, 1); !errors.Is(err, ErrConfig) {
		tst.Error("Expected error for zero chains, got", err)
	}
	s.SD = 0
	if _, err := RunChains(s, 2, 1); !errors.Is(err, ErrConfig) {
		tst.Error("Expected configuration error, got", err)
	}
}
