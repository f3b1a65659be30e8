package coin

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/op/go-logging"

	"bitbucket.org/Davydov/bayesflip/mcmc"
)

const smallDiff = 1e-9

func init() {
	logging.SetLevel(logging.WARNING, "coin")
	logging.SetLevel(logging.WARNING, "mcmc")
}

func TestGenerate(tst *testing.T) {
	obs1, err := Generate(rand.New(rand.NewSource(5)), 100, 0.3)
	if err != nil {
		tst.Fatal(err)
	}
	obs2, _ := Generate(rand.New(rand.NewSource(5)), 100, 0.3)
	if obs1.String() != obs2.String() {
		tst.Error("Same seed produced different observations")
	}
	if obs1.Len() != 100 {
		tst.Error("Incorrect length:", obs1.Len())
	}
	if err := obs1.Validate(); err != nil {
		tst.Error(err)
	}
	if obs1.Successes()+obs1.Failures() != 100 {
		tst.Error("Successes and failures do not add up")
	}

	all, _ := Generate(rand.New(rand.NewSource(1)), 20, 1)
	if all.Successes() != 20 {
		tst.Error("p=1 should produce only successes:", all)
	}
	none, _ := Generate(rand.New(rand.NewSource(1)), 20, 0)
	if none.Successes() != 0 {
		tst.Error("p=0 should produce only failures:", none)
	}

	if _, err := Generate(rand.New(rand.NewSource(1)), -1, 0.5); err == nil {
		tst.Error("Expected error for negative length")
	}
	if _, err := Generate(rand.New(rand.NewSource(1)), 1, 1.5); err == nil {
		tst.Error("Expected error for p > 1")
	}
}

func TestObservations(tst *testing.T) {
	obs := Observations{1, 0, 1, 1}
	if obs.String() != "1011" {
		tst.Error("Incorrect string:", obs.String())
	}
	if obs.Successes() != 3 || obs.Failures() != 1 {
		tst.Error("Incorrect counts")
	}
	if err := (Observations{0, 2}).Validate(); err == nil {
		tst.Error("Expected error for non-binary observation")
	}
}

func TestLogLikelihood(tst *testing.T) {
	obs := Observations{1, 0, 1, 1}
	l := LogLikelihood(obs)
	expected := 3*math.Log(0.7) + math.Log(0.3)
	if v := l(0.7); math.Abs(v-expected) > smallDiff {
		tst.Errorf("Likelihood: %v != %v", v, expected)
	}
	if !math.IsInf(l(0), -1) || !math.IsInf(l(1), -1) {
		tst.Error("Likelihood should be zero at the boundaries for mixed data")
	}
	empty := LogLikelihood(nil)
	for _, p := range []float64{0, 0.2, 1} {
		if v := empty(p); v != 0 {
			tst.Errorf("Empty likelihood at %v = %v", p, v)
		}
	}
}

func TestPriorSettings(tst *testing.T) {
	u, err := UninformativePrior().Prior()
	if err != nil {
		tst.Fatal(err)
	}
	if u(0.3) != 0 {
		tst.Error("Uniform prior should be constant 0")
	}

	b, err := InformativePrior().Prior()
	if err != nil {
		tst.Fatal(err)
	}
	if b(0.5) <= b(0.2) {
		tst.Error("Informative prior should prefer 0.5")
	}
	if InformativePrior().String() != "Beta(20, 20)" {
		tst.Error("Incorrect prior description:", InformativePrior())
	}

	if _, err := (PriorSettings{Name: "cauchy"}).Prior(); !errors.Is(err, ErrUnknownPrior) {
		tst.Error("Expected unknown prior error, got", err)
	}
	if _, err := (PriorSettings{Name: Beta, Alpha: 0, Beta: 1}).Prior(); !errors.Is(err, mcmc.ErrConfig) {
		tst.Error("Expected configuration error, got", err)
	}
}

func TestModel(tst *testing.T) {
	m, err := NewModel(Observations{1, 1, 0}, InformativePrior())
	if err != nil {
		tst.Fatal(err)
	}
	if math.Abs(m.MLE()-2.0/3) > smallDiff {
		tst.Error("Incorrect MLE:", m.MLE())
	}
	x := 0.4
	if math.Abs(m.LogPosterior(x)-m.LogPrior(x)-m.LogLikelihood(x)) > smallDiff {
		tst.Error("Posterior is not prior times likelihood")
	}
	empty, _ := NewModel(nil, UninformativePrior())
	if empty.MLE() != 0.5 {
		tst.Error("MLE without data should be 0.5")
	}
	if _, err := NewModel(Observations{3}, UninformativePrior()); err == nil {
		tst.Error("Expected error for bad observations")
	}
}

func TestRunSampler(tst *testing.T) {
	obs := []int{1, 1, 1, 0, 1}
	prior := mcmc.SymmetricBetaPrior(20)
	t1, err := RunSampler(obs, prior, 1000, 0.1, 77)
	if err != nil {
		tst.Fatal(err)
	}
	t2, _ := RunSampler(obs, prior, 1000, 0.1, 77)
	if len(t1) != 1000 {
		tst.Fatal("Incorrect trace length:", len(t1))
	}
	for i := range t1 {
		if t1[i] != t2[i] {
			tst.Fatal("Runs with the same seed differ at", i)
		}
		if t1[i] < 0 || t1[i] > 1 {
			tst.Fatal("Sample out of range:", t1[i])
		}
	}

	empty, err := RunSampler(obs, prior, 0, 0.1, 77)
	if err != nil || len(empty) != 0 {
		tst.Error("Expected empty trace for zero iterations")
	}

	if _, err := RunSampler(obs, nil, 10, 0.1, 1); !errors.Is(err, mcmc.ErrConfig) {
		tst.Error("Expected configuration error for nil prior, got", err)
	}
	if _, err := RunSampler(obs, prior, -1, 0.1, 1); !errors.Is(err, mcmc.ErrConfig) {
		tst.Error("Expected configuration error for negative iterations, got", err)
	}
	if _, err := RunSampler(obs, prior, 10, 0, 1); !errors.Is(err, mcmc.ErrConfig) {
		tst.Error("Expected configuration error for zero sd, got", err)
	}
}

// Ten successes: the uniform prior follows the data, Beta(20, 20)
// pulls the posterior towards 0.5.
func TestPriorComparison(tst *testing.T) {
	if testing.Short() {
		tst.Skip("skipping test in short mode.")
	}
	obs := []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	u, _ := UninformativePrior().Prior()
	b, _ := InformativePrior().Prior()
	tu, err := RunSampler(obs, u, 20000, 0.1, 10)
	if err != nil {
		tst.Fatal(err)
	}
	tb, err := RunSampler(obs, b, 20000, 0.1, 10)
	if err != nil {
		tst.Fatal(err)
	}
	mu, mb := 0.0, 0.0
	for i := range tu {
		mu += tu[i]
		mb += tb[i]
	}
	mu /= float64(len(tu))
	mb /= float64(len(tb))
	if math.Abs(1-mu) >= math.Abs(1-mb) {
		tst.Errorf("Uniform prior mean %v should be closer to 1 than beta prior mean %v", mu, mb)
	}
	if math.Abs(mb-0.6) > 0.05 {
		tst.Error("Beta prior mean is not pulled towards 0.5:", mb)
	}
}
