// Package trace summarises sampler traces.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"bitbucket.org/Davydov/bayesflip/mcmc"
)

// Summary stores posterior summary statistics of a trace.
type Summary struct {
	// N is the number of samples used.
	N int `json:"n"`
	// Burnin is the number of discarded initial samples.
	Burnin int `json:"burnin"`
	// Mean is the sample mean.
	Mean float64 `json:"mean"`
	// SD is the sample standard deviation.
	SD float64 `json:"sd"`
	// Q025, Median and Q975 are the empirical quantiles.
	Q025   float64 `json:"q025"`
	Median float64 `json:"median"`
	Q975   float64 `json:"q975"`
	// AcceptanceRate is the fraction of accepted proposals (whole
	// chain, including burn-in).
	AcceptanceRate float64 `json:"acceptanceRate"`
}

// Burn drops the first n samples. The result shares memory with
// samples.
func Burn(samples []float64, n int) []float64 {
	if n <= 0 {
		return samples
	}
	if n >= len(samples) {
		return samples[len(samples):]
	}
	return samples[n:]
}

// Summarize computes summary statistics. An empty trace gives a
// zero summary.
func Summarize(samples []float64) (s Summary) {
	s.N = len(samples)
	if s.N == 0 {
		return
	}
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	s.Mean = stat.Mean(sorted, nil)
	if s.N > 1 {
		s.SD = stat.StdDev(sorted, nil)
	}
	s.Q025 = stat.Quantile(0.025, stat.Empirical, sorted, nil)
	s.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	s.Q975 = stat.Quantile(0.975, stat.Empirical, sorted, nil)
	return
}

// SummarizeChain summarises a chain after dropping burnin samples.
func SummarizeChain(c *mcmc.Chain, burnin int) Summary {
	s := Summarize(Burn(c.Samples, burnin))
	s.Burnin = len(c.Samples) - s.N
	s.AcceptanceRate = c.AcceptanceRate()
	return s
}

// Histogram counts samples in bins equal-width bins covering [0, 1].
// The value 1 falls into the last bin.
func Histogram(samples []float64, bins int) []float64 {
	if bins < 1 {
		panic("number of bins should be >= 1")
	}
	dividers := floats.Span(make([]float64, bins+1), 0, 1)
	dividers[bins] = math.Nextafter(1, 2)

	sorted := make([]float64, 0, len(samples))
	for _, x := range samples {
		if x >= 0 && x <= 1 {
			sorted = append(sorted, x)
		}
	}
	sort.Float64s(sorted)
	return stat.Histogram(nil, dividers, sorted, nil)
}

// WriteTSV writes traces as tab-separated columns preceded by the
// iteration number, with a header line. Shorter columns are padded
// with empty cells.
func WriteTSV(w io.Writer, names []string, columns ...[]float64) error {
	if len(names) != len(columns) {
		return fmt.Errorf("%d column names for %d columns", len(names), len(columns))
	}
	n := 0
	for _, c := range columns {
		if len(c) > n {
			n = len(c)
		}
	}
	bw := bufio.NewWriter(w)
	bw.WriteString("iteration")
	for _, name := range names {
		bw.WriteByte('\t')
		bw.WriteString(name)
	}
	bw.WriteByte('\n')
	for i := 0; i < n; i++ {
		bw.WriteString(strconv.Itoa(i))
		for _, c := range columns {
			bw.WriteByte('\t')
			if i < len(c) {
				bw.WriteString(strconv.FormatFloat(c[i], 'f', 6, 64))
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
