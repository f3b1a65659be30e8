// Package optimize finds the maximum of a log-density inside a box.
// It is used to locate the posterior mode.
package optimize

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/op/go-logging"
)

// log is the global logging variable.
var log = logging.MustGetLogger("optimize")

// Optimizable is a function of a bounded vector to be maximized.
type Optimizable interface {
	// Bounds returns lower and upper bounds for every parameter.
	Bounds() (min, max []float64)
	// Names returns parameter names.
	Names() []string
	// Likelihood computes the value to maximize.
	Likelihood(x []float64) float64
}

// Optimizer is a maximization algorithm.
type Optimizer interface {
	SetOptimizable(Optimizable)
	SetStart([]float64)
	SetOutput(io.Writer)
	SetReportPeriod(period int)
	Run(iterations int) error
	GetMaxL() float64
	GetMaxLParameters() []float64
	Summary() Summary
}

// Summary stores the optimizer results.
type Summary struct {
	// Method is the optimization method.
	Method string `json:"method"`
	// MaxLnL is the maximum found.
	MaxLnL float64 `json:"maxLnL"`
	// MaxLParameters are the parameter values at the maximum.
	MaxLParameters map[string]float64 `json:"maxLParameters"`
	// Calls is the number of function evaluations.
	Calls int `json:"calls"`
}

// BaseOptimizer implements functions shared between optimizers.
type BaseOptimizer struct {
	Optimizable
	method    string
	start     []float64
	min, max  []float64
	names     []string
	i         int
	calls     int
	maxL      float64
	maxLPar   []float64
	repPeriod int
	out       io.Writer
}

// SetOptimizable sets the function to maximize.
func (o *BaseOptimizer) SetOptimizable(opt Optimizable) {
	o.Optimizable = opt
	o.min, o.max = opt.Bounds()
	o.names = opt.Names()
	o.maxL = math.Inf(-1)
}

// SetStart sets the starting point. By default the middle of the box
// is used.
func (o *BaseOptimizer) SetStart(x []float64) {
	o.start = append([]float64(nil), x...)
}

// SetOutput sets the trajectory output.
func (o *BaseOptimizer) SetOutput(w io.Writer) {
	o.out = w
}

// SetReportPeriod sets how often the trajectory is written.
func (o *BaseOptimizer) SetReportPeriod(period int) {
	o.repPeriod = period
}

// startPoint validates the optimizable and the starting point.
func (o *BaseOptimizer) startPoint() ([]float64, error) {
	if o.Optimizable == nil {
		return nil, errors.New("nothing to optimize")
	}
	if len(o.min) != len(o.max) || len(o.min) != len(o.names) || len(o.min) == 0 {
		return nil, errors.New("inconsistent number of parameters")
	}
	for i := range o.min {
		if !(o.min[i] < o.max[i]) {
			return nil, fmt.Errorf("%s: incorrect bounds [%v, %v]", o.names[i], o.min[i], o.max[i])
		}
	}
	if o.start == nil {
		x := make([]float64, len(o.min))
		for i := range x {
			x[i] = (o.min[i] + o.max[i]) / 2
		}
		return x, nil
	}
	if len(o.start) != len(o.min) {
		return nil, errors.New("incorrect number of starting values")
	}
	if !o.InRange(o.start) {
		return nil, errors.New("starting point is not in the range")
	}
	return append([]float64(nil), o.start...), nil
}

// InRange checks that all the values are within the bounds.
func (o *BaseOptimizer) InRange(x []float64) bool {
	for i, v := range x {
		if v < o.min[i] || v > o.max[i] {
			return false
		}
	}
	return true
}

// evaluate computes the function and keeps track of the maximum.
// Values outside of the bounds give -Inf.
func (o *BaseOptimizer) evaluate(x []float64) float64 {
	if !o.InRange(x) {
		return math.Inf(-1)
	}
	l := o.Likelihood(x)
	o.calls++
	if l > o.maxL || o.maxLPar == nil {
		o.maxL = l
		o.maxLPar = append(o.maxLPar[:0], x...)
	}
	return l
}

// PrintHeader writes the trajectory header.
func (o *BaseOptimizer) PrintHeader() {
	if o.out != nil {
		fmt.Fprintf(o.out, "iteration\tlikelihood\t%s\n", strings.Join(o.names, "\t"))
	}
}

// PrintLine writes a trajectory line every report period.
func (o *BaseOptimizer) PrintLine(x []float64, l float64) {
	if o.out == nil || o.repPeriod <= 0 || o.i%o.repPeriod != 0 {
		return
	}
	vals := make([]string, len(x))
	for i, v := range x {
		vals[i] = strconv.FormatFloat(v, 'f', 6, 64)
	}
	fmt.Fprintf(o.out, "%d\t%f\t%s\n", o.i, l, strings.Join(vals, "\t"))
}

// GetMaxL returns the maximum found.
func (o *BaseOptimizer) GetMaxL() float64 {
	return o.maxL
}

// GetMaxLParameters returns parameter values at the maximum.
func (o *BaseOptimizer) GetMaxLParameters() []float64 {
	return o.maxLPar
}

// Summary returns the optimization summary.
func (o *BaseOptimizer) Summary() Summary {
	s := Summary{
		Method:         o.method,
		MaxLnL:         o.maxL,
		MaxLParameters: make(map[string]float64, len(o.names)),
		Calls:          o.calls,
	}
	for i, v := range o.maxLPar {
		s.MaxLParameters[o.names[i]] = v
	}
	return s
}

// Scalar is an Optimizable function of a single bounded parameter.
type Scalar struct {
	f        func(float64) float64
	name     string
	min, max float64
}

// NewScalar creates a scalar optimizable.
func NewScalar(f func(float64) float64, name string, min, max float64) *Scalar {
	return &Scalar{f: f, name: name, min: min, max: max}
}

// Bounds returns the parameter bounds.
func (s *Scalar) Bounds() (min, max []float64) {
	return []float64{s.min}, []float64{s.max}
}

// Names returns the parameter name.
func (s *Scalar) Names() []string {
	return []string{s.name}
}

// Likelihood evaluates the function.
func (s *Scalar) Likelihood(x []float64) float64 {
	return s.f(x[0])
}

// New returns an optimizer given its name.
func New(method string) (Optimizer, error) {
	switch method {
	case "lbfgsb":
		return NewLBFGSB(), nil
	case "simplex":
		return NewDS(), nil
	}
	return nil, fmt.Errorf("Unknown optimization method: %s", method)
}
