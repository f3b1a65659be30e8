package optimize

import (
	"math"

	lbfgsb "github.com/idavydov/go-lbfgsb"
)

// LBFGSB is the limited-memory BFGS optimizer with bounds.
type LBFGSB struct {
	BaseOptimizer
	dH   float64
	grad []float64
	x1   []float64
}

// NewLBFGSB creates a new LBFGSB optimizer.
func NewLBFGSB() (l *LBFGSB) {
	l = &LBFGSB{
		dH: 1e-6,
	}
	l.method = "lbfgsb"
	l.repPeriod = 1
	return
}

// Logger is called by the optimizer every iteration.
func (l *LBFGSB) Logger(info *lbfgsb.OptimizationIterationInformation) {
	l.i = info.Iteration
	l.PrintLine(info.X, -info.F)
}

// EvaluateFunction computes the function to minimize (-L).
func (l *LBFGSB) EvaluateFunction(x []float64) float64 {
	L := l.evaluate(x)
	if math.IsInf(L, -1) || math.IsNaN(L) {
		return math.Inf(+1)
	}
	return -L
}

// EvaluateGradient computes numeric gradient using central
// differences.
func (l *LBFGSB) EvaluateGradient(x []float64) (grad []float64) {
	if l.grad == nil {
		l.grad = make([]float64, len(x))
		l.x1 = make([]float64, len(x))
	}
	grad = l.grad
	for i := range x {
		copy(l.x1, x)
		l.x1[i] = x[i] - l.dH
		l1 := l.EvaluateFunction(l.x1)

		l.x1[i] = x[i] + l.dH
		l2 := l.EvaluateFunction(l.x1)

		grad[i] = (l2 - l1) / 2 / l.dH
	}
	return
}

// Run starts the optimization.
func (l *LBFGSB) Run(iterations int) error {
	start, err := l.startPoint()
	if err != nil {
		return err
	}
	l.PrintHeader()
	bounds := make([][2]float64, len(start))

	for i := range start {
		bounds[i][0] = l.min[i] + 1e-5
		bounds[i][1] = l.max[i] - 1e-5
		start[i] = math.Min(math.Max(start[i], bounds[i][0]), bounds[i][1])
	}

	opt := new(lbfgsb.Lbfgsb)
	opt.SetApproximationSize(10)
	opt.SetFTolerance(1e-9)
	opt.SetGTolerance(1e-9)

	opt.SetBounds(bounds)
	opt.SetLogger(l.Logger)

	_, exitStatus := opt.Minimize(l, start)

	log.Info("Exit status: ", exitStatus)
	if exitStatus.Code != lbfgsb.SUCCESS {
		log.Warning("LBFGSB did not converge: ", exitStatus)
	}

	log.Info("Finished LBFGSB")
	log.Infof("Maximum likelihood: %v", l.maxL)
	log.Infof("Likelihood function calls: %v", l.calls)
	log.Infof("Parameter values: %v", l.maxLPar)
	return nil
}
