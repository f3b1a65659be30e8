package optimize

import (
	"math"
)

const (
	TINY  = 1e-10
	SMALL = 1e-6
)

// DS is the downhill simplex (Nelder-Mead) method.
type DS struct {
	BaseOptimizer
	delta  float64
	ftol   float64
	repeat bool
	oldL   float64
	points [][]float64
	psum   []float64
	l      []float64
	newPar []float64
}

// NewDS creates a new downhill simplex optimizer.
func NewDS() (ds *DS) {
	ds = &DS{
		delta: 0.1,
		ftol:  TINY,
	}
	ds.method = "simplex"
	ds.repPeriod = 10
	return
}

// createSimplex creates a simplex around start. The step along each
// axis is delta times the range width, pointing inside the box.
func (ds *DS) createSimplex(start []float64) {
	ndim := len(start)
	ds.points = make([][]float64, ndim+1)
	ds.l = make([]float64, ndim+1)
	for i := range ds.points {
		ds.points[i] = append([]float64(nil), start...)
	}
	for i := 0; i < ndim; i++ {
		step := ds.delta * (ds.max[i] - ds.min[i])
		if start[i]+step > ds.max[i] {
			step = -step
		}
		ds.points[i+1][i] += step
	}
	for i, point := range ds.points {
		ds.l[i] = ds.evaluate(point)
	}
}

// amotry extrapolates by factor fac throught the face of the simplex accros from
// the low point, tries it, and replaces the low point if the new point is better.
func (ds *DS) amotry(ilo int, fac float64) float64 {
	if ds.newPar == nil {
		ds.newPar = make([]float64, len(ds.points[0]))
	}
	ds.calcPsum()
	ndim := len(ds.newPar)
	fac1 := (1 - fac) / float64(ndim)
	fac2 := fac1 - fac
	for j := 0; j < ndim; j++ {
		ds.newPar[j] = ds.psum[j]*fac1 - ds.points[ilo][j]*fac2
	}
	l := ds.evaluate(ds.newPar)
	if l > ds.l[ilo] {
		ds.points[ilo], ds.newPar = ds.newPar, ds.points[ilo]
		ds.l[ilo] = l
	}
	return l
}

func (ds *DS) calcPsum() {
	ds.psum = make([]float64, len(ds.points[0]))
	for i := range ds.psum {
		for _, point := range ds.points {
			ds.psum[i] += point[i]
		}
	}
}

// Run starts the optimization.
func (ds *DS) Run(iterations int) error {
	start, err := ds.startPoint()
	if err != nil {
		return err
	}
	ds.createSimplex(start)
	ds.PrintHeader()

	// Lowest (worst), next-lowest and highest points
	var ilo, inlo, ihi int
	var llo, lnlo, lhi float64
Iter:
	for ds.i = 1; ds.i <= iterations; ds.i++ {
		if ds.l[0] < ds.l[1] {
			ilo = 0
			inlo = 1
			ihi = 1
		} else {
			ilo = 1
			inlo = 0
			ihi = 0
		}
		llo = ds.l[ilo]
		lnlo = ds.l[inlo]
		lhi = ds.l[ihi]
		for i := 2; i < len(ds.points); i++ {
			if ds.l[i] >= lhi {
				lhi = ds.l[i]
				ihi = i
			}
			if ds.l[i] < llo {
				lnlo = llo
				inlo = ilo
				llo = ds.l[i]
				ilo = i
			} else if ds.l[i] < lnlo {
				lnlo = ds.l[i]
				inlo = i
			}
		}
		if ds.i%ds.repPeriod == 0 {
			log.Debugf("%d: L=%f (%f)", ds.i, lhi, lhi-llo)
		}
		ds.PrintLine(ds.points[ihi], lhi)

		rtol := 2 * math.Abs(ds.l[ihi]-ds.l[ilo]) / (math.Abs(ds.l[ilo]) + math.Abs(ds.l[ihi]) + TINY)
		if rtol < ds.ftol {
			if ds.repeat && math.Abs(ds.oldL-lhi) < SMALL {
				break Iter
			}
			ds.repeat = true
			ds.oldL = lhi
			log.Infof("converged. retrying")
			ds.createSimplex(append([]float64(nil), ds.points[ihi]...))
			continue
		}
		l := ds.amotry(ilo, -1)
		switch {
		case l >= lhi:
			ds.amotry(ilo, 2)
		case l <= lnlo:
			lsave := llo
			l := ds.amotry(ilo, 0.5)
			if l <= lsave {
				for i, point := range ds.points {
					if i != ihi {
						for j := range point {
							point[j] = 0.5 * (point[j] + ds.points[ihi][j])
						}
						ds.l[i] = ds.evaluate(point)
					}
				}
			}
		}
	}
	if ds.i > iterations {
		log.Warningf("Iterations exceeded (%d)", iterations)
	}

	log.Info("Finished downhill simplex")
	log.Infof("Maximum likelihood: %v", ds.maxL)
	log.Infof("Parameter values: %v", ds.maxLPar)
	return nil
}
