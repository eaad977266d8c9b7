package blackscholes

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Normal evaluates the standard normal distribution.
// CDF is Φ and Prob is the density φ.
type Normal interface {
	CDF(x float64) float64
	Prob(x float64) float64
}

// UnitNormal is the default backend, gonum's standard normal.
type UnitNormal struct{}

func (UnitNormal) CDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

func (UnitNormal) Prob(x float64) float64 {
	return distuv.UnitNormal.Prob(x)
}

var polyCoefficients = [5]float64{0.31938153, -0.356563782, 1.781477937, -1.821255978, 1.330274429}

const invSqrt2Pi = 0.3989422804014327

// PolyNormal uses the Abramowitz-Stegun polynomial approximation of Φ,
// absolute error below 7.5e-8.
type PolyNormal struct{}

func (PolyNormal) CDF(x float64) float64 {
	l := math.Abs(x)
	k := 1 / (1 + 0.2316419*l)
	a := polyCoefficients
	poly := k * (a[0] + k*(a[1]+k*(a[2]+k*(a[3]+k*a[4]))))
	res := 1 - invSqrt2Pi*math.Exp(-l*l/2)*poly
	if x < 0 {
		res = 1 - res
	}
	return res
}

func (PolyNormal) Prob(x float64) float64 {
	return invSqrt2Pi * math.Exp(-x*x/2)
}
