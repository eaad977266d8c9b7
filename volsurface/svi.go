package volsurface

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SVI holds raw SVI parameters of a total variance smile.
type SVI struct {
	A   float64 // 方差大小
	B   float64 // 渐近线夹角
	C   float64 // 平滑度
	Rho float64 // 旋转
	Eta float64 // 平移
}

// Variance is the raw SVI total variance at shifted log-moneyness kM.
func Variance(kM, a, b, c, rho float64) float64 {
	return a + b*(rho*kM+math.Sqrt(kM*kM+c*c))
}

// ImVol returns the implied volatility at strike for expiry t in years.
func (p SVI) ImVol(strike, forward, t float64) float64 {
	kM := math.Log(strike/forward) - p.Eta
	return math.Sqrt(math.Abs(Variance(kM, p.A, p.B, p.C, p.Rho) / t))
}

// Synthetic evaluates p on every strike and tenor.
func Synthetic(name string, p SVI, forward float64, strikes, tenors []float64) (*Surface, error) {
	if !(forward > 0) {
		return nil, fmt.Errorf("volsurface: forward %v must be positive", forward)
	}
	if len(strikes) == 0 || len(tenors) == 0 {
		return nil, fmt.Errorf("volsurface: empty grid")
	}
	for _, k := range strikes {
		if !(k > 0) {
			return nil, fmt.Errorf("volsurface: strike %v must be positive", k)
		}
	}
	for _, t := range tenors {
		if !(t > 0) {
			return nil, fmt.Errorf("volsurface: tenor %v must be positive", t)
		}
	}

	vols := mat.NewDense(len(tenors), len(strikes), nil)
	vols.Apply(func(i, j int, _ float64) float64 {
		return p.ImVol(strikes[j], forward, tenors[i])
	}, vols)
	return &Surface{
		Name:    name,
		Strikes: append([]float64(nil), strikes...),
		Tenors:  append([]float64(nil), tenors...),
		Vols:    vols,
	}, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}
