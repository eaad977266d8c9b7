package blackscholes

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ChunkSize is the number of elements one goroutine evaluates in EvalAll.
const ChunkSize = 4096

type Measure uint8

const (
	MeasurePrice Measure = iota + 1
	MeasureDelta
	MeasureGamma
	MeasureVega
	MeasureTheta
	MeasureRho
)

func (ms Measure) String() string {
	switch ms {
	case MeasurePrice:
		return "price"
	case MeasureDelta:
		return "delta"
	case MeasureGamma:
		return "gamma"
	case MeasureVega:
		return "vega"
	case MeasureTheta:
		return "theta"
	case MeasureRho:
		return "rho"
	}
	return fmt.Sprintf("Measure(%d)", uint8(ms))
}

func (m *Model) measureFunc(ms Measure) (func(OptionType, Params) (float64, error), error) {
	switch ms {
	case MeasurePrice:
		return m.Price, nil
	case MeasureDelta:
		return m.Delta, nil
	case MeasureGamma:
		return m.Gamma, nil
	case MeasureVega:
		return m.Vega, nil
	case MeasureTheta:
		return m.Theta, nil
	case MeasureRho:
		return m.Rho, nil
	}
	return nil, fmt.Errorf("blackscholes: unknown measure %d", uint8(ms))
}

// EvalAll evaluates one measure element-wise over ps. The result has the
// same length as ps. An invalid element fails the whole batch and the error
// names the lowest failing index.
func (m *Model) EvalAll(ctx context.Context, ms Measure, typ OptionType, ps []Params) ([]float64, error) {
	fn, err := m.measureFunc(ms)
	if err != nil {
		return nil, err
	}
	if err := typ.check(); err != nil {
		return nil, err
	}

	chunks := (len(ps) + ChunkSize - 1) / ChunkSize
	errs := make([]error, chunks)
	// lowest chunk that has failed so far; chunks above it stop early
	var failed atomic.Int64
	failed.Store(int64(chunks))
	fail := func(c int, err error) {
		errs[c] = err
		for {
			cur := failed.Load()
			if cur <= int64(c) || failed.CompareAndSwap(cur, int64(c)) {
				return
			}
		}
	}

	out := make([]float64, len(ps))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for c := 0; c < chunks; c++ {
		c := c
		lo := c * ChunkSize
		hi := min(lo+ChunkSize, len(ps))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				fail(c, err)
				return nil
			}
			for i := lo; i < hi; i++ {
				if failed.Load() < int64(c) {
					return nil
				}
				v, err := fn(typ, ps[i])
				if err != nil {
					fail(c, fmt.Errorf("element %d: %w", i, err))
					return nil
				}
				out[i] = v
			}
			return nil
		})
	}
	_ = g.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func EvalAll(ctx context.Context, ms Measure, typ OptionType, ps []Params) ([]float64, error) {
	return std.EvalAll(ctx, ms, typ, ps)
}
