package blackscholes

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func randomParams(rnd *rand.Rand) Params {
	return Params{
		S:     20 + 180*rnd.Float64(),
		K:     20 + 180*rnd.Float64(),
		R:     -0.01 + 0.1*rnd.Float64(),
		Q:     0.05 * rnd.Float64(),
		Sigma: 0.05 + 0.95*rnd.Float64(),
		T:     0.01 + 4*rnd.Float64(),
	}
}

func closeTo(a, b, rel float64) bool {
	return math.Abs(a-b) <= rel*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestD1D2(t *testing.T) {
	d1 := D1(100, 100, 0.05, 0, 0.2, 1)
	d2 := D2(100, 100, 0.05, 0, 0.2, 1)
	if math.Abs(d1-0.35) > 1e-12 || math.Abs(d2-0.15) > 1e-12 {
		t.Errorf("d1 %v d2 %v", d1, d2)
	}
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		p := randomParams(rnd)
		tau := p.Tau()
		d1 := D1(p.S, p.K, p.R, p.Q, p.Sigma, tau)
		d2 := D2(p.S, p.K, p.R, p.Q, p.Sigma, tau)
		if !closeTo(d1-p.Sigma*math.Sqrt(tau), d2, 1e-12) {
			t.Fatalf("d2 != d1 - sigma*sqrt(tau) for %+v", p)
		}
	}
}

func TestPutCallParity(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		p := randomParams(rnd)
		c, err := std.Price(Call, p)
		if err != nil {
			t.Fatal(err)
		}
		pp, err := std.Price(Put, p)
		if err != nil {
			t.Fatal(err)
		}
		tau := p.Tau()
		want := p.S*math.Exp(-p.Q*tau) - p.K*math.Exp(-p.R*tau)
		if !closeTo(c-pp, want, 1e-8) {
			t.Errorf("parity broken for %+v: call-put %v, forward %v", p, c-pp, want)
		}
	}
}

func TestGreeksSymmetry(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for i := 0; i < 500; i++ {
		p := randomParams(rnd)
		call, err := NewBSM(Call, p)
		if err != nil {
			t.Fatal(err)
		}
		put, err := NewBSM(Put, p)
		if err != nil {
			t.Fatal(err)
		}
		if call.Gamma != put.Gamma {
			t.Errorf("gamma differs for %+v: %v vs %v", p, call.Gamma, put.Gamma)
		}
		if call.Vega != put.Vega {
			t.Errorf("vega differs for %+v: %v vs %v", p, call.Vega, put.Vega)
		}
		if want := math.Exp(-p.Q * p.Tau()); !closeTo(call.Delta-put.Delta, want, 1e-12) {
			t.Errorf("delta spread for %+v: got %v, want %v", p, call.Delta-put.Delta, want)
		}
	}
}

func TestExpiryBoundary(t *testing.T) {
	const tau = 1e-6
	cases := []struct {
		S, K float64
	}{
		{110, 100},
		{90, 100},
		{150, 100},
		{50, 100},
	}
	for _, c := range cases {
		call, err := Price(Call, c.S, c.K, 0.05, 0.02, 0.2, tau, 0)
		if err != nil {
			t.Fatal(err)
		}
		put, err := Price(Put, c.S, c.K, 0.05, 0.02, 0.2, tau, 0)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(call-math.Max(c.S-c.K, 0)) > 1e-4 {
			t.Errorf("call S=%v K=%v: got %v", c.S, c.K, call)
		}
		if math.Abs(put-math.Max(c.K-c.S, 0)) > 1e-4 {
			t.Errorf("put S=%v K=%v: got %v", c.S, c.K, put)
		}
	}
}

func TestMonotonicInSpot(t *testing.T) {
	prevCall, prevPut := math.Inf(-1), math.Inf(1)
	for s := 40.0; s <= 200; s += 0.5 {
		c, err := Price(Call, s, 100, 0.03, 0.01, 0.3, 0.75, 0)
		if err != nil {
			t.Fatal(err)
		}
		p, err := Price(Put, s, 100, 0.03, 0.01, 0.3, 0.75, 0)
		if err != nil {
			t.Fatal(err)
		}
		if c < prevCall {
			t.Errorf("call decreased at S=%v: %v < %v", s, c, prevCall)
		}
		if p > prevPut {
			t.Errorf("put increased at S=%v: %v > %v", s, p, prevPut)
		}
		prevCall, prevPut = c, p
	}
}

func TestValuationTime(t *testing.T) {
	a, err := Price(Call, 100, 95, 0.03, 0.02, 0.25, 0.5, 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Price(Call, 100, 95, 0.03, 0.02, 0.25, 1.25, 0.75)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(a-9.831948725700414) > 1e-9 || math.Abs(a-b) > 1e-12 {
		t.Errorf("price depends on T-t only: %v vs %v", a, b)
	}
}

func TestInvalidOptionType(t *testing.T) {
	type op func(OptionType, float64, float64, float64, float64, float64, float64, float64) (float64, error)
	ops := map[string]op{
		"price": Price,
		"delta": Delta,
		"gamma": Gamma,
		"vega":  Vega,
		"theta": Theta,
		"rho":   Rho,
	}
	for name, fn := range ops {
		for _, typ := range []OptionType{0, 3, 255} {
			if _, err := fn(typ, 100, 100, 0.05, 0, 0.2, 1, 0); !errors.Is(err, ErrInvalidOptionType) {
				t.Errorf("%s(%v): want ErrInvalidOptionType, got %v", name, typ, err)
			}
		}
	}
	if _, err := NewBSM(OptionType(9), atm); !errors.Is(err, ErrInvalidOptionType) {
		t.Errorf("NewBSM: want ErrInvalidOptionType, got %v", err)
	}
	if _, err := ParseOptionType("straddle"); !errors.Is(err, ErrInvalidOptionType) {
		t.Errorf("ParseOptionType: want ErrInvalidOptionType, got %v", err)
	}
}

func TestNonFiniteRatePropagates(t *testing.T) {
	v, err := Price(Call, 100, 100, math.NaN(), 0, 0.2, 1, 0)
	if err != nil {
		t.Fatalf("rate is not pre-validated, got %v", err)
	}
	if !math.IsNaN(v) {
		t.Errorf("want NaN, got %v", v)
	}
}

type countingNormal struct {
	Normal
	calls int
}

func (c *countingNormal) CDF(x float64) float64 {
	c.calls++
	return c.Normal.CDF(x)
}

func TestWithNormal(t *testing.T) {
	cn := &countingNormal{Normal: UnitNormal{}}
	m := New(WithNormal(cn))
	if _, err := m.Price(Call, atm); err != nil {
		t.Fatal(err)
	}
	if cn.calls != 2 {
		t.Errorf("want 2 CDF evaluations, got %d", cn.calls)
	}

	poly := New(WithNormal(PolyNormal{}))
	rnd := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		p := randomParams(rnd)
		for _, typ := range []OptionType{Call, Put} {
			a, err := std.NewBSM(typ, p)
			if err != nil {
				t.Fatal(err)
			}
			b, err := poly.NewBSM(typ, p)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(a.Price-b.Price) > 1e-4 || math.Abs(a.Delta-b.Delta) > 1e-6 {
				t.Errorf("backends disagree for %v %+v: %v/%v vs %v/%v", typ, p, a.Price, a.Delta, b.Price, b.Delta)
			}
		}
	}
}

func TestPolyNormal(t *testing.T) {
	for x := -6.0; x <= 6; x += 0.25 {
		if d := math.Abs(PolyNormal{}.CDF(x) - UnitNormal{}.CDF(x)); d > 1e-7 {
			t.Errorf("CDF(%v) off by %v", x, d)
		}
		if d := math.Abs(PolyNormal{}.Prob(x) - UnitNormal{}.Prob(x)); d > 1e-12 {
			t.Errorf("Prob(%v) off by %v", x, d)
		}
	}
}

func TestDefaultBackend(t *testing.T) {
	if _, ok := New().n.(UnitNormal); !ok {
		t.Errorf("New: default backend is %T", New().n)
	}
	if _, ok := std.n.(UnitNormal); !ok {
		t.Errorf("package functions use %T", std.n)
	}
	if _, ok := New(WithNormal(nil)).n.(UnitNormal); !ok {
		t.Error("WithNormal(nil) should keep the default backend")
	}
}
