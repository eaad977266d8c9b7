package blackscholes

import (
	"fmt"
	"math"
)

// Black–Scholes–Merton model with a continuous dividend (or foreign) yield.
// see wiki: https://en.wikipedia.org/wiki/Black%E2%80%93Scholes_model

// Params are the inputs of a single option.
type Params struct {
	S     float64 `json:"subject_price"`  // 标的价格
	K     float64 `json:"strike_price"`   // 行权价格
	R     float64 `json:"rate"`           // 无风险利率
	Q     float64 `json:"yield"`          // 股息率 / 外币利率
	Sigma float64 `json:"volatility"`     // 年化波动率
	T     float64 `json:"maturity"`       // 到期时间(年)
	Now   float64 `json:"valuation_time"` // 估值时间(年), usually 0
}

// Tau is the time to expiry T - Now.
func (p Params) Tau() float64 {
	return p.T - p.Now
}

// Validate rejects inputs for which d1 and d2 are undefined.
// The comparisons are written so that NaN fails them.
func (p Params) Validate() error {
	switch {
	case !(p.S > 0):
		return fmt.Errorf("%w: subject price %v must be positive", ErrInvalidInput, p.S)
	case !(p.K > 0):
		return fmt.Errorf("%w: strike %v must be positive", ErrInvalidInput, p.K)
	case !(p.Sigma > 0):
		return fmt.Errorf("%w: volatility %v must be positive", ErrInvalidInput, p.Sigma)
	case !(p.Tau() > 0):
		return fmt.Errorf("%w: time to expiry %v must be positive", ErrInvalidInput, p.Tau())
	}
	return nil
}

// D1 does not validate its arguments.
func D1(S, K, r, q, sigma, tau float64) float64 {
	return (math.Log(S/K) + (r-q+sigma*sigma/2)*tau) / (sigma * math.Sqrt(tau))
}

// D2 does not validate its arguments.
func D2(S, K, r, q, sigma, tau float64) float64 {
	return (math.Log(S/K) + (r-q-sigma*sigma/2)*tau) / (sigma * math.Sqrt(tau))
}

// Model evaluates the closed-form formulas against a Normal backend.
// A Model is immutable and safe for concurrent use.
type Model struct {
	n Normal
}

type Option func(*Model)

func WithNormal(n Normal) Option {
	return func(m *Model) {
		if n != nil {
			m.n = n
		}
	}
}

func New(opts ...Option) *Model {
	m := &Model{n: UnitNormal{}}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var std = New()

// terms caches the quantities every formula shares.
type terms struct {
	p        Params
	tau      float64
	sqrtTau  float64
	d1, d2   float64
	divDisc  float64 // e^(-q·tau)
	rateDisc float64 // e^(-r·tau)
}

func (m *Model) prepare(typ OptionType, p Params) (terms, error) {
	if err := typ.check(); err != nil {
		return terms{}, err
	}
	if err := p.Validate(); err != nil {
		return terms{}, err
	}
	tau := p.Tau()
	d1 := D1(p.S, p.K, p.R, p.Q, p.Sigma, tau)
	return terms{
		p:        p,
		tau:      tau,
		sqrtTau:  math.Sqrt(tau),
		d1:       d1,
		d2:       D2(p.S, p.K, p.R, p.Q, p.Sigma, tau),
		divDisc:  math.Exp(-p.Q * tau),
		rateDisc: math.Exp(-p.R * tau),
	}, nil
}

func (m *Model) price(typ OptionType, c terms) float64 {
	if typ == Call {
		return c.p.S*c.divDisc*m.n.CDF(c.d1) - c.p.K*c.rateDisc*m.n.CDF(c.d2)
	}
	return c.p.K*c.rateDisc*m.n.CDF(-c.d2) - c.p.S*c.divDisc*m.n.CDF(-c.d1)
}

func (m *Model) delta(typ OptionType, c terms) float64 {
	if typ == Call {
		return c.divDisc * m.n.CDF(c.d1)
	}
	return c.divDisc * (m.n.CDF(c.d1) - 1)
}

// gamma put = gamma call
func (m *Model) gamma(c terms) float64 {
	return c.divDisc * m.n.Prob(c.d1) / (c.p.S * c.p.Sigma * c.sqrtTau)
}

// vega put = vega call
func (m *Model) vega(c terms) float64 {
	return c.p.S * c.sqrtTau * c.divDisc * m.n.Prob(c.d1)
}

func (m *Model) theta(typ OptionType, c terms) float64 {
	decay := -c.p.S * c.divDisc * m.n.Prob(c.d1) * c.p.Sigma / (2 * c.sqrtTau)
	if typ == Call {
		return decay - c.p.R*c.p.K*c.rateDisc*m.n.CDF(c.d2) + c.p.Q*c.p.S*c.divDisc*m.n.CDF(c.d1)
	}
	return decay + c.p.R*c.p.K*c.rateDisc*m.n.CDF(-c.d2) - c.p.Q*c.p.S*c.divDisc*m.n.CDF(-c.d1)
}

func (m *Model) rho(typ OptionType, c terms) float64 {
	if typ == Call {
		return c.p.K * c.tau * c.rateDisc * m.n.CDF(c.d2)
	}
	return -c.p.K * c.tau * c.rateDisc * m.n.CDF(-c.d2)
}

func (m *Model) Price(typ OptionType, p Params) (float64, error) {
	c, err := m.prepare(typ, p)
	if err != nil {
		return 0, err
	}
	return m.price(typ, c), nil
}

func (m *Model) Delta(typ OptionType, p Params) (float64, error) {
	c, err := m.prepare(typ, p)
	if err != nil {
		return 0, err
	}
	return m.delta(typ, c), nil
}

func (m *Model) Gamma(typ OptionType, p Params) (float64, error) {
	c, err := m.prepare(typ, p)
	if err != nil {
		return 0, err
	}
	return m.gamma(c), nil
}

func (m *Model) Vega(typ OptionType, p Params) (float64, error) {
	c, err := m.prepare(typ, p)
	if err != nil {
		return 0, err
	}
	return m.vega(c), nil
}

// Theta is the derivative with respect to calendar time, per year.
func (m *Model) Theta(typ OptionType, p Params) (float64, error) {
	c, err := m.prepare(typ, p)
	if err != nil {
		return 0, err
	}
	return m.theta(typ, c), nil
}

func (m *Model) Rho(typ OptionType, p Params) (float64, error) {
	c, err := m.prepare(typ, p)
	if err != nil {
		return 0, err
	}
	return m.rho(typ, c), nil
}

func params(S, K, r, q, sigma, T, t float64) Params {
	return Params{S: S, K: K, R: r, Q: q, Sigma: sigma, T: T, Now: t}
}

// Price returns the option premium using the default backend.
func Price(typ OptionType, S, K, r, q, sigma, T, t float64) (float64, error) {
	return std.Price(typ, params(S, K, r, q, sigma, T, t))
}

func Delta(typ OptionType, S, K, r, q, sigma, T, t float64) (float64, error) {
	return std.Delta(typ, params(S, K, r, q, sigma, T, t))
}

func Gamma(typ OptionType, S, K, r, q, sigma, T, t float64) (float64, error) {
	return std.Gamma(typ, params(S, K, r, q, sigma, T, t))
}

func Vega(typ OptionType, S, K, r, q, sigma, T, t float64) (float64, error) {
	return std.Vega(typ, params(S, K, r, q, sigma, T, t))
}

func Theta(typ OptionType, S, K, r, q, sigma, T, t float64) (float64, error) {
	return std.Theta(typ, params(S, K, r, q, sigma, T, t))
}

func Rho(typ OptionType, S, K, r, q, sigma, T, t float64) (float64, error) {
	return std.Rho(typ, params(S, K, r, q, sigma, T, t))
}
