package blackscholes

// BSM is one option priced in a single pass, price and all greeks.
type BSM struct {
	D OptionType `json:"direction"` // 期权方向 看涨：call 看跌：put
	Params
	D1    float64 `json:"d1"`    // 中间值d1
	D2    float64 `json:"d2"`    // 中间值d2
	Nd1   float64 `json:"nd1"`   // 中间值φ(d1)
	Price float64 `json:"price"` // 期权理论价格
	Delta float64 `json:"delta"` // 希腊值delta, 期权价格对underlying价格的敏感度
	Gamma float64 `json:"gamma"` // 希腊值gamma, delta对underlying价格的敏感度
	Vega  float64 `json:"vega"`  // 希腊值vega, 期权价格对波动率的敏感度(每1.0波动率)
	Theta float64 `json:"theta"` // 希腊值theta, 期权价格对时间的敏感度(每年)
	Rho   float64 `json:"rho"`   // 希腊值rho, 期权价格对利率的敏感度
}

func NewBSM(direction OptionType, p Params) (*BSM, error) {
	return std.NewBSM(direction, p)
}

func (m *Model) NewBSM(direction OptionType, p Params) (*BSM, error) {
	c, err := m.prepare(direction, p)
	if err != nil {
		return nil, err
	}
	bsm := &BSM{
		D:      direction,
		Params: p,
		D1:     c.d1,
		D2:     c.d2,
		Nd1:    m.n.Prob(c.d1),
	}
	bsm.Price = m.price(direction, c)
	bsm.Delta = m.delta(direction, c)
	bsm.Gamma = m.gamma(c)
	bsm.Vega = m.vega(c)
	bsm.Theta = m.theta(direction, c)
	bsm.Rho = m.rho(direction, c)
	return bsm, nil
}

// PnL is a second order Taylor attribution of an option's P&L.
type PnL struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Total float64 `json:"total"`
}

// PnLExplain approximates the change in value for a move of dS in the
// underlying, dSigma in volatility and dt years of calendar time:
// Delta·dS + ½·Gamma·dS² + Vega·dSigma + Theta·dt.
func (bsm *BSM) PnLExplain(dS, dSigma, dt float64) PnL {
	pnl := PnL{
		Delta: bsm.Delta * dS,
		Gamma: 0.5 * bsm.Gamma * dS * dS,
		Vega:  bsm.Vega * dSigma,
		Theta: bsm.Theta * dt,
	}
	pnl.Total = pnl.Delta + pnl.Gamma + pnl.Vega + pnl.Theta
	return pnl
}
