package main

import (
	"log/slog"
	"os"

	"github.com/charlerive/bms/blackscholes"
	"github.com/shopspring/decimal"
)

func round(v float64) string {
	return decimal.NewFromFloat(v).Round(4).String()
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	p := blackscholes.Params{S: 100, K: 100, R: 0.05, Q: 0, Sigma: 0.2, T: 1}
	for _, typ := range []blackscholes.OptionType{blackscholes.Call, blackscholes.Put} {
		bsm, err := blackscholes.NewBSM(typ, p)
		if err != nil {
			slog.Error("price option failed", "direction", typ, "err", err)
			os.Exit(1)
		}
		slog.Info("option priced",
			"direction", typ,
			"d1", round(bsm.D1),
			"d2", round(bsm.D2),
			"price", round(bsm.Price),
			"delta", round(bsm.Delta),
			"gamma", round(bsm.Gamma),
			"vega", round(bsm.Vega),
			"theta", round(bsm.Theta),
			"rho", round(bsm.Rho),
		)

		// one point up in spot, one vol point up, one day passes
		pnl := bsm.PnLExplain(1, 0.01, 1.0/365)
		slog.Info("pnl explain",
			"direction", typ,
			"delta", round(pnl.Delta),
			"gamma", round(pnl.Gamma),
			"vega", round(pnl.Vega),
			"theta", round(pnl.Theta),
			"total", round(pnl.Total),
		)
	}
}
