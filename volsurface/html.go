package volsurface

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

var viridis = []string{"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"}

type HTMLOptions struct {
	Title  string
	Width  int // pixels
	Height int // pixels
}

func DefaultHTMLOptions(name string) HTMLOptions {
	return HTMLOptions{
		Title:  fmt.Sprintf("Interactive Volatility Surface %s", name),
		Width:  1000,
		Height: 800,
	}
}

// RenderHTML writes a self-contained interactive 3D surface page.
func RenderHTML(w io.Writer, s *Surface, o HTMLOptions) error {
	rows, cols := s.Vols.Dims()
	if rows == 0 || cols == 0 {
		return fmt.Errorf("%w: empty grid", ErrMalformedSurface)
	}
	lo, hi := s.Bounds()

	chart := charts.NewSurface3D()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: o.Title,
			Width:     fmt.Sprintf("%dpx", o.Width),
			Height:    fmt.Sprintf("%dpx", o.Height),
		}),
		charts.WithTitleOpts(opts.Title{Title: o.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: true,
			Min:        float32(lo),
			Max:        float32(hi),
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "Strike (%)"}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "Tenor (Years)"}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "Volatility (%)"}),
	)

	data := make([]opts.Chart3DData, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			data = append(data, opts.Chart3DData{
				Value: []interface{}{s.Strikes[j], s.Tenors[i], s.Vols.At(i, j)},
			})
		}
	}
	chart.AddSeries("volatility", data)
	// AddSeries tags 3D series as scatter3D
	for i := range chart.MultiSeries {
		chart.MultiSeries[i].Type = types.ChartSurface3D
	}
	return chart.Render(w)
}
