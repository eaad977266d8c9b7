package volsurface

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// View is a camera position in degrees, elevation above the strike/tenor
// plane and azimuth around the volatility axis.
type View struct {
	Elev float64
	Azim float64
}

var (
	MainView     = View{Elev: 30, Azim: 45}
	DefaultViews = []View{{0, 0}, {90, 0}, {45, 180}, {60, 270}}
)

// ColorBarFraction is the share of the image width given to the colour bar.
const ColorBarFraction = 1.0 / 6

type PNGOptions struct {
	Title  string
	DPI    int
	Width  vg.Length
	Height vg.Length
}

func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Title:  "Interest Rate Volatility Surface",
		DPI:    300,
		Width:  16 * vg.Inch,
		Height: 12 * vg.Inch,
	}
}

type vec3 struct{ x, y, z float64 }

type camera struct {
	right, up, eye vec3
}

func newCamera(v View) camera {
	el, az := v.Elev*math.Pi/180, v.Azim*math.Pi/180
	return camera{
		right: vec3{-math.Sin(az), math.Cos(az), 0},
		up:    vec3{-math.Sin(el) * math.Cos(az), -math.Sin(el) * math.Sin(az), math.Cos(el)},
		eye:   vec3{math.Cos(el) * math.Cos(az), math.Cos(el) * math.Sin(az), math.Sin(el)},
	}
}

func dot(a, b vec3) float64 { return a.x*b.x + a.y*b.y + a.z*b.z }

// project returns screen coordinates and depth; larger depth is closer to the eye.
func (c camera) project(p vec3) (plotter.XY, float64) {
	return plotter.XY{X: dot(p, c.right), Y: dot(p, c.up)}, dot(p, c.eye)
}

type cell struct {
	xys   plotter.XYs
	depth float64
	vol   float64
}

// normalizer maps a range onto [-0.5, 0.5].
func normalizer(lo, hi float64) func(float64) float64 {
	if hi == lo {
		return func(float64) float64 { return 0 }
	}
	return func(v float64) float64 { return (v-lo)/(hi-lo) - 0.5 }
}

func minMax(vs []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vs {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	return lo, hi
}

// RenderPNG draws the surface as shaded quadrilaterals seen from view.
func RenderPNG(w io.Writer, s *Surface, view View, o PNGOptions) error {
	rows, cols := s.Vols.Dims()
	if rows < 2 || cols < 2 {
		return fmt.Errorf("%w: a %dx%d grid cannot be drawn as a surface", ErrMalformedSurface, rows, cols)
	}

	lo, hi := s.Bounds()
	cm := moreland.SmoothBlueRed()
	cm.SetMin(lo)
	cm.SetMax(hi)
	if hi == lo {
		cm.SetMax(lo + 1)
	}

	nx, ny, nz := normalizer(minMax(s.Strikes)), normalizer(minMax(s.Tenors)), normalizer(lo, hi)
	cam := newCamera(view)
	point := func(i, j int) (plotter.XY, float64) {
		return cam.project(vec3{nx(s.Strikes[j]), ny(s.Tenors[i]), nz(s.Vols.At(i, j))})
	}

	cells := make([]cell, 0, (rows-1)*(cols-1))
	for i := 0; i+1 < rows; i++ {
		for j := 0; j+1 < cols; j++ {
			c := cell{xys: make(plotter.XYs, 0, 4)}
			for _, ij := range [4][2]int{{i, j}, {i, j + 1}, {i + 1, j + 1}, {i + 1, j}} {
				xy, depth := point(ij[0], ij[1])
				c.xys = append(c.xys, xy)
				c.depth += depth / 4
				c.vol += s.Vols.At(ij[0], ij[1]) / 4
			}
			cells = append(cells, c)
		}
	}
	// far cells first so near ones paint over them
	sort.Slice(cells, func(a, b int) bool { return cells[a].depth < cells[b].depth })

	p := plot.New()
	p.Title.Text = o.Title
	p.HideAxes()
	p.X.Min, p.X.Max = -1, 1
	p.Y.Min, p.Y.Max = -1, 1

	for _, c := range cells {
		poly, err := plotter.NewPolygon(c.xys)
		if err != nil {
			return err
		}
		fill, err := cm.At(math.Max(lo, math.Min(c.vol, cm.Max())))
		if err != nil {
			return err
		}
		poly.Color = fill
		poly.LineStyle.Width = vg.Points(0.5)
		poly.LineStyle.Color = color.Gray{Y: 64}
		p.Add(poly)
	}

	labels, err := axisLabels(cam)
	if err != nil {
		return err
	}
	p.Add(labels)

	bar := plot.New()
	bar.HideX()
	bar.Y.Label.Text = "Volatility Level"
	bar.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})

	canvas := vgimg.NewWith(vgimg.UseWH(o.Width, o.Height), vgimg.UseDPI(o.DPI))
	dc := draw.New(canvas)
	barWidth := o.Width * ColorBarFraction
	p.Draw(draw.Crop(dc, 0, -barWidth, 0, 0))
	// half height, vertically centred
	bar.Draw(draw.Crop(dc, o.Width-barWidth, 0, o.Height/4, -o.Height/4))
	_, err = vgimg.PngCanvas{Canvas: canvas}.WriteTo(w)
	return err
}

func axisLabels(cam camera) (*plotter.Labels, error) {
	ends := []vec3{{0.65, -0.5, -0.5}, {-0.5, 0.65, -0.5}, {-0.5, -0.5, 0.65}}
	xys := make(plotter.XYs, len(ends))
	for i, e := range ends {
		xys[i], _ = cam.project(e)
	}
	return plotter.NewLabels(plotter.XYLabels{
		XYs:    xys,
		Labels: []string{"Strike (%)", "Tenor (Years)", "Volatility"},
	})
}
