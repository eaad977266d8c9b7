// Command volsurface renders a tenor x strike volatility CSV as 3D plots.
//
//	volsurface [flags] <csv_file>
//
// Static mode writes one PNG per default view plus <base>_main.png.
// Interactive mode writes <base>_interactive.html.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charlerive/bms/volsurface"
	"github.com/spf13/viper"
	"gonum.org/v1/plot/vg"
)

const (
	ModeStatic      = "static"
	ModeInteractive = "interactive"
	ModeAll         = "all"
)

type config struct {
	OutputDir string  `mapstructure:"output-dir"`
	DPI       int     `mapstructure:"dpi"`
	Width     float64 `mapstructure:"width"`
	Height    float64 `mapstructure:"height"`
	Mode      string  `mapstructure:"mode"`
	Synthetic bool    `mapstructure:"synthetic"`
	Verbose   bool    `mapstructure:"v"`
}

// loadConfig layers defaults, an optional config file, VOLSURFACE_* env
// vars and explicitly set flags, in increasing priority.
func loadConfig(args []string) (*config, []string, error) {
	fs := flag.NewFlagSet("volsurface", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to an optional config file")
	fs.String("output-dir", "surface_plots", "directory to save the plots")
	fs.Int("dpi", 300, "DPI for output images")
	fs.Float64("width", 16, "figure width in inches")
	fs.Float64("height", 12, "figure height in inches")
	fs.String("mode", ModeAll, "static, interactive or all")
	fs.Bool("synthetic", false, "render an SVI demo surface instead of reading a CSV")
	fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("volsurface")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	fs.VisitAll(func(f *flag.Flag) {
		if f.Name != "config" {
			v.SetDefault(f.Name, f.DefValue)
		}
	})
	if *configPath != "" {
		v.SetConfigFile(*configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("read config failed: %w", err)
		}
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name != "config" {
			v.Set(f.Name, f.Value.String())
		}
	})

	cfg := &config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, fmt.Errorf("decode config failed: %w", err)
	}
	switch cfg.Mode {
	case ModeStatic, ModeInteractive, ModeAll:
	default:
		return nil, nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
	if cfg.DPI <= 0 || cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, nil, errors.New("dpi, width and height must be positive")
	}
	return cfg, fs.Args(), nil
}

func main() {
	cfg, args, err := loadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(cfg, args); err != nil {
		slog.Error("volsurface failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config, args []string) error {
	load := func(policy volsurface.ATMPolicy) (*volsurface.Surface, error) {
		if cfg.Synthetic {
			return syntheticSurface()
		}
		if len(args) != 1 {
			return nil, errors.New("usage: volsurface [flags] <csv_file>")
		}
		return volsurface.LoadFile(args[0], policy)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}

	if cfg.Mode == ModeStatic || cfg.Mode == ModeAll {
		s, err := load(volsurface.ATMAsZero)
		if err != nil {
			return err
		}
		if err := renderStatic(cfg, s); err != nil {
			return err
		}
		slog.Info("plots have been saved", "dir", cfg.OutputDir)
	}
	if cfg.Mode == ModeInteractive || cfg.Mode == ModeAll {
		s, err := load(volsurface.ATMDrop)
		if err != nil {
			return err
		}
		path := filepath.Join(cfg.OutputDir, s.Name+"_interactive.html")
		err = writeFile(path, func(w io.Writer) error {
			return volsurface.RenderHTML(w, s, volsurface.DefaultHTMLOptions(s.Name))
		})
		if err != nil {
			return err
		}
		slog.Info("interactive plot has been saved", "file", path)
	}
	return nil
}

func renderStatic(cfg *config, s *volsurface.Surface) error {
	o := volsurface.DefaultPNGOptions()
	o.DPI = cfg.DPI
	o.Width = vg.Length(cfg.Width) * vg.Inch
	o.Height = vg.Length(cfg.Height) * vg.Inch

	for _, view := range volsurface.DefaultViews {
		vo := o
		vo.Title = fmt.Sprintf("Volatility Surface (elev=%g°, azim=%g°)", view.Elev, view.Azim)
		path := filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_elev%g_azim%g.png", s.Name, view.Elev, view.Azim))
		if err := writeFile(path, func(w io.Writer) error { return volsurface.RenderPNG(w, s, view, vo) }); err != nil {
			return err
		}
		slog.Debug("wrote view", "file", path)
	}
	path := filepath.Join(cfg.OutputDir, s.Name+"_main.png")
	return writeFile(path, func(w io.Writer) error { return volsurface.RenderPNG(w, s, volsurface.MainView, o) })
}

func syntheticSurface() (*volsurface.Surface, error) {
	p := volsurface.SVI{A: 0.02, B: 0.1, C: 0.1, Rho: -0.4, Eta: 0}
	return volsurface.Synthetic("svi_demo", p, 100,
		volsurface.Linspace(60, 140, 17),
		volsurface.Linspace(0.25, 5, 20))
}

func writeFile(path string, render func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return render(f)
}
