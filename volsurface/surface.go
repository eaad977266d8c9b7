// Package volsurface loads tenor x strike volatility grids and renders them
// as static PNG or interactive HTML surfaces.
package volsurface

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/mat"
)

const (
	CornerLabel = "Tenor/Strike"
	ATMLabel    = "ATM"
)

var ErrMalformedSurface = errors.New("volsurface: malformed surface")

// ATMPolicy decides what happens to the ATM column.
type ATMPolicy uint8

const (
	// ATMDrop removes the ATM column from the grid.
	ATMDrop ATMPolicy = iota
	// ATMAsZero keeps the ATM column in place with strike 0.
	ATMAsZero
)

// Surface is a volatility grid. Vols has one row per tenor and one column per strike.
type Surface struct {
	Name    string
	Strikes []float64
	Tenors  []float64
	Vols    *mat.Dense
}

func LoadFile(path string, policy ATMPolicy) (*Surface, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := Load(f, policy)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return s, nil
}

func Load(r io.Reader, policy ATMPolicy) (*Surface, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSurface, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: need a header and at least one tenor row", ErrMalformedSurface)
	}

	header := records[0]
	if len(header) < 2 || strings.TrimSpace(header[0]) != CornerLabel {
		return nil, fmt.Errorf("%w: header must start with %q", ErrMalformedSurface, CornerLabel)
	}

	var (
		strikes []float64
		columns []int
	)
	for j, label := range header[1:] {
		label = strings.TrimSpace(label)
		if strings.EqualFold(label, ATMLabel) {
			if policy == ATMDrop {
				slog.Debug("dropping ATM column", "column", j+1)
				continue
			}
			strikes = append(strikes, 0)
			columns = append(columns, j+1)
			continue
		}
		k, err := parseStrike(label)
		if err != nil {
			return nil, fmt.Errorf("%w: column %d: %v", ErrMalformedSurface, j+1, err)
		}
		strikes = append(strikes, k)
		columns = append(columns, j+1)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no strike columns", ErrMalformedSurface)
	}

	rows := records[1:]
	tenors := make([]float64, len(rows))
	vols := mat.NewDense(len(rows), len(columns), nil)
	for i, rec := range rows {
		line := i + 2
		if len(rec) != len(header) {
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d", ErrMalformedSurface, line, len(rec), len(header))
		}
		if tenors[i], err = ParseTenor(rec[0]); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedSurface, line, err)
		}
		for j, col := range columns {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %d: %v", ErrMalformedSurface, line, col, err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: line %d column %d: non-finite volatility %q", ErrMalformedSurface, line, col, rec[col])
			}
			vols.Set(i, j, v)
		}
	}
	return &Surface{Strikes: strikes, Tenors: tenors, Vols: vols}, nil
}

// parseStrike reads labels such as "1.25%" or "3".
func parseStrike(label string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSuffix(label, "%"))
	if err != nil {
		return 0, fmt.Errorf("strike %q: %v", label, err)
	}
	return d.InexactFloat64(), nil
}

// ParseTenor converts "10Y", "6M" or a bare number of years to years.
func ParseTenor(label string) (float64, error) {
	s := strings.ToUpper(strings.TrimSpace(label))
	scale := decimal.NewFromInt(1)
	switch {
	case strings.HasSuffix(s, "Y"):
		s = strings.TrimSuffix(s, "Y")
	case strings.HasSuffix(s, "M"):
		s = strings.TrimSuffix(s, "M")
		scale = decimal.NewFromInt(12)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("tenor %q: %v", label, err)
	}
	return d.DivRound(scale, 16).InexactFloat64(), nil
}

// Meshgrid returns the strike and tenor coordinates of every cell of Vols.
func (s *Surface) Meshgrid() (x, y *mat.Dense) {
	r, c := s.Vols.Dims()
	x = mat.NewDense(r, c, nil)
	y = mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		x.SetRow(i, s.Strikes)
		for j := 0; j < c; j++ {
			y.Set(i, j, s.Tenors[i])
		}
	}
	return x, y
}

// Bounds returns the smallest and largest volatility.
func (s *Surface) Bounds() (lo, hi float64) {
	return mat.Min(s.Vols), mat.Max(s.Vols)
}
