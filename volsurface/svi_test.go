package volsurface

import (
	"math"
	"testing"
)

var demoSVI = SVI{A: 0.02, B: 0.1, C: 0.1, Rho: -0.4, Eta: 0}

func TestSVI_ImVol(t *testing.T) {
	// at the money with Eta=0: w = a + b*c
	got := demoSVI.ImVol(100, 100, 1)
	want := math.Sqrt(0.02 + 0.1*0.1)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("got %v, want %v", got, want)
	}
	// negative rho skews the smile towards low strikes
	if demoSVI.ImVol(80, 100, 1) <= demoSVI.ImVol(120, 100, 1) {
		t.Error("expected put skew")
	}
}

func TestSynthetic(t *testing.T) {
	strikes := Linspace(60, 140, 17)
	tenors := Linspace(0.25, 5, 20)
	s, err := Synthetic("demo", demoSVI, 100, strikes, tenors)
	if err != nil {
		t.Fatal(err)
	}
	if r, c := s.Vols.Dims(); r != 20 || c != 17 {
		t.Fatalf("dims %dx%d", r, c)
	}
	if s.Strikes[0] != 60 || s.Strikes[16] != 140 || s.Tenors[19] != 5 {
		t.Errorf("grid %v %v", s.Strikes, s.Tenors)
	}
	if got, want := s.Vols.At(3, 8), demoSVI.ImVol(100, 100, tenors[3]); got != want {
		t.Errorf("cell: got %v, want %v", got, want)
	}

	if _, err := Synthetic("bad", demoSVI, 100, []float64{0, 1}, tenors); err == nil {
		t.Error("zero strike should fail")
	}
	if _, err := Synthetic("bad", demoSVI, 100, strikes, []float64{-1}); err == nil {
		t.Error("negative tenor should fail")
	}
	if _, err := Synthetic("bad", demoSVI, 0, strikes, tenors); err == nil {
		t.Error("zero forward should fail")
	}
}

func TestLinspace(t *testing.T) {
	if got := Linspace(0, 1, 5); !equal(got, []float64{0, 0.25, 0.5, 0.75, 1}) {
		t.Errorf("got %v", got)
	}
	if got := Linspace(3, 9, 1); !equal(got, []float64{3}) {
		t.Errorf("got %v", got)
	}
	if got := Linspace(3, 9, 0); got != nil {
		t.Errorf("got %v", got)
	}
}

func BenchmarkSVI_ImVol(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		demoSVI.ImVol(3500, 5066.5, 0.00194)
	}
}
