package orbital

import (
	"context"
	"errors"
	"math"
	"testing"
)

func newTestSampler(t *testing.T) *Sampler {
	t.Helper()
	s, err := NewSampler(2, 1, 1, 1.0, 300)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestGenerateDeterministic(t *testing.T) {
	s := newTestSampler(t)
	a, err := Generate(context.Background(), s, 5000, 4, 99)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(context.Background(), s, 5000, 4, 99)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 5000 || len(b) != 5000 {
		t.Fatalf("lengths %d %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("particle %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}

	c, err := Generate(context.Background(), s, 5000, 4, 100)
	if err != nil {
		t.Fatal(err)
	}
	same := 0
	for i := range a {
		if a[i] == c[i] {
			same++
		}
	}
	if same > 10 {
		t.Errorf("%d particles identical across different seeds", same)
	}
}

func TestGenerateEdgeCases(t *testing.T) {
	s := newTestSampler(t)
	ps, err := Generate(context.Background(), s, 0, 8, 1)
	if err != nil || len(ps) != 0 {
		t.Errorf("count 0: %d, %v", len(ps), err)
	}
	ps, err = Generate(context.Background(), s, 3, 0, 1)
	if err != nil || len(ps) != 3 {
		t.Errorf("workers 0: %d, %v", len(ps), err)
	}
	ps, err = Generate(context.Background(), s, 7, 16, 1)
	if err != nil || len(ps) != 7 {
		t.Errorf("more workers than particles: %d, %v", len(ps), err)
	}
	for i, p := range ps {
		if p.Density == 0 && p.Spherical.R == 0 {
			t.Errorf("particle %d left unfilled", i)
		}
	}
	if _, err := Generate(context.Background(), s, -1, 1, 1); err == nil {
		t.Error("negative count accepted")
	}
	if _, err := Generate(context.Background(), nil, 10, 1, 1); !errors.Is(err, ErrDegenerateDistribution) {
		t.Errorf("nil sampler: %v", err)
	}
}

func TestGenerateCancelled(t *testing.T) {
	s := newTestSampler(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Generate(ctx, s, 10000, 2, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSummarize(t *testing.T) {
	ps := []Particle{
		{Point3D: Point3D{X: 1, Y: 1, Z: 1}, Spherical: Spherical{R: 1}, Density: 2},
		{Point3D: Point3D{X: -1, Y: 1, Z: 1}, Spherical: Spherical{R: 3}, Density: 4},
		{Point3D: Point3D{X: -1, Y: -1, Z: -1}, Spherical: Spherical{R: 5}, Density: 6},
	}
	st := Summarize(ps)
	if st.Count != 3 || st.MeanRadius != 3 || st.MaxRadius != 5 || st.MeanDensity != 4 {
		t.Errorf("stats %+v", st)
	}
	if !near(st.StdDevRadius, 2, 1e-12) {
		t.Errorf("stddev %g, want 2", st.StdDevRadius)
	}
	if st.Octants[0] != 1 || st.Octants[int(FlipX)] != 1 || st.Octants[int(FlipX|FlipY|FlipZ)] != 1 {
		t.Errorf("octants %v", st.Octants)
	}
	if !near(st.Centroid.X, -1.0/3, 1e-12) || !near(st.Centroid.Z, 1.0/3, 1e-12) {
		t.Errorf("centroid %+v", st.Centroid)
	}
	if empty := Summarize(nil); empty.Count != 0 || empty.MeanRadius != 0 {
		t.Errorf("empty stats %+v", empty)
	}
}

func TestSummarizeMatchesAnalytic(t *testing.T) {
	s, err := NewSampler(1, 0, 0, 2.0, 3001)
	if err != nil {
		t.Fatal(err)
	}
	ps, err := Generate(context.Background(), s, 20000, 4, 5)
	if err != nil {
		t.Fatal(err)
	}
	st := Summarize(ps)
	a0 := s.Wavefunction().A0()
	if math.Abs(st.MeanRadius-1.5*a0)/(1.5*a0) > 0.03 {
		t.Errorf("mean radius %g, want %g", st.MeanRadius, 1.5*a0)
	}
	// σ_r = sqrt(3/4)·a0 for 1s
	if math.Abs(st.StdDevRadius-math.Sqrt(0.75)*a0)/(math.Sqrt(0.75)*a0) > 0.05 {
		t.Errorf("stddev radius %g, want %g", st.StdDevRadius, math.Sqrt(0.75)*a0)
	}
	if st.Centroid.Length() > 0.1*a0 {
		t.Errorf("centroid %+v far from the nucleus", st.Centroid)
	}
}

func TestRadialHistogram(t *testing.T) {
	ps := []Particle{
		{Spherical: Spherical{R: 0.5}},
		{Spherical: Spherical{R: 1.5}},
		{Spherical: Spherical{R: 1.7}},
		{Spherical: Spherical{R: 99}},
	}
	h := RadialHistogram(ps, 4, 4)
	want := []float64{1, 2, 0, 1}
	for i := range want {
		if h[i] != want[i] {
			t.Fatalf("histogram %v, want %v", h, want)
		}
	}
	if RadialHistogram(ps, 0, 4) != nil {
		t.Error("zero bins should return nil")
	}
}
