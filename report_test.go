package main

import (
	"context"
	"strings"
	"testing"

	"orbcloud/orbital"
)

func TestExpectedHistogram(t *testing.T) {
	wf, err := orbital.NewWavefunction(1, 0, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	limit := radialLimitFactor * wf.ExpectedRadius()
	h := expectedHistogram(wf, 1000, 200, limit)
	if len(h) != 200 {
		t.Fatalf("%d bins", len(h))
	}
	sum := 0.0
	for _, v := range h {
		if v < 0 {
			t.Fatalf("negative bin %g", v)
		}
		sum += v
	}
	// P(r < 4.5 a0) for 1s is 1 - 50.5 e^-9.
	if sum < 990 || sum > 997 {
		t.Errorf("expected counts sum to %g", sum)
	}
	if expectedHistogram(wf, 10, 0, limit) != nil {
		t.Error("zero bins")
	}
}

func TestRenderReport(t *testing.T) {
	s, err := orbital.NewSampler(2, 1, 0, 1, 400)
	if err != nil {
		t.Fatal(err)
	}
	ps, err := orbital.Generate(context.Background(), s, 2000, 2, 11)
	if err != nil {
		t.Fatal(err)
	}
	out := renderReport(s, ps, 11, 30)
	for _, want := range []string{"2p orbital cloud", "Mean radius", "Octants", "radial distribution"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	empty := renderReport(s, nil, 11, 30)
	if strings.Contains(empty, "radial distribution") {
		t.Error("chart drawn for empty cloud")
	}
}
