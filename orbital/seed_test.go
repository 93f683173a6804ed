package orbital

import (
	"bytes"
	"strings"
	"testing"
)

func TestDeriveSeed(t *testing.T) {
	a := DeriveSeed(State{2, 1, 0}, 5, 100)
	if a != DeriveSeed(State{2, 1, 0}, 5, 100) {
		t.Fatal("seed not deterministic")
	}
	others := []uint64{
		DeriveSeed(State{2, 1, 1}, 5, 100),
		DeriveSeed(State{2, 1, 0}, 5.5, 100),
		DeriveSeed(State{2, 1, 0}, 5, 101),
	}
	for i, o := range others {
		if o == a {
			t.Errorf("variant %d collides with base seed", i)
		}
	}
}

func TestRandomSeed(t *testing.T) {
	a, err := RandomSeed()
	if err != nil {
		t.Fatal(err)
	}
	b, err := RandomSeed()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Errorf("two random seeds equal: %d", a)
	}
}

func TestBenchmarkSampler(t *testing.T) {
	results, err := BenchmarkSampler([]State{{1, 0, 0}, {3, 2, 1}}, 1, 200, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[1].Label != "3d m=1" || results[0].Samples != 50 {
		t.Fatalf("results %+v", results)
	}
	var buf bytes.Buffer
	PrintBenchmarkResults(&buf, results)
	if !strings.Contains(buf.String(), "3d m=1") {
		t.Errorf("table missing row:\n%s", buf.String())
	}
	if _, err := BenchmarkSampler([]State{{1, 1, 0}}, 1, 200, 10); err == nil {
		t.Error("invalid state accepted")
	}
	if _, err := BenchmarkSampler(nil, 1, 200, 0); err == nil {
		t.Error("zero samples accepted")
	}
}
