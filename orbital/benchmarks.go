// =======================
// orbital/benchmarks.go
// =======================

package orbital

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"
)

// BenchmarkInfo holds performance metrics for one orbital.
type BenchmarkInfo struct {
	Label      string        `json:"label"`
	Resolution int           `json:"resolution"`
	Samples    int           `json:"samples"`
	BuildTime  time.Duration `json:"build_time"`
	SampleTime time.Duration `json:"sample_time"`
	Throughput float64       `json:"samples_per_second"`
}

// BenchmarkSampler times distribution builds and sampling for each state.
func BenchmarkSampler(states []State, scale float64, resolution, samples int) ([]BenchmarkInfo, error) {
	if samples < 1 {
		return nil, fmt.Errorf("samples must be positive, got %d", samples)
	}
	results := make([]BenchmarkInfo, 0, len(states))
	rng := rand.New(rand.NewPCG(1, 2))

	for _, st := range states {
		start := time.Now()
		s, err := NewSampler(st.N, st.L, st.M, scale, resolution)
		if err != nil {
			return nil, fmt.Errorf("failed to build sampler for %s: %w", st, err)
		}
		buildTime := time.Since(start)

		start = time.Now()
		for i := 0; i < samples; i++ {
			if _, err := s.Sample(rng); err != nil {
				return nil, fmt.Errorf("sampling %s failed at iteration %d: %w", st, i, err)
			}
		}
		sampleTime := time.Since(start)

		throughput := 0.0
		if secs := sampleTime.Seconds(); secs > 0 {
			throughput = float64(samples) / secs
		}

		results = append(results, BenchmarkInfo{
			Label:      st.String(),
			Resolution: resolution,
			Samples:    samples,
			BuildTime:  buildTime,
			SampleTime: sampleTime / time.Duration(samples),
			Throughput: throughput,
		})
	}

	return results, nil
}

// PrintBenchmarkResults displays benchmark results in a formatted table
func PrintBenchmarkResults(w io.Writer, results []BenchmarkInfo) {
	fmt.Fprintln(w, "Orbital Sampler Benchmark Results")
	fmt.Fprintln(w, "=================================")
	fmt.Fprintf(w, "%-10s | %-10s | %-12s | %-12s | %-15s\n",
		"Orbital", "Resolution", "Build", "Time/Sample", "Samples/s")
	fmt.Fprintln(w, "-----------|------------|--------------|--------------|----------------")

	for _, r := range results {
		fmt.Fprintf(w, "%-10s | %-10d | %-12s | %-12s | %-15.0f\n",
			r.Label,
			r.Resolution,
			r.BuildTime.String(),
			r.SampleTime.String(),
			r.Throughput)
	}
}
