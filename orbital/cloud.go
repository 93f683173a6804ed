package orbital

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const generateChunk = 1024

// Generate draws count particles from s using workers goroutines. Worker w
// owns a PCG source seeded with (seed, w) and fills a fixed slice range, so
// the output is reproducible for a given seed and worker count.
func Generate(ctx context.Context, s *Sampler, count, workers int, seed uint64) ([]Particle, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil sampler", ErrDegenerateDistribution)
	}
	if count < 0 {
		return nil, fmt.Errorf("negative particle count %d", count)
	}
	if workers < 1 {
		workers = 1
	}
	if workers > count && count > 0 {
		workers = count
	}

	out := make([]Particle, count)
	per := (count + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * per
		end := min(start+per, count)
		if start >= end {
			break
		}
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(seed, uint64(w)))
			for i := start; i < end; i++ {
				if (i-start)%generateChunk == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				p, err := s.Sample(rng)
				if err != nil {
					return fmt.Errorf("particle %d: %w", i, err)
				}
				out[i] = p
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats summarises a cloud.
type Stats struct {
	Count        int       `json:"count"`
	MeanRadius   float64   `json:"mean_radius"`
	StdDevRadius float64   `json:"stddev_radius"`
	MaxRadius    float64   `json:"max_radius"`
	MeanDensity  float64   `json:"mean_density"`
	Octants      [8]int    `json:"octants"`
	Centroid     Point3D   `json:"centroid"`
	Radii        []float64 `json:"-"`
}

func octantOf(p Point3D) int {
	o := 0
	if p.X < 0 {
		o |= int(FlipX)
	}
	if p.Y < 0 {
		o |= int(FlipY)
	}
	if p.Z < 0 {
		o |= int(FlipZ)
	}
	return o
}

// Summarize computes radius, density and octant statistics for a cloud.
func Summarize(ps []Particle) Stats {
	st := Stats{Count: len(ps)}
	if len(ps) == 0 {
		return st
	}
	radii := make([]float64, len(ps))
	dens := make([]float64, len(ps))
	xs := make([]float64, len(ps))
	ys := make([]float64, len(ps))
	zs := make([]float64, len(ps))
	for i, p := range ps {
		radii[i] = p.Spherical.R
		dens[i] = p.Density
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
		st.Octants[octantOf(p.Point3D)]++
	}
	st.MeanRadius = stat.Mean(radii, nil)
	if len(ps) > 1 {
		st.StdDevRadius = stat.StdDev(radii, nil)
	}
	st.MaxRadius = floats.Max(radii)
	st.MeanDensity = stat.Mean(dens, nil)
	st.Centroid = Point3D{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil), Z: stat.Mean(zs, nil)}
	st.Radii = radii
	return st
}

// RadialHistogram counts particle radii into bins equal-width bins over
// [0, limit]. Radii beyond limit land in the last bin.
func RadialHistogram(ps []Particle, bins int, limit float64) []float64 {
	if bins < 1 {
		return nil
	}
	h := make([]float64, bins)
	if !(limit > 0) {
		return h
	}
	for _, p := range ps {
		b := int(p.Spherical.R / limit * float64(bins))
		if b >= bins {
			b = bins - 1
		}
		if b < 0 || math.IsNaN(p.Spherical.R) {
			continue
		}
		h[b]++
	}
	return h
}
