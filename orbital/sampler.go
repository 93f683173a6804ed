// =======================
// orbital/sampler.go
// =======================

package orbital

import (
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// UniformSource yields values in [0, 1). *rand.Rand from math/rand/v2
// satisfies it.
type UniformSource interface {
	Float64() float64
}

type buildConfig struct {
	gridLimit float64
	log       *logrus.Entry
}

// Option customises BuildDistributions and NewSampler.
type Option func(*buildConfig)

// WithGridLimit sets the edge length of the sampled cube; radii are
// tabulated on [0, limit/2]. Panics on a non-positive limit.
func WithGridLimit(limit float64) Option {
	if !(limit > 0) || math.IsInf(limit, 0) {
		panic(fmt.Sprintf("orbital: WithGridLimit(%g)", limit))
	}
	return func(c *buildConfig) {
		c.gridLimit = limit
	}
}

// WithLogger routes build diagnostics to l.
func WithLogger(l *logrus.Entry) Option {
	return func(c *buildConfig) {
		if l != nil {
			c.log = l
		}
	}
}

func newBuildConfig(opts []Option) buildConfig {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	cfg := buildConfig{
		gridLimit: DefaultGridLimit,
		log:       logrus.NewEntry(discard),
	}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

func validateResolution(resolution int) error {
	if resolution < MinResolution || resolution > MaxResolution {
		return fmt.Errorf("%w: %d outside [%d, %d]", ErrInvalidResolution, resolution, MinResolution, MaxResolution)
	}
	return nil
}

// BuildDistributions builds the radial, polar and azimuthal CDFs for orbital
// (n, l, m) with a0 = scale·BohrRadius. Each axis grid has resolution points
// and only the half above its midpoint is tabulated; Sample restores the
// other half through octant randomisation.
func BuildDistributions(n, l, m int, scale float64, resolution int, opts ...Option) (*CDFTriple, error) {
	_, triple, err := build(n, l, m, scale, resolution, newBuildConfig(opts))
	return triple, err
}

func build(n, l, m int, scale float64, resolution int, cfg buildConfig) (*Wavefunction, *CDFTriple, error) {
	if err := validateResolution(resolution); err != nil {
		return nil, nil, err
	}
	if !(scale > 0) {
		return nil, nil, fmt.Errorf("%w: scale=%g must be positive", ErrInvalidQuantumState, scale)
	}

	wf, err := NewWavefunction(n, l, m, scale*BohrRadius)
	if err != nil {
		return nil, nil, err
	}

	axes := []axis{
		radialAxis(wf, cfg.gridLimit),
		polarAxis(wf),
		azimuthalAxis(wf),
	}
	cdfs := make([]*CDF, len(axes))

	var g errgroup.Group
	for i, ax := range axes {
		g.Go(func() error {
			c, err := ax.tabulate(resolution)
			if err != nil {
				return fmt.Errorf("%s: %w", ax.name, err)
			}
			cdfs[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	triple := NewCDFTriple(cdfs[0], cdfs[1], cdfs[2])
	if err := triple.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", wf.State(), err)
	}

	cfg.log.WithFields(logrus.Fields{
		"orbital":    wf.State().String(),
		"a0":         wf.A0(),
		"resolution": resolution,
		"entries":    cdfs[0].Len(),
		"grid_limit": cfg.gridLimit,
	}).Debug("built distributions")

	return wf, triple, nil
}

// Octant selects independent sign flips of the x, y and z axes.
type Octant uint8

const (
	FlipX Octant = 1 << iota
	FlipY
	FlipZ
)

// OctantFromFraction maps u in [0, 1) to one of the eight octants uniformly.
func OctantFromFraction(u float64) (Octant, error) {
	if !(u >= 0 && u < 1) {
		return 0, fmt.Errorf("%w: octant u=%g not in [0, 1)", ErrOutOfRangeFraction, u)
	}
	return Octant(int(u*8) & 7), nil
}

// Apply mirrors a half-domain sample into the octant. A z flip is θ -> π-θ,
// an x flip φ -> π-φ and a y flip φ -> -φ. φ is returned in [0, 2π).
func (o Octant) Apply(s Spherical) Spherical {
	if o&FlipZ != 0 {
		s.Theta = math.Pi - s.Theta
	}
	if o&FlipX != 0 {
		s.Phi = math.Pi - s.Phi
	}
	if o&FlipY != 0 {
		s.Phi = -s.Phi
	}
	s.Phi = math.Mod(s.Phi, 2*math.Pi)
	if s.Phi < 0 {
		s.Phi += 2 * math.Pi
	}
	if s.Phi >= 2*math.Pi {
		s.Phi = 0
	}
	return s
}

// Sample draws one point from d by inverse-transform sampling each axis and
// then randomising the octant.
func Sample(d *CDFTriple, rng UniformSource) (Spherical, error) {
	if err := d.Validate(); err != nil {
		return Spherical{}, err
	}
	if rng == nil {
		return Spherical{}, fmt.Errorf("%w: nil random source", ErrOutOfRangeFraction)
	}

	r, err := d.Radial.InverseTransform(rng.Float64())
	if err != nil {
		return Spherical{}, fmt.Errorf("radial: %w", err)
	}
	theta, err := d.Polar.InverseTransform(rng.Float64())
	if err != nil {
		return Spherical{}, fmt.Errorf("polar: %w", err)
	}
	phi, err := d.Azimuthal.InverseTransform(rng.Float64())
	if err != nil {
		return Spherical{}, fmt.Errorf("azimuthal: %w", err)
	}
	oct, err := OctantFromFraction(rng.Float64())
	if err != nil {
		return Spherical{}, err
	}

	return oct.Apply(Spherical{R: math.Abs(r), Theta: theta, Phi: phi}), nil
}

// Sampler couples a wavefunction with its distributions so samples can
// carry their density.
type Sampler struct {
	wf         *Wavefunction
	dist       *CDFTriple
	scale      float64
	resolution int
	gridLimit  float64
}

// NewSampler validates the state and tabulates its distributions.
func NewSampler(n, l, m int, scale float64, resolution int, opts ...Option) (*Sampler, error) {
	cfg := newBuildConfig(opts)
	wf, triple, err := build(n, l, m, scale, resolution, cfg)
	if err != nil {
		return nil, err
	}
	return &Sampler{
		wf:         wf,
		dist:       triple,
		scale:      scale,
		resolution: resolution,
		gridLimit:  cfg.gridLimit,
	}, nil
}

// Wavefunction returns the orbital being sampled.
func (s *Sampler) Wavefunction() *Wavefunction { return s.wf }

// Distributions returns the tabulated radial, polar and azimuthal CDFs.
func (s *Sampler) Distributions() *CDFTriple { return s.dist }

func (s *Sampler) Scale() float64 { return s.scale }

func (s *Sampler) Resolution() int { return s.resolution }

func (s *Sampler) GridLimit() float64 { return s.gridLimit }

// Sample draws one particle and evaluates ψ² at its position.
func (s *Sampler) Sample(rng UniformSource) (Particle, error) {
	sp, err := Sample(s.dist, rng)
	if err != nil {
		return Particle{}, err
	}
	return Particle{
		Point3D:   sp.Cartesian(),
		Spherical: sp,
		Density:   s.wf.ProbabilityDensity(sp.R, sp.Theta, sp.Phi),
	}, nil
}
