// =======================
// orbital/types.go
// =======================

package orbital

import (
	"errors"
	"fmt"
	"math"
)

const (
	BohrRadius       = 5.29 // bohr radius in units of 10^-11 m
	DefaultGridLimit = 1000.0
	MaxPrincipal     = 20 // keeps (n+l)! and the polynomial coefficients well inside float64
	MinResolution    = 2
	MaxResolution    = 1 << 20
)

var (
	ErrInvalidQuantumState    = errors.New("invalid quantum state")
	ErrInvalidResolution      = errors.New("invalid resolution")
	ErrDomain                 = errors.New("domain error")
	ErrOutOfRangeFraction     = errors.New("fraction out of range")
	ErrDegenerateDistribution = errors.New("degenerate distribution")
)

// State is a set of quantum numbers (n, l, m).
type State struct {
	N int `json:"n" yaml:"n"`
	L int `json:"l" yaml:"l"`
	M int `json:"m" yaml:"m"`
}

// Validate reports ErrInvalidQuantumState unless n >= 1, 0 <= l < n and |m| <= l.
func (s State) Validate() error {
	if s.N < 1 || s.N > MaxPrincipal {
		return fmt.Errorf("%w: n=%d outside [1, %d]", ErrInvalidQuantumState, s.N, MaxPrincipal)
	}
	if s.L < 0 || s.L > s.N-1 {
		return fmt.Errorf("%w: l=%d outside [0, %d]", ErrInvalidQuantumState, s.L, s.N-1)
	}
	if s.M < -s.L || s.M > s.L {
		return fmt.Errorf("%w: m=%d outside [%d, %d]", ErrInvalidQuantumState, s.M, -s.L, s.L)
	}
	return nil
}

var subshells = "spdfghiklmnoqrtuvwxyz"

// String returns the spectroscopic label, e.g. "2p m=-1".
func (s State) String() string {
	label := fmt.Sprintf("%d?", s.N)
	if s.L >= 0 && s.L < len(subshells) {
		label = fmt.Sprintf("%d%c", s.N, subshells[s.L])
	}
	if s.M != 0 {
		label += fmt.Sprintf(" m=%d", s.M)
	}
	return label
}

// Spherical is a sample point in spherical coordinates.
// Theta is the polar angle from +z, Phi the azimuth from +x.
type Spherical struct {
	R     float64 `json:"r" yaml:"r"`
	Theta float64 `json:"theta" yaml:"theta"`
	Phi   float64 `json:"phi" yaml:"phi"`
}

// Cartesian converts s to x = r sinθ cosφ, y = r sinθ sinφ, z = r cosθ.
func (s Spherical) Cartesian() Point3D {
	st, ct := math.Sincos(s.Theta)
	sp, cp := math.Sincos(s.Phi)
	return Point3D{
		X: s.R * st * cp,
		Y: s.R * st * sp,
		Z: s.R * ct,
	}
}

// Particle is one sampled position with the probability density there.
type Particle struct {
	Point3D   `yaml:",inline"`
	Spherical Spherical `json:"spherical" yaml:"spherical"`
	Density   float64   `json:"density" yaml:"density"`
}
