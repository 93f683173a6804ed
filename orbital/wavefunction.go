// =======================
// orbital/wavefunction.go
// =======================

package orbital

import (
	"fmt"
	"math"
)

// Wavefunction is a hydrogen-like orbital ψ_nlm(r, θ, φ) = R(r)·Θ(θ)·Φ(φ).
// The polynomials and their normalisation constants are computed once in
// NewWavefunction; evaluation afterwards is read-only.
type Wavefunction struct {
	state State
	a0    float64

	radialNorm  float64
	laguerre    Polynomial
	angularNorm float64
	legendre    Polynomial
}

// NewWavefunction returns ψ_nlm for Bohr radius a0, precomputing the
// normalisation constants and polynomials.
func NewWavefunction(n, l, m int, a0 float64) (*Wavefunction, error) {
	state := State{N: n, L: l, M: m}
	if err := state.Validate(); err != nil {
		return nil, err
	}
	if !(a0 > 0) || math.IsInf(a0, 0) {
		return nil, fmt.Errorf("%w: a0=%g must be positive and finite", ErrInvalidQuantumState, a0)
	}

	nf := float64(n)
	am := m
	if am < 0 {
		am = -am
	}

	// (n-l-1)! / (n+l)!
	radRatio, err := FactorialRatio(n-l-1, n+l)
	if err != nil {
		return nil, fmt.Errorf("radial normalisation failed: %w", err)
	}
	radialNorm := math.Sqrt(math.Pow(2/(nf*a0), 3) * radRatio / (2 * nf))

	lag, err := GeneralizedLaguerre(n-l-1, float64(2*l+1))
	if err != nil {
		return nil, fmt.Errorf("laguerre polynomial failed: %w", err)
	}

	// (l-|m|)! / (l+|m|)!
	angRatio, err := FactorialRatio(l-am, l+am)
	if err != nil {
		return nil, fmt.Errorf("angular normalisation failed: %w", err)
	}
	angularNorm := math.Sqrt(float64(2*l+1) * angRatio / (4 * math.Pi))
	if m%2 != 0 {
		angularNorm = -angularNorm
	}

	leg, err := AssociatedLegendre(l, am)
	if err != nil {
		return nil, fmt.Errorf("legendre polynomial failed: %w", err)
	}

	return &Wavefunction{
		state:       state,
		a0:          a0,
		radialNorm:  radialNorm,
		laguerre:    lag,
		angularNorm: angularNorm,
		legendre:    leg,
	}, nil
}

// State returns the quantum numbers.
func (w *Wavefunction) State() State { return w.state }

// A0 returns the Bohr radius the wavefunction was built with.
func (w *Wavefunction) A0() float64 { return w.a0 }

// Radial evaluates R(r) with ρ = 2r/(n·a0): k·L(ρ)·e^(-ρ/2)·ρ^l.
func (w *Wavefunction) Radial(r float64) float64 {
	p := 2 * r / (float64(w.state.N) * w.a0)
	return w.radialNorm * w.laguerre.Evaluate(p) * math.Exp(-p/2) * ipow(p, w.state.L)
}

// Polar evaluates the normalised θ part, k·P_l^|m|(cos θ).
func (w *Wavefunction) Polar(theta float64) float64 {
	return w.angularNorm * w.legendre.Evaluate(math.Cos(theta))
}

// Azimuthal is Re(e^(imφ)). The imaginary part is dropped: clouds follow
// the real orbital convention.
func (w *Wavefunction) Azimuthal(phi float64) float64 {
	return math.Cos(float64(w.state.M) * phi)
}

// Angular is the real spherical harmonic part, Polar·Azimuthal.
func (w *Wavefunction) Angular(theta, phi float64) float64 {
	return w.Polar(theta) * w.Azimuthal(phi)
}

// Psi evaluates ψ(r, θ, φ) = R(r)·Y(θ, φ).
func (w *Wavefunction) Psi(r, theta, phi float64) float64 {
	return w.Radial(r) * w.Angular(theta, phi)
}

// ProbabilityDensity is ψ², the target density for sampling.
func (w *Wavefunction) ProbabilityDensity(r, theta, phi float64) float64 {
	psi := w.Psi(r, theta, phi)
	return psi * psi
}

// ExpectedRadius is the analytic <r> = a0/2·(3n² - l(l+1)).
func (w *Wavefunction) ExpectedRadius() float64 {
	n, l := float64(w.state.N), float64(w.state.L)
	return w.a0 / 2 * (3*n*n - l*(l+1))
}

// String formats the state label and a0, e.g. "2p a0=1".
func (w *Wavefunction) String() string {
	return fmt.Sprintf("%s a0=%g", w.state, w.a0)
}
