package orbital

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// halfSteps is the number of grid points walked when a symmetric grid of
// resolution points is folded about its midpoint.
func halfSteps(resolution int) int {
	return (resolution + resolution%2) / 2
}

// halfAxis lays resolution points across [lo, hi] and returns the upper half,
// from the midpoint (or the first point past it) to hi, in increasing order.
func halfAxis(lo, hi float64, resolution int) []float64 {
	full := make([]float64, resolution)
	floats.Span(full, lo, hi)
	half := halfSteps(resolution)
	out := make([]float64, half)
	copy(out, full[resolution-half:])
	return out
}

// axis describes one spherical coordinate: its symmetric span and the
// integrand along it, Jacobian included.
type axis struct {
	name   string
	lo, hi float64
	weight func(x float64) float64
}

func radialAxis(w *Wavefunction, gridLimit float64) axis {
	return axis{
		name: "radial",
		lo:   -gridLimit / 2,
		hi:   gridLimit / 2,
		weight: func(r float64) float64 {
			r = math.Abs(r)
			rad := w.Radial(r)
			return r * r * rad * rad
		},
	}
}

// polarAxis spans [0, π]; the tabulated half is [π/2, π] and the z mirror
// θ -> π-θ recovers the rest.
func polarAxis(w *Wavefunction) axis {
	return axis{
		name: "polar",
		lo:   0,
		hi:   math.Pi,
		weight: func(theta float64) float64 {
			p := w.Polar(theta)
			return math.Abs(math.Sin(theta)) * p * p
		},
	}
}

// azimuthalAxis spans [-π/2, π/2]; the tabulated half is the first quadrant
// and the x and y mirrors cover the other three.
func azimuthalAxis(w *Wavefunction) axis {
	return axis{
		name: "azimuthal",
		lo:   -math.Pi / 2,
		hi:   math.Pi / 2,
		weight: func(phi float64) float64 {
			a := w.Azimuthal(phi)
			return a * a
		},
	}
}

// tabulate integrates the weight over the upper half of the axis with the
// trapezoid rule. Each entry holds the mass from the axis midpoint up to its
// value, so the first bucket runs from the midpoint to the first point.
func (a axis) tabulate(resolution int) (*CDF, error) {
	xs := halfAxis(a.lo, a.hi, resolution)
	mid := (a.lo + a.hi) / 2
	cdf := NewCDFFrom(mid, len(xs))
	prevX, prevW := mid, a.weight(mid)
	for _, x := range xs {
		w := a.weight(x)
		dx := math.Max(x-prevX, 0)
		if err := cdf.AddPoint(x, (prevW+w)/2*dx); err != nil {
			return nil, err
		}
		prevX, prevW = x, w
	}
	return cdf, nil
}
